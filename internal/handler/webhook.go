package handler

import (
	"encoding/json"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v3"

	"moviesearch-bot/internal/bot"
)

// WebhookHandler receives Telegram updates over HTTP when the bot runs in
// webhook mode instead of long polling.
type WebhookHandler struct {
	dispatcher *bot.Dispatcher
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(dispatcher *bot.Dispatcher) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher}
}

// Handle decodes one Telegram update and hands it to the dispatcher.
// Telegram only needs a 200; processing happens in the background.
func (h *WebhookHandler) Handle(c fiber.Ctx) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(c.Body(), &update); err != nil {
		slog.Warn("malformed webhook update", "error", err)
		return c.SendStatus(fiber.StatusBadRequest)
	}

	go h.dispatcher.HandleUpdate(update)
	return c.SendStatus(fiber.StatusOK)
}
