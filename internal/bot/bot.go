package bot

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"moviesearch-bot/internal/dialog"
	"moviesearch-bot/internal/models"
	"moviesearch-bot/internal/repository"
	"moviesearch-bot/internal/service"
)

const welcomeText = "Добро пожаловать в MovieSearchBot!\n\n" +
	"Я помогу вам найти информацию о фильмах и сериалах с Kinopoisk.\n" +
	"Используйте кнопки ниже для навигации."

const helpText = "<b>Доступные команды:</b>\n\n" +
	"<b>Поиск по названию</b> - найти фильм по названию\n" +
	"<b>Поиск по рейтингу</b> - найти фильмы в указанном диапазоне рейтинга\n" +
	"<b>Поиск по бюджету</b> - найти фильмы с высоким или низким бюджетом\n" +
	"<b>История поиска</b> - просмотреть историю ваших запросов\n\n" +
	"После поиска вы можете отмечать фильмы как просмотренные."

// Dispatcher routes inbound Telegram updates to the wizard, the search
// orchestrator and the history presenter. Updates from the same user are
// handled strictly one at a time; different users never contend.
type Dispatcher struct {
	api     *tgbotapi.BotAPI
	wizards *dialog.Manager
	search  *service.SearchService
	history *service.HistoryService

	locks sync.Map // telegram user ID -> *sync.Mutex
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(api *tgbotapi.BotAPI, wizards *dialog.Manager,
	search *service.SearchService, history *service.HistoryService) *Dispatcher {
	return &Dispatcher{
		api:     api,
		wizards: wizards,
		search:  search,
		history: history,
	}
}

// Run consumes updates via long polling until the context is cancelled.
// In webhook mode the fiber handler feeds HandleUpdate instead.
func (d *Dispatcher) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := d.api.GetUpdatesChan(cfg)

	slog.Info("telegram polling started", "bot", d.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			d.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go d.HandleUpdate(update)
		}
	}
}

// HandleUpdate processes one update to completion under the sender's lock.
func (d *Dispatcher) HandleUpdate(update tgbotapi.Update) {
	from := update.SentFrom()
	if from == nil {
		return
	}

	lock := d.userLock(from.ID)
	lock.Lock()
	defer lock.Unlock()

	switch {
	case update.CallbackQuery != nil:
		d.handleCallback(update.CallbackQuery)
	case update.Message != nil:
		d.handleMessage(update.Message)
	}
}

func (d *Dispatcher) userLock(userID int64) *sync.Mutex {
	v, _ := d.locks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (d *Dispatcher) handleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID
	username := msg.From.UserName

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			d.wizards.Clear(userID)
			d.sendText(chatID, welcomeText, mainKeyboard())
		case "help":
			d.sendHTML(chatID, helpText, nil)
		case "history":
			d.sendText(chatID, "Выберите вариант просмотра истории:", historyMenuKeyboard())
		default:
			d.sendText(chatID, "Неизвестная команда. Используйте кнопки меню.", mainKeyboard())
		}
		return
	}

	switch msg.Text {
	case LabelSearchByName:
		d.beginWizard(chatID, userID, models.SearchByName)
	case LabelSearchByRating:
		d.beginWizard(chatID, userID, models.SearchByRating)
	case LabelSearchByBudget:
		d.beginWizard(chatID, userID, models.SearchByBudget)
	case LabelHistory:
		d.sendText(chatID, "Выберите вариант просмотра истории:", historyMenuKeyboard())
	case LabelHelp:
		d.sendHTML(chatID, helpText, nil)
	case LabelLastFive:
		d.listHistory(chatID, userID, username)
	case LabelBackToMenu:
		d.sendText(chatID, "Главное меню:", mainKeyboard())
	default:
		d.advanceWizard(chatID, userID, username, msg.Text)
	}
}

func (d *Dispatcher) beginWizard(chatID, userID int64, kind models.SearchKind) {
	prompt := d.wizards.Begin(userID, kind)
	d.sendPrompt(chatID, prompt)
}

func (d *Dispatcher) advanceWizard(chatID, userID int64, username, input string) {
	if !d.wizards.Active(userID) {
		d.sendText(chatID, "Используйте кнопки меню для навигации.", mainKeyboard())
		return
	}

	out := d.wizards.Advance(userID, input)
	if out.Criteria != nil {
		d.runSearch(chatID, userID, username, *out.Criteria)
		return
	}
	d.sendPrompt(chatID, out.Prompt)
}

func (d *Dispatcher) sendPrompt(chatID int64, prompt dialog.Prompt) {
	switch prompt {
	case dialog.PromptNone:
	case dialog.PromptQuery:
		d.sendText(chatID, "Введите название фильма или сериала:", tgbotapi.NewRemoveKeyboard(false))
	case dialog.PromptRatingRange:
		d.sendText(chatID, "Введите диапазон рейтинга в формате минимум-максимум, например: 7-10",
			tgbotapi.NewRemoveKeyboard(false))
	case dialog.PromptBudget:
		d.sendText(chatID, "Выберите тип бюджета:", budgetKeyboard())
	case dialog.PromptGenre:
		d.sendText(chatID, "Выберите жанр или нажмите «Пропустить»:", genreKeyboard())
	case dialog.PromptCount:
		d.sendText(chatID, "Сколько результатов показать? Выберите от 1 до 10:", countKeyboard())
	case dialog.PromptInvalidRating:
		d.sendText(chatID, "Неверный формат. Введите диапазон рейтинга, например: 7-10", nil)
	case dialog.PromptInvalidBudget:
		d.sendText(chatID, "Пожалуйста, выберите один из вариантов:", budgetKeyboard())
	case dialog.PromptInvalidCount:
		d.sendText(chatID, "Нужно целое число от 1 до 10:", countKeyboard())
	}
}

func (d *Dispatcher) runSearch(chatID, userID int64, username string, c models.SearchCriteria) {
	outcomes, err := d.search.Run(context.Background(), userID, username, c)
	if err != nil {
		if errors.Is(err, service.ErrRateLimited) {
			d.sendText(chatID, "Слишком много запросов, попробуйте чуть позже.", mainKeyboard())
			return
		}
		slog.Error("search failed", "telegram_id", userID, "error", err)
		d.sendText(chatID, "Произошла ошибка, попробуйте позже.", mainKeyboard())
		return
	}

	if len(outcomes) == 0 {
		d.sendText(chatID, "По вашему запросу ничего не найдено.", mainKeyboard())
		return
	}

	for _, o := range outcomes {
		var markup interface{}
		if o.ResultID > 0 {
			markup = watchKeyboard(o.ResultID)
		}
		d.sendCard(chatID, o.View, markup)
	}
	d.sendText(chatID, "Готово! Что дальше?", mainKeyboard())
}

func (d *Dispatcher) listHistory(chatID, userID int64, username string) {
	entries, err := d.history.ListRecent(userID, username, 5)
	if err != nil {
		slog.Error("failed to list history", "telegram_id", userID, "error", err)
		d.sendText(chatID, "Произошла ошибка, попробуйте позже.", mainKeyboard())
		return
	}
	if len(entries) == 0 {
		d.sendText(chatID, "История поиска пуста.", mainKeyboard())
		return
	}

	for _, e := range entries {
		d.sendHTML(chatID, FormatHistoryEntry(e), showSearchKeyboard(e.ID))
	}
}

func (d *Dispatcher) handleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		d.answerCallback(cq.ID, "")
		return
	}
	chatID := cq.Message.Chat.ID

	action, id, err := ParseCallback(cq.Data)
	if err != nil {
		slog.Warn("unparseable callback", "data", cq.Data)
		d.answerCallback(cq.ID, "")
		return
	}

	switch action {
	case callbackShowSearch:
		d.revealResults(chatID, id)
		d.answerCallback(cq.ID, "")
	case callbackWatched:
		watched, err := d.history.ToggleWatched(id)
		if errors.Is(err, repository.ErrNotFound) {
			d.answerCallback(cq.ID, "Этот результат больше недоступен.")
			return
		}
		if err != nil {
			slog.Error("failed to toggle watched", "result_id", id, "error", err)
			d.answerCallback(cq.ID, "Произошла ошибка, попробуйте позже.")
			return
		}
		if watched {
			d.answerCallback(cq.ID, "Отмечено как просмотренное")
		} else {
			d.answerCallback(cq.ID, "Отметка о просмотре снята")
		}
	default:
		d.answerCallback(cq.ID, "")
	}
}

func (d *Dispatcher) revealResults(chatID int64, searchID int) {
	cards, err := d.history.RevealResults(searchID)
	if errors.Is(err, repository.ErrNotFound) {
		d.sendText(chatID, "Этот поиск больше недоступен.", nil)
		return
	}
	if err != nil {
		slog.Error("failed to reveal results", "search_id", searchID, "error", err)
		d.sendText(chatID, "Произошла ошибка, попробуйте позже.", nil)
		return
	}
	if len(cards) == 0 {
		d.sendText(chatID, "По этому запросу ничего не было найдено.", nil)
		return
	}

	for _, c := range cards {
		d.sendCard(chatID, models.ViewFromMovie(c.Movie), watchKeyboard(c.ResultID))
	}
}

// sendCard sends one movie card, as a photo when a poster is available.
func (d *Dispatcher) sendCard(chatID int64, v models.MovieView, markup interface{}) {
	text := FormatMovieCard(v)

	if v.PosterURL != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(v.PosterURL))
		photo.Caption = text
		photo.ParseMode = tgbotapi.ModeHTML
		if markup != nil {
			photo.ReplyMarkup = markup
		}
		_, err := d.api.Send(photo)
		if err == nil {
			return
		}
		slog.Warn("failed to send photo, falling back to text", "error", err)
	}

	d.sendHTML(chatID, text, markup)
}

func (d *Dispatcher) sendText(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := d.api.Send(msg); err != nil {
		slog.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

func (d *Dispatcher) sendHTML(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := d.api.Send(msg); err != nil {
		slog.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

func (d *Dispatcher) answerCallback(callbackID, text string) {
	if _, err := d.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		slog.Error("failed to answer callback", "error", err)
	}
}
