package dialog

import (
	"strconv"
	"strings"

	"moviesearch-bot/internal/models"
)

// Step is the wizard position for one user.
type Step int

const (
	StepIdle Step = iota
	StepAwaitQuery
	StepAwaitRatingRange
	StepAwaitBudget
	StepAwaitGenre
	StepAwaitCount
)

// Prompt tells the transport which message to show next. The machine never
// talks to the transport directly.
type Prompt int

const (
	PromptNone Prompt = iota
	PromptQuery
	PromptRatingRange
	PromptBudget
	PromptGenre
	PromptCount
	PromptInvalidRating
	PromptInvalidBudget
	PromptInvalidCount
)

// Button labels the wizard validates against. The keyboards are built from
// these same constants so the machine and the transport cannot drift apart.
const (
	LabelHighBudget = "Высокий бюджет"
	LabelLowBudget  = "Низкий бюджет"
	LabelSkipGenre  = "Пропустить"
)

// Genres is the fixed genre keyboard. Input on the genre step is stored
// verbatim even when it is not on this list; the list only drives the
// keyboard layout.
var Genres = []string{
	"боевик", "комедия", "фантастика", "ужасы",
	"триллер", "драма", "мелодрама", "детектив",
	"фэнтези", "приключения", "аниме", "мультфильм",
}

// DefaultResultCount is used until the user picks a count.
const DefaultResultCount = 5

// State is the in-progress wizard for one user. Volatile; never persisted.
type State struct {
	Step        Step
	Kind        models.SearchKind
	Query       string
	MinRating   float64
	MaxRating   float64
	BudgetTier  models.BudgetTier
	Genre       string
	ResultCount int
}

// Outcome is the result of feeding one input to the machine.
type Outcome struct {
	State    State
	Prompt   Prompt
	Criteria *models.SearchCriteria // non-nil only when the wizard completed
}

// Begin starts a fresh wizard of the given kind, discarding any prior
// progress, and returns the state plus the first prompt.
func Begin(kind models.SearchKind) (State, Prompt) {
	s := State{Kind: kind, ResultCount: DefaultResultCount}
	switch kind {
	case models.SearchByRating:
		s.Step = StepAwaitRatingRange
		return s, PromptRatingRange
	case models.SearchByBudget:
		s.Step = StepAwaitBudget
		return s, PromptBudget
	default:
		s.Step = StepAwaitQuery
		return s, PromptQuery
	}
}

// Advance feeds one user input to the machine. Invalid input re-prompts and
// leaves the state untouched; valid input moves to the next step. When the
// final step is passed the outcome carries the accumulated criteria and an
// idle state.
func Advance(s State, input string) Outcome {
	switch s.Step {
	case StepAwaitQuery:
		if strings.TrimSpace(input) == "" {
			return Outcome{State: s, Prompt: PromptQuery}
		}
		s.Query = input
		s.Step = StepAwaitGenre
		return Outcome{State: s, Prompt: PromptGenre}

	case StepAwaitRatingRange:
		min, max, ok := parseRatingRange(input)
		if !ok {
			return Outcome{State: s, Prompt: PromptInvalidRating}
		}
		s.MinRating = min
		s.MaxRating = max
		s.Step = StepAwaitGenre
		return Outcome{State: s, Prompt: PromptGenre}

	case StepAwaitBudget:
		switch input {
		case LabelHighBudget:
			s.BudgetTier = models.BudgetHigh
		case LabelLowBudget:
			s.BudgetTier = models.BudgetLow
		default:
			return Outcome{State: s, Prompt: PromptInvalidBudget}
		}
		s.Step = StepAwaitGenre
		return Outcome{State: s, Prompt: PromptGenre}

	case StepAwaitGenre:
		if input != LabelSkipGenre {
			s.Genre = input
		}
		s.Step = StepAwaitCount
		return Outcome{State: s, Prompt: PromptCount}

	case StepAwaitCount:
		n, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil || n < 1 || n > 10 {
			return Outcome{State: s, Prompt: PromptInvalidCount}
		}
		s.ResultCount = n
		criteria := &models.SearchCriteria{
			Kind:        s.Kind,
			Query:       s.Query,
			MinRating:   s.MinRating,
			MaxRating:   s.MaxRating,
			BudgetTier:  s.BudgetTier,
			Genre:       s.Genre,
			ResultCount: s.ResultCount,
		}
		return Outcome{State: State{Step: StepIdle}, Criteria: criteria}
	}

	return Outcome{State: s}
}

// parseRatingRange parses "<number>-<number>" into two floats. There is no
// ordering check: "9-2" is accepted with min=9, max=2.
func parseRatingRange(input string) (min, max float64, ok bool) {
	parts := strings.Split(strings.TrimSpace(input), "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	min, errMin := parseFloat(parts[0])
	max, errMax := parseFloat(parts[1])
	if errMin != nil || errMax != nil {
		return 0, 0, false
	}
	return min, max, true
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
