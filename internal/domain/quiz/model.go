package quiz

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Question type constants
const (
	QuestionMultipleChoice = "MULTIPLE_CHOICE"
	QuestionTrueFalse      = "TRUE_FALSE"
	QuestionShortAnswer    = "SHORT_ANSWER"
)

// Target audiences reuse the banner audience values.
const (
	AudienceParent = "PARENT"
	AudienceCoach  = "COACH"
	AudienceAll    = "ALL"
)

// Domain errors
var (
	ErrNotFound            = errors.New("Quiz not found")
	ErrEmptyTitle          = errors.New("quiz title is required")
	ErrNoQuestions         = errors.New("quiz requires at least one question")
	ErrInvalidQuestion     = errors.New("invalid question")
	ErrInvalidPassingScore = errors.New("passingScore must be between 0 and 100")
	ErrInvalidAudience     = errors.New("targetAudience must be one of: PARENT, COACH, ALL")
)

// Question is one quiz item.
type Question struct {
	Question      string   `json:"question"`
	Type          string   `json:"type"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer"`
	Points        int      `json:"points"`
}

// Quiz is a set of questions targeted at parents or coaches.
type Quiz struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Questions      []Question `json:"questions"`
	TargetAudience string     `json:"targetAudience"`
	PassingScore   int        `json:"passingScore"`
	IsActive       bool       `json:"isActive"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Validate checks the quiz and every question.
// PRE: Quiz struct is populated
// POST: Returns nil if valid; question errors wrap ErrInvalidQuestion with a 1-based index
// INVARIANT: multiple-choice questions keep at least two options and a listed correct answer
func (q *Quiz) Validate() error {
	if strings.TrimSpace(q.Title) == "" {
		return ErrEmptyTitle
	}
	if q.TargetAudience != AudienceParent && q.TargetAudience != AudienceCoach && q.TargetAudience != AudienceAll {
		return ErrInvalidAudience
	}
	if q.PassingScore < 0 || q.PassingScore > 100 {
		return ErrInvalidPassingScore
	}
	if len(q.Questions) == 0 {
		return ErrNoQuestions
	}
	for i, qu := range q.Questions {
		if err := qu.Validate(); err != nil {
			return fmt.Errorf("%w: question %d: %s", ErrInvalidQuestion, i+1, err.Error())
		}
	}
	return nil
}

// Validate checks a single question.
func (qu Question) Validate() error {
	if strings.TrimSpace(qu.Question) == "" {
		return errors.New("question text is required")
	}
	if qu.Points < 0 {
		return errors.New("points cannot be negative")
	}
	switch qu.Type {
	case QuestionMultipleChoice:
		if len(nonBlank(qu.Options)) < 2 {
			return errors.New("multiple choice questions need at least two options")
		}
		for _, o := range qu.Options {
			if o == qu.CorrectAnswer {
				return nil
			}
		}
		return errors.New("correct answer must be one of the options")
	case QuestionTrueFalse:
		if qu.CorrectAnswer != "true" && qu.CorrectAnswer != "false" {
			return errors.New(`correct answer must be "true" or "false"`)
		}
	case QuestionShortAnswer:
		if strings.TrimSpace(qu.CorrectAnswer) == "" {
			return errors.New("correct answer is required")
		}
	default:
		return errors.New("type must be MULTIPLE_CHOICE, TRUE_FALSE or SHORT_ANSWER")
	}
	return nil
}

// TotalPoints sums the points of every question.
func (q *Quiz) TotalPoints() int {
	total := 0
	for _, qu := range q.Questions {
		total += qu.Points
	}
	return total
}

func nonBlank(opts []string) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		if strings.TrimSpace(o) != "" {
			out = append(out, o)
		}
	}
	return out
}
