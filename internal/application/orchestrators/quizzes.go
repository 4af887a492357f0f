package orchestrators

import (
	"context"
	"fmt"
	"strings"

	"growfitness/internal/domain/audit"
	"growfitness/internal/domain/quiz"
)

// QuizStoreForOrchestrator defines the store interface needed by the quiz orchestrators.
type QuizStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (quiz.Quiz, error)
	Save(ctx context.Context, q quiz.Quiz) error
	Delete(ctx context.Context, id string) error
}

// QuizDeps holds dependencies for the quiz orchestrators.
type QuizDeps struct {
	Runtime
	QuizStore QuizStoreForOrchestrator
}

// QuestionInput is one question in a create or update body.
type QuestionInput struct {
	Question      string   `json:"question" validate:"required"`
	Type          string   `json:"type" validate:"required,oneof=MULTIPLE_CHOICE TRUE_FALSE SHORT_ANSWER"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
	Points        int      `json:"points" validate:"min=0"`
}

// CreateQuizInput carries input for creating a quiz.
type CreateQuizInput struct {
	ActorID        string          `json:"-"`
	Title          string          `json:"title" validate:"required"`
	Description    string          `json:"description"`
	Questions      []QuestionInput `json:"questions" validate:"required,min=1,dive"`
	TargetAudience string          `json:"targetAudience" validate:"required,oneof=PARENT COACH ALL"`
	PassingScore   int             `json:"passingScore" validate:"min=0,max=100"`
}

// UpdateQuizInput carries a partial quiz update.
type UpdateQuizInput struct {
	ID             string           `json:"-"`
	ActorID        string           `json:"-"`
	Title          *string          `json:"title" validate:"omitempty,min=1"`
	Description    *string          `json:"description"`
	Questions      *[]QuestionInput `json:"questions" validate:"omitempty,min=1,dive"`
	TargetAudience *string          `json:"targetAudience" validate:"omitempty,oneof=PARENT COACH ALL"`
	PassingScore   *int             `json:"passingScore" validate:"omitempty,min=0,max=100"`
	IsActive       *bool            `json:"isActive"`
}

// ExecuteCreateQuiz creates an active quiz.
// INVARIANT: multiple-choice questions keep at least two options and a listed correct answer
func ExecuteCreateQuiz(ctx context.Context, input CreateQuizInput, deps QuizDeps) (quiz.Quiz, error) {
	now := deps.Now()
	q := quiz.Quiz{
		ID:             deps.GenerateID(),
		Title:          strings.TrimSpace(input.Title),
		Description:    input.Description,
		Questions:      toQuestions(input.Questions),
		TargetAudience: input.TargetAudience,
		PassingScore:   input.PassingScore,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := q.Validate(); err != nil {
		return quiz.Quiz{}, err
	}
	if err := deps.QuizStore.Save(ctx, q); err != nil {
		return quiz.Quiz{}, fmt.Errorf("save quiz: %w", err)
	}
	deps.record(ctx, input.ActorID, "CREATE_QUIZ", audit.EntityQuiz, q.ID, map[string]any{"title": q.Title})
	return q, nil
}

// ExecuteUpdateQuiz applies a partial update; question rules hold on the merged quiz.
func ExecuteUpdateQuiz(ctx context.Context, input UpdateQuizInput, deps QuizDeps) (quiz.Quiz, error) {
	q, err := deps.QuizStore.GetByID(ctx, input.ID)
	if err != nil {
		return quiz.Quiz{}, lookup(err, quiz.ErrNotFound, "quiz")
	}
	if input.Title != nil {
		q.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		q.Description = *input.Description
	}
	if input.Questions != nil {
		q.Questions = toQuestions(*input.Questions)
	}
	if input.TargetAudience != nil {
		q.TargetAudience = *input.TargetAudience
	}
	if input.PassingScore != nil {
		q.PassingScore = *input.PassingScore
	}
	if input.IsActive != nil {
		q.IsActive = *input.IsActive
	}
	if err := q.Validate(); err != nil {
		return quiz.Quiz{}, err
	}
	q.UpdatedAt = deps.Now()
	if err := deps.QuizStore.Save(ctx, q); err != nil {
		return quiz.Quiz{}, fmt.Errorf("save quiz: %w", err)
	}
	deps.record(ctx, input.ActorID, "UPDATE_QUIZ", audit.EntityQuiz, q.ID, nil)
	return q, nil
}

// ExecuteDeleteQuiz removes a quiz.
func ExecuteDeleteQuiz(ctx context.Context, id, actorID string, deps QuizDeps) error {
	if _, err := deps.QuizStore.GetByID(ctx, id); err != nil {
		return lookup(err, quiz.ErrNotFound, "quiz")
	}
	if err := deps.QuizStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	deps.record(ctx, actorID, "DELETE_QUIZ", audit.EntityQuiz, id, nil)
	return nil
}

func toQuestions(in []QuestionInput) []quiz.Question {
	out := make([]quiz.Question, len(in))
	for i, q := range in {
		out[i] = quiz.Question{
			Question:      strings.TrimSpace(q.Question),
			Type:          q.Type,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Points:        q.Points,
		}
	}
	return out
}
