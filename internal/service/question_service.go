package service

import (
	"context"
	"log/slog"
	"strings"

	"quiz-backend/internal/auth"
	"quiz-backend/internal/model"
	"quiz-backend/pkg/apierror"
)

type QuestionStore interface {
	List(ctx context.Context) ([]model.Question, error)
	ListByCategory(ctx context.Context, categoryID int) ([]model.Question, error)
	FindByID(ctx context.Context, id int) (model.Question, error)
	Create(ctx context.Context, in model.NewQuestion) (model.Question, error)
	Update(ctx context.Context, in model.ModifyQuestion) (model.Question, error)
}

type CategoryStore interface {
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, name string) (model.Category, error)
}

type QuestionService struct {
	questions  QuestionStore
	categories CategoryStore
}

func NewQuestionService(questions QuestionStore, categories CategoryStore) *QuestionService {
	return &QuestionService{questions: questions, categories: categories}
}

func (s *QuestionService) Categories(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

// Questions returns one question when id is set, the questions of a category
// when categoryID is set, and every question otherwise.
func (s *QuestionService) Questions(ctx context.Context, id *int, categoryID *int) ([]model.Question, error) {
	switch {
	case id != nil:
		q, err := s.questions.FindByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		return []model.Question{q}, nil
	case categoryID != nil:
		return s.questions.ListByCategory(ctx, *categoryID)
	default:
		return s.questions.List(ctx)
	}
}

func (s *QuestionService) Add(ctx context.Context, in model.NewQuestion) (model.Question, error) {
	identity, err := requireAdmin(ctx)
	if err != nil {
		return model.Question{}, err
	}
	if err := in.Validate(); err != nil {
		return model.Question{}, apierror.BadRequest("invalid question", err.Error())
	}

	q, err := s.questions.Create(ctx, in)
	if err != nil {
		return model.Question{}, err
	}

	slog.Info("question added", "question_id", q.ID, "user_id", identity.ID)
	return q, nil
}

func (s *QuestionService) Modify(ctx context.Context, in model.ModifyQuestion) (model.Question, error) {
	identity, err := requireAdmin(ctx)
	if err != nil {
		return model.Question{}, err
	}
	if err := in.Validate(); err != nil {
		return model.Question{}, apierror.BadRequest("invalid question", err.Error())
	}

	q, err := s.questions.Update(ctx, in)
	if err != nil {
		return model.Question{}, err
	}

	slog.Info("question modified", "question_id", q.ID, "user_id", identity.ID)
	return q, nil
}

func (s *QuestionService) AddCategory(ctx context.Context, name string) (model.Category, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return model.Category{}, err
	}
	in := model.NewCategory{Name: strings.TrimSpace(name)}
	if err := in.Validate(); err != nil {
		return model.Category{}, apierror.BadRequest("invalid category", err.Error())
	}
	return s.categories.Create(ctx, in.Name)
}

func requireAdmin(ctx context.Context) (model.SafeUser, error) {
	identity, err := auth.RequireIdentity(ctx)
	if err != nil {
		return model.SafeUser{}, err
	}
	if err := auth.RequireAdmin(identity); err != nil {
		return model.SafeUser{}, err
	}
	return identity, nil
}
