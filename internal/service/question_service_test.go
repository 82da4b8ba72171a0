package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-backend/internal/auth"
	"quiz-backend/internal/model"
	"quiz-backend/pkg/apierror"
)

func TestQuestionServiceAdminGate(t *testing.T) {
	t.Parallel()

	svc := NewQuestionService(newMemoryQuestions(), &memoryCategories{})
	user := auth.ContextWithIdentity(context.Background(), model.SafeUser{ID: 1})
	admin := auth.ContextWithIdentity(context.Background(), model.SafeUser{ID: 2, IsAdmin: true})

	in := model.NewQuestion{Content: "2+2?", Answers: []string{"1", "2", "3", "4", "5"}, CategoryIDs: []int{1}}

	_, err := svc.Add(context.Background(), in)
	assert.Equal(t, apierror.KindNotAuthorized, apierror.KindOf(err))

	_, err = svc.Add(user, in)
	assert.Equal(t, apierror.KindNotAuthorized, apierror.KindOf(err))

	q, err := svc.Add(admin, in)
	require.NoError(t, err)

	four := 4
	modified, err := svc.Modify(admin, model.ModifyQuestion{ID: q.ID, Content: q.Content, Answers: q.Answers, CorrectAnswer: &four})
	require.NoError(t, err)
	assert.Equal(t, 4, *modified.CorrectAnswer)

	_, err = svc.Modify(user, model.ModifyQuestion{ID: q.ID, Content: "x", Answers: q.Answers})
	assert.Equal(t, apierror.KindNotAuthorized, apierror.KindOf(err))

	_, err = svc.Add(admin, model.NewQuestion{Content: "?", Answers: []string{"only one"}})
	assert.Equal(t, apierror.KindBadRequest, apierror.KindOf(err))
}

func TestQuestionServiceQueries(t *testing.T) {
	t.Parallel()

	questions := newMemoryQuestions()
	svc := NewQuestionService(questions, &memoryCategories{items: []model.Category{{ID: 1, Name: "math"}}})
	ctx := context.Background()

	answers := []string{"a", "b", "c", "d", "e"}
	_, _ = questions.Create(ctx, model.NewQuestion{Content: "first", Answers: answers, CategoryIDs: []int{1}})
	_, _ = questions.Create(ctx, model.NewQuestion{Content: "second", Answers: answers})

	all, err := svc.Questions(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one := 1
	byCategory, err := svc.Questions(ctx, nil, &one)
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "first", byCategory[0].Content)

	two := 2
	byID, err := svc.Questions(ctx, &two, nil)
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, "second", byID[0].Content)

	missing := 42
	_, err = svc.Questions(ctx, &missing, nil)
	assert.ErrorIs(t, err, model.ErrQuestionNotFound)

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "math", categories[0].Name)
}

func TestQuestionServiceAddCategory(t *testing.T) {
	t.Parallel()

	svc := NewQuestionService(newMemoryQuestions(), &memoryCategories{})
	admin := auth.ContextWithIdentity(context.Background(), model.SafeUser{ID: 2, IsAdmin: true})

	_, err := svc.AddCategory(context.Background(), "history")
	assert.Equal(t, apierror.KindNotAuthorized, apierror.KindOf(err))

	for _, name := range []string{"", "   ", strings.Repeat("x", model.MaxCategoryName+1)} {
		_, err = svc.AddCategory(admin, name)
		assert.Equal(t, apierror.KindBadRequest, apierror.KindOf(err), "%q", name)
	}

	c, err := svc.AddCategory(admin, "  history ")
	require.NoError(t, err)
	assert.Equal(t, "history", c.Name)
}
