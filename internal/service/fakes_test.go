package service

import (
	"context"
	"sort"
	"sync"

	"quiz-backend/internal/model"
)

type memoryUsers struct {
	mu      sync.Mutex
	byID    map[int]model.User
	nextID  int
	lookups int
	err     error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[int]model.User{}, nextID: 1}
}

func (m *memoryUsers) FindByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lookups++
	if m.err != nil {
		return model.User{}, m.err
	}
	for _, u := range m.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (m *memoryUsers) FindSafeByID(_ context.Context, id int) (model.SafeUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return model.SafeUser{}, model.ErrUserNotFound
	}
	return u.Safe(), nil
}

func (m *memoryUsers) Create(_ context.Context, rec model.UserRecord) (model.SafeUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.byID {
		if u.Username == rec.Username {
			return model.SafeUser{}, model.ErrUserAlreadyExists
		}
	}
	u := model.User{ID: m.nextID, Username: rec.Username, PasswordHash: rec.PasswordHash, Nickname: rec.Nickname, IsAdmin: rec.IsAdmin}
	m.byID[u.ID] = u
	m.nextID++
	return u.Safe(), nil
}

func (m *memoryUsers) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memoryUsers) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID), nil
}

func (m *memoryUsers) setAdmin(id int, admin bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byID[id]
	u.IsAdmin = admin
	m.byID[id] = u
}

type memoryComments struct {
	byID   map[int]model.Comment
	likes  map[int]map[int]bool
	nextID int
}

func newMemoryComments() *memoryComments {
	return &memoryComments{byID: map[int]model.Comment{}, likes: map[int]map[int]bool{}, nextID: 1}
}

func (m *memoryComments) FindByID(_ context.Context, id int) (model.Comment, error) {
	c, ok := m.byID[id]
	if !ok {
		return model.Comment{}, model.ErrCommentNotFound
	}
	c.Likes = len(m.likes[id])
	return c, nil
}

func (m *memoryComments) ListForQuestion(ctx context.Context, questionID int) ([]model.Comment, error) {
	out := make([]model.Comment, 0)
	for id, c := range m.byID {
		if c.QuestionID == questionID {
			c, _ = m.FindByID(ctx, id)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryComments) Create(_ context.Context, rec model.CommentRecord) (model.Comment, error) {
	c := model.Comment{
		ID:              m.nextID,
		Content:         rec.Content,
		SuggestedAnswer: rec.SuggestedAnswer,
		QuestionID:      rec.QuestionID,
		Author:          model.SafeUser{ID: rec.UserID},
	}
	m.byID[c.ID] = c
	m.nextID++
	return c, nil
}

func (m *memoryComments) Update(_ context.Context, in model.ModifyComment) (model.Comment, error) {
	c, ok := m.byID[in.ID]
	if !ok {
		return model.Comment{}, model.ErrCommentNotFound
	}
	c.Content = in.Content
	c.SuggestedAnswer = in.SuggestedAnswer
	m.byID[in.ID] = c
	return c, nil
}

func (m *memoryComments) Delete(_ context.Context, id int) error {
	if _, ok := m.byID[id]; !ok {
		return model.ErrCommentNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memoryComments) Like(_ context.Context, commentID, userID int) error {
	if _, ok := m.byID[commentID]; !ok {
		return model.ErrCommentNotFound
	}
	if m.likes[commentID] == nil {
		m.likes[commentID] = map[int]bool{}
	}
	m.likes[commentID][userID] = true
	return nil
}

type memoryQuestions struct {
	byID   map[int]model.Question
	nextID int
}

func newMemoryQuestions() *memoryQuestions {
	return &memoryQuestions{byID: map[int]model.Question{}, nextID: 1}
}

func (m *memoryQuestions) List(_ context.Context) ([]model.Question, error) {
	out := make([]model.Question, 0, len(m.byID))
	for _, q := range m.byID {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryQuestions) ListByCategory(ctx context.Context, categoryID int) ([]model.Question, error) {
	all, _ := m.List(ctx)
	out := make([]model.Question, 0)
	for _, q := range all {
		for _, c := range q.Categories {
			if c.ID == categoryID {
				out = append(out, q)
				break
			}
		}
	}
	return out, nil
}

func (m *memoryQuestions) FindByID(_ context.Context, id int) (model.Question, error) {
	q, ok := m.byID[id]
	if !ok {
		return model.Question{}, model.ErrQuestionNotFound
	}
	return q, nil
}

func (m *memoryQuestions) Create(_ context.Context, in model.NewQuestion) (model.Question, error) {
	q := model.Question{ID: m.nextID, Content: in.Content, Answers: in.Answers, CorrectAnswer: in.CorrectAnswer}
	for _, id := range in.CategoryIDs {
		q.Categories = append(q.Categories, model.Category{ID: id})
	}
	m.byID[q.ID] = q
	m.nextID++
	return q, nil
}

func (m *memoryQuestions) Update(_ context.Context, in model.ModifyQuestion) (model.Question, error) {
	q, ok := m.byID[in.ID]
	if !ok {
		return model.Question{}, model.ErrQuestionNotFound
	}
	q.Content, q.Answers, q.CorrectAnswer = in.Content, in.Answers, in.CorrectAnswer
	m.byID[in.ID] = q
	return q, nil
}

type memoryCategories struct {
	items []model.Category
}

func (m *memoryCategories) List(_ context.Context) ([]model.Category, error) {
	return m.items, nil
}

func (m *memoryCategories) Create(_ context.Context, name string) (model.Category, error) {
	c := model.Category{ID: len(m.items) + 1, Name: name}
	m.items = append(m.items, c)
	return c, nil
}
