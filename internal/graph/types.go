package graph

import (
	"context"

	"quiz-backend/internal/model"
)

type tokensResolver struct {
	t model.Tokens
}

func (r *tokensResolver) AccessToken() string { return r.t.AccessToken }

func (r *tokensResolver) RefreshToken() *string {
	if r.t.RefreshToken == "" {
		return nil
	}
	return &r.t.RefreshToken
}

func (r *tokensResolver) TokenType() string { return r.t.TokenType }
func (r *tokensResolver) ExpiresIn() int32 { return int32(r.t.ExpiresIn) }

type userResolver struct {
	u model.SafeUser
}

func (r *userResolver) ID() int32 { return int32(r.u.ID) }
func (r *userResolver) Username() string { return r.u.Username }
func (r *userResolver) Nickname() string { return r.u.Nickname }
func (r *userResolver) IsAdmin() bool { return r.u.IsAdmin }

type categoryResolver struct {
	c model.Category
}

func (r *categoryResolver) ID() int32 { return int32(r.c.ID) }
func (r *categoryResolver) Name() string { return r.c.Name }

type questionResolver struct {
	q        model.Question
	comments CommentService
}

func (r *questionResolver) ID() int32 { return int32(r.q.ID) }
func (r *questionResolver) Content() string { return r.q.Content }
func (r *questionResolver) Answers() []string { return r.q.Answers }
func (r *questionResolver) CorrectAnswer() *int32 { return int32Ptr(r.q.CorrectAnswer) }

func (r *questionResolver) Categories() []*categoryResolver {
	return categoryResolvers(r.q.Categories)
}

func (r *questionResolver) Comments(ctx context.Context) ([]*commentResolver, error) {
	comments, err := r.comments.ListForQuestion(ctx, r.q.ID)
	if err != nil {
		return nil, toResolverError("question.comments", err)
	}
	return commentResolvers(comments), nil
}

type commentResolver struct {
	c model.Comment
}

func (r *commentResolver) ID() int32 { return int32(r.c.ID) }
func (r *commentResolver) Content() string { return r.c.Content }
func (r *commentResolver) SuggestedAnswer() *int32 { return int32Ptr(r.c.SuggestedAnswer) }
func (r *commentResolver) QuestionID() int32 { return int32(r.c.QuestionID) }
func (r *commentResolver) Author() *userResolver { return &userResolver{u: r.c.Author} }
func (r *commentResolver) Likes() int32 { return int32(r.c.Likes) }

func categoryResolvers(categories []model.Category) []*categoryResolver {
	out := make([]*categoryResolver, len(categories))
	for i, c := range categories {
		out[i] = &categoryResolver{c: c}
	}
	return out
}

func commentResolvers(comments []model.Comment) []*commentResolver {
	out := make([]*commentResolver, len(comments))
	for i, c := range comments {
		out[i] = &commentResolver{c: c}
	}
	return out
}

func int32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}

func intPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
