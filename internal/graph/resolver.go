package graph

import (
	"context"

	"quiz-backend/internal/auth"
	"quiz-backend/internal/model"
)

type AuthService interface {
	Login(ctx context.Context, req model.LoginRequest) (model.Tokens, error)
	Refresh(ctx context.Context, req model.RefreshRequest) (model.Tokens, error)
	Signup(ctx context.Context, in model.NewUser) (model.SafeUser, error)
	DeleteAccount(ctx context.Context) error
}

type CommentService interface {
	ListForQuestion(ctx context.Context, questionID int) ([]model.Comment, error)
	Add(ctx context.Context, in model.NewComment) (model.Comment, error)
	Modify(ctx context.Context, in model.ModifyComment) (model.Comment, error)
	Delete(ctx context.Context, id int) error
	Like(ctx context.Context, id int) (model.Comment, error)
}

type QuestionService interface {
	Categories(ctx context.Context) ([]model.Category, error)
	Questions(ctx context.Context, id *int, categoryID *int) ([]model.Question, error)
	Add(ctx context.Context, in model.NewQuestion) (model.Question, error)
	Modify(ctx context.Context, in model.ModifyQuestion) (model.Question, error)
	AddCategory(ctx context.Context, name string) (model.Category, error)
}

// Resolver is the root of both Query and Mutation.
type Resolver struct {
	auth      AuthService
	comments  CommentService
	questions QuestionService
}

func NewResolver(authService AuthService, comments CommentService, questions QuestionService) *Resolver {
	return &Resolver{auth: authService, comments: comments, questions: questions}
}

func (r *Resolver) Categories(ctx context.Context) ([]*categoryResolver, error) {
	categories, err := r.questions.Categories(ctx)
	if err != nil {
		return nil, toResolverError("categories", err)
	}
	return categoryResolvers(categories), nil
}

func (r *Resolver) Questions(ctx context.Context, args struct {
	ID         *int32
	CategoryID *int32
}) ([]*questionResolver, error) {
	questions, err := r.questions.Questions(ctx, intPtr(args.ID), intPtr(args.CategoryID))
	if err != nil {
		return nil, toResolverError("questions", err)
	}

	out := make([]*questionResolver, len(questions))
	for i, q := range questions {
		out[i] = &questionResolver{q: q, comments: r.comments}
	}
	return out, nil
}

func (r *Resolver) Comments(ctx context.Context, args struct{ QuestionID int32 }) ([]*commentResolver, error) {
	comments, err := r.comments.ListForQuestion(ctx, int(args.QuestionID))
	if err != nil {
		return nil, toResolverError("comments", err)
	}
	return commentResolvers(comments), nil
}

func (r *Resolver) Me(ctx context.Context) *userResolver {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil
	}
	return &userResolver{u: identity}
}

func (r *Resolver) Login(ctx context.Context, args struct {
	Username string
	Password string
}) (*tokensResolver, error) {
	tokens, err := r.auth.Login(ctx, model.LoginRequest{Username: args.Username, Password: args.Password})
	if err != nil {
		return nil, toResolverError("login", err)
	}
	return &tokensResolver{t: tokens}, nil
}

func (r *Resolver) RefreshTokens(ctx context.Context, args struct{ RefreshToken string }) (*tokensResolver, error) {
	tokens, err := r.auth.Refresh(ctx, model.RefreshRequest{RefreshToken: args.RefreshToken})
	if err != nil {
		return nil, toResolverError("refreshTokens", err)
	}
	return &tokensResolver{t: tokens}, nil
}

type signupInput struct {
	Username string
	Password string
	Nickname string
}

func (r *Resolver) Signup(ctx context.Context, args struct{ Input signupInput }) (*userResolver, error) {
	user, err := r.auth.Signup(ctx, model.NewUser{
		Username: args.Input.Username,
		Password: args.Input.Password,
		Nickname: args.Input.Nickname,
	})
	if err != nil {
		return nil, toResolverError("signup", err)
	}
	return &userResolver{u: user}, nil
}

func (r *Resolver) DeleteUser(ctx context.Context) (bool, error) {
	if err := r.auth.DeleteAccount(ctx); err != nil {
		return false, toResolverError("deleteUser", err)
	}
	return true, nil
}

type newCommentInput struct {
	QuestionID      int32
	Content         string
	SuggestedAnswer *int32
}

func (r *Resolver) AddComment(ctx context.Context, args struct{ Input newCommentInput }) (*commentResolver, error) {
	comment, err := r.comments.Add(ctx, model.NewComment{
		Content:         args.Input.Content,
		SuggestedAnswer: intPtr(args.Input.SuggestedAnswer),
		QuestionID:      int(args.Input.QuestionID),
	})
	if err != nil {
		return nil, toResolverError("addComment", err)
	}
	return &commentResolver{c: comment}, nil
}

type modifyCommentInput struct {
	ID              int32
	Content         string
	SuggestedAnswer *int32
}

func (r *Resolver) ModifyComment(ctx context.Context, args struct{ Input modifyCommentInput }) (*commentResolver, error) {
	comment, err := r.comments.Modify(ctx, model.ModifyComment{
		ID:              int(args.Input.ID),
		Content:         args.Input.Content,
		SuggestedAnswer: intPtr(args.Input.SuggestedAnswer),
	})
	if err != nil {
		return nil, toResolverError("modifyComment", err)
	}
	return &commentResolver{c: comment}, nil
}

func (r *Resolver) DeleteComment(ctx context.Context, args struct{ ID int32 }) (bool, error) {
	if err := r.comments.Delete(ctx, int(args.ID)); err != nil {
		return false, toResolverError("deleteComment", err)
	}
	return true, nil
}

func (r *Resolver) LikeComment(ctx context.Context, args struct{ ID int32 }) (*commentResolver, error) {
	comment, err := r.comments.Like(ctx, int(args.ID))
	if err != nil {
		return nil, toResolverError("likeComment", err)
	}
	return &commentResolver{c: comment}, nil
}

type newQuestionInput struct {
	Content       string
	Answers       []string
	CorrectAnswer *int32
	CategoryIDs   *[]int32
}

func (r *Resolver) AddQuestion(ctx context.Context, args struct{ Input newQuestionInput }) (*questionResolver, error) {
	in := model.NewQuestion{
		Content:       args.Input.Content,
		Answers:       args.Input.Answers,
		CorrectAnswer: intPtr(args.Input.CorrectAnswer),
	}
	if args.Input.CategoryIDs != nil {
		for _, id := range *args.Input.CategoryIDs {
			in.CategoryIDs = append(in.CategoryIDs, int(id))
		}
	}

	q, err := r.questions.Add(ctx, in)
	if err != nil {
		return nil, toResolverError("addQuestion", err)
	}
	return &questionResolver{q: q, comments: r.comments}, nil
}

type modifyQuestionInput struct {
	ID            int32
	Content       string
	Answers       []string
	CorrectAnswer *int32
}

func (r *Resolver) ModifyQuestion(ctx context.Context, args struct{ Input modifyQuestionInput }) (*questionResolver, error) {
	q, err := r.questions.Modify(ctx, model.ModifyQuestion{
		ID:            int(args.Input.ID),
		Content:       args.Input.Content,
		Answers:       args.Input.Answers,
		CorrectAnswer: intPtr(args.Input.CorrectAnswer),
	})
	if err != nil {
		return nil, toResolverError("modifyQuestion", err)
	}
	return &questionResolver{q: q, comments: r.comments}, nil
}

func (r *Resolver) AddCategory(ctx context.Context, args struct{ Name string }) (*categoryResolver, error) {
	c, err := r.questions.AddCategory(ctx, args.Name)
	if err != nil {
		return nil, toResolverError("addCategory", err)
	}
	return &categoryResolver{c: c}, nil
}
