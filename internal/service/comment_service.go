package service

import (
	"context"
	"errors"
	"log/slog"

	"quiz-backend/internal/auth"
	"quiz-backend/internal/model"
	"quiz-backend/pkg/apierror"
)

type CommentStore interface {
	FindByID(ctx context.Context, id int) (model.Comment, error)
	ListForQuestion(ctx context.Context, questionID int) ([]model.Comment, error)
	Create(ctx context.Context, rec model.CommentRecord) (model.Comment, error)
	Update(ctx context.Context, in model.ModifyComment) (model.Comment, error)
	Delete(ctx context.Context, id int) error
	Like(ctx context.Context, commentID, userID int) error
}

type CommentService struct {
	comments CommentStore
}

func NewCommentService(comments CommentStore) *CommentService {
	return &CommentService{comments: comments}
}

func (s *CommentService) ListForQuestion(ctx context.Context, questionID int) ([]model.Comment, error) {
	return s.comments.ListForQuestion(ctx, questionID)
}

func (s *CommentService) Add(ctx context.Context, in model.NewComment) (model.Comment, error) {
	identity, err := auth.RequireIdentity(ctx)
	if err != nil {
		return model.Comment{}, err
	}
	if err := in.Validate(); err != nil {
		return model.Comment{}, apierror.BadRequest("invalid comment", err.Error())
	}

	return s.comments.Create(ctx, model.CommentRecord{
		Content:         in.Content,
		SuggestedAnswer: in.SuggestedAnswer,
		UserID:          identity.ID,
		QuestionID:      in.QuestionID,
	})
}

func (s *CommentService) Modify(ctx context.Context, in model.ModifyComment) (model.Comment, error) {
	if _, err := s.authorizeOwner(ctx, in.ID); err != nil {
		return model.Comment{}, err
	}
	if err := in.Validate(); err != nil {
		return model.Comment{}, apierror.BadRequest("invalid comment", err.Error())
	}
	return s.comments.Update(ctx, in)
}

func (s *CommentService) Delete(ctx context.Context, id int) error {
	identity, err := s.authorizeOwner(ctx, id)
	if err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}

	slog.Debug("comment deleted", "comment_id", id, "user_id", identity.ID)
	return nil
}

// Like records the caller's like and returns the updated comment.
func (s *CommentService) Like(ctx context.Context, id int) (model.Comment, error) {
	identity, err := auth.RequireIdentity(ctx)
	if err != nil {
		return model.Comment{}, err
	}
	if err := s.comments.Like(ctx, id, identity.ID); err != nil {
		return model.Comment{}, err
	}
	return s.comments.FindByID(ctx, id)
}

// authorizeOwner loads the comment and checks the caller wrote it. A missing
// comment is reported as NOT_AUTHORIZED so ids cannot be probed.
func (s *CommentService) authorizeOwner(ctx context.Context, commentID int) (model.SafeUser, error) {
	identity, err := auth.RequireIdentity(ctx)
	if err != nil {
		return model.SafeUser{}, err
	}

	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, model.ErrCommentNotFound) {
			return model.SafeUser{}, apierror.NotAuthorized("comment not accessible")
		}
		return model.SafeUser{}, err
	}

	if err := auth.RequireOwner(identity, comment.OwnerID()); err != nil {
		slog.Warn("comment ownership check failed", "comment_id", commentID, "user_id", identity.ID)
		return model.SafeUser{}, err
	}
	return identity, nil
}
