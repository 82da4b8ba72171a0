package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-backend/internal/auth"
	"quiz-backend/internal/model"
	"quiz-backend/pkg/apierror"
)

func TestCommentOwnership(t *testing.T) {
	t.Parallel()

	comments := newMemoryComments()
	svc := NewCommentService(comments)

	alice := auth.ContextWithIdentity(context.Background(), model.SafeUser{ID: 1, Username: "alice"})
	bob := auth.ContextWithIdentity(context.Background(), model.SafeUser{ID: 2, Username: "bob"})
	admin := auth.ContextWithIdentity(context.Background(), model.SafeUser{ID: 3, Username: "root", IsAdmin: true})

	comment, err := svc.Add(alice, model.NewComment{Content: "It's C", QuestionID: 7})
	require.NoError(t, err)
	assert.Equal(t, 1, comment.OwnerID())

	t.Run("another user cannot modify", func(t *testing.T) {
		_, err := svc.Modify(bob, model.ModifyComment{ID: comment.ID, Content: "defaced"})
		assert.Equal(t, apierror.KindNotAuthorized, apierror.KindOf(err))
	})

	t.Run("another user cannot delete", func(t *testing.T) {
		err := svc.Delete(bob, comment.ID)
		assert.Equal(t, apierror.KindNotAuthorized, apierror.KindOf(err))
	})

	t.Run("admin gets no override", func(t *testing.T) {
		err := svc.Delete(admin, comment.ID)
		assert.Equal(t, apierror.KindNotAuthorized, apierror.KindOf(err))
	})

	t.Run("anonymous callers are rejected", func(t *testing.T) {
		err := svc.Delete(context.Background(), comment.ID)
		assert.Equal(t, apierror.KindNotAuthorized, apierror.KindOf(err))
	})

	t.Run("missing comment looks like a foreign one", func(t *testing.T) {
		err := svc.Delete(alice, 999)
		assert.Equal(t, apierror.KindNotAuthorized, apierror.KindOf(err))
	})

	t.Run("owner can modify and delete", func(t *testing.T) {
		five := 5
		updated, err := svc.Modify(alice, model.ModifyComment{ID: comment.ID, Content: "Actually E", SuggestedAnswer: &five})
		require.NoError(t, err)
		assert.Equal(t, "Actually E", updated.Content)

		require.NoError(t, svc.Delete(alice, comment.ID))
		_, err = comments.FindByID(context.Background(), comment.ID)
		assert.ErrorIs(t, err, model.ErrCommentNotFound)
	})
}

func TestCommentAddRequiresIdentityAndValidInput(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(newMemoryComments())

	_, err := svc.Add(context.Background(), model.NewComment{Content: "hi", QuestionID: 1})
	assert.Equal(t, apierror.KindNotAuthorized, apierror.KindOf(err))

	ctx := auth.ContextWithIdentity(context.Background(), model.SafeUser{ID: 1})
	_, err = svc.Add(ctx, model.NewComment{Content: "", QuestionID: 1})
	assert.Equal(t, apierror.KindBadRequest, apierror.KindOf(err))
}

func TestCommentLikeIsIdempotent(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(newMemoryComments())
	alice := auth.ContextWithIdentity(context.Background(), model.SafeUser{ID: 1})
	bob := auth.ContextWithIdentity(context.Background(), model.SafeUser{ID: 2})

	comment, err := svc.Add(alice, model.NewComment{Content: "hi", QuestionID: 1})
	require.NoError(t, err)

	_, err = svc.Like(context.Background(), comment.ID)
	assert.Equal(t, apierror.KindNotAuthorized, apierror.KindOf(err))

	liked, err := svc.Like(bob, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)

	liked, err = svc.Like(bob, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)

	liked, err = svc.Like(alice, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, liked.Likes)

	list, err := svc.ListForQuestion(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Likes)
}
