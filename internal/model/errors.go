package model

import "quiz-backend/pkg/apierror"

var (
	// User related errors
	ErrUserNotFound      = apierror.New(apierror.KindNotFound, "user not found", "")
	ErrUserAlreadyExists = apierror.New(apierror.KindAlreadyExists, "username already taken", "")

	// ErrWrongCredentials is returned for both an unknown username and a bad
	// password so callers cannot tell them apart.
	ErrWrongCredentials = apierror.New(apierror.KindWrongCredentials, "wrong username or password", "")

	// Quiz related errors
	ErrQuestionNotFound = apierror.New(apierror.KindNotFound, "question not found", "")
	ErrCommentNotFound  = apierror.New(apierror.KindNotFound, "comment not found", "")
	ErrCategoryNotFound = apierror.New(apierror.KindNotFound, "category not found", "")
)
