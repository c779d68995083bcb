package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("not allowed")
	ErrFormNotFound       = errors.New("form not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrInvalidForm        = errors.New("invalid form")
	ErrNotPublished       = errors.New("form is not published")
	ErrSessionNotFound    = errors.New("session not found")
	ErrNotOnPath          = errors.New("question is not on the current path")
	ErrSessionSubmitting  = errors.New("session is being submitted")
)
