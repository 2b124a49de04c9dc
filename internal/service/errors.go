package service

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrForbidden             = errors.New("forbidden")
	ErrValidation            = errors.New("invalid input")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrEmailTaken            = errors.New("email is already registered")
	ErrSelfFriend            = errors.New("cannot add yourself as a friend")
	ErrAlreadyFriends        = errors.New("already friends")
	ErrRequestExists         = errors.New("friend request already pending")
	ErrInvalidMood           = errors.New("unknown mood")
	ErrInvalidAnswers        = errors.New("invalid answers")
	ErrAlreadySubmittedToday = errors.New("questionnaire already submitted today")
	ErrUnsupportedPhoto      = errors.New("unsupported photo")
)
