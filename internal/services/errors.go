package services

import "errors"

var (
	ErrInvalidSubscriptionType = errors.New("invalid subscription type")
	ErrDuplicatePendingRequest = errors.New("you already have a pending request for this subscription")
	ErrRequestNotFound         = errors.New("subscription request not found")
	ErrRequestAlreadyResolved  = errors.New("subscription request already resolved")
	ErrInvalidAction           = errors.New("action must be APPROVED or REJECTED")
	ErrMissingField            = errors.New("missing required field")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrAdminRequired      = errors.New("admin access required")

	ErrExpenseNotFound = errors.New("expense not found")
)
