package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound            = errors.New("entity not found")
	ErrAlreadyExists       = errors.New("entity already exists")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrCodeNotFound        = errors.New("activation code not found")
	ErrCodeAlreadyUsed     = errors.New("activation code already used")
	ErrNoActivationHistory = errors.New("no activation history")
	ErrPremiumRequired     = errors.New("premium subscription required")
	ErrReadDatabaseRow     = errors.New("failed to read database row")
	ErrInvalidExecContext  = errors.New("invalid executor context")
)
