package app

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateUser      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("you do not own this garment")
	ErrGarmentNotFound    = errors.New("garment not found")
	ErrInternal           = errors.New("internal failure")
)

func internalErr(err error) error {
	return fmt.Errorf("%w: %w", ErrInternal, err)
}
