package awsiam

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the requested role, user or policy does not exist
// upstream (NoSuchEntity).
var ErrNotFound = errors.New("entity not found")

// IsNotFound reports whether err is a NoSuchEntity-class failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// AuthError indicates delegated access could not be resolved for an
// account's cross-account role.
type AuthError struct {
	RoleArn string
	Err     error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("failed to assume role %s: %v", e.RoleArn, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
