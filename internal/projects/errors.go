package projects

import (
	"errors"
	"fmt"
)

var (
	ErrProjectNotFound = errors.New("projects: project not found")
	ErrSlugInvalid     = errors.New("projects: slug contains invalid characters")
)

type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ErrProjectNotFound.Error()
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrProjectNotFound
}
