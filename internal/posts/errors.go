package posts

import (
	"errors"
	"fmt"
)

var (
	ErrPostNotFound = errors.New("posts: post not found")
	ErrSlugInvalid  = errors.New("posts: slug contains invalid characters")
)

// NotFoundError captures lookups that matched no durable record.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ErrPostNotFound.Error()
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrPostNotFound
}
