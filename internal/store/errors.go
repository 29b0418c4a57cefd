package store

import "fmt"

// NotFoundError reports an absent entity by name; the message is what the
// API returns with a 404.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

func notFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}
