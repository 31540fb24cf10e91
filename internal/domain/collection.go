package domain

import "github.com/google/uuid"

// CollectionType selects which assignment the service resolves a collection for.
type CollectionType byte

const (
	CollectionTypeYourself CollectionType = 0
)

type CollectionSnapshot struct {
	ID   uuid.UUID
	Name string
}

// NoCollection is returned whenever the current collection cannot be resolved.
var NoCollection = CollectionSnapshot{ID: uuid.Nil, Name: "None"}

func (c CollectionSnapshot) IsNone() bool {
	return c.ID == uuid.Nil
}
