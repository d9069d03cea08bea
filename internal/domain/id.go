package domain

import (
	"strings"

	"github.com/google/uuid"
)

// LocalIDPrefix marks identifiers generated on-device before the server has
// acknowledged the entity. Server-assigned ids never carry this prefix.
const LocalIDPrefix = "local-"

// IDProvider issues identifiers for optimistic local entities and outbox
// operations.
type IDProvider interface {
	NewID() (string, error)
}

type uuidProvider struct{}

// NewUUIDProvider constructs an IDProvider that issues UUIDv7 identifiers.
func NewUUIDProvider() IDProvider {
	return &uuidProvider{}
}

func (p *uuidProvider) NewID() (string, error) {
	value, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return value.String(), nil
}

// NewLocalID issues a temporary entity identifier from the provider.
func NewLocalID(provider IDProvider) (string, error) {
	value, err := provider.NewID()
	if err != nil {
		return "", err
	}
	return LocalIDPrefix + value, nil
}

// IsLocalID reports whether the identifier is a temporary, device-generated
// one that the server has not assigned.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}
