package types

import "github.com/m-mizutani/goerr/v2"

// ActorID identifies a user in the external user directory. The directory
// itself is an external collaborator; this service only carries the ID.
type ActorID string

// Validate checks if the ActorID is valid
func (a ActorID) Validate() error {
	if a == "" {
		return goerr.New("actor ID cannot be empty")
	}
	return nil
}

// String returns the string representation of ActorID
func (a ActorID) String() string {
	return string(a)
}
