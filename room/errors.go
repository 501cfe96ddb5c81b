package room

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/petroom/components"
)

var (
	// ErrInvalidSpecies is returned when a spawn names an unknown species.
	ErrInvalidSpecies = errors.New("invalid species")
	// ErrPetNotFound is returned by commands that reference a missing pet.
	ErrPetNotFound = errors.New("pet not found")
	// ErrInvalidFoodTier is returned by FeedPet for an unknown tier.
	ErrInvalidFoodTier = errors.New("invalid food tier")
	// ErrPetLimit is returned when an owner already has the maximum pets.
	ErrPetLimit = errors.New("owner pet limit reached")
)

// InvalidSpeciesError carries the rejected species name.
type InvalidSpeciesError struct {
	Species string
}

func (e *InvalidSpeciesError) Error() string {
	return fmt.Sprintf("invalid species %q", e.Species)
}

func (e *InvalidSpeciesError) Unwrap() error { return ErrInvalidSpecies }

// PetNotFoundError carries the missing pet id.
type PetNotFoundError struct {
	ID components.PetID
}

func (e *PetNotFoundError) Error() string {
	return fmt.Sprintf("pet %s not found", e.ID)
}

func (e *PetNotFoundError) Unwrap() error { return ErrPetNotFound }
