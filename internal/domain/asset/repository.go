package asset

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the read-only data-access interface for billable assets
type Repository interface {
	FindOwner(ctx context.Context, id uuid.UUID) (*Owner, error)
	FindProperty(ctx context.Context, id uuid.UUID) (*Property, error)

	// FindDeliveredPropertiesByOwner returns the owner's properties with a handover date
	FindDeliveredPropertiesByOwner(ctx context.Context, ownerID uuid.UUID) ([]Property, error)
	// FindParkingSpacesByOwner returns the owner's active parking spaces
	FindParkingSpacesByOwner(ctx context.Context, ownerID uuid.UUID) ([]ParkingSpace, error)

	// FindDeliveredProperties lists delivered properties, optionally restricted to one community
	FindDeliveredProperties(ctx context.Context, communityID *uuid.UUID) ([]Property, error)
	// FindOwnedParkingSpaces lists active parking spaces that have an owner,
	// optionally restricted to one community
	FindOwnedParkingSpaces(ctx context.Context, communityID *uuid.UUID) ([]ParkingSpace, error)
}
