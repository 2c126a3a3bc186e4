// Package asset holds the read models the fee engine bills against:
// communities, owners, properties and parking spaces. Their lifecycle is
// managed elsewhere; the fee engine only reads them.
package asset

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind distinguishes the two billable asset types
type Kind string

const (
	KindProperty Kind = "property"
	KindParking  Kind = "parking"
)

// IsValid reports whether k is a known asset kind
func (k Kind) IsValid() bool {
	return k == KindProperty || k == KindParking
}

// Community is a residential compound
type Community struct {
	ID      uuid.UUID
	Name    string
	Address string
}

// Owner is the root aggregate for billing
type Owner struct {
	ID       uuid.UUID
	Name     string
	Phone    string
	IDCard   string
	Company  string
	Position string
}

// Property is a delivered or undelivered unit inside a community
type Property struct {
	ID            uuid.UUID
	CommunityID   uuid.UUID
	CommunityName string
	PropertyType  string
	Building      string
	Unit          string
	Room          string
	Area          decimal.Decimal
	IsDelivered   bool
	HandoverDate  *time.Time
	OwnerID       *uuid.UUID
}

// Description renders the unit address used in fee details
func (p *Property) Description() string {
	return fmt.Sprintf("%s %s-%s-%s", p.CommunityName, p.Building, p.Unit, p.Room)
}

// IsBillable reports whether billing has started for the property
func (p *Property) IsBillable() bool {
	return p.HandoverDate != nil
}

// ParkingSpace is a parking lot slot inside a community
type ParkingSpace struct {
	ID               uuid.UUID
	CommunityID      uuid.UUID
	CommunityName    string
	SpaceNumber      string
	ParkingType      string
	OwnerID          *uuid.UUID
	BillingStartDate *time.Time
	IsActive         bool
}

// Description renders the slot label used in fee details
func (s *ParkingSpace) Description() string {
	return fmt.Sprintf("%s %s", s.CommunityName, s.SpaceNumber)
}

// BillingStart resolves the date parking fees accrue from. An explicit
// override wins; otherwise the earliest handover date among the owner's
// delivered properties in the same community is used. Returns nil when
// neither exists.
func (s *ParkingSpace) BillingStart(ownerProperties []Property) *time.Time {
	if s.BillingStartDate != nil {
		return s.BillingStartDate
	}
	var earliest *time.Time
	for i := range ownerProperties {
		p := ownerProperties[i]
		if p.CommunityID != s.CommunityID || p.HandoverDate == nil {
			continue
		}
		if earliest == nil || p.HandoverDate.Before(*earliest) {
			h := *p.HandoverDate
			earliest = &h
		}
	}
	return earliest
}
