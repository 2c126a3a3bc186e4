package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/asset"
	"github.com/shopspring/decimal"
)

// CommunityModel is the persistence model for a residential compound
type CommunityModel struct {
	BaseModel
	Name    string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Address string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (CommunityModel) TableName() string {
	return "communities"
}

// ToDomain converts the persistence model to a domain Community
func (m *CommunityModel) ToDomain() *asset.Community {
	return &asset.Community{ID: m.ID, Name: m.Name, Address: m.Address}
}

// OwnerModel is the persistence model for a property owner
type OwnerModel struct {
	BaseModel
	Name     string `gorm:"type:varchar(50);not null"`
	Phone    string `gorm:"type:varchar(20);not null;uniqueIndex"`
	IDCard   string `gorm:"column:id_card;type:varchar(18);uniqueIndex"`
	Company  string `gorm:"type:varchar(100)"`
	Position string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (OwnerModel) TableName() string {
	return "owners"
}

// ToDomain converts the persistence model to a domain Owner
func (m *OwnerModel) ToDomain() *asset.Owner {
	return &asset.Owner{
		ID:       m.ID,
		Name:     m.Name,
		Phone:    m.Phone,
		IDCard:   m.IDCard,
		Company:  m.Company,
		Position: m.Position,
	}
}

// PropertyModel is the persistence model for a unit inside a community
type PropertyModel struct {
	BaseModel
	CommunityID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Community    *CommunityModel `gorm:"foreignKey:CommunityID"`
	PropertyType string          `gorm:"type:varchar(30);not null"`
	Building     string          `gorm:"type:varchar(20);not null"`
	Unit         string          `gorm:"type:varchar(20);not null"`
	Room         string          `gorm:"type:varchar(20);not null"`
	Area         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	IsDelivered  bool            `gorm:"not null;default:false"`
	HandoverDate *time.Time      `gorm:"type:date;index"`
	OwnerID      *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (PropertyModel) TableName() string {
	return "properties"
}

// ToDomain converts the persistence model to a domain Property.
// The community name is filled when the Community association is loaded.
func (m *PropertyModel) ToDomain() *asset.Property {
	p := &asset.Property{
		ID:           m.ID,
		CommunityID:  m.CommunityID,
		PropertyType: m.PropertyType,
		Building:     m.Building,
		Unit:         m.Unit,
		Room:         m.Room,
		Area:         m.Area,
		IsDelivered:  m.IsDelivered,
		HandoverDate: utcDate(m.HandoverDate),
		OwnerID:      m.OwnerID,
	}
	if m.Community != nil {
		p.CommunityName = m.Community.Name
	}
	return p
}

// ParkingSpaceModel is the persistence model for a parking slot
type ParkingSpaceModel struct {
	BaseModel
	CommunityID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Community        *CommunityModel `gorm:"foreignKey:CommunityID"`
	SpaceNumber      string          `gorm:"type:varchar(20);not null"`
	ParkingType      string          `gorm:"type:varchar(20);not null"`
	OwnerID          *uuid.UUID      `gorm:"type:uuid;index"`
	BillingStartDate *time.Time      `gorm:"type:date"`
	IsActive         bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ParkingSpaceModel) TableName() string {
	return "parking_spaces"
}

// ToDomain converts the persistence model to a domain ParkingSpace
func (m *ParkingSpaceModel) ToDomain() *asset.ParkingSpace {
	s := &asset.ParkingSpace{
		ID:               m.ID,
		CommunityID:      m.CommunityID,
		SpaceNumber:      m.SpaceNumber,
		ParkingType:      m.ParkingType,
		OwnerID:          m.OwnerID,
		BillingStartDate: utcDate(m.BillingStartDate),
		IsActive:         m.IsActive,
	}
	if m.Community != nil {
		s.CommunityName = m.Community.Name
	}
	return s
}

// utcDate normalises a scanned DATE column to UTC midnight
func utcDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
