package fee

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/asset"
	"github.com/propmgmt/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FeeRate is one versioned entry of the price list. The latest active rate
// whose effective date is on or before the cutoff applies.
type FeeRate struct {
	shared.BaseEntity
	CommunityID   uuid.UUID
	FeeItemID     uuid.UUID
	AssetKind     asset.Kind
	AssetType     string
	UnitPrice     decimal.Decimal
	EffectiveDate time.Time
	IsActive      bool
}

// NewFeeRate creates an active rate
func NewFeeRate(communityID, feeItemID uuid.UUID, kind asset.Kind, assetType string, unitPrice decimal.Decimal, effective time.Time) (*FeeRate, error) {
	if communityID == uuid.Nil || feeItemID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("community_id and fee_item_id are required")
	}
	if !kind.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("asset_kind must be property or parking")
	}
	if strings.TrimSpace(assetType) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("asset_type is required")
	}
	if unitPrice.IsNegative() {
		return nil, shared.ErrInvalidInput.WithMessage("unit_price cannot be negative")
	}
	return &FeeRate{
		BaseEntity:    shared.NewBaseEntity(),
		CommunityID:   communityID,
		FeeItemID:     feeItemID,
		AssetKind:     kind,
		AssetType:     assetType,
		UnitPrice:     unitPrice,
		EffectiveDate: DateOf(effective),
		IsActive:      true,
	}, nil
}

// RateQuery selects the rate applicable to an asset at a cutoff date
type RateQuery struct {
	CommunityID uuid.UUID
	FeeItemID   uuid.UUID
	AssetKind   asset.Kind
	AssetType   string
	Cutoff      time.Time
}

// RateFilter narrows rate listings
type RateFilter struct {
	CommunityID *uuid.UUID
	FeeItemID   *uuid.UUID
	AssetKind   asset.Kind
	ActiveOnly  bool
}
