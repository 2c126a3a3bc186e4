package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propmgmt/backend/internal/domain/fee"
	"github.com/propmgmt/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens an in-memory SQLite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	// every pooled connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func baseModel() models.BaseModel {
	now := time.Now().UTC()
	return models.BaseModel{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

type fixture struct {
	community models.CommunityModel
	owner     models.OwnerModel
	property  models.PropertyModel
	space     models.ParkingSpaceModel
	items     map[string]models.FeeItemModel
}

// seedFixture stores one community with an owner holding a delivered
// apartment and an active parking space, plus the fee item catalogue
func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	f := fixture{items: map[string]models.FeeItemModel{}}

	f.community = models.CommunityModel{BaseModel: baseModel(), Name: "Sunrise Garden", Address: "1 River Rd"}
	require.NoError(t, db.Create(&f.community).Error)

	f.owner = models.OwnerModel{BaseModel: baseModel(), Name: "Li Wei", Phone: "13800000000", IDCard: "110101199001011234"}
	require.NoError(t, db.Create(&f.owner).Error)

	ownerID := f.owner.ID
	f.property = models.PropertyModel{
		BaseModel:    baseModel(),
		CommunityID:  f.community.ID,
		PropertyType: "apartment",
		Building:     "3",
		Unit:         "2",
		Room:         "1201",
		Area:         decimal.RequireFromString("85.5"),
		IsDelivered:  true,
		HandoverDate: dayPtr(2024, 1, 1),
		OwnerID:      &ownerID,
	}
	require.NoError(t, db.Create(&f.property).Error)

	undelivered := models.PropertyModel{
		BaseModel:    baseModel(),
		CommunityID:  f.community.ID,
		PropertyType: "apartment",
		Building:     "3",
		Unit:         "2",
		Room:         "1202",
		Area:         decimal.NewFromInt(90),
		OwnerID:      &ownerID,
	}
	require.NoError(t, db.Create(&undelivered).Error)

	f.space = models.ParkingSpaceModel{
		BaseModel:   baseModel(),
		CommunityID: f.community.ID,
		SpaceNumber: "B1-017",
		ParkingType: "underground",
		OwnerID:     &ownerID,
		IsActive:    true,
	}
	require.NoError(t, db.Create(&f.space).Error)

	for _, it := range []struct{ code, name, method string }{
		{"PROPERTY_FEE", "Property fee", "AREA"},
		{"PARKING_FEE", "Parking fee", "FIXED"},
		{"WATER_FEE", "Water fee", "USAGE"},
		{"ELECTRICITY_FEE", "Electricity fee", "USAGE"},
	} {
		var seeded models.FeeItemModel
		if err := db.Where("code = ?", it.code).Take(&seeded).Error; err == nil {
			// catalogue already seeded by the migrations
			f.items[it.code] = seeded
			continue
		}
		m := models.FeeItemModel{
			BaseModel:         baseModel(),
			Code:              fee.ItemCode(it.code),
			Name:              it.name,
			CalculationMethod: fee.CalculationMethod(it.method),
		}
		require.NoError(t, db.Create(&m).Error)
		f.items[it.code] = m
	}
	return f
}
