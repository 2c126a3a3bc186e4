//go:build integration

package persistence

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/propmgmt/backend/internal/domain/asset"
	"github.com/propmgmt/backend/internal/domain/fee"
	"github.com/propmgmt/backend/internal/domain/shared"
	"github.com/propmgmt/backend/internal/infrastructure/migration"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	pgContainer     testcontainers.Container
	pgContainerDSN  string
	pgContainerOnce sync.Once
	pgContainerErr  error
)

// migrationsDir resolves the repository migrations directory from this file
func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations")
}

// newPostgresDB returns a connection to a migrated PostgreSQL container shared
// by the package. Every call starts from empty tables.
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres integration test skipped in short mode")
	}

	ctx := context.Background()
	pgContainerOnce.Do(func() {
		container, err := tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("propmgmt_test"),
			tcpostgres.WithUsername("postgres"),
			tcpostgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		if err != nil {
			pgContainerErr = err
			return
		}
		pgContainer = container
		pgContainerDSN, pgContainerErr = container.ConnectionString(ctx, "sslmode=disable")
		if pgContainerErr != nil {
			return
		}

		db, err := gorm.Open(gormpostgres.Open(pgContainerDSN), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		if err != nil {
			pgContainerErr = err
			return
		}
		sqlDB, err := db.DB()
		if err != nil {
			pgContainerErr = err
			return
		}
		defer sqlDB.Close()

		m, err := migration.New(sqlDB, migrationsDir(), zap.NewNop())
		if err != nil {
			pgContainerErr = err
			return
		}
		pgContainerErr = m.Up()
	})
	require.NoError(t, pgContainerErr, "failed to start migrated postgres container")

	db, err := gorm.Open(gormpostgres.Open(pgContainerDSN), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	truncateTables(t, db)
	return db
}

// truncateTables empties every table except the fee item catalogue and the
// migration bookkeeping
func truncateTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	var tables []string
	require.NoError(t, db.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename NOT IN ('schema_migrations', 'fee_items')
	`).Scan(&tables).Error)
	for _, table := range tables {
		require.NoError(t, db.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error)
	}
}

func TestPostgres_ConcurrentPeriodInsert(t *testing.T) {
	db := newPostgresDB(t)
	f := seedFixture(t, db)
	repo := NewGormFeeRecordRepository(db)
	ctx := context.Background()

	start, end := day(2024, 3, 1), day(2024, 3, 31)
	const writers = 8

	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		record := newPeriodRecord(t, f, asset.KindProperty, "PROPERTY_FEE", "256.5", start, end)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, record)
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, fee.ErrDuplicatePeriod)
	}
	assert.Equal(t, 1, created)

	exists, err := repo.ExistsForPeriod(ctx, fee.PeriodKey{
		AssetKind:   asset.KindProperty,
		AssetID:     f.property.ID,
		FeeItemID:   f.items["PROPERTY_FEE"].ID,
		PeriodStart: start,
		PeriodEnd:   end,
	})
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPostgres_ApplyDeduction(t *testing.T) {
	db := newPostgresDB(t)
	f := seedFixture(t, db)
	repo := NewGormDepositRepository(db)
	records := NewGormFeeRecordRepository(db)
	ctx := context.Background()
	on := day(2024, 6, 1)

	t.Run("commits balance, log and settled record together", func(t *testing.T) {
		d := newStoredDeposit(t, repo, f, 1000)
		bill := newPeriodRecord(t, f, asset.KindProperty, "PROPERTY_FEE", "300", day(2024, 5, 1), day(2024, 5, 31))
		require.NoError(t, records.Create(ctx, bill))

		entry, err := d.Deduct(decimal.NewFromInt(300), &bill.ID, "property fee", "", on)
		require.NoError(t, err)
		require.NoError(t, repo.ApplyDeduction(ctx, d, entry, func(r *fee.FeeRecord) error {
			return r.Pay(fee.Payment{Method: fee.PaymentDeposit, PaidAmount: &entry.Amount, PaidOn: on})
		}))

		stored, err := repo.FindByID(ctx, d.ID)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(700).Equal(stored.Balance))
		assert.Equal(t, 1, countDeductions(t, repo, d.ID))

		settled, err := records.FindByID(ctx, bill.ID)
		require.NoError(t, err)
		assert.True(t, settled.IsPaid())
	})

	t.Run("failed settle leaves no trace", func(t *testing.T) {
		d := newStoredDeposit(t, repo, f, 1000)
		bill := newPeriodRecord(t, f, asset.KindProperty, "PROPERTY_FEE", "300", day(2024, 4, 1), day(2024, 4, 30))
		require.NoError(t, bill.Pay(fee.Payment{Method: fee.PaymentCash, PaidOn: on}))
		require.NoError(t, records.Create(ctx, bill))

		entry, err := d.Deduct(decimal.NewFromInt(300), &bill.ID, "", "", on)
		require.NoError(t, err)
		err = repo.ApplyDeduction(ctx, d, entry, func(r *fee.FeeRecord) error {
			return r.Pay(fee.Payment{Method: fee.PaymentDeposit, PaidOn: on})
		})
		assert.ErrorIs(t, err, fee.ErrFeeRecordAlreadyPaid)

		stored, err := repo.FindByID(ctx, d.ID)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1000).Equal(stored.Balance))
		assert.Equal(t, 0, countDeductions(t, repo, d.ID))
	})

	t.Run("concurrent deductions from one snapshot conflict", func(t *testing.T) {
		d := newStoredDeposit(t, repo, f, 1000)
		stale := *d

		entry, err := d.Deduct(decimal.NewFromInt(100), nil, "", "", on)
		require.NoError(t, err)
		require.NoError(t, repo.ApplyDeduction(ctx, d, entry, nil))

		staleEntry, err := stale.Deduct(decimal.NewFromInt(100), nil, "", "", on)
		require.NoError(t, err)
		err = repo.ApplyDeduction(ctx, &stale, staleEntry, nil)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestPostgres_MeterReadings(t *testing.T) {
	db := newPostgresDB(t)
	f := seedFixture(t, db)
	repo := NewGormMeterReadingRepository(db)
	ctx := context.Background()
	price := decimal.RequireFromString("3.5")

	t.Run("meter reset is stored without a bill", func(t *testing.T) {
		before, err := fee.NewMeterReading(f.property.ID, fee.MeterWater, day(2024, 2, 1), decimal.Zero, decimal.NewFromInt(500), price)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, before, newUsageBill(t, f, "WATER_FEE", before)))

		reset, err := fee.NewMeterReading(f.property.ID, fee.MeterWater, day(2024, 3, 1), before.CurrentReading, decimal.NewFromInt(10), price)
		require.NoError(t, err)
		require.True(t, reset.Usage.IsZero())
		require.NoError(t, repo.Create(ctx, reset, nil))

		latest, err := repo.FindLatest(ctx, f.property.ID, fee.MeterWater)
		require.NoError(t, err)
		assert.Equal(t, reset.ID, latest.ID)
		assert.True(t, decimal.NewFromInt(500).Equal(latest.PreviousReading))
		assert.True(t, decimal.NewFromInt(10).Equal(latest.CurrentReading))
		assert.Nil(t, latest.FeeRecordID)
	})

	t.Run("same-day readings both bill", func(t *testing.T) {
		for _, current := range []int64{40, 55} {
			reading, err := fee.NewMeterReading(f.property.ID, fee.MeterElectricity, day(2024, 3, 15), decimal.Zero, decimal.NewFromInt(current), price)
			require.NoError(t, err)
			require.NoError(t, repo.Create(ctx, reading, newUsageBill(t, f, "ELECTRICITY_FEE", reading)))
		}
	})
}
