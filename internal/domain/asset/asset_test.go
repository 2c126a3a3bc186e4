package asset

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestParkingSpace_BillingStart(t *testing.T) {
	community := uuid.New()
	other := uuid.New()

	props := []Property{
		{ID: uuid.New(), CommunityID: community, HandoverDate: date(2024, 3, 1)},
		{ID: uuid.New(), CommunityID: community, HandoverDate: date(2024, 1, 15)},
		{ID: uuid.New(), CommunityID: other, HandoverDate: date(2023, 6, 1)},
		{ID: uuid.New(), CommunityID: community},
	}

	t.Run("uses earliest handover in same community", func(t *testing.T) {
		space := ParkingSpace{CommunityID: community}
		start := space.BillingStart(props)
		require.NotNil(t, start)
		assert.Equal(t, *date(2024, 1, 15), *start)
	})

	t.Run("override wins", func(t *testing.T) {
		space := ParkingSpace{CommunityID: community, BillingStartDate: date(2024, 5, 1)}
		start := space.BillingStart(props)
		require.NotNil(t, start)
		assert.Equal(t, *date(2024, 5, 1), *start)
	})

	t.Run("nil without delivered property in community", func(t *testing.T) {
		space := ParkingSpace{CommunityID: uuid.New()}
		assert.Nil(t, space.BillingStart(props))
	})
}

func TestProperty_Description(t *testing.T) {
	p := Property{CommunityName: "Sunrise", Building: "3", Unit: "2", Room: "1201"}
	assert.Equal(t, "Sunrise 3-2-1201", p.Description())
	assert.False(t, p.IsBillable())

	p.HandoverDate = date(2024, 1, 1)
	assert.True(t, p.IsBillable())
}
