package dao

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckinDAO_InsertCheckinTypeDuplicateName(t *testing.T) {
	d := NewCheckinDAO(newTestDB(t))
	ctx := context.Background()

	_, err := d.InsertCheckinType(ctx, CheckinType{Name: "Day 1 Entry", Category: "attendance"})
	require.NoError(t, err)

	_, err = d.InsertCheckinType(ctx, CheckinType{Name: "Day 1 Entry", Category: "meal"})
	assert.ErrorIs(t, err, ErrCheckinTypeNameExists)
}

func TestCheckinDAO_ListActiveCheckinTypes(t *testing.T) {
	d := NewCheckinDAO(newTestDB(t))
	ctx := context.Background()

	_, err := d.InsertCheckinType(ctx, CheckinType{Name: "Day 1 Entry", Category: "attendance", IsActive: true, DisplayOrder: 2})
	require.NoError(t, err)
	_, err = d.InsertCheckinType(ctx, CheckinType{Name: "Lunch", Category: "meal", IsActive: true, DisplayOrder: 1})
	require.NoError(t, err)
	_, err = d.InsertCheckinType(ctx, CheckinType{Name: "Old Entry", Category: "attendance", IsActive: false})
	require.NoError(t, err)

	active, err := d.ListActiveCheckinTypes(ctx)
	require.NoError(t, err)

	require.Len(t, active, 2)
	assert.Equal(t, "Lunch", active[0].Name)
	assert.Equal(t, "Day 1 Entry", active[1].Name)
}

func TestCheckinDAO_InsertRecordIdempotency(t *testing.T) {
	db := newTestDB(t)
	d := NewCheckinDAO(db)
	ctx := context.Background()

	won, err := d.InsertRecord(ctx, CheckinRecord{
		CheckinTypeID: "attendance-1",
		ParticipantID: "p1",
		CheckedInBy:   "ops-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, won.ID)
	assert.False(t, won.CheckedInAt.IsZero())

	// Second scan of the same badge at the same checkin type loses.
	_, err = d.InsertRecord(ctx, CheckinRecord{
		CheckinTypeID: "attendance-1",
		ParticipantID: "p1",
		CheckedInBy:   "ops-2",
	})
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	// A different checkin type is a fresh scan.
	_, err = d.InsertRecord(ctx, CheckinRecord{
		CheckinTypeID: "meal-1",
		ParticipantID: "p1",
		CheckedInBy:   "ops-1",
	})
	require.NoError(t, err)

	found, err := d.FindRecord(ctx, "attendance-1", "p1")
	require.NoError(t, err)
	assert.Equal(t, won.ID, found.ID)

	var total int64
	require.NoError(t, db.Model(&CheckinRecord{}).
		Where("checkin_type_id = ?", "attendance-1").
		Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestCheckinDAO_RecentByActor(t *testing.T) {
	db := newTestDB(t)
	d := NewCheckinDAO(db)
	participants := NewParticipantDAO(db)
	ctx := context.Background()

	ada, err := participants.Insert(ctx, Participant{Name: "Ada", Email: "ada@example.com", ParticipantType: "regular"})
	require.NoError(t, err)
	vera, err := participants.Insert(ctx, Participant{Name: "Vera", Email: "vera@example.com", ParticipantType: "vip"})
	require.NoError(t, err)

	entry, err := d.InsertCheckinType(ctx, CheckinType{Name: "Day 1 Entry", Category: "attendance", IsActive: true})
	require.NoError(t, err)

	base := time.Now().Add(-time.Hour)
	_, err = d.InsertRecord(ctx, CheckinRecord{
		CheckinTypeID: entry.ID, ParticipantID: ada.ID, CheckedInBy: "ops-1", CheckedInAt: base,
	})
	require.NoError(t, err)
	_, err = d.InsertRecord(ctx, CheckinRecord{
		CheckinTypeID: entry.ID, ParticipantID: vera.ID, CheckedInBy: "ops-1", CheckedInAt: base.Add(time.Minute),
	})
	require.NoError(t, err)

	rows, err := d.RecentByActor(ctx, "ops-1", 10)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "Vera", rows[0].ParticipantName)
	assert.Equal(t, "vip", rows[0].ParticipantType)
	assert.Equal(t, "Day 1 Entry", rows[0].CheckinTypeName)
	assert.Equal(t, "Ada", rows[1].ParticipantName)

	limited, err := d.RecentByActor(ctx, "ops-1", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "Vera", limited[0].ParticipantName)

	empty, err := d.RecentByActor(ctx, "ops-other", 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
