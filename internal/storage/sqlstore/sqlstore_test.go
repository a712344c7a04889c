package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"production-scheduler/internal/config"
	"production-scheduler/internal/constants"
	"production-scheduler/internal/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(config.Storage{Driver: DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func monday(hour, minute int) time.Time {
	return time.Date(2024, time.January, 1, hour, minute, 0, 0, time.UTC)
}

func createTestOrder(t *testing.T, s *Storage, number string, priority int) int64 {
	t.Helper()

	id, err := s.CreateOrder(context.Background(), storage.Order{
		OrderNumber:  number,
		CustomerName: "ABC Carpets",
		ItemCode:     "KERA#050623-11",
		Quantity:     3000,
		UOM:          "PCS",
		Rate:         320,
		Priority:     priority,
		OrderDate:    monday(0, 0),
		DeliveryDate: monday(0, 0).AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	return id
}

func ptr[T any](v T) *T {
	return &v
}

func TestStorage_Orders(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	lowID := createTestOrder(t, s, "1002", 3)
	highID := createTestOrder(t, s, "1001", 1)

	pending, err := s.ListOrdersByStatus(ctx, storage.OrderPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, highID, pending[0].ID)
	assert.Equal(t, lowID, pending[1].ID)
	assert.Equal(t, storage.OrderPending, pending[0].Status)
	assert.Equal(t, monday(0, 0).AddDate(0, 1, 0), pending[0].DeliveryDate)

	require.NoError(t, s.UpdateOrderStatus(ctx, highID, storage.OrderScheduled))

	o, err := s.GetOrder(ctx, highID)
	require.NoError(t, err)
	assert.Equal(t, storage.OrderScheduled, o.Status)

	pending, err = s.ListOrdersByStatus(ctx, storage.OrderPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = s.GetOrder(ctx, 999)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, s.UpdateOrderStatus(ctx, 999, storage.OrderScheduled), storage.ErrNotFound)
}

func TestStorage_CreateOrder_Duplicate(t *testing.T) {
	s := newTestStorage(t)

	createTestOrder(t, s, "1001", 1)

	_, err := s.CreateOrder(context.Background(), storage.Order{
		OrderNumber: "1001", ItemCode: "X", Quantity: 1, Priority: 1,
		OrderDate: monday(0, 0), DeliveryDate: monday(0, 0),
	})
	assert.ErrorIs(t, err, storage.ErrOrderExists)
}

func TestStorage_SeedAndBOM(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	res, err := s.Seed(ctx, constants.SeedMachines, constants.SeedBOMs)
	require.NoError(t, err)
	assert.Equal(t, len(constants.SeedMachines), res.Machines)
	assert.Equal(t, 1, res.BOMs)

	// повторный сид ничего не добавляет
	res, err = s.Seed(ctx, constants.SeedMachines, constants.SeedBOMs)
	require.NoError(t, err)
	assert.Zero(t, res.Machines)
	assert.Zero(t, res.BOMs)

	bom, err := s.FindBOMByOutputItem(ctx, "kera#050623-11")
	require.NoError(t, err)
	require.Len(t, bom.Stages, 5)
	assert.Equal(t, "COMPOUND MIXING", bom.Stages[0].StageName)
	assert.Equal(t, 2000.0, bom.Stages[0].MinBatchQuantity)
	assert.Equal(t, 0.75, bom.Stages[0].HoursRequiredMinBatch)
	assert.Len(t, bom.Stages[0].Components, 9)
	assert.Equal(t, "LABELLING & PACKING", bom.Stages[4].StageName)

	_, err = s.FindBOMByOutputItem(ctx, "UNKNOWN")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	tufting, err := s.ListMachinesByProcess(ctx, "tufting")
	require.NoError(t, err)
	assert.Len(t, tufting, 9)
	assert.Equal(t, "08:00", tufting[0].ShiftStart)
	assert.True(t, tufting[0].IsAvailable)

	require.NoError(t, s.SetMachineAvailability(ctx, tufting[0].ID, false))
	m, err := s.GetMachine(ctx, tufting[0].ID)
	require.NoError(t, err)
	assert.False(t, m.IsAvailable)

	_, err = s.GetMachine(ctx, 10_000)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStorage_CreateSchedule_WithChunks(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	orderID := createTestOrder(t, s, "1001", 1)

	id, err := s.CreateSchedule(ctx, storage.ScheduleEntry{
		OrderID:        orderID,
		OrderNumber:    "1001",
		MachineID:      ptr(int64(7)),
		MachineName:    ptr("KFT/MACH/TFG-1"),
		StageName:      "TUFTING",
		ScheduledStart: monday(15, 0),
		ScheduledEnd:   monday(0, 0).AddDate(0, 0, 1).Add(8*time.Hour + 30*time.Minute),
		Quantity:       52.5,
		UOM:            "PCS",
		Status:         storage.ScheduleScheduled,
		Chunks: []storage.ScheduleChunk{
			{Start: monday(15, 0), End: monday(16, 0), Quantity: 35},
			{Start: monday(0, 0).AddDate(0, 0, 1).Add(8 * time.Hour), End: monday(0, 0).AddDate(0, 0, 1).Add(8*time.Hour + 30*time.Minute), Quantity: 17.5},
		},
		CreatedAt: monday(9, 0),
	})
	require.NoError(t, err)

	e, err := s.GetSchedule(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, e.MachineID)
	assert.Equal(t, int64(7), *e.MachineID)
	assert.Equal(t, "KFT/MACH/TFG-1", *e.MachineName)
	assert.Equal(t, monday(15, 0), e.ScheduledStart)
	require.Len(t, e.Chunks, 2)
	assert.Equal(t, monday(16, 0), e.Chunks[0].End)
	assert.Equal(t, 17.5, e.Chunks[1].Quantity)
	assert.Nil(t, e.Recommendation)

	byStage, err := s.FindSchedulesByStage(ctx, "tufting")
	require.NoError(t, err)
	assert.Len(t, byStage, 1)

	active, err := s.FindSchedulesActiveAt(ctx, monday(15, 30))
	require.NoError(t, err)
	assert.Len(t, active, 1)

	active, err = s.FindSchedulesActiveAt(ctx, monday(14, 0))
	require.NoError(t, err)
	assert.Empty(t, active)

	window, err := s.ListSchedules(ctx, monday(0, 0).AddDate(0, 0, 2), time.Time{})
	require.NoError(t, err)
	assert.Empty(t, window)

	window, err = s.ListSchedules(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, window, 1)
}

func TestStorage_CreateSchedule_Uniqueness(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	orderID := createTestOrder(t, s, "1001", 1)

	escalation := storage.ScheduleEntry{
		OrderID:                  orderID,
		OrderNumber:              "1001",
		StageName:                "PRINTING",
		ScheduledStart:           monday(10, 0),
		ScheduledEnd:             monday(10, 0),
		Quantity:                 3000,
		Status:                   storage.SchedulePendingApproval,
		IsManualApprovalRequired: true,
		Recommendation: &storage.Recommendation{
			Type:        storage.RecommendOutsource,
			Reason:      "No available machine for PRINTING",
			SuggestedBy: storage.SuggestedBySystem,
			CreatedAt:   monday(9, 0),
		},
	}

	_, err := s.CreateSchedule(ctx, escalation)
	require.NoError(t, err)

	// повторная эскалация заменяет предыдущую
	_, err = s.CreateSchedule(ctx, escalation)
	require.NoError(t, err)

	entries, err := s.FindSchedulesByOrderAndStage(ctx, orderID, "PRINTING")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Recommendation)
	assert.Equal(t, storage.RecommendOutsource, entries[0].Recommendation.Type)
	assert.Nil(t, entries[0].MachineID)

	scheduled := storage.ScheduleEntry{
		OrderID:        orderID,
		OrderNumber:    "1001",
		MachineID:      ptr(int64(1)),
		MachineName:    ptr("KFT/MACH/PR-1"),
		StageName:      "PRINTING",
		ScheduledStart: monday(10, 0),
		ScheduledEnd:   monday(12, 0),
		Quantity:       3000,
		Status:         storage.ScheduleScheduled,
	}

	// назначение станка убирает эскалацию
	_, err = s.CreateSchedule(ctx, scheduled)
	require.NoError(t, err)

	entries, err = s.FindSchedulesByOrder(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, storage.ScheduleScheduled, entries[0].Status)

	_, err = s.CreateSchedule(ctx, scheduled)
	assert.ErrorIs(t, err, storage.ErrDuplicateStage)
}

func TestStorage_CreateSchedule_DropsEscalationCaseInsensitive(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	orderID := createTestOrder(t, s, "1002", 1)

	_, err := s.CreateSchedule(ctx, storage.ScheduleEntry{
		OrderID:                  orderID,
		OrderNumber:              "1002",
		StageName:                "printing",
		ScheduledStart:           monday(10, 0),
		ScheduledEnd:             monday(10, 0),
		Quantity:                 3000,
		Status:                   storage.SchedulePendingApproval,
		IsManualApprovalRequired: true,
	})
	require.NoError(t, err)

	_, err = s.CreateSchedule(ctx, storage.ScheduleEntry{
		OrderID:        orderID,
		OrderNumber:    "1002",
		MachineID:      ptr(int64(1)),
		MachineName:    ptr("KFT/MACH/PR-1"),
		StageName:      "PRINTING",
		ScheduledStart: monday(10, 0),
		ScheduledEnd:   monday(12, 0),
		Quantity:       3000,
		Status:         storage.ScheduleScheduled,
	})
	require.NoError(t, err)

	entries, err := s.FindSchedulesByOrder(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, storage.ScheduleScheduled, entries[0].Status)
	assert.Equal(t, "PRINTING", entries[0].StageName)
}

func TestStorage_ApproveSchedule(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	orderID := createTestOrder(t, s, "1001", 1)
	id, err := s.CreateSchedule(ctx, storage.ScheduleEntry{
		OrderID:                  orderID,
		OrderNumber:              "1001",
		StageName:                "CUTTING",
		ScheduledStart:           monday(10, 0),
		ScheduledEnd:             monday(10, 0),
		Status:                   storage.SchedulePendingApproval,
		IsManualApprovalRequired: true,
	})
	require.NoError(t, err)

	require.NoError(t, s.ApproveSchedule(ctx, id, monday(11, 0)))

	e, err := s.GetSchedule(ctx, id)
	require.NoError(t, err)
	assert.True(t, e.IsApproved)
	assert.Equal(t, monday(11, 0), e.UpdatedAt)

	assert.ErrorIs(t, s.ApproveSchedule(ctx, 999, monday(11, 0)), storage.ErrNotFound)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?,?,?", placeholders(3))
}
