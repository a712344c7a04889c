package scheduling

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"production-scheduler/internal/storage"
)

type MockStageOccupancy struct {
	mock.Mock
}

func (m *MockStageOccupancy) FindSchedulesByStage(ctx context.Context, stageName string) ([]*storage.ScheduleEntry, error) {
	args := m.Called(ctx, stageName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.ScheduleEntry), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func machine(id int64, process string) *storage.Machine {
	return &storage.Machine{
		ID:          id,
		MachineCode: "M-" + process,
		Name:        process + " machine",
		Process:     process,
		ShiftStart:  "08:00",
		ShiftEnd:    "16:00",
		WorkingDays: "Mon,Tue,Wed,Thu,Fri,Sat",
		IsAvailable: true,
	}
}

func TestSelectMachine(t *testing.T) {
	ctx := context.Background()

	t.Run("earliest free machine wins", func(t *testing.T) {
		occ := new(MockStageOccupancy)
		occ.On("FindSchedulesByStage", ctx, "MIX").Return([]*storage.ScheduleEntry{
			{MachineID: ptr(int64(1)), ScheduledEnd: at(1, 12, 0)},
			{MachineID: ptr(int64(1)), ScheduledEnd: at(1, 14, 0)},
			{MachineID: ptr(int64(2)), ScheduledEnd: at(1, 11, 0)},
		}, nil)

		cand, err := SelectMachine(ctx, discardLogger(), occ, "MIX",
			[]*storage.Machine{machine(1, "MIX"), machine(2, "MIX")}, at(1, 9, 0))

		require.NoError(t, err)
		require.NotNil(t, cand)
		assert.Equal(t, int64(2), cand.Machine.ID)
		assert.Equal(t, at(1, 11, 0), cand.AvailableAt)
		assert.False(t, cand.Fresh)
		occ.AssertExpectations(t)
	})

	t.Run("fresh machine preferred on tie", func(t *testing.T) {
		occ := new(MockStageOccupancy)
		occ.On("FindSchedulesByStage", ctx, "MIX").Return([]*storage.ScheduleEntry{
			{MachineID: ptr(int64(1)), ScheduledEnd: at(1, 8, 0)},
		}, nil)

		cand, err := SelectMachine(ctx, discardLogger(), occ, "MIX",
			[]*storage.Machine{machine(1, "MIX"), machine(2, "MIX")}, at(1, 9, 0))

		require.NoError(t, err)
		require.NotNil(t, cand)
		assert.Equal(t, int64(2), cand.Machine.ID)
		assert.True(t, cand.Fresh)
		assert.Equal(t, at(1, 9, 0), cand.AvailableAt)
	})

	t.Run("lower id on full tie", func(t *testing.T) {
		occ := new(MockStageOccupancy)
		occ.On("FindSchedulesByStage", ctx, "MIX").Return(nil, nil)

		cand, err := SelectMachine(ctx, discardLogger(), occ, "MIX",
			[]*storage.Machine{machine(7, "MIX"), machine(3, "MIX")}, at(1, 9, 0))

		require.NoError(t, err)
		assert.Equal(t, int64(3), cand.Machine.ID)
	})

	t.Run("unavailable and misconfigured machines skipped", func(t *testing.T) {
		off := machine(1, "MIX")
		off.IsAvailable = false
		broken := machine(2, "MIX")
		broken.ShiftStart = "25:00"
		other := machine(3, "BEAM")

		occ := new(MockStageOccupancy)

		cand, err := SelectMachine(ctx, discardLogger(), occ, "MIX",
			[]*storage.Machine{off, broken, other, nil}, at(1, 9, 0))

		require.NoError(t, err)
		assert.Nil(t, cand)
		occ.AssertNotCalled(t, "FindSchedulesByStage", mock.Anything, mock.Anything)
	})

	t.Run("process match ignores case", func(t *testing.T) {
		occ := new(MockStageOccupancy)
		occ.On("FindSchedulesByStage", ctx, "mix").Return(nil, nil)

		cand, err := SelectMachine(ctx, discardLogger(), occ, "mix",
			[]*storage.Machine{machine(1, "MIX")}, at(1, 9, 0))

		require.NoError(t, err)
		require.NotNil(t, cand)
		assert.Equal(t, int64(1), cand.Machine.ID)
	})

	t.Run("occupancy error", func(t *testing.T) {
		occ := new(MockStageOccupancy)
		occ.On("FindSchedulesByStage", ctx, "MIX").Return(nil, errors.New("db down"))

		cand, err := SelectMachine(ctx, discardLogger(), occ, "MIX",
			[]*storage.Machine{machine(1, "MIX")}, at(1, 9, 0))

		assert.Error(t, err)
		assert.Nil(t, cand)
	})
}

func ptr[T any](v T) *T {
	return &v
}
