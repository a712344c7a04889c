package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"production-scheduler/internal/calendar"
	"production-scheduler/internal/storage"
)

// Candidate выбранный станок и момент, с которого он свободен.
type Candidate struct {
	Machine     *storage.Machine
	Calendar    calendar.Calendar
	AvailableAt time.Time
	// Fresh у станка ещё нет записей на этом этапе
	Fresh bool
}

type StageOccupancy interface {
	FindSchedulesByStage(ctx context.Context, stageName string) ([]*storage.ScheduleEntry, error)
}

// SelectMachine выбирает станок этапа, который освободится раньше всех начиная с tentative.
// При равенстве предпочитается станок без записей, затем меньший id. nil если станков нет.
func SelectMachine(ctx context.Context, log *slog.Logger, occ StageOccupancy, stageName string,
	machines []*storage.Machine, tentative time.Time) (*Candidate, error) {
	const op = "service.scheduling.SelectMachine"

	var pool []Candidate
	for _, m := range machines {
		if m == nil || !m.IsAvailable || !strings.EqualFold(m.Process, stageName) {
			continue
		}

		cal, err := calendar.New(m.ShiftStart, m.ShiftEnd, m.WorkingDays)
		if err != nil {
			log.Warn("machine skipped: invalid shift calendar",
				slog.String("op", op),
				slog.String("machine", m.MachineCode),
				slog.String("error", err.Error()),
			)
			continue
		}

		pool = append(pool, Candidate{Machine: m, Calendar: cal})
	}

	if len(pool) == 0 {
		return nil, nil
	}

	entries, err := occ.FindSchedulesByStage(ctx, stageName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lastEnd := make(map[int64]time.Time)
	for _, e := range entries {
		if e.MachineID == nil {
			continue
		}
		if end, ok := lastEnd[*e.MachineID]; !ok || e.ScheduledEnd.After(end) {
			lastEnd[*e.MachineID] = e.ScheduledEnd
		}
	}

	var best *Candidate
	for i := range pool {
		c := &pool[i]

		end, busy := lastEnd[c.Machine.ID]
		c.Fresh = !busy
		c.AvailableAt = tentative.UTC()
		if busy {
			c.AvailableAt = later(c.AvailableAt, end.UTC())
		}

		if best == nil || better(c, best) {
			best = c
		}
	}

	return best, nil
}

func better(c, than *Candidate) bool {
	if !c.AvailableAt.Equal(than.AvailableAt) {
		return c.AvailableAt.Before(than.AvailableAt)
	}
	if c.Fresh != than.Fresh {
		return c.Fresh
	}
	return c.Machine.ID < than.Machine.ID
}
