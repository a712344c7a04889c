package scheduling

import (
	"context"
	"fmt"
	"time"

	"production-scheduler/internal/storage"
)

type MachineStatus struct {
	MachineID    int64      `json:"machine_id"`
	MachineCode  string     `json:"machine_code"`
	Name         string     `json:"name"`
	Process      string     `json:"process"`
	IsAvailable  bool       `json:"is_available"`
	Status       string     `json:"status"`
	CurrentOrder string     `json:"current_order,omitempty"`
	StageName    string     `json:"stage_name,omitempty"`
	BusyUntil    *time.Time `json:"busy_until,omitempty"`
}

// MachineStatuses состояние станков на текущий момент. Статус не хранится,
// он выводится из записей расписания, которые идут прямо сейчас.
func (s *Service) MachineStatuses(ctx context.Context) ([]MachineStatus, error) {
	const op = "service.scheduling.MachineStatuses"

	machines, err := s.store.ListMachines(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.clock.Now()
	active, err := s.store.FindSchedulesActiveAt(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	running := make(map[int64]*storage.ScheduleEntry, len(active))
	for _, e := range active {
		// между кусками (ночь, выходные) станок простаивает
		if e.MachineID == nil || !workingAt(e, now) {
			continue
		}
		if _, ok := running[*e.MachineID]; !ok {
			running[*e.MachineID] = e
		}
	}

	out := make([]MachineStatus, 0, len(machines))
	for _, m := range machines {
		st := MachineStatus{
			MachineID:   m.ID,
			MachineCode: m.MachineCode,
			Name:        m.Name,
			Process:     m.Process,
			IsAvailable: m.IsAvailable,
			Status:      storage.MachineIdle,
		}

		switch e, busy := running[m.ID]; {
		case !m.IsAvailable:
			st.Status = storage.MachineOffline
		case busy:
			end := e.ScheduledEnd
			st.Status = storage.MachineActive
			st.CurrentOrder = e.OrderNumber
			st.StageName = e.StageName
			st.BusyUntil = &end
		}

		out = append(out, st)
	}

	return out, nil
}

func workingAt(e *storage.ScheduleEntry, at time.Time) bool {
	if len(e.Chunks) == 0 {
		return true
	}
	for _, c := range e.Chunks {
		if !at.Before(c.Start) && at.Before(c.End) {
			return true
		}
	}
	return false
}
