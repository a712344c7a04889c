package scheduling

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"production-scheduler/internal/storage"
)

type ScheduleView struct {
	storage.ScheduleEntry
	Machine *storage.Machine `json:"machine,omitempty"`
}

type OrderSchedule struct {
	Order   *storage.Order `json:"order"`
	Entries []ScheduleView `json:"schedules"`
}

// OrderSchedule записи заказа вместе с самим заказом и станками.
func (s *Service) OrderSchedule(ctx context.Context, orderID int64) (*OrderSchedule, error) {
	const op = "service.scheduling.OrderSchedule"

	var (
		order    *storage.Order
		entries  []*storage.ScheduleEntry
		machines []*storage.Machine
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		order, err = s.store.GetOrder(gctx, orderID)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.store.FindSchedulesByOrder(gctx, orderID)
		return err
	})
	g.Go(func() error {
		var err error
		machines, err = s.store.ListMachines(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byID := make(map[int64]*storage.Machine, len(machines))
	for _, m := range machines {
		byID[m.ID] = m
	}

	res := &OrderSchedule{Order: order, Entries: make([]ScheduleView, 0, len(entries))}
	for _, e := range entries {
		view := ScheduleView{ScheduleEntry: *e}
		if e.MachineID != nil {
			view.Machine = byID[*e.MachineID]
		}
		res.Entries = append(res.Entries, view)
	}

	return res, nil
}
