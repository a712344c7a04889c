package progress

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"production-scheduler/internal/clock"
	"production-scheduler/internal/storage"
)

type OrderStore interface {
	ListOrdersByStatus(ctx context.Context, statuses ...string) ([]*storage.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status string) error
}

type ScheduleFinder interface {
	FindSchedulesByOrder(ctx context.Context, orderID int64) ([]*storage.ScheduleEntry, error)
}

type Transition struct {
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	From        string `json:"from"`
	To          string `json:"to"`
}

type Service struct {
	log       *slog.Logger
	orders    OrderStore
	schedules ScheduleFinder
	clock     clock.Clock
}

func New(log *slog.Logger, orders OrderStore, schedules ScheduleFinder, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{log: log, orders: orders, schedules: schedules, clock: clk}
}

// Run двигает заказы по статусам по времени их расписания. За один вызов заказ
// делает не больше одного шага. Сбой по одному заказу логируется, остальные идут дальше.
func (s *Service) Run(ctx context.Context) ([]Transition, error) {
	const op = "service.progress.Run"

	log := s.log.With(slog.String("op", op))

	orders, err := s.orders.ListOrdersByStatus(ctx,
		storage.OrderScheduled, storage.OrderInProgress, storage.OrderCompleted)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.clock.Now()
	applied := make([]Transition, 0)

	for _, o := range orders {
		entries, err := s.schedules.FindSchedulesByOrder(ctx, o.ID)
		if err != nil {
			log.Error("failed to load schedules", slog.Int64("order_id", o.ID), slog.String("error", err.Error()))
			continue
		}
		if len(entries) == 0 {
			continue
		}

		first, last := span(entries)
		next := Next(o.Status, first, last, o.DeliveryDate, now)
		if next == o.Status {
			continue
		}

		if err := s.orders.UpdateOrderStatus(ctx, o.ID, next); err != nil {
			log.Error("failed to update order status", slog.Int64("order_id", o.ID), slog.String("error", err.Error()))
			continue
		}

		log.Info("order status updated",
			slog.String("order_number", o.OrderNumber),
			slog.String("from", o.Status),
			slog.String("to", next),
		)
		applied = append(applied, Transition{OrderID: o.ID, OrderNumber: o.OrderNumber, From: o.Status, To: next})
	}

	return applied, nil
}

// Next следующий статус заказа или текущий, если переход не положен.
func Next(status string, firstStart, lastEnd, delivery, now time.Time) string {
	switch status {
	case storage.OrderScheduled:
		if firstStart.Before(now) && lastEnd.After(now) {
			return storage.OrderInProgress
		}
	case storage.OrderInProgress:
		if lastEnd.Before(now) && !now.After(delivery) {
			return storage.OrderCompleted
		}
	case storage.OrderCompleted:
		if now.After(delivery) {
			return storage.OrderDelivered
		}
	}
	return status
}

func span(entries []*storage.ScheduleEntry) (time.Time, time.Time) {
	first, last := entries[0].ScheduledStart, entries[0].ScheduledEnd
	for _, e := range entries[1:] {
		if e.ScheduledStart.Before(first) {
			first = e.ScheduledStart
		}
		if e.ScheduledEnd.After(last) {
			last = e.ScheduledEnd
		}
	}
	return first, last
}
