package scheduling

import (
	"context"
	"fmt"
	"log/slog"

	"production-scheduler/internal/storage"
)

// ApproveEntry согласует эскалацию (Pending Approval). Для заказов с запретом изменений отказ.
func (s *Service) ApproveEntry(ctx context.Context, id int64) (*storage.ScheduleEntry, error) {
	const op = "service.scheduling.ApproveEntry"

	e, err := s.store.GetSchedule(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	order, err := s.store.GetOrder(ctx, e.OrderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if order.IsNonChangeable {
		return nil, fmt.Errorf("%s: order %s: %w", op, order.OrderNumber, ErrOrderLocked)
	}
	if e.Status != storage.SchedulePendingApproval {
		return nil, fmt.Errorf("%s: schedule %d is %s: %w", op, id, e.Status, ErrNotPendingApproval)
	}
	if e.IsApproved {
		return e, nil
	}

	now := s.clock.Now()
	if err := s.store.ApproveSchedule(ctx, id, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("escalation approved",
		slog.String("op", op),
		slog.Int64("schedule_id", id),
		slog.String("order_number", order.OrderNumber),
		slog.String("stage", e.StageName),
	)

	e.IsApproved = true
	e.UpdatedAt = now
	return e, nil
}
