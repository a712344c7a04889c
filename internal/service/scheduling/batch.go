package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"production-scheduler/internal/storage"
)

const batchKey = "scheduling-batch"

type RunResult struct {
	RunID           string                   `json:"run_id"`
	StartedAt       time.Time                `json:"started_at"`
	FinishedAt      time.Time                `json:"finished_at"`
	Processed       int                      `json:"processed"`
	Recommendations []storage.Recommendation `json:"recommendations"`
	Failures        []OrderFailure           `json:"failures"`
}

type OrderFailure struct {
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Error       string `json:"error"`
}

// RunAutoSchedule планирует все заказы в статусе Pending. Одновременно идёт только один прогон:
// параллельные вызовы получают результат текущего. Отмена ctx вызывающего прогон не прерывает.
func (s *Service) RunAutoSchedule(ctx context.Context) (*RunResult, error) {
	const op = "service.scheduling.RunAutoSchedule"

	v, err, shared := s.runs.Do(batchKey, func() (any, error) {
		return s.runBatch(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res := v.(*RunResult)
	if shared {
		s.log.Debug("joined in-flight scheduling run", slog.String("op", op), slog.String("run_id", res.RunID))
	}

	return res, nil
}

func (s *Service) runBatch(ctx context.Context) (*RunResult, error) {
	const op = "service.scheduling.runBatch"

	if s.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RunTimeout)
		defer cancel()
	}

	now := s.clock.Now()
	res := &RunResult{
		RunID:           uuid.NewString(),
		StartedAt:       now,
		Recommendations: []storage.Recommendation{},
		Failures:        []OrderFailure{},
	}

	log := s.log.With(slog.String("op", op), slog.String("run_id", res.RunID))

	orders, err := s.store.ListOrdersByStatus(ctx, storage.OrderPending)
	if err != nil {
		log.Error("failed to list pending orders", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	SortOrders(orders)

	log.Info("scheduling run started", slog.Int("orders", len(orders)))

	snap := newSnapshot(s.store, s.store, s.opts.PrefetchLimit)
	snap.prefetch(ctx, orders)

	for _, order := range orders {
		if err := ctx.Err(); err != nil {
			res.Failures = append(res.Failures, failure(order, err))
			continue
		}

		if order.IsNonChangeable {
			locked, err := s.alreadyScheduled(ctx, order.ID)
			if err != nil {
				log.Error("failed to check locked order", slog.Int64("order_id", order.ID), slog.String("error", err.Error()))
				res.Failures = append(res.Failures, failure(order, err))
				continue
			}
			if locked {
				res.Recommendations = append(res.Recommendations, s.recommend(order, "", storage.RecommendManualApproval,
					fmt.Sprintf("Order %s is non-changeable and already scheduled; changes need manual approval.", order.OrderNumber)))
				continue
			}
		}

		recs, err := s.scheduleOrder(ctx, snap, order, now)
		res.Recommendations = append(res.Recommendations, recs...)
		res.Processed++
		if err != nil {
			log.Error("failed to schedule order",
				slog.Int64("order_id", order.ID),
				slog.String("order_number", order.OrderNumber),
				slog.String("error", err.Error()),
			)
			res.Failures = append(res.Failures, failure(order, err))
		}
	}

	res.FinishedAt = s.clock.Now()

	log.Info("scheduling run finished",
		slog.Int("processed", res.Processed),
		slog.Int("recommendations", len(res.Recommendations)),
		slog.Int("failures", len(res.Failures)),
	)

	return res, nil
}

// SortOrders приоритет (1 самый высокий), затем дата поставки, затем id.
func SortOrders(orders []*storage.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if !a.DeliveryDate.Equal(b.DeliveryDate) {
			return a.DeliveryDate.Before(b.DeliveryDate)
		}
		return a.ID < b.ID
	})
}

func (s *Service) alreadyScheduled(ctx context.Context, orderID int64) (bool, error) {
	entries, err := s.store.FindSchedulesByOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.Status == storage.ScheduleScheduled {
			return true, nil
		}
	}
	return false, nil
}

func failure(order *storage.Order, err error) OrderFailure {
	return OrderFailure{OrderID: order.ID, OrderNumber: order.OrderNumber, Error: err.Error()}
}
