package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"production-scheduler/internal/storage"
)

// scheduleOrder проводит заказ по этапам BOM, начиная с момента now.
// Ошибка означает сбой хранилища или битый BOM: заказ попадает в Failures прогона.
func (s *Service) scheduleOrder(ctx context.Context, snap *snapshot, order *storage.Order, now time.Time) ([]storage.Recommendation, error) {
	const op = "service.scheduling.scheduleOrder"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
	)

	bom, err := snap.BOM(ctx, order.ItemCode)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && len(bom.Stages) == 0) {
		log.Warn("no BOM found for item, order skipped", slog.String("item", order.ItemCode))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stages := slices.Clone(bom.Stages)
	slices.SortStableFunc(stages, func(a, b storage.Stage) int {
		return a.SequenceNo - b.SequenceNo
	})

	var (
		recs          []storage.Recommendation
		cursor        = now.UTC()
		finalEnd      time.Time
		freshUpstream bool
	)

	for _, st := range stages {
		plan, err := PlanStage(order.Quantity, st)
		if err != nil {
			return recs, fmt.Errorf("%s: %w", op, err)
		}

		existing, err := s.store.FindSchedulesByOrderAndStage(ctx, order.ID, st.StageName)
		if err != nil {
			return recs, fmt.Errorf("%s: %w", op, err)
		}

		if e := activeEntry(existing); e != nil {
			if freshUpstream && e.ScheduledStart.Before(cursor) {
				rec := s.recommend(order, st.StageName, storage.RecommendDuplicateSchedule,
					fmt.Sprintf("Schedule already exists for Order %s, Stage %s, starting before its upstream stage is ready.",
						order.OrderNumber, st.StageName))
				recs = append(recs, rec)
				log.Warn("stage scheduled out of sequence", slog.String("stage", st.StageName))
			}

			cursor = later(cursor, ReadyAt(e.ScheduledStart, plan.MinBatchDuration))
			finalEnd = later(finalEnd, e.ScheduledEnd)
			continue
		}

		if e := approvedEscalation(existing); e != nil {
			// этап согласован на стороне (аутсорс), станок не нужен
			cursor = later(cursor, e.ScheduledEnd)
			continue
		}

		pool, err := snap.Machines(ctx, st.StageName)
		if err != nil {
			return recs, fmt.Errorf("%s: machines for %s: %w", op, st.StageName, err)
		}

		cand, err := SelectMachine(ctx, s.log, s.store, st.StageName, pool, cursor)
		if err != nil {
			return recs, fmt.Errorf("%s: %w", op, err)
		}

		if cand == nil {
			rec := s.recommend(order, st.StageName, storage.RecommendOutsource,
				fmt.Sprintf("No available machine for %s", st.StageName))

			_, err := s.store.CreateSchedule(ctx, storage.ScheduleEntry{
				OrderID:                  order.ID,
				OrderNumber:              order.OrderNumber,
				StageName:                st.StageName,
				ScheduledStart:           cursor,
				ScheduledEnd:             cursor,
				Quantity:                 plan.Quantity,
				UOM:                      order.UOM,
				Status:                   storage.SchedulePendingApproval,
				IsManualApprovalRequired: true,
				Recommendation:           &rec,
				CreatedAt:                s.clock.Now(),
			})
			if err != nil {
				return recs, fmt.Errorf("%s: escalate %s: %w", op, st.StageName, err)
			}

			recs = append(recs, rec)
			log.Info("stage escalated for outsourcing", slog.String("stage", st.StageName))
			return recs, nil
		}

		chunks, end := ScheduleChunks(plan.TotalDuration, cand.Calendar, cand.AvailableAt)
		start := cand.Calendar.NextWorkingInstant(cand.AvailableAt)
		if len(chunks) > 0 {
			start = chunks[0].Start
		}

		machineID := cand.Machine.ID
		machineName := cand.Machine.Name

		_, err = s.store.CreateSchedule(ctx, storage.ScheduleEntry{
			OrderID:        order.ID,
			OrderNumber:    order.OrderNumber,
			MachineID:      &machineID,
			MachineName:    &machineName,
			StageName:      st.StageName,
			ScheduledStart: start,
			ScheduledEnd:   end,
			Quantity:       plan.Quantity,
			UOM:            order.UOM,
			Status:         storage.ScheduleScheduled,
			Chunks:         splitQuantity(chunks, plan.Quantity),
			CreatedAt:      s.clock.Now(),
		})
		if errors.Is(err, storage.ErrDuplicateStage) {
			rec := s.recommend(order, st.StageName, storage.RecommendDuplicateSchedule,
				fmt.Sprintf("Schedule already exists for Order %s, Stage %s.", order.OrderNumber, st.StageName))
			recs = append(recs, rec)
			log.Warn("duplicate schedule rejected by storage", slog.String("stage", st.StageName))
			return recs, nil
		}
		if err != nil {
			return recs, fmt.Errorf("%s: schedule %s: %w", op, st.StageName, err)
		}

		log.Debug("stage scheduled",
			slog.String("stage", st.StageName),
			slog.String("machine", cand.Machine.MachineCode),
			slog.Time("start", start),
			slog.Time("end", end),
			slog.Int("chunks", len(chunks)),
		)

		freshUpstream = true
		finalEnd = later(finalEnd, end)
		cursor = later(cursor, ReadyAt(start, plan.MinBatchDuration))
	}

	if !finalEnd.IsZero() && finalEnd.After(order.DeliveryDate) {
		rec := s.recommend(order, "", storage.RecommendDelayed,
			fmt.Sprintf("Order %s will finish at %s, after delivery date %s.",
				order.OrderNumber, finalEnd.Format(time.RFC3339), order.DeliveryDate.UTC().Format(time.RFC3339)))
		recs = append(recs, rec)
		log.Warn("order misses delivery date", slog.Time("final_end", finalEnd))
		return recs, nil
	}

	if order.Status != storage.OrderPending {
		return recs, nil
	}

	full, err := s.fullyScheduled(ctx, order.ID)
	if err != nil {
		return recs, fmt.Errorf("%s: %w", op, err)
	}
	if full {
		if err := s.store.UpdateOrderStatus(ctx, order.ID, storage.OrderScheduled); err != nil {
			return recs, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("order scheduled")
	}

	return recs, nil
}

// fullyScheduled все записи заказа либо Scheduled, либо эскалации с ручным согласованием.
func (s *Service) fullyScheduled(ctx context.Context, orderID int64) (bool, error) {
	entries, err := s.store.FindSchedulesByOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	if len(entries) == 0 {
		return false, nil
	}

	for _, e := range entries {
		switch {
		case e.Status == storage.ScheduleScheduled:
		case e.Status == storage.SchedulePendingApproval && e.IsManualApprovalRequired:
		default:
			return false, nil
		}
	}

	return true, nil
}

func activeEntry(entries []*storage.ScheduleEntry) *storage.ScheduleEntry {
	for _, e := range entries {
		if e.Active() {
			return e
		}
	}
	return nil
}

func approvedEscalation(entries []*storage.ScheduleEntry) *storage.ScheduleEntry {
	for _, e := range entries {
		if e.Status == storage.SchedulePendingApproval && e.IsApproved {
			return e
		}
	}
	return nil
}
