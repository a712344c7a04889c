package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"production-scheduler/internal/storage"
)

const scheduleColumns = `id, order_id, order_number, machine_id, machine_name, stage_name,
	scheduled_start, scheduled_end, quantity, uom, status, is_manual_approval_required, is_approved,
	recommendation, created_at, updated_at`

func scanSchedule(row rowScanner) (*storage.ScheduleEntry, error) {
	var (
		e           storage.ScheduleEntry
		machineID   sql.NullInt64
		machineName sql.NullString
		recJSON     sql.NullString
	)

	err := row.Scan(&e.ID, &e.OrderID, &e.OrderNumber, &machineID, &machineName, &e.StageName,
		&e.ScheduledStart, &e.ScheduledEnd, &e.Quantity, &e.UOM, &e.Status, &e.IsManualApprovalRequired,
		&e.IsApproved, &recJSON, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if machineID.Valid {
		id := machineID.Int64
		e.MachineID = &id
	}
	if machineName.Valid {
		name := machineName.String
		e.MachineName = &name
	}
	if recJSON.Valid && recJSON.String != "" {
		e.Recommendation = &storage.Recommendation{}
		if err := json.Unmarshal([]byte(recJSON.String), e.Recommendation); err != nil {
			return nil, fmt.Errorf("recommendation of schedule %d: %w", e.ID, err)
		}
	}

	e.ScheduledStart = e.ScheduledStart.UTC()
	e.ScheduledEnd = e.ScheduledEnd.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()

	return &e, nil
}

func (s *Storage) querySchedules(ctx context.Context, op, stmt string, args ...any) ([]*storage.ScheduleEntry, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var entries []*storage.ScheduleEntry
	for rows.Next() {
		e, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan schedule: %w", op, err)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.loadChunks(ctx, entries); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return entries, nil
}

// loadChunks подтягивает куски смен одним запросом на все записи
func (s *Storage) loadChunks(ctx context.Context, entries []*storage.ScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}

	byID := make(map[int64]*storage.ScheduleEntry, len(entries))
	args := make([]any, 0, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
		args = append(args, e.ID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT schedule_id, start_at, end_at, quantity
		FROM schedule_chunks
		WHERE schedule_id IN (`+placeholders(len(args))+`)
		ORDER BY schedule_id, seq`, args...)
	if err != nil {
		return fmt.Errorf("chunks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			scheduleID int64
			c          storage.ScheduleChunk
		)
		if err := rows.Scan(&scheduleID, &c.Start, &c.End, &c.Quantity); err != nil {
			return fmt.Errorf("scan chunk: %w", err)
		}
		c.Start = c.Start.UTC()
		c.End = c.End.UTC()
		if e, ok := byID[scheduleID]; ok {
			e.Chunks = append(e.Chunks, c)
		}
	}

	return rows.Err()
}

func (s *Storage) FindSchedulesByOrderAndStage(ctx context.Context, orderID int64, stageName string) ([]*storage.ScheduleEntry, error) {
	const op = "storage.sqlstore.FindSchedulesByOrderAndStage"

	return s.querySchedules(ctx, op, `
		SELECT `+scheduleColumns+`
		FROM schedules
		WHERE order_id = ? AND LOWER(stage_name) = LOWER(?)
		ORDER BY scheduled_start, id`, orderID, stageName)
}

// FindSchedulesByStage все записи этапа по всем заказам, по ним считается занятость станков.
func (s *Storage) FindSchedulesByStage(ctx context.Context, stageName string) ([]*storage.ScheduleEntry, error) {
	const op = "storage.sqlstore.FindSchedulesByStage"

	return s.querySchedules(ctx, op, `
		SELECT `+scheduleColumns+`
		FROM schedules
		WHERE LOWER(stage_name) = LOWER(?)
		ORDER BY scheduled_start, id`, stageName)
}

func (s *Storage) FindSchedulesByOrder(ctx context.Context, orderID int64) ([]*storage.ScheduleEntry, error) {
	const op = "storage.sqlstore.FindSchedulesByOrder"

	return s.querySchedules(ctx, op, `
		SELECT `+scheduleColumns+`
		FROM schedules
		WHERE order_id = ?
		ORDER BY scheduled_start, id`, orderID)
}

// ListSchedules записи, пересекающие окно [from, to). Нулевые границы не ограничивают выборку.
func (s *Storage) ListSchedules(ctx context.Context, from, to time.Time) ([]*storage.ScheduleEntry, error) {
	const op = "storage.sqlstore.ListSchedules"

	stmt := `SELECT ` + scheduleColumns + ` FROM schedules WHERE 1 = 1`
	var args []any

	if !from.IsZero() {
		stmt += ` AND scheduled_end >= ?`
		args = append(args, ts(from))
	}
	if !to.IsZero() {
		stmt += ` AND scheduled_start < ?`
		args = append(args, ts(to))
	}
	stmt += ` ORDER BY scheduled_start, id`

	return s.querySchedules(ctx, op, stmt, args...)
}

// FindSchedulesActiveAt записи станков, которые идут в момент at.
func (s *Storage) FindSchedulesActiveAt(ctx context.Context, at time.Time) ([]*storage.ScheduleEntry, error) {
	const op = "storage.sqlstore.FindSchedulesActiveAt"

	return s.querySchedules(ctx, op, `
		SELECT `+scheduleColumns+`
		FROM schedules
		WHERE machine_id IS NOT NULL
		  AND status IN (?, ?)
		  AND scheduled_start <= ? AND scheduled_end > ?
		ORDER BY machine_id, scheduled_start`,
		storage.ScheduleScheduled, storage.ScheduleInProgress, ts(at), ts(at))
}

func (s *Storage) GetSchedule(ctx context.Context, id int64) (*storage.ScheduleEntry, error) {
	const op = "storage.sqlstore.GetSchedule"

	entries, err := s.querySchedules(ctx, op, `SELECT `+scheduleColumns+` FROM schedules WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s: schedule id=%d: %w", op, id, storage.ErrNotFound)
	}

	return entries[0], nil
}

// CreateSchedule сохраняет запись вместе с кусками смен. Старые эскалации той же пары
// (заказ, этап) удаляются. Вторая активная запись на пару даёт storage.ErrDuplicateStage.
func (s *Storage) CreateSchedule(ctx context.Context, e storage.ScheduleEntry) (int64, error) {
	const op = "storage.sqlstore.CreateSchedule"

	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}

	var recJSON sql.NullString
	if e.Recommendation != nil {
		raw, err := json.Marshal(e.Recommendation)
		if err != nil {
			return 0, fmt.Errorf("%s: recommendation: %w", op, err)
		}
		recJSON = sql.NullString{String: string(raw), Valid: true}
	}

	var (
		machineID   sql.NullInt64
		machineName sql.NullString
	)
	if e.MachineID != nil {
		machineID = sql.NullInt64{Int64: *e.MachineID, Valid: true}
	}
	if e.MachineName != nil {
		machineName = sql.NullString{String: *e.MachineName, Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM schedules
		WHERE order_id = ? AND LOWER(stage_name) = LOWER(?) AND status = ?`,
		e.OrderID, e.StageName, storage.SchedulePendingApproval)
	if err != nil {
		return 0, fmt.Errorf("%s: drop stale escalations: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO schedules (order_id, order_number, machine_id, machine_name, stage_name,
			scheduled_start, scheduled_end, quantity, uom, status, is_manual_approval_required,
			is_approved, recommendation, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.OrderID, e.OrderNumber, machineID, machineName, e.StageName,
		ts(e.ScheduledStart), ts(e.ScheduledEnd), e.Quantity, e.UOM, e.Status, e.IsManualApprovalRequired,
		e.IsApproved, recJSON, ts(e.CreatedAt), ts(e.UpdatedAt),
	)
	if err != nil {
		if isDuplicate(err) {
			return 0, fmt.Errorf("%s: order %d stage %s: %w", op, e.OrderID, e.StageName, storage.ErrDuplicateStage)
		}
		return 0, fmt.Errorf("%s: insert schedule: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if len(e.Chunks) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO schedule_chunks (schedule_id, seq, start_at, end_at, quantity)
			VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, fmt.Errorf("%s: prepare statement: %w", op, err)
		}
		defer stmt.Close()

		for i, c := range e.Chunks {
			if _, err := stmt.ExecContext(ctx, id, i, ts(c.Start), ts(c.End), c.Quantity); err != nil {
				return 0, fmt.Errorf("%s: insert chunk %d: %w", op, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", op, err)
	}

	return id, nil
}

func (s *Storage) ApproveSchedule(ctx context.Context, id int64, at time.Time) error {
	const op = "storage.sqlstore.ApproveSchedule"

	res, err := s.db.ExecContext(ctx, `UPDATE schedules SET is_approved = ?, updated_at = ? WHERE id = ?`,
		true, ts(at), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: schedule id=%d: %w", op, id, storage.ErrNotFound)
	}

	return nil
}
