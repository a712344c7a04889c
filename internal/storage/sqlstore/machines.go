package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"production-scheduler/internal/storage"
)

const machineColumns = `id, machine_code, name, process, shift_start, shift_end, working_days, is_available`

func scanMachine(row rowScanner) (*storage.Machine, error) {
	m := &storage.Machine{}
	err := row.Scan(&m.ID, &m.MachineCode, &m.Name, &m.Process, &m.ShiftStart, &m.ShiftEnd,
		&m.WorkingDays, &m.IsAvailable)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Storage) queryMachines(ctx context.Context, op, stmt string, args ...any) ([]*storage.Machine, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var machines []*storage.Machine
	for rows.Next() {
		m, err := scanMachine(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan machine: %w", op, err)
		}
		machines = append(machines, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return machines, nil
}

func (s *Storage) ListMachines(ctx context.Context) ([]*storage.Machine, error) {
	const op = "storage.sqlstore.ListMachines"

	return s.queryMachines(ctx, op, `SELECT `+machineColumns+` FROM machines ORDER BY id`)
}

// ListMachinesByProcess отдаёт все станки процесса (без учёта регистра), включая выведенные из работы.
func (s *Storage) ListMachinesByProcess(ctx context.Context, process string) ([]*storage.Machine, error) {
	const op = "storage.sqlstore.ListMachinesByProcess"

	return s.queryMachines(ctx, op,
		`SELECT `+machineColumns+` FROM machines WHERE LOWER(process) = LOWER(?) ORDER BY id`, process)
}

func (s *Storage) GetMachine(ctx context.Context, id int64) (*storage.Machine, error) {
	const op = "storage.sqlstore.GetMachine"

	m, err := scanMachine(s.db.QueryRowContext(ctx, `SELECT `+machineColumns+` FROM machines WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: machine id=%d: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return m, nil
}

func (s *Storage) CreateMachine(ctx context.Context, m storage.Machine) (int64, error) {
	const op = "storage.sqlstore.CreateMachine"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO machines (machine_code, name, process, shift_start, shift_end, working_days, is_available)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.MachineCode, m.Name, m.Process, m.ShiftStart, m.ShiftEnd, m.WorkingDays, m.IsAvailable)
	if err != nil {
		return 0, fmt.Errorf("%s: insert machine %s: %w", op, m.MachineCode, err)
	}

	return res.LastInsertId()
}

func (s *Storage) SetMachineAvailability(ctx context.Context, id int64, available bool) error {
	const op = "storage.sqlstore.SetMachineAvailability"

	if _, err := s.GetMachine(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.db.ExecContext(ctx, `UPDATE machines SET is_available = ? WHERE id = ?`, available, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
