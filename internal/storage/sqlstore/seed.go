package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"production-scheduler/internal/storage"
)

type SeedResult struct {
	Machines int `json:"machines"`
	BOMs     int `json:"boms"`
}

// Seed добавляет недостающие станки (по machine_code) и BOM (по output_item). Повторный вызов ничего не меняет.
func (s *Storage) Seed(ctx context.Context, machines []storage.Machine, boms []storage.BOM) (SeedResult, error) {
	const op = "storage.sqlstore.Seed"

	var res SeedResult

	existing, err := s.ListMachines(ctx)
	if err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}
	known := make(map[string]bool, len(existing))
	for _, m := range existing {
		known[m.MachineCode] = true
	}

	for _, m := range machines {
		if known[m.MachineCode] {
			continue
		}
		if _, err := s.CreateMachine(ctx, m); err != nil {
			return res, fmt.Errorf("%s: %w", op, err)
		}
		known[m.MachineCode] = true
		res.Machines++
	}

	for _, b := range boms {
		_, err := s.FindBOMByOutputItem(ctx, b.OutputItem)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return res, fmt.Errorf("%s: %w", op, err)
		}
		if _, err := s.CreateBOM(ctx, b); err != nil {
			return res, fmt.Errorf("%s: %w", op, err)
		}
		res.BOMs++
	}

	return res, nil
}
