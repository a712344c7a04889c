package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"production-scheduler/internal/storage"
)

// FindBOMByOutputItem ищет BOM по коду изделия без учёта регистра, этапы отсортированы по sequence_no.
func (s *Storage) FindBOMByOutputItem(ctx context.Context, itemCode string) (*storage.BOM, error) {
	const op = "storage.sqlstore.FindBOMByOutputItem"

	bom := &storage.BOM{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, output_item, output_qty, uom
		FROM boms
		WHERE LOWER(output_item) = LOWER(?)`, itemCode,
	).Scan(&bom.ID, &bom.OutputItem, &bom.OutputQty, &bom.UOM)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: bom for item '%s': %w", op, itemCode, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT sequence_no, stage_name, min_batch_quantity, hours_required_min_batch,
			unit_material_per_product, components
		FROM bom_stages
		WHERE bom_id = ?
		ORDER BY sequence_no`, bom.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: stages: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			st             storage.Stage
			componentsJSON sql.NullString
		)
		err := rows.Scan(&st.SequenceNo, &st.StageName, &st.MinBatchQuantity, &st.HoursRequiredMinBatch,
			&st.UnitMaterialPerProduct, &componentsJSON)
		if err != nil {
			return nil, fmt.Errorf("%s: scan stage: %w", op, err)
		}

		if componentsJSON.Valid && componentsJSON.String != "" {
			if err := json.Unmarshal([]byte(componentsJSON.String), &st.Components); err != nil {
				return nil, fmt.Errorf("%s: components of stage %s: %w", op, st.StageName, err)
			}
		}

		bom.Stages = append(bom.Stages, st)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bom, nil
}

func (s *Storage) CreateBOM(ctx context.Context, bom storage.BOM) (int64, error) {
	const op = "storage.sqlstore.CreateBOM"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO boms (output_item, output_qty, uom) VALUES (?, ?, ?)`,
		bom.OutputItem, bom.OutputQty, bom.UOM)
	if err != nil {
		return 0, fmt.Errorf("%s: insert bom %s: %w", op, bom.OutputItem, err)
	}

	bomID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bom_stages (bom_id, sequence_no, stage_name, min_batch_quantity,
			hours_required_min_batch, unit_material_per_product, components)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("%s: prepare statement: %w", op, err)
	}
	defer stmt.Close()

	for _, st := range bom.Stages {
		components, err := json.Marshal(st.Components)
		if err != nil {
			return 0, fmt.Errorf("%s: components of stage %s: %w", op, st.StageName, err)
		}

		unit := st.UnitMaterialPerProduct
		if unit == 0 {
			unit = 1
		}

		_, err = stmt.ExecContext(ctx, bomID, st.SequenceNo, st.StageName, st.MinBatchQuantity,
			st.HoursRequiredMinBatch, unit, string(components))
		if err != nil {
			return 0, fmt.Errorf("%s: insert stage %s: %w", op, st.StageName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", op, err)
	}

	return bomID, nil
}
