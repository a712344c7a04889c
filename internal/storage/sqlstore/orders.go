package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"production-scheduler/internal/storage"
)

const orderColumns = `id, order_number, customer_name, item_code, quantity, uom, rate, priority,
	order_date, delivery_date, is_non_changeable, status`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*storage.Order, error) {
	o := &storage.Order{}
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerName, &o.ItemCode, &o.Quantity, &o.UOM, &o.Rate,
		&o.Priority, &o.OrderDate, &o.DeliveryDate, &o.IsNonChangeable, &o.Status)
	if err != nil {
		return nil, err
	}
	o.OrderDate = o.OrderDate.UTC()
	o.DeliveryDate = o.DeliveryDate.UTC()
	return o, nil
}

func (s *Storage) queryOrders(ctx context.Context, op, stmt string, args ...any) ([]*storage.Order, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var orders []*storage.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan order: %w", op, err)
		}
		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return orders, nil
}

func (s *Storage) ListOrders(ctx context.Context) ([]*storage.Order, error) {
	const op = "storage.sqlstore.ListOrders"

	stmt := `SELECT ` + orderColumns + ` FROM orders ORDER BY priority, delivery_date, id`

	return s.queryOrders(ctx, op, stmt)
}

func (s *Storage) ListOrdersByStatus(ctx context.Context, statuses ...string) ([]*storage.Order, error) {
	const op = "storage.sqlstore.ListOrdersByStatus"

	if len(statuses) == 0 {
		return s.ListOrders(ctx)
	}

	args := make([]any, len(statuses))
	for i, st := range statuses {
		args[i] = st
	}

	stmt := `SELECT ` + orderColumns + ` FROM orders WHERE status IN (` + placeholders(len(statuses)) + `)
		ORDER BY priority, delivery_date, id`

	return s.queryOrders(ctx, op, stmt, args...)
}

func (s *Storage) GetOrder(ctx context.Context, id int64) (*storage.Order, error) {
	const op = "storage.sqlstore.GetOrder"

	row := s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: order id=%d: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return o, nil
}

func (s *Storage) CreateOrder(ctx context.Context, o storage.Order) (int64, error) {
	const op = "storage.sqlstore.CreateOrder"

	if o.Status == "" {
		o.Status = storage.OrderPending
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO orders (order_number, customer_name, item_code, quantity, uom, rate, priority,
			order_date, delivery_date, is_non_changeable, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.OrderNumber, o.CustomerName, o.ItemCode, o.Quantity, o.UOM, o.Rate, o.Priority,
		ts(o.OrderDate), ts(o.DeliveryDate), o.IsNonChangeable, o.Status,
	)
	if err != nil {
		if isDuplicate(err) {
			return 0, fmt.Errorf("%s: %s: %w", op, o.OrderNumber, storage.ErrOrderExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.LastInsertId()
}

func (s *Storage) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	const op = "storage.sqlstore.UpdateOrderStatus"

	res, err := s.db.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		// MySQL не считает строку изменённой, если статус тот же, поэтому проверяем наличие
		if _, err := s.GetOrder(ctx, id); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}
