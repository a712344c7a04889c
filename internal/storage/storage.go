package storage

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrOrderExists = errors.New("order already exists")
	// ErrDuplicateStage на пару (заказ, этап) уже есть активная запись расписания
	ErrDuplicateStage = errors.New("stage already scheduled for order")
)
