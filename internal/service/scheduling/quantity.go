package scheduling

import (
	"fmt"
	"math"
	"time"

	"production-scheduler/internal/storage"
)

// StagePlan сколько материала проходит этап и сколько это занимает времени.
type StagePlan struct {
	Quantity         float64
	TotalDuration    time.Duration
	MinBatchDuration time.Duration
}

// PlanStage переводит количество заказа во время этапа:
// время на единицу = часы на мин. партию / мин. партия.
func PlanStage(orderQty float64, st storage.Stage) (StagePlan, error) {
	if orderQty <= 0 {
		return StagePlan{}, fmt.Errorf("order quantity %v: %w", orderQty, ErrInvalidStage)
	}
	if st.MinBatchQuantity <= 0 || st.HoursRequiredMinBatch <= 0 {
		return StagePlan{}, fmt.Errorf("stage %s: min batch %v, hours %v: %w",
			st.StageName, st.MinBatchQuantity, st.HoursRequiredMinBatch, ErrInvalidStage)
	}

	unit := st.UnitMaterialPerProduct
	if unit == 0 {
		unit = 1
	}
	if unit < 0 {
		return StagePlan{}, fmt.Errorf("stage %s: unit material %v: %w", st.StageName, unit, ErrInvalidStage)
	}

	qty := orderQty * unit
	hoursPerUnit := st.HoursRequiredMinBatch / st.MinBatchQuantity

	return StagePlan{
		Quantity:         qty,
		TotalDuration:    hoursToDuration(qty * hoursPerUnit),
		MinBatchDuration: hoursToDuration(st.MinBatchQuantity * hoursPerUnit),
	}, nil
}

// hoursToDuration с округлением до секунды, в таком виде время уходит в БД.
// Ненулевая работа занимает минимум секунду, иначе этап остался бы без кусков.
func hoursToDuration(h float64) time.Duration {
	d := time.Duration(math.Round(h*3600)) * time.Second
	if d == 0 && h > 0 {
		return time.Second
	}
	return d
}
