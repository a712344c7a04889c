package storage

type BOM struct {
	ID         int64   `json:"id"`
	OutputItem string  `json:"output_item"`
	OutputQty  float64 `json:"output_qty"`
	UOM        string  `json:"uom"`
	Stages     []Stage `json:"stages"`
}

// Stage этап маршрута. StageName совпадает с Machine.Process станков, которые его выполняют.
type Stage struct {
	SequenceNo             int         `json:"sequence_no"`
	StageName              string      `json:"stage_name"`
	MinBatchQuantity       float64     `json:"min_batch_quantity"`
	HoursRequiredMinBatch  float64     `json:"hours_required_min_batch"`
	UnitMaterialPerProduct float64     `json:"unit_material_per_product"`
	Components             []Component `json:"components,omitempty"`
}

type Component struct {
	Code string  `json:"code"`
	Qty  float64 `json:"qty"`
	UOM  string  `json:"uom"`
}
