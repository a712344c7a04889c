package storage

import "time"

const (
	OrderPending    = "Pending"
	OrderScheduled  = "Scheduled"
	OrderInProgress = "In Progress"
	OrderCompleted  = "Completed"
	OrderDelivered  = "Delivered"
)

type Order struct {
	ID              int64     `json:"id"`
	OrderNumber     string    `json:"order_number"`
	CustomerName    string    `json:"customer_name"`
	ItemCode        string    `json:"item_code"`
	Quantity        float64   `json:"quantity"`
	UOM             string    `json:"uom"`
	Rate            float64   `json:"rate"`
	Priority        int       `json:"priority"`
	OrderDate       time.Time `json:"order_date"`
	DeliveryDate    time.Time `json:"delivery_date"`
	IsNonChangeable bool      `json:"is_non_changeable"`
	Status          string    `json:"status"`
}
