package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"production-scheduler/internal/storage"
)

type OrderSaver interface {
	CreateOrder(ctx context.Context, o storage.Order) (int64, error)
}

type Request struct {
	OrderNumber     string     `json:"order_number"`
	CustomerName    string     `json:"customer_name"`
	ItemCode        string     `json:"item_code"`
	Quantity        float64    `json:"quantity"`
	UOM             string     `json:"uom"`
	Rate            float64    `json:"rate"`
	Priority        int        `json:"priority"`
	OrderDate       *time.Time `json:"order_date"`
	DeliveryDate    time.Time  `json:"delivery_date"`
	IsNonChangeable bool       `json:"is_non_changeable"`
}

type Response struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (req Request) validate() error {
	var problems []string
	if strings.TrimSpace(req.OrderNumber) == "" {
		problems = append(problems, "order_number is required")
	}
	if strings.TrimSpace(req.ItemCode) == "" {
		problems = append(problems, "item_code is required")
	}
	if req.Quantity <= 0 {
		problems = append(problems, "quantity must be positive")
	}
	if req.Priority < 1 || req.Priority > 5 {
		problems = append(problems, "priority must be between 1 and 5")
	}
	if req.DeliveryDate.IsZero() {
		problems = append(problems, "delivery_date is required")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// SaveOrder создаёт заказ в статусе Pending, дальше им распоряжается планировщик.
func SaveOrder(log *slog.Logger, saver OrderSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.SaveOrder"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := req.validate(); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, Response{Error: err.Error()})
			return
		}

		orderDate := time.Now().UTC()
		if req.OrderDate != nil {
			orderDate = req.OrderDate.UTC()
		}
		uom := req.UOM
		if uom == "" {
			uom = "PCS"
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := saver.CreateOrder(ctx, storage.Order{
			OrderNumber:     strings.TrimSpace(req.OrderNumber),
			CustomerName:    req.CustomerName,
			ItemCode:        strings.TrimSpace(req.ItemCode),
			Quantity:        req.Quantity,
			UOM:             uom,
			Rate:            req.Rate,
			Priority:        req.Priority,
			OrderDate:       orderDate,
			DeliveryDate:    req.DeliveryDate.UTC(),
			IsNonChangeable: req.IsNonChangeable,
			Status:          storage.OrderPending,
		})
		if err != nil {
			if errors.Is(err, storage.ErrOrderExists) {
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, Response{Error: fmt.Sprintf("order %s already exists", req.OrderNumber)})
				return
			}

			log.Error("Failed to save order", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Info("order created", slog.String("op", op), slog.Int64("id", id), slog.String("order_number", req.OrderNumber))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{ID: id, Status: storage.OrderPending})
	}
}
