package get

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"production-scheduler/internal/storage"
)

type OrderGetter interface {
	ListOrdersByStatus(ctx context.Context, statuses ...string) ([]*storage.Order, error)
}

type Response struct {
	Orders []*storage.Order `json:"orders"`
}

// GetOrders ?status=Pending,Scheduled фильтрует по статусам, без параметра отдаёт все заказы.
func GetOrders(log *slog.Logger, getter OrderGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.GetOrders"

		var statuses []string
		for _, st := range strings.Split(r.URL.Query().Get("status"), ",") {
			if st = strings.TrimSpace(st); st != "" {
				statuses = append(statuses, st)
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		orders, err := getter.ListOrdersByStatus(ctx, statuses...)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to fetch orders")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if orders == nil {
			orders = []*storage.Order{}
		}

		render.JSON(w, r, Response{Orders: orders})
	}
}
