package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"production-scheduler/internal/service/scheduling"
	"production-scheduler/internal/storage"
)

type ScheduleLister interface {
	ListSchedules(ctx context.Context, from, to time.Time) ([]*storage.ScheduleEntry, error)
}

type OrderScheduleGetter interface {
	OrderSchedule(ctx context.Context, orderID int64) (*scheduling.OrderSchedule, error)
}

type ResponseAll struct {
	Schedules []*storage.ScheduleEntry `json:"schedules"`
}

// GetSchedules все записи расписания, ?from= и ?to= (RFC3339 или YYYY-MM-DD) сужают окно.
func GetSchedules(log *slog.Logger, lister ScheduleLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.scheduling.GetSchedules"

		from, err := ParseTime(r.URL.Query().Get("from"))
		if err != nil {
			http.Error(w, "invalid from date", http.StatusBadRequest)
			return
		}
		to, err := ParseTime(r.URL.Query().Get("to"))
		if err != nil {
			http.Error(w, "invalid to date", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		schedules, err := lister.ListSchedules(ctx, from, to)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to fetch schedules")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if schedules == nil {
			schedules = []*storage.ScheduleEntry{}
		}

		render.JSON(w, r, ResponseAll{Schedules: schedules})
	}
}

func GetOrderSchedule(log *slog.Logger, getter OrderScheduleGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.scheduling.GetOrderSchedule"

		orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
		if err != nil {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := getter.OrderSchedule(ctx, orderID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				log.With(slog.String("op", op), slog.Int64("order_id", orderID)).Warn("Order not found")
				http.Error(w, "Order not found", http.StatusNotFound)
				return
			}

			log.With(
				slog.String("op", op),
				slog.Int64("order_id", orderID),
				slog.String("error", err.Error()),
			).Error("Failed to fetch order schedule")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, res)
	}
}

// ParseTime пустая строка даёт нулевое время (без ограничения).
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}
