package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"production-scheduler/internal/storage"
)

type AvailabilitySetter interface {
	SetMachineAvailability(ctx context.Context, id int64, available bool) error
}

type Request struct {
	IsAvailable *bool `json:"is_available"`
}

type Response struct {
	ID          int64 `json:"id"`
	IsAvailable bool  `json:"is_available"`
}

// SetAvailability выводит станок из работы или возвращает его. Недоступный станок
// планировщик не выбирает, уже созданные записи не трогаются.
func SetAvailability(log *slog.Logger, setter AvailabilitySetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.machines.SetAvailability"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid machine id", http.StatusBadRequest)
			return
		}

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsAvailable == nil {
			http.Error(w, "is_available is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := setter.SetMachineAvailability(ctx, id, *req.IsAvailable); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Machine not found", http.StatusNotFound)
				return
			}

			log.With(slog.String("op", op), slog.Int64("id", id), slog.String("error", err.Error())).Error("Failed to update machine")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Info("machine availability changed", slog.String("op", op), slog.Int64("id", id), slog.Bool("is_available", *req.IsAvailable))

		render.JSON(w, r, Response{ID: id, IsAvailable: *req.IsAvailable})
	}
}
