package approve

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

type Approver interface {
	ApproveEntry(ctx context.Context, id int64) (*storage.ScheduleEntry, error)
}

func ApproveSchedule(log *slog.Logger, approver Approver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.scheduling.ApproveSchedule"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid schedule id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		entry, err := approver.ApproveEntry(ctx, id)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			http.Error(w, "Schedule not found", http.StatusNotFound)
			return
		case errors.Is(err, scheduling.ErrOrderLocked):
			http.Error(w, "Order is non-changeable", http.StatusForbidden)
			return
		case errors.Is(err, scheduling.ErrNotPendingApproval):
			http.Error(w, "Schedule is not pending approval", http.StatusConflict)
			return
		case err != nil:
			log.With(slog.String("op", op), slog.Int64("id", id), slog.String("error", err.Error())).Error("Failed to approve schedule")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, entry)
	}
}
