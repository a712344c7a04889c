package run

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"production-scheduler/internal/service/scheduling"
	"production-scheduler/internal/storage"
)

type AutoScheduler interface {
	RunAutoSchedule(ctx context.Context) (*scheduling.RunResult, error)
}

type Response struct {
	Message         string                    `json:"message"`
	RunID           string                    `json:"run_id"`
	Processed       int                       `json:"processed"`
	Recommendations []storage.Recommendation  `json:"recommendations"`
	Failures        []scheduling.OrderFailure `json:"failures"`
}

// AutoSchedule запускает прогон планирования. Прогон может идти дольше запроса,
// поэтому таймаут берётся больше обычных 5 секунд.
func AutoSchedule(log *slog.Logger, scheduler AutoScheduler, timeout time.Duration) http.HandlerFunc {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.scheduling.AutoSchedule"

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		res, err := scheduler.RunAutoSchedule(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Auto-scheduling failed")
			http.Error(w, "Auto-scheduling failed", http.StatusInternalServerError)
			return
		}

		log.With(slog.String("op", op), slog.String("run_id", res.RunID)).Info("Auto-scheduling completed")

		render.JSON(w, r, Response{
			Message:         "Auto-scheduling completed",
			RunID:           res.RunID,
			Processed:       res.Processed,
			Recommendations: res.Recommendations,
			Failures:        res.Failures,
		})
	}
}
