package progress

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"production-scheduler/internal/service/progress"
)

type Progressor interface {
	Run(ctx context.Context) ([]progress.Transition, error)
}

type Response struct {
	Updated     int                   `json:"updated"`
	Transitions []progress.Transition `json:"transitions"`
}

func UpdateProgress(log *slog.Logger, p Progressor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.UpdateProgress"

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		transitions, err := p.Run(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to update order statuses")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Response{Updated: len(transitions), Transitions: transitions})
	}
}
