package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"production-scheduler/internal/service/scheduling"
	"production-scheduler/internal/storage"
)

type MachineGetter interface {
	ListMachines(ctx context.Context) ([]*storage.Machine, error)
}

type StatusGetter interface {
	MachineStatuses(ctx context.Context) ([]scheduling.MachineStatus, error)
}

type Response struct {
	Machines []*storage.Machine `json:"machines"`
}

type StatusResponse struct {
	Machines []scheduling.MachineStatus `json:"machines"`
}

func GetMachines(log *slog.Logger, getter MachineGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.machines.GetMachines"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		machines, err := getter.ListMachines(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to fetch machines")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if machines == nil {
			machines = []*storage.Machine{}
		}

		render.JSON(w, r, Response{Machines: machines})
	}
}

// GetMachineStatuses живой статус станков: Active (что сейчас в работе), Idle или Offline.
func GetMachineStatuses(log *slog.Logger, getter StatusGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.machines.GetMachineStatuses"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		statuses, err := getter.MachineStatuses(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to fetch machine statuses")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, StatusResponse{Machines: statuses})
	}
}
