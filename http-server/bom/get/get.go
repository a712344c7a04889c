package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"production-scheduler/internal/storage"
)

type BOMGetter interface {
	FindBOMByOutputItem(ctx context.Context, itemCode string) (*storage.BOM, error)
}

func GetBOM(log *slog.Logger, getter BOMGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bom.GetBOM"

		// коды изделий содержат '#', клиент присылает его как %23
		item, err := url.PathUnescape(chi.URLParam(r, "item"))
		if err != nil || item == "" {
			http.Error(w, "Missing item code", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		bom, err := getter.FindBOMByOutputItem(ctx, item)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				log.With(slog.String("op", op), slog.String("item", item)).Warn("BOM not found")
				http.Error(w, "BOM not found", http.StatusNotFound)
				return
			}

			log.With(slog.String("op", op), slog.String("item", item), slog.String("error", err.Error())).Error("Failed to fetch BOM")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, bom)
	}
}
