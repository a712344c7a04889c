package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type GenerateExcelHandler interface {
	GenerateExcel(ctx context.Context, from, to time.Time) ([]byte, error)
}

// GenerateReportExcel выгрузка расписания. По умолчанию окно с начала текущей недели
// на две недели вперёд, ?from= и ?to= в формате YYYY-MM-DD.
func GenerateReportExcel(log *slog.Logger, gen GenerateExcelHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.GenerateReportExcel"

		fromStr := r.URL.Query().Get("from")
		toStr := r.URL.Query().Get("to")

		now := time.Now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		weekStart := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))

		fDate := weekStart
		if fromStr != "" {
			d, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				http.Error(w, "invalid from date", http.StatusBadRequest)
				return
			}
			fDate = d
		}

		tDate := fDate.AddDate(0, 0, 14)
		if toStr != "" {
			d, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				http.Error(w, "invalid to date", http.StatusBadRequest)
				return
			}
			// включительно по дату to
			tDate = d.AddDate(0, 0, 1)
		}

		if !tDate.After(fDate) {
			http.Error(w, "to must not be before from", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, fDate, tDate)
		if err != nil {
			log.Error("failed to generate excel", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("Schedule_%s_%s.xlsx", fDate.Format("2006-01-02"), tDate.AddDate(0, 0, -1).Format("2006-01-02"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Write(excelBytes)
	}
}
