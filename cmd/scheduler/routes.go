package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getbom "production-scheduler/http-server/bom/get"
	generate_excel "production-scheduler/http-server/generate-report/generate-excel"
	getmachines "production-scheduler/http-server/machines/get"
	upmachines "production-scheduler/http-server/machines/update"
	getorders "production-scheduler/http-server/orders/get"
	orderprogress "production-scheduler/http-server/orders/progress"
	saveorders "production-scheduler/http-server/orders/save"
	"production-scheduler/http-server/scheduling/approve"
	getschedule "production-scheduler/http-server/scheduling/get"
	"production-scheduler/http-server/scheduling/run"
	"production-scheduler/internal/config"
	"production-scheduler/internal/middleware/auth"
	generate_excel2 "production-scheduler/internal/service/generate-excel"
	"production-scheduler/internal/service/progress"
	"production-scheduler/internal/service/scheduling"
	"production-scheduler/internal/storage/sqlstore"
)

func routes(cfg config.Config, log *slog.Logger, storage *sqlstore.Storage, scheduler *scheduling.Service,
	progressService *progress.Service, genService *generate_excel2.GenerateExcelService) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	// ip клиента
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/api/scheduling/schedule", getschedule.GetSchedules(log, storage))
	router.Get("/api/scheduling/schedule/{orderID}", getschedule.GetOrderSchedule(log, scheduler))

	router.Get("/api/orders", getorders.GetOrders(log, storage))

	router.Get("/api/machines", getmachines.GetMachines(log, storage))
	router.Get("/api/machines/status", getmachines.GetMachineStatuses(log, scheduler))

	router.Get("/api/bom/{item}", getbom.GetBOM(log, storage))

	router.Get("/api/report/schedule", generate_excel.GenerateReportExcel(log, genService))

	// изменяющие маршруты только под basic auth
	router.Group(func(r chi.Router) {
		r.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

		r.Post("/api/scheduling/auto-schedule", run.AutoSchedule(log, scheduler, cfg.Scheduling.RunTimeout))
		r.Post("/api/scheduling/schedule/{id}/approve", approve.ApproveSchedule(log, scheduler))

		r.Post("/api/orders", saveorders.SaveOrder(log, storage))
		r.Post("/api/orders/progress", orderprogress.UpdateProgress(log, progressService))

		r.Put("/api/machines/{id}/availability", upmachines.SetAvailability(log, storage))
	})

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return router
}
