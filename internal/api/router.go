package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"timeclock-backend/internal/api/handlers"
	"timeclock-backend/internal/auth"
	"timeclock-backend/internal/httpmiddleware"
	"timeclock-backend/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	db *sql.DB,
	tokens *auth.TokenManager,
	userService services.UserServiceProvider,
	attendanceService services.AttendanceServiceProvider,
	reportService services.ReportServiceProvider,
	backupService services.BackupServiceProvider,
	secureCookies bool,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	userHandler := handlers.NewUserHandler(userService, tokens, secureCookies)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	reportHandler := handlers.NewReportHandler(reportService, backupService)

	// Unauthenticated endpoints, rate limited per client IP.
	limiter := httpmiddleware.NewTokenBucket(20, 20)
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.Get("/exportcsv", reportHandler.ExportCSV)
		r.Get("/exporthtml", reportHandler.ExportHTML)
		r.Get("/upload", reportHandler.Upload)
	})

	r.Get("/users", userHandler.List)
	r.Get("/get-all", attendanceHandler.GetAll)

	// Session-guarded endpoints.
	r.Group(func(r chi.Router) {
		r.Use(tokens.Middleware())
		r.Get("/logout", userHandler.Logout)
		r.Get("/auth-check", userHandler.AuthCheck)
		r.Post("/clock-in", attendanceHandler.ClockIn)
		r.Post("/clock-out", attendanceHandler.ClockOut)
		r.Get("/attendance-records", attendanceHandler.Records)
		r.Get("/last-attendance", attendanceHandler.Last)
		r.Get("/user-fullname", userHandler.FullName)
	})

	// Operational endpoints.
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"degraded"}`))
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}
