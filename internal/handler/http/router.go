package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	ScannerAPIKey  string
}

type Handlers struct {
	Auth         AuthHandler
	Attendance   AttendanceHandler
	Report       ReportHandler
	Leave        LeaveHandler
	Employee     EmployeeHandler
	Dashboard    DashboardHandler
	Chat         ChatHandler
	Notification NotificationHandler
	Socket       SocketHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, authService auth.AuthService, translator *i18n.Translator, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", middleware.DeviceKeyHeader},
		ExposedHeaders:   []string{"Content-Language"},
		MaxAge:           300,
	}))

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	r.Use(middleware.Locale(translator))

	// Requires authentication
	authenticated := func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(authService))
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Get("/verify", h.Auth.Verify)
				r.Post("/socket-token", h.Auth.SocketToken)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			// Scanner devices do not log in.
			r.With(middleware.DeviceKey(cfg.ScannerAPIKey)).Post("/scan", h.Attendance.Scan)

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Get("/me", h.Report.MyReport)
				r.Get("/person", h.Report.PersonReport)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Attendance.List)
					r.Get("/today", h.Attendance.Today)
					r.Get("/open", h.Attendance.OpenCheckouts)
					r.Get("/register", h.Report.Register)
					r.Get("/month-totals", h.Report.MonthTotals)
				})
			})
		})

		r.Route("/leaves", func(r chi.Router) {
			authenticated(r)
			r.Post("/", h.Leave.Apply)
			r.Get("/balance/{employeeID}", h.Report.LeaveBalance)
			r.Get("/employee/{employeeID}", h.Leave.ListByEmployee)
			r.Get("/{id}", h.Leave.Get)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/", h.Leave.List)
				r.Get("/today", h.Leave.Today)
				r.Put("/{id}/decision", h.Leave.Decide)
			})
		})

		r.Route("/employees", func(r chi.Router) {
			authenticated(r)
			r.Use(middleware.AdminOnly)
			r.Get("/", h.Employee.List)
			r.Post("/", h.Employee.Create)
			r.Get("/badge/{badge}", h.Employee.GetByBadge)
			r.Get("/{id}", h.Employee.Get)
			r.Put("/{id}", h.Employee.Update)
			r.Delete("/{id}", h.Employee.Delete)
		})

		r.Route("/dashboard", func(r chi.Router) {
			// Socket upgrades carry a socket token in the query string.
			r.Get("/ws", h.Socket.Dashboard)

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Use(middleware.AdminOnly)
				r.Get("/", h.Dashboard.Today)
			})
		})

		r.Route("/chat/groups", func(r chi.Router) {
			r.Get("/{id}/ws", h.Socket.Group)

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Get("/", h.Chat.ListGroups)
				r.Post("/", h.Chat.CreateGroup)
				r.Put("/{id}", h.Chat.RenameGroup)
				r.Delete("/{id}", h.Chat.DeleteGroup)
				r.Post("/{id}/members", h.Chat.AddMember)
				r.Get("/{id}/messages", h.Chat.Messages)
				r.Post("/{id}/messages", h.Chat.Send)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/public-key", h.Notification.PublicKey)

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Post("/subscribe", h.Notification.Subscribe)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	return r
}
