package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/chat"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/attendance-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/push"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/realtime"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/mongodb"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	chatService "github.com/cmlabs-hris/attendance-backend-go/internal/service/chat"
	dashboardService "github.com/cmlabs-hris/attendance-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/attendance-backend-go/internal/service/employee"
	leaveService "github.com/cmlabs-hris/attendance-backend-go/internal/service/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/reconcile"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
)

// repositories is the set of stores selected by STORAGE_DRIVER.
type repositories struct {
	tx         database.Transactor
	users      user.UserRepository
	employees  employee.EmployeeRepository
	attendance attendance.AttendanceRepository
	leaves     leave.LeaveRepository
	groups     chat.GroupRepository
	messages   chat.MessageRepository
	close      func(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	switch cfg.Storage.Driver {
	case config.DriverMongoDB:
		db, err := database.NewMongoDB(cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return repositories{}, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = db.Close(ctx)
			return repositories{}, err
		}
		return repositories{
			tx:         mongodb.NewTransactor(db),
			users:      mongodb.NewUserRepository(db),
			employees:  mongodb.NewEmployeeRepository(db),
			attendance: mongodb.NewAttendanceRepository(db),
			leaves:     mongodb.NewLeaveRepository(db),
			groups:     mongodb.NewGroupRepository(db),
			messages:   mongodb.NewMessageRepository(db),
			close:      db.Close,
		}, nil

	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return repositories{}, err
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return repositories{}, err
		}
		return repositories{
			tx:         postgresql.NewTransactor(db),
			users:      postgresql.NewUserRepository(db),
			employees:  postgresql.NewEmployeeRepository(db),
			attendance: postgresql.NewAttendanceRepository(db),
			leaves:     postgresql.NewLeaveRepository(db),
			groups:     postgresql.NewGroupRepository(db),
			messages:   postgresql.NewMessageRepository(db),
			close: func(context.Context) error {
				db.Close()
				return nil
			},
		}, nil

	case config.DriverMemory:
		slog.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return repositories{
			tx:         store,
			users:      memory.NewUserRepository(store),
			employees:  memory.NewEmployeeRepository(store),
			attendance: memory.NewAttendanceRepository(store),
			leaves:     memory.NewLeaveRepository(store),
			groups:     memory.NewGroupRepository(store),
			messages:   memory.NewMessageRepository(store),
			close:      func(context.Context) error { return nil },
		}, nil
	}
	return repositories{}, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := cfg.Location()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repos.close(closeCtx); err != nil {
			slog.Error("Failed to close storage", "error", err)
		}
	}()

	jwtService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.SocketExpiration)
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}
	translator, err := i18n.New(cfg.App.DefaultLocale)
	if err != nil {
		return fmt.Errorf("init translations: %w", err)
	}
	hub := realtime.NewHub()

	var notifier chat.Notifier = push.NoopNotifier{}
	if cfg.PushEnabled() {
		notifier = push.NewWebPushNotifier(push.Config{
			VAPIDPublicKey:  cfg.Push.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.Push.VAPIDPrivateKey,
			Subscriber:      cfg.Push.Subscriber,
			TTL:             cfg.Push.TTL,
		}, &http.Client{Timeout: 15 * time.Second})
	} else {
		slog.Info("Web push disabled, VAPID keys not configured")
	}
	dispatcher := notification.NewDispatcher(notifier, repos.users, notification.Config{})
	defer dispatcher.Stop()

	lateHour, lateMinute, err := config.ParseClock(cfg.Attendance.LateAfter)
	if err != nil {
		return err
	}
	earlyHour, earlyMinute, err := config.ParseClock(cfg.Attendance.EarlyBefore)
	if err != nil {
		return err
	}

	authSvc := serviceAuth.NewAuthService(repos.users, repos.employees, jwtService)
	attendanceSvc := attendanceService.NewAttendanceService(repos.attendance, repos.employees, repos.leaves, attendanceService.Rules{
		Location:    loc,
		LateAfter:   attendanceService.ClockMinutes(lateHour, lateMinute),
		EarlyBefore: attendanceService.ClockMinutes(earlyHour, earlyMinute),
	}, time.Now)
	reportSvc := reportService.NewReportService(repos.employees, repos.attendance, repos.leaves, reportService.Calendar{
		Location: loc,
		RestDays: cfg.Attendance.RestDays,
		Entitlement: reconcile.Quota{
			Sick:     cfg.Attendance.SickEntitlement,
			Personal: cfg.Attendance.PersonalEntitlement,
		},
	}, time.Now)
	requests := leaveService.NewRequestService(repos.tx, repos.leaves, repos.employees, loc, time.Now)
	leaveSvc := leaveService.NewLeaveService(repos.leaves, requests)
	employeeSvc := employeeService.NewEmployeeService(repos.employees, employeeService.Quota{
		Sick:     cfg.Attendance.SickEntitlement,
		Personal: cfg.Attendance.PersonalEntitlement,
	})
	dashboardSvc := dashboardService.NewDashboardService(repos.employees, repos.attendance, repos.leaves, hub, loc, cfg.Attendance.RestDays, time.Now)
	chatSvc := chatService.NewChatService(repos.tx, repos.groups, repos.messages, repos.users, hub, dispatcher, time.Now)

	sockets := appHTTP.NewSocketHandler(jwtService, authSvc, chatSvc, hub)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:         logger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		ScannerAPIKey:  cfg.Attendance.ScannerAPIKey,
	}, jwtService, authSvc, translator, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(authSvc, translator),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc, translator),
		Report:       appHTTP.NewReportHandler(reportSvc, translator),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc, translator),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc, translator),
		Dashboard:    appHTTP.NewDashboardHandler(dashboardSvc, translator),
		Chat:         appHTTP.NewChatHandler(chatSvc, translator),
		Notification: appHTTP.NewNotificationHandler(chatSvc, cfg.Push.VAPIDPublicKey, translator),
		Socket:       sockets,
	})

	if cfg.Scheduler.Enabled {
		scheduler := cron.NewScheduler(loc)
		jobs := cron.NewAttendanceJobs(attendanceSvc, dashboardSvc)
		if err := jobs.RegisterJobs(scheduler, cfg.Scheduler.DashboardBroadcast, cfg.Scheduler.OpenCheckoutReport); err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", "http://localhost"+server.Addr, "storage", cfg.Storage.Driver,
			"locales", strings.Join(translator.Supported(), ","))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down", "socket_subscribers", hub.TotalSubscribers())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := sockets.Close(); err != nil {
		slog.Warn("Failed to close sockets", "error", err)
	}
	return server.Shutdown(shutdownCtx)
}
