package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/suryacity/hms/internal/config"
	"github.com/suryacity/hms/internal/domain/admission"
	"github.com/suryacity/hms/internal/domain/audit"
	"github.com/suryacity/hms/internal/domain/billing"
	"github.com/suryacity/hms/internal/domain/doctor"
	"github.com/suryacity/hms/internal/domain/employee"
	"github.com/suryacity/hms/internal/domain/ot"
	"github.com/suryacity/hms/internal/domain/patient"
	"github.com/suryacity/hms/internal/domain/reports"
	"github.com/suryacity/hms/internal/domain/slip"
	"github.com/suryacity/hms/internal/domain/user"
	"github.com/suryacity/hms/internal/domain/visit"
	"github.com/suryacity/hms/internal/platform/auth"
	"github.com/suryacity/hms/internal/platform/barcode"
	"github.com/suryacity/hms/internal/platform/db"
	"github.com/suryacity/hms/internal/platform/idgen"
	"github.com/suryacity/hms/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hms-server",
		Short: "Hospital back-office API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			return db.Migrate(ctx, pool, cfg.MigrationsDir, logger)
		},
	}
}

func newLogger() zerolog.Logger {
	if os.Getenv("ENV") == "" || os.Getenv("ENV") == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// requestValidator adapts validator/v10 to echo's Validator interface so
// handlers can call c.Validate on bound requests.
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{validate: validator.New()}
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Shared platform pieces
	ids := idgen.New()
	txRunner := db.NewPoolRunner(pool)
	renderer := barcode.NewCode128Renderer(logger)

	// Repositories
	patientRepo := patient.NewRepo(pool)
	doctorRepo := doctor.NewRepo(pool)
	visitRepo := visit.NewRepo(pool)
	bedRepo := admission.NewBedRepo(pool)
	admissionRepo := admission.NewRepo(pool)
	chargeRepo := billing.NewChargeRepo(pool)
	paymentRepo := billing.NewPaymentRepo(pool)
	otRepo := ot.NewRepo(pool)
	slipRepo := slip.NewRepo(pool)
	employeeRepo := employee.NewRepo(pool)
	salaryRepo := employee.NewSalaryRepo(pool)
	userRepo := user.NewRepo(pool)
	auditRepo := audit.NewRepo(pool)

	// Services. Billing sits between the clinical domains and the ledgers:
	// it reads patients/visits/admissions through their repositories, while
	// visit and admission post fees back through it.
	auditSvc := audit.NewService(auditRepo)
	patientSvc := patient.NewService(patientRepo, ids)
	doctorSvc := doctor.NewService(doctorRepo, ids, auditSvc)
	billingSvc := billing.NewService(chargeRepo, paymentRepo, patientRepo, visitRepo, admissionRepo, auditSvc, ids, txRunner)
	visitSvc := visit.NewService(visitRepo, patientSvc, doctorSvc, billingSvc, ids, txRunner)
	admissionSvc := admission.NewService(bedRepo, admissionRepo, patientSvc, visitSvc, billingSvc, ids, txRunner)
	slipSvc := slip.NewService(slipRepo, patientRepo, visitRepo, admissionRepo, chargeRepo, billingSvc,
		ids, renderer, cfg.HospitalName, logger)
	employeeSvc := employee.NewService(employeeRepo, salaryRepo, ids, cfg.HospitalName, logger)
	otSvc := ot.NewService(otRepo, admissionRepo, billingSvc, ids, logger)
	userSvc := user.NewService(userRepo, ids, cfg.JWTSecret, time.Duration(cfg.TokenTTLMin)*time.Minute, logger)
	reportsSvc := reports.NewService(paymentRepo, patientRepo, doctorRepo, visitRepo, bedRepo, admissionRepo,
		chargeRepo, employeeRepo, salaryRepo, cfg.HospitalName)

	// Routes. Login stays outside the auth gate; everything else requires a
	// verified identity.
	api := e.Group("/api/v1")
	user.NewHandler(userSvc).RegisterPublicRoutes(api)

	if cfg.IsDev() {
		logger.Warn().Msg("dev auth bypass enabled; set ENV=production before deploying")
		api.Use(auth.DevAuthMiddleware())
	} else {
		api.Use(auth.JWTMiddleware(cfg.JWTSecret))
	}

	patient.NewHandler(patientSvc).RegisterRoutes(api)
	doctor.NewHandler(doctorSvc).RegisterRoutes(api)
	visit.NewHandler(visitSvc).RegisterRoutes(api)
	admission.NewHandler(admissionSvc).RegisterRoutes(api)
	billing.NewHandler(billingSvc).RegisterRoutes(api)
	ot.NewHandler(otSvc).RegisterRoutes(api)
	slip.NewHandler(slipSvc).RegisterRoutes(api)
	employee.NewHandler(employeeSvc).RegisterRoutes(api)
	user.NewHandler(userSvc).RegisterRoutes(api)
	reports.NewHandler(reportsSvc).RegisterRoutes(api)
	audit.NewHandler(auditSvc).RegisterRoutes(api)

	// Serve until interrupted, then drain in-flight requests.
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()
	logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
