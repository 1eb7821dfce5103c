package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticsapp "github.com/hospos/backend/internal/application/analytics"
	engagementapp "github.com/hospos/backend/internal/application/engagement"
	identityapp "github.com/hospos/backend/internal/application/identity"
	inventoryapp "github.com/hospos/backend/internal/application/inventory"
	orderingapp "github.com/hospos/backend/internal/application/ordering"
	workforceapp "github.com/hospos/backend/internal/application/workforce"
	"github.com/hospos/backend/internal/domain/identity"
	"github.com/hospos/backend/internal/infrastructure/cache"
	"github.com/hospos/backend/internal/infrastructure/config"
	"github.com/hospos/backend/internal/infrastructure/logger"
	"github.com/hospos/backend/internal/infrastructure/persistence"
	"github.com/hospos/backend/internal/infrastructure/scheduler"
	"github.com/hospos/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

// services is the composition root: every application service wired against
// the GORM repositories. Transports (HTTP, gRPC) mount on top of this.
type services struct {
	Company      *identityapp.CompanyService
	Outlet       *identityapp.OutletService
	Staff        *identityapp.StaffService
	Attendance   *workforceapp.AttendanceService
	Leave        *workforceapp.LeaveService
	Payroll      *workforceapp.PayrollService
	Catalog      *orderingapp.CatalogService
	Order        *orderingapp.OrderService
	Inventory    *inventoryapp.InventoryService
	StoreRequest *inventoryapp.StoreRequestService
	Customer     *engagementapp.CustomerService
	Reservation  *engagementapp.ReservationService
	Event        *engagementapp.EventService
	Feedback     *engagementapp.FeedbackService
	Sales        *analyticsapp.SalesService

	companyRepo *persistence.GormCompanyRepository
}

func newServices(db *persistence.Database, cfg *config.Config, log *zap.Logger) *services {
	companyRepo := persistence.NewGormCompanyRepository(db.DB, persistence.CompanyDeletePolicy(cfg.Policy.CompanyDelete))
	outletRepo := persistence.NewGormOutletRepository(db.DB)
	staffRepo := persistence.NewGormStaffRepository(db.DB)
	staffGroupRepo := persistence.NewGormStaffGroupRepository(db.DB)
	attendanceRepo := persistence.NewGormAttendanceRepository(db.DB)
	leaveAppRepo := persistence.NewGormLeaveApplicationRepository(db.DB)
	leaveBalanceRepo := persistence.NewGormLeaveBalanceRepository(db.DB)
	payrollSettingsRepo := persistence.NewGormPayrollSettingsRepository(db.DB)
	payrollPeriodRepo := persistence.NewGormPayrollPeriodRepository(db.DB)
	tableRepo := persistence.NewGormTableRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	menuItemRepo := persistence.NewGormMenuItemRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	inventoryItemRepo := persistence.NewGormInventoryItemRepository(db.DB)
	stockMovementRepo := persistence.NewGormStockMovementRepository(db.DB)
	storeRequestRepo := persistence.NewGormStoreRequestRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	reservationRepo := persistence.NewGormReservationRepository(db.DB)
	eventRepo := persistence.NewGormEventRepository(db.DB)
	feedbackRepo := persistence.NewGormFeedbackRepository(db.DB)
	issueRepo := persistence.NewGormIssueRepository(db.DB)
	salesRepo := persistence.NewGormSalesDataRepository(db.DB)

	managerPolicy := identity.ManagerPolicy(cfg.Policy.ManagerAssignment)

	return &services{
		Company:      identityapp.NewCompanyService(companyRepo, staffRepo, log),
		Outlet:       identityapp.NewOutletService(outletRepo, companyRepo, staffRepo, managerPolicy, log),
		Staff:        identityapp.NewStaffService(staffRepo, staffGroupRepo, companyRepo, outletRepo, log),
		Attendance:   workforceapp.NewAttendanceService(attendanceRepo, payrollSettingsRepo, staffRepo, log),
		Leave:        workforceapp.NewLeaveService(leaveAppRepo, leaveBalanceRepo, attendanceRepo, staffRepo, log),
		Payroll:      workforceapp.NewPayrollService(payrollPeriodRepo, payrollSettingsRepo, attendanceRepo, staffRepo, log),
		Catalog:      orderingapp.NewCatalogService(menuItemRepo, categoryRepo, tableRepo, log),
		Order:        orderingapp.NewOrderService(orderRepo, tableRepo, menuItemRepo, staffRepo, log),
		Inventory:    inventoryapp.NewInventoryService(inventoryItemRepo, supplierRepo, stockMovementRepo, log),
		StoreRequest: inventoryapp.NewStoreRequestService(storeRequestRepo, inventoryItemRepo, log),
		Customer:     engagementapp.NewCustomerService(customerRepo, log),
		Reservation:  engagementapp.NewReservationService(reservationRepo, customerRepo, tableRepo, log),
		Event:        engagementapp.NewEventService(eventRepo, customerRepo, menuItemRepo, log),
		Feedback:     engagementapp.NewFeedbackService(feedbackRepo, issueRepo, staffRepo, log),
		Sales:        analyticsapp.NewSalesService(salesRepo, orderRepo, categoryRepo, log),

		companyRepo: companyRepo,
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(logger.FromLogConfig(cfg.Log, cfg.App.Env))
	if err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	log.Info("starting",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	if err := run(cfg, log); err != nil {
		log.Fatal("exiting with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("closing database", zap.Error(err))
		}
	}()
	log.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
	)

	tracing := telemetry.NewDBTracingPlugin(cfg.Telemetry, log)
	if err := tracing.Register(db.DB); err != nil {
		return err
	}

	// Production schemas change through versioned migrations (cmd/migrate);
	// AutoMigrate keeps development and test databases current.
	if cfg.App.Env != "production" {
		if err := db.AutoMigrate(); err != nil {
			return err
		}
		log.Info("schema migrated")
	}

	svc := newServices(db, cfg, log)

	// Duplicate payment references are rejected across instances when Redis
	// is reachable; otherwise an in-process store still catches local retries.
	dedupeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, log, true)
	dedupeStore, err := dedupeFactory.CreateStore()
	if err != nil {
		return err
	}
	defer func() { _ = dedupeStore.Close() }()
	svc.Order.WithPaymentDedupe(dedupeStore, 0)

	var salesScheduler *scheduler.SalesRecomputeScheduler
	if cfg.Analytics.RecomputeEnabled {
		salesScheduler, err = scheduler.NewSalesRecomputeScheduler(
			scheduler.SalesRecomputeConfig{
				Schedule:      cfg.Analytics.DailyCronSchedule,
				JobTimeout:    cfg.Analytics.JobTimeout,
				CheckInterval: time.Minute,
			},
			svc.companyRepo,
			svc.Sales,
			log,
		)
		if err != nil {
			return err
		}
		if err := salesScheduler.Start(context.Background()); err != nil {
			return err
		}
		log.Info("sales recompute scheduler started",
			zap.String("schedule", cfg.Analytics.DailyCronSchedule),
		)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if salesScheduler != nil {
		if err := salesScheduler.Stop(ctx); err != nil {
			log.Warn("stopping sales recompute scheduler", zap.Error(err))
		}
	}
	return nil
}
