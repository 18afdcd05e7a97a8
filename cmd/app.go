package cmd

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/auth"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/expense/memory"
	expensePostgres "github.com/frahmantamala/expense-tracker/internal/expense/postgres"
	"github.com/frahmantamala/expense-tracker/internal/summary"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// app wires the services every command needs from one config.
type app struct {
	cfg        *internal.Config
	logger     *slog.Logger
	sqlDB      *sql.DB
	repo       expense.Repository
	categories *category.Service
	expenses   *expense.Service
	summaries  *summary.Service
	tokens     *auth.TokenManager
}

func newApp(cfg *internal.Config) (*app, error) {
	lg := logger.LoggerWrapper()
	a := &app{cfg: cfg, logger: lg}

	if cfg.Database.Driver == internal.DriverMemory {
		lg.Warn("using in-memory expense store; data is lost on exit")
		a.repo = memory.New()
	} else {
		db, err := openDatabase(cfg.Database, cfg.Env)
		if err != nil {
			return nil, err
		}
		a.sqlDB, err = db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		a.repo = expensePostgres.NewExpenseRepository(db)
	}

	limits := expense.PageLimits{Default: cfg.Expense.DefaultPageSize, Max: cfg.Expense.MaxPageSize}
	a.categories = category.NewService(cfg.Expense.Categories, lg)
	a.expenses = expense.NewService(a.repo, a.categories, limits, lg)
	a.summaries = summary.NewService(a.repo, limits, lg)
	a.tokens = auth.NewTokenManager(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration)
	return a, nil
}

func (a *app) Close() error {
	if a.sqlDB == nil {
		return nil
	}
	return a.sqlDB.Close()
}

// openDatabase opens gorm on the configured driver and applies the pool settings.
func openDatabase(cfg internal.DatabaseConfig, env string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case internal.DriverPostgres:
		dialector = postgres.Open(cfg.GetDSN())
	case internal.DriverSQLite:
		dialector = sqlite.Open(cfg.GetDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	logLevel := gormlogger.Warn
	if env == "production" {
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(logLevel)})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
