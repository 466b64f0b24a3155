package database

import (
	"database/sql"
	"fmt"
	stdlog "log"
	"os"
	"time"

	"github.com/rpupo63/portfolio-site-backend/config"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	_ "modernc.org/sqlite"
)

// Open connects to the database selected by DB_TYPE: "supa" or "postgres"
// for a hosted Postgres, "sqlite" for a local file.
func Open(c map[string]string) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		PrepareStmt:    false,
		Logger:         newGormLogger(),
		TranslateError: true,
	}

	dbType := config.GetString(c, "DB_TYPE", "")
	log.Info().Str("dbType", dbType).Msg("connecting to database")

	switch dbType {
	case "supa", "postgres":
		db, err := gorm.Open(postgres.New(postgres.Config{
			DSN:                  postgresDSN(c, ""),
			PreferSimpleProtocol: true,
		}), gormConfig)
		if err != nil {
			return nil, errs.NewDatabaseError("connect", "database", err)
		}
		if err := useReplica(db, c); err != nil {
			return nil, err
		}
		return db, ping(db)
	case "sqlite":
		db, err := OpenSQLite(config.GetString(c, "SQLITE_PATH", "portfolio.db"), gormConfig)
		if err != nil {
			return nil, err
		}
		return db, ping(db)
	default:
		return nil, errs.NewConfigError("DB_TYPE", fmt.Errorf("unsupported DB_TYPE %q", dbType))
	}
}

// OpenSQLite opens path through the pure Go driver with foreign keys on.
// ":memory:" gives a private database per call.
func OpenSQLite(path string, gormConfig *gorm.Config) (*gorm.DB, error) {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errs.NewDatabaseError("connect", "database", err)
	}
	// one connection keeps an in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)

	if gormConfig == nil {
		gormConfig = &gorm.Config{Logger: logger.Discard, TranslateError: true}
	}
	db, err := gorm.Open(sqlite.Dialector{DriverName: "sqlite", Conn: sqlDB}, gormConfig)
	if err != nil {
		return nil, errs.NewDatabaseError("connect", "database", err)
	}
	return db, nil
}

func postgresDSN(c map[string]string, hostOverride string) string {
	host := config.GetString(c, "SUPABASE_DB_HOST", "")
	if hostOverride != "" {
		host = hostOverride
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host,
		config.GetString(c, "SUPABASE_DB_USER", ""),
		config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
		config.GetString(c, "SUPABASE_DB_NAME", "postgres"),
		config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		config.GetString(c, "DB_SSLMODE", "require"),
	)
}

// useReplica routes reads to DB_REPLICA_HOST when it is set.
func useReplica(db *gorm.DB, c map[string]string) error {
	replica := config.GetString(c, "DB_REPLICA_HOST", "")
	if replica == "" {
		return nil
	}

	log.Info().Str("host", replica).Msg("routing reads to replica")
	err := db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: []gorm.Dialector{postgres.New(postgres.Config{
			DSN:                  postgresDSN(c, replica),
			PreferSimpleProtocol: true,
		})},
		Policy: dbresolver.RandomPolicy{},
	}))
	if err != nil {
		return errs.NewDatabaseError("register replica", "database", err)
	}
	return nil
}

func ping(db *gorm.DB) error {
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return errs.NewDatabaseError("ping", "database", err)
	}
	return nil
}

func newGormLogger() logger.Interface {
	return logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
}
