package db

import (
	"fmt"
	"os"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the database drivers and the file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/lavanderia-app/internal/models"
)

// Connect opens the database selected by the DSN (postgres URL or sqlite file
// path) and runs migrations. If MIGRATIONS=1|true|yes the SQL migrations in
// ./migrations are applied via golang-migrate; otherwise gorm AutoMigrate is
// used as the dev-convenience fallback.
func Connect(dsn string, log *logrus.Logger) (*gorm.DB, error) {
	dsn = NormalizeDSN(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN vacío, revisa la configuración del entorno")
	}

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var db *gorm.DB
	var err error
	for i := 0; i < 5; i++ {
		if IsPostgres(dsn) {
			db, err = gorm.Open(postgres.Open(dsn), cfg)
		} else {
			db, err = gorm.Open(sqlite.Open(dsn), cfg)
		}
		if err == nil {
			break
		}
		log.WithError(err).Warn("retrying DB connection")
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
	}

	// sanity check: the three tables the app depends on
	for _, table := range []string{"boletas", "boleta", "boleta_items"} {
		if !db.Migrator().HasTable(table) {
			return nil, fmt.Errorf("missing table after migration: %s", table)
		}
	}
	return db, nil
}

// AutoMigrate creates the schema from the gorm models plus the lookup indexes
// the listing queries rely on.
func AutoMigrate(db *gorm.DB) error {
	for _, m := range []interface{}{
		&models.BoletaResumen{}, &models.Boleta{}, &models.BoletaItem{},
	} {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// runSQLMigrations executes the migrations in ./migrations using the
// golang-migrate file source. The migrate driver follows the gorm one.
func runSQLMigrations(dsn string) error {
	dbURL := dsn
	if !IsPostgres(dsn) {
		dbURL = "sqlite3://" + dsn
	}
	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
