package db

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/learnhub/internal/config"
	"github.com/diewo77/learnhub/internal/models"
)

// Models migrated by AutoMigrate, in dependency order.
func allModels() []any {
	return []any{
		&models.Organization{},
		&models.User{},
		&models.InstructorProfile{},
		&models.Course{},
		&models.Lesson{},
		&models.Enrollment{},
		&models.LessonProgress{},
	}
}

// ConnectAndMigrate opens the database and brings the schema up to date.
// With MIGRATIONS=1 SQL migrations run via golang-migrate; otherwise
// AutoMigrate is used (dev convenience).
func ConnectAndMigrate(dsn string) (*gorm.DB, error) {
	dsn = NormalizeDSN(dsn)
	if dsn == "" {
		return nil, errors.New("DATABASE_DSN is empty, check environment configuration")
	}
	logLevel := logger.Silent
	if config.ParseBool("DB_DEBUG", false) {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel), TranslateError: true}

	var db *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
		if err == nil {
			break
		}
		fmt.Println("Retrying DB connection...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}

	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	// Print masked DSN once for diagnostics.
	masked := dsn
	if strings.Contains(masked, "password=") {
		re := regexp.MustCompile(`(password=)(\S+)`)
		masked = re.ReplaceAllString(masked, `${1}***`)
	}
	fmt.Println("[DB] Using DSN:", masked)

	if config.ParseBool("MIGRATIONS", false) {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		for _, m := range allModels() {
			if migErr := db.AutoMigrate(m); migErr != nil {
				return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
			}
		}
	}

	for _, table := range []string{"organizations", "users", "courses", "enrollments"} {
		if !db.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}

	if config.ParseBool("DB_SEED", false) {
		if err := Seed(db); err != nil {
			return nil, fmt.Errorf("seed failed: %w", err)
		}
	}
	return db, nil
}

// MigrateAll migrates the schema on an already-open connection. Used by
// tests running against sqlite.
func MigrateAll(db *gorm.DB) error {
	for _, m := range allModels() {
		if err := db.AutoMigrate(m); err != nil {
			return err
		}
	}
	return nil
}

// runSQLMigrations executes migrations in ./migrations using the file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
