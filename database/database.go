package database

import (
	"codeclub/config"
	"codeclub/models"
	courseModels "codeclub/models/course"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes a connection to the configured database
func ConnectDb() {
	db, err := gorm.Open(openDialector(), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	// Run database migrations
	RunMigrations(db)

	// Save database instance globally
	Database = DbInstance{Db: db}
}

// openDialector picks the GORM driver from DB_DRIVER. Postgres is the
// production default; sqlite exists for local development.
func openDialector() gorm.Dialector {
	cfg := config.AppConfig

	switch cfg.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
		)
		return mysql.Open(dsn)
	case "sqlite":
		return sqlite.Open(cfg.DBName)
	default:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
		)
		return postgres.Open(dsn)
	}
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.LoginTracking{},
		&courseModels.Badge{},
		&courseModels.Course{},
		&courseModels.Lesson{},
		&courseModels.Chapter{},
		&courseModels.ChapterElement{},
		&courseModels.QuizForm{},
		&courseModels.QuizQuestion{},
		&courseModels.UserBadge{},
		&courseModels.UserChapterProgress{},
		&courseModels.UserLessonProgress{},
		&courseModels.UserCourseProgress{},
		&courseModels.Portfolio{},
		&courseModels.PortfolioReview{},
		&courseModels.UploadSession{},
		&courseModels.UploadChunk{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully.")
}
