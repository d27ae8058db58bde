package storage

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	gormDB     *gorm.DB
	elevatedDB *gorm.DB
)

// InitGormDB initializes the GORM connection used by the domain handlers.
// This is the restricted tier: it connects with the ordinary application
// role.
func InitGormDB() *gorm.DB {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=America/Santiago",
		host, user, password, dbname, port)

	var err error
	gormDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Fatal("Failed to connect to database with GORM:", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB:", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	return gormDB
}

// InitElevatedGormDB opens the elevated (service-role) connection used for
// writes the public site triggers, such as quote submission. When the
// service credentials are not configured it returns nil and the handlers
// that need it fail fast instead of partially persisting.
func InitElevatedGormDB() *gorm.DB {
	user := os.Getenv("DB_SERVICE_USER")
	password := os.Getenv("DB_SERVICE_PASSWORD")
	if user == "" || password == "" {
		log.Println("Service-role DB credentials not configured; public write endpoints disabled")
		return nil
	}

	dbname := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=America/Santiago",
		host, user, password, dbname, port)

	var err error
	elevatedDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Fatal("Failed to connect to database with service role:", err)
	}

	sqlDB, err := elevatedDB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB:", err)
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)

	return elevatedDB
}

// GetGormDB returns the restricted GORM instance.
func GetGormDB() *gorm.DB {
	return gormDB
}

// GetElevatedGormDB returns the service-role GORM instance, or nil when the
// elevated credentials were never configured.
func GetElevatedGormDB() *gorm.DB {
	return elevatedDB
}
