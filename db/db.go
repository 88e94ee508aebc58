package db

import (
	"fmt"
	"os"

	"radio_rental_tool/config"
	"radio_rental_tool/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		config.GetLogger().Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(DB); err != nil {
		config.GetLogger().Fatal("Failed to migrate models: ", err)
	}
	config.GetLogger().Info("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Unit{}, &models.Bundle{}, &models.RentalEntry{}, &models.ReturnLogEntry{}); err != nil {
		return err
	}

	// At most one open rental per unit. unit_no is matched
	// case/whitespace-insensitively everywhere and legacy rows may carry
	// mixed-case status, so the index normalizes both.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_open_per_unit
	  ON %s (lower(trim(unit_no)))
	  WHERE lower(status) = 'rented';
	`, models.RentalTable, models.RentalTable)).Error; err != nil {
		return err
	}

	// Newest-open-first lookups during returns.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_open_dept_id_desc
	  ON %s (dept, id DESC)
	  WHERE lower(status) = 'rented';
	`, models.RentalTable, models.RentalTable)).Error; err != nil {
		return err
	}

	// Registration races cannot slip a case/space variant of an existing
	// unit_no past the pre-check.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_unit_no_norm
	  ON %s (lower(trim(unit_no)));
	`, models.UnitTable, models.UnitTable)).Error; err != nil {
		return err
	}

	return nil
}
