package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/autotrackr/autotrackr-backend/internal/users"
	"github.com/autotrackr/autotrackr-backend/pkg/config"
	"github.com/autotrackr/autotrackr-backend/pkg/db"
	"github.com/autotrackr/autotrackr-backend/pkg/db/models"
	"github.com/autotrackr/autotrackr-backend/pkg/enums"
	"github.com/autotrackr/autotrackr-backend/pkg/logger"
	"github.com/autotrackr/autotrackr-backend/pkg/security"
	"github.com/autotrackr/autotrackr-backend/pkg/types"
)

// Seeds a demo inventory plus the admin account. Dev only; refuses to run in
// prod.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	if cfg.App.IsProd() {
		logg.Error(ctx, "refusing to seed a prod database", errors.New("prod environment"))
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	client, err := openDB(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to open database", err)
		os.Exit(1)
	}
	defer client.Close()

	if err := seedAdmin(ctx, cfg, client.DB()); err != nil {
		logg.Error(ctx, "failed to seed admin user", err)
		os.Exit(1)
	}

	if err := seedCars(ctx, client.DB()); err != nil {
		logg.Error(ctx, "failed to seed cars", err)
		os.Exit(1)
	}

	logg.Info(ctx, "seed complete")
}

func openDB(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*db.Client, error) {
	if cfg.FeatureFlags.UseSQLite {
		client, err := db.NewSQLite(ctx, cfg.FeatureFlags.SQLitePath, logg)
		if err != nil {
			return nil, err
		}
		if err := client.DB().AutoMigrate(&models.Car{}, &models.User{}); err != nil {
			return nil, err
		}
		return client, nil
	}
	return db.New(ctx, cfg.DB, logg)
}

func seedAdmin(ctx context.Context, cfg *config.Config, conn *gorm.DB) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return nil
	}

	repo := users.NewRepository(conn)
	if _, err := repo.FindByEmail(ctx, cfg.Admin.Email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := security.HashPassword(cfg.Admin.Password, cfg.Password)
	if err != nil {
		return err
	}
	_, err = repo.Create(ctx, users.CreateUserDTO{
		Email:        cfg.Admin.Email,
		PasswordHash: hash,
	})
	return err
}

func seedCars(ctx context.Context, conn *gorm.DB) error {
	if err := conn.WithContext(ctx).Where("1 = 1").Delete(&models.Car{}).Error; err != nil {
		return err
	}

	now := time.Now().UTC()
	soldAt := now.AddDate(0, -5, 0)

	demo := []models.Car{
		{
			Make:        "Toyota",
			Model:       "Camry",
			Year:        2022,
			Price:       types.NewMoney(28500),
			Mileage:     15000,
			Color:       "Silver",
			Status:      enums.CarStatusAvailable,
			VIN:         "1HGBH41JXMN109186",
			Description: "Well maintained vehicle with excellent fuel efficiency",
			ImageURL:    "https://img.example.com/demo/camry.jpg",
			CreatedAt:   now.AddDate(0, -2, 0),
		},
		{
			Make:        "Honda",
			Model:       "Civic",
			Year:        2021,
			Price:       types.NewMoney(22000),
			Mileage:     25000,
			Color:       "Blue",
			Status:      enums.CarStatusAvailable,
			VIN:         "2HGBH41JXMN109187",
			Description: "Reliable compact car perfect for daily commuting",
			ImageURL:    "https://img.example.com/demo/civic.jpg",
			CreatedAt:   now.AddDate(0, -1, 0),
		},
		{
			Make:        "Ford",
			Model:       "F-150",
			Year:        2023,
			Price:       types.NewMoney(45000),
			Mileage:     5000,
			Color:       "Black",
			Status:      enums.CarStatusPending,
			VIN:         "3HGBH41JXMN109188",
			Description: "Heavy-duty pickup truck with advanced towing capabilities",
			ImageURL:    "https://img.example.com/demo/f150.jpg",
			CreatedAt:   now.AddDate(0, 0, -15),
		},
		{
			Make:        "BMW",
			Model:       "320i",
			Year:        2020,
			Price:       types.NewMoney(35000),
			Mileage:     30000,
			Color:       "White",
			Status:      enums.CarStatusSold,
			VIN:         "4HGBH41JXMN109189",
			Description: "Luxury sedan with premium features and smooth performance",
			ImageURL:    "https://img.example.com/demo/320i.jpg",
			CreatedAt:   now.AddDate(0, -6, 0),
			SoldAt:      &soldAt,
		},
	}

	for i := range demo {
		if err := conn.WithContext(ctx).Create(&demo[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
