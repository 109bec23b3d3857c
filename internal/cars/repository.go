package cars

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autotrackr/autotrackr-backend/pkg/db/models"
)

// Repository exposes vehicle persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cars repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every vehicle, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Car, error) {
	var cars []models.Car
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

// FindByID loads a vehicle by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Car, error) {
	var car models.Car
	if err := r.db.WithContext(ctx).First(&car, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

// FindByVIN retrieves the vehicle carrying the given VIN.
func (r *Repository) FindByVIN(ctx context.Context, vin string) (*models.Car, error) {
	var car models.Car
	if err := r.db.WithContext(ctx).Where("vin = ?", vin).First(&car).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

// Create inserts a new vehicle.
func (r *Repository) Create(ctx context.Context, car *models.Car) error {
	return r.db.WithContext(ctx).Create(car).Error
}

// Update persists the full record.
func (r *Repository) Update(ctx context.Context, car *models.Car) error {
	return r.db.WithContext(ctx).Save(car).Error
}

// Delete removes the vehicle and reports how many rows were affected so the
// caller can distinguish a repeat delete from a successful one.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Car{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
