package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autotrackr/autotrackr-backend/pkg/enums"
	"github.com/autotrackr/autotrackr-backend/pkg/types"
)

// Car is the persisted vehicle record. VIN uniqueness is enforced by the
// store-level index; the application treats a violated index as a conflict,
// never as an overwrite.
type Car struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Make        string          `gorm:"column:make;not null"`
	Model       string          `gorm:"column:model;not null"`
	Year        int             `gorm:"column:year;not null"`
	Price       types.Money     `gorm:"column:price;type:numeric(12,2);not null"`
	Mileage     int             `gorm:"column:mileage;not null"`
	Color       string          `gorm:"column:color;not null"`
	Status      enums.CarStatus `gorm:"column:status;not null;default:available"`
	VIN         string          `gorm:"column:vin;not null;uniqueIndex:idx_cars_vin"`
	Description string          `gorm:"column:description;not null;default:''"`
	ImageURL    string          `gorm:"column:image_url;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	SoldAt      *time.Time      `gorm:"column:sold_at"`
}

// BeforeCreate assigns the identifier application-side so SQLite and Postgres
// behave identically.
func (c *Car) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
