package cars

import (
	"time"

	"github.com/google/uuid"

	"github.com/autotrackr/autotrackr-backend/pkg/db/models"
	"github.com/autotrackr/autotrackr-backend/pkg/types"
)

// CarDTO is the transport shape for a vehicle record.
type CarDTO struct {
	ID          uuid.UUID   `json:"id"`
	Make        string      `json:"make"`
	Model       string      `json:"model"`
	Year        int         `json:"year"`
	Price       types.Money `json:"price"`
	Mileage     int         `json:"mileage"`
	Color       string      `json:"color"`
	Status      string      `json:"status"`
	VIN         string      `json:"vin"`
	Description string      `json:"description"`
	ImageURL    string      `json:"imageUrl"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	SoldAt      *time.Time  `json:"soldAt"`
}

// CarInput carries a full vehicle payload. Create and replace share the same
// shape; there is no partial update.
type CarInput struct {
	Make        string      `json:"make" validate:"required"`
	Model       string      `json:"model" validate:"required"`
	Year        int         `json:"year" validate:"required,gte=1886,lte=3000"`
	Price       types.Money `json:"price"`
	Mileage     int         `json:"mileage" validate:"gte=0"`
	Color       string      `json:"color" validate:"required"`
	Status      string      `json:"status" validate:"required,oneof=available pending sold"`
	VIN         string      `json:"vin" validate:"required,min=5"`
	Description string      `json:"description"`
	ImageURL    string      `json:"imageUrl" validate:"required,url"`
}

func FromModel(c *models.Car) *CarDTO {
	if c == nil {
		return nil
	}
	return &CarDTO{
		ID:          c.ID,
		Make:        c.Make,
		Model:       c.Model,
		Year:        c.Year,
		Price:       c.Price,
		Mileage:     c.Mileage,
		Color:       c.Color,
		Status:      c.Status.String(),
		VIN:         c.VIN,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		SoldAt:      c.SoldAt,
	}
}
