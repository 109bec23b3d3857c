package cars

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autotrackr/autotrackr-backend/pkg/db"
	"github.com/autotrackr/autotrackr-backend/pkg/db/models"
	"github.com/autotrackr/autotrackr-backend/pkg/enums"
	pkgerrors "github.com/autotrackr/autotrackr-backend/pkg/errors"
)

const vinConstraint = "idx_cars_vin"

// Service defines the behavior needed by the cars controllers.
type Service interface {
	List(ctx context.Context) ([]CarDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CarDTO, error)
	Create(ctx context.Context, input CarInput) (*CarDTO, error)
	Update(ctx context.Context, id uuid.UUID, input CarInput) (*CarDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type carRepository interface {
	List(ctx context.Context) ([]models.Car, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Car, error)
	FindByVIN(ctx context.Context, vin string) (*models.Car, error)
	Create(ctx context.Context, car *models.Car) error
	Update(ctx context.Context, car *models.Car) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type service struct {
	repo carRepository
	now  func() time.Time
}

// NewService constructs the inventory service.
func NewService(repo carRepository) Service {
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *service) List(ctx context.Context) ([]CarDTO, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cars")
	}
	dtos := make([]CarDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, *FromModel(&records[i]))
	}
	return dtos, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CarDTO, error) {
	car, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "car not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load car")
	}
	return FromModel(car), nil
}

func (s *service) Create(ctx context.Context, input CarInput) (*CarDTO, error) {
	status, err := s.validate(&input)
	if err != nil {
		return nil, err
	}

	if err := s.ensureVINAvailable(ctx, input.VIN, uuid.Nil); err != nil {
		return nil, err
	}

	car := &models.Car{
		Make:        input.Make,
		Model:       input.Model,
		Year:        input.Year,
		Price:       input.Price,
		Mileage:     input.Mileage,
		Color:       input.Color,
		Status:      status,
		VIN:         input.VIN,
		Description: input.Description,
		ImageURL:    input.ImageURL,
	}
	if status == enums.CarStatusSold {
		at := s.now()
		car.SoldAt = &at
	}

	if err := s.repo.Create(ctx, car); err != nil {
		if db.IsUniqueViolation(err, vinConstraint) {
			return nil, vinConflict(input.VIN)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create car")
	}
	return FromModel(car), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input CarInput) (*CarDTO, error) {
	status, err := s.validate(&input)
	if err != nil {
		return nil, err
	}

	car, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "car not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load car")
	}

	if input.VIN != car.VIN {
		if err := s.ensureVINAvailable(ctx, input.VIN, id); err != nil {
			return nil, err
		}
	}

	previous := car.Status
	car.Make = input.Make
	car.Model = input.Model
	car.Year = input.Year
	car.Price = input.Price
	car.Mileage = input.Mileage
	car.Color = input.Color
	car.Status = status
	car.VIN = input.VIN
	car.Description = input.Description
	car.ImageURL = input.ImageURL

	switch {
	case status != enums.CarStatusSold:
		car.SoldAt = nil
	case previous != enums.CarStatusSold || car.SoldAt == nil:
		at := s.now()
		car.SoldAt = &at
	}

	if err := s.repo.Update(ctx, car); err != nil {
		if db.IsUniqueViolation(err, vinConstraint) {
			return nil, vinConflict(input.VIN)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update car")
	}
	return FromModel(car), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete car")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "car not found")
	}
	return nil
}

// validate enforces the rules the struct tags cannot express and normalizes
// the payload in place.
func (s *service) validate(input *CarInput) (enums.CarStatus, error) {
	input.VIN = strings.TrimSpace(input.VIN)
	input.Make = strings.TrimSpace(input.Make)
	input.Model = strings.TrimSpace(input.Model)
	input.Color = strings.TrimSpace(input.Color)

	// Whitespace-only values pass the required tag before trimming.
	details := map[string]string{}
	for field, value := range map[string]string{
		"make":  input.Make,
		"model": input.Model,
		"color": input.Color,
	} {
		if value == "" {
			details[field] = "is required"
		}
	}
	if len(input.VIN) < 5 {
		details["vin"] = "must be at least 5"
	}
	if len(details) > 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	status, err := enums.ParseCarStatus(input.Status)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"status": "must be one of available, pending, sold"})
	}
	if input.Price.IsNegative() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"price": "must not be negative"})
	}
	return status, nil
}

func (s *service) ensureVINAvailable(ctx context.Context, vin string, selfID uuid.UUID) error {
	existing, err := s.repo.FindByVIN(ctx, vin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check vin")
	}
	if existing != nil && existing.ID != selfID {
		return vinConflict(vin)
	}
	return nil
}

func vinConflict(vin string) error {
	return pkgerrors.New(pkgerrors.CodeConflict, "a car with this VIN already exists").
		WithDetails(map[string]string{"vin": vin})
}
