package cars

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autotrackr/autotrackr-backend/pkg/db/models"
	"github.com/autotrackr/autotrackr-backend/pkg/enums"
	pkgerrors "github.com/autotrackr/autotrackr-backend/pkg/errors"
	"github.com/autotrackr/autotrackr-backend/pkg/types"
)

type stubRepo struct {
	byID      map[uuid.UUID]*models.Car
	byVIN     map[string]*models.Car
	created   *models.Car
	updated   *models.Car
	deleted   int64
	createErr error
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		byID:  map[uuid.UUID]*models.Car{},
		byVIN: map[string]*models.Car{},
	}
}

func (s *stubRepo) add(car *models.Car) {
	s.byID[car.ID] = car
	s.byVIN[car.VIN] = car
}

func (s *stubRepo) List(context.Context) ([]models.Car, error) {
	out := make([]models.Car, 0, len(s.byID))
	for _, c := range s.byID {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Car, error) {
	if c, ok := s.byID[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindByVIN(_ context.Context, vin string) (*models.Car, error) {
	if c, ok := s.byVIN[vin]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) Create(_ context.Context, car *models.Car) error {
	if s.createErr != nil {
		return s.createErr
	}
	car.ID = uuid.New()
	s.created = car
	s.add(car)
	return nil
}

func (s *stubRepo) Update(_ context.Context, car *models.Car) error {
	s.updated = car
	s.add(car)
	return nil
}

func (s *stubRepo) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := s.byID[id]; !ok {
		return 0, nil
	}
	delete(s.byID, id)
	s.deleted++
	return 1, nil
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func validInput(vin string) CarInput {
	return CarInput{
		Make:     "Honda",
		Model:    "Civic",
		Year:     2020,
		Price:    types.NewMoney(15000),
		Mileage:  30000,
		Color:    "blue",
		Status:   "available",
		VIN:      vin,
		ImageURL: "https://img.example.com/civic.jpg",
	}
}

func TestServiceCreateSoldSetsSoldAt(t *testing.T) {
	repo := newStubRepo()
	now := time.Date(2026, time.April, 10, 9, 30, 0, 0, time.UTC)
	svc := &service{repo: repo, now: fixedClock(now)}

	input := validInput("SOLDVIN1")
	input.Status = "sold"

	dto, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.SoldAt == nil || !dto.SoldAt.Equal(now) {
		t.Fatalf("expected soldAt %v, got %v", now, dto.SoldAt)
	}
}

func TestServiceCreateAvailableLeavesSoldAtNil(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	dto, err := svc.Create(context.Background(), validInput("AVAILVIN"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.SoldAt != nil {
		t.Fatalf("expected nil soldAt, got %v", dto.SoldAt)
	}
	if dto.Status != "available" {
		t.Fatalf("expected available, got %s", dto.Status)
	}
}

func TestServiceCreateVINConflict(t *testing.T) {
	repo := newStubRepo()
	existing := &models.Car{ID: uuid.New(), VIN: "TAKEN001", Status: enums.CarStatusAvailable}
	repo.add(existing)
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), validInput("TAKEN001"))
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestServiceCreateRacedDuplicateVIN(t *testing.T) {
	// The pre-check misses because the duplicate lands between the lookup and
	// the insert; the store's unique index is the backstop, and sqlite only
	// exposes it as flattened error text.
	repo := newStubRepo()
	repo.createErr = errors.New("UNIQUE constraint failed: cars.vin")
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), validInput("RACEDVIN"))
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestServiceCreateRejectsNegativePrice(t *testing.T) {
	svc := NewService(newStubRepo())

	input := validInput("NEGPRICE")
	input.Price = types.NewMoney(-1)

	_, err := svc.Create(context.Background(), input)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceCreateRejectsWhitespaceOnlyFields(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	input := validInput("WSVIN001")
	input.Make = "   "
	input.Model = "\t"

	_, err := svc.Create(context.Background(), input)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var typed *pkgerrors.Error
	if !errors.As(err, &typed) {
		t.Fatalf("expected typed error, got %T", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %v", typed.Details())
	}
	for _, field := range []string{"make", "model"} {
		if _, found := details[field]; !found {
			t.Fatalf("expected %s violation in details, got %v", field, details)
		}
	}
	if repo.created != nil {
		t.Fatalf("nothing should be persisted")
	}
}

func TestServiceCreateRejectsUnknownStatus(t *testing.T) {
	svc := NewService(newStubRepo())

	input := validInput("BADSTAT1")
	input.Status = "wrecked"

	_, err := svc.Create(context.Background(), input)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceUpdateSoldAtLifecycle(t *testing.T) {
	soldAt := time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)
	later := soldAt.Add(48 * time.Hour)

	t.Run("transitionIntoSold", func(t *testing.T) {
		repo := newStubRepo()
		car := &models.Car{ID: uuid.New(), VIN: "LIFECYC1", Status: enums.CarStatusAvailable}
		repo.add(car)
		svc := &service{repo: repo, now: fixedClock(later)}

		input := validInput("LIFECYC1")
		input.Status = "sold"

		dto, err := svc.Update(context.Background(), car.ID, input)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if dto.SoldAt == nil || !dto.SoldAt.Equal(later) {
			t.Fatalf("expected soldAt %v, got %v", later, dto.SoldAt)
		}
	})

	t.Run("staysSoldKeepsOriginalTimestamp", func(t *testing.T) {
		repo := newStubRepo()
		at := soldAt
		car := &models.Car{ID: uuid.New(), VIN: "LIFECYC2", Status: enums.CarStatusSold, SoldAt: &at}
		repo.add(car)
		svc := &service{repo: repo, now: fixedClock(later)}

		input := validInput("LIFECYC2")
		input.Status = "sold"
		input.Mileage = 31000

		dto, err := svc.Update(context.Background(), car.ID, input)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if dto.SoldAt == nil || !dto.SoldAt.Equal(soldAt) {
			t.Fatalf("expected original soldAt %v, got %v", soldAt, dto.SoldAt)
		}
	})

	t.Run("leavingSoldClearsTimestamp", func(t *testing.T) {
		repo := newStubRepo()
		at := soldAt
		car := &models.Car{ID: uuid.New(), VIN: "LIFECYC3", Status: enums.CarStatusSold, SoldAt: &at}
		repo.add(car)
		svc := &service{repo: repo, now: fixedClock(later)}

		input := validInput("LIFECYC3")
		input.Status = "available"

		dto, err := svc.Update(context.Background(), car.ID, input)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if dto.SoldAt != nil {
			t.Fatalf("expected cleared soldAt, got %v", dto.SoldAt)
		}
	})
}

func TestServiceUpdateVINConflictWithOtherCar(t *testing.T) {
	repo := newStubRepo()
	target := &models.Car{ID: uuid.New(), VIN: "MYVIN001", Status: enums.CarStatusAvailable}
	other := &models.Car{ID: uuid.New(), VIN: "OTHERVIN", Status: enums.CarStatusAvailable}
	repo.add(target)
	repo.add(other)
	svc := NewService(repo)

	input := validInput("OTHERVIN")
	_, err := svc.Update(context.Background(), target.ID, input)
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestServiceUpdateKeepingOwnVIN(t *testing.T) {
	repo := newStubRepo()
	target := &models.Car{ID: uuid.New(), VIN: "KEEPVIN1", Status: enums.CarStatusAvailable}
	repo.add(target)
	svc := NewService(repo)

	input := validInput("KEEPVIN1")
	input.Color = "red"

	dto, err := svc.Update(context.Background(), target.ID, input)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Color != "red" {
		t.Fatalf("expected updated color, got %s", dto.Color)
	}
}

func TestServiceGetAndDeleteNotFound(t *testing.T) {
	svc := NewService(newStubRepo())
	missing := uuid.New()

	if _, err := svc.Get(context.Background(), missing); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found on get, got %v", err)
	}
	if err := svc.Delete(context.Background(), missing); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
}

func TestServiceDelete(t *testing.T) {
	repo := newStubRepo()
	car := &models.Car{ID: uuid.New(), VIN: "DELME001", Status: enums.CarStatusAvailable}
	repo.add(car)
	svc := NewService(repo)

	if err := svc.Delete(context.Background(), car.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if repo.deleted != 1 {
		t.Fatalf("expected one delete, got %d", repo.deleted)
	}
}
