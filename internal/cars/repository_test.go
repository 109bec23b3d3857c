package cars

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/autotrackr/autotrackr-backend/pkg/db/models"
	"github.com/autotrackr/autotrackr-backend/pkg/enums"
	"github.com/autotrackr/autotrackr-backend/pkg/types"
)

func testCar(vin string, createdAt time.Time) *models.Car {
	return &models.Car{
		Make:      "Toyota",
		Model:     "Corolla",
		Year:      2021,
		Price:     types.NewMoney(18500),
		Mileage:   42000,
		Color:     "white",
		Status:    enums.CarStatusAvailable,
		VIN:       vin,
		ImageURL:  "https://img.example.com/corolla.jpg",
		CreatedAt: createdAt,
	}
}

func TestRepositoryCarFlow(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	older := testCar("VIN00001", base)
	newer := testCar("VIN00002", base.Add(time.Hour))

	if err := repo.Create(ctx, older); err != nil {
		t.Fatalf("create older: %v", err)
	}
	if err := repo.Create(ctx, newer); err != nil {
		t.Fatalf("create newer: %v", err)
	}
	if older.ID == uuid.Nil {
		t.Fatal("expected car id to be generated")
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 cars, got %d", len(list))
	}
	if list[0].VIN != "VIN00002" {
		t.Fatalf("expected newest first, got %s", list[0].VIN)
	}

	byVIN, err := repo.FindByVIN(ctx, "VIN00001")
	if err != nil {
		t.Fatalf("find by vin: %v", err)
	}
	if byVIN.ID != older.ID {
		t.Fatalf("expected %s, got %s", older.ID, byVIN.ID)
	}

	byVIN.Mileage = 43000
	byVIN.Status = enums.CarStatusPending
	if err := repo.Update(ctx, byVIN); err != nil {
		t.Fatalf("update: %v", err)
	}
	fetched, err := repo.FindByID(ctx, older.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if fetched.Mileage != 43000 || fetched.Status != enums.CarStatusPending {
		t.Fatalf("expected persisted update, got %+v", fetched)
	}

	affected, err := repo.Delete(ctx, older.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}

	affected, err = repo.Delete(ctx, older.ID)
	if err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected repeat delete to affect 0 rows, got %d", affected)
	}
}

func TestRepositoryVINUnique(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.Create(ctx, testCar("VINDUPE1", base)); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := repo.Create(ctx, testCar("VINDUPE1", base.Add(time.Minute)))
	if err == nil {
		t.Fatal("expected unique violation for duplicate vin")
	}
}
