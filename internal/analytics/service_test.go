package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/autotrackr/autotrackr-backend/pkg/db/models"
	"github.com/autotrackr/autotrackr-backend/pkg/enums"
	pkgerrors "github.com/autotrackr/autotrackr-backend/pkg/errors"
	"github.com/autotrackr/autotrackr-backend/pkg/types"
)

type stubSource struct {
	cars []models.Car
	err  error
}

func (s *stubSource) List(context.Context) ([]models.Car, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cars, nil
}

func soldCar(makeName string, price int64, soldAt time.Time) models.Car {
	at := soldAt
	return models.Car{
		Make:   makeName,
		Price:  types.NewMoney(price),
		Status: enums.CarStatusSold,
		SoldAt: &at,
	}
}

func TestSummaryEmptyStore(t *testing.T) {
	svc := NewService(&stubSource{})

	out, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if out.TotalInventory != 0 || out.SoldCars != 0 {
		t.Fatalf("expected zero counts, got %+v", out)
	}
	if out.AvgSellingPrice != 0 {
		t.Fatalf("expected zero average on empty store, got %d", out.AvgSellingPrice)
	}
	if !out.TotalRevenue.IsZero() {
		t.Fatalf("expected zero revenue, got %s", out.TotalRevenue)
	}
}

func TestSummaryCountsAndRevenue(t *testing.T) {
	march := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	src := &stubSource{cars: []models.Car{
		{Make: "Toyota", Status: enums.CarStatusAvailable, Price: types.NewMoney(9000)},
		{Make: "Honda", Status: enums.CarStatusPending, Price: types.NewMoney(7000)},
		soldCar("Ford", 10000, march),
		soldCar("Ford", 20001, march),
	}}
	svc := NewService(src)

	out, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if out.TotalInventory != 4 || out.AvailableCars != 1 || out.PendingCars != 1 || out.SoldCars != 2 {
		t.Fatalf("unexpected counts: %+v", out)
	}
	if out.TotalRevenue.String() != "30001" {
		t.Fatalf("expected revenue 30001, got %s", out.TotalRevenue)
	}
	if out.AvgSellingPrice != 15001 {
		t.Fatalf("expected rounded average 15001, got %d", out.AvgSellingPrice)
	}
}

func TestInventoryBreakdown(t *testing.T) {
	src := &stubSource{cars: []models.Car{
		{Make: "Toyota", Status: enums.CarStatusAvailable},
		{Make: "Toyota", Status: enums.CarStatusSold},
		{Make: "Honda", Status: enums.CarStatusAvailable},
	}}
	svc := NewService(src)

	out, err := svc.InventoryBreakdown(context.Background())
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if out.ByMake["Toyota"] != 2 || out.ByMake["Honda"] != 1 {
		t.Fatalf("unexpected byMake: %v", out.ByMake)
	}
	if out.ByStatus["available"] != 2 || out.ByStatus["sold"] != 1 {
		t.Fatalf("unexpected byStatus: %v", out.ByStatus)
	}
	if _, ok := out.ByStatus["pending"]; !ok {
		t.Fatal("expected pending key present at zero")
	}
}

func TestTimeSeriesBucketsAndCumulative(t *testing.T) {
	march := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	src := &stubSource{cars: []models.Car{
		soldCar("Ford", 10000, march),
		soldCar("Ford", 20000, march),
		soldCar("Ford", 5000, time.Date(2023, time.December, 31, 23, 0, 0, 0, time.UTC)),
		soldCar("Ford", 7000, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)),
		{Make: "Ford", Price: types.NewMoney(999), Status: enums.CarStatusSold, SoldAt: nil},
	}}
	svc := NewService(src)

	series, err := svc.TimeSeries(context.Background(), 2024)
	if err != nil {
		t.Fatalf("time series: %v", err)
	}
	if len(series) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(series))
	}

	marchRow := series[2]
	if marchRow.Month != 3 {
		t.Fatalf("expected month 3, got %d", marchRow.Month)
	}
	if marchRow.Sales != 2 {
		t.Fatalf("expected 2 sales in March, got %d", marchRow.Sales)
	}
	if marchRow.Revenue.String() != "30000" {
		t.Fatalf("expected March revenue 30000, got %s", marchRow.Revenue)
	}
	if marchRow.AvgPrice != 15000 {
		t.Fatalf("expected March average 15000, got %d", marchRow.AvgPrice)
	}

	january := series[0]
	if january.Sales != 0 || !january.Revenue.IsZero() || january.AvgPrice != 0 {
		t.Fatalf("expected empty January, got %+v", january)
	}

	december := series[11]
	if december.Cumulative.String() != "30000" {
		t.Fatalf("expected December cumulative 30000, got %s", december.Cumulative)
	}
}

func TestAgeBucketsBoundaries(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	src := &stubSource{cars: []models.Car{
		{Status: enums.CarStatusAvailable, CreatedAt: now.Add(-29 * 24 * time.Hour)},
		{Status: enums.CarStatusAvailable, CreatedAt: now.Add(-30 * 24 * time.Hour)},
		{Status: enums.CarStatusAvailable, CreatedAt: now.Add(-60 * 24 * time.Hour)},
		{Status: enums.CarStatusSold, CreatedAt: now.Add(-90 * 24 * time.Hour)},
	}}
	svc := &service{cars: src, now: func() time.Time { return now }}

	out, err := svc.AgeBuckets(context.Background())
	if err != nil {
		t.Fatalf("age buckets: %v", err)
	}
	if out[AgeBucketUnder30] != 1 {
		t.Fatalf("expected one car under 30 days, got %d", out[AgeBucketUnder30])
	}
	if out[AgeBucket30To60] != 1 {
		t.Fatalf("expected one car in 30-60, got %d", out[AgeBucket30To60])
	}
	if out[AgeBucketOver60] != 1 {
		t.Fatalf("expected one car over 60 days, got %d", out[AgeBucketOver60])
	}
}

func TestSourceFailureWrapsInternal(t *testing.T) {
	svc := NewService(&stubSource{err: errors.New("connection refused")})

	if _, err := svc.Summary(context.Background()); !pkgerrors.IsCode(err, pkgerrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
