package analytics

import (
	"context"
	"time"

	"github.com/autotrackr/autotrackr-backend/pkg/db/models"
	"github.com/autotrackr/autotrackr-backend/pkg/enums"
	pkgerrors "github.com/autotrackr/autotrackr-backend/pkg/errors"
	"github.com/autotrackr/autotrackr-backend/pkg/types"
)

// Service provides read-only aggregate views over the inventory.
type Service interface {
	Summary(ctx context.Context) (*SummaryDTO, error)
	InventoryBreakdown(ctx context.Context) (*BreakdownDTO, error)
	TimeSeries(ctx context.Context, year int) ([]MonthlySalesDTO, error)
	AgeBuckets(ctx context.Context) (AgeBucketsDTO, error)
}

type carSource interface {
	List(ctx context.Context) ([]models.Car, error)
}

type service struct {
	cars carSource
	now  func() time.Time
}

// NewService builds an analytics service reading from the cars repository.
func NewService(cars carSource) Service {
	return &service{cars: cars, now: func() time.Time { return time.Now().UTC() }}
}

func (s *service) Summary(ctx context.Context) (*SummaryDTO, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	out := &SummaryDTO{TotalRevenue: types.NewMoney(0)}
	out.TotalInventory = len(records)
	for i := range records {
		switch records[i].Status {
		case enums.CarStatusAvailable:
			out.AvailableCars++
		case enums.CarStatusPending:
			out.PendingCars++
		case enums.CarStatusSold:
			out.SoldCars++
			out.TotalRevenue = out.TotalRevenue.Add(records[i].Price)
		}
	}
	out.AvgSellingPrice = out.TotalRevenue.RoundedUnits(int64(out.SoldCars))
	return out, nil
}

func (s *service) InventoryBreakdown(ctx context.Context) (*BreakdownDTO, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	out := &BreakdownDTO{
		ByMake:   map[string]int{},
		ByStatus: map[string]int{},
	}
	for _, status := range enums.CarStatuses() {
		out.ByStatus[status.String()] = 0
	}
	for i := range records {
		out.ByMake[records[i].Make]++
		out.ByStatus[records[i].Status.String()]++
	}
	return out, nil
}

func (s *service) TimeSeries(ctx context.Context, year int) ([]MonthlySalesDTO, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	series := make([]MonthlySalesDTO, 12)
	for m := range series {
		series[m] = MonthlySalesDTO{
			Month:      m + 1,
			Revenue:    types.NewMoney(0),
			Cumulative: types.NewMoney(0),
		}
	}

	for i := range records {
		car := &records[i]
		if car.Status != enums.CarStatusSold || car.SoldAt == nil {
			continue
		}
		soldAt := car.SoldAt.UTC()
		if soldAt.Year() != year {
			continue
		}
		row := &series[int(soldAt.Month())-1]
		row.Sales++
		row.Revenue = row.Revenue.Add(car.Price)
	}

	running := types.NewMoney(0)
	for m := range series {
		running = running.Add(series[m].Revenue)
		series[m].Cumulative = running
		series[m].AvgPrice = series[m].Revenue.RoundedUnits(int64(series[m].Sales))
	}
	return series, nil
}

func (s *service) AgeBuckets(ctx context.Context) (AgeBucketsDTO, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := AgeBucketsDTO{
		AgeBucketUnder30: 0,
		AgeBucket30To60:  0,
		AgeBucketOver60:  0,
	}
	for i := range records {
		car := &records[i]
		if car.Status != enums.CarStatusAvailable {
			continue
		}
		days := int(now.Sub(car.CreatedAt) / (24 * time.Hour))
		switch {
		case days < 30:
			out[AgeBucketUnder30]++
		case days < 60:
			out[AgeBucket30To60]++
		default:
			out[AgeBucketOver60]++
		}
	}
	return out, nil
}

func (s *service) load(ctx context.Context) ([]models.Car, error) {
	records, err := s.cars.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory")
	}
	return records, nil
}
