package analytics

import (
	"github.com/autotrackr/autotrackr-backend/pkg/types"
)

// Age bucket labels, keyed by days on lot.
const (
	AgeBucketUnder30 = "<30"
	AgeBucket30To60  = "30-60"
	AgeBucketOver60  = "60+"
)

// SummaryDTO aggregates headline inventory and sales figures.
type SummaryDTO struct {
	TotalInventory  int         `json:"totalInventory"`
	AvailableCars   int         `json:"availableCars"`
	PendingCars     int         `json:"pendingCars"`
	SoldCars        int         `json:"soldCars"`
	TotalRevenue    types.Money `json:"totalRevenue"`
	AvgSellingPrice int64       `json:"avgSellingPrice"`
}

// BreakdownDTO groups inventory counts along the two browse dimensions. The
// status map always carries every known status, even at zero; the make map
// only carries makes that exist.
type BreakdownDTO struct {
	ByMake   map[string]int `json:"byMake"`
	ByStatus map[string]int `json:"byStatus"`
}

// MonthlySalesDTO is one row of the sales time series. Cumulative carries the
// running revenue total from January through this month.
type MonthlySalesDTO struct {
	Month      int         `json:"month"`
	Sales      int         `json:"sales"`
	Revenue    types.Money `json:"revenue"`
	Cumulative types.Money `json:"cumulative"`
	AvgPrice   int64       `json:"avgPrice"`
}

// AgeBucketsDTO counts available inventory by whole days on lot.
type AgeBucketsDTO map[string]int
