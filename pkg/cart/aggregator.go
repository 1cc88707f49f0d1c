package cart

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/metrics"
	"context"
	"sort"

	"github.com/google/uuid"
)

type lineKey struct {
	name string
	unit string
}

// Aggregate sums ledger lines sharing a name and measurement unit and sorts
// the result by name, then unit. The same name with different units stays
// as separate lines.
func Aggregate(lines []domain.LedgerLine) []domain.AggregateLine {
	totals := make(map[lineKey]int64, len(lines))
	for _, line := range lines {
		totals[lineKey{name: line.Name, unit: line.MeasurementUnit}] += int64(line.Amount)
	}

	result := make([]domain.AggregateLine, 0, len(totals))
	for key, total := range totals {
		result = append(result, domain.AggregateLine{
			Name:            key.name,
			MeasurementUnit: key.unit,
			TotalAmount:     total,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].MeasurementUnit < result[j].MeasurementUnit
	})
	return result
}

type Aggregator struct {
	cartRepository CartRepository
}

func NewAggregator(cartRepository CartRepository) *Aggregator {
	return &Aggregator{cartRepository: cartRepository}
}

// BuildAggregate produces the shopping list for a user. An empty cart gives
// an empty list; a read failure gives no list at all.
func (a *Aggregator) BuildAggregate(ctx context.Context, userID uuid.UUID) ([]domain.AggregateLine, error) {
	lines, err := a.cartRepository.CartLedger(ctx, userID)
	if err != nil {
		metrics.RecordAggregate(0, err)
		return nil, err
	}
	result := Aggregate(lines)
	metrics.RecordAggregate(len(result), nil)
	return result, nil
}
