package cart

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/testutil"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) CartLedger(ctx context.Context, userID uuid.UUID) ([]domain.LedgerLine, error) {
	args := m.Called(ctx, userID)
	lines, _ := args.Get(0).([]domain.LedgerLine)
	return lines, args.Error(1)
}

func TestAggregate(t *testing.T) {
	t.Run("sums same name and unit", func(t *testing.T) {
		got := Aggregate([]domain.LedgerLine{
			{Name: "Salt", MeasurementUnit: "g", Amount: 5},
			{Name: "Salt", MeasurementUnit: "g", Amount: 3},
		})
		assert.Equal(t, []domain.AggregateLine{{Name: "Salt", MeasurementUnit: "g", TotalAmount: 8}}, got)
	})

	t.Run("different units stay apart", func(t *testing.T) {
		got := Aggregate([]domain.LedgerLine{
			{Name: "Milk", MeasurementUnit: "ml", Amount: 200},
			{Name: "Milk", MeasurementUnit: "cup", Amount: 1},
			{Name: "Milk", MeasurementUnit: "ml", Amount: 50},
		})
		assert.Equal(t, []domain.AggregateLine{
			{Name: "Milk", MeasurementUnit: "cup", TotalAmount: 1},
			{Name: "Milk", MeasurementUnit: "ml", TotalAmount: 250},
		}, got)
	})

	t.Run("sorted by name", func(t *testing.T) {
		got := Aggregate([]domain.LedgerLine{
			{Name: "Sugar", MeasurementUnit: "g", Amount: 1},
			{Name: "Apple", MeasurementUnit: "pcs", Amount: 2},
			{Name: "Flour", MeasurementUnit: "g", Amount: 3},
		})
		names := make([]string, len(got))
		for i := range got {
			names[i] = got[i].Name
		}
		assert.Equal(t, []string{"Apple", "Flour", "Sugar"}, names)
	})

	t.Run("empty", func(t *testing.T) {
		got := Aggregate(nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("totals beyond a single amount", func(t *testing.T) {
		lines := make([]domain.LedgerLine, 100)
		for i := range lines {
			lines[i] = domain.LedgerLine{Name: "Water", MeasurementUnit: "ml", Amount: domain.MaxAmount}
		}
		got := Aggregate(lines)
		require.Len(t, got, 1)
		assert.Equal(t, int64(100*domain.MaxAmount), got[0].TotalAmount)
	})
}

func TestBuildAggregateFromCart(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.NewFixtures(t, db)
	aggregator := NewAggregator(NewCartRepository(db))
	ctx := context.Background()

	salt := f.Ingredient("Salt", "g")
	flour := f.Ingredient("Flour", "g")
	eggs := f.Ingredient("Eggs", "pcs")
	author := f.User()
	soup := f.Recipe(author, map[*entities.Ingredient]int{salt: 5, eggs: 2})
	bread := f.Recipe(author, map[*entities.Ingredient]int{salt: 3, flour: 500})
	f.Recipe(author, map[*entities.Ingredient]int{salt: 1000})

	user := f.User()
	got, err := aggregator.BuildAggregate(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got, "empty cart gives an empty list")

	f.AddToCart(user, soup)
	f.AddToCart(user, bread)

	got, err = aggregator.BuildAggregate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.AggregateLine{
		{Name: "Eggs", MeasurementUnit: "pcs", TotalAmount: 2},
		{Name: "Flour", MeasurementUnit: "g", TotalAmount: 500},
		{Name: "Salt", MeasurementUnit: "g", TotalAmount: 8},
	}, got)

	again, err := aggregator.BuildAggregate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, got, again, "repeatable for an unchanged cart")
}

func TestBuildAggregateAbortsOnReadError(t *testing.T) {
	repo := &mockCartRepository{}
	userID := uuid.New()
	readErr := errors.New("connection reset")
	repo.On("CartLedger", mock.Anything, userID).Return(nil, readErr)

	got, err := NewAggregator(repo).BuildAggregate(context.Background(), userID)
	assert.ErrorIs(t, err, readErr)
	assert.Nil(t, got)
	repo.AssertExpectations(t)
}
