package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuymanu/bici-fix-pro/internal/domain"
	"github.com/samuymanu/bici-fix-pro/internal/repository"
)

var testNow = time.Date(2024, 12, 1, 10, 30, 0, 0, time.UTC)

func newOrder(number string) *domain.WorkOrder {
	customer := domain.Customer{ID: "cliente_1", Name: "María López", Phone: "3109876543"}
	bicycle := domain.Bicycle{ID: "bici_1", CustomerID: "cliente_1", Brand: "Specialized", Model: "Rockhopper"}
	return domain.NewWorkOrder(number, customer, bicycle, testNow.AddDate(0, 0, 3), testNow)
}

func TestOrderRepoIsolation(t *testing.T) {
	repo := NewOrderRepo()
	ctx := context.Background()

	order := newOrder("OT241201-001")
	require.NoError(t, repo.Create(ctx, order))

	// Mutating the caller's copy must not leak into the store.
	order.Number = "mutated"

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "OT241201-001", got.Number)
}

func TestOrderRepoLastNumberForDay(t *testing.T) {
	repo := NewOrderRepo()
	ctx := context.Background()

	for _, number := range []string{"OT241201-002", "OT241201-001", "OT241130-099"} {
		o := newOrder(number)
		require.NoError(t, repo.Create(ctx, o))
	}

	last, err := repo.LastNumberForDay(ctx, "OT241201")
	require.NoError(t, err)
	assert.Equal(t, "OT241201-002", last)
}

func TestOrderRepoReplaceAll(t *testing.T) {
	repo := NewOrderRepo()
	ctx := context.Background()

	old := newOrder("OT241130-001")
	require.NoError(t, repo.Create(ctx, old))

	imported := newOrder("OT241201-005")
	require.NoError(t, repo.ReplaceAll(ctx, []domain.WorkOrder{*imported}))

	_, err := repo.GetByID(ctx, old.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := repo.GetByNumber(ctx, "OT241201-005")
	require.NoError(t, err)
	assert.Equal(t, imported.ID, got.ID)
}

func TestCatalogPartSearch(t *testing.T) {
	repo := NewCatalogPartRepo()
	ctx := context.Background()

	parts := []domain.CatalogPart{
		{ID: "freno_001", Name: "Pastillas de freno Shimano", Category: domain.PartBrakes, UnitPrice: decimal.NewFromInt(25000)},
		{ID: "freno_002", Name: "Cable de freno", Category: domain.PartBrakes, UnitPrice: decimal.NewFromInt(8000)},
		{ID: "trans_001", Name: "Cadena KMC X9", Category: domain.PartTransmission, UnitPrice: decimal.NewFromInt(45000)},
	}
	for i := range parts {
		require.NoError(t, repo.Create(ctx, &parts[i]))
	}

	byQuery, err := repo.Search(ctx, "freno", "", 10)
	require.NoError(t, err)
	assert.Len(t, byQuery, 2)

	byCategory, err := repo.Search(ctx, "", domain.PartTransmission, 10)
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "trans_001", byCategory[0].ID)

	limited, err := repo.Search(ctx, "", "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestCatalogPartAdjustStock(t *testing.T) {
	repo := NewCatalogPartRepo()
	ctx := context.Background()

	stock := 10
	part := domain.CatalogPart{ID: "freno_001", Name: "Pastillas de freno", Category: domain.PartBrakes, Stock: &stock}
	require.NoError(t, repo.Create(ctx, &part))

	require.NoError(t, repo.AdjustStock(ctx, "freno_001", -2))
	got, err := repo.GetByID(ctx, "freno_001")
	require.NoError(t, err)
	require.NotNil(t, got.Stock)
	assert.Equal(t, 8, *got.Stock)

	assert.ErrorIs(t, repo.AdjustStock(ctx, "no-such-part", 1), repository.ErrNotFound)
}

func TestTechnicianListActiveOnly(t *testing.T) {
	repo := NewTechnicianRepo()
	ctx := context.Background()

	active := domain.Technician{ID: "tech_1", Name: "Carlos García", Active: true}
	inactive := domain.Technician{ID: "tech_2", Name: "Luis Martínez", Active: false}
	require.NoError(t, repo.Create(ctx, &active))
	require.NoError(t, repo.Create(ctx, &inactive))

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyActive, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, "tech_1", onlyActive[0].ID)
}

func TestBicyclesByCustomer(t *testing.T) {
	repo := NewBicycleRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Bicycle{ID: "bici_1", CustomerID: "cliente_1", Brand: "Trek"}))
	require.NoError(t, repo.Create(ctx, &domain.Bicycle{ID: "bici_2", CustomerID: "cliente_1", Brand: "Giant"}))
	require.NoError(t, repo.Create(ctx, &domain.Bicycle{ID: "bici_3", CustomerID: "cliente_2", Brand: "Scott"}))

	bikes, err := repo.GetByCustomerID(ctx, "cliente_1")
	require.NoError(t, err)
	assert.Len(t, bikes, 2)
}
