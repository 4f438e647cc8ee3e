package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 12, 1, 10, 30, 0, 0, time.UTC)

func testOrder() *WorkOrder {
	customer := Customer{ID: "cliente_1", Name: "Juan Carlos Pérez", Phone: "3001234567"}
	bicycle := Bicycle{
		ID:         "bici_1",
		CustomerID: "cliente_1",
		Brand:      "Trek",
		Model:      "X-Caliber 8",
		Serial:     "TR2024001",
		Color:      "Azul",
		Type:       BicycleMountain,
		Year:       2023,
	}
	return NewWorkOrder("OT241201-001", customer, bicycle, testNow.AddDate(0, 0, 4), testNow)
}

func TestNewWorkOrder(t *testing.T) {
	o := testOrder()

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, StatusReceived, o.Status)
	assert.Equal(t, PriorityMedium, o.Priority)
	assert.True(t, o.TotalCost.IsZero())
	assert.True(t, o.Balance.IsZero())
	assert.NotNil(t, o.Parts)
	assert.NotNil(t, o.Tasks)
	assert.NotNil(t, o.Observations)
}

func TestLineItemsRecomputeTotals(t *testing.T) {
	o := testOrder()

	err := o.AddPart(OrderPartLine{
		PartID:    "rep_1",
		Part:      CatalogPart{ID: "rep_1", Name: "Pastillas de freno Shimano", Category: PartBrakes},
		Quantity:  2,
		UnitPrice: money(25000),
	}, testNow)
	require.NoError(t, err)

	require.NoError(t, o.AddLabor(LaborLine{Description: "Ajuste completo de frenos", Price: money(20000)}, testNow))
	require.NoError(t, o.AddLabor(LaborLine{Description: "Ajuste de cambios", Price: money(15000)}, testNow))

	assert.True(t, o.TotalCost.Equal(money(85000)), "got %s", o.TotalCost)
	assert.True(t, o.Balance.Equal(money(85000)))

	require.NoError(t, o.SetAdvance(money(40000), testNow))
	assert.True(t, o.Balance.Equal(money(45000)), "got %s", o.Balance)

	require.NoError(t, o.RemovePart("rep_1", testNow))
	assert.True(t, o.TotalCost.Equal(money(35000)))
	assert.True(t, o.Balance.Equal(money(-5000)), "overpayment stays negative, got %s", o.Balance)
}

func TestAddPartValidation(t *testing.T) {
	o := testOrder()

	err := o.AddPart(OrderPartLine{PartID: "rep_1", Quantity: 0, UnitPrice: money(100)}, testNow)
	require.ErrorIs(t, err, ErrNonPositiveQuantity)
	assert.Empty(t, o.Parts)

	err = o.AddPart(OrderPartLine{PartID: "rep_1", Quantity: 1, UnitPrice: money(-100)}, testNow)
	require.ErrorIs(t, err, ErrNegativePrice)
	assert.Empty(t, o.Parts)
}

func TestRemoveMissingLines(t *testing.T) {
	o := testOrder()
	require.ErrorIs(t, o.RemovePart("nope", testNow), ErrPartLineNotFound)
	require.ErrorIs(t, o.RemoveLabor("nope", testNow), ErrLaborLineNotFound)
}

func TestSetAdvanceRejectsNegative(t *testing.T) {
	o := testOrder()
	require.ErrorIs(t, o.SetAdvance(money(-1), testNow), ErrNegativeAdvance)
}

func TestToggleTaskIsItsOwnInverse(t *testing.T) {
	o := testOrder()
	task := o.AddTask(Task{Description: "Cambiar pastillas"}, testNow)

	require.NoError(t, o.ToggleTask(task.ID, testNow))
	require.True(t, o.Tasks[0].Done)
	require.NotNil(t, o.Tasks[0].CompletedAt)
	assert.Equal(t, testNow, *o.Tasks[0].CompletedAt)

	require.NoError(t, o.ToggleTask(task.ID, testNow.Add(time.Hour)))
	assert.False(t, o.Tasks[0].Done)
	assert.Nil(t, o.Tasks[0].CompletedAt)
}

func TestToggleTaskNotFound(t *testing.T) {
	o := testOrder()
	require.ErrorIs(t, o.ToggleTask("missing", testNow), ErrTaskNotFound)
}

func TestAppendObservationIsMonotonic(t *testing.T) {
	o := testOrder()

	require.NoError(t, o.AppendObservation("Bicicleta recibida en buen estado general", testNow))
	require.NoError(t, o.AppendObservation("Se inició reparación de frenos", testNow))

	require.Len(t, o.Observations, 2)
	assert.Equal(t, "Bicicleta recibida en buen estado general", o.Observations[0])
	assert.Equal(t, "Se inició reparación de frenos", o.Observations[1])
}

func TestAppendObservationRejectsBlank(t *testing.T) {
	o := testOrder()
	require.ErrorIs(t, o.AppendObservation("", testNow), ErrEmptyObservation)
	require.ErrorIs(t, o.AppendObservation("   \t\n", testNow), ErrEmptyObservation)
	assert.Empty(t, o.Observations)
}

func TestSetStatus(t *testing.T) {
	o := testOrder()

	require.NoError(t, o.SetStatus(StatusInRepair, testNow))
	assert.Equal(t, StatusInRepair, o.Status)
	assert.Nil(t, o.ActualDelivery)

	// Backward moves are allowed.
	require.NoError(t, o.SetStatus(StatusReceived, testNow))
	assert.Equal(t, StatusReceived, o.Status)

	require.ErrorIs(t, o.SetStatus(Status("perdida"), testNow), ErrUnknownStatus)
}

func TestSetStatusDeliveredStampsDate(t *testing.T) {
	o := testOrder()

	delivered := testNow.AddDate(0, 0, 4)
	require.NoError(t, o.SetStatus(StatusDelivered, delivered))
	require.NotNil(t, o.ActualDelivery)
	assert.Equal(t, delivered, *o.ActualDelivery)

	// Re-entering entregada keeps the original stamp.
	require.NoError(t, o.SetStatus(StatusReceived, delivered.Add(time.Hour)))
	require.NoError(t, o.SetStatus(StatusDelivered, delivered.Add(2*time.Hour)))
	assert.Equal(t, delivered, *o.ActualDelivery)
}

func TestRecalculateRepairsDrift(t *testing.T) {
	o := testOrder()
	require.NoError(t, o.AddLabor(LaborLine{Description: "Centrado de rueda", Price: money(15000)}, testNow))

	// Simulate a stale snapshot loaded from outside.
	o.TotalCost = decimal.NewFromInt(999999)
	o.Balance = decimal.NewFromInt(999999)

	require.NoError(t, o.Recalculate())
	assert.True(t, o.TotalCost.Equal(money(15000)))
	assert.True(t, o.Balance.Equal(money(15000)))
}
