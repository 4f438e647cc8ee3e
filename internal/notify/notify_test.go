package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/samuymanu/bici-fix-pro/internal/domain"
)

var testNow = time.Date(2024, 12, 1, 10, 30, 0, 0, time.UTC)

func testOrder() *domain.WorkOrder {
	customer := domain.Customer{
		ID:    "cliente_1",
		Name:  "Juan Pérez",
		Phone: "3001234567",
		Email: "juan@example.com",
	}
	bicycle := domain.Bicycle{
		ID:         "bici_1",
		CustomerID: "cliente_1",
		Brand:      "Trek",
		Model:      "X-Caliber 8",
		Type:       domain.BicycleMountain,
	}
	return domain.NewWorkOrder("OT241201-001", customer, bicycle, testNow.AddDate(0, 0, 4), testNow)
}

func testDispatcher() *Dispatcher {
	d := NewDispatcher(zap.NewNop())
	d.now = func() time.Time { return testNow }
	return d
}

func TestSendMarksNotificationSent(t *testing.T) {
	d := testDispatcher()
	mock := &MockProvider{}
	d.Register(domain.ChannelWhatsApp, mock)

	order := testOrder()
	record, err := d.Send(context.Background(), order, Message{
		Channel: domain.ChannelWhatsApp,
		To:      order.Customer.Phone,
		Body:    "Tu bicicleta está lista para entrega",
	})
	require.NoError(t, err)

	assert.True(t, record.Sent)
	require.NotNil(t, record.SentAt)
	assert.Equal(t, testNow, *record.SentAt)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, domain.ChannelWhatsApp, record.Channel)

	require.Len(t, order.Notifications, 1)
	assert.True(t, order.Notifications[0].Sent)
	require.Len(t, mock.Sent, 1)
	assert.Equal(t, "3001234567", mock.Sent[0].To)
}

func TestSendUnconfiguredChannel(t *testing.T) {
	d := testDispatcher()
	order := testOrder()

	record, err := d.Send(context.Background(), order, Message{
		Channel: domain.ChannelSMS,
		To:      order.Customer.Phone,
		Body:    "Recordatorio: Recoger bicicleta hoy",
	})
	assert.ErrorIs(t, err, ErrNoProvider)
	assert.False(t, record.Sent)

	// The failed attempt still shows up in the order's history.
	require.Len(t, order.Notifications, 1)
	assert.False(t, order.Notifications[0].Sent)
	assert.Nil(t, order.Notifications[0].SentAt)
}

func TestSendProviderFailure(t *testing.T) {
	d := testDispatcher()
	d.Register(domain.ChannelEmail, &MockProvider{Err: errors.New("smtp unreachable")})
	order := testOrder()

	record, err := d.Send(context.Background(), order, Message{
		Channel: domain.ChannelEmail,
		To:      order.Customer.Email,
		Body:    "Diagnóstico completado",
	})
	require.Error(t, err)
	assert.False(t, record.Sent)
	require.Len(t, order.Notifications, 1)
	assert.False(t, order.Notifications[0].Sent)
}

func TestStatusMessageTemplates(t *testing.T) {
	order := testOrder()

	msg, ok := StatusMessage(order)
	require.True(t, ok)
	assert.Equal(t, "Hola Juan Pérez, hemos recibido tu bicicleta Trek X-Caliber 8. Te contactaremos pronto con el diagnóstico.", msg)

	order.Diagnosis = "Requiere cambio de pastillas"
	require.NoError(t, order.SetStatus(domain.StatusDiagnosing, testNow))
	msg, ok = StatusMessage(order)
	require.True(t, ok)
	assert.Contains(t, msg, "Requiere cambio de pastillas")

	require.NoError(t, order.SetStatus(domain.StatusFinished, testNow))
	msg, ok = StatusMessage(order)
	require.True(t, ok)
	assert.Contains(t, msg, "lista para entrega")

	require.NoError(t, order.SetStatus(domain.StatusInRepair, testNow))
	_, ok = StatusMessage(order)
	assert.False(t, ok)
}

func TestStatusMessageDiagnosisRequiresText(t *testing.T) {
	order := testOrder()
	require.NoError(t, order.SetStatus(domain.StatusDiagnosing, testNow))

	_, ok := StatusMessage(order)
	assert.False(t, ok)
}

func TestNotifyStatusChange(t *testing.T) {
	d := testDispatcher()
	mock := &MockProvider{}
	d.Register(domain.ChannelEmail, mock)

	order := testOrder()
	require.NoError(t, order.SetStatus(domain.StatusFinished, testNow))

	record, sent, err := d.NotifyStatusChange(context.Background(), order, domain.ChannelEmail)
	require.NoError(t, err)
	assert.True(t, sent)
	assert.True(t, record.Sent)

	require.Len(t, mock.Sent, 1)
	assert.Equal(t, "juan@example.com", mock.Sent[0].To)
	assert.Equal(t, "Orden OT241201-001 - Finalizada", mock.Sent[0].Subject)

	// No template for this status, so nothing goes out.
	require.NoError(t, order.SetStatus(domain.StatusQualityControl, testNow))
	_, sent, err = d.NotifyStatusChange(context.Background(), order, domain.ChannelEmail)
	require.NoError(t, err)
	assert.False(t, sent)
	require.Len(t, mock.Sent, 1)
}
