// Package notify sends client notifications over the workshop's three
// channels and records the outcome on the work order.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samuymanu/bici-fix-pro/internal/domain"
)

// ErrNoProvider is returned when a message targets a channel with no
// configured provider.
var ErrNoProvider = errors.New("no provider configured for channel")

// Message is one outbound client notification.
type Message struct {
	Channel domain.Channel
	To      string // phone number or email address per channel
	Subject string // email only
	Body    string
}

// Provider delivers messages for one channel.
type Provider interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher routes messages to per-channel providers and stamps the
// resulting ClientNotification onto the order.
type Dispatcher struct {
	providers map[domain.Channel]Provider
	logger    *zap.Logger
	now       func() time.Time
}

// NewDispatcher creates a dispatcher. Unconfigured channels reject
// sends with ErrNoProvider rather than silently dropping them.
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		providers: make(map[domain.Channel]Provider),
		logger:    logger,
		now:       time.Now,
	}
}

// Register attaches a provider to a channel, replacing any previous one.
func (d *Dispatcher) Register(ch domain.Channel, p Provider) {
	d.providers[ch] = p
}

// Send delivers the message and records a ClientNotification on the
// order. Failed sends still leave a record, with Sent false, so the
// order's history shows the attempt.
func (d *Dispatcher) Send(ctx context.Context, order *domain.WorkOrder, msg Message) (domain.ClientNotification, error) {
	record := domain.ClientNotification{
		ID:      uuid.NewString(),
		Channel: msg.Channel,
		Message: msg.Body,
	}

	p, ok := d.providers[msg.Channel]
	if !ok {
		order.RecordNotification(record, d.now())
		return record, fmt.Errorf("channel %q: %w", msg.Channel, ErrNoProvider)
	}

	if err := p.Send(ctx, msg); err != nil {
		order.RecordNotification(record, d.now())
		d.logger.Warn("notification send failed",
			zap.String("order", order.Number),
			zap.String("channel", string(msg.Channel)),
			zap.Error(err))
		return record, fmt.Errorf("send %s notification: %w", msg.Channel, err)
	}

	sentAt := d.now()
	record.Sent = true
	record.SentAt = &sentAt
	record = order.RecordNotification(record, sentAt)

	d.logger.Info("notification sent",
		zap.String("order", order.Number),
		zap.String("channel", string(msg.Channel)))
	return record, nil
}

// NotifyStatusChange sends the templated message for the order's
// current status, if one exists. Statuses without a template are a
// no-op.
func (d *Dispatcher) NotifyStatusChange(ctx context.Context, order *domain.WorkOrder, ch domain.Channel) (domain.ClientNotification, bool, error) {
	body, ok := StatusMessage(order)
	if !ok {
		return domain.ClientNotification{}, false, nil
	}
	msg := Message{
		Channel: ch,
		To:      recipientFor(order, ch),
		Subject: fmt.Sprintf("Orden %s - %s", order.Number, statusSubject(order.Status)),
		Body:    body,
	}
	record, err := d.Send(ctx, order, msg)
	return record, true, err
}

func recipientFor(order *domain.WorkOrder, ch domain.Channel) string {
	if ch == domain.ChannelEmail {
		return order.Customer.Email
	}
	return order.Customer.Phone
}

func statusSubject(s domain.Status) string {
	label, err := domain.StatusLabel(s)
	if err != nil {
		return string(s)
	}
	return label
}

// MockProvider records messages instead of delivering them, for
// development and tests.
type MockProvider struct {
	Sent []Message
	Err  error
}

func (m *MockProvider) Send(_ context.Context, msg Message) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}
