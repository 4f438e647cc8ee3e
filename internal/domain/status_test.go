package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusLabel(t *testing.T) {
	label, err := StatusLabel(StatusInRepair)
	require.NoError(t, err)
	assert.Equal(t, "En Reparación", label)

	label, err = StatusLabel(StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, "Entregada", label)
}

func TestStatusLabelUnknown(t *testing.T) {
	_, err := StatusLabel(Status("archivada"))
	require.ErrorIs(t, err, ErrUnknownStatus)
}

func TestStatusColorCoversEveryStatus(t *testing.T) {
	for _, s := range StatusOrder {
		color, err := StatusColor(s)
		require.NoError(t, err, "status %q", s)
		assert.NotEmpty(t, color)

		label, err := StatusLabel(s)
		require.NoError(t, err, "status %q", s)
		assert.NotEmpty(t, label)
	}
}

func TestStatusColorUnknown(t *testing.T) {
	_, err := StatusColor(Status(""))
	require.ErrorIs(t, err, ErrUnknownStatus)
}

func TestStatusOrderIsTheFullWorkflow(t *testing.T) {
	require.Len(t, StatusOrder, 7)
	assert.Equal(t, StatusReceived, StatusOrder[0])
	assert.Equal(t, StatusDelivered, StatusOrder[len(StatusOrder)-1])

	seen := make(map[Status]bool)
	for _, s := range StatusOrder {
		assert.False(t, seen[s], "duplicate status %q", s)
		seen[s] = true
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("esperando_repuestos")
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingParts, s)

	_, err = ParseStatus("in_repair")
	require.ErrorIs(t, err, ErrUnknownStatus)
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("urgente")
	require.NoError(t, err)
	assert.Equal(t, PriorityUrgent, p)

	_, err = ParsePriority("critica")
	require.ErrorIs(t, err, ErrUnknownPriority)

	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent} {
		label, err := PriorityLabel(p)
		require.NoError(t, err)
		assert.NotEmpty(t, label)

		color, err := PriorityColor(p)
		require.NoError(t, err)
		assert.NotEmpty(t, color)
	}
}
