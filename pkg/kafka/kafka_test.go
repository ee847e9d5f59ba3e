package kafka

import (
	"testing"

	"shopfront/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient(Config{Brokers: []string{"localhost:9092"}}, zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, events.OrderPlacedType, c.cfg.Topic)
	assert.Equal(t, "shopfront-inventory", c.cfg.GroupID)
	assert.Equal(t, events.OrderPlacedType, c.writer.Topic)
}

func TestNewClientRequiresBrokers(t *testing.T) {
	_, err := NewClient(Config{Topic: "orders"}, zap.NewNop())
	assert.Error(t, err)
}
