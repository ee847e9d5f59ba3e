package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"shopfront/internal/events"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Config holds the Kafka connection details.
type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Client publishes order events to a topic and consumes them through a
// consumer group.
type Client struct {
	cfg    Config
	writer *kafka.Writer
	reader *kafka.Reader
	log    *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no Kafka brokers configured")
	}
	if cfg.Topic == "" {
		cfg.Topic = events.OrderPlacedType
	}
	if cfg.GroupID == "" {
		cfg.GroupID = "shopfront-inventory"
	}
	return &Client{
		cfg: cfg,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
		log: log,
	}, nil
}

// PublishOrderPlaced writes the event keyed by order id, so every event of
// one order lands on the same partition.
func (c *Client) PublishOrderPlaced(ctx context.Context, evt events.OrderPlaced) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(events.OrderPlacedType + "." + strconv.FormatUint(uint64(evt.OrderID), 10)),
		Value: body,
	}
	if err := c.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write order event: %w", err)
	}
	return nil
}

// ConsumeOrderEvents reads the topic in a goroutine until ctx is done.
// Offsets are committed after the handler ran, whatever its outcome.
func (c *Client) ConsumeOrderEvents(ctx context.Context, handler events.Handler) error {
	c.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:  c.cfg.Brokers,
		Topic:    c.cfg.Topic,
		GroupID:  c.cfg.GroupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})

	go func() {
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return
				}
				c.log.Error("Error reading message", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}

			evt, err := events.Decode(msg.Value)
			if err != nil {
				c.log.Error("Dropping undecodable message", zap.Int64("offset", msg.Offset), zap.Error(err))
			} else if err := handler(ctx, evt); err != nil {
				c.log.Error("Error processing message", zap.Uint("order_id", evt.OrderID), zap.Error(err))
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.log.Error("Error committing offset", zap.Error(err))
			}
		}
	}()
	return nil
}

func (c *Client) Close() error {
	var errs []error
	if err := c.writer.Close(); err != nil {
		errs = append(errs, err)
	}
	if c.reader != nil {
		if err := c.reader.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
