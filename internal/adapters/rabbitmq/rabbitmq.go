package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rafaelleal24/stockledger/internal/adapters/config"
	"github.com/rafaelleal24/stockledger/internal/core/domain"
	"github.com/rafaelleal24/stockledger/internal/core/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const appID = "stockledger"

var errNacked = errors.New("broker did not acknowledge the message")

// Publisher sends ledger events to a topic exchange named after the event entity
// ("exchange.stock") with the event name as routing key. The channel runs in confirm
// mode and a publish only succeeds once the broker acks it.
type Publisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	config  config.RabbitMQConfig
}

func NewPublisher(cfg config.RabbitMQConfig) (*Publisher, error) {
	p := &Publisher{config: cfg}

	if err := p.connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.config.URL)
	if err != nil {
		return fmt.Errorf("failed to dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	for _, ec := range p.config.ExchangeConfigs {
		if err := ch.ExchangeDeclare(ec.Name, ec.Type, ec.Durable, ec.AutoDelete, false, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return fmt.Errorf("failed to declare exchange %s: %w", ec.Name, err)
		}
	}

	p.conn = conn
	p.channel = ch
	return nil
}

func (p *Publisher) reset() {
	if p.channel != nil {
		p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		logger.Error(ctx, "failed to marshal event", err, map[string]any{
			"event_name":  event.GetName(),
			"entity_name": event.GetEntityName(),
		})
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.publish(ctx, event.GetName(), event.GetEntityName(), body)
}

func (p *Publisher) PublishRaw(ctx context.Context, eventName, entityName string, data []byte) error {
	return p.publish(ctx, eventName, entityName, data)
}

func ExchangeFor(entityName string) string {
	return "exchange." + entityName
}

func (p *Publisher) publish(ctx context.Context, eventName, entityName string, body []byte) error {
	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    uuid.NewString(),
		AppId:        appID,
		Type:         eventName,
	}

	exchange := ExchangeFor(entityName)

	var lastErr error
	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.config.RetryDelay):
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		err := p.publishOnce(ctx, exchange, eventName, msg)
		if err == nil {
			return nil
		}
		lastErr = err
		logger.Warn(ctx, "publish: attempt failed", map[string]any{
			"attempt":    attempt + 1,
			"exchange":   exchange,
			"event_name": eventName,
			"error":      err.Error(),
		})
	}

	return fmt.Errorf("failed to publish %s after %d attempts: %w", eventName, p.config.MaxRetries+1, lastErr)
}

func (p *Publisher) publishOnce(ctx context.Context, exchange, routingKey string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		p.reset()
		if err := p.connect(); err != nil {
			return fmt.Errorf("reconnect failed: %w", err)
		}
	}

	confirm, err := p.channel.PublishWithDeferredConfirmWithContext(ctx, exchange, routingKey, false, false, msg)
	if err != nil {
		p.reset()
		return err
	}
	if confirm == nil {
		return nil
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !acked {
		return errNacked
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing channel: %w", err))
		}
		p.channel = nil
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing connection: %w", err))
		}
		p.conn = nil
	}
	return errors.Join(errs...)
}

func (p *Publisher) HealthCheck() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		return fmt.Errorf("connection is closed")
	}
	if p.channel == nil {
		return fmt.Errorf("channel is nil")
	}
	return nil
}
