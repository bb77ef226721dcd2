package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/GoArmGo/PhotoRelay/internal/config"
	"github.com/GoArmGo/PhotoRelay/internal/messaging/payloads"

	amqp "github.com/rabbitmq/amqp091-go"
)

// channel содержит методы *amqp.Channel, которые использует клиент. Выделен для тестов.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// ErrPublishBufferFull возвращается, когда фоновая публикация не успевает за потоком событий.
var ErrPublishBufferFull = errors.New("search event buffer is full, event dropped")

// ErrClientClosed возвращается при публикации после Close.
var ErrClientClosed = errors.New("rabbitmq client is closed")

// Client представляет собой клиент RabbitMQ
type Client struct {
	conn           *amqp.Connection
	channel        channel
	queueName      string
	publishTimeout time.Duration
	logger         *slog.Logger

	// события публикует одна фоновая горутина, запрос поиска только кладёт их в буфер
	events    chan payloads.SearchEventPayload
	done      chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once
}

// NewClient создает и инициализирует новый клиент RabbitMQ
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	logger.Info("connected to RabbitMQ")

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// Идемпотентно: очередь создаётся, только если её ещё нет
	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.RabbitMQQueueName, // name
		true,                           // durable
		false,                          // delete when unused
		false,                          // exclusive
		false,                          // no-wait
		nil,                            // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}
	logger.Info("queue declared", "queue", q.Name, "messages", q.Messages)

	client := newClient(ch, q.Name, cfg.RabbitMQ.PublishTimeout, cfg.RabbitMQ.PublishBuffer, logger)
	client.conn = conn
	return client, nil
}

func newClient(ch channel, queueName string, publishTimeout time.Duration, bufferSize int, logger *slog.Logger) *Client {
	if bufferSize < 1 {
		bufferSize = 1
	}
	c := &Client{
		channel:        ch,
		queueName:      queueName,
		publishTimeout: publishTimeout,
		logger:         logger,
		events:         make(chan payloads.SearchEventPayload, bufferSize),
		done:           make(chan struct{}),
		loopDone:       make(chan struct{}),
	}
	go c.publishLoop()
	return c
}

// Close останавливает фоновую публикацию и закрывает соединение и канал RabbitMQ
func (c *Client) Close() error {
	c.closeOnce.Do(func() { close(c.done) })

	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}

	// закрытый канал отпускает зависшую публикацию, но ждём не дольше таймаута
	select {
	case <-c.loopDone:
	case <-time.After(c.publishTimeout):
		c.logger.Warn("search event publisher did not stop in time")
	}

	if len(errs) == 0 {
		c.logger.Info("RabbitMQ connection closed")
	}
	return errors.Join(errs...)
}

// PublishSearchEvent ставит событие поиска в очередь на публикацию и никогда не блокируется.
// Если буфер заполнен, событие отбрасывается с ErrPublishBufferFull.
// Реализует ports.SearchEventPublisher.
func (c *Client) PublishSearchEvent(ctx context.Context, event payloads.SearchEventPayload) error {
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	select {
	case c.events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrPublishBufferFull
	}
}

// publishLoop публикует события по одному.
func (c *Client) publishLoop() {
	defer close(c.loopDone)
	for {
		select {
		case <-c.done:
			return
		case event := <-c.events:
			if err := c.publish(event); err != nil {
				c.logger.Warn("failed to publish search event", "event_id", event.ID, "error", err)
			}
		}
	}
}

// publish ограничивает ожидание publishTimeout: amqp091-go игнорирует контекст в PublishWithContext.
// Пока зависшая публикация не завершилась, следующую не начинаем, новые события копятся в буфере.
func (c *Client) publish(event payloads.SearchEventPayload) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal search event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(context.Background(), c.publishTimeout)
	defer cancel()

	result := make(chan error, 1)
	go func() {
		result <- c.channel.PublishWithContext(
			publishCtx,
			"",          // exchange
			c.queueName, // routing key
			false,       // mandatory
			false,       // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    event.ID.String(),
				Timestamp:    event.OccurredAt,
				Body:         body,
			},
		)
	}()

	select {
	case err := <-result:
		if err != nil {
			return fmt.Errorf("failed to publish search event: %w", err)
		}
		c.logger.Debug("search event published", "queue", c.queueName, "event_id", event.ID)
		return nil
	case <-publishCtx.Done():
	}

	c.logger.Warn("search event publish timed out", "event_id", event.ID, "timeout", c.publishTimeout)
	select {
	case <-result:
	case <-c.done:
	}
	return fmt.Errorf("publish search event %s: %w", event.ID, publishCtx.Err())
}

// StartConsumingSearchEvents начинает потребление сообщений из очереди.
// Реализует ports.SearchEventConsumer.
func (c *Client) StartConsumingSearchEvents(ctx context.Context, handler func(context.Context, payloads.SearchEventPayload) error) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack, подтверждаем вручную
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.logger.Info("consumer registered", "queue", c.queueName)

	go c.consume(ctx, msgs, handler)
	return nil
}

func (c *Client) consume(ctx context.Context, msgs <-chan amqp.Delivery, handler func(context.Context, payloads.SearchEventPayload) error) {
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				c.logger.Info("RabbitMQ delivery channel closed, stopping consumer")
				return
			}
			c.handleDelivery(ctx, msg, handler)
		case <-ctx.Done():
			c.logger.Info("context cancelled, stopping RabbitMQ consumer")
			return
		}
	}
}

func (c *Client) handleDelivery(ctx context.Context, msg amqp.Delivery, handler func(context.Context, payloads.SearchEventPayload) error) {
	var event payloads.SearchEventPayload
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.logger.Error("failed to unmarshal search event", "error", err, "body", string(msg.Body))
		// Битое сообщение не возвращаем в очередь, иначе зациклимся
		if err := msg.Nack(false, false); err != nil {
			c.logger.Error("failed to nack message", "error", err)
		}
		return
	}

	if err := handler(ctx, event); err != nil {
		c.logger.Error("failed to process search event", "event_id", event.ID, "error", err)
		if err := msg.Nack(false, true); err != nil {
			c.logger.Error("failed to nack message", "error", err)
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		c.logger.Error("failed to ack message", "error", err)
	}
}
