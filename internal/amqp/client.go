package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"gastos/internal/log"
)

const publishTimeout = 5 * time.Second

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Direct exchange: the queue name doubles as the routing key.
	err = c.channel.QueueBind(
		c.queueName,
		c.queueName,
		c.exchangeName,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishEntryRecorded publishes a persistent entry-recorded message.
func (c *Client) PublishEntryRecorded(ctx context.Context, msg *EntryRecordedMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    msg.MessageID,
			Timestamp:    msg.Timestamp,
			Type:         string(msg.Kind),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.InfoContext(ctx, "Published entry recorded message",
		log.FieldComponent, log.ComponentAMQP,
		"message_id", msg.MessageID,
		log.FieldKind, msg.Kind,
		log.FieldEntryID, msg.EntryID,
		log.FieldUserID, msg.UserID,
		"exchange", c.exchangeName,
		"queue", c.queueName)

	return nil
}

// deliveryAction is what to do with a delivery once it has been handled.
type deliveryAction int

const (
	actionAck     deliveryAction = iota
	actionDrop                   // nack without requeue: the body can never be processed
	actionRequeue                // nack with requeue: the handler may succeed later
)

func handleDelivery(ctx context.Context, body []byte, handler func(*EntryRecordedMessage) error) deliveryAction {
	msg, err := EntryRecordedMessageFromJSON(body)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to unmarshal message",
			log.FieldComponent, log.ComponentAMQP,
			log.FieldError, err)
		return actionDrop
	}

	if err := handler(msg); err != nil {
		slog.ErrorContext(ctx, "Failed to handle message",
			log.FieldComponent, log.ComponentAMQP,
			log.FieldError, err,
			"message_id", msg.MessageID,
			log.FieldKind, msg.Kind,
			log.FieldEntryID, msg.EntryID)
		return actionRequeue
	}
	return actionAck
}

// ConsumeEntryRecorded delivers entry-recorded messages to handler until ctx
// is cancelled. Messages are acknowledged manually after the handler returns.
func (c *Client) ConsumeEntryRecorded(ctx context.Context, handler func(*EntryRecordedMessage) error) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming entry recorded messages",
		log.FieldComponent, log.ComponentAMQP,
		"queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption",
				log.FieldComponent, log.ComponentAMQP,
				"reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			switch handleDelivery(ctx, delivery.Body, handler) {
			case actionAck:
				delivery.Ack(false)
			case actionDrop:
				delivery.Nack(false, false)
			case actionRequeue:
				delivery.Nack(false, true)
			}
		}
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
