package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nkiryanov/identity/internal/logger"
)

const DefaultEmailQueue = "emails"

// AMQPSender publishes emails to durable queue. Worker (see Consume) delivers them later
type AMQPSender struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewAMQPSender(url string, queue string) (*AMQPSender, error) {
	if queue == "" {
		queue = DefaultEmailQueue
	}

	conn, ch, err := openQueue(url, queue)
	if err != nil {
		return nil, err
	}

	return &AMQPSender{conn: conn, ch: ch, queue: queue}, nil
}

func (s *AMQPSender) Send(ctx context.Context, email Email) error {
	body, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("can't encode email. Err: %w", err)
	}

	err = s.ch.PublishWithContext(ctx,
		"",      // default exchange
		s.queue, // routing key = queue
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("can't publish email. Err: %w", err)
	}
	return nil
}

func (s *AMQPSender) Close() error {
	return errors.Join(s.ch.Close(), s.conn.Close())
}

// Consume emails from queue and deliver them with sender until ctx is done.
// Undecodable messages are dropped, failed deliveries are requeued once.
func Consume(ctx context.Context, url string, queue string, sender EmailSender, log logger.Logger) error {
	if queue == "" {
		queue = DefaultEmailQueue
	}

	conn, ch, err := openQueue(url, queue)
	if err != nil {
		return err
	}
	defer conn.Close() // nolint:errcheck
	defer ch.Close()   // nolint:errcheck

	if err := ch.Qos(16, 0, false); err != nil {
		return fmt.Errorf("amqp qos failed. Err: %w", err)
	}

	msgs, err := ch.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("amqp consume failed. Err: %w", err)
	}

	log.Info("Email worker listening", "queue", queue)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("amqp delivery channel closed")
			}
			handleDelivery(ctx, msg, sender, log)
		}
	}
}

func handleDelivery(ctx context.Context, msg amqp.Delivery, sender EmailSender, log logger.Logger) {
	var email Email
	if err := json.Unmarshal(msg.Body, &email); err != nil {
		log.Warn("Bad email message dropped", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	if err := sender.Send(ctx, email); err != nil {
		log.Warn("Email delivery failed", "to", email.To, "error", err)
		_ = msg.Nack(false, !msg.Redelivered)
		return
	}

	_ = msg.Ack(false)
}

func openQueue(url string, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("amqp dial failed. Err: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("amqp channel failed. Err: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("amqp queue declare failed. Err: %w", err)
	}

	return conn, ch, nil
}
