package helpers

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitQueue owns one AMQP connection and a durable queue. The API publishes
// notification jobs on it and the notify worker consumes them.
type RabbitQueue struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	Queue string
}

func NewRabbitQueue(url, queue string) (*RabbitQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
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
		return nil, err
	}
	return &RabbitQueue{conn: conn, ch: ch, Queue: queue}, nil
}

func (q *RabbitQueue) Close() {
	if q == nil {
		return
	}
	if q.ch != nil {
		_ = q.ch.Close()
	}
	if q.conn != nil {
		_ = q.conn.Close()
	}
}

// PublishJSON publishes a persistent JSON message through the default exchange.
func (q *RabbitQueue) PublishJSON(ctx context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return q.ch.PublishWithContext(ctx, "", q.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         b,
	})
}

// Consume starts a manual-ack consumer with the given prefetch.
func (q *RabbitQueue) Consume(prefetch int) (<-chan amqp.Delivery, error) {
	if err := q.ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	return q.ch.Consume(q.Queue, "", false, false, false, false, nil)
}
