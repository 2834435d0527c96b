// Package queue_publisher publishes domain events to RabbitMQ. Publishing
// is best-effort: the booking flow never depends on the broker, so errors
// are logged and returned for the caller to ignore.
package queue_publisher

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/misasha/hotel-reservation/internal/logger"
	"github.com/misasha/hotel-reservation/internal/queue"
)

const (
	bookingConfirmedQueue     = "booking.confirmed"
	reservationCancelledQueue = "reservation.cancelled"
)

// PublishBookingConfirmed sends a BookingConfirmedEvent to the
// booking.confirmed queue. An empty url disables publishing.
func PublishBookingConfirmed(ctx context.Context, url string, event queue.BookingConfirmedEvent) error {
	return publish(ctx, url, bookingConfirmedQueue, event)
}

// PublishReservationCancelled sends a ReservationCancelledEvent to the
// reservation.cancelled queue. An empty url disables publishing.
func PublishReservationCancelled(ctx context.Context, url string, event queue.ReservationCancelledEvent) error {
	return publish(ctx, url, reservationCancelledQueue, event)
}

func publish(ctx context.Context, url, queueName string, event any) error {
	if url == "" {
		return nil
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		logger.Logger.Warn("rabbitmq dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Logger.Warn("rabbitmq channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		logger.Logger.Warn("rabbitmq queue declare failed", zap.String("queue", queueName), zap.Error(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		logger.Logger.Warn("rabbitmq publish failed", zap.String("queue", queueName), zap.Error(err))
		return err
	}
	return nil
}
