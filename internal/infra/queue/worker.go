package queue

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/dealcrafter/dealcrafter-backend/internal/usecase"
)

// EmailDispatcher is the slice of the dispatch coordinator the worker needs.
type EmailDispatcher interface {
	SendNamed(ctx context.Context, email string, kind usecase.EmailKind) (usecase.SendResult, error)
}

// Worker consumes queued dispatch requests (today: the paid-user welcome
// published after checkout confirmation) and runs them through the same
// coordinator as every other trigger.
type Worker struct {
	Channel    *amqp.Channel
	Dispatcher EmailDispatcher
	Logger     *zap.Logger
}

func NewWorker(ch *amqp.Channel, dispatcher EmailDispatcher, logger *zap.Logger) *Worker {
	return &Worker{
		Channel:    ch,
		Dispatcher: dispatcher,
		Logger:     logger,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack off, ack after the send lands
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		w.Logger.Fatal("failed to register queue consumer", zap.Error(err))
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload usecase.DispatchPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				w.Logger.Error("worker: malformed dispatch message", zap.Error(err))
				// Poison message. Reject without requeue so it cannot
				// wedge the queue.
				d.Nack(false, false)
				continue
			}

			w.Logger.Info("worker: processing dispatch",
				zap.String("email", payload.Email),
				zap.String("kind", string(payload.Kind)),
				zap.String("origin", payload.Origin))

			if err := w.processMessage(context.Background(), payload); err != nil {
				w.Logger.Warn("worker: dispatch failed, dead-lettering",
					zap.String("email", payload.Email),
					zap.Error(err))
				// No flag was written, so the next sweep retries this
				// lead anyway. DLQ instead of a hot requeue loop.
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	w.Logger.Info("worker: waiting for dispatch messages", zap.String("queue", queueName))
	<-forever
}

func (w *Worker) processMessage(ctx context.Context, payload usecase.DispatchPayload) error {
	res, err := w.Dispatcher.SendNamed(ctx, payload.Email, payload.Kind)
	if err != nil {
		if usecase.IsDomainError(err) {
			// Unknown lead or bad kind: retrying cannot fix it. Log and
			// ack so the message drains.
			w.Logger.Error("worker: dispatch rejected",
				zap.String("email", payload.Email),
				zap.Error(err))
			return nil
		}
		return err
	}

	if !res.Sent {
		w.Logger.Info("worker: nothing to send",
			zap.String("email", payload.Email),
			zap.String("reason", res.Reason))
	}
	return nil
}
