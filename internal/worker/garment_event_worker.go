package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"secondhand-market/internal/model"
	"secondhand-market/internal/pkg/logger"
	"secondhand-market/internal/platform/rabbitmq"
)

type GarmentEventSink interface {
	Create(ctx context.Context, event *model.GarmentEvent) error
}

// Delivery is the slice of amqp.Delivery the worker needs.
type Delivery interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// GarmentEventWorker records garment lifecycle events from the queue into the
// audit table.
type GarmentEventWorker struct {
	conn      *amqp.Connection
	sink      GarmentEventSink
	queueName string
	log       *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewGarmentEventWorker(conn *amqp.Connection, sink GarmentEventSink, queueName string, log *slog.Logger) *GarmentEventWorker {
	return &GarmentEventWorker{
		conn:      conn,
		sink:      sink,
		queueName: queueName,
		log:       log.With("component", "garment_event_worker", "queue", queueName),
	}
}

func (w *GarmentEventWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					w.log.Warn("delivery channel closed")
					return
				}
				w.handle(workerCtx, &d, d.Body)
			}
		}
	}()

	w.log.Info("worker started")
	return nil
}

// handle persists one delivery. Undecodable messages are dropped; store
// failures are requeued once and dropped on redelivery.
func (w *GarmentEventWorker) handle(ctx context.Context, d Delivery, body []byte) {
	event, err := rabbitmq.DecodeGarmentEvent(body)
	if err != nil {
		w.log.Error("drop undecodable garment event", logger.Err(err))
		_ = d.Nack(false, false)
		return
	}

	if err := w.sink.Create(ctx, &event); err != nil {
		requeue := !redelivered(d)
		w.log.Error("persist garment event failed",
			"garment_id", event.GarmentID, "kind", event.Kind, "requeue", requeue, logger.Err(err))
		_ = d.Nack(false, requeue)
		return
	}

	_ = d.Ack(false)
}

func redelivered(d Delivery) bool {
	if ad, ok := d.(*amqp.Delivery); ok {
		return ad.Redelivered
	}
	return false
}

func (w *GarmentEventWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
