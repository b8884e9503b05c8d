package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"secondhand-market/internal/model"
)

type GarmentEventPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewGarmentEventPublisher(conn *amqp.Connection, queueName string) *GarmentEventPublisher {
	return &GarmentEventPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *GarmentEventPublisher) Publish(ctx context.Context, event model.GarmentEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := DeclareQueue(ch, p.queueName); err != nil {
		return err
	}

	payload, err := EncodeGarmentEvent(event)
	if err != nil {
		return err
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         string(event.Kind),
			Timestamp:    event.OccurredAt,
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish garment event failed: %w", err)
	}
	return nil
}

func EncodeGarmentEvent(event model.GarmentEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal garment event failed: %w", err)
	}
	return payload, nil
}

func DecodeGarmentEvent(body []byte) (model.GarmentEvent, error) {
	var event model.GarmentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return model.GarmentEvent{}, fmt.Errorf("decode garment event failed: %w", err)
	}
	if event.GarmentID == 0 || event.Kind == "" {
		return model.GarmentEvent{}, fmt.Errorf("decode garment event failed: missing garment id or kind")
	}
	// ids are assigned by the consumer's store
	event.ID = 0
	return event, nil
}
