package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Типы событий, публикуемых для внешних потребителей
// appointment.completed слушает система лояльности,
// appointment.created/canceled - нотификации
const (
	EventAppointmentCreated   = "appointment.created"
	EventAppointmentCanceled  = "appointment.canceled"
	EventAppointmentCompleted = "appointment.completed"
)

// AppointmentEvent полезная нагрузка события записи
// Все таймстемпы - UTC-моменты (конвертация на границе сервиса)
type AppointmentEvent struct {
	EventID       string    `json:"eventId"`
	EventType     string    `json:"eventType"`
	AppointmentID int64     `json:"appointmentId"`
	BusinessID    int64     `json:"businessId"`
	CustomerID    int64     `json:"customerId"`
	StaffID       int64     `json:"staffId"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события записей в Kafka
type Publisher struct {
	writer *kafka.Writer
	log    Logger
}

// NewPublisher создает публикатор событий
func NewPublisher(brokers []string, topic string, log Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
		log: log,
	}
}

// Close закрывает writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Publish публикует событие записи
// Ключ сообщения - appointment_id, чтобы события одной записи
// попадали в одну партицию и сохраняли порядок
func (p *Publisher) Publish(ctx context.Context, eventType string, appointmentID, businessID, customerID, staffID int64, occurredAt time.Time) error {
	event := AppointmentEvent{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		AppointmentID: appointmentID,
		BusinessID:    businessID,
		CustomerID:    customerID,
		StaffID:       staffID,
		OccurredAt:    occurredAt.UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", appointmentID)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte(eventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: write message: %w", err)
	}

	p.log.Info("Published event %s for appointment id=%d", eventType, appointmentID)
	return nil
}
