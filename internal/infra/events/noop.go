package events

import (
	"context"
	"time"
)

// NoopPublisher заглушка публикатора для конфигураций без Kafka
// Сервис работает полностью, события просто не отправляются
type NoopPublisher struct{}

// NewNoopPublisher создает заглушку публикатора
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// Publish ничего не делает
func (p *NoopPublisher) Publish(_ context.Context, _ string, _, _, _, _ int64, _ time.Time) error {
	return nil
}
