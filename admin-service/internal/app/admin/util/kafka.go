package util

import (
	"context"
	"fmt"
	"time"

	"brocante/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// KafkaProducer обертка над Kafka writer для событий каталога.
// События PRODUCT_CREATED/PRODUCT_UPDATED/PRODUCT_DELETED уходят
// в топик catalog_events, на который подписаны витрина и поиск.
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaProducer создает новый Kafka producer
// brokers - список брокеров Kafka в формате ["host:port"]
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:  kafka.TCP(brokers...),
		Topic: topic,
		// Балансировка по наименьшему количеству байт
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Second,
	}

	return &KafkaProducer{writer: writer, topic: topic}
}

// PublishMessage отправляет сообщение в Kafka
// key - ProductID для партиционирования: события одного товара сохраняют порядок
func (p *KafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	start := time.Now()
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		metrics.RecordKafkaError(serviceName, p.topic)
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	metrics.RecordKafkaMessageProduced(serviceName, p.topic, time.Since(start))
	return nil
}

// Close закрывает Kafka writer и освобождает ресурсы
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
