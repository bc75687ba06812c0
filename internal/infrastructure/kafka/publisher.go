package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// AccessEventPublisher шлет события доступа в один топик.
// Используется best-effort: ошибки публикации логируются вызывающим и не
// влияют на состояние заказов/подписок.
type AccessEventPublisher struct {
	writer *kafka.Writer
}

func NewAccessEventPublisher(brokers []string, topic string) *AccessEventPublisher {
	return &AccessEventPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *AccessEventPublisher) Publish(event AccessEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(strconv.FormatInt(event.UserID, 10)),
		Value: msg,
		Time:  time.Now(),
	})
}
