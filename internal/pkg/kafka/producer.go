package kafka

import (
	"Palisade/internal/api/config"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// InteractionEvent 互动事件。核心流程发完即走，
// 投递失败只记日志，不影响已提交的台账事务。
type InteractionEvent struct {
	SenderID   uint64    `json:"sender_id"`
	PostID     uint64    `json:"post_id"`
	Kind       int8      `json:"kind"`
	Active     bool      `json:"active"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EventProducer interface {
	SendInteractionEvent(ctx context.Context, evt *InteractionEvent)
	Close() error
}

type eventProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewEventProducer(cfg *config.Config) (EventProducer, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.RequiredAcks = sarama.WaitForLocal

	p, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &eventProducer{
		producer: p,
		topic:    cfg.Kafka.EventTopic,
	}, nil
}

func (s *eventProducer) SendInteractionEvent(ctx context.Context, evt *InteractionEvent) {
	payload, err := json.Marshal(evt)
	if err != nil {
		log.ErrorContext(ctx, "marshal interaction event failed", "err", err)
		return
	}

	_, _, err = s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(uint64ToStr(evt.PostID)),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		log.ErrorContext(ctx, "send interaction event failed",
			"postID", evt.PostID, "kind", evt.Kind, "err", err)
	}
}

func (s *eventProducer) Close() error {
	return s.producer.Close()
}
