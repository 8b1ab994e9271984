package kafka

import (
	"context"
	log "log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/IBM/sarama"
)

const (
	batchSize    = 32
	batchTimeout = 1 * time.Second
)

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// pullMessageBatch 拉取一批消息并执行业务逻辑
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				if len(batch) > 0 {
					processBatch(session, batch, logic)
				}
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				processBatch(session, batch, logic)
				// 清空缓冲区 & 重置定时器
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// processBatch 并发处理一批消息
func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, logic LogicFunc) {
	var wg sync.WaitGroup

	for _, msg := range messages {
		wg.Add(1)

		go func(m *sarama.ConsumerMessage) {
			defer wg.Done()
			var retryInterval = 100 * time.Millisecond

			for {
				err := logic(session.Context(), m)
				if err == nil {
					break
				}
				select {
				case <-session.Context().Done():
					return
				default:
				}

				log.Error("process message error", "err", err)
				time.Sleep(retryInterval)

				retryInterval *= 2
				if retryInterval > 5*time.Second {
					retryInterval = 5 * time.Second
				}
			}
		}(msg)
	}

	wg.Wait()

	if len(messages) > 0 {
		lastMsg := messages[len(messages)-1]
		session.MarkMessage(lastMsg, "")
		session.Commit()
	}
}

func uint64ToStr(v uint64) string {
	return strconv.FormatUint(v, 10)
}
