package kafka

import (
	"Palisade/internal/model"
	"Palisade/internal/pkg/mongo"
	"Palisade/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

const (
	notifyTypeLike    int8 = 1
	notifyTypeCollect int8 = 2
)

// NotifyHandler 消费互动事件并写入通知收件箱。
// 通知链路与台账事务完全解耦：这里失败不回滚任何计数。
type NotifyHandler struct {
	postRepo   repository.PostRepo
	sysBoxRepo mongo.SysBoxRepo
}

func NewNotifyHandler(postRepo repository.PostRepo, sysBox mongo.SysBoxRepo) *NotifyHandler {
	return &NotifyHandler{
		postRepo:   postRepo,
		sysBoxRepo: sysBox,
	}
}

func (s *NotifyHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("notify consumer setup")
	return nil
}

func (s *NotifyHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("notify consumer cleanup")
	return nil
}

func (s *NotifyHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-interaction consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-interaction process batch error", "err", err)
		return err
	}
	return nil
}

func (s *NotifyHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var evt InteractionEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		// 坏消息直接丢弃，重试也不会变好
		log.ErrorContext(ctx, "unmarshal interaction event failed", "err", err)
		return nil
	}

	// 取消点赞/收藏与浏览不产生通知
	if !evt.Active || evt.Kind == model.InteractionWatch {
		return nil
	}

	return s.sendNotification(ctx, &evt)
}

func (s *NotifyHandler) sendNotification(ctx context.Context, evt *InteractionEvent) error {
	post, err := s.postRepo.GetPost(ctx, evt.PostID)
	if err != nil {
		log.WarnContext(ctx, "failed to get post for notification", "postID", evt.PostID, "err", err)
		return nil
	}

	if post.UserID == evt.SenderID {
		return nil
	}

	notifyType := notifyTypeLike
	content := "点赞了你的帖子"
	if evt.Kind == model.InteractionCollect {
		notifyType = notifyTypeCollect
		content = "收藏了你的帖子"
	}

	notification := &mongo.SysBoxModel{
		ReceiverID: post.UserID,
		SenderID:   evt.SenderID,
		Type:       notifyType,
		TargetID:   evt.PostID,
		Content:    content,
		Payload: map[string]any{
			"post_title": post.Title,
		},
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if err := s.sysBoxRepo.CreateNotification(ctx, notification); err != nil {
		log.ErrorContext(ctx, "failed to create interaction notification", "postID", evt.PostID, "err", err)
		return err
	}
	return nil
}
