package service

import (
	"Palisade/internal/api/dto"
	"Palisade/internal/pkg/mongo"
	"context"
)

type NotificationService interface {
	GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) (*dto.NotificationListDTO, error)
	MarkAsRead(ctx context.Context, userID uint64, msgID string) error
	MarkAllAsRead(ctx context.Context, userID uint64) error
}

type notificationServiceImpl struct {
	sysBoxRepo mongo.SysBoxRepo
}

func NewNotificationService(sysBoxRepo mongo.SysBoxRepo) NotificationService {
	return &notificationServiceImpl{
		sysBoxRepo: sysBoxRepo,
	}
}

func (s *notificationServiceImpl) GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) (*dto.NotificationListDTO, error) {
	msgs, err := s.sysBoxRepo.GetNotificationList(ctx, userID, int64(pageSize), int64((page-1)*pageSize))
	if err != nil {
		return nil, err
	}
	unread, err := s.sysBoxRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.NotificationDTO, 0, len(msgs))
	for _, msg := range msgs {
		list = append(list, &dto.NotificationDTO{
			ID:        msg.ID.Hex(),
			SenderID:  msg.SenderID,
			Type:      msg.Type,
			TargetID:  msg.TargetID,
			Content:   msg.Content,
			Payload:   msg.Payload,
			IsRead:    msg.IsRead,
			CreatedAt: msg.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return &dto.NotificationListDTO{List: list, UnreadCount: unread}, nil
}

func (s *notificationServiceImpl) MarkAsRead(ctx context.Context, userID uint64, msgID string) error {
	if err := s.sysBoxRepo.MarkAsRead(ctx, userID, msgID); err != nil {
		return ErrParamInvalid
	}
	return nil
}

func (s *notificationServiceImpl) MarkAllAsRead(ctx context.Context, userID uint64) error {
	return s.sysBoxRepo.MarkAllAsRead(ctx, userID)
}
