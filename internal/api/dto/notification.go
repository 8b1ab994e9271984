package dto

// NotificationDTO 系统通知
type NotificationDTO struct {
	ID        string         `json:"id"`
	SenderID  uint64         `json:"sender_id"`
	Type      int8           `json:"type"`
	TargetID  uint64         `json:"target_id"`
	Content   string         `json:"content"`
	Payload   map[string]any `json:"payload"`
	IsRead    bool           `json:"is_read"`
	CreatedAt string         `json:"created_at"`
}

// MarkReadReq 标记已读请求
type MarkReadReq struct {
	MsgID string `json:"msg_id" binding:"required"`
}

// NotificationListDTO 通知列表
type NotificationListDTO struct {
	List        []*NotificationDTO `json:"list"`
	UnreadCount int64              `json:"unread_count"`
}
