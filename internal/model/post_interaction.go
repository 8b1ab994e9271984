package model

import (
	"time"
)

const (
	InteractionLike    int8 = 1
	InteractionCollect int8 = 2
	InteractionWatch   int8 = 3
)

// PostInteraction 用户与帖子的互动台账。
// 主键 (user_id, post_id, kind) 保证同一用户对同一帖子的同类互动至多一行：
// 点赞/收藏通过 Active 翻转表达取消，浏览只刷新 UpdatedAt 不产生新行。
type PostInteraction struct {
	UserID    uint64    `gorm:"primaryKey" json:"user_id"`
	PostID    uint64    `gorm:"primaryKey;index:idx_post_kind" json:"post_id"`
	Kind      int8      `gorm:"primaryKey;index:idx_post_kind" json:"kind"`
	Active    bool      `gorm:"type:tinyint(1);not null;default:1" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PostInteraction) TableName() string {
	return "post_interactions"
}
