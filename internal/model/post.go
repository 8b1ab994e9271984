package model

import (
	"time"
)

type Post struct {
	ID            uint64     `gorm:"primaryKey"`
	UserID        uint64     `gorm:"not null;index:idx_user_id" json:"user_id"`
	CategoryID    uint64     `gorm:"not null;default:0;index:idx_category_id" json:"category_id"`
	Title         string     `gorm:"type:varchar(255)" json:"title"`
	Content       string     `gorm:"not null" json:"content"`
	Tags          string     `gorm:"type:varchar(255)" json:"tags"`
	ViewsCount    int        `gorm:"not null;default:0" json:"views_count"`
	LikesCount    int        `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int        `gorm:"not null;default:0" json:"comments_count"`
	CollectsCount int        `gorm:"not null;default:0" json:"collects_count"`
	Status        int8       `gorm:"not null;default:1" json:"status"` // 1:正常, 2:锁定
	IsDeleted     bool       `gorm:"type:tinyint(1);not null;default:0" json:"is_deleted"`
	LastReplyTime *time.Time `json:"last_reply_time"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}
