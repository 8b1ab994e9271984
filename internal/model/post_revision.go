package model

import (
	"time"
)

// PostRevision 帖子历史版本快照。记录的是触发归档的那次修改之前的完整帖子状态，
// 写入后不再修改，仅在帖子本身删除时整体清除。
// 同一帖子的 version 从 1 开始严格递增且无空洞。
type PostRevision struct {
	ID            uint64     `gorm:"primaryKey"`
	PostID        uint64     `gorm:"not null;index:idx_post_version,unique" json:"post_id"`
	Version       int        `gorm:"not null;index:idx_post_version,unique" json:"version"`
	UserID        uint64     `gorm:"not null" json:"user_id"`
	CategoryID    uint64     `gorm:"not null;default:0" json:"category_id"`
	Title         string     `gorm:"type:varchar(255)" json:"title"`
	Content       string     `gorm:"not null" json:"content"`
	Tags          string     `gorm:"type:varchar(255)" json:"tags"`
	ViewsCount    int        `gorm:"not null;default:0" json:"views_count"`
	LikesCount    int        `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int        `gorm:"not null;default:0" json:"comments_count"`
	CollectsCount int        `gorm:"not null;default:0" json:"collects_count"`
	Status        int8       `gorm:"not null;default:1" json:"status"`
	LastReplyTime *time.Time `json:"last_reply_time"`
	PostCreatedAt time.Time  `json:"post_created_at"`
	PostUpdatedAt time.Time  `json:"post_updated_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (PostRevision) TableName() string {
	return "post_revisions"
}

// NewPostRevision 从当前帖子行构造指定版本号的快照。
// 逐字段值拷贝，不持有对原行的引用。
func NewPostRevision(post *Post, version int) *PostRevision {
	return &PostRevision{
		PostID:        post.ID,
		Version:       version,
		UserID:        post.UserID,
		CategoryID:    post.CategoryID,
		Title:         post.Title,
		Content:       post.Content,
		Tags:          post.Tags,
		ViewsCount:    post.ViewsCount,
		LikesCount:    post.LikesCount,
		CommentsCount: post.CommentsCount,
		CollectsCount: post.CollectsCount,
		Status:        post.Status,
		LastReplyTime: post.LastReplyTime,
		PostCreatedAt: post.CreatedAt,
		PostUpdatedAt: post.UpdatedAt,
	}
}
