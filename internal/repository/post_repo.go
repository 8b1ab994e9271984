package repository

import (
	"Palisade/internal/model"
	"context"

	"gorm.io/gorm"
)

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error)
	UpdatePostStatus(ctx context.Context, id uint64, status int8) error
	DeletePost(ctx context.Context, id uint64) error
	UpdatePostCounters(ctx context.Context, id uint64, likes, collects, views int64) error
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &PostRepoImpl{
		db: db,
	}
}

func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

func (s *PostRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *PostRepoImpl) GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.db.WithContext(ctx).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *PostRepoImpl) UpdatePostStatus(ctx context.Context, id uint64, status int8) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// DeletePost 软删除帖子，同一事务内清除其全部历史版本。
// 历史快照只随帖子整体消亡，不支持单条删除。
func (s *PostRepoImpl) DeletePost(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Post{}).
			Where("id = ?", id).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Where("post_id = ?", id).Delete(&model.PostRevision{}).Error
	})
}

// UpdatePostCounters 整表覆写计数列，仅供对账任务使用；
// 正常路径的计数只允许走台账事务内的增量更新。
func (s *PostRepoImpl) UpdatePostCounters(ctx context.Context, id uint64, likes, collects, views int64) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"likes_count":    likes,
			"collects_count": collects,
			"views_count":    views,
		}).Error
}
