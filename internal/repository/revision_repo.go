package repository

import (
	"Palisade/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// 并发归档撞到同一版本号时的重试上限。
// 版本唯一键 (post_id, version) 负责串行化，冲突方重算版本号再写一次。
const archiveRetryTimes = 3

// 归档或回滚时允许回写到帖子行的内容字段，计数列与创建时间不在其中
var postContentColumns = []string{"title", "content", "tags", "category_id", "last_reply_time", "updated_at"}

type RevisionRepo interface {
	// ArchiveAndUpdate 在同一事务内先归档当前帖子状态为新版本，再应用 mutate 的修改。
	// 事务回滚时快照与修改都不可见。返回本次归档的版本号。
	ArchiveAndUpdate(ctx context.Context, postID uint64, mutate func(post *model.Post) error) (int, error)
	// RestoreVersion 回滚到指定版本：先把当前状态归档为新版本，
	// 再把目标快照的内容字段覆写回帖子行（计数与时间戳保持现状）。
	RestoreVersion(ctx context.Context, postID uint64, version int) (*model.Post, int, error)
	GetVersion(ctx context.Context, postID uint64, version int) (*model.PostRevision, error)
	ListVersions(ctx context.Context, postID uint64, limit, offset int) ([]*model.PostRevision, error)
	GetLatestVersion(ctx context.Context, postID uint64) (int, error)
	CountVersions(ctx context.Context, postID uint64) (int64, error)
}

type revisionRepoImpl struct {
	db *gorm.DB
}

func NewRevisionRepository(db *gorm.DB) RevisionRepo {
	return &revisionRepoImpl{db: db}
}

func (s *revisionRepoImpl) ArchiveAndUpdate(ctx context.Context, postID uint64, mutate func(post *model.Post) error) (int, error) {
	var version int
	var err error
	for i := 0; i < archiveRetryTimes; i++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var post model.Post
			if e := tx.Where("is_deleted = ?", false).First(&post, postID).Error; e != nil {
				return e
			}

			next, e := nextVersion(tx, postID)
			if e != nil {
				return e
			}

			// 先落快照，后改本体，同一事务保证要么都见要么都不见
			if e = tx.Create(model.NewPostRevision(&post, next)).Error; e != nil {
				return e
			}

			if e = mutate(&post); e != nil {
				return e
			}
			post.UpdatedAt = time.Now()

			if e = tx.Model(&model.Post{}).
				Where("id = ?", post.ID).
				Select(postContentColumns).
				Updates(&post).Error; e != nil {
				return e
			}

			version = next
			return nil
		})
		if err == nil {
			return version, nil
		}
		if !isDuplicateError(err) {
			return 0, err
		}
	}
	return 0, err
}

func (s *revisionRepoImpl) RestoreVersion(ctx context.Context, postID uint64, version int) (*model.Post, int, error) {
	var restored model.Post
	var newVersion int
	var err error
	for i := 0; i < archiveRetryTimes; i++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var rev model.PostRevision
			if e := tx.Where("post_id = ? AND version = ?", postID, version).
				First(&rev).Error; e != nil {
				return e
			}

			var post model.Post
			if e := tx.Where("is_deleted = ?", false).First(&post, postID).Error; e != nil {
				return e
			}

			next, e := nextVersion(tx, postID)
			if e != nil {
				return e
			}

			// 回滚前先把当前状态存档，否则被覆盖的状态将无从找回
			if e = tx.Create(model.NewPostRevision(&post, next)).Error; e != nil {
				return e
			}

			post.Title = rev.Title
			post.Content = rev.Content
			post.Tags = rev.Tags
			post.CategoryID = rev.CategoryID
			post.UpdatedAt = time.Now()

			if e = tx.Model(&model.Post{}).
				Where("id = ?", post.ID).
				Select(postContentColumns).
				Updates(&post).Error; e != nil {
				return e
			}

			restored = post
			newVersion = next
			return nil
		})
		if err == nil {
			return &restored, newVersion, nil
		}
		if !isDuplicateError(err) {
			return nil, 0, err
		}
	}
	return nil, 0, err
}

func (s *revisionRepoImpl) GetVersion(ctx context.Context, postID uint64, version int) (*model.PostRevision, error) {
	var rev model.PostRevision
	err := s.db.WithContext(ctx).
		Where("post_id = ? AND version = ?", postID, version).
		First(&rev).Error
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

func (s *revisionRepoImpl) ListVersions(ctx context.Context, postID uint64, limit, offset int) ([]*model.PostRevision, error) {
	var revs []*model.PostRevision
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("version DESC").
		Limit(limit).Offset(offset).
		Find(&revs).Error
	return revs, err
}

func (s *revisionRepoImpl) GetLatestVersion(ctx context.Context, postID uint64) (int, error) {
	var latest int
	err := s.db.WithContext(ctx).Model(&model.PostRevision{}).
		Where("post_id = ?", postID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&latest).Error
	return latest, err
}

func (s *revisionRepoImpl) CountVersions(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.PostRevision{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func nextVersion(tx *gorm.DB, postID uint64) (int, error) {
	var latest int
	err := tx.Model(&model.PostRevision{}).
		Where("post_id = ?", postID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&latest).Error
	if err != nil {
		return 0, err
	}
	return latest + 1, nil
}
