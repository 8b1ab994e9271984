package repository

import (
	"Palisade/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// 并发首次互动撞到复合主键时的重试上限：冲突方换一个新事务改走更新路径
const toggleRetryTimes = 2

type InteractionRepo interface {
	// Toggle 翻转 (userID, postID, kind) 的互动状态并在同一事务内
	// 同步帖子计数，返回翻转后的状态。首次互动视为激活。
	Toggle(ctx context.Context, userID, postID uint64, kind int8) (bool, error)
	// RecordView 记录一次浏览。同一用户对同一帖子只产生一行、只计一次数，
	// 重复浏览仅刷新 updated_at。返回本次是否真正计入了浏览数。
	RecordView(ctx context.Context, userID, postID uint64) (bool, error)
	IsActive(ctx context.Context, userID, postID uint64, kind int8) (bool, error)
	GetActivePostIDs(ctx context.Context, userID uint64, kind int8, limit, offset int) ([]uint64, error)
	CountActive(ctx context.Context, postID uint64, kind int8) (int64, error)
}

type interactionRepoImpl struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) InteractionRepo {
	return &interactionRepoImpl{db: db}
}

func (s *interactionRepoImpl) Toggle(ctx context.Context, userID, postID uint64, kind int8) (bool, error) {
	var active bool
	var err error
	for i := 0; i < toggleRetryTimes; i++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			state, e := toggleOnce(tx, userID, postID, kind)
			if e != nil {
				return e
			}
			active = state
			return nil
		})
		if err == nil {
			return active, nil
		}
		if !isDuplicateError(err) {
			return false, err
		}
		// 两个并发请求同时首次互动：插入输掉的一方整个事务回滚，
		// 在新事务里重读已提交的行改走更新路径。REPEATABLE READ 下
		// 旧事务的读视图看不到赢家刚提交的行，原地重读仍会再次冲突
	}
	return false, err
}

// toggleOnce 执行一次查改：无行则插入激活行并 +1，有行则翻转并同步 ±1
func toggleOnce(tx *gorm.DB, userID, postID uint64, kind int8) (bool, error) {
	column := counterColumn(kind)

	var rec model.PostInteraction
	err := tx.Where("user_id = ? AND post_id = ? AND kind = ?", userID, postID, kind).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		now := time.Now()
		rec = model.PostInteraction{
			UserID:    userID,
			PostID:    postID,
			Kind:      kind,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err = tx.Create(&rec).Error; err != nil {
			return false, err
		}
		if err = applyCounterDelta(tx, postID, column, 1); err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}

	rec.Active = !rec.Active
	if err = tx.Model(&model.PostInteraction{}).
		Where("user_id = ? AND post_id = ? AND kind = ?", userID, postID, kind).
		UpdateColumns(map[string]interface{}{
			"active":     rec.Active,
			"updated_at": time.Now(),
		}).Error; err != nil {
		return false, err
	}

	delta := -1
	if rec.Active {
		delta = 1
	}
	if err = applyCounterDelta(tx, postID, column, delta); err != nil {
		return false, err
	}
	return rec.Active, nil
}

func (s *interactionRepoImpl) RecordView(ctx context.Context, userID, postID uint64) (bool, error) {
	var counted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.PostInteraction{}).
			Where("user_id = ? AND post_id = ? AND kind = ?", userID, postID, model.InteractionWatch).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			now := time.Now()
			err := tx.Create(&model.PostInteraction{
				UserID:    userID,
				PostID:    postID,
				Kind:      model.InteractionWatch,
				Active:    true,
				CreatedAt: now,
				UpdatedAt: now,
			}).Error
			if err == nil {
				counted = true
				return applyCounterDelta(tx, postID, "views_count", 1)
			}
			if !isDuplicateError(err) {
				return err
			}
			// 并发首次浏览，另一方已计数，这里只当作重复浏览
		}

		return tx.Model(&model.PostInteraction{}).
			Where("user_id = ? AND post_id = ? AND kind = ?", userID, postID, model.InteractionWatch).
			UpdateColumn("updated_at", time.Now()).Error
	})
	if err != nil {
		return false, err
	}
	return counted, nil
}

func (s *interactionRepoImpl) IsActive(ctx context.Context, userID, postID uint64, kind int8) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.PostInteraction{}).
		Where("user_id = ? AND post_id = ? AND kind = ? AND active = ?", userID, postID, kind, true).
		Count(&count).Error
	return count > 0, err
}

func (s *interactionRepoImpl) GetActivePostIDs(ctx context.Context, userID uint64, kind int8, limit, offset int) ([]uint64, error) {
	var postIDs []uint64
	err := s.db.WithContext(ctx).Model(&model.PostInteraction{}).
		Where("user_id = ? AND kind = ? AND active = ?", userID, kind, true).
		Order("updated_at DESC").
		Limit(limit).Offset(offset).
		Pluck("post_id", &postIDs).Error
	return postIDs, err
}

func (s *interactionRepoImpl) CountActive(ctx context.Context, postID uint64, kind int8) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.PostInteraction{}).
		Where("post_id = ? AND kind = ? AND active = ?", postID, kind, true).
		Count(&count).Error
	return count, err
}

func counterColumn(kind int8) string {
	switch kind {
	case model.InteractionCollect:
		return "collects_count"
	case model.InteractionWatch:
		return "views_count"
	default:
		return "likes_count"
	}
}
