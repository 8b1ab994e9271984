package repository

import (
	"Palisade/internal/model"
	"context"
	"testing"

	"gorm.io/gorm"
)

func TestToggleLikeLifecycle(t *testing.T) {
	db := setupTestDB(t, "interaction-lifecycle")
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	post := seedPost(t, db, 1, "标题", "内容")
	const userID = uint64(7)

	// 首次点赞
	active, err := repo.Toggle(ctx, userID, post.ID, model.InteractionLike)
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !active {
		t.Fatal("first toggle should activate")
	}
	assertLikes(t, db, post.ID, 1)

	// 取消点赞
	active, err = repo.Toggle(ctx, userID, post.ID, model.InteractionLike)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if active {
		t.Fatal("second toggle should deactivate")
	}
	assertLikes(t, db, post.ID, 0)

	// 再次点赞：复用同一行而不是新插入
	active, err = repo.Toggle(ctx, userID, post.ID, model.InteractionLike)
	if err != nil {
		t.Fatalf("third toggle failed: %v", err)
	}
	if !active {
		t.Fatal("third toggle should activate again")
	}
	assertLikes(t, db, post.ID, 1)

	var rows int64
	if err := db.Model(&model.PostInteraction{}).
		Where("post_id = ?", post.ID).Count(&rows).Error; err != nil {
		t.Fatalf("count rows failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected single ledger row, got %d", rows)
	}
}

func TestToggleTwoUsersIndependent(t *testing.T) {
	db := setupTestDB(t, "interaction-two-users")
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	post := seedPost(t, db, 1, "标题", "内容")

	if _, err := repo.Toggle(ctx, 10, post.ID, model.InteractionLike); err != nil {
		t.Fatalf("user 10 like failed: %v", err)
	}
	if _, err := repo.Toggle(ctx, 11, post.ID, model.InteractionLike); err != nil {
		t.Fatalf("user 11 like failed: %v", err)
	}
	assertLikes(t, db, post.ID, 2)

	if _, err := repo.Toggle(ctx, 10, post.ID, model.InteractionLike); err != nil {
		t.Fatalf("user 10 unlike failed: %v", err)
	}
	assertLikes(t, db, post.ID, 1)

	active, err := repo.IsActive(ctx, 11, post.ID, model.InteractionLike)
	if err != nil {
		t.Fatalf("is active failed: %v", err)
	}
	if !active {
		t.Fatal("user 11 like must survive user 10 unlike")
	}
}

func TestCollectUsesOwnCounter(t *testing.T) {
	db := setupTestDB(t, "interaction-collect")
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	post := seedPost(t, db, 1, "标题", "内容")

	if _, err := repo.Toggle(ctx, 3, post.ID, model.InteractionCollect); err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	var current model.Post
	if err := db.First(&current, post.ID).Error; err != nil {
		t.Fatalf("load post failed: %v", err)
	}
	if current.CollectsCount != 1 || current.LikesCount != 0 {
		t.Fatalf("collect must only bump collects_count, got likes=%d collects=%d",
			current.LikesCount, current.CollectsCount)
	}
}

func TestCounterNeverGoesNegative(t *testing.T) {
	db := setupTestDB(t, "interaction-clamp")
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	post := seedPost(t, db, 1, "标题", "内容")

	// 制造漂移：台账里有激活行但冗余计数是 0
	if err := db.Create(&model.PostInteraction{
		UserID: 5,
		PostID: post.ID,
		Kind:   model.InteractionLike,
		Active: true,
	}).Error; err != nil {
		t.Fatalf("seed drifted row failed: %v", err)
	}

	active, err := repo.Toggle(ctx, 5, post.ID, model.InteractionLike)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if active {
		t.Fatal("toggle should deactivate the drifted row")
	}
	// 钳制为 0 而不是 -1
	assertLikes(t, db, post.ID, 0)
}

func TestRecordViewDeduplicates(t *testing.T) {
	db := setupTestDB(t, "interaction-view")
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	post := seedPost(t, db, 1, "标题", "内容")

	for i := 0; i < 3; i++ {
		counted, err := repo.RecordView(ctx, 9, post.ID)
		if err != nil {
			t.Fatalf("record view %d failed: %v", i+1, err)
		}
		// 只有第一次真正计数，后续重复浏览不得再报告计数，
		// 否则调用方会往缓存里多加
		if counted != (i == 0) {
			t.Fatalf("view %d: expected counted=%v, got %v", i+1, i == 0, counted)
		}
	}

	var current model.Post
	if err := db.First(&current, post.ID).Error; err != nil {
		t.Fatalf("load post failed: %v", err)
	}
	if current.ViewsCount != 1 {
		t.Fatalf("same user should count once, got views %d", current.ViewsCount)
	}

	var rows int64
	if err := db.Model(&model.PostInteraction{}).
		Where("post_id = ? AND kind = ?", post.ID, model.InteractionWatch).
		Count(&rows).Error; err != nil {
		t.Fatalf("count rows failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected one watch row, got %d", rows)
	}

	// 另一个用户是独立的一次
	counted, err := repo.RecordView(ctx, 10, post.ID)
	if err != nil {
		t.Fatalf("record view by another user failed: %v", err)
	}
	if !counted {
		t.Fatal("first view by another user should count")
	}
	if err := db.First(&current, post.ID).Error; err != nil {
		t.Fatalf("load post failed: %v", err)
	}
	if current.ViewsCount != 2 {
		t.Fatalf("expected views 2, got %d", current.ViewsCount)
	}
}

func TestGetActivePostIDs(t *testing.T) {
	db := setupTestDB(t, "interaction-active-ids")
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	first := seedPost(t, db, 1, "帖子一", "内容")
	second := seedPost(t, db, 1, "帖子二", "内容")

	if _, err := repo.Toggle(ctx, 20, first.ID, model.InteractionCollect); err != nil {
		t.Fatalf("collect first failed: %v", err)
	}
	if _, err := repo.Toggle(ctx, 20, second.ID, model.InteractionCollect); err != nil {
		t.Fatalf("collect second failed: %v", err)
	}
	// 取消的不出现在列表里
	if _, err := repo.Toggle(ctx, 20, first.ID, model.InteractionCollect); err != nil {
		t.Fatalf("uncollect first failed: %v", err)
	}

	ids, err := repo.GetActivePostIDs(ctx, 20, model.InteractionCollect, 10, 0)
	if err != nil {
		t.Fatalf("get active ids failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != second.ID {
		t.Fatalf("expected only post %d, got %v", second.ID, ids)
	}

	count, err := repo.CountActive(ctx, second.ID, model.InteractionCollect)
	if err != nil {
		t.Fatalf("count active failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}
}

func TestToggleRetriesOnInsertConflict(t *testing.T) {
	db := setupTestDB(t, "interaction-conflict")
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	post := seedPost(t, db, 1, "标题", "内容")

	// 模拟并发首次互动：第一次插入台账行时返回唯一键冲突，
	// 等价于另一请求刚抢先落了同一行。恢复必须发生在新事务里
	armed := true
	err := db.Callback().Create().Before("gorm:create").Register("ledger_insert_conflict", func(tx *gorm.DB) {
		if !armed {
			return
		}
		if _, ok := tx.Statement.Dest.(*model.PostInteraction); ok {
			armed = false
			_ = tx.AddError(gorm.ErrDuplicatedKey)
		}
	})
	if err != nil {
		t.Fatalf("register callback failed: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Callback().Create().Remove("ledger_insert_conflict")
	})

	active, err := repo.Toggle(ctx, 7, post.ID, model.InteractionLike)
	if err != nil {
		t.Fatalf("toggle should recover from the insert conflict, got %v", err)
	}
	if !active {
		t.Fatal("recovered toggle should be active")
	}
	if armed {
		t.Fatal("conflict injection never fired")
	}

	// 冲突恢复后仍是单行、单次净变化
	assertLikes(t, db, post.ID, 1)
	var rows int64
	if err := db.Model(&model.PostInteraction{}).
		Where("post_id = ?", post.ID).Count(&rows).Error; err != nil {
		t.Fatalf("count rows failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected single ledger row after recovery, got %d", rows)
	}
}

func assertLikes(t *testing.T, db *gorm.DB, postID uint64, want int) {
	t.Helper()

	var current model.Post
	if err := db.First(&current, postID).Error; err != nil {
		t.Fatalf("load post failed: %v", err)
	}
	if current.LikesCount != want {
		t.Fatalf("expected likes %d, got %d", want, current.LikesCount)
	}
}
