package repository

import (
	"Palisade/internal/model"
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"
)

func TestArchiveAndUpdateSequentialVersions(t *testing.T) {
	db := setupTestDB(t, "revision-sequential")
	repo := NewRevisionRepository(db)
	ctx := context.Background()

	post := seedPost(t, db, 1, "初稿", "第一版内容")

	titles := []string{"二稿", "三稿", "四稿"}
	for i, title := range titles {
		newTitle := title
		version, err := repo.ArchiveAndUpdate(ctx, post.ID, func(p *model.Post) error {
			p.Title = newTitle
			p.Content = newTitle + "的内容"
			return nil
		})
		if err != nil {
			t.Fatalf("archive %d failed: %v", i+1, err)
		}
		if version != i+1 {
			t.Fatalf("expected version %d, got %d", i+1, version)
		}
	}

	count, err := repo.CountVersions(ctx, post.ID)
	if err != nil {
		t.Fatalf("count versions failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 revisions, got %d", count)
	}

	// 快照保存的是修改前的状态
	rev1, err := repo.GetVersion(ctx, post.ID, 1)
	if err != nil {
		t.Fatalf("get version 1 failed: %v", err)
	}
	if rev1.Title != "初稿" || rev1.Content != "第一版内容" {
		t.Fatalf("version 1 should hold pre-update state, got title=%q content=%q", rev1.Title, rev1.Content)
	}

	rev3, err := repo.GetVersion(ctx, post.ID, 3)
	if err != nil {
		t.Fatalf("get version 3 failed: %v", err)
	}
	if rev3.Title != "三稿" {
		t.Fatalf("version 3 should hold title 三稿, got %q", rev3.Title)
	}

	var current model.Post
	if err := db.First(&current, post.ID).Error; err != nil {
		t.Fatalf("load post failed: %v", err)
	}
	if current.Title != "四稿" {
		t.Fatalf("post row should hold latest title, got %q", current.Title)
	}
}

func TestArchiveAndUpdateRollbackOnMutateError(t *testing.T) {
	db := setupTestDB(t, "revision-rollback")
	repo := NewRevisionRepository(db)
	ctx := context.Background()

	post := seedPost(t, db, 1, "原标题", "原内容")

	boom := errors.New("内容非法")
	_, err := repo.ArchiveAndUpdate(ctx, post.ID, func(p *model.Post) error {
		p.Title = "不应落库"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected mutate error, got %v", err)
	}

	// 整个事务回滚：既没有快照，也没有修改
	count, err := repo.CountVersions(ctx, post.ID)
	if err != nil {
		t.Fatalf("count versions failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no revision after rollback, got %d", count)
	}

	var current model.Post
	if err := db.First(&current, post.ID).Error; err != nil {
		t.Fatalf("load post failed: %v", err)
	}
	if current.Title != "原标题" {
		t.Fatalf("post should be untouched after rollback, got title %q", current.Title)
	}
}

func TestArchiveAndUpdateDeletedPost(t *testing.T) {
	db := setupTestDB(t, "revision-deleted")
	repo := NewRevisionRepository(db)
	postRepo := NewPostRepository(db)
	ctx := context.Background()

	post := seedPost(t, db, 1, "待删", "内容")
	if err := postRepo.DeletePost(ctx, post.ID); err != nil {
		t.Fatalf("delete post failed: %v", err)
	}

	_, err := repo.ArchiveAndUpdate(ctx, post.ID, func(p *model.Post) error {
		p.Title = "x"
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found for deleted post, got %v", err)
	}
}

func TestArchiveAndUpdateRetriesOnVersionConflict(t *testing.T) {
	db := setupTestDB(t, "revision-conflict")
	repo := NewRevisionRepository(db)
	ctx := context.Background()

	post := seedPost(t, db, 1, "旧标题", "内容")

	// 模拟并发归档撞到同一版本号：第一次写快照时返回唯一键冲突
	armed := true
	err := db.Callback().Create().Before("gorm:create").Register("revision_insert_conflict", func(tx *gorm.DB) {
		if !armed {
			return
		}
		if _, ok := tx.Statement.Dest.(*model.PostRevision); ok {
			armed = false
			_ = tx.AddError(gorm.ErrDuplicatedKey)
		}
	})
	if err != nil {
		t.Fatalf("register callback failed: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Callback().Create().Remove("revision_insert_conflict")
	})

	version, err := repo.ArchiveAndUpdate(ctx, post.ID, func(p *model.Post) error {
		p.Title = "新标题"
		return nil
	})
	if err != nil {
		t.Fatalf("archive should recover from the version conflict, got %v", err)
	}
	if armed {
		t.Fatal("conflict injection never fired")
	}
	// 重试重算版本号，序列依旧从 1 起且无空洞
	if version != 1 {
		t.Fatalf("expected version 1 after recovery, got %d", version)
	}

	count, err := repo.CountVersions(ctx, post.ID)
	if err != nil {
		t.Fatalf("count versions failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one revision, got %d", count)
	}

	rev, err := repo.GetVersion(ctx, post.ID, 1)
	if err != nil {
		t.Fatalf("get version failed: %v", err)
	}
	if rev.Title != "旧标题" {
		t.Fatalf("snapshot should hold pre-update title, got %q", rev.Title)
	}

	var current model.Post
	if err := db.First(&current, post.ID).Error; err != nil {
		t.Fatalf("load post failed: %v", err)
	}
	if current.Title != "新标题" {
		t.Fatalf("post should hold the applied title, got %q", current.Title)
	}
}

func TestRestoreVersionRoundTrip(t *testing.T) {
	db := setupTestDB(t, "revision-restore")
	repo := NewRevisionRepository(db)
	ctx := context.Background()

	post := seedPost(t, db, 1, "版本一", "内容一")

	if _, err := repo.ArchiveAndUpdate(ctx, post.ID, func(p *model.Post) error {
		p.Title = "版本二"
		p.Content = "内容二"
		return nil
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	// 计数列与回滚无关，提前制造一些计数验证不被覆盖
	if err := db.Model(&model.Post{}).Where("id = ?", post.ID).
		UpdateColumn("likes_count", 5).Error; err != nil {
		t.Fatalf("seed likes failed: %v", err)
	}

	restored, archivedVersion, err := repo.RestoreVersion(ctx, post.ID, 1)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if restored.Title != "版本一" || restored.Content != "内容一" {
		t.Fatalf("restore should bring back version 1 content, got title=%q", restored.Title)
	}
	// 回滚前的状态作为新版本归档
	if archivedVersion != 2 {
		t.Fatalf("expected archived version 2, got %d", archivedVersion)
	}

	rev2, err := repo.GetVersion(ctx, post.ID, 2)
	if err != nil {
		t.Fatalf("get version 2 failed: %v", err)
	}
	if rev2.Title != "版本二" {
		t.Fatalf("version 2 should hold pre-restore state, got %q", rev2.Title)
	}

	var current model.Post
	if err := db.First(&current, post.ID).Error; err != nil {
		t.Fatalf("load post failed: %v", err)
	}
	if current.Title != "版本一" {
		t.Fatalf("post should hold restored title, got %q", current.Title)
	}
	if current.LikesCount != 5 {
		t.Fatalf("restore must not touch counters, got likes %d", current.LikesCount)
	}
}

func TestRestoreVersionNotFound(t *testing.T) {
	db := setupTestDB(t, "revision-restore-missing")
	repo := NewRevisionRepository(db)
	ctx := context.Background()

	post := seedPost(t, db, 1, "标题", "内容")

	_, _, err := repo.RestoreVersion(ctx, post.ID, 99)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}

	count, _ := repo.CountVersions(ctx, post.ID)
	if count != 0 {
		t.Fatalf("failed restore must not archive anything, got %d revisions", count)
	}
}

func TestListVersionsOrderAndPaging(t *testing.T) {
	db := setupTestDB(t, "revision-list")
	repo := NewRevisionRepository(db)
	ctx := context.Background()

	post := seedPost(t, db, 1, "v0", "c0")
	for i := 1; i <= 5; i++ {
		n := i
		if _, err := repo.ArchiveAndUpdate(ctx, post.ID, func(p *model.Post) error {
			p.Title = "v" + string(rune('0'+n))
			return nil
		}); err != nil {
			t.Fatalf("update %d failed: %v", i, err)
		}
	}

	revs, err := repo.ListVersions(ctx, post.ID, 3, 0)
	if err != nil {
		t.Fatalf("list versions failed: %v", err)
	}
	if len(revs) != 3 {
		t.Fatalf("expected 3 revisions, got %d", len(revs))
	}
	// 按版本号倒序
	if revs[0].Version != 5 || revs[1].Version != 4 || revs[2].Version != 3 {
		t.Fatalf("expected versions 5,4,3 got %d,%d,%d", revs[0].Version, revs[1].Version, revs[2].Version)
	}

	latest, err := repo.GetLatestVersion(ctx, post.ID)
	if err != nil {
		t.Fatalf("get latest version failed: %v", err)
	}
	if latest != 5 {
		t.Fatalf("expected latest version 5, got %d", latest)
	}
}

func TestDeletePostClearsRevisions(t *testing.T) {
	db := setupTestDB(t, "revision-cascade")
	repo := NewRevisionRepository(db)
	postRepo := NewPostRepository(db)
	ctx := context.Background()

	post := seedPost(t, db, 1, "标题", "内容")
	if _, err := repo.ArchiveAndUpdate(ctx, post.ID, func(p *model.Post) error {
		p.Title = "新标题"
		return nil
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if err := postRepo.DeletePost(ctx, post.ID); err != nil {
		t.Fatalf("delete post failed: %v", err)
	}

	if _, err := postRepo.GetPost(ctx, post.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("deleted post should be invisible, got %v", err)
	}

	count, err := repo.CountVersions(ctx, post.ID)
	if err != nil {
		t.Fatalf("count versions failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("revisions should die with the post, got %d", count)
	}
}
