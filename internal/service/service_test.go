package service

import (
	"Palisade/internal/api/dto"
	"Palisade/internal/model"
	"Palisade/internal/pkg/consts"
	"Palisade/internal/repository"
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db          *gorm.DB
	postSvc     PostService
	revisionSvc RevisionService
	actionSvc   PostActionService
}

func setupTestEnv(t *testing.T, name string) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.AutoMigrate(&model.Post{}, &model.PostRevision{}, &model.PostInteraction{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	postRepo := repository.NewPostRepository(db)
	revisionRepo := repository.NewRevisionRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)

	return &testEnv{
		db:          db,
		postSvc:     NewPostService(postRepo),
		revisionSvc: NewRevisionService(revisionRepo, postRepo),
		// 测试环境没有 Kafka，通知链路降级为空
		actionSvc: NewPostActionService(interactionRepo, postRepo, nil),
	}
}

// 覆盖完整业务链路：发帖、两人点赞、一人取消、编辑归档、回滚。
// 回滚只还原内容，点赞计数保持回滚时刻的值。
func TestPostEditAndRestoreFlow(t *testing.T) {
	env := setupTestEnv(t, "svc-flow")
	ctx := context.Background()

	const authorID, readerID = uint64(1), uint64(2)

	post, err := env.postSvc.CreatePost(ctx, authorID, &dto.PostCreateDTO{
		Title:   "原始标题",
		Content: "原始内容",
	})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}

	if _, err := env.actionSvc.LikePost(ctx, authorID, post.ID); err != nil {
		t.Fatalf("author like failed: %v", err)
	}
	if _, err := env.actionSvc.LikePost(ctx, readerID, post.ID); err != nil {
		t.Fatalf("reader like failed: %v", err)
	}
	if active, err := env.actionSvc.LikePost(ctx, authorID, post.ID); err != nil || active {
		t.Fatalf("author unlike failed: active=%v err=%v", active, err)
	}

	likes, err := env.actionSvc.GetPostLikeCount(ctx, post.ID)
	if err != nil {
		t.Fatalf("get like count failed: %v", err)
	}
	if likes != 1 {
		t.Fatalf("expected 1 like, got %d", likes)
	}

	version, err := env.revisionSvc.UpdatePost(ctx, authorID, post.ID, &dto.PostUpdateDTO{
		Title:   "修改后的标题",
		Content: "修改后的内容",
	})
	if err != nil {
		t.Fatalf("update post failed: %v", err)
	}
	if version != 1 {
		t.Fatalf("expected first archive to be version 1, got %d", version)
	}

	// 快照持有修改前的内容与当时的计数
	rev, err := env.revisionSvc.GetRevision(ctx, post.ID, 1)
	if err != nil {
		t.Fatalf("get revision failed: %v", err)
	}
	if rev.Title != "原始标题" || rev.LikesCount != 1 {
		t.Fatalf("revision 1 should hold pre-update state, got title=%q likes=%d", rev.Title, rev.LikesCount)
	}

	result, err := env.revisionSvc.RestoreVersion(ctx, authorID, post.ID, 1)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if result.Post.Title != "原始标题" {
		t.Fatalf("restore should revert title, got %q", result.Post.Title)
	}
	if result.ArchivedVersion != 2 {
		t.Fatalf("pre-restore state should land as version 2, got %d", result.ArchivedVersion)
	}
	if result.Post.LikesCount != 1 {
		t.Fatalf("restore must not touch counters, got likes %d", result.Post.LikesCount)
	}

	list, err := env.revisionSvc.ListRevisions(ctx, post.ID, 1, 10)
	if err != nil {
		t.Fatalf("list revisions failed: %v", err)
	}
	if len(list.List) != 2 || list.List[0].Version != 2 {
		t.Fatalf("expected versions [2,1], got %d entries", len(list.List))
	}
}

func TestUpdatePostOwnership(t *testing.T) {
	env := setupTestEnv(t, "svc-ownership")
	ctx := context.Background()

	post, err := env.postSvc.CreatePost(ctx, 1, &dto.PostCreateDTO{Title: "标题", Content: "内容"})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}

	_, err = env.revisionSvc.UpdatePost(ctx, 2, post.ID, &dto.PostUpdateDTO{Title: "x", Content: "y"})
	if !errors.Is(err, UnauthorizedError) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}

	if err = env.postSvc.DeletePost(ctx, 2, post.ID); !errors.Is(err, UnauthorizedError) {
		t.Fatalf("expected unauthorized error on delete, got %v", err)
	}
}

func TestLockedPostRejectsWrites(t *testing.T) {
	env := setupTestEnv(t, "svc-locked")
	ctx := context.Background()

	post, err := env.postSvc.CreatePost(ctx, 1, &dto.PostCreateDTO{Title: "标题", Content: "内容"})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if err := env.postSvc.UpdatePostStatus(ctx, post.ID, consts.PostStatusLocked); err != nil {
		t.Fatalf("lock post failed: %v", err)
	}

	_, err = env.revisionSvc.UpdatePost(ctx, 1, post.ID, &dto.PostUpdateDTO{Title: "x", Content: "y"})
	if !errors.Is(err, ErrPostLocked) {
		t.Fatalf("expected locked error on update, got %v", err)
	}

	_, err = env.actionSvc.LikePost(ctx, 2, post.ID)
	if !errors.Is(err, ErrPostLocked) {
		t.Fatalf("expected locked error on like, got %v", err)
	}

	// 解锁后恢复可写
	if err := env.postSvc.UpdatePostStatus(ctx, post.ID, consts.PostStatusNormal); err != nil {
		t.Fatalf("unlock post failed: %v", err)
	}
	if _, err = env.actionSvc.LikePost(ctx, 2, post.ID); err != nil {
		t.Fatalf("like after unlock failed: %v", err)
	}
}

func TestMissingPostAndRevision(t *testing.T) {
	env := setupTestEnv(t, "svc-missing")
	ctx := context.Background()

	if _, err := env.postSvc.GetPostDetail(ctx, 999); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected post not found, got %v", err)
	}

	post, err := env.postSvc.CreatePost(ctx, 1, &dto.PostCreateDTO{Title: "标题", Content: "内容"})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}

	if _, err := env.revisionSvc.GetRevision(ctx, post.ID, 7); !errors.Is(err, ErrRevisionNotFound) {
		t.Fatalf("expected revision not found, got %v", err)
	}
	if _, err := env.revisionSvc.RestoreVersion(ctx, 1, post.ID, 7); !errors.Is(err, ErrRevisionNotFound) {
		t.Fatalf("expected revision not found on restore, got %v", err)
	}
}

func TestTrackViewAndCollections(t *testing.T) {
	env := setupTestEnv(t, "svc-view")
	ctx := context.Background()

	post, err := env.postSvc.CreatePost(ctx, 1, &dto.PostCreateDTO{Title: "标题", Content: "内容"})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := env.actionSvc.TrackPostView(ctx, 5, post.ID); err != nil {
			t.Fatalf("track view failed: %v", err)
		}
	}
	views, err := env.actionSvc.GetPostViewCount(ctx, post.ID)
	if err != nil {
		t.Fatalf("get view count failed: %v", err)
	}
	if views != 1 {
		t.Fatalf("same user views once, got %d", views)
	}

	if _, err := env.actionSvc.CollectPost(ctx, 5, post.ID); err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	collected, err := env.actionSvc.GetCollectedPosts(ctx, 5, 1, 10)
	if err != nil {
		t.Fatalf("get collected posts failed: %v", err)
	}
	if len(collected.List) != 1 || collected.List[0].ID != post.ID {
		t.Fatalf("expected collected list with post %d, got %d entries", post.ID, len(collected.List))
	}
}
