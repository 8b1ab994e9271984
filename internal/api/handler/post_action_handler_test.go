package handler

import (
	"Palisade/internal/api/dto"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type stubActionService struct {
	viewCtx chan context.Context
}

func (s *stubActionService) LikePost(ctx context.Context, userID, postID uint64) (bool, error) {
	return false, nil
}

func (s *stubActionService) CollectPost(ctx context.Context, userID, postID uint64) (bool, error) {
	return false, nil
}

func (s *stubActionService) TrackPostView(ctx context.Context, userID, postID uint64) error {
	// 等响应先回去，再暴露此刻的上下文状态
	time.Sleep(50 * time.Millisecond)
	s.viewCtx <- ctx
	return nil
}

func (s *stubActionService) IsLiked(ctx context.Context, userID, postID uint64) (bool, error) {
	return false, nil
}

func (s *stubActionService) IsCollected(ctx context.Context, userID, postID uint64) (bool, error) {
	return false, nil
}

func (s *stubActionService) GetPostLikeCount(ctx context.Context, postID uint64) (int64, error) {
	return 0, nil
}

func (s *stubActionService) GetPostCollectionCount(ctx context.Context, postID uint64) (int64, error) {
	return 0, nil
}

func (s *stubActionService) GetPostViewCount(ctx context.Context, postID uint64) (int64, error) {
	return 0, nil
}

func (s *stubActionService) GetLikedPosts(ctx context.Context, userID uint64, page, pageSize int) (*dto.PostListDTO, error) {
	return &dto.PostListDTO{}, nil
}

func (s *stubActionService) GetCollectedPosts(ctx context.Context, userID uint64, page, pageSize int) (*dto.PostListDTO, error) {
	return &dto.PostListDTO{}, nil
}

// 浏览上报在响应之后异步执行，它的上下文不能随请求一起被取消
func TestGetPostActionStateViewSurvivesResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	stub := &stubActionService{viewCtx: make(chan context.Context, 1)}
	h := NewPostActionHandler(stub)

	r := gin.New()
	r.GET("/state/:post_id", func(c *gin.Context) {
		c.Set("user_id", uint64(7))
		h.GetPostActionState(c)
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/state/1")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	select {
	case ctx := <-stub.viewCtx:
		if ctx.Err() != nil {
			t.Fatalf("view tracking context should outlive the response, got %v", ctx.Err())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("view tracking was never invoked")
	}
}
