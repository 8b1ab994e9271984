package handler

import (
	"Palisade/internal/api/dto"
	"Palisade/internal/pkg/response"
	"Palisade/internal/service"
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type PostActionHandler struct {
	actionSvc service.PostActionService
}

func NewPostActionHandler(actionSvc service.PostActionService) *PostActionHandler {
	return &PostActionHandler{
		actionSvc: actionSvc,
	}
}

// LikePost 点赞/取消点赞帖子，幂等翻转
func (s *PostActionHandler) LikePost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	userID := c.GetUint64("user_id")

	active, err := s.actionSvc.LikePost(c.Request.Context(), userID, postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.PostActionResultDTO{PostID: postID, Active: active})
}

// CollectPost 收藏/取消收藏帖子，幂等翻转
func (s *PostActionHandler) CollectPost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	userID := c.GetUint64("user_id")

	active, err := s.actionSvc.CollectPost(c.Request.Context(), userID, postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.PostActionResultDTO{PostID: postID, Active: active})
}

// GetPostActionState 获取帖子详情页的全量交互状态并上报浏览
func (s *PostActionHandler) GetPostActionState(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	ctx := c.Request.Context()
	state := &dto.PostActionStateDTO{}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		state.LikeCount, _ = s.actionSvc.GetPostLikeCount(gCtx, postID)
		return nil
	})
	g.Go(func() error {
		state.CollectCount, _ = s.actionSvc.GetPostCollectionCount(gCtx, postID)
		return nil
	})
	g.Go(func() error {
		state.ViewCount, _ = s.actionSvc.GetPostViewCount(gCtx, postID)
		return nil
	})
	g.Go(func() error {
		if userID > 0 {
			state.IsLiked, _ = s.actionSvc.IsLiked(gCtx, userID, postID)
		}
		return nil
	})
	g.Go(func() error {
		if userID > 0 {
			state.IsCollected, _ = s.actionSvc.IsCollected(gCtx, userID, postID)
		}
		return nil
	})

	_ = g.Wait()

	if userID > 0 {
		// 请求上下文随响应返回被取消，上报浏览要用不受取消影响的副本
		viewCtx := context.WithoutCancel(c.Request.Context())
		go func() {
			_ = s.actionSvc.TrackPostView(viewCtx, userID, postID)
		}()
	}

	response.Success(c, state)
}

// GetUserLikes 获取我点赞的帖子列表
func (s *PostActionHandler) GetUserLikes(c *gin.Context) {
	userID := c.GetUint64("user_id")
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 {
		pageSize = 20
	}

	posts, err := s.actionSvc.GetLikedPosts(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

// GetUserCollections 获取我收藏的帖子列表
func (s *PostActionHandler) GetUserCollections(c *gin.Context) {
	userID := c.GetUint64("user_id")
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 {
		pageSize = 20
	}

	posts, err := s.actionSvc.GetCollectedPosts(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}
