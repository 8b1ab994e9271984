package handler

import (
	"Palisade/internal/api/dto"
	"Palisade/internal/pkg/response"
	"Palisade/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type RevisionHandler struct {
	revisionSvc service.RevisionService
}

func NewRevisionHandler(revisionSvc service.RevisionService) *RevisionHandler {
	return &RevisionHandler{
		revisionSvc: revisionSvc,
	}
}

// UpdatePost 编辑帖子，保存前归档当前版本
func (s *RevisionHandler) UpdatePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.PostUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	version, err := s.revisionSvc.UpdatePost(c.Request.Context(), userID, postID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.PostUpdateResultDTO{PostID: postID, Version: version})
}

// RestoreVersion 回滚到指定历史版本
func (s *RevisionHandler) RestoreVersion(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.RestoreReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.revisionSvc.RestoreVersion(c.Request.Context(), userID, postID, req.Version)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListRevisions 获取帖子的版本列表
func (s *RevisionHandler) ListRevisions(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 {
		pageSize = 20
	}

	revisions, err := s.revisionSvc.ListRevisions(c.Request.Context(), postID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, revisions)
}

// GetRevision 获取单个历史版本详情
func (s *RevisionHandler) GetRevision(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	version, err := strconv.Atoi(c.Param("version"))
	if err != nil || version < 1 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	revision, err := s.revisionSvc.GetRevision(c.Request.Context(), postID, version)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, revision)
}
