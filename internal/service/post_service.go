package service

import (
	"Palisade/internal/api/dto"
	"Palisade/internal/model"
	"Palisade/internal/pkg/consts"
	"Palisade/internal/pkg/redis"
	"Palisade/internal/repository"
	"context"
	"errors"
	"strconv"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

type PostService interface {
	CreatePost(ctx context.Context, userID uint64, req *dto.PostCreateDTO) (*dto.PostDTO, error)
	GetPostDetail(ctx context.Context, postID uint64) (*dto.PostDTO, error)
	GetPostById(ctx context.Context, postID uint64) (*model.Post, error)
	DeletePost(ctx context.Context, userID, postID uint64) error
	UpdatePostStatus(ctx context.Context, postID uint64, status int8) error
	SyncPostCounters(ctx context.Context, postID uint64, likes, collects, views int64) error
}

type postServiceImpl struct {
	postRepo repository.PostRepo
}

func NewPostService(postRepo repository.PostRepo) PostService {
	return &postServiceImpl{
		postRepo: postRepo,
	}
}

func (s *postServiceImpl) CreatePost(ctx context.Context, userID uint64, req *dto.PostCreateDTO) (*dto.PostDTO, error) {
	post := &model.Post{
		UserID:     userID,
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Content:    req.Content,
		Tags:       req.Tags,
		Status:     consts.PostStatusNormal,
	}
	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return convertToPostDTO(post), nil
}

func (s *postServiceImpl) GetPostDetail(ctx context.Context, postID uint64) (*dto.PostDTO, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return convertToPostDTO(post), nil
}

func (s *postServiceImpl) GetPostById(ctx context.Context, postID uint64) (*model.Post, error) {
	return s.getPost(ctx, postID)
}

func (s *postServiceImpl) DeletePost(ctx context.Context, userID, postID uint64) error {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return UnauthorizedError
	}
	// 历史版本随帖子一并清除，计数缓存顺带失效
	if err = s.postRepo.DeletePost(ctx, postID); err != nil {
		return err
	}
	suffix := strconv.FormatUint(postID, 10)
	_ = redis.DeleteKey(ctx, consts.PostLikeKey+suffix)
	_ = redis.DeleteKey(ctx, consts.PostCollectionKey+suffix)
	_ = redis.DeleteKey(ctx, consts.PostViewKey+suffix)
	return nil
}

func (s *postServiceImpl) UpdatePostStatus(ctx context.Context, postID uint64, status int8) error {
	if _, err := s.getPost(ctx, postID); err != nil {
		return err
	}
	return s.postRepo.UpdatePostStatus(ctx, postID, status)
}

// SyncPostCounters 对账任务专用：用台账基数覆写冗余计数并刷新缓存
func (s *postServiceImpl) SyncPostCounters(ctx context.Context, postID uint64, likes, collects, views int64) error {
	if err := s.postRepo.UpdatePostCounters(ctx, postID, likes, collects, views); err != nil {
		return err
	}
	suffix := strconv.FormatUint(postID, 10)
	_ = redis.SetWithExpiration(ctx, consts.PostLikeKey+suffix, likes, counterCacheExpiration)
	_ = redis.SetWithExpiration(ctx, consts.PostCollectionKey+suffix, collects, counterCacheExpiration)
	_ = redis.SetWithExpiration(ctx, consts.PostViewKey+suffix, views, counterCacheExpiration)
	return nil
}

func (s *postServiceImpl) getPost(ctx context.Context, postID uint64) (*model.Post, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func convertToPostDTO(post *model.Post) *dto.PostDTO {
	item := &dto.PostDTO{}
	_ = copier.Copy(item, post)
	item.CreatedAt = post.CreatedAt.Format("2006-01-02 15:04:05")
	item.UpdatedAt = post.UpdatedAt.Format("2006-01-02 15:04:05")
	return item
}
