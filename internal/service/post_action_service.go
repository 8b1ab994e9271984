package service

import (
	"Palisade/internal/api/dto"
	"Palisade/internal/model"
	"Palisade/internal/pkg/consts"
	"Palisade/internal/pkg/kafka"
	"Palisade/internal/pkg/redis"
	"Palisade/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"time"

	"gorm.io/gorm"
)

const counterCacheExpiration = 7 * 24 * time.Hour

type PostActionService interface {
	// LikePost 翻转点赞状态，返回翻转后的状态
	LikePost(ctx context.Context, userID, postID uint64) (bool, error)
	// CollectPost 翻转收藏状态，返回翻转后的状态
	CollectPost(ctx context.Context, userID, postID uint64) (bool, error)
	// TrackPostView 上报一次浏览，同一用户对同一帖子只计一次
	TrackPostView(ctx context.Context, userID, postID uint64) error

	IsLiked(ctx context.Context, userID, postID uint64) (bool, error)
	IsCollected(ctx context.Context, userID, postID uint64) (bool, error)

	GetPostLikeCount(ctx context.Context, postID uint64) (int64, error)
	GetPostCollectionCount(ctx context.Context, postID uint64) (int64, error)
	GetPostViewCount(ctx context.Context, postID uint64) (int64, error)

	GetLikedPosts(ctx context.Context, userID uint64, page, pageSize int) (*dto.PostListDTO, error)
	GetCollectedPosts(ctx context.Context, userID uint64, page, pageSize int) (*dto.PostListDTO, error)
}

type postActionServiceImpl struct {
	interactionRepo repository.InteractionRepo
	postRepo        repository.PostRepo
	producer        kafka.EventProducer
}

func NewPostActionService(
	interactionRepo repository.InteractionRepo,
	postRepo repository.PostRepo,
	producer kafka.EventProducer,
) PostActionService {
	return &postActionServiceImpl{
		interactionRepo: interactionRepo,
		postRepo:        postRepo,
		producer:        producer,
	}
}

func (s *postActionServiceImpl) LikePost(ctx context.Context, userID, postID uint64) (bool, error) {
	return s.toggle(ctx, userID, postID, model.InteractionLike, consts.PostLikeKey)
}

func (s *postActionServiceImpl) CollectPost(ctx context.Context, userID, postID uint64) (bool, error) {
	return s.toggle(ctx, userID, postID, model.InteractionCollect, consts.PostCollectionKey)
}

func (s *postActionServiceImpl) toggle(ctx context.Context, userID, postID uint64, kind int8, cacheKeyPrefix string) (bool, error) {
	if err := s.checkActionable(ctx, postID); err != nil {
		return false, err
	}

	active, err := s.interactionRepo.Toggle(ctx, userID, postID, kind)
	if err != nil {
		return false, err
	}

	// 台账事务已提交，缓存与通知都是尽力而为
	s.afterTransition(ctx, userID, postID, kind, active, cacheKeyPrefix)
	return active, nil
}

func (s *postActionServiceImpl) TrackPostView(ctx context.Context, userID, postID uint64) error {
	if err := s.checkActionable(ctx, postID); err != nil {
		return err
	}
	counted, err := s.interactionRepo.RecordView(ctx, userID, postID)
	if err != nil {
		return err
	}
	if counted {
		s.afterTransition(ctx, userID, postID, model.InteractionWatch, true, consts.PostViewKey)
		return nil
	}
	// 重复浏览没有计数变化，缓存不加一，只标脏留给对账任务
	_ = redis.SAdd(ctx, consts.PostDirtyKey, postID)
	return nil
}

func (s *postActionServiceImpl) IsLiked(ctx context.Context, userID, postID uint64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.interactionRepo.IsActive(ctx, userID, postID, model.InteractionLike)
}

func (s *postActionServiceImpl) IsCollected(ctx context.Context, userID, postID uint64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.interactionRepo.IsActive(ctx, userID, postID, model.InteractionCollect)
}

func (s *postActionServiceImpl) GetPostLikeCount(ctx context.Context, postID uint64) (int64, error) {
	return s.getCount(ctx, postID, consts.PostLikeKey, func(post *model.Post) int64 {
		return int64(post.LikesCount)
	})
}

func (s *postActionServiceImpl) GetPostCollectionCount(ctx context.Context, postID uint64) (int64, error) {
	return s.getCount(ctx, postID, consts.PostCollectionKey, func(post *model.Post) int64 {
		return int64(post.CollectsCount)
	})
}

func (s *postActionServiceImpl) GetPostViewCount(ctx context.Context, postID uint64) (int64, error) {
	return s.getCount(ctx, postID, consts.PostViewKey, func(post *model.Post) int64 {
		return int64(post.ViewsCount)
	})
}

// getCount 读计数：优先缓存，未命中回源帖子行的冗余计数列。
// 计数列由台账事务增量维护，这里不做全表重算。
func (s *postActionServiceImpl) getCount(ctx context.Context, postID uint64, keyPrefix string, pick func(post *model.Post) int64) (int64, error) {
	key := keyPrefix + strconv.FormatUint(postID, 10)
	count, err := redis.GetInt64(ctx, key)
	if err == nil {
		return count, nil
	}

	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrPostNotFound
		}
		return 0, err
	}

	realCount := pick(post)
	_ = redis.SetWithExpiration(ctx, key, realCount, counterCacheExpiration)
	return realCount, nil
}

func (s *postActionServiceImpl) GetLikedPosts(ctx context.Context, userID uint64, page, pageSize int) (*dto.PostListDTO, error) {
	ids, err := s.interactionRepo.GetActivePostIDs(ctx, userID, model.InteractionLike, pageSize+1, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return s.expandPostList(ctx, ids, pageSize)
}

func (s *postActionServiceImpl) GetCollectedPosts(ctx context.Context, userID uint64, page, pageSize int) (*dto.PostListDTO, error) {
	ids, err := s.interactionRepo.GetActivePostIDs(ctx, userID, model.InteractionCollect, pageSize+1, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return s.expandPostList(ctx, ids, pageSize)
}

func (s *postActionServiceImpl) expandPostList(ctx context.Context, ids []uint64, pageSize int) (*dto.PostListDTO, error) {
	hasMore := len(ids) > pageSize
	if hasMore {
		ids = ids[:pageSize]
	}
	posts, err := s.postRepo.GetPostByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	list := make([]*dto.PostDTO, 0, len(posts))
	for _, post := range posts {
		list = append(list, convertToPostDTO(post))
	}
	return &dto.PostListDTO{List: list, HasMore: hasMore}, nil
}

func (s *postActionServiceImpl) checkActionable(ctx context.Context, postID uint64) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if post.Status == consts.PostStatusLocked {
		return ErrPostLocked
	}
	return nil
}

func (s *postActionServiceImpl) afterTransition(ctx context.Context, userID, postID uint64, kind int8, active bool, cacheKeyPrefix string) {
	key := cacheKeyPrefix + strconv.FormatUint(postID, 10)
	delta := int64(-1)
	if active {
		delta = 1
	}
	if err := redis.IncrBy(ctx, key, delta); err != nil {
		log.WarnContext(ctx, "refresh counter cache failed", "key", key, "err", err)
	}
	_ = redis.SAdd(ctx, consts.PostDirtyKey, postID)

	if s.producer != nil {
		evt := &kafka.InteractionEvent{
			SenderID:   userID,
			PostID:     postID,
			Kind:       kind,
			Active:     active,
			OccurredAt: time.Now(),
		}
		go s.producer.SendInteractionEvent(context.Background(), evt)
	}
}
