package service

import (
	"Palisade/internal/api/dto"
	"Palisade/internal/model"
	"Palisade/internal/pkg/consts"
	"Palisade/internal/repository"
	"context"
	"errors"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

type RevisionService interface {
	// UpdatePost 归档当前状态后应用修改，返回本次归档的版本号
	UpdatePost(ctx context.Context, userID, postID uint64, req *dto.PostUpdateDTO) (int, error)
	// RestoreVersion 回滚到指定历史版本，回滚前的状态会作为新版本归档
	RestoreVersion(ctx context.Context, userID, postID uint64, version int) (*dto.RestoreResultDTO, error)
	ListRevisions(ctx context.Context, postID uint64, page, pageSize int) (*dto.RevisionListDTO, error)
	GetRevision(ctx context.Context, postID uint64, version int) (*dto.RevisionDTO, error)
}

type revisionServiceImpl struct {
	revisionRepo repository.RevisionRepo
	postRepo     repository.PostRepo
}

func NewRevisionService(revisionRepo repository.RevisionRepo, postRepo repository.PostRepo) RevisionService {
	return &revisionServiceImpl{
		revisionRepo: revisionRepo,
		postRepo:     postRepo,
	}
}

func (s *revisionServiceImpl) UpdatePost(ctx context.Context, userID, postID uint64, req *dto.PostUpdateDTO) (int, error) {
	if err := s.checkWritable(ctx, userID, postID); err != nil {
		return 0, err
	}

	version, err := s.revisionRepo.ArchiveAndUpdate(ctx, postID, func(post *model.Post) error {
		post.Title = req.Title
		post.Content = req.Content
		post.Tags = req.Tags
		post.CategoryID = req.CategoryID
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrPostNotFound
		}
		return 0, err
	}
	return version, nil
}

func (s *revisionServiceImpl) RestoreVersion(ctx context.Context, userID, postID uint64, version int) (*dto.RestoreResultDTO, error) {
	if err := s.checkWritable(ctx, userID, postID); err != nil {
		return nil, err
	}

	post, archivedVersion, err := s.revisionRepo.RestoreVersion(ctx, postID, version)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 帖子已在 checkWritable 里确认存在，这里缺的只能是版本
			return nil, ErrRevisionNotFound
		}
		return nil, err
	}

	return &dto.RestoreResultDTO{
		Post:            convertToPostDTO(post),
		ArchivedVersion: archivedVersion,
	}, nil
}

func (s *revisionServiceImpl) ListRevisions(ctx context.Context, postID uint64, page, pageSize int) (*dto.RevisionListDTO, error) {
	if _, err := s.getPostChecked(ctx, postID); err != nil {
		return nil, err
	}

	revs, err := s.revisionRepo.ListVersions(ctx, postID, pageSize+1, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	hasMore := len(revs) > pageSize
	if hasMore {
		revs = revs[:pageSize]
	}

	list := make([]*dto.RevisionDTO, 0, len(revs))
	for _, rev := range revs {
		list = append(list, convertToRevisionDTO(rev))
	}
	return &dto.RevisionListDTO{List: list, HasMore: hasMore}, nil
}

func (s *revisionServiceImpl) GetRevision(ctx context.Context, postID uint64, version int) (*dto.RevisionDTO, error) {
	if _, err := s.getPostChecked(ctx, postID); err != nil {
		return nil, err
	}

	rev, err := s.revisionRepo.GetVersion(ctx, postID, version)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRevisionNotFound
		}
		return nil, err
	}
	return convertToRevisionDTO(rev), nil
}

func (s *revisionServiceImpl) checkWritable(ctx context.Context, userID, postID uint64) error {
	post, err := s.getPostChecked(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return UnauthorizedError
	}
	if post.Status == consts.PostStatusLocked {
		return ErrPostLocked
	}
	return nil
}

func (s *revisionServiceImpl) getPostChecked(ctx context.Context, postID uint64) (*model.Post, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func convertToRevisionDTO(rev *model.PostRevision) *dto.RevisionDTO {
	item := &dto.RevisionDTO{}
	_ = copier.Copy(item, rev)
	item.ArchivedAt = rev.CreatedAt.Format("2006-01-02 15:04:05")
	return item
}
