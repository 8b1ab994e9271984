package job

import (
	"Palisade/internal/model"
	"Palisade/internal/pkg/consts"
	"Palisade/internal/pkg/logger"
	"Palisade/internal/pkg/redis"
	"Palisade/internal/pkg/util"
	"Palisade/internal/repository"
	"Palisade/internal/service"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// CounterAuditJob 以互动台账为准对账冗余计数，修正增量更新期间累积的漂移
type CounterAuditJob struct {
	postSvc         service.PostService
	interactionRepo repository.InteractionRepo
}

func NewCounterAuditJob(postSvc service.PostService, interactionRepo repository.InteractionRepo) *CounterAuditJob {
	return &CounterAuditJob{
		postSvc:         postSvc,
		interactionRepo: interactionRepo,
	}
}

func (s *CounterAuditJob) Run() {
	traceID := "job-counter-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	processingKey := consts.PostDirtyKey + ":processing"
	err := redis.Rename(ctx, consts.PostDirtyKey, processingKey)
	if err != nil {
		return
	}

	tempSet, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get post dirty set error", "err", err)
		return
	}

	postIDs, err := util.StrSliceToUInt64Slice(tempSet)
	if err != nil {
		log.ErrorContext(ctx, "convert post set to int slice error", "err", err)
		return
	}

	synced := 0
	for _, pid := range postIDs {
		likes, err := s.interactionRepo.CountActive(ctx, pid, model.InteractionLike)
		if err != nil {
			log.ErrorContext(ctx, "count likes error", "pid", pid, "err", err)
			continue
		}
		collects, err := s.interactionRepo.CountActive(ctx, pid, model.InteractionCollect)
		if err != nil {
			log.ErrorContext(ctx, "count collects error", "pid", pid, "err", err)
			continue
		}
		views, err := s.interactionRepo.CountActive(ctx, pid, model.InteractionWatch)
		if err != nil {
			log.ErrorContext(ctx, "count views error", "pid", pid, "err", err)
			continue
		}

		err = s.postSvc.SyncPostCounters(ctx, pid, likes, collects, views)
		if err != nil {
			log.ErrorContext(ctx, "sync post counters error", "pid", pid, "err", err)
			continue
		}
		synced++
	}

	err = redis.DeleteKey(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "delete post processing set error", "err", err)
	}

	log.InfoContext(ctx, "counter audit success",
		"dirty_count", len(postIDs),
		"synced_count", synced)
}
