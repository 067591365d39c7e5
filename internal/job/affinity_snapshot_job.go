package job

import (
	"Quad/internal/model"
	"Quad/internal/pkg/consts"
	"Quad/internal/pkg/logger"
	"Quad/internal/pkg/redis"
	"Quad/internal/pkg/util"
	"Quad/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// AffinitySnapshotJob 将脏用户的亲和度 ZSET 回刷为 MySQL 快照，
// 快照只是缓存掉线时的次选信号源
type AffinitySnapshotJob struct {
	affinityRepo repository.AffinityRepo
}

func NewAffinitySnapshotJob(affinityRepo repository.AffinityRepo) *AffinitySnapshotJob {
	return &AffinitySnapshotJob{
		affinityRepo: affinityRepo,
	}
}

func (s *AffinitySnapshotJob) Run() {
	traceID := "job-affinity-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	processingKey := consts.UserAffinityDirtyKey + ":processing"
	err := redis.Rename(ctx, consts.UserAffinityDirtyKey, processingKey)
	if err != nil {
		return
	}

	tempSet, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get affinity dirty set error", "err", err)
		return
	}

	userIDs, err := util.StrSliceToUInt64Slice(tempSet)
	if err != nil {
		log.ErrorContext(ctx, "convert affinity set to int slice error", "err", err)
		return
	}

	log.InfoContext(ctx, "AffinitySnapshotJob processing", "user_count", len(userIDs))

	for _, uid := range userIDs {
		uidStr := strconv.FormatUint(uid, 10)
		affinityKey := consts.UserAffinityKey + uidStr

		zObjects, err := redis.ZRevRangeWithScores(ctx, affinityKey, 0, 100)
		if err != nil {
			log.ErrorContext(ctx, "fetch zset error", "uid", uid, "err", err)
			continue
		}

		if len(zObjects) == 0 {
			continue
		}

		affinityMap := make(model.AffinityMap)
		for _, obj := range zObjects {
			if author, ok := obj.Member.(string); ok {
				affinityMap[author] = obj.Score
			}
		}

		snapshot := &model.AffinitySnapshot{
			UserID:     uid,
			Affinities: affinityMap,
			UpdatedAt:  time.Now(),
		}

		err = s.affinityRepo.SaveSnapshot(ctx, snapshot)
		if err != nil {
			log.ErrorContext(ctx, "save affinity snapshot to mysql error", "uid", uid, "err", err)
			continue
		}

		// 只保留前 100 名作者，长尾信号不值得存
		_ = redis.ZRemRangeByRank(ctx, affinityKey, 0, -101)
	}

	err = redis.DeleteKey(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "delete affinity processing set error", "err", err)
	}

	log.InfoContext(ctx, "AffinitySnapshotJob finished", "processed_count", len(userIDs))
}
