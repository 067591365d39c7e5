package kafka

import (
	"Quad/internal/model"
	"Quad/internal/pkg/consts"
	"Quad/internal/pkg/redis"
	"Quad/internal/pkg/scoring"
	"Quad/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// applyInteraction 将平台侧产生的互动落流水并维护亲和度信号。
// 流水写失败返回错误走重试，缓存维护失败只记日志
func applyInteraction(ctx context.Context, interactionRepo repository.InteractionRepo,
	postRepo repository.PostRepo, userID, postID uint64, kind string, eventTime time.Time) error {
	if userID == 0 || postID == 0 {
		return nil
	}

	post, err := postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return errors.Wrap(err, "get post for interaction")
	}
	if post == nil {
		// 帖子已不在本地库，丢弃即可
		return nil
	}

	record := &model.InteractionRecord{
		UserID:    userID,
		PostID:    postID,
		AuthorID:  post.UserID,
		Kind:      kind,
		CreatedAt: eventTime,
	}
	if err := interactionRepo.CreateRecord(ctx, record); err != nil {
		return errors.Wrap(err, "create interaction record")
	}

	adjustAffinity(ctx, userID, post.UserID, scoring.InteractionWeight(kind))
	return nil
}

// adjustAffinity 增减亲和度 ZSET 并打脏标记
func adjustAffinity(ctx context.Context, userID, authorID uint64, delta float64) {
	if delta == 0 {
		return
	}
	key := consts.UserAffinityKey + strconv.FormatUint(userID, 10)
	if err := redis.ZIncrBy(ctx, key, delta, strconv.FormatUint(authorID, 10)); err != nil {
		log.WarnContext(ctx, "incr affinity failed", "err", err, "user_id", userID)
		return
	}
	if err := redis.SAdd(ctx, consts.UserAffinityDirtyKey, strconv.FormatUint(userID, 10)); err != nil {
		log.WarnContext(ctx, "mark affinity dirty failed", "err", err, "user_id", userID)
	}
}

// eventTimeOf Canal 事件携带的库内变更时间，缺失时退回当前时间
func eventTimeOf(msg *CanalMessage) time.Time {
	if msg.ES > 0 {
		return time.UnixMilli(msg.ES)
	}
	return time.Now()
}
