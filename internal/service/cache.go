package service

import (
	"Quad/internal/pkg/consts"
	"Quad/internal/pkg/redis"
	"context"
	"strconv"
	"time"
)

// EngagementCache 活跃度引擎依赖的缓存操作。抽成接口是为了让
// 计分、防刷、幂等逻辑可以在不起 Redis 的情况下被测试覆盖
type EngagementCache interface {
	// TryUserLock 抢用户级互斥锁，同一用户的动作串行结算
	TryUserLock(ctx context.Context, userID uint64, token string) (bool, error)
	UnlockUser(ctx context.Context, userID uint64, token string)
	// ClaimIdemKey 占用幂等键，已被占用返回 false
	ClaimIdemKey(ctx context.Context, userID uint64, key string) (bool, error)
	// IncrDailyCount 当日动作计数累加并返回最新值
	IncrDailyCount(ctx context.Context, userID uint64, date string, category string, delta int64) (int64, error)
	GetDailyCount(ctx context.Context, userID uint64, date string, category string) (int64, error)
}

// FeedCache 信息流旁路写入的缓存操作
type FeedCache interface {
	// IncrAffinity 增量累加用户对作者的亲和度
	IncrAffinity(ctx context.Context, userID, authorID uint64, delta float64) error
	// MarkAffinityDirty 标记用户待回刷快照
	MarkAffinityDirty(ctx context.Context, userID uint64) error
}

const (
	userLockTTL = 5 * time.Second
	idemKeyTTL  = 24 * time.Hour
	capKeyTTL   = 48 * time.Hour
)

type redisEngagementCache struct{}

func NewEngagementCache() EngagementCache {
	return &redisEngagementCache{}
}

func (c *redisEngagementCache) TryUserLock(ctx context.Context, userID uint64, token string) (bool, error) {
	key := consts.EngagementUserLock + strconv.FormatUint(userID, 10)
	return redis.TryLock(ctx, key, token, userLockTTL, 3)
}

func (c *redisEngagementCache) UnlockUser(ctx context.Context, userID uint64, token string) {
	key := consts.EngagementUserLock + strconv.FormatUint(userID, 10)
	redis.UnLock(ctx, key, token)
}

func (c *redisEngagementCache) ClaimIdemKey(ctx context.Context, userID uint64, key string) (bool, error) {
	fullKey := consts.EngagementIdemKey + strconv.FormatUint(userID, 10) + ":" + key
	return redis.SetNX(ctx, fullKey, 1, idemKeyTTL)
}

func (c *redisEngagementCache) IncrDailyCount(ctx context.Context, userID uint64, date string, category string, delta int64) (int64, error) {
	return redis.IncrByWithExpire(ctx, capKey(userID, date, category), delta, capKeyTTL)
}

func (c *redisEngagementCache) GetDailyCount(ctx context.Context, userID uint64, date string, category string) (int64, error) {
	return redis.GetInt64(ctx, capKey(userID, date, category))
}

func capKey(userID uint64, date string, category string) string {
	return consts.EngagementCapKey + strconv.FormatUint(userID, 10) + ":" + date + ":" + category
}

type redisFeedCache struct{}

func NewFeedCache() FeedCache {
	return &redisFeedCache{}
}

func (c *redisFeedCache) IncrAffinity(ctx context.Context, userID, authorID uint64, delta float64) error {
	key := consts.UserAffinityKey + strconv.FormatUint(userID, 10)
	if err := redis.ZIncrBy(ctx, key, delta, strconv.FormatUint(authorID, 10)); err != nil {
		return err
	}
	return redis.Expire(ctx, key, 30*24*time.Hour)
}

func (c *redisFeedCache) MarkAffinityDirty(ctx context.Context, userID uint64) error {
	return redis.SAdd(ctx, consts.UserAffinityDirtyKey, strconv.FormatUint(userID, 10))
}
