package service

import (
	"Quad/internal/api/config"
	"Quad/internal/api/dto"
	"Quad/internal/model"
	"Quad/internal/pkg/clock"
	"Quad/internal/pkg/consts"
	"Quad/internal/pkg/event"
	"Quad/internal/repository"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// ---- 内存假件 ----

type fakeDailyRepo struct {
	rows       map[string]*model.DailyEngagement
	nextID     uint64
	failUpdate bool
	getErr     error
}

func newFakeDailyRepo() *fakeDailyRepo {
	return &fakeDailyRepo{rows: make(map[string]*model.DailyEngagement)}
}

func dailyKey(userID uint64, date time.Time) string {
	return fmt.Sprintf("%d:%s", userID, date.Format(consts.DateLayout))
}

func copyDaily(row *model.DailyEngagement) *model.DailyEngagement {
	cp := *row
	cp.Journal = append(model.ActionJournal{}, row.Journal...)
	return &cp
}

func (r *fakeDailyRepo) GetOrCreate(_ context.Context, userID uint64, date time.Time) (*model.DailyEngagement, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	key := dailyKey(userID, date)
	if row, ok := r.rows[key]; ok {
		return copyDaily(row), nil
	}
	r.nextID++
	row := &model.DailyEngagement{ID: r.nextID, UserID: userID, MetricDate: date}
	r.rows[key] = row
	return copyDaily(row), nil
}

func (r *fakeDailyRepo) GetByUserAndDate(_ context.Context, userID uint64, date time.Time) (*model.DailyEngagement, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if row, ok := r.rows[dailyKey(userID, date)]; ok {
		return copyDaily(row), nil
	}
	return nil, nil
}

func (r *fakeDailyRepo) UpdateWithVersion(_ context.Context, row *model.DailyEngagement) (bool, error) {
	if r.failUpdate {
		return false, nil
	}
	key := dailyKey(row.UserID, row.MetricDate)
	stored, ok := r.rows[key]
	if !ok || stored.Version != row.Version {
		return false, nil
	}
	cp := copyDaily(row)
	cp.Version++
	r.rows[key] = cp
	return true, nil
}

func (r *fakeDailyRepo) ListByDateRange(_ context.Context, _, _ time.Time) ([]*model.DailyEngagement, error) {
	return nil, nil
}

type fakeStreakRepo struct {
	streaks map[string]*model.Streak
}

func newFakeStreakRepo() *fakeStreakRepo {
	return &fakeStreakRepo{streaks: make(map[string]*model.Streak)}
}

func (r *fakeStreakRepo) GetByUserAndType(_ context.Context, userID uint64, streakType string) (*model.Streak, error) {
	if st, ok := r.streaks[fmt.Sprintf("%d:%s", userID, streakType)]; ok {
		cp := *st
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeStreakRepo) GetByUser(_ context.Context, userID uint64) ([]*model.Streak, error) {
	var result []*model.Streak
	for _, st := range r.streaks {
		if st.UserID == userID {
			cp := *st
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *fakeStreakRepo) SaveOrUpdate(_ context.Context, streak *model.Streak) error {
	cp := *streak
	r.streaks[fmt.Sprintf("%d:%s", streak.UserID, streak.StreakType)] = &cp
	return nil
}

type fakeAchievementRepo struct {
	unlocked map[uint64]map[string]*model.UserAchievement
}

func newFakeAchievementRepo() *fakeAchievementRepo {
	return &fakeAchievementRepo{unlocked: make(map[uint64]map[string]*model.UserAchievement)}
}

func (r *fakeAchievementRepo) GetUnlockedIDs(_ context.Context, userID uint64) (map[string]*model.UserAchievement, error) {
	result := make(map[string]*model.UserAchievement)
	for id, ua := range r.unlocked[userID] {
		result[id] = ua
	}
	return result, nil
}

func (r *fakeAchievementRepo) Unlock(_ context.Context, ua *model.UserAchievement) error {
	if r.unlocked[ua.UserID] == nil {
		r.unlocked[ua.UserID] = make(map[string]*model.UserAchievement)
	}
	if _, ok := r.unlocked[ua.UserID][ua.AchievementID]; ok {
		return repository.ErrAlreadyUnlocked
	}
	r.unlocked[ua.UserID][ua.AchievementID] = ua
	return nil
}

type fakeStatsRepo struct {
	stats  map[uint64]*model.EngagementStats
	getErr error
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{stats: make(map[uint64]*model.EngagementStats)}
}

func (r *fakeStatsRepo) Get(_ context.Context, userID uint64) (*model.EngagementStats, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if st, ok := r.stats[userID]; ok {
		cp := *st
		return &cp, nil
	}
	return &model.EngagementStats{UserID: userID}, nil
}

func (r *fakeStatsRepo) AddDeltas(_ context.Context, userID uint64, scoreDelta, heartsDelta int64) error {
	st, ok := r.stats[userID]
	if !ok {
		st = &model.EngagementStats{UserID: userID}
		r.stats[userID] = st
	}
	st.TotalScore += scoreDelta
	st.TotalHearts += heartsDelta
	return nil
}

type fakeEngagementCache struct {
	counts map[string]int64
	idem   map[string]bool
}

func newFakeEngagementCache() *fakeEngagementCache {
	return &fakeEngagementCache{counts: make(map[string]int64), idem: make(map[string]bool)}
}

func (c *fakeEngagementCache) TryUserLock(_ context.Context, _ uint64, _ string) (bool, error) {
	return true, nil
}

func (c *fakeEngagementCache) UnlockUser(_ context.Context, _ uint64, _ string) {}

func (c *fakeEngagementCache) ClaimIdemKey(_ context.Context, userID uint64, key string) (bool, error) {
	full := fmt.Sprintf("%d:%s", userID, key)
	if c.idem[full] {
		return false, nil
	}
	c.idem[full] = true
	return true, nil
}

func (c *fakeEngagementCache) IncrDailyCount(_ context.Context, userID uint64, date, category string, delta int64) (int64, error) {
	key := fmt.Sprintf("%d:%s:%s", userID, date, category)
	c.counts[key] += delta
	return c.counts[key], nil
}

func (c *fakeEngagementCache) GetDailyCount(_ context.Context, userID uint64, date, category string) (int64, error) {
	return c.counts[fmt.Sprintf("%d:%s:%s", userID, date, category)], nil
}

// ---- 测试脚手架 ----

type engagementFixture struct {
	svc       EngagementService
	dailyRepo *fakeDailyRepo
	streaks   *fakeStreakRepo
	achs      *fakeAchievementRepo
	stats     *fakeStatsRepo
	cache     *fakeEngagementCache
	clk       *clock.Fixed
	cfg       *config.EngagementConfig
}

func newEngagementFixture() *engagementFixture {
	cfg := &config.EngagementConfig{
		Timezone: "UTC",
		Points: config.PointsConfig{
			Login: 5, Post: 20, FirstPostMultiplier: 2.0, Story: 10,
			Interaction: 1, Comment: 5, Reaction: 2, HeartGiven: 3, ProfileView: 1,
		},
		Caps: config.CapsConfig{
			Interaction: 100, Comment: 20, Reaction: 50, HeartGiven: 10, ProfileView: 30,
		},
		StreakMilestones: []int{3, 7, 30},
		MilestoneHearts:  5,
		Levels:           config.DefaultLevels(),
	}

	f := &engagementFixture{
		dailyRepo: newFakeDailyRepo(),
		streaks:   newFakeStreakRepo(),
		achs:      newFakeAchievementRepo(),
		stats:     newFakeStatsRepo(),
		cache:     newFakeEngagementCache(),
		clk:       &clock.Fixed{Current: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)},
		cfg:       cfg,
	}
	f.svc = NewEngagementService(cfg, f.dailyRepo, f.streaks, f.achs, f.stats, f.cache, event.NewBus(), f.clk)
	return f
}

func (f *engagementFixture) track(t *testing.T, userID uint64, kind string) *dto.TrackActionResultDTO {
	t.Helper()
	result, err := f.svc.TrackAction(context.Background(), userID, &dto.TrackActionDTO{Kind: kind})
	if err != nil {
		t.Fatalf("TrackAction(%s) error: %v", kind, err)
	}
	return result
}

func (f *engagementFixture) dailyScore(t *testing.T, userID uint64) int64 {
	t.Helper()
	row, err := f.dailyRepo.GetByUserAndDate(context.Background(), userID, f.clk.Today())
	if err != nil || row == nil {
		t.Fatalf("daily row missing: %v", err)
	}
	return row.Score
}

func hasReward(rewards []*dto.RewardDTO, rewardType string) *dto.RewardDTO {
	for _, r := range rewards {
		if r.Type == rewardType {
			return r
		}
	}
	return nil
}

// ---- 用例 ----

func TestTrackActionScoreAccumulation(t *testing.T) {
	f := newEngagementFixture()
	const uid = 7

	result := f.track(t, uid, consts.ActionLogin)
	boost := hasReward(result.Rewards, consts.RewardTypeScoreBoost)
	if boost == nil || boost.Amount != 5 {
		t.Fatalf("login reward = %+v, want score boost 5", boost)
	}

	// 首帖翻倍
	result = f.track(t, uid, consts.ActionPost)
	boost = hasReward(result.Rewards, consts.RewardTypeScoreBoost)
	if boost == nil || boost.Amount != 40 {
		t.Fatalf("first post reward = %+v, want 40", boost)
	}

	// 第二帖原价
	result = f.track(t, uid, consts.ActionPost)
	boost = hasReward(result.Rewards, consts.RewardTypeScoreBoost)
	if boost == nil || boost.Amount != 20 {
		t.Fatalf("second post reward = %+v, want 20", boost)
	}

	f.track(t, uid, consts.ActionComment)

	if got := f.dailyScore(t, uid); got != 70 {
		t.Fatalf("daily score = %d, want 70", got)
	}
	stats, _ := f.stats.Get(context.Background(), uid)
	if stats.TotalScore != 70 {
		t.Fatalf("total score = %d, want 70", stats.TotalScore)
	}
}

func TestTrackActionDailyCap(t *testing.T) {
	f := newEngagementFixture()
	const uid = 8

	for i := 0; i < 10; i++ {
		result := f.track(t, uid, consts.ActionHeartGiven)
		if boost := hasReward(result.Rewards, consts.RewardTypeScoreBoost); boost == nil || boost.Amount != 3 {
			t.Fatalf("heart_given #%d reward = %+v, want 3", i+1, boost)
		}
	}

	// 第 11 次触顶：零积分但照样留痕
	result := f.track(t, uid, consts.ActionHeartGiven)
	if boost := hasReward(result.Rewards, consts.RewardTypeScoreBoost); boost != nil {
		t.Fatalf("capped action still rewarded: %+v", boost)
	}
	if got := f.dailyScore(t, uid); got != 30 {
		t.Fatalf("daily score = %d, want 30", got)
	}

	row, _ := f.dailyRepo.GetByUserAndDate(context.Background(), uid, f.clk.Today())
	if len(row.Journal) != 11 {
		t.Fatalf("journal len = %d, want 11", len(row.Journal))
	}
	last := row.Journal[10]
	if last.Points != 0 || !last.Capped {
		t.Fatalf("capped journal entry = %+v, want points 0 capped true", last)
	}
}

func TestTrackActionBatchInteractionCapped(t *testing.T) {
	f := newEngagementFixture()
	const uid = 9

	result, err := f.svc.TrackAction(context.Background(), uid, &dto.TrackActionDTO{
		Kind:  consts.ActionInteraction,
		Value: 150,
	})
	if err != nil {
		t.Fatalf("TrackAction error: %v", err)
	}

	// 上限 100，超出的 50 条不计分
	boost := hasReward(result.Rewards, consts.RewardTypeScoreBoost)
	if boost == nil || boost.Amount != 100 {
		t.Fatalf("batch reward = %+v, want 100", boost)
	}
}

func TestStreakLifecycle(t *testing.T) {
	f := newEngagementFixture()
	const uid = 10
	ctx := context.Background()

	// 同日重复：幂等
	f.track(t, uid, consts.ActionLogin)
	result := f.track(t, uid, consts.ActionLogin)
	if boost := hasReward(result.Rewards, consts.RewardTypeScoreBoost); boost != nil {
		t.Fatalf("same-day login re-scored: %+v", boost)
	}
	st, _ := f.streaks.GetByUserAndType(ctx, uid, model.StreakTypeLogin)
	if st.CurrentLength != 1 {
		t.Fatalf("current length = %d, want 1", st.CurrentLength)
	}

	// 连续第 2、3 天，第 3 天撞里程碑
	f.clk.Advance(24 * time.Hour)
	f.track(t, uid, consts.ActionLogin)
	f.clk.Advance(24 * time.Hour)
	result = f.track(t, uid, consts.ActionLogin)
	hearts := hasReward(result.Rewards, consts.RewardTypeHearts)
	if hearts == nil || hearts.Amount != 5 {
		t.Fatalf("milestone reward = %+v, want hearts 5", hearts)
	}

	// 断签：重置为 1，最长保留
	f.clk.Advance(48 * time.Hour)
	f.track(t, uid, consts.ActionLogin)
	st, _ = f.streaks.GetByUserAndType(ctx, uid, model.StreakTypeLogin)
	if st.CurrentLength != 1 || st.LongestLength != 3 {
		t.Fatalf("after gap: current %d longest %d, want 1/3", st.CurrentLength, st.LongestLength)
	}

	// 重新冲到 3：里程碑按本轮连签再次发放
	f.clk.Advance(24 * time.Hour)
	f.track(t, uid, consts.ActionLogin)
	f.clk.Advance(24 * time.Hour)
	result = f.track(t, uid, consts.ActionLogin)
	if hearts = hasReward(result.Rewards, consts.RewardTypeHearts); hearts == nil {
		t.Fatal("milestone not re-granted after streak reset")
	}
}

func TestTrackActionIdempotencyKey(t *testing.T) {
	f := newEngagementFixture()
	const uid = 11
	ctx := context.Background()

	req := &dto.TrackActionDTO{Kind: consts.ActionComment, IdempotencyKey: "gesture-42"}
	first, err := f.svc.TrackAction(ctx, uid, req)
	if err != nil {
		t.Fatalf("first TrackAction error: %v", err)
	}
	if hasReward(first.Rewards, consts.RewardTypeScoreBoost) == nil {
		t.Fatal("first call granted nothing")
	}

	replay, err := f.svc.TrackAction(ctx, uid, req)
	if err != nil {
		t.Fatalf("replay TrackAction error: %v", err)
	}
	if len(replay.Rewards) != 0 {
		t.Fatalf("replay granted rewards: %+v", replay.Rewards)
	}
	if got := f.dailyScore(t, uid); got != 5 {
		t.Fatalf("daily score = %d, want 5", got)
	}
}

func TestAchievementUnlockIdempotent(t *testing.T) {
	f := newEngagementFixture()
	const uid = 12

	// 首帖 40 分，跨过 10 分门槛
	result := f.track(t, uid, consts.ActionPost)
	var unlock *dto.RewardDTO
	for _, r := range result.Rewards {
		if r.Type == consts.RewardTypeAchievement && r.Reason == "first_steps" {
			unlock = r
		}
	}
	if unlock == nil {
		t.Fatalf("first_steps not unlocked in %+v", result.Rewards)
	}

	// 分数继续涨，不再重复发
	result = f.track(t, uid, consts.ActionComment)
	for _, r := range result.Rewards {
		if r.Type == consts.RewardTypeAchievement && r.Reason == "first_steps" {
			t.Fatal("first_steps re-granted")
		}
	}
}

func TestTrackActionUnknownKind(t *testing.T) {
	f := newEngagementFixture()

	_, err := f.svc.TrackAction(context.Background(), 1, &dto.TrackActionDTO{Kind: "teleport"})
	if !errors.Is(err, ErrActionUnknown) {
		t.Fatalf("err = %v, want ErrActionUnknown", err)
	}
}

func TestTrackActionVersionConflictDropped(t *testing.T) {
	f := newEngagementFixture()
	f.dailyRepo.failUpdate = true

	result, err := f.svc.TrackAction(context.Background(), 13, &dto.TrackActionDTO{Kind: consts.ActionStory})
	if err != nil {
		t.Fatalf("TrackAction error: %v", err)
	}
	if len(result.Rewards) != 0 {
		t.Fatalf("dropped action granted rewards: %+v", result.Rewards)
	}
	stats, _ := f.stats.Get(context.Background(), 13)
	if stats.TotalScore != 0 {
		t.Fatalf("total score = %d after dropped action", stats.TotalScore)
	}
}

func TestSummaryHappyPath(t *testing.T) {
	f := newEngagementFixture()
	const uid = 14

	f.track(t, uid, consts.ActionLogin)
	f.track(t, uid, consts.ActionPost)

	summary, err := f.svc.GetSummary(context.Background(), uid)
	if err != nil {
		t.Fatalf("GetSummary error: %v", err)
	}
	if summary.Degraded {
		t.Fatal("summary degraded on healthy reads")
	}
	if summary.DailyScore != 45 || summary.TotalScore != 45 {
		t.Fatalf("summary scores = %d/%d, want 45/45", summary.DailyScore, summary.TotalScore)
	}
	if len(summary.Streaks) != 2 {
		t.Fatalf("streak count = %d, want 2", len(summary.Streaks))
	}
	if summary.NextThreshold == nil {
		t.Fatal("next threshold missing")
	}
}

func TestSummaryDegradedOnPartialFailure(t *testing.T) {
	f := newEngagementFixture()
	const uid = 15

	f.track(t, uid, consts.ActionLogin)
	f.stats.getErr = errors.New("connection refused")

	summary, err := f.svc.GetSummary(context.Background(), uid)
	if err != nil {
		t.Fatalf("GetSummary must not hard-fail: %v", err)
	}
	if !summary.Degraded {
		t.Fatal("degraded flag not set")
	}
	if summary.DailyScore != 5 {
		t.Fatalf("daily score = %d, want 5 despite stats failure", summary.DailyScore)
	}
	if summary.NextThreshold != nil {
		t.Fatal("next threshold computed from failed stats read")
	}
}

func TestSummaryNextThreshold(t *testing.T) {
	f := newEngagementFixture()
	const uid = 16
	ctx := context.Background()

	_ = f.stats.AddDeltas(ctx, uid, 150, 0)
	_ = f.achs.Unlock(ctx, &model.UserAchievement{UserID: uid, AchievementID: "first_steps"})
	_ = f.achs.Unlock(ctx, &model.UserAchievement{UserID: uid, AchievementID: "rising_star"})

	summary, err := f.svc.GetSummary(ctx, uid)
	if err != nil {
		t.Fatalf("GetSummary error: %v", err)
	}
	threshold := summary.NextThreshold
	if threshold == nil {
		t.Fatal("next threshold missing")
	}
	// 150 分的下一个目标是 500 分的下一档位，而不是 1000 分的成就
	if threshold.Target != 500 {
		t.Fatalf("threshold target = %d, want 500", threshold.Target)
	}
	if threshold.Current != 150 {
		t.Fatalf("threshold current = %d, want 150", threshold.Current)
	}
	if threshold.Progress != 30 {
		t.Fatalf("threshold progress = %v, want 30", threshold.Progress)
	}
}

func TestGetUserLevelProgress(t *testing.T) {
	f := newEngagementFixture()
	const uid = 17
	ctx := context.Background()

	_ = f.stats.AddDeltas(ctx, uid, 150, 0)

	level, err := f.svc.GetUserLevel(ctx, uid)
	if err != nil {
		t.Fatalf("GetUserLevel error: %v", err)
	}
	if level.Level.Name != "常客" {
		t.Fatalf("level = %s, want 常客", level.Level.Name)
	}
	// (150-100)/(500-100) = 12.5%
	if level.Progress != 12.5 {
		t.Fatalf("progress = %v, want 12.5", level.Progress)
	}
}
