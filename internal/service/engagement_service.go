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
	log "log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// 乐观锁写回重试次数。用户锁已保证串行，冲突只该来自旁路写入
const maxVersionRetries = 3

type EngagementService interface {
	// TrackAction 结算一次活跃度动作，返回本次发放的全部奖励
	TrackAction(ctx context.Context, userID uint64, actionDTO *dto.TrackActionDTO) (*dto.TrackActionResultDTO, error)
	// GetSummary 活跃度总览。读失败只置降级标记，永不硬失败
	GetSummary(ctx context.Context, userID uint64) (*dto.SummaryDTO, error)
	GetStreaks(ctx context.Context, userID uint64) ([]*dto.StreakDTO, error)
	GetAchievements(ctx context.Context, userID uint64) ([]*dto.AchievementDTO, error)
	ListLevels() []*dto.LevelDTO
	GetUserLevel(ctx context.Context, userID uint64) (*dto.UserLevelDTO, error)
}

type engagementServiceImpl struct {
	cfg             *config.EngagementConfig
	dailyRepo       repository.DailyEngagementRepo
	streakRepo      repository.StreakRepo
	achievementRepo repository.AchievementRepo
	statsRepo       repository.EngagementStatsRepo
	cache           EngagementCache
	bus             *event.Bus
	clk             clock.Clock
}

func NewEngagementService(cfg *config.EngagementConfig, dailyRepo repository.DailyEngagementRepo,
	streakRepo repository.StreakRepo, achievementRepo repository.AchievementRepo,
	statsRepo repository.EngagementStatsRepo, cache EngagementCache, bus *event.Bus, clk clock.Clock) EngagementService {
	return &engagementServiceImpl{
		cfg:             cfg,
		dailyRepo:       dailyRepo,
		streakRepo:      streakRepo,
		achievementRepo: achievementRepo,
		statsRepo:       statsRepo,
		cache:           cache,
		bus:             bus,
		clk:             clk,
	}
}

// actionRule 动作的计分规则
type actionRule struct {
	points     int64  // 单位积分
	capLimit   int64  // 每日计数上限，0 表示不限
	streakType string // 关联的连签类型
	batched    bool   // Value 按条数计
	firstBonus bool   // 当日首次有加成
}

func (s *engagementServiceImpl) ruleFor(kind string) (actionRule, bool) {
	points, caps := &s.cfg.Points, &s.cfg.Caps
	switch kind {
	case consts.ActionLogin:
		return actionRule{points: points.Login, streakType: model.StreakTypeLogin}, true
	case consts.ActionPost:
		return actionRule{points: points.Post, streakType: model.StreakTypePost, firstBonus: true}, true
	case consts.ActionStory:
		return actionRule{points: points.Story}, true
	case consts.ActionInteraction:
		return actionRule{points: points.Interaction, capLimit: caps.Interaction, batched: true}, true
	case consts.ActionComment:
		return actionRule{points: points.Comment, capLimit: caps.Comment}, true
	case consts.ActionReaction:
		return actionRule{points: points.Reaction, capLimit: caps.Reaction}, true
	case consts.ActionHeartGiven:
		return actionRule{points: points.HeartGiven, capLimit: caps.HeartGiven}, true
	case consts.ActionProfileView:
		return actionRule{points: points.ProfileView, capLimit: caps.ProfileView}, true
	default:
		return actionRule{}, false
	}
}

func (s *engagementServiceImpl) TrackAction(ctx context.Context, userID uint64, actionDTO *dto.TrackActionDTO) (*dto.TrackActionResultDTO, error) {
	rule, known := s.ruleFor(actionDTO.Kind)
	if !known {
		return nil, ErrActionUnknown
	}

	// 幂等键已被占用说明是网络重试，静默返回空奖励
	if actionDTO.IdempotencyKey != "" {
		claimed, err := s.cache.ClaimIdemKey(ctx, userID, actionDTO.IdempotencyKey)
		if err != nil {
			log.WarnContext(ctx, "claim idem key failed", "err", err, "user_id", userID)
		} else if !claimed {
			return &dto.TrackActionResultDTO{Rewards: []*dto.RewardDTO{}}, nil
		}
	}

	lockToken := uuid.NewString()
	locked, err := s.cache.TryUserLock(ctx, userID, lockToken)
	if err != nil {
		log.ErrorContext(ctx, "acquire engagement lock failed", "err", err, "user_id", userID)
		return nil, UnExpectedError
	}
	if !locked {
		return nil, ErrEngagementBusy
	}
	defer s.cache.UnlockUser(ctx, userID, lockToken)

	now := s.clk.Now()
	today := s.clk.Today()

	var milestones []int
	extended := false
	if rule.streakType != "" {
		extended, milestones, err = s.advanceStreak(ctx, userID, rule.streakType, today)
		if err != nil {
			log.ErrorContext(ctx, "advance streak failed", "err", err, "user_id", userID, "streak_type", rule.streakType)
			return nil, UnExpectedError
		}
	}

	units := int64(1)
	if rule.batched {
		units = actionDTO.Value
		if units <= 0 {
			units = 1
		}
	}
	// 当日重复登录不重复计分，连签判定已保证幂等
	if actionDTO.Kind == consts.ActionLogin && !extended {
		units = 0
	}

	capped := false
	if units > 0 && rule.capLimit > 0 {
		count, capErr := s.cache.IncrDailyCount(ctx, userID, today.Format(consts.DateLayout), actionDTO.Kind, units)
		if capErr != nil {
			// 防刷计数不可用时放行，可用性优先
			log.WarnContext(ctx, "incr daily cap failed", "err", capErr, "user_id", userID)
		} else if over := count - rule.capLimit; over > 0 {
			capped = true
			if over >= units {
				units = 0
			} else {
				units -= over
			}
		}
	}

	hearts := int64(len(milestones)) * s.cfg.MilestoneHearts

	points, ok, err := s.settleDaily(ctx, userID, today, now, actionDTO, rule, units, capped, hearts)
	if err != nil {
		return nil, err
	}
	if !ok {
		// 重试耗尽，按规格丢弃本次动作
		log.WarnContext(ctx, "daily engagement version conflict, action dropped",
			"user_id", userID, "kind", actionDTO.Kind)
		return &dto.TrackActionResultDTO{Rewards: []*dto.RewardDTO{}}, nil
	}

	if points > 0 || hearts > 0 {
		if err := s.statsRepo.AddDeltas(ctx, userID, points, hearts); err != nil {
			log.ErrorContext(ctx, "add engagement stats failed", "err", err, "user_id", userID)
		}
	}

	rewards := make([]*dto.RewardDTO, 0, 4)
	if points > 0 {
		rewards = append(rewards, &dto.RewardDTO{Type: consts.RewardTypeScoreBoost, Amount: points, Reason: actionDTO.Kind})
	}
	for _, m := range milestones {
		rewards = append(rewards, &dto.RewardDTO{
			Type:   consts.RewardTypeHearts,
			Amount: s.cfg.MilestoneHearts,
			Reason: fmt.Sprintf("streak_milestone_%d", m),
		})
	}
	rewards = append(rewards, s.evaluateAchievements(ctx, userID, now)...)

	for _, r := range rewards {
		s.bus.Publish(&event.RewardEvent{
			UserID:    userID,
			Type:      r.Type,
			Amount:    r.Amount,
			Reason:    r.Reason,
			CreatedAt: now,
		})
	}
	return &dto.TrackActionResultDTO{Rewards: rewards}, nil
}

// settleDaily 读改写当日聚合行，乐观锁冲突时有限重试。
// 返回实际入账积分；第二个返回值为 false 表示重试耗尽
func (s *engagementServiceImpl) settleDaily(ctx context.Context, userID uint64, today, now time.Time,
	actionDTO *dto.TrackActionDTO, rule actionRule, units int64, capped bool, hearts int64) (int64, bool, error) {
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		row, err := s.dailyRepo.GetOrCreate(ctx, userID, today)
		if err != nil {
			log.ErrorContext(ctx, "get daily engagement failed", "err", err, "user_id", userID)
			return 0, false, UnExpectedError
		}

		points := rule.points * units
		if rule.firstBonus && units > 0 && !journalHas(row.Journal, actionDTO.Kind) {
			points = int64(math.Round(float64(points) * s.cfg.Points.FirstPostMultiplier))
		}

		// 被限流的动作也留痕，只是积分为零
		row.Score += points
		row.HeartsEarned += hearts
		row.Journal = append(row.Journal, model.JournalEntry{
			Kind:    actionDTO.Kind,
			Value:   units,
			Points:  points,
			Capped:  capped,
			TrackAt: now,
		})

		ok, err := s.dailyRepo.UpdateWithVersion(ctx, row)
		if err != nil {
			log.ErrorContext(ctx, "update daily engagement failed", "err", err, "user_id", userID)
			return 0, false, UnExpectedError
		}
		if ok {
			return points, true, nil
		}
	}
	return 0, false, nil
}

// advanceStreak 推进连签。同日幂等，连续日 +1，断签重置为 1。
// 返回是否推进及本次跨过的里程碑
func (s *engagementServiceImpl) advanceStreak(ctx context.Context, userID uint64, streakType string, today time.Time) (bool, []int, error) {
	streak, err := s.streakRepo.GetByUserAndType(ctx, userID, streakType)
	if err != nil {
		return false, nil, err
	}
	if streak == nil {
		streak = &model.Streak{UserID: userID, StreakType: streakType}
	}

	switch {
	case sameDay(streak.LastExtendedAt, today):
		return false, nil, nil
	case sameDay(streak.LastExtendedAt.AddDate(0, 0, 1), today):
		streak.CurrentLength++
	default:
		streak.CurrentLength = 1
	}
	if streak.CurrentLength > streak.LongestLength {
		streak.LongestLength = streak.CurrentLength
	}
	streak.LastExtendedAt = today

	if err := s.streakRepo.SaveOrUpdate(ctx, streak); err != nil {
		return false, nil, err
	}

	// 里程碑按本轮连签计，断签后重新冲到同一里程碑会再次发放
	var crossed []int
	for _, m := range s.cfg.StreakMilestones {
		if m == streak.CurrentLength {
			crossed = append(crossed, m)
		}
	}
	return true, crossed, nil
}

// evaluateAchievements 对照最新累计状态评估终身成就。
// 任何一步失败只记日志，不影响动作结算
func (s *engagementServiceImpl) evaluateAchievements(ctx context.Context, userID uint64, now time.Time) []*dto.RewardDTO {
	stats, err := s.statsRepo.Get(ctx, userID)
	if err != nil {
		log.WarnContext(ctx, "get engagement stats failed", "err", err, "user_id", userID)
		return nil
	}
	streaks, err := s.streakRepo.GetByUser(ctx, userID)
	if err != nil {
		log.WarnContext(ctx, "get streaks failed", "err", err, "user_id", userID)
		return nil
	}
	unlocked, err := s.achievementRepo.GetUnlockedIDs(ctx, userID)
	if err != nil {
		log.WarnContext(ctx, "get unlocked achievements failed", "err", err, "user_id", userID)
		return nil
	}

	state := &engagementState{
		TotalScore:  stats.TotalScore,
		TotalHearts: stats.TotalHearts,
		Streaks:     make(map[string]*model.Streak, len(streaks)),
	}
	for _, st := range streaks {
		state.Streaks[st.StreakType] = st
	}

	var rewards []*dto.RewardDTO
	for _, def := range achievementCatalog {
		if _, done := unlocked[def.ID]; done {
			continue
		}
		if !def.Satisfied(state) {
			continue
		}
		err := s.achievementRepo.Unlock(ctx, &model.UserAchievement{
			UserID:        userID,
			AchievementID: def.ID,
			UnlockedAt:    now,
		})
		if errors.Is(err, repository.ErrAlreadyUnlocked) {
			continue
		}
		if err != nil {
			log.WarnContext(ctx, "unlock achievement failed", "err", err, "user_id", userID, "achievement", def.ID)
			continue
		}
		rewards = append(rewards, &dto.RewardDTO{Type: consts.RewardTypeAchievement, Amount: 1, Reason: def.ID})
	}
	return rewards
}

func (s *engagementServiceImpl) GetSummary(ctx context.Context, userID uint64) (*dto.SummaryDTO, error) {
	today := s.clk.Today()

	var (
		daily    *model.DailyEngagement
		stats    *model.EngagementStats
		streaks  []*model.Streak
		unlocked map[string]*model.UserAchievement

		dailyErr, statsErr, streakErr, achErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		daily, dailyErr = s.dailyRepo.GetByUserAndDate(gctx, userID, today)
		return nil
	})
	g.Go(func() error {
		stats, statsErr = s.statsRepo.Get(gctx, userID)
		return nil
	})
	g.Go(func() error {
		streaks, streakErr = s.streakRepo.GetByUser(gctx, userID)
		return nil
	})
	g.Go(func() error {
		unlocked, achErr = s.achievementRepo.GetUnlockedIDs(gctx, userID)
		return nil
	})
	_ = g.Wait()

	for _, err := range []error{dailyErr, statsErr, streakErr, achErr} {
		if err != nil {
			log.WarnContext(ctx, "engagement summary partial read failed", "err", err, "user_id", userID)
		}
	}

	summary := &dto.SummaryDTO{
		Streaks:  make([]*dto.StreakDTO, 0, len(streaks)),
		Degraded: dailyErr != nil || statsErr != nil || streakErr != nil || achErr != nil,
	}
	if daily != nil {
		summary.DailyScore = daily.Score
		summary.HeartsEarnedToday = daily.HeartsEarned
	}
	if stats != nil {
		summary.TotalScore = stats.TotalScore
		summary.TotalHearts = stats.TotalHearts
		if statsErr == nil && achErr == nil {
			summary.NextThreshold = s.nextThreshold(stats.TotalScore, unlocked)
		}
	}
	for _, st := range streaks {
		summary.Streaks = append(summary.Streaks, streakToDTO(st))
	}
	return summary, nil
}

// nextThreshold 距离最近的下一个积分目标：下一等级档位或未解锁的积分型成就
func (s *engagementServiceImpl) nextThreshold(score int64, unlocked map[string]*model.UserAchievement) *dto.ThresholdDTO {
	var best *dto.ThresholdDTO
	consider := func(name string, target int64) {
		if target <= score {
			return
		}
		if best != nil && target >= best.Target {
			return
		}
		best = &dto.ThresholdDTO{
			Name:     name,
			Target:   target,
			Current:  score,
			Progress: float64(score) / float64(target) * 100,
		}
	}

	tier := levelFor(s.cfg.Levels, score)
	if tier.MaxScore != nil {
		for i := range s.cfg.Levels {
			if s.cfg.Levels[i].MinScore == *tier.MaxScore {
				consider(s.cfg.Levels[i].Name, *tier.MaxScore)
			}
		}
	}
	for _, def := range achievementCatalog {
		if def.Target <= 0 {
			continue
		}
		if _, done := unlocked[def.ID]; done {
			continue
		}
		consider(def.Name, def.Target)
	}
	return best
}

func (s *engagementServiceImpl) GetStreaks(ctx context.Context, userID uint64) ([]*dto.StreakDTO, error) {
	streaks, err := s.streakRepo.GetByUser(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "get streaks failed", "err", err, "user_id", userID)
		return nil, UnExpectedError
	}
	result := make([]*dto.StreakDTO, 0, len(streaks))
	for _, st := range streaks {
		result = append(result, streakToDTO(st))
	}
	return result, nil
}

func (s *engagementServiceImpl) GetAchievements(ctx context.Context, userID uint64) ([]*dto.AchievementDTO, error) {
	unlocked, err := s.achievementRepo.GetUnlockedIDs(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "get unlocked achievements failed", "err", err, "user_id", userID)
		return nil, UnExpectedError
	}
	result := make([]*dto.AchievementDTO, 0, len(achievementCatalog))
	for _, def := range achievementCatalog {
		achievementDTO := &dto.AchievementDTO{
			ID:   def.ID,
			Name: def.Name,
			Desc: def.Desc,
		}
		if ua, done := unlocked[def.ID]; done {
			achievementDTO.Unlocked = true
			achievementDTO.UnlockedAt = ua.UnlockedAt.Format(time.RFC3339)
		}
		result = append(result, achievementDTO)
	}
	return result, nil
}

func (s *engagementServiceImpl) ListLevels() []*dto.LevelDTO {
	result := make([]*dto.LevelDTO, 0, len(s.cfg.Levels))
	for i := range s.cfg.Levels {
		tier := &s.cfg.Levels[i]
		result = append(result, &dto.LevelDTO{
			Name:     tier.Name,
			MinScore: tier.MinScore,
			MaxScore: tier.MaxScore,
		})
	}
	return result
}

func (s *engagementServiceImpl) GetUserLevel(ctx context.Context, userID uint64) (*dto.UserLevelDTO, error) {
	stats, err := s.statsRepo.Get(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "get engagement stats failed", "err", err, "user_id", userID)
		return nil, UnExpectedError
	}
	tier := levelFor(s.cfg.Levels, stats.TotalScore)
	return &dto.UserLevelDTO{
		Level: &dto.LevelDTO{
			Name:     tier.Name,
			MinScore: tier.MinScore,
			MaxScore: tier.MaxScore,
		},
		Score:    stats.TotalScore,
		Progress: levelProgress(s.cfg.Levels, stats.TotalScore),
	}, nil
}

func streakToDTO(st *model.Streak) *dto.StreakDTO {
	return &dto.StreakDTO{
		StreakType:     st.StreakType,
		CurrentLength:  st.CurrentLength,
		LongestLength:  st.LongestLength,
		LastExtendedAt: st.LastExtendedAt.Format(consts.DateLayout),
	}
}

func journalHas(journal model.ActionJournal, kind string) bool {
	for _, entry := range journal {
		if entry.Kind == kind {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	return a.Format(consts.DateLayout) == b.Format(consts.DateLayout)
}
