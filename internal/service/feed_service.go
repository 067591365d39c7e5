package service

import (
	"Quad/internal/api/config"
	"Quad/internal/api/dto"
	"Quad/internal/model"
	"Quad/internal/pkg/clock"
	"Quad/internal/pkg/scoring"
	"Quad/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/jinzhu/copier"
)

// 互动历史回看的流水上限，超出部分对亲和度贡献已可忽略
const maxHistoryRecords = 1000

type FeedService interface {
	// GetFeed 个性化信息流。userID 为 0 表示匿名访客，走纯时间序
	GetFeed(ctx context.Context, userID uint64) (*dto.FeedDTO, error)
	// TrackInteraction 互动上报。只影响后续排序，本身不发积分
	TrackInteraction(ctx context.Context, userID uint64, trackDTO *dto.TrackInteractionDTO) error
}

type feedServiceImpl struct {
	feedConfig      *config.FeedConfig
	postRepo        repository.PostRepo
	interactionRepo repository.InteractionRepo
	hideRepo        repository.UserHideRepo
	affinityRepo    repository.AffinityRepo
	cache           FeedCache
	clk             clock.Clock
}

func NewFeedService(feedConfig *config.FeedConfig, postRepo repository.PostRepo, interactionRepo repository.InteractionRepo,
	hideRepo repository.UserHideRepo, affinityRepo repository.AffinityRepo, cache FeedCache, clk clock.Clock) FeedService {
	return &feedServiceImpl{
		feedConfig:      feedConfig,
		postRepo:        postRepo,
		interactionRepo: interactionRepo,
		hideRepo:        hideRepo,
		affinityRepo:    affinityRepo,
		cache:           cache,
		clk:             clk,
	}
}

func (s *feedServiceImpl) GetFeed(ctx context.Context, userID uint64) (*dto.FeedDTO, error) {
	now := s.clk.Now()

	posts, err := s.postRepo.GetFeedCandidates(ctx, userID, s.feedConfig.CandidateLimit)
	if err != nil {
		log.ErrorContext(ctx, "get feed candidates failed", "err", err, "user_id", userID)
		return nil, UnExpectedError
	}

	if userID == 0 {
		return buildFeedDTO(scoring.SortChronological(posts), false), nil
	}

	posts = s.filterHidden(ctx, userID, posts)

	affinity, ok := s.loadAffinity(ctx, userID, now)
	if !ok {
		// 信号读取失败，降级纯时间序，宁可不个性化也不空手而归
		return buildFeedDTO(scoring.SortChronological(posts), false), nil
	}

	weights := scoring.Weights{
		Recency:          s.feedConfig.RecencyWeight,
		Affinity:         s.feedConfig.AffinityWeight,
		Engagement:       s.feedConfig.EngagementWeight,
		RecencyHalfLife:  s.feedConfig.RecencyHalfLife,
		AffinityBaseline: s.feedConfig.AffinityBaseline,
	}
	return buildFeedDTO(scoring.RankPosts(posts, affinity, weights, now), true), nil
}

// filterHidden 过滤用户屏蔽的帖子和作者。读失败只降级不报错
func (s *feedServiceImpl) filterHidden(ctx context.Context, userID uint64, posts []*model.Post) []*model.Post {
	hiddenPosts, err := s.hideRepo.GetHiddenIDs(ctx, userID, model.HideTargetPost)
	if err != nil {
		log.WarnContext(ctx, "get hidden posts failed", "err", err, "user_id", userID)
	}
	hiddenAuthors, err := s.hideRepo.GetHiddenIDs(ctx, userID, model.HideTargetAuthor)
	if err != nil {
		log.WarnContext(ctx, "get hidden authors failed", "err", err, "user_id", userID)
	}
	if len(hiddenPosts) == 0 && len(hiddenAuthors) == 0 {
		return posts
	}

	postSet := make(map[uint64]struct{}, len(hiddenPosts))
	for _, id := range hiddenPosts {
		postSet[id] = struct{}{}
	}
	authorSet := make(map[uint64]struct{}, len(hiddenAuthors))
	for _, id := range hiddenAuthors {
		authorSet[id] = struct{}{}
	}

	filtered := make([]*model.Post, 0, len(posts))
	for _, p := range posts {
		if _, hidden := postSet[p.ID]; hidden {
			continue
		}
		if _, hidden := authorSet[p.UserID]; hidden {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// loadAffinity 拉取亲和度信号。首选在限时内从互动流水现算，
// 超时或失败退一步读快照，两头都失败返回 false 触发时间序兜底
func (s *feedServiceImpl) loadAffinity(ctx context.Context, userID uint64, now time.Time) (map[uint64]float64, bool) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(s.feedConfig.AffinityTimeout)*time.Millisecond)
	defer cancel()

	since := now.AddDate(0, 0, -s.feedConfig.HistoryDays)
	history, err := s.interactionRepo.GetUserHistory(timeoutCtx, userID, since, maxHistoryRecords)
	if err == nil {
		return scoring.BuildAffinity(history, now), true
	}
	log.WarnContext(ctx, "get interaction history failed, fallback to snapshot", "err", err, "user_id", userID)

	snapshot, err := s.affinityRepo.GetSnapshot(ctx, userID)
	if err != nil || snapshot == nil {
		if err != nil {
			log.WarnContext(ctx, "get affinity snapshot failed", "err", err, "user_id", userID)
		}
		return nil, false
	}

	affinity := make(map[uint64]float64, len(snapshot.Affinities))
	for authorStr, score := range snapshot.Affinities {
		authorID, parseErr := strconv.ParseUint(authorStr, 10, 64)
		if parseErr != nil {
			continue
		}
		affinity[authorID] = score
	}
	return affinity, true
}

func (s *feedServiceImpl) TrackInteraction(ctx context.Context, userID uint64, trackDTO *dto.TrackInteractionDTO) error {
	post, err := s.postRepo.GetPostByID(ctx, trackDTO.PostID)
	if err != nil {
		log.ErrorContext(ctx, "get post failed", "err", err, "post_id", trackDTO.PostID)
		return UnExpectedError
	}
	if post == nil {
		return ErrPostNotFound
	}

	record := &model.InteractionRecord{
		UserID:          userID,
		PostID:          post.ID,
		AuthorID:        post.UserID,
		Kind:            trackDTO.Kind,
		DurationSeconds: trackDTO.DurationSeconds,
		CreatedAt:       s.clk.Now(),
	}
	if err := s.interactionRepo.CreateRecord(ctx, record); err != nil {
		log.ErrorContext(ctx, "create interaction record failed", "err", err, "user_id", userID)
		return UnExpectedError
	}

	// 旁路维护亲和度 ZSET 与脏标记，缓存失败不影响主流程
	if delta := scoring.InteractionWeight(trackDTO.Kind); delta > 0 {
		if err := s.cache.IncrAffinity(ctx, userID, post.UserID, delta); err != nil {
			log.WarnContext(ctx, "incr affinity failed", "err", err, "user_id", userID)
		}
		if err := s.cache.MarkAffinityDirty(ctx, userID); err != nil {
			log.WarnContext(ctx, "mark affinity dirty failed", "err", err, "user_id", userID)
		}
	}
	return nil
}

func buildFeedDTO(posts []*model.Post, personalized bool) *dto.FeedDTO {
	postDTOs := make([]*dto.PostDTO, 0, len(posts))
	for _, p := range posts {
		postDTO := &dto.PostDTO{}
		_ = copier.Copy(postDTO, p)
		postDTO.CreatedAt = p.CreatedAt.Format(time.RFC3339)
		postDTOs = append(postDTOs, postDTO)
	}
	return &dto.FeedDTO{
		Posts:        postDTOs,
		Personalized: personalized,
	}
}
