package scoring

import (
	"Quad/internal/model"
	"math"
	"sort"
	"time"
)

// Weights 排序三因子的权重与衰减参数，属于产品可调配置
type Weights struct {
	Recency          float64
	Affinity         float64
	Engagement       float64
	RecencyHalfLife  float64 // 小时
	AffinityBaseline float64
}

// 各互动类型对亲和度的贡献
var interactionWeights = map[string]float64{
	model.InteractionView:    1,
	model.InteractionLike:    3,
	model.InteractionComment: 5,
	model.InteractionShare:   8,
}

// 亲和度按 7 天半衰期衰减，久未互动的作者权重自然回落
const affinityHalfLifeHours = 7 * 24

// InteractionWeight 互动类型对亲和度的贡献，未知类型为 0
func InteractionWeight(kind string) float64 {
	return interactionWeights[kind]
}

// RecencyScore 发帖时间的指数衰减得分，落在 (0, 1]
func RecencyScore(createdAt, now time.Time, halfLifeHours float64) float64 {
	if halfLifeHours <= 0 {
		halfLifeHours = 24
	}
	ageHours := now.Sub(createdAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}
	return math.Exp2(-ageHours / halfLifeHours)
}

// EngagementScore 帖子自身互动量的饱和得分，对数压制爆款，落在 [0, 1)
func EngagementScore(reactions, comments, shares int) float64 {
	weighted := float64(reactions)*3 + float64(comments)*5 + float64(shares)*8
	if weighted < 0 {
		weighted = 0
	}
	l := math.Log1p(weighted)
	return l / (l + 3)
}

// BuildAffinity 从互动流水聚合出 作者ID -> 原始亲和度。
// 每条流水按互动类型加权并按时间衰减，结果只是流水的函数，可随时重算
func BuildAffinity(records []*model.InteractionRecord, now time.Time) map[uint64]float64 {
	affinity := make(map[uint64]float64)
	for _, r := range records {
		w, ok := interactionWeights[r.Kind]
		if !ok {
			continue
		}
		ageHours := now.Sub(r.CreatedAt).Hours()
		if ageHours < 0 {
			ageHours = 0
		}
		affinity[r.AuthorID] += w * math.Exp2(-ageHours/affinityHalfLifeHours)
	}
	return affinity
}

// AffinityScore 将原始亲和度归一到 [baseline, 1)。
// 无历史的作者给中性基线，保证冷启动帖不被压死
func AffinityScore(affinity map[uint64]float64, authorID uint64, baseline float64) float64 {
	raw, ok := affinity[authorID]
	if !ok || raw <= 0 {
		return baseline
	}
	score := raw / (raw + 10)
	if score < baseline {
		return baseline
	}
	return score
}

// Composite 三因子加权和
func Composite(w Weights, recency, affinity, engagement float64) float64 {
	return w.Recency*recency + w.Affinity*affinity + w.Engagement*engagement
}

// RankPosts 按综合得分降序返回新切片，不修改入参。
// 平分时按 created_at 降序、再按 ID 降序，保证完全确定性
func RankPosts(posts []*model.Post, affinity map[uint64]float64, w Weights, now time.Time) []*model.Post {
	type scoredPost struct {
		post  *model.Post
		score float64
	}

	scored := make([]scoredPost, len(posts))
	for i, p := range posts {
		recency := RecencyScore(p.CreatedAt, now, w.RecencyHalfLife)
		aff := AffinityScore(affinity, p.UserID, w.AffinityBaseline)
		engagement := EngagementScore(p.ReactionsCount, p.CommentsCount, p.SharesCount)
		scored[i] = scoredPost{post: p, score: Composite(w, recency, aff, engagement)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return lessChronological(scored[j].post, scored[i].post)
	})

	result := make([]*model.Post, len(scored))
	for i, s := range scored {
		result[i] = s.post
	}
	return result
}

// SortChronological 纯时间序兜底：created_at 降序，ID 降序打破平局
func SortChronological(posts []*model.Post) []*model.Post {
	result := make([]*model.Post, len(posts))
	copy(result, posts)
	sort.SliceStable(result, func(i, j int) bool {
		return lessChronological(result[j], result[i])
	})
	return result
}

// lessChronological a 是否早于 b (时间相同比 ID)
func lessChronological(a, b *model.Post) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
