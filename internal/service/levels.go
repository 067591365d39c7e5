package service

import (
	"Quad/internal/api/config"
)

// levelFor 按分值查档位。档位在启动时已校验过无缝覆盖 [0, ∞)，
// 任意非负分值必有唯一归属
func levelFor(tiers []config.LevelTier, score int64) *config.LevelTier {
	if score < 0 {
		score = 0
	}
	for i := range tiers {
		t := &tiers[i]
		if score >= t.MinScore && (t.MaxScore == nil || score < *t.MaxScore) {
			return t
		}
	}
	// 校验过的配置不会走到这里，兜底返回最高档
	return &tiers[len(tiers)-1]
}

// levelProgress 当前档位内的进度百分比，最高档恒为 100
func levelProgress(tiers []config.LevelTier, score int64) float64 {
	tier := levelFor(tiers, score)
	if tier.MaxScore == nil {
		return 100
	}
	span := *tier.MaxScore - tier.MinScore
	if span <= 0 {
		return 100
	}
	progress := float64(score-tier.MinScore) / float64(span) * 100
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
