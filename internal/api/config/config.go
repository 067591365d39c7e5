package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(cfg.Engagement.Levels) == 0 {
		cfg.Engagement.Levels = DefaultLevels()
	}
	if err := ValidateLevels(cfg.Engagement.Levels); err != nil {
		return fmt.Errorf("invalid engagement levels: %w", err)
	}

	Cfg = &cfg

	return nil
}

// setDefaults 排序与积分参数的缺省值，配置文件可覆盖
func setDefaults() {
	viper.SetDefault("database.slow_threshold_ms", 200)

	viper.SetDefault("feed.candidate_limit", 200)
	viper.SetDefault("feed.history_days", 30)
	viper.SetDefault("feed.affinity_timeout_ms", 3000)
	viper.SetDefault("feed.recency_weight", 0.5)
	viper.SetDefault("feed.affinity_weight", 0.3)
	viper.SetDefault("feed.engagement_weight", 0.2)
	viper.SetDefault("feed.recency_half_life_hours", 24.0)
	viper.SetDefault("feed.affinity_baseline", 0.1)

	viper.SetDefault("engagement.timezone", "Asia/Shanghai")
	viper.SetDefault("engagement.points.login", 5)
	viper.SetDefault("engagement.points.post", 20)
	viper.SetDefault("engagement.points.first_post_multiplier", 2.0)
	viper.SetDefault("engagement.points.story", 10)
	viper.SetDefault("engagement.points.interaction", 1)
	viper.SetDefault("engagement.points.comment", 5)
	viper.SetDefault("engagement.points.reaction", 2)
	viper.SetDefault("engagement.points.heart_given", 3)
	viper.SetDefault("engagement.points.profile_view", 1)
	viper.SetDefault("engagement.caps.interaction", 100)
	viper.SetDefault("engagement.caps.comment", 20)
	viper.SetDefault("engagement.caps.reaction", 50)
	viper.SetDefault("engagement.caps.heart_given", 10)
	viper.SetDefault("engagement.caps.profile_view", 30)
	viper.SetDefault("engagement.streak_milestones", []int{3, 7, 30})
	viper.SetDefault("engagement.milestone_hearts", 5)

	viper.SetDefault("kafka.consumer.session_timeout", 10)
	viper.SetDefault("kafka.consumer.heartbeat_interval", 3)
	viper.SetDefault("kafka.consumer.rebalance_timeout", 60)
	viper.SetDefault("kafka.consumer.max_processing_time", 1)
}

// ValidateLevels 校验等级档位对 [0, +∞) 的划分无缝隙、无重叠
func ValidateLevels(levels []LevelTier) error {
	if len(levels) == 0 {
		return errors.New("至少需要一个等级档位")
	}
	if levels[0].MinScore != 0 {
		return errors.New("首个等级档位必须从 0 分开始")
	}
	for i, tier := range levels {
		last := i == len(levels)-1
		if last {
			if tier.MaxScore != nil {
				return errors.New("最高等级档位不能设置上限")
			}
			continue
		}
		if tier.MaxScore == nil {
			return fmt.Errorf("等级 [%s] 缺少上限", tier.Name)
		}
		if *tier.MaxScore <= tier.MinScore {
			return fmt.Errorf("等级 [%s] 区间为空", tier.Name)
		}
		if levels[i+1].MinScore != *tier.MaxScore {
			return fmt.Errorf("等级 [%s] 与下一档位不连续", tier.Name)
		}
	}
	return nil
}

// DefaultLevels 缺省等级表，配置未提供档位时使用
func DefaultLevels() []LevelTier {
	max := func(v int64) *int64 { return &v }
	return []LevelTier{
		{Name: "新生", MinScore: 0, MaxScore: max(100)},
		{Name: "常客", MinScore: 100, MaxScore: max(500)},
		{Name: "活跃分子", MinScore: 500, MaxScore: max(2000)},
		{Name: "风云人物", MinScore: 2000, MaxScore: nil},
	}
}
