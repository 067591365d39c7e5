package config

// Config 配置主体
type Config struct {
	Server                ServerConfig          `mapstructure:"server"`
	DB                    DBConfig              `mapstructure:"database"`
	Redis                 RedisConfig           `mapstructure:"redis"`
	Mongo                 MongoConfig           `mapstructure:"mongo"`
	Logstash              LogstashConfig        `mapstructure:"logstash"`
	Kafka                 KafkaConfig           `mapstructure:"kafka"`
	KafkaReactionConsumer KafkaReactionConsumer `mapstructure:"kafka_reaction_consumer"`
	KafkaCommentConsumer  KafkaCommentConsumer  `mapstructure:"kafka_comment_consumer"`
	KafkaViewConsumer     KafkaViewConsumer     `mapstructure:"kafka_view_consumer"`
	Feed                  FeedConfig            `mapstructure:"feed"`
	Engagement            EngagementConfig      `mapstructure:"engagement"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN             string `mapstructure:"dsn"`
	MaxIdle         int    `mapstructure:"max_idle"`
	MaxOpen         int    `mapstructure:"max_open"`
	MaxLifetime     int    `mapstructure:"max_lifetime"`
	SlowThresholdMs int    `mapstructure:"slow_threshold_ms"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type KafkaConfig struct {
	Brokers  []string            `mapstructure:"brokers"`
	Sasl     KafkaSaslConfig     `mapstructure:"sasl"`
	Consumer KafkaConsumerConfig `mapstructure:"consumer"`
}

type KafkaSaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// KafkaConsumerConfig 消费组调优参数 (秒)
type KafkaConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaReactionConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type KafkaCommentConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type KafkaViewConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// FeedConfig 个性化信息流参数
type FeedConfig struct {
	CandidateLimit   int     `mapstructure:"candidate_limit"`
	HistoryDays      int     `mapstructure:"history_days"`
	AffinityTimeout  int     `mapstructure:"affinity_timeout_ms"` // 互动历史拉取超时 (毫秒)
	RecencyWeight    float64 `mapstructure:"recency_weight"`
	AffinityWeight   float64 `mapstructure:"affinity_weight"`
	EngagementWeight float64 `mapstructure:"engagement_weight"`
	RecencyHalfLife  float64 `mapstructure:"recency_half_life_hours"`
	AffinityBaseline float64 `mapstructure:"affinity_baseline"`
}

// EngagementConfig 活跃度积分参数
type EngagementConfig struct {
	Timezone         string       `mapstructure:"timezone"`
	Points           PointsConfig `mapstructure:"points"`
	Caps             CapsConfig   `mapstructure:"caps"`
	StreakMilestones []int        `mapstructure:"streak_milestones"`
	MilestoneHearts  int64        `mapstructure:"milestone_hearts"`
	Levels           []LevelTier  `mapstructure:"levels"`
}

// PointsConfig 各动作基础积分
type PointsConfig struct {
	Login               int64   `mapstructure:"login"`
	Post                int64   `mapstructure:"post"`
	FirstPostMultiplier float64 `mapstructure:"first_post_multiplier"`
	Story               int64   `mapstructure:"story"`
	Interaction         int64   `mapstructure:"interaction"`
	Comment             int64   `mapstructure:"comment"`
	Reaction            int64   `mapstructure:"reaction"`
	HeartGiven          int64   `mapstructure:"heart_given"`
	ProfileView         int64   `mapstructure:"profile_view"`
}

// CapsConfig 各动作每日防刷上限 (按次数计)
type CapsConfig struct {
	Interaction int64 `mapstructure:"interaction"`
	Comment     int64 `mapstructure:"comment"`
	Reaction    int64 `mapstructure:"reaction"`
	HeartGiven  int64 `mapstructure:"heart_given"`
	ProfileView int64 `mapstructure:"profile_view"`
}

// LevelTier 社交等级档位，MaxScore 为空表示最高档无上限
type LevelTier struct {
	Name     string `mapstructure:"name"`
	MinScore int64  `mapstructure:"min_score"`
	MaxScore *int64 `mapstructure:"max_score"`
}
