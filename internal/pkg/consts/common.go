package consts

// DateLayout 日界计算使用的日期格式
const DateLayout = "2006-01-02"

const (
	RewardTypeHearts      = "hearts"
	RewardTypeAchievement = "achievement"
	RewardTypeScoreBoost  = "social_score_boost"
)

// 活跃度动作类型
const (
	ActionLogin       = "login"
	ActionPost        = "post"
	ActionStory       = "story"
	ActionInteraction = "interaction"
	ActionComment     = "comment"
	ActionReaction    = "reaction"
	ActionHeartGiven  = "heart_given"
	ActionProfileView = "profile_view"
)
