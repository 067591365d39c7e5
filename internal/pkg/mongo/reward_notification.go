package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RewardNotificationModel 奖励通知模型，TrackAction 每次发奖都会落一条
type RewardNotificationModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"` // 奖励归属用户
	RewardType string             `bson:"reward_type" json:"rewardType"` // hearts / achievement / social_score_boost
	Amount     int64              `bson:"amount" json:"amount"`          // 积分或爱心数量
	Reason     string             `bson:"reason" json:"reason"`          // 发奖缘由文案
	Payload    map[string]any     `bson:"payload" json:"payload"`        // 额外元数据 (如成就ID、连签天数)
	IsRead     bool               `bson:"is_read" json:"isRead"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
