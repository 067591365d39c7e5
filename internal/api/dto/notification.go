package dto

// NotificationDTO 奖励通知
type NotificationDTO struct {
	ID         string         `json:"id"`
	RewardType string         `json:"reward_type"`
	Amount     int64          `json:"amount"`
	Reason     string         `json:"reason"`
	Payload    map[string]any `json:"payload,omitempty"`
	IsRead     bool           `json:"is_read"`
	CreatedAt  string         `json:"created_at"`
}

// NotificationListDTO 通知列表分页参数
type NotificationListDTO struct {
	Page     int `form:"page" validate:"gte=1"`
	PageSize int `form:"page_size" validate:"gte=1,lte=100"`
}

// NotificationReadDTO 标记已读请求，ID 为空表示全部已读
type NotificationReadDTO struct {
	ID string `json:"id"`
}

// HideActionDTO 屏蔽/取消屏蔽请求
type HideActionDTO struct {
	Action int `json:"action" binding:"oneof=0 1"` // 1:屏蔽, 0:取消
}
