package dto

// PostDTO 信息流中的单个帖子
type PostDTO struct {
	ID             uint64 `json:"id"`
	UserID         uint64 `json:"user_id"`
	Content        string `json:"content"`
	Visibility     int8   `json:"visibility"`
	ReactionsCount int    `json:"reactions_count"`
	CommentsCount  int    `json:"comments_count"`
	SharesCount    int    `json:"shares_count"`
	Payload        string `json:"payload,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// FeedDTO 信息流返回体。Personalized 为 false 表示走了时间序兜底
type FeedDTO struct {
	Posts        []*PostDTO `json:"posts"`
	Personalized bool       `json:"personalized"`
}

// TrackInteractionDTO 互动上报请求，排序算法的旁路输入
type TrackInteractionDTO struct {
	PostID          uint64 `json:"post_id" binding:"required"`
	Kind            string `json:"kind" binding:"required,oneof=view like comment share"`
	DurationSeconds int    `json:"duration_seconds" binding:"gte=0"`
}
