package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// DailyEngagement 每用户每日活跃度聚合。Score 是权威累计值，
// Journal 仅做审计留痕，不用于反推分数
type DailyEngagement struct {
	ID           uint64        `gorm:"primaryKey" json:"id"`
	UserID       uint64        `gorm:"not null;uniqueIndex:idx_user_date" json:"user_id"`
	MetricDate   time.Time     `gorm:"type:date;not null;uniqueIndex:idx_user_date;column:metric_date" json:"metric_date"`
	Score        int64         `gorm:"not null;default:0" json:"score"`
	HeartsEarned int64         `gorm:"not null;default:0" json:"hearts_earned"`
	Journal      ActionJournal `gorm:"type:json" json:"journal"`
	Version      int64         `gorm:"not null;default:0" json:"version"` // 乐观锁版本号
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (DailyEngagement) TableName() string {
	return "daily_engagements"
}

// ActionJournal 当日原始动作日志
type ActionJournal []JournalEntry

type JournalEntry struct {
	Kind    string    `json:"kind"`
	Value   int64     `json:"value,omitempty"`
	Points  int64     `json:"points"`
	Capped  bool      `json:"capped,omitempty"`
	TrackAt time.Time `json:"track_at"`
}

func (j ActionJournal) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *ActionJournal) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}
	return json.Unmarshal(bytes, j)
}
