package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// AffinitySnapshot 用户对作者的亲和度快照。纯粹是互动流水的函数，
// 由定时任务从 Redis ZSET 回刷，随时可以重算，不是独立状态
type AffinitySnapshot struct {
	UserID     uint64      `gorm:"primaryKey" json:"user_id"`
	Affinities AffinityMap `gorm:"type:json;not null" json:"affinities"` // 存储 AuthorID:Score 快照
	UpdatedAt  time.Time   `json:"updated_at"`
}

func (AffinitySnapshot) TableName() string {
	return "affinity_snapshots"
}

// AffinityMap 作者亲和度得分: map[author_id]score
type AffinityMap map[string]float64

func (m AffinityMap) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *AffinityMap) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}
	return json.Unmarshal(bytes, m)
}
