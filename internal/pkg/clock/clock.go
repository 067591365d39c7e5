package clock

import (
	"time"
)

// Clock 注入式时钟。连签/日界判定必须经由它取当前时间，
// 便于测试中拨表
type Clock interface {
	Now() time.Time
	// Today 返回配置时区下的当前日历日 (零点时刻)
	Today() time.Time
}

type realClock struct {
	loc *time.Location
}

// New 按时区名构造时钟，时区无效时退回本地时区
func New(timezone string) Clock {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.Local
	}
	return &realClock{loc: loc}
}

func (c *realClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *realClock) Today() time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.loc)
}

// Fixed 固定时钟，测试专用
type Fixed struct {
	Current time.Time
}

func (f *Fixed) Now() time.Time {
	return f.Current
}

func (f *Fixed) Today() time.Time {
	t := f.Current
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Advance 向前拨表
func (f *Fixed) Advance(d time.Duration) {
	f.Current = f.Current.Add(d)
}
