package event

import (
	"sync"
	"time"
)

// RewardEvent 发奖事件，发布给 UI 推送与通知落库等订阅方
type RewardEvent struct {
	UserID    uint64         `json:"user_id"`
	Type      string         `json:"type"`
	Amount    int64          `json:"amount"`
	Reason    string         `json:"reason"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type Handler func(evt *RewardEvent)

// Bus 进程内发布订阅。订阅在装配期完成，发布并发安全且不阻塞发布方
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish 逐个异步投递，订阅方阻塞不影响发布方
func (b *Bus) Publish(evt *RewardEvent) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		go h(evt)
	}
}
