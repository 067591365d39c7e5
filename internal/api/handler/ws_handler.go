package handler

import (
	"Quad/internal/pkg/event"
	"Quad/internal/pkg/response"
	"Quad/internal/pkg/security"
	"Quad/internal/service"
	log "log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WsHandler 奖励推送通道。订阅事件总线，把发奖事件实时推给在线客户端
type WsHandler struct {
	mu          sync.RWMutex
	subscribers map[uint64]map[chan *event.RewardEvent]struct{}
}

func NewWsHandler(bus *event.Bus) *WsHandler {
	s := &WsHandler{
		subscribers: make(map[uint64]map[chan *event.RewardEvent]struct{}),
	}
	bus.Subscribe(s.dispatch)
	return s
}

// dispatch 总线回调，慢客户端直接丢弃本条，不阻塞发布方
func (s *WsHandler) dispatch(evt *event.RewardEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.subscribers[evt.UserID] {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (s *WsHandler) attach(userID uint64) chan *event.RewardEvent {
	ch := make(chan *event.RewardEvent, 16)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subscribers[userID] == nil {
		s.subscribers[userID] = make(map[chan *event.RewardEvent]struct{})
	}
	s.subscribers[userID][ch] = struct{}{}
	return ch
}

func (s *WsHandler) detach(userID uint64, ch chan *event.RewardEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subscribers[userID], ch)
	if len(s.subscribers[userID]) == 0 {
		delete(s.subscribers, userID)
	}
}

func (s *WsHandler) Connect(c *gin.Context) {
	// 鉴权
	token := c.Query("token")
	if token == "" {
		response.Error(c, service.UnauthorizedError)
		return
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		log.Warn("WS 鉴权失败", "err", err)
		response.Error(c, service.UnauthorizedError)
		return
	}
	userID := claims.UserID

	// 升级 Websocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WS 协议升级失败", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	ch := s.attach(userID)
	defer s.detach(userID, ch)

	log.Info("用户 WS 连接已建立", "userID", userID)

	stopChan := make(chan struct{})

	// 读循环：监听客户端主动断开
	go func() {
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				close(stopChan)
				return
			}
		}
	}()

	// 写循环：监听总线并推送至客户端
	for {
		select {
		case evt := <-ch:
			payload, err := json.Marshal(evt)
			if err != nil {
				log.Error("WS 序列化失败", "userID", userID, "err", err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Error("WS 推送失败", "userID", userID, "err", err)
				return
			}
		case <-stopChan:
			log.Info("用户 WS 连接已断开", "userID", userID)
			return
		}
	}
}
