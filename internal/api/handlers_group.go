package api

import "Quad/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	FeedHandler         *handler.FeedHandler
	EngagementHandler   *handler.EngagementHandler
	NotificationHandler *handler.NotificationHandler
	HideHandler         *handler.HideHandler
	WsHandler           *handler.WsHandler
}
