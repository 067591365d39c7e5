package service

import (
	"Quad/internal/api/dto"
	"Quad/internal/pkg/event"
	"Quad/internal/pkg/mongo"
	"context"
	"errors"
	log "log/slog"
	"time"

	mongodrv "go.mongodb.org/mongo-driver/mongo"
)

type NotificationService interface {
	GetNotifications(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.NotificationDTO, error)
	GetUnreadCount(ctx context.Context, userID uint64) (int64, error)
	// MarkRead 标记已读，msgID 为空表示全部已读
	MarkRead(ctx context.Context, userID uint64, msgID string) error
	// HandleRewardEvent 事件总线订阅入口，发奖事件落库为通知
	HandleRewardEvent(evt *event.RewardEvent)
}

type notificationServiceImpl struct {
	notificationRepo mongo.RewardNotificationRepo
}

func NewNotificationService(notificationRepo mongo.RewardNotificationRepo) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
	}
}

func (s *notificationServiceImpl) GetNotifications(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.NotificationDTO, error) {
	offset := int64((page - 1) * pageSize)
	list, err := s.notificationRepo.GetNotificationList(ctx, userID, int64(pageSize), offset)
	if err != nil {
		log.ErrorContext(ctx, "get notification list failed", "err", err, "user_id", userID)
		return nil, UnExpectedError
	}
	result := make([]*dto.NotificationDTO, 0, len(list))
	for _, msg := range list {
		result = append(result, &dto.NotificationDTO{
			ID:         msg.ID.Hex(),
			RewardType: msg.RewardType,
			Amount:     msg.Amount,
			Reason:     msg.Reason,
			Payload:    msg.Payload,
			IsRead:     msg.IsRead,
			CreatedAt:  msg.CreatedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

func (s *notificationServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	count, err := s.notificationRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "get unread count failed", "err", err, "user_id", userID)
		return 0, UnExpectedError
	}
	return count, nil
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID uint64, msgID string) error {
	if msgID == "" {
		if err := s.notificationRepo.MarkAllAsRead(ctx, userID); err != nil {
			log.ErrorContext(ctx, "mark all as read failed", "err", err, "user_id", userID)
			return UnExpectedError
		}
		return nil
	}
	err := s.notificationRepo.MarkAsRead(ctx, userID, msgID)
	if errors.Is(err, mongodrv.ErrNoDocuments) || errors.Is(err, mongodrv.ErrInvalidIndexValue) {
		return ErrNotificationNotFound
	}
	if err != nil {
		log.ErrorContext(ctx, "mark as read failed", "err", err, "user_id", userID, "msg_id", msgID)
		return UnExpectedError
	}
	return nil
}

// HandleRewardEvent 在总线回调里落库，用独立超时上下文，不依赖请求生命周期
func (s *notificationServiceImpl) HandleRewardEvent(evt *event.RewardEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	msg := &mongo.RewardNotificationModel{
		ReceiverID: evt.UserID,
		RewardType: evt.Type,
		Amount:     evt.Amount,
		Reason:     evt.Reason,
		Payload:    evt.Payload,
		CreatedAt:  evt.CreatedAt,
	}
	if err := s.notificationRepo.CreateNotification(ctx, msg); err != nil {
		log.Error("create reward notification failed", "err", err, "user_id", evt.UserID)
	}
}
