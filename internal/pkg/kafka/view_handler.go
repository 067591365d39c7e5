package kafka

import (
	"Quad/internal/model"
	"Quad/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ViewsHandler 消费平台侧 post_views 表的 Canal 变更。
// 浏览量大，这里只进亲和度信号，不产生积分
type ViewsHandler struct {
	interactionRepo repository.InteractionRepo
	postRepo        repository.PostRepo
}

func NewViewsHandler(interactionRepo repository.InteractionRepo, postRepo repository.PostRepo) *ViewsHandler {
	return &ViewsHandler{
		interactionRepo: interactionRepo,
		postRepo:        postRepo,
	}
}

func (s *ViewsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("view consumer setup")
	return nil
}

func (s *ViewsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("view consumer cleanup")
	return nil
}

func (s *ViewsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-view consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-view process batch error", "err", err)
		return err
	}
	return nil
}

// logic 阅读只有 INSERT
func (s *ViewsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "post_views")
	if err != nil {
		return err
	}
	if canalMsg.Type != INSERT {
		return nil
	}

	row := canalMsg.Data[0]
	userID, postID := StrToUint64(row["user_id"]), StrToUint64(row["post_id"])

	return applyInteraction(ctx, s.interactionRepo, s.postRepo, userID, postID, model.InteractionView, eventTimeOf(canalMsg))
}
