package kafka

import (
	"Quad/internal/model"
	"Quad/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// CommentsHandler 消费平台侧 comments 表的 Canal 变更
type CommentsHandler struct {
	interactionRepo repository.InteractionRepo
	postRepo        repository.PostRepo
}

func NewCommentsHandler(interactionRepo repository.InteractionRepo, postRepo repository.PostRepo) *CommentsHandler {
	return &CommentsHandler{
		interactionRepo: interactionRepo,
		postRepo:        postRepo,
	}
}

func (s *CommentsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("comment consumer setup")
	return nil
}

func (s *CommentsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("comment consumer cleanup")
	return nil
}

func (s *CommentsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-comment consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-comment process batch error", "err", err)
		return err
	}
	return nil
}

// logic 评论删除不回撤流水，只认 INSERT
func (s *CommentsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "comments")
	if err != nil {
		return err
	}
	if canalMsg.Type != INSERT {
		return nil
	}

	row := canalMsg.Data[0]
	userID, postID := StrToUint64(row["user_id"]), StrToUint64(row["post_id"])

	if err := applyInteraction(ctx, s.interactionRepo, s.postRepo, userID, postID, model.InteractionComment, eventTimeOf(canalMsg)); err != nil {
		return err
	}

	log.InfoContext(ctx, "comment inserted", "userID", userID, "postID", postID)
	return nil
}
