package kafka

import (
	"Quad/internal/model"
	"Quad/internal/pkg/scoring"
	"Quad/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ReactionsHandler 消费平台侧 reactions 表的 Canal 变更，
// 让排序器看得到发生在本服务之外的点赞
type ReactionsHandler struct {
	interactionRepo repository.InteractionRepo
	postRepo        repository.PostRepo
}

func NewReactionsHandler(interactionRepo repository.InteractionRepo, postRepo repository.PostRepo) *ReactionsHandler {
	return &ReactionsHandler{
		interactionRepo: interactionRepo,
		postRepo:        postRepo,
	}
}

func (s *ReactionsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("reaction consumer setup")
	return nil
}

func (s *ReactionsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("reaction consumer cleanup")
	return nil
}

func (s *ReactionsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-reaction consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-reaction process batch error", "err", err)
		return err
	}
	return nil
}

func (s *ReactionsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "reactions")
	if err != nil {
		return err
	}

	switch canalMsg.Type {
	case INSERT:
		return s.handleInsert(ctx, canalMsg)
	case DELETE:
		return s.handleDelete(ctx, canalMsg)
	default:
		return nil
	}
}

func (s *ReactionsHandler) handleInsert(ctx context.Context, msg *CanalMessage) error {
	row := msg.Data[0]
	userID, postID := StrToUint64(row["user_id"]), StrToUint64(row["post_id"])

	if err := applyInteraction(ctx, s.interactionRepo, s.postRepo, userID, postID, model.InteractionLike, eventTimeOf(msg)); err != nil {
		return err
	}

	log.InfoContext(ctx, "reaction inserted", "userID", userID, "postID", postID)
	return nil
}

// handleDelete 取消点赞只回撤亲和度，流水是只追加的，不删历史
func (s *ReactionsHandler) handleDelete(ctx context.Context, msg *CanalMessage) error {
	row := msg.Data[0]
	userID, postID := StrToUint64(row["user_id"]), StrToUint64(row["post_id"])
	if userID == 0 || postID == 0 {
		return nil
	}

	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil || post == nil {
		return err
	}
	adjustAffinity(ctx, userID, post.UserID, -scoring.InteractionWeight(model.InteractionLike))

	log.InfoContext(ctx, "reaction removed", "userID", userID, "postID", postID)
	return nil
}
