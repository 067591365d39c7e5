package kafka

import (
	"Quad/internal/api/config"
	"Quad/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	reactionConsumer sarama.ConsumerGroup
	reactionHandler  sarama.ConsumerGroupHandler

	commentConsumer sarama.ConsumerGroup
	commentHandler  sarama.ConsumerGroupHandler

	viewConsumer sarama.ConsumerGroup
	viewHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	interactionRepo repository.InteractionRepo,
	postRepo repository.PostRepo,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	reactionConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaReactionConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	reactionHandler := NewReactionsHandler(interactionRepo, postRepo)

	commentConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaCommentConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	commentHandler := NewCommentsHandler(interactionRepo, postRepo)

	viewConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaViewConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	viewHandler := NewViewsHandler(interactionRepo, postRepo)

	return &ConsumerManager{
		reactionConsumer: reactionConsumer,
		reactionHandler:  reactionHandler,
		commentConsumer:  commentConsumer,
		commentHandler:   commentHandler,
		viewConsumer:     viewConsumer,
		viewHandler:      viewHandler,
	}, nil
}

// Start 启动所有消费者，阻塞到 ctx 取消
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		topic := cfg.KafkaReactionConsumer.Topic
		log.Info("Reaction consumer started", "topic", topic)
		for {
			if err := m.reactionConsumer.Consume(ctx, []string{topic}, m.reactionHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	go func() {
		topic := cfg.KafkaCommentConsumer.Topic
		log.Info("Comment consumer started", "topic", topic)
		for {
			if err := m.commentConsumer.Consume(ctx, []string{topic}, m.commentHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	go func() {
		topic := cfg.KafkaViewConsumer.Topic
		log.Info("View consumer started", "topic", topic)
		for {
			if err := m.viewConsumer.Consume(ctx, []string{topic}, m.viewHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.reactionConsumer.Close(); err != nil {
		log.Error("Failed to close reaction consumer", "err", err)
	}
	if err := m.commentConsumer.Close(); err != nil {
		log.Error("Failed to close comment consumer", "err", err)
	}
	if err := m.viewConsumer.Close(); err != nil {
		log.Error("Failed to close view consumer", "err", err)
	}

	return nil
}
