package service

import (
	"Quad/internal/model"
	"Quad/internal/repository"
	"context"
	log "log/slog"
)

type HideService interface {
	// HidePost 屏蔽/取消屏蔽帖子，action 为 1 屏蔽、0 取消
	HidePost(ctx context.Context, userID uint64, postID uint64, action int) error
	// HideAuthor 屏蔽/取消屏蔽作者
	HideAuthor(ctx context.Context, userID uint64, authorID uint64, action int) error
}

type hideServiceImpl struct {
	hideRepo repository.UserHideRepo
	postRepo repository.PostRepo
}

func NewHideService(hideRepo repository.UserHideRepo, postRepo repository.PostRepo) HideService {
	return &hideServiceImpl{
		hideRepo: hideRepo,
		postRepo: postRepo,
	}
}

func (s *hideServiceImpl) HidePost(ctx context.Context, userID uint64, postID uint64, action int) error {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		log.ErrorContext(ctx, "get post failed", "err", err, "post_id", postID)
		return UnExpectedError
	}
	if post == nil {
		return ErrPostNotFound
	}
	return s.apply(ctx, userID, model.HideTargetPost, postID, action)
}

func (s *hideServiceImpl) HideAuthor(ctx context.Context, userID uint64, authorID uint64, action int) error {
	if authorID == userID {
		return ErrHideSelf
	}
	return s.apply(ctx, userID, model.HideTargetAuthor, authorID, action)
}

func (s *hideServiceImpl) apply(ctx context.Context, userID uint64, targetType int8, targetID uint64, action int) error {
	var err error
	if action == 1 {
		err = s.hideRepo.CreateHide(ctx, &model.UserHide{
			UserID:     userID,
			TargetType: targetType,
			TargetID:   targetID,
		})
	} else {
		err = s.hideRepo.DeleteHide(ctx, userID, targetType, targetID)
	}
	if err != nil {
		log.ErrorContext(ctx, "apply hide failed", "err", err,
			"user_id", userID, "target_type", targetType, "target_id", targetID, "action", action)
		return UnExpectedError
	}
	return nil
}
