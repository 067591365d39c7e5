package repository

import (
	"Quad/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type PostRepo interface {
	GetFeedCandidates(ctx context.Context, userID uint64, limit int) ([]*model.Post, error)
	GetPostByID(ctx context.Context, postID uint64) (*model.Post, error)
}

type postRepoImpl struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepo {
	return &postRepoImpl{db: db}
}

// GetFeedCandidates 拉取候选帖集合：公开帖加上请求者自己的帖子，
// 好友可见/私密帖的可见性判定归属外部关系服务，这里不展开
func (r *postRepoImpl) GetFeedCandidates(ctx context.Context, userID uint64, limit int) ([]*model.Post, error) {
	posts := make([]*model.Post, 0, limit)
	query := r.db.WithContext(ctx).
		Where("is_deleted = ?", false)

	if userID > 0 {
		query = query.Where("visibility = ? OR user_id = ?", model.PostVisibilityPublic, userID)
	} else {
		query = query.Where("visibility = ?", model.PostVisibilityPublic)
	}

	result := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}
	return posts, nil
}

// GetPostByID 根据 ID 获取帖子，未找到返回 nil
func (r *postRepoImpl) GetPostByID(ctx context.Context, postID uint64) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).Where("id = ?", postID).First(&post).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}
