package repository

import (
	"context"
	"errors"

	"hikari/internal/models"
	"hikari/internal/observability"
	"hikari/internal/pagination"

	"gorm.io/gorm"
)

// commentCursor is the keyset marker for comment listings (created_at DESC, id DESC).
type commentCursor struct {
	CreatedAt int64  `json:"c"`
	ID        string `json:"id"`
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByShow(ctx context.Context, showID, episodeID string, after pagination.Cursor, limit int) ([]models.Comment, pagination.Cursor, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type commentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{
		db:  db,
		log: observability.NewRepoLogger("comments"),
	}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return wrapDBError(err)
	}
	r.log.LogMutation(ctx, "create", map[string]any{
		"comment_id": comment.ID,
		"show_id":    comment.ShowID,
	})
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, wrapDBError(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByShow(ctx context.Context, showID, episodeID string, after pagination.Cursor, limit int) ([]models.Comment, pagination.Cursor, error) {
	q := r.db.WithContext(ctx).Where("show_id = ?", showID)
	if episodeID != "" {
		q = q.Where("episode_id = ? AND type = ?", episodeID, models.CommentTypeEpisode)
	} else {
		q = q.Where("type = ?", models.CommentTypeShow)
	}
	if after != pagination.None {
		var c commentCursor
		if err := pagination.Decode(after, &c); err != nil {
			return nil, pagination.None, models.NewValidationError("Invalid cursor")
		}
		// Cursor timestamps are unix micros so encoding stays stable across drivers.
		q = q.Where("(created_at, id) < (?, ?)", microsToTime(c.CreatedAt), c.ID)
	}

	var comments []models.Comment
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&comments).Error; err != nil {
		return nil, pagination.None, wrapDBError(err)
	}
	if len(comments) == 0 {
		return comments, pagination.None, nil
	}
	last := comments[len(comments)-1]
	cur, err := pagination.Encode(commentCursor{CreatedAt: last.CreatedAt.UnixMicro(), ID: last.ID})
	if err != nil {
		return nil, pagination.None, err
	}
	return comments, cur, nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id)
	if res.Error != nil {
		return wrapDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	r.log.LogMutation(ctx, "delete", map[string]any{"comment_id": id})
	return nil
}

func (r *commentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Count(&n).Error; err != nil {
		return 0, wrapDBError(err)
	}
	return n, nil
}
