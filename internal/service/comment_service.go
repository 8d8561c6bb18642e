package service

import (
	"context"
	"strings"

	"hikari/internal/models"
	"hikari/internal/pagination"
	"hikari/internal/repository"

	"github.com/google/uuid"
)

const maxCommentLength = 2000

type CommentService struct {
	commentRepo repository.CommentRepository
	showRepo    repository.ShowRepository
	episodeRepo repository.EpisodeRepository
	userRepo    repository.UserRepository
}

type CreateCommentInput struct {
	UserID    uint
	ShowID    string
	EpisodeID string
	Text      string
}

type ListCommentsInput struct {
	ShowID    string
	EpisodeID string
	Cursor    pagination.Cursor
	Limit     int
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	showRepo repository.ShowRepository,
	episodeRepo repository.EpisodeRepository,
	userRepo repository.UserRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		showRepo:    showRepo,
		episodeRepo: episodeRepo,
		userRepo:    userRepo,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if len(text) > maxCommentLength {
		return nil, models.NewValidationError("Comment is too long")
	}
	if _, err := s.showRepo.GetByID(ctx, in.ShowID); err != nil {
		return nil, err
	}

	commentType := models.CommentTypeShow
	if in.EpisodeID != "" {
		episode, err := s.episodeRepo.GetByID(ctx, in.EpisodeID)
		if err != nil {
			return nil, err
		}
		if episode.ShowID != in.ShowID {
			return nil, models.NewValidationError("Episode does not belong to this show")
		}
		commentType = models.CommentTypeEpisode
	}

	// Author name and photo are copied onto the comment so lists render
	// without joining users; a later profile edit does not rewrite history.
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        uuid.NewString(),
		ShowID:    in.ShowID,
		EpisodeID: in.EpisodeID,
		Type:      commentType,
		Text:      text,
		UserID:    user.ID,
		UserName:  user.Username,
		UserPhoto: user.PhotoURL,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, in ListCommentsInput) ([]models.Comment, pagination.Cursor, error) {
	limit := in.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.commentRepo.ListByShow(ctx, in.ShowID, in.EpisodeID, in.Cursor, limit)
}

// DeleteComment removes a comment. Authors may delete their own; admins may
// delete any.
func (s *CommentService) DeleteComment(ctx context.Context, commentID string, userID uint, isAdmin bool) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if !isAdmin && comment.UserID != userID {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	return s.commentRepo.Delete(ctx, commentID)
}
