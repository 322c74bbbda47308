package service

import (
	"context"
	"errors"

	"github.com/blogsite/internal/db"
)

// CommentService stores and lists reader comments.
type CommentService struct {
	store *db.Store
}

// NewCommentService creates a CommentService instance.
func NewCommentService(store *db.Store) *CommentService {
	return &CommentService{store: store}
}

// Add attaches a comment by authorID to an existing post.
func (s *CommentService) Add(ctx context.Context, postID, authorID uint, text string) (*db.Comment, error) {
	if _, err := db.Get[db.Post](ctx, s.store, postID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	comment := db.Comment{PostID: postID, AuthorID: authorID, Text: text}
	if err := s.store.Insert(ctx, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListForPost returns a post's comments with their authors, oldest first.
func (s *CommentService) ListForPost(ctx context.Context, postID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.store.DB().WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("id asc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
