package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blogsite/internal/db"
)

var (
	ErrPostNotFound = fmt.Errorf("post: %w", db.ErrNotFound)
	ErrTitleTaken   = errors.New("post title already exists")
)

// PostService wraps post related database operations.
type PostService struct {
	store *db.Store
	now   func() time.Time
}

// PostInput represents the editable fields of a post.
type PostInput struct {
	Title    string
	Subtitle string
	ImgURL   string
	Body     string
}

// NewPostService creates a PostService instance.
func NewPostService(store *db.Store) *PostService {
	return &PostService{store: store, now: time.Now}
}

// List returns every post with its author, oldest first.
func (s *PostService) List(ctx context.Context) ([]db.Post, error) {
	return db.All[db.Post](ctx, s.store, "id asc", "Author")
}

// Get fetches a post by id with its author preloaded.
func (s *PostService) Get(ctx context.Context, id uint) (*db.Post, error) {
	post, err := db.Get[db.Post](ctx, s.store, id, "Author")
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// Create stores a post authored by authorID and stamped with today's date.
func (s *PostService) Create(ctx context.Context, authorID uint, input PostInput) (*db.Post, error) {
	post := db.Post{
		AuthorID: &authorID,
		Date:     db.FormatPostDate(s.now()),
	}
	applyPostInput(&post, input)

	if err := s.store.Insert(ctx, &post); err != nil {
		if errors.Is(err, db.ErrUniqueViolation) {
			return nil, ErrTitleTaken
		}
		return nil, err
	}
	return &post, nil
}

// Update overwrites the editable fields of an existing post. Id, date and
// author stay as they are.
func (s *PostService) Update(ctx context.Context, id uint, input PostInput) (*db.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	applyPostInput(post, input)
	if err := s.store.Save(ctx, post); err != nil {
		if errors.Is(err, db.ErrUniqueViolation) {
			return nil, ErrTitleTaken
		}
		return nil, err
	}
	return post, nil
}

// Delete removes a post together with its comments.
func (s *PostService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *db.Store) error {
		post, err := db.Get[db.Post](ctx, tx, id)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return ErrPostNotFound
			}
			return err
		}
		if err := tx.DeleteWhere(ctx, &db.Comment{}, "post_id = ?", post.ID); err != nil {
			return err
		}
		return tx.Delete(ctx, post)
	})
}

func applyPostInput(post *db.Post, input PostInput) {
	post.Title = strings.TrimSpace(input.Title)
	post.Subtitle = strings.TrimSpace(input.Subtitle)
	post.ImgURL = strings.TrimSpace(input.ImgURL)
	post.Body = input.Body
}
