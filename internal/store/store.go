package store

import (
	"context"
	"errors"

	"blog-api/internal/model"
)

var (
	ErrNotFound = errors.New("article not found")
)

// Store keeps articles by id. Implementations hand out copies, so callers
// never share an article with the store.
type Store interface {
	// Add inserts the article under its id, overwriting any previous one.
	Add(ctx context.Context, article *model.Article) error
	Get(ctx context.Context, id model.ArticleID) (*model.Article, error)
	// Replace stores article under oldID. article.ID is forced to oldID first.
	Replace(ctx context.Context, oldID model.ArticleID, article *model.Article) error
	Remove(ctx context.Context, id model.ArticleID) error
	List(ctx context.Context) ([]model.Article, error)
}
