// Package article implements the article operations exposed by the API.
package article

import (
	"context"
	"errors"
	"fmt"

	"blog-api/internal/events"
	"blog-api/internal/model"
	"blog-api/internal/store"

	"go.uber.org/zap"
)

// Options tune Service behaviour.
type Options struct {
	// AllowUpsert makes Update create the article when the id is unknown
	// instead of failing with model.ErrArticleNotFound.
	AllowUpsert bool
}

type Service struct {
	store     store.Store
	publisher events.Publisher
	logger    *zap.Logger
	opts      Options
	locks     *idLocks
}

// NewService wires a Service. A nil publisher disables activity events.
func NewService(st store.Store, publisher events.Publisher, logger *zap.Logger, opts Options) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		store:     st,
		publisher: publisher,
		logger:    logger,
		opts:      opts,
		locks:     newIDLocks(),
	}
}

// List returns every stored article.
func (s *Service) List(ctx context.Context) ([]model.ResponseArticle, error) {
	articles, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}

	res := make([]model.ResponseArticle, 0, len(articles))
	for _, a := range articles {
		res = append(res, model.FromArticle(a))
	}
	return res, nil
}

// GetByID returns the article stored under the textual id.
func (s *Service) GetByID(ctx context.Context, rawID string) (model.ResponseArticle, error) {
	id, err := parseRequestedID(rawID)
	if err != nil {
		return model.ResponseArticle{}, err
	}

	a, err := s.get(ctx, id)
	if err != nil {
		return model.ResponseArticle{}, err
	}
	return model.FromArticle(*a), nil
}

// Create stores a new article and returns its id. The id is always assigned
// here; an id sent in the request is ignored.
func (s *Service) Create(ctx context.Context, req model.RequestArticle) (string, error) {
	id := model.NewArticleID()
	a := model.ToArticle(req, &id)
	if a.ID.IsZero() {
		s.logger.DPanic("Created article has no id", zap.String("title", a.Title))
		return "", errors.New("created article has no id")
	}

	if err := s.store.Add(ctx, &a); err != nil {
		return "", fmt.Errorf("adding article: %w", err)
	}

	s.publish(ctx, model.OpCreated, a)
	return a.ID.String(), nil
}

// Update replaces the content of the article stored under rawID, keeping its id.
//
// An unknown id fails with model.ErrArticleNotFound unless the service allows
// upserts, in which case the article is created under that id and OpCreated is
// reported.
func (s *Service) Update(ctx context.Context, rawID string, req model.RequestArticle) (model.OperationType, error) {
	id, err := parseRequestedID(rawID)
	if err != nil {
		return "", err
	}

	unlock := s.locks.lock(id)
	defer unlock()

	_, err = s.get(ctx, id)
	switch {
	case errors.Is(err, model.ErrArticleNotFound) && s.opts.AllowUpsert:
		a := model.ToArticle(req, &id)
		if err := s.store.Add(ctx, &a); err != nil {
			return "", fmt.Errorf("adding article: %w", err)
		}
		s.publish(ctx, model.OpCreated, a)
		return model.OpCreated, nil
	case err != nil:
		return "", err
	}

	a := model.ToArticle(req, nil)
	if err := s.store.Replace(ctx, id, &a); err != nil {
		return "", fmt.Errorf("replacing article: %w", err)
	}
	s.publish(ctx, model.OpUpdated, a)
	return model.OpUpdated, nil
}

// Delete removes the article stored under rawID.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseRequestedID(rawID)
	if err != nil {
		return err
	}

	unlock := s.locks.lock(id)
	defer unlock()

	a, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Remove(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", model.ErrArticleNotFound, id)
		}
		return fmt.Errorf("removing article: %w", err)
	}

	s.publish(ctx, model.OpDeleted, *a)
	return nil
}

func (s *Service) get(ctx context.Context, id model.ArticleID) (*model.Article, error) {
	a, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", model.ErrArticleNotFound, id)
	} else if err != nil {
		return nil, fmt.Errorf("fetching article: %w", err)
	}
	return a, nil
}

// publish never fails the write it reports on.
func (s *Service) publish(ctx context.Context, op model.OperationType, a model.Article) {
	if err := s.publisher.Publish(ctx, events.NewEvent(op, a)); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("article_id", a.ID.String()),
			zap.String("op", string(op)),
			zap.Error(err))
	}
}

// parseRequestedID turns a caller supplied id into an ArticleID. Failures
// match both model.ErrInvalidRequestedID and model.ErrInvalidID.
func parseRequestedID(rawID string) (model.ArticleID, error) {
	id, err := model.ParseArticleID(rawID)
	if err != nil {
		return model.ArticleID{}, fmt.Errorf("%w: %w", model.ErrInvalidRequestedID, err)
	}
	return id, nil
}
