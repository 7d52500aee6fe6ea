package store

import (
	"context"
	"slices"
	"sync"

	"blog-api/internal/model"
)

// MemoryStore is a process-local Store. List returns articles in insertion order.
type MemoryStore struct {
	mu       sync.RWMutex
	articles map[model.ArticleID]model.Article
	order    []model.ArticleID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		articles: make(map[model.ArticleID]model.Article),
	}
}

func (s *MemoryStore) Add(_ context.Context, article *model.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(*article)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id model.ArticleID) (*model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	article, ok := s.articles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &article, nil
}

func (s *MemoryStore) Replace(_ context.Context, oldID model.ArticleID, article *model.Article) error {
	// id must survive the replacement
	article.ID = oldID

	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(*article)
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, id model.ArticleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[id]; !ok {
		return ErrNotFound
	}
	delete(s.articles, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	articles := make([]model.Article, 0, len(s.order))
	for _, id := range s.order {
		articles = append(articles, s.articles[id])
	}
	return articles, nil
}

// put must be called with mu held.
func (s *MemoryStore) put(article model.Article) {
	if _, exists := s.articles[article.ID]; !exists {
		s.order = append(s.order, article.ID)
	}
	s.articles[article.ID] = article
}
