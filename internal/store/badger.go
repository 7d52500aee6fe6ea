package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"blog-api/internal/model"

	"github.com/dgraph-io/badger/v4"
)

const articlePrefix = "article:"

// BadgerStore keeps articles as JSON records in Badger.
// List returns articles in key order.
type BadgerStore struct {
	db   *badger.DB
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewBadgerStore opens Badger.
// Pass dir="" to keep everything in memory for the lifetime of the process.
func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Silence default logger

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	s := &BadgerStore{db: db, stop: make(chan struct{})}
	if dir != "" {
		s.wg.Add(1)
		go s.collectGarbage(5 * time.Minute)
	}
	return s, nil
}

// Close stops the GC loop and closes the database.
func (s *BadgerStore) Close() error {
	close(s.stop)
	s.wg.Wait()
	return s.db.Close()
}

func (s *BadgerStore) collectGarbage(every time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			// ErrNoRewrite just means there was nothing worth collecting
			_ = s.db.RunValueLogGC(0.7)
		}
	}
}

func articleKey(id model.ArticleID) []byte {
	return []byte(articlePrefix + id.String())
}

func (s *BadgerStore) Add(_ context.Context, article *model.Article) error {
	data, err := json.Marshal(article)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(articleKey(article.ID), data)
	})
}

func (s *BadgerStore) Get(_ context.Context, id model.ArticleID) (*model.Article, error) {
	var article model.Article
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(articleKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &article)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &article, nil
}

func (s *BadgerStore) Replace(ctx context.Context, oldID model.ArticleID, article *model.Article) error {
	article.ID = oldID
	return s.Add(ctx, article)
}

func (s *BadgerStore) Remove(_ context.Context, id model.ArticleID) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(articleKey(id)); err != nil {
			return err
		}
		return txn.Delete(articleKey(id))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *BadgerStore) List(_ context.Context) ([]model.Article, error) {
	articles := []model.Article{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(articlePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var a model.Article
				if err := json.Unmarshal(val, &a); err != nil {
					return err
				}
				articles = append(articles, a)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return articles, nil
}
