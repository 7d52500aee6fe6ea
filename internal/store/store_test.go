package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"blog-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns a fresh instance of every Store implementation.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	bs, err := NewBadgerStore("")
	require.NoError(t, err)
	t.Cleanup(func() { bs.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"badger": bs,
	}
}

func newArticle(title string) model.Article {
	return model.Article{
		ID:        model.NewArticleID(),
		Title:     title,
		Content:   "content of " + title,
		CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestStore_AddAndGet(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			article := newArticle("first")

			require.NoError(t, st.Add(ctx, &article))

			got, err := st.Get(ctx, article.ID)
			require.NoError(t, err)
			assert.Equal(t, article.ID, got.ID)
			assert.Equal(t, article.Title, got.Title)
			assert.Equal(t, article.Content, got.Content)
			assert.True(t, article.CreatedAt.Equal(got.CreatedAt))
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := st.Get(context.Background(), model.NewArticleID())
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_AddOverwrites(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			article := newArticle("first")
			require.NoError(t, st.Add(ctx, &article))

			article.Title = "overwritten"
			require.NoError(t, st.Add(ctx, &article))

			got, err := st.Get(ctx, article.ID)
			require.NoError(t, err)
			assert.Equal(t, "overwritten", got.Title)

			all, err := st.List(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestStore_ReplacePreservesID(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			old := newArticle("old")
			require.NoError(t, st.Add(ctx, &old))

			// The replacement carries a different id on purpose
			replacement := newArticle("new")
			require.NoError(t, st.Replace(ctx, old.ID, &replacement))

			assert.Equal(t, old.ID, replacement.ID)

			got, err := st.Get(ctx, old.ID)
			require.NoError(t, err)
			assert.Equal(t, "new", got.Title)
			assert.Equal(t, old.ID, got.ID)

			all, err := st.List(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestStore_Remove(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			article := newArticle("doomed")
			require.NoError(t, st.Add(ctx, &article))

			require.NoError(t, st.Remove(ctx, article.ID))

			_, err := st.Get(ctx, article.ID)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, st.Remove(ctx, article.ID), ErrNotFound)
		})
	}
}

func TestStore_ListIsStable(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			empty, err := st.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, empty)

			for _, title := range []string{"a", "b", "c"} {
				a := newArticle(title)
				require.NoError(t, st.Add(ctx, &a))
			}

			first, err := st.List(ctx)
			require.NoError(t, err)
			second, err := st.List(ctx)
			require.NoError(t, err)

			assert.Len(t, first, 3)
			assert.ElementsMatch(t, first, second)
		})
	}
}

func TestStore_ReturnsCopies(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			article := newArticle("original")
			require.NoError(t, st.Add(ctx, &article))

			// Mutating the caller's values must not reach the store
			article.Title = "changed by caller"
			got, err := st.Get(ctx, article.ID)
			require.NoError(t, err)
			got.Title = "changed again"

			stored, err := st.Get(ctx, article.ID)
			require.NoError(t, err)
			assert.Equal(t, "original", stored.Title)
		})
	}
}

func TestMemoryStore_ListInsertionOrder(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	var ids []model.ArticleID
	for _, title := range []string{"a", "b", "c", "d"} {
		a := newArticle(title)
		require.NoError(t, st.Add(ctx, &a))
		ids = append(ids, a.ID)
	}
	require.NoError(t, st.Remove(ctx, ids[1]))

	all, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "c", "d"}, []string{all[0].Title, all[1].Title, all[2].Title})
}

func TestMemoryStore_ConcurrentAdds(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a := newArticle("concurrent")
			assert.NoError(t, st.Add(ctx, &a))
		}()
	}
	wg.Wait()

	all, err := st.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 100)
}

func TestBadgerStore_OnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	st, err := NewBadgerStore(dir)
	require.NoError(t, err)
	article := newArticle("on disk")
	require.NoError(t, st.Add(ctx, &article))
	require.NoError(t, st.Close())

	// Reopening the same directory sees the record
	st, err = NewBadgerStore(dir)
	require.NoError(t, err)
	defer st.Close()

	got, err := st.Get(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "on disk", got.Title)
}
