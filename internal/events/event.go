package events

import (
	"context"
	"time"

	"blog-api/internal/model"
)

// Event records a write made to an article.
type Event struct {
	ArticleID string              `json:"article_id"`
	Title     string              `json:"title"`
	Op        model.OperationType `json:"op"`
	At        time.Time           `json:"at"`
}

// NewEvent stamps an event for article with the current time.
func NewEvent(op model.OperationType, article model.Article) Event {
	return Event{
		ArticleID: article.ID.String(),
		Title:     article.Title,
		Op:        op,
		At:        time.Now().UTC(),
	}
}

// Publisher hands events to whatever consumes them.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// NopPublisher drops every event. It is used when no queue is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
