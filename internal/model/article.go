package model

import (
	"time"
)

// OperationType classifies what an operation did to a stored article.
type OperationType string

const (
	OpCreated OperationType = "created"
	OpUpdated OperationType = "updated"
	OpDeleted OperationType = "deleted"
)

// Article is the canonical in-memory representation of a blog article.
type Article struct {
	ID        ArticleID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// RequestArticle is an article the way an API consumer sends it.
// Creation and ID are optional.
type RequestArticle struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Creation *string `json:"creation,omitempty"`
	ID       *string `json:"id,omitempty"`
}

// ResponseArticle is an article the way it is returned to an API consumer.
// Every field is always set.
type ResponseArticle struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Creation string `json:"creation"`
	ID       string `json:"id"`
}

// ToArticle builds a new Article from a request.
//
// The id is taken from explicitID when given, then from req.ID when it holds
// a valid id, and is freshly generated otherwise. The creation date falls
// back to now when missing or malformed.
func ToArticle(req RequestArticle, explicitID *ArticleID) Article {
	var id ArticleID
	switch {
	case explicitID != nil:
		id = *explicitID
	case req.ID != nil:
		parsed, err := ParseArticleID(*req.ID)
		if err != nil {
			id = NewArticleID()
		} else {
			id = parsed
		}
	default:
		id = NewArticleID()
	}

	return Article{
		ID:        id,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: ParseCreation(req.Creation),
	}
}

// FromArticle projects an Article onto its response shape.
func FromArticle(a Article) ResponseArticle {
	return ResponseArticle{
		Title:    a.Title,
		Content:  a.Content,
		Creation: FormatCreation(a.CreatedAt),
		ID:       a.ID.String(),
	}
}
