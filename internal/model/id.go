package model

import (
	"fmt"

	"github.com/google/uuid"
)

// ArticleID is the stable identifier of an article.
// It is comparable and can be used as a map key.
type ArticleID struct {
	uuid uuid.UUID
}

// NewArticleID returns a fresh random (version 4) id.
func NewArticleID() ArticleID {
	return ArticleID{uuid: uuid.New()}
}

// ParseArticleID parses the textual form of an id. Every form accepted by
// uuid.Parse is allowed (hyphenated, 32 hex digits, urn:uuid: prefix, braces).
func ParseArticleID(text string) (ArticleID, error) {
	u, err := uuid.Parse(text)
	if err != nil {
		return ArticleID{}, fmt.Errorf("%w: %q", ErrInvalidID, text)
	}
	return ArticleID{uuid: u}, nil
}

// String returns the canonical lowercase hyphenated form.
func (id ArticleID) String() string {
	return id.uuid.String()
}

// IsZero reports whether the id was never assigned.
func (id ArticleID) IsZero() bool {
	return id.uuid == uuid.Nil
}

func (id ArticleID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ArticleID) UnmarshalText(text []byte) error {
	parsed, err := ParseArticleID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
