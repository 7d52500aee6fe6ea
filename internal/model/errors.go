package model

import "errors"

var (
	// ErrInvalidID is returned when a string cannot be parsed as an ArticleID.
	ErrInvalidID = errors.New("article id is not valid")

	// ErrInvalidRequestedID is returned when an id received from a caller
	// (URL path, CLI argument) is not a valid ArticleID.
	ErrInvalidRequestedID = errors.New("requested article id is not valid")

	// ErrArticleNotFound is returned when a valid id matches no stored article.
	ErrArticleNotFound = errors.New("requested article id does not exist")
)
