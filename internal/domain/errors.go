package domain

import "errors"

var (
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEmptyQuestion indicates a blank question
	ErrEmptyQuestion = errors.New("empty question")
	// ErrUnsupportedFormat indicates a file extension that cannot be learned
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrEmptyDocument indicates a document without readable content
	ErrEmptyDocument = errors.New("empty or unreadable document")
)
