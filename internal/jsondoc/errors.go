package jsondoc

import "errors"

var (
	// ErrNotObject is returned when a document's root is not a JSON object.
	ErrNotObject = errors.New("jsondoc: document root is not an object")

	// ErrSyntax is returned when a document is not valid JSON.
	ErrSyntax = errors.New("jsondoc: invalid JSON")
)
