package entities

import "errors"

var (
	// ErrNotFound means the registry does not know the dependency.
	ErrNotFound = errors.New("dependency not found upstream")
	// ErrTransient covers network failures, timeouts and unexpected responses.
	ErrTransient = errors.New("upstream lookup failed")
	// ErrParseFailure means a manifest could not be parsed.
	ErrParseFailure = errors.New("malformed manifest")
	// ErrRewriteMismatch means the declaration text is no longer in the file.
	ErrRewriteMismatch = errors.New("declaration no longer matches file content")
	// ErrNotRewritable means the declaration style has no in-place edit.
	ErrNotRewritable = errors.New("declaration cannot be rewritten in place")
	// ErrConfiguration is the only kind of error that aborts a run.
	ErrConfiguration = errors.New("invalid configuration")
)
