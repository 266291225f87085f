package github

// NewWithBaseURL exports newWithBaseURL for testing.
var NewWithBaseURL = newWithBaseURL //nolint:gochecknoglobals // test export
