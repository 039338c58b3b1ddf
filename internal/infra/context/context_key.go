package context

// contextKey is a private type for context values defined by this package,
// preventing collisions with keys from other packages.
type contextKey string
