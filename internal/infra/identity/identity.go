package identity

import "context"

// Static resolves the acting identity from configuration. An empty ID means
// no identity is available, which callers treat as an explicit absent state
// rather than an error.
type Static struct {
	ID string
}

func (s Static) CurrentUserID(_ context.Context) (string, bool) {
	if s.ID == "" {
		return "", false
	}
	return s.ID, true
}
