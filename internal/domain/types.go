package domain

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// Authenticated reports whether a caller identity is present.
func (r RequestContext) Authenticated() bool {
	return r.UserID != ""
}
