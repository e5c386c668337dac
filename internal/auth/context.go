package auth

import (
	"net/http"
	"strings"
)

const (
	HeaderUserID = "X-User-ID"
	HeaderRole   = "X-User-Role"
)

// UserContext identifies the caller. Authentication happens upstream; the
// gateway forwards the resolved identity in headers and handlers pass it
// explicitly into use case inputs.
type UserContext struct {
	UserID string
	Role   string
}

func FromRequest(r *http.Request) UserContext {
	return UserContext{
		UserID: strings.TrimSpace(r.Header.Get(HeaderUserID)),
		Role:   strings.TrimSpace(r.Header.Get(HeaderRole)),
	}
}

// ActorID returns a pointer suitable for created_by columns, nil when anonymous.
func ActorID(userID string) *string {
	if userID == "" || userID == "unknown" {
		return nil
	}
	return &userID
}
