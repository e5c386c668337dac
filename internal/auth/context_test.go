package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set(HeaderUserID, " user-1 ")
	r.Header.Set(HeaderRole, "manager")

	u := FromRequest(r)
	assert.Equal(t, "user-1", u.UserID)
	assert.Equal(t, "manager", u.Role)
}

func TestActorID(t *testing.T) {
	assert.Nil(t, ActorID(""))
	assert.Nil(t, ActorID("unknown"))

	id := ActorID("user-1")
	require.NotNil(t, id)
	assert.Equal(t, "user-1", *id)
}
