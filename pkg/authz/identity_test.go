package authz

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityMiddlewareExtractsHeaders(t *testing.T) {
	var got Identity
	handler := IdentityMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Remote-User", "alice")
	req.Header.Set("X-Remote-Group", "admins, dev-team ,")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "alice", got.User)
	assert.Equal(t, []string{"admins", "dev-team"}, got.Groups)
}

func TestIdentityMiddlewareDefaultsToAnonymous(t *testing.T) {
	var got Identity
	handler := IdentityMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "anonymous", got.User)
	assert.Empty(t, got.Groups)
}

func TestUserFromContextWithoutIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "anonymous", UserFromContext(req.Context()))
}

func TestMiddlewareDenyWritesE401(t *testing.T) {
	deny := PolicyFunc(func(id Identity, resource, action string) bool {
		return id.User == "root"
	})
	var reached bool
	handler := Middleware(deny, "size", VerbDelete)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/size/1", nil))

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "error", envelope["status"])
	assert.Equal(t, "E401", envelope["code"])
	assert.Equal(t, "Unauthorized", envelope["error"])
}

func TestMiddlewareAllowPassesIdentity(t *testing.T) {
	var seen Identity
	policy := PolicyFunc(func(id Identity, resource, action string) bool {
		seen = id
		return true
	})
	handler := IdentityMiddleware()(Middleware(policy, "size", VerbList)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))

	req := httptest.NewRequest(http.MethodGet, "/size", nil)
	req.Header.Set("X-Remote-User", "bob")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob", seen.User)
}
