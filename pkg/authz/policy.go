package authz

import (
	"encoding/json"
	"net/http"
)

// Verbs used by the resource routes.
const (
	VerbList   = "list"
	VerbGet    = "get"
	VerbCreate = "create"
	VerbUpdate = "update"
	VerbDelete = "delete"
	VerbUpload = "upload"
)

// Policy decides whether an identity may perform an action on a resource.
// Implementations must be safe for concurrent use.
type Policy interface {
	Authorize(id Identity, resource, action string) bool
}

// AllowAll permits every caller. It is the default policy; the deny path
// exists so a real policy can be substituted without touching handlers.
type AllowAll struct{}

// Authorize always returns true.
func (AllowAll) Authorize(Identity, string, string) bool { return true }

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc func(id Identity, resource, action string) bool

// Authorize calls the wrapped function.
func (f PolicyFunc) Authorize(id Identity, resource, action string) bool {
	return f(id, resource, action)
}

// Middleware returns HTTP middleware enforcing policy for a fixed
// resource/action pair. Denials are the one outcome that does not ride on
// HTTP 200: the envelope carries code E401 with status 401.
func Middleware(policy Policy, resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, _ := IdentityFromContext(r.Context())
			if policy != nil && !policy.Authorize(id, resource, action) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"status": "error",
					"code":   "E401",
					"error":  "Unauthorized",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
