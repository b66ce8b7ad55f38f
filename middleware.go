package main

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// authUserKey is the context key under which authMiddleware stores the
// authenticated user's id. An unexported struct type keeps it collision-free.
type authUserKey struct{}

// authMiddleware rejects requests without a valid Bearer token and stores
// the token subject in the request context for the handlers behind it.
func (a *App) authMiddleware(next http.Handler) http.Handler {
	const prefix = "Bearer "
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, prefix) {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		uid, err := parseJWT(a.cfg.JWTSecret, authz[len(prefix):])
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(
			context.WithValue(r.Context(), authUserKey{}, uid)))
	})
}

// mustUserID returns the user id stored by authMiddleware, or NilObjectID
// when the request never passed through it.
func mustUserID(r *http.Request) primitive.ObjectID {
	uid, _ := r.Context().Value(authUserKey{}).(primitive.ObjectID)
	return uid
}
