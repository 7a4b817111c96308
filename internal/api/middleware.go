package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/johnyfernandes/Shlf-Backend/internal/http/response"
	"github.com/johnyfernandes/Shlf-Backend/internal/identity"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyOwner contextKey = "owner"

// resolveOwner is middleware that resolves request credentials into an owner.
// A present bearer token always wins: if it fails verification the request is
// rejected even when a device ID is also present. With no bearer, a non-empty
// X-Device-ID header yields an anonymous device owner.
func (s *Server) resolveOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bearer, ok := bearerToken(r)
		if !ok {
			response.Unauthorized(w, "Invalid authorization header format", s.logger)
			return
		}

		owner, err := s.resolver.Resolve(bearer, r.Header.Get("X-Device-ID"))
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyOwner, owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolveOwnerLenient resolves credentials but never rejects the request:
// a bad token degrades to an unidentified owner. Used on public endpoints
// where identity only personalizes the response.
func (s *Server) resolveOwnerLenient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bearer, ok := bearerToken(r)
		if !ok {
			bearer = ""
		}

		owner := s.resolver.ResolveLenient(bearer, r.Header.Get("X-Device-ID"))

		ctx := context.WithValue(r.Context(), contextKeyOwner, owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireOwner ensures the request resolved to a user or a device.
// Must be used after resolveOwner.
func (s *Server) requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !getOwner(r.Context()).Identified() {
			response.Unauthorized(w, "Authentication required", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireUser ensures the request resolved to an authenticated account.
// Must be used after resolveOwner.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !getOwner(r.Context()).IsUser() {
			response.Unauthorized(w, "Authentication required", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimit throttles requests per client IP.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// RealIP middleware has already rewritten RemoteAddr.
		key := clientIP(r)

		if !s.limiter.Allow(key) {
			s.logger.Warn("Rate limit exceeded", "ip", key, "path", r.URL.Path)
			response.TooManyRequests(w, "Too many requests. Please try again later.", s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the bearer token from the Authorization header.
// Returns ("", true) when no header is present and ("", false) when the
// header is present but malformed.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", true
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// getOwner extracts the resolved owner from request context.
// Returns an unidentified owner when resolution never ran.
func getOwner(ctx context.Context) identity.Owner {
	if owner, ok := ctx.Value(contextKeyOwner).(identity.Owner); ok {
		return owner
	}
	return identity.Unidentified()
}

// getUserID extracts the authenticated user ID from request context.
// Returns empty string if the owner is not an account.
func getUserID(ctx context.Context) string {
	userID, _ := getOwner(ctx).UserID()
	return userID
}

// clientIP extracts the client IP from the request, stripping any port.
func clientIP(r *http.Request) string {
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}
