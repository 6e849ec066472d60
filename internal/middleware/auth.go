// Copyright (c) 2025-2026 CSE Motors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request hardening.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/csemotors/motors-go/internal/auth"
	"github.com/csemotors/motors-go/internal/model"
	"github.com/csemotors/motors-go/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyAuth is the request-context key holding the AuthContext.
const ContextKeyAuth ContextKey = "auth"

// Redirect targets for authorization failures.
const (
	loginPath       = "/account/login"
	accountHomePath = "/account/"
)

// AuthContext is the per-request authentication state derived from the
// session-token cookie. The zero value is the unauthenticated default.
type AuthContext struct {
	Authenticated bool
	AccountID     int64
	FirstName     string
	Role          string
	IsEmployee    bool
	IsAdmin       bool
}

// VerifyToken creates middleware that establishes the authentication context
// for every request. It must run before any guard.
//
// A missing cookie is not an error: the request continues unauthenticated.
// A present-but-invalid token (bad signature, expired, malformed) clears the
// stale cookie and bounces to the login page with a notice; it never surfaces
// as a 4xx/5xx.
func VerifyToken(tm *auth.TokenManager, sm *scs.SessionManager, isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.TokenCookieName)
			if err != nil {
				next.ServeHTTP(w, r.WithContext(withAuth(r.Context(), AuthContext{})))
				return
			}

			claims, err := tm.Verify(cookie.Value)
			if err != nil {
				slog.Debug("session token rejected", "error", err, "path", r.URL.Path)
				auth.ClearTokenCookie(w, isDev)
				setNotice(r, sm, "Please log in.")
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			accountID, err := claims.AccountID()
			if err != nil {
				slog.Warn("session token has malformed subject", "error", err)
				auth.ClearTokenCookie(w, isDev)
				setNotice(r, sm, "Please log in.")
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			ac := AuthContext{
				Authenticated: true,
				AccountID:     accountID,
				FirstName:     claims.FirstName,
				Role:          claims.Role,
				IsEmployee:    claims.Role == model.RoleEmployee || claims.Role == model.RoleAdmin,
				IsAdmin:       claims.Role == model.RoleAdmin,
			}
			next.ServeHTTP(w, r.WithContext(withAuth(r.Context(), ac)))
		})
	}
}

// GetAuth retrieves the authentication context from the request.
// Returns the unauthenticated default if VerifyToken has not run.
func GetAuth(r *http.Request) AuthContext {
	ac, ok := r.Context().Value(ContextKeyAuth).(AuthContext)
	if !ok {
		return AuthContext{}
	}
	return ac
}

// RequireLogin creates middleware that requires an authenticated account.
// Unauthenticated callers are redirected to the login page with a notice.
func RequireLogin(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !GetAuth(r).Authenticated {
				setNotice(r, sm, "Please log in.")
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireEmployee creates middleware that requires Employee or Admin role.
// An authenticated but under-privileged caller is redirected to the account
// home page, not to login. A missing context fails closed to login.
func RequireEmployee(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return requireRole(sm, func(ac AuthContext) bool { return ac.IsEmployee })
}

// RequireAdmin creates middleware that requires Admin role.
func RequireAdmin(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return requireRole(sm, func(ac AuthContext) bool { return ac.IsAdmin })
}

func requireRole(sm *scs.SessionManager, allowed func(AuthContext) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac := GetAuth(r)
			if !ac.Authenticated {
				setNotice(r, sm, "Please log in.")
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			if !allowed(ac) {
				slog.Warn("access denied",
					"method", r.Method,
					"path", r.URL.Path,
					"account_id", ac.AccountID,
					"role", ac.Role,
				)
				setNotice(r, sm, "You do not have permission to access that page.")
				http.Redirect(w, r, accountHomePath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// setNotice stores a one-shot notice in the session for the next render.
func setNotice(r *http.Request, sm *scs.SessionManager, message string) {
	if sm == nil {
		return
	}
	sm.Put(r.Context(), session.KeyFlash, message)
	sm.Put(r.Context(), session.KeyFlashType, "notice")
}

func withAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, ContextKeyAuth, ac)
}
