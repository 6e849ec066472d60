// Copyright (c) 2025-2026 CSE Motors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers for the account, inventory and
// informational pages, plus the route constants the router is built from.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/csemotors/motors-go/internal/model"
	"github.com/csemotors/motors-go/internal/store"
)

// logAndHTTPError logs an error and writes an HTTP error response.
func logAndHTTPError(w http.ResponseWriter, message string, statusCode int, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, message, statusCode)
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	logAndHTTPError(w, "Internal Server Error", http.StatusInternalServerError, logMsg, args...)
}

// loadNav loads the classification navigation shown on every page. A failure
// is logged and the page renders without the dynamic part of the nav.
func loadNav(r *http.Request, q *store.Queries) []model.Classification {
	nav, err := q.ListClassifications(r.Context())
	if err != nil {
		slog.Error("failed to load navigation", "error", err)
		return nil
	}
	return nav
}
