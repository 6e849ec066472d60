// Copyright (c) 2025-2026 CSE Motors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/csemotors/motors-go/internal/render"
	"github.com/csemotors/motors-go/internal/store"
)

// User-facing error page copy.
const (
	notFoundMessage    = "Sorry, we appear to have lost that page."
	serverErrorMessage = "Oh no! There was a crash. Maybe try a different route?"
)

// errorPageData feeds the shared error view.
type errorPageData struct {
	Status  int
	Message string
}

// PageHandler serves the home page and the error views.
type PageHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(db *sql.DB, renderer *render.Renderer) *PageHandler {
	return &PageHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// Home renders the home page.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := render.TemplateData{
		Title: "Home",
		Nav:   loadNav(r, h.queries),
	}
	if err := h.renderer.Render(w, r, http.StatusOK, "pages/home", data); err != nil {
		logAndInternalError(w, "failed to render home page", "error", err)
	}
}

// Problem fails on purpose so the crash path stays exercised.
func (h *PageHandler) Problem(w http.ResponseWriter, r *http.Request) {
	err := errors.New("intentional failure for error-path testing")
	slog.Error("intentional error route hit", "error", err, "path", r.URL.Path)
	h.ServerError(w, r)
}

// NotFound renders the error view for unmatched routes.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, notFoundMessage)
}

// ServerError renders the error view for unexpected failures. The cause is
// expected to have been logged by the caller; the page stays generic.
func (h *PageHandler) ServerError(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusInternalServerError, serverErrorMessage)
}

func (h *PageHandler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := render.TemplateData{
		Title: http.StatusText(status),
		Nav:   loadNav(r, h.queries),
		Data:  errorPageData{Status: status, Message: message},
	}
	if err := h.renderer.Render(w, r, status, "pages/error", data); err != nil {
		logAndHTTPError(w, message, status, "failed to render error page", "error", err)
	}
}
