// Copyright (c) 2025-2026 CSE Motors
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/csemotors/motors-go/internal/model"
	"github.com/csemotors/motors-go/internal/view"
	"github.com/csemotors/motors-go/web"
)

func newTestRenderer(t *testing.T) (*Renderer, *scs.SessionManager) {
	t.Helper()

	sm := scs.New()
	sm.Cookie.Secure = false

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("templates fs: %v", err)
	}
	r, err := New(Config{TemplatesFS: templatesFS, SessionManager: sm, IsDev: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r, sm
}

// serve runs fn inside the session middleware and returns the response.
func serve(sm *scs.SessionManager, fn http.HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	sm.LoadAndSave(fn).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestRender_Page(t *testing.T) {
	r, sm := newTestRenderer(t)

	rec := serve(sm, func(w http.ResponseWriter, req *http.Request) {
		err := r.Render(w, req, http.StatusOK, "pages/home", TemplateData{
			Title: "Home",
			Nav:   []model.Classification{{ID: 1, Name: "SUV"}},
		})
		if err != nil {
			t.Errorf("Render: %v", err)
		}
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<title>Home | CSE Motors</title>") {
		t.Error("title missing")
	}
	if !strings.Contains(body, "/inv/type/1") {
		t.Error("nav link missing")
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	r, sm := newTestRenderer(t)

	serve(sm, func(w http.ResponseWriter, req *http.Request) {
		if err := r.Render(w, req, http.StatusOK, "pages/nope", TemplateData{}); err == nil {
			t.Error("unknown template must error")
		}
	})
}

func TestRender_FlashPopsOnce(t *testing.T) {
	r, sm := newTestRenderer(t)

	second := httptest.NewRecorder()
	rec := serve(sm, func(w http.ResponseWriter, req *http.Request) {
		r.SetFlash(req, "Saved.", "success")
		if err := r.Render(w, req, http.StatusOK, "pages/home", TemplateData{}); err != nil {
			t.Errorf("Render: %v", err)
		}
		// Popped on the first render, gone on the second.
		if err := r.Render(second, req, http.StatusOK, "pages/home", TemplateData{}); err != nil {
			t.Errorf("second Render: %v", err)
		}
	})

	if !strings.Contains(rec.Body.String(), "Saved.") {
		t.Error("flash message missing from first render")
	}
	if !strings.Contains(rec.Body.String(), "flash-success") {
		t.Error("flash type class missing")
	}
	if strings.Contains(second.Body.String(), "Saved.") {
		t.Error("flash must not survive past its first render")
	}
}

func TestRender_NumberFormatting(t *testing.T) {
	r, sm := newTestRenderer(t)

	vehicle := model.Vehicle{
		ID: 1, ClassificationID: 1,
		Make: "Jeep", Model: "Wrangler", Year: 2019,
		Description: "Small and compact.",
		Image:       "/images/vehicles/wrangler.jpg",
		Thumbnail:   "/images/vehicles/wrangler-tn.jpg",
		Price:       28045, Miles: 41450, Color: "Yellow",
	}

	rec := serve(sm, func(w http.ResponseWriter, req *http.Request) {
		err := r.Render(w, req, http.StatusOK, "inventory/detail", TemplateData{
			Title: "2019 Jeep Wrangler",
			Data:  view.NewVehicleDetail(vehicle),
		})
		if err != nil {
			t.Errorf("Render: %v", err)
		}
	})

	body := rec.Body.String()
	if !strings.Contains(body, "$28,045") {
		t.Error("price must be grouped US-style")
	}
	if !strings.Contains(body, "41,450") {
		t.Error("mileage must be grouped US-style")
	}
}
