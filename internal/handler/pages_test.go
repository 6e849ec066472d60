// Copyright (c) 2025-2026 CSE Motors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/csemotors/motors-go/internal/model"
)

func TestHome(t *testing.T) {
	app := newTestApp(t)
	app.createClassification(t, "SUV")

	rec := app.get("/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "CSE Motors") {
		t.Error("site name missing from home page")
	}
	// Every page carries the classification nav.
	if !strings.Contains(body, "/inv/type/") {
		t.Error("classification nav missing")
	}
}

func TestHome_HeaderFollowsAuthState(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/")
	if !strings.Contains(rec.Body.String(), "My Account") {
		t.Error("anonymous header must link to My Account")
	}

	account := app.createAccount(t, "basil@example.com", model.RoleClient)
	rec = app.get("/", app.tokenCookie(t, account))
	body := rec.Body.String()
	if !strings.Contains(body, "Welcome Test") {
		t.Error("authenticated header must greet by first name")
	}
	if !strings.Contains(body, "Logout") {
		t.Error("authenticated header must offer Logout")
	}
}

func TestNotFound(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/no/such/route")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), notFoundMessage) {
		t.Error("not-found message missing")
	}
}

func TestProblem(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/problem")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), serverErrorMessage) {
		t.Error("server error message missing")
	}
}
