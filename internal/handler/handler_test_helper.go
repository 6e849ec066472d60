// Copyright (c) 2025-2026 CSE Motors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/csemotors/motors-go/internal/auth"
	"github.com/csemotors/motors-go/internal/middleware"
	"github.com/csemotors/motors-go/internal/model"
	"github.com/csemotors/motors-go/internal/render"
	"github.com/csemotors/motors-go/internal/store"
	"github.com/csemotors/motors-go/internal/testutil"
	"github.com/csemotors/motors-go/web"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

const testPassword = "I@mABas1cPassw0rd"

// testApp bundles the router and collaborators for handler tests.
type testApp struct {
	db      *sql.DB
	queries *store.Queries
	tokens  *auth.TokenManager
	router  chi.Router
}

// newTestApp builds a router with the same middleware and route layout as
// the real server, minus CSRF and rate limiting.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	sm := scs.New()
	sm.Cookie.Secure = false

	tokens := auth.NewTokenManager(testSecret, time.Hour)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("templates fs: %v", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	pageHandler := NewPageHandler(db, renderer)
	accountHandler := NewAccountHandler(db, renderer, sm, tokens, nil, true)
	inventoryHandler := NewInventoryHandler(db, renderer, sm, pageHandler)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(middleware.VerifyToken(tokens, sm, true))

	r.Get(RouteRoot, pageHandler.Home)
	r.Get(RouteProblem, pageHandler.Problem)

	r.Route(RouteAccount, func(r chi.Router) {
		r.Get(RouteLogin, accountHandler.LoginForm)
		r.Post(RouteLogin, accountHandler.Login)
		r.Get(RouteRegister, accountHandler.RegisterForm)
		r.Post(RouteRegister, accountHandler.Register)
		r.Get(RouteLogout, accountHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireLogin(sm))
			r.Get(RouteRoot, accountHandler.Management)
			r.Get(RouteAccountUpdateID, accountHandler.UpdateForm)
			r.Post(RouteAccountUpdateID, accountHandler.Update)
		})
	})

	r.Route(RouteInv, func(r chi.Router) {
		r.Get(RouteTypeID, inventoryHandler.ByClassification)
		r.Get(RouteDetailID, inventoryHandler.Detail)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireEmployee(sm))
			r.Get(RouteRoot, inventoryHandler.Management)
			r.Get(RouteGetInventoryID, inventoryHandler.GetInventoryJSON)
			r.Get(RouteAddClassification, inventoryHandler.AddClassificationForm)
			r.Post(RouteAddClassification, inventoryHandler.AddClassification)
			r.Get(RouteAddInventory, inventoryHandler.AddInventoryForm)
			r.Post(RouteAddInventory, inventoryHandler.AddInventory)
			r.Get(RouteEditID, inventoryHandler.EditForm)
			r.Post(RouteEditID, inventoryHandler.Edit)
			r.Get(RouteDeleteID, inventoryHandler.DeleteForm)
			r.Post(RouteDeleteID, inventoryHandler.Delete)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(sm))
			r.Get(RouteClassEditID, inventoryHandler.ClassEditForm)
			r.Post(RouteClassEditID, inventoryHandler.ClassEdit)
			r.Get(RouteClassDeleteID, inventoryHandler.ClassDeleteForm)
			r.Post(RouteClassDeleteID, inventoryHandler.ClassDelete)
		})
	})

	r.NotFound(pageHandler.NotFound)

	return &testApp{
		db:      db,
		queries: store.New(db),
		tokens:  tokens,
		router:  r,
	}
}

// createAccount inserts an account with the shared test password and returns it.
func (app *testApp) createAccount(t *testing.T, email, role string) model.Account {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	account, err := app.queries.CreateAccount(context.Background(), store.CreateAccountParams{
		FirstName:    "Test",
		LastName:     "Account",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	return account
}

func (app *testApp) createClassification(t *testing.T, name string) model.Classification {
	t.Helper()
	c, err := app.queries.CreateClassification(context.Background(), name)
	if err != nil {
		t.Fatalf("CreateClassification: %v", err)
	}
	return c
}

func (app *testApp) createVehicle(t *testing.T, classificationID int64) model.Vehicle {
	t.Helper()
	v, err := app.queries.CreateVehicle(context.Background(), store.VehicleParams{
		ClassificationID: classificationID,
		Make:             "Jeep",
		Model:            "Wrangler",
		Year:             2019,
		Description:      "Small and compact.",
		Image:            "/images/vehicles/wrangler.jpg",
		Thumbnail:        "/images/vehicles/wrangler-tn.jpg",
		Price:            28045,
		Miles:            41450,
		Color:            "Yellow",
	})
	if err != nil {
		t.Fatalf("CreateVehicle: %v", err)
	}
	return v
}

// tokenCookie issues a session-token cookie for the account.
func (app *testApp) tokenCookie(t *testing.T, account model.Account) *http.Cookie {
	t.Helper()
	token, err := app.tokens.Issue(account)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return &http.Cookie{Name: auth.TokenCookieName, Value: token}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// get performs a GET request against the test router.
func (app *testApp) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

// postForm performs a form POST against the test router.
func (app *testApp) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}
