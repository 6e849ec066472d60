// Copyright (c) 2025-2026 CSE Motors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/csemotors/motors-go/internal/auth"
	"github.com/csemotors/motors-go/internal/middleware"
	"github.com/csemotors/motors-go/internal/model"
	"github.com/csemotors/motors-go/internal/render"
	"github.com/csemotors/motors-go/internal/store"
	"github.com/csemotors/motors-go/internal/validate"
)

// loginFailedMessage deliberately does not reveal whether the email exists.
const loginFailedMessage = "Sorry, login failed. Please check your credentials and try again."

// AccountHandler handles registration, login and account management routes.
type AccountHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	tokens          *auth.TokenManager
	loginProtection *middleware.LoginProtection
	isDev           bool
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, tm *auth.TokenManager, lp *middleware.LoginProtection, isDev bool) *AccountHandler {
	return &AccountHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		tokens:          tm,
		loginProtection: lp,
		isDev:           isDev,
	}
}

// LoginForm renders the login page. Already-authenticated callers go to the
// management page instead.
func (h *AccountHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetAuth(r).Authenticated {
		http.Redirect(w, r, redirectAccount, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, http.StatusOK, render.TemplateData{})
}

// Login handles the login form submission. Unknown email and wrong password
// produce the same message so accounts cannot be enumerated.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	errs := validate.Run(r.Context(), r.Form, validate.LoginRules())
	if len(errs) > 0 {
		h.renderLogin(w, r, http.StatusOK, render.TemplateData{
			Errors: errs,
			Form:   formMap(r.Form),
		})
		return
	}

	email := r.Form.Get(validate.FieldEmail)
	password := r.Form.Get(validate.FieldPassword)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			slog.Warn("login attempt on locked account", "email", email)
			h.failLogin(w, r, email, fmt.Sprintf("Account temporarily locked. Try again in %s.", remaining.Round(time.Second)))
			return
		}
	}

	account, err := h.queries.GetAccountByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("database error during login", "error", err)
		}
		// Record the attempt even for unknown emails so probing costs the
		// same as guessing a password.
		h.recordFailure(email)
		h.failLogin(w, r, email, loginFailedMessage)
		return
	}

	valid, err := auth.CheckPassword(password, account.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err, "account_id", account.ID)
		h.failLogin(w, r, email, loginFailedMessage)
		return
	}
	if !valid {
		h.recordFailure(email)
		h.failLogin(w, r, email, loginFailedMessage)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	token, err := h.tokens.Issue(account)
	if err != nil {
		logAndInternalError(w, "failed to issue session token", "error", err, "account_id", account.ID)
		return
	}
	auth.SetTokenCookie(w, token, h.tokens.TTL(), h.isDev)

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		slog.Error("session renewal error", "error", err)
	}

	slog.Info("account logged in", "account_id", account.ID, "email", account.Email)
	flashSuccess(w, r, h.renderer, redirectAccount, fmt.Sprintf("Welcome back, %s.", account.FirstName))
}

// RegisterForm renders the registration page.
func (h *AccountHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetAuth(r).Authenticated {
		http.Redirect(w, r, redirectAccount, http.StatusSeeOther)
		return
	}
	h.renderRegister(w, r, http.StatusOK, render.TemplateData{})
}

// Register handles the registration form submission. New accounts are always
// created with the Client role; elevation is a separate administrative act.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAccount+"register") {
		return
	}

	errs := validate.Run(r.Context(), r.Form, validate.RegistrationRules(h.queries))
	if len(errs) > 0 {
		h.renderRegister(w, r, http.StatusOK, render.TemplateData{
			Errors: errs,
			Form:   formMap(r.Form),
		})
		return
	}

	hash, err := auth.HashPassword(r.Form.Get(validate.FieldPassword))
	if err != nil {
		logAndInternalError(w, "failed to hash password", "error", err)
		return
	}

	account, err := h.queries.CreateAccount(r.Context(), store.CreateAccountParams{
		FirstName:    r.Form.Get(validate.FieldFirstName),
		LastName:     r.Form.Get(validate.FieldLastName),
		Email:        r.Form.Get(validate.FieldEmail),
		PasswordHash: hash,
		Role:         model.RoleClient,
	})
	if err != nil {
		slog.Error("failed to create account", "error", err)
		h.renderer.SetFlash(r, "Sorry, the registration failed.", "error")
		h.renderRegister(w, r, http.StatusInternalServerError, render.TemplateData{
			Form: formMap(r.Form),
		})
		return
	}

	slog.Info("account registered", "account_id", account.ID, "email", account.Email)
	flashSuccess(w, r, h.renderer, redirectLogin,
		fmt.Sprintf("Congratulations, you're registered %s. Please log in.", account.FirstName))
}

// Logout clears the session token and returns to the home page.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearTokenCookie(w, h.isDev)
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		slog.Error("session renewal error", "error", err)
	}
	flashAndRedirect(w, r, h.renderer, redirectRoot, "You have been logged out.", "notice")
}

// Management renders the account management page.
func (h *AccountHandler) Management(w http.ResponseWriter, r *http.Request) {
	data := render.TemplateData{
		Title: "Account Management",
		Nav:   loadNav(r, h.queries),
	}
	if err := h.renderer.Render(w, r, http.StatusOK, "account/management", data); err != nil {
		logAndInternalError(w, "failed to render account management", "error", err)
	}
}

// UpdateForm renders the account update page, pre-filled from the store.
// Accounts can only edit themselves.
func (h *AccountHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	account, ok := h.requireOwnAccount(w, r)
	if !ok {
		return
	}

	h.renderUpdate(w, r, http.StatusOK, account, render.TemplateData{
		Form: map[string]string{
			validate.FieldFirstName: account.FirstName,
			validate.FieldLastName:  account.LastName,
			validate.FieldEmail:     account.Email,
		},
	})
}

// Update handles both branches of the account update form, selected by the
// update_type field: "info" rewrites name and email, "password" replaces the
// stored hash.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	account, ok := h.requireOwnAccount(w, r)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAccount) {
		return
	}

	switch r.Form.Get("update_type") {
	case "info":
		h.updateInfo(w, r, account)
	case "password":
		h.updatePassword(w, r, account)
	default:
		flashError(w, r, h.renderer, redirectAccount, "Unknown update request.")
	}
}

func (h *AccountHandler) updateInfo(w http.ResponseWriter, r *http.Request, account model.Account) {
	// The self-exclusion baseline comes from the store, not the client.
	r.Form.Set(validate.FieldCurrentEmail, account.Email)

	errs := validate.Run(r.Context(), r.Form, validate.UpdateInfoRules(h.queries))
	if len(errs) > 0 {
		h.renderUpdate(w, r, http.StatusOK, account, render.TemplateData{
			Errors: errs,
			Form:   formMap(r.Form),
		})
		return
	}

	err := h.queries.UpdateAccountInfo(r.Context(), store.UpdateAccountInfoParams{
		FirstName: r.Form.Get(validate.FieldFirstName),
		LastName:  r.Form.Get(validate.FieldLastName),
		Email:     r.Form.Get(validate.FieldEmail),
		ID:        account.ID,
	})
	if err != nil {
		slog.Error("failed to update account info", "error", err, "account_id", account.ID)
		h.renderer.SetFlash(r, "Sorry, the update failed.", "error")
		h.renderUpdate(w, r, http.StatusInternalServerError, account, render.TemplateData{
			Form: formMap(r.Form),
		})
		return
	}

	// The token embeds the first name; refresh it so the header greeting
	// matches the new data.
	if fresh, err := h.queries.GetAccountByID(r.Context(), account.ID); err == nil {
		if token, err := h.tokens.Issue(fresh); err == nil {
			auth.SetTokenCookie(w, token, h.tokens.TTL(), h.isDev)
		} else {
			slog.Error("failed to re-issue session token", "error", err, "account_id", account.ID)
		}
	}

	flashSuccess(w, r, h.renderer, redirectAccount, "Congratulations, your information has been updated.")
}

func (h *AccountHandler) updatePassword(w http.ResponseWriter, r *http.Request, account model.Account) {
	errs := validate.Run(r.Context(), r.Form, validate.UpdatePasswordRules())
	if len(errs) > 0 {
		h.renderUpdate(w, r, http.StatusOK, account, render.TemplateData{
			Errors: errs,
			Form:   formMap(r.Form),
		})
		return
	}

	hash, err := auth.HashPassword(r.Form.Get(validate.FieldNewPassword))
	if err != nil {
		logAndInternalError(w, "failed to hash password", "error", err)
		return
	}

	if err := h.queries.UpdateAccountPassword(r.Context(), account.ID, hash); err != nil {
		slog.Error("failed to update password", "error", err, "account_id", account.ID)
		h.renderer.SetFlash(r, "Sorry, the update failed.", "error")
		h.renderUpdate(w, r, http.StatusInternalServerError, account, render.TemplateData{})
		return
	}

	flashSuccess(w, r, h.renderer, redirectAccount, "Congratulations, your password has been updated.")
}

// requireOwnAccount resolves the {accountId} route parameter and verifies it
// matches the authenticated caller.
func (h *AccountHandler) requireOwnAccount(w http.ResponseWriter, r *http.Request) (model.Account, bool) {
	id, ok := idParam(r, "accountId")
	if !ok {
		flashError(w, r, h.renderer, redirectAccount, "Invalid account.")
		return model.Account{}, false
	}

	ac := middleware.GetAuth(r)
	if id != ac.AccountID {
		slog.Warn("account update attempt on foreign account",
			"account_id", ac.AccountID, "target_id", id)
		flashError(w, r, h.renderer, redirectAccount, "You can only update your own account.")
		return model.Account{}, false
	}

	account, err := h.queries.GetAccountByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			flashError(w, r, h.renderer, redirectAccount, "Account not found.")
		} else {
			slog.Error("failed to load account", "error", err, "account_id", id)
			flashError(w, r, h.renderer, redirectAccount, "Error loading account.")
		}
		return model.Account{}, false
	}
	return account, true
}

func (h *AccountHandler) recordFailure(email string) {
	if h.loginProtection == nil {
		return
	}
	if locked, duration := h.loginProtection.RecordFailedAttempt(email); locked {
		slog.Warn("account locked after failed logins", "email", email, "duration", duration)
	}
}

// failLogin re-renders the login form with a flash message, keeping the
// submitted email.
func (h *AccountHandler) failLogin(w http.ResponseWriter, r *http.Request, email, message string) {
	h.renderer.SetFlash(r, message, "notice")
	h.renderLogin(w, r, http.StatusOK, render.TemplateData{
		Form: map[string]string{validate.FieldEmail: email},
	})
}

func (h *AccountHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, data render.TemplateData) {
	data.Title = "Login"
	data.Nav = loadNav(r, h.queries)
	if err := h.renderer.Render(w, r, status, "account/login", data); err != nil {
		logAndInternalError(w, "failed to render login page", "error", err)
	}
}

func (h *AccountHandler) renderRegister(w http.ResponseWriter, r *http.Request, status int, data render.TemplateData) {
	data.Title = "Register"
	data.Nav = loadNav(r, h.queries)
	if err := h.renderer.Render(w, r, status, "account/register", data); err != nil {
		logAndInternalError(w, "failed to render registration page", "error", err)
	}
}

func (h *AccountHandler) renderUpdate(w http.ResponseWriter, r *http.Request, status int, account model.Account, data render.TemplateData) {
	data.Title = "Update Account"
	data.Nav = loadNav(r, h.queries)
	data.Data = account
	if err := h.renderer.Render(w, r, status, "account/update", data); err != nil {
		logAndInternalError(w, "failed to render account update page", "error", err)
	}
}
