// Copyright (c) 2025-2026 CSE Motors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application: Account, Classification and Vehicle.
package model

import "time"

// Account roles. Registration always creates Client accounts; Employee and
// Admin are assigned out of band.
const (
	RoleClient   = "Client"
	RoleEmployee = "Employee"
	RoleAdmin    = "Admin"
)

// ValidRoles contains all valid account roles.
var ValidRoles = []string{RoleClient, RoleEmployee, RoleAdmin}

// Account represents a dealership account.
type Account struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsEmployee returns true if the account holds Employee or Admin role.
func (a *Account) IsEmployee() bool {
	return a.Role == RoleEmployee || a.Role == RoleAdmin
}

// IsAdmin returns true if the account holds Admin role.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}
