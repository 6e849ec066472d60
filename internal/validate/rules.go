// Copyright (c) 2025-2026 CSE Motors
// SPDX-License-Identifier: GPL-3.0-or-later

package validate

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/csemotors/motors-go/internal/store"
)

// Form field names shared with the templates.
const (
	FieldFirstName       = "account_firstname"
	FieldLastName        = "account_lastname"
	FieldEmail           = "account_email"
	FieldCurrentEmail    = "current_email"
	FieldPassword        = "account_password"
	FieldNewPassword     = "new_password"
	FieldConfirmPassword = "confirm_password"

	FieldClassificationName    = "classification_name"
	FieldCurrentClassification = "current_name"
	FieldClassificationID      = "classification_id"
	FieldMake                  = "inv_make"
	FieldModel                 = "inv_model"
	FieldYear                  = "inv_year"
	FieldDescription           = "inv_description"
	FieldImage                 = "inv_image"
	FieldThumbnail             = "inv_thumbnail"
	FieldPrice                 = "inv_price"
	FieldMiles                 = "inv_miles"
	FieldColor                 = "inv_color"
)

// classificationNameRe: single word, letters and digits only.
var classificationNameRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// imagePathRe: a rooted path with an image extension.
var imagePathRe = regexp.MustCompile(`^/[\w\-./]+\.(png|jpg|jpeg|webp|gif)$`)

// RegistrationRules validates the registration form. The email must not
// already exist in the store.
func RegistrationRules(q *store.Queries) []Rule {
	return []Rule{
		{Field: FieldFirstName, Checks: []Check{
			Required("Please provide a first name."),
		}},
		{Field: FieldLastName, Checks: []Check{
			MinLength(2, "Please provide a last name."),
		}},
		{Field: FieldEmail, Checks: []Check{
			Required("A valid email is required."),
			Email("A valid email is required."),
		}, Store: emailNotTaken(q, "", "Email exists. Please log in or use different email.")},
		{Field: FieldPassword, Checks: []Check{
			StrongPassword("Password does not meet requirements."),
		}},
	}
}

// LoginRules validates the login form shape only. Credential verification
// happens in the handler so that unknown-email and wrong-password failures
// stay indistinguishable to the caller.
func LoginRules() []Rule {
	return []Rule{
		{Field: FieldEmail, Checks: []Check{
			Required("A valid email is required."),
			Email("A valid email is required."),
		}},
		{Field: FieldPassword, Checks: []Check{
			Required("Password is required."),
		}},
	}
}

// UpdateInfoRules validates the account-info update form. Re-submitting the
// account's own current email passes the uniqueness check.
func UpdateInfoRules(q *store.Queries) []Rule {
	return []Rule{
		{Field: FieldFirstName, Checks: []Check{
			Required("Please provide a first name."),
		}},
		{Field: FieldLastName, Checks: []Check{
			MinLength(2, "Please provide a last name."),
		}},
		{Field: FieldEmail, Checks: []Check{
			Required("A valid email is required."),
			Email("A valid email is required."),
		}, Store: emailNotTaken(q, FieldCurrentEmail, "Email exists. Please use a different email.")},
	}
}

// UpdatePasswordRules validates the password-change form.
func UpdatePasswordRules() []Rule {
	return []Rule{
		{Field: FieldNewPassword, Checks: []Check{
			StrongPassword("New password does not meet requirements."),
		}},
		{Field: FieldConfirmPassword, Checks: []Check{
			MatchesField(FieldNewPassword, "Passwords do not match."),
		}},
	}
}

// ClassificationRules validates the add-classification form. The name must
// not already exist in the store.
func ClassificationRules(q *store.Queries) []Rule {
	return []Rule{
		{Field: FieldClassificationName, Checks: []Check{
			Required("Please provide a valid classification name."),
			Pattern(classificationNameRe, "Please provide a valid classification name."),
		}, Store: classificationNotTaken(q, "")},
	}
}

// ClassificationUpdateRules validates the rename form; keeping the current
// name passes the uniqueness check.
func ClassificationUpdateRules(q *store.Queries) []Rule {
	return []Rule{
		{Field: FieldClassificationName, Checks: []Check{
			Required("Please provide a valid classification name."),
			Pattern(classificationNameRe, "Please provide a valid classification name."),
		}, Store: classificationNotTaken(q, FieldCurrentClassification)},
	}
}

// InventoryRules validates the add/edit inventory form.
func InventoryRules() []Rule {
	return []Rule{
		{Field: FieldClassificationID, Checks: []Check{
			IntRange(1, 1<<31, "Please choose a classification."),
		}},
		{Field: FieldMake, Checks: []Check{
			MinLength(3, "Please provide a make of at least 3 characters."),
		}},
		{Field: FieldModel, Checks: []Check{
			MinLength(3, "Please provide a model of at least 3 characters."),
		}},
		{Field: FieldYear, Checks: []Check{
			IntRange(1900, 2100, "Please provide a 4-digit year."),
		}},
		{Field: FieldDescription, Checks: []Check{
			Required("Please provide a description."),
		}},
		{Field: FieldImage, Checks: []Check{
			Pattern(imagePathRe, "Please provide an image path."),
		}},
		{Field: FieldThumbnail, Checks: []Check{
			Pattern(imagePathRe, "Please provide a thumbnail path."),
		}},
		{Field: FieldPrice, Checks: []Check{
			Float("Please provide a price."),
		}},
		{Field: FieldMiles, Checks: []Check{
			IntRange(0, 1<<40, "Please provide the mileage."),
		}},
		{Field: FieldColor, Checks: []Check{
			Required("Please provide a color."),
		}},
	}
}

// emailNotTaken builds the email uniqueness check. When excludeField names a
// form field, a value equal to that field (the account's current email)
// passes without touching the store.
func emailNotTaken(q *store.Queries, excludeField, message string) StoreCheck {
	return func(ctx context.Context, value string, form url.Values) string {
		if excludeField != "" && value == strings.TrimSpace(form.Get(excludeField)) {
			return "" // unchanged from current, no check needed
		}
		n, err := q.CountAccountsByEmail(ctx, value)
		if err != nil {
			slog.Error("database error checking email", "error", err)
			return "Error checking email. Please try again."
		}
		if n > 0 {
			return message
		}
		return ""
	}
}

// classificationNotTaken builds the classification-name uniqueness check
// with the same self-exclusion behavior as emailNotTaken.
func classificationNotTaken(q *store.Queries, excludeField string) StoreCheck {
	return func(ctx context.Context, value string, form url.Values) string {
		if excludeField != "" && value == strings.TrimSpace(form.Get(excludeField)) {
			return ""
		}
		n, err := q.CountClassificationsByName(ctx, value)
		if err != nil {
			slog.Error("database error checking classification", "error", err)
			return "Error checking classification. Please try again."
		}
		if n > 0 {
			return "Classification exists. Try again."
		}
		return ""
	}
}
