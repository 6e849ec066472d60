// Copyright (c) 2025-2026 CSE Motors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package validate implements the per-route request-validation pipeline:
// ordered field rules over a parsed form, producing an ordered list of
// (field, message) pairs. Rules only ever read from the store.
package validate

import (
	"context"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// FieldError is one validation failure for one form field.
type FieldError struct {
	Field   string
	Message string
}

// Errors is the ordered result of running a rule set.
type Errors []FieldError

// Has reports whether any error was recorded for the given field.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Messages returns all error messages in rule-declaration order.
func (e Errors) Messages() []string {
	out := make([]string, len(e))
	for i, fe := range e {
		out[i] = fe.Message
	}
	return out
}

// Check inspects a single trimmed field value against the whole form.
// It returns an error message, or "" when the value passes.
type Check func(value string, form url.Values) string

// StoreCheck is an asynchronous uniqueness/existence check consulting the
// store. It returns an error message, or "" when the value passes.
type StoreCheck func(ctx context.Context, value string, form url.Values) string

// Rule declares the ordered checks for one form field. The first failing
// check produces the field's message; the store check runs only when every
// shape check passed.
type Rule struct {
	Field  string
	Checks []Check
	Store  StoreCheck
}

// Run executes every rule against the form. Rules are never short-circuited
// across fields, so a re-rendered form can show every problem at once. The
// result preserves rule-declaration order.
func Run(ctx context.Context, form url.Values, rules []Rule) Errors {
	var errs Errors
	for _, rule := range rules {
		value := strings.TrimSpace(form.Get(rule.Field))

		failed := false
		for _, check := range rule.Checks {
			if msg := check(value, form); msg != "" {
				errs = append(errs, FieldError{Field: rule.Field, Message: msg})
				failed = true
				break
			}
		}
		if failed || rule.Store == nil {
			continue
		}
		if msg := rule.Store(ctx, value, form); msg != "" {
			errs = append(errs, FieldError{Field: rule.Field, Message: msg})
		}
	}
	return errs
}

// ----------------------------------------------------------------------------
// Shape checks
// ----------------------------------------------------------------------------

// Required fails on an empty value.
func Required(message string) Check {
	return func(value string, _ url.Values) string {
		if value == "" {
			return message
		}
		return ""
	}
}

// MinLength fails on values shorter than n characters.
func MinLength(n int, message string) Check {
	return func(value string, _ url.Values) string {
		if len([]rune(value)) < n {
			return message
		}
		return ""
	}
}

// Email fails on values that do not parse as a bare address.
func Email(message string) Check {
	return func(value string, _ url.Values) string {
		addr, err := mail.ParseAddress(value)
		if err != nil || addr.Address != value {
			return message
		}
		return ""
	}
}

// StrongPassword enforces the account password policy: at least 12
// characters with an upper-case letter, a lower-case letter, a digit and a
// symbol.
func StrongPassword(message string) Check {
	return func(value string, _ url.Values) string {
		var upper, lower, digit, symbol bool
		for _, r := range value {
			switch {
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsLower(r):
				lower = true
			case unicode.IsDigit(r):
				digit = true
			case unicode.IsPunct(r) || unicode.IsSymbol(r):
				symbol = true
			}
		}
		if len([]rune(value)) < 12 || !upper || !lower || !digit || !symbol {
			return message
		}
		return ""
	}
}

// Pattern fails on values not matching the regular expression.
func Pattern(re *regexp.Regexp, message string) Check {
	return func(value string, _ url.Values) string {
		if !re.MatchString(value) {
			return message
		}
		return ""
	}
}

// IntRange fails on values that are not integers within [min, max].
func IntRange(min, max int64, message string) Check {
	return func(value string, _ url.Values) string {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < min || n > max {
			return message
		}
		return ""
	}
}

// Float fails on values that are not non-negative numbers.
func Float(message string) Check {
	return func(value string, _ url.Values) string {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return message
		}
		return ""
	}
}

// MatchesField fails when the value differs from another form field.
func MatchesField(other, message string) Check {
	return func(value string, form url.Values) string {
		if value != strings.TrimSpace(form.Get(other)) {
			return message
		}
		return ""
	}
}
