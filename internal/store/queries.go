// Copyright (c) 2025-2026 CSE Motors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/csemotors/motors-go/internal/model"
)

// ErrNoRowsAffected is returned by writes that matched no row. Handlers
// surface it as a generic write failure, not as a crash.
var ErrNoRowsAffected = errors.New("no rows affected")

// Queries wraps a database handle with the application's query set.
// All queries are parameterized; the store is the sole arbiter of write
// ordering and uniqueness enforcement.
type Queries struct {
	db *sql.DB
}

// New creates a Queries instance for the given database.
func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// DB exposes the underlying handle for collaborators that need it
// (session store, health checks).
func (q *Queries) DB() *sql.DB {
	return q.db
}

// ----------------------------------------------------------------------------
// Accounts
// ----------------------------------------------------------------------------

const accountColumns = "id, first_name, last_name, email, password_hash, role, created_at, updated_at"

func scanAccount(row *sql.Row) (model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// CreateAccountParams holds the fields for a new account row.
type CreateAccountParams struct {
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         string
}

// CreateAccount inserts a new account and returns the stored row.
func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) (model.Account, error) {
	if arg.Role == "" {
		arg.Role = model.RoleClient
	}
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO accounts (first_name, last_name, email, password_hash, role)
		 VALUES (?, ?, ?, ?, ?)`,
		arg.FirstName, arg.LastName, arg.Email, arg.PasswordHash, arg.Role)
	if err != nil {
		return model.Account{}, fmt.Errorf("inserting account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Account{}, fmt.Errorf("reading insert id: %w", err)
	}
	return q.GetAccountByID(ctx, id)
}

// GetAccountByID fetches an account by primary key.
func (q *Queries) GetAccountByID(ctx context.Context, id int64) (model.Account, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id = ?", id)
	return scanAccount(row)
}

// GetAccountByEmail fetches an account by its unique email.
func (q *Queries) GetAccountByEmail(ctx context.Context, email string) (model.Account, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE email = ?", email)
	return scanAccount(row)
}

// CountAccountsByEmail reports how many accounts hold the given email.
// Used by the registration/update uniqueness checks.
func (q *Queries) CountAccountsByEmail(ctx context.Context, email string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM accounts WHERE email = ?", email).Scan(&n)
	return n, err
}

// UpdateAccountInfoParams holds the self-service info update fields.
type UpdateAccountInfoParams struct {
	FirstName string
	LastName  string
	Email     string
	ID        int64
}

// UpdateAccountInfo updates name and email fields of an account.
func (q *Queries) UpdateAccountInfo(ctx context.Context, arg UpdateAccountInfoParams) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE accounts SET first_name = ?, last_name = ?, email = ?, updated_at = ?
		 WHERE id = ?`,
		arg.FirstName, arg.LastName, arg.Email, time.Now(), arg.ID)
	if err != nil {
		return fmt.Errorf("updating account info: %w", err)
	}
	return requireRowsAffected(res)
}

// UpdateAccountPassword replaces the stored password hash of an account.
func (q *Queries) UpdateAccountPassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := q.db.ExecContext(ctx,
		"UPDATE accounts SET password_hash = ?, updated_at = ? WHERE id = ?",
		passwordHash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("updating account password: %w", err)
	}
	return requireRowsAffected(res)
}

// ----------------------------------------------------------------------------
// Classifications
// ----------------------------------------------------------------------------

// ListClassifications returns all classifications ordered by name.
func (q *Queries) ListClassifications(ctx context.Context) ([]model.Classification, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT id, name FROM classifications ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing classifications: %w", err)
	}
	defer rows.Close()

	var out []model.Classification
	for rows.Next() {
		var c model.Classification
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning classification: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetClassificationByID fetches a classification by primary key.
func (q *Queries) GetClassificationByID(ctx context.Context, id int64) (model.Classification, error) {
	var c model.Classification
	err := q.db.QueryRowContext(ctx,
		"SELECT id, name FROM classifications WHERE id = ?", id).Scan(&c.ID, &c.Name)
	return c, err
}

// CountClassificationsByName reports how many classifications hold the given
// name. Used by the add-classification uniqueness check.
func (q *Queries) CountClassificationsByName(ctx context.Context, name string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM classifications WHERE name = ?", name).Scan(&n)
	return n, err
}

// CountClassifications returns the total classification count.
func (q *Queries) CountClassifications(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM classifications").Scan(&n)
	return n, err
}

// CreateClassification inserts a new classification and returns it.
func (q *Queries) CreateClassification(ctx context.Context, name string) (model.Classification, error) {
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO classifications (name) VALUES (?)", name)
	if err != nil {
		return model.Classification{}, fmt.Errorf("inserting classification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Classification{}, fmt.Errorf("reading insert id: %w", err)
	}
	return model.Classification{ID: id, Name: name}, nil
}

// UpdateClassification renames a classification.
func (q *Queries) UpdateClassification(ctx context.Context, id int64, name string) error {
	res, err := q.db.ExecContext(ctx,
		"UPDATE classifications SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return fmt.Errorf("updating classification: %w", err)
	}
	return requireRowsAffected(res)
}

// DeleteClassification removes a classification. The delete is rejected by
// the foreign key constraint while inventory rows still reference it; that
// constraint error is returned to the caller, never swallowed.
func (q *Queries) DeleteClassification(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx,
		"DELETE FROM classifications WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting classification: %w", err)
	}
	return requireRowsAffected(res)
}

// ----------------------------------------------------------------------------
// Inventory
// ----------------------------------------------------------------------------

const vehicleColumns = "id, classification_id, make, model, year, description, image, thumbnail, price, miles, color"

func scanVehicleRow(scanner interface{ Scan(...any) error }) (model.Vehicle, error) {
	var v model.Vehicle
	err := scanner.Scan(&v.ID, &v.ClassificationID, &v.Make, &v.Model, &v.Year,
		&v.Description, &v.Image, &v.Thumbnail, &v.Price, &v.Miles, &v.Color)
	return v, err
}

// ListVehiclesByClassification returns all vehicles in a classification.
func (q *Queries) ListVehiclesByClassification(ctx context.Context, classificationID int64) ([]model.Vehicle, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+vehicleColumns+" FROM inventory WHERE classification_id = ? ORDER BY make, model",
		classificationID)
	if err != nil {
		return nil, fmt.Errorf("listing vehicles: %w", err)
	}
	defer rows.Close()

	var out []model.Vehicle
	for rows.Next() {
		v, err := scanVehicleRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning vehicle: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetVehicleByID fetches one inventory item by primary key.
func (q *Queries) GetVehicleByID(ctx context.Context, id int64) (model.Vehicle, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+vehicleColumns+" FROM inventory WHERE id = ?", id)
	return scanVehicleRow(row)
}

// CountVehiclesByClassification reports how many vehicles reference a
// classification.
func (q *Queries) CountVehiclesByClassification(ctx context.Context, classificationID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM inventory WHERE classification_id = ?", classificationID).Scan(&n)
	return n, err
}

// VehicleParams holds the writable fields of an inventory item.
type VehicleParams struct {
	ClassificationID int64
	Make             string
	Model            string
	Year             int
	Description      string
	Image            string
	Thumbnail        string
	Price            float64
	Miles            int64
	Color            string
}

// CreateVehicle inserts a new inventory item and returns the stored row.
func (q *Queries) CreateVehicle(ctx context.Context, arg VehicleParams) (model.Vehicle, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO inventory (classification_id, make, model, year, description,
		   image, thumbnail, price, miles, color)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.ClassificationID, arg.Make, arg.Model, arg.Year, arg.Description,
		arg.Image, arg.Thumbnail, arg.Price, arg.Miles, arg.Color)
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("inserting vehicle: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("reading insert id: %w", err)
	}
	return q.GetVehicleByID(ctx, id)
}

// UpdateVehicle rewrites all writable fields of an inventory item.
func (q *Queries) UpdateVehicle(ctx context.Context, id int64, arg VehicleParams) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE inventory SET classification_id = ?, make = ?, model = ?, year = ?,
		   description = ?, image = ?, thumbnail = ?, price = ?, miles = ?, color = ?
		 WHERE id = ?`,
		arg.ClassificationID, arg.Make, arg.Model, arg.Year, arg.Description,
		arg.Image, arg.Thumbnail, arg.Price, arg.Miles, arg.Color, id)
	if err != nil {
		return fmt.Errorf("updating vehicle: %w", err)
	}
	return requireRowsAffected(res)
}

// DeleteVehicle removes one inventory item.
func (q *Queries) DeleteVehicle(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM inventory WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting vehicle: %w", err)
	}
	return requireRowsAffected(res)
}

// requireRowsAffected converts a zero-row write into ErrNoRowsAffected.
func requireRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
