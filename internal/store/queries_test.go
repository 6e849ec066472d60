// Copyright (c) 2025-2026 CSE Motors
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csemotors/motors-go/internal/model"
	"github.com/csemotors/motors-go/internal/store"
	"github.com/csemotors/motors-go/internal/testutil"
)

func newQueries(t *testing.T) *store.Queries {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	return store.New(db)
}

func createVehicle(t *testing.T, q *store.Queries, classificationID int64) model.Vehicle {
	t.Helper()
	v, err := q.CreateVehicle(context.Background(), store.VehicleParams{
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
	require.NoError(t, err)
	return v
}

func TestCreateAccount_DefaultsToClient(t *testing.T) {
	q := newQueries(t)

	account, err := q.CreateAccount(context.Background(), store.CreateAccountParams{
		FirstName:    "Basil",
		LastName:     "Motors",
		Email:        "basil@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleClient, account.Role)
	assert.NotZero(t, account.ID)

	got, err := q.GetAccountByEmail(context.Background(), "basil@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)
}

func TestCreateAccount_DuplicateEmailRejected(t *testing.T) {
	q := newQueries(t)
	ctx := context.Background()

	_, err := q.CreateAccount(ctx, store.CreateAccountParams{
		FirstName: "A", LastName: "One", Email: "dup@example.com", PasswordHash: "x",
	})
	require.NoError(t, err)

	_, err = q.CreateAccount(ctx, store.CreateAccountParams{
		FirstName: "B", LastName: "Two", Email: "dup@example.com", PasswordHash: "y",
	})
	assert.Error(t, err, "unique index must reject the second insert")

	n, err := q.CountAccountsByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUpdateAccountInfo_MissingRow(t *testing.T) {
	q := newQueries(t)

	err := q.UpdateAccountInfo(context.Background(), store.UpdateAccountInfoParams{
		FirstName: "Ghost", LastName: "Row", Email: "ghost@example.com", ID: 9999,
	})
	assert.ErrorIs(t, err, store.ErrNoRowsAffected)
}

func TestClassificationCRUD(t *testing.T) {
	q := newQueries(t)
	ctx := context.Background()

	c, err := q.CreateClassification(ctx, "SUV")
	require.NoError(t, err)

	list, err := q.ListClassifications(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "SUV", list[0].Name)

	require.NoError(t, q.UpdateClassification(ctx, c.ID, "Crossover"))
	got, err := q.GetClassificationByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Crossover", got.Name)

	require.NoError(t, q.DeleteClassification(ctx, c.ID))
	_, err = q.GetClassificationByID(ctx, c.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDeleteClassification_RejectedWhileReferenced(t *testing.T) {
	q := newQueries(t)
	ctx := context.Background()

	c, err := q.CreateClassification(ctx, "SUV")
	require.NoError(t, err)
	v := createVehicle(t, q, c.ID)

	err = q.DeleteClassification(ctx, c.ID)
	assert.Error(t, err, "delete must be rejected while a vehicle references the classification")

	// Still present afterwards.
	_, err = q.GetClassificationByID(ctx, c.ID)
	assert.NoError(t, err)

	// After removing the vehicle the delete goes through.
	require.NoError(t, q.DeleteVehicle(ctx, v.ID))
	assert.NoError(t, q.DeleteClassification(ctx, c.ID))
}

func TestVehicleCRUD(t *testing.T) {
	q := newQueries(t)
	ctx := context.Background()

	c, err := q.CreateClassification(ctx, "SUV")
	require.NoError(t, err)
	v := createVehicle(t, q, c.ID)

	vehicles, err := q.ListVehiclesByClassification(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, v.ID, vehicles[0].ID)

	params := store.VehicleParams{
		ClassificationID: c.ID,
		Make:             "Jeep",
		Model:            "Gladiator",
		Year:             2021,
		Description:      "Bigger.",
		Image:            "/images/vehicles/gladiator.jpg",
		Thumbnail:        "/images/vehicles/gladiator-tn.jpg",
		Price:            35000,
		Miles:            12000,
		Color:            "Green",
	}
	require.NoError(t, q.UpdateVehicle(ctx, v.ID, params))

	got, err := q.GetVehicleByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gladiator", got.Model)
	assert.Equal(t, int64(12000), got.Miles)

	assert.ErrorIs(t, q.UpdateVehicle(ctx, 9999, params), store.ErrNoRowsAffected)
	assert.ErrorIs(t, q.DeleteVehicle(ctx, 9999), store.ErrNoRowsAffected)

	require.NoError(t, q.DeleteVehicle(ctx, v.ID))
	n, err := q.CountVehiclesByClassification(ctx, c.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateVehicle_UnknownClassificationRejected(t *testing.T) {
	q := newQueries(t)

	_, err := q.CreateVehicle(context.Background(), store.VehicleParams{
		ClassificationID: 9999,
		Make:             "Ghost",
		Model:            "Car",
		Year:             2020,
		Description:      "d",
		Image:            "/images/vehicles/x.jpg",
		Thumbnail:        "/images/vehicles/x-tn.jpg",
		Price:            1,
		Miles:            1,
		Color:            "Clear",
	})
	assert.Error(t, err, "foreign key must reject unknown classification")
}

func TestSeed(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Seed(ctx, db, true))

	q := store.New(db)
	admin, err := q.GetAccountByEmail(ctx, store.DefaultAdminEmail)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)

	list, err := q.ListClassifications(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 5)

	// Idempotent on re-run.
	require.NoError(t, store.Seed(ctx, db, true))
	n, err := q.CountAccountsByEmail(ctx, store.DefaultAdminEmail)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
