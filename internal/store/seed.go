// Copyright (c) 2025-2026 CSE Motors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/csemotors/motors-go/internal/auth"
	"github.com/csemotors/motors-go/internal/model"
)

// Default admin credentials, created on first run so the role-gated area is
// reachable. Change the password after first login.
const (
	DefaultAdminEmail     = "admin@csemotors.example"
	DefaultAdminPassword  = "changeme-Adm1n!pass"
	DefaultAdminFirstName = "Site"
	DefaultAdminLastName  = "Admin"
)

// seedClassifications are created when demo seeding is enabled.
var seedClassifications = []string{"Custom", "SUV", "Sedan", "Sport", "Truck"}

// seedVehicles are demo inventory rows, keyed by classification name.
var seedVehicles = map[string][]VehicleParams{
	"SUV": {
		{Make: "Jeep", Model: "Wrangler", Year: 2019, Color: "Yellow",
			Description: "The Jeep Wrangler is small and compact with enough power to get you where you want to go.",
			Image:       "/images/vehicles/wrangler.jpg", Thumbnail: "/images/vehicles/wrangler-tn.jpg",
			Price: 28045, Miles: 41450},
	},
	"Sport": {
		{Make: "Lamborghini", Model: "Adventador", Year: 2016, Color: "Blue",
			Description: "This V-12 engine packs a punch in this sporty car. Make sure you wear your seatbelt.",
			Image:       "/images/vehicles/adventador.jpg", Thumbnail: "/images/vehicles/adventador-tn.jpg",
			Price: 417650, Miles: 71003},
	},
	"Truck": {
		{Make: "Ford", Model: "Model T", Year: 1921, Color: "Black",
			Description: "The Model T can be a bit tricky to drive. It was the first car to be put into production.",
			Image:       "/images/vehicles/model-t.jpg", Thumbnail: "/images/vehicles/model-t-tn.jpg",
			Price: 30000, Miles: 26357},
	},
}

// Seed creates the default admin account and, when doSeed is set, a set of
// demo classifications and vehicles. Safe to run repeatedly.
func Seed(ctx context.Context, db *sql.DB, doSeed bool) error {
	queries := New(db)

	if err := seedAdmin(ctx, queries); err != nil {
		return err
	}

	if !doSeed {
		return nil
	}
	return seedDemo(ctx, queries)
}

func seedAdmin(ctx context.Context, queries *Queries) error {
	_, err := queries.GetAccountByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin account already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin account: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	account, err := queries.CreateAccount(ctx, CreateAccountParams{
		FirstName:    DefaultAdminFirstName,
		LastName:     DefaultAdminLastName,
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("creating admin account: %w", err)
	}

	slog.Info("created default admin account",
		"id", account.ID,
		"email", account.Email,
	)
	return nil
}

func seedDemo(ctx context.Context, queries *Queries) error {
	count, err := queries.CountClassifications(ctx)
	if err != nil {
		return fmt.Errorf("counting classifications: %w", err)
	}
	if count > 0 {
		slog.Info("classifications already exist, skipping demo seed")
		return nil
	}

	byName := make(map[string]int64, len(seedClassifications))
	for _, name := range seedClassifications {
		c, err := queries.CreateClassification(ctx, name)
		if err != nil {
			return fmt.Errorf("seeding classification %q: %w", name, err)
		}
		byName[name] = c.ID
	}

	for name, vehicles := range seedVehicles {
		for _, v := range vehicles {
			v.ClassificationID = byName[name]
			if _, err := queries.CreateVehicle(ctx, v); err != nil {
				return fmt.Errorf("seeding vehicle %s %s: %w", v.Make, v.Model, err)
			}
		}
	}

	slog.Info("seeded demo inventory",
		"classifications", len(seedClassifications),
		"vehicles", len(seedVehicles),
	)
	return nil
}
