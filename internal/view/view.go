// Copyright (c) 2025-2026 CSE Motors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package view assembles the data structures the page templates consume.
package view

import (
	"fmt"

	"github.com/csemotors/motors-go/internal/model"
)

// ClassificationOption is one entry of the classification <select> used by
// the add and edit inventory forms.
type ClassificationOption struct {
	ID       int64
	Name     string
	Selected bool
}

// ClassificationOptions marks the option matching selectedID, if any.
func ClassificationOptions(classifications []model.Classification, selectedID int64) []ClassificationOption {
	opts := make([]ClassificationOption, 0, len(classifications))
	for _, c := range classifications {
		opts = append(opts, ClassificationOption{
			ID:       c.ID,
			Name:     c.Name,
			Selected: c.ID == selectedID,
		})
	}
	return opts
}

// VehicleName returns the "Make Model" display name used by page titles and
// management links.
func VehicleName(v model.Vehicle) string {
	return fmt.Sprintf("%s %s", v.Make, v.Model)
}

// VehicleFullName prefixes the model year, as shown on the detail page.
func VehicleFullName(v model.Vehicle) string {
	return fmt.Sprintf("%d %s %s", v.Year, v.Make, v.Model)
}

// ClassificationGrid is the listing page's data: the classification plus its
// vehicles.
type ClassificationGrid struct {
	Classification model.Classification
	Vehicles       []model.Vehicle
}

// VehicleDetail is the detail page's data.
type VehicleDetail struct {
	Vehicle  model.Vehicle
	FullName string
}

// NewVehicleDetail builds the detail view for a vehicle.
func NewVehicleDetail(v model.Vehicle) VehicleDetail {
	return VehicleDetail{Vehicle: v, FullName: VehicleFullName(v)}
}
