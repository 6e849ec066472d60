// Copyright (c) 2025-2026 CSE Motors
// SPDX-License-Identifier: GPL-3.0-or-later

package view

import (
	"testing"

	"github.com/csemotors/motors-go/internal/model"
)

func TestClassificationOptions(t *testing.T) {
	classifications := []model.Classification{
		{ID: 1, Name: "SUV"},
		{ID: 2, Name: "Truck"},
		{ID: 3, Name: "Sedan"},
	}

	opts := ClassificationOptions(classifications, 2)
	if len(opts) != 3 {
		t.Fatalf("got %d options, want 3", len(opts))
	}
	for _, opt := range opts {
		if want := opt.ID == 2; opt.Selected != want {
			t.Errorf("option %d Selected = %v, want %v", opt.ID, opt.Selected, want)
		}
	}

	// selectedID 0 marks nothing.
	for _, opt := range ClassificationOptions(classifications, 0) {
		if opt.Selected {
			t.Errorf("option %d must not be selected", opt.ID)
		}
	}
}

func TestClassificationOptions_Empty(t *testing.T) {
	if opts := ClassificationOptions(nil, 1); len(opts) != 0 {
		t.Errorf("got %d options, want 0", len(opts))
	}
}

func TestVehicleNames(t *testing.T) {
	v := model.Vehicle{Make: "Jeep", Model: "Wrangler", Year: 2019}

	if got := VehicleName(v); got != "Jeep Wrangler" {
		t.Errorf("VehicleName = %q", got)
	}
	if got := VehicleFullName(v); got != "2019 Jeep Wrangler" {
		t.Errorf("VehicleFullName = %q", got)
	}

	detail := NewVehicleDetail(v)
	if detail.FullName != "2019 Jeep Wrangler" {
		t.Errorf("detail FullName = %q", detail.FullName)
	}
	if detail.Vehicle.Model != "Wrangler" {
		t.Errorf("detail Vehicle = %+v", detail.Vehicle)
	}
}
