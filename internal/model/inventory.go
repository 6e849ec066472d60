// Copyright (c) 2025-2026 CSE Motors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Classification is a named category grouping vehicles (e.g. "SUV", "Truck").
type Classification struct {
	ID   int64  `json:"classification_id"`
	Name string `json:"classification_name"`
}

// Vehicle represents an inventory item belonging to a classification.
type Vehicle struct {
	ID               int64   `json:"inv_id"`
	ClassificationID int64   `json:"classification_id"`
	Make             string  `json:"inv_make"`
	Model            string  `json:"inv_model"`
	Year             int     `json:"inv_year"`
	Description      string  `json:"inv_description"`
	Image            string  `json:"inv_image"`
	Thumbnail        string  `json:"inv_thumbnail"`
	Price            float64 `json:"inv_price"`
	Miles            int64   `json:"inv_miles"`
	Color            string  `json:"inv_color"`
}
