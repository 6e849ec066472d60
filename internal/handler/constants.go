// Copyright (c) 2025-2026 CSE Motors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteProblem intentionally fails, exercising the error path.
	RouteProblem = "/problem"

	// RouteAccount is the account section prefix.
	RouteAccount = "/account"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteRegister is the registration route.
	RouteRegister = "/register"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteAccountUpdateID is the account update route pattern.
	RouteAccountUpdateID = "/update/{accountId}"

	// RouteInv is the inventory section prefix.
	RouteInv = "/inv"
	// RouteTypeID is the classification listing route pattern.
	RouteTypeID = "/type/{classificationId}"
	// RouteDetailID is the vehicle detail route pattern.
	RouteDetailID = "/detail/{invId}"
	// RouteAddClassification is the add-classification route.
	RouteAddClassification = "/add-classification"
	// RouteAddInventory is the add-inventory route.
	RouteAddInventory = "/add-inventory"
	// RouteEditID is the inventory edit route pattern.
	RouteEditID = "/edit/{invId}"
	// RouteDeleteID is the inventory delete route pattern.
	RouteDeleteID = "/delete/{invId}"
	// RouteGetInventoryID is the JSON inventory listing route pattern.
	RouteGetInventoryID = "/getInventory/{classificationId}"
	// RouteClassEditID is the classification edit route pattern.
	RouteClassEditID = "/classEdit/{classificationId}"
	// RouteClassDeleteID is the classification delete route pattern.
	RouteClassDeleteID = "/classDelete/{classificationId}"
)

// Redirect targets.
const (
	redirectRoot    = "/"
	redirectLogin   = "/account/login"
	redirectAccount = "/account/"
	redirectInv     = "/inv/"
)
