// Copyright (c) 2025-2026 CSE Motors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/csemotors/motors-go/internal/model"
)

func vehicleForm(classificationID int64) url.Values {
	form := url.Values{}
	form.Set("classification_id", itoa(classificationID))
	form.Set("inv_make", "Jeep")
	form.Set("inv_model", "Gladiator")
	form.Set("inv_year", "2021")
	form.Set("inv_description", "A truck-bed Wrangler.")
	form.Set("inv_image", "/images/vehicles/gladiator.jpg")
	form.Set("inv_thumbnail", "/images/vehicles/gladiator-tn.jpg")
	form.Set("inv_price", "35000")
	form.Set("inv_miles", "12000")
	form.Set("inv_color", "Green")
	return form
}

func TestByClassification(t *testing.T) {
	app := newTestApp(t)
	c := app.createClassification(t, "SUV")
	app.createVehicle(t, c.ID)

	rec := app.get("/inv/type/" + itoa(c.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "SUV vehicles") {
		t.Error("classification heading missing")
	}
	if !strings.Contains(body, "Jeep Wrangler") {
		t.Error("vehicle name missing from grid")
	}
	if !strings.Contains(body, "$28,045") {
		t.Error("price must be formatted with a thousands separator")
	}
}

func TestByClassification_EmptyShowsNotice(t *testing.T) {
	app := newTestApp(t)
	c := app.createClassification(t, "SUV")

	rec := app.get("/inv/type/" + itoa(c.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Sorry, no matching vehicles could be found.") {
		t.Error("empty classification notice missing")
	}
}

func TestByClassification_UnknownIs404(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/inv/type/9999", "/inv/type/abc"} {
		rec := app.get(path)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", path, rec.Code)
		}
	}
}

func TestDetail(t *testing.T) {
	app := newTestApp(t)
	c := app.createClassification(t, "SUV")
	v := app.createVehicle(t, c.ID)

	rec := app.get("/inv/detail/" + itoa(v.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "2019 Jeep Wrangler") {
		t.Error("full vehicle name missing")
	}
	if !strings.Contains(body, "41,450") {
		t.Error("mileage must be formatted with a thousands separator")
	}
}

func TestDetail_UnknownIs404(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/inv/detail/9999")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Sorry, we appear to have lost that page.") {
		t.Error("not-found message missing")
	}
}

func TestManagement_ClientDenied(t *testing.T) {
	app := newTestApp(t)
	client := app.createAccount(t, "client@example.com", model.RoleClient)

	rec := app.get("/inv/", app.tokenCookie(t, client))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/account/" {
		t.Errorf("Location = %q, want /account/", loc)
	}
}

func TestManagement_Employee(t *testing.T) {
	app := newTestApp(t)
	employee := app.createAccount(t, "employee@example.com", model.RoleEmployee)
	app.createClassification(t, "SUV")

	rec := app.get("/inv/", app.tokenCookie(t, employee))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Add New Classification") || !strings.Contains(body, "Add New Vehicle") {
		t.Error("management links missing")
	}
	// Classification admin tools are reserved for the Admin role.
	if strings.Contains(body, "/inv/classEdit/") {
		t.Error("employee must not see classification admin links")
	}
}

func TestManagement_AdminSeesClassificationTools(t *testing.T) {
	app := newTestApp(t)
	admin := app.createAccount(t, "admin@example.com", model.RoleAdmin)
	c := app.createClassification(t, "SUV")

	rec := app.get("/inv/", app.tokenCookie(t, admin))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/inv/classEdit/"+itoa(c.ID)) {
		t.Error("admin classification links missing")
	}
}

func TestGetInventoryJSON(t *testing.T) {
	app := newTestApp(t)
	employee := app.createAccount(t, "employee@example.com", model.RoleEmployee)
	c := app.createClassification(t, "SUV")
	v := app.createVehicle(t, c.ID)
	cookie := app.tokenCookie(t, employee)

	rec := app.get("/inv/getInventory/"+itoa(c.ID), cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}

	var vehicles []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &vehicles); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(vehicles) != 1 {
		t.Fatalf("got %d vehicles, want 1", len(vehicles))
	}
	if vehicles[0]["inv_make"] != "Jeep" || vehicles[0]["inv_id"] != float64(v.ID) {
		t.Errorf("unexpected payload: %v", vehicles[0])
	}

	// Empty classifications serialize as [], not null.
	empty := app.createClassification(t, "Truck")
	rec = app.get("/inv/getInventory/"+itoa(empty.ID), cookie)
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("empty classification body = %q, want []", body)
	}

	rec = app.get("/inv/getInventory/abc", cookie)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rec.Code)
	}
}

func TestAddClassification(t *testing.T) {
	app := newTestApp(t)
	employee := app.createAccount(t, "employee@example.com", model.RoleEmployee)
	cookie := app.tokenCookie(t, employee)

	form := url.Values{}
	form.Set("classification_name", "SUV")
	rec := app.postForm("/inv/add-classification", form, cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/inv/" {
		t.Errorf("Location = %q, want /inv/", loc)
	}

	list, err := app.queries.ListClassifications(context.Background())
	if err != nil || len(list) != 1 {
		t.Fatalf("classification not persisted: %v, %v", list, err)
	}

	// Duplicate name re-renders the form.
	rec = app.postForm("/inv/add-classification", form, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("duplicate status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Classification exists. Try again.") {
		t.Error("duplicate message missing")
	}
}

func TestAddInventory(t *testing.T) {
	app := newTestApp(t)
	employee := app.createAccount(t, "employee@example.com", model.RoleEmployee)
	c := app.createClassification(t, "Truck")
	cookie := app.tokenCookie(t, employee)

	rec := app.postForm("/inv/add-inventory", vehicleForm(c.ID), cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body: %s", rec.Code, rec.Body.String())
	}

	vehicles, err := app.queries.ListVehiclesByClassification(context.Background(), c.ID)
	if err != nil || len(vehicles) != 1 {
		t.Fatalf("vehicle not persisted: %v, %v", vehicles, err)
	}
	if vehicles[0].Model != "Gladiator" {
		t.Errorf("model = %q", vehicles[0].Model)
	}
}

func TestAddInventory_ValidationFailure(t *testing.T) {
	app := newTestApp(t)
	employee := app.createAccount(t, "employee@example.com", model.RoleEmployee)
	c := app.createClassification(t, "Truck")

	form := vehicleForm(c.ID)
	form.Set("inv_year", "123")
	form.Set("inv_price", "not-a-number")

	rec := app.postForm("/inv/add-inventory", form, app.tokenCookie(t, employee))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Gladiator") {
		t.Error("submitted values must be retained")
	}

	n, err := app.queries.CountVehiclesByClassification(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("CountVehiclesByClassification: %v", err)
	}
	if n != 0 {
		t.Error("invalid vehicle must not be persisted")
	}
}

func TestEdit(t *testing.T) {
	app := newTestApp(t)
	employee := app.createAccount(t, "employee@example.com", model.RoleEmployee)
	c := app.createClassification(t, "SUV")
	v := app.createVehicle(t, c.ID)
	cookie := app.tokenCookie(t, employee)

	// The edit form is pre-filled from the store.
	rec := app.get("/inv/edit/"+itoa(v.ID), cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("form status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Wrangler") {
		t.Error("edit form must be pre-filled")
	}

	form := vehicleForm(c.ID)
	rec = app.postForm("/inv/edit/"+itoa(v.ID), form, cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body: %s", rec.Code, rec.Body.String())
	}

	got, err := app.queries.GetVehicleByID(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("GetVehicleByID: %v", err)
	}
	if got.Model != "Gladiator" || got.Year != 2021 {
		t.Errorf("vehicle not updated: %+v", got)
	}
}

func TestDelete(t *testing.T) {
	app := newTestApp(t)
	employee := app.createAccount(t, "employee@example.com", model.RoleEmployee)
	c := app.createClassification(t, "SUV")
	v := app.createVehicle(t, c.ID)
	cookie := app.tokenCookie(t, employee)

	rec := app.get("/inv/delete/"+itoa(v.ID), cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirmation status = %d, want 200", rec.Code)
	}

	rec = app.postForm("/inv/delete/"+itoa(v.ID), url.Values{}, cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}

	_, err := app.queries.GetVehicleByID(context.Background(), v.ID)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("vehicle must be gone, got err = %v", err)
	}
}

func TestDelete_UnknownVehicleRedirects(t *testing.T) {
	app := newTestApp(t)
	employee := app.createAccount(t, "employee@example.com", model.RoleEmployee)

	rec := app.postForm("/inv/delete/9999", url.Values{}, app.tokenCookie(t, employee))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/inv/" {
		t.Errorf("Location = %q, want /inv/", loc)
	}
}

func TestClassEdit_EmployeeDenied(t *testing.T) {
	app := newTestApp(t)
	employee := app.createAccount(t, "employee@example.com", model.RoleEmployee)
	c := app.createClassification(t, "SUV")

	rec := app.get("/inv/classEdit/"+itoa(c.ID), app.tokenCookie(t, employee))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/account/" {
		t.Errorf("Location = %q, want /account/", loc)
	}
}

func TestClassEdit(t *testing.T) {
	app := newTestApp(t)
	admin := app.createAccount(t, "admin@example.com", model.RoleAdmin)
	c := app.createClassification(t, "SUV")
	cookie := app.tokenCookie(t, admin)

	form := url.Values{}
	form.Set("classification_name", "Crossover")
	rec := app.postForm("/inv/classEdit/"+itoa(c.ID), form, cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body: %s", rec.Code, rec.Body.String())
	}

	got, err := app.queries.GetClassificationByID(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("GetClassificationByID: %v", err)
	}
	if got.Name != "Crossover" {
		t.Errorf("name = %q, want Crossover", got.Name)
	}
}

func TestClassEdit_KeepingNamePasses(t *testing.T) {
	app := newTestApp(t)
	admin := app.createAccount(t, "admin@example.com", model.RoleAdmin)
	c := app.createClassification(t, "SUV")

	form := url.Values{}
	form.Set("classification_name", "SUV")
	rec := app.postForm("/inv/classEdit/"+itoa(c.ID), form, app.tokenCookie(t, admin))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("re-submitting the current name must pass, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestClassDelete(t *testing.T) {
	app := newTestApp(t)
	admin := app.createAccount(t, "admin@example.com", model.RoleAdmin)
	c := app.createClassification(t, "SUV")
	cookie := app.tokenCookie(t, admin)

	rec := app.postForm("/inv/classDelete/"+itoa(c.ID), url.Values{}, cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}

	_, err := app.queries.GetClassificationByID(context.Background(), c.ID)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("classification must be gone, got err = %v", err)
	}
}

func TestClassDelete_BlockedWhileReferenced(t *testing.T) {
	app := newTestApp(t)
	admin := app.createAccount(t, "admin@example.com", model.RoleAdmin)
	c := app.createClassification(t, "SUV")
	app.createVehicle(t, c.ID)
	cookie := app.tokenCookie(t, admin)

	// Confirmation page warns about the referencing vehicles.
	rec := app.get("/inv/classDelete/"+itoa(c.ID), cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirmation status = %d, want 200", rec.Code)
	}

	rec = app.postForm("/inv/classDelete/"+itoa(c.ID), url.Values{}, cookie)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Remove its vehicles first.") {
		t.Error("blocked delete message missing")
	}

	if _, err := app.queries.GetClassificationByID(context.Background(), c.ID); err != nil {
		t.Errorf("classification must survive the blocked delete: %v", err)
	}
}

func TestManagementRoutes_UnauthenticatedGoToLogin(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/inv/", "/inv/add-classification", "/inv/add-inventory", "/inv/classEdit/1"} {
		rec := app.get(path)
		if rec.Code != http.StatusSeeOther {
			t.Errorf("%s: status = %d, want 303", path, rec.Code)
			continue
		}
		if loc := rec.Header().Get("Location"); loc != "/account/login" {
			t.Errorf("%s: Location = %q, want /account/login", path, loc)
		}
	}
}
