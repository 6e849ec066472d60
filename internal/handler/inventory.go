// Copyright (c) 2025-2026 CSE Motors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alexedwards/scs/v2"

	"github.com/csemotors/motors-go/internal/model"
	"github.com/csemotors/motors-go/internal/render"
	"github.com/csemotors/motors-go/internal/store"
	"github.com/csemotors/motors-go/internal/validate"
	"github.com/csemotors/motors-go/internal/view"
)

// Default image paths for new inventory, matching the seeded placeholders.
const (
	defaultVehicleImage     = "/images/vehicles/no-image.png"
	defaultVehicleThumbnail = "/images/vehicles/no-image-tn.png"
)

// InventoryHandler handles the public catalog pages and the employee/admin
// inventory management routes.
type InventoryHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	pages          *PageHandler
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, pages *PageHandler) *InventoryHandler {
	return &InventoryHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
		pages:          pages,
	}
}

// ----------------------------------------------------------------------------
// Public catalog
// ----------------------------------------------------------------------------

// ByClassification renders the vehicle listing for one classification.
func (h *InventoryHandler) ByClassification(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "classificationId")
	if !ok {
		h.pages.NotFound(w, r)
		return
	}

	classification, err := h.queries.GetClassificationByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.pages.NotFound(w, r)
			return
		}
		slog.Error("failed to load classification", "error", err, "classification_id", id)
		h.pages.ServerError(w, r)
		return
	}

	vehicles, err := h.queries.ListVehiclesByClassification(r.Context(), id)
	if err != nil {
		slog.Error("failed to list vehicles", "error", err, "classification_id", id)
		h.pages.ServerError(w, r)
		return
	}

	data := render.TemplateData{
		Title: classification.Name + " vehicles",
		Nav:   loadNav(r, h.queries),
		Data: view.ClassificationGrid{
			Classification: classification,
			Vehicles:       vehicles,
		},
	}
	if err := h.renderer.Render(w, r, http.StatusOK, "inventory/classification", data); err != nil {
		logAndInternalError(w, "failed to render classification page", "error", err)
	}
}

// Detail renders a single vehicle's detail page.
func (h *InventoryHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "invId")
	if !ok {
		h.pages.NotFound(w, r)
		return
	}

	vehicle, err := h.queries.GetVehicleByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.pages.NotFound(w, r)
			return
		}
		slog.Error("failed to load vehicle", "error", err, "inv_id", id)
		h.pages.ServerError(w, r)
		return
	}

	detail := view.NewVehicleDetail(vehicle)
	data := render.TemplateData{
		Title: detail.FullName,
		Nav:   loadNav(r, h.queries),
		Data:  detail,
	}
	if err := h.renderer.Render(w, r, http.StatusOK, "inventory/detail", data); err != nil {
		logAndInternalError(w, "failed to render detail page", "error", err)
	}
}

// GetInventoryJSON returns the vehicles of a classification as JSON for the
// management page's picker script.
func (h *InventoryHandler) GetInventoryJSON(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "classificationId")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Invalid classification id")
		return
	}

	vehicles, err := h.queries.ListVehiclesByClassification(r.Context(), id)
	if err != nil {
		slog.Error("failed to list vehicles", "error", err, "classification_id", id)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if vehicles == nil {
		vehicles = []model.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// ----------------------------------------------------------------------------
// Employee management
// ----------------------------------------------------------------------------

// managementData feeds the inventory management view.
type managementData struct {
	Classifications []model.Classification
}

// Management renders the inventory management page.
func (h *InventoryHandler) Management(w http.ResponseWriter, r *http.Request) {
	nav := loadNav(r, h.queries)
	data := render.TemplateData{
		Title: "Inventory Management",
		Nav:   nav,
		Data:  managementData{Classifications: nav},
	}
	if err := h.renderer.Render(w, r, http.StatusOK, "inventory/management", data); err != nil {
		logAndInternalError(w, "failed to render inventory management", "error", err)
	}
}

// AddClassificationForm renders the add-classification page.
func (h *InventoryHandler) AddClassificationForm(w http.ResponseWriter, r *http.Request) {
	h.renderAddClassification(w, r, http.StatusOK, render.TemplateData{})
}

// AddClassification handles the add-classification form submission.
func (h *InventoryHandler) AddClassification(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectInv) {
		return
	}

	errs := validate.Run(r.Context(), r.Form, validate.ClassificationRules(h.queries))
	if len(errs) > 0 {
		h.renderAddClassification(w, r, http.StatusOK, render.TemplateData{
			Errors: errs,
			Form:   formMap(r.Form),
		})
		return
	}

	name := r.Form.Get(validate.FieldClassificationName)
	classification, err := h.queries.CreateClassification(r.Context(), name)
	if err != nil {
		slog.Error("failed to create classification", "error", err, "name", name)
		h.renderer.SetFlash(r, "Sorry, adding the classification failed.", "error")
		h.renderAddClassification(w, r, http.StatusInternalServerError, render.TemplateData{
			Form: formMap(r.Form),
		})
		return
	}

	slog.Info("classification added", "classification_id", classification.ID, "name", classification.Name)
	flashSuccess(w, r, h.renderer, redirectInv,
		fmt.Sprintf("The %s classification was successfully added.", classification.Name))
}

// AddInventoryForm renders the add-inventory page.
func (h *InventoryHandler) AddInventoryForm(w http.ResponseWriter, r *http.Request) {
	h.renderInventoryForm(w, r, http.StatusOK, "inventory/add-inventory", "Add Inventory", 0, render.TemplateData{
		Form: map[string]string{
			validate.FieldImage:     defaultVehicleImage,
			validate.FieldThumbnail: defaultVehicleThumbnail,
		},
	})
}

// AddInventory handles the add-inventory form submission.
func (h *InventoryHandler) AddInventory(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectInv) {
		return
	}

	errs := validate.Run(r.Context(), r.Form, validate.InventoryRules())
	if len(errs) > 0 {
		h.renderInventoryForm(w, r, http.StatusOK, "inventory/add-inventory", "Add Inventory",
			selectedClassification(r.Form), render.TemplateData{
				Errors: errs,
				Form:   formMap(r.Form),
			})
		return
	}

	params := vehicleParamsFromForm(r.Form)
	vehicle, err := h.queries.CreateVehicle(r.Context(), params)
	if err != nil {
		slog.Error("failed to create vehicle", "error", err, "make", params.Make, "model", params.Model)
		h.renderer.SetFlash(r, "Sorry, adding the vehicle failed.", "error")
		h.renderInventoryForm(w, r, http.StatusInternalServerError, "inventory/add-inventory", "Add Inventory",
			params.ClassificationID, render.TemplateData{Form: formMap(r.Form)})
		return
	}

	slog.Info("vehicle added", "inv_id", vehicle.ID, "make", vehicle.Make, "model", vehicle.Model)
	flashSuccess(w, r, h.renderer, redirectInv,
		fmt.Sprintf("The %s was successfully added.", view.VehicleName(vehicle)))
}

// EditForm renders the edit-inventory page pre-filled from the store.
func (h *InventoryHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	vehicle, ok := h.requireVehicle(w, r)
	if !ok {
		return
	}

	h.renderInventoryForm(w, r, http.StatusOK, "inventory/edit", "Edit "+view.VehicleName(vehicle),
		vehicle.ClassificationID, render.TemplateData{
			Data: vehicle,
			Form: vehicleFormValues(vehicle),
		})
}

// Edit handles the edit-inventory form submission.
func (h *InventoryHandler) Edit(w http.ResponseWriter, r *http.Request) {
	vehicle, ok := h.requireVehicle(w, r)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectInv) {
		return
	}

	errs := validate.Run(r.Context(), r.Form, validate.InventoryRules())
	if len(errs) > 0 {
		h.renderInventoryForm(w, r, http.StatusOK, "inventory/edit", "Edit "+view.VehicleName(vehicle),
			selectedClassification(r.Form), render.TemplateData{
				Data:   vehicle,
				Errors: errs,
				Form:   formMap(r.Form),
			})
		return
	}

	params := vehicleParamsFromForm(r.Form)
	if err := h.queries.UpdateVehicle(r.Context(), vehicle.ID, params); err != nil {
		slog.Error("failed to update vehicle", "error", err, "inv_id", vehicle.ID)
		h.renderer.SetFlash(r, "Sorry, the update failed.", "error")
		h.renderInventoryForm(w, r, http.StatusInternalServerError, "inventory/edit", "Edit "+view.VehicleName(vehicle),
			params.ClassificationID, render.TemplateData{
				Data: vehicle,
				Form: formMap(r.Form),
			})
		return
	}

	slog.Info("vehicle updated", "inv_id", vehicle.ID)
	flashSuccess(w, r, h.renderer, redirectInv,
		fmt.Sprintf("The %s %s was successfully updated.", params.Make, params.Model))
}

// DeleteForm renders the delete confirmation page. The fields are shown
// read-only; the POST only needs the id.
func (h *InventoryHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	vehicle, ok := h.requireVehicle(w, r)
	if !ok {
		return
	}
	h.renderDeleteConfirm(w, r, http.StatusOK, vehicle)
}

// Delete handles the delete-inventory form submission.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vehicle, ok := h.requireVehicle(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeleteVehicle(r.Context(), vehicle.ID); err != nil {
		slog.Error("failed to delete vehicle", "error", err, "inv_id", vehicle.ID)
		h.renderer.SetFlash(r, "Sorry, the delete failed.", "error")
		h.renderDeleteConfirm(w, r, http.StatusInternalServerError, vehicle)
		return
	}

	slog.Info("vehicle deleted", "inv_id", vehicle.ID)
	flashSuccess(w, r, h.renderer, redirectInv, "The deletion was successful.")
}

// ----------------------------------------------------------------------------
// Admin classification management
// ----------------------------------------------------------------------------

// ClassEditForm renders the classification rename page.
func (h *InventoryHandler) ClassEditForm(w http.ResponseWriter, r *http.Request) {
	classification, ok := h.requireClassification(w, r)
	if !ok {
		return
	}
	h.renderClassEdit(w, r, http.StatusOK, classification, render.TemplateData{
		Form: map[string]string{validate.FieldClassificationName: classification.Name},
	})
}

// ClassEdit handles the classification rename form submission. Keeping the
// current name passes the uniqueness check.
func (h *InventoryHandler) ClassEdit(w http.ResponseWriter, r *http.Request) {
	classification, ok := h.requireClassification(w, r)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectInv) {
		return
	}

	// The self-exclusion baseline comes from the store, not the client.
	r.Form.Set(validate.FieldCurrentClassification, classification.Name)

	errs := validate.Run(r.Context(), r.Form, validate.ClassificationUpdateRules(h.queries))
	if len(errs) > 0 {
		h.renderClassEdit(w, r, http.StatusOK, classification, render.TemplateData{
			Errors: errs,
			Form:   formMap(r.Form),
		})
		return
	}

	name := r.Form.Get(validate.FieldClassificationName)
	if err := h.queries.UpdateClassification(r.Context(), classification.ID, name); err != nil {
		slog.Error("failed to update classification", "error", err, "classification_id", classification.ID)
		h.renderer.SetFlash(r, "Sorry, the update failed.", "error")
		h.renderClassEdit(w, r, http.StatusInternalServerError, classification, render.TemplateData{
			Form: formMap(r.Form),
		})
		return
	}

	slog.Info("classification updated", "classification_id", classification.ID, "name", name)
	flashSuccess(w, r, h.renderer, redirectInv, "The classification was successfully updated.")
}

// classDeleteData feeds the classification delete confirmation view.
type classDeleteData struct {
	Classification model.Classification
	VehicleCount   int64
}

// ClassDeleteForm renders the classification delete confirmation page,
// including how many vehicles still reference it.
func (h *InventoryHandler) ClassDeleteForm(w http.ResponseWriter, r *http.Request) {
	classification, ok := h.requireClassification(w, r)
	if !ok {
		return
	}
	h.renderClassDelete(w, r, http.StatusOK, classification)
}

// ClassDelete handles the classification delete form submission. The delete
// is rejected by the foreign key constraint while vehicles reference the
// classification; that failure is reported, never silently swallowed.
func (h *InventoryHandler) ClassDelete(w http.ResponseWriter, r *http.Request) {
	classification, ok := h.requireClassification(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeleteClassification(r.Context(), classification.ID); err != nil {
		slog.Error("failed to delete classification", "error", err, "classification_id", classification.ID)
		h.renderer.SetFlash(r, "Sorry, the classification could not be deleted. Remove its vehicles first.", "error")
		h.renderClassDelete(w, r, http.StatusInternalServerError, classification)
		return
	}

	slog.Info("classification deleted", "classification_id", classification.ID, "name", classification.Name)
	flashSuccess(w, r, h.renderer, redirectInv, "The deletion was successful.")
}

// ----------------------------------------------------------------------------
// Shared fetch + render helpers
// ----------------------------------------------------------------------------

func (h *InventoryHandler) requireVehicle(w http.ResponseWriter, r *http.Request) (model.Vehicle, bool) {
	id, ok := idParam(r, "invId")
	if !ok {
		flashError(w, r, h.renderer, redirectInv, "Invalid inventory item.")
		return model.Vehicle{}, false
	}
	vehicle, err := h.queries.GetVehicleByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			flashError(w, r, h.renderer, redirectInv, "Inventory item not found.")
		} else {
			slog.Error("failed to load vehicle", "error", err, "inv_id", id)
			flashError(w, r, h.renderer, redirectInv, "Error loading inventory item.")
		}
		return model.Vehicle{}, false
	}
	return vehicle, true
}

func (h *InventoryHandler) requireClassification(w http.ResponseWriter, r *http.Request) (model.Classification, bool) {
	id, ok := idParam(r, "classificationId")
	if !ok {
		flashError(w, r, h.renderer, redirectInv, "Invalid classification.")
		return model.Classification{}, false
	}
	classification, err := h.queries.GetClassificationByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			flashError(w, r, h.renderer, redirectInv, "Classification not found.")
		} else {
			slog.Error("failed to load classification", "error", err, "classification_id", id)
			flashError(w, r, h.renderer, redirectInv, "Error loading classification.")
		}
		return model.Classification{}, false
	}
	return classification, true
}

func (h *InventoryHandler) renderAddClassification(w http.ResponseWriter, r *http.Request, status int, data render.TemplateData) {
	data.Title = "Add Classification"
	data.Nav = loadNav(r, h.queries)
	if err := h.renderer.Render(w, r, status, "inventory/add-classification", data); err != nil {
		logAndInternalError(w, "failed to render add-classification page", "error", err)
	}
}

// inventoryFormData feeds the add/edit inventory views.
type inventoryFormData struct {
	Options []view.ClassificationOption
	Vehicle any
}

func (h *InventoryHandler) renderInventoryForm(w http.ResponseWriter, r *http.Request, status int, name, title string, selectedID int64, data render.TemplateData) {
	nav := loadNav(r, h.queries)
	data.Title = title
	data.Nav = nav
	data.Data = inventoryFormData{
		Options: view.ClassificationOptions(nav, selectedID),
		Vehicle: data.Data,
	}
	if err := h.renderer.Render(w, r, status, name, data); err != nil {
		logAndInternalError(w, "failed to render inventory form", "error", err, "template", name)
	}
}

func (h *InventoryHandler) renderDeleteConfirm(w http.ResponseWriter, r *http.Request, status int, vehicle model.Vehicle) {
	data := render.TemplateData{
		Title: "Delete " + view.VehicleName(vehicle),
		Nav:   loadNav(r, h.queries),
		Data:  vehicle,
	}
	if err := h.renderer.Render(w, r, status, "inventory/delete-confirm", data); err != nil {
		logAndInternalError(w, "failed to render delete confirmation", "error", err)
	}
}

func (h *InventoryHandler) renderClassEdit(w http.ResponseWriter, r *http.Request, status int, classification model.Classification, data render.TemplateData) {
	data.Title = "Edit " + classification.Name
	data.Nav = loadNav(r, h.queries)
	data.Data = classification
	if err := h.renderer.Render(w, r, status, "inventory/edit-classification", data); err != nil {
		logAndInternalError(w, "failed to render classification edit page", "error", err)
	}
}

func (h *InventoryHandler) renderClassDelete(w http.ResponseWriter, r *http.Request, status int, classification model.Classification) {
	count, err := h.queries.CountVehiclesByClassification(r.Context(), classification.ID)
	if err != nil {
		slog.Error("failed to count vehicles", "error", err, "classification_id", classification.ID)
	}
	data := render.TemplateData{
		Title: "Delete " + classification.Name,
		Nav:   loadNav(r, h.queries),
		Data:  classDeleteData{Classification: classification, VehicleCount: count},
	}
	if err := h.renderer.Render(w, r, status, "inventory/delete-classification", data); err != nil {
		logAndInternalError(w, "failed to render classification delete page", "error", err)
	}
}

// vehicleParamsFromForm converts the validated form into store params.
// Parse errors cannot occur past validation; fields fall back to zero.
func vehicleParamsFromForm(form url.Values) store.VehicleParams {
	classificationID, _ := strconv.ParseInt(form.Get(validate.FieldClassificationID), 10, 64)
	year, _ := strconv.Atoi(form.Get(validate.FieldYear))
	price, _ := strconv.ParseFloat(form.Get(validate.FieldPrice), 64)
	miles, _ := strconv.ParseInt(form.Get(validate.FieldMiles), 10, 64)

	return store.VehicleParams{
		ClassificationID: classificationID,
		Make:             form.Get(validate.FieldMake),
		Model:            form.Get(validate.FieldModel),
		Year:             year,
		Description:      form.Get(validate.FieldDescription),
		Image:            form.Get(validate.FieldImage),
		Thumbnail:        form.Get(validate.FieldThumbnail),
		Price:            price,
		Miles:            miles,
		Color:            form.Get(validate.FieldColor),
	}
}

// vehicleFormValues pre-fills the edit form from a stored vehicle.
func vehicleFormValues(v model.Vehicle) map[string]string {
	return map[string]string{
		validate.FieldClassificationID: strconv.FormatInt(v.ClassificationID, 10),
		validate.FieldMake:             v.Make,
		validate.FieldModel:            v.Model,
		validate.FieldYear:             strconv.Itoa(v.Year),
		validate.FieldDescription:      v.Description,
		validate.FieldImage:            v.Image,
		validate.FieldThumbnail:        v.Thumbnail,
		validate.FieldPrice:            strconv.FormatFloat(v.Price, 'f', -1, 64),
		validate.FieldMiles:            strconv.FormatInt(v.Miles, 10),
		validate.FieldColor:            v.Color,
	}
}

func selectedClassification(form url.Values) int64 {
	id, _ := strconv.ParseInt(form.Get(validate.FieldClassificationID), 10, 64)
	return id
}
