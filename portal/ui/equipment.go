package ui

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"clubhouse/internal/auth"
	"clubhouse/internal/common"
	"clubhouse/internal/constants"
	"clubhouse/internal/logging"
	"clubhouse/internal/models/dtos/requests"
	gormModels "clubhouse/internal/models/gorm"
)

type equipmentView struct {
	Items   []gormModels.EquipmentStock
	Form    requests.EquipmentRequest
	Editing bool
	Loan    requests.LoanRequest
}

type requestsView struct {
	Requests []gormModels.EquipmentRequest
}

// EquipmentPage handles GET /equipment; admins may pass ?edit=<id>
func (h *Handler) EquipmentPage(w http.ResponseWriter, r *http.Request) {
	page := h.newPage(r, "Equipment")
	page.Flash = popFlash(w, r)

	view := equipmentView{}
	if editID := queryUint(r, "edit"); editID != 0 && page.User != nil && page.User.IsAdmin() {
		item, err := h.equipment.Get(r.Context(), editID)
		if err != nil {
			page.Error, _, _ = h.failure(r, err)
		} else {
			view.Editing = true
			view.Form = requests.EquipmentRequest{
				ID:             item.ID,
				Name:           item.Name,
				Brand:          item.Brand,
				Model:          item.Model,
				Specifications: item.Specifications,
				Quantity:       item.Quantity,
			}
		}
	}

	h.renderEquipment(w, r, http.StatusOK, page, view)
}

func (h *Handler) renderEquipment(w http.ResponseWriter, r *http.Request, status int, page *Page, view equipmentView) {
	items, err := h.equipment.List(r.Context())
	if err != nil {
		msg, _, code := h.failure(r, err)
		page.Error = msg
		status = code
	}
	view.Items = items
	page.Data = view
	h.render(w, status, "equipment.html", page)
}

// EquipmentAction handles POST /equipment: create, edit, delete (admin) and request (member)
func (h *Handler) EquipmentAction(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := parseForm(r); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	page := h.newPage(r, "Equipment")
	action := r.PostFormValue("action")

	switch action {
	case "create", "edit":
		if !claims.IsAdmin() {
			forbidden(w)
			return
		}
		form := requests.EquipmentRequest{
			Name:           r.PostFormValue("name"),
			Brand:          r.PostFormValue("brand"),
			Model:          r.PostFormValue("model"),
			Specifications: r.PostFormValue("specifications"),
			Quantity:       formInt(r, "quantity"),
			RemovePhoto:    formBool(r, "remove_photo"),
		}
		view := equipmentView{Form: form}
		if action == "edit" {
			form.ID = formUint(r, "id")
			view.Form.ID = form.ID
			view.Editing = true
		}

		photo, err := common.ReadPhoto(r, "photo")
		if err == nil {
			if action == "create" {
				_, err = h.equipment.Create(r.Context(), form, photo)
			} else {
				_, err = h.equipment.Update(r.Context(), form, photo)
			}
		}
		if err != nil {
			msg, fields, status := h.failure(r, err)
			page.Error, page.Fields = msg, fields
			h.renderEquipment(w, r, status, page, view)
			return
		}

		h.dashboard.Invalidate()
		redirect(w, r, "/equipment", constants.MsgEquipmentSaved)

	case "delete":
		if !claims.IsAdmin() {
			forbidden(w)
			return
		}
		if err := h.equipment.Delete(r.Context(), formUint(r, "id")); err != nil {
			msg, _, status := h.failure(r, err)
			page.Error = msg
			h.renderEquipment(w, r, status, page, equipmentView{})
			return
		}

		h.dashboard.Invalidate()
		redirect(w, r, "/equipment", constants.MsgEquipmentDeleted)

	case "request":
		if claims.IsAdmin() {
			forbidden(w)
			return
		}
		form := requests.LoanRequest{
			EquipmentID: formUint(r, "equipment_id"),
			Quantity:    formInt(r, "quantity"),
			ReturnDate:  r.PostFormValue("return_date"),
		}
		if _, err := h.equipment.RequestEquipment(r.Context(), claims.Username(), form); err != nil {
			msg, fields, status := h.failure(r, err)
			page.Error, page.Fields = msg, fields
			h.renderEquipment(w, r, status, page, equipmentView{Loan: form})
			return
		}

		h.dashboard.Invalidate()
		redirect(w, r, "/equipment/requests", constants.MsgRequestSubmitted)

	default:
		page.Error = constants.MsgUnknownAction
		h.renderEquipment(w, r, http.StatusBadRequest, page, equipmentView{})
	}
}

// RequestsPage handles GET /equipment/requests; members only see their own
func (h *Handler) RequestsPage(w http.ResponseWriter, r *http.Request) {
	page := h.newPage(r, "Equipment requests")
	page.Flash = popFlash(w, r)
	h.renderRequests(w, r, http.StatusOK, page)
}

func (h *Handler) renderRequests(w http.ResponseWriter, r *http.Request, status int, page *Page) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	reqs, err := h.equipment.ListRequests(r.Context(), claims.Username(), claims.IsAdmin())
	if err != nil {
		msg, _, code := h.failure(r, err)
		page.Error = msg
		status = code
	}
	page.Data = requestsView{Requests: reqs}
	h.render(w, status, "requests.html", page)
}

// RequestsAction handles POST /equipment/requests: approve or deny (admin)
func (h *Handler) RequestsAction(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if err := parseForm(r); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	page := h.newPage(r, "Equipment requests")
	id := formUint(r, "request_id")

	var (
		err   error
		flash string
	)
	switch r.PostFormValue("action") {
	case "approve":
		_, err = h.equipment.ApproveRequest(r.Context(), id, claims.Username())
		flash = constants.MsgRequestApproved
	case "deny":
		_, err = h.equipment.DenyRequest(r.Context(), id, claims.Username())
		flash = constants.MsgRequestDenied
	default:
		page.Error = constants.MsgUnknownAction
		h.renderRequests(w, r, http.StatusBadRequest, page)
		return
	}

	if err != nil {
		msg, _, status := h.failure(r, err)
		page.Error = msg
		h.renderRequests(w, r, status, page)
		return
	}

	h.dashboard.Invalidate()
	redirect(w, r, "/equipment/requests", flash)
}

// EquipmentPhoto handles GET /equipment/{id}/photo
func (h *Handler) EquipmentPhoto(w http.ResponseWriter, r *http.Request) {
	photo, err := h.equipment.Photo(r.Context(), urlUint(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	writePhoto(w, r, photo.PhotoMIME, photo.PhotoData)
}

// ExportInventory handles GET /equipment/export.xlsx (admin)
func (h *Handler) ExportInventory(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.export.WriteInventory(r.Context(), &buf); err != nil {
		logging.Error("Failed to export inventory", "error", err.Error())
		http.Error(w, constants.MsgGenericFailure, http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("inventory-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	_, _ = buf.WriteTo(w)
}
