package ui

import (
	"net/http"

	"clubhouse/internal/auth"
	"clubhouse/internal/common"
	"clubhouse/internal/constants"
	"clubhouse/internal/models/dtos/requests"
	gormModels "clubhouse/internal/models/gorm"
)

type membersView struct {
	Members []gormModels.User
	Form    requests.MemberRequest
	Editing bool
}

type approvalsView struct {
	Pending []gormModels.PendingMember
}

// MembersPage handles GET /members (admin); ?edit=<id> prefills the form
func (h *Handler) MembersPage(w http.ResponseWriter, r *http.Request) {
	page := h.newPage(r, "Members")
	page.Flash = popFlash(w, r)

	view := membersView{Form: requests.MemberRequest{Role: string(constants.RoleUser)}}
	if editID := queryUint(r, "edit"); editID != 0 {
		user, err := h.members.Get(r.Context(), editID)
		if err != nil {
			page.Error, _, _ = h.failure(r, err)
		} else {
			view.Editing = true
			view.Form = requests.MemberRequest{
				ID:       user.ID,
				Name:     user.Name,
				Email:    user.Email,
				Username: user.Username,
				Phone:    user.Phone,
				Role:     string(user.Role),
			}
			if user.Birthday != nil {
				view.Form.Birthday = user.Birthday.UTC().Format(requests.DateLayout)
			}
		}
	}

	h.renderMembers(w, r, http.StatusOK, page, view)
}

func (h *Handler) renderMembers(w http.ResponseWriter, r *http.Request, status int, page *Page, view membersView) {
	members, err := h.members.List(r.Context())
	if err != nil {
		msg, _, code := h.failure(r, err)
		page.Error = msg
		status = code
	}
	view.Members = members
	page.Data = view
	h.render(w, status, "members.html", page)
}

// MembersAction handles POST /members: create, edit, delete
func (h *Handler) MembersAction(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if err := parseForm(r); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	page := h.newPage(r, "Members")
	action := r.PostFormValue("action")

	switch action {
	case "create", "edit":
		form := requests.MemberRequest{
			Name:        r.PostFormValue("name"),
			Email:       r.PostFormValue("email"),
			Username:    r.PostFormValue("username"),
			Password:    r.PostFormValue("password"),
			Phone:       r.PostFormValue("phone"),
			Birthday:    r.PostFormValue("birthday"),
			Role:        r.PostFormValue("role"),
			RemovePhoto: formBool(r, "remove_photo"),
		}
		if action == "edit" {
			form.ID = formUint(r, "id")
		}

		view := membersView{Form: form, Editing: action == "edit"}
		view.Form.Password = ""

		photo, err := common.ReadPhoto(r, "photo")
		if err == nil {
			if action == "create" {
				_, err = h.members.Create(r.Context(), form, photo)
			} else {
				_, err = h.members.Update(r.Context(), form, photo)
			}
		}
		if err != nil {
			msg, fields, status := h.failure(r, err)
			page.Error, page.Fields = msg, fields
			h.renderMembers(w, r, status, page, view)
			return
		}

		h.dashboard.Invalidate()
		redirect(w, r, "/members", constants.MsgMemberSaved)

	case "delete":
		if err := h.members.Delete(r.Context(), formUint(r, "id"), claims.UserID()); err != nil {
			msg, _, status := h.failure(r, err)
			page.Error = msg
			h.renderMembers(w, r, status, page, membersView{})
			return
		}

		h.dashboard.Invalidate()
		redirect(w, r, "/members", constants.MsgMemberDeleted)

	default:
		page.Error = constants.MsgUnknownAction
		h.renderMembers(w, r, http.StatusBadRequest, page, membersView{})
	}
}

// MemberPhoto handles GET /members/{id}/photo
func (h *Handler) MemberPhoto(w http.ResponseWriter, r *http.Request) {
	photo, err := h.members.Photo(r.Context(), urlUint(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	writePhoto(w, r, photo.PhotoMIME, photo.PhotoData)
}

// ApprovalsPage handles GET /approvals (admin)
func (h *Handler) ApprovalsPage(w http.ResponseWriter, r *http.Request) {
	page := h.newPage(r, "Pending approvals")
	page.Flash = popFlash(w, r)
	h.renderApprovals(w, r, http.StatusOK, page)
}

func (h *Handler) renderApprovals(w http.ResponseWriter, r *http.Request, status int, page *Page) {
	pending, err := h.members.ListPending(r.Context())
	if err != nil {
		msg, _, code := h.failure(r, err)
		page.Error = msg
		status = code
	}
	page.Data = approvalsView{Pending: pending}
	h.render(w, status, "approvals.html", page)
}

// ApprovalsAction handles POST /approvals: approve or deny a queued registration
func (h *Handler) ApprovalsAction(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if err := parseForm(r); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	page := h.newPage(r, "Pending approvals")
	id := formUint(r, "pending_id")

	var (
		err   error
		flash string
	)
	switch r.PostFormValue("action") {
	case "approve":
		_, err = h.members.ApprovePending(r.Context(), id, claims.Username())
		flash = constants.MsgMemberApproved
	case "deny":
		err = h.members.DenyPending(r.Context(), id, claims.Username())
		flash = constants.MsgMemberRejected
	default:
		page.Error = constants.MsgUnknownAction
		h.renderApprovals(w, r, http.StatusBadRequest, page)
		return
	}

	if err != nil {
		msg, _, status := h.failure(r, err)
		page.Error = msg
		h.renderApprovals(w, r, status, page)
		return
	}

	h.dashboard.Invalidate()
	redirect(w, r, "/approvals", flash)
}
