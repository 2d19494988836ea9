package ui

import (
	"net/http"

	"clubhouse/internal/auth"
	"clubhouse/internal/constants"
	"clubhouse/internal/models/dtos/requests"
	gormModels "clubhouse/internal/models/gorm"
)

const eventInputLayout = "2006-01-02T15:04"

type eventsView struct {
	Events  []gormModels.Event
	Form    requests.EventRequest
	Editing bool
}

type announcementsView struct {
	Announcements []gormModels.Announcement
	Form          requests.AnnouncementRequest
	Editing       bool
}

func isAdmin(r *http.Request) bool {
	claims := auth.GetUserClaims(r.Context())
	return claims != nil && claims.IsAdmin()
}

// EventsPage handles GET /events
func (h *Handler) EventsPage(w http.ResponseWriter, r *http.Request) {
	page := h.newPage(r, "Events")
	page.Flash = popFlash(w, r)

	view := eventsView{}
	if editID := queryUint(r, "edit"); editID != 0 && isAdmin(r) {
		event, err := h.content.GetEvent(r.Context(), editID)
		if err != nil {
			page.Error, _, _ = h.failure(r, err)
		} else {
			view.Editing = true
			view.Form = requests.EventRequest{
				ID:          event.ID,
				Title:       event.Title,
				Description: event.Description,
				EventDate:   event.EventDate.UTC().Format(eventInputLayout),
				Location:    event.Location,
			}
		}
	}

	h.renderEvents(w, r, http.StatusOK, page, view)
}

func (h *Handler) renderEvents(w http.ResponseWriter, r *http.Request, status int, page *Page, view eventsView) {
	events, err := h.content.ListEvents(r.Context())
	if err != nil {
		msg, _, code := h.failure(r, err)
		page.Error = msg
		status = code
	}
	view.Events = events
	page.Data = view
	h.render(w, status, "events.html", page)
}

// EventsAction handles POST /events (admin)
func (h *Handler) EventsAction(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if err := parseForm(r); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	page := h.newPage(r, "Events")
	action := r.PostFormValue("action")

	var (
		err   error
		flash string
		view  eventsView
	)
	switch action {
	case "create", "edit":
		form := requests.EventRequest{
			Title:       r.PostFormValue("title"),
			Description: r.PostFormValue("description"),
			EventDate:   r.PostFormValue("event_date"),
			Location:    r.PostFormValue("location"),
		}
		view = eventsView{Form: form}
		if action == "create" {
			_, err = h.content.CreateEvent(r.Context(), claims.Username(), form)
		} else {
			form.ID = formUint(r, "id")
			view.Form.ID = form.ID
			view.Editing = true
			_, err = h.content.UpdateEvent(r.Context(), form)
		}
		flash = constants.MsgEventSaved
	case "delete":
		err = h.content.DeleteEvent(r.Context(), formUint(r, "id"))
		flash = constants.MsgEventDeleted
	default:
		page.Error = constants.MsgUnknownAction
		h.renderEvents(w, r, http.StatusBadRequest, page, eventsView{})
		return
	}

	if err != nil {
		msg, fields, status := h.failure(r, err)
		page.Error, page.Fields = msg, fields
		h.renderEvents(w, r, status, page, view)
		return
	}

	h.dashboard.Invalidate()
	redirect(w, r, "/events", flash)
}

// AnnouncementsPage handles GET /announcements
func (h *Handler) AnnouncementsPage(w http.ResponseWriter, r *http.Request) {
	page := h.newPage(r, "Announcements")
	page.Flash = popFlash(w, r)

	view := announcementsView{}
	if editID := queryUint(r, "edit"); editID != 0 && isAdmin(r) {
		item, err := h.content.GetAnnouncement(r.Context(), editID)
		if err != nil {
			page.Error, _, _ = h.failure(r, err)
		} else {
			view.Editing = true
			view.Form = requests.AnnouncementRequest{ID: item.ID, Title: item.Title, Content: item.Content}
		}
	}

	h.renderAnnouncements(w, r, http.StatusOK, page, view)
}

func (h *Handler) renderAnnouncements(w http.ResponseWriter, r *http.Request, status int, page *Page, view announcementsView) {
	items, err := h.content.ListAnnouncements(r.Context(), 0)
	if err != nil {
		msg, _, code := h.failure(r, err)
		page.Error = msg
		status = code
	}
	view.Announcements = items
	page.Data = view
	h.render(w, status, "announcements.html", page)
}

// AnnouncementsAction handles POST /announcements (admin)
func (h *Handler) AnnouncementsAction(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if err := parseForm(r); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	page := h.newPage(r, "Announcements")
	action := r.PostFormValue("action")

	var (
		err   error
		flash string
		view  announcementsView
	)
	switch action {
	case "create", "edit":
		form := requests.AnnouncementRequest{
			Title:   r.PostFormValue("title"),
			Content: r.PostFormValue("content"),
		}
		view = announcementsView{Form: form}
		if action == "create" {
			_, err = h.content.CreateAnnouncement(r.Context(), claims.Username(), form)
		} else {
			form.ID = formUint(r, "id")
			view.Form.ID = form.ID
			view.Editing = true
			_, err = h.content.UpdateAnnouncement(r.Context(), form)
		}
		flash = constants.MsgAnnouncementSaved
	case "delete":
		err = h.content.DeleteAnnouncement(r.Context(), formUint(r, "id"))
		flash = constants.MsgAnnouncementDeleted
	default:
		page.Error = constants.MsgUnknownAction
		h.renderAnnouncements(w, r, http.StatusBadRequest, page, announcementsView{})
		return
	}

	if err != nil {
		msg, fields, status := h.failure(r, err)
		page.Error, page.Fields = msg, fields
		h.renderAnnouncements(w, r, status, page, view)
		return
	}

	h.dashboard.Invalidate()
	redirect(w, r, "/announcements", flash)
}
