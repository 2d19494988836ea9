package ui

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clubhouse/internal/auth"
	"clubhouse/internal/common"
	"clubhouse/internal/constants"
	"clubhouse/internal/models/dtos/requests"
	"clubhouse/internal/models/dtos/responses"
	gormModels "clubhouse/internal/models/gorm"
	"clubhouse/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminClaims() auth.UserClaims {
	return &auth.SessionClaims{UserIDValue: 1, UsernameValue: "admin", RoleValue: constants.RoleAdmin, SessionIDVal: "s1"}
}

func memberClaims() auth.UserClaims {
	return &auth.SessionClaims{UserIDValue: 2, UsernameValue: "member", RoleValue: constants.RoleUser, SessionIDVal: "s2"}
}

func TestEveryTemplateRenders(t *testing.T) {
	rd, err := NewRenderer()
	require.NoError(t, err)

	now := time.Now().UTC()
	stock := gormModels.EquipmentStock{
		Equipment: gormModels.Equipment{
			ID: 7, Name: "Tripod", Brand: "Acme", Model: "T1", Quantity: 4, AvailableQuantity: 3,
			Photo: gormModels.Photo{PhotoMIME: "image/png"},
		},
		PendingQuantity: 1,
	}

	cases := []struct {
		name string
		user auth.UserClaims
		data any
		want string
	}{
		{"login.html", nil, requests.LoginRequest{Username: "bob"}, `value="bob"`},
		{"register.html", nil, requests.RegisterMemberRequest{Name: "Jane"}, `value="Jane"`},
		{"dashboard.html", adminClaims(), &responses.DashboardStats{PendingMembers: 4}, ">4<"},
		{"home.html", memberClaims(), &responses.HomeView{
			Announcements: []gormModels.Announcement{{Title: "Welcome", PostedBy: "admin", CreatedAt: now}},
		}, "Welcome"},
		{"equipment.html", adminClaims(), equipmentView{Items: []gormModels.EquipmentStock{stock}}, "/equipment/7/photo"},
		{"equipment.html", memberClaims(), equipmentView{Items: []gormModels.EquipmentStock{stock}}, `value="request"`},
		{"requests.html", adminClaims(), requestsView{Requests: []gormModels.EquipmentRequest{{
			ID: 3, Username: "member", Quantity: 1, Status: constants.RequestPending, CreatedAt: now,
			Equipment: gormModels.Equipment{Name: "Tripod"},
		}}}, `value="approve"`},
		{"members.html", adminClaims(), membersView{Members: []gormModels.User{{ID: 2, Username: "member", Role: constants.RoleUser}}}, "/members?edit=2"},
		{"approvals.html", adminClaims(), approvalsView{Pending: []gormModels.PendingMember{{ID: 5, Username: "jane", CreatedAt: now}}}, `value="5"`},
		{"events.html", memberClaims(), eventsView{Events: []gormModels.Event{{Title: "Picnic", EventDate: now, Location: "Park"}}}, "Picnic"},
		{"announcements.html", adminClaims(), announcementsView{}, "New announcement"},
		{"notifications.html", memberClaims(), &responses.NotificationFeed{Unread: 1, Items: []responses.NotificationView{{ID: 9, Message: "Approved"}}}, "read_all"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			rd.Render(rec, http.StatusOK, tc.name, &Page{Title: "T", User: tc.user, CSRFToken: "tok", Data: tc.data})

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
			if tc.user != nil {
				assert.Contains(t, rec.Body.String(), `value="tok"`)
			}
		})
	}
}

func TestMemberSeesNoAdminControls(t *testing.T) {
	rd, err := NewRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	rd.Render(rec, http.StatusOK, "equipment.html", &Page{Title: "Equipment", User: memberClaims(), Data: equipmentView{}})

	assert.NotContains(t, rec.Body.String(), "Add equipment")
	assert.NotContains(t, rec.Body.String(), "/members")
}

func TestUnknownTemplateIs500(t *testing.T) {
	rd, err := NewRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	rd.Render(rec, http.StatusOK, "missing.html", &Page{})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFlashIsReadOnce(t *testing.T) {
	rec := httptest.NewRecorder()
	setFlash(rec, constants.MsgEquipmentSaved)

	req := httptest.NewRequest(http.MethodGet, "/equipment", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	out := httptest.NewRecorder()
	assert.Equal(t, constants.MsgEquipmentSaved, popFlash(out, req))

	cleared := out.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.True(t, cleared[0].MaxAge < 0)

	assert.Empty(t, popFlash(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestFailureMapping(t *testing.T) {
	h := &Handler{}
	req := httptest.NewRequest(http.MethodPost, "/equipment", nil)
	req = req.WithContext(auth.SetUserClaims(context.Background(), memberClaims()))

	cases := []struct {
		err    error
		msg    string
		status int
	}{
		{&services.ValidationError{Fields: map[string]string{"name": "Name is required."}}, "Name is required.", http.StatusUnprocessableEntity},
		{&services.ConflictError{Message: constants.MsgEquipmentInUse}, constants.MsgEquipmentInUse, http.StatusConflict},
		{services.ErrInsufficientStock, constants.MsgInsufficientStock, http.StatusConflict},
		{services.ErrInvalidState, constants.MsgRequestDecided, http.StatusConflict},
		{services.ErrNotFound, constants.MsgNotFound, http.StatusNotFound},
		{common.ErrPhotoTooLarge, constants.MsgPhotoSize, http.StatusUnprocessableEntity},
		{errors.New("connection reset by peer"), constants.MsgGenericFailure, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		msg, _, status := h.failure(req, tc.err)
		assert.Equal(t, tc.msg, msg, tc.err.Error())
		assert.Equal(t, tc.status, status, tc.err.Error())
	}
}

func TestWritePhoto(t *testing.T) {
	photo, err := common.ParsePhoto([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	writePhoto(rec, httptest.NewRequest(http.MethodGet, "/equipment/1/photo", nil), photo.MIME, photo.Data)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}
