package services

import (
	"testing"
	"time"

	"clubhouse/internal/constants"
	"clubhouse/internal/models/dtos/requests"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentService_AnnouncementNotifiesEveryoneButAuthor(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin", constants.RoleAdmin)
	env.seedUser(t, "alice", constants.RoleUser)
	env.seedUser(t, "bob", constants.RoleUser)

	item, err := env.content.CreateAnnouncement(bg, "admin", requests.AnnouncementRequest{Title: "Hello", Content: "Meeting moved"})
	require.NoError(t, err)
	assert.Equal(t, "admin", item.PostedBy)

	assert.Empty(t, env.notificationsFor(t, "admin"))
	for _, name := range []string{"alice", "bob"} {
		notes := env.notificationsFor(t, name)
		require.Len(t, notes, 1)
		assert.Equal(t, constants.NotificationAnnouncement, notes[0].Type)
		assert.Equal(t, "New announcement: Hello", notes[0].Message)
	}

	_, err = env.content.CreateAnnouncement(bg, "admin", requests.AnnouncementRequest{Title: "", Content: "x"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestContentService_AnnouncementCRUD(t *testing.T) {
	env := newTestEnv(t)

	item, err := env.content.CreateAnnouncement(bg, "admin", requests.AnnouncementRequest{Title: "One", Content: "first"})
	require.NoError(t, err)

	updated, err := env.content.UpdateAnnouncement(bg, requests.AnnouncementRequest{ID: item.ID, Title: "Uno", Content: "primero"})
	require.NoError(t, err)
	assert.Equal(t, "Uno", updated.Title)

	list, err := env.content.ListAnnouncements(bg, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, env.content.DeleteAnnouncement(bg, item.ID))
	assert.ErrorIs(t, env.content.DeleteAnnouncement(bg, item.ID), ErrNotFound)
	_, err = env.content.UpdateAnnouncement(bg, requests.AnnouncementRequest{ID: item.ID, Title: "x", Content: "y"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContentService_Events(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice", constants.RoleUser)

	_, err := env.content.CreateEvent(bg, "admin", requests.EventRequest{Title: "Jam", Description: "d", EventDate: "tomorrow", Location: "Hall"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.content.CreateEvent(bg, "admin", requests.EventRequest{Title: "Jam", Description: "d", EventDate: "2030-01-02"})
	assert.ErrorIs(t, err, ErrValidation, "location is required")

	future := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02T15:04")
	past := time.Now().UTC().AddDate(0, 0, -7).Format(requests.DateLayout)

	upcoming, err := env.content.CreateEvent(bg, "admin", requests.EventRequest{Title: "Jam", Description: "Open jam", EventDate: future, Location: "Hall"})
	require.NoError(t, err)
	_, err = env.content.CreateEvent(bg, "admin", requests.EventRequest{Title: "Old", Description: "Done", EventDate: past, Location: "Hall"})
	require.NoError(t, err)

	notes := env.notificationsFor(t, "alice")
	require.Len(t, notes, 2)
	assert.Equal(t, constants.NotificationEvent, notes[0].Type)

	all, err := env.content.ListEvents(bg)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "Old", all[0].Title)

	soon, err := env.content.UpcomingEvents(bg, 5)
	require.NoError(t, err)
	require.Len(t, soon, 1)
	assert.Equal(t, upcoming.ID, soon[0].ID)

	updated, err := env.content.UpdateEvent(bg, requests.EventRequest{ID: upcoming.ID, Title: "Jam 2", Description: "Open jam", EventDate: future, Location: "Garage"})
	require.NoError(t, err)
	assert.Equal(t, "Garage", updated.Location)

	require.NoError(t, env.content.DeleteEvent(bg, upcoming.ID))
	_, err = env.content.GetEvent(bg, upcoming.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
