package services

import (
	"testing"

	"clubhouse/internal/common"
	"clubhouse/internal/constants"
	"clubhouse/internal/models/dtos/requests"
	gormModels "clubhouse/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func registration(username, email string) requests.RegisterMemberRequest {
	return requests.RegisterMemberRequest{
		Name:     "Test Member",
		Email:    email,
		Username: username,
		Password: "secret1",
		Birthday: "1990-04-12",
	}
}

func TestMemberService_RegisterQueuesWithHash(t *testing.T) {
	env := newTestEnv(t)

	entry, err := env.members.Register(bg, registration("newbie", "Newbie@Example.com"), &common.PhotoUpload{MIME: "image/png", Data: "AAAA"})
	require.NoError(t, err)
	assert.Equal(t, "newbie@example.com", entry.Email)
	assert.NotEqual(t, "secret1", entry.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(entry.PasswordHash), []byte("secret1")))
	require.NotNil(t, entry.Birthday)
	assert.Equal(t, "1990-04-12", entry.Birthday.Format(requests.DateLayout))
	assert.True(t, entry.HasPhoto())

	assert.Equal(t, int64(0), env.count(t, &gormModels.User{}))
	assert.Equal(t, int64(1), env.count(t, &gormModels.PendingMember{}))
}

func TestMemberService_RegisterRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "taken", constants.RoleUser)

	_, err := env.members.Register(bg, registration("taken", "fresh@example.com"), nil)
	assert.ErrorIs(t, err, ErrConflict)
	msg, _ := UserMessage(err)
	assert.Equal(t, constants.MsgUsernameTaken, msg)

	_, err = env.members.Register(bg, registration("fresh", "taken@example.com"), nil)
	assert.ErrorIs(t, err, ErrConflict)
	msg, _ = UserMessage(err)
	assert.Equal(t, constants.MsgEmailTaken, msg)

	_, err = env.members.Register(bg, registration("queued", "queued@example.com"), nil)
	require.NoError(t, err)
	_, err = env.members.Register(bg, registration("queued", "other@example.com"), nil)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = env.members.Register(bg, registration("other", "QUEUED@example.com"), nil)
	assert.ErrorIs(t, err, ErrConflict)

	assert.Equal(t, int64(1), env.count(t, &gormModels.PendingMember{}))
	assert.Equal(t, int64(1), env.count(t, &gormModels.User{}))
}

func TestMemberService_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	form := registration("ab", "not-an-email")
	form.Password = "123"
	form.Birthday = "12/04/1990"

	_, err := env.members.Register(bg, form, nil)
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Field("username"))
	assert.NotEmpty(t, verr.Field("email"))
	assert.NotEmpty(t, verr.Field("password"))
	assert.NotEmpty(t, verr.Field("birthday"))
	assert.Empty(t, verr.Field("name"))
}

func TestMemberService_ApprovePromotesAndNotifies(t *testing.T) {
	env := newTestEnv(t)

	entry, err := env.members.Register(bg, registration("newbie", "newbie@example.com"), nil)
	require.NoError(t, err)

	user, err := env.members.ApprovePending(bg, entry.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, constants.RoleUser, user.Role)
	assert.Equal(t, entry.PasswordHash, user.PasswordHash)
	assert.Equal(t, int64(0), env.count(t, &gormModels.PendingMember{}))

	notes := env.notificationsFor(t, "newbie")
	require.Len(t, notes, 1)
	assert.Equal(t, constants.NotificationMemberApproved, notes[0].Type)

	_, err = env.members.ApprovePending(bg, entry.ID, "admin")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemberService_ApproveCollisionKeepsQueue(t *testing.T) {
	env := newTestEnv(t)

	entry, err := env.members.Register(bg, registration("late", "late@example.com"), nil)
	require.NoError(t, err)

	// someone claims the name while the registration waits
	env.seedUser(t, "late", constants.RoleUser)

	_, err = env.members.ApprovePending(bg, entry.ID, "admin")
	assert.ErrorIs(t, err, ErrConflict)
	msg, _ := UserMessage(err)
	assert.Equal(t, constants.MsgApprovalCollision, msg)

	assert.Equal(t, int64(1), env.count(t, &gormModels.PendingMember{}))
	assert.Equal(t, int64(1), env.count(t, &gormModels.User{}))
	assert.Empty(t, env.notificationsFor(t, "late"))
}

func TestMemberService_UniqueIndexRacesAreConflicts(t *testing.T) {
	env := newTestEnv(t)

	entry, err := env.members.Register(bg, registration("racer", "racer@example.com"), nil)
	require.NoError(t, err)

	env.claimBeforeInsert(t, "users", func(tx *gorm.DB) error {
		return tx.Create(&gormModels.User{Username: "racer", PasswordHash: "x", Role: constants.RoleUser, Email: "elsewhere@example.com"}).Error
	})
	_, err = env.members.ApprovePending(bg, entry.ID, "admin")
	assert.ErrorIs(t, err, ErrConflict)
	msg, _ := UserMessage(err)
	assert.Equal(t, constants.MsgApprovalCollision, msg)
	assert.Equal(t, int64(1), env.count(t, &gormModels.PendingMember{}))

	env.claimBeforeInsert(t, "pending_members", func(tx *gorm.DB) error {
		return tx.Create(&gormModels.PendingMember{Username: "twin", PasswordHash: "x", Email: "twin@example.com"}).Error
	})
	_, err = env.members.Register(bg, registration("twin", "twin2@example.com"), nil)
	assert.ErrorIs(t, err, ErrConflict)
	msg, _ = UserMessage(err)
	assert.Equal(t, constants.MsgIdentityTaken, msg)
	assert.Equal(t, int64(1), env.count(t, &gormModels.PendingMember{}))
}

func TestMemberService_DenyDiscards(t *testing.T) {
	env := newTestEnv(t)

	entry, err := env.members.Register(bg, registration("nope", "nope@example.com"), nil)
	require.NoError(t, err)

	require.NoError(t, env.members.DenyPending(bg, entry.ID, "admin"))
	assert.Equal(t, int64(0), env.count(t, &gormModels.PendingMember{}))
	assert.Equal(t, int64(0), env.count(t, &gormModels.User{}))
	assert.ErrorIs(t, env.members.DenyPending(bg, entry.ID, "admin"), ErrNotFound)
}

func TestMemberService_CreateUpdate(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.members.Create(bg, requests.MemberRequest{Name: "A", Email: "a@example.com", Username: "alpha"}, nil)
	assert.ErrorIs(t, err, ErrValidation, "password is required on create")

	user, err := env.members.Create(bg, requests.MemberRequest{Name: "A", Email: "a@example.com", Username: "alpha", Password: "secret1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleUser, user.Role)

	env.seedUser(t, "beta", constants.RoleUser)

	_, err = env.members.Update(bg, requests.MemberRequest{ID: user.ID, Name: "A", Email: "beta@example.com", Username: "alpha"}, nil)
	assert.ErrorIs(t, err, ErrConflict)

	oldHash := user.PasswordHash
	updated, err := env.members.Update(bg, requests.MemberRequest{ID: user.ID, Name: "Alpha", Email: "a@example.com", Username: "alpha", Role: "admin"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", updated.Name)
	assert.Equal(t, constants.RoleAdmin, updated.Role)
	assert.Equal(t, oldHash, updated.PasswordHash, "blank password keeps the old one")

	updated, err = env.members.Update(bg, requests.MemberRequest{ID: user.ID, Name: "Alpha", Email: "a@example.com", Username: "alpha", Password: "newsecret"}, nil)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("newsecret")))
}

func TestMemberService_DeleteRules(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", constants.RoleAdmin)
	alice := env.seedUser(t, "alice", constants.RoleUser)
	carol := env.seedUser(t, "carol", constants.RoleUser)
	item := env.seedEquipment(t, "Camera", 2)

	assert.ErrorIs(t, env.members.Delete(bg, admin.ID, admin.ID), ErrConflict)

	_, err := env.equipment.RequestEquipment(bg, "alice", loan(item.ID, 1))
	require.NoError(t, err)
	assert.ErrorIs(t, env.members.Delete(bg, alice.ID, admin.ID), ErrConflict)

	// carol only has denied history, which goes with the account
	req, err := env.equipment.RequestEquipment(bg, "carol", loan(item.ID, 1))
	require.NoError(t, err)
	_, err = env.equipment.DenyRequest(bg, req.ID, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, env.notificationsFor(t, "carol"))

	require.NoError(t, env.members.Delete(bg, carol.ID, admin.ID))
	assert.ErrorIs(t, env.members.Delete(bg, carol.ID, admin.ID), ErrNotFound)

	assert.Empty(t, env.notificationsFor(t, "carol"))
	var left int64
	require.NoError(t, env.db.Model(&gormModels.EquipmentRequest{}).Where("username = ?", "carol").Count(&left).Error)
	assert.Zero(t, left)
}

func TestMemberService_RenameCarriesHistory(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin", constants.RoleAdmin)
	dave := env.seedUser(t, "dave", constants.RoleUser)
	item := env.seedEquipment(t, "Flash", 1)

	req, err := env.equipment.RequestEquipment(bg, "dave", loan(item.ID, 1))
	require.NoError(t, err)
	_, err = env.equipment.DenyRequest(bg, req.ID, "admin")
	require.NoError(t, err)

	_, err = env.members.Update(bg, requests.MemberRequest{ID: dave.ID, Name: "Dave", Email: "dave@example.com", Username: "david"}, nil)
	require.NoError(t, err)

	assert.Empty(t, env.notificationsFor(t, "dave"))
	assert.NotEmpty(t, env.notificationsFor(t, "david"))

	mine, err := env.equipment.ListRequests(bg, "david", false)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestMemberService_EnsureAdmin(t *testing.T) {
	env := newTestEnv(t)

	form := requests.MemberRequest{Name: "Root", Email: "root@example.com", Username: "root", Password: "rootpass"}
	created, err := env.members.EnsureAdmin(bg, form)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleAdmin, created.Role)

	// a second run promotes and resets instead of colliding
	env.seedUser(t, "carol", constants.RoleUser)
	form = requests.MemberRequest{Name: "Carol", Email: "carol@example.com", Username: "carol", Password: "newpass1"}
	promoted, err := env.members.EnsureAdmin(bg, form)
	require.NoError(t, err)

	var reloaded gormModels.User
	require.NoError(t, env.db.First(&reloaded, promoted.ID).Error)
	assert.Equal(t, constants.RoleAdmin, reloaded.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(reloaded.PasswordHash), []byte("newpass1")))

	_, err = env.members.EnsureAdmin(bg, requests.MemberRequest{Name: "X", Email: "x@example.com", Username: "x1y"})
	assert.ErrorIs(t, err, ErrValidation)
}
