package services

import (
	"testing"

	"clubhouse/internal/constants"
	"clubhouse/internal/models/dtos/requests"
	gormModels "clubhouse/internal/models/gorm"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loan(id uint, qty int) requests.LoanRequest {
	return requests.LoanRequest{EquipmentID: id, Quantity: qty}
}

func TestEquipmentService_CameraScenario(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin", constants.RoleAdmin)
	env.seedUser(t, "alice", constants.RoleUser)
	env.seedUser(t, "bob", constants.RoleUser)
	camera := env.seedEquipment(t, "Camera", 3)

	req, err := env.equipment.RequestEquipment(bg, "alice", loan(camera.ID, 2))
	require.NoError(t, err)
	assert.Equal(t, constants.RequestPending, req.Status)
	assert.Equal(t, 3, env.reloadEquipment(t, camera.ID).AvailableQuantity, "pending requests do not take stock")

	approved, err := env.equipment.ApproveRequest(bg, req.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, constants.RequestApproved, approved.Status)
	assert.Equal(t, 1, env.reloadEquipment(t, camera.ID).AvailableQuantity)

	notes := env.notificationsFor(t, "alice")
	require.Len(t, notes, 1)
	assert.Equal(t, constants.NotificationRequestApproved, notes[0].Type)
	require.NotNil(t, notes[0].ItemID)
	assert.Equal(t, req.ID, *notes[0].ItemID)

	_, err = env.equipment.RequestEquipment(bg, "bob", loan(camera.ID, 2))
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var bobs int64
	require.NoError(t, env.db.Model(&gormModels.EquipmentRequest{}).Where("username = ?", "bob").Count(&bobs).Error)
	assert.Zero(t, bobs)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.EquipmentRequestsTotal.WithLabelValues("rejected_stock")))
}

func TestEquipmentService_SingleItemBlocksSecondRequest(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin", constants.RoleAdmin)
	tripod := env.seedEquipment(t, "Tripod", 1)

	first, err := env.equipment.RequestEquipment(bg, "alice", loan(tripod.ID, 1))
	require.NoError(t, err)

	stock, err := env.equipment.Get(bg, tripod.ID)
	require.NoError(t, err)
	assert.False(t, stock.Available(), "a pending request holds the only unit")
	assert.Equal(t, 0, stock.Free())

	_, err = env.equipment.RequestEquipment(bg, "bob", loan(tripod.ID, 1))
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = env.equipment.ApproveRequest(bg, first.ID, "admin")
	require.NoError(t, err)

	_, err = env.equipment.RequestEquipment(bg, "bob", loan(tripod.ID, 1))
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestEquipmentService_ApproveFailsWhenStockShort(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedEquipment(t, "Mixer", 2)

	req, err := env.equipment.RequestEquipment(bg, "alice", loan(item.ID, 2))
	require.NoError(t, err)

	// stock shrinks behind the request's back
	require.NoError(t, env.db.Model(&gormModels.Equipment{}).Where("id = ?", item.ID).
		Update("available_quantity", 1).Error)

	_, err = env.equipment.ApproveRequest(bg, req.ID, "admin")
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var reloaded gormModels.EquipmentRequest
	require.NoError(t, env.db.First(&reloaded, req.ID).Error)
	assert.Equal(t, constants.RequestPending, reloaded.Status)
	assert.Equal(t, 1, env.reloadEquipment(t, item.ID).AvailableQuantity)
	assert.Empty(t, env.notificationsFor(t, "alice"))
}

func TestEquipmentService_DecisionsAreTerminal(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedEquipment(t, "Light", 5)

	req, err := env.equipment.RequestEquipment(bg, "alice", loan(item.ID, 1))
	require.NoError(t, err)

	_, err = env.equipment.DenyRequest(bg, req.ID, "admin")
	require.NoError(t, err)

	_, err = env.equipment.ApproveRequest(bg, req.ID, "admin")
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = env.equipment.DenyRequest(bg, req.ID, "admin")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = env.equipment.ApproveRequest(bg, 9999, "admin")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEquipmentService_DenyNeverReducesAvailability(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedEquipment(t, "Speaker", 4)

	approvedReq, err := env.equipment.RequestEquipment(bg, "alice", loan(item.ID, 1))
	require.NoError(t, err)
	_, err = env.equipment.ApproveRequest(bg, approvedReq.ID, "admin")
	require.NoError(t, err)

	pendingReq, err := env.equipment.RequestEquipment(bg, "bob", loan(item.ID, 3))
	require.NoError(t, err)

	before, err := env.equipment.Get(bg, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, before.Free())

	denied, err := env.equipment.DenyRequest(bg, pendingReq.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, constants.RequestDenied, denied.Status)

	after, err := env.equipment.Get(bg, item.ID)
	require.NoError(t, err)
	assert.Equal(t, before.AvailableQuantity, after.AvailableQuantity)
	assert.Equal(t, 3, after.Free(), "the denied hold is released")

	notes := env.notificationsFor(t, "bob")
	require.Len(t, notes, 1)
	assert.Equal(t, constants.NotificationRequestDenied, notes[0].Type)
}

func TestEquipmentService_RequestNotifiesAdmins(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "root", constants.RoleAdmin)
	env.seedUser(t, "ops", constants.RoleAdmin)
	env.seedUser(t, "alice", constants.RoleUser)
	item := env.seedEquipment(t, "Cable", 10)

	_, err := env.equipment.RequestEquipment(bg, "alice", loan(item.ID, 2))
	require.NoError(t, err)

	assert.Len(t, env.notificationsFor(t, "root"), 1)
	assert.Len(t, env.notificationsFor(t, "ops"), 1)
	assert.Empty(t, env.notificationsFor(t, "alice"))
	assert.Contains(t, env.notificationsFor(t, "root")[0].Message, "alice requested 2 x Cable")
}

func TestEquipmentService_NotificationFailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin", constants.RoleAdmin)
	item := env.seedEquipment(t, "Drone", 2)

	req, err := env.equipment.RequestEquipment(bg, "alice", loan(item.ID, 1))
	require.NoError(t, err)

	require.NoError(t, env.db.Migrator().DropTable(&gormModels.Notification{}))

	_, err = env.equipment.ApproveRequest(bg, req.ID, "admin")
	require.Error(t, err)

	var reloaded gormModels.EquipmentRequest
	require.NoError(t, env.db.First(&reloaded, req.ID).Error)
	assert.Equal(t, constants.RequestPending, reloaded.Status)
	assert.Equal(t, 2, env.reloadEquipment(t, item.ID).AvailableQuantity)

	_, err = env.equipment.RequestEquipment(bg, "bob", loan(item.ID, 1))
	require.Error(t, err)
	assert.Equal(t, int64(1), env.count(t, &gormModels.EquipmentRequest{}))
}

func TestEquipmentService_RequestValidation(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedEquipment(t, "Mic", 2)

	_, err := env.equipment.RequestEquipment(bg, "alice", loan(item.ID, 0))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.equipment.RequestEquipment(bg, "alice", requests.LoanRequest{EquipmentID: item.ID, Quantity: 1, ReturnDate: "2001-01-01"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.equipment.RequestEquipment(bg, "alice", requests.LoanRequest{EquipmentID: item.ID, Quantity: 1, ReturnDate: "soon"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.equipment.RequestEquipment(bg, "alice", loan(4242, 1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEquipmentService_DeleteBlockedByActiveRequests(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedEquipment(t, "Projector", 2)

	req, err := env.equipment.RequestEquipment(bg, "alice", loan(item.ID, 1))
	require.NoError(t, err)

	err = env.equipment.Delete(bg, item.ID)
	assert.ErrorIs(t, err, ErrConflict)
	msg, ok := UserMessage(err)
	assert.True(t, ok)
	assert.Equal(t, constants.MsgEquipmentInUse, msg)

	_, err = env.equipment.ApproveRequest(bg, req.ID, "admin")
	require.NoError(t, err)
	assert.ErrorIs(t, env.equipment.Delete(bg, item.ID), ErrConflict)

	other := env.seedEquipment(t, "Screen", 1)
	deniedReq, err := env.equipment.RequestEquipment(bg, "alice", loan(other.ID, 1))
	require.NoError(t, err)
	_, err = env.equipment.DenyRequest(bg, deniedReq.ID, "admin")
	require.NoError(t, err)

	require.NoError(t, env.equipment.Delete(bg, other.ID))
	assert.ErrorIs(t, env.equipment.Delete(bg, other.ID), ErrNotFound)
	assert.Equal(t, int64(1), env.count(t, &gormModels.EquipmentRequest{}))
}

func TestEquipmentService_CreateAndUpdate(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.equipment.Create(bg, requests.EquipmentRequest{Name: " ", Brand: "b", Model: "m", Quantity: 1}, nil)
	assert.ErrorIs(t, err, ErrValidation)

	item, err := env.equipment.Create(bg, requests.EquipmentRequest{Name: "Camera", Brand: "Canon", Model: "R6", Quantity: 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, item.AvailableQuantity)

	req, err := env.equipment.RequestEquipment(bg, "alice", loan(item.ID, 2))
	require.NoError(t, err)
	_, err = env.equipment.ApproveRequest(bg, req.ID, "admin")
	require.NoError(t, err)

	_, err = env.equipment.Update(bg, requests.EquipmentRequest{ID: item.ID, Name: "Camera", Brand: "Canon", Model: "R6", Quantity: 1}, nil)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 1, env.reloadEquipment(t, item.ID).AvailableQuantity)

	updated, err := env.equipment.Update(bg, requests.EquipmentRequest{ID: item.ID, Name: "Camera II", Brand: "Canon", Model: "R6", Quantity: 5}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Camera II", updated.Name)
	assert.Equal(t, 5, updated.Quantity)
	assert.Equal(t, 3, updated.AvailableQuantity)
}

func TestEquipmentService_StockInvariantHolds(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedEquipment(t, "Battery", 5)

	var ids []uint
	for _, qty := range []int{1, 2, 2, 1} {
		req, err := env.equipment.RequestEquipment(bg, "alice", loan(item.ID, qty))
		if err != nil {
			assert.ErrorIs(t, err, ErrInsufficientStock)
			continue
		}
		ids = append(ids, req.ID)
	}
	for i, id := range ids {
		if i%2 == 0 {
			_, _ = env.equipment.ApproveRequest(bg, id, "admin")
		} else {
			_, _ = env.equipment.DenyRequest(bg, id, "admin")
		}
	}

	stock, err := env.equipment.List(bg)
	require.NoError(t, err)
	for _, s := range stock {
		assert.GreaterOrEqual(t, s.AvailableQuantity, 0)
		assert.LessOrEqual(t, s.AvailableQuantity, s.Quantity)
		assert.GreaterOrEqual(t, s.Free(), 0)
	}
}

func TestEquipmentService_ListRequestsScopesMembers(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedEquipment(t, "Stand", 10)

	_, err := env.equipment.RequestEquipment(bg, "alice", loan(item.ID, 1))
	require.NoError(t, err)
	_, err = env.equipment.RequestEquipment(bg, "bob", loan(item.ID, 1))
	require.NoError(t, err)

	all, err := env.equipment.ListRequests(bg, "admin", true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := env.equipment.ListRequests(bg, "alice", false)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "alice", mine[0].Username)
	assert.Equal(t, "Stand", mine[0].Equipment.Name)
}
