package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clubhouse/internal/common"
	"clubhouse/internal/constants"
	"clubhouse/internal/db/repositories"
	"clubhouse/internal/logging"
	"clubhouse/internal/metrics"
	"clubhouse/internal/models/dtos/requests"
	gormModels "clubhouse/internal/models/gorm"

	"gorm.io/gorm"
)

// EquipmentService owns the inventory and the loan request lifecycle.
//
// Stock model: available_quantity counts units not out on approved loans.
// Pending requests leave it untouched but hold units, so a new request may
// ask for at most available_quantity - sum(pending). Approval decrements the
// counter with a conditional update; denial never touches it.
type EquipmentService struct {
	db        *gorm.DB
	equipment *repositories.EquipmentRepository
	requests  *repositories.EquipmentRequestRepository
	notifier  *NotificationService
	validator *FormValidator
	metrics   *metrics.MetricsRegistry
}

func NewEquipmentService(
	db *gorm.DB,
	notifier *NotificationService,
	validator *FormValidator,
	metricsReg *metrics.MetricsRegistry,
) *EquipmentService {
	return &EquipmentService{
		db:        db,
		equipment: repositories.NewEquipmentRepository(db),
		requests:  repositories.NewEquipmentRequestRepository(db),
		notifier:  notifier,
		validator: validator,
		metrics:   metricsReg,
	}
}

// List returns the inventory with derived availability
func (svc *EquipmentService) List(ctx context.Context) ([]gormModels.EquipmentStock, error) {
	return svc.equipment.ListStock(ctx)
}

func (svc *EquipmentService) Get(ctx context.Context, id uint) (*gormModels.EquipmentStock, error) {
	return svc.equipment.GetStock(ctx, id)
}

// Photo returns the stored image of an item
func (svc *EquipmentService) Photo(ctx context.Context, id uint) (*gormModels.Photo, error) {
	item, err := svc.equipment.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.HasPhoto() {
		return nil, fmt.Errorf("equipment %d photo: %w", id, ErrNotFound)
	}
	return &item.Photo, nil
}

func normalizeEquipment(form *requests.EquipmentRequest) {
	form.Name = strings.TrimSpace(form.Name)
	form.Brand = strings.TrimSpace(form.Brand)
	form.Model = strings.TrimSpace(form.Model)
	form.Specifications = strings.TrimSpace(form.Specifications)
}

// Create adds a new item with every unit available
func (svc *EquipmentService) Create(ctx context.Context, form requests.EquipmentRequest, photo *common.PhotoUpload) (*gormModels.Equipment, error) {
	normalizeEquipment(&form)
	if err := svc.validator.Validate(form); err != nil {
		return nil, err
	}

	item := &gormModels.Equipment{
		Name:              form.Name,
		Brand:             form.Brand,
		Model:             form.Model,
		Specifications:    form.Specifications,
		Quantity:          form.Quantity,
		AvailableQuantity: form.Quantity,
	}
	if photo != nil {
		item.Photo = gormModels.Photo{PhotoMIME: photo.MIME, PhotoData: photo.Data}
	}

	if err := svc.equipment.Create(ctx, item); err != nil {
		return nil, err
	}

	logging.Info("Equipment created", "equipment_id", item.ID, "name", item.Name, "quantity", item.Quantity)
	return item, nil
}

// Update edits an item. available_quantity is recomputed as quantity minus
// the units out on approved loans, and the quantity may not drop below that.
func (svc *EquipmentService) Update(ctx context.Context, form requests.EquipmentRequest, photo *common.PhotoUpload) (*gormModels.Equipment, error) {
	normalizeEquipment(&form)
	if err := svc.validator.Validate(form); err != nil {
		return nil, err
	}

	var updated *gormModels.Equipment
	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		equipment := svc.equipment.WithTx(tx)

		item, err := equipment.GetForUpdate(ctx, form.ID)
		if err != nil {
			return err
		}

		onLoan, err := equipment.HeldQuantity(ctx, item.ID, constants.RequestApproved)
		if err != nil {
			return err
		}
		if form.Quantity < onLoan {
			return conflict(constants.MsgQuantityBelowLoaned)
		}

		item.Name = form.Name
		item.Brand = form.Brand
		item.Model = form.Model
		item.Specifications = form.Specifications
		item.Quantity = form.Quantity
		item.AvailableQuantity = form.Quantity - onLoan

		switch {
		case photo != nil:
			item.Photo = gormModels.Photo{PhotoMIME: photo.MIME, PhotoData: photo.Data}
		case form.RemovePhoto:
			item.Photo = gormModels.Photo{}
		}

		if err := equipment.Update(ctx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Info("Equipment updated", "equipment_id", updated.ID, "quantity", updated.Quantity, "available", updated.AvailableQuantity)
	return updated, nil
}

// Delete removes an item unless a pending or approved request references it
func (svc *EquipmentService) Delete(ctx context.Context, id uint) error {
	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		equipment := svc.equipment.WithTx(tx)

		if _, err := equipment.GetForUpdate(ctx, id); err != nil {
			return err
		}

		active, err := equipment.CountActiveRequests(ctx, id)
		if err != nil {
			return err
		}
		if active > 0 {
			return conflict(constants.MsgEquipmentInUse)
		}

		return equipment.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	logging.Info("Equipment deleted", "equipment_id", id)
	return nil
}

// ListRequests shows admins every request and members their own
func (svc *EquipmentService) ListRequests(ctx context.Context, username string, isAdmin bool) ([]gormModels.EquipmentRequest, error) {
	if isAdmin {
		return svc.requests.List(ctx, "")
	}
	return svc.requests.List(ctx, username)
}

// RequestEquipment creates a pending request. The item row is locked and the
// free quantity re-checked inside the transaction, so two members cannot both
// claim the last units.
func (svc *EquipmentService) RequestEquipment(ctx context.Context, username string, form requests.LoanRequest) (*gormModels.EquipmentRequest, error) {
	if err := svc.validator.Validate(form); err != nil {
		return nil, err
	}

	returnDate, err := parseOptionalDate(form.ReturnDate)
	if err != nil {
		return nil, fieldError("returndate", "Return date must be a date (YYYY-MM-DD).")
	}
	if returnDate != nil && returnDate.Before(today()) {
		return nil, fieldError("returndate", "Return date cannot be in the past.")
	}

	var created *gormModels.EquipmentRequest
	err = svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		equipment := svc.equipment.WithTx(tx)

		item, err := equipment.GetForUpdate(ctx, form.EquipmentID)
		if err != nil {
			return err
		}

		pending, err := equipment.HeldQuantity(ctx, item.ID, constants.RequestPending)
		if err != nil {
			return err
		}
		if form.Quantity > item.AvailableQuantity-pending {
			return ErrInsufficientStock
		}

		req := &gormModels.EquipmentRequest{
			EquipmentID: item.ID,
			Username:    username,
			Quantity:    form.Quantity,
			ReturnDate:  returnDate,
			Status:      constants.RequestPending,
		}
		if err := svc.requests.WithTx(tx).Create(ctx, req); err != nil {
			return err
		}

		msg := fmt.Sprintf("%s requested %d x %s", username, form.Quantity, item.Name)
		if err := svc.notifier.NotifyRole(ctx, tx, constants.RoleAdmin, username, constants.NotificationEquipmentRequest, req.ID, msg); err != nil {
			return err
		}

		req.Equipment = *item
		created = req
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			svc.metrics.EquipmentRequest("rejected_stock")
		}
		return nil, err
	}

	svc.metrics.EquipmentRequest("submitted")
	logging.Info("Equipment requested", "request_id", created.ID, "equipment_id", created.EquipmentID, "username", username, "quantity", created.Quantity)
	return created, nil
}

// ApproveRequest decrements stock and marks the request approved, or changes
// nothing when the quantity no longer fits.
func (svc *EquipmentService) ApproveRequest(ctx context.Context, requestID uint, admin string) (*gormModels.EquipmentRequest, error) {
	var approved *gormModels.EquipmentRequest

	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reqs := svc.requests.WithTx(tx)

		req, err := reqs.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != constants.RequestPending {
			return ErrInvalidState
		}

		ok, err := svc.equipment.WithTx(tx).TakeStock(ctx, req.EquipmentID, req.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientStock
		}

		decided, err := reqs.Decide(ctx, req.ID, constants.RequestApproved, admin)
		if err != nil {
			return err
		}
		if !decided {
			return ErrInvalidState
		}

		msg := fmt.Sprintf("Your request for %d x %s was approved", req.Quantity, req.Equipment.Name)
		if err := svc.notifier.NotifyUsers(ctx, tx, []string{req.Username}, constants.NotificationRequestApproved, req.ID, msg); err != nil {
			return err
		}

		req.Status = constants.RequestApproved
		approved = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	svc.metrics.EquipmentRequest("approved")
	logging.Info("Equipment request approved", "request_id", requestID, "admin", admin)
	return approved, nil
}

// DenyRequest marks the request denied. Stock was never taken for a pending
// request, so only the hold disappears.
func (svc *EquipmentService) DenyRequest(ctx context.Context, requestID uint, admin string) (*gormModels.EquipmentRequest, error) {
	var denied *gormModels.EquipmentRequest

	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reqs := svc.requests.WithTx(tx)

		req, err := reqs.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != constants.RequestPending {
			return ErrInvalidState
		}

		decided, err := reqs.Decide(ctx, req.ID, constants.RequestDenied, admin)
		if err != nil {
			return err
		}
		if !decided {
			return ErrInvalidState
		}

		msg := fmt.Sprintf("Your request for %d x %s was denied", req.Quantity, req.Equipment.Name)
		if err := svc.notifier.NotifyUsers(ctx, tx, []string{req.Username}, constants.NotificationRequestDenied, req.ID, msg); err != nil {
			return err
		}

		req.Status = constants.RequestDenied
		denied = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	svc.metrics.EquipmentRequest("denied")
	logging.Info("Equipment request denied", "request_id", requestID, "admin", admin)
	return denied, nil
}

func today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
