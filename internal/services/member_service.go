package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clubhouse/internal/common"
	"clubhouse/internal/constants"
	"clubhouse/internal/db/repositories"
	"clubhouse/internal/logging"
	"clubhouse/internal/metrics"
	"clubhouse/internal/models/dtos/requests"
	gormModels "clubhouse/internal/models/gorm"

	"gorm.io/gorm"
)

// MemberService manages accounts and the self-registration queue
type MemberService struct {
	db        *gorm.DB
	users     *repositories.UserRepositoryGORM
	pending   *repositories.PendingMemberRepository
	requests  *repositories.EquipmentRequestRepository
	notifier  *NotificationService
	validator *FormValidator
	metrics   *metrics.MetricsRegistry
}

func NewMemberService(
	db *gorm.DB,
	notifier *NotificationService,
	validator *FormValidator,
	metricsReg *metrics.MetricsRegistry,
) *MemberService {
	return &MemberService{
		db:        db,
		users:     repositories.NewUserRepositoryGORM(db),
		pending:   repositories.NewPendingMemberRepository(db),
		requests:  repositories.NewEquipmentRequestRepository(db),
		notifier:  notifier,
		validator: validator,
		metrics:   metricsReg,
	}
}

func normalizeIdentity(username, email *string) {
	*username = strings.TrimSpace(*username)
	*email = strings.ToLower(strings.TrimSpace(*email))
}

// Register queues a self-registration. Username and email must be free in
// both the user table and the queue.
func (svc *MemberService) Register(ctx context.Context, form requests.RegisterMemberRequest, photo *common.PhotoUpload) (*gormModels.PendingMember, error) {
	normalizeIdentity(&form.Username, &form.Email)
	form.Name = strings.TrimSpace(form.Name)
	form.Phone = strings.TrimSpace(form.Phone)

	if err := svc.validator.Validate(form); err != nil {
		return nil, err
	}
	birthday, err := parseOptionalDate(form.Birthday)
	if err != nil {
		return nil, fieldError("birthday", "Birthday must be a date (YYYY-MM-DD).")
	}

	hash, err := HashPassword(form.Password)
	if err != nil {
		return nil, err
	}

	entry := &gormModels.PendingMember{
		Username:     form.Username,
		PasswordHash: hash,
		Name:         form.Name,
		Email:        form.Email,
		Phone:        form.Phone,
		Birthday:     birthday,
	}
	if photo != nil {
		entry.Photo = gormModels.Photo{PhotoMIME: photo.MIME, PhotoData: photo.Data}
	}

	err = svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := svc.checkIdentityFree(ctx, tx, form.Username, form.Email, 0); err != nil {
			return err
		}

		queue := svc.pending.WithTx(tx)
		queued, err := queue.UsernameQueued(ctx, form.Username)
		if err != nil {
			return err
		}
		if queued {
			return conflict(constants.MsgUsernamePending)
		}
		queued, err = queue.EmailQueued(ctx, form.Email)
		if err != nil {
			return err
		}
		if queued {
			return conflict(constants.MsgEmailPending)
		}

		return queue.Create(ctx, entry)
	})
	if err != nil {
		// a concurrent registration or approval won the unique index
		if errors.Is(err, ErrDuplicate) {
			return nil, conflict(constants.MsgIdentityTaken)
		}
		return nil, err
	}

	logging.Info("Registration queued", "username", entry.Username)
	return entry, nil
}

// checkIdentityFree reports a conflict when username or email belongs to a
// user other than excludeID
func (svc *MemberService) checkIdentityFree(ctx context.Context, tx *gorm.DB, username, email string, excludeID uint) error {
	users := svc.users.WithTx(tx)

	taken, err := users.UsernameTaken(ctx, username, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return conflict(constants.MsgUsernameTaken)
	}

	taken, err = users.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return conflict(constants.MsgEmailTaken)
	}
	return nil
}

func (svc *MemberService) ListPending(ctx context.Context) ([]gormModels.PendingMember, error) {
	return svc.pending.List(ctx)
}

func (svc *MemberService) PendingCount(ctx context.Context) (int64, error) {
	return svc.pending.Count(ctx)
}

// ApprovePending promotes a queued registration into a member account.
// Uniqueness is checked again because a name may have been claimed since
// the registration was queued; on collision the queue entry is kept.
func (svc *MemberService) ApprovePending(ctx context.Context, pendingID uint, admin string) (*gormModels.User, error) {
	var user *gormModels.User

	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		queue := svc.pending.WithTx(tx)

		entry, err := queue.GetByID(ctx, pendingID)
		if err != nil {
			return err
		}

		if err := svc.checkIdentityFree(ctx, tx, entry.Username, entry.Email, 0); err != nil {
			if errors.Is(err, ErrConflict) {
				return conflict(constants.MsgApprovalCollision)
			}
			return err
		}

		user = &gormModels.User{
			Username:     entry.Username,
			PasswordHash: entry.PasswordHash,
			Role:         constants.RoleUser,
			Name:         entry.Name,
			Email:        entry.Email,
			Phone:        entry.Phone,
			Birthday:     entry.Birthday,
			Photo:        entry.Photo,
		}
		if err := svc.users.WithTx(tx).Create(ctx, user); err != nil {
			if errors.Is(err, ErrDuplicate) {
				return conflict(constants.MsgApprovalCollision)
			}
			return err
		}

		if err := queue.Delete(ctx, entry.ID); err != nil {
			return err
		}

		return svc.notifier.NotifyUsers(ctx, tx, []string{user.Username}, constants.NotificationMemberApproved, user.ID, constants.MsgWelcomeNotification)
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			svc.metrics.MemberDecision("collision")
		}
		return nil, err
	}

	svc.metrics.MemberDecision("approved")
	logging.Info("Registration approved", "username", user.Username, "admin", admin)
	return user, nil
}

// DenyPending discards a queued registration
func (svc *MemberService) DenyPending(ctx context.Context, pendingID uint, admin string) error {
	if err := svc.pending.Delete(ctx, pendingID); err != nil {
		return err
	}

	svc.metrics.MemberDecision("denied")
	logging.Info("Registration denied", "pending_id", pendingID, "admin", admin)
	return nil
}

func (svc *MemberService) List(ctx context.Context) ([]gormModels.User, error) {
	return svc.users.List(ctx)
}

func (svc *MemberService) Get(ctx context.Context, id uint) (*gormModels.User, error) {
	return svc.users.GetByID(ctx, id)
}

// Photo returns a member's stored image
func (svc *MemberService) Photo(ctx context.Context, id uint) (*gormModels.Photo, error) {
	user, err := svc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.HasPhoto() {
		return nil, fmt.Errorf("user %d photo: %w", id, ErrNotFound)
	}
	return &user.Photo, nil
}

func normalizeMember(form *requests.MemberRequest) {
	normalizeIdentity(&form.Username, &form.Email)
	form.Name = strings.TrimSpace(form.Name)
	form.Phone = strings.TrimSpace(form.Phone)
	if form.Role == "" {
		form.Role = constants.RoleUser.String()
	}
}

// Create adds an account directly, bypassing the queue
func (svc *MemberService) Create(ctx context.Context, form requests.MemberRequest, photo *common.PhotoUpload) (*gormModels.User, error) {
	normalizeMember(&form)
	if err := svc.validator.Validate(form); err != nil {
		return nil, err
	}
	if form.Password == "" {
		return nil, fieldError("password", "Password is required.")
	}
	birthday, err := parseOptionalDate(form.Birthday)
	if err != nil {
		return nil, fieldError("birthday", "Birthday must be a date (YYYY-MM-DD).")
	}

	hash, err := HashPassword(form.Password)
	if err != nil {
		return nil, err
	}

	user := &gormModels.User{
		Username:     form.Username,
		PasswordHash: hash,
		Role:         constants.Role(form.Role),
		Name:         form.Name,
		Email:        form.Email,
		Phone:        form.Phone,
		Birthday:     birthday,
	}
	if photo != nil {
		user.Photo = gormModels.Photo{PhotoMIME: photo.MIME, PhotoData: photo.Data}
	}

	err = svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := svc.checkIdentityFree(ctx, tx, form.Username, form.Email, 0); err != nil {
			return err
		}
		return svc.users.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, conflict(constants.MsgIdentityTaken)
		}
		return nil, err
	}

	logging.Info("Member created", "username", user.Username, "role", user.Role)
	return user, nil
}

// Update edits an account. The password and photo only change when supplied.
func (svc *MemberService) Update(ctx context.Context, form requests.MemberRequest, photo *common.PhotoUpload) (*gormModels.User, error) {
	normalizeMember(&form)
	if err := svc.validator.Validate(form); err != nil {
		return nil, err
	}
	birthday, err := parseOptionalDate(form.Birthday)
	if err != nil {
		return nil, fieldError("birthday", "Birthday must be a date (YYYY-MM-DD).")
	}

	var hash string
	if form.Password != "" {
		if hash, err = HashPassword(form.Password); err != nil {
			return nil, err
		}
	}

	var updated *gormModels.User
	err = svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := svc.users.WithTx(tx)

		user, err := users.GetByID(ctx, form.ID)
		if err != nil {
			return err
		}
		if err := svc.checkIdentityFree(ctx, tx, form.Username, form.Email, user.ID); err != nil {
			return err
		}

		renamed := user.Username != form.Username
		if renamed {
			active, err := svc.requests.WithTx(tx).CountActiveByUsername(ctx, user.Username)
			if err != nil {
				return err
			}
			if active > 0 {
				return conflict(constants.MsgMemberHasRequests)
			}
			// history follows the account, not the name
			if err := svc.requests.WithTx(tx).Rename(ctx, user.Username, form.Username); err != nil {
				return err
			}
			if err := svc.notifier.RenameUser(ctx, tx, user.Username, form.Username); err != nil {
				return err
			}
		}

		user.Username = form.Username
		user.Name = form.Name
		user.Email = form.Email
		user.Phone = form.Phone
		user.Birthday = birthday
		user.Role = constants.Role(form.Role)
		if hash != "" {
			user.PasswordHash = hash
		}
		switch {
		case photo != nil:
			user.Photo = gormModels.Photo{PhotoMIME: photo.MIME, PhotoData: photo.Data}
		case form.RemovePhoto:
			user.Photo = gormModels.Photo{}
		}

		if err := users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, conflict(constants.MsgIdentityTaken)
		}
		return nil, err
	}

	logging.Info("Member updated", "user_id", updated.ID, "username", updated.Username)
	return updated, nil
}

// Delete removes an account. Admins cannot delete themselves, and members
// with pending or approved requests are kept.
func (svc *MemberService) Delete(ctx context.Context, id uint, actorID uint) error {
	if id == actorID {
		return conflict(constants.MsgCannotDeleteSelf)
	}

	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := svc.users.WithTx(tx)

		user, err := users.GetByID(ctx, id)
		if err != nil {
			return err
		}

		active, err := svc.requests.WithTx(tx).CountActiveByUsername(ctx, user.Username)
		if err != nil {
			return err
		}
		if active > 0 {
			return conflict(constants.MsgMemberHasRequests)
		}

		// a later account with the same username starts clean
		if err := svc.requests.WithTx(tx).DeleteByUsername(ctx, user.Username); err != nil {
			return err
		}
		if err := svc.notifier.ForgetUser(ctx, tx, user.Username); err != nil {
			return err
		}

		return users.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	logging.Info("Member deleted", "user_id", id)
	return nil
}

// EnsureAdmin creates an admin account, or promotes and resets the password of
// an existing account with the same username. Used to bootstrap a fresh install.
func (svc *MemberService) EnsureAdmin(ctx context.Context, form requests.MemberRequest) (*gormModels.User, error) {
	form.Role = string(constants.RoleAdmin)
	normalizeMember(&form)
	if err := svc.validator.Validate(form); err != nil {
		return nil, err
	}
	if form.Password == "" {
		return nil, fieldError("password", "Password is required.")
	}

	existing, err := svc.users.GetByUsername(ctx, form.Username)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if existing == nil {
		return svc.Create(ctx, form, nil)
	}

	hash, err := HashPassword(form.Password)
	if err != nil {
		return nil, err
	}
	existing.PasswordHash = hash
	existing.Role = constants.RoleAdmin
	if err := svc.users.Update(ctx, existing); err != nil {
		return nil, err
	}

	logging.Info("Admin account reset", "username", existing.Username)
	return existing, nil
}
