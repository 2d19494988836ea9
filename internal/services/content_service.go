package services

import (
	"context"
	"strings"
	"time"

	"clubhouse/internal/constants"
	"clubhouse/internal/db/repositories"
	"clubhouse/internal/logging"
	"clubhouse/internal/models/dtos/requests"
	gormModels "clubhouse/internal/models/gorm"

	"gorm.io/gorm"
)

// ContentService manages announcements and events. Creating either one
// notifies every other user in the same transaction.
type ContentService struct {
	db            *gorm.DB
	announcements *repositories.AnnouncementRepository
	events        *repositories.EventRepository
	notifier      *NotificationService
	validator     *FormValidator
}

func NewContentService(db *gorm.DB, notifier *NotificationService, validator *FormValidator) *ContentService {
	return &ContentService{
		db:            db,
		announcements: repositories.NewAnnouncementRepository(db),
		events:        repositories.NewEventRepository(db),
		notifier:      notifier,
		validator:     validator,
	}
}

func (svc *ContentService) ListAnnouncements(ctx context.Context, limit int) ([]gormModels.Announcement, error) {
	return svc.announcements.List(ctx, limit)
}

func (svc *ContentService) GetAnnouncement(ctx context.Context, id uint) (*gormModels.Announcement, error) {
	return svc.announcements.GetByID(ctx, id)
}

func (svc *ContentService) CreateAnnouncement(ctx context.Context, author string, form requests.AnnouncementRequest) (*gormModels.Announcement, error) {
	form.Title = strings.TrimSpace(form.Title)
	form.Content = strings.TrimSpace(form.Content)
	if err := svc.validator.Validate(form); err != nil {
		return nil, err
	}

	item := &gormModels.Announcement{
		Title:    form.Title,
		Content:  form.Content,
		PostedBy: author,
	}

	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := svc.announcements.WithTx(tx).Create(ctx, item); err != nil {
			return err
		}
		return svc.notifier.NotifyEveryone(ctx, tx, author, constants.NotificationAnnouncement, item.ID, "New announcement: "+item.Title)
	})
	if err != nil {
		return nil, err
	}

	logging.Info("Announcement posted", "announcement_id", item.ID, "author", author)
	return item, nil
}

func (svc *ContentService) UpdateAnnouncement(ctx context.Context, form requests.AnnouncementRequest) (*gormModels.Announcement, error) {
	form.Title = strings.TrimSpace(form.Title)
	form.Content = strings.TrimSpace(form.Content)
	if err := svc.validator.Validate(form); err != nil {
		return nil, err
	}

	item, err := svc.announcements.GetByID(ctx, form.ID)
	if err != nil {
		return nil, err
	}
	item.Title = form.Title
	item.Content = form.Content

	if err := svc.announcements.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (svc *ContentService) DeleteAnnouncement(ctx context.Context, id uint) error {
	return svc.announcements.Delete(ctx, id)
}

func (svc *ContentService) ListEvents(ctx context.Context) ([]gormModels.Event, error) {
	return svc.events.List(ctx)
}

// UpcomingEvents lists events from the start of today on
func (svc *ContentService) UpcomingEvents(ctx context.Context, limit int) ([]gormModels.Event, error) {
	return svc.events.Upcoming(ctx, today(), limit)
}

func (svc *ContentService) GetEvent(ctx context.Context, id uint) (*gormModels.Event, error) {
	return svc.events.GetByID(ctx, id)
}

func normalizeEvent(form *requests.EventRequest) {
	form.Title = strings.TrimSpace(form.Title)
	form.Description = strings.TrimSpace(form.Description)
	form.Location = strings.TrimSpace(form.Location)
	form.EventDate = strings.TrimSpace(form.EventDate)
}

func (svc *ContentService) CreateEvent(ctx context.Context, author string, form requests.EventRequest) (*gormModels.Event, error) {
	normalizeEvent(&form)
	if err := svc.validator.Validate(form); err != nil {
		return nil, err
	}
	date, err := parseEventDate(form.EventDate)
	if err != nil {
		return nil, fieldError("eventdate", "Event date must be a valid date.")
	}

	item := &gormModels.Event{
		Title:       form.Title,
		Description: form.Description,
		EventDate:   date,
		Location:    form.Location,
		PostedBy:    author,
	}

	err = svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := svc.events.WithTx(tx).Create(ctx, item); err != nil {
			return err
		}
		msg := "New event: " + item.Title + " on " + item.EventDate.Format("Jan 2, 2006")
		return svc.notifier.NotifyEveryone(ctx, tx, author, constants.NotificationEvent, item.ID, msg)
	})
	if err != nil {
		return nil, err
	}

	logging.Info("Event created", "event_id", item.ID, "author", author, "date", item.EventDate.Format(time.RFC3339))
	return item, nil
}

func (svc *ContentService) UpdateEvent(ctx context.Context, form requests.EventRequest) (*gormModels.Event, error) {
	normalizeEvent(&form)
	if err := svc.validator.Validate(form); err != nil {
		return nil, err
	}
	date, err := parseEventDate(form.EventDate)
	if err != nil {
		return nil, fieldError("eventdate", "Event date must be a valid date.")
	}

	item, err := svc.events.GetByID(ctx, form.ID)
	if err != nil {
		return nil, err
	}
	item.Title = form.Title
	item.Description = form.Description
	item.EventDate = date
	item.Location = form.Location

	if err := svc.events.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (svc *ContentService) DeleteEvent(ctx context.Context, id uint) error {
	return svc.events.Delete(ctx, id)
}
