package constants

import (
	"database/sql/driver"
	"fmt"
)

// RequestStatus is the lifecycle state of an equipment request.
// pending -> approved | denied, never back.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestDenied   RequestStatus = "denied"
)

func (s RequestStatus) String() string { return string(s) }

// IsActive reports whether the request still holds (or may hold) stock.
func (s RequestStatus) IsActive() bool {
	return s == RequestPending || s == RequestApproved
}

// ActiveRequestStatuses is used in IN (...) filters.
var ActiveRequestStatuses = []RequestStatus{RequestPending, RequestApproved}

func (s *RequestStatus) Scan(src interface{}) error {
	if src == nil {
		*s = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*s = RequestStatus(v)
	case []byte:
		*s = RequestStatus(v)
	default:
		return fmt.Errorf("RequestStatus: cannot scan type %T", src)
	}
	return nil
}

func (s RequestStatus) Value() (driver.Value, error) { return string(s), nil }

// NotificationType tags a notification with the action that produced it
type NotificationType string

const (
	NotificationEquipmentRequest NotificationType = "equipment_request"
	NotificationRequestApproved  NotificationType = "request_approved"
	NotificationRequestDenied    NotificationType = "request_denied"
	NotificationAnnouncement     NotificationType = "announcement"
	NotificationEvent            NotificationType = "event"
	NotificationMemberApproved   NotificationType = "approval"
)

func (t NotificationType) String() string { return string(t) }

func (t *NotificationType) Scan(src interface{}) error {
	if src == nil {
		*t = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*t = NotificationType(v)
	case []byte:
		*t = NotificationType(v)
	default:
		return fmt.Errorf("NotificationType: cannot scan type %T", src)
	}
	return nil
}

func (t NotificationType) Value() (driver.Value, error) { return string(t), nil }
