package requests

type AnnouncementRequest struct {
	ID      uint
	Title   string `validate:"required,max=200"`
	Content string `validate:"required,max=10000"`
}

// EventRequest accepts either a date or an HTML datetime-local value
type EventRequest struct {
	ID          uint
	Title       string `validate:"required,max=200"`
	Description string `validate:"required,max=10000"`
	EventDate   string `validate:"required,eventdate"`
	Location    string `validate:"required,max=200"`
}
