package requests

// DateLayout is the format used by every date input in the portal
const DateLayout = "2006-01-02"

type LoginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// RegisterMemberRequest is the public "become a member" form
type RegisterMemberRequest struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email,max=255"`
	Username string `validate:"required,min=3,max=50,username"`
	Password string `validate:"required,min=6,max=72"`
	Phone    string `validate:"max=30"`
	Birthday string `validate:"omitempty,datetime=2006-01-02"`
}

// MemberRequest is used by admins to create or edit an account.
// Password is optional on edit; Role defaults to user.
type MemberRequest struct {
	ID       uint
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email,max=255"`
	Username string `validate:"required,min=3,max=50,username"`
	Password string `validate:"omitempty,min=6,max=72"`
	Phone    string `validate:"max=30"`
	Birthday string `validate:"omitempty,datetime=2006-01-02"`
	Role     string `validate:"omitempty,oneof=admin user"`

	// RemovePhoto clears an existing photo when no new one is uploaded
	RemovePhoto bool
}
