package requests

type EquipmentRequest struct {
	ID             uint
	Name           string `validate:"required,max=100"`
	Brand          string `validate:"required,max=100"`
	Model          string `validate:"required,max=100"`
	Specifications string `validate:"max=5000"`
	Quantity       int    `validate:"gte=0,lte=100000"`
	RemovePhoto    bool
}

// LoanRequest is a member asking to borrow units of an item
type LoanRequest struct {
	EquipmentID uint   `validate:"required"`
	Quantity    int    `validate:"gte=1"`
	ReturnDate  string `validate:"omitempty,datetime=2006-01-02"`
}
