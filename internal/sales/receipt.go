package sales

import (
	"time"
)

// Header identifies who is buying, who is selling and how it is paid
type Header struct {
	CustomerID  uint   `json:"customer_id" validate:"required"`
	EmployeeID  uint   `json:"employee_id" validate:"required"`
	PaymentMode string `json:"payment_mode" validate:"required,oneof=Cash Card UPI Check"`
}

// LineOutcome is the result of committing one staged line
type LineOutcome struct {
	Line              Line   `json:"line"`
	Committed         bool   `json:"committed"`
	TransactionItemID uint   `json:"transaction_item_id,omitempty"`
	RemainingQuantity int    `json:"remaining_quantity"`
	Message           string `json:"message,omitempty"`
	Err               error  `json:"-"`
}

// Receipt reports a finalized sale
type Receipt struct {
	TransactionID   uint          `json:"transaction_id"`
	TransactionDate time.Time     `json:"transaction_date"`
	CustomerID      uint          `json:"customer_id"`
	EmployeeID      uint          `json:"employee_id"`
	PaymentMode     string        `json:"payment_mode"`
	Total           int64         `json:"total"`
	Lines           []LineOutcome `json:"lines"`
}

// Committed returns the number of lines that were committed
func (r *Receipt) Committed() int {
	n := 0
	for _, outcome := range r.Lines {
		if outcome.Committed {
			n++
		}
	}
	return n
}

// Rejected returns the number of lines that failed to commit
func (r *Receipt) Rejected() int {
	return len(r.Lines) - r.Committed()
}

// Complete reports whether every staged line was committed
func (r *Receipt) Complete() bool {
	return r.Rejected() == 0
}
