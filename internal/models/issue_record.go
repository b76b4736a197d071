package models

import "time"

// IssueRecord is one borrow of one book by one user.
// It moves from issued to returned exactly once.
type IssueRecord struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"userId"`
	BookID     int64      `json:"bookId"`
	IssueDate  time.Time  `json:"issueDate"`
	DueDate    time.Time  `json:"dueDate"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
	Returned   bool       `json:"returned"`
}

// MarkReturned moves the record to its terminal state.
func (r *IssueRecord) MarkReturned(at time.Time) {
	r.ReturnDate = &at
	r.Returned = true
}
