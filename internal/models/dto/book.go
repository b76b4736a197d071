package dto

import (
	"time"

	"github.com/hongminglow/library-be/internal/models"
)

// BookRequest is the body of addbook and updatebook. IsAvailable is accepted
// for compatibility but availability is always derived from Quantity.
type BookRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Author      string `json:"author" validate:"required,max=255"`
	ISBN        string `json:"isbn" validate:"required,max=32"`
	Quantity    *int   `json:"quantity" validate:"required,gte=0"`
	IsAvailable *bool  `json:"isAvailable,omitempty"`
}

type IssueRecordResponse struct {
	ID         int64       `json:"id"`
	UserID     int64       `json:"userId"`
	Book       models.Book `json:"book"`
	IssueDate  time.Time   `json:"issueDate"`
	DueDate    time.Time   `json:"dueDate"`
	ReturnDate *time.Time  `json:"returnDate,omitempty"`
	Returned   bool        `json:"returned"`
}

func NewIssueRecordResponse(rec models.IssueRecord, book models.Book) IssueRecordResponse {
	return IssueRecordResponse{
		ID:         rec.ID,
		UserID:     rec.UserID,
		Book:       book,
		IssueDate:  rec.IssueDate,
		DueDate:    rec.DueDate,
		ReturnDate: rec.ReturnDate,
		Returned:   rec.Returned,
	}
}
