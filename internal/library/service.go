// Package library owns the book catalog and the issue/return ledger.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hongminglow/library-be/internal/auth"
	"github.com/hongminglow/library-be/internal/models"
	"github.com/hongminglow/library-be/internal/storage"
)

// DefaultLoanPeriod is the gap between issue date and due date.
const DefaultLoanPeriod = 14 * 24 * time.Hour

var (
	// ErrBookUnavailable is returned when issuing a book with no copies left.
	ErrBookUnavailable = errors.New("book is not available for issue")
	// ErrAlreadyReturned is returned when returning a closed issue record.
	ErrAlreadyReturned = errors.New("book already returned")
	// ErrUnknownUser means the caller's identity does not match any account.
	ErrUnknownUser = errors.New("authenticated user not found")
	// ErrNotBorrower is returned when a non-admin returns someone else's loan.
	ErrNotBorrower = errors.New("issue record belongs to another user")
)

// Store is the persistence the service needs.
type Store interface {
	storage.BookStore
	storage.LedgerStore
}

// BookInput carries the mutable fields of a book.
type BookInput struct {
	Title    string
	Author   string
	ISBN     string
	Quantity int
}

// Receipt is the outcome of an issue or return: the record and the book as
// it stands after the change.
type Receipt struct {
	Record models.IssueRecord
	Book   models.Book
}

// Service implements catalog CRUD and the issue/return workflow.
type Service struct {
	store      Store
	loanPeriod time.Duration
	now        func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithLoanPeriod overrides DefaultLoanPeriod.
func WithLoanPeriod(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.loanPeriod = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService builds the service.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, loanPeriod: DefaultLoanPeriod, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ListBooks(ctx context.Context) ([]models.Book, error) {
	return s.store.ListBooks(ctx)
}

func (s *Service) GetBook(ctx context.Context, id int64) (models.Book, error) {
	return s.store.GetBook(ctx, id)
}

func (s *Service) AddBook(ctx context.Context, in BookInput) (models.Book, error) {
	return s.store.CreateBook(ctx, in.book(0))
}

// UpdateBook replaces every mutable field of book id.
func (s *Service) UpdateBook(ctx context.Context, id int64, in BookInput) (models.Book, error) {
	return s.store.UpdateBook(ctx, in.book(id))
}

func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	return s.store.DeleteBook(ctx, id)
}

func (in BookInput) book(id int64) models.Book {
	b := models.Book{
		ID:       id,
		Title:    strings.TrimSpace(in.Title),
		Author:   strings.TrimSpace(in.Author),
		ISBN:     strings.TrimSpace(in.ISBN),
		Quantity: in.Quantity,
	}
	b.Normalize()
	return b
}

// IssueBook lends one copy of bookID to username.
func (s *Service) IssueBook(ctx context.Context, username string, bookID int64) (Receipt, error) {
	var out Receipt
	err := s.store.WithinTx(ctx, func(tx storage.LedgerTx) error {
		book, err := tx.LockBook(ctx, bookID)
		if err != nil {
			return fmt.Errorf("load book %d: %w", bookID, err)
		}
		if book.Quantity <= 0 || !book.Available {
			return ErrBookUnavailable
		}

		user, err := tx.FindUser(ctx, username)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrUnknownUser
			}
			return fmt.Errorf("load user: %w", err)
		}

		now := s.now().UTC()
		rec, err := tx.CreateIssueRecord(ctx, models.IssueRecord{
			UserID:    user.ID,
			BookID:    book.ID,
			IssueDate: now,
			DueDate:   now.Add(s.loanPeriod),
		})
		if err != nil {
			return fmt.Errorf("create issue record: %w", err)
		}

		book.Quantity--
		book.Normalize()
		if err := tx.SaveBook(ctx, book); err != nil {
			return fmt.Errorf("save book %d: %w", book.ID, err)
		}

		out = Receipt{Record: rec, Book: book}
		return nil
	})
	return out, err
}

// ReturnBook closes issue record recordID. Only the borrower or an admin may
// return a loan.
func (s *Service) ReturnBook(ctx context.Context, caller auth.Identity, recordID int64) (Receipt, error) {
	var out Receipt
	err := s.store.WithinTx(ctx, func(tx storage.LedgerTx) error {
		rec, err := tx.LockIssueRecord(ctx, recordID)
		if err != nil {
			return fmt.Errorf("load issue record %d: %w", recordID, err)
		}
		if rec.Returned {
			return ErrAlreadyReturned
		}

		user, err := tx.FindUser(ctx, caller.Username)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrUnknownUser
			}
			return fmt.Errorf("load user: %w", err)
		}
		if user.ID != rec.UserID && !caller.IsAdmin() {
			return ErrNotBorrower
		}

		book, err := tx.LockBook(ctx, rec.BookID)
		if err != nil {
			return fmt.Errorf("load book %d: %w", rec.BookID, err)
		}
		book.Quantity++
		book.Normalize()
		if err := tx.SaveBook(ctx, book); err != nil {
			return fmt.Errorf("save book %d: %w", book.ID, err)
		}

		rec.MarkReturned(s.now().UTC())
		if err := tx.SaveIssueRecord(ctx, rec); err != nil {
			return fmt.Errorf("save issue record %d: %w", rec.ID, err)
		}

		out = Receipt{Record: rec, Book: book}
		return nil
	})
	return out, err
}
