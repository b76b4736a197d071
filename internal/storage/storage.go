package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/library-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrConflict indicates the change would break a reference, e.g. deleting a
// book that still has issue records.
var ErrConflict = errors.New("record is referenced")

// UserStore captures persistence operations for accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// BookStore is the catalog CRUD surface.
type BookStore interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	GetBook(ctx context.Context, id int64) (models.Book, error)
	CreateBook(ctx context.Context, book models.Book) (models.Book, error)
	UpdateBook(ctx context.Context, book models.Book) (models.Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

// LedgerStore runs issue/return mutations atomically. The callback's changes
// are committed only when it returns nil.
type LedgerStore interface {
	WithinTx(ctx context.Context, fn func(tx LedgerTx) error) error
}

// LedgerTx is the view of the store inside one transaction. Lock* methods
// hold the row until the transaction ends.
type LedgerTx interface {
	LockBook(ctx context.Context, id int64) (models.Book, error)
	SaveBook(ctx context.Context, book models.Book) error
	FindUser(ctx context.Context, username string) (models.User, error)
	LockIssueRecord(ctx context.Context, id int64) (models.IssueRecord, error)
	CreateIssueRecord(ctx context.Context, rec models.IssueRecord) (models.IssueRecord, error)
	SaveIssueRecord(ctx context.Context, rec models.IssueRecord) error
}

// Store is everything the services need from a backend.
type Store interface {
	UserStore
	BookStore
	LedgerStore
	Ping(ctx context.Context) error
	Close()
}
