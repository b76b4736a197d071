// Package memory is a process-local implementation of the storage interfaces.
// Transactions work on a copy of the state and swap it in on commit, so a
// failed callback leaves nothing behind.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/hongminglow/library-be/internal/models"
	"github.com/hongminglow/library-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type state struct {
	users    map[int64]models.User
	books    map[int64]models.Book
	records  map[int64]models.IssueRecord
	nextUser int64
	nextBook int64
	nextRec  int64
}

func (s *state) clone() *state {
	c := *s
	c.users = maps.Clone(s.users)
	c.books = maps.Clone(s.books)
	c.records = maps.Clone(s.records)
	return &c
}

// Store keeps everything in maps behind one mutex.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		st: &state{
			users:   map[int64]models.User{},
			books:   map[int64]models.Book{},
			records: map[int64]models.IssueRecord{},
		},
		now: time.Now,
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() {}

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.st.findUser(user.Username); err == nil {
		return models.User{}, storage.ErrAlreadyExists
	}
	s.st.nextUser++
	user.ID = s.st.nextUser
	user.Roles = slices.Clone(user.Roles)
	user.CreatedAt = s.now().UTC()
	s.st.users[user.ID] = user
	return user, nil
}

func (s *Store) FindByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.findUser(username)
}

func (st *state) findUser(username string) (models.User, error) {
	for _, u := range st.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) ListBooks(context.Context) ([]models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := slices.Sorted(maps.Keys(s.st.books))
	books := make([]models.Book, 0, len(ids))
	for _, id := range ids {
		books = append(books, s.st.books[id])
	}
	return books, nil
}

func (s *Store) GetBook(_ context.Context, id int64) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.st.books[id]
	if !ok {
		return models.Book{}, storage.ErrNotFound
	}
	return b, nil
}

func (s *Store) CreateBook(_ context.Context, book models.Book) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.nextBook++
	book.ID = s.st.nextBook
	s.st.books[book.ID] = book
	return book, nil
}

func (s *Store) UpdateBook(_ context.Context, book models.Book) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.books[book.ID]; !ok {
		return models.Book{}, storage.ErrNotFound
	}
	s.st.books[book.ID] = book
	return book, nil
}

func (s *Store) DeleteBook(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.books[id]; !ok {
		return storage.ErrNotFound
	}
	for _, r := range s.st.records {
		if r.BookID == id {
			return storage.ErrConflict
		}
	}
	delete(s.st.books, id)
	return nil
}

// WithinTx serialises all transactions on the store mutex.
func (s *Store) WithinTx(ctx context.Context, fn func(tx storage.LedgerTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.st.clone()
	if err := fn(&ledgerTx{st: work}); err != nil {
		return err
	}
	s.st = work
	return nil
}

// IssueRecords returns a snapshot of the ledger ordered by id.
func (s *Store) IssueRecords() []models.IssueRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := slices.Sorted(maps.Keys(s.st.records))
	out := make([]models.IssueRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.st.records[id])
	}
	return out
}

type ledgerTx struct {
	st *state
}

func (t *ledgerTx) LockBook(_ context.Context, id int64) (models.Book, error) {
	b, ok := t.st.books[id]
	if !ok {
		return models.Book{}, storage.ErrNotFound
	}
	return b, nil
}

func (t *ledgerTx) SaveBook(_ context.Context, book models.Book) error {
	if _, ok := t.st.books[book.ID]; !ok {
		return storage.ErrNotFound
	}
	t.st.books[book.ID] = book
	return nil
}

func (t *ledgerTx) FindUser(_ context.Context, username string) (models.User, error) {
	return t.st.findUser(username)
}

func (t *ledgerTx) LockIssueRecord(_ context.Context, id int64) (models.IssueRecord, error) {
	r, ok := t.st.records[id]
	if !ok {
		return models.IssueRecord{}, storage.ErrNotFound
	}
	return r, nil
}

func (t *ledgerTx) CreateIssueRecord(_ context.Context, rec models.IssueRecord) (models.IssueRecord, error) {
	if _, ok := t.st.users[rec.UserID]; !ok {
		return models.IssueRecord{}, storage.ErrConflict
	}
	if _, ok := t.st.books[rec.BookID]; !ok {
		return models.IssueRecord{}, storage.ErrConflict
	}
	t.st.nextRec++
	rec.ID = t.st.nextRec
	t.st.records[rec.ID] = rec
	return rec, nil
}

func (t *ledgerTx) SaveIssueRecord(_ context.Context, rec models.IssueRecord) error {
	if _, ok := t.st.records[rec.ID]; !ok {
		return storage.ErrNotFound
	}
	t.st.records[rec.ID] = rec
	return nil
}
