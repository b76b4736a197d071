package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/library-be/internal/models"
	"github.com/hongminglow/library-be/internal/storage"
)

const recordColumns = `id, user_id, book_id, issue_date, due_date, return_date, returned`

// ledgerTx implements storage.LedgerTx on top of an open pgx transaction.
type ledgerTx struct {
	q querier
}

func (t *ledgerTx) LockBook(ctx context.Context, id int64) (models.Book, error) {
	return scanBook(t.q.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1 FOR UPDATE`, id))
}

func (t *ledgerTx) SaveBook(ctx context.Context, book models.Book) error {
	tag, err := t.q.Exec(ctx,
		`UPDATE books SET quantity = $2, is_available = $3 WHERE id = $1`,
		book.ID, book.Quantity, book.Available)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (t *ledgerTx) FindUser(ctx context.Context, username string) (models.User, error) {
	return findUser(ctx, t.q, username)
}

func (t *ledgerTx) LockIssueRecord(ctx context.Context, id int64) (models.IssueRecord, error) {
	return scanRecord(t.q.QueryRow(ctx, `SELECT `+recordColumns+` FROM issue_records WHERE id = $1 FOR UPDATE`, id))
}

func (t *ledgerTx) CreateIssueRecord(ctx context.Context, rec models.IssueRecord) (models.IssueRecord, error) {
	const query = `
		INSERT INTO issue_records (user_id, book_id, issue_date, due_date, return_date, returned)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + recordColumns
	return scanRecord(t.q.QueryRow(ctx, query, rec.UserID, rec.BookID, rec.IssueDate, rec.DueDate, rec.ReturnDate, rec.Returned))
}

func (t *ledgerTx) SaveIssueRecord(ctx context.Context, rec models.IssueRecord) error {
	tag, err := t.q.Exec(ctx,
		`UPDATE issue_records SET return_date = $2, returned = $3 WHERE id = $1`,
		rec.ID, rec.ReturnDate, rec.Returned)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanRecord(row pgx.Row) (models.IssueRecord, error) {
	var r models.IssueRecord
	if err := row.Scan(&r.ID, &r.UserID, &r.BookID, &r.IssueDate, &r.DueDate, &r.ReturnDate, &r.Returned); err != nil {
		return models.IssueRecord{}, translate(err)
	}
	return r, nil
}
