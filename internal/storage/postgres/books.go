package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/library-be/internal/models"
	"github.com/hongminglow/library-be/internal/storage"
)

const bookColumns = `id, title, author, isbn, quantity, is_available`

// ListBooks returns the whole catalog ordered by id.
func (s *Store) ListBooks(ctx context.Context) ([]models.Book, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+bookColumns+` FROM books ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

// GetBook fetches a single book.
func (s *Store) GetBook(ctx context.Context, id int64) (models.Book, error) {
	return scanBook(s.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
}

// CreateBook inserts a book and returns it with its id.
func (s *Store) CreateBook(ctx context.Context, book models.Book) (models.Book, error) {
	const query = `
		INSERT INTO books (title, author, isbn, quantity, is_available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + bookColumns
	return scanBook(s.pool.QueryRow(ctx, query, book.Title, book.Author, book.ISBN, book.Quantity, book.Available))
}

// UpdateBook replaces every mutable column of an existing book.
func (s *Store) UpdateBook(ctx context.Context, book models.Book) (models.Book, error) {
	const query = `
		UPDATE books SET title = $2, author = $3, isbn = $4, quantity = $5, is_available = $6
		WHERE id = $1
		RETURNING ` + bookColumns
	return scanBook(s.pool.QueryRow(ctx, query, book.ID, book.Title, book.Author, book.ISBN, book.Quantity, book.Available))
}

// DeleteBook removes a book. Books with issue history cannot be deleted.
func (s *Store) DeleteBook(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanBook(row pgx.Row) (models.Book, error) {
	var b models.Book
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Quantity, &b.Available); err != nil {
		return models.Book{}, translate(err)
	}
	return b, nil
}
