package handlers

import (
	"context"
	"net/http"

	"github.com/hongminglow/library-be/internal/http/respond"
	"github.com/hongminglow/library-be/internal/library"
	"github.com/hongminglow/library-be/internal/middleware"
	"github.com/hongminglow/library-be/internal/models"
	"github.com/hongminglow/library-be/internal/models/dto"
)

// CatalogService is the book CRUD surface used by BookHandler.
type CatalogService interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	GetBook(ctx context.Context, id int64) (models.Book, error)
	AddBook(ctx context.Context, in library.BookInput) (models.Book, error)
	UpdateBook(ctx context.Context, id int64, in library.BookInput) (models.Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

// BookHandler serves the catalog. Writes require the admin role.
type BookHandler struct {
	svc CatalogService
}

func NewBookHandler(svc CatalogService) *BookHandler {
	return &BookHandler{svc: svc}
}

func (h *BookHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /books/getallbooks", h.handleList)
	mux.HandleFunc("GET /books/getbookbyid/{id}", h.handleGet)
	mux.Handle("POST /books/addbook", middleware.RequireRole(models.RoleAdmin, http.HandlerFunc(h.handleAdd)))
	mux.Handle("PUT /books/updatebook/{id}", middleware.RequireRole(models.RoleAdmin, http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /books/deletebook/{id}", middleware.RequireRole(models.RoleAdmin, http.HandlerFunc(h.handleDelete)))
}

func (h *BookHandler) handleList(w http.ResponseWriter, r *http.Request) {
	books, err := h.svc.ListBooks(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", books)
}

func (h *BookHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	book, err := h.svc.GetBook(r.Context(), id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", book)
}

func (h *BookHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req dto.BookRequest
	if err := decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	book, err := h.svc.AddBook(r.Context(), bookInput(req))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "book created", book)
}

func (h *BookHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	var req dto.BookRequest
	if err := decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	book, err := h.svc.UpdateBook(r.Context(), id, bookInput(req))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "book updated", book)
}

func (h *BookHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.DeleteBook(r.Context(), id); err != nil {
		respondErr(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "book deleted", nil)
}

func bookInput(req dto.BookRequest) library.BookInput {
	return library.BookInput{
		Title:    req.Title,
		Author:   req.Author,
		ISBN:     req.ISBN,
		Quantity: *req.Quantity,
	}
}
