package handlers

import (
	"context"
	"net/http"

	"github.com/hongminglow/library-be/internal/auth"
	"github.com/hongminglow/library-be/internal/http/respond"
	"github.com/hongminglow/library-be/internal/library"
	"github.com/hongminglow/library-be/internal/middleware"
	"github.com/hongminglow/library-be/internal/models/dto"
)

// LedgerService is the issue/return surface used by IssueRecordHandler.
type LedgerService interface {
	IssueBook(ctx context.Context, username string, bookID int64) (library.Receipt, error)
	ReturnBook(ctx context.Context, caller auth.Identity, recordID int64) (library.Receipt, error)
}

// IssueRecordHandler exposes borrowing and returning to authenticated callers.
type IssueRecordHandler struct {
	svc LedgerService
}

func NewIssueRecordHandler(svc LedgerService) *IssueRecordHandler {
	return &IssueRecordHandler{svc: svc}
}

func (h *IssueRecordHandler) Register(mux *http.ServeMux) {
	mux.Handle("POST /issuerecords/issue/{bookId}", middleware.RequireAuth(http.HandlerFunc(h.handleIssue)))
	mux.Handle("POST /issuerecords/return/{issueRecordId}", middleware.RequireAuth(http.HandlerFunc(h.handleReturn)))
}

func (h *IssueRecordHandler) handleIssue(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.IdentityFrom(r.Context())
	bookID, err := pathID(r, "bookId")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := h.svc.IssueBook(r.Context(), caller.Username, bookID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "book issued", dto.NewIssueRecordResponse(rec.Record, rec.Book))
}

func (h *IssueRecordHandler) handleReturn(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.IdentityFrom(r.Context())
	recordID, err := pathID(r, "issueRecordId")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := h.svc.ReturnBook(r.Context(), caller, recordID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "book returned", dto.NewIssueRecordResponse(rec.Record, rec.Book))
}
