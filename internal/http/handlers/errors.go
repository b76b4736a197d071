package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hongminglow/library-be/internal/auth"
	"github.com/hongminglow/library-be/internal/http/respond"
	"github.com/hongminglow/library-be/internal/library"
	"github.com/hongminglow/library-be/internal/storage"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decode reads a JSON body into dst and validates its struct tags.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid JSON payload")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", strings.ToLower(fe.Field()), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// statusFor maps service and storage errors to an HTTP status and a client message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, storage.ErrAlreadyExists):
		return http.StatusConflict, "already exists"
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict, "record is still referenced"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, auth.ErrInvalidCredentials.Error()
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, auth.ErrInvalidToken.Error()
	case errors.Is(err, library.ErrUnknownUser):
		return http.StatusUnauthorized, library.ErrUnknownUser.Error()
	case errors.Is(err, library.ErrNotBorrower):
		return http.StatusForbidden, library.ErrNotBorrower.Error()
	case errors.Is(err, library.ErrBookUnavailable):
		return http.StatusUnprocessableEntity, library.ErrBookUnavailable.Error()
	case errors.Is(err, library.ErrAlreadyReturned):
		return http.StatusUnprocessableEntity, library.ErrAlreadyReturned.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	respond.Error(w, status, msg)
}
