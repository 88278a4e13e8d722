package handler

import (
	"errors"
	"net/http"
	"strconv"

	"evreg/internal/common"

	"github.com/go-chi/chi/v5"
)

// respondServiceError translates service-layer errors into HTTP responses,
// surfacing per-field validation messages when present.
func respondServiceError(w http.ResponseWriter, err error) {
	var fields common.FieldErrors
	if errors.As(err, &fields) {
		common.RespondWithFieldErrors(w, fields)
		return
	}
	common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
}

// urlID reads a numeric chi URL parameter.
func urlID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ErrBadRequest
	}
	return id, nil
}
