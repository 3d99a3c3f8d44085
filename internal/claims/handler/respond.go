package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "github.com/aryan-dani/FRA-GIS/pkg/domainerrors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders a coded error as the JSON error envelope. Uncoded
// errors map to an internal error so causes never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)

	message := "internal error"
	var dErr *dErrors.Error
	if errors.As(err, &dErr) {
		message = dErr.Message
	}

	writeJSON(w, dErrors.ToHTTPStatus(code), errorEnvelope{
		Error: errorBody{Code: string(code), Message: message},
	})
}
