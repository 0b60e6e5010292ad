package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/crucial707/hrms/internal/auth"
	"github.com/crucial707/hrms/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeAndValidate reads a JSON body into dst, rejecting unknown fields,
// and runs struct validation. On failure it writes the response and
// returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeBody(w, r, dst, false)
}

// decodeOptional is decodeAndValidate for endpoints where the whole body may
// be omitted. An empty body leaves dst untouched, whatever Content-Length says.
func decodeOptional(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeBody(w, r, dst, true)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	if r.Body == nil {
		if optional {
			return true
		}
		JSONError(w, "request body is required", http.StatusBadRequest)
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case optional && errors.Is(err, io.EOF):
			return true
		case errors.As(err, &maxErr):
			JSONError(w, "request body too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, io.EOF):
			JSONError(w, "request body is required", http.StatusBadRequest)
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			JSONValidationError(w, "validation failed", map[string]string{field: "unknown field"}, http.StatusBadRequest)
		default:
			JSONError(w, "invalid JSON", http.StatusBadRequest)
		}
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			JSONError(w, "invalid request", http.StatusBadRequest)
			return false
		}
		JSONValidationError(w, "validation failed", fieldErrors(verrs), http.StatusBadRequest)
		return false
	}
	return true
}

func fieldErrors(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = "required"
		case "email":
			out[fe.Field()] = "must be a valid email"
		case "min":
			out[fe.Field()] = fmt.Sprintf("must be at least %s characters", fe.Param())
		case "max":
			out[fe.Field()] = fmt.Sprintf("must be at most %s characters", fe.Param())
		case "gt":
			out[fe.Field()] = fmt.Sprintf("must be greater than %s", fe.Param())
		default:
			out[fe.Field()] = "invalid"
		}
	}
	return out
}

// urlID parses a positive integer chi URL parameter.
func urlID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter, returning fallback
// when it is absent.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

// identity returns the authenticated caller. Routes using it sit behind
// middleware.Authenticate, so a missing identity is a wiring bug.
func identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		JSONError(w, "Access token required", http.StatusUnauthorized)
	}
	return id, ok
}

type message struct {
	Message string `json:"message"`
}
