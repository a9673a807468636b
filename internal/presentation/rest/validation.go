package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the error response itself and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		msg := "invalid JSON body"
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		writeProblem(w, http.StatusBadRequest, "bad_request", msg, map[string]string{"payload": err.Error()})
		return false
	}

	if err := validate.Struct(dst); err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "validation_error", "request validation failed", toDetails(err))
		return false
	}
	return true
}

// toDetails converts validator errors into a map[field]message.
func toDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"payload": "invalid payload"}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = formatFieldError(fe)
	}
	return out
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	numeric := fe.Kind() >= reflect.Int && fe.Kind() <= reflect.Float64

	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "uppercase":
		return "must be in uppercase"
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		if numeric {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if numeric {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	default:
		return "is invalid"
	}
}
