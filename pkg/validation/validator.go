// Package validation wraps go-playground/validator and converts its output
// into the resource_invalid taxonomy kind with json-path field errors.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apperrors "orders-backend/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report field paths using json tag names so error detail matches the
	// wire format the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// uuid7: a well-formed time-sortable identifier.
	_ = v.RegisterValidation("uuid7", func(fl validator.FieldLevel) bool {
		id, err := uuid.Parse(fl.Field().String())
		if err != nil {
			return false
		}
		return id.Version() == 7
	})

	return v
}

// Struct validates v against its validation tags. On failure it returns a
// resource_invalid error whose Fields map field paths (items[0].quantity) to
// violation messages. It performs no I/O.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// validator.InvalidValidationError: the input was not a struct at
		// all, which is a caller bug, not a client mistake.
		return apperrors.NewInternalFailure("validation could not run", err)
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		path := fieldPath(fe)
		fields[path] = append(fields[path], violationMessage(fe))
	}
	return apperrors.NewResourceInvalid(nil, fields)
}

// fieldPath strips the root struct name from the namespace, leaving the
// json path of the offending field.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s elements", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid7":
		return "must be a valid time-sortable identifier (UUIDv7)"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
