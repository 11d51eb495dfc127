package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	pkgerrors "harbor-control/pkg/errors"
)

// ── field messages ──

const (
	MsgRequired      = "This field is required."
	MsgInvalidChoice = "Select a valid choice."
	MsgInvalidDate   = "Enter a valid date."
	MsgInvalidTime   = "Enter a valid time."
	MsgInvalidNumber = "Enter a whole number."
	MsgInvalidValue  = "Enter a valid value."
)

// ClockInputLayouts what a time input may submit; values are stored as HH:MM.
var ClockInputLayouts = []string{"15:04", "15:04:05"}

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// report fields by their form key, the name the pages and clients use
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, ok := ParseClock(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("integer", func(fl validator.FieldLevel) bool {
		_, err := strconv.Atoi(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("min_int", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Field().String())
		if err != nil {
			return false
		}
		limit, err := strconv.Atoi(fl.Param())
		return err == nil && n >= limit
	})
}

// ParseClock parses a time input; ok is false when no accepted layout fits.
func ParseClock(raw string) (time.Time, bool) {
	for _, layout := range ClockInputLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Validate runs the binding rules of obj, the same check ShouldBind performs
// after decoding.
func Validate(obj any) error {
	return binding.Validator.ValidateStruct(obj)
}

// IsRuleFailure reports whether err is a failed binding rule rather than a
// body that could not be decoded.
func IsRuleFailure(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

// AddFieldErrors records every rule failure in err on v. Errors that are not
// rule failures land under the non-field key.
func AddFieldErrors(v *pkgerrors.ValidationError, err error) {
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		v.Add(pkgerrors.NonFieldKey, err.Error())
		return
	}
	for _, fe := range verrs {
		v.Add(fe.Field(), fieldMessage(fe))
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "oneof":
		return MsgInvalidChoice
	case "max":
		n := utf8.RuneCountInString(fmt.Sprint(fe.Value()))
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", fe.Param(), n)
	case "datetime":
		return MsgInvalidDate
	case "clock":
		return MsgInvalidTime
	case "integer":
		return MsgInvalidNumber
	case "min_int":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	}
	return MsgInvalidValue
}

// ── FormNumber ──

// FormNumber a number input kept as its text, so a blank input stays blank
// and a bad one gets a field message. JSON clients may send a number, a
// string or null.
type FormNumber string

func (n *FormNumber) UnmarshalJSON(b []byte) error {
	switch {
	case string(b) == "null":
		*n = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = FormNumber(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*n = FormNumber(num.String())
	return nil
}

func (n FormNumber) String() string { return string(n) }
