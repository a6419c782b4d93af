package validation

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the only accepted wire format for dates.
const DateLayout = "2006-01-02"

// DateOfBirthField is the single key accepted in a PUT payload.
const DateOfBirthField = "dateOfBirth"

// Kind identifies why a payload was rejected.
type Kind string

const (
	MissingField     Kind = "MissingField"
	UnexpectedFields Kind = "UnexpectedFields"
	WrongType        Kind = "WrongType"
	BadFormat        Kind = "BadFormat"
	NotPast          Kind = "NotPast"
)

// Error is a client-facing payload validation failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	// alpha is ^[a-zA-Z]+$, ASCII only
	v.RegisterAlias("username", "required,alpha")
	return v
}

// ValidateUsername reports whether s is a non-empty run of ASCII letters.
func ValidateUsername(s string) bool {
	return validate.Var(s, "username") == nil
}

// ValidateDateSyntax parses s strictly as YYYY-MM-DD. Impossible calendar
// dates (month 13, Feb 30) and trailing text are rejected.
func ValidateDateSyntax(s string) (time.Time, bool) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ValidateDateSemantics reports whether date is strictly before today.
func ValidateDateSemantics(date, today time.Time) bool {
	return date.Before(today)
}

// ValidatePutPayload applies the PUT body policy: a JSON object holding only
// a string dateOfBirth that parses and lies in the past.
func ValidatePutPayload(raw []byte, today time.Time) (time.Time, *Error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return time.Time{}, missingField()
	}
	value, ok := fields[DateOfBirthField]
	if !ok {
		return time.Time{}, missingField()
	}
	if len(fields) > 1 {
		extra := make([]string, 0, len(fields)-1)
		for k := range fields {
			if k != DateOfBirthField {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		return time.Time{}, &Error{Kind: UnexpectedFields, Message: "Unexpected fields: " + strings.Join(extra, ", ") + "."}
	}

	var s string
	if !bytes.HasPrefix(bytes.TrimSpace(value), []byte(`"`)) || json.Unmarshal(value, &s) != nil {
		return time.Time{}, &Error{Kind: WrongType, Message: DateOfBirthField + " must be a string in YYYY-MM-DD format."}
	}

	d, ok := ValidateDateSyntax(s)
	if !ok {
		return time.Time{}, &Error{Kind: BadFormat, Message: "Invalid date format. Use YYYY-MM-DD."}
	}
	if !ValidateDateSemantics(d, today) {
		return time.Time{}, &Error{Kind: NotPast, Message: "Date of birth must be before today."}
	}
	return d, nil
}

func missingField() *Error {
	return &Error{Kind: MissingField, Message: "Missing required field: " + DateOfBirthField + "."}
}
