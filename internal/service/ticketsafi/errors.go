package ticketsafi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
)

// Kind classifies API failures so callers never inspect error strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindUnavailable
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindValidation
	KindAccountExistsNeedsActivation
	KindAccountCreatedNeedsActivation
	KindServer
	KindDecode
)

var kindNames = map[Kind]string{
	KindUnknown:                       "unknown",
	KindNetwork:                       "network",
	KindUnavailable:                   "unavailable",
	KindUnauthorized:                  "unauthorized",
	KindForbidden:                     "forbidden",
	KindNotFound:                      "not_found",
	KindConflict:                      "conflict",
	KindValidation:                    "validation",
	KindAccountExistsNeedsActivation:  "account_exists_needs_activation",
	KindAccountCreatedNeedsActivation: "account_created_needs_activation",
	KindServer:                        "server",
	KindDecode:                        "decode",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Backend codes sent as the first non_field_errors entry on registration.
const (
	CodeAccountExistsNeedsActivation  = "ACCOUNT_EXISTS_NEEDS_ACTIVATION"
	CodeAccountCreatedNeedsActivation = "ACCOUNT_CREATED_NEEDS_ACTIVATION"
)

type Error struct {
	Status  int
	Kind    Kind
	Code    string
	Message string
	Fields  map[string][]string
	// NonField holds non_field_errors in the order the API sent them.
	NonField []string
	Err      error

	raw []byte
	// reported is set when Message came from the response payload.
	reported bool
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("ticketsafi api error: status %d (%s): %s", e.Status, e.Kind, e.Message)
	}
	return fmt.Sprintf("ticketsafi api error (%s): %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Field returns the first message reported for a form field.
func (e *Error) Field(name string) string {
	if msgs := e.Fields[name]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// KindOf returns the kind of an API error, or KindUnknown.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// MessageOr returns the server supplied message, or fallback when the
// server said nothing usable.
func MessageOr(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.reported {
		return apiErr.Message
	}
	return fallback
}

func parseError(status int, body []byte) *Error {
	e := &Error{Status: status, Kind: kindForStatus(status), raw: body}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		e.Message = http.StatusText(status)
		return e
	}

	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var nonField []string
	for _, key := range keys {
		raw := payload[key]
		switch key {
		case "error", "detail":
		case "code":
			_ = json.Unmarshal(raw, &e.Code)
		case "non_field_errors":
			nonField = stringList(raw)
		default:
			if msgs := stringList(raw); len(msgs) > 0 {
				if e.Fields == nil {
					e.Fields = make(map[string][]string)
				}
				e.Fields[key] = msgs
			}
		}
	}
	for _, key := range []string{"error", "detail"} {
		var s string
		if json.Unmarshal(payload[key], &s) == nil && s != "" {
			e.Message = s
			break
		}
	}

	e.NonField = nonField
	if len(nonField) > 0 {
		switch nonField[0] {
		case CodeAccountExistsNeedsActivation:
			e.Kind = KindAccountExistsNeedsActivation
			e.Code = nonField[0]
		case CodeAccountCreatedNeedsActivation:
			e.Kind = KindAccountCreatedNeedsActivation
			e.Code = nonField[0]
		}
		if e.Message == "" {
			e.Message = nonField[0]
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	} else {
		e.reported = true
	}
	return e
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status >= 500:
		return KindServer
	case status >= 400:
		return KindValidation
	}
	return KindUnknown
}

// stringList reads a DRF error value, which is either a string or a list of
// strings.
func stringList(raw json.RawMessage) []string {
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return list
	}
	var s string
	if json.Unmarshal(raw, &s) == nil && s != "" {
		return []string{s}
	}
	return nil
}
