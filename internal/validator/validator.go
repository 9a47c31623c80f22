// Package validator checks inbound board action bodies against the closed
// set of action shapes before anything is relayed upstream.
package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/atinyakov/savingsboard/internal/models"
)

// ErrMalformedJSON is returned when the body is not parseable JSON at all.
var ErrMalformedJSON = errors.New("malformed JSON body")

// Issue codes.
const (
	CodeInvalidType          = "invalid_type"
	CodeTooSmall             = "too_small"
	CodeTooBig               = "too_big"
	CodeInvalidString        = "invalid_string"
	CodeInvalidDiscriminator = "invalid_union_discriminator"
)

const minPinLength = 4

// isoDate only checks the shape; calendar validity is left to the workflow.
var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Issue is a single field violation.
type Issue struct {
	Code    string   `json:"code"`
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// ValidationError lists every violation found in a payload.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(is.Path, "."), is.Message))
	}
	return "invalid payload: " + strings.Join(parts, "; ")
}

// Parse decodes body and validates it. It returns ErrMalformedJSON for
// unparseable input and *ValidationError for JSON that matches no action.
func Parse(body []byte) (*models.Payload, error) {
	if !json.Valid(body) {
		return nil, ErrMalformedJSON
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return Validate(raw)
}

// Validate checks an already decoded JSON value. Numbers decoded with
// UseNumber keep their original literal in the returned payload.
func Validate(raw any) (*models.Payload, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &ValidationError{Issues: []Issue{{
			Code:    CodeInvalidType,
			Path:    []string{},
			Message: "Expected object, received " + typeName(raw),
		}}}
	}

	action, ok := obj["action"].(string)
	if !ok || !known(models.Action(action)) {
		return nil, &ValidationError{Issues: []Issue{{
			Code:    CodeInvalidDiscriminator,
			Path:    []string{"action"},
			Message: "Invalid discriminator value. Expected " + expectedActions(),
		}}}
	}

	c := &checker{obj: obj}
	p := &models.Payload{Action: models.Action(action)}
	p.Username = c.str("username", 1)
	p.Pin = c.str("pin", minPinLength)

	switch p.Action {
	case models.ActionCreateBoard:
		p.BoardName = c.str("board_name", 1)
		if _, present := obj["board_code"]; present {
			p.BoardCode = c.str("board_code", 1)
		}
	case models.ActionJoinBoard, models.ActionGetBoard:
		p.BoardCode = c.str("board_code", 1)
	case models.ActionAddItem:
		p.BoardCode = c.str("board_code", 1)
		p.ItemName = c.str("item_name", 1)
		p.TargetPrice = c.positive("target_price")
		p.StartDate = c.date("start_date")
		p.EndDate = c.date("end_date")
	case models.ActionAnalyzeItem:
		p.BoardCode = c.str("board_code", 1)
		p.ItemID = c.id("item_id")
		p.ItemName = c.str("item_name", 1)
		p.TargetPrice = c.positive("target_price")
		p.StartDate = c.date("start_date")
		p.EndDate = c.date("end_date")
	}

	if len(c.issues) > 0 {
		return nil, &ValidationError{Issues: c.issues}
	}
	return p, nil
}

type checker struct {
	obj    map[string]any
	issues []Issue
}

func (c *checker) fail(field, code, msg string) {
	c.issues = append(c.issues, Issue{Code: code, Path: []string{field}, Message: msg})
}

// expect reports a type mismatch for field and returns false when v is not
// of the wanted JSON type.
func (c *checker) expect(field, want string) (any, bool) {
	v, present := c.obj[field]
	if !present {
		c.fail(field, CodeInvalidType, "Required")
		return nil, false
	}
	if got := typeName(v); got != want {
		c.fail(field, CodeInvalidType, fmt.Sprintf("Expected %s, received %s", want, got))
		return nil, false
	}
	return v, true
}

func (c *checker) str(field string, minLen int) string {
	v, ok := c.expect(field, "string")
	if !ok {
		return ""
	}
	s := strings.TrimSpace(v.(string))
	if len([]rune(s)) < minLen {
		c.fail(field, CodeTooSmall, fmt.Sprintf("String must contain at least %d character(s)", minLen))
		return ""
	}
	return s
}

func (c *checker) positive(field string) json.Number {
	v, ok := c.expect(field, "number")
	if !ok {
		return ""
	}
	n := number(v)
	f, err := n.Float64()
	if err != nil || f <= 0 {
		c.fail(field, CodeTooSmall, "Number must be greater than 0")
		return ""
	}
	return n
}

func (c *checker) id(field string) int64 {
	v, ok := c.expect(field, "number")
	if !ok {
		return 0
	}
	n := number(v)
	if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		if i <= 0 {
			c.fail(field, CodeTooSmall, "Number must be greater than 0")
			return 0
		}
		return i
	}
	// Out-of-range integers and literals like 3.0 or 1e2 land here.
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) {
		c.fail(field, CodeInvalidType, "Expected integer, received float")
		return 0
	}
	if f <= 0 {
		c.fail(field, CodeTooSmall, "Number must be greater than 0")
		return 0
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if f >= math.MaxInt64 {
		c.fail(field, CodeTooBig, fmt.Sprintf("Number must be less than or equal to %d", int64(math.MaxInt64)))
		return 0
	}
	return int64(f)
}

func (c *checker) date(field string) string {
	v, ok := c.expect(field, "string")
	if !ok {
		return ""
	}
	s := v.(string)
	if !isoDate.MatchString(s) {
		c.fail(field, CodeInvalidString, "Invalid")
		return ""
	}
	return s
}

func number(v any) json.Number {
	if f, ok := v.(float64); ok {
		return json.Number(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return v.(json.Number)
}

func known(a models.Action) bool {
	for _, k := range models.Actions {
		if k == a {
			return true
		}
	}
	return false
}

func expectedActions() string {
	quoted := make([]string, 0, len(models.Actions))
	for _, a := range models.Actions {
		quoted = append(quoted, "'"+string(a)+"'")
	}
	return strings.Join(quoted, " | ")
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
