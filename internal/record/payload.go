package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrMalformed is returned when a structuring payload does not describe a record.
var ErrMalformed = errors.New("malformed record payload")

// ServiceError is an explicit `{ "error": ... }` answer from a structuring service.
type ServiceError struct {
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return e.Message + ": " + e.Details
}

const payloadSchema = `{
  "type": "object",
  "properties": {
    "name":    {"type": ["string", "null"]},
    "email":   {"$ref": "#/definitions/scalar"},
    "phone":   {"$ref": "#/definitions/scalar"},
    "contact": {
      "type": ["object", "null"],
      "properties": {
        "email": {"$ref": "#/definitions/scalar"},
        "phone": {"$ref": "#/definitions/scalar"}
      }
    },
    "skills":     {"$ref": "#/definitions/list"},
    "education":  {"$ref": "#/definitions/list"},
    "projects":   {"$ref": "#/definitions/list"},
    "experience": {"$ref": "#/definitions/list"}
  },
  "definitions": {
    "scalar": {"type": ["string", "number", "null"]},
    "list": {
      "type": ["array", "null"],
      "items": {"type": ["string", "number", "object", "null"]}
    }
  }
}`

var recordKeys = []string{"name", "email", "phone", "contact", "skills", "education", "projects", "experience"}

// Nested list items are flattened with these keys first, then any others alphabetically.
var itemKeyOrder = []string{"degree", "institution", "year", "grade", "title", "role", "company", "period", "description"}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("record.json", strings.NewReader(payloadSchema)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("record.json")
	})

	return schema, schemaErr
}

type payload struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Contact    *Contact `json:"contact"`
	Skills     []string `json:"skills"`
	Education  []string `json:"education"`
	Projects   []string `json:"projects"`
	Experience []string `json:"experience"`
}

// ParsePayload turns a structuring service response body into a record.
// Both the flat shape (`email`, `phone` at top level, list items as objects)
// and the record's own shape are accepted. An error payload yields a
// *ServiceError; anything else that is not a record yields ErrMalformed.
func ParsePayload(body []byte) (*Record, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformed)
	}

	if msg, ok := obj["error"]; ok && msg != nil {
		svcErr := &ServiceError{Message: strings.TrimSpace(fmt.Sprint(msg))}
		if svcErr.Message == "" {
			svcErr.Message = "structuring service error"
		}
		if details, ok := obj["details"].(string); ok {
			svcErr.Details = details
		}
		return nil, svcErr
	}

	if !hasRecordKey(obj) {
		return nil, fmt.Errorf("%w: no record fields", ErrMalformed)
	}

	s, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var p payload
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       flattenObjects,
		WeaklyTypedInput: true,
		Result:           &p,
		TagName:          "json",
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	rec := &Record{
		Name:       strings.TrimSpace(p.Name),
		Contact:    Contact{Email: strings.TrimSpace(p.Email), Phone: strings.TrimSpace(p.Phone)},
		Skills:     compact(p.Skills),
		Education:  compact(p.Education),
		Projects:   compact(p.Projects),
		Experience: compact(p.Experience),
	}
	if p.Contact != nil {
		if email := strings.TrimSpace(p.Contact.Email); email != "" {
			rec.Contact.Email = email
		}
		if phone := strings.TrimSpace(p.Contact.Phone); phone != "" {
			rec.Contact.Phone = phone
		}
	}

	rec = rec.Clamp()
	if rec.Empty() {
		return nil, fmt.Errorf("%w: every record field is empty", ErrMalformed)
	}

	return rec, nil
}

func hasRecordKey(obj map[string]any) bool {
	for _, key := range recordKeys {
		if _, ok := obj[key]; ok {
			return true
		}
	}
	return false
}

// flattenObjects renders an object decoded into a string field as
// "v1, v2, ..." so that education or experience entries become one line each.
func flattenObjects(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String || from.Kind() != reflect.Map {
		return data, nil
	}

	obj, ok := data.(map[string]any)
	if !ok {
		return data, nil
	}

	return flatten(obj), nil
}

func flatten(obj map[string]any) string {
	seen := make(map[string]bool, len(obj))
	var parts []string

	add := func(key string) {
		seen[key] = true
		v, ok := obj[key]
		if !ok || v == nil {
			return
		}
		if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
			parts = append(parts, s)
		}
	}

	for _, key := range itemKeyOrder {
		add(key)
	}

	rest := make([]string, 0, len(obj))
	for key := range obj {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		add(key)
	}

	return strings.Join(parts, ", ")
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
