// Package validation checks incoming payloads against declarative per-field
// constraints before they reach persistence.
//
// Structural constraints (required, length, enum, numeric range, no unknown
// fields) live in embedded JSON schemas. Each schema carries a field table that
// maps a violated constraint to the human readable message clients see, and
// declares the constraints JSON Schema cannot express (dates in the future).
package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBaseURL = "https://workflow.local/schemas/"

// Error carries one message per violated constraint, in field order.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// NewError builds a validation error from messages.
func NewError(messages ...string) *Error {
	return &Error{Messages: messages}
}

// AsError reports whether err is a validation error and returns it.
func AsError(err error) (*Error, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// Field declares the messages for one payload location. Path is a JSON pointer
// with "*" standing for any array index.
type Field struct {
	Path     string
	Label    string
	Required bool
	// Future requires a parseable date that lies after the time of validation.
	Future   bool
	Messages map[string]string
}

// Schema is a compiled JSON schema plus its message table.
type Schema struct {
	name   string
	schema *jsonschema.Schema
	fields []Field
	now    func() time.Time
}

func mustSchema(name string, fields []Field) *Schema {
	data, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		panic(fmt.Sprintf("validation: read schema %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	url := schemaBaseURL + name
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		panic(fmt.Sprintf("validation: add schema %s: %v", name, err))
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("validation: compile schema %s: %v", name, err))
	}

	return &Schema{name: name, schema: compiled, fields: fields, now: time.Now}
}

// Name returns the schema file name.
func (s *Schema) Name() string {
	return s.name
}

// Validate normalizes payload to its JSON form, trims every string and checks
// it against the schema. It returns the normalized document on success and an
// *Error listing every violation otherwise.
func (s *Schema) Validate(payload any) (map[string]any, error) {
	doc, err := normalize(payload)
	if err != nil {
		return nil, err
	}

	var found []violation
	if err := s.schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return nil, fmt.Errorf("validating %s: %w", s.name, err)
		}
		s.collect(doc, ve, &found)
	}
	s.checkDates(doc, &found)

	if len(found) > 0 {
		return nil, &Error{Messages: ordered(found)}
	}
	return doc, nil
}

type violation struct {
	order   int
	seq     int
	message string
}

func (s *Schema) collect(doc map[string]any, ve *jsonschema.ValidationError, out *[]violation) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			s.collect(doc, cause, out)
		}
		return
	}

	keyword := lastSegment(ve.KeywordLocation)
	location := pattern(ve.InstanceLocation)

	switch keyword {
	case "required":
		parent, _ := lookup(doc, ve.InstanceLocation).(map[string]any)
		for i, f := range s.fields {
			if !f.Required || parentPath(f.Path) != location {
				continue
			}
			if _, ok := parent[lastSegment(f.Path)]; ok {
				continue
			}
			s.add(out, i, f.message("required"))
		}
	case "additionalProperties":
		obj, _ := lookup(doc, ve.InstanceLocation).(map[string]any)
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if s.known(location + "/" + k) {
				continue
			}
			name := strings.TrimPrefix(strings.ReplaceAll(ve.InstanceLocation+"/"+k, "/", "."), ".")
			s.add(out, len(s.fields), fmt.Sprintf("%q is not allowed", name))
		}
	default:
		i, f, ok := s.field(location)
		if !ok {
			s.add(out, len(s.fields), fmt.Sprintf("%s: %s", displayPath(ve.InstanceLocation), ve.Message))
			return
		}
		s.add(out, i, f.message(keyword))
	}
}

func (s *Schema) checkDates(doc map[string]any, out *[]violation) {
	for i, f := range s.fields {
		if !f.Future {
			continue
		}
		raw, ok := lookup(doc, f.Path).(string)
		if !ok {
			continue
		}
		t, err := ParseDate(raw)
		if err != nil {
			s.add(out, i, f.message("date"))
			continue
		}
		if !t.After(s.now()) {
			s.add(out, i, f.message("future"))
		}
	}
}

func (s *Schema) add(out *[]violation, order int, message string) {
	*out = append(*out, violation{order: order, seq: len(*out), message: message})
}

func (s *Schema) field(path string) (int, Field, bool) {
	for i, f := range s.fields {
		if f.Path == path {
			return i, f, true
		}
	}
	return 0, Field{}, false
}

func (s *Schema) known(path string) bool {
	_, _, ok := s.field(path)
	return ok
}

func (f Field) message(keyword string) string {
	if msg, ok := f.Messages[keyword]; ok {
		return msg
	}
	switch keyword {
	case "required", "minLength":
		return f.Label + " is required"
	case "future":
		return f.Label + " must be in the future"
	case "date":
		return f.Label + " must be a valid date"
	}
	return f.Label + " is invalid"
}

func ordered(found []violation) []string {
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].order != found[j].order {
			return found[i].order < found[j].order
		}
		return found[i].seq < found[j].seq
	})
	seen := make(map[string]bool, len(found))
	messages := make([]string, 0, len(found))
	for _, v := range found {
		if seen[v.message] {
			continue
		}
		seen[v.message] = true
		messages = append(messages, v.message)
	}
	return messages
}

// normalize converts any payload into its decoded JSON form with trimmed
// strings, so Go values and JSON bodies validate identically.
func normalize(payload any) (map[string]any, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, NewError("Payload must be a JSON object")
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, NewError("Payload must be a JSON object")
	}
	doc, ok := trimStrings(decoded).(map[string]any)
	if !ok {
		return nil, NewError("Payload must be a JSON object")
	}
	return doc, nil
}

func trimStrings(v any) any {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case map[string]any:
		for k, item := range val {
			val[k] = trimStrings(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = trimStrings(item)
		}
		return val
	default:
		return v
	}
}

// Decode copies a validated document into a typed input struct.
func Decode(doc map[string]any, out any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}
	return nil
}

func lookup(doc any, pointer string) any {
	current := doc
	for _, seg := range segments(pointer) {
		switch node := current.(type) {
		case map[string]any:
			current = node[seg]
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil
			}
			current = node[idx]
		default:
			return nil
		}
	}
	return current
}

func segments(pointer string) []string {
	pointer = strings.TrimPrefix(pointer, "#")
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return nil
	}
	return strings.Split(pointer, "/")
}

// pattern replaces array indices in a JSON pointer with "*".
func pattern(pointer string) string {
	segs := segments(pointer)
	if len(segs) == 0 {
		return ""
	}
	for i, seg := range segs {
		if _, err := strconv.Atoi(seg); err == nil {
			segs[i] = "*"
		}
	}
	return "/" + strings.Join(segs, "/")
}

func parentPath(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return ""
	}
	return path[:idx]
}

func lastSegment(pointer string) string {
	segs := segments(pointer)
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

func displayPath(pointer string) string {
	path := strings.ReplaceAll(strings.TrimPrefix(pointer, "/"), "/", ".")
	if path == "" {
		return "payload"
	}
	return path
}
