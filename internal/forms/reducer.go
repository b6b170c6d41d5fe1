// Package forms implements the schema-driven validation state used by the
// administration forms. A form holds a JSON-like document, a touched-field
// set and a schema; per-field errors are derived from schema issues and
// scoped to touched fields until full validation is requested on submit.
package forms

import (
	"strings"

	"github.com/awslabs/lisa-admin/internal/schema"
)

// Op selects the patch semantics of a SetFields call.
type Op string

const (
	// OpSet replaces the value at the path
	OpSet Op = "set"
	// OpMerge shallow-merges an object value into the existing object
	OpMerge Op = "merge"
	// OpUnset removes the value; on an array index, later elements shift
	// down by one
	OpUnset Op = "unset"
)

// Schema validates a form document and reports issues with field paths.
type Schema interface {
	Validate(doc map[string]interface{}) []schema.Issue
}

// SchemaFunc adapts a plain function to the Schema interface.
type SchemaFunc func(doc map[string]interface{}) []schema.Issue

// Validate calls f.
func (f SchemaFunc) Validate(doc map[string]interface{}) []schema.Issue { return f(doc) }

// State is the reducer state for one form.
type State struct {
	schema      Schema
	doc         map[string]interface{}
	touched     map[string]bool
	validateAll bool
	issues      []schema.Issue
}

// New creates form state around a deep copy of the initial document.
func New(s Schema, initial map[string]interface{}) *State {
	doc, _ := deepCopy(initial).(map[string]interface{})
	if doc == nil {
		doc = map[string]interface{}{}
	}
	st := &State{
		schema:  s,
		doc:     doc,
		touched: make(map[string]bool),
	}
	st.revalidate()
	return st
}

// Document returns the current form document. Callers must not mutate it.
func (s *State) Document() map[string]interface{} {
	return s.doc
}

// Get returns the value at a dot/bracket path.
func (s *State) Get(path string) (interface{}, bool) {
	segs, err := parsePath(path)
	if err != nil {
		return nil, false
	}
	return getPath(s.doc, segs)
}

// SetFields applies a patch at the given path using the requested
// semantics, then recomputes schema issues.
func (s *State) SetFields(path string, value interface{}, op Op) error {
	segs, err := parsePath(path)
	if err != nil {
		return err
	}

	switch op {
	case OpUnset:
		err = unsetPath(s.doc, segs)
	case OpMerge:
		err = setPath(s.doc, segs, value, true)
	default:
		err = setPath(s.doc, segs, value, false)
	}
	if err != nil {
		return err
	}

	s.revalidate()
	return nil
}

// TouchFields marks the given paths as touched and reports whether the whole
// form is currently valid.
func (s *State) TouchFields(paths ...string) bool {
	for _, p := range paths {
		s.touched[p] = true
	}
	return len(s.issues) == 0
}

// ValidateAll lifts the touched-field scoping, as on submit, and reports
// whether the form is valid. Submission is blocked while this returns false.
func (s *State) ValidateAll() bool {
	s.validateAll = true
	return len(s.issues) == 0
}

// Valid reports whether the document has no schema issues at all, touched or
// not.
func (s *State) Valid() bool {
	return len(s.issues) == 0
}

// Errors returns the visible per-field errors: every issue when ValidateAll
// has been requested, otherwise only issues at or under touched paths.
func (s *State) Errors() map[string]string {
	errs := make(map[string]string)
	for _, issue := range s.issues {
		if s.validateAll || s.pathTouched(issue.Path) {
			if _, exists := errs[issue.Path]; !exists {
				errs[issue.Path] = issue.Message
			}
		}
	}
	return errs
}

// FieldError returns the visible error for one field path, if any.
func (s *State) FieldError(path string) (string, bool) {
	msg, ok := s.Errors()[path]
	return msg, ok
}

func (s *State) pathTouched(path string) bool {
	if s.touched[path] {
		return true
	}
	// A touched parent exposes errors on its children
	for t := range s.touched {
		if strings.HasPrefix(path, t+".") || strings.HasPrefix(path, t+"[") {
			return true
		}
	}
	return false
}

func (s *State) revalidate() {
	if s.schema == nil {
		s.issues = nil
		return
	}
	s.issues = s.schema.Validate(s.doc)
}

// deepCopy clones JSON-like values so form mutations never leak back into
// the caller's document.
func deepCopy(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = deepCopy(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return v
	}
}
