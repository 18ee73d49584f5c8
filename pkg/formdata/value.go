package formdata

import "strings"

// Kind tells a single field value from a repeated one.
type Kind int

const (
	// Plain is a field submitted under a regular name.
	Plain Kind = iota
	// List is a field submitted under a name ending in "[]".
	List
)

func (k Kind) String() string {
	if k == List {
		return "list"
	}
	return "plain"
}

// Value holds either a single string or an ordered list of strings.
type Value struct {
	kind  Kind
	plain string
	list  []string
}

// PlainValue creates a single string value.
func PlainValue(s string) Value {
	return Value{kind: Plain, plain: s}
}

// ListValue creates a list value. The values are copied.
func ListValue(values ...string) Value {
	return Value{kind: List, list: append([]string(nil), values...)}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// Plain returns the string and true if v is a plain value.
func (v Value) Plain() (string, bool) {
	if v.kind != Plain {
		return "", false
	}
	return v.plain, true
}

// List returns the values and true if v is a list value.
func (v Value) List() ([]string, bool) {
	if v.kind != List {
		return nil, false
	}
	return v.list, true
}

func (v Value) String() string {
	if v.kind == List {
		return "[" + strings.Join(v.list, ", ") + "]"
	}
	return v.plain
}

func (v Value) appendValue(s string) Value {
	return Value{kind: List, list: append(v.list, s)}
}

// Data maps field names to their submitted values. Names of list fields are
// stored without the "[]" suffix.
type Data map[string]Value

// Has reports whether a field was submitted at all.
func (d Data) Has(name string) bool {
	_, ok := d[name]
	return ok
}

// Plain returns a plain field. It reports false when the field is missing or
// was submitted as a list.
func (d Data) Plain(name string) (string, bool) {
	v, ok := d[name]
	if !ok {
		return "", false
	}
	return v.Plain()
}

// List returns a list field. It reports false when the field is missing or
// was submitted as a plain value.
func (d Data) List(name string) ([]string, bool) {
	v, ok := d[name]
	if !ok {
		return nil, false
	}
	return v.List()
}
