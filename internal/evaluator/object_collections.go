package evaluator

import (
	"strconv"
	"strings"
)

// List is a shared, mutable ordered sequence.
type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, el := range l.Elements {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(inspectElement(el))
	}
	sb.WriteString("]")
	return sb.String()
}

// Dict is a shared, mutable mapping from string to value. Key order is
// insertion order, preserved for iteration and display.
type Dict struct {
	keys    []string
	entries map[string]Object
}

func NewDict() *Dict {
	return &Dict{entries: make(map[string]Object)}
}

func (d *Dict) Type() ObjectType { return DICT_OBJ }
func (d *Dict) Inspect() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, key := range d.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(key))
		sb.WriteString(": ")
		sb.WriteString(inspectElement(d.entries[key]))
	}
	sb.WriteString("}")
	return sb.String()
}

func (d *Dict) Get(key string) (Object, bool) {
	val, ok := d.entries[key]
	return val, ok
}

func (d *Dict) Set(key string, value Object) {
	if _, exists := d.entries[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.entries[key] = value
}

func (d *Dict) Delete(key string) bool {
	if _, exists := d.entries[key]; !exists {
		return false
	}
	delete(d.entries, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
	return true
}

func (d *Dict) Len() int { return len(d.keys) }

// Keys returns the key order; callers must not mutate it.
func (d *Dict) Keys() []string { return d.keys }

// Tuple is an immutable ordered sequence.
type Tuple struct {
	Elements []Object
}

func (t *Tuple) Type() ObjectType { return TUPLE_OBJ }
func (t *Tuple) Inspect() string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, el := range t.Elements {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(inspectElement(el))
	}
	sb.WriteString(")")
	return sb.String()
}

// inspectElement renders a collection element, quoting strings so that
// ["a"] does not display like [a].
func inspectElement(obj Object) string {
	if s, ok := obj.(*String); ok {
		return strconv.Quote(s.Value)
	}
	if obj == nil {
		return "nil"
	}
	return obj.Inspect()
}
