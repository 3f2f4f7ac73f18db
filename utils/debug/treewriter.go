// Package debug provides helpers for assembling human readable dumps included
// in debug reports.
package debug

import (
	"bytes"
	"fmt"
	"strconv"
)

// Field is a single name[value] annotation on a tree line.
type Field struct {
	name  string
	value string
}

// String quotes the value, control characters and all.
func String(name, value string) Field {
	return Field{name: name, value: strconv.Quote(value)}
}

func Int(name string, value int) Field {
	return Field{name: name, value: strconv.Itoa(value)}
}

func Any(name string, value any) Field {
	return Field{name: name, value: fmt.Sprint(value)}
}

// TreeWriter accumulates an indented textual tree, two spaces per level.
type TreeWriter struct {
	buf bytes.Buffer
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{}
}

func (tw *TreeWriter) String() string {
	return tw.buf.String()
}

// Line writes one node: a label followed by its fields.
func (tw *TreeWriter) Line(depth int, label string, fields ...Field) {
	tw.indent(depth)
	tw.buf.WriteString(label)
	for _, f := range fields {
		tw.buf.WriteByte(' ')
		tw.buf.WriteString(f.name)
		tw.buf.WriteByte('[')
		tw.buf.WriteString(f.value)
		tw.buf.WriteByte(']')
	}
	tw.buf.WriteByte('\n')
}

// Text writes a node holding free-form text, quoted so multi-line values stay
// on one tree line. Empty text stays unquoted.
func (tw *TreeWriter) Text(depth int, label, value string) {
	tw.indent(depth)
	tw.buf.WriteString(label)
	tw.buf.WriteString(": ")
	if len(value) > 0 {
		tw.buf.WriteString(strconv.Quote(value))
	}
	tw.buf.WriteByte('\n')
}

func (tw *TreeWriter) indent(depth int) {
	for range depth {
		tw.buf.WriteString("  ")
	}
}
