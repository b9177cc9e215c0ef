package rpc

import (
	"strconv"
)

// frame tracks one open container (object or array) so Builder knows
// whether the next value needs a leading comma.
type frame struct {
	isObject  bool
	wrote     bool // whether a value has already been written in this container
	needValue bool // true right after a key was written in an object
}

// Builder emits JSON objects/arrays/keys/primitives directly into a
// growable byte buffer, doubling capacity as needed rather than
// reallocating on every write. It is the counterpart to the streaming
// parser in scanner.go and is used for every outgoing LSP message
// (spec.md §4.I).
type Builder struct {
	buf   []byte
	stack []frame
}

// NewBuilder returns a Builder with an initial capacity hint.
func NewBuilder(sizeHint int) *Builder {
	if sizeHint < 64 {
		sizeHint = 64
	}
	return &Builder{buf: make([]byte, 0, sizeHint)}
}

// Bytes returns the built JSON. The builder must have no open containers.
func (b *Builder) Bytes() []byte { return b.buf }

// String returns the built JSON as a string.
func (b *Builder) String() string { return string(b.buf) }

func (b *Builder) grow(n int) {
	if cap(b.buf)-len(b.buf) >= n {
		return
	}
	newCap := cap(b.buf) * 2
	if newCap == 0 {
		newCap = 64
	}
	for newCap-len(b.buf) < n {
		newCap *= 2
	}
	grown := make([]byte, len(b.buf), newCap)
	copy(grown, b.buf)
	b.buf = grown
}

func (b *Builder) writeByte(c byte) {
	b.grow(1)
	b.buf = append(b.buf, c)
}

func (b *Builder) writeString(s string) {
	b.grow(len(s))
	b.buf = append(b.buf, s...)
}

// beforeValue inserts a separating comma if this isn't the first value in
// the current container, and clears the "just wrote a key" flag.
func (b *Builder) beforeValue() {
	if len(b.stack) == 0 {
		return
	}
	top := &b.stack[len(b.stack)-1]
	if top.wrote && !top.needValue {
		b.writeByte(',')
	}
	top.wrote = true
	top.needValue = false
}

// BeginObject opens `{`.
func (b *Builder) BeginObject() *Builder {
	b.beforeValue()
	b.writeByte('{')
	b.stack = append(b.stack, frame{isObject: true})
	return b
}

// EndObject closes the innermost object with `}`.
func (b *Builder) EndObject() *Builder {
	b.writeByte('}')
	b.pop()
	return b
}

// BeginArray opens `[`.
func (b *Builder) BeginArray() *Builder {
	b.beforeValue()
	b.writeByte('[')
	b.stack = append(b.stack, frame{isObject: false})
	return b
}

// EndArray closes the innermost array with `]`.
func (b *Builder) EndArray() *Builder {
	b.writeByte(']')
	b.pop()
	return b
}

func (b *Builder) pop() {
	if len(b.stack) > 0 {
		b.stack = b.stack[:len(b.stack)-1]
	}
}

// Key writes an object key followed by `:`. Must be called only directly
// inside an object.
func (b *Builder) Key(name string) *Builder {
	b.beforeValue()
	b.writeQuoted(name)
	b.writeByte(':')
	if len(b.stack) > 0 {
		b.stack[len(b.stack)-1].needValue = true
	}
	return b
}

// String_ writes a quoted, escaped string value.
func (b *Builder) String_(s string) *Builder {
	b.beforeValue()
	b.writeQuoted(s)
	return b
}

// Int writes an integer value.
func (b *Builder) Int(n int) *Builder {
	b.beforeValue()
	b.writeString(strconv.Itoa(n))
	return b
}

// Float writes a floating-point value.
func (b *Builder) Float(f float64) *Builder {
	b.beforeValue()
	b.writeString(strconv.FormatFloat(f, 'g', -1, 64))
	return b
}

// Bool writes a boolean value.
func (b *Builder) Bool(v bool) *Builder {
	b.beforeValue()
	if v {
		b.writeString("true")
	} else {
		b.writeString("false")
	}
	return b
}

// Null writes a JSON null.
func (b *Builder) Null() *Builder {
	b.beforeValue()
	b.writeString("null")
	return b
}

// Raw writes pre-encoded JSON verbatim (e.g. a value built by a nested
// Builder), still respecting comma placement.
func (b *Builder) Raw(json []byte) *Builder {
	b.beforeValue()
	b.grow(len(json))
	b.buf = append(b.buf, json...)
	return b
}

var hexDigits = "0123456789abcdef"

// writeQuoted escapes s per the JSON grammar and writes it as a quoted string.
func (b *Builder) writeQuoted(s string) {
	b.writeByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			b.writeString(`\"`)
		case c == '\\':
			b.writeString(`\\`)
		case c == '\n':
			b.writeString(`\n`)
		case c == '\r':
			b.writeString(`\r`)
		case c == '\t':
			b.writeString(`\t`)
		case c < 0x20:
			b.writeString(`\u00`)
			b.writeByte(hexDigits[c>>4])
			b.writeByte(hexDigits[c&0xf])
		default:
			b.writeByte(c)
		}
	}
	b.writeByte('"')
}
