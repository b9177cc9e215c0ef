// Package typesystem implements the TypeInfo model from spec.md §3: a
// tagged union of type variants (spec.md §9 "avoid virtual dispatch") plus
// the Registry that owns and structurally interns them. Declaration
// back-pointers and function bodies are stored as `any` rather than
// *ast.Node to keep this package import-free of internal/ast, which itself
// depends on typesystem for Expression.Type().
package typesystem

import (
	"fmt"
	"strings"
)

// Type is the common handle for every TypeInfo variant.
type Type interface {
	String() string
	typeNode()
}

// PrimitiveKind enumerates the fixed set of primitive forms.
type PrimitiveKind int

const (
	I8 PrimitiveKind = iota
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	Bool
	F32
	F64
	StringKind
	Void
)

var primitiveNames = map[PrimitiveKind]string{
	I8: "i8", I16: "i16", I32: "i32", I64: "i64",
	U8: "u8", U16: "u16", U32: "u32", U64: "u64",
	Bool: "bool", F32: "f32", F64: "f64", StringKind: "string", Void: "void",
}

func (k PrimitiveKind) String() string { return primitiveNames[k] }

// IsInteger reports whether k is one of the fixed-width integer kinds.
func (k PrimitiveKind) IsInteger() bool {
	switch k {
	case I8, I16, I32, I64, U8, U16, U32, U64:
		return true
	default:
		return false
	}
}

// Signed reports whether k is a signed integer kind. Only meaningful when
// IsInteger(k) is true.
func (k PrimitiveKind) Signed() bool {
	switch k {
	case I8, I16, I32, I64:
		return true
	default:
		return false
	}
}

// BitWidth returns k's width in bits. Only meaningful for integer kinds.
func (k PrimitiveKind) BitWidth() int {
	switch k {
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I32, U32:
		return 32
	case I64, U64:
		return 64
	default:
		return 0
	}
}

// Primitive is a fixed-width integer, bool, float, string, or void
// singleton. Primitive singletons are pointer-equal (spec.md §3 Identity
// rule), which is why callers always obtain one through Registry.Primitive.
type Primitive struct {
	Kind PrimitiveKind
}

func (p *Primitive) String() string { return p.Kind.String() }
func (*Primitive) typeNode()        {}

// Signed and BitWidth forward to the Kind so call sites that already hold a
// *Primitive (e.g. from asInteger) don't need to unwrap Kind themselves.
func (p *Primitive) Signed() bool  { return p.Kind.Signed() }
func (p *Primitive) BitWidth() int { return p.Kind.BitWidth() }

// Alias wraps a target type under a name. Always resolved transitively
// before comparison via Registry.ResolveAlias.
type Alias struct {
	Name   string
	Target Type
}

func (a *Alias) String() string { return a.Name }
func (*Alias) typeNode()        {}

// Array is a homogeneous sequence of Elem.
type Array struct {
	Elem Type
}

func (a *Array) String() string { return a.Elem.String() + "[]" }
func (*Array) typeNode()        {}

// Ref is a reference to a Target value, optionally mutable.
type Ref struct {
	Target  Type
	Mutable bool
}

func (r *Ref) String() string {
	if r.Mutable {
		return "ref mut " + r.Target.String()
	}
	return "ref " + r.Target.String()
}
func (*Ref) typeNode() {}

// ObjectField is one (name, type) pair of an Object, in declared order.
type ObjectField struct {
	Name string
	Type Type
}

// Object is a structural record type: an ordered field list plus an
// optional declaration back-pointer (for default values and named structs).
// Two Objects built from the same ordered (name, resolved type) sequence
// are the same *Object pointer (spec.md §3 structural interning).
type Object struct {
	Name   string // empty for anonymous (interned) object types
	Fields []ObjectField
	Decl   any // declaring *ast.StructDecl, or the originating ObjectLiteral; nil if none
}

func (o *Object) String() string {
	if o.Name != "" {
		return o.Name
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range o.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Type.String())
	}
	b.WriteByte('}')
	return b.String()
}
func (*Object) typeNode() {}

// FieldType returns the type of field name, or nil if o has no such field.
func (o *Object) FieldType(name string) Type {
	for _, f := range o.Fields {
		if f.Name == name {
			return f.Type
		}
	}
	return nil
}

// FunctionSpecialization is one concretely-typed clone of a Function's
// body, produced by the iterative specialization passes (spec.md §4.G).
type FunctionSpecialization struct {
	MangledName string
	ParamTypes  []Type
	ReturnType  Type
	Body        any // the specialized clone's *ast.Block, independently typed
}

// Function is a callable's type: parameter/return types (possibly Unknown
// before inference), a variadic flag, a link to the original body, and the
// specializations produced so far.
type Function struct {
	Name            string
	Params          []Type
	Return          Type
	Variadic        bool
	Body            any // original *ast.Block; nil for external declarations
	Specializations []*FunctionSpecialization
}

func (f *Function) String() string {
	var b strings.Builder
	b.WriteString("function(")
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(") ")
	b.WriteString(f.Return.String())
	return b.String()
}
func (*Function) typeNode() {}

// IsFullyTyped reports whether every parameter and the return type are
// resolved (no Unknown), per spec.md §4.G.
func (f *Function) IsFullyTyped() bool {
	if IsUnknown(f.Return) {
		return false
	}
	for _, p := range f.Params {
		if IsUnknown(p) {
			return false
		}
	}
	return true
}

// FindSpecialization returns the specialization whose parameter types match
// args element-wise under alias resolution (spec.md §4.G), or nil.
func (f *Function) FindSpecialization(args []Type, equal func(a, b Type) bool) *FunctionSpecialization {
	for _, spec := range f.Specializations {
		if len(spec.ParamTypes) != len(args) {
			continue
		}
		match := true
		for i, pt := range spec.ParamTypes {
			if !equal(pt, args[i]) {
				match = false
				break
			}
		}
		if match {
			return spec
		}
	}
	return nil
}

// Unknown is the unresolved placeholder used before and during inference.
// It is a singleton; compare with IsUnknown rather than type assertion.
type Unknown struct{}

func (*Unknown) String() string { return "unknown" }
func (*Unknown) typeNode()      {}

var unknownSingleton = &Unknown{}

// TheUnknown returns the single Unknown instance.
func TheUnknown() Type { return unknownSingleton }

// IsUnknown reports whether t is the Unknown placeholder (nil also counts,
// since a node that inference never reached has a nil TypeInfo).
func IsUnknown(t Type) bool {
	if t == nil {
		return true
	}
	_, ok := t.(*Unknown)
	return ok
}

// FormatMangledName builds the specialization name from spec.md §3:
// function name plus parameter type names.
func FormatMangledName(funcName string, paramTypes []Type) string {
	var b strings.Builder
	b.WriteString(funcName)
	for _, t := range paramTypes {
		b.WriteByte('$')
		b.WriteString(sanitizeForMangling(t.String()))
	}
	return b.String()
}

func sanitizeForMangling(s string) string {
	return strings.NewReplacer(
		"[]", "arr", "{", "_", "}", "_", ":", "_", ",", "_", " ", "",
	).Replace(s)
}

// mismatchError is a small internal helper used by the registry for
// configuration-time failures (duplicate names, alias cycles) that are not
// themselves user diagnostics but are wrapped into one by callers.
type mismatchError struct{ msg string }

func (e *mismatchError) Error() string { return e.msg }

func errorf(format string, args ...any) error {
	return &mismatchError{msg: fmt.Sprintf(format, args...)}
}
