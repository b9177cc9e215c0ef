package typesystem

import "strings"

// Registry owns every TypeInfo created for one Program (spec.md §9 "Global
// mutable state": no process-wide singleton, the registry is a value owned
// by a Program). It hands out pointer-equal primitive singletons and
// structurally interns anonymous object types.
type Registry struct {
	primitives   map[PrimitiveKind]*Primitive
	namedStructs map[string]*Object
	internedObjs map[string]*Object
	aliases      map[string]*Alias
}

// NewRegistry returns an empty Registry with the primitive singletons
// pre-populated.
func NewRegistry() *Registry {
	r := &Registry{
		primitives:   make(map[PrimitiveKind]*Primitive),
		namedStructs: make(map[string]*Object),
		internedObjs: make(map[string]*Object),
		aliases:      make(map[string]*Alias),
	}
	for k := range primitiveNames {
		r.primitives[k] = &Primitive{Kind: k}
	}
	return r
}

// Primitive returns the pointer-equal singleton for kind.
func (r *Registry) Primitive(kind PrimitiveKind) *Primitive {
	return r.primitives[kind]
}

// PrimitiveByName resolves one of the fixed-width integer / bool / string /
// float names from the keyword or type-annotation grammar, or nil.
func (r *Registry) PrimitiveByName(name string) *Primitive {
	for k, n := range primitiveNames {
		if n == name {
			return r.primitives[k]
		}
	}
	// "int" is the platform alias for i32 (spec.md §9 Open Question a):
	// kept equal to i32 under alias resolution by sharing its singleton.
	if name == "int" {
		return r.primitives[I32]
	}
	return nil
}

// NewArray builds an Array type over elem. Arrays are not interned: two
// Array values over the same element type are distinct TypeInfos, matching
// spec.md §3 which only requires interning for Object.
func (r *Registry) NewArray(elem Type) *Array {
	return &Array{Elem: elem}
}

// NewRef builds a Ref type over target.
func (r *Registry) NewRef(target Type, mutable bool) *Ref {
	return &Ref{Target: target, Mutable: mutable}
}

// RegisterStruct registers a named struct type. A second registration under
// the same name fails (spec.md §4.E: "duplicate names fail with a Duplicate
// Declaration error").
func (r *Registry) RegisterStruct(name string, fields []ObjectField, decl any) (*Object, error) {
	if _, exists := r.namedStructs[name]; exists {
		return nil, errorf("duplicate struct declaration: %s", name)
	}
	obj := &Object{Name: name, Fields: fields, Decl: decl}
	r.namedStructs[name] = obj
	return obj, nil
}

// LookupStruct returns the named struct type, or nil.
func (r *Registry) LookupStruct(name string) *Object {
	return r.namedStructs[name]
}

// InternObject returns the structurally-interned Object for the given
// ordered field list, resolving aliases before keying (spec.md §4.E:
// "keyed on the ordered tuple of (field name, resolve_alias(field_type))").
// Two calls with field-wise equal names and resolved types return the same
// pointer.
func (r *Registry) InternObject(fields []ObjectField, decl any) *Object {
	key := r.objectKey(fields)
	if existing, ok := r.internedObjs[key]; ok {
		return existing
	}
	obj := &Object{Fields: fields, Decl: decl}
	r.internedObjs[key] = obj
	return obj
}

func (r *Registry) objectKey(fields []ObjectField) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(f.Name)
		b.WriteByte(':')
		b.WriteString(r.ResolveAlias(f.Type).String())
	}
	return b.String()
}

// RegisterAlias registers a named alias for target. Cycles (an alias whose
// target chain eventually reaches itself) are rejected at registration
// time, per spec.md §3 "Alias resolution is ... cycle-free (cycles rejected
// at registration)".
func (r *Registry) RegisterAlias(name string, target Type) (*Alias, error) {
	if a, ok := target.(*Alias); ok {
		seen := map[string]bool{name: true}
		cur := a
		for {
			if seen[cur.Name] && cur.Name != name {
				break
			}
			if cur.Name == name {
				return nil, errorf("recursive type alias: %s", name)
			}
			next, ok := cur.Target.(*Alias)
			if !ok {
				break
			}
			seen[cur.Name] = true
			cur = next
		}
	}
	alias := &Alias{Name: name, Target: target}
	r.aliases[name] = alias
	return alias, nil
}

// LookupAlias returns the named alias, or nil.
func (r *Registry) LookupAlias(name string) *Alias {
	return r.aliases[name]
}

// ResolveAlias walks Alias targets until it reaches a non-alias type
// (spec.md §4.E resolve_alias). Non-alias types are returned unchanged.
func (r *Registry) ResolveAlias(t Type) Type {
	seen := 0
	for {
		a, ok := t.(*Alias)
		if !ok {
			return t
		}
		t = a.Target
		seen++
		if seen > 1000 {
			// Registration-time cycle detection should make this
			// unreachable; bail out rather than loop forever.
			return t
		}
	}
}

// TypesEqual reports whether a and b denote the same type once aliases are
// resolved on both sides.
func (r *Registry) TypesEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	ra, rb := r.ResolveAlias(a), r.ResolveAlias(b)
	if pa, ok := ra.(*Primitive); ok {
		if pb, ok := rb.(*Primitive); ok {
			return pa.Kind == pb.Kind
		}
		return false
	}
	if oa, ok := ra.(*Object); ok {
		ob, ok := rb.(*Object)
		return ok && oa == ob
	}
	if aa, ok := ra.(*Array); ok {
		ab, ok := rb.(*Array)
		return ok && r.TypesEqual(aa.Elem, ab.Elem)
	}
	if refa, ok := ra.(*Ref); ok {
		refb, ok := rb.(*Ref)
		return ok && refa.Mutable == refb.Mutable && r.TypesEqual(refa.Target, refb.Target)
	}
	if _, ok := ra.(*Unknown); ok {
		_, ok := rb.(*Unknown)
		return ok
	}
	return ra == rb
}

// NewFunction builds a Function TypeInfo for a declaration.
func (r *Registry) NewFunction(name string, params []Type, ret Type, variadic bool, body any) *Function {
	return &Function{Name: name, Params: params, Return: ret, Variadic: variadic, Body: body}
}
