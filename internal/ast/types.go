package ast

// NamedTypeAnnotation references a primitive (i32, bool, string, ...) or a
// named struct/alias by identifier.
type NamedTypeAnnotation struct {
	Base
	Name string
}

func (n *NamedTypeAnnotation) Accept(v Visitor)   { v.VisitNamedTypeAnnotation(n) }
func (n *NamedTypeAnnotation) typeAnnotationNode() {}

// ArrayTypeAnnotation is an `Elem[]` suffix.
type ArrayTypeAnnotation struct {
	Base
	Element TypeAnnotation
}

func (a *ArrayTypeAnnotation) Accept(v Visitor)   { v.VisitArrayTypeAnnotation(a) }
func (a *ArrayTypeAnnotation) typeAnnotationNode() {}

// RefTypeAnnotation is a `ref Target` prefix. Mutable tracks whether the
// reference itself was declared mutable.
type RefTypeAnnotation struct {
	Base
	Target  TypeAnnotation
	Mutable bool
}

func (r *RefTypeAnnotation) Accept(v Visitor)   { v.VisitRefTypeAnnotation(r) }
func (r *RefTypeAnnotation) typeAnnotationNode() {}

// ObjectTypeField is one named field of an ObjectTypeAnnotation.
type ObjectTypeField struct {
	Name       string
	Annotation TypeAnnotation
}

// ObjectTypeAnnotation is an anonymous `{ name: Type, ... }` object type.
type ObjectTypeAnnotation struct {
	Base
	Fields []ObjectTypeField
}

func (o *ObjectTypeAnnotation) Accept(v Visitor)   { v.VisitObjectTypeAnnotation(o) }
func (o *ObjectTypeAnnotation) typeAnnotationNode() {}
