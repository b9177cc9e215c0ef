package typesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveSingletonsArePointerEqual(t *testing.T) {
	r := NewRegistry()
	assert.Same(t, r.Primitive(I32), r.Primitive(I32))
	assert.NotSame(t, r.Primitive(I32), r.Primitive(I64))
}

func TestPrimitiveByNameResolvesIntAsI32Alias(t *testing.T) {
	r := NewRegistry()
	assert.Same(t, r.Primitive(I32), r.PrimitiveByName("int"))
	assert.Same(t, r.Primitive(Bool), r.PrimitiveByName("bool"))
	assert.Nil(t, r.PrimitiveByName("nope"))
}

func TestPrimitiveKindHelpers(t *testing.T) {
	assert.True(t, I32.IsInteger())
	assert.False(t, Bool.IsInteger())
	assert.True(t, I32.Signed())
	assert.False(t, U32.Signed())
	assert.Equal(t, 32, I32.BitWidth())
	assert.Equal(t, 0, Bool.BitWidth())
}

func TestRegisterStructRejectsDuplicateName(t *testing.T) {
	r := NewRegistry()
	_, err := r.RegisterStruct("Point", []ObjectField{{Name: "x", Type: r.Primitive(I32)}}, nil)
	require.NoError(t, err)

	_, err = r.RegisterStruct("Point", []ObjectField{{Name: "y", Type: r.Primitive(I32)}}, nil)
	assert.Error(t, err)
}

func TestLookupStructReturnsRegisteredType(t *testing.T) {
	r := NewRegistry()
	obj, err := r.RegisterStruct("Point", []ObjectField{{Name: "x", Type: r.Primitive(I32)}}, nil)
	require.NoError(t, err)
	assert.Same(t, obj, r.LookupStruct("Point"))
	assert.Nil(t, r.LookupStruct("Missing"))
}

func TestInternObjectReturnsSamePointerForEqualShape(t *testing.T) {
	r := NewRegistry()
	fieldsA := []ObjectField{{Name: "x", Type: r.Primitive(I32)}, {Name: "y", Type: r.Primitive(I32)}}
	fieldsB := []ObjectField{{Name: "x", Type: r.Primitive(I32)}, {Name: "y", Type: r.Primitive(I32)}}

	a := r.InternObject(fieldsA, nil)
	b := r.InternObject(fieldsB, nil)
	assert.Same(t, a, b)
}

func TestInternObjectDistinguishesFieldOrder(t *testing.T) {
	r := NewRegistry()
	a := r.InternObject([]ObjectField{{Name: "x", Type: r.Primitive(I32)}, {Name: "y", Type: r.Primitive(I32)}}, nil)
	b := r.InternObject([]ObjectField{{Name: "y", Type: r.Primitive(I32)}, {Name: "x", Type: r.Primitive(I32)}}, nil)
	assert.NotSame(t, a, b)
}

func TestInternObjectResolvesAliasesWhenKeying(t *testing.T) {
	r := NewRegistry()
	alias, err := r.RegisterAlias("MyInt", r.Primitive(I32))
	require.NoError(t, err)

	a := r.InternObject([]ObjectField{{Name: "x", Type: r.Primitive(I32)}}, nil)
	b := r.InternObject([]ObjectField{{Name: "x", Type: alias}}, nil)
	assert.Same(t, a, b, "aliased and underlying types intern to the same Object")
}

func TestRegisterAliasRejectsDirectCycle(t *testing.T) {
	r := NewRegistry()
	selfAlias := &Alias{Name: "Loop"}
	selfAlias.Target = selfAlias
	_, err := r.RegisterAlias("Loop", selfAlias)
	assert.Error(t, err)
}

func TestRegisterAliasRejectsIndirectCycle(t *testing.T) {
	r := NewRegistry()
	a, err := r.RegisterAlias("A", r.Primitive(I32))
	require.NoError(t, err)

	// Rewire A to point at a not-yet-registered B which points back at A.
	b := &Alias{Name: "B", Target: a}
	a.Target = b
	_, err = r.RegisterAlias("B", a)
	assert.Error(t, err)
}

func TestResolveAliasWalksToUnderlyingType(t *testing.T) {
	r := NewRegistry()
	alias, err := r.RegisterAlias("MyInt", r.Primitive(I32))
	require.NoError(t, err)
	assert.Same(t, r.Primitive(I32), r.ResolveAlias(alias))
	assert.Same(t, r.Primitive(I32), r.ResolveAlias(r.Primitive(I32)), "non-alias types are returned unchanged")
}

func TestTypesEqualComparesPrimitivesByKind(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.TypesEqual(r.Primitive(I32), r.Primitive(I32)))
	assert.False(t, r.TypesEqual(r.Primitive(I32), r.Primitive(I64)))
}

func TestTypesEqualComparesArraysElementwise(t *testing.T) {
	r := NewRegistry()
	a := r.NewArray(r.Primitive(I32))
	b := r.NewArray(r.Primitive(I32))
	c := r.NewArray(r.Primitive(F64))
	assert.True(t, r.TypesEqual(a, b))
	assert.False(t, r.TypesEqual(a, c))
}

func TestTypesEqualComparesRefsByMutabilityAndTarget(t *testing.T) {
	r := NewRegistry()
	a := r.NewRef(r.Primitive(I32), true)
	b := r.NewRef(r.Primitive(I32), true)
	c := r.NewRef(r.Primitive(I32), false)
	assert.True(t, r.TypesEqual(a, b))
	assert.False(t, r.TypesEqual(a, c))
}

func TestTypesEqualTreatsNilAsOnlyEqualToNil(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.TypesEqual(nil, nil))
	assert.False(t, r.TypesEqual(nil, r.Primitive(I32)))
}

func TestFunctionIsFullyTypedRequiresResolvedParamsAndReturn(t *testing.T) {
	r := NewRegistry()
	f := r.NewFunction("id", []Type{TheUnknown()}, r.Primitive(I32), false, nil)
	assert.False(t, f.IsFullyTyped())

	f2 := r.NewFunction("id", []Type{r.Primitive(I32)}, r.Primitive(I32), false, nil)
	assert.True(t, f2.IsFullyTyped())
}

func TestFunctionFindSpecializationMatchesByParamTypes(t *testing.T) {
	r := NewRegistry()
	f := r.NewFunction("id", []Type{TheUnknown()}, TheUnknown(), false, nil)
	spec := &FunctionSpecialization{MangledName: "id$i32", ParamTypes: []Type{r.Primitive(I32)}, ReturnType: r.Primitive(I32)}
	f.Specializations = append(f.Specializations, spec)

	equal := func(a, b Type) bool { return r.TypesEqual(a, b) }
	got := f.FindSpecialization([]Type{r.Primitive(I32)}, equal)
	assert.Same(t, spec, got)

	assert.Nil(t, f.FindSpecialization([]Type{r.Primitive(F64)}, equal))
}

func TestFormatMangledNameSanitizesCompoundTypeNames(t *testing.T) {
	r := NewRegistry()
	name := FormatMangledName("id", []Type{r.NewArray(r.Primitive(I32))})
	assert.Equal(t, "id$i32arr", name)
}

func TestIsUnknownTreatsNilAsUnknown(t *testing.T) {
	assert.True(t, IsUnknown(nil))
	assert.True(t, IsUnknown(TheUnknown()))
	r := NewRegistry()
	assert.False(t, IsUnknown(r.Primitive(I32)))
}

func TestObjectFieldTypeLooksUpByName(t *testing.T) {
	r := NewRegistry()
	obj := r.InternObject([]ObjectField{{Name: "x", Type: r.Primitive(I32)}}, nil)
	assert.Same(t, r.Primitive(I32), obj.FieldType("x"))
	assert.Nil(t, obj.FieldType("missing"))
}

func TestObjectStringFormatsAnonymousVsNamed(t *testing.T) {
	r := NewRegistry()
	anon := r.InternObject([]ObjectField{{Name: "x", Type: r.Primitive(I32)}}, nil)
	assert.Equal(t, "{x: i32}", anon.String())

	named, err := r.RegisterStruct("Point", []ObjectField{{Name: "x", Type: r.Primitive(I32)}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Point", named.String())
}
