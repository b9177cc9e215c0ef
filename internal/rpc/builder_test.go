package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderObjectShape(t *testing.T) {
	b := NewBuilder(32)
	b.BeginObject().
		Key("jsonrpc").String_("2.0").
		Key("id").Int(7).
		Key("ok").Bool(true).
		Key("nothing").Null().
		EndObject()

	assert.Equal(t, `{"jsonrpc":"2.0","id":7,"ok":true,"nothing":null}`, b.String())
}

func TestBuilderNestedArrayAndRaw(t *testing.T) {
	b := NewBuilder(32)
	b.BeginArray()
	b.BeginObject().Key("n").Int(1).EndObject()
	b.Raw([]byte(`{"n":2}`))
	b.EndArray()

	assert.Equal(t, `[{"n":1},{"n":2}]`, b.String())
}

func TestBuilderEscapesStrings(t *testing.T) {
	b := NewBuilder(16)
	b.String_("line\nbreak \"quoted\"")
	assert.Equal(t, `"line\nbreak \"quoted\""`, b.String())
}

func TestBuilderEmptyObjectAndArray(t *testing.T) {
	b := NewBuilder(8)
	b.BeginObject().EndObject()
	assert.Equal(t, `{}`, b.String())

	b2 := NewBuilder(8)
	b2.BeginArray().EndArray()
	assert.Equal(t, `[]`, b2.String())
}
