package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObjectVisitsMembersInOrder(t *testing.T) {
	var keys []string
	var values []string
	err := ParseObject([]byte(`{"jsonrpc":"2.0","id":3,"method":"initialize","ok":true,"extra":null}`),
		func(key string, value []byte) int {
			keys = append(keys, key)
			values = append(values, string(value))
			return -1
		})

	require.NoError(t, err)
	assert.Equal(t, []string{"jsonrpc", "id", "method", "ok", "extra"}, keys)
	assert.Equal(t, `"2.0"`, values[0])
	assert.Equal(t, "3", values[1])
	assert.Equal(t, `"initialize"`, values[2])
}

func TestParseObjectAbortsOnNegativeCode(t *testing.T) {
	err := ParseObject([]byte(`{"a":1,"b":2}`), func(key string, value []byte) int {
		if key == "b" {
			return -2
		}
		return -1
	})

	require.Error(t, err)
	var abort *AbortError
	require.ErrorAs(t, err, &abort)
	assert.Equal(t, -2, abort.Code)
}

func TestParseArrayVisitsElementsInOrder(t *testing.T) {
	var seen []int
	err := ParseArray([]byte(`[10,20,30]`), func(index int, value []byte) int {
		n, err := DecodeInt(value)
		require.NoError(t, err)
		seen = append(seen, n)
		assert.Equal(t, index, len(seen)-1)
		return -1
	})
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 30}, seen)
}

func TestSkipValueNestedStructures(t *testing.T) {
	data := []byte(`{"a":[1,2,{"b":"c"}]} TRAILING`)
	end, err := SkipValue(data, 0)
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,2,{"b":"c"}]}`, string(data[:end]))
}

func TestDecodeLeafValues(t *testing.T) {
	s, err := DecodeString([]byte(`"hello\nworld"`))
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", s)

	n, err := DecodeInt([]byte(`-42`))
	require.NoError(t, err)
	assert.Equal(t, -42, n)

	bl, err := DecodeBool([]byte(`true`))
	require.NoError(t, err)
	assert.True(t, bl)

	assert.True(t, IsNull([]byte(`null`)))
	assert.False(t, IsNull([]byte(`0`)))
}

func TestDecodeStringHandlesUnicodeEscape(t *testing.T) {
	s, err := DecodeString([]byte(`"caf\u00e9"`))
	require.NoError(t, err)
	assert.Equal(t, "café", s)
}

func TestDecodeStringHandlesSurrogatePairEscape(t *testing.T) {
	s, err := DecodeString([]byte(`"\ud83d\ude00"`))
	require.NoError(t, err)
	assert.Equal(t, "😀", s)
}

func TestRoundTripBuilderThenScanner(t *testing.T) {
	b := NewBuilder(64)
	b.BeginObject().Key("method").String_("textDocument/didOpen").Key("id").Int(9).EndObject()

	var method string
	var id int
	err := ParseObject(b.Bytes(), func(key string, value []byte) int {
		switch key {
		case "method":
			s, _ := DecodeString(value)
			method = s
		case "id":
			n, _ := DecodeInt(value)
			id = n
		}
		return -1
	})
	require.NoError(t, err)
	assert.Equal(t, "textDocument/didOpen", method)
	assert.Equal(t, 9, id)
}
