package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIRObjectSortedKeys(t *testing.T) {
	obj := IRObject{"c": IRInt(1), "a": IRInt(2), "b": IRInt(3)}
	assert.Equal(t, []string{"a", "b", "c"}, obj.SortedKeys())
	assert.Empty(t, IRObject{}.SortedKeys())
}

func TestCompareKeysRFC8785(t *testing.T) {
	assert.Equal(t, 0, compareKeysRFC8785("a", "a"))
	assert.Equal(t, -1, compareKeysRFC8785("a", "b"))
	assert.Equal(t, 1, compareKeysRFC8785("b", "a"))
	assert.Equal(t, -1, compareKeysRFC8785("a", "ab"), "prefix sorts first")
	assert.Equal(t, -1, compareKeysRFC8785("\U00010000", "\uE000"), "surrogates sort before U+E000")
}

func TestParseRecord(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"content":"test","n":3,"tags":["a"],"ok":true,"nested":{"k":"v"}}`))
	require.NoError(t, err)

	assert.Equal(t, IRObject{
		"content": IRString("test"),
		"n":       IRInt(3),
		"tags":    IRArray{IRString("a")},
		"ok":      IRBool(true),
		"nested":  IRObject{"k": IRString("v")},
	}, rec)
}

func TestParseRecordRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"float", `{"n":1.5}`, "float"},
		{"exponent", `{"n":1e3}`, "float"},
		{"null", `{"n":null}`, "null"},
		{"not an object", `["a"]`, "object"},
		{"bad json", `{`, "parse record"},
		{"int overflow", `{"n":92233720368547758070}`, "range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecord([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRecordFromStruct(t *testing.T) {
	type post struct {
		Content string `json:"content"`
		Likes   int    `json:"likes"`
	}

	rec, err := RecordFrom(post{Content: "test", Likes: 2})
	require.NoError(t, err)
	assert.Equal(t, IRObject{"content": IRString("test"), "likes": IRInt(2)}, rec)

	same := IRObject{"content": IRString("x")}
	rec, err = RecordFrom(same)
	require.NoError(t, err)
	assert.Equal(t, same, rec)

	_, err = RecordFrom(struct {
		F float64 `json:"f"`
	}{F: 0.5})
	require.Error(t, err)
}

func TestIRObjectJSONRoundTrip(t *testing.T) {
	obj := IRObject{
		"s":   IRString("x<y"),
		"i":   IRInt(-4),
		"b":   IRBool(false),
		"arr": IRArray{IRInt(1), IRObject{"z": IRString("q")}},
		"nil": IRNull{},
	}

	data, err := json.Marshal(obj)
	require.NoError(t, err)

	var back IRObject
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, obj, back)
}

func TestUnmarshalStoredFloatRejected(t *testing.T) {
	var obj IRObject
	err := json.Unmarshal([]byte(`{"f":2.5}`), &obj)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats")
}
