package llmutils_test

import (
	"testing"

	"github.com/bridgekit-ai/toolbridge/pkg/llmutils"
	"github.com/stretchr/testify/assert"
)

func TestCleanJSON(t *testing.T) {
	tcases := []struct {
		name string
		in   string
		exp  string
	}{
		{
			name: "plain object",
			in:   `{"a": 1}`,
			exp:  `{"a": 1}`,
		},
		{
			name: "prose around object",
			in:   "Sure, here you go: {\"a\": 1}\nLet me know if you need anything else.",
			exp:  `{"a": 1}`,
		},
		{
			name: "nested braces kept greedy",
			in:   "prefix {\"a\": {\"b\": 2}} suffix",
			exp:  `{"a": {"b": 2}}`,
		},
		{
			name: "array",
			in:   "result: [1,2,3].",
			exp:  `[1,2,3]`,
		},
		{
			name: "no json at all",
			in:   "no structured content here",
			exp:  "no structured content here",
		},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.exp, string(llmutils.CleanJSON([]byte(tc.in))))
		})
	}
}

func TestTrimBackticks(t *testing.T) {
	in := "```json\n{\"a\": 1}\n```"
	assert.Equal(t, `{"a": 1}`, llmutils.TrimBackticks(in))

	// no fences
	assert.Equal(t, `{"a": 1}`, llmutils.TrimBackticks(`{"a": 1}`))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "plain", llmutils.Stringify("plain"))

	type payload struct {
		Name string `json:"name"`
	}
	out := llmutils.Stringify(payload{Name: "x"})
	assert.Contains(t, out, "```json")
	assert.Contains(t, out, `"name": "x"`)
}

func TestEnsureEndsWithNewline(t *testing.T) {
	assert.Equal(t, "", llmutils.EnsureEndsWithNewline("  "))
	assert.Equal(t, "a\n", llmutils.EnsureEndsWithNewline("  a  "))
	assert.Equal(t, "a\n", llmutils.EnsureEndsWithNewline("a\n"))
}
