package relay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanned(t *testing.T) {
	cases := []struct {
		prompt string
		want   string
	}{
		{"Hello there", greetingAnswer},
		{"HEY", greetingAnswer},
		// "hi" is a substring match, so "this" greets too
		{"what is this", greetingAnswer},
		{"Help me with DSA", dsaAnswer},
		{"graph ALGORITHM tips", dsaAnswer},
		{"best data structure for LRU", dsaAnswer},
		{"hello, DSA plan?", greetingAnswer},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Canned(tc.prompt), tc.prompt)
	}
}

func TestCanned_GenericQuotesPrompt(t *testing.T) {
	out := Canned("resume review")
	require.True(t, strings.HasPrefix(out, `I understand you're looking for guidance on "resume review".`))
	require.NotContains(t, out, "%!")
}
