package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToHTML(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"h1", "# Title", `<h1 class="text-xl font-bold mb-3 text-gray-900 dark:text-gray-100">Title</h1>`},
		{"h2", "## Sub", `<h2 class="text-lg font-semibold mb-2 text-gray-800 dark:text-gray-200">Sub</h2>`},
		{"h3", "### Small", `<h3 class="text-md font-medium mb-2 text-gray-700 dark:text-gray-300">Small</h3>`},
		{"bold before italic", "**a** and *b*", `<strong class="font-semibold">a</strong> and <em class="italic">b</em>`},
		{"inline code", "use `map`", `use <code class="bg-gray-100 dark:bg-gray-700 px-1.5 py-0.5 rounded text-sm font-mono">map</code>`},
		{"bullet", "- item", `<li class="ml-4 mb-1">• item</li>`},
		{"numbered", "2. step", `<li class="ml-4 mb-1 list-decimal">step</li>`},
		{"paragraphs", "a\n\nb\nc", `a</p><p class="mb-3">b<br>c`},
		{"heading only at line start", "x # not", "x # not"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ToHTML(tc.in))
		})
	}
}

func TestToHTML_MultilineHeadings(t *testing.T) {
	out := ToHTML("# A\n## B")
	require.Equal(t,
		`<h1 class="text-xl font-bold mb-3 text-gray-900 dark:text-gray-100">A</h1><br><h2 class="text-lg font-semibold mb-2 text-gray-800 dark:text-gray-200">B</h2>`,
		out)
}
