// Package markdown renders assistant messages to the HTML fragment used by
// the web chat, and to ANSI text for terminals.
package markdown

import "regexp"

type rule struct {
	re   *regexp.Regexp
	repl string
}

// Applied in order; later rules see the output of earlier ones.
var rules = []rule{
	{regexp.MustCompile(`(?m)^# (.*)$`), `<h1 class="text-xl font-bold mb-3 text-gray-900 dark:text-gray-100">$1</h1>`},
	{regexp.MustCompile(`(?m)^## (.*)$`), `<h2 class="text-lg font-semibold mb-2 text-gray-800 dark:text-gray-200">$1</h2>`},
	{regexp.MustCompile(`(?m)^### (.*)$`), `<h3 class="text-md font-medium mb-2 text-gray-700 dark:text-gray-300">$1</h3>`},
	{regexp.MustCompile(`\*\*(.*?)\*\*`), `<strong class="font-semibold">$1</strong>`},
	{regexp.MustCompile(`\*(.*?)\*`), `<em class="italic">$1</em>`},
	{regexp.MustCompile("`(.*?)`"), `<code class="bg-gray-100 dark:bg-gray-700 px-1.5 py-0.5 rounded text-sm font-mono">$1</code>`},
	{regexp.MustCompile("```([\\s\\S]*?)```"), `<pre class="bg-gray-100 dark:bg-gray-800 p-3 rounded-lg overflow-x-auto my-2"><code class="text-sm font-mono">$1</code></pre>`},
	{regexp.MustCompile(`(?m)^- (.*)$`), `<li class="ml-4 mb-1">• $1</li>`},
	{regexp.MustCompile(`(?m)^\d+\. (.*)$`), `<li class="ml-4 mb-1 list-decimal">$1</li>`},
	{regexp.MustCompile(`\n\n`), `</p><p class="mb-3">`},
	{regexp.MustCompile(`\n`), `<br>`},
}

// ToHTML converts the markdown subset produced by the assistant into HTML.
// The input is not escaped.
func ToHTML(content string) string {
	for _, r := range rules {
		content = r.re.ReplaceAllString(content, r.repl)
	}
	return content
}
