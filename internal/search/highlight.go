package search

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2/registry"
	"github.com/blevesearch/bleve/v2/search/highlight"
	htmlformat "github.com/blevesearch/bleve/v2/search/highlight/format/html"
	simplefrag "github.com/blevesearch/bleve/v2/search/highlight/fragmenter/simple"
	simplehl "github.com/blevesearch/bleve/v2/search/highlight/highlighter/simple"
)

// Snippet fragments are marked up the way the engine's HTML formatter does.
const (
	snippetMarkBefore = "<mark>"
	snippetMarkAfter  = "</mark>"
)

var (
	highlightersMu sync.Mutex
	highlighters   = make(map[int]string)
)

// highlighterFor returns the name of a registered highlighter whose
// fragment size matches the requested character budget, registering one on
// first use. The engine registry is process-global and append-only, so a
// name is registered at most once per budget.
func highlighterFor(maxChars int) string {
	highlightersMu.Lock()
	defer highlightersMu.Unlock()

	if name, ok := highlighters[maxChars]; ok {
		return name
	}
	name := fmt.Sprintf("muninn-html-%d", maxChars)
	_ = registry.RegisterHighlighter(name,
		func(config map[string]interface{}, cache *registry.Cache) (highlight.Highlighter, error) {
			fragmenter := simplefrag.NewFragmenter(maxChars)
			formatter := htmlformat.NewFragmentFormatter(snippetMarkBefore, snippetMarkAfter)
			return simplehl.NewHighlighter(fragmenter, formatter, simplehl.DefaultSeparator), nil
		})
	highlighters[maxChars] = name
	return name
}
