package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nyo16/muninn"
)

var markStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))

var markPattern = regexp.MustCompile(`<mark>(.*?)</mark>`)

// newSearchCmd creates the search command.
func newSearchCmd() *cobra.Command {
	var indexPath string
	var queryString string
	var fields []string
	var limit int
	var snippetFields []string
	var snippetChars int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search an index with the query-string grammar",
		RunE: func(cmd *cobra.Command, _ []string) error {
			idx, err := muninn.Open(indexPath, muninn.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = idx.Close() }()

			reader, err := idx.NewReader(muninn.ReaderOptions{})
			if err != nil {
				return err
			}
			defer func() { _ = reader.Close() }()

			qb := muninn.NewQueryBuilder(idx.Catalogue())
			q, err := qb.Parsed(queryString, fields)
			if err != nil {
				return err
			}

			searcher := muninn.NewSearcher(reader)
			var res *muninn.Result
			if len(snippetFields) > 0 {
				res, err = searcher.SearchWithSnippets(cmd.Context(), q, limit, snippetFields, snippetChars)
			} else {
				res, err = searcher.Search(cmd.Context(), q, limit)
			}
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			return printResult(cmd, res)
		},
	}

	cmd.Flags().StringVar(&indexPath, "index", "", "Index directory (required)")
	cmd.Flags().StringVar(&queryString, "query", "", "Query string (required)")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Default fields for bare terms (required)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of hits")
	cmd.Flags().StringSliceVar(&snippetFields, "snippet-fields", nil, "Fields to generate snippets for")
	cmd.Flags().IntVar(&snippetChars, "snippet-chars", 150, "Snippet character budget")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("query")
	_ = cmd.MarkFlagRequired("fields")

	return cmd
}

func printResult(cmd *cobra.Command, res *muninn.Result) error {
	out := cmd.OutOrStdout()
	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	fmt.Fprintf(out, "%d hit(s)\n", res.TotalHits)
	for i, hit := range res.Hits {
		fmt.Fprintf(out, "%2d. %s  (score %.4f)\n", i+1, hit.ID, hit.Score)
		for name, value := range hit.Document {
			fmt.Fprintf(out, "      %s: %v\n", name, value)
		}
		for name, snippet := range hit.Snippets {
			fmt.Fprintf(out, "      %s » %s\n", name, renderSnippet(snippet, tty))
		}
	}
	return nil
}

// renderSnippet turns the engine's <mark> markup into terminal styling, or
// strips it when stdout is not a TTY.
func renderSnippet(s string, tty bool) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return markPattern.ReplaceAllStringFunc(s, func(m string) string {
		inner := markPattern.FindStringSubmatch(m)[1]
		if tty {
			return markStyle.Render(inner)
		}
		return inner
	})
}
