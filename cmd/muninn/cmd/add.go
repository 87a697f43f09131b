package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nyo16/muninn"
)

// newAddCmd creates the add command. Each argument is a JSON file holding
// one document object; "-" reads from stdin. Documents are committed at the
// end of the invocation.
func newAddCmd() *cobra.Command {
	var indexPath string
	var docID string

	cmd := &cobra.Command{
		Use:   "add [file...]",
		Short: "Add JSON documents to an index and commit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := muninn.Open(indexPath, muninn.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = idx.Close() }()

			for _, arg := range args {
				doc, err := readDocument(arg, cmd.InOrStdin())
				if err != nil {
					return err
				}
				if docID != "" {
					doc[muninn.IDField] = docID
				}
				if err := idx.Add(doc); err != nil {
					return err
				}
			}
			if err := idx.Commit(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "added %d document(s)\n", len(args))
			return nil
		},
	}

	cmd.Flags().StringVar(&indexPath, "index", "", "Index directory (required)")
	cmd.Flags().StringVar(&docID, "id", "", "Document ID (only with a single file)")
	_ = cmd.MarkFlagRequired("index")

	return cmd
}

// readDocument decodes one JSON object. Numbers are decoded as json.Number
// and narrowed to int64 when integral, so integer fields keep their integer
// typing through the marshaller instead of arriving as float64.
func readDocument(path string, stdin io.Reader) (muninn.Document, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open document %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", path, err)
	}

	doc := make(muninn.Document, len(raw))
	for k, v := range raw {
		doc[k] = narrowNumber(v)
	}
	return doc, nil
}

func narrowNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return i
	}
	f, _ := n.Float64()
	return f
}
