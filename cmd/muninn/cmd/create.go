package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nyo16/muninn"
)

// schemaFile is the YAML layout of a schema file, matching the sidecar the
// index keeps internally:
//
//	fields:
//	  - name: title
//	    kind: text
//	    stored: true
//	    indexed: true
type schemaFile struct {
	Fields []muninn.FieldSpec `yaml:"fields"`
}

// newCreateCmd creates the create command.
func newCreateCmd() *cobra.Command {
	var indexPath string
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new index from a schema file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(schemaPath)
			if err != nil {
				return fmt.Errorf("read schema file: %w", err)
			}
			var file schemaFile
			if err := yaml.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("parse schema file %s: %w", schemaPath, err)
			}

			idx, err := muninn.Create(indexPath, file.Fields, muninn.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = idx.Close() }()

			fmt.Fprintf(cmd.OutOrStdout(), "created index %s with %d fields\n",
				indexPath, idx.Catalogue().Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&indexPath, "index", "", "Index directory (required)")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "Schema YAML file (required)")
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}
