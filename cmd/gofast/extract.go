package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gofast-app/gofast/internal/extract"
	"github.com/gofast-app/gofast/internal/schemas"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract structured run fields from an announcement text file",
	Long:  "Read a pasted run announcement from a file, extract the structured run fields, synthesize a description, and print the result as JSON.",
	RunE:  runExtract,
}

var (
	extractInputFile  string
	extractOutputFile string
	extractCity       string
	extractStravaURL  string
)

func init() {
	extractCmd.Flags().StringVarP(&extractInputFile, "in", "i", "", "Path to announcement text file (required)")
	extractCmd.Flags().StringVarP(&extractOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	extractCmd.Flags().StringVar(&extractCity, "city", "", "Contextual city used when the text names none")
	extractCmd.Flags().StringVar(&extractStravaURL, "strava-url", "", "Strava event URL to include as a source")
	_ = extractCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(_ *cobra.Command, _ []string) error {
	content, err := os.ReadFile(extractInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	bundle := &extract.SourceBundle{
		StravaText:     string(content),
		StravaURL:      extractStravaURL,
		ContextualCity: extractCity,
	}

	fields, err := extract.Extract(bundle)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	description := extract.Synthesize(fields, bundle.CombinedText())
	fields.Description = &description

	jsonBytes, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if schemaPath := schemas.ResolveSchemaPath("schemas/run_fields.schema.json"); schemaPath != "" {
		if err := schemas.ValidateBytes(schemaPath, jsonBytes); err != nil {
			var loadErr *schemas.SchemaLoadError
			if !errors.As(err, &loadErr) {
				return fmt.Errorf("output failed schema validation: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Warning: schema could not be loaded, skipping validation: %v\n", loadErr)
		}
	}

	if extractOutputFile == "" {
		fmt.Println(string(jsonBytes))
		return nil
	}
	if err := os.WriteFile(extractOutputFile, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Printf("Wrote %s\n", extractOutputFile)
	return nil
}
