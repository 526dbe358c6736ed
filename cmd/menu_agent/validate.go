package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyo-lab/weeklymenu/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a menu record JSON file",
	Long:  "Validates a JSON file against the built-in menu record schema, or against --schema when given.",
	RunE:  runValidate,
}

var (
	validateSchema string
	validateJSON   string
)

func init() {
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Path to a JSON Schema file (defaults to the menu record schema)")
	validateCmd.Flags().StringVar(&validateJSON, "json", "", "Path to the JSON file to validate (required)")

	if err := validateCmd.MarkFlagRequired("json"); err != nil {
		panic(fmt.Sprintf("failed to mark json flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	var err error
	if validateSchema != "" {
		err = schemas.ValidateJSON(validateSchema, validateJSON)
	} else {
		var data []byte
		data, err = os.ReadFile(validateJSON)
		if err != nil {
			return fmt.Errorf("failed to read JSON file: %w", err)
		}
		err = schemas.ValidateMenuRecord(data)
	}

	if err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation failed:\n%v\n", err)
			return fmt.Errorf("validation failed")
		}
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Validation passed")
	return nil
}
