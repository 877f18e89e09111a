package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lacquerai/casegen/internal/execcontext"
	"github.com/lacquerai/casegen/internal/profile"
	"github.com/lacquerai/casegen/internal/style"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate generation profiles",
	Long: `Validate generation profile files without generating anything.

This command checks:
- YAML syntax and unknown keys
- weight tables (positive weights, no duplicate values)
- year counts, sex eras and the age distribution
- transmission override probabilities`,
	Example: `
  casegen validate profile.yaml
  casegen validate --recursive ./profiles
  casegen validate --output json profile.yaml   # JSON output for CI/CD`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rc := execcontext.New(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		recursive, _ := cmd.Flags().GetBool("recursive")
		return validateProfiles(rc, args, recursive)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolP("recursive", "r", false, "recursively validate .yaml/.yml files in directories")
}

// ValidationResult represents the result of validating a profile
type ValidationResult struct {
	File     string               `json:"file" yaml:"file"`
	Valid    bool                 `json:"valid" yaml:"valid"`
	Rows     int                  `json:"rows,omitempty" yaml:"rows,omitempty"`
	Duration time.Duration        `json:"duration_ns" yaml:"duration_ns"`
	Errors   []profile.FieldError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// ValidationSummary represents the summary of all validation results
type ValidationSummary struct {
	Total   int                `json:"total" yaml:"total"`
	Valid   int                `json:"valid" yaml:"valid"`
	Invalid int                `json:"invalid" yaml:"invalid"`
	Results []ValidationResult `json:"results" yaml:"results"`
}

// errValidationFailed is returned after the report when any file is invalid.
var errValidationFailed = errors.New("validation failed")

func validateProfiles(rc execcontext.RunContext, args []string, recursive bool) error {
	files, err := collectFiles(args, recursive)
	if err != nil {
		return fmt.Errorf("failed to collect files: %w", err)
	}
	if len(files) == 0 {
		style.Warning(rc.StdErr, "No profile files found to validate")
		return nil
	}

	summary := ValidationSummary{Total: len(files)}
	for _, file := range files {
		result := validateSingleFile(file)
		if result.Valid {
			summary.Valid++
		} else {
			summary.Invalid++
		}
		summary.Results = append(summary.Results, result)
	}

	if err := render(rc.StdOut, summary, func(w io.Writer) { printValidationSummary(w, summary) }); err != nil {
		return err
	}
	if summary.Invalid > 0 {
		return errValidationFailed
	}
	return nil
}

func validateSingleFile(filename string) ValidationResult {
	start := time.Now()
	result := ValidationResult{File: filename, Valid: true}

	p, err := profile.Load(filename)
	result.Duration = time.Since(start)

	if err != nil {
		result.Valid = false
		var multi *profile.MultiError
		if errors.As(err, &multi) {
			for _, e := range multi.Errors {
				var fe *profile.FieldError
				if errors.As(e, &fe) {
					result.Errors = append(result.Errors, *fe)
				} else {
					result.Errors = append(result.Errors, profile.FieldError{Field: "profile", Message: e.Error()})
				}
			}
		} else {
			result.Errors = append(result.Errors, profile.FieldError{Field: "file", Message: err.Error()})
		}
	} else {
		result.Rows = p.TotalCount()
	}

	log.Debug().
		Str("file", filename).
		Bool("valid", result.Valid).
		Dur("duration", result.Duration).
		Msg("Validated profile file")

	return result
}

func collectFiles(args []string, recursive bool) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		if !recursive {
			return nil, fmt.Errorf("%s is a directory, use --recursive to validate directories", arg)
		}

		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isProfileFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking directory %s: %w", arg, err)
		}
	}

	return files, nil
}

func isProfileFile(filename string) bool {
	ext := filepath.Ext(filename)
	return ext == ".yaml" || ext == ".yml"
}

func printValidationSummary(w io.Writer, summary ValidationSummary) {
	for _, result := range summary.Results {
		if result.Valid {
			if viper.GetBool("verbose") {
				style.Success(w, fmt.Sprintf("%s (%d rows)", result.File, result.Rows))
			}
			continue
		}
		style.Error(w, result.File)
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  %s: %s\n", e.Field, e.Message)
		}
	}

	if viper.GetBool("quiet") {
		return
	}
	fmt.Fprintln(w)
	if summary.Invalid == 0 {
		style.Success(w, fmt.Sprintf("All %d profile(s) are valid", summary.Total))
	} else {
		style.Error(w, fmt.Sprintf("%d of %d profile(s) failed validation", summary.Invalid, summary.Total))
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(w, "\nDetailed results:\n")
		rows := make([][]string, len(summary.Results))
		for i, result := range summary.Results {
			status := "valid"
			if !result.Valid {
				status = "invalid"
			}
			rows[i] = []string{result.File, status, fmt.Sprint(result.Rows), result.Duration.String()}
		}
		printTable(w, []string{"File", "Status", "Rows", "Duration"}, rows)
	}
}
