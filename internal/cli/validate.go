package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/sitesync/internal/config"
	"github.com/roach88/sitesync/internal/harness"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Scenarios string // optional scenarios directory
}

// ValidationIssue is one problem found in a config or scenario file.
type ValidationIssue struct {
	File    string `json:"file"`
	Line    int    `json:"line,omitempty"`
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool              `json:"valid"`
	Config    string            `json:"config,omitempty"`
	Scenarios int               `json:"scenarios"`
	Errors    []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Check a config file and scenarios",
		Long: `Check a CUE config file against the config schema and, with
--scenarios, every scenario file in a directory.

Without a config-file argument the file given by --config is checked.

Examples:
  sitesync validate ./sitesync.cue
  sitesync validate --scenarios ./internal/harness/testdata/scenarios`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.ConfigPath
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(opts, path, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Scenarios, "scenarios", "", "directory of scenario files to check")

	return cmd
}

func runValidate(opts *ValidateOptions, configPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if configPath == "" && opts.Scenarios == "" {
		return outputValidateError(formatter, ErrCodeGeneric, "nothing to validate: pass a config file or --scenarios", nil)
	}

	result := ValidationResult{Valid: true, Config: configPath}

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return outputValidateError(formatter, ErrCodeNotFound, fmt.Sprintf("config file not found: %s", configPath), nil)
		}
		formatter.VerboseLog("Validating config %s", configPath)
		if _, err := config.Load(configPath); err != nil {
			result.Errors = append(result.Errors, configIssue(configPath, err))
		}
	}

	if opts.Scenarios != "" {
		info, err := os.Stat(opts.Scenarios)
		if err != nil || !info.IsDir() {
			return outputValidateError(formatter, ErrCodeNotFound, fmt.Sprintf("scenarios directory not found: %s", opts.Scenarios), nil)
		}
		n, issues, err := validateScenarios(opts.Scenarios, formatter)
		if err != nil {
			return outputValidateError(formatter, ErrCodeGeneric, err.Error(), nil)
		}
		result.Scenarios = n
		result.Errors = append(result.Errors, issues...)
	}

	if len(result.Errors) > 0 {
		result.Valid = false
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

func configIssue(path string, err error) ValidationIssue {
	issue := ValidationIssue{File: path, Code: ErrCodeConfig, Message: err.Error()}
	var cfgErr *config.ConfigError
	if errors.As(err, &cfgErr) {
		issue.Field = cfgErr.Field
		issue.Message = cfgErr.Message
		if cfgErr.Pos.IsValid() {
			issue.Line = cfgErr.Pos.Line()
		}
	}
	return issue
}

// validateScenarios loads every scenario under dir. Two scenarios sharing a
// name would share a golden file, so duplicates are reported too.
func validateScenarios(dir string, formatter *OutputFormatter) (int, []ValidationIssue, error) {
	files, err := findScenarioFiles(dir, "")
	if err != nil {
		return 0, nil, err
	}

	var issues []ValidationIssue
	seen := make(map[string]string)
	for _, file := range files {
		formatter.VerboseLog("Validating scenario %s", file)
		s, err := harness.LoadScenario(file)
		if err != nil {
			issues = append(issues, ValidationIssue{File: file, Code: ErrCodeScenario, Message: err.Error()})
			continue
		}
		if first, ok := seen[s.Name]; ok {
			issues = append(issues, ValidationIssue{
				File:    file,
				Field:   "name",
				Code:    ErrCodeScenario,
				Message: fmt.Sprintf("scenario %q already defined in %s", s.Name, filepath.Base(first)),
			})
			continue
		}
		seen[s.Name] = file
	}
	return len(files), issues, nil
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	if result.Config != "" {
		fmt.Fprintf(formatter.Writer, "✓ %s valid\n", result.Config)
	}
	if result.Scenarios > 0 {
		fmt.Fprintf(formatter.Writer, "✓ %d scenario(s) valid\n", result.Scenarios)
	}
	return nil
}

// outputValidateError outputs a single command-level error.
func outputValidateError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs every validation issue.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, e := range errs {
		if e.Line > 0 {
			fmt.Fprintf(formatter.Writer, "%s:%d\n", e.File, e.Line)
		} else {
			fmt.Fprintln(formatter.Writer, e.File)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", e.Code, e.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
