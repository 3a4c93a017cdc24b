// Command validate checks flying chess data files before they are imported
// or dropped into a data directory. It understands:
//   - Map files (JSON or YAML lists of maps, as produced by a map export)
//   - Library files (JSON or YAML lists of options libraries)
//   - Option text files (.txt, one option per line)
//
// Problems that would make an import fail are errors. Entries an import
// silently repairs, such as a wrong endpoint square or a reward without a
// value, are reported as warnings.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/flying-chess/game/catalog"
	"github.com/wricardo/flying-chess/game/engine"
)

// record is one entry of a map or library file. Maps carry a grid,
// libraries carry options.
type record struct {
	ID           string             `json:"id" yaml:"id"`
	Name         string             `json:"name" yaml:"name"`
	TotalSquares *int               `json:"totalSquares" yaml:"totalSquares"`
	Grid         []engine.RawSquare `json:"grid" yaml:"grid"`
	Options      []string           `json:"options" yaml:"options"`
}

func (r record) isLibrary() bool {
	return r.Grid == nil && r.Options != nil
}

// ValidationResult captures the outcome of validating a single file
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

func (r *ValidationResult) fail(err error) {
	for _, e := range multierr.Errors(err) {
		r.Errors = append(r.Errors, e.Error())
	}
	r.Valid = len(r.Errors) == 0
}

func (r *ValidationResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// validateFile dispatches on the file extension
func validateFile(path string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(path),
		Valid: true,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.fail(fmt.Errorf("failed to read file: %w", err))
		return result
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".txt" {
		validateOptionsText(&result, path, string(data))
		return result
	}

	format, err := catalog.ParseFormat(strings.TrimPrefix(ext, "."))
	if err != nil || ext == "" {
		result.fail(fmt.Errorf("unsupported file type %q", ext))
		return result
	}

	var records []record
	if format == catalog.FormatYAML {
		err = yaml.Unmarshal(data, &records)
	} else {
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		result.fail(fmt.Errorf("invalid %s: %w", format, err))
		return result
	}

	validateRecords(&result, records)
	return result
}

// validateRecords checks every record of a map or library file
func validateRecords(result *ValidationResult, records []record) {
	if len(records) == 0 {
		result.fail(fmt.Errorf("file holds no maps or libraries"))
		return
	}

	var errs error
	seen := make(map[string]int)
	maps, libraries := 0, 0

	for i, rec := range records {
		label := fmt.Sprintf("entry %d", i+1)
		if name := strings.TrimSpace(rec.Name); name != "" {
			label = fmt.Sprintf("entry %d (%s)", i+1, name)
		}

		if rec.ID != "" {
			if prev, ok := seen[rec.ID]; ok {
				result.warn("%s: id %s already used by entry %d", label, rec.ID, prev)
			}
			seen[rec.ID] = i + 1
		}

		if rec.isLibrary() {
			libraries++
			errs = multierr.Append(errs, validateLibrary(label, rec))
			continue
		}
		maps++
		errs = multierr.Append(errs, validateMap(result, label, rec))
	}

	if maps > 0 && libraries > 0 {
		errs = multierr.Append(errs, fmt.Errorf("file mixes %d maps and %d libraries", maps, libraries))
	}

	result.fail(errs)
	if result.Valid {
		if maps > 0 {
			result.Info = append(result.Info, fmt.Sprintf("✓ Maps: %d", maps))
		}
		if libraries > 0 {
			result.Info = append(result.Info, fmt.Sprintf("✓ Libraries: %d", libraries))
		}
	}
}

// validateMap reports import failures as errors and repairs as warnings
func validateMap(result *ValidationResult, label string, rec record) error {
	var errs error

	if strings.TrimSpace(rec.Name) == "" {
		errs = multierr.Append(errs, fmt.Errorf("%s: name is required", label))
	}
	if rec.Grid == nil {
		return multierr.Append(errs, fmt.Errorf("%s: grid is required", label))
	}

	total := len(rec.Grid)
	if rec.TotalSquares != nil {
		total = *rec.TotalSquares
	}
	if total < engine.MinSquares || total > catalog.MaxSquares {
		return multierr.Append(errs, fmt.Errorf("%s: totalSquares must be between %d and %d, got %d",
			label, engine.MinSquares, catalog.MaxSquares, total))
	}

	switch {
	case len(rec.Grid) < total:
		result.warn("%s: grid has %d squares, the remaining %d become empty normal squares", label, len(rec.Grid), total-len(rec.Grid))
	case len(rec.Grid) > total:
		result.warn("%s: grid has %d squares, the last %d are dropped", label, len(rec.Grid), len(rec.Grid)-total)
	}

	last := total - 1
	for i, raw := range rec.Grid {
		if i > last {
			break
		}

		switch i {
		case 0:
			if raw.Type != string(engine.Start) {
				result.warn("%s: square 0 is %q, it becomes the start square", label, raw.Type)
			}
			continue
		case last:
			if raw.Type != string(engine.Finish) {
				result.warn("%s: square %d is %q, it becomes the finish square", label, i, raw.Type)
			}
			continue
		}

		sq, err := engine.NewSquare(raw)
		switch {
		case err != nil:
			result.warn("%s: square %d: %v, it becomes an empty normal square", label, i, err)
		case sq.Kind == engine.Start || sq.Kind == engine.Finish:
			result.warn("%s: square %d is a %s square inside the board, it becomes an empty normal square", label, i, sq.Kind)
		}
	}

	return errs
}

func validateLibrary(label string, rec record) error {
	lib := &engine.OptionsLibrary{Name: rec.Name, Options: rec.Options}
	if err := lib.Validate(); err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	return nil
}

// validateOptionsText checks a plain text options file
func validateOptionsText(result *ValidationResult, path, text string) {
	var errs error

	name := catalog.LibraryNameFromFilename(path)
	if name == "" {
		errs = multierr.Append(errs, fmt.Errorf("cannot derive a library name from %q", filepath.Base(path)))
	}

	options := catalog.ParseOptionsText(text)
	if len(options) == 0 {
		errs = multierr.Append(errs, engine.ErrEmptyLibrary)
	}

	seen := make(map[string]int)
	for i, opt := range options {
		if prev, ok := seen[opt]; ok {
			result.warn("option %d repeats option %d: %q", i+1, prev, opt)
			continue
		}
		seen[opt] = i + 1
	}

	result.fail(errs)
	if result.Valid {
		result.Info = append(result.Info, fmt.Sprintf("✓ Library: %s (%d options)", name, len(options)))
	}
}

// collectFiles returns the data files under dir. Session files are skipped.
func collectFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && d.Name() == "sessions" {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".yaml", ".yml", ".txt":
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func printResult(result ValidationResult) {
	fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

	if result.Valid {
		fmt.Println("✅ VALID")
		for _, info := range result.Info {
			fmt.Println("  " + info)
		}
	} else {
		fmt.Println("❌ INVALID")
		for _, err := range result.Errors {
			fmt.Println("  ❌ " + err)
		}
	}
	for _, w := range result.Warnings {
		fmt.Println("  ⚠️  " + w)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		found, err := collectFiles(cmd.String("dir"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error finding data files: %v", err), 1)
		}
		files = found
	}

	allValid := true
	for _, file := range files {
		result := validateFile(file)
		printResult(result)
		if !result.Valid {
			allValid = false
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if !allValid {
		return cli.Exit("❌ Some files have errors", 1)
	}
	fmt.Printf("✅ All %d files are valid!\n", len(files))
	return nil
}

// main validates the files given as arguments, or every data file under
// --dir, exiting with non-zero status if any are invalid.
func main() {
	app := &cli.Command{
		Name:      "validate",
		Usage:     "Validate flying chess map, library and option text files",
		ArgsUsage: "[files...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Value: "../data",
				Usage: "Directory scanned when no files are given",
			},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
