package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/shapeguard"
	"github.com/aretw0/shapeguard/internal/presentation/tui"
	"github.com/aretw0/shapeguard/pkg/schema"
)

// StdinPath selects standard input as the document source.
const StdinPath = "-"

// CheckOptions contains the configuration for the check command.
type CheckOptions struct {
	SchemaPath string // declaration file (YAML or JSON)
	SchemaName string // registered schema
	InputPath  string // document to check, "-" or empty for stdin
}

// LoadSchemaFile parses a schema declaration file. Files ending in .json are
// read as JSON, everything else as YAML.
func LoadSchemaFile(path string) (schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	var sch schema.Schema
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		sch, err = schema.ParseJSON(data)
	} else {
		sch, err = schema.ParseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sch, nil
}

// RunCheck validates one JSON document and reports the verdict.
// Undecodable documents are reported as invalid, not as errors.
func RunCheck(ctx context.Context, svc *Services, opts CheckOptions, stdin io.Reader) (tui.CheckReport, error) {
	if (opts.SchemaPath == "") == (opts.SchemaName == "") {
		return tui.CheckReport{}, errors.New("exactly one of --schema or --name is required")
	}

	source := opts.InputPath
	if source == "" {
		source = StdinPath
	}

	data, err := readInput(source, stdin)
	if err != nil {
		return tui.CheckReport{}, err
	}

	if opts.SchemaName != "" {
		sch, err := svc.Guard.Registry().Lookup(ctx, opts.SchemaName)
		if err != nil {
			return tui.CheckReport{}, err
		}
		invalid, err := svc.Guard.CheckJSON(ctx, opts.SchemaName, data)
		if err != nil {
			return tui.CheckReport{}, err
		}
		return tui.CheckReport{Source: source, Schema: sch.String(), Invalid: invalid}, nil
	}

	sch, err := LoadSchemaFile(opts.SchemaPath)
	if err != nil {
		return tui.CheckReport{}, err
	}

	report := tui.CheckReport{Source: source, Schema: sch.String(), Invalid: true}
	value, err := shapeguard.DecodeJSON(data)
	if err != nil {
		svc.Logger.Debug("Input is not a single JSON value", "source", source, "error", err)
		return report, nil
	}
	report.Invalid = svc.Guard.InvalidStructure(sch, value)
	return report, nil
}

// PrintReport writes the report to w, rendering markdown when fancy is set.
func PrintReport(w io.Writer, report tui.CheckReport, fancy bool) error {
	if !fancy {
		_, err := fmt.Fprintln(w, report.Plain())
		return err
	}

	out, err := tui.NewRenderer()(report.Markdown())
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}

func readInput(source string, stdin io.Reader) ([]byte, error) {
	if source == StdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}
