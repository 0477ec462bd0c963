package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trovehq/trove/internal/app"
	"github.com/trovehq/trove/internal/command"
)

// withApp opens the runtime, runs fn, and closes the runtime afterward.
func withApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(cmd.Context()) }()
	return fn(a)
}

// parseFields turns repeated k=v flag values into a field map. Values that
// parse as JSON (numbers, booleans, arrays) keep their typed form; anything
// else stays a string.
func parseFields(pairs []string) (map[string]any, error) {
	fields := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q, want key=value", pair)
		}
		fields[key] = parseValue(raw)
	}
	return fields, nil
}

func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	switch v.(type) {
	case float64, bool, []any:
		return v
	default:
		return raw
	}
}

// resultErr maps a failed command result to the CLI error.
func resultErr(res command.Result) error {
	if res.Success {
		return nil
	}
	return res.Err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
