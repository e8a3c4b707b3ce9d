// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/alecthomas/chroma/v2/quick"
	json "github.com/goccy/go-json"
	"github.com/jmespath/go-jmespath"
	"golang.org/x/term"
)

// JSONOutput is an embeddable struct that adds --json and --query output
// support to a command's parameter struct.
//
// Usage:
//
//	type listParams struct {
//	    cli.Environment
//	    cli.JSONOutput
//	}
//
//	// In Run:
//	if done, err := params.EmitJSON(clients); done {
//	    return err
//	}
//	// ... text formatting ...
type JSONOutput struct {
	OutputJSON bool   `json:"-" flag:"json" desc:"output as JSON"`
	Query      string `json:"-" flag:"query" desc:"JMESPath expression applied to the JSON output (implies --json)"`
}

// EmitJSON writes result as indented JSON to stdout if --json or --query
// is set. Returns (true, nil) on success, (true, err) on failure, or
// (false, nil) when neither flag is set and the caller should proceed
// with text formatting.
//
// Nil slices are normalized to empty slices before serialization, so
// the output is [] rather than null.
func (j *JSONOutput) EmitJSON(result any) (bool, error) {
	if !j.OutputJSON && j.Query == "" {
		return false, nil
	}
	result = normalizeNilSlice(result)
	if j.Query != "" {
		selected, err := applyQuery(j.Query, result)
		if err != nil {
			return true, err
		}
		result = selected
	}
	return true, WriteJSON(result)
}

// applyQuery evaluates a JMESPath expression against the JSON form of
// value. The round trip through JSON makes struct field names match
// what the user sees in --json output.
func applyQuery(expression string, value any) (any, error) {
	compiled, err := jmespath.Compile(expression)
	if err != nil {
		return nil, Validation("invalid --query %q: %w", expression, err)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, Internal("encoding result: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, Internal("decoding result: %w", err)
	}
	selected, err := compiled.Search(generic)
	if err != nil {
		return nil, Validation("evaluating --query %q: %w", expression, err)
	}
	return selected, nil
}

// WriteJSON marshals value as indented JSON and writes it to [Stdout],
// highlighted when Stdout is a terminal.
func WriteJSON(value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return Internal("encoding JSON: %w", err)
	}
	data = append(data, '\n')
	return writeHighlighted(Stdout, data)
}

func writeHighlighted(w io.Writer, data []byte) error {
	if !isTerminal(w) {
		_, err := w.Write(data)
		return err
	}
	var buffer bytes.Buffer
	if err := quick.Highlight(&buffer, string(data), "json", "terminal256", "monokai"); err != nil {
		_, err := w.Write(data)
		return err
	}
	_, err := buffer.WriteTo(w)
	return err
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// normalizeNilSlice returns an empty slice of the same type if value
// is a nil slice, so that JSON serialization produces [] instead of
// null. Returns value unchanged for all other types.
func normalizeNilSlice(value any) any {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Slice && v.IsNil() {
		return reflect.MakeSlice(v.Type(), 0, 0).Interface()
	}
	return value
}

// Printf writes formatted text to [Stdout].
func Printf(format string, args ...any) {
	fmt.Fprintf(Stdout, format, args...)
}
