// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// FlagBinder is implemented by parameter groups that register their own
// flags. [Environment] is one: it adds --config and --env-file without
// carrying flag tags, since its fields are also filled from the
// environment.
type FlagBinder interface {
	AddFlags(flagSet *pflag.FlagSet)
}

// FlagsFromParams returns a flag set named after the command with one
// flag per tagged field of params, which must point to a struct. A bad
// params type is a bug in the command, so it panics.
func FlagsFromParams(name string, params any) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if err := BindFlags(params, flagSet); err != nil {
		panic(fmt.Sprintf("cli.FlagsFromParams(%q): %v", name, err))
	}
	return flagSet
}

// BindFlags adds a flag to flagSet for every tagged field of params, a
// pointer to a struct. A field such as
//
//	File string `json:"-" flag:"file,f" desc:"JSONC file with the client fields"`
//
// becomes --file (shorthand -f). The optional default tag is parsed as
// the field's type; without it the flag defaults to the zero value.
// Fields may be string, bool, int, float64 or [time.Duration]. Embedded
// structs contribute their own tagged fields, and any struct field that
// implements [FlagBinder] binds itself.
func BindFlags(params any, flagSet *pflag.FlagSet) error {
	value := reflect.ValueOf(params)
	if value.Kind() != reflect.Pointer || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("params must be a pointer to a struct, got %T", params)
	}
	return bindStruct(value.Elem(), flagSet)
}

// flagSpec is one field's flag tags.
type flagSpec struct {
	name, shorthand string
	usage           string
	fallback        string
}

func bindStruct(structValue reflect.Value, flagSet *pflag.FlagSet) error {
	for _, field := range reflect.VisibleFields(structValue.Type()) {
		if len(field.Index) != 1 {
			// Promoted fields are reached through their embedded struct.
			continue
		}
		fieldValue := structValue.Field(field.Index[0])

		if field.Type.Kind() == reflect.Struct {
			if field.IsExported() && fieldValue.CanAddr() {
				if binder, ok := fieldValue.Addr().Interface().(FlagBinder); ok {
					binder.AddFlags(flagSet)
					continue
				}
			}
			if field.Anonymous {
				if err := bindStruct(fieldValue, flagSet); err != nil {
					return fmt.Errorf("embedded %s: %w", field.Name, err)
				}
				continue
			}
		}

		tag, tagged := field.Tag.Lookup("flag")
		if !tagged || tag == "" {
			continue
		}
		if !fieldValue.CanAddr() {
			return fmt.Errorf("field %s: not addressable", field.Name)
		}
		spec := flagSpec{usage: field.Tag.Get("desc"), fallback: field.Tag.Get("default")}
		spec.name, spec.shorthand, _ = strings.Cut(tag, ",")
		if err := spec.bind(fieldValue.Addr().Interface(), flagSet); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	return nil
}

func (spec flagSpec) bind(target any, flagSet *pflag.FlagSet) error {
	var err error
	switch target := target.(type) {
	case *string:
		flagSet.StringVarP(target, spec.name, spec.shorthand, spec.fallback, spec.usage)
	case *bool:
		var fallback bool
		if fallback, err = parseFallback(spec, strconv.ParseBool); err == nil {
			flagSet.BoolVarP(target, spec.name, spec.shorthand, fallback, spec.usage)
		}
	case *int:
		var fallback int
		if fallback, err = parseFallback(spec, strconv.Atoi); err == nil {
			flagSet.IntVarP(target, spec.name, spec.shorthand, fallback, spec.usage)
		}
	case *float64:
		var fallback float64
		parse := func(text string) (float64, error) { return strconv.ParseFloat(text, 64) }
		if fallback, err = parseFallback(spec, parse); err == nil {
			flagSet.Float64VarP(target, spec.name, spec.shorthand, fallback, spec.usage)
		}
	case *time.Duration:
		var fallback time.Duration
		if fallback, err = parseFallback(spec, time.ParseDuration); err == nil {
			flagSet.DurationVarP(target, spec.name, spec.shorthand, fallback, spec.usage)
		}
	default:
		return fmt.Errorf("unsupported type %T for flag --%s", target, spec.name)
	}
	return err
}

// parseFallback parses the default tag, or returns the zero value when
// there is none.
func parseFallback[T any](spec flagSpec, parse func(string) (T, error)) (T, error) {
	var zero T
	if spec.fallback == "" {
		return zero, nil
	}
	value, err := parse(spec.fallback)
	if err != nil {
		return zero, fmt.Errorf("default %q for --%s: %w", spec.fallback, spec.name, err)
	}
	return value, nil
}
