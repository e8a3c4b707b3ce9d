// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{{Name: "clients"}, {Name: "contracts"}, {Name: "payments"}}
	tests := map[string]string{
		"contarcts": "contracts",
		"client":    "clients",
		"paymnets":  "payments",
		"reports":   "",
	}
	for input, want := range tests {
		if got := suggestCommand(input, commands); got != want {
			t.Errorf("suggestCommand(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	flagSet := pflag.NewFlagSet("add", pflag.ContinueOnError)
	flagSet.StringP("file", "f", "", "")
	flagSet.Float64("amount", 0, "")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--ammount=5"}, "--amount"},
		{[]string{"-f", "x.jsonc", "--fiel"}, "--file"},
		{[]string{"--", "--ammount"}, ""},
		{[]string{"--zzzzzzzz"}, ""},
	}
	for _, test := range tests {
		if got := suggestFlag(test.args, flagSet); got != test.want {
			t.Errorf("suggestFlag(%q) = %q, want %q", test.args, got, test.want)
		}
	}
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"agent", "agnet", 2},
		{"émile", "emile", 1},
	}
	for _, test := range tests {
		if got := editDistance(test.a, test.b); got != test.want {
			t.Errorf("editDistance(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}
