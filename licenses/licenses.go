// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package licenses holds the notice templates for supported licenses.
//
// One template ships per supported license, named <license>-license.js.txt
// and compiled into the binary. A template is plain text containing the
// placeholder tokens {{copyRightYear}} and {{copyRightName}}.
package licenses

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go4org/hashtriemap"

	"go.astrophena.name/base/unwrap"
)

// suffix is the filename convention for template resources.
const suffix = "-license.js.txt"

//go:embed *-license.js.txt
var builtin embed.FS

var (
	// templates maps a license identifier to its notice template text. The
	// map is read concurrently by the walker, never written after init.
	templates hashtriemap.HashTrieMap[string, string]
	supported []string
)

func init() {
	for _, e := range unwrap.Value(builtin.ReadDir(".")) {
		id := strings.TrimSuffix(e.Name(), suffix)
		templates.Store(id, string(unwrap.Value(builtin.ReadFile(e.Name()))))
		supported = append(supported, id)
	}
	slices.Sort(supported)
}

// IsSupported reports whether a notice template ships for the license.
func IsSupported(license string) bool {
	_, ok := templates.Load(license)
	return ok
}

// Supported returns the identifiers of all supported licenses, sorted.
func Supported() []string {
	return slices.Clone(supported)
}

// Resolver maps a license identifier to its notice template text.
//
// Resolution is injected so hosts can serve templates from wherever suits
// them (and tests can serve them from memory). A resolver is only invoked
// when a fix is actually rendered, never merely to detect a violation.
type Resolver func(license string) (string, error)

// Embedded returns a Resolver serving the templates compiled into the
// binary.
func Embedded() Resolver {
	return func(license string) (string, error) {
		t, ok := templates.Load(license)
		if !ok {
			return "", fmt.Errorf("no notice template for license %q", license)
		}
		return t, nil
	}
}

// Dir returns a Resolver that reads <license>-license.js.txt from dir.
//
// The file is read on every call, not cached, so template edits take effect
// immediately. Read failures propagate the underlying file-system error.
func Dir(dir string) Resolver {
	return func(license string) (string, error) {
		b, err := os.ReadFile(filepath.Join(dir, license+suffix))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// Render substitutes the copyright year and name placeholders in a notice
// template. The output is the verbatim template text with the two tokens
// substituted; no trimming or other normalization.
//
// Only the first occurrence of each placeholder is replaced. This is a
// documented contract: templates are expected to use each token once.
func Render(template, year, name string) string {
	s := strings.Replace(template, "{{copyRightYear}}", year, 1)
	return strings.Replace(s, "{{copyRightName}}", name, 1)
}
