// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package notice implements the license notice check.
//
// The check decides, for a single source file, whether a license notice
// comment is required and present. It is deliberately minimal: any leading
// line or block comment counts as a notice, regardless of what it says.
// That trades precision for zero false negatives against header conventions
// the check didn't anticipate.
//
// The core entry point is [Check], a pure function over the rule
// configuration, the filename and a header-presence bit. Reading files,
// extracting comments and applying fixes is the caller's concern; see the
// engine package.
package notice

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.astrophena.name/noticelint/licenses"
)

// Sentinel errors returned by [Config.Validate].
var (
	// ErrConfigInvalid indicates that a required configuration field is empty.
	ErrConfigInvalid = errors.New("invalid configuration")
	// ErrUnsupportedLicense indicates that the configured license has no
	// notice template.
	ErrUnsupportedLicense = errors.New("unsupported license")
)

// Config is the rule configuration. The JSON field names match the option
// object shape accepted in configuration files.
type Config struct {
	License       string `json:"license"`
	CopyrightYear string `json:"copyRightYear"`
	CopyrightName string `json:"copyRightName"`
}

// Validate checks that all fields are populated and that the license has a
// notice template.
func (c Config) Validate() error {
	if c.License == "" || c.CopyrightYear == "" || c.CopyrightName == "" {
		return fmt.Errorf("%w: license, copyRightYear and copyRightName are required", ErrConfigInvalid)
	}
	if !licenses.IsSupported(c.License) {
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedLicense, c.License, strings.Join(licenses.Supported(), ", "))
	}
	return nil
}

// State is the terminal state of checking one file. No state persists across
// files.
type State int

const (
	// Skipped means no configuration was supplied, so the check could not run.
	Skipped State = iota
	// Errored means the configuration is invalid or names an unsupported
	// license.
	Errored
	// Inapplicable means the filename doesn't match the extensions this check
	// covers. Not an error, not a violation.
	Inapplicable
	// Compliant means the file has a leading comment.
	Compliant
	// Violated means the file needs a license notice and has none.
	Violated
)

// String returns a short lowercase name for the state.
func (s State) String() string {
	switch s {
	case Skipped:
		return "skipped"
	case Errored:
		return "errored"
	case Inapplicable:
		return "inapplicable"
	case Compliant:
		return "compliant"
	case Violated:
		return "violated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Diagnostic codes.
const (
	CodeConfigMissing      = "configMissing"
	CodeConfigInvalid      = "configInvalid"
	CodeUnsupportedLicense = "unsupportedLicense"
	CodeMissingNotice      = "missingLicenseNotice"
)

// Diagnostic describes a single reportable finding.
type Diagnostic struct {
	Code    string
	Message string
	// Config holds the validated configuration for missingLicenseNotice
	// diagnostics; a fix renders the notice template from it.
	Config Config
	// Fixable reports whether inserting a rendered notice resolves the
	// diagnostic. Configuration problems are never fixable.
	Fixable bool
}

// Outcome is the result of checking one file.
type Outcome struct {
	State State
	// Diag is set for Skipped, Errored and Violated outcomes and nil
	// otherwise.
	Diag *Diagnostic
}

// filePattern matches the extensions the check applies to: .js, .jsx, .ts
// and .tsx. Case-sensitive.
var filePattern = regexp.MustCompile(`\.[tj]sx?$`)

// Applies reports whether the check applies to the named file. Callers can
// use it to avoid reading files the check would ignore anyway.
func Applies(filename string) bool {
	return filePattern.MatchString(filename)
}

// Check runs the notice check.
//
// opts is the rule's options list; only the first element is consulted.
// headerPresent reports whether the file has at least one leading line or
// block comment.
func Check(opts []Config, filename string, headerPresent bool) Outcome {
	if len(opts) == 0 {
		return Outcome{State: Skipped, Diag: &Diagnostic{
			Code:    CodeConfigMissing,
			Message: "missing rule configuration",
		}}
	}
	cfg := opts[0]
	if err := cfg.Validate(); err != nil {
		code := CodeConfigInvalid
		if errors.Is(err, ErrUnsupportedLicense) {
			code = CodeUnsupportedLicense
		}
		return Outcome{State: Errored, Diag: &Diagnostic{
			Code:    code,
			Message: err.Error(),
		}}
	}
	if !Applies(filename) {
		return Outcome{State: Inapplicable}
	}
	if headerPresent {
		return Outcome{State: Compliant}
	}
	return Outcome{State: Violated, Diag: &Diagnostic{
		Code:    CodeMissingNotice,
		Message: fmt.Sprintf("missing %s license notice (© %s %s)", cfg.License, cfg.CopyrightYear, cfg.CopyrightName),
		Config:  cfg,
		Fixable: true,
	}}
}
