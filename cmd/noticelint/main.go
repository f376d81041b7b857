// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"

	"go.astrophena.name/base/cli"
	"go.astrophena.name/base/logger"
	"go.astrophena.name/base/txtar"

	"go.astrophena.name/noticelint/engine"
	"go.astrophena.name/noticelint/licenses"
	"go.astrophena.name/noticelint/notice"
)

func main() { cli.Main(new(app)) }

type app struct {
	license   string
	year      string
	name      string
	fix       bool
	templates string
	config    string
	exclude   string
	verbose   bool
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.StringVar(&a.license, "license", "", "License `identifier` of the notice to require. Defaults to Apache-2.0.")
	fs.StringVar(&a.year, "year", "", "Copyright `year` substituted into the notice. Defaults to the current year.")
	fs.StringVar(&a.name, "name", "", "Copyright holder `name` substituted into the notice.")
	fs.BoolVar(&a.fix, "fix", false, "Insert the rendered notice into violating files instead of reporting them.")
	fs.StringVar(&a.templates, "templates", "", "Read notice templates from `dir` instead of the shipped ones.")
	fs.StringVar(&a.config, "config", ".noticelint.txtar", "Read configuration from the txtar archive at `path`.")
	fs.StringVar(&a.exclude, "exclude", "", "Comma-separated glob `patterns` for paths to skip.")
	fs.BoolVar(&a.verbose, "verbose", false, "Log the state of every checked file.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	ctx = logger.Put(ctx, a.newLogger(env))

	cfg, exclude, overrides, err := a.loadConfig()
	if err != nil {
		return err
	}
	// Configuration problems are terminal for the whole run; no fix is ever
	// offered for them.
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", cli.ErrInvalidArgs, err)
	}

	roots := env.Args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	w := &engine.Walker{
		Opts:     []notice.Config{cfg},
		Resolver: a.newResolver(overrides),
		Fix:      a.fix,
		Exclude:  exclude,
	}
	results, err := w.Walk(ctx, roots...)
	if err != nil {
		return err
	}

	var violations, failures int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failures++
			env.Logf("%s: %v", r.Path, r.Err)
		case r.Fixed:
			fmt.Fprintf(env.Stdout, "%s: added %s license notice\n", r.Path, cfg.License)
		case r.Outcome.State == notice.Violated:
			violations++
			fmt.Fprintf(env.Stdout, "%s: %s\n", r.Path, r.Outcome.Diag.Message)
		}
	}

	if failures > 0 {
		return fmt.Errorf("failed to check %d files", failures)
	}
	if violations > 0 {
		return fmt.Errorf("%d files are missing a license notice", violations)
	}
	return nil
}

func (a *app) newLogger(env *cli.Env) *logger.Logger {
	l := logger.New(nil)
	if a.verbose {
		l.Level.Set(slog.LevelDebug)
	}
	noColor := true
	if f, ok := env.Stderr.(*os.File); ok {
		noColor = !term.IsTerminal(int(f.Fd()))
	}
	l.Attach(tint.NewHandler(env.Stderr, &tint.Options{
		Level:      l.Level,
		NoColor:    noColor,
		TimeFormat: time.Kitchen,
	}))
	return l
}

// loadConfig merges the txtar configuration archive with flags. Flags win.
func (a *app) loadConfig() (cfg notice.Config, exclude []string, overrides map[string]string, err error) {
	ar, err := txtar.ParseFile(a.config)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, nil, nil, err
	}
	if ar != nil {
		overrides = make(map[string]string)
		for _, f := range ar.Files {
			switch {
			case f.Name == "config.json":
				if err := json.Unmarshal(f.Data, &cfg); err != nil {
					return cfg, nil, nil, fmt.Errorf("%s: config.json: %w", a.config, err)
				}
			case f.Name == "exclusions.json":
				if err := json.Unmarshal(f.Data, &exclude); err != nil {
					return cfg, nil, nil, fmt.Errorf("%s: exclusions.json: %w", a.config, err)
				}
			case strings.HasSuffix(f.Name, "-license.js.txt"):
				overrides[strings.TrimSuffix(f.Name, "-license.js.txt")] = string(f.Data)
			}
		}
	}

	if a.license != "" {
		cfg.License = a.license
	}
	if a.year != "" {
		cfg.CopyrightYear = a.year
	}
	if a.name != "" {
		cfg.CopyrightName = a.name
	}
	if a.exclude != "" {
		for _, pat := range strings.Split(a.exclude, ",") {
			if pat = strings.TrimSpace(pat); pat != "" {
				exclude = append(exclude, pat)
			}
		}
	}

	if cfg.License == "" {
		cfg.License = "Apache-2.0"
	}
	if cfg.CopyrightYear == "" {
		cfg.CopyrightYear = strconv.Itoa(time.Now().Year())
	}

	return cfg, exclude, overrides, nil
}

// newResolver builds the template resolution chain: archive overrides, then
// the -templates directory, then the templates shipped with the tool.
func (a *app) newResolver(overrides map[string]string) licenses.Resolver {
	r := licenses.Embedded()
	if a.templates != "" {
		r = fallback(licenses.Dir(a.templates), r)
	}
	if len(overrides) > 0 {
		mem := func(license string) (string, error) {
			t, ok := overrides[license]
			if !ok {
				return "", fmt.Errorf("no notice template for license %q", license)
			}
			return t, nil
		}
		r = fallback(mem, r)
	}
	return r
}

func fallback(primary, secondary licenses.Resolver) licenses.Resolver {
	return func(license string) (string, error) {
		t, err := primary(license)
		if err != nil {
			return secondary(license)
		}
		return t, nil
	}
}
