// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package engine_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.astrophena.name/base/testutil"
	"go.astrophena.name/base/txtar"

	"go.astrophena.name/noticelint/engine"
	"go.astrophena.name/noticelint/licenses"
	"go.astrophena.name/noticelint/notice"
)

var (
	cfg = notice.Config{
		License:       "Apache-2.0",
		CopyrightYear: "2024",
		CopyrightName: "Acme Corp",
	}
	opts = []notice.Config{cfg}
)

// memResolver serves a single in-memory template for every license.
func memResolver(template string) licenses.Resolver {
	return func(string) (string, error) { return template, nil }
}

func TestCheckSource(t *testing.T) {
	cases := map[string]struct {
		filename string
		src      string
		want     notice.State
	}{
		"line comment header":  {"a.ts", "// © Acme\ncode();\n", notice.Compliant},
		"block comment header": {"a.ts", "/* © Acme */\ncode();\n", notice.Compliant},
		"no header":            {"a.ts", "code();\n", notice.Violated},
		"empty file":           {"a.ts", "", notice.Violated},
		"hashbang is not a header": {
			"a.js", "#!/usr/bin/env node\ncode();\n", notice.Violated,
		},
		"non-matching extension": {"a.py", "code()\n", notice.Inapplicable},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			out := engine.CheckSource(opts, tc.filename, []byte(tc.src))
			testutil.AssertEqual(t, out.State, tc.want)
		})
	}
}

func TestCheckFile(t *testing.T) {
	t.Run("violating file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a.ts")
		if err := os.WriteFile(path, []byte("code();\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		out, err := engine.CheckFile(path, opts)
		testutil.AssertEqual(t, err, nil)
		testutil.AssertEqual(t, out.State, notice.Violated)
	})

	t.Run("inapplicable file is never opened", func(t *testing.T) {
		// The path doesn't exist; only the filename check runs.
		out, err := engine.CheckFile(filepath.Join(t.TempDir(), "missing.py"), opts)
		testutil.AssertEqual(t, err, nil)
		testutil.AssertEqual(t, out.State, notice.Inapplicable)
	})

	t.Run("unreadable file", func(t *testing.T) {
		_, err := engine.CheckFile(filepath.Join(t.TempDir(), "missing.ts"), opts)
		if err == nil {
			t.Fatal("want an error for an unreadable file")
		}
	})
}

func TestFix(t *testing.T) {
	t.Run("prepends rendered notice", func(t *testing.T) {
		got, err := engine.Fix([]byte("const x = 1;\n"), cfg, memResolver("/* {{copyRightYear}} {{copyRightName}} */\n"))
		testutil.AssertEqual(t, err, nil)
		testutil.AssertEqual(t, string(got), "/* 2024 Acme Corp */\nconst x = 1;\n")
	})

	t.Run("resolver failure propagates", func(t *testing.T) {
		errTemplate := errors.New("template gone")
		_, err := engine.Fix([]byte("x\n"), cfg, func(string) (string, error) {
			return "", errTemplate
		})
		if !errors.Is(err, errTemplate) {
			t.Fatalf("want wrapped %v, got %v", errTemplate, err)
		}
	})
}

// TestFixGolden applies the embedded Apache-2.0 template to the inputs in
// testdata and checks both the exact output and that a fixed file passes
// the check.
func TestFixGolden(t *testing.T) {
	testutil.Run(t, filepath.Join("testdata", "*.txtar"), func(t *testing.T, match string) {
		ar, err := txtar.ParseFile(match)
		if err != nil {
			t.Fatal(err)
		}

		var inName string
		var in, want []byte
		for _, f := range ar.Files {
			switch {
			case strings.HasPrefix(f.Name, "in."):
				inName, in = f.Name, f.Data
			case strings.HasPrefix(f.Name, "want."):
				want = f.Data
			}
		}

		got, err := engine.Fix(in, cfg, licenses.Embedded())
		testutil.AssertEqual(t, err, nil)
		testutil.AssertEqual(t, string(got), string(want))

		out := engine.CheckSource(opts, inName, got)
		testutil.AssertEqual(t, out.State, notice.Compliant)
	})
}

func TestWalker(t *testing.T) {
	write := func(t *testing.T, dir, name, content string) string {
		t.Helper()
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	setup := func(t *testing.T) string {
		dir := t.TempDir()
		write(t, dir, "a.ts", "export {};\n")
		write(t, dir, "b.ts", "// © 2024 Acme Corp\nexport {};\n")
		write(t, dir, "c.py", "pass\n")
		write(t, dir, "sub/d.jsx", "render();\n")
		write(t, dir, "node_modules/dep.ts", "module();\n")
		write(t, dir, "skip/e.ts", "export {};\n")
		return dir
	}

	states := func(rs []engine.Result) map[string]notice.State {
		m := make(map[string]notice.State)
		for _, r := range rs {
			if r.Err != nil {
				continue
			}
			m[r.Path] = r.Outcome.State
		}
		return m
	}

	t.Run("report", func(t *testing.T) {
		dir := setup(t)
		w := &engine.Walker{Opts: opts, Exclude: []string{"skip/**"}}
		rs, err := w.Walk(context.Background(), dir)
		testutil.AssertEqual(t, err, nil)

		testutil.AssertEqual(t, states(rs), map[string]notice.State{
			filepath.Join(dir, "a.ts"):         notice.Violated,
			filepath.Join(dir, "b.ts"):         notice.Compliant,
			filepath.Join(dir, "sub", "d.jsx"): notice.Violated,
		})

		// Results come back sorted by path.
		for i := 1; i < len(rs); i++ {
			if rs[i-1].Path > rs[i].Path {
				t.Fatalf("results are not sorted: %q before %q", rs[i-1].Path, rs[i].Path)
			}
		}
	})

	t.Run("fix", func(t *testing.T) {
		dir := setup(t)
		w := &engine.Walker{Opts: opts, Fix: true, Exclude: []string{"skip/**"}}
		rs, err := w.Walk(context.Background(), dir)
		testutil.AssertEqual(t, err, nil)

		var fixed int
		for _, r := range rs {
			testutil.AssertEqual(t, r.Err, nil)
			if r.Fixed {
				fixed++
			}
		}
		testutil.AssertEqual(t, fixed, 2)

		got, err := os.ReadFile(filepath.Join(dir, "a.ts"))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(string(got), "/**\n * Copyright 2024 Acme Corp") {
			t.Fatalf("fixed file starts with %q", string(got[:40]))
		}

		// Fixing is idempotent: a second walk finds nothing to do.
		rs, err = w.Walk(context.Background(), dir)
		testutil.AssertEqual(t, err, nil)
		for _, r := range rs {
			testutil.AssertEqual(t, r.Err, nil)
			testutil.AssertEqual(t, r.Fixed, false)
			testutil.AssertEqual(t, r.Outcome.State, notice.Compliant)
		}
	})

	t.Run("file root", func(t *testing.T) {
		dir := setup(t)
		w := &engine.Walker{Opts: opts}
		rs, err := w.Walk(context.Background(), filepath.Join(dir, "a.ts"))
		testutil.AssertEqual(t, err, nil)
		testutil.AssertEqual(t, len(rs), 1)
		testutil.AssertEqual(t, rs[0].Outcome.State, notice.Violated)
	})

	t.Run("missing root", func(t *testing.T) {
		w := &engine.Walker{Opts: opts}
		if _, err := w.Walk(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
			t.Fatal("want an error for a missing root")
		}
	})
}
