// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package engine

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"go.astrophena.name/base/logger"
	"go.astrophena.name/base/syncx"

	"go.astrophena.name/noticelint/licenses"
	"go.astrophena.name/noticelint/notice"
)

// Directories that never contain files worth checking.
var skipDirs = []string{".git", "node_modules"}

// Result is the outcome of checking one file.
type Result struct {
	Path    string
	Outcome notice.Outcome
	// Fixed reports that a notice was inserted and written back.
	Fixed bool
	// Err is set when the file couldn't be read, fixed or written. It
	// doesn't stop other files from being checked.
	Err error
}

// Walker checks every matching file under one or more root paths.
//
// Files are independent and stateless, so they are checked concurrently;
// results come back sorted by path.
type Walker struct {
	// Opts is the rule's options list, passed through to notice.Check.
	Opts []notice.Config
	// Resolver serves notice templates for fixes. Nil means the embedded
	// templates.
	Resolver licenses.Resolver
	// Fix inserts the rendered notice into violating files in place.
	Fix bool
	// Exclude holds doublestar glob patterns matched against paths relative
	// to the walked root, slash-separated.
	Exclude []string
	// Jobs bounds the number of files checked at once. Zero means
	// GOMAXPROCS.
	Jobs int
}

// Walk checks all matching files under roots. A root that is a file is
// checked directly; a root that is a directory is walked recursively.
//
// The returned error covers walking itself; per-file failures are reported
// in the corresponding [Result].
func (w *Walker) Walk(ctx context.Context, roots ...string) ([]Result, error) {
	jobs := w.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var (
		results = syncx.Protect(&[]Result{})
		wg      = syncx.NewLimitedWaitGroup(jobs)
	)
	collect := func(path string) {
		wg.Go(func() {
			r := w.checkOne(ctx, path)
			results.WriteAccess(func(rs *[]Result) {
				*rs = append(*rs, r)
			})
		})
	}

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			collect(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if d.IsDir() {
				if slices.Contains(skipDirs, d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !notice.Applies(path) || w.excluded(rel) {
				return nil
			}
			collect(path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	wg.Wait()

	var all []Result
	results.ReadAccess(func(rs *[]Result) {
		all = slices.Clone(*rs)
	})
	slices.SortFunc(all, func(a, b Result) int {
		return strings.Compare(a.Path, b.Path)
	})
	return all, nil
}

func (w *Walker) excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pat := range w.Exclude {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func (w *Walker) checkOne(ctx context.Context, path string) Result {
	r := Result{Path: path}

	// Configuration and filename checks don't need the file contents.
	if pre := notice.Check(w.Opts, path, false); pre.State != notice.Violated {
		r.Outcome = pre
		return r
	}

	src, err := os.ReadFile(path)
	if err != nil {
		r.Err = err
		return r
	}
	r.Outcome = CheckSource(w.Opts, path, src)

	if r.Outcome.State == notice.Violated && w.Fix {
		fixed, err := Fix(src, r.Outcome.Diag.Config, w.resolver())
		if err != nil {
			r.Err = err
			return r
		}
		if err := os.WriteFile(path, fixed, 0o644); err != nil {
			r.Err = err
			return r
		}
		r.Fixed = true
	}

	logger.Debug(ctx, "checked file",
		slog.String("path", path),
		slog.String("state", r.Outcome.State.String()),
	)
	return r
}

func (w *Walker) resolver() licenses.Resolver {
	if w.Resolver != nil {
		return w.Resolver
	}
	return licenses.Embedded()
}
