// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package engine runs the notice check over files on disk and applies
// fixes.
//
// It is the host side of the check: it reads files, extracts their leading
// comments, feeds the pure check in the notice package and, when asked,
// inserts the rendered notice into the source. Each file is processed
// independently; nothing persists between files.
package engine

import (
	"bytes"
	"fmt"
	"os"

	"go.astrophena.name/noticelint/internal/scan"
	"go.astrophena.name/noticelint/licenses"
	"go.astrophena.name/noticelint/notice"
)

// CheckSource runs the notice check on in-memory file contents.
func CheckSource(opts []notice.Config, filename string, src []byte) notice.Outcome {
	return notice.Check(opts, filename, hasNoticeHeader(src))
}

// CheckFile runs the notice check on a single file.
//
// Configuration and filename are checked before the file is read, so files
// the check doesn't apply to are never opened.
func CheckFile(path string, opts []notice.Config) (notice.Outcome, error) {
	if pre := notice.Check(opts, path, false); pre.State != notice.Violated {
		return pre, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return notice.Outcome{}, err
	}
	return CheckSource(opts, path, src), nil
}

// hasNoticeHeader reports whether src has at least one leading line or
// block comment. A hashbang doesn't count.
func hasNoticeHeader(src []byte) bool {
	for _, c := range scan.File(src).Comments {
		if c.Kind == scan.Line || c.Kind == scan.Block {
			return true
		}
	}
	return false
}

// Fix renders the notice for cfg and inserts it into src immediately before
// the first code token, after any hashbang line.
//
// The template is resolved only here, when a fix is actually rendered; a
// missing or unreadable template surfaces as a wrapped file-system error.
func Fix(src []byte, cfg notice.Config, resolve licenses.Resolver) ([]byte, error) {
	tmpl, err := resolve(cfg.License)
	if err != nil {
		return nil, fmt.Errorf("reading notice template: %w", err)
	}
	hdr := licenses.Render(tmpl, cfg.CopyrightYear, cfg.CopyrightName)
	at := scan.File(src).ProgStart

	var buf bytes.Buffer
	buf.Grow(len(src) + len(hdr))
	buf.Write(src[:at])
	buf.WriteString(hdr)
	buf.Write(src[at:])
	return buf.Bytes(), nil
}
