// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Noticelint checks that JavaScript and TypeScript source files start with a
license notice comment.

It walks the given paths (the current directory by default) and reports
every .js, .jsx, .ts or .tsx file that has no leading comment. With the
-fix flag it inserts a rendered notice template at the top of each
violating file instead.

The notice is rendered from a per-license template in which
{{copyRightYear}} and {{copyRightName}} are substituted with the configured
values. A template for the Apache-2.0 license ships with the tool; the
-templates flag points at a directory of <license>-license.js.txt files
that take precedence.

Configuration comes from flags, or from a txtar archive (.noticelint.txtar
by default) in which the following files are recognized:

  - config.json: an object with the keys license, copyRightYear and
    copyRightName.
  - exclusions.json: a JSON array of glob patterns for paths to skip,
    relative to the walked root.
  - <license>-license.js.txt: a notice template overriding the shipped one
    for that license.

Flags take precedence over the archive.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/base/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
