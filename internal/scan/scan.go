// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package scan extracts the leading comments of a JavaScript or TypeScript
// source file.
//
// It is a lexical scan of the head of the file, not a parser: it recognizes
// an optional byte order mark, an optional hashbang line, and a run of line
// and block comments separated by whitespace, stopping at the first byte of
// anything else.
package scan

import "bytes"

// Kind classifies a leading comment.
type Kind int

const (
	// Line is a // comment.
	Line Kind = iota
	// Block is a /* */ comment.
	Block
	// Hashbang is a #! line at the very start of the file. It is not a
	// line or block comment.
	Hashbang
)

// String returns a short lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case Line:
		return "line"
	case Block:
		return "block"
	case Hashbang:
		return "hashbang"
	}
	return "unknown"
}

// Comment is a single leading comment.
type Comment struct {
	Kind Kind
	// Text is the comment text without delimiters.
	Text string
	// Pos and End are byte offsets of the comment in the source, including
	// delimiters.
	Pos, End int
}

// Result holds the leading comments of a file.
type Result struct {
	Comments []Comment
	// ProgStart is the byte offset of the first token that is not a leading
	// comment. Text inserted at this offset lands immediately before the
	// program, after any hashbang line.
	ProgStart int
}

var bom = []byte{0xef, 0xbb, 0xbf}

// File scans the head of src.
func File(src []byte) Result {
	var res Result
	i := 0

	if bytes.HasPrefix(src, bom) {
		i = len(bom)
	}

	if bytes.HasPrefix(src[i:], []byte("#!")) {
		end := lineEnd(src, i)
		res.Comments = append(res.Comments, Comment{
			Kind: Hashbang,
			Text: string(src[i+2 : end]),
			Pos:  i,
			End:  end,
		})
		i = end
	}

	for {
		i = skipSpace(src, i)
		if i >= len(src) {
			break
		}
		switch {
		case bytes.HasPrefix(src[i:], []byte("//")):
			end := lineEnd(src, i)
			res.Comments = append(res.Comments, Comment{
				Kind: Line,
				Text: string(src[i+2 : end]),
				Pos:  i,
				End:  end,
			})
			i = end
		case bytes.HasPrefix(src[i:], []byte("/*")):
			// An unterminated block comment runs to the end of the file.
			end := len(src)
			text := src[i+2:]
			if n := bytes.Index(src[i+2:], []byte("*/")); n >= 0 {
				end = i + 2 + n + 2
				text = src[i+2 : end-2]
			}
			res.Comments = append(res.Comments, Comment{
				Kind: Block,
				Text: string(text),
				Pos:  i,
				End:  end,
			})
			i = end
		default:
			res.ProgStart = i
			return res
		}
	}

	res.ProgStart = i
	return res
}

func lineEnd(src []byte, i int) int {
	if n := bytes.IndexByte(src[i:], '\n'); n >= 0 {
		end := i + n
		if end > i && src[end-1] == '\r' {
			end--
		}
		return end
	}
	return len(src)
}

func skipSpace(src []byte, i int) int {
	for i < len(src) {
		switch src[i] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			i++
		default:
			return i
		}
	}
	return i
}
