//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package editor

import (
	"regexp"
	"unicode"
)

// A Highlight classifies one rendered column.
type Highlight uint8

const (
	HighlightNormal Highlight = iota
	HighlightNumber
	HighlightString
	HighlightComment
	HighlightKeyword
	HighlightPunct
	HighlightMatch
)

// Sequence returns the SGR escape sequence that selects the highlight's colors.
func (h Highlight) Sequence() string {
	switch h {
	case HighlightNumber:
		return "\x1b[0;31m"
	case HighlightString:
		return "\x1b[0;32m"
	case HighlightComment:
		return "\x1b[0;90m"
	case HighlightKeyword:
		return "\x1b[0;33m"
	case HighlightPunct:
		return "\x1b[0;36m"
	case HighlightMatch:
		return "\x1b[0;30;43m"
	default:
		return "\x1b[m"
	}
}

type matchSpan struct {
	row   int
	start int
	end   int
	saved []Highlight // classes the match replaced
}

// Highlighting holds the highlight class of every rendered column of every row.
type Highlighting struct {
	mode        string
	enabled     bool
	lines       [][]Highlight
	needsUpdate bool
	matched     *matchSpan
	syntax      *GoHighlighter
}

func NewHighlighting(mode string, enabled bool) *Highlighting {
	h := &Highlighting{enabled: enabled, needsUpdate: true}
	h.SetMode(mode)
	return h
}

func (h *Highlighting) SetMode(mode string) {
	h.mode = mode
	h.syntax = nil
	if h.enabled && mode == "go" {
		h.syntax = NewGoHighlighter()
	}
	h.needsUpdate = true
}

func (h *Highlighting) SetNeedsUpdate() {
	h.needsUpdate = true
}

func (h *Highlighting) NeedsUpdate() bool {
	return h.needsUpdate
}

// Line returns the classes of row y, or nil if it has not been classified.
func (h *Highlighting) Line(y int) []Highlight {
	if y < 0 || y >= len(h.lines) {
		return nil
	}
	return h.lines[y]
}

// Update reclassifies every row if anything has changed since the last update.
func (h *Highlighting) Update(rows []*Row) {
	if !h.needsUpdate {
		return
	}
	h.lines = make([][]Highlight, len(rows))
	for y, row := range rows {
		line := make([]Highlight, row.Columns())
		if h.syntax != nil {
			h.syntax.Highlight(row.Render(), line)
		}
		h.lines[y] = line
	}
	if h.matched != nil {
		h.applyMatch()
	}
	h.needsUpdate = false
}

// SetMatch marks rendered columns [start, end) of row as a search match.
func (h *Highlighting) SetMatch(row, start, end int) {
	h.matched = &matchSpan{row: row, start: start, end: end}
	h.applyMatch()
}

// ClearPreviousMatch removes the match, returning the row it was on.
func (h *Highlighting) ClearPreviousMatch() (int, bool) {
	m := h.matched
	if m == nil {
		return 0, false
	}
	h.matched = nil
	if m.saved != nil && m.row < len(h.lines) && m.start < len(h.lines[m.row]) {
		copy(h.lines[m.row][m.start:], m.saved)
	}
	return m.row, true
}

func (h *Highlighting) applyMatch() {
	m := h.matched
	m.saved = nil
	if m.row >= len(h.lines) {
		return
	}
	line := h.lines[m.row]
	end := m.end
	if end > len(line) {
		end = len(line)
	}
	if m.start < 0 || m.start >= end {
		return
	}
	m.saved = append([]Highlight(nil), line[m.start:end]...)
	for x := m.start; x < end; x++ {
		line[x] = HighlightMatch
	}
}

// The GoHighlighter highlights Go code.
type GoHighlighter struct {
	punctuationPattern  *regexp.Regexp
	commentPattern      *regexp.Regexp
	quotedStringPattern *regexp.Regexp
	keywordPattern      *regexp.Regexp
	numberPattern       *regexp.Regexp
}

func NewGoHighlighter() *GoHighlighter {
	h := &GoHighlighter{}
	h.punctuationPattern = regexp.MustCompile(`\(|\)|,|:|=|\[|\]|\{|\}|\+|-|\*|<|>|;`)
	h.commentPattern = regexp.MustCompile(`//.*$`)
	h.quotedStringPattern = regexp.MustCompile(`"[^"]*"`)
	h.keywordPattern = regexp.MustCompile(`break|default|func|interface|select|case|defer|go|map|struct|chan|else|goto|package|switch|const|fallthrough|if|range|type|continue|for|import|return|var`)
	h.keywordPattern.Longest()
	h.numberPattern = regexp.MustCompile(`([0-9]+(\.[0-9]*)?)|(([0-9]*\.)?[0-9]+)`)
	return h
}

// Highlight classifies the rendered text of one row into colors, one per column.
func (h *GoHighlighter) Highlight(render string, colors []Highlight) {
	columns := columnsOf(render)
	fill := func(start, end int, class Highlight) {
		for k := columns[start]; k < columns[end] && k < len(colors); k++ {
			colors[k] = class
		}
	}

	for _, match := range h.keywordPattern.FindAllStringIndex(render, -1) {
		// if there's an alphanumeric character on either side, skip this
		if !checkalphanum(render, match[0], match[1]) {
			fill(match[0], match[1], HighlightKeyword)
		}
	}
	for _, match := range h.numberPattern.FindAllStringIndex(render, -1) {
		if !checkalphanum(render, match[0], match[1]) {
			fill(match[0], match[1], HighlightNumber)
		}
	}
	for _, match := range h.punctuationPattern.FindAllStringIndex(render, -1) {
		fill(match[0], match[1], HighlightPunct)
	}
	for _, match := range h.quotedStringPattern.FindAllStringIndex(render, -1) {
		fill(match[0], match[1], HighlightString)
	}
	for _, match := range h.commentPattern.FindAllStringIndex(render, -1) {
		fill(match[0], match[1], HighlightComment)
	}
}

// columnsOf maps each byte offset of render to the column where its character starts.
func columnsOf(render string) []int {
	columns := make([]int, len(render)+1)
	col := 0
	for i, c := range render {
		columns[i] = col
		for j := i + 1; j < len(render) && j < i+len(string(c)); j++ {
			columns[j] = col
		}
		col += CharWidth(c)
	}
	columns[len(render)] = col
	return columns
}

func checkalphanum(line string, start, end int) bool {
	if start > 0 {
		c := rune(line[start-1])
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			return true
		}
	}
	if end < len(line) {
		c := rune(line[end])
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			return true
		}
	}
	return false
}
