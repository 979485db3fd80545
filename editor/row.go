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
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	kilo "github.com/timburks/kilo/types"
)

// Ambiguous-width characters take two cells, as they do in CJK terminals.
var widths = newWidthCondition()

func newWidthCondition() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = true
	return c
}

// CharWidth returns the number of terminal cells used to display c.
func CharWidth(c rune) int {
	return widths.RuneWidth(c)
}

// A row of text in the editor
type Row struct {
	buf    string
	render string
	// set when the row changes, cleared by the screen once it is painted
	dirty bool
	// byte offsets of each character in buf; empty when every character is one byte
	indices []int
}

func NewRow(text string) *Row {
	r := &Row{buf: text}
	r.updateRender()
	return r
}

// Len returns the number of characters in the row.
func (r *Row) Len() int {
	if len(r.indices) == 0 {
		return len(r.buf)
	}
	return len(r.indices)
}

func (r *Row) Buffer() string {
	return r.buf
}

func (r *Row) Render() string {
	return r.render
}

func (r *Row) IsDirty() bool {
	return r.dirty
}

func (r *Row) ClearDirty() {
	r.dirty = false
}

// byteIdxOf maps a character index to a byte offset in buf.
// Len() maps to the end of buf.
func (r *Row) byteIdxOf(charIdx int) int {
	n := len(r.indices)
	if n == 0 {
		return charIdx
	}
	if charIdx == n {
		return len(r.buf)
	}
	return r.indices[charIdx]
}

// CharIdxOf maps a byte offset at a character boundary to a character index.
func (r *Row) CharIdxOf(byteIdx int) int {
	if len(r.indices) == 0 {
		return byteIdx
	}
	return sort.SearchInts(r.indices, byteIdx)
}

// CharAt returns the character at index at. It panics if at is out of range.
func (r *Row) CharAt(at int) rune {
	c, ok := r.CharAtChecked(at)
	if !ok {
		panic(fmt.Sprintf("character index %d out of range for row of length %d", at, r.Len()))
	}
	return c
}

func (r *Row) CharAtChecked(at int) (rune, bool) {
	if at < 0 || at >= r.Len() {
		return 0, false
	}
	c, _ := utf8.DecodeRuneInString(r.From(at))
	return c, true
}

// Slice returns the characters in [start, end).
func (r *Row) Slice(start, end int) string {
	return r.buf[r.byteIdxOf(start):r.byteIdxOf(end)]
}

// SliceInclusive returns the characters in [start, end].
func (r *Row) SliceInclusive(start, end int) string {
	return r.Slice(start, end+1)
}

// From returns the characters from start to the end of the row.
func (r *Row) From(start int) string {
	return r.buf[r.byteIdxOf(start):]
}

// To returns the characters before end.
func (r *Row) To(end int) string {
	return r.buf[:r.byteIdxOf(end)]
}

// ToInclusive returns the characters up to and including end.
func (r *Row) ToInclusive(end int) string {
	return r.To(end + 1)
}

// updateRender rebuilds the rendered text and the index cache after every change.
func (r *Row) updateRender() {
	var render strings.Builder
	render.Grow(len(r.buf))
	rx := 0
	chars := 0
	for _, c := range r.buf {
		if c == '\t' {
			for {
				render.WriteByte(' ')
				rx++
				if rx%kilo.TabStop == 0 {
					break
				}
			}
		} else {
			render.WriteRune(c)
			rx += CharWidth(c)
		}
		chars++
	}
	r.render = render.String()

	if chars == len(r.buf) {
		r.indices = nil
	} else {
		r.indices = make([]int, 0, chars)
		for i := range r.buf {
			r.indices = append(r.indices, i)
		}
	}
	r.dirty = true
}

// RxFromCx returns the rendered column of the character at cx.
func (r *Row) RxFromCx(cx int) int {
	rx := 0
	for _, c := range r.To(cx) {
		rx = advance(rx, c)
	}
	return rx
}

// CxFromRx returns the index of the character displayed at rendered column rx.
func (r *Row) CxFromRx(rx int) int {
	current := 0
	cx := 0
	for _, c := range r.buf {
		current = advance(current, c)
		if current > rx {
			return cx
		}
		cx++
	}
	return r.Len()
}

func advance(rx int, c rune) int {
	if c == '\t' {
		return rx + kilo.TabStop - rx%kilo.TabStop
	}
	return rx + CharWidth(c)
}

// Columns returns the rendered width of the row.
func (r *Row) Columns() int {
	return r.RxFromCx(r.Len())
}

func (r *Row) InsertChar(at int, c rune) {
	if r.Len() <= at {
		r.buf += string(c)
	} else {
		i := r.byteIdxOf(at)
		r.buf = r.buf[:i] + string(c) + r.buf[i:]
	}
	r.updateRender()
}

func (r *Row) InsertStr(at int, s string) {
	if r.Len() <= at {
		r.buf += s
	} else {
		i := r.byteIdxOf(at)
		r.buf = r.buf[:i] + s + r.buf[i:]
	}
	r.updateRender()
}

func (r *Row) DeleteChar(at int) {
	if at < 0 || at >= r.Len() {
		return
	}
	i := r.byteIdxOf(at)
	_, size := utf8.DecodeRuneInString(r.buf[i:])
	r.buf = r.buf[:i] + r.buf[i+size:]
	r.updateRender()
}

// Append adds s to the end of the row. Appending nothing leaves the row untouched.
func (r *Row) Append(s string) {
	if s == "" {
		return
	}
	r.buf += s
	r.updateRender()
}

// Truncate drops every character from at onward.
func (r *Row) Truncate(at int) {
	if at < 0 || at >= r.Len() {
		return
	}
	r.buf = r.buf[:r.byteIdxOf(at)]
	r.updateRender()
}

// Remove deletes the characters in [start, end). end is clamped to the row length.
func (r *Row) Remove(start, end int) {
	if end > r.Len() {
		end = r.Len()
	}
	if start < 0 || start >= end {
		return
	}
	r.buf = r.buf[:r.byteIdxOf(start)] + r.buf[r.byteIdxOf(end):]
	r.updateRender()
}
