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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode"

	kilo "github.com/timburks/kilo/types"
)

// A TextBuffer holds the rows of the file being edited and the cursor.
type TextBuffer struct {
	rows     []*Row
	cx       int // cursor column, in characters
	cy       int // cursor row
	fileName string
	mode     string
	modified bool
	// lowest row whose position changed since the last repaint, -1 if none
	dirtyStart int
}

func NewTextBuffer() *TextBuffer {
	return &TextBuffer{mode: "text", dirtyStart: -1}
}

func (b *TextBuffer) Rows() []*Row {
	return b.rows
}

func (b *TextBuffer) RowCount() int {
	return len(b.rows)
}

func (b *TextBuffer) Cx() int {
	return b.cx
}

func (b *TextBuffer) Cy() int {
	return b.cy
}

func (b *TextBuffer) GetCursor() kilo.Point {
	return kilo.Point{Row: b.cy, Col: b.cx}
}

func (b *TextBuffer) SetCursor(cx, cy int) {
	b.cx = cx
	b.cy = cy
}

func (b *TextBuffer) GetFileName() string {
	return b.fileName
}

func (b *TextBuffer) SetFileName(name string) {
	b.fileName = name
	if strings.HasSuffix(name, ".go") {
		b.mode = "go"
	} else {
		b.mode = "text"
	}
}

func (b *TextBuffer) GetMode() string {
	return b.mode
}

func (b *TextBuffer) Modified() bool {
	return b.modified
}

// DirtyStart returns the first row that must be repainted because rows moved.
func (b *TextBuffer) DirtyStart() (int, bool) {
	return b.dirtyStart, b.dirtyStart >= 0
}

func (b *TextBuffer) ClearDirtyStart() {
	b.dirtyStart = -1
}

func (b *TextBuffer) setDirtyStart(row int) {
	if b.dirtyStart < 0 || row < b.dirtyStart {
		b.dirtyStart = row
	}
}

func (b *TextBuffer) LoadBytes(bytes []byte) {
	s := strings.ToValidUTF8(string(bytes), "\uFFFD")
	b.rows = make([]*Row, 0)
	if s != "" {
		lines := strings.Split(s, "\n")
		if lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		for _, line := range lines {
			b.rows = append(b.rows, NewRow(strings.TrimSuffix(line, "\r")))
		}
	}
	b.cx, b.cy = 0, 0
	b.modified = false
	b.setDirtyStart(0)
}

func (b *TextBuffer) Bytes() []byte {
	var s strings.Builder
	for _, row := range b.rows {
		s.WriteString(row.Buffer())
		s.WriteByte('\n')
	}
	return []byte(s.String())
}

// ReadFile loads path into the buffer. A file that does not exist yet
// gives an empty buffer that will be saved under that name.
func (b *TextBuffer) ReadFile(path string) error {
	bytes, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		bytes = nil
	} else if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	b.LoadBytes(bytes)
	b.SetFileName(path)
	return nil
}

func (b *TextBuffer) WriteFile(path string) (int, error) {
	bytes := b.Bytes()
	if err := os.WriteFile(path, bytes, 0644); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	if b.fileName != path {
		b.SetFileName(path)
	}
	b.modified = false
	return len(bytes), nil
}

func (b *TextBuffer) MoveCursor(direction int) {
	switch direction {
	case kilo.MoveUp:
		if b.cy > 0 {
			b.cy--
		}
	case kilo.MoveDown:
		if b.cy+1 < len(b.rows) {
			b.cy++
		}
	case kilo.MoveLeft:
		if b.cx > 0 {
			b.cx--
		} else if b.cy > 0 {
			// wrap to the end of the previous line
			b.cy--
			b.cx = b.rows[b.cy].Len()
		}
	case kilo.MoveRight:
		if b.cy < len(b.rows) {
			if b.cx < b.rows[b.cy].Len() {
				b.cx++
			} else if b.cy+1 < len(b.rows) {
				b.cy++
				b.cx = 0
			}
		}
	}
	b.keepCursorInRow()
}

func (b *TextBuffer) MoveToBeginningOfLine() {
	b.cx = 0
}

func (b *TextBuffer) MoveToEndOfLine() {
	if b.cy < len(b.rows) {
		b.cx = b.rows[b.cy].Len()
	}
}

// GotoLine moves the cursor to the start of a 1-based line, clamped to the buffer.
func (b *TextBuffer) GotoLine(line int) {
	b.cy = clipToRange(line-1, 0, len(b.rows)-1)
	b.cx = 0
}

func (b *TextBuffer) keepCursorInRow() {
	if len(b.rows) == 0 {
		b.cx, b.cy = 0, 0
		return
	}
	b.cy = clipToRange(b.cy, 0, len(b.rows)-1)
	b.cx = clipToRange(b.cx, 0, b.rows[b.cy].Len())
}

// These editing primitives keep the cursor on a valid position and mark what they touch.

func (b *TextBuffer) InsertChar(c rune) {
	if len(b.rows) == 0 {
		b.rows = append(b.rows, NewRow(""))
		b.setDirtyStart(0)
	}
	b.rows[b.cy].InsertChar(b.cx, c)
	b.cx++
	b.modified = true
}

// InsertStr inserts text at the cursor; newlines split rows.
func (b *TextBuffer) InsertStr(text string) {
	for _, c := range text {
		switch c {
		case '\n':
			b.InsertLine()
		case '\r':
		default:
			b.InsertChar(c)
		}
	}
}

// InsertLine splits the current row at the cursor.
func (b *TextBuffer) InsertLine() {
	if len(b.rows) == 0 {
		b.rows = append(b.rows, NewRow(""))
	}
	row := b.rows[b.cy]
	newRow := NewRow(row.From(b.cx))
	row.Truncate(b.cx)
	i := b.cy + 1
	b.rows = append(b.rows, nil)
	copy(b.rows[i+1:], b.rows[i:])
	b.rows[i] = newRow
	b.setDirtyStart(b.cy)
	b.cy++
	b.cx = 0
	b.modified = true
}

// DeleteChar deletes the character before the cursor, joining rows at the start of a line.
func (b *TextBuffer) DeleteChar() {
	if len(b.rows) == 0 {
		return
	}
	if b.cx > 0 {
		b.rows[b.cy].DeleteChar(b.cx - 1)
		b.cx--
		b.modified = true
	} else if b.cy > 0 {
		prev := b.rows[b.cy-1]
		b.cx = prev.Len()
		prev.Append(b.rows[b.cy].Buffer())
		b.deleteRow(b.cy)
		b.cy--
		b.modified = true
	}
}

// DeleteRightChar deletes the character under the cursor, joining the next row at the end of a line.
func (b *TextBuffer) DeleteRightChar() {
	if len(b.rows) == 0 {
		return
	}
	row := b.rows[b.cy]
	if b.cx < row.Len() {
		row.DeleteChar(b.cx)
		b.modified = true
	} else if b.cy+1 < len(b.rows) {
		row.Append(b.rows[b.cy+1].Buffer())
		b.deleteRow(b.cy + 1)
		b.modified = true
	}
}

func (b *TextBuffer) DeleteUntilEndOfLine() {
	if len(b.rows) == 0 {
		return
	}
	row := b.rows[b.cy]
	if b.cx < row.Len() {
		row.Truncate(b.cx)
		b.modified = true
	} else {
		b.DeleteRightChar()
	}
}

func (b *TextBuffer) DeleteUntilHeadOfLine() {
	if len(b.rows) == 0 {
		return
	}
	if b.cx == 0 {
		b.DeleteChar()
		return
	}
	b.rows[b.cy].Remove(0, b.cx)
	b.cx = 0
	b.modified = true
}

// DeleteWord deletes backwards from the cursor to the start of the previous word.
func (b *TextBuffer) DeleteWord() {
	if len(b.rows) == 0 {
		return
	}
	if b.cx == 0 {
		b.DeleteChar()
		return
	}
	row := b.rows[b.cy]
	x := b.cx
	for x > 0 && unicode.IsSpace(row.CharAt(x-1)) {
		x--
	}
	for x > 0 && !unicode.IsSpace(row.CharAt(x-1)) {
		x--
	}
	row.Remove(x, b.cx)
	b.cx = x
	b.modified = true
}

func (b *TextBuffer) deleteRow(i int) {
	b.rows = append(b.rows[0:i], b.rows[i+1:]...)
	b.setDirtyStart(i)
}

func clipToRange(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
