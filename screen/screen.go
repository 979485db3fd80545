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
package screen

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/timburks/kilo/editor"
	"github.com/timburks/kilo/input"
	kilo "github.com/timburks/kilo/types"
)

const Version = "0.1.0"

// The status bar and the message bar sit below the text rows.
const barRows = 2

// probeTicks bounds how many reads wait for a cursor position report.
const probeTicks = 30

var defaultSize = kilo.Size{Rows: 24, Cols: 80}

// The Screen draws the state of a TextBuffer on a VT100 terminal.
type Screen struct {
	out  io.Writer
	size kilo.Size // terminal size

	rowoff int // first visible row
	coloff int // first visible rendered column
	rx     int // cursor column in the rendered row

	// what was on the terminal after the last repaint
	paintedRowoff int
	paintedColoff int
	fullRepaint   bool

	dirtyStart int // lowest row to repaint, -1 if none

	message        string
	messageKind    int
	messageTime    time.Time
	messageTimeout time.Duration
	prompt         string // replaces the message while a prompt is open
	paintedMessage string

	welcome bool
	now     func() time.Time
}

func NewScreen(out io.Writer, size kilo.Size) *Screen {
	return &Screen{
		out:            out,
		size:           size,
		fullRepaint:    true,
		dirtyStart:     -1,
		messageTimeout: 5 * time.Second,
		welcome:        true,
		now:            time.Now,
	}
}

func (s *Screen) SetMessageTimeout(d time.Duration) {
	s.messageTimeout = d
}

func (s *Screen) SetWelcome(welcome bool) {
	s.welcome = welcome
}

func (s *Screen) GetSize() kilo.Size {
	return s.size
}

// TextRows is the number of rows available for text.
func (s *Screen) TextRows() int {
	if s.size.Rows-barRows < 1 {
		return 1
	}
	return s.size.Rows - barRows
}

// Resize records a new terminal size and repaints everything on the next render.
func (s *Screen) Resize(size kilo.Size) {
	s.size = size
	s.fullRepaint = true
}

// EnsureSize finds the terminal size. It asks sizer first; if that fails it
// moves the cursor to the far corner and reads back the position the
// terminal reports through dec.
func (s *Screen) EnsureSize(sizer func() (rows, cols int, err error), dec *input.Decoder) error {
	if sizer != nil {
		rows, cols, err := sizer()
		if err == nil && rows > 0 && cols > 0 {
			s.Resize(kilo.Size{Rows: rows, Cols: cols})
			return nil
		}
		if err != nil {
			log.Printf("get terminal size: %v", err)
		}
	}
	if _, err := io.WriteString(s.out, "\x1b[9999C\x1b[9999B\x1b[6n"); err != nil {
		return fmt.Errorf("write terminal: %w", err)
	}
	for i := 0; i < probeTicks; i++ {
		seq, err := dec.Next()
		if err != nil {
			return err
		}
		if seq.Kind == input.KindCursor {
			s.Resize(kilo.Size{Rows: seq.Row, Cols: seq.Col})
			return nil
		}
	}
	log.Printf("no cursor position report, assuming %dx%d", defaultSize.Cols, defaultSize.Rows)
	s.Resize(defaultSize)
	return nil
}

func (s *Screen) GetOffset() kilo.Size {
	return kilo.Size{Rows: s.rowoff, Cols: s.coloff}
}

func (s *Screen) SetOffset(offset kilo.Size) {
	s.rowoff = offset.Rows
	s.coloff = offset.Cols
}

// SetDirtyStart asks for every row from row down to be repainted.
func (s *Screen) SetDirtyStart(row int) {
	if row < 0 {
		return
	}
	if s.dirtyStart < 0 || row < s.dirtyStart {
		s.dirtyStart = row
	}
}

func (s *Screen) SetInfoMessage(message string) {
	s.setMessage(message, kilo.MessageInfo)
}

func (s *Screen) SetErrorMessage(message string) {
	s.setMessage(message, kilo.MessageError)
}

func (s *Screen) setMessage(message string, kind int) {
	s.message = message
	s.messageKind = kind
	s.messageTime = s.now()
}

// Message returns the message being shown, if it has not timed out.
func (s *Screen) Message() (string, int) {
	if s.message == "" || s.now().Sub(s.messageTime) > s.messageTimeout {
		return "", kilo.MessageInfo
	}
	return s.message, s.messageKind
}

func (s *Screen) SetPrompt(prompt string) {
	s.prompt = prompt
}

func (s *Screen) ClearPrompt() {
	s.prompt = ""
}

// Scroll moves the offsets so that the cursor is visible.
func (s *Screen) Scroll(buf *editor.TextBuffer) {
	s.rx = 0
	if buf.Cy() < buf.RowCount() {
		s.rx = buf.Rows()[buf.Cy()].RxFromCx(buf.Cx())
	}
	textRows := s.TextRows()
	if buf.Cy() < s.rowoff {
		s.rowoff = buf.Cy()
	}
	if buf.Cy() >= s.rowoff+textRows {
		s.rowoff = buf.Cy() - textRows + 1
	}
	if s.rx < s.coloff {
		s.coloff = s.rx
	}
	if s.rx >= s.coloff+s.size.Cols {
		s.coloff = s.rx - s.size.Cols + 1
	}
}

// Render repaints the rows that changed since the last call, then the
// status and message bars, and puts the cursor in place.
func (s *Screen) Render(buf *editor.TextBuffer, hl *editor.Highlighting) error {
	hl.Update(buf.Rows())
	s.Scroll(buf)
	if start, ok := buf.DirtyStart(); ok {
		s.SetDirtyStart(start)
		buf.ClearDirtyStart()
	}
	if s.rowoff != s.paintedRowoff || s.coloff != s.paintedColoff {
		s.fullRepaint = true
	}

	var b bytes.Buffer
	b.WriteString("\x1b[?25l")
	b.WriteString("\x1b[H")
	s.drawRows(&b, buf, hl)
	s.drawStatusBar(&b, buf)
	s.drawMessageBar(&b)
	fmt.Fprintf(&b, "\x1b[%d;%dH", buf.Cy()-s.rowoff+1, s.rx-s.coloff+1)
	b.WriteString("\x1b[?25h")

	if _, err := s.out.Write(b.Bytes()); err != nil {
		return fmt.Errorf("write terminal: %w", err)
	}
	s.paintedRowoff = s.rowoff
	s.paintedColoff = s.coloff
	s.fullRepaint = false
	s.dirtyStart = -1
	return nil
}

// NeedsRender reports whether the terminal is out of date without any
// change to the buffer, as after a resize or when a message expires.
func (s *Screen) NeedsRender() bool {
	if s.fullRepaint {
		return true
	}
	text, _ := s.messageBarText()
	return text != s.paintedMessage
}

func (s *Screen) needsRepaint(buf *editor.TextBuffer, filerow int) bool {
	if s.fullRepaint {
		return true
	}
	if s.dirtyStart >= 0 && filerow >= s.dirtyStart {
		return true
	}
	return filerow < buf.RowCount() && buf.Rows()[filerow].IsDirty()
}

func (s *Screen) drawRows(b *bytes.Buffer, buf *editor.TextBuffer, hl *editor.Highlighting) {
	rows := buf.Rows()
	textRows := s.TextRows()
	for y := 0; y < textRows; y++ {
		filerow := y + s.rowoff
		if !s.needsRepaint(buf, filerow) {
			continue
		}
		fmt.Fprintf(b, "\x1b[%d;1H", y+1)
		if filerow < len(rows) {
			s.drawRow(b, rows[filerow], hl.Line(filerow))
			rows[filerow].ClearDirty()
		} else if s.welcome && len(rows) == 0 && y == textRows/3 {
			s.drawWelcome(b)
		} else {
			b.WriteByte('~')
		}
		b.WriteString("\x1b[K")
	}
}

// drawRow writes the visible columns of row, switching colors where the
// highlight class changes. A wide character cut by either edge becomes a space.
func (s *Screen) drawRow(b *bytes.Buffer, row *editor.Row, colors []editor.Highlight) {
	current := editor.HighlightNormal
	col := 0
	for _, c := range row.Render() {
		if c < 0x20 || c == 0x7f {
			// zero width, and never sent raw to the terminal
			continue
		}
		w := editor.CharWidth(c)
		start := col
		col += w
		if col <= s.coloff {
			continue
		}
		if col > s.coloff+s.size.Cols {
			if start < s.coloff+s.size.Cols {
				b.WriteByte(' ')
			}
			break
		}
		class := editor.HighlightNormal
		if start < len(colors) {
			class = colors[start]
		}
		if class != current {
			b.WriteString(class.Sequence())
			current = class
		}
		if start < s.coloff {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(c)
	}
	if current != editor.HighlightNormal {
		b.WriteString(editor.HighlightNormal.Sequence())
	}
}

func (s *Screen) drawWelcome(b *bytes.Buffer) {
	message := truncate(fmt.Sprintf("Kilo editor -- version %s", Version), s.size.Cols)
	padding := (s.size.Cols - displayWidth(message)) / 2
	if padding > 0 {
		b.WriteByte('~')
		padding--
	}
	for ; padding > 0; padding-- {
		b.WriteByte(' ')
	}
	b.WriteString(message)
}

// Clear erases the terminal, for use when the editor exits.
func (s *Screen) Clear() error {
	if _, err := io.WriteString(s.out, "\x1b[2J\x1b[H"); err != nil {
		return fmt.Errorf("write terminal: %w", err)
	}
	return nil
}
