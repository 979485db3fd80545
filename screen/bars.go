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
	"strings"

	"github.com/rivo/uniseg"
	"github.com/timburks/kilo/editor"
	kilo "github.com/timburks/kilo/types"
)

func (s *Screen) drawStatusBar(b *bytes.Buffer, buf *editor.TextBuffer) {
	name := buf.GetFileName()
	if name == "" {
		name = "[No Name]"
	}
	left := fmt.Sprintf("%s - %d lines", truncate(name, 20), buf.RowCount())
	if buf.Modified() {
		left += " (modified)"
	}
	right := fmt.Sprintf("%s | %d/%d", buf.GetMode(), buf.Cy()+1, buf.RowCount())

	fmt.Fprintf(b, "\x1b[%d;1H", s.TextRows()+1)
	b.WriteString("\x1b[7m")
	left = truncate(left, s.size.Cols)
	used := displayWidth(left)
	b.WriteString(left)
	if gap := s.size.Cols - used - displayWidth(right); gap > 0 {
		b.WriteString(strings.Repeat(" ", gap))
		b.WriteString(right)
	} else if used < s.size.Cols {
		b.WriteString(strings.Repeat(" ", s.size.Cols-used))
	}
	b.WriteString("\x1b[m")
}

func (s *Screen) drawMessageBar(b *bytes.Buffer) {
	fmt.Fprintf(b, "\x1b[%d;1H", s.TextRows()+2)
	text, kind := s.messageBarText()
	if text != "" {
		if kind == kilo.MessageError {
			b.WriteString("\x1b[91m")
		}
		b.WriteString(truncate(text, s.size.Cols))
		if kind == kilo.MessageError {
			b.WriteString("\x1b[m")
		}
	}
	b.WriteString("\x1b[K")
	s.paintedMessage = text
}

// messageBarText is the open prompt, or else the current message.
func (s *Screen) messageBarText() (string, int) {
	if s.prompt != "" {
		return s.prompt, kilo.MessageInfo
	}
	return s.Message()
}

// truncate cuts text to at most width cells without splitting a grapheme cluster.
func truncate(text string, width int) string {
	if displayWidth(text) <= width {
		return text
	}
	g := uniseg.NewGraphemes(text)
	var sb strings.Builder
	used := 0
	for g.Next() {
		w := uniseg.StringWidth(g.Str())
		if used+w > width {
			break
		}
		sb.WriteString(g.Str())
		used += w
	}
	return sb.String()
}

func displayWidth(text string) int {
	return uniseg.StringWidth(text)
}
