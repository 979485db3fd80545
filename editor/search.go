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
	"strings"
	"unicode/utf8"

	"github.com/timburks/kilo/input"
	kilo "github.com/timburks/kilo/types"
)

type findDir int

const (
	findForward findDir = iota
	findBack
)

type findState struct {
	lastMatch int // row of the last match, -1 if none
	dir       findDir
}

func defaultFindState() findState {
	return findState{lastMatch: -1, dir: findForward}
}

// A TextSearch runs an incremental search while the search prompt is open.
// It remembers the cursor and scroll position from when the prompt
// opened so that canceling puts everything back.
type TextSearch struct {
	screen      kilo.Screen
	buf         *TextBuffer
	hl          kilo.Highlighter
	state       findState
	savedCx     int
	savedCy     int
	savedOffset kilo.Size
}

func NewTextSearch(screen kilo.Screen, buf *TextBuffer, hl kilo.Highlighter) *TextSearch {
	return &TextSearch{
		screen:      screen,
		buf:         buf,
		hl:          hl,
		state:       defaultFindState(),
		savedCx:     buf.Cx(),
		savedCy:     buf.Cy(),
		savedOffset: screen.GetOffset(),
	}
}

// LastMatch returns the row of the most recent match.
func (s *TextSearch) LastMatch() (int, bool) {
	return s.state.lastMatch, s.state.lastMatch >= 0
}

// OnKey runs one search step for the query as it stands after seq was typed.
// end is set when the prompt closes; an empty query at that point means
// the search was canceled.
func (s *TextSearch) OnKey(query string, seq input.Seq, end bool) {
	if s.state.lastMatch >= 0 {
		if row, ok := s.hl.ClearPreviousMatch(); ok {
			s.hl.SetNeedsUpdate()
			s.screen.SetDirtyStart(row)
		}
	}

	if end {
		s.onEnd(query == "")
		return
	}

	switch {
	case seq.IsSpecial(input.Right), seq.IsSpecial(input.Down), seq.IsCtrl('f'), seq.IsCtrl('n'):
		s.state.dir = findForward
	case seq.IsSpecial(input.Left), seq.IsSpecial(input.Up), seq.IsCtrl('b'), seq.IsCtrl('p'):
		s.state.dir = findBack
	default:
		s.state = defaultFindState()
	}

	rows := s.buf.Rows()
	rowCount := len(rows)
	if rowCount == 0 {
		return
	}
	dir := s.state.dir
	y := s.buf.Cy()
	if s.state.lastMatch >= 0 {
		// continue from the line after the last match
		y = nextLine(s.state.lastMatch, dir, rowCount)
	}

	for i := 0; i < rowCount; i++ {
		row := rows[y]
		if byteIdx := strings.Index(row.Buffer(), query); byteIdx >= 0 {
			cx := row.CharIdxOf(byteIdx)
			s.buf.SetCursor(cx, y)

			row = s.buf.Rows()[y]
			rx := row.RxFromCx(s.buf.Cx())
			rxEnd := row.RxFromCx(s.buf.Cx() + utf8.RuneCountInString(query))
			// an out-of-range offset makes the screen scroll back to the match
			offset := s.screen.GetOffset()
			offset.Rows = rowCount
			s.screen.SetOffset(offset)
			s.state.lastMatch = y
			s.hl.SetMatch(y, rx, rxEnd)
			s.hl.SetNeedsUpdate()
			s.screen.SetDirtyStart(y)
			break
		}
		y = nextLine(y, dir, rowCount)
	}
}

// nextLine wraps around at the top and bottom of the buffer.
func nextLine(y int, dir findDir, rowCount int) int {
	switch {
	case dir == findForward && y == rowCount-1:
		return 0
	case dir == findForward:
		return y + 1
	case y == 0:
		return rowCount - 1
	default:
		return y - 1
	}
}

func (s *TextSearch) onEnd(canceled bool) {
	switch {
	case canceled:
		s.buf.SetCursor(s.savedCx, s.savedCy)
		s.screen.SetOffset(s.savedOffset)
		// the cursor and highlights moved around, so redraw everything
		s.screen.SetDirtyStart(s.savedOffset.Rows)
	case s.state.lastMatch >= 0:
		s.screen.SetInfoMessage("Found")
	default:
		s.screen.SetErrorMessage("Not Found")
	}
}
