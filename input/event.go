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
package input

import "fmt"

// Kind distinguishes the variants of a decoded input sequence.
type Kind int

const (
	KindUnidentified Kind = iota
	KindSpecial
	KindKey
	KindCursor
)

// Special keys reported through escape sequences
type Special int

const (
	Up Special = iota
	Down
	Left
	Right
)

func (k Special) String() string {
	switch k {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return fmt.Sprintf("Special(%d)", int(k))
	}
}

// A Seq is one decoded input event.
//
// The zero value is an unidentified sequence, which means there was
// nothing to act on during this tick.
type Seq struct {
	Kind    Kind
	Special Special // KindSpecial
	Code    byte    // KindKey
	Ctrl    bool    // KindKey
	Row     int     // KindCursor
	Col     int     // KindCursor
}

// Unidentified is returned for timed-out reads and sequences the decoder does not know.
var Unidentified = Seq{}

func Key(code byte, ctrl bool) Seq {
	return Seq{Kind: KindKey, Code: code, Ctrl: ctrl}
}

func SpecialKey(k Special) Seq {
	return Seq{Kind: KindSpecial, Special: k}
}

// CursorReport is the terminal's reply to a cursor position request.
func CursorReport(row, col int) Seq {
	return Seq{Kind: KindCursor, Row: row, Col: col}
}

// IsKey reports whether s is the given key.
func (s Seq) IsKey(code byte, ctrl bool) bool {
	return s.Kind == KindKey && s.Code == code && s.Ctrl == ctrl
}

// IsCtrl reports whether s is the given letter pressed with Ctrl.
func (s Seq) IsCtrl(letter byte) bool {
	return s.IsKey(letter, true)
}

func (s Seq) IsSpecial(k Special) bool {
	return s.Kind == KindSpecial && s.Special == k
}

// IsPrintable reports whether s is a plain key that inserts a character.
func (s Seq) IsPrintable() bool {
	return s.Kind == KindKey && !s.Ctrl && s.Code >= 0x20 && s.Code < 0x7f
}

// IsBackspace reports whether s deletes backwards: DEL or Ctrl-H.
func (s Seq) IsBackspace() bool {
	return s.IsKey(0x7f, false) || s.IsCtrl('h')
}

func (s Seq) String() string {
	switch s.Kind {
	case KindSpecial:
		return s.Special.String()
	case KindKey:
		if s.Ctrl {
			return fmt.Sprintf("Ctrl-%c", s.Code)
		}
		return fmt.Sprintf("Key(%q)", rune(s.Code))
	case KindCursor:
		return fmt.Sprintf("Cursor(%d, %d)", s.Row, s.Col)
	default:
		return "Unidentified"
	}
}
