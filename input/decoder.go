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

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
)

// A Decoder turns raw terminal bytes into input sequences.
//
// The reader is expected to behave like a terminal in raw mode with a
// read timeout: a read that returns no bytes (with or without io.EOF)
// means nothing was typed during the timeout.
type Decoder struct {
	r   io.Reader
	one [1]byte
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// read returns the number of bytes read (0 or 1).
func (d *Decoder) read() (int, error) {
	n, err := d.r.Read(d.one[:])
	if n > 0 {
		return n, nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("read terminal: %w", err)
	}
	return 0, nil
}

// ReadByte reads one byte, waiting at most for the terminal timeout.
// A timed-out read returns 0.
func (d *Decoder) ReadByte() (byte, error) {
	n, err := d.read()
	if err != nil || n == 0 {
		return 0, err
	}
	return d.one[0], nil
}

// readBlocking waits until a byte arrives. It is only used inside an
// escape sequence, which the terminal always finishes.
func (d *Decoder) readBlocking() (byte, error) {
	for {
		n, err := d.read()
		if err != nil {
			return 0, err
		}
		if n > 0 {
			return d.one[0], nil
		}
	}
}

// Decode interprets b, reading the rest of an escape sequence if b starts one.
//
// A lone ESC cannot be reported: the byte after it is always read, and if
// it is not '[' it is decoded on its own.
func (d *Decoder) Decode(b byte) (Seq, error) {
	switch {
	case b == 0x1b:
		next, err := d.readBlocking()
		if err != nil {
			return Unidentified, err
		}
		if next != '[' {
			return d.Decode(next)
		}

		var args []byte
		var cmd byte
		for cmd == 0 {
			c, err := d.readBlocking()
			if err != nil {
				return Unidentified, err
			}
			switch c {
			case 'R', 'A', 'B', 'C', 'D':
				cmd = c
			default:
				args = append(args, c)
			}
		}

		switch cmd {
		case 'R':
			// cursor position report, e.g. \x1b[24;80R
			return parseCursorReport(args), nil
		case 'A':
			return SpecialKey(Up), nil
		case 'B':
			return SpecialKey(Down), nil
		case 'C':
			return SpecialKey(Right), nil
		case 'D':
			return SpecialKey(Left), nil
		default:
			return Unidentified, nil
		}
	case b >= 0x20 && b <= 0x7f:
		return Key(b, false), nil
	case b >= 0x01 && b <= 0x1f:
		// Ctrl masks a letter down to its low five bits; restore the lowercase letter.
		return Key(b|0b1100000, true), nil
	default:
		// TODO: decode UTF-8 lead bytes (0x80-0xff) into a rune key.
		return Unidentified, nil
	}
}

func parseCursorReport(args []byte) Seq {
	fields := bytes.Split(args, []byte{';'})
	if len(fields) < 2 {
		return Unidentified
	}
	row, err := strconv.ParseUint(string(fields[0]), 10, 0)
	if err != nil {
		return Unidentified
	}
	col, err := strconv.ParseUint(string(fields[1]), 10, 0)
	if err != nil {
		return Unidentified
	}
	return CursorReport(int(row), int(col))
}

// Next reads and decodes one input sequence. It never reports the end of
// input: a tick without input gives Unidentified.
func (d *Decoder) Next() (Seq, error) {
	b, err := d.ReadByte()
	if err != nil {
		return Unidentified, err
	}
	return d.Decode(b)
}

// Events returns an endless sequence of decoded input. Callers stop
// ranging over it when they decide to quit.
func (d *Decoder) Events() iter.Seq2[Seq, error] {
	return func(yield func(Seq, error) bool) {
		for {
			seq, err := d.Next()
			if !yield(seq, err) {
				return
			}
		}
	}
}
