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
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ticks is a terminal in raw mode: each chunk arrives one byte per read,
// and an empty chunk is a read that timed out. After the script ends
// every read times out.
type ticks struct {
	chunks []string
}

func script(chunks ...string) *ticks {
	return &ticks{chunks: chunks}
}

func (r *ticks) Read(p []byte) (int, error) {
	for len(r.chunks) > 0 {
		chunk := r.chunks[0]
		if chunk == "" {
			r.chunks = r.chunks[1:]
			return 0, io.EOF
		}
		p[0] = chunk[0]
		r.chunks[0] = chunk[1:]
		if r.chunks[0] == "" {
			r.chunks = r.chunks[1:]
		}
		return 1, nil
	}
	return 0, io.EOF
}

type failing struct{}

var errBroken = errors.New("broken pipe")

func (failing) Read(p []byte) (int, error) {
	return 0, errBroken
}

func TestDecodeBytes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Seq
	}{
		{"ctrl-a", "\x01", Key('a', true)},
		{"ctrl-q", "\x11", Key('q', true)},
		{"enter", "\r", Key('m', true)},
		{"tab", "\t", Key('i', true)},
		{"uppercase", "A", Key('A', false)},
		{"space", " ", Key(' ', false)},
		{"delete", "\x7f", Key(0x7f, false)},
		{"up", "\x1b[A", SpecialKey(Up)},
		{"down", "\x1b[B", SpecialKey(Down)},
		{"right", "\x1b[C", SpecialKey(Right)},
		{"left", "\x1b[D", SpecialKey(Left)},
		{"cursor report", "\x1b[24;80R", CursorReport(24, 80)},
		{"escape then key", "\x1bx", Key('x', false)},
		{"nul", "\x00", Unidentified},
		{"utf-8 lead byte", "\xe3", Unidentified},
		{"malformed cursor report", "\x1b[24R", Unidentified},
		{"non-numeric cursor report", "\x1b[a;bR", Unidentified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(script(tt.input))
			seq, err := d.Next()
			require.NoError(t, err)
			assert.Equal(t, tt.want, seq)
		})
	}
}

func TestTimeoutIsUnidentified(t *testing.T) {
	d := NewDecoder(script("", "a"))
	seq, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, Unidentified, seq)

	seq, err = d.Next()
	require.NoError(t, err)
	assert.Equal(t, Key('a', false), seq)

	b, err := d.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0), b)
}

func TestEscapeSequenceWaitsForItsEnd(t *testing.T) {
	// the rest of the sequence arrives after a few timed-out reads
	d := NewDecoder(script("\x1b", "", "[", "", "", "C"))
	seq, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, SpecialKey(Right), seq)
}

func TestReadError(t *testing.T) {
	d := NewDecoder(failing{})
	_, err := d.Next()
	assert.ErrorIs(t, err, errBroken)

	d = NewDecoder(io.MultiReader(script("\x1b["), failing{}))
	_, err = d.Next()
	assert.ErrorIs(t, err, errBroken, "errors inside an escape sequence are reported")
}

func TestEvents(t *testing.T) {
	d := NewDecoder(script("ab", "", "\x1b[A"))
	var got []Seq
	for seq, err := range d.Events() {
		require.NoError(t, err)
		got = append(got, seq)
		if len(got) == 4 {
			break
		}
	}
	assert.Equal(t, []Seq{Key('a', false), Key('b', false), Unidentified, SpecialKey(Up)}, got)
}

func TestSeqPredicates(t *testing.T) {
	assert.True(t, Key('h', true).IsBackspace())
	assert.True(t, Key(0x7f, false).IsBackspace())
	assert.False(t, Key('h', false).IsBackspace())

	assert.True(t, Key('x', false).IsPrintable())
	assert.False(t, Key('x', true).IsPrintable())
	assert.False(t, Key(0x7f, false).IsPrintable())
	assert.False(t, SpecialKey(Up).IsPrintable())

	assert.True(t, Key('g', true).IsCtrl('g'))
	assert.True(t, SpecialKey(Left).IsSpecial(Left))
	assert.False(t, Unidentified.IsSpecial(Up), "the zero value is not a special key")
}

func TestSeqString(t *testing.T) {
	assert.Equal(t, "Ctrl-q", Key('q', true).String())
	assert.Equal(t, "Key('A')", Key('A', false).String())
	assert.Equal(t, "Up", SpecialKey(Up).String())
	assert.Equal(t, "Cursor(24, 80)", CursorReport(24, 80).String())
	assert.Equal(t, "Unidentified", Unidentified.String())
}
