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
package commander

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timburks/kilo/config"
	"github.com/timburks/kilo/editor"
	"github.com/timburks/kilo/input"
	"github.com/timburks/kilo/screen"
	kilo "github.com/timburks/kilo/types"
)

var (
	enter  = input.Key('m', true)
	cancel = input.Key('g', true)
	quit   = input.Key('q', true)
)

type fixture struct {
	c   *Commander
	buf *editor.TextBuffer
	hl  *editor.Highlighting
	s   *screen.Screen
}

func setup(t *testing.T, text string, cfg *config.Config) *fixture {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	buf := editor.NewTextBuffer()
	buf.LoadBytes([]byte(text))
	hl := editor.NewHighlighting(buf.GetMode(), cfg.Highlight)
	s := screen.NewScreen(&bytes.Buffer{}, kilo.Size{Rows: 5, Cols: 40})
	return &fixture{c: NewCommander(buf, hl, s, cfg), buf: buf, hl: hl, s: s}
}

func (f *fixture) press(t *testing.T, seqs ...input.Seq) {
	t.Helper()
	for _, seq := range seqs {
		require.NoError(t, f.c.ProcessEvent(seq))
	}
}

func (f *fixture) typeText(t *testing.T, text string) {
	t.Helper()
	for i := 0; i < len(text); i++ {
		f.press(t, input.Key(text[i], false))
	}
}

func (f *fixture) message() string {
	message, _ := f.s.Message()
	return message
}

func (f *fixture) lines() []string {
	out := []string{}
	for _, row := range f.buf.Rows() {
		out = append(out, row.Buffer())
	}
	return out
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestTyping(t *testing.T) {
	f := setup(t, "", nil)
	f.typeText(t, "hello")
	f.press(t, enter)
	f.typeText(t, "worlx")
	f.press(t, input.Key(0x7f, false), input.Key('h', true))
	f.typeText(t, "ld")
	f.press(t, input.Key('i', true))

	assert.Equal(t, []string{"hello", "world\t"}, f.lines())
	assert.True(t, f.buf.Modified())
	assert.True(t, f.hl.NeedsUpdate())
	assert.Equal(t, kilo.ModeEdit, f.c.GetMode())
}

func TestUnidentifiedIsIgnored(t *testing.T) {
	f := setup(t, "abc\n", &config.Config{QuitTimes: 1, Debug: true})
	f.press(t, input.Unidentified, input.CursorReport(3, 4))
	assert.Empty(t, f.message())
	assert.Equal(t, kilo.Point{}, f.buf.GetCursor())
}

func TestDebugShowsEvents(t *testing.T) {
	f := setup(t, "abc\n", &config.Config{QuitTimes: 1, Debug: true})
	f.press(t, input.SpecialKey(input.Right))
	assert.Equal(t, "event=Right", f.message())
}

func TestMovement(t *testing.T) {
	f := setup(t, "abc\nde\nfghij\n", nil)
	f.press(t, input.SpecialKey(input.Right), input.Key('f', true))
	assert.Equal(t, kilo.Point{Row: 0, Col: 2}, f.buf.GetCursor())
	f.press(t, input.Key('n', true), input.SpecialKey(input.Down))
	assert.Equal(t, kilo.Point{Row: 2, Col: 2}, f.buf.GetCursor())
	f.press(t, input.Key('e', true))
	assert.Equal(t, 5, f.buf.Cx())
	f.press(t, input.Key('a', true), input.Key('b', true))
	assert.Equal(t, kilo.Point{Row: 1, Col: 2}, f.buf.GetCursor())
	f.press(t, input.Key('p', true), input.SpecialKey(input.Left))
	assert.Equal(t, kilo.Point{Row: 0, Col: 1}, f.buf.GetCursor())
	f.press(t, input.SpecialKey(input.Up))
	assert.Equal(t, 0, f.buf.Cy())
}

func TestPaging(t *testing.T) {
	f := setup(t, "0\n1\n2\n3\n4\n5\n6\n7\n8\n9\n", nil)
	// three text rows on a five-row terminal
	f.press(t, input.Key('v', true))
	assert.Equal(t, 5, f.buf.Cy())
	f.s.Scroll(f.buf)
	assert.Equal(t, 3, f.s.GetOffset().Rows)
	f.press(t, input.Key('v', true))
	assert.Equal(t, 8, f.buf.Cy())

	f.s.SetOffset(kilo.Size{Rows: 6})
	f.press(t, input.Key('y', true))
	assert.Equal(t, 3, f.buf.Cy())
}

func TestKillCommands(t *testing.T) {
	f := setup(t, "one two three\nnext\n", nil)
	f.buf.SetCursor(7, 0)
	f.press(t, input.Key('w', true))
	assert.Equal(t, []string{"one  three", "next"}, f.lines())
	f.press(t, input.Key('k', true))
	assert.Equal(t, []string{"one ", "next"}, f.lines())
	f.press(t, input.Key('k', true))
	assert.Equal(t, []string{"one next"}, f.lines())
	f.press(t, input.Key('u', true))
	assert.Equal(t, []string{"next"}, f.lines())
	f.press(t, input.Key('d', true))
	assert.Equal(t, []string{"ext"}, f.lines())
}

func TestQuit(t *testing.T) {
	f := setup(t, "abc\n", nil)
	f.press(t, quit)
	assert.False(t, f.c.IsRunning(), "an unmodified buffer quits at once")

	f = setup(t, "abc\n", nil)
	f.typeText(t, "x")
	f.press(t, quit)
	assert.True(t, f.c.IsRunning())
	assert.Contains(t, f.message(), "Press Ctrl-Q 1 more time(s)")

	// any other key starts the count over
	f.press(t, input.SpecialKey(input.Left), quit)
	assert.True(t, f.c.IsRunning())
	f.press(t, quit)
	assert.False(t, f.c.IsRunning())
	assert.Equal(t, kilo.ModeQuit, f.c.GetMode())
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	f := setup(t, "abc\n", nil)
	f.buf.SetFileName(path)
	f.typeText(t, "x")
	f.press(t, input.Key('s', true))

	assert.False(t, f.buf.Modified())
	assert.Equal(t, "5 bytes written to "+path, f.message())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "xabc\n", string(data))
}

func TestSaveAs(t *testing.T) {
	dir := t.TempDir()
	f := setup(t, "package main\n", nil)
	f.press(t, input.Key('s', true))
	assert.Equal(t, kilo.ModeSave, f.c.GetMode())

	path := filepath.Join(dir, "mainx.go")
	f.typeText(t, path)
	f.press(t, input.Key(0x7f, false), input.Key(0x7f, false), input.Key(0x7f, false), input.Key(0x7f, false))
	f.typeText(t, ".go")
	assert.Equal(t, filepath.Join(dir, "main.go"), f.c.GetPrompt())
	f.press(t, enter)

	assert.Equal(t, kilo.ModeEdit, f.c.GetMode())
	assert.Equal(t, filepath.Join(dir, "main.go"), f.buf.GetFileName())
	assert.Equal(t, "go", f.buf.GetMode())
	_, err := os.Stat(filepath.Join(dir, "main.go"))
	assert.NoError(t, err)
}

func TestSaveAsCanceled(t *testing.T) {
	f := setup(t, "abc\n", nil)
	f.press(t, input.Key('s', true))
	f.typeText(t, "name.txt")
	f.press(t, cancel)
	assert.Equal(t, kilo.ModeEdit, f.c.GetMode())
	assert.Equal(t, "Save aborted", f.message())
	assert.Empty(t, f.buf.GetFileName())
}

func TestSaveError(t *testing.T) {
	f := setup(t, "abc\n", nil)
	f.buf.SetFileName(filepath.Join(t.TempDir(), "missing", "file.txt"))
	f.press(t, input.Key('s', true))
	assert.Contains(t, f.message(), "Can't save!")
}

func TestSearch(t *testing.T) {
	f := setup(t, "one\ntwo\nthree\ntwenty\n", nil)
	f.press(t, input.Key('g', true))
	assert.Equal(t, kilo.ModeSearch, f.c.GetMode())

	f.typeText(t, "tw")
	assert.Equal(t, kilo.Point{Row: 1, Col: 0}, f.buf.GetCursor())
	f.press(t, input.SpecialKey(input.Down))
	assert.Equal(t, kilo.Point{Row: 3, Col: 0}, f.buf.GetCursor())
	assert.Equal(t, "tw", f.c.GetPrompt(), "arrows do not change the query")

	f.press(t, enter)
	assert.Equal(t, kilo.ModeEdit, f.c.GetMode())
	assert.Equal(t, "Found", f.message())
	assert.Equal(t, kilo.Point{Row: 3, Col: 0}, f.buf.GetCursor())
}

func TestSearchCanceled(t *testing.T) {
	f := setup(t, "one\ntwo\nthree\n", nil)
	f.buf.SetCursor(2, 0)
	f.press(t, input.Key('g', true))
	f.typeText(t, "thr")
	assert.Equal(t, 2, f.buf.Cy())

	f.press(t, cancel)
	assert.Equal(t, kilo.ModeEdit, f.c.GetMode())
	assert.Equal(t, kilo.Point{Row: 0, Col: 2}, f.buf.GetCursor())
}

func TestSearchEmptyCommitCancels(t *testing.T) {
	f := setup(t, "one\ntwo\n", nil)
	f.buf.SetCursor(1, 1)
	f.press(t, input.Key('g', true))
	f.typeText(t, "o")
	f.press(t, input.Key(0x7f, false), enter)
	assert.Equal(t, kilo.Point{Row: 1, Col: 1}, f.buf.GetCursor())
	assert.Empty(t, f.message())
}

func TestSearchNotFound(t *testing.T) {
	f := setup(t, "one\n", nil)
	f.press(t, input.Key('g', true))
	f.typeText(t, "zzz")
	f.press(t, enter)
	assert.Equal(t, "Not Found", f.message())
}
