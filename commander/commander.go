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
	"fmt"
	"log"

	"github.com/timburks/kilo/config"
	"github.com/timburks/kilo/editor"
	"github.com/timburks/kilo/input"
	"github.com/timburks/kilo/screen"
	kilo "github.com/timburks/kilo/types"
)

// The Commander converts user input into commands for the TextBuffer.
type Commander struct {
	buf       *editor.TextBuffer
	hl        *editor.Highlighting
	screen    *screen.Screen
	mode      int
	debug     bool   // debug mode displays the decoded input sequences
	prompt    string // text typed into the open prompt
	search    *editor.TextSearch
	quitTimes int // Ctrl-Q presses needed when the buffer has unsaved changes
	quitsLeft int
}

func NewCommander(buf *editor.TextBuffer, hl *editor.Highlighting, s *screen.Screen, cfg *config.Config) *Commander {
	return &Commander{
		buf:       buf,
		hl:        hl,
		screen:    s,
		mode:      kilo.ModeEdit,
		debug:     cfg.Debug,
		quitTimes: cfg.QuitTimes,
		quitsLeft: cfg.QuitTimes,
	}
}

func (c *Commander) GetMode() int {
	return c.mode
}

func (c *Commander) IsRunning() bool {
	return c.mode != kilo.ModeQuit
}

// GetPrompt returns the text typed into the open prompt.
func (c *Commander) GetPrompt() string {
	return c.prompt
}

func (c *Commander) ProcessEvent(seq input.Seq) error {
	if seq.Kind == input.KindUnidentified || seq.Kind == input.KindCursor {
		// nothing was typed during this tick
		return nil
	}
	if c.debug {
		c.screen.SetInfoMessage(fmt.Sprintf("event=%v", seq))
	}
	switch c.mode {
	case kilo.ModeEdit:
		c.ProcessKeyEditMode(seq)
	case kilo.ModeSearch:
		c.ProcessKeySearchMode(seq)
	case kilo.ModeSave:
		c.ProcessKeySaveMode(seq)
	case kilo.ModeLisp:
		c.ProcessKeyLispMode(seq)
	}
	return nil
}

func (c *Commander) ProcessKeyEditMode(seq input.Seq) {
	b := c.buf

	if !seq.IsCtrl('q') {
		c.quitsLeft = c.quitTimes
	}

	switch {
	case seq.IsSpecial(input.Up), seq.IsCtrl('p'):
		b.MoveCursor(kilo.MoveUp)
	case seq.IsSpecial(input.Down), seq.IsCtrl('n'):
		b.MoveCursor(kilo.MoveDown)
	case seq.IsSpecial(input.Left), seq.IsCtrl('b'):
		b.MoveCursor(kilo.MoveLeft)
	case seq.IsSpecial(input.Right), seq.IsCtrl('f'):
		b.MoveCursor(kilo.MoveRight)
	case seq.IsCtrl('a'):
		b.MoveToBeginningOfLine()
	case seq.IsCtrl('e'):
		b.MoveToEndOfLine()
	case seq.IsCtrl('v'):
		c.PageDown()
	case seq.IsCtrl('y'):
		c.PageUp()
	//
	// editing
	//
	case seq.IsBackspace():
		b.DeleteChar()
		c.edited()
	case seq.IsCtrl('d'):
		b.DeleteRightChar()
		c.edited()
	case seq.IsCtrl('k'):
		b.DeleteUntilEndOfLine()
		c.edited()
	case seq.IsCtrl('u'):
		b.DeleteUntilHeadOfLine()
		c.edited()
	case seq.IsCtrl('w'):
		b.DeleteWord()
		c.edited()
	case seq.IsCtrl('m'), seq.IsCtrl('j'):
		b.InsertLine()
		c.edited()
	case seq.IsCtrl('i'):
		b.InsertChar('\t')
		c.edited()
	case seq.IsPrintable():
		b.InsertChar(rune(seq.Code))
		c.edited()
	//
	// commands
	//
	case seq.IsCtrl('s'):
		if b.GetFileName() == "" {
			c.openPrompt(kilo.ModeSave, "")
		} else {
			c.Save(b.GetFileName())
		}
	case seq.IsCtrl('q'):
		c.Quit()
	case seq.IsCtrl('g'):
		c.search = editor.NewTextSearch(c.screen, c.buf, c.hl)
		c.openPrompt(kilo.ModeSearch, "")
	case seq.IsCtrl('x'):
		c.openPrompt(kilo.ModeLisp, "(")
	}
}

// edited marks the highlights stale after a change to the text.
func (c *Commander) edited() {
	c.hl.SetNeedsUpdate()
}

func (c *Commander) PageDown() {
	rows := c.screen.TextRows()
	c.buf.SetCursor(c.buf.Cx(), c.screen.GetOffset().Rows+rows-1)
	for i := 0; i < rows; i++ {
		c.buf.MoveCursor(kilo.MoveDown)
	}
}

func (c *Commander) PageUp() {
	rows := c.screen.TextRows()
	c.buf.SetCursor(c.buf.Cx(), c.screen.GetOffset().Rows)
	for i := 0; i < rows; i++ {
		c.buf.MoveCursor(kilo.MoveUp)
	}
}

// Quit leaves the editor, asking for confirmation when there are unsaved changes.
func (c *Commander) Quit() {
	if c.buf.Modified() && c.quitsLeft > 1 {
		c.quitsLeft--
		c.screen.SetErrorMessage(fmt.Sprintf("File has unsaved changes! Press Ctrl-Q %d more time(s) to quit", c.quitsLeft))
		return
	}
	c.mode = kilo.ModeQuit
}

// Save writes the buffer and reports the result in the message bar.
func (c *Commander) Save(fileName string) {
	n, err := c.buf.WriteFile(fileName)
	if err != nil {
		log.Printf("%v", err)
		c.screen.SetErrorMessage(fmt.Sprintf("Can't save! %v", err))
		return
	}
	c.hl.SetMode(c.buf.GetMode())
	c.screen.SetInfoMessage(fmt.Sprintf("%d bytes written to %s", n, fileName))
}

func (c *Commander) openPrompt(mode int, text string) {
	c.mode = mode
	c.prompt = text
	c.showPrompt()
}

func (c *Commander) closePrompt() {
	c.mode = kilo.ModeEdit
	c.prompt = ""
	c.screen.ClearPrompt()
}

func (c *Commander) showPrompt() {
	switch c.mode {
	case kilo.ModeSearch:
		c.screen.SetPrompt("Search: " + c.prompt + " (Ctrl-G to cancel, arrows to move)")
	case kilo.ModeSave:
		c.screen.SetPrompt("Save as: " + c.prompt + " (Ctrl-G to cancel)")
	case kilo.ModeLisp:
		c.screen.SetPrompt("Eval: " + c.prompt)
	}
}

// editPrompt applies seq to the prompt text and reports whether the
// prompt was closed, and if so whether it was canceled.
func (c *Commander) editPrompt(seq input.Seq) (done bool, canceled bool) {
	switch {
	case seq.IsCtrl('g'):
		return true, true
	case seq.IsCtrl('m'), seq.IsCtrl('j'):
		return true, false
	case seq.IsBackspace():
		if len(c.prompt) > 0 {
			runes := []rune(c.prompt)
			c.prompt = string(runes[:len(runes)-1])
		}
	case seq.IsPrintable():
		c.prompt += string(rune(seq.Code))
	}
	return false, false
}

func (c *Commander) ProcessKeySearchMode(seq input.Seq) {
	done, canceled := c.editPrompt(seq)
	query := c.prompt
	if canceled {
		query = ""
	}
	c.search.OnKey(query, seq, done)
	if done {
		c.search = nil
		c.closePrompt()
		return
	}
	c.showPrompt()
}

func (c *Commander) ProcessKeySaveMode(seq input.Seq) {
	done, canceled := c.editPrompt(seq)
	if !done {
		c.showPrompt()
		return
	}
	fileName := c.prompt
	c.closePrompt()
	if canceled || fileName == "" {
		c.screen.SetInfoMessage("Save aborted")
		return
	}
	c.Save(fileName)
}

func (c *Commander) ProcessKeyLispMode(seq input.Seq) {
	done, canceled := c.editPrompt(seq)
	if !done {
		c.showPrompt()
		return
	}
	command := c.prompt
	c.closePrompt()
	if canceled {
		return
	}
	result, err := c.ParseEval(command)
	if err != nil {
		c.screen.SetErrorMessage(err.Error())
		return
	}
	c.screen.SetInfoMessage(result)
}
