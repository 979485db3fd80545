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
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/timburks/kilo/commander"
	"github.com/timburks/kilo/config"
	"github.com/timburks/kilo/editor"
	"github.com/timburks/kilo/input"
	"github.com/timburks/kilo/screen"
	kilo "github.com/timburks/kilo/types"
)

var errTooManyFiles = errors.New("kilo edits one file at a time")

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "kilo: %v\n", err)
		os.Exit(1)
	}
}

func parseArgs(args []string) (filenames []string, script string, err error) {
	filenames = make([]string, 0)
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--eval": // eval program
			i++
			if i >= len(args) {
				return nil, "", errors.New("no expression specified for --eval option")
			}
			script = args[i]
		default:
			filenames = append(filenames, args[i])
		}
	}
	if script == "" && len(filenames) > 1 {
		return nil, "", errTooManyFiles
	}
	return filenames, script, nil
}

func loadConfig() (*config.Config, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return config.Default(), nil
	}
	return config.Load(path)
}

func run(args []string) error {
	filenames, script, err := parseArgs(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Open a log file.
	logPath, err := cfg.LogPath()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0666)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer f.Close()
	log.SetOutput(f)

	if script != "" {
		return eval(os.Stdout, script, filenames, cfg)
	}

	// The buffer holds the text being edited.
	buf := editor.NewTextBuffer()
	if len(filenames) == 1 {
		if err := buf.ReadFile(filenames[0]); err != nil {
			return err
		}
	}
	return edit(buf, cfg)
}

// eval runs a Lisp expression against each file in turn and prints the results.
func eval(out io.Writer, script string, filenames []string, cfg *config.Config) error {
	if len(filenames) == 0 {
		filenames = []string{""}
	}
	for _, filename := range filenames {
		buf := editor.NewTextBuffer()
		if filename != "" {
			if err := buf.ReadFile(filename); err != nil {
				return err
			}
		}
		hl := editor.NewHighlighting(buf.GetMode(), false)
		s := screen.NewScreen(io.Discard, kilo.Size{})
		c := commander.NewCommander(buf, hl, s, cfg)
		result, err := c.ParseEval(script)
		if err != nil {
			return fmt.Errorf("eval: %w", err)
		}
		fmt.Fprintln(out, result)
	}
	return nil
}

func edit(buf *editor.TextBuffer, cfg *config.Config) error {
	raw, err := input.EnableRawMode(os.Stdin)
	if err != nil {
		return err
	}
	defer raw.Close()

	dec := input.NewDecoder(os.Stdin)

	// The screen draws the buffer on the terminal.
	s := screen.NewScreen(os.Stdout, kilo.Size{})
	s.SetMessageTimeout(cfg.MessageTimeout())
	s.SetWelcome(cfg.Welcome)

	// A terminated editor still clears and gives the terminal back.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		sig := <-quit
		s.Clear()
		raw.Close()
		log.Printf("exiting on %v", sig)
		os.Exit(1)
	}()
	resized := make(chan os.Signal, 1)
	signal.Notify(resized, syscall.SIGWINCH)
	resize := func() error {
		select {
		case <-resized:
			return s.EnsureSize(raw.Size, dec)
		default:
			return nil
		}
	}

	hl := editor.NewHighlighting(buf.GetMode(), cfg.Highlight)

	// The commander converts user inputs into commands for the buffer.
	c := commander.NewCommander(buf, hl, s, cfg)

	return runLoop(dec, s, c, buf, hl, func() error {
		return s.EnsureSize(raw.Size, dec)
	}, resize)
}

// runLoop sizes the screen, then renders and dispatches events until the
// commander quits or the terminal fails. The screen is cleared on the way out.
func runLoop(dec *input.Decoder, s *screen.Screen, c *commander.Commander, buf *editor.TextBuffer, hl *editor.Highlighting, size, resize func() error) (err error) {
	defer func() {
		if clearErr := s.Clear(); err == nil {
			err = clearErr
		}
	}()

	if err := size(); err != nil {
		return err
	}
	s.SetInfoMessage("HELP: Ctrl-S = save | Ctrl-Q = quit | Ctrl-G = find | Ctrl-X = eval")
	if err := s.Render(buf, hl); err != nil {
		return err
	}

	// Run the main event loop.
	for seq, err := range dec.Events() {
		if err != nil {
			return err
		}
		if err := resize(); err != nil {
			return err
		}
		if idle(seq) && !s.NeedsRender() {
			continue
		}
		if err := c.ProcessEvent(seq); err != nil {
			log.Output(1, err.Error())
		}
		if !c.IsRunning() {
			break
		}
		if err := s.Render(buf, hl); err != nil {
			return err
		}
	}
	return nil
}

// idle reports whether seq is a tick with no keypress.
func idle(seq input.Seq) bool {
	return seq.Kind == input.KindUnidentified || seq.Kind == input.KindCursor
}
