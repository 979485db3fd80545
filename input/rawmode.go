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
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

var ErrNotTerminal = errors.New("input is not a terminal")

// RawMode holds a terminal in raw mode. Close restores the attributes
// that were in effect before EnableRawMode; it is safe to call more than once.
type RawMode struct {
	fd   int
	orig unix.Termios
	once sync.Once
	err  error
}

// EnableRawMode switches f to raw mode with a 100ms read timeout.
func EnableRawMode(f *os.File) (*RawMode, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	orig, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return nil, fmt.Errorf("get terminal attributes: %w", err)
	}

	raw := *orig
	// no echo, canonical mode, signals (Ctrl-C, Ctrl-Z) or Ctrl-V
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	// no flow control (Ctrl-S, Ctrl-Q) or CR-to-NL translation
	raw.Iflag &^= unix.IXON | unix.ICRNL | unix.BRKINT | unix.INPCK | unix.ISTRIP
	// no output processing such as \n to \r\n
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	// read returns after 1/10 second even if nothing was typed
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 1
	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, &raw); err != nil {
		return nil, fmt.Errorf("set terminal attributes: %w", err)
	}
	return &RawMode{fd: fd, orig: *orig}, nil
}

// Size returns the terminal size in rows and columns.
func (m *RawMode) Size() (int, int, error) {
	cols, rows, err := term.GetSize(m.fd)
	if err != nil {
		return 0, 0, fmt.Errorf("get terminal size: %w", err)
	}
	return rows, cols, nil
}

func (m *RawMode) Close() error {
	m.once.Do(func() {
		if err := unix.IoctlSetTermios(m.fd, ioctlWriteTermios, &m.orig); err != nil {
			m.err = fmt.Errorf("restore terminal attributes: %w", err)
		}
	})
	return m.err
}
