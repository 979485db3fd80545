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
	"fmt"
	"go/format"
	"log"
)

// Gofmt reformats the buffer as Go source. The cursor keeps its position, clamped to the new text.
// Source that does not parse is left unchanged and the syntax error returned.
func (b *TextBuffer) Gofmt() error {
	input := b.Bytes()
	output, err := format.Source(input)
	if err != nil {
		log.Printf("Syntax errors in code:\n%s", err)
		return fmt.Errorf("gofmt %s: %w", b.fileName, err)
	}
	if string(output) == string(input) {
		return nil
	}
	cx, cy := b.cx, b.cy
	b.LoadBytes(output)
	b.modified = true
	b.cx, b.cy = cx, cy
	b.keepCursorInRow()
	return nil
}
