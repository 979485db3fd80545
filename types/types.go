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
package types

// Editor modes
const (
	ModeEdit   = 0
	ModeSearch = 1
	ModeSave   = 2
	ModeLisp   = 3
	ModeQuit   = 9999
)

// Move directions
const (
	MoveUp    = 0
	MoveDown  = 1
	MoveRight = 2
	MoveLeft  = 3
)

// Message kinds shown in the message bar
const (
	MessageInfo  = 0
	MessageError = 1
)

// Tab characters are expanded to the next multiple of TabStop.
const TabStop = 8

type Point struct {
	Row int
	Col int
}

type Size struct {
	Rows int
	Cols int
}

// Screen is the part of the renderer that text search drives.
// Offsets are the scroll position: Rows is the first visible row,
// Cols the first visible rendered column.
type Screen interface {
	GetOffset() Size
	SetOffset(offset Size)
	SetDirtyStart(row int)
	SetInfoMessage(message string)
	SetErrorMessage(message string)
}

// Highlighter receives match spans from text search.
type Highlighter interface {
	SetMatch(row, start, end int)
	ClearPreviousMatch() (row int, ok bool)
	SetNeedsUpdate()
}
