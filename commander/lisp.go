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
	"errors"
	"fmt"
	"log"

	"github.com/steelseries/golisp"
)

// current is the commander that Lisp primitives act on during an evaluation.
var current *Commander

func init() {
	golisp.MakePrimitiveFunction("goto-line", "1", GotoLineImpl)
	golisp.MakePrimitiveFunction("insert", "1", InsertImpl)
	golisp.MakePrimitiveFunction("line", "1", LineImpl)
	golisp.MakePrimitiveFunction("row-count", "0", RowCountImpl)
	golisp.MakePrimitiveFunction("cursor-row", "0", CursorRowImpl)
	golisp.MakePrimitiveFunction("cursor-col", "0", CursorColImpl)
	golisp.MakePrimitiveFunction("save", "0", SaveImpl)
	golisp.MakePrimitiveFunction("gofmt", "0", GofmtImpl)
}

var errNoEditor = errors.New("no buffer is being edited")

func integerArg(name string, args *golisp.Data) (int, error) {
	val := golisp.Car(args)
	switch {
	case golisp.IntegerP(val):
		return int(golisp.IntegerValue(val)), nil
	case golisp.FloatP(val):
		return int(golisp.FloatValue(val)), nil
	default:
		return 0, fmt.Errorf("%s requires an integer argument", name)
	}
}

func GotoLineImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (result *golisp.Data, err error) {
	if current == nil {
		return nil, errNoEditor
	}
	n, err := integerArg("goto-line", args)
	if err != nil {
		return nil, err
	}
	current.buf.GotoLine(n)
	return golisp.IntegerWithValue(int64(current.buf.Cy() + 1)), nil
}

func InsertImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (result *golisp.Data, err error) {
	if current == nil {
		return nil, errNoEditor
	}
	val := golisp.Car(args)
	if !golisp.StringP(val) {
		return nil, errors.New("insert requires a string argument")
	}
	current.buf.InsertStr(golisp.StringValue(val))
	current.edited()
	return val, nil
}

// LineImpl returns the text of a 1-based line.
func LineImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (result *golisp.Data, err error) {
	if current == nil {
		return nil, errNoEditor
	}
	n, err := integerArg("line", args)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > current.buf.RowCount() {
		return nil, fmt.Errorf("line %d out of range 1..%d", n, current.buf.RowCount())
	}
	return golisp.StringWithValue(current.buf.Rows()[n-1].Buffer()), nil
}

func RowCountImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (result *golisp.Data, err error) {
	if current == nil {
		return nil, errNoEditor
	}
	return golisp.IntegerWithValue(int64(current.buf.RowCount())), nil
}

// CursorRowImpl returns the 1-based line of the cursor.
func CursorRowImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (result *golisp.Data, err error) {
	if current == nil {
		return nil, errNoEditor
	}
	return golisp.IntegerWithValue(int64(current.buf.Cy() + 1)), nil
}

// CursorColImpl returns the character offset of the cursor in its line.
func CursorColImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (result *golisp.Data, err error) {
	if current == nil {
		return nil, errNoEditor
	}
	return golisp.IntegerWithValue(int64(current.buf.Cx())), nil
}

func SaveImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (result *golisp.Data, err error) {
	if current == nil {
		return nil, errNoEditor
	}
	fileName := current.buf.GetFileName()
	if fileName == "" {
		return nil, errors.New("save: buffer has no file name")
	}
	n, err := current.buf.WriteFile(fileName)
	if err != nil {
		return nil, err
	}
	return golisp.IntegerWithValue(int64(n)), nil
}

func GofmtImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (result *golisp.Data, err error) {
	if current == nil {
		return nil, errNoEditor
	}
	if err := current.buf.Gofmt(); err != nil {
		return nil, err
	}
	current.edited()
	return golisp.IntegerWithValue(int64(current.buf.RowCount())), nil
}

// ParseEval evaluates a Lisp expression against this commander's buffer
// and returns the printed result.
func (c *Commander) ParseEval(command string) (string, error) {
	current = c
	defer func() { current = nil }()

	value, err := golisp.ParseAndEval(command)
	if err != nil {
		log.Printf("ERR %+v", err)
		return "", err
	}
	log.Printf("SEXPR %+v", value)
	if golisp.StringP(value) {
		return golisp.StringValue(value), nil
	}
	return golisp.String(value), nil
}
