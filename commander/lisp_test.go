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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timburks/kilo/input"
	kilo "github.com/timburks/kilo/types"
)

func TestParseEval(t *testing.T) {
	f := setup(t, "alpha\nbeta\ngamma\n", nil)

	tests := []struct {
		expr string
		want string
	}{
		{"(row-count)", "3"},
		{"(goto-line 2)", "2"},
		{"(cursor-row)", "2"},
		{"(insert \"hi\")", "hi"},
		{"(cursor-col)", "2"},
		{"(line 2)", "hibeta"},
		{"(goto-line 100)", "3"},
	}
	for _, tt := range tests {
		got, err := f.c.ParseEval(tt.expr)
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.want, got, tt.expr)
	}
	assert.True(t, f.buf.Modified())
}

func TestParseEvalErrors(t *testing.T) {
	f := setup(t, "alpha\n", nil)
	for _, expr := range []string{"(line 99)", "(line 0)", "(goto-line \"x\")", "(insert 5)", "(save)"} {
		_, err := f.c.ParseEval(expr)
		assert.Error(t, err, expr)
	}
}

func TestLispSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	f := setup(t, "alpha\n", nil)
	f.buf.SetFileName(path)

	got, err := f.c.ParseEval("(save)")
	require.NoError(t, err)
	assert.Equal(t, "6", got)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alpha\n", string(data))
}

func TestLispGofmt(t *testing.T) {
	f := setup(t, "package main\nfunc main(){}\n", nil)
	got, err := f.c.ParseEval("(gofmt)")
	require.NoError(t, err)
	assert.Equal(t, "3", got)
	assert.Equal(t, []string{"package main", "", "func main() {}"}, f.lines())
}

func TestLispPrompt(t *testing.T) {
	f := setup(t, "alpha\nbeta\n", nil)
	f.press(t, input.Key('x', true))
	assert.Equal(t, kilo.ModeLisp, f.c.GetMode())
	assert.Equal(t, "(", f.c.GetPrompt())

	f.typeText(t, "row-count)")
	f.press(t, enter)
	assert.Equal(t, kilo.ModeEdit, f.c.GetMode())
	assert.Equal(t, "2", f.message())

	f.press(t, input.Key('x', true))
	f.typeText(t, "line 7)")
	f.press(t, enter)
	message, kind := f.s.Message()
	assert.Contains(t, message, "out of range")
	assert.Equal(t, kilo.MessageError, kind)

	f.press(t, input.Key('x', true))
	f.typeText(t, "insert \"zz\")")
	f.press(t, cancel)
	assert.Equal(t, []string{"alpha", "beta"}, f.lines(), "a canceled prompt evaluates nothing")
}
