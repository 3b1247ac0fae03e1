package ir_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minicc.dev/compiler/pkg/ir"
	"minicc.dev/compiler/pkg/lexer"
	"minicc.dev/compiler/pkg/parser"
)

func lower(t *testing.T, source string) []ir.Instruction {
	t.Helper()
	tokens, err := lexer.NewLexerFromString(source).Tokenize()
	require.NoError(t, err)
	program, err := parser.NewParser(tokens).Parse()
	require.NoError(t, err)
	return ir.NewGenerator().Generate(program)
}

func render(instructions []ir.Instruction) []string {
	lines := make([]string, len(instructions))
	for i, inst := range instructions {
		lines[i] = fmt.Sprint(inst)
	}
	return lines
}

func TestGlobalWithoutInitializerEmitsNoTAC(t *testing.T) {
	// SPEC_FULL.md §9 decision 4.
	instructions := lower(t, "int g; int main() { return 0; }")
	assert.Equal(t, []string{"function main:", "return 0", "end function main"}, render(instructions))
}

func TestSimpleAssignmentEmitsOneInstruction(t *testing.T) {
	instructions := lower(t, "int main() { int x; x = 5; return x; }")
	assert.Equal(t, []string{
		"function main:",
		"x = 5",
		"return x",
		"end function main",
	}, render(instructions))
}

func TestBinaryOpUsesFreshTemporary(t *testing.T) {
	instructions := lower(t, "int main() { int x; x = 1 + 2; return x; }")
	assert.Equal(t, []string{
		"function main:",
		"t0 = 1 + 2",
		"x = t0",
		"return x",
		"end function main",
	}, render(instructions))
}

func TestIfElseEmitsTwoLabels(t *testing.T) {
	instructions := lower(t, "int main() { if (1) { return 1; } else { return 0; } }")
	assert.Equal(t, []string{
		"function main:",
		"ifFalse 1 goto L0",
		"return 1",
		"goto L1",
		"L0:",
		"return 0",
		"L1:",
		"end function main",
	}, render(instructions))
}

func TestWhileLoopStructure(t *testing.T) {
	instructions := lower(t, "int main() { int x; x = 0; while (x < 3) { x = x + 1; } return x; }")
	lines := render(instructions)
	assert.Contains(t, lines, "L0:")
	assert.Contains(t, lines, "goto L0")
}

func TestFunctionCallEmitsParamsInReverseOrder(t *testing.T) {
	instructions := lower(t, `
		int add(int a, int b) { return a + b; }
		int main() { return add(1, 2); }
	`)
	lines := render(instructions)
	require.Contains(t, lines, "param 2")
	require.Contains(t, lines, "param 1")
	// params for the reversed argument list are emitted before the call,
	// and the last argument (2) is pushed first.
	paramTwoIdx, paramOneIdx, callIdx := -1, -1, -1
	for i, l := range lines {
		switch l {
		case "param 2":
			paramTwoIdx = i
		case "param 1":
			paramOneIdx = i
		}
		if l == "t1 = call add, 2" {
			callIdx = i
		}
	}
	require.True(t, paramTwoIdx >= 0 && paramOneIdx >= 0 && callIdx >= 0)
	assert.Less(t, paramTwoIdx, paramOneIdx)
	assert.Less(t, paramOneIdx, callIdx)
}

func TestFreshNamesAreUniqueWithinOneRun(t *testing.T) {
	// P4: temporaries and labels are never reused within a single
	// compilation run.
	instructions := lower(t, `
		int main() {
			int x;
			x = (1 + 2) * (3 + 4);
			if (x) { } else { }
			return x;
		}
	`)

	seenTemps, seenLabels := map[string]bool{}, map[string]bool{}
	for _, inst := range instructions {
		switch i := inst.(type) {
		case ir.BinaryOp:
			require.False(t, seenTemps[i.Result])
			seenTemps[i.Result] = true
		case ir.Label:
			require.False(t, seenLabels[i.Name])
			seenLabels[i.Name] = true
		}
	}
}
