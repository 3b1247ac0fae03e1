package driver_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minicc.dev/compiler/pkg/driver"
)

func TestCompileSimpleDeclaration(t *testing.T) {
	result := driver.Compile("int main() { int x; x = 5; return x; }", driver.Options{})
	require.True(t, result.Success)
	assert.NotEmpty(t, result.RunID)
	assert.Contains(t, strings.Join(result.Assembly, "\n"), "main:")
}

func TestCompileRecursiveFactorial(t *testing.T) {
	source := `
		int factorial(int n) {
			if (n <= 1) { return 1; }
			return n * factorial(n - 1);
		}
		int main() {
			int x;
			x = 5;
			int result;
			result = factorial(x);
			return result;
		}
	`
	result := driver.Compile(source, driver.Options{})
	require.True(t, result.Success)
	assert.Contains(t, strings.Join(result.Assembly, "\n"), "CALL factorial")
}

func TestCompileUndefinedVariableFails(t *testing.T) {
	result := driver.Compile("int main() { return y; }", driver.Options{})
	require.False(t, result.Success)
	assert.Contains(t, result.Diagnostic, "semantic analysis")
}

func TestCompileWhileLoop(t *testing.T) {
	source := "int main() { int x; x = 0; while (x < 3) { x = x + 1; } return x; }"
	result := driver.Compile(source, driver.Options{})
	require.True(t, result.Success)
	var tacLines []string
	for _, inst := range result.TAC {
		tacLines = append(tacLines, fmt.Sprint(inst))
	}
	assert.Contains(t, tacLines, "goto L0")
}

func TestCompileTypeCoercionBetweenIntAndFloat(t *testing.T) {
	result := driver.Compile("int main() { float x; x = 1; return 0; }", driver.Options{})
	require.True(t, result.Success)
}

func TestCompileRedeclarationFails(t *testing.T) {
	result := driver.Compile("int main() { int x; int x; return 0; }", driver.Options{})
	require.False(t, result.Success)
	assert.Contains(t, result.Diagnostic, "semantic analysis")
}

func TestCompileLexicalErrorStopsBeforeParsing(t *testing.T) {
	result := driver.Compile("int main() { int x; x = 1 @ 2; return x; }", driver.Options{})
	require.False(t, result.Success)
	assert.Nil(t, result.Program)
}

func TestCompileVerboseWritesStageBanners(t *testing.T) {
	var out strings.Builder
	result := driver.Compile("int main() { return 0; }", driver.Options{Verbose: true, Out: &out})
	require.True(t, result.Success)
	assert.Contains(t, out.String(), "STAGE 1: LEXICAL ANALYSIS")
	assert.Contains(t, out.String(), "STAGE 5: CODE GENERATION")
	assert.Contains(t, out.String(), result.RunID)
}

func TestCompileVerboseReportsRegisterTableAndEliminations(t *testing.T) {
	var out strings.Builder
	source := "int main() { int x; x = 1; x = x; return x; }"
	result := driver.Compile(source, driver.Options{Verbose: true, Out: &out, Peephole: true})
	require.True(t, result.Success)
	assert.Contains(t, out.String(), "Register Allocation:")
	assert.Contains(t, out.String(), "x")
	assert.Contains(t, out.String(), "1 redundant instructions eliminated")
}
