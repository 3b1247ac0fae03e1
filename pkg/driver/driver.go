// Package driver wires the five compilation stages (pkg/lexer, pkg/parser,
// pkg/sema, pkg/ir, pkg/codegen) into one sequential pipeline, mirroring
// original_source/compiler.py's compile_c_code.
package driver

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"minicc.dev/compiler/pkg/ast"
	"minicc.dev/compiler/pkg/codegen"
	"minicc.dev/compiler/pkg/ir"
	"minicc.dev/compiler/pkg/lexer"
	"minicc.dev/compiler/pkg/parser"
	"minicc.dev/compiler/pkg/sema"
)

// Options configures one Compile call. All fields have usable zero values.
type Options struct {
	// Verbose prints a banner and stage output to Out for each of the five
	// stages, matching original_source/compiler.py's show_stages flag.
	Verbose bool
	// Out receives stage banners when Verbose is set. Defaults to io.Discard.
	Out io.Writer
	// RegisterPrefix is passed to the Code Generator (default "R" when empty).
	RegisterPrefix string
	// Peephole toggles the Code Generator's MOV-elision pass. Defaults to
	// false on the Options zero value; callers reading internal/config
	// should pass cfg.Peephole explicitly.
	Peephole bool
}

// Result carries every stage's artifact so callers (the CLI, tests) can
// inspect intermediate state without re-running the pipeline.
type Result struct {
	RunID      string
	Success    bool
	Tokens     []lexer.Token
	Program    *ast.Program
	TAC        []ir.Instruction
	Assembly   []string
	Diagnostic string // human-readable error, empty on success
}

// Compile runs source through all five stages in order and stops at the
// first failing stage, matching spec.md §6's fail-fast compile contract.
func Compile(source string, opts Options) Result {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	runID := uuid.NewString()
	result := Result{RunID: runID}

	banner(out, opts.Verbose, "C COMPILER - 5 STAGES OF COMPILATION", runID)

	stage(out, opts.Verbose, "STAGE 1: LEXICAL ANALYSIS (Scanner)")
	tokens, err := lexer.NewLexerFromString(source).Tokenize()
	if err != nil {
		return fail(result, errors.Wrap(err, "lexical analysis"))
	}
	result.Tokens = tokens
	if opts.Verbose {
		fmt.Fprintf(out, "Total tokens generated: %d\n", len(tokens))
	}

	stage(out, opts.Verbose, "STAGE 2: SYNTAX ANALYSIS (Parser)")
	program, err := parser.NewParser(tokens).Parse()
	if err != nil {
		return fail(result, errors.Wrap(err, "syntax analysis"))
	}
	result.Program = program

	stage(out, opts.Verbose, "STAGE 3: SEMANTIC ANALYSIS")
	if err := sema.NewAnalyzer().Analyze(program); err != nil {
		return fail(result, errors.Wrap(err, "semantic analysis"))
	}
	if opts.Verbose {
		fmt.Fprintln(out, "Semantic analysis completed successfully!")
	}

	stage(out, opts.Verbose, "STAGE 4: INTERMEDIATE CODE GENERATION")
	instructions := ir.NewGenerator().Generate(program)
	result.TAC = instructions
	if opts.Verbose {
		for _, inst := range instructions {
			fmt.Fprintln(out, inst)
		}
		fmt.Fprintf(out, "\nTotal TAC instructions generated: %d\n", len(instructions))
	}

	stage(out, opts.Verbose, "STAGE 5: CODE GENERATION AND OPTIMIZATION")
	gen := codegen.NewCodeGenerator(instructions, opts.RegisterPrefix, opts.Peephole)
	assembly := gen.Generate()
	result.Assembly = assembly
	if opts.Verbose {
		fmt.Fprintln(out, strings.Join(assembly, "\n"))
		if opts.Peephole {
			fmt.Fprintf(out, "\n%d redundant instructions eliminated\n", gen.Eliminations())
		}
		fmt.Fprintln(out, "\nRegister Allocation:")
		fmt.Fprintf(out, "%-15s %-10s\n", "Variable", "Register")
		fmt.Fprintln(out, strings.Repeat("-", 25))
		for _, row := range gen.RegisterTable() {
			fmt.Fprintf(out, "%-15s %-10s\n", row[0], row[1])
		}
	}

	result.Success = true
	banner(out, opts.Verbose, "COMPILATION COMPLETED SUCCESSFULLY!", "")
	return result
}

func fail(result Result, err error) Result {
	result.Success = false
	result.Diagnostic = err.Error()
	return result
}

func banner(out io.Writer, verbose bool, title, runID string) {
	if !verbose {
		return
	}
	fmt.Fprintln(out, strings.Repeat("=", 80))
	if runID != "" {
		fmt.Fprintf(out, " %s [run %s]\n", title, runID)
	} else {
		fmt.Fprintf(out, " %s\n", title)
	}
	fmt.Fprintln(out, strings.Repeat("=", 80))
}

func stage(out io.Writer, verbose bool, title string) {
	if !verbose {
		return
	}
	fmt.Fprintln(out, "\n"+strings.Repeat("=", 80))
	fmt.Fprintln(out, " "+title)
	fmt.Fprintln(out, strings.Repeat("=", 80))
}
