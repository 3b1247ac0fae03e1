// Package codegen implements the Code Generator stage: it translates a
// flat TAC program (pkg/ir) into symbolic RISC-like assembly text, with
// first-use monotonic register allocation and a single-pass peephole
// cleanup.
package codegen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"minicc.dev/compiler/pkg/ir"
)

// opTable maps a TAC operator to its assembly mnemonic, grounded 1:1 on
// original_source/code_generator.py's op_map.
var opTable = map[string]string{
	"+": "ADD", "-": "SUB", "*": "MUL", "/": "DIV", "%": "MOD",
	"==": "CMP_EQ", "!=": "CMP_NE", "<": "CMP_LT", ">": "CMP_GT",
	"<=": "CMP_LE", ">=": "CMP_GE", "&&": "AND", "||": "OR",
}

var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
}

// ----------------------------------------------------------------------------
// Code Generator

// CodeGenerator walks a TAC program once, allocating a fresh register the
// first time each name (variable or temporary) is referenced - see
// allocateRegister - and emitting one or more assembly lines per
// instruction. Prefix is the register name prefix (default "R"),
// configurable via internal/config so the emitted text can be retargeted
// without touching the allocation algorithm.
type CodeGenerator struct {
	program      []ir.Instruction
	lines        []string
	prefix       string
	peephole     bool
	eliminations int
	nextReg      int
	register     map[string]string // variable/temporary name -> allocated register
}

// Initializes and returns to the caller a brand new CodeGenerator for
// program. prefix defaults to "R" when empty. peephole toggles the
// MOV-elision pass (internal/config's "peephole" knob); true in the
// default configuration.
func NewCodeGenerator(program []ir.Instruction, prefix string, peephole bool) *CodeGenerator {
	if prefix == "" {
		prefix = "R"
	}
	return &CodeGenerator{program: program, prefix: prefix, peephole: peephole, register: map[string]string{}}
}

// allocateRegister returns the register bound to var, allocating a new
// one (R0, R1, ... in first-use order) the first time var is seen.
func (cg *CodeGenerator) allocateRegister(variable string) string {
	if reg, ok := cg.register[variable]; ok {
		return reg
	}
	reg := fmt.Sprintf("%s%d", cg.prefix, cg.nextReg)
	cg.nextReg++
	cg.register[variable] = reg
	return reg
}

// isConstant reports whether value is a numeric literal or a quoted
// string literal rather than the name of a variable/temporary.
func isConstant(value string) bool {
	if value == "" {
		return false
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return true
	}
	return strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`)
}

func (cg *CodeGenerator) emit(format string, args ...any) {
	cg.lines = append(cg.lines, fmt.Sprintf(format, args...))
}

// Generate translates every TAC instruction to assembly text and returns
// the full program, banner included, with the peephole pass already
// applied when it is enabled.
func (cg *CodeGenerator) Generate() []string {
	cg.emit("; Generated Assembly Code")
	cg.emit("; Simplified RISC-style instructions")
	cg.emit("")

	for _, inst := range cg.program {
		cg.generateInstruction(inst)
	}

	if cg.peephole {
		cg.lines, cg.eliminations = peepholePass(cg.lines)
	}
	return cg.lines
}

// Eliminations reports how many redundant "MOV Rx, Rx" lines the peephole
// pass removed (zero when Generate hasn't run yet, or peephole is off).
func (cg *CodeGenerator) Eliminations() int { return cg.eliminations }

func (cg *CodeGenerator) generateInstruction(inst ir.Instruction) {
	switch i := inst.(type) {
	case ir.FunctionStart:
		cg.emit("")
		cg.emit("; Function: %s", i.Name)
		cg.emit("%s:", i.Name)
		cg.emit("    PUSH BP")
		cg.emit("    MOV BP, SP")

	case ir.FunctionEnd:
		cg.emit("    MOV SP, BP")
		cg.emit("    POP BP")
		cg.emit("    RET")
		cg.emit("; End of %s", i.Name)

	case ir.Assign:
		cg.generateAssign(i)
	case ir.BinaryOp:
		cg.generateBinaryOp(i)
	case ir.UnaryOp:
		cg.generateUnaryOp(i)

	case ir.Label:
		cg.emit("%s:", i.Name)
	case ir.Goto:
		cg.emit("    JMP %s", i.Label)

	case ir.IfGoto:
		condReg := cg.allocateRegister(i.Condition)
		cg.emit("    CMP %s, #0", condReg)
		cg.emit("    JNE %s", i.Label)

	case ir.IfFalseGoto:
		condReg := cg.allocateRegister(i.Condition)
		cg.emit("    CMP %s, #0", condReg)
		cg.emit("    JE %s", i.Label)

	case ir.Param:
		if isConstant(i.Arg) {
			cg.emit("    PUSH #%s", i.Arg)
		} else {
			cg.emit("    PUSH %s", cg.allocateRegister(i.Arg))
		}

	case ir.Call:
		cg.generateCall(i)
	case ir.Return:
		cg.generateReturn(i)
	}
}

func (cg *CodeGenerator) generateAssign(i ir.Assign) {
	resultReg := cg.allocateRegister(i.Result)

	if isConstant(i.Arg1) {
		cg.emit("    LOAD %s, #%s", resultReg, i.Arg1)
		return
	}
	cg.emit("    MOV %s, %s", resultReg, cg.allocateRegister(i.Arg1))
}

// generateBinaryOp matches original_source/code_generator.py's
// TACBinaryOp handling exactly: constants load straight into the result
// register, comparisons go through a CMP + single-operand opcode
// convention (see SPEC_FULL.md §9 decision 3), everything else is a
// two-operand arithmetic/logical opcode.
func (cg *CodeGenerator) generateBinaryOp(i ir.BinaryOp) {
	resultReg := cg.allocateRegister(i.Result)

	var arg1Reg string
	if isConstant(i.Arg1) {
		cg.emit("    LOAD %s, #%s", resultReg, i.Arg1)
		arg1Reg = resultReg
	} else {
		arg1Reg = cg.allocateRegister(i.Arg1)
	}

	var arg2Val string
	if isConstant(i.Arg2) {
		arg2Val = "#" + i.Arg2
	} else {
		arg2Val = cg.allocateRegister(i.Arg2)
	}

	opCode, ok := opTable[i.Op]
	if !ok {
		opCode = "OP"
	}

	if comparisonOps[i.Op] {
		cg.emit("    CMP %s, %s", arg1Reg, arg2Val)
		cg.emit("    %s %s", opCode, resultReg)
		return
	}

	if arg1Reg != resultReg {
		cg.emit("    MOV %s, %s", resultReg, arg1Reg)
	}
	cg.emit("    %s %s, %s", opCode, resultReg, arg2Val)
}

func (cg *CodeGenerator) generateUnaryOp(i ir.UnaryOp) {
	resultReg := cg.allocateRegister(i.Result)
	argReg := cg.allocateRegister(i.Arg)

	switch i.Op {
	case "-":
		cg.emit("    NEG %s, %s", resultReg, argReg)
	case "!":
		cg.emit("    NOT %s, %s", resultReg, argReg)
	}
}

func (cg *CodeGenerator) generateCall(i ir.Call) {
	cg.emit("    CALL %s", i.Function)
	if i.NArgs > 0 {
		cg.emit("    ADD SP, #%d", i.NArgs*4)
	}
	if i.Result != "" {
		cg.emit("    MOV %s, RAX", cg.allocateRegister(i.Result))
	}
}

func (cg *CodeGenerator) generateReturn(i ir.Return) {
	if i.Value == "" {
		return
	}
	if isConstant(i.Value) {
		cg.emit("    LOAD RAX, #%s", i.Value)
		return
	}
	cg.emit("    MOV RAX, %s", cg.allocateRegister(i.Value))
}

// peepholePass elides every "MOV Rx, Rx" line in one forward pass: a
// redundant move can only be introduced by generateAssign when source and
// destination are the same name (generateBinaryOp skips its MOV when the
// registers already match), never by any other instruction form, so a
// single linear scan suffices.
func peepholePass(lines []string) ([]string, int) {
	out := make([]string, 0, len(lines))
	eliminated := 0
	for _, line := range lines {
		if isRedundantMove(line) {
			eliminated++
			continue
		}
		out = append(out, line)
	}
	return out, eliminated
}

func isRedundantMove(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 3 || fields[0] != "MOV" {
		return false
	}
	dest := strings.TrimSuffix(fields[1], ",")
	return dest == fields[2]
}

// RegisterTable returns the non-temporary variable-to-register mapping in
// sorted order, for the "Register Allocation" section of the emitted
// listing (spec.md §6). Temporaries (those starting with 't') are
// excluded, matching original_source/code_generator.py's print_assembly.
func (cg *CodeGenerator) RegisterTable() [][2]string {
	var names []string
	for name := range cg.register {
		if !strings.HasPrefix(name, "t") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	table := make([][2]string, len(names))
	for i, name := range names {
		table[i] = [2]string{name, cg.register[name]}
	}
	return table
}
