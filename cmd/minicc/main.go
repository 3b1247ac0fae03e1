package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/teris-io/cli"

	"minicc.dev/compiler/internal/config"
	"minicc.dev/compiler/pkg/driver"
)

var Description = strings.ReplaceAll(`
minicc compiles a small C-like language through its 5 stages - lexical
analysis, syntax analysis, semantic analysis, intermediate code generation,
and target code generation - printing the artifact of every stage unless
run with --quiet.
`, "\n", " ")

// exampleSource is the built-in factorial program used by --example,
// grounded on original_source/compiler.py's embedded sample.
const exampleSource = `
int factorial(int n) {
    if (n <= 1) {
        return 1;
    }
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

var Minicc = cli.New(Description).
	WithArg(cli.NewArg("input", "The source (.c) file to be compiled").
		AsOptional().WithType(cli.TypeString)).
	WithOption(cli.NewOption("quiet", "Suppress per-stage output").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("example", "Compile the built-in factorial example").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("config", "Path to an optional minicc.toml").
		WithType(cli.TypeString)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	_, example := options["example"]

	var source string
	switch {
	case example || len(args) < 1:
		fmt.Println("Using built-in example C code...")
		source = exampleSource

	default:
		content, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Printf("ERROR: Unable to open input file: %s\n", err)
			return 1
		}
		fmt.Printf("Compiling: %s\n", args[0])
		fmt.Printf("Source code length: %d characters\n\n", len(content))
		source = string(content)
	}

	configPath := options["config"]
	if configPath == "" {
		configPath = "minicc.toml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("ERROR: Unable to load config: %s\n", err)
		return 1
	}

	_, quiet := options["quiet"]
	verbose := cfg.Verbose && !quiet

	result := driver.Compile(source, driver.Options{
		Verbose:        verbose,
		Out:            os.Stdout,
		RegisterPrefix: cfg.RegisterPrefix,
		Peephole:       cfg.Peephole,
	})

	if !result.Success {
		fmt.Printf("\nCompilation Error: %s\n", result.Diagnostic)
		return 1
	}

	fmt.Println("\nCOMPILATION COMPLETED SUCCESSFULLY!")
	return 0
}

func main() { os.Exit(Minicc.Run(os.Args, os.Stdout)) }
