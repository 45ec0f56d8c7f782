// synclangc is the command-line driver: it tokenizes, parses, compiles,
// and runs a single source file, mirroring the teacher's own
// flags-then-log.Fatalf CLI shape but with one target instead of a
// cross-architecture one.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/xyproto/synclang/ast"
	"github.com/xyproto/synclang/interp"
	"github.com/xyproto/synclang/parser"
	"github.com/xyproto/synclang/stack"
	"github.com/xyproto/synclang/token"
)

const versionString = "synclangc 0.1.0"

func main() {
	var (
		maxStack   = flag.Int("max-stack", stack.MinSlots, "maximum stack slots the main function may require")
		dumpTokens = flag.Bool("dump-tokens", false, "print the token stream and exit")
		dumpAST    = flag.Bool("dump-ast", false, "print the parsed syntax tree and exit")
		showVer    = flag.Bool("version", false, "print version information and exit")
		verbose    = flag.Bool("v", false, "verbose mode (log compilation stages)")
	)
	flag.Parse()

	if *showVer {
		fmt.Println(versionString)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) != 1 {
		log.Fatalf("usage: synclangc [flags] <source-file>")
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatalf("synclangc: %v", err)
	}

	if *verbose {
		log.Printf("tokenizing %s (%d bytes)", args[0], len(source))
	}
	tz, cerrErr := token.Create(source)
	if cerrErr != nil {
		log.Fatalf("synclangc: tokenize error: %s", cerrErr.Error())
	}

	if *dumpTokens {
		it := token.NewIter(tz)
		for !it.AtEnd() {
			fmt.Printf("%s %q\n", it.Current().Tag(), it.CurrentText())
			it.Next()
		}
		return
	}

	if *verbose {
		log.Printf("parsing")
	}
	file, perr := parser.ParseFile(parser.NewInfo(token.NewIter(tz)))
	if perr != nil {
		log.Fatalf("synclangc: parse error: %s", perr.Error())
	}

	if *dumpAST {
		dumpFile(file)
		return
	}

	mainFn := findFunction(file, "main")
	if mainFn == nil {
		log.Fatalf("synclangc: no main function defined")
	}

	if *verbose {
		log.Printf("compiling %s", mainFn.Name)
	}
	impl, berr := interp.NewFunctionBuilder(mainFn).Build(mainFn)
	if berr != nil {
		log.Fatalf("synclangc: compile error: %s", berr.Error())
	}
	if int(impl.RequiredSlots) > *maxStack {
		log.Fatalf("synclangc: %s requires %d stack slots, exceeding -max-stack=%d", mainFn.Name, impl.RequiredSlots, *maxStack)
	}

	in := interp.New()
	v, rerr := in.Run(impl, nil)
	if !rerr.Ok() {
		log.Fatalf("synclangc: runtime error: %s", rerr.Error())
	}
	if v.HasValue {
		fmt.Println(v.AsInt64())
	}
}

func findFunction(file *ast.FileAst, name string) *ast.FunctionDefinition {
	for _, fn := range file.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

func dumpFile(file *ast.FileAst) {
	for _, fn := range file.Functions {
		fmt.Printf("fn %s (public=%v, %d params, %d statements)\n", fn.Name, fn.Public, len(fn.Params), len(fn.Body))
	}
	for _, td := range file.TypeDefs {
		fmt.Printf("typedef %s kind=%d\n", td.Name, td.Kind)
	}
}
