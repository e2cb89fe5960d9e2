// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The eagle command compiles and runs Eagle programs.
//
// With file arguments, it compiles the files as one program and runs
// its main function or global statements. With a -manifest, the files
// and options come from an eagle.yaml manifest. With no arguments, it
// starts a read-eval-print loop (REPL) if standard input is a terminal,
// and otherwise runs the program read from standard input.
package main // import "go.eaglelang.org/cmd/eagle"

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"

	"golang.org/x/term"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"

	"go.eaglelang.org/bind"
	"go.eaglelang.org/eagle"
	"go.eaglelang.org/internal/lower"
	"go.eaglelang.org/manifest"
	"go.eaglelang.org/repl"
	"go.eaglelang.org/symbol"
)

// flags
var (
	cpuprofile   = flag.String("cpuprofile", "", "gather Go CPU profile in this file")
	memprofile   = flag.String("memprofile", "", "gather Go memory profile in this file")
	showenv      = flag.Bool("showenv", false, "on success, print final global environment")
	showtree     = flag.Bool("tree", false, "print the bound tree of the entry point before running")
	showprogram  = flag.Bool("lower", false, "print the lowered program before running")
	trace        = flag.Bool("trace", false, "log every call")
	script       = flag.Bool("script", false, "compile in script mode: the value of the last statement is printed")
	outputFlag   = flag.String("output", "", "format of -showenv output (text, wire, json)")
	manifestFlag = flag.String("manifest", "", "run the project described by the manifest `file`")
	execprog     = flag.String("c", "", "execute program `prog`")
)

func init() {
	flag.BoolVar(&lower.Debug, "checkflat", lower.Debug, "check that every lowered body is flat")

	// dialect flags
	flag.BoolVar(&bind.AllowGlobalStatements, "globals", bind.AllowGlobalStatements, "allow statements outside functions")
}

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("eagle: ")
	log.SetFlags(0)
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		check(err)
		err = pprof.StartCPUProfile(f)
		check(err)
		defer func() {
			pprof.StopCPUProfile()
			err := f.Close()
			check(err)
		}()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		check(err)
		defer func() {
			runtime.GC()
			err := pprof.Lookup("heap").WriteTo(f, 0)
			check(err)
			err = f.Close()
			check(err)
		}()
	}

	thread := &eagle.Thread{}
	if *trace {
		thread.Trace = func(thread *eagle.Thread, fn symbol.Invokable, args []eagle.Value) {
			log.Printf("%s%s%v", strings.Repeat(". ", thread.CallStackDepth()-1), fn.Name(), args)
		}
	}
	prelude := eagle.CompilePrelude()
	output := *outputFlag

	var (
		c   *eagle.Compilation
		err error
	)
	switch {
	case *manifestFlag != "":
		if flag.NArg() > 0 || *execprog != "" {
			log.Print("-manifest cannot be combined with files or -c")
			return 1
		}
		m, err := manifest.Load(*manifestFlag)
		if err != nil {
			log.Print(err)
			return 1
		}
		if output == "" {
			output = m.Output
		}
		thread.Name = "exec " + m.Name
		c, err = eagle.CompileFiles(m.Script, prelude, m.Sources...)
		if err != nil {
			log.Print(err)
			return 1
		}
	case *execprog != "":
		thread.Name = "exec cmdline"
		c, err = eagle.CompileSource(*script, prelude, "cmdline", *execprog)
	case flag.NArg() > 0:
		thread.Name = "exec " + flag.Arg(0)
		c, err = eagle.CompileFiles(*script, prelude, flag.Args()...)
	case term.IsTerminal(int(os.Stdin.Fd())):
		fmt.Println("Welcome to Eagle (go.eaglelang.org). Type #help for meta commands.")
		thread.Name = "REPL"
		repl.REPL(thread, prelude)
		return 0
	default:
		thread.Name = "exec <stdin>"
		var src []byte
		src, err = io.ReadAll(os.Stdin)
		if err == nil {
			c, err = eagle.CompileSource(*script, prelude, "<stdin>", src)
		}
	}
	if err != nil {
		log.Print(err)
		return 1
	}
	if errs := c.Errors(); len(errs) > 0 {
		for _, d := range errs {
			fmt.Fprintln(os.Stderr, d)
		}
		return 1
	}

	if *showtree {
		check(c.WriteTree(os.Stdout))
	}
	if *showprogram {
		check(c.WriteProgram(os.Stdout))
	}

	globals := make(eagle.Globals)
	v, err := c.Exec(thread, globals)
	if err != nil {
		repl.PrintError(err)
		return 1
	}
	if c.Script && v != nil {
		fmt.Println(eagle.Repr(v))
	}

	// Print the global environment.
	if *showenv {
		if err := printGlobals(globals, output); err != nil {
			log.Print(err)
			return 1
		}
	}
	return 0
}

// printGlobals prints the global variables as a google.protobuf.Struct
// in the specified format.
func printGlobals(globals eagle.Globals, format string) error {
	s, err := globals.Struct()
	if err != nil {
		return err
	}
	var marshal func(protoreflect.ProtoMessage) ([]byte, error)
	switch format {
	case "", "text":
		marshal = prototext.MarshalOptions{Multiline: true, Indent: "\t"}.Marshal
	case "json":
		marshal = protojson.MarshalOptions{Multiline: true, Indent: "\t"}.Marshal
	case "wire":
		marshal = proto.Marshal
	default:
		return fmt.Errorf("unsupported -output format: %s", format)
	}
	data, err := marshal(s)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
