// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bound

import (
	"bytes"
	"io"
	"log"
	"strconv"
	"strings"
)

// Fprint writes a source-like rendering of the bound tree n to w.
// Labels are written one level to the left of the statements they
// precede.
func Fprint(w io.Writer, n Node) error {
	var p printer
	switch n := n.(type) {
	case Stmt:
		p.stmt(n)
	case Expr:
		p.expr(n, 0)
		p.buf.WriteByte('\n')
	}
	_, err := w.Write(p.buf.Bytes())
	return err
}

// String returns the rendering of n without the trailing newline.
func String(n Node) string {
	var buf bytes.Buffer
	Fprint(&buf, n)
	return strings.TrimSuffix(buf.String(), "\n")
}

type printer struct {
	buf    bytes.Buffer
	indent int
}

func (p *printer) line(s ...string) {
	p.tab(p.indent)
	for _, s := range s {
		p.buf.WriteString(s)
	}
}

func (p *printer) tab(n int) {
	for i := 0; i < n; i++ {
		p.buf.WriteString("    ")
	}
}

// nested prints the body of a control statement.
func (p *printer) nested(s Stmt) {
	if _, ok := s.(*Block); ok {
		p.stmt(s)
		return
	}
	p.indent++
	p.stmt(s)
	p.indent--
}

func (p *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case *Block:
		p.line("{\n")
		p.indent++
		for _, s := range s.Stmts {
			p.stmt(s)
		}
		p.indent--
		p.line("}\n")

	case *VarDecl:
		kw := "var "
		if s.Var.ReadOnly {
			kw = "let "
		}
		p.line(kw, s.Var.Name(), " = ")
		p.expr(s.Init, 0)
		p.buf.WriteByte('\n')

	case *ExprStmt:
		p.line()
		p.expr(s.X, 0)
		p.buf.WriteByte('\n')

	case *If:
		p.line("if ")
		p.expr(s.Cond, 0)
		p.buf.WriteByte('\n')
		p.nested(s.Then)
		if s.Else != nil {
			p.line("else\n")
			p.nested(s.Else)
		}

	case *While:
		p.line("while ")
		p.expr(s.Cond, 0)
		p.buf.WriteByte('\n')
		p.nested(s.Body)

	case *Loop:
		p.line("loop\n")
		p.nested(s.Body)

	case *For:
		p.line("for ", s.Var.Name(), " = ")
		p.expr(s.Lower, 0)
		p.buf.WriteString(" to ")
		p.expr(s.Upper, 0)
		p.buf.WriteByte('\n')
		p.nested(s.Body)

	case *LabelStmt:
		if p.indent > 0 {
			p.tab(p.indent - 1)
		}
		p.buf.WriteString(s.Label.Name)
		p.buf.WriteString(":\n")

	case *Goto:
		p.line("goto ", s.Label.Name, "\n")

	case *CondGoto:
		cond := " unless "
		if s.JumpIfTrue {
			cond = " if "
		}
		p.line("goto ", s.Label.Name, cond)
		p.expr(s.Cond, 0)
		p.buf.WriteByte('\n')

	case *Return:
		p.line("return")
		if s.Result != nil {
			p.buf.WriteByte(' ')
			p.expr(s.Result, 0)
		}
		p.buf.WriteByte('\n')

	default:
		log.Fatalf("%T: unexpected statement", s)
		panic("unreachable")
	}
}

const (
	precAssign  = 0
	precUnary   = 10
	precPostfix = 11
)

var precedence = [...]int{
	LogicalOr:      1,
	LogicalAnd:     2,
	BitwiseOr:      3,
	BitwiseXor:     4,
	BitwiseAnd:     5,
	Equal:          6,
	NotEqual:       6,
	Less:           7,
	LessOrEqual:    7,
	Greater:        7,
	GreaterOrEqual: 7,
	Addition:       8,
	Subtraction:    8,
	Concatenation:  8,
	Multiplication: 9,
	Division:       9,
	Modulo:         9,
}

// expr prints e, parenthesized if it binds less tightly than prec.
func (p *printer) expr(e Expr, prec int) {
	var own int
	switch e := e.(type) {
	case *Assign:
		own = precAssign
	case *Binary:
		own = precedence[e.Op.Kind]
	case *Unary:
		own = precUnary
	default:
		own = precPostfix
	}
	if own < prec {
		p.buf.WriteByte('(')
		defer p.buf.WriteByte(')')
	}

	switch e := e.(type) {
	case *ErrorExpr:
		p.buf.WriteString("?")

	case *Literal:
		p.buf.WriteString(FormatValue(e.Value))

	case *VarExpr:
		p.buf.WriteString(e.Var.Name())

	case *ParamExpr:
		p.buf.WriteString(e.Param.Name())

	case *This:
		p.buf.WriteString("this")

	case *FieldExpr:
		p.expr(e.X, precPostfix)
		p.buf.WriteByte('.')
		p.buf.WriteString(e.Field.Name())

	case *PropertyExpr:
		p.expr(e.X, precPostfix)
		p.buf.WriteByte('.')
		p.buf.WriteString(e.Property.Name())

	case *IndexExpr:
		p.expr(e.X, precPostfix)
		p.buf.WriteByte('[')
		p.args(e.Args)
		p.buf.WriteByte(']')

	case *Conversion:
		p.buf.WriteString(e.T.String())
		p.buf.WriteByte('(')
		p.expr(e.X, 0)
		p.buf.WriteByte(')')

	case *Unary:
		p.buf.WriteString(e.Op.Token.String())
		p.expr(e.X, precUnary)

	case *Binary:
		p.expr(e.X, own)
		p.buf.WriteByte(' ')
		p.buf.WriteString(e.Op.Token.String())
		p.buf.WriteByte(' ')
		p.expr(e.Y, own+1)

	case *Assign:
		p.expr(e.Target, precPostfix)
		p.buf.WriteString(" = ")
		p.expr(e.Value, precAssign)

	case *Call:
		p.buf.WriteString(e.Fn.Name())
		p.buf.WriteByte('(')
		p.args(e.Args)
		p.buf.WriteByte(')')

	case *MethodCall:
		if e.Receiver != nil {
			p.expr(e.Receiver, precPostfix)
			p.buf.WriteByte('.')
		}
		p.buf.WriteString(e.Method.Name())
		p.buf.WriteByte('(')
		p.args(e.Args)
		p.buf.WriteByte(')')

	case *New:
		p.buf.WriteString("new ")
		p.buf.WriteString(e.Ctor.Result().String())
		p.buf.WriteByte('(')
		p.args(e.Args)
		p.buf.WriteByte(')')

	default:
		log.Fatalf("%T: unexpected expression", e)
		panic("unreachable")
	}
}

func (p *printer) args(args []Expr) {
	for i, arg := range args {
		if i > 0 {
			p.buf.WriteString(", ")
		}
		p.expr(arg, 0)
	}
}

// FormatValue formats a literal value as it would appear in source.
func FormatValue(v interface{}) string {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return strconv.Quote(v)
	case rune:
		return strconv.QuoteRune(v)
	}
	log.Fatalf("%T: unexpected literal", v)
	panic("unreachable")
}
