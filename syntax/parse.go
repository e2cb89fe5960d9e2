// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file defines a recursive-descent parser for Eagle.
// The parser never stops at the first error: it records it, makes
// progress by at least one token, and carries on, so that a single
// Parse call reports every syntax error of a file.

import (
	"bytes"
	"fmt"
)

// Parse parses the input data and returns the corresponding parse tree.
//
// If src != nil, Parse parses the source from src and the filename
// is only used when recording position information.
// The type of the argument for the src parameter must be string or []byte.
// If src == nil, Parse parses the file specified by filename.
//
// The returned file is never nil when the source could be read, even if
// the error (an ErrorList) is not.
func Parse(filename string, src interface{}) (*File, error) {
	in, err := readSource(filename, src)
	if err != nil {
		return nil, err
	}
	p := newParser(filename, in)
	f := p.parseFile()
	if errs := p.errors(); len(errs) > 0 {
		return f, errs
	}
	return f, nil
}

// ParseExpr parses an Eagle expression.
func ParseExpr(filename string, src interface{}) (Expr, error) {
	in, err := readSource(filename, src)
	if err != nil {
		return nil, err
	}
	p := newParser(filename, in)
	expr := p.parseExpr()
	for p.tok.tok == SEMI {
		p.next()
	}
	if p.tok.tok != EOF {
		p.errorf(p.tok.pos, "Unexpected token %#v, expected end of file.", p.tok.tok)
	}
	if errs := p.errors(); len(errs) > 0 {
		return expr, errs
	}
	return expr, nil
}

// ParseCompoundStmt parses a single REPL submission, reading as many
// lines as needed from readline: input is complete when it parses
// without running off the end, or when a blank line is read.
//
// A blank first line yields a File with no statements.
func ParseCompoundStmt(filename string, readline func() ([]byte, error)) (*File, error) {
	var buf bytes.Buffer
	for {
		line, err := readline()
		if err != nil {
			return nil, err
		}
		blank := len(bytes.TrimSpace(line)) == 0
		if blank && buf.Len() == 0 {
			return &File{Path: filename}, nil
		}
		buf.Write(line)

		f, err := Parse(filename, buf.Bytes())
		if err != nil && !blank && incomplete(f, err) {
			continue // read another line
		}
		return f, err
	}
}

// incomplete reports whether err was caused by running out of input.
func incomplete(f *File, err error) bool {
	errs, ok := err.(ErrorList)
	if !ok || f == nil {
		return false
	}
	last := errs[len(errs)-1]
	return last.Pos.Line == f.EOF.Line && last.Pos.Col == f.EOF.Col
}

type parser struct {
	toks []token
	i    int
	tok  token // current token; toks[i]
	sc   *scanner
	errs ErrorList
}

func newParser(filename string, src []byte) *parser {
	sc := newScanner(filename, src)
	p := &parser{toks: sc.scanAll(), sc: sc}
	p.tok = p.toks[0]
	return p
}

// errors returns the scanner and parser errors, in that order.
func (p *parser) errors() ErrorList {
	return append(append(ErrorList(nil), p.sc.errs...), p.errs...)
}

// next advances to the next token and returns the old one.
func (p *parser) next() token {
	t := p.tok
	if p.i < len(p.toks)-1 {
		p.i++
	}
	p.tok = p.toks[p.i]
	return t
}

// peek returns the kind of the token n positions ahead of the current one.
func (p *parser) peek(n int) Token {
	if p.i+n < len(p.toks) {
		return p.toks[p.i+n].tok
	}
	return EOF
}

func (p *parser) errorf(pos Position, format string, args ...interface{}) {
	// Report at most one error per position.
	if n := len(p.errs); n > 0 && p.errs[n-1].Pos == pos {
		return
	}
	p.errs = append(p.errs, Error{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// consume consumes a token of the expected kind and returns its position.
// If the current token is of a different kind, consume reports an error
// and returns the current position without advancing.
func (p *parser) consume(t Token) Position {
	if p.tok.tok != t {
		p.errorf(p.tok.pos, "Unexpected token %#v, expected %#v.", p.tok.tok, t)
		return p.tok.pos
	}
	return p.next().pos
}

func (p *parser) skipSemis() {
	for p.tok.tok == SEMI {
		p.next()
	}
}

// file = {decl | stmt} EOF
func (p *parser) parseFile() *File {
	f := new(File)
	f.Path = p.tok.pos.Filename()
	for p.skipSemis(); p.tok.tok != EOF; p.skipSemis() {
		start := p.i
		if stmt := p.parseTopLevel(); stmt != nil {
			f.Stmts = append(f.Stmts, stmt)
		}
		if p.i == start {
			p.next() // ensure progress after an error
		}
	}
	f.EOF = p.tok.pos
	return f
}

func (p *parser) parseTopLevel() Stmt {
	switch p.tok.tok {
	case EXTERN:
		extern := p.next().pos
		proto := p.parsePrototype(p.parseIdent())
		return &ExternDecl{Extern: extern, Prototype: *proto}
	case ALIAS:
		alias := p.next().pos
		name := p.parseIdent()
		p.consume(EQ)
		return &AliasDecl{Alias: alias, Name: name, Type: p.parseType()}
	case CONST:
		return p.parseConstDecl()
	case OBJECT, STRUCT, CLASS:
		return p.parseObjectDecl()
	case IDENT:
		if p.peek(1) == LPAREN && p.isFuncDecl() {
			proto := p.parsePrototype(p.parseIdent())
			return &FuncDecl{Prototype: *proto, Body: p.parseBlock()}
		}
	}
	return p.parseStmt()
}

// isFuncDecl reports whether the tokens at the current position,
// IDENT '(' ..., begin a function declaration rather than a call.
// A declaration has its parameter list followed by '{' or ':',
// or has a first parameter of the form "name :".
func (p *parser) isFuncDecl() bool {
	if p.peek(2) == IDENT && p.peek(3) == COLON {
		return true
	}
	depth := 0
	for j := p.i + 1; j < len(p.toks); j++ {
		switch p.toks[j].tok {
		case LPAREN:
			depth++
		case RPAREN:
			depth--
			if depth == 0 {
				next := p.peek(j + 1 - p.i)
				return next == LBRACE || next == COLON
			}
		case EOF:
			return false
		}
	}
	return false
}

func (p *parser) parseIdent() *Ident {
	if p.tok.tok != IDENT {
		p.errorf(p.tok.pos, "Unexpected token %#v, expected identifier.", p.tok.tok)
		return &Ident{NamePos: p.tok.pos}
	}
	t := p.next()
	return &Ident{NamePos: t.pos, Name: t.raw}
}

// type = IDENT {'*'}
func (p *parser) parseType() *TypeRef {
	ref := &TypeRef{Name: p.parseIdent()}
	_, ref.end = ref.Name.Span()
	for p.tok.tok == STAR {
		ref.end = p.next().end
		ref.Stars++
	}
	return ref
}

// prototype = '(' [param {',' param}] ')' [':' type]
func (p *parser) parsePrototype(name *Ident) *Prototype {
	proto := &Prototype{Name: name}
	proto.Lparen = p.consume(LPAREN)
	proto.Params = p.parseParams(RPAREN)
	proto.Rparen = p.consume(RPAREN)
	if p.tok.tok == COLON {
		p.next()
		proto.Result = p.parseType()
	}
	return proto
}

// params = [IDENT ':' type {',' IDENT ':' type}]
func (p *parser) parseParams(close Token) []*Param {
	var params []*Param
	for p.tok.tok != close && p.tok.tok != EOF {
		start := p.i
		name := p.parseIdent()
		p.consume(COLON)
		params = append(params, &Param{Name: name, Type: p.parseType()})
		if p.tok.tok != COMMA {
			break
		}
		p.next()
		if p.i == start {
			break
		}
	}
	return params
}

// const_decl = 'const' IDENT [':' type] '=' expr
func (p *parser) parseConstDecl() *ConstDecl {
	decl := &ConstDecl{Const: p.next().pos}
	decl.Name = p.parseIdent()
	if p.tok.tok == COLON {
		p.next()
		decl.Type = p.parseType()
	}
	p.consume(EQ)
	decl.Value = p.parseExpr()
	return decl
}

// object_decl = ('object'|'struct'|'class') IDENT [':' type {',' type}] '{' {member} '}'
func (p *parser) parseObjectDecl() *ObjectDecl {
	t := p.next()
	decl := &ObjectDecl{Keyword: t.pos, Token: t.tok}
	decl.Name = p.parseIdent()
	if p.tok.tok == COLON {
		p.next()
		decl.Bases = append(decl.Bases, p.parseType())
		for p.tok.tok == COMMA {
			p.next()
			decl.Bases = append(decl.Bases, p.parseType())
		}
	}
	p.consume(LBRACE)
	for p.skipMemberSeps(); p.tok.tok != RBRACE && p.tok.tok != EOF; p.skipMemberSeps() {
		start := p.i
		if m := p.parseMember(); m != nil {
			decl.Members = append(decl.Members, m)
		}
		if p.i == start {
			p.next()
		}
	}
	decl.Rbrace = p.consume(RBRACE)
	return decl
}

func (p *parser) skipMemberSeps() {
	for p.tok.tok == SEMI || p.tok.tok == COMMA {
		p.next()
	}
}

func (p *parser) parseMember() Member {
	switch p.tok.tok {
	case CTOR:
		t := p.next()
		name := &Ident{NamePos: t.pos, Name: t.raw}
		proto := p.parsePrototype(name)
		return &CtorDecl{Prototype: *proto, Body: p.parseBlock()}

	case LBRACK:
		decl := &IndexerDecl{Lbrack: p.next().pos}
		decl.Params = p.parseParams(RBRACK)
		p.consume(RBRACK)
		p.consume(COLON)
		decl.Type = p.parseType()
		decl.Get, decl.Set, decl.EndPos = p.parseAccessors()
		return decl

	case IDENT:
		if p.peek(1) == LPAREN {
			proto := p.parsePrototype(p.parseIdent())
			return &MethodDecl{Prototype: *proto, Body: p.parseBlock()}
		}
		name := p.parseIdent()
		p.consume(COLON)
		typ := p.parseType()
		switch p.tok.tok {
		case ARROW, LBRACE:
			decl := &PropertyDecl{Name: name, Type: typ}
			decl.Get, decl.Set, decl.EndPos = p.parseAccessors()
			return decl
		case EQ:
			p.next()
			return &FieldDecl{Name: name, Type: typ, Init: p.parseExpr()}
		}
		return &FieldDecl{Name: name, Type: typ}
	}
	p.errorf(p.tok.pos, "Unexpected token %#v, expected member declaration.", p.tok.tok)
	return nil
}

// accessors = '=>' expr
//           | '{' {('get'|'set') ('=>' expr | block)} '}'
func (p *parser) parseAccessors() (get, set *BlockStmt, end Position) {
	if p.tok.tok == ARROW {
		get = p.parseExprBody(true)
		return get, nil, get.Rbrace
	}
	p.consume(LBRACE)
	for p.skipSemis(); p.tok.tok == GET || p.tok.tok == SET; p.skipSemis() {
		isGet := p.next().tok == GET
		var body *BlockStmt
		if p.tok.tok == ARROW {
			body = p.parseExprBody(isGet)
		} else {
			body = p.parseBlock()
		}
		if isGet {
			get = body
		} else {
			set = body
		}
	}
	end = p.consume(RBRACE).add("}")
	return get, set, end
}

// parseExprBody parses "=> expr" as a one-statement block:
// "{ return expr }" for a getter, "{ expr }" for a setter.
func (p *parser) parseExprBody(result bool) *BlockStmt {
	arrow := p.consume(ARROW)
	x := p.parseExpr()
	var stmt Stmt = &ExprStmt{X: x}
	if result {
		stmt = &ReturnStmt{Return: arrow, Result: x}
	}
	return &BlockStmt{Lbrace: arrow, Stmts: []Stmt{stmt}, Rbrace: End(x)}
}

// block = '{' {stmt} '}'
func (p *parser) parseBlock() *BlockStmt {
	block := &BlockStmt{Lbrace: p.consume(LBRACE)}
	for p.skipSemis(); p.tok.tok != RBRACE && p.tok.tok != EOF; p.skipSemis() {
		start := p.i
		if stmt := p.parseStmt(); stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
		if p.i == start {
			p.next()
		}
	}
	block.Rbrace = p.consume(RBRACE)
	return block
}

func (p *parser) parseStmt() Stmt {
	switch p.tok.tok {
	case LBRACE:
		return p.parseBlock()

	case LET, VAR:
		t := p.next()
		decl := &VarDecl{Keyword: t.pos, Token: t.tok}
		decl.Name = p.parseIdent()
		if p.tok.tok == COLON {
			p.next()
			decl.Type = p.parseType()
		}
		p.consume(EQ)
		decl.Init = p.parseExpr()
		return decl

	case IF:
		stmt := &IfStmt{If: p.next().pos}
		stmt.Cond = p.parseExpr()
		stmt.Then = p.parseStmt()
		if p.tok.tok == ELSE {
			stmt.ElsePos = p.next().pos
			stmt.Else = p.parseStmt()
		}
		return stmt

	case WHILE:
		stmt := &WhileStmt{While: p.next().pos}
		stmt.Cond = p.parseExpr()
		stmt.Body = p.parseStmt()
		return stmt

	case LOOP:
		stmt := &LoopStmt{Loop: p.next().pos}
		stmt.Body = p.parseStmt()
		return stmt

	case FOR:
		stmt := &ForStmt{For: p.next().pos}
		stmt.Var = p.parseIdent()
		p.consume(EQ)
		stmt.Lower = p.parseExpr()
		p.consume(TO)
		stmt.Upper = p.parseExpr()
		stmt.Body = p.parseStmt()
		return stmt

	case BREAK, CONTINUE:
		t := p.next()
		return &BranchStmt{Token: t.tok, TokenPos: t.pos}

	case RETURN:
		t := p.next()
		stmt := &ReturnStmt{Return: t.pos}
		switch p.tok.tok {
		case RBRACE, SEMI, EOF:
			// no result
		default:
			if p.tok.pos.Line == t.pos.Line {
				stmt.Result = p.parseExpr()
			}
		}
		return stmt

	case EXTERN, ALIAS, CONST, OBJECT, STRUCT, CLASS:
		p.errorf(p.tok.pos, "Declaration %#v is only allowed at top level.", p.tok.tok)
		return nil
	}
	return &ExprStmt{X: p.parseExpr()}
}

// expr = binary ['=' expr]
func (p *parser) parseExpr() Expr {
	x := p.parseBinaryExpr(1)
	if p.tok.tok == EQ {
		pos := p.next().pos
		return &AssignExpr{LHS: x, OpPos: pos, RHS: p.parseExpr()}
	}
	return x
}

// precedence maps each binary operator to its precedence (0-9).
var precedence = [maxToken]int8{
	OROR:       1,
	ANDAND:     2,
	PIPE:       3,
	CIRCUMFLEX: 4,
	AMP:        5,
	EQL:        6,
	NEQ:        6,
	LT:         7,
	GT:         7,
	GE:         7,
	LE:         7,
	PLUS:       8,
	MINUS:      8,
	STAR:       9,
	SLASH:      9,
	PERCENT:    9,
}

// binary = unary {op binary}, by precedence climbing.
func (p *parser) parseBinaryExpr(prec int) Expr {
	x := p.parseUnaryExpr()
	for {
		op := p.tok.tok
		opprec := int(precedence[op])
		if opprec == 0 || opprec < prec {
			return x
		}
		pos := p.next().pos
		y := p.parseBinaryExpr(opprec + 1)
		x = &BinaryExpr{X: x, OpPos: pos, Op: op, Y: y}
	}
}

// unary = ('+'|'-'|'!'|'~') unary | postfix
func (p *parser) parseUnaryExpr() Expr {
	switch p.tok.tok {
	case PLUS, MINUS, BANG, TILDE:
		t := p.next()
		return &UnaryExpr{OpPos: t.pos, Op: t.tok, X: p.parseUnaryExpr()}
	}
	return p.parsePostfixExpr()
}

// postfix = primary {'(' args ')' | '.' IDENT | '[' args ']'}
func (p *parser) parsePostfixExpr() Expr {
	x := p.parsePrimaryExpr()
	for {
		switch p.tok.tok {
		case LPAREN:
			call := &CallExpr{Fn: x, Lparen: p.next().pos}
			call.Args = p.parseArgs(RPAREN)
			call.Rparen = p.consume(RPAREN)
			x = call
		case DOT:
			dot := p.next().pos
			x = &DotExpr{X: x, Dot: dot, Name: p.parseIdent()}
		case LBRACK:
			index := &IndexExpr{X: x, Lbrack: p.next().pos}
			index.Args = p.parseArgs(RBRACK)
			index.Rbrack = p.consume(RBRACK)
			x = index
		default:
			return x
		}
	}
}

func (p *parser) parseArgs(close Token) []Expr {
	var args []Expr
	for p.tok.tok != close && p.tok.tok != EOF {
		start := p.i
		args = append(args, p.parseExpr())
		if p.tok.tok != COMMA || p.i == start {
			break
		}
		p.next()
	}
	return args
}

func (p *parser) parsePrimaryExpr() Expr {
	switch p.tok.tok {
	case IDENT:
		return p.parseIdent()

	case INT, STRING, CHAR:
		t := p.next()
		return &Literal{Token: t.tok, TokenPos: t.pos, Raw: t.raw, Value: t.val}

	case TRUE, FALSE:
		t := p.next()
		return &Literal{Token: t.tok, TokenPos: t.pos, Raw: t.raw, Value: t.tok == TRUE}

	case THIS:
		return &ThisExpr{This: p.next().pos}

	case NEW:
		x := &NewExpr{New: p.next().pos}
		x.Type = p.parseType()
		p.consume(LPAREN)
		x.Args = p.parseArgs(RPAREN)
		x.Rparen = p.consume(RPAREN)
		return x

	case LPAREN:
		if p.isCast() {
			lparen := p.next().pos
			typ := p.parseType()
			p.consume(RPAREN)
			return &CastExpr{Lparen: lparen, Type: typ, X: p.parseUnaryExpr()}
		}
		paren := &ParenExpr{Lparen: p.next().pos}
		paren.X = p.parseExpr()
		paren.Rparen = p.consume(RPAREN)
		return paren
	}
	p.errorf(p.tok.pos, "Unexpected token %#v, expected expression.", p.tok.tok)
	return &Ident{NamePos: p.tok.pos} // placeholder; empty name
}

// isCast reports whether the current '(' begins a cast "(T)x":
// a parenthesized type followed by the start of an operand.
// A pointer type is always a cast.
func (p *parser) isCast() bool {
	if p.peek(1) != IDENT {
		return false
	}
	n := 2
	for p.peek(n) == STAR {
		n++
	}
	if p.peek(n) != RPAREN {
		return false
	}
	if n > 2 {
		return true
	}
	switch p.peek(n + 1) {
	case IDENT, INT, STRING, CHAR, TRUE, FALSE, LPAREN, THIS, NEW, BANG, TILDE:
		return true
	}
	return false
}
