package claro

import "strconv"

// Parser is a hand-written recursive-descent parser over a Tokenizer.
// The precedence ladder, lowest to highest, is OR < AND < NOT < == != <
// < <= > >= < + - < * / < unary minus; every binary level is
// left-associative. Type checking runs inline through the shared
// checker as each node is built.
//
// On a syntax error the parser records it and skips to the next
// statement boundary, keeping whatever parsed cleanly.
type Parser struct {
	tokenizer Tokenizer
	checker   *checker

	buf    []Token
	errors []CompileError
}

func NewParser(tokenizer Tokenizer, stab *SymbolTable) *Parser {
	return &Parser{
		tokenizer: tokenizer,
		checker:   newChecker(stab),
	}
}

// Run drives the tokenizer and parses until end of input.
func (p *Parser) Run() *AST {
	go p.tokenizer.Do()

	ast := &AST{}

	for p.peek().Typ != TokenEOF {
		ast.Statements = append(ast.Statements, p.statement())
	}

	return ast
}

// SyntaxErrors returns the syntactic error list, ordered by occurrence.
func (p *Parser) SyntaxErrors() []CompileError {
	return p.errors
}

// SemanticErrors returns the static semantic errors gathered by the
// inline type checker.
func (p *Parser) SemanticErrors() []CompileError {
	return p.checker.errors
}

func (p *Parser) peek() Token {
	if len(p.buf) == 0 {
		p.buf = append(p.buf, p.fetch())
	}

	return p.buf[len(p.buf)-1]
}

func (p *Parser) next() Token {
	if len(p.buf) > 0 {
		tok := p.buf[len(p.buf)-1]
		if tok.Typ == TokenEOF {
			// Keep EOF buffered; the stream has nothing after it
			return tok
		}

		p.buf = p.buf[:len(p.buf)-1]
		return tok
	}

	tok := p.fetch()
	if tok.Typ == TokenEOF {
		p.buf = append(p.buf, tok)
	}

	return tok
}

// unread pushes a consumed token back. One level is enough to
// disambiguate "IDENT = expr" from an identifier expression.
func (p *Parser) unread(tok Token) {
	p.buf = append(p.buf, tok)
}

func (p *Parser) fetch() Token {
	return p.tokenizer.Get()
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Typ == typ
}

func (p *Parser) consume(typ TokenType) bool {
	if !p.check(typ) {
		return false
	}

	p.next()
	return true
}

// fail records a syntax error for the given token and returns a BadExpr
// after synchronising to the next statement boundary.
func (p *Parser) fail(tok Token) Expr {
	if tok.Typ == TokenEOF {
		p.errors = append(p.errors, &SyntaxError{})
	} else {
		p.errors = append(p.errors, &SyntaxError{
			Loc:   tok.Loc,
			Token: tok.Value,
		})
	}

	p.synchronize()

	return &BadExpr{
		Location: tok.Loc,
		Error:    "bad statement",
	}
}

// synchronize skips tokens until something that can open a statement, a
// closing brace, or end of input. Always makes progress.
func (p *Parser) synchronize() {
	if p.check(TokenEOF) || p.check(TokenCloseCurly) || p.peek().canStartStatement() {
		p.next()
	}

	for {
		tok := p.peek()
		if tok.Typ == TokenEOF || tok.Typ == TokenCloseCurly || tok.canStartStatement() {
			return
		}

		p.next()
	}
}

func (p *Parser) statement() Expr {
	switch tok := p.peek(); tok.Typ {
	case TokenIf:
		return p.ifStmt()
	case TokenWhile:
		return p.whileStmt()
	case TokenIdentifier:
		id := p.next()
		if p.check(TokenAssign) {
			return p.assignStmt(id)
		}

		p.unread(id)
		return p.expr()
	default:
		return p.expr()
	}
}

func (p *Parser) assignStmt(id Token) Expr {
	p.next() // =

	value := p.expr()
	p.checker.assign(id.Value, value)

	return &AssignStmt{
		Name:  id.Value,
		Value: value,
	}
}

func (p *Parser) ifStmt() Expr {
	start := p.next() // IF keyword

	if !p.consume(TokenOpenParentheses) {
		return p.fail(p.peek())
	}

	cond := p.expr()

	if !p.consume(TokenCloseParentheses) {
		return p.fail(p.peek())
	}

	p.checker.condition("IF", cond, start.Loc)

	then, ok := p.block()
	if !ok {
		return p.fail(p.peek())
	}

	if !p.check(TokenElse) {
		return &IfStmt{
			Cond: cond,
			Then: then,
		}
	}

	p.next() // ELSE keyword

	elseBlock, ok := p.block()
	if !ok {
		return p.fail(p.peek())
	}

	return &IfStmt{
		Cond: cond,
		Then: then,
		Else: elseBlock,
	}
}

func (p *Parser) whileStmt() Expr {
	start := p.next() // WHILE keyword

	if !p.consume(TokenOpenParentheses) {
		return p.fail(p.peek())
	}

	cond := p.expr()

	if !p.consume(TokenCloseParentheses) {
		return p.fail(p.peek())
	}

	p.checker.condition("WHILE", cond, start.Loc)

	body, ok := p.block()
	if !ok {
		return p.fail(p.peek())
	}

	return &WhileStmt{
		Cond: cond,
		Body: body,
	}
}

// block parses '{' statement* '}'. Braces are mandatory: a bare single
// statement is not a valid block.
func (p *Parser) block() ([]Expr, bool) {
	if !p.consume(TokenOpenCurly) {
		return nil, false
	}

	var stmts []Expr
	for !p.check(TokenCloseCurly) {
		if p.check(TokenEOF) {
			return nil, false
		}

		stmts = append(stmts, p.statement())
	}

	p.next() // }
	return stmts, true
}

func (p *Parser) expr() Expr {
	return p.orExpr()
}

func (p *Parser) orExpr() Expr {
	lhs := p.andExpr()

	for p.check(TokenOr) {
		op := p.next()
		lhs = p.checker.binary(BinaryOr, lhs, p.andExpr(), op.Loc)
	}

	return lhs
}

func (p *Parser) andExpr() Expr {
	lhs := p.notExpr()

	for p.check(TokenAnd) {
		op := p.next()
		lhs = p.checker.binary(BinaryAnd, lhs, p.notExpr(), op.Loc)
	}

	return lhs
}

func (p *Parser) notExpr() Expr {
	if p.check(TokenNot) {
		op := p.next()
		return p.checker.not(p.notExpr(), op.Loc)
	}

	return p.equalityExpr()
}

func (p *Parser) equalityExpr() Expr {
	lhs := p.relationalExpr()

	for p.check(TokenEquals) || p.check(TokenNotEquals) {
		op := p.next()
		lhs = p.checker.binary(BinaryOp(op.Value), lhs, p.relationalExpr(), op.Loc)
	}

	return lhs
}

func (p *Parser) relationalExpr() Expr {
	lhs := p.additiveExpr()

	for p.check(TokenLess) || p.check(TokenLessEq) || p.check(TokenGreater) || p.check(TokenGreaterEq) {
		op := p.next()
		lhs = p.checker.binary(BinaryOp(op.Value), lhs, p.additiveExpr(), op.Loc)
	}

	return lhs
}

func (p *Parser) additiveExpr() Expr {
	lhs := p.multiplicativeExpr()

	for p.check(TokenPlus) || p.check(TokenMinus) {
		op := p.next()
		lhs = p.checker.binary(BinaryOp(op.Value), lhs, p.multiplicativeExpr(), op.Loc)
	}

	return lhs
}

func (p *Parser) multiplicativeExpr() Expr {
	lhs := p.unaryExpr()

	for p.check(TokenMulti) || p.check(TokenDiv) {
		op := p.next()
		lhs = p.checker.binary(BinaryOp(op.Value), lhs, p.unaryExpr(), op.Loc)
	}

	return lhs
}

func (p *Parser) unaryExpr() Expr {
	if p.check(TokenMinus) {
		p.next()

		// No static check on unary minus; the evaluator enforces
		// numeric-ness at runtime
		return &UnaryExpr{
			Operation: UnaryNegative,
			Operand:   p.unaryExpr(),
		}
	}

	return p.primary()
}

func (p *Parser) primary() Expr {
	switch tok := p.peek(); tok.Typ {
	case TokenOpenParentheses:
		return p.parenthesisedExpression()
	case TokenIdentifier:
		id := p.next()
		return p.checker.ident(id.Value, id.Loc)
	case TokenNumber:
		return p.numberLit()
	default:
		return p.fail(p.next())
	}
}

func (p *Parser) parenthesisedExpression() Expr {
	p.next() // (

	exp := p.expr()

	if !p.consume(TokenCloseParentheses) {
		return p.fail(p.peek())
	}

	return exp
}

func (p *Parser) numberLit() Expr {
	tok := p.next()

	v, err := strconv.ParseFloat(tok.Value, 64)
	if err != nil {
		return p.fail(tok)
	}

	return &NumberLit{Value: v}
}
