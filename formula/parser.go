// Package formula implements the hand-written recursive-descent
// parser named in SPEC_FULL.md §4.10: it turns a formula body into the
// same Expression tree the core's Infer/Prepare machinery already
// operates on, rather than introducing a second representation.
package formula

import (
	"strconv"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/expr"
	"github.com/colstack/tabular/expr/function"
)

// Parse builds an Expression tree from a formula body (the leading
// "=" already stripped by the caller, per spec.md §6). It returns
// (nil, err) on any syntax error — parsing is an I/O-bearing surface,
// not a Value::Invalid situation, per SPEC_FULL.md §4.10.
func Parse(src string, locale Locale) (tabular.Expression, error) {
	p, err := newParser(src, locale)
	if err != nil {
		return nil, tabular.ErrFormulaSyntax.New(err.Error())
	}
	e, err := p.parseExpr(0)
	if err != nil {
		return nil, tabular.ErrFormulaSyntax.New(err.Error())
	}
	if p.current().kind != tokEOF {
		return nil, tabular.ErrFormulaSyntax.New("unexpected trailing input at position " + strconv.Itoa(p.current().pos))
	}
	return e, nil
}

type parser struct {
	tokens []token
	pos    int
	locale Locale
}

func newParser(src string, locale Locale) (*parser, error) {
	lx := newLexer(src, locale.ArgumentSeparator)
	var tokens []token
	for {
		t, err := lx.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
		if t.kind == tokEOF {
			break
		}
	}
	return &parser{tokens: tokens, locale: locale}, nil
}

func (p *parser) current() token { return p.tokens[p.pos] }

func (p *parser) advance() token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

// binaryOps maps an operator's surface text to its BinaryOp and its
// precedence (higher binds tighter) — comparison loosest, power
// tightest, matching spreadsheet-formula convention per spec.md §6.
var binaryOps = map[string]struct {
	op   tabular.BinaryOp
	prec int
}{
	"=":   {tabular.OpEqual, 1},
	"<>":  {tabular.OpNotEqual, 1},
	">":   {tabular.OpGreater, 1},
	">=":  {tabular.OpGreaterEqual, 1},
	"<":   {tabular.OpLesser, 1},
	"<=":  {tabular.OpLesserEqual, 1},
	"~=":  {tabular.OpContainsString, 1},
	"~==": {tabular.OpContainsStringStrict, 1},
	"~":   {tabular.OpMatchesRegex, 1},
	"~~":  {tabular.OpMatchesRegexStrict, 1},
	"&":   {tabular.OpConcat, 2},
	"+":   {tabular.OpAdd, 3},
	"-":   {tabular.OpSub, 3},
	"*":   {tabular.OpMul, 4},
	"/":   {tabular.OpDiv, 4},
	"%":   {tabular.OpMod, 4},
	"^":   {tabular.OpPow, 5},
}

// parseExpr implements precedence climbing: it consumes operators with
// precedence >= minPrec, parsing the right operand with the operator's
// own precedence+1 for left-associative operators and with the
// operator's own precedence for "^", the sole right-associative one.
func (p *parser) parseExpr(minPrec int) (tabular.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.current()
		if t.kind != tokOp {
			break
		}
		info, ok := binaryOps[t.text]
		if !ok || info.prec < minPrec {
			break
		}
		p.advance()
		nextMin := info.prec + 1
		if info.op == tabular.OpPow {
			nextMin = info.prec
		}
		right, err := p.parseExpr(nextMin)
		if err != nil {
			return nil, err
		}
		left = buildBinary(left, info.op, right)
	}
	return left, nil
}

// buildBinary renders "left op right" as Comparison(First: right,
// Second: left, Op: op) — Comparison evaluates as op(second, first),
// so Second must carry the left operand and First the right one to
// preserve ordinary left-to-right arithmetic (a - b, a / b, a
// contains b), per node.go's documented right-to-left convention.
func buildBinary(left tabular.Expression, op tabular.BinaryOp, right tabular.Expression) tabular.Expression {
	return expr.NewComparison(right, left, op)
}

// powerPrecedence is binaryOps["^"]'s precedence: parseUnary recurses
// at this level so "^" still binds tighter than a leading "-".
var powerPrecedence = binaryOps["^"].prec

// parseUnary handles a leading "-", binding tighter than every binary
// operator except "^" (so "-2^2" parses as "-(2^2)", matching
// spreadsheet-formula convention per spec.md §6 and SPEC_FULL.md §4.10).
func (p *parser) parseUnary() (tabular.Expression, error) {
	if t := p.current(); t.kind == tokOp && t.text == "-" {
		p.advance()
		operand, err := p.parseExpr(powerPrecedence)
		if err != nil {
			return nil, err
		}
		return buildBinary(expr.NewLiteral(tabular.NewInt(0)), tabular.OpSub, operand), nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (tabular.Expression, error) {
	t := p.current()
	switch t.kind {
	case tokNumber:
		p.advance()
		return numberLiteral(t.text), nil
	case tokString:
		p.advance()
		return expr.NewLiteral(tabular.NewString(t.text)), nil
	case tokSibling:
		p.advance()
		return expr.NewSibling(tabular.NewColumn(t.text)), nil
	case tokForeign:
		p.advance()
		return expr.NewForeign(tabular.NewColumn(t.text)), nil
	case tokIdentity:
		p.advance()
		return expr.NewIdentity(), nil
	case tokLParen:
		p.advance()
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if p.current().kind != tokRParen {
			return nil, errAt("expected ')'", p.current().pos)
		}
		p.advance()
		return inner, nil
	case tokIdent:
		return p.parseIdentOrCall(t)
	default:
		return nil, errAt("unexpected token", t.pos)
	}
}

func (p *parser) parseIdentOrCall(t token) (tabular.Expression, error) {
	p.advance()
	switch t.text {
	case "true", "TRUE", "True":
		return expr.NewLiteral(tabular.NewBool(true)), nil
	case "false", "FALSE", "False":
		return expr.NewLiteral(tabular.NewBool(false)), nil
	}
	if p.current().kind != tokLParen {
		// A bare identifier that isn't immediately followed by "(" can
		// only unambiguously mean the same-named column, per spec.md §6.
		return expr.NewSibling(tabular.NewColumn(t.text)), nil
	}
	return p.parseCall(t.text)
}

func (p *parser) parseCall(name string) (tabular.Expression, error) {
	fn, ok := function.Standard().Lookup(name)
	if !ok {
		return nil, errAt("unknown function "+name, p.current().pos)
	}
	p.advance() // consume '('
	var args []tabular.Expression
	if p.current().kind != tokRParen {
		for {
			arg, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.current().kind == tokSeparator {
				p.advance()
				continue
			}
			break
		}
	}
	if p.current().kind != tokRParen {
		return nil, errAt("expected ')' or argument separator", p.current().pos)
	}
	p.advance()
	if !fn.AcceptsArity(len(args)) {
		return nil, errAt(name+" does not accept "+strconv.Itoa(len(args))+" argument(s)", p.pos)
	}
	return expr.NewCall(fn, args...), nil
}

func numberLiteral(text string) tabular.Expression {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return expr.NewLiteral(tabular.NewInt(i))
	}
	f, _ := strconv.ParseFloat(text, 64)
	return expr.NewLiteral(tabular.NewDouble(f))
}

func errAt(msg string, pos int) error {
	return &syntaxError{msg: msg, pos: pos}
}

type syntaxError struct {
	msg string
	pos int
}

func (e *syntaxError) Error() string {
	return e.msg + " at position " + strconv.Itoa(e.pos)
}
