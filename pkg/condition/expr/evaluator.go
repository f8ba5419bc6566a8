package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/condition"
)

// Evaluator is a small, dependency-free condition evaluator.
//
// Supported operators:
// - boolean checks: `published`
// - comparisons: `status == "draft"`, `kind != 'page'`, `count == 3`
// - numeric ordering: `word_count > 100`, `price <= 9.5`
// - boolean composition: `a == true && b != false`, `a || !b`
//
// Identifiers resolve through condition.Context.Lookup first and then
// condition.Context.Values (with dot-path traversal). Parsed expressions are
// cached per evaluator.
type Evaluator struct {
	programs sync.Map
}

func New() *Evaluator { return &Evaluator{} }

var _ condition.Evaluator = (*Evaluator)(nil)

func (e *Evaluator) Eval(expression string, ctx condition.Context) (bool, error) {
	node, err := e.compile(expression)
	if err != nil {
		return false, err
	}
	if node == nil {
		return true, nil
	}
	return node.eval(ctx)
}

// Validate parses the expression without evaluating it.
func (e *Evaluator) Validate(expression string) error {
	_, err := e.compile(expression)
	return err
}

func (e *Evaluator) compile(expression string) (exprNode, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return nil, nil
	}
	if cached, ok := e.programs.Load(trimmed); ok {
		node, _ := cached.(exprNode)
		return node, nil
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	node, err := parseExpression(tokens)
	if err != nil {
		return nil, err
	}
	e.programs.Store(trimmed, node)
	return node, nil
}

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	next := func() byte {
		if i >= len(input) {
			return 0
		}
		return input[i]
	}

	consume := func() byte {
		if i >= len(input) {
			return 0
		}
		ch := input[i]
		i++
		return ch
	}

	for i < len(input) {
		ch := next()
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			i++
			continue
		}

		switch ch {
		case '(':
			consume()
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
			continue
		case ')':
			consume()
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
			continue
		case '!':
			consume()
			if next() == '=' {
				consume()
				tokens = append(tokens, token{kind: tokenNeq, raw: "!="})
				continue
			}
			tokens = append(tokens, token{kind: tokenNot, raw: "!"})
			continue
		case '<', '>':
			consume()
			kind, raw := tokenLt, "<"
			if ch == '>' {
				kind, raw = tokenGt, ">"
			}
			if next() == '=' {
				consume()
				kind++
				raw += "="
			}
			tokens = append(tokens, token{kind: kind, raw: raw})
			continue
		case '=':
			consume()
			if next() != '=' {
				return nil, fmt.Errorf("condition/expr: unexpected '='; use '=='")
			}
			consume()
			tokens = append(tokens, token{kind: tokenEq, raw: "=="})
			continue
		case '&':
			consume()
			if next() != '&' {
				return nil, fmt.Errorf("condition/expr: unexpected '&'; use '&&'")
			}
			consume()
			tokens = append(tokens, token{kind: tokenAnd, raw: "&&"})
			continue
		case '|':
			consume()
			if next() != '|' {
				return nil, fmt.Errorf("condition/expr: unexpected '|'; use '||'")
			}
			consume()
			tokens = append(tokens, token{kind: tokenOr, raw: "||"})
			continue
		case '"', '\'':
			quote := consume()
			start := i
			escaped := false
			closed := false
			for i < len(input) {
				c := consume()
				if escaped {
					escaped = false
					continue
				}
				if c == '\\' {
					escaped = true
					continue
				}
				if c == quote {
					closed = true
					break
				}
			}
			if !closed {
				return nil, errors.New("condition/expr: unterminated string literal")
			}
			body := input[start : i-1]
			if quote == '\'' {
				body = strings.ReplaceAll(body, `\'`, `'`)
				body = strings.ReplaceAll(body, `"`, `\"`)
			}
			value, err := strconv.Unquote(`"` + body + `"`)
			if err != nil {
				return nil, fmt.Errorf("condition/expr: invalid string literal: %w", err)
			}
			tokens = append(tokens, token{kind: tokenString, raw: value})
			continue
		}

		// identifier / number / keyword
		start := i
		for i < len(input) {
			c := input[i]
			if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '(' || c == ')' || c == '!' || c == '=' || c == '&' || c == '|' || c == '<' || c == '>' {
				break
			}
			i++
		}
		raw := strings.TrimSpace(input[start:i])
		if raw == "" {
			continue
		}
		switch strings.ToLower(raw) {
		case "true", "false":
			tokens = append(tokens, token{kind: tokenBool, raw: strings.ToLower(raw)})
		case "null", "nil":
			tokens = append(tokens, token{kind: tokenNull, raw: "null"})
		default:
			if looksLikeNumber(raw) {
				tokens = append(tokens, token{kind: tokenNumber, raw: raw})
			} else {
				tokens = append(tokens, token{kind: tokenIdentifier, raw: raw})
			}
		}
	}

	return tokens, nil
}

func looksLikeNumber(raw string) bool {
	if raw == "" {
		return false
	}
	ch := raw[0]
	return (ch >= '0' && ch <= '9') || ch == '-' || ch == '+'
}

type exprNode interface {
	eval(ctx condition.Context) (bool, error)
}

type exprOr struct {
	left  exprNode
	right exprNode
}

func (n exprOr) eval(ctx condition.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	return n.right.eval(ctx)
}

type exprAnd struct {
	left  exprNode
	right exprNode
}

func (n exprAnd) eval(ctx condition.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return n.right.eval(ctx)
}

type exprNot struct {
	inner exprNode
}

func (n exprNot) eval(ctx condition.Context) (bool, error) {
	ok, err := n.inner.eval(ctx)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type literalKind int

const (
	litString literalKind = iota
	litNumber
	litBool
	litNull
)

type literal struct {
	kind literalKind
	raw  string
}

type exprCompare struct {
	identifier string
	op         tokenKind
	literal    literal
}

func (n exprCompare) eval(ctx condition.Context) (bool, error) {
	value, ok := lookup(ctx, n.identifier)
	if !ok {
		value = nil
	}

	if n.isOrdering() {
		if n.literal.kind != litNumber {
			return false, fmt.Errorf("condition/expr: operator %q requires a number literal", n.opString())
		}
		want, err := strconv.ParseFloat(n.literal.raw, 64)
		if err != nil {
			return false, fmt.Errorf("condition/expr: invalid number literal %q", n.literal.raw)
		}
		got, ok := coerceNumber(value)
		if !ok {
			return false, nil
		}
		switch n.op {
		case tokenLt:
			return got < want, nil
		case tokenLte:
			return got <= want, nil
		case tokenGt:
			return got > want, nil
		default:
			return got >= want, nil
		}
	}

	switch n.literal.kind {
	case litNull:
		isNull := value == nil
		if n.op == tokenEq {
			return isNull, nil
		}
		return !isNull, nil
	case litBool:
		want := n.literal.raw == "true"
		got, _ := coerceBool(value)
		if n.op == tokenEq {
			return got == want, nil
		}
		return got != want, nil
	case litNumber:
		want, err := strconv.ParseFloat(n.literal.raw, 64)
		if err != nil {
			return false, fmt.Errorf("condition/expr: invalid number literal %q", n.literal.raw)
		}
		got, ok := coerceNumber(value)
		if !ok {
			got = 0
		}
		if n.op == tokenEq {
			return got == want, nil
		}
		return got != want, nil
	case litString:
		want := n.literal.raw
		got := coerceString(value)
		if n.op == tokenEq {
			return got == want, nil
		}
		return got != want, nil
	default:
		return false, fmt.Errorf("condition/expr: unsupported literal")
	}
}

func (n exprCompare) isOrdering() bool {
	switch n.op {
	case tokenLt, tokenLte, tokenGt, tokenGte:
		return true
	default:
		return false
	}
}

func (n exprCompare) opString() string {
	switch n.op {
	case tokenEq:
		return "=="
	case tokenNeq:
		return "!="
	case tokenLt:
		return "<"
	case tokenLte:
		return "<="
	case tokenGt:
		return ">"
	case tokenGte:
		return ">="
	default:
		return "?"
	}
}

type exprTruthy struct {
	identifier string
}

func (n exprTruthy) eval(ctx condition.Context) (bool, error) {
	value, ok := lookup(ctx, n.identifier)
	if !ok {
		return false, nil
	}
	return truthy(value), nil
}

type tokenStream struct {
	tokens []token
	pos    int
}

func parseExpression(tokens []token) (exprNode, error) {
	stream := &tokenStream{tokens: tokens}
	node, err := parseOr(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("condition/expr: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	return node, nil
}

func parseOr(stream *tokenStream) (exprNode, error) {
	left, err := parseAnd(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenOr) {
		right, err := parseAnd(stream)
		if err != nil {
			return nil, err
		}
		left = exprOr{left: left, right: right}
	}
	return left, nil
}

func parseAnd(stream *tokenStream) (exprNode, error) {
	left, err := parseUnary(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenAnd) {
		right, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		left = exprAnd{left: left, right: right}
	}
	return left, nil
}

func parseUnary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenNot) {
		inner, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		return exprNot{inner: inner}, nil
	}
	return parsePrimary(stream)
}

func parsePrimary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenLParen) {
		inner, err := parseOr(stream)
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("condition/expr: missing closing ')'")
		}
		return inner, nil
	}

	ident, ok := stream.consume(tokenIdentifier)
	if !ok {
		if stream.pos >= len(stream.tokens) {
			return nil, errors.New("condition/expr: empty expression")
		}
		return nil, fmt.Errorf("condition/expr: expected identifier, got %q", stream.tokens[stream.pos].raw)
	}

	for _, op := range []tokenKind{tokenEq, tokenNeq, tokenLt, tokenLte, tokenGt, tokenGte} {
		if !stream.match(op) {
			continue
		}
		lit, err := stream.consumeLiteral()
		if err != nil {
			return nil, err
		}
		return exprCompare{identifier: ident.raw, op: op, literal: lit}, nil
	}

	return exprTruthy{identifier: ident.raw}, nil
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) {
		return false
	}
	if s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *tokenStream) consume(kind tokenKind) (token, bool) {
	if s.pos >= len(s.tokens) {
		return token{}, false
	}
	if s.tokens[s.pos].kind != kind {
		return token{}, false
	}
	out := s.tokens[s.pos]
	s.pos++
	return out, true
}

func (s *tokenStream) consumeLiteral() (literal, error) {
	if s.pos >= len(s.tokens) {
		return literal{}, errors.New("condition/expr: missing literal")
	}
	tok := s.tokens[s.pos]
	s.pos++
	switch tok.kind {
	case tokenString:
		return literal{kind: litString, raw: tok.raw}, nil
	case tokenNumber:
		return literal{kind: litNumber, raw: tok.raw}, nil
	case tokenBool:
		return literal{kind: litBool, raw: strings.ToLower(tok.raw)}, nil
	case tokenNull:
		return literal{kind: litNull, raw: "null"}, nil
	case tokenIdentifier:
		// Bare identifiers compare as strings: `status == draft`.
		return literal{kind: litString, raw: tok.raw}, nil
	default:
		return literal{}, fmt.Errorf("condition/expr: expected literal, got %q", tok.raw)
	}
}

func lookup(ctx condition.Context, key string) (any, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}
	if ctx.Lookup != nil {
		if value, ok := ctx.Lookup(key); ok {
			return value, true
		}
	}
	return lookupMap(ctx.Values, key)
}

func lookupMap(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || strings.TrimSpace(path) == "" {
		return nil, false
	}
	path = strings.TrimSpace(path)

	if v, ok := values[path]; ok {
		return v, true
	}

	parts := strings.Split(path, ".")
	var current any = values
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, false
		}
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

func truthy(value any) bool {
	if value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case *bool:
		return v != nil && *v
	case string:
		return strings.TrimSpace(v) != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case float32:
		return v != 0
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func coerceBool(value any) (bool, bool) {
	if value == nil {
		return false, false
	}
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err == nil {
			return parsed, true
		}
		return strings.TrimSpace(v) != "", true
	case int:
		return v != 0, true
	case int64:
		return v != 0, true
	case float64:
		return v != 0, true
	default:
		return truthy(value), true
	}
}

func coerceNumber(value any) (float64, bool) {
	if value == nil {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceString(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(value)
	}
}
