package pylint

import (
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
)

// The lint pass does name resolution across lexical scopes plus placement
// checks for return/yield/break/continue and duplicate parameter names. It
// is deliberately conservative: when a construct is ambiguous (wildcard
// imports, global/nonlocal declarations, match statements) it stays silent
// rather than risk a false positive.

type scopeKind int

const (
	scopeModule scopeKind = iota
	scopeFunction
	scopeClass
	scopeComprehension
)

type scope struct {
	kind     scopeKind
	parent   *scope
	bindings map[string]uint32 // name -> earliest binding start byte
	declared map[string]bool   // global/nonlocal names, assumed defined
	wildcard bool              // scope saw `from x import *`
}

func newScope(kind scopeKind, parent *scope) *scope {
	return &scope{
		kind:     kind,
		parent:   parent,
		bindings: make(map[string]uint32),
		declared: make(map[string]bool),
	}
}

func (s *scope) bind(name string, pos uint32) {
	if old, ok := s.bindings[name]; !ok || pos < old {
		s.bindings[name] = pos
	}
}

type walkCtx struct {
	scope     *scope
	funcDepth int
	loopDepth int
}

type linter struct {
	src        []byte
	violations []Violation
}

// lint walks a syntactically valid tree and returns every violation found,
// ordered by line.
func lint(tree *sitter.Tree, src []byte) []Violation {
	l := &linter{src: src}
	root := tree.RootNode()
	mod := newScope(scopeModule, nil)
	l.collect(root, mod)
	l.walk(root, walkCtx{scope: mod})

	sort.SliceStable(l.violations, func(i, j int) bool {
		return l.violations[i].Line < l.violations[j].Line
	})
	return l.violations
}

func (l *linter) text(n *sitter.Node) string {
	return n.Content(l.src)
}

func (l *linter) report(kind ViolationKind, n *sitter.Node, msg string) {
	l.violations = append(l.violations, Violation{
		Kind:    kind,
		Line:    int(n.StartPoint().Row) + 1,
		Message: msg,
	})
}

// collect gathers every name bound directly in scope s. It walks compound
// statements (if/for/while/try/with bodies belong to the enclosing scope)
// but never enters nested function, class, lambda or comprehension bodies.
func (l *linter) collect(n *sitter.Node, s *scope) {
	switch n.Type() {
	case "function_definition", "class_definition":
		if name := n.ChildByFieldName("name"); name != nil {
			s.bind(l.text(name), name.StartByte())
		}
		return
	case "lambda", "list_comprehension", "set_comprehension",
		"dictionary_comprehension", "generator_expression":
		return
	case "assignment", "augmented_assignment":
		if left := n.ChildByFieldName("left"); left != nil {
			l.bindTargets(left, s)
		}
		if right := n.ChildByFieldName("right"); right != nil {
			l.collect(right, s)
		}
		return
	case "named_expression":
		if name := n.ChildByFieldName("name"); name != nil {
			s.bind(l.text(name), name.StartByte())
		}
		if value := n.ChildByFieldName("value"); value != nil {
			l.collect(value, s)
		}
		return
	case "for_statement":
		if left := n.ChildByFieldName("left"); left != nil {
			l.bindTargets(left, s)
		}
		for _, f := range []string{"right", "body", "alternative"} {
			if ch := n.ChildByFieldName(f); ch != nil {
				l.collect(ch, s)
			}
		}
		return
	case "as_pattern":
		if alias := n.ChildByFieldName("alias"); alias != nil {
			l.bindTargets(alias, s)
		}
		if n.NamedChildCount() > 0 {
			l.collect(n.NamedChild(0), s)
		}
		return
	case "except_clause":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			ch := n.NamedChild(i)
			if i > 0 && ch.Type() == "identifier" {
				// `except E as e` in grammars without as_pattern
				s.bind(l.text(ch), ch.StartByte())
				continue
			}
			l.collect(ch, s)
		}
		return
	case "import_statement":
		l.bindImport(n, s)
		return
	case "import_from_statement":
		l.bindImportFrom(n, s)
		return
	case "global_statement", "nonlocal_statement":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if ch := n.NamedChild(i); ch.Type() == "identifier" {
				s.declared[l.text(ch)] = true
			}
		}
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		l.collect(n.NamedChild(i), s)
	}
}

// bindTargets records every identifier in an assignment-target pattern.
// Attribute and subscript targets bind nothing; their reads are resolved by
// the walk pass.
func (l *linter) bindTargets(n *sitter.Node, s *scope) {
	switch n.Type() {
	case "identifier":
		s.bind(l.text(n), n.StartByte())
	case "attribute", "subscript":
		return
	default:
		for i := 0; i < int(n.NamedChildCount()); i++ {
			l.bindTargets(n.NamedChild(i), s)
		}
	}
}

func (l *linter) bindImport(n *sitter.Node, s *scope) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		switch ch := n.NamedChild(i); ch.Type() {
		case "dotted_name":
			// `import a.b` binds only `a`
			if ch.NamedChildCount() > 0 {
				first := ch.NamedChild(0)
				s.bind(l.text(first), first.StartByte())
			}
		case "aliased_import":
			if alias := ch.ChildByFieldName("alias"); alias != nil {
				s.bind(l.text(alias), alias.StartByte())
			}
		}
	}
}

func (l *linter) bindImportFrom(n *sitter.Node, s *scope) {
	module := n.ChildByFieldName("module_name")
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		if module != nil && ch.StartByte() == module.StartByte() {
			continue
		}
		switch ch.Type() {
		case "wildcard_import":
			s.wildcard = true
		case "dotted_name":
			if ch.NamedChildCount() > 0 {
				first := ch.NamedChild(0)
				s.bind(l.text(first), first.StartByte())
			}
		case "aliased_import":
			if alias := ch.ChildByFieldName("alias"); alias != nil {
				s.bind(l.text(alias), alias.StartByte())
			}
		}
	}
}

// walk resolves name reads and checks statement placement.
func (l *linter) walk(n *sitter.Node, c walkCtx) {
	switch n.Type() {
	case "comment", "string_content":
		return
	case "identifier":
		l.resolve(n, c.scope)
	case "attribute":
		// only the object side is a read
		if obj := n.ChildByFieldName("object"); obj != nil {
			l.walk(obj, c)
		}
	case "keyword_argument":
		if v := n.ChildByFieldName("value"); v != nil {
			l.walk(v, c)
		}
	case "assignment", "augmented_assignment":
		if left := n.ChildByFieldName("left"); left != nil {
			l.walkTarget(left, c)
		}
		for _, f := range []string{"type", "right"} {
			if ch := n.ChildByFieldName(f); ch != nil {
				l.walk(ch, c)
			}
		}
	case "named_expression":
		if v := n.ChildByFieldName("value"); v != nil {
			l.walk(v, c)
		}
	case "for_statement", "for_in_clause":
		if right := n.ChildByFieldName("right"); right != nil {
			l.walk(right, c)
		}
		if left := n.ChildByFieldName("left"); left != nil {
			l.walkTarget(left, c)
		}
		if body := n.ChildByFieldName("body"); body != nil {
			in := c
			in.loopDepth++
			l.walk(body, in)
		}
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			l.walk(alt, c)
		}
	case "while_statement":
		if cond := n.ChildByFieldName("condition"); cond != nil {
			l.walk(cond, c)
		}
		if body := n.ChildByFieldName("body"); body != nil {
			in := c
			in.loopDepth++
			l.walk(body, in)
		}
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			l.walk(alt, c)
		}
	case "function_definition":
		l.walkFunction(n, c)
	case "lambda":
		l.walkLambda(n, c)
	case "class_definition":
		l.walkClass(n, c)
	case "list_comprehension", "set_comprehension",
		"dictionary_comprehension", "generator_expression":
		l.walkComprehension(n, c)
	case "as_pattern":
		if n.NamedChildCount() > 0 {
			l.walk(n.NamedChild(0), c)
		}
	case "except_clause":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			ch := n.NamedChild(i)
			if i > 0 && ch.Type() == "identifier" {
				continue // bare `as e` alias
			}
			l.walk(ch, c)
		}
	case "import_statement", "import_from_statement",
		"global_statement", "nonlocal_statement", "match_statement":
		return
	case "return_statement":
		if c.funcDepth == 0 {
			l.report(ReturnOutsideFunction, n, "'return' outside function")
		}
		l.walkChildren(n, c)
	case "yield":
		if c.funcDepth == 0 {
			l.report(YieldOutsideFunction, n, "'yield' outside function")
		}
		l.walkChildren(n, c)
	case "break_statement":
		if c.loopDepth == 0 {
			l.report(BreakOutsideLoop, n, "'break' outside loop")
		}
	case "continue_statement":
		if c.loopDepth == 0 {
			l.report(ContinueOutsideLoop, n, "'continue' not properly in loop")
		}
	default:
		l.walkChildren(n, c)
	}
}

func (l *linter) walkChildren(n *sitter.Node, c walkCtx) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		l.walk(n.NamedChild(i), c)
	}
}

// walkTarget resolves the reads hidden inside assignment targets (attribute
// objects, subscript indexes) while skipping the identifiers being bound.
func (l *linter) walkTarget(n *sitter.Node, c walkCtx) {
	switch n.Type() {
	case "identifier":
		return
	case "attribute", "subscript":
		l.walk(n, c)
	default:
		for i := 0; i < int(n.NamedChildCount()); i++ {
			l.walkTarget(n.NamedChild(i), c)
		}
	}
}

func (l *linter) walkFunction(n *sitter.Node, c walkCtx) {
	params := n.ChildByFieldName("parameters")
	names := l.paramNames(params, c)
	l.reportDuplicates(names)
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		l.walk(ret, c)
	}

	child := newScope(scopeFunction, c.scope)
	for _, p := range names {
		child.bind(p.name, p.pos)
	}
	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	l.collect(body, child)
	l.walk(body, walkCtx{scope: child, funcDepth: c.funcDepth + 1})
}

func (l *linter) walkLambda(n *sitter.Node, c walkCtx) {
	params := n.ChildByFieldName("parameters")
	names := l.paramNames(params, c)
	l.reportDuplicates(names)

	child := newScope(scopeFunction, c.scope)
	for _, p := range names {
		child.bind(p.name, p.pos)
	}
	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	l.collect(body, child)
	l.walk(body, walkCtx{scope: child, funcDepth: c.funcDepth + 1})
}

func (l *linter) walkClass(n *sitter.Node, c walkCtx) {
	if sup := n.ChildByFieldName("superclasses"); sup != nil {
		l.walk(sup, c)
	}
	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	child := newScope(scopeClass, c.scope)
	l.collect(body, child)
	l.walk(body, walkCtx{scope: child, funcDepth: c.funcDepth})
}

func (l *linter) walkComprehension(n *sitter.Node, c walkCtx) {
	child := newScope(scopeComprehension, c.scope)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if ch := n.NamedChild(i); ch.Type() == "for_in_clause" {
			if left := ch.ChildByFieldName("left"); left != nil {
				l.bindTargets(left, child)
			}
		}
	}
	in := c
	in.scope = child
	l.walkChildren(n, in)
}

type param struct {
	name string
	pos  uint32
	node *sitter.Node
}

// paramNames extracts parameter names in declaration order. Default values
// and annotations are evaluated in the enclosing scope, so they are
// resolved against ctx here.
func (l *linter) paramNames(params *sitter.Node, c walkCtx) []param {
	if params == nil {
		return nil
	}
	var out []param
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "identifier":
			out = append(out, param{l.text(p), p.StartByte(), p})
		case "default_parameter", "typed_default_parameter":
			if name := p.ChildByFieldName("name"); name != nil {
				out = append(out, param{l.text(name), name.StartByte(), name})
			}
			if v := p.ChildByFieldName("value"); v != nil {
				l.walk(v, c)
			}
			if t := p.ChildByFieldName("type"); t != nil {
				l.walk(t, c)
			}
		case "typed_parameter":
			if p.NamedChildCount() > 0 {
				if id := innerIdentifier(p.NamedChild(0)); id != nil {
					out = append(out, param{l.text(id), id.StartByte(), id})
				}
			}
			if t := p.ChildByFieldName("type"); t != nil {
				l.walk(t, c)
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			if id := innerIdentifier(p); id != nil {
				out = append(out, param{l.text(id), id.StartByte(), id})
			}
		}
	}
	return out
}

func innerIdentifier(n *sitter.Node) *sitter.Node {
	if n.Type() == "identifier" {
		return n
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if found := innerIdentifier(n.NamedChild(i)); found != nil {
			return found
		}
	}
	return nil
}

func (l *linter) reportDuplicates(names []param) {
	seen := make(map[string]bool, len(names))
	for _, p := range names {
		if seen[p.name] {
			l.report(DuplicateArgument, p.node,
				fmt.Sprintf("duplicate argument '%s' in function definition", p.name))
			continue
		}
		seen[p.name] = true
	}
}

// resolve checks a single identifier read against the scope chain.
func (l *linter) resolve(n *sitter.Node, s *scope) {
	name := l.text(n)
	if isBuiltin(name) {
		return
	}
	for sc := s; sc != nil; sc = sc.parent {
		if sc.declared[name] || sc.wildcard {
			return
		}
	}
	if s.kind == scopeFunction {
		if bpos, ok := s.bindings[name]; ok {
			if n.StartByte() < bpos {
				l.report(UndefinedLocal, n,
					fmt.Sprintf("local variable '%s' referenced before assignment", name))
			}
			return
		}
	}
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.bindings[name]; ok {
			return
		}
	}
	l.report(UndefinedName, n, fmt.Sprintf("undefined name '%s'", name))
}
