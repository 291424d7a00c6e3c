package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// SelfIdentifier names the record itself in textual filters.
const SelfIdentifier = "self"

// Parse lowers a textual filter into a tree. The syntax is a subset of the
// expr language:
//
//	person.age >= 30 and (role in ["admin", "owner"] or name contains "man")
//	manager == nil
//	self > 4
//
// Comparisons take a path on one side and a literal on the other. An empty
// expression yields a nil filter.
func Parse(input string) (Filter, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	tree, err := parser.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedExpression, err)
	}
	return lower(tree.Node)
}

func lower(node ast.Node) (Filter, error) {
	switch n := node.(type) {
	case *ast.BinaryNode:
		return lowerBinary(n)
	case *ast.UnaryNode:
		if n.Operator == "not" || n.Operator == "!" {
			if in, ok := n.Node.(*ast.BinaryNode); ok && in.Operator == "in" {
				return lowerMembership(in, NotIn)
			}
		}
		return nil, unsupported(node, "negation is only supported as \"not in\"")
	case *ast.ChainNode:
		return lower(n.Node)
	default:
		return nil, unsupported(node, "expected a comparison or a logical combination")
	}
}

func lowerBinary(n *ast.BinaryNode) (Filter, error) {
	switch n.Operator {
	case "and", "&&":
		return lowerLogic(n, And)
	case "or", "||":
		return lowerLogic(n, Or)
	case "in":
		return lowerMembership(n, In)
	case "==", "!=", ">", ">=", "<", "<=", "contains":
		return lowerComparison(n)
	default:
		return nil, unsupported(n, fmt.Sprintf("operator %q", n.Operator))
	}
}

func lowerLogic(n *ast.BinaryNode, op LogicOperator) (Filter, error) {
	logic := Logic{operator: op}
	for _, side := range []ast.Node{n.Left, n.Right} {
		f, err := lower(side)
		if err != nil {
			return nil, err
		}
		// a and b and c nests to the left; keep the tree flat.
		if nested, ok := f.(Logic); ok && nested.operator == op {
			logic.clauses = append(logic.clauses, nested.clauses...)
			continue
		}
		logic.clauses = append(logic.clauses, f)
	}
	return logic, nil
}

func lowerMembership(n *ast.BinaryNode, op CollectionOperator) (Filter, error) {
	subject, err := path(n.Left)
	if err != nil {
		return nil, err
	}
	arr, ok := n.Right.(*ast.ArrayNode)
	if !ok {
		return nil, unsupported(n.Right, "membership needs an array literal")
	}
	values := make([]any, 0, len(arr.Nodes))
	for _, item := range arr.Nodes {
		v, err := literal(item)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return Collection{subject: subject, operator: op, values: values}, nil
}

var flipped = map[string]string{
	"==": "==", "!=": "!=",
	">": "<", ">=": "<=",
	"<": ">", "<=": ">=",
}

func lowerComparison(n *ast.BinaryNode) (Filter, error) {
	op, left, right := n.Operator, n.Left, n.Right
	if _, err := path(left); err != nil {
		reverse, ok := flipped[op]
		if !ok {
			return nil, err
		}
		op, left, right = reverse, right, left
	}

	subject, err := path(left)
	if err != nil {
		return nil, err
	}

	if _, isNil := right.(*ast.NilNode); isNil {
		switch op {
		case "==":
			return Unary{subject: subject, operator: IsNull}, nil
		case "!=":
			return Unary{subject: subject, operator: IsNotNull}, nil
		default:
			return nil, unsupported(n, "nil only compares with == and !=")
		}
	}

	value, err := literal(right)
	if err != nil {
		return nil, err
	}

	ops := map[string]BinaryOperator{
		"==":       Equal,
		"!=":       NotEqual,
		">":        GreaterThan,
		">=":       GreaterThanEqualTo,
		"<":        LessThan,
		"<=":       LessThanEqualTo,
		"contains": Like,
	}
	return Binary{subject: subject, operator: ops[op], value: value}, nil
}

// path converts an identifier or member chain into a dotted subject.
func path(node ast.Node) (string, error) {
	switch n := node.(type) {
	case *ast.IdentifierNode:
		if n.Value == SelfIdentifier {
			return "", nil
		}
		return n.Value, nil
	case *ast.MemberNode:
		base, err := path(n.Node)
		if err != nil {
			return "", err
		}
		var prop string
		switch p := n.Property.(type) {
		case *ast.StringNode:
			prop = p.Value
		case *ast.IntegerNode:
			prop = strconv.Itoa(p.Value)
		default:
			return "", unsupported(n.Property, "member access needs a constant name")
		}
		if base == "" {
			return prop, nil
		}
		return base + "." + prop, nil
	case *ast.ChainNode:
		return path(n.Node)
	default:
		return "", unsupported(node, "expected a field path")
	}
}

func literal(node ast.Node) (any, error) {
	switch n := node.(type) {
	case *ast.IntegerNode:
		return n.Value, nil
	case *ast.FloatNode:
		return n.Value, nil
	case *ast.StringNode:
		return n.Value, nil
	case *ast.BoolNode:
		return n.Value, nil
	case *ast.NilNode:
		return nil, nil
	case *ast.UnaryNode:
		if n.Operator == "-" {
			switch v := n.Node.(type) {
			case *ast.IntegerNode:
				return -v.Value, nil
			case *ast.FloatNode:
				return -v.Value, nil
			}
		}
		return nil, unsupported(node, "expected a literal")
	case *ast.ArrayNode:
		values := make([]any, 0, len(n.Nodes))
		for _, item := range n.Nodes {
			v, err := literal(item)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return values, nil
	default:
		return nil, unsupported(node, "expected a literal")
	}
}

func unsupported(node ast.Node, reason string) error {
	return fmt.Errorf("%w: %s (at %s)", ErrUnsupportedExpression, reason, node.String())
}
