// Package filter defines the filter expression tree evaluated by the match engine.
//
// A Filter is one of four node kinds: Unary, Binary, Collection and Logic.
// The set is closed; consumers dispatch with an exhaustive type switch.
// Nodes are immutable values produced by the builders in this package.
package filter

import "errors"

var (
	// ErrUnknownOperator signals an operator name outside the supported set.
	ErrUnknownOperator = errors.New("unknown filter operator")
	// ErrUnsupportedExpression signals a textual filter that cannot be lowered to a tree.
	ErrUnsupportedExpression = errors.New("unsupported filter expression")
)

// Filter is a node of the filter tree.
type Filter interface {
	filterNode()
}

// UnaryOperator tests a subject for the presence of a value.
type UnaryOperator string

// Unary operators.
const (
	IsNull    UnaryOperator = "isNull"
	IsNotNull UnaryOperator = "isNotNull"
)

// BinaryOperator compares a subject against a single literal.
type BinaryOperator string

// Binary operators.
const (
	Equal              BinaryOperator = "equal"
	NotEqual           BinaryOperator = "notEqual"
	GreaterThan        BinaryOperator = "greaterThan"
	GreaterThanEqualTo BinaryOperator = "greaterThanEqualTo"
	LessThan           BinaryOperator = "lessThan"
	LessThanEqualTo    BinaryOperator = "lessThanEqualTo"
	Like               BinaryOperator = "like"
)

// CollectionOperator tests a subject for membership in a list of literals.
type CollectionOperator string

// Collection operators.
const (
	In    CollectionOperator = "in"
	NotIn CollectionOperator = "notIn"
)

// LogicOperator combines clauses.
type LogicOperator string

// Logic operators.
const (
	And LogicOperator = "and"
	Or  LogicOperator = "or"
)

// Unary is a presence test on a subject.
type Unary struct {
	subject  string
	operator UnaryOperator
}

// Subject returns the dotted path; empty means the record itself.
func (u Unary) Subject() string { return u.subject }

// Operator returns the unary operator.
func (u Unary) Operator() UnaryOperator { return u.operator }

// Binary compares a subject with a literal value.
type Binary struct {
	subject  string
	operator BinaryOperator
	value    any
}

// Subject returns the dotted path; empty means the record itself.
func (b Binary) Subject() string { return b.subject }

// Operator returns the binary operator.
func (b Binary) Operator() BinaryOperator { return b.operator }

// Value returns the literal the subject is compared with.
func (b Binary) Value() any { return b.value }

// Collection tests a subject against a list of literals.
type Collection struct {
	subject  string
	operator CollectionOperator
	values   []any
}

// Subject returns the dotted path; empty means the record itself.
func (c Collection) Subject() string { return c.subject }

// Operator returns the collection operator.
func (c Collection) Operator() CollectionOperator { return c.operator }

// Values returns a copy of the candidate literals.
func (c Collection) Values() []any { return append([]any(nil), c.values...) }

// Len returns the number of candidate literals.
func (c Collection) Len() int { return len(c.values) }

// At returns the i-th candidate literal.
func (c Collection) At(i int) any { return c.values[i] }

// Logic combines clauses with and/or. It never carries a subject.
type Logic struct {
	operator LogicOperator
	clauses  []Filter
}

// Operator returns the logic operator.
func (l Logic) Operator() LogicOperator { return l.operator }

// Clauses returns a copy of the clause list.
func (l Logic) Clauses() []Filter { return append([]Filter(nil), l.clauses...) }

// Len returns the number of clauses.
func (l Logic) Len() int { return len(l.clauses) }

// At returns the i-th clause.
func (l Logic) At(i int) Filter { return l.clauses[i] }

func (Unary) filterNode()      {}
func (Binary) filterNode()     {}
func (Collection) filterNode() {}
func (Logic) filterNode()      {}

// IsValid reports whether op is a known unary operator.
func (op UnaryOperator) IsValid() bool {
	return op == IsNull || op == IsNotNull
}

// IsValid reports whether op is a known binary operator.
func (op BinaryOperator) IsValid() bool {
	switch op {
	case Equal, NotEqual, GreaterThan, GreaterThanEqualTo, LessThan, LessThanEqualTo, Like:
		return true
	}
	return false
}

// IsValid reports whether op is a known collection operator.
func (op CollectionOperator) IsValid() bool {
	return op == In || op == NotIn
}

// IsValid reports whether op is a known logic operator.
func (op LogicOperator) IsValid() bool {
	return op == And || op == Or
}

// Deref returns the value form of f. Pointers to nodes also satisfy Filter;
// they are dereferenced so type switches over the four value kinds stay
// exhaustive. A nil pointer yields nil, which matches everything.
func Deref(f Filter) Filter {
	switch n := f.(type) {
	case *Unary:
		if n == nil {
			return nil
		}
		return *n
	case *Binary:
		if n == nil {
			return nil
		}
		return *n
	case *Collection:
		if n == nil {
			return nil
		}
		return *n
	case *Logic:
		if n == nil {
			return nil
		}
		return *n
	default:
		return f
	}
}

// Clone returns a deep copy of f. Literal values are shared; slices and
// nested clauses are copied. Pointer nodes come back in value form.
func Clone(f Filter) Filter {
	switch n := Deref(f).(type) {
	case Unary, Binary:
		return n
	case Collection:
		n.values = append([]any(nil), n.values...)
		return n
	case Logic:
		clauses := make([]Filter, len(n.clauses))
		for i, c := range n.clauses {
			clauses[i] = Clone(c)
		}
		n.clauses = clauses
		return n
	default:
		return n
	}
}

// AllOf combines filters with and, skipping nil entries. It returns nil when
// nothing is left and the single filter when only one remains.
func AllOf(filters ...Filter) Filter {
	kept := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if c := Clone(f); c != nil {
			kept = append(kept, c)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return Logic{operator: And, clauses: kept}
	}
}
