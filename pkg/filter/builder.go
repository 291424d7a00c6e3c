package filter

// UnaryBuilder builds Unary filters. The zero operator is IsNull.
type UnaryBuilder struct {
	node Unary
}

// NewUnary starts a Unary filter on the record itself.
func NewUnary() *UnaryBuilder {
	return &UnaryBuilder{node: Unary{operator: IsNull}}
}

// Subject sets the dotted path; an empty path selects the record itself.
func (b *UnaryBuilder) Subject(path string) *UnaryBuilder {
	b.node.subject = path
	return b
}

// IsNull matches records whose subject has no value.
func (b *UnaryBuilder) IsNull() *UnaryBuilder {
	b.node.operator = IsNull
	return b
}

// IsNotNull matches records whose subject has a value.
func (b *UnaryBuilder) IsNotNull() *UnaryBuilder {
	b.node.operator = IsNotNull
	return b
}

// Build returns the filter.
func (b *UnaryBuilder) Build() Unary {
	return b.node
}

// BinaryBuilder builds Binary filters. The zero operator is Equal.
type BinaryBuilder struct {
	node Binary
}

// NewBinary starts a Binary filter on the record itself.
func NewBinary() *BinaryBuilder {
	return &BinaryBuilder{node: Binary{operator: Equal}}
}

// Subject sets the dotted path; an empty path selects the record itself.
func (b *BinaryBuilder) Subject(path string) *BinaryBuilder {
	b.node.subject = path
	return b
}

// Equal sets the operator to equal.
func (b *BinaryBuilder) Equal() *BinaryBuilder { return b.Operator(Equal) }

// NotEqual sets the operator to notEqual.
func (b *BinaryBuilder) NotEqual() *BinaryBuilder { return b.Operator(NotEqual) }

// GreaterThan sets the operator to greaterThan.
func (b *BinaryBuilder) GreaterThan() *BinaryBuilder { return b.Operator(GreaterThan) }

// GreaterThanEqualTo sets the operator to greaterThanEqualTo.
func (b *BinaryBuilder) GreaterThanEqualTo() *BinaryBuilder { return b.Operator(GreaterThanEqualTo) }

// LessThan sets the operator to lessThan.
func (b *BinaryBuilder) LessThan() *BinaryBuilder { return b.Operator(LessThan) }

// LessThanEqualTo sets the operator to lessThanEqualTo.
func (b *BinaryBuilder) LessThanEqualTo() *BinaryBuilder { return b.Operator(LessThanEqualTo) }

// Like sets the operator to like (substring containment).
func (b *BinaryBuilder) Like() *BinaryBuilder { return b.Operator(Like) }

// Operator sets the operator explicitly.
func (b *BinaryBuilder) Operator(op BinaryOperator) *BinaryBuilder {
	b.node.operator = op
	return b
}

// Value sets the literal to compare against.
func (b *BinaryBuilder) Value(v any) *BinaryBuilder {
	b.node.value = v
	return b
}

// Build returns the filter.
func (b *BinaryBuilder) Build() Binary {
	return b.node
}

// CollectionBuilder builds Collection filters. The zero operator is In.
type CollectionBuilder struct {
	node Collection
}

// NewCollection starts a Collection filter on the record itself.
func NewCollection() *CollectionBuilder {
	return &CollectionBuilder{node: Collection{operator: In}}
}

// Subject sets the dotted path; an empty path selects the record itself.
func (b *CollectionBuilder) Subject(path string) *CollectionBuilder {
	b.node.subject = path
	return b
}

// In matches when the subject equals one of the values.
func (b *CollectionBuilder) In() *CollectionBuilder {
	b.node.operator = In
	return b
}

// NotIn matches when the subject equals none of the values.
func (b *CollectionBuilder) NotIn() *CollectionBuilder {
	b.node.operator = NotIn
	return b
}

// Value appends a single candidate.
func (b *CollectionBuilder) Value(v any) *CollectionBuilder {
	b.node.values = append(b.node.values, v)
	return b
}

// Values replaces the candidate list.
func (b *CollectionBuilder) Values(vs ...any) *CollectionBuilder {
	b.node.values = append([]any(nil), vs...)
	return b
}

// Build returns an independent copy of the filter.
func (b *CollectionBuilder) Build() Collection {
	return Clone(b.node).(Collection)
}

// LogicBuilder builds Logic filters. The zero operator is And.
type LogicBuilder struct {
	node Logic
}

// NewLogic starts an and-combination with no clauses.
func NewLogic() *LogicBuilder {
	return &LogicBuilder{node: Logic{operator: And}}
}

// And requires every clause to match.
func (b *LogicBuilder) And() *LogicBuilder {
	b.node.operator = And
	return b
}

// Or requires at least one clause to match.
func (b *LogicBuilder) Or() *LogicBuilder {
	b.node.operator = Or
	return b
}

// Clause appends a clause. Nil clauses are ignored.
func (b *LogicBuilder) Clause(f Filter) *LogicBuilder {
	if c := Clone(f); c != nil {
		b.node.clauses = append(b.node.clauses, c)
	}
	return b
}

// Clauses replaces the clause list.
func (b *LogicBuilder) Clauses(fs ...Filter) *LogicBuilder {
	b.node.clauses = nil
	for _, f := range fs {
		b.Clause(f)
	}
	return b
}

// Build returns an independent copy of the filter.
func (b *LogicBuilder) Build() Logic {
	return Clone(b.node).(Logic)
}
