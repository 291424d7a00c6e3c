package filter

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Spec is the serialisable form of a filter tree, as found in JSON request
// parameters and YAML configuration.
//
//	{"op": "and", "clauses": [
//	    {"op": "greaterThan", "subject": "person.age", "value": 30},
//	    {"op": "in", "subject": "person.role", "values": ["admin", "owner"]}
//	]}
type Spec struct {
	Op      string `json:"op" yaml:"op"`
	Subject string `json:"subject,omitempty" yaml:"subject,omitempty"`
	Value   any    `json:"value,omitempty" yaml:"value,omitempty"`
	Values  []any  `json:"values,omitempty" yaml:"values,omitempty"`
	Clauses []Spec `json:"clauses,omitempty" yaml:"clauses,omitempty"`
}

// Decode converts a generic decoded document (maps, slices, scalars) into a
// filter tree. A nil document yields a nil filter.
func Decode(raw any) (Filter, error) {
	if raw == nil {
		return nil, nil
	}

	var spec Spec
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		ErrorUnused: true,
		Result:      &spec,
	})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode filter: %w", err)
	}
	return spec.Filter()
}

// Filter converts the spec into a filter tree.
func (s Spec) Filter() (Filter, error) {
	switch {
	case UnaryOperator(s.Op).IsValid():
		return Unary{subject: s.Subject, operator: UnaryOperator(s.Op)}, nil
	case BinaryOperator(s.Op).IsValid():
		return Binary{subject: s.Subject, operator: BinaryOperator(s.Op), value: s.Value}, nil
	case CollectionOperator(s.Op).IsValid():
		return Collection{
			subject:  s.Subject,
			operator: CollectionOperator(s.Op),
			values:   append([]any(nil), s.Values...),
		}, nil
	case LogicOperator(s.Op).IsValid():
		if s.Subject != "" {
			return nil, fmt.Errorf("%s filter cannot have a subject", s.Op)
		}
		clauses := make([]Filter, 0, len(s.Clauses))
		for i, c := range s.Clauses {
			f, err := c.Filter()
			if err != nil {
				return nil, fmt.Errorf("clause %d: %w", i, err)
			}
			clauses = append(clauses, f)
		}
		return Logic{operator: LogicOperator(s.Op), clauses: clauses}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, s.Op)
	}
}

// ToSpec converts a filter tree into its serialisable form.
func ToSpec(f Filter) Spec {
	switch n := Deref(f).(type) {
	case Unary:
		return Spec{Op: string(n.operator), Subject: n.subject}
	case Binary:
		return Spec{Op: string(n.operator), Subject: n.subject, Value: n.value}
	case Collection:
		return Spec{Op: string(n.operator), Subject: n.subject, Values: n.Values()}
	case Logic:
		clauses := make([]Spec, len(n.clauses))
		for i, c := range n.clauses {
			clauses[i] = ToSpec(c)
		}
		return Spec{Op: string(n.operator), Clauses: clauses}
	default:
		return Spec{}
	}
}
