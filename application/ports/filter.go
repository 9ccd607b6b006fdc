package ports

// Condition is a single equality predicate against a stored attribute.
type Condition struct {
	Field string
	Value any
}

// Filter is a disjunction of equality conditions, the whole query language
// the table store supports. The zero value matches every entity.
type Filter struct {
	Any []Condition
}

// All matches every entity in the table.
func All() Filter {
	return Filter{}
}

// Equals matches entities whose attribute equals the given value.
func Equals(field string, value any) Filter {
	return Filter{Any: []Condition{{Field: field, Value: value}}}
}

// AnyOf matches entities whose attribute equals any of the given values.
func AnyOf(field string, values ...string) Filter {
	f := Filter{Any: make([]Condition, 0, len(values))}
	for _, v := range values {
		f.Any = append(f.Any, Condition{Field: field, Value: v})
	}
	return f
}

// IsEmpty reports whether the filter matches everything.
func (f Filter) IsEmpty() bool {
	return len(f.Any) == 0
}
