// Package batch accumulates per-record outcomes of a sync upload so that one
// bad record never aborts the rest.
package batch

// Error describes a record that could not be applied.
type Error struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// Result is the response envelope of every batch upsert endpoint.
type Result[T any] struct {
	Processed int     `json:"processed"`
	Errors    []Error `json:"errors"`
	Results   []T     `json:"results"`
}

// New returns an empty result whose slices encode as [] rather than null.
func New[T any]() *Result[T] {
	return &Result[T]{Errors: []Error{}, Results: []T{}}
}

// Ok records an applied record.
func (r *Result[T]) Ok(v T) {
	r.Processed++
	r.Results = append(r.Results, v)
}

// Fail records a rejected record under its natural key.
func (r *Result[T]) Fail(key string, err error) {
	r.Errors = append(r.Errors, Error{Key: key, Message: err.Error()})
}
