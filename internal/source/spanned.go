package source

// Spanned pairs an AST payload with the span it originated from. The
// payload is owned by the parser; this package only reads spans and, for
// shifted copies, re-tags the same payload with a new span.
type Spanned[T any] struct {
	Span  Span
	Value T
}

// At tags value with sp.
func At[T any](sp Span, value T) Spanned[T] {
	return Spanned[T]{Span: sp, Value: value}
}

// WithSpan returns a copy of s carrying sp instead of its original span.
// The payload is shared, not duplicated.
func (s Spanned[T]) WithSpan(sp Span) Spanned[T] {
	return Spanned[T]{Span: sp, Value: s.Value}
}
