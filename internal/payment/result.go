package payment

// Result is either a success carrying a value or a failure carrying a reason.
type Result[T any] struct {
	value  T
	reason error
	ok     bool
}

func Success[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

func Failure[T any](reason error) Result[T] {
	if reason == nil {
		reason = ErrGatewayRejected
	}
	return Result[T]{reason: reason}
}

// Ok returns the value and true on success, the zero value and false otherwise.
func (r Result[T]) Ok() (T, bool) {
	return r.value, r.ok
}

func (r Result[T]) Failed() bool {
	return !r.ok
}

// Reason is nil for a success.
func (r Result[T]) Reason() error {
	return r.reason
}
