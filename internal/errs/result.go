package errs

// Result is the envelope every operation returns to the presentation layer:
// either Ok with data, or a failure carrying the error kind.
type Result[T any] struct {
	Success bool   `json:"success"`
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Kind    Kind   `json:"kind,omitempty"`
	Data    T      `json:"data,omitempty"`
}

func Ok[T any](data T, message string) Result[T] {
	return Result[T]{Success: true, Message: message, Data: data}
}

func Fail[T any](err error) Result[T] {
	return Result[T]{
		Error:   true,
		Message: MessageOf(err),
		Kind:    KindOf(err),
	}
}

// From builds a Result from the usual (value, error) pair.
func From[T any](data T, err error, message string) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Ok(data, message)
}
