package models

type ResultKind uint8

const (
	ResultSuccess ResultKind = iota
	ResultError
)

func (k ResultKind) String() string {
	if k == ResultSuccess {
		return "success"
	}
	return "error"
}

// Result is a success/error variant carried to API clients.
type Result[T any] struct {
	Kind    ResultKind `json:"-"`
	Status  string     `json:"status"`
	Data    T          `json:"data,omitempty"`
	Message string     `json:"message,omitempty"`
}

func Success[T any](data T) Result[T] {
	return Result[T]{Kind: ResultSuccess, Status: ResultSuccess.String(), Data: data}
}

func Failure[T any](message string) Result[T] {
	return Result[T]{Kind: ResultError, Status: ResultError.String(), Message: message}
}

func (r Result[T]) IsSuccess() bool {
	return r.Kind == ResultSuccess
}
