package testutil

import (
	"errors"
)

// UpstreamError is the detail of a failed call to one of the PokeAPI services.
const UpstreamError = "upstream service unavailable"

// OperationResult is the pair returned by a mocked call.
type OperationResult[T any] struct {
	Data T
	Err  error
}

// Return a generic typed upstream failure.
func GetMockUpstreamError[T any]() *OperationResult[T] {
	return NewErrorResult[T](errors.New(UpstreamError))
}

func NewErrorResult[T any](err error) *OperationResult[T] {
	return &OperationResult[T]{
		Data: *new(T),
		Err:  err,
	}
}

// Wrap a generic Data into a OperationResult struct.
func NewSuccessResult[T any](data T) *OperationResult[T] {
	return &OperationResult[T]{
		Data: data,
		Err:  nil,
	}
}
