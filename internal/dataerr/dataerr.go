// dataerr задаёт закрытую таксономию ошибок данных и классификатор,
// который сводит любую ошибку загрузки к одному из видов Kind.
package dataerr

import (
	"errors"
	"fmt"
)

// Kind — вид ошибки данных. Набор закрыт.
type Kind string

const (
	NotFound           Kind = "NOT_FOUND"
	NetworkException   Kind = "NETWORK_EXCEPTION"
	NetworkUnavailable Kind = "NETWORK_UNAVAILABLE"
	RequestTimeout     Kind = "REQUEST_TIMEOUT"
	HTTPError          Kind = "HTTP_ERROR"
	ParsingError       Kind = "PARSING_ERROR"
	UnexpectedError    Kind = "UNEXPECTED_ERROR"
)

// Kinds перечисляет все виды в стабильном порядке.
var Kinds = []Kind{
	NotFound,
	NetworkException,
	NetworkUnavailable,
	RequestTimeout,
	HTTPError,
	ParsingError,
	UnexpectedError,
}

// Code возвращает короткий машиночитаемый код для транспорта.
func (k Kind) Code() string {
	switch k {
	case NotFound:
		return "not_found"
	case NetworkException:
		return "network_exception"
	case NetworkUnavailable:
		return "network_unavailable"
	case RequestTimeout:
		return "request_timeout"
	case HTTPError:
		return "http_error"
	case ParsingError:
		return "parsing_error"
	default:
		return "unexpected_error"
	}
}

// Message возвращает безопасное человекочитаемое описание.
func (k Kind) Message() string {
	switch k {
	case NotFound:
		return "nothing was found"
	case NetworkException:
		return "a network error occurred, please try again"
	case NetworkUnavailable:
		return "no internet connection"
	case RequestTimeout:
		return "the request timed out"
	case HTTPError:
		return "the server returned an error"
	case ParsingError:
		return "the server response could not be read"
	default:
		return "something went wrong"
	}
}

// Error — классифицированная ошибка. Исходная ошибка доступна через errors.Unwrap.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}

	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap классифицирует err и оборачивает его в *Error.
// nil остаётся nil; уже классифицированная ошибка возвращается как есть.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}

	var de *Error
	if errors.As(err, &de) {
		return de
	}

	return &Error{Kind: Classify(err), Err: err}
}
