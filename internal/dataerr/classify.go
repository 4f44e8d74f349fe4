package dataerr

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/url"
	"strings"

	"github.com/pribylovaa/go-audio-sections/internal/storage"
)

// Шаблоны в тексте ошибки, по которым определяются вид «нет сети» и таймаут.
const (
	noNetworkPattern = "Unable to resolve host"
	noSuchHost       = "no such host"
	timeoutPattern   = "timeout"
)

// httpFault реализуют ошибки HTTP-уровня (см. remote.HTTPError).
type httpFault interface {
	error
	HTTPStatus() int
}

// parseFault реализуют ошибки разбора ответа и маппинга (см. mapper.Error).
type parseFault interface {
	error
	ParseFault()
}

// Classify детерминированно сводит ошибку к Kind.
//
// Порядок (первое совпадение выигрывает):
//  1. уже классифицированная *Error -> её Kind;
//  2. хост не резолвится -> NetworkUnavailable;
//  3. "timeout" в тексте (без учёта регистра) или дедлайн -> RequestTimeout;
//  4. ошибка HTTP-уровня -> HTTPError;
//  5. ошибка разбора/маппинга -> ParsingError;
//  6. storage.ErrNotFound -> NotFound;
//  7. прочие сетевые ошибки -> NetworkException;
//  8. остальное -> UnexpectedError.
func Classify(err error) Kind {
	if err == nil {
		return UnexpectedError
	}

	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}

	msg := err.Error()

	var dnsErr *net.DNSError
	if strings.Contains(msg, noNetworkPattern) || strings.Contains(msg, noSuchHost) ||
		(errors.As(err, &dnsErr) && dnsErr.IsNotFound) {
		return NetworkUnavailable
	}

	if strings.Contains(strings.ToLower(msg), timeoutPattern) || errors.Is(err, context.DeadlineExceeded) {
		return RequestTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return RequestTimeout
	}

	var hf httpFault
	if errors.As(err, &hf) {
		return HTTPError
	}

	var pf parseFault
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &pf) || errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return ParsingError
	}

	if errors.Is(err, storage.ErrNotFound) {
		return NotFound
	}

	var opErr *net.OpError
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &opErr) || errors.As(err, &urlErr) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return NetworkException
	}

	return UnexpectedError
}
