// apierrors стандартизирует ответы об ошибках HTTP-слоя.
// На вход принимает ошибку сервиса (классифицированную *dataerr.Error
// или сентинел service.*), на выход даёт:
//   - HTTP-статус;
//   - стабильный код и безопасное сообщение без утечки деталей.
package apierrors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/go-audio-sections/internal/dataerr"
	"github.com/pribylovaa/go-audio-sections/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат для клиента.
// Code — короткий стабильный код для машиночитаемой обработки.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil — программная ошибка вызова: 500/internal;
//   - *dataerr.Error — статус и код по виду ошибки;
//   - сентинелы сервиса — 400/404/503;
//   - отмена запроса — 499, истёкший дедлайн — REQUEST_TIMEOUT (504);
//   - прочее — 500/internal без деталей.
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return internal()
	}

	var de *dataerr.Error
	if errors.As(err, &de) {
		return fromKind(de.Kind)
	}

	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return respond(http.StatusBadRequest, "invalid_argument", "invalid argument")
	case errors.Is(err, service.ErrInvalidCursor):
		return respond(http.StatusBadRequest, "invalid_cursor", "invalid page token")
	case errors.Is(err, service.ErrNotFound):
		return respond(http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, service.ErrPagerClosed):
		return respond(http.StatusServiceUnavailable, "unavailable", "service is shutting down")
	case errors.Is(err, context.Canceled):
		return respond(StatusClientClosedRequest, "canceled", "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return fromKind(dataerr.RequestTimeout)
	default:
		return internal()
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// fromKind — маппинг вида ошибки данных в HTTP:
//   - NOT_FOUND -> 404
//   - NETWORK_UNAVAILABLE -> 503 (источник недоступен)
//   - REQUEST_TIMEOUT -> 504
//   - NETWORK_EXCEPTION, HTTP_ERROR, PARSING_ERROR -> 502 (сбой апстрима)
//   - UNEXPECTED_ERROR -> 500
func fromKind(k dataerr.Kind) (int, ErrorResponse) {
	var status int
	switch k {
	case dataerr.NotFound:
		status = http.StatusNotFound
	case dataerr.NetworkUnavailable:
		status = http.StatusServiceUnavailable
	case dataerr.RequestTimeout:
		status = http.StatusGatewayTimeout
	case dataerr.NetworkException, dataerr.HTTPError, dataerr.ParsingError:
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	return respond(status, k.Code(), k.Message())
}

func respond(status int, code, msg string) (int, ErrorResponse) {
	return status, ErrorResponse{Error: APIError{Code: code, Message: msg}}
}

func internal() (int, ErrorResponse) {
	return respond(http.StatusInternalServerError, "internal", "internal error")
}
