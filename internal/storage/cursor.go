package storage

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// Cursor — позиция последней отданной секции в порядке (page, order, key).
type Cursor struct {
	Page  int
	Order int
	Key   string
}

// EncodeCursor кодирует позицию в непрозрачный токен для клиента.
func EncodeCursor(c Cursor) string {
	raw := fmt.Sprintf("%d|%d|%s", c.Page, c.Order, c.Key)

	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor декодирует токен. Любая ошибка формата — ErrInvalidCursor.
func DecodeCursor(token string) (Cursor, error) {
	res, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}

	// Ключ может содержать '|', поэтому режем только первые два разделителя.
	parts := strings.SplitN(string(res), "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return Cursor{}, ErrInvalidCursor
	}

	page, err := strconv.Atoi(parts[0])
	if err != nil || page < 1 {
		return Cursor{}, ErrInvalidCursor
	}

	order, err := strconv.Atoi(parts[1])
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}

	return Cursor{Page: page, Order: order, Key: parts[2]}, nil
}
