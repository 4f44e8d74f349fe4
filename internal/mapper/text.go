package mapper

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var reTag = regexp.MustCompile(`<[^>]*>`)

// entities — раскрываемые HTML-сущности в порядке применения.
// Замены идут по очереди, поэтому "&amp;lt;" раскрывается до "<".
var entities = [...][2]string{
	{"&nbsp;", " "},
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&quot;", `"`},
}

// toPlainText убирает HTML-теги, раскрывает пять базовых сущностей и обрезает пробелы.
func toPlainText(s string) string {
	s = reTag.ReplaceAllString(s, "")
	for _, e := range entities {
		s = strings.ReplaceAll(s, e[0], e[1])
	}

	return strings.TrimSpace(s)
}

// flexNumber — число, которое в ответе может прийти числом, строкой или null.
// Нераспознанное значение не считается ошибкой: ok остаётся false.
type flexNumber struct {
	v  float64
	ok bool
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			n.v, n.ok = f, true
		}
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		n.v, n.ok = f, true
	}

	return nil
}

// intOr возвращает целое значение или def, если число дробное либо отсутствует.
func (n flexNumber) intOr(def int) int {
	if !n.ok || n.v != math.Trunc(n.v) {
		return def
	}

	return int(n.v)
}

func (n flexNumber) intPtr() *int {
	if !n.ok || n.v != math.Trunc(n.v) {
		return nil
	}

	v := int(n.v)
	return &v
}

func (n flexNumber) floatPtr() *float64 {
	if !n.ok {
		return nil
	}

	v := n.v
	return &v
}
