package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/pribylovaa/go-audio-sections/internal/service"
)

// view печатает состояния экрана поиска:
// idle, loading, результаты, пустой результат, ошибка с подсказкой повтора.
type view struct {
	mu sync.Mutex
	w  io.Writer
}

func newView(w io.Writer) *view { return &view{w: w} }

func (v *view) idle() {
	v.printf("type a query, %s to retry\n", retryCommand)
}

func (v *view) loading() {
	v.printf("searching...\n")
}

func (v *view) result(r service.Result) {
	switch {
	case r.Err != nil:
		v.printf("error: %s (type %s to retry)\n", r.Err.Kind.Message(), retryCommand)
	case r.Query == "":
		v.idle()
	case len(r.Sections) == 0:
		v.printf("no results for %q\n", r.Query)
	default:
		v.mu.Lock()
		defer v.mu.Unlock()

		fmt.Fprintf(v.w, "results for %q:\n", r.Query)
		for _, s := range r.Sections {
			fmt.Fprintf(v.w, "  %s [%s, %d items]\n", s.Name, s.ContentType, len(s.Items))
			for _, it := range s.Items {
				fmt.Fprintf(v.w, "    - %s\n", it.Name)
			}
		}
	}
}

func (v *view) printf(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()

	fmt.Fprintf(v.w, format, args...)
}
