// sections-search — интерактивный поиск: каждая строка stdin — новый ввод
// запроса, строка ":r" — повтор последнего запроса.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pribylovaa/go-audio-sections/internal/config"
	"github.com/pribylovaa/go-audio-sections/internal/mapper"
	"github.com/pribylovaa/go-audio-sections/internal/remote"
	"github.com/pribylovaa/go-audio-sections/internal/service"
)

// retryCommand — строка ввода, означающая повтор.
const retryCommand = ":r"

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	// stdout занят выдачей, логи уходят в stderr.
	level := slog.LevelWarn
	if cfg.Env == "local" {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := remote.New(&http.Client{Timeout: cfg.Remote.Timeout}, cfg.Remote.HomeURL, cfg.Remote.SearchURL)
	if err != nil {
		log.Error("remote_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	search := service.NewSearch(client, mapper.New(), nil)
	stream := service.NewStream(search, service.StreamOptions{Debounce: cfg.Search.Debounce})

	queries := make(chan string)
	retries := make(chan struct{})
	results := stream.Run(ctx, queries, retries)

	v := newView(os.Stdout)
	v.idle()

	go readInput(ctx, bufio.NewScanner(os.Stdin), v, queries, retries)

	for r := range results {
		v.result(r)
	}
}

// readInput переводит строки stdin в потоки ввода и повторов.
// EOF закрывает поток ввода: последний запрос досылается и поток завершается.
func readInput(ctx context.Context, sc *bufio.Scanner, v *view, queries chan<- string, retries chan<- struct{}) {
	defer close(queries)

	var prev string
	for sc.Scan() {
		line := sc.Text()

		if line == retryCommand {
			select {
			case retries <- struct{}{}:
				v.loading()
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case queries <- line:
			q := service.Normalize(line)
			if q != "" && q != prev {
				v.loading()
			}
			prev = q
		case <-ctx.Done():
			return
		}
	}
}
