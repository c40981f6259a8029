package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	zero "github.com/rs/zerolog/log"

	"github.com/hyeonwoo/lessondesk/internal/config"
	"github.com/hyeonwoo/lessondesk/internal/draftstore"
	"github.com/hyeonwoo/lessondesk/internal/initialization"
	"github.com/hyeonwoo/lessondesk/internal/lesson"
	"github.com/hyeonwoo/lessondesk/internal/metrics"
	"github.com/hyeonwoo/lessondesk/internal/queue"
	"github.com/hyeonwoo/lessondesk/internal/remote/httpapi"
	"github.com/hyeonwoo/lessondesk/internal/session"
	"github.com/hyeonwoo/lessondesk/internal/todo"
	"github.com/hyeonwoo/lessondesk/internal/web"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	zero.Logger = zero.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	config, err := config.ReadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if config.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	d, err := initialization.OpenDB(config.DbPath)
	if err != nil {
		log.Fatal(err)
	}
	zero.Info().Msg("database connection established")

	if os.Getenv("SETUP") != "" {
		err = initialization.SetupDB(d, config.MigrationsFolder, config.DbPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	q, err := initialization.InitQueue(&config, d)
	if err != nil {
		zero.Fatal().Err(err).Msg("unable to prepare the task queue")
		os.Exit(1)
	}

	client, err := httpapi.New(config.RemoteURL, config.RemoteAnonKey, &http.Client{Timeout: 30 * time.Second}, config.RefreshInterval)
	if err != nil {
		zero.Fatal().Err(err).Send()
		os.Exit(1)
	}
	defer client.Close()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	store := collector.InstrumentStore(client)

	coordinator := session.New(client, store)
	defer coordinator.Close()
	if _, err := coordinator.Initialize(context.Background()); err != nil {
		zero.Fatal().Err(err).Msg("unable to restore session state")
		os.Exit(1)
	}

	todos := todo.NewService(store)
	lessons := lesson.NewService(store)
	submitter := lesson.NewSubmitter(store, collector)
	drafts := draftstore.New(d)
	repairs := queue.New(context.Background(), store, q)

	handler := web.New(&config, coordinator, todos, lessons, submitter, drafts, repairs)
	router := chi.NewRouter()
	handler.Mount(router)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	s := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Port),
		Handler: router,
	}

	zero.Info().Uint16("port", config.Port).Msg("started server")
	err = s.ListenAndServe()
	if err != nil {
		log.Fatal(err)
	}
}
