package main

import (
	"context"
	"time"

	"github.com/lukehollenback/gosling/feed"
	"github.com/lukehollenback/gosling/feed/quote"
	"github.com/lukehollenback/gosling/feed/writer"
	"github.com/pkg/errors"
)

//
// runWatch starts the quote service (and the writer service when an output directory is configured)
// and blocks until the operating system interrupts the process.
//
func runWatch(ctx context.Context, env *environment, args []string) error {
	fs := newFlagSet("watch")
	interval := fs.Duration("interval", env.cfg.Watch.Interval, "How often to poll the best bid/ask.")
	history := fs.Int("history", env.cfg.Watch.History, "How many quotes to retain per symbol.")
	outputDir := fs.String("out", env.cfg.Watch.OutputDir, "The directory to write a CSV of every quote to. Nothing is written when empty.")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		return errors.New("at least one symbol is required")
	}

	services, _ := watchServices(env.client, fs.Args(), *interval, *history, *outputDir)

	if err := startAll(services); err != nil {
		return err
	}

	//
	// Block until we are shut down by the operating system.
	//
	<-ctx.Done()

	logger.Print("An operating system interrupt has been received. Shutting down all services...")

	stopAll(services)

	logger.Print("Goodbye.")

	return nil
}

//
// watchServices wires the services of the watch command in start order: the writer (when an output
// directory is given) ahead of the quote service that feeds it.
//
func watchServices(source quote.Source, symbols []string, interval time.Duration, history int, outputDir string) ([]feed.Service, *quote.Service) {
	opts := []quote.Option{
		quote.WithInterval(interval),
		quote.WithHistory(history),
		quote.WithAurora(au),
	}

	var services []feed.Service

	if outputDir != "" {
		w := writer.New(outputDir, nil)

		opts = append(opts, quote.WithSink(w))
		services = append(services, w)
	}

	q := quote.New(source, symbols, opts...)

	return append(services, q), q
}

//
// startAll starts the provided services in order and waits for each of them. On failure, the ones
// already started are stopped again.
//
func startAll(services []feed.Service) error {
	for i, svc := range services {
		chStarted, err := svc.Start()
		if err != nil {
			stopAll(services[:i])

			return errors.Wrap(err, "failed to start a service")
		}

		<-chStarted
	}

	return nil
}

//
// stopAll stops the provided services in reverse order and waits for each of them to shut down.
//
func stopAll(services []feed.Service) {
	for i := len(services) - 1; i >= 0; i-- {
		chStopped, err := services[i].Stop()
		if err != nil {
			logger.Printf("Failed to stop a service. (Error: %s)", err)

			continue
		}

		<-chStopped
	}
}
