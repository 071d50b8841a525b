package quote

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/gosling/constants"
	"github.com/lukehollenback/gosling/exchange/robinhood"
	"github.com/lukehollenback/gosling/structs/evictingqueue"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	Name = "≪quote-service≫"

	DefaultInterval = 5 * time.Second
	DefaultHistory  = 60
)

var (
	ErrNotStarted = errors.New("quote service is not started")
)

//
// Source provides best bid/ask snapshots. *robinhood.Client satisfies it.
//
type Source interface {
	BestBidAsk(ctx context.Context, symbols ...string) (*robinhood.BestPrices, error)
}

//
// Sink receives every quote the service observes. *writer.Service satisfies it.
//
type Sink interface {
	Write(quote robinhood.BestPrice) error
}

//
// Option configures a Service.
//
type Option func(*Service)

func WithInterval(interval time.Duration) Option {
	return func(o *Service) {
		if interval > 0 {
			o.interval = interval
		}
	}
}

func WithHistory(size int) Option {
	return func(o *Service) {
		if size > 0 {
			o.historySize = size
		}
	}
}

func WithSink(sink Sink) Option {
	return func(o *Service) {
		o.sink = sink
	}
}

func WithAurora(au aurora.Aurora) Option {
	return func(o *Service) {
		o.au = au
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(o *Service) {
		o.logger = logger
	}
}

//
// Service polls the best bid/ask of a set of symbols on an interval, keeps a bounded history of the
// quotes it observes per symbol, and logs price moves.
//
type Service struct {
	mu        sync.Mutex
	chKill    chan bool
	chStopped chan bool

	source      Source
	sink        Sink
	symbols     []string
	interval    time.Duration
	historySize int
	history     map[string]*evictingqueue.EvictingQueue[robinhood.BestPrice]

	au     aurora.Aurora
	logger *log.Logger

	onQuoteHandlers []func(robinhood.BestPrice)
}

//
// New instantiates a quote service that watches the provided symbols.
//
func New(source Source, symbols []string, opts ...Option) *Service {
	o := &Service{
		source:      source,
		symbols:     append([]string(nil), symbols...),
		interval:    DefaultInterval,
		historySize: DefaultHistory,
		history:     make(map[string]*evictingqueue.EvictingQueue[robinhood.BestPrice]),
		au:          aurora.NewAurora(true),
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = log.New(log.Writer(), fmt.Sprintf(constants.LogPrefixFmt, Name), log.Ldate|log.Ltime|log.Lmsgprefix)
	}

	return o
}

//
// RegisterQuoteHandler registers a handler to be executed for every quote the service observes.
//
func (o *Service) RegisterQuoteHandler(handler func(robinhood.BestPrice)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.onQuoteHandlers = append(o.onQuoteHandlers, handler)
}

//
// History returns the retained quotes of the provided symbol, oldest first.
//
func (o *Service) History(symbol string) []robinhood.BestPrice {
	o.mu.Lock()
	queue, ok := o.history[symbol]
	o.mu.Unlock()

	if !ok {
		return nil
	}

	return queue.Snapshot()
}

//
// Start implements the feed.Service interface's described method.
//
func (o *Service) Start() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	//
	// Validate that necessary configurations have been provided.
	//
	if o.source == nil {
		return nil, errors.New("a quote source is required")
	}

	if len(o.symbols) == 0 {
		return nil, errors.New("at least one symbol is required")
	}

	if o.chKill != nil {
		return nil, errors.New("quote service is already started")
	}

	//
	// (Re)initialize our instance variables.
	//
	o.chKill = make(chan bool, 1)
	o.chStopped = make(chan bool, 1)

	//
	// Fire off a goroutine as the executor for the service.
	//
	go o.service(o.chKill, o.chStopped)

	chStarted := make(chan bool, 1)
	chStarted <- true

	o.logger.Printf("Started. (Symbols: %v, Interval: %s)", o.au.Bold(o.au.Yellow(o.symbols)), o.interval)

	return chStarted, nil
}

//
// Stop implements the feed.Service interface's described method.
//
func (o *Service) Stop() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.chKill == nil {
		return nil, ErrNotStarted
	}

	o.logger.Printf("Stopping...")

	//
	// Tell the goroutine that was spun off by the service to shutdown.
	//
	o.chKill <- true
	o.chKill = nil

	return o.chStopped, nil
}

//
// service polls the quote source until it is told to shut down. An in-flight poll is cancelled on
// shutdown.
//
func (o *Service) service(chKill <-chan bool, chStopped chan<- bool) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		<-chKill
		cancel()
	}()

	ticker := time.NewTicker(o.interval)

	o.poll(ctx)

	for cont := true; cont; {
		select {
		case <-ctx.Done():
			cont = false

		case <-ticker.C:
			o.poll(ctx)
		}
	}

	ticker.Stop()

	//
	// Send the signal that we have shut down.
	//
	chStopped <- true
}

//
// poll retrieves one round of quotes and processes each of them. Failures are logged and the next
// round is attempted on schedule.
//
func (o *Service) poll(ctx context.Context) {
	prices, err := o.source.BestBidAsk(ctx, o.symbols...)
	if err != nil {
		if ctx.Err() == nil {
			o.logger.Printf("Failed to retrieve quotes. (Error: %s)", err)
		}

		return
	}

	for _, quote := range prices.Results {
		o.process(quote)
	}
}

func (o *Service) process(quote robinhood.BestPrice) {
	o.mu.Lock()

	queue, ok := o.history[quote.Symbol]
	if !ok {
		queue = evictingqueue.New[robinhood.BestPrice](o.historySize)
		o.history[quote.Symbol] = queue
	}

	handlers := append(([]func(robinhood.BestPrice))(nil), o.onQuoteHandlers...)

	o.mu.Unlock()

	prev, hasPrev := queue.Last()
	queue.Add(quote)

	o.logQuote(quote, prev, hasPrev)

	if o.sink != nil {
		if err := o.sink.Write(quote); err != nil {
			o.logger.Printf("Failed to write quote. (Symbol: %s) (Error: %s)", quote.Symbol, err)
		}
	}

	for _, handler := range handlers {
		handler(quote)
	}
}

func (o *Service) logQuote(quote robinhood.BestPrice, prev robinhood.BestPrice, hasPrev bool) {
	bid := quote.BidInclusiveOfSellSpread.Decimal
	ask := quote.AskInclusiveOfBuySpread.Decimal

	move := "n/a"

	if hasPrev {
		change := Change(prev.Price.Decimal, quote.Price.Decimal)

		switch change.Sign() {
		case 1:
			move = o.au.Green(fmt.Sprintf("+%s%%", change.StringFixed(4))).String()
		case -1:
			move = o.au.Red(fmt.Sprintf("%s%%", change.StringFixed(4))).String()
		default:
			move = "0%"
		}
	}

	o.logger.Printf(
		"%s price %s (bid %s, ask %s, mid %s, spread %s) move %s",
		o.au.Bold(o.au.Yellow(quote.Symbol)),
		o.au.Bold(quote.Price.String()),
		bid,
		ask,
		Mid(bid, ask),
		ask.Sub(bid),
		move,
	)
}

//
// Mid returns the midpoint between a bid and an ask.
//
func Mid(bid decimal.Decimal, ask decimal.Decimal) decimal.Decimal {
	return bid.Add(ask).Div(constants.Two())
}

//
// Change returns the percentage change from prev to cur. A zero prev yields zero.
//
func Change(prev decimal.Decimal, cur decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		return decimal.Zero
	}

	return cur.Sub(prev).Div(prev).Mul(constants.Hundred())
}
