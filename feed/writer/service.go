package writer

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lukehollenback/gosling/constants"
	"github.com/lukehollenback/gosling/exchange/robinhood"
	"github.com/pkg/errors"
)

const (
	Name         = "≪writer-service≫"
	FileName     = "quotes.csv"
	TimestampKey = "Timestamp"
	SymbolKey    = "Symbol"
	BidKey       = "Bid"
	AskKey       = "Ask"
	PriceKey     = "Price"
)

var (
	ErrNotStarted = errors.New("writer service is not started")
)

//
// Service appends best bid/ask quotes to a CSV file.
//
type Service struct {
	mu         sync.Mutex
	chKill     chan bool
	chStopped  chan bool
	outputPath string
	outputFile *os.File
	writer     *csv.Writer
	logger     *log.Logger
}

//
// New instantiates a writer service that outputs to a CSV file in the provided directory. An empty
// directory means the current working directory.
//
func New(dir string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.Writer(), fmt.Sprintf(constants.LogPrefixFmt, Name), log.Ldate|log.Ltime|log.Lmsgprefix)
	}

	return &Service{
		outputPath: filepath.Join(dir, FileName),
		logger:     logger,
	}
}

//
// Path returns the path of the CSV file the service writes to.
//
func (o *Service) Path() string {
	return o.outputPath
}

//
// Start implements the feed.Service interface's described method.
//
func (o *Service) Start() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.writer != nil {
		return nil, errors.New("writer service is already started")
	}

	//
	// Create the output CSV file.
	//
	file, err := os.Create(o.outputPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create the output file")
	}

	o.logger.Printf("Outputting CSV to %s.", o.outputPath)

	//
	// Create the CSV writer and use it to write out the header row.
	//
	o.outputFile = file
	o.writer = csv.NewWriter(file)

	if err := o.writer.Write([]string{TimestampKey, SymbolKey, BidKey, AskKey, PriceKey}); err != nil {
		_ = file.Close()
		o.writer = nil

		return nil, errors.Wrap(err, "failed to write the header row")
	}

	//
	// (Re)initialize our instance variables and fire off a goroutine as the executor for the service.
	//
	o.chKill = make(chan bool, 1)
	o.chStopped = make(chan bool, 1)

	go o.service(o.chKill, o.chStopped)

	chStarted := make(chan bool, 1)
	chStarted <- true

	o.logger.Printf("Started.")

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

	o.chKill <- true
	chStopped := o.chStopped
	o.chKill = nil

	return chStopped, nil
}

//
// Write appends a row for the provided quote. Rows are buffered and flushed when the service stops.
//
func (o *Service) Write(quote robinhood.BestPrice) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.writer == nil {
		return ErrNotStarted
	}

	return o.writer.Write([]string{
		quote.Timestamp.UTC().Format(time.RFC3339Nano),
		quote.Symbol,
		quote.BidInclusiveOfSellSpread.String(),
		quote.AskInclusiveOfBuySpread.String(),
		quote.Price.String(),
	})
}

//
// service executes the top-level logic of the service. It is intended to be spun off into its own
// goroutine when the service is started.
//
func (o *Service) service(chKill <-chan bool, chStopped chan<- bool) {
	<-chKill

	o.mu.Lock()

	//
	// Flush the CSV writer's buffer to the output file and close the handle on it.
	//
	o.writer.Flush()

	if err := o.writer.Error(); err != nil {
		o.logger.Printf("Failed to flush the output file. (Error: %s)", err)
	}

	if err := o.outputFile.Close(); err != nil {
		o.logger.Printf("Failed to close handle on output file. (Error: %s)", err)
	}

	o.writer = nil
	o.outputFile = nil

	o.mu.Unlock()

	//
	// Send the signal that we have shut down.
	//
	chStopped <- true
}
