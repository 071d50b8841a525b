package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/gosling/config"
	"github.com/lukehollenback/gosling/constants"
	"github.com/lukehollenback/gosling/exchange/robinhood"
)

const (
	Name = "≪gosling≫"
)

var (
	logger *log.Logger
	au     aurora.Aurora

	cfgPath    *string
	cfgEnvFile *string
	cfgNoColor *bool
)

func init() {
	//
	// Initialize the logger.
	//
	logger = log.New(log.Writer(), fmt.Sprintf(constants.LogPrefixFmt, Name), log.Ldate|log.Ltime|log.Lmsgprefix)
	au = aurora.NewAurora(true)

	//
	// Register global configuration flags. Each subcommand parses its own flag set.
	//
	cfgPath = flag.String(
		"config",
		"",
		fmt.Sprintf("Path to a YAML settings file. Falls back to the %s environment variable.", config.PathEnv),
	)

	cfgEnvFile = flag.String(
		"env",
		".env",
		"Path to a dotenv file holding the API key and signing keys. Ignored if it does not exist.",
	)

	cfgNoColor = flag.Bool(
		"no-color",
		false,
		"Disable colored output.",
	)

	flag.Usage = usage
}

//
// command is a subcommand of the command line client. It receives a ready client and the arguments
// that follow the subcommand name.
//
type command struct {
	summary string
	run     func(ctx context.Context, env *environment, args []string) error
}

//
// environment carries what every subcommand needs.
//
type environment struct {
	cfg    *config.Config
	client *robinhood.Client
}

var commands = map[string]command{
	"account":  {"Show the trading account.", runAccount},
	"quote":    {"Show the best bid/ask for symbols (all symbols when none are given).", runQuote},
	"estimate": {"Estimate the execution price of hypothetical trades.", runEstimate},
	"pairs":    {"List trading pairs (all pairs when no symbols are given).", runPairs},
	"holdings": {"List holdings (all assets when no asset codes are given).", runHoldings},
	"orders":   {"List orders matching a filter.", runOrders},
	"order":    {"Show a single order by id.", runOrder},
	"buy":      {"Place a buy order (market unless -limit-price is given).", runPlace(robinhood.Buy)},
	"sell":     {"Place a sell order (market unless -limit-price is given).", runPlace(robinhood.Sell)},
	"cancel":   {"Cancel an order by id.", runCancel},
	"watch":    {"Poll the best bid/ask for symbols and log their moves.", runWatch},
}

func usage() {
	out := flag.CommandLine.Output()

	fmt.Fprintf(out, "Usage: gosling [flags] <command> [command flags] [args]\n\nCommands:\n")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(out, "  %-9s %s\n", name, commands[name].summary)
	}

	fmt.Fprintf(out, "\nFlags:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()

	au = aurora.NewAurora(!*cfgNoColor)

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		logger.Printf("Unknown command %q.", flag.Arg(0))
		usage()
		os.Exit(2)
	}

	//
	// Load settings and credentials. Missing or malformed credentials are fatal before any request is
	// made.
	//
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatalf("Failed to load settings. (Error: %s)", err)
	}

	creds, err := config.LoadCredentials(*cfgEnvFile)
	if err != nil {
		logger.Fatalf("Failed to load credentials. (Error: %s)", err)
	}

	client := robinhood.NewClient(
		creds,
		robinhood.WithBaseURL(cfg.BaseURL),
		robinhood.WithTimeout(cfg.Timeout),
		robinhood.WithUserAgent(cfg.UserAgent),
	)

	//
	// Register a kill signal handler with the operating system so that in-flight requests and running
	// services can be shut down gracefully.
	//
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.run(ctx, &environment{cfg: cfg, client: client}, flag.Args()[1:]); err != nil {
		stop()
		logger.Fatalf("The %s command failed. (Error: %s)", flag.Arg(0), err)
	}
}
