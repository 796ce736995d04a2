package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/upbitdev/goupbit/config"
	"github.com/upbitdev/goupbit/encoding/json"
	"github.com/upbitdev/goupbit/exchanges/upbit"
	"github.com/upbitdev/goupbit/log"
	"github.com/urfave/cli/v2"
)

const defaultTimeout = time.Second * 30

func jsonOutput(c *cli.Context, in any) error {
	j, err := json.MarshalIndent(in, "", " ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(j))
	return err
}

// setupClient loads the configuration, applies the command line overrides
// and returns a client plus a context bounded by the timeout flag
func setupClient(c *cli.Context) (*upbit.Client, context.Context, context.CancelFunc, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, nil, err
	}
	// stdout is reserved for command output
	if strings.EqualFold(cfg.Logging.Output, "console") {
		cfg.Logging.Output = "stderr"
	}
	if err := log.SetupGlobalLogger(&cfg.Logging); err != nil {
		return nil, nil, nil, err
	}

	exch := cfg.Exchange
	if c.IsSet("apikey") {
		exch.APIKey = c.String("apikey")
		exch.AuthenticatedAPISupport = true
	}
	if c.IsSet("apisecret") {
		exch.APISecret = c.String("apisecret")
		exch.AuthenticatedAPISupport = true
	}
	if c.IsSet("nonce") {
		exch.StartNonce = c.Int64("nonce")
	}
	if c.IsSet("publicurl") {
		exch.PublicURL = c.String("publicurl")
	}
	if c.IsSet("privateurl") {
		exch.PrivateURL = c.String("privateurl")
	}
	if c.IsSet("insecure") {
		exch.InsecureSkipVerify = c.Bool("insecure")
	}
	if c.IsSet("omitnull") {
		exch.OmitNullParameters = c.Bool("omitnull")
	}
	if c.IsSet("verbose") {
		exch.Verbose = c.Bool("verbose")
	}

	client, err := upbit.NewFromConfig(&exch)
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	return client, ctx, cancel, nil
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "upbitcli"
	app.Usage = "command line interface for the upbit trading API"
	app.EnableBashCompletion = true
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to a JSON or YAML config file, UPBIT_ prefixed environment variables override it",
		},
		&cli.StringFlag{
			Name:  "apikey",
			Usage: "override config API key for request",
		},
		&cli.StringFlag{
			Name:  "apisecret",
			Usage: "override config API secret for request",
		},
		&cli.Int64Flag{
			Name:  "nonce",
			Usage: "override the nonce start value, the first request uses nonce+1",
		},
		&cli.StringFlag{
			Name:  "publicurl",
			Usage: "override the market data base URL",
		},
		&cli.StringFlag{
			Name:  "privateurl",
			Usage: "override the authenticated API URL",
		},
		&cli.BoolFlag{
			Name:  "insecure",
			Usage: "disable TLS certificate verification (unsafe)",
		},
		&cli.BoolFlag{
			Name:  "omitnull",
			Usage: "drop empty optional parameters from signed requests",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Value: defaultTimeout,
			Usage: "the context timeout value for requests",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "log request and response details",
		},
	}
	app.Commands = []*cli.Command{
		getInfoCommand,
		getTradeHistoryCommand,
		getOrderCommand,
		getOrdersCommand,
		tradeCommand,
		cancelOrderCommand,
		getTickerCommand,
		getTradesCommand,
		getOrderbookCommand,
	}
	return app
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newApp().RunContext(ctx, os.Args)
	if cerr := log.CloseLogger(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
