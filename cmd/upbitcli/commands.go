package main

import (
	"errors"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/upbitdev/goupbit/exchanges/upbit"
	"github.com/urfave/cli/v2"
)

var errMissingArgument = errors.New("missing required argument")

var historyFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "pair",
		Usage: "currency pair, e.g. btc_usd",
	},
	&cli.Int64Flag{
		Name:  "limit",
		Usage: "maximum number of records, defaults to 1000",
	},
	&cli.StringFlag{
		Name:  "order",
		Usage: "sort order, ASC or DESC",
	},
	&cli.Int64Flag{
		Name:  "since",
		Usage: "unix timestamp to start from",
	},
	&cli.Int64Flag{
		Name:  "end",
		Usage: "unix timestamp to end at",
	},
}

var getInfoCommand = &cli.Command{
	Name:   "getinfo",
	Usage:  "gets account balances and API key rights",
	Action: getInfo,
}

func getInfo(c *cli.Context) error {
	client, ctx, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := client.GetInfo(ctx)
	if err != nil {
		return err
	}
	return jsonOutput(c, result)
}

var getTradeHistoryCommand = &cli.Command{
	Name:   "gettradehistory",
	Usage:  "gets the account's own trade history",
	Flags:  historyFlags,
	Action: getTradeHistory,
}

func getTradeHistory(c *cli.Context) error {
	client, ctx, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := client.GetTradeHistory(ctx, &upbit.TradeHistoryRequest{
		Pair:  c.String("pair"),
		Limit: c.Int64("limit"),
		Order: upbit.SortOrder(c.String("order")),
		Since: c.Int64("since"),
		End:   c.Int64("end"),
	})
	if err != nil {
		return err
	}
	return jsonOutput(c, result)
}

var getOrderCommand = &cli.Command{
	Name:      "getorder",
	Usage:     "gets a single order by ID",
	ArgsUsage: "<order_id>",
	Flags: []cli.Flag{
		&cli.Int64Flag{
			Name:  "order_id",
			Usage: "the order ID",
		},
	},
	Action: getOrder,
}

func getOrder(c *cli.Context) error {
	if c.NArg() == 0 && c.NumFlags() == 0 {
		return cli.ShowSubcommandHelp(c)
	}
	orderID, err := int64ArgOrFlag(c, "order_id", 0)
	if err != nil {
		return err
	}
	client, ctx, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := client.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	return jsonOutput(c, result)
}

var getOrdersCommand = &cli.Command{
	Name:  "getorders",
	Usage: "gets the account's orders",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "type",
			Usage: "order side, buy or sell",
		},
		&cli.StringFlag{
			Name:  "status",
			Usage: "order status, open, closed or cancelled",
		},
	}, historyFlags...),
	Action: getOrders,
}

func getOrders(c *cli.Context) error {
	client, ctx, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := client.GetOrders(ctx, &upbit.OrdersRequest{
		Pair:   c.String("pair"),
		Type:   upbit.OrderSide(c.String("type")),
		Status: upbit.OrderStatus(c.String("status")),
		Limit:  c.Int64("limit"),
		Order:  upbit.SortOrder(c.String("order")),
		Since:  c.Int64("since"),
		End:    c.Int64("end"),
	})
	if err != nil {
		return err
	}
	return jsonOutput(c, result)
}

var tradeCommand = &cli.Command{
	Name:      "trade",
	Usage:     "places an order",
	ArgsUsage: "<pair> <side> <price> <amount>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "pair", Usage: "currency pair, e.g. btc_usd"},
		&cli.StringFlag{Name: "side", Usage: "buy or sell"},
		&cli.StringFlag{Name: "price", Usage: "the order price"},
		&cli.StringFlag{Name: "amount", Usage: "the order amount"},
	},
	Action: trade,
}

func trade(c *cli.Context) error {
	if c.NArg() == 0 && c.NumFlags() == 0 {
		return cli.ShowSubcommandHelp(c)
	}
	pair := stringArgOrFlag(c, "pair", 0)
	side := stringArgOrFlag(c, "side", 1)
	price, err := decimal.NewFromString(stringArgOrFlag(c, "price", 2))
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(stringArgOrFlag(c, "amount", 3))
	if err != nil {
		return err
	}
	client, ctx, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := client.Trade(ctx, pair, price, amount, upbit.OrderSide(side))
	if err != nil {
		return err
	}
	return jsonOutput(c, result)
}

var cancelOrderCommand = &cli.Command{
	Name:      "cancelorder",
	Usage:     "cancels an order by ID",
	ArgsUsage: "<order_id>",
	Flags: []cli.Flag{
		&cli.Int64Flag{
			Name:  "order_id",
			Usage: "the order ID",
		},
	},
	Action: cancelOrder,
}

func cancelOrder(c *cli.Context) error {
	if c.NArg() == 0 && c.NumFlags() == 0 {
		return cli.ShowSubcommandHelp(c)
	}
	orderID, err := int64ArgOrFlag(c, "order_id", 0)
	if err != nil {
		return err
	}
	client, ctx, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := client.CancelOrder(ctx, orderID)
	if err != nil {
		return err
	}
	return jsonOutput(c, result)
}

var getTickerCommand = &cli.Command{
	Name:      "getticker",
	Usage:     "gets the ticker for a pair, or all pairs when none is given",
	ArgsUsage: "[pair]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "pair", Usage: "currency pair, pairs may be joined with '-'"},
	},
	Action: getTicker,
}

func getTicker(c *cli.Context) error {
	client, ctx, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := client.GetTicker(ctx, stringArgOrFlag(c, "pair", 0))
	if err != nil {
		return err
	}
	return jsonOutput(c, result)
}

var getTradesCommand = &cli.Command{
	Name:      "gettrades",
	Usage:     "gets recent public trades for a pair",
	ArgsUsage: "<pair> [limit] [since]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "pair", Usage: "currency pair"},
		&cli.Int64Flag{Name: "limit", Usage: "maximum number of trades"},
		&cli.Int64Flag{Name: "since", Usage: "unix timestamp or trade ID to start from"},
	},
	Action: getTrades,
}

func getTrades(c *cli.Context) error {
	if c.NArg() == 0 && c.NumFlags() == 0 {
		return cli.ShowSubcommandHelp(c)
	}
	pair := stringArgOrFlag(c, "pair", 0)
	limit, err := int64ArgOrFlag(c, "limit", 1)
	if err != nil && !errors.Is(err, errMissingArgument) {
		return err
	}
	since, err := int64ArgOrFlag(c, "since", 2)
	if err != nil && !errors.Is(err, errMissingArgument) {
		return err
	}
	client, ctx, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := client.GetAllTradeHistory(ctx, pair, limit, since)
	if err != nil {
		return err
	}
	return jsonOutput(c, result)
}

var getOrderbookCommand = &cli.Command{
	Name:      "getorderbook",
	Usage:     "gets the order book for a pair",
	ArgsUsage: "<pair> [limit]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "pair", Usage: "currency pair"},
		&cli.Int64Flag{Name: "limit", Usage: "maximum depth per side"},
	},
	Action: getOrderbook,
}

func getOrderbook(c *cli.Context) error {
	if c.NArg() == 0 && c.NumFlags() == 0 {
		return cli.ShowSubcommandHelp(c)
	}
	pair := stringArgOrFlag(c, "pair", 0)
	limit, err := int64ArgOrFlag(c, "limit", 1)
	if err != nil && !errors.Is(err, errMissingArgument) {
		return err
	}
	client, ctx, cancel, err := setupClient(c)
	if err != nil {
		return err
	}
	defer cancel()
	result, err := client.GetOrderBook(ctx, pair, limit)
	if err != nil {
		return err
	}
	return jsonOutput(c, result)
}

// stringArgOrFlag prefers the named flag and falls back to the positional
// argument at pos
func stringArgOrFlag(c *cli.Context, name string, pos int) string {
	if c.IsSet(name) {
		return c.String(name)
	}
	return c.Args().Get(pos)
}

func int64ArgOrFlag(c *cli.Context, name string, pos int) (int64, error) {
	if c.IsSet(name) {
		return c.Int64(name), nil
	}
	arg := c.Args().Get(pos)
	if arg == "" {
		return 0, errMissingArgument
	}
	return strconv.ParseInt(arg, 10, 64)
}
