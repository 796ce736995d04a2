package mock

var privateResponses = map[string]interface{}{
	"getInfo": map[string]interface{}{
		"funds":             map[string]float64{"usd": 325, "btc": 23.998, "ltc": 0},
		"rights":            map[string]int{"info": 1, "trade": 1, "withdraw": 0},
		"transaction_count": 80,
		"open_orders":       1,
		"server_time":       1342123547,
	},
	"getTradeHistory": map[string]interface{}{
		"166830": map[string]interface{}{
			"pair":          "btc_usd",
			"type":          "sell",
			"amount":        1,
			"rate":          450,
			"order_id":      343148,
			"is_your_order": 1,
			"timestamp":     1342445793,
		},
	},
	"getOrder": map[string]interface{}{
		"343152": map[string]interface{}{
			"pair":              "btc_usd",
			"type":              "sell",
			"start_amount":      13.345,
			"amount":            12.345,
			"rate":              485,
			"timestamp_created": 1342448420,
			"status":            0,
		},
	},
	"getOrders": map[string]interface{}{
		"343152": map[string]interface{}{
			"pair":              "btc_usd",
			"type":              "sell",
			"amount":            12.345,
			"rate":              485,
			"timestamp_created": 1342448420,
			"status":            0,
		},
	},
	"trade": map[string]interface{}{
		"received": 0.1,
		"remains":  0,
		"order_id": 0,
		"funds":    map[string]float64{"usd": 325, "btc": 2.498},
	},
	"cancelOrder": map[string]interface{}{
		"order_id": 343154,
		"funds":    map[string]float64{"usd": 325, "btc": 24.998},
	},
}

var publicTicker = map[string]interface{}{
	"high":    109.88,
	"low":     91.14,
	"avg":     100.51,
	"vol":     1632898.2249,
	"vol_cur": 16541.51969,
	"last":    101.773,
	"buy":     101.9,
	"sell":    101.773,
	"updated": 1370816308,
}

var publicTrades = []map[string]interface{}{
	{"type": "ask", "price": 103.6, "amount": 0.101, "tid": 4861261, "timestamp": 1370818007},
	{"type": "bid", "price": 103.989, "amount": 1.51414, "tid": 4861254, "timestamp": 1370817960},
}

var publicOrderbook = map[string]interface{}{
	"asks": [][]float64{{103.426, 0.01}, {103.5, 15}},
	"bids": [][]float64{{103.2, 2.48502251}, {103.082, 0.46540304}},
}
