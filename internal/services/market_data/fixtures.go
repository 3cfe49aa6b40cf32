package market_data

import "botbi/internal/domain/market"

// FixedCrypto is served when the crypto provider is unreachable
func FixedCrypto() []market.PriceQuote {
	return []market.PriceQuote{
		market.NewQuote("BTC", 64230.50, 1.25),
		market.NewQuote("ETH", 3450.10, -0.45),
		market.NewQuote("SOL", 145.20, 5.10),
		market.NewQuote("BNB", 590.00, 0.10),
	}
}

// EmergencyEquities is served when neither the provider nor the cache has anything
func EmergencyEquities() []market.PriceQuote {
	return []market.PriceQuote{
		market.NewQuote("AAPL", 224.50, 1.45),
		market.NewQuote("MSFT", 415.10, 0.85),
		market.NewQuote("NVDA", 1208.30, 3.20),
		market.NewQuote("TSLA", 175.40, -1.20),
		market.NewQuote("AMZN", 185.00, 0.50),
	}
}
