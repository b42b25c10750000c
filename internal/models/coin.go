package models

// Sparkline holds the 7 day price samples of a listing item
type Sparkline struct {
	Price []float64 `json:"price"`
}

// CoinListing is one row of the market listing
type CoinListing struct {
	ID                    string    `json:"id"`
	Symbol                string    `json:"symbol"`
	Name                  string    `json:"name"`
	Image                 string    `json:"image"`
	CurrentPrice          float64   `json:"current_price"`
	MarketCapRank         int       `json:"market_cap_rank"`
	MarketCap             float64   `json:"market_cap"`
	TotalVolume           float64   `json:"total_volume"`
	PriceChangePercent1h  *float64  `json:"price_change_percentage_1h_in_currency,omitempty"`
	PriceChangePercent24h *float64  `json:"price_change_percentage_24h_in_currency,omitempty"`
	PriceChangePercent7d  *float64  `json:"price_change_percentage_7d_in_currency,omitempty"`
	SparklineIn7d         Sparkline `json:"sparkline_in_7d"`
}

// GlobalData is the aggregate market payload
type GlobalData struct {
	TotalMarketCap                  map[string]float64 `json:"total_market_cap"`
	TotalVolume                     map[string]float64 `json:"total_volume"`
	MarketCapPercentage             map[string]float64 `json:"market_cap_percentage"`
	MarketCapChangePercentage24hUSD float64            `json:"market_cap_change_percentage_24h_usd"`
	ActiveCryptocurrencies          int                `json:"active_cryptocurrencies,omitempty"`
	UpdatedAt                       int64              `json:"updated_at,omitempty"`
}

// GlobalStats wraps GlobalData the way the API returns it
type GlobalStats struct {
	Data GlobalData `json:"data"`
}

// BTCDominance returns the BTC share of the total market cap in percent
func (g GlobalStats) BTCDominance() float64 {
	return g.Data.MarketCapPercentage["btc"]
}

// CoinImage holds the image variants of a coin
type CoinImage struct {
	Thumb string `json:"thumb,omitempty"`
	Small string `json:"small,omitempty"`
	Large string `json:"large"`
}

// CoinMarketData is the market section of a coin detail payload
type CoinMarketData struct {
	CurrentPrice             map[string]float64 `json:"current_price"`
	High24h                  map[string]float64 `json:"high_24h"`
	Low24h                   map[string]float64 `json:"low_24h"`
	TotalSupply              *float64           `json:"total_supply"`
	CirculatingSupply        float64            `json:"circulating_supply"`
	MaxSupply                *float64           `json:"max_supply"`
	PriceChangePercentage24h float64            `json:"price_change_percentage_24h"`
}

// CoinDescription holds localized descriptions; only English is requested
type CoinDescription struct {
	En string `json:"en"`
}

// CoinLinks holds the outbound links of a coin
type CoinLinks struct {
	Homepage       []string `json:"homepage"`
	BlockchainSite []string `json:"blockchain_site"`
}

// CoinDetail is the full payload of a single coin
type CoinDetail struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Symbol      string          `json:"symbol"`
	Image       CoinImage       `json:"image"`
	MarketData  CoinMarketData  `json:"market_data"`
	Description CoinDescription `json:"description"`
	Links       CoinLinks       `json:"links"`
}

// SearchResult is a single coin match of the search endpoint
type SearchResult struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	Thumb         string `json:"thumb"`
	MarketCapRank int    `json:"market_cap_rank,omitempty"`
}

// SearchResponse is the raw search payload
type SearchResponse struct {
	Coins []SearchResult `json:"coins"`
}
