package wallet

var chainNames = map[int64]string{
	1:        "Ethereum",
	10:       "OP Mainnet",
	137:      "Polygon",
	8453:     "Base",
	42161:    "Arbitrum One",
	11155111: "Sepolia",
}

// ChainName returns the display name of a chain id
func ChainName(id int64) string {
	if name, ok := chainNames[id]; ok {
		return name
	}
	return "Unknown"
}
