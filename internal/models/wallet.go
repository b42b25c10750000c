package models

// WalletInfo is what the wallet panel displays for a connected address
type WalletInfo struct {
	Address     string `json:"address"`
	DisplayName string `json:"display_name"`
	ENSName     string `json:"ens_name,omitempty"`
	ChainID     int64  `json:"chain_id"`
	ChainName   string `json:"chain_name"`
	Balance     string `json:"balance"`
	Symbol      string `json:"symbol"`
}
