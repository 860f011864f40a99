package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AssetID identifies one of the simulated crypto assets.
// The set is closed: per-asset state is kept in [NumAssets] arrays indexed by AssetID.
type AssetID int

const (
	AssetBTC AssetID = iota
	AssetETH
	AssetDOGE

	// NumAssets is the number of supported assets
	NumAssets = 3
)

// AllAssets lists every asset in allocation order
var AllAssets = [NumAssets]AssetID{AssetBTC, AssetETH, AssetDOGE}

var assetTickers = [NumAssets]string{"BTC", "ETH", "DOGE"}

// String returns the asset ticker
func (a AssetID) String() string {
	if !a.Valid() {
		return fmt.Sprintf("AssetID(%d)", int(a))
	}
	return assetTickers[a]
}

// Valid reports whether a is one of the known assets
func (a AssetID) Valid() bool {
	return a >= 0 && int(a) < NumAssets
}

// MarshalText encodes the asset as its ticker so that maps keyed by AssetID render as {"BTC": ...}
func (a AssetID) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid asset id %d", int(a))
	}
	return []byte(assetTickers[a]), nil
}

// UnmarshalText decodes a ticker
func (a *AssetID) UnmarshalText(text []byte) error {
	id, err := ParseAssetID(string(text))
	if err != nil {
		return err
	}
	*a = id
	return nil
}

// ParseAssetID converts a ticker into an AssetID
func ParseAssetID(ticker string) (AssetID, error) {
	for i, t := range assetTickers {
		if t == ticker {
			return AssetID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown asset %q", ticker)
}

// Asset describes a simulated asset
// Immutable once constructed; one per simulation run.
type Asset struct {
	ID         AssetID         `json:"id"`
	Name       string          `json:"name"`
	BasePrice  decimal.Decimal `json:"basePrice"`
	Volatility decimal.Decimal `json:"volatility"` // fraction of price, e.g. 0.03
	Trend      decimal.Decimal `json:"trend"`      // annual drift fraction, e.g. 0.30
}

// DefaultAssets returns the asset catalogue used by every simulation
func DefaultAssets() [NumAssets]Asset {
	return [NumAssets]Asset{
		{
			ID:         AssetBTC,
			Name:       "Bitcoin",
			BasePrice:  decimal.NewFromInt(45000),
			Volatility: decimal.RequireFromString("0.03"),
			Trend:      decimal.RequireFromString("0.30"),
		},
		{
			ID:         AssetETH,
			Name:       "Ethereum",
			BasePrice:  decimal.NewFromInt(2500),
			Volatility: decimal.RequireFromString("0.05"),
			Trend:      decimal.RequireFromString("0.40"),
		},
		{
			ID:         AssetDOGE,
			Name:       "Dogecoin",
			BasePrice:  decimal.RequireFromString("0.08"),
			Volatility: decimal.RequireFromString("0.08"),
			Trend:      decimal.RequireFromString("0.50"),
		},
	}
}

// AllocationWeights is the initial day-0 split of capital across assets (BTC 50%, ETH 30%, DOGE 20%)
func AllocationWeights() [NumAssets]decimal.Decimal {
	return [NumAssets]decimal.Decimal{
		decimal.RequireFromString("0.5"),
		decimal.RequireFromString("0.3"),
		decimal.RequireFromString("0.2"),
	}
}
