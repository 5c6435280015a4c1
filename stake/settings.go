package stake

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultPayout is the payout percentage used while none is configured.
var DefaultPayout = decimal.NewFromInt(85)

// Asset is one slot of the asset selector. DefaultPayout, when set, is
// copied into Settings.PayoutPercentage on selection.
type Asset struct {
	Name          string           `json:"name"`
	DefaultPayout *decimal.Decimal `json:"defaultPayout,omitempty"`
}

// Settings is the user-edited configuration the engine reads. Values are
// replaced wholesale on every edit.
type Settings struct {
	InitialCapital        decimal.Decimal  `json:"initialCapital"`
	InitialStake          decimal.Decimal  `json:"initialStake"`
	PayoutPercentage      *decimal.Decimal `json:"profitPercentage,omitempty"`
	WinIncreasePercentage decimal.Decimal  `json:"winIncreasePercentage"`
	LossMultiplier        decimal.Decimal  `json:"lossIncreaseMultiplier"`
	MaxConsecutiveLosses  int              `json:"maxConsecutiveLosses"`
	Assets                []Asset          `json:"availableAssets"`
	SelectedAsset         int              `json:"selectedAssetIndex"`
	StrategyName          string           `json:"strategyName,omitempty"`
}

// DefaultSettings mirrors the values a first-time user starts with.
func DefaultSettings() Settings {
	assets := []Asset{
		{Name: "EUR/USD"},
		{Name: "GBP/USD"},
		{Name: "USD/JPY"},
		{Name: "XAU/USD"},
		{Name: "BTC/USD"},
	}
	for len(assets) < 10 {
		assets = append(assets, Asset{})
	}

	return Settings{
		InitialCapital:        decimal.NewFromInt(20),
		InitialStake:          decimal.NewFromInt(1),
		WinIncreasePercentage: decimal.NewFromInt(5),
		LossMultiplier:        decimal.RequireFromString("2.84"),
		MaxConsecutiveLosses:  3,
		Assets:                assets,
	}
}

// Payout returns the effective payout percentage.
func (s Settings) Payout() decimal.Decimal {
	if s.PayoutPercentage == nil {
		return DefaultPayout
	}
	return *s.PayoutPercentage
}

// BaseStake is the initial stake floored to the minimum stake.
func (s Settings) BaseStake() decimal.Decimal {
	return Floor(s.InitialStake)
}

// AssetName is the name recorded on new trades.
func (s Settings) AssetName() string {
	if s.SelectedAsset < 0 || s.SelectedAsset >= len(s.Assets) {
		return "Unknown"
	}
	if name := s.Assets[s.SelectedAsset].Name; name != "" {
		return name
	}
	return "Unknown"
}

// SelectAsset makes asset i active. An asset payout override, if present,
// becomes the payout percentage.
func (s Settings) SelectAsset(i int) (Settings, error) {
	if i < 0 || i >= len(s.Assets) {
		return s, fmt.Errorf("asset index %d out of range [0, %d)", i, len(s.Assets))
	}
	out := s.Clone()
	out.SelectedAsset = i
	if p := out.Assets[i].DefaultPayout; p != nil {
		v := *p
		out.PayoutPercentage = &v
	}
	return out, nil
}

// SetAssetPayout changes the payout override of asset i. A nil payout clears
// it. Editing the selected asset also updates the active payout.
func (s Settings) SetAssetPayout(i int, payout *decimal.Decimal) (Settings, error) {
	if i < 0 || i >= len(s.Assets) {
		return s, fmt.Errorf("asset index %d out of range [0, %d)", i, len(s.Assets))
	}
	if payout != nil && payout.IsNegative() {
		return s, fmt.Errorf("asset payout must not be negative")
	}
	out := s.Clone()
	if payout == nil {
		out.Assets[i].DefaultPayout = nil
		return out, nil
	}
	v := *payout
	out.Assets[i].DefaultPayout = &v
	if i == out.SelectedAsset {
		active := v
		out.PayoutPercentage = &active
	}
	return out, nil
}

// Validate checks the settings for values the engine cannot work with.
func (s Settings) Validate() error {
	if s.InitialCapital.IsNegative() {
		return fmt.Errorf("settings.initial_capital must not be negative")
	}
	if s.PayoutPercentage != nil && s.PayoutPercentage.IsNegative() {
		return fmt.Errorf("settings.payout_percentage must not be negative")
	}
	if !s.LossMultiplier.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("settings.loss_multiplier must be greater than 1")
	}
	if s.MaxConsecutiveLosses < 0 {
		return fmt.Errorf("settings.max_consecutive_losses must not be negative")
	}
	if len(s.Assets) == 0 {
		if s.SelectedAsset != 0 {
			return fmt.Errorf("settings.selected_asset %d with no assets", s.SelectedAsset)
		}
		return nil
	}
	if s.SelectedAsset < 0 || s.SelectedAsset >= len(s.Assets) {
		return fmt.Errorf("settings.selected_asset %d out of range [0, %d)", s.SelectedAsset, len(s.Assets))
	}
	for i, a := range s.Assets {
		if a.DefaultPayout != nil && a.DefaultPayout.IsNegative() {
			return fmt.Errorf("settings.assets[%d].default_payout must not be negative", i)
		}
	}
	return nil
}

// Clone returns a copy that shares no memory with s.
func (s Settings) Clone() Settings {
	out := s
	out.Assets = append([]Asset(nil), s.Assets...)
	if s.PayoutPercentage != nil {
		v := *s.PayoutPercentage
		out.PayoutPercentage = &v
	}
	return out
}
