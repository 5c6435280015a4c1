package stake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	set := DefaultSettings()
	require.NoError(t, set.Validate())
	assert.Len(t, set.Assets, 10)
	assert.Equal(t, "EUR/USD", set.AssetName())
	assertDec(t, "85", set.Payout())
	assertDec(t, "1", set.BaseStake())
}

func TestAssetName(t *testing.T) {
	set := DefaultSettings()
	set.SelectedAsset = 7
	assert.Equal(t, "Unknown", set.AssetName())

	set.Assets = nil
	set.SelectedAsset = 0
	assert.Equal(t, "Unknown", set.AssetName())
}

func TestSelectAssetCopiesPayout(t *testing.T) {
	set := DefaultSettings()
	set.PayoutPercentage = pct("80")

	withOverride, err := set.SetAssetPayout(2, pct("92"))
	require.NoError(t, err)
	assertDec(t, "80", withOverride.Payout(), "editing a non-selected asset leaves the payout alone")

	selected, err := withOverride.SelectAsset(2)
	require.NoError(t, err)
	assert.Equal(t, 2, selected.SelectedAsset)
	assert.Equal(t, "USD/JPY", selected.AssetName())
	assertDec(t, "92", selected.Payout())

	// An asset without an override keeps the current payout.
	plain, err := selected.SelectAsset(0)
	require.NoError(t, err)
	assertDec(t, "92", plain.Payout())

	// The original settings value is untouched.
	assert.Nil(t, set.Assets[2].DefaultPayout)
	assertDec(t, "80", set.Payout())

	_, err = set.SelectAsset(10)
	assert.Error(t, err)
}

func TestSetAssetPayoutOnSelectedAsset(t *testing.T) {
	set := DefaultSettings()

	got, err := set.SetAssetPayout(0, pct("77"))
	require.NoError(t, err)
	assertDec(t, "77", got.Payout())

	cleared, err := got.SetAssetPayout(0, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.Assets[0].DefaultPayout)
	assertDec(t, "77", cleared.Payout())

	_, err = set.SetAssetPayout(0, pct("-1"))
	assert.Error(t, err)
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		errMsg string
	}{
		{"valid", func(*Settings) {}, ""},
		{"negative capital", func(s *Settings) { s.InitialCapital = dec("-1") }, "settings.initial_capital"},
		{"negative payout", func(s *Settings) { s.PayoutPercentage = pct("-5") }, "settings.payout_percentage"},
		{"multiplier of one", func(s *Settings) { s.LossMultiplier = dec("1") }, "settings.loss_multiplier must be greater than 1"},
		{"negative max losses", func(s *Settings) { s.MaxConsecutiveLosses = -1 }, "settings.max_consecutive_losses"},
		{"selected out of range", func(s *Settings) { s.SelectedAsset = 10 }, "settings.selected_asset"},
		{"negative asset payout", func(s *Settings) { s.Assets[1].DefaultPayout = pct("-2") }, "settings.assets[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := DefaultSettings()
			tt.mutate(&set)
			err := set.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
