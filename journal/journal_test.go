package journal

import (
	"path/filepath"
	"testing"

	"github.com/rustyeddy/tradeguard/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.JournalConfig
		want    any
		wantErr bool
	}{
		{"none", config.JournalConfig{Type: "none"}, Nop{}, false},
		{"csv", config.JournalConfig{Type: "csv", TradesFile: filepath.Join(dir, "t.csv"), SessionsFile: filepath.Join(dir, "s.csv")}, &CSVJournal{}, false},
		{"sqlite", config.JournalConfig{Type: "sqlite", DBPath: filepath.Join(dir, "j.sqlite")}, &SQLite{}, false},
		{"unknown", config.JournalConfig{Type: "parquet"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, err := Open(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, j)
			assert.NoError(t, j.RecordTrade(sampleTrades()[0]))
			assert.NoError(t, j.RecordSession(sampleSession()))
			assert.NoError(t, j.Close())
		})
	}
}
