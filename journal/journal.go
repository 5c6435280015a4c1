// Package journal records every settled trade and archived session to a
// durable log that outlives state resets.
package journal

import (
	"fmt"

	"github.com/rustyeddy/tradeguard/config"
	"github.com/rustyeddy/tradeguard/stake"
)

type Journal interface {
	RecordTrade(stake.Trade) error
	RecordSession(stake.Session) error
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordTrade(stake.Trade) error     { return nil }
func (Nop) RecordSession(stake.Session) error { return nil }
func (Nop) Close() error                      { return nil }

// Open builds the journal selected by cfg.Type.
func Open(cfg config.JournalConfig) (Journal, error) {
	switch cfg.Type {
	case "csv":
		j, err := NewCSV(cfg.TradesFile, cfg.SessionsFile)
		if err != nil {
			return nil, fmt.Errorf("open csv journal: %w", err)
		}
		return j, nil
	case "sqlite":
		j, err := NewSQLite(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite journal: %w", err)
		}
		return j, nil
	case "none", "":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown journal type: %q", cfg.Type)
	}
}
