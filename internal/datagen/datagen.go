// Package datagen produces training samples from randomly generated
// positions: rejection-sampled placements, optional tablebase outcome
// labels, and bin/txt/epd dataset writers.
package datagen

import (
	"fmt"

	"github.com/rs/zerolog"

	"samplegen/internal/rules"
	"samplegen/internal/tb"
)

// Format selects the dataset encoding. One format per run.
type Format string

const (
	FormatBin Format = "bin" // binary sample records
	FormatTxt Format = "txt" // "<fen>|<score>|<l|d|w>" lines
	FormatEPD Format = "epd" // "<fen>;" lines, positions only
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatBin, FormatTxt, FormatEPD:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want bin, txt or epd)", s)
	}
}

// CheckPolicy filters candidates on which kings stand in check. Check
// status is evaluated per color as a static property of the placement,
// independent of the side to move.
type CheckPolicy uint8

const (
	// RejectChecks drops any candidate with a king in check.
	RejectChecks CheckPolicy = iota
	// AllowSingleCheck drops only candidates with both kings in check.
	AllowSingleCheck
	// AllowDoubleCheck accepts every check configuration.
	AllowDoubleCheck
)

func (p CheckPolicy) String() string {
	switch p {
	case AllowSingleCheck:
		return "allow-single-check"
	case AllowDoubleCheck:
		return "allow-double-check"
	default:
		return "reject-checks"
	}
}

// Config parameterizes one generation run.
type Config struct {
	Pieces  int    // total pieces per position, both kings included
	Samples uint64 // records to write
	Out     string // output path; a .zst suffix compresses
	Format  Format
	Seed    int64

	CheckPolicy CheckPolicy
	ScoreScale  int16    // |score| written for tablebase wins and losses (default 1024)
	Table       tb.Table // optional outcome table; nil labels every sample a draw

	DedupWindow int    // discard repeats among the last N accepted positions (0 = off)
	MaxAttempts uint64 // give up after this many candidates (0 = keep sampling)

	Engine        rules.Engine // defaults to rules.NewDragonEngine()
	ProgressEvery uint64       // written records between progress events (default samples/100)
	Logger        zerolog.Logger
}

// Counters tallies one generation run.
type Counters struct {
	Attempts     uint64 // candidates drawn
	DoubledPawns uint64 // discarded during placement for same-color pawns sharing a file
	Rejected     uint64 // failed placement legality or the check policy
	DedupHits    uint64 // repeats within the dedup window
	TableMisses  uint64 // positions the outcome table could not label
	Written      uint64
}
