// =============================================================================
// Prisme Transactions - Record Encoders
// =============================================================================
//
// An Encoder turns one input row into one Prisme record. Each output file
// gets a fresh Encoder so the line counters of the G68 and G69 writers start
// at 1 per file and no writer is shared between goroutines.
//
// Every encoder publishes a validation.Schema describing the columns it
// reads, so bad cells are reported for the whole file before encoding.
//
// =============================================================================

package converter

//go:generate mockgen -destination=mocks/mock_encoder.go -package=mocks -source=encoder.go Encoder

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/prisme-transactions/internal/config"
	"github.com/ginjaninja78/prisme-transactions/internal/types"
	"github.com/ginjaninja78/prisme-transactions/internal/validation"
)

// Record is one encoded row.
type Record struct {
	// Text is the serialized record. Multi-line records are CRLF-joined.
	Text string

	// Lines is the number of output lines in Text.
	Lines int

	// AmountOre is the signed amount of the record in øre.
	AmountOre int64
}

// Encoder encodes rows into records of one output format.
type Encoder interface {
	// Format is the output format, one of the config.Format constants.
	Format() string

	// Schema describes the input fields the encoder reads.
	Schema() validation.Schema

	// Encode renders one row. A failed row leaves the encoder usable.
	Encode(row types.Row) (Record, error)
}

// EncoderFactory builds the encoder for one output file.
type EncoderFactory func(profile *config.ProfileConfig) (Encoder, error)

// NewEncoder returns the encoder selected by the profile format. now is the
// run date used for date defaults.
func NewEncoder(profile *config.ProfileConfig, now time.Time) (Encoder, error) {
	switch strings.ToLower(profile.Format) {
	case config.FormatG68:
		return NewG68Encoder(profile.G68)
	case config.FormatG69:
		return NewG69Encoder(profile.G69)
	case config.Format10Q:
		return NewTenQEncoder(profile.TenQ, now)
	}
	return nil, fmt.Errorf("unknown output format %q", profile.Format)
}

// DefaultEncoderFactory returns an EncoderFactory around NewEncoder that
// takes the run date from clock.
func DefaultEncoderFactory(clock func() time.Time) EncoderFactory {
	return func(profile *config.ProfileConfig) (Encoder, error) {
		return NewEncoder(profile, clock())
	}
}

// =============================================================================
// CELL HELPERS
// =============================================================================

// cellError names the column of a cell that could not be converted.
func cellError(name, value string, err error) error {
	return fmt.Errorf("field %s (value %q): %w", name, value, err)
}

func parseInt(row types.Row, name string) (int64, error) {
	value := strings.TrimSpace(row.Get(name))
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, cellError(name, value, err)
	}
	return n, nil
}

// optionalInt returns def when the cell is empty.
func optionalInt(row types.Row, name string, def int) (int, error) {
	if strings.TrimSpace(row.Get(name)) == "" {
		return def, nil
	}
	n, err := parseInt(row, name)
	return int(n), err
}

func parseDate(row types.Row, name string) (time.Time, error) {
	value := row.Get(name)
	t, err := validation.ParseDate(value)
	if err != nil {
		return time.Time{}, cellError(name, value, err)
	}
	return t, nil
}

// parseCode accepts a number or one of the names in codes, case-insensitive.
func parseCode(row types.Row, name string, codes map[string]int64) (int64, error) {
	value := strings.ToLower(strings.TrimSpace(row.Get(name)))
	if n, ok := codes[value]; ok {
		return n, nil
	}
	return parseInt(row, name)
}
