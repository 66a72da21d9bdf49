// Package paygrid builds and reconciles the per-student payment grid: one
// toggle per configured month and year plus one per special payment type.
// A payment record's presence means the cell is paid.
package paygrid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MonthlyType is the payment type shared by every monthly cell.
const MonthlyType = "mensualidad"

// Grid configuration errors.
var (
	ErrMonthLabels  = errors.New("paygrid: exactly 12 month labels are required")
	ErrYear         = errors.New("paygrid: years must be non-zero and unique")
	ErrSpecialType  = errors.New("paygrid: special type ids must be non-empty and unique")
	ErrUnknownCell  = errors.New("paygrid: cell is not part of the grid")
	ErrMalformedKey = errors.New("paygrid: malformed cell key")
)

// SpecialType is a one-off payment category such as the registration fee.
type SpecialType struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Config is the payment type catalog the grid is built from.
type Config struct {
	Years        []int         `json:"years"`
	MonthLabels  []string      `json:"month_labels"`
	SpecialTypes []SpecialType `json:"special_types"`
}

// Key identifies one grid cell. Special cells use month 0 and year 0.
type Key struct {
	PaymentType string `json:"payment_type"`
	Month       int    `json:"month"`
	Year        int    `json:"year"`
}

// MonthlyKey returns the key of a month cell.
func MonthlyKey(month, year int) Key {
	return Key{PaymentType: MonthlyType, Month: month, Year: year}
}

// SpecialKey returns the key of a special payment cell.
func SpecialKey(id string) Key {
	return Key{PaymentType: id}
}

// IsSpecial reports whether the key addresses a special payment cell.
func (k Key) IsSpecial() bool {
	return k.PaymentType != MonthlyType
}

// String renders the key as "type:month:year".
func (k Key) String() string {
	return k.PaymentType + ":" + strconv.Itoa(k.Month) + ":" + strconv.Itoa(k.Year)
}

// ParseKey reads the "type:month:year" form produced by String. A bare special
// type id is accepted as shorthand for "id:0:0".
func ParseKey(raw string) (Key, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	switch len(parts) {
	case 1:
		if parts[0] == "" || parts[0] == MonthlyType {
			return Key{}, fmt.Errorf("%w: %q", ErrMalformedKey, raw)
		}
		return SpecialKey(parts[0]), nil
	case 3:
		month, errM := strconv.Atoi(parts[1])
		year, errY := strconv.Atoi(parts[2])
		if parts[0] == "" || errM != nil || errY != nil {
			return Key{}, fmt.Errorf("%w: %q", ErrMalformedKey, raw)
		}
		return Key{PaymentType: parts[0], Month: month, Year: year}, nil
	default:
		return Key{}, fmt.Errorf("%w: %q", ErrMalformedKey, raw)
	}
}

// Record is a payment as stored by the school API.
type Record struct {
	PaymentType string `json:"payment_type"`
	Month       int    `json:"month"`
	Year        int    `json:"year"`
}

// Key returns the cell key the record marks as paid.
func (r Record) Key() Key {
	return Key{PaymentType: r.PaymentType, Month: r.Month, Year: r.Year}
}

// Cell is one toggle of the grid.
type Cell struct {
	Key
	Label string `json:"label"`
}

// Validate checks the catalog invariants BuildGrid relies on.
func (c Config) Validate() error {
	if len(c.MonthLabels) != 12 {
		return ErrMonthLabels
	}
	seenYears := make(map[int]struct{}, len(c.Years))
	for _, y := range c.Years {
		if y == 0 {
			return ErrYear
		}
		if _, dup := seenYears[y]; dup {
			return fmt.Errorf("%w: %d repeated", ErrYear, y)
		}
		seenYears[y] = struct{}{}
	}
	seenTypes := make(map[string]struct{}, len(c.SpecialTypes))
	for _, st := range c.SpecialTypes {
		if st.ID == "" || st.ID == MonthlyType {
			return fmt.Errorf("%w: %q", ErrSpecialType, st.ID)
		}
		if _, dup := seenTypes[st.ID]; dup {
			return fmt.Errorf("%w: %q repeated", ErrSpecialType, st.ID)
		}
		seenTypes[st.ID] = struct{}{}
	}
	return nil
}

// BuildGrid lays out the cells for cfg: special types first in catalog order,
// then months 1..12 for each year in configured order. The result has
// 12*len(Years)+len(SpecialTypes) cells with distinct keys.
func BuildGrid(cfg Config) ([]Cell, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cells := make([]Cell, 0, len(cfg.SpecialTypes)+12*len(cfg.Years))
	for _, st := range cfg.SpecialTypes {
		label := st.Label
		if label == "" {
			label = st.ID
		}
		cells = append(cells, Cell{Key: SpecialKey(st.ID), Label: label})
	}
	for _, year := range cfg.Years {
		for month := 1; month <= 12; month++ {
			cells = append(cells, Cell{Key: MonthlyKey(month, year), Label: cfg.MonthLabels[month-1]})
		}
	}
	return cells, nil
}
