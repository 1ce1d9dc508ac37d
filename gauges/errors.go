// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gauges

import (
	"errors"
	"fmt"
)

var (
	ErrUnresolvedGauge = errors.New("gauge address not found in proposal choices")
	ErrAmbiguousGauge  = errors.New("gauge address prefix shared by several choices")
	ErrInvalidWeight   = errors.New("invalid weight")
)

// UnresolvedGaugeError is returned when an allocation's prefix matches no choice.
type UnresolvedGaugeError struct {
	Space  string
	Gauge  string
	Prefix string
}

func (e *UnresolvedGaugeError) Error() string {
	return fmt.Sprintf("%s: space %s, gauge %s (prefix %s)", ErrUnresolvedGauge, e.Space, e.Gauge, e.Prefix)
}

func (e *UnresolvedGaugeError) Unwrap() error { return ErrUnresolvedGauge }

// AmbiguousGaugeError is returned when an allocation's prefix was claimed by
// more than one choice.
type AmbiguousGaugeError struct {
	Space   string
	Gauge   string
	Prefix  string
	Choices []int
}

func (e *AmbiguousGaugeError) Error() string {
	return fmt.Sprintf("%s: space %s, gauge %s (prefix %s, choices %v)", ErrAmbiguousGauge, e.Space, e.Gauge, e.Prefix, e.Choices)
}

func (e *AmbiguousGaugeError) Unwrap() error { return ErrAmbiguousGauge }

type InvalidWeightError struct {
	Space  string
	Gauge  string
	Weight string
	Err    error
}

func (e *InvalidWeightError) Error() string {
	return fmt.Sprintf("%s %s for gauge %s in space %s: %v", ErrInvalidWeight, e.Weight, e.Gauge, e.Space, e.Err)
}

func (e *InvalidWeightError) Is(target error) bool { return target == ErrInvalidWeight }

func (e *InvalidWeightError) Unwrap() error { return e.Err }
