// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hedera

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const tinybarsPerHbar = 100_000_000

// Hbar is an amount of the ledger's native currency, held in tinybars
type Hbar struct {
	tinybar int64
}

var ZeroHbar = Hbar{}

// NewHbar returns the given amount of hbar, rounded to the nearest tinybar
func NewHbar(hbar float64) Hbar {
	return Hbar{tinybar: int64(math.Round(hbar * tinybarsPerHbar))}
}

func HbarFromTinybar(tinybar int64) Hbar {
	return Hbar{tinybar: tinybar}
}

// HbarFromString parses amounts such as "2", "1.5 hbar", "1.5 ℏ", "100 tinybar"
// and "100 tℏ"
func HbarFromString(s string) (Hbar, error) {
	value, unit, _ := strings.Cut(strings.TrimSpace(s), " ")
	switch strings.TrimSpace(unit) {
	case "", "hbar", "ℏ":
		hbar, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(hbar) || math.IsInf(hbar, 0) {
			return Hbar{}, fmt.Errorf("%w: %q", ErrInvalidHbar, s)
		}
		return NewHbar(hbar), nil
	case "tinybar", "tℏ":
		tinybar, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return Hbar{}, fmt.Errorf("%w: %q", ErrInvalidHbar, s)
		}
		return HbarFromTinybar(tinybar), nil
	default:
		return Hbar{}, fmt.Errorf("%w: %q: unknown unit", ErrInvalidHbar, s)
	}
}

func (h Hbar) AsTinybar() int64 {
	return h.tinybar
}

func (h Hbar) AsHbar() float64 {
	return float64(h.tinybar) / tinybarsPerHbar
}

func (h Hbar) Negated() Hbar {
	return Hbar{tinybar: -h.tinybar}
}

func (h Hbar) String() string {
	// Small amounts read better in tinybars
	if h.tinybar > -10_000 && h.tinybar < 10_000 {
		return fmt.Sprintf("%d tℏ", h.tinybar)
	}
	return strconv.FormatFloat(h.AsHbar(), 'f', -1, 64) + " ℏ"
}

func (h *Hbar) UnmarshalYAML(value *yaml.Node) error {
	tmp, err := HbarFromString(value.Value)
	if err != nil {
		return err
	}
	*h = tmp
	return nil
}
