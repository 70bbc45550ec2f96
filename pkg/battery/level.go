package battery

import (
	"strconv"
	"strings"
)

// Level is a battery charge percentage.
//
// The zero value is a valid 0% reading; sources must use NoLevel when they have no reading.
type Level int

const (
	// NoLevel marks a missing or undecodable reading.
	NoLevel Level = -1

	// MinLevel is an empty battery.
	MinLevel Level = 0
	// MaxLevel is a full battery.
	MaxLevel Level = 100
)

// Valid returns true if l is a percentage in [MinLevel, MaxLevel].
func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

func (l Level) String() string {
	if !l.Valid() {
		return "n/a"
	}
	return strconv.Itoa(int(l)) + "%"
}

// GattLevel decodes the value of a Battery Level characteristic (0x2A19). Only the first byte is
// significant.
func GattLevel(value []byte) Level {
	if len(value) == 0 {
		return NoLevel
	}
	return checkedLevel(int(value[0]))
}

// VendorLevel decodes a percentage from an accessory registry. Registries report 0 or 255 when
// they do not know the level, so 0 is not a reading here.
func VendorLevel(raw int) Level {
	if raw == 0 {
		return NoLevel
	}
	return checkedLevel(raw)
}

// ParseVendorLevel decodes textual registry fields such as "76%" or "76".
func ParseVendorLevel(s string) Level {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return NoLevel
	}
	raw, err := strconv.Atoi(s)
	if err != nil {
		return NoLevel
	}
	return VendorLevel(raw)
}

func checkedLevel(raw int) Level {
	if raw < int(MinLevel) || raw > int(MaxLevel) {
		return NoLevel
	}
	return Level(raw)
}

// Components holds the individual batteries of multi-battery accessories such as earbuds.
// Absent batteries are NoLevel.
type Components struct {
	Left  Level
	Right Level
	Case  Level
}

// NewComponents returns a Components value with the provided levels, or nil if none are valid.
func NewComponents(left, right, caseLevel Level) *Components {
	c := &Components{Left: left, Right: right, Case: caseLevel}
	if !c.Any() {
		return nil
	}
	return c
}

// Any returns true if at least one component level is valid.
func (c *Components) Any() bool {
	return c != nil && (c.Left.Valid() || c.Right.Valid() || c.Case.Valid())
}

// Lowest returns the lowest valid level of the earbuds, falling back to the case.
func (c *Components) Lowest() Level {
	if c == nil {
		return NoLevel
	}
	lowest := NoLevel
	for _, l := range []Level{c.Left, c.Right} {
		if l.Valid() && (!lowest.Valid() || l < lowest) {
			lowest = l
		}
	}
	if !lowest.Valid() {
		return c.Case
	}
	return lowest
}

// merge fills the absent levels of c from other. Present levels are kept.
func (c *Components) merge(other *Components) *Components {
	if !other.Any() {
		return c
	}
	if c == nil {
		copied := *other
		return &copied
	}
	merged := *c
	if !merged.Left.Valid() {
		merged.Left = other.Left
	}
	if !merged.Right.Valid() {
		merged.Right = other.Right
	}
	if !merged.Case.Valid() {
		merged.Case = other.Case
	}
	return &merged
}
