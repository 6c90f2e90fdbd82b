// Package idgen provides opaque, collision-resistant record ID generation
// backed by nanoid. IDs carry a coarse time component so freshly created
// records sort roughly by age, but consumers must only ever compare them as
// strings.
package idgen

import (
	"fmt"
	"strconv"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// DefaultPrefix is prepended to IDs generated without an explicit prefix.
var DefaultPrefix = "rec-"

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix
// and time component).
var Length = 10

// numerals is the character set used for membership numbers.
const numerals = "0123456789"

// Generate returns a new unique ID using the default prefix.
func Generate() (string, error) {
	return GenerateWithPrefix(DefaultPrefix)
}

// GenerateWithPrefix returns a new unique ID of the form
// "<prefix><base36 millis>-<random>".
func GenerateWithPrefix(prefix string) (string, error) {
	suffix, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	millis := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return prefix + millis + "-" + suffix, nil
}

// MemberNumber returns a new membership number of the form "M-<year>-<6 digits>".
// Membership numbers are labels printed on cards and letters; they are not
// record IDs and carry no ordering guarantee.
func MemberNumber() (string, error) {
	digits, err := nanoid.Generate(numerals, 6)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return fmt.Sprintf("M-%d-%s", time.Now().Year(), digits), nil
}
