/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

/*
Package rtc holds the caller-facing representation of a virtual RTC
reading: a broken-down UTC calendar time with the representable range of
a hardware RTC, and the validity checking that goes with it.
*/
package rtc

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTime is returned when an instant cannot be represented as an
// RTC reading. It is the only error this module produces in steady state.
var ErrInvalidTime = errors.New("time is out of the representable RTC range")

// Representable year range. RTC hardware traditionally carries a four
// digit year and nothing before the Unix epoch.
const (
	MinYear = 1970
	MaxYear = 9999
)

var (
	minInstant = time.Date(MinYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxInstant = time.Date(MaxYear, time.December, 31, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
)

// ValidInstant range-checks a raw instant against the representable RTC
// range. It returns an error wrapping ErrInvalidTime if t cannot be
// expressed as a Time.
func ValidInstant(t time.Time) error {
	if t.Before(minInstant) || t.After(maxInstant) {
		return fmt.Errorf("%v: %w", t, ErrInvalidTime)
	}
	return nil
}

// Time is a broken-down UTC calendar time, the wire and display form of
// a virtual RTC reading. Sub-second precision is intentionally absent,
// matching what an RTC register file holds.
type Time struct {
	Second int `json:"sec"`
	Minute int `json:"min"`
	Hour   int `json:"hour"`
	Day    int `json:"day"`
	Month  int `json:"month"`
	Year   int `json:"year"`
}

// FromTime breaks an instant down into RTC fields, in UTC.
func FromTime(t time.Time) Time {
	t = t.UTC()
	return Time{
		Second: t.Second(),
		Minute: t.Minute(),
		Hour:   t.Hour(),
		Day:    t.Day(),
		Month:  int(t.Month()),
		Year:   t.Year(),
	}
}

// Time converts the broken-down form back to an instant in UTC.
func (t Time) Time() time.Time {
	return time.Date(t.Year, time.Month(t.Month), t.Day, t.Hour, t.Minute, t.Second, 0, time.UTC)
}

// Valid reports whether the fields form a real calendar time within the
// representable range. time.Date normalizes out-of-range fields (Feb 30
// becomes Mar 1 or 2), so a round-trip mismatch means the fields were
// not a real date.
func (t Time) Valid() error {
	if t.Year < MinYear || t.Year > MaxYear {
		return fmt.Errorf("year %d: %w", t.Year, ErrInvalidTime)
	}
	if FromTime(t.Time()) != t {
		return fmt.Errorf("%+v is not a valid calendar time: %w", t, ErrInvalidTime)
	}
	return nil
}

func (t Time) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d UTC", t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second)
}
