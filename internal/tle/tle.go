// Package tle converts Orbit Mean-Elements Messages into legacy Two-Line
// Element records.
package tle

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"gomm/internal/omm"
)

// DefaultGM is used to derive mean motion from semi-major axis when the
// message carries neither MEAN_MOTION nor GM. km^3/s^2.
const DefaultGM = 398600.4418

// ErrMeanElementTheory is returned when a message's mean-element theory is not
// SGP4. Only SGP4-theory messages carry element values in the scaled form a
// TLE expects.
var ErrMeanElementTheory = fmt.Errorf("mean element theory is not SGP4")

// Record holds the fields of a two-line element set. Render the classic
// fixed-column lines with Line1 and Line2, or hand the record to the SGP4
// propagator with Satellite.
type Record struct {
	SatelliteNumber int
	Classification  byte
	IntlDesignator  string
	EpochYear       int     // two-digit year
	EpochDay        float64 // day of year plus fraction of day
	MeanMotionDot   float64
	MeanMotionDDot  float64
	BStar           float64
	EphemerisType   int
	ElementSetNo    int
	Inclination     float64 // deg
	RaOfAscNode     float64 // deg
	Eccentricity    float64
	ArgOfPericenter float64 // deg
	MeanAnomaly     float64 // deg
	MeanMotion      float64 // rev/day
	RevAtEpoch      int
}

// FromOMM converts a validated message into a TLE record. The message's
// mean-element theory must be SGP4. Mean motion is taken from the message
// when present (assumed already SGP4-scaled, as are the mean-motion
// derivatives) and otherwise derived from the semi-major axis and GM.
func FromOMM(m omm.Message) (Record, error) {
	if err := m.Validate(); err != nil {
		return Record{}, err
	}
	theory := strings.TrimSpace(m.Metadata.MeanElementTheory)
	if !strings.EqualFold(theory, "SGP4") {
		return Record{}, fmt.Errorf("%w: %q", ErrMeanElementTheory, theory)
	}

	me := m.Data.MeanElements
	meanMotion, err := meanMotionRevPerDay(me)
	if err != nil {
		return Record{}, err
	}

	year, day := encodeEpoch(me.Epoch)

	r := Record{
		Classification:  'U',
		IntlDesignator:  FormatIntlDesignator(m.Metadata.ObjectID),
		EpochYear:       year,
		EpochDay:        day,
		Inclination:     me.Inclination,
		RaOfAscNode:     me.RaOfAscNode,
		Eccentricity:    me.Eccentricity,
		ArgOfPericenter: me.ArgOfPericenter,
		MeanAnomaly:     me.MeanAnomaly,
		MeanMotion:      meanMotion,
	}

	tp := m.Data.TLE
	if tp.NoradCatID != nil {
		r.SatelliteNumber = *tp.NoradCatID
	}
	if tp.ClassificationType != "" {
		r.Classification = tp.ClassificationType[0]
	}
	if tp.EphemerisType != nil {
		r.EphemerisType = *tp.EphemerisType
	}
	if tp.ElementSetNo != nil {
		r.ElementSetNo = *tp.ElementSetNo
	}
	if tp.RevAtEpoch != nil {
		r.RevAtEpoch = *tp.RevAtEpoch
	}
	if tp.BStar != nil {
		r.BStar = *tp.BStar
	}
	if tp.MeanMotionDot != nil {
		r.MeanMotionDot = *tp.MeanMotionDot
	}
	if tp.MeanMotionDDot != nil {
		r.MeanMotionDDot = *tp.MeanMotionDDot
	}

	return r, nil
}

// encodeEpoch splits a timestamp into the TLE epoch fields: the year modulo
// 100, and the day of year plus the time since UTC midnight as a fraction of
// 86400 seconds, with full sub-second precision.
func encodeEpoch(epoch time.Time) (int, float64) {
	epoch = epoch.UTC()
	midnight := time.Date(epoch.Year(), epoch.Month(), epoch.Day(), 0, 0, 0, 0, time.UTC)
	frac := epoch.Sub(midnight).Seconds() / 86400.0
	return epoch.Year() % 100, float64(epoch.YearDay()) + frac
}

var intlDesignatorRe = regexp.MustCompile(`^(\d{4})-(\d{1,3})([A-Za-z]*)$`)

// FormatIntlDesignator reformats a CCSDS object id of the form YYYY-NNN[piece]
// into the TLE YYNNN[piece] form: last two digits of the launch year, launch
// number padded to three digits, piece letters unchanged. Object ids that do
// not match the pattern pass through unchanged; lossy but non-fatal.
func FormatIntlDesignator(objectID string) string {
	m := intlDesignatorRe.FindStringSubmatch(strings.TrimSpace(objectID))
	if m == nil {
		return objectID
	}
	year := m[1][2:]
	launch := m[2]
	for len(launch) < 3 {
		launch = "0" + launch
	}
	return year + launch + strings.ToUpper(m[3])
}

// meanMotionRevPerDay returns the message's mean motion, deriving it from the
// semi-major axis when absent: n = sqrt(GM/a^3) rad/s, converted to rev/day.
func meanMotionRevPerDay(me omm.MeanElements) (float64, error) {
	if me.MeanMotion != nil {
		return *me.MeanMotion, nil
	}
	if me.SemiMajorAxis == nil {
		return 0, fmt.Errorf("message has neither mean motion nor semi-major axis")
	}
	a := *me.SemiMajorAxis
	if a <= 0 {
		return 0, fmt.Errorf("semi-major axis %v km is not positive", a)
	}
	gm := DefaultGM
	if me.GM != nil {
		gm = *me.GM
	}
	radPerSec := math.Sqrt(gm / (a * a * a))
	return radPerSec / (2 * math.Pi) * 86400.0, nil
}

// Satellite initializes the SGP4 propagator from the record via the rendered
// lines, using WGS-72 gravity constants as SGP4 convention dictates.
func (r Record) Satellite() satellite.Satellite {
	return satellite.TLEToSat(r.Line1(), r.Line2(), satellite.GravityWGS72)
}
