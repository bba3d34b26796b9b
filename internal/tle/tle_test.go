package tle

import (
	"testing"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomm/internal/omm"
)

// sgp4Message builds a valid SGP4-theory message resembling a Celestrak ISS
// element set.
func sgp4Message() omm.Message {
	return omm.Message{
		Version: "3.0",
		Header: omm.Header{
			CreationDate: time.Date(2026, 8, 30, 6, 12, 44, 0, time.UTC),
			Originator:   "CELESTRAK",
		},
		Metadata: omm.Metadata{
			ObjectName:        "ISS (ZARYA)",
			ObjectID:          "1998-067A",
			CenterName:        "EARTH",
			RefFrame:          "TEME",
			TimeSystem:        "UTC",
			MeanElementTheory: "SGP4",
		},
		Data: omm.Data{
			MeanElements: omm.MeanElements{
				Epoch:           time.Date(2026, 8, 29, 21, 59, 59, 999808000, time.UTC),
				MeanMotion:      omm.Float64(15.50103472),
				Eccentricity:    0.0003453,
				Inclination:     51.6423,
				RaOfAscNode:     291.3826,
				ArgOfPericenter: 131.5389,
				MeanAnomaly:     228.5906,
			},
			TLE: omm.TLEParameters{
				EphemerisType:      omm.Int(0),
				ClassificationType: "U",
				NoradCatID:         omm.Int(25544),
				ElementSetNo:       omm.Int(999),
				RevAtEpoch:         omm.Int(52761),
				BStar:              omm.Float64(0.64432e-4),
				MeanMotionDot:      omm.Float64(0.00012941),
				MeanMotionDDot:     omm.Float64(0),
			},
		},
	}
}

func TestFromOMMRequiresSGP4(t *testing.T) {
	m := sgp4Message()
	m.Metadata.MeanElementTheory = "DSST"

	_, err := FromOMM(m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMeanElementTheory)

	// Case and surrounding whitespace do not matter.
	m.Metadata.MeanElementTheory = " sgp4 "
	_, err = FromOMM(m)
	assert.NoError(t, err)
}

func TestFromOMMFields(t *testing.T) {
	rec, err := FromOMM(sgp4Message())
	require.NoError(t, err)

	assert.Equal(t, 25544, rec.SatelliteNumber)
	assert.Equal(t, byte('U'), rec.Classification)
	assert.Equal(t, "98067A", rec.IntlDesignator)
	assert.Equal(t, 26, rec.EpochYear)
	assert.Equal(t, 51.6423, rec.Inclination)
	assert.Equal(t, 291.3826, rec.RaOfAscNode)
	assert.Equal(t, 0.0003453, rec.Eccentricity)
	assert.Equal(t, 131.5389, rec.ArgOfPericenter)
	assert.Equal(t, 228.5906, rec.MeanAnomaly)
	assert.Equal(t, 15.50103472, rec.MeanMotion)
	assert.Equal(t, 52761, rec.RevAtEpoch)
	assert.Equal(t, 999, rec.ElementSetNo)
	assert.Equal(t, 0.64432e-4, rec.BStar)
	assert.Equal(t, 0.00012941, rec.MeanMotionDot)
}

func TestFromOMMDefaults(t *testing.T) {
	m := sgp4Message()
	m.Data.TLE = omm.TLEParameters{}

	rec, err := FromOMM(m)
	require.NoError(t, err)

	assert.Equal(t, 0, rec.SatelliteNumber)
	assert.Equal(t, byte('U'), rec.Classification)
	assert.Equal(t, 0, rec.ElementSetNo)
	assert.Equal(t, 0, rec.RevAtEpoch)
	assert.Equal(t, 0.0, rec.BStar)
	assert.Equal(t, 0.0, rec.MeanMotionDot)
	assert.Equal(t, 0.0, rec.MeanMotionDDot)
}

func TestEpochEncoding(t *testing.T) {
	m := sgp4Message()
	m.Data.MeanElements.Epoch = time.Date(2025, 12, 30, 18, 12, 4, 533984000, time.UTC)
	m.Data.MeanElements.MeanMotion = omm.Float64(14.40772474)
	m.Metadata.ObjectID = "2021-015A"

	rec, err := FromOMM(m)
	require.NoError(t, err)

	assert.Equal(t, 25, rec.EpochYear)
	// Day of year 364, plus 18:12:04.533984 since midnight over 86400 s.
	assert.InDelta(t, 364.0+65524.533984/86400.0, rec.EpochDay, 1e-9)
	assert.Equal(t, "21015A", rec.IntlDesignator)
}

func TestFormatIntlDesignator(t *testing.T) {
	tests := []struct {
		objectID string
		want     string
	}{
		{"1998-067A", "98067A"},
		{"2021-015A", "21015A"},
		{"2006-5B", "06005B"},
		{"2019-074AC", "19074AC"},
		{"2024-149", "24149"},
		{"UNKNOWN", "UNKNOWN"},      // no pattern match, passed through
		{"98067A", "98067A"},        // already TLE form
		{"2021-0154A", "2021-0154A"}, // launch number too long
	}
	for _, tt := range tests {
		t.Run(tt.objectID, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatIntlDesignator(tt.objectID))
		})
	}
}

func TestMeanMotionDerivedFromSemiMajorAxis(t *testing.T) {
	m := sgp4Message()
	m.Data.MeanElements.MeanMotion = nil
	m.Data.MeanElements.SemiMajorAxis = omm.Float64(6796.0)

	rec, err := FromOMM(m)
	require.NoError(t, err)
	// n = sqrt(GM/a^3)/(2 pi) * 86400 with the default GM.
	assert.InDelta(t, 15.496, rec.MeanMotion, 1e-3)

	// An explicit GM takes precedence over the default.
	m.Data.MeanElements.GM = omm.Float64(398600.8)
	rec2, err := FromOMM(m)
	require.NoError(t, err)
	assert.Greater(t, rec2.MeanMotion, rec.MeanMotion)
	assert.InDelta(t, rec.MeanMotion, rec2.MeanMotion, 1e-4)
}

func TestMeanMotionUsedDirectly(t *testing.T) {
	// When the message provides mean motion it is used unmodified, even if a
	// semi-major axis is also present.
	m := sgp4Message()
	m.Data.MeanElements.SemiMajorAxis = omm.Float64(42164.0)

	rec, err := FromOMM(m)
	require.NoError(t, err)
	assert.Equal(t, 15.50103472, rec.MeanMotion)
}

func TestLineRendering(t *testing.T) {
	rec, err := FromOMM(sgp4Message())
	require.NoError(t, err)

	line1 := rec.Line1()
	line2 := rec.Line2()

	require.Len(t, line1, 69)
	require.Len(t, line2, 69)

	assert.Equal(t, "1 25544U 98067A  ", line1[:17])
	assert.Equal(t, "2 25544", line2[:7])
	assert.Contains(t, line1, "26241.91666666")
	assert.Contains(t, line1, " .00012941")
	assert.Contains(t, line1, " 64432-4")
	assert.Contains(t, line2, "0003453")
	assert.Contains(t, line2, "15.50103472")
	assert.Contains(t, line2, "52761")

	// Both checksums must come out valid.
	assert.Equal(t, checksum(line1[:68]), int(line1[68]-'0'))
	assert.Equal(t, checksum(line2[:68]), int(line2[68]-'0'))
}

func TestChecksumKnownLine(t *testing.T) {
	// A published ISS element set; the trailing digit is the checksum.
	line := "1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927"
	assert.Equal(t, 7, checksum(line[:68]))
}

func TestFormatExpField(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, " 00000-0"},
		{0.64432e-4, " 64432-4"},
		{-0.11606e-4, "-11606-4"},
		{0.16238e-2, " 16238-2"},
		{0.99999999e-1, " 10000+0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fmtExpField(tt.value))
	}
}

func TestSatelliteHandoff(t *testing.T) {
	rec, err := FromOMM(sgp4Message())
	require.NoError(t, err)

	sat := rec.Satellite()
	epoch := time.Date(2026, 8, 29, 22, 0, 0, 0, time.UTC)
	pos, _ := satellite.Propagate(sat, epoch.Year(), int(epoch.Month()), epoch.Day(),
		epoch.Hour(), epoch.Minute(), epoch.Second())

	// A low-earth orbit: geocentric distance a few hundred km above the
	// surface, in km.
	dist := pos.X*pos.X + pos.Y*pos.Y + pos.Z*pos.Z
	assert.Greater(t, dist, 6500.0*6500.0)
	assert.Less(t, dist, 7100.0*7100.0)
}

func TestFromOMMValidatesMessage(t *testing.T) {
	m := sgp4Message()
	m.Metadata.ObjectName = ""

	_, err := FromOMM(m)
	var rfe *omm.RequiredFieldError
	require.ErrorAs(t, err, &rfe)
	assert.Equal(t, "OBJECT_NAME", rfe.Tag)
}
