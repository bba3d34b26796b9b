package display

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomm/internal/omm"
)

func sampleMessage() omm.Message {
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
		},
	}
}

func TestRenderFields(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, Render(&buf, sampleMessage()))
	out := buf.String()

	assert.Contains(t, out, "OMM version 3.0")
	assert.Contains(t, out, "ISS (ZARYA)")
	assert.Contains(t, out, "1998-067A")
	assert.Contains(t, out, "2026-08-29T21:59:59.999808")
	assert.Contains(t, out, "15.50103472")
	assert.Contains(t, out, "51.6423")
}

func TestRenderSkipsAbsentSections(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, Render(&buf, sampleMessage()))
	out := buf.String()

	assert.NotContains(t, out, "SEMI_MAJOR_AXIS")
	assert.NotContains(t, out, "MESSAGE_ID")
	assert.NotContains(t, out, "MASS")
	assert.NotContains(t, out, "NORAD_CAT_ID")
	assert.NotContains(t, out, "BSTAR")
}

func TestRenderOptionalSections(t *testing.T) {
	m := sampleMessage()
	m.Header.MessageID = "6059c9f6-1b75-4a75-8479-5e2fe549e64c"
	m.Data.Spacecraft = omm.SpacecraftParameters{Mass: omm.Float64(473000)}
	m.Data.TLE = omm.TLEParameters{
		NoradCatID: omm.Int(25544),
		BStar:      omm.Float64(0.64432e-4),
	}

	var buf strings.Builder
	require.NoError(t, Render(&buf, m))
	out := buf.String()

	assert.Contains(t, out, "MESSAGE_ID")
	assert.Contains(t, out, "MASS [kg]")
	assert.Contains(t, out, "473000")
	assert.Contains(t, out, "NORAD_CAT_ID")
	assert.Contains(t, out, "25544")
}

func TestRenderUserDefinedOrder(t *testing.T) {
	m := sampleMessage()
	m.Data.UserDefined = []omm.UserDefined{
		{Parameter: "ZULU", Value: "last in alphabet, first in file"},
		{Parameter: "ALPHA", Value: "first in alphabet, second in file"},
	}

	var buf strings.Builder
	require.NoError(t, Render(&buf, m))
	out := buf.String()

	assert.Less(t, strings.Index(out, "ZULU"), strings.Index(out, "ALPHA"))
}

func TestRenderAllSeparatesMessages(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, RenderAll(&buf, []omm.Message{sampleMessage(), sampleMessage()}))

	assert.Equal(t, 2, strings.Count(buf.String(), "OMM version 3.0"))
}
