package omm

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneIsDeep(t *testing.T) {
	m := fullMessage()
	c := m.Clone()
	require.Equal(t, m, c)

	*c.Data.MeanElements.MeanMotion = 99.9
	*c.Data.TLE.NoradCatID = 1
	c.Data.UserDefined[0].Value = "mutated"
	ts := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	*c.Metadata.RefFrameEpoch = ts

	assert.Equal(t, 15.50103472, *m.Data.MeanElements.MeanMotion)
	assert.Equal(t, 25544, *m.Data.TLE.NoradCatID)
	assert.Equal(t, "1", m.Data.UserDefined[0].Value)
	assert.NotEqual(t, ts, *m.Metadata.RefFrameEpoch)
}

func TestCopyWithOverrides(t *testing.T) {
	m := fullMessage()

	epoch := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	c, err := Copy(m,
		WithObjectName("NEW NAME"),
		WithEpoch(epoch),
		WithMeanMotion(nil),
		WithBStar(Float64(1e-5)),
	)
	require.NoError(t, err)

	// Overridden fields changed.
	assert.Equal(t, "NEW NAME", c.Metadata.ObjectName)
	assert.Equal(t, epoch, c.Data.MeanElements.Epoch)
	assert.Nil(t, c.Data.MeanElements.MeanMotion)
	require.NotNil(t, c.Data.TLE.BStar)
	assert.Equal(t, 1e-5, *c.Data.TLE.BStar)

	// Everything else carried over; the original is untouched.
	assert.Equal(t, m.Header, c.Header)
	assert.Equal(t, "ISS (ZARYA)", m.Metadata.ObjectName)
	assert.NotNil(t, m.Data.MeanElements.MeanMotion)
}

func TestCopyRejectsInvalidResult(t *testing.T) {
	m := fullMessage()

	// Clearing a required field must fail, atomically.
	_, err := Copy(m, WithOriginator(""))
	var rfe *RequiredFieldError
	require.ErrorAs(t, err, &rfe)
	assert.Equal(t, "ORIGINATOR", rfe.Tag)

	// Clearing both semi-major axis and mean motion must fail.
	_, err = Copy(m, WithSemiMajorAxis(nil), WithMeanMotion(nil))
	require.ErrorAs(t, err, &rfe)
	assert.Equal(t, "SEMI_MAJOR_AXIS/MEAN_MOTION", rfe.Tag)

	// Clearing only one is fine when the other remains.
	c, err := Copy(m, WithSemiMajorAxis(nil))
	require.NoError(t, err)
	assert.Nil(t, c.Data.MeanElements.SemiMajorAxis)
	assert.NotNil(t, c.Data.MeanElements.MeanMotion)
}

func TestValidateVersionRange(t *testing.T) {
	m := fullMessage()

	m.Version = "1.9"
	var uve *UnsupportedVersionError
	assert.ErrorAs(t, m.Validate(), &uve)

	m.Version = "4.1"
	assert.ErrorAs(t, m.Validate(), &uve)

	m.Version = "nope"
	var fe *FormatError
	assert.ErrorAs(t, m.Validate(), &fe)

	m.Version = "2.0"
	assert.NoError(t, m.Validate())
}

func TestMessageTypeString(t *testing.T) {
	assert.Equal(t, "omm", TypeOMM.String())
	assert.Equal(t, "opm", TypeOPM.String())
	assert.Equal(t, "oem", TypeOEM.String())
	assert.Equal(t, "ocm", TypeOCM.String())
}

func TestNewMessageID(t *testing.T) {
	id := NewMessageID()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, NewMessageID())
}
