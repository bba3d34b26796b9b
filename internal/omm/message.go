package omm

import (
	"time"

	"github.com/blang/semver/v4"
	"github.com/google/uuid"
)

// CCSDS tag names used by both the decoder and the encoder. Matching is
// case-insensitive on decode; these are the canonical spellings emitted on
// encode.
const (
	TagOMM        = "omm"
	TagNDM        = "ndm"
	TagHeader     = "header"
	TagBody       = "body"
	TagSegment    = "segment"
	TagMetadata   = "metadata"
	TagData       = "data"
	TagComment    = "COMMENT"
	TagMeanElems  = "meanElements"
	TagSpacecraft = "spacecraftParameters"
	TagTLEParams  = "tleParameters"
	TagUserParams = "userDefinedParameters"

	// The mandatory id attribute on an omm element.
	OMMVersionID = "CCSDS_OMM_VERS"
)

// Message family types. Only OMM carries a payload; the others are recognized
// inside an NDM container and skipped.
type MessageType int

const (
	TypeOMM MessageType = iota
	TypeOPM
	TypeOEM
	TypeOCM
)

// String returns the lowercase XML tag for the message type.
func (t MessageType) String() string {
	switch t {
	case TypeOMM:
		return "omm"
	case TypeOPM:
		return "opm"
	case TypeOEM:
		return "oem"
	case TypeOCM:
		return "ocm"
	}
	return "unknown"
}

// Supported OMM specification versions: >= 2.0 and < 4.0. Field semantics
// outside that range are not validated, so anything else is rejected.
var (
	minVersion = semver.MustParse("2.0.0")
	maxVersion = semver.MustParse("4.0.0")

	// DefaultVersion is stamped on messages built programmatically.
	DefaultVersion = "3.0"
)

// Header is the OMM message header. Comment, Classification and MessageID are
// optional; empty string means absent.
type Header struct {
	Comment        string
	Classification string
	CreationDate   time.Time
	Originator     string
	MessageID      string
}

// Metadata identifies the object and the conventions its elements are
// expressed in. RefFrameEpoch is optional.
type Metadata struct {
	Comment           string
	ObjectName        string
	ObjectID          string
	CenterName        string
	RefFrame          string
	RefFrameEpoch     *time.Time
	TimeSystem        string
	MeanElementTheory string
}

// MeanElements holds the mean Keplerian elements at Epoch. At least one of
// SemiMajorAxis (km) and MeanMotion (rev/day) must be present; both may be.
type MeanElements struct {
	Comment         string
	Epoch           time.Time
	SemiMajorAxis   *float64 // km
	MeanMotion      *float64 // rev/day
	Eccentricity    float64
	Inclination     float64 // deg
	RaOfAscNode     float64 // deg
	ArgOfPericenter float64 // deg
	MeanAnomaly     float64 // deg
	GM              *float64 // km^3/s^2
}

// SpacecraftParameters are all optional. The group is omitted on encode when
// no field is set.
type SpacecraftParameters struct {
	Comment       string
	Mass          *float64 // kg
	SolarRadArea  *float64 // m^2
	SolarRadCoeff *float64
	DragArea      *float64 // m^2
	DragCoeff     *float64
}

// IsZero reports whether no spacecraft parameter is present.
func (s SpacecraftParameters) IsZero() bool { return s == SpacecraftParameters{} }

// TLEParameters carry the SGP4/TLE-compatibility fields. All optional; the
// group is omitted on encode when no field is set.
//
// MeanMotionDot and MeanMotionDDot are carried through exactly as given and
// assumed to be already scaled for SGP4 consumption; nothing here rescales
// them.
type TLEParameters struct {
	Comment            string
	EphemerisType      *int
	ClassificationType string // single character, "" when absent
	NoradCatID         *int
	ElementSetNo       *int
	RevAtEpoch         *int
	BStar              *float64
	MeanMotionDot      *float64
	MeanMotionDDot     *float64
}

// IsZero reports whether no TLE parameter is present.
func (t TLEParameters) IsZero() bool { return t == TLEParameters{} }

// UserDefined is one USER_DEFINED key/value pair. Keys are not required to be
// unique; source order is preserved through decode, display and encode.
type UserDefined struct {
	Parameter string
	Value     string
}

// Data is the OMM data section. A nil UserDefined slice means the message had
// no userDefinedParameters section; a non-nil empty slice means the section
// was present but empty, and that distinction survives a round trip.
type Data struct {
	Comment      string
	MeanElements MeanElements
	Spacecraft   SpacecraftParameters
	TLE          TLEParameters
	UserDefined  []UserDefined
}

// Message is a single decoded (or programmatically built) OMM. Instances are
// value aggregates: the decoder never hands out a partially populated one, and
// nothing in this package mutates a message after construction. Derive
// modified messages with Copy.
type Message struct {
	Version  string // OMM specification version, e.g. "3.0"
	Header   Header
	Metadata Metadata
	Data     Data
}

// Float64 returns a pointer to v, for populating optional numeric fields.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v, for populating optional integer fields.
func Int(v int) *int { return &v }

// Time returns a pointer to t, for populating optional timestamp fields.
func Time(t time.Time) *time.Time { return &t }

// NewMessageID generates a MESSAGE_ID value for programmatically built
// messages.
func NewMessageID() string { return uuid.NewString() }

// Clone returns a deep copy of the message. Pointer-valued optionals and the
// user-defined slice are duplicated so the copy shares no storage with the
// original.
func (m Message) Clone() Message {
	c := m
	c.Metadata.RefFrameEpoch = cloneTime(m.Metadata.RefFrameEpoch)
	c.Data.MeanElements.SemiMajorAxis = cloneFloat(m.Data.MeanElements.SemiMajorAxis)
	c.Data.MeanElements.MeanMotion = cloneFloat(m.Data.MeanElements.MeanMotion)
	c.Data.MeanElements.GM = cloneFloat(m.Data.MeanElements.GM)
	c.Data.Spacecraft.Mass = cloneFloat(m.Data.Spacecraft.Mass)
	c.Data.Spacecraft.SolarRadArea = cloneFloat(m.Data.Spacecraft.SolarRadArea)
	c.Data.Spacecraft.SolarRadCoeff = cloneFloat(m.Data.Spacecraft.SolarRadCoeff)
	c.Data.Spacecraft.DragArea = cloneFloat(m.Data.Spacecraft.DragArea)
	c.Data.Spacecraft.DragCoeff = cloneFloat(m.Data.Spacecraft.DragCoeff)
	c.Data.TLE.EphemerisType = cloneInt(m.Data.TLE.EphemerisType)
	c.Data.TLE.NoradCatID = cloneInt(m.Data.TLE.NoradCatID)
	c.Data.TLE.ElementSetNo = cloneInt(m.Data.TLE.ElementSetNo)
	c.Data.TLE.RevAtEpoch = cloneInt(m.Data.TLE.RevAtEpoch)
	c.Data.TLE.BStar = cloneFloat(m.Data.TLE.BStar)
	c.Data.TLE.MeanMotionDot = cloneFloat(m.Data.TLE.MeanMotionDot)
	c.Data.TLE.MeanMotionDDot = cloneFloat(m.Data.TLE.MeanMotionDDot)
	if m.Data.UserDefined != nil {
		c.Data.UserDefined = make([]UserDefined, len(m.Data.UserDefined))
		copy(c.Data.UserDefined, m.Data.UserDefined)
	}
	return c
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Validate checks the same required-field rules the decoder enforces: a valid
// message always has a creation date, an originator, the six mandatory
// metadata fields, an epoch, and at least one of semi-major axis and mean
// motion. Eccentricity, inclination and the angles are value fields and are
// always present by construction.
func (m Message) Validate() error {
	v, err := semver.ParseTolerant(m.Version)
	if err != nil {
		return &FormatError{Tag: "version", Value: m.Version, Err: err}
	}
	if v.LT(minVersion) || v.GTE(maxVersion) {
		return &UnsupportedVersionError{Version: m.Version}
	}
	if m.Header.CreationDate.IsZero() {
		return &RequiredFieldError{Field: "creation date", Tag: "CREATION_DATE"}
	}
	if m.Header.Originator == "" {
		return &RequiredFieldError{Field: "originator", Tag: "ORIGINATOR"}
	}
	md := m.Metadata
	switch {
	case md.ObjectName == "":
		return &RequiredFieldError{Field: "object name", Tag: "OBJECT_NAME"}
	case md.ObjectID == "":
		return &RequiredFieldError{Field: "object id", Tag: "OBJECT_ID"}
	case md.CenterName == "":
		return &RequiredFieldError{Field: "center name", Tag: "CENTER_NAME"}
	case md.RefFrame == "":
		return &RequiredFieldError{Field: "reference frame", Tag: "REF_FRAME"}
	case md.TimeSystem == "":
		return &RequiredFieldError{Field: "time system", Tag: "TIME_SYSTEM"}
	case md.MeanElementTheory == "":
		return &RequiredFieldError{Field: "mean element theory", Tag: "MEAN_ELEMENT_THEORY"}
	}
	me := m.Data.MeanElements
	if me.Epoch.IsZero() {
		return &RequiredFieldError{Field: "epoch", Tag: "EPOCH"}
	}
	if me.SemiMajorAxis == nil && me.MeanMotion == nil {
		return &RequiredFieldError{Field: "semi-major axis or mean motion", Tag: "SEMI_MAJOR_AXIS/MEAN_MOTION"}
	}
	return nil
}
