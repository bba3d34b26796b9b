package omm

import "time"

// Option overrides one leaf field when deriving a message with Copy.
type Option func(*Message)

// Copy returns a deep copy of m with the given field overrides applied, then
// validates the result. Either a fully valid new message comes back or an
// error does; a required field overridden to its absent value fails
// validation, never producing a partially usable message.
func Copy(m Message, opts ...Option) (Message, error) {
	c := m.Clone()
	for _, opt := range opts {
		opt(&c)
	}
	if err := c.Validate(); err != nil {
		return Message{}, err
	}
	return c, nil
}

// Header overrides.

func WithVersion(v string) Option        { return func(m *Message) { m.Version = v } }
func WithHeaderComment(c string) Option  { return func(m *Message) { m.Header.Comment = c } }
func WithClassification(c string) Option { return func(m *Message) { m.Header.Classification = c } }
func WithCreationDate(t time.Time) Option {
	return func(m *Message) { m.Header.CreationDate = t }
}
func WithOriginator(o string) Option { return func(m *Message) { m.Header.Originator = o } }
func WithMessageID(id string) Option { return func(m *Message) { m.Header.MessageID = id } }

// Metadata overrides.

func WithMetadataComment(c string) Option { return func(m *Message) { m.Metadata.Comment = c } }
func WithObjectName(n string) Option      { return func(m *Message) { m.Metadata.ObjectName = n } }
func WithObjectID(id string) Option       { return func(m *Message) { m.Metadata.ObjectID = id } }
func WithCenterName(n string) Option      { return func(m *Message) { m.Metadata.CenterName = n } }
func WithRefFrame(f string) Option        { return func(m *Message) { m.Metadata.RefFrame = f } }
func WithRefFrameEpoch(t *time.Time) Option {
	return func(m *Message) { m.Metadata.RefFrameEpoch = cloneTime(t) }
}
func WithTimeSystem(s string) Option { return func(m *Message) { m.Metadata.TimeSystem = s } }
func WithMeanElementTheory(t string) Option {
	return func(m *Message) { m.Metadata.MeanElementTheory = t }
}

// Mean-element overrides. Optional elements take a pointer so they can be
// cleared as well as set.

func WithDataComment(c string) Option { return func(m *Message) { m.Data.Comment = c } }
func WithMeanElementsComment(c string) Option {
	return func(m *Message) { m.Data.MeanElements.Comment = c }
}
func WithEpoch(t time.Time) Option { return func(m *Message) { m.Data.MeanElements.Epoch = t } }
func WithSemiMajorAxis(v *float64) Option {
	return func(m *Message) { m.Data.MeanElements.SemiMajorAxis = cloneFloat(v) }
}
func WithMeanMotion(v *float64) Option {
	return func(m *Message) { m.Data.MeanElements.MeanMotion = cloneFloat(v) }
}
func WithEccentricity(v float64) Option {
	return func(m *Message) { m.Data.MeanElements.Eccentricity = v }
}
func WithInclination(v float64) Option {
	return func(m *Message) { m.Data.MeanElements.Inclination = v }
}
func WithRaOfAscNode(v float64) Option {
	return func(m *Message) { m.Data.MeanElements.RaOfAscNode = v }
}
func WithArgOfPericenter(v float64) Option {
	return func(m *Message) { m.Data.MeanElements.ArgOfPericenter = v }
}
func WithMeanAnomaly(v float64) Option {
	return func(m *Message) { m.Data.MeanElements.MeanAnomaly = v }
}
func WithGM(v *float64) Option {
	return func(m *Message) { m.Data.MeanElements.GM = cloneFloat(v) }
}

// Spacecraft-parameter overrides.

func WithSpacecraftComment(c string) Option {
	return func(m *Message) { m.Data.Spacecraft.Comment = c }
}
func WithMass(v *float64) Option {
	return func(m *Message) { m.Data.Spacecraft.Mass = cloneFloat(v) }
}
func WithSolarRadArea(v *float64) Option {
	return func(m *Message) { m.Data.Spacecraft.SolarRadArea = cloneFloat(v) }
}
func WithSolarRadCoeff(v *float64) Option {
	return func(m *Message) { m.Data.Spacecraft.SolarRadCoeff = cloneFloat(v) }
}
func WithDragArea(v *float64) Option {
	return func(m *Message) { m.Data.Spacecraft.DragArea = cloneFloat(v) }
}
func WithDragCoeff(v *float64) Option {
	return func(m *Message) { m.Data.Spacecraft.DragCoeff = cloneFloat(v) }
}

// TLE-parameter overrides.

func WithTLEComment(c string) Option { return func(m *Message) { m.Data.TLE.Comment = c } }
func WithEphemerisType(v *int) Option {
	return func(m *Message) { m.Data.TLE.EphemerisType = cloneInt(v) }
}
func WithClassificationType(c string) Option {
	return func(m *Message) { m.Data.TLE.ClassificationType = c }
}
func WithNoradCatID(v *int) Option {
	return func(m *Message) { m.Data.TLE.NoradCatID = cloneInt(v) }
}
func WithElementSetNo(v *int) Option {
	return func(m *Message) { m.Data.TLE.ElementSetNo = cloneInt(v) }
}
func WithRevAtEpoch(v *int) Option {
	return func(m *Message) { m.Data.TLE.RevAtEpoch = cloneInt(v) }
}
func WithBStar(v *float64) Option {
	return func(m *Message) { m.Data.TLE.BStar = cloneFloat(v) }
}
func WithMeanMotionDot(v *float64) Option {
	return func(m *Message) { m.Data.TLE.MeanMotionDot = cloneFloat(v) }
}
func WithMeanMotionDDot(v *float64) Option {
	return func(m *Message) { m.Data.TLE.MeanMotionDDot = cloneFloat(v) }
}

// WithUserDefined replaces the user-defined parameter section. Pass nil to
// drop the section, an empty non-nil slice to declare it present but empty.
func WithUserDefined(params []UserDefined) Option {
	return func(m *Message) {
		if params == nil {
			m.Data.UserDefined = nil
			return
		}
		m.Data.UserDefined = make([]UserDefined, len(params))
		copy(m.Data.UserDefined, params)
	}
}
