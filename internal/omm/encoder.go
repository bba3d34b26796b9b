package omm

import (
	"github.com/beevik/etree"
)

const (
	schemaInstanceNS = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLocation   = "https://sanaregistry.org/r/ndmxml_unqualified/ndmxml-3.0.0-master-3.0.xsd"
)

// Encoder renders messages back into schema-conformant XML trees. Tag names
// and nesting mirror the decoder exactly, so decode(encode(m)) reproduces m.
// Absent optional fields are never emitted.
type Encoder struct {
	// Indent is the number of spaces per nesting level in EncodeString.
	// Zero writes unindented output.
	Indent int
}

// NewEncoder creates an encoder with two-space indentation.
func NewEncoder() *Encoder {
	return &Encoder{Indent: 2}
}

// EncodeDocument wraps one or more messages in an ndm container document with
// an XML declaration and schema-location attributes on the root.
func (e *Encoder) EncodeDocument(msgs ...Message) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	ndm := doc.CreateElement(TagNDM)
	ndm.CreateAttr("xmlns:xsi", schemaInstanceNS)
	ndm.CreateAttr("xsi:noNamespaceSchemaLocation", schemaLocation)
	for i := range msgs {
		ndm.AddChild(e.EncodeElement(msgs[i]))
	}
	return doc
}

// EncodeString renders messages as UTF-8 XML text.
func (e *Encoder) EncodeString(msgs ...Message) (string, error) {
	doc := e.EncodeDocument(msgs...)
	if e.Indent > 0 {
		doc.Indent(e.Indent)
	}
	return doc.WriteToString()
}

// EncodeElement builds the omm element tree for a single message.
func (e *Encoder) EncodeElement(m Message) *etree.Element {
	el := etree.NewElement(TagOMM)
	el.CreateAttr("id", OMMVersionID)
	version := m.Version
	if version == "" {
		version = DefaultVersion
	}
	el.CreateAttr("version", version)

	header := el.CreateElement(TagHeader)
	appendIfPresent(header, TagComment, m.Header.Comment)
	appendIfPresent(header, "CLASSIFICATION", m.Header.Classification)
	appendIfPresent(header, "CREATION_DATE", m.Header.CreationDate)
	appendIfPresent(header, "ORIGINATOR", m.Header.Originator)
	appendIfPresent(header, "MESSAGE_ID", m.Header.MessageID)

	segment := el.CreateElement(TagBody).CreateElement(TagSegment)
	e.encodeMetadata(segment.CreateElement(TagMetadata), m.Metadata)
	e.encodeData(segment.CreateElement(TagData), m.Data)

	return el
}

func (e *Encoder) encodeMetadata(el *etree.Element, md Metadata) {
	appendIfPresent(el, TagComment, md.Comment)
	appendIfPresent(el, "OBJECT_NAME", md.ObjectName)
	appendIfPresent(el, "OBJECT_ID", md.ObjectID)
	appendIfPresent(el, "CENTER_NAME", md.CenterName)
	appendIfPresent(el, "REF_FRAME", md.RefFrame)
	appendIfPresent(el, "REF_FRAME_EPOCH", md.RefFrameEpoch)
	appendIfPresent(el, "TIME_SYSTEM", md.TimeSystem)
	appendIfPresent(el, "MEAN_ELEMENT_THEORY", md.MeanElementTheory)
}

func (e *Encoder) encodeData(el *etree.Element, data Data) {
	appendIfPresent(el, TagComment, data.Comment)

	me := el.CreateElement(TagMeanElems)
	appendIfPresent(me, TagComment, data.MeanElements.Comment)
	appendIfPresent(me, "EPOCH", data.MeanElements.Epoch)
	appendIfPresent(me, "SEMI_MAJOR_AXIS", data.MeanElements.SemiMajorAxis)
	appendIfPresent(me, "MEAN_MOTION", data.MeanElements.MeanMotion)
	appendIfPresent(me, "ECCENTRICITY", data.MeanElements.Eccentricity)
	appendIfPresent(me, "INCLINATION", data.MeanElements.Inclination)
	appendIfPresent(me, "RA_OF_ASC_NODE", data.MeanElements.RaOfAscNode)
	appendIfPresent(me, "ARG_OF_PERICENTER", data.MeanElements.ArgOfPericenter)
	appendIfPresent(me, "MEAN_ANOMALY", data.MeanElements.MeanAnomaly)
	appendIfPresent(me, "GM", data.MeanElements.GM)

	if !data.Spacecraft.IsZero() {
		sp := el.CreateElement(TagSpacecraft)
		appendIfPresent(sp, TagComment, data.Spacecraft.Comment)
		appendIfPresent(sp, "MASS", data.Spacecraft.Mass)
		appendIfPresent(sp, "SOLAR_RAD_AREA", data.Spacecraft.SolarRadArea)
		appendIfPresent(sp, "SOLAR_RAD_COEFF", data.Spacecraft.SolarRadCoeff)
		appendIfPresent(sp, "DRAG_AREA", data.Spacecraft.DragArea)
		appendIfPresent(sp, "DRAG_COEFF", data.Spacecraft.DragCoeff)
	}

	if !data.TLE.IsZero() {
		tp := el.CreateElement(TagTLEParams)
		appendIfPresent(tp, TagComment, data.TLE.Comment)
		appendIfPresent(tp, "EPHEMERIS_TYPE", data.TLE.EphemerisType)
		appendIfPresent(tp, "CLASSIFICATION_TYPE", data.TLE.ClassificationType)
		appendIfPresent(tp, "NORAD_CAT_ID", data.TLE.NoradCatID)
		appendIfPresent(tp, "ELEMENT_SET_NO", data.TLE.ElementSetNo)
		appendIfPresent(tp, "REV_AT_EPOCH", data.TLE.RevAtEpoch)
		appendIfPresent(tp, "BSTAR", data.TLE.BStar)
		appendIfPresent(tp, "MEAN_MOTION_DOT", data.TLE.MeanMotionDot)
		appendIfPresent(tp, "MEAN_MOTION_DDOT", data.TLE.MeanMotionDDot)
	}

	// A non-nil empty slice still emits the section; the message declared it.
	if data.UserDefined != nil {
		ud := el.CreateElement(TagUserParams)
		for _, p := range data.UserDefined {
			child := ud.CreateElement("USER_DEFINED")
			child.CreateAttr("parameter", p.Parameter)
			child.SetText(p.Value)
		}
	}
}
