package omm

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/blang/semver/v4"
	"github.com/sirupsen/logrus"
)

// Decoder turns parsed OMM/NDM XML trees into Message values. It validates
// structure and required fields as it descends; a violation aborts the decode
// of the whole message with an error naming the offending field or tag. A
// Decoder is stateless between calls and safe for concurrent use across
// different inputs.
type Decoder struct {
	logger *logrus.Logger
}

// NewDecoder creates a new OMM decoder.
func NewDecoder(logger *logrus.Logger) *Decoder {
	return &Decoder{logger: logger}
}

// Decode parses UTF-8 XML from r and decodes it. The root element may be a
// single omm or an ndm container holding any number of omm children; the
// returned messages preserve document order.
func (d *Decoder) Decode(r io.Reader) ([]Message, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, structuralf("malformed XML: %v", err)
	}
	return d.DecodeDocument(doc)
}

// DecodeString decodes XML text. See Decode.
func (d *Decoder) DecodeString(s string) ([]Message, error) {
	return d.Decode(strings.NewReader(s))
}

// DecodeDocument decodes an already-parsed XML document. One malformed omm
// inside an ndm aborts the whole batch; callers that need per-message
// isolation should call DecodeElement on each child themselves.
func (d *Decoder) DecodeDocument(doc *etree.Document) ([]Message, error) {
	root := doc.Root()
	if root == nil {
		return nil, structuralf("document has no root element")
	}
	switch {
	case tagIs(root, TagOMM):
		msg, err := d.DecodeElement(root)
		if err != nil {
			return nil, err
		}
		return []Message{msg}, nil
	case tagIs(root, TagNDM):
		return d.decodeNDM(root)
	}
	return nil, structuralf("unexpected root element <%s>, want <omm> or <ndm>", root.Tag)
}

// decodeNDM decodes every omm child of an ndm container in document order.
// Sibling ODM message types are recognized and skipped with a warning; they
// are not an error.
func (d *Decoder) decodeNDM(root *etree.Element) ([]Message, error) {
	var msgs []Message
	for _, child := range root.ChildElements() {
		switch {
		case tagIs(child, TagOMM):
			msg, err := d.DecodeElement(child)
			if err != nil {
				return nil, err
			}
			msgs = append(msgs, msg)
		case tagIs(child, "opm"), tagIs(child, "oem"), tagIs(child, "ocm"):
			d.logger.WithField("type", strings.ToLower(child.Tag)).
				Warn("Skipping unsupported ODM message type")
		default:
			d.logger.WithField("tag", child.Tag).Debug("Ignoring unrecognized ndm child")
		}
	}
	return msgs, nil
}

// DecodeElement decodes a single omm element.
func (d *Decoder) DecodeElement(el *etree.Element) (Message, error) {
	if !tagIs(el, TagOMM) {
		return Message{}, structuralf("unexpected element <%s>, want <omm>", el.Tag)
	}

	version, err := d.decodeAttributes(el)
	if err != nil {
		return Message{}, err
	}

	header, err := d.decodeHeader(el)
	if err != nil {
		return Message{}, err
	}

	metadataEl, dataEl, err := d.locateSegment(el)
	if err != nil {
		return Message{}, err
	}

	metadata, err := d.decodeMetadata(metadataEl)
	if err != nil {
		return Message{}, err
	}

	data, err := d.decodeData(dataEl)
	if err != nil {
		return Message{}, err
	}

	return Message{
		Version:  version,
		Header:   header,
		Metadata: metadata,
		Data:     data,
	}, nil
}

// decodeAttributes validates the id attribute and parses the version.
func (d *Decoder) decodeAttributes(el *etree.Element) (string, error) {
	id := el.SelectAttrValue("id", "")
	if !strings.EqualFold(id, OMMVersionID) {
		return "", structuralf("omm id attribute is %q, want %q", id, OMMVersionID)
	}
	version := el.SelectAttrValue("version", "")
	v, err := semver.ParseTolerant(version)
	if err != nil {
		return "", &FormatError{Tag: "version", Value: version, Err: err}
	}
	if v.LT(minVersion) || v.GTE(maxVersion) {
		return "", &UnsupportedVersionError{Version: version}
	}
	return version, nil
}

// exactlyOne locates precisely one child element with the given tag.
func exactlyOne(parent *etree.Element, tag string) (*etree.Element, error) {
	found := findChildren(parent, tag)
	switch len(found) {
	case 0:
		return nil, structuralf("missing <%s> element under <%s>", tag, parent.Tag)
	case 1:
		return found[0], nil
	}
	if strings.EqualFold(tag, TagSegment) {
		return nil, structuralf("multiple segments not supported")
	}
	return nil, structuralf("multiple <%s> elements under <%s>", tag, parent.Tag)
}

func (d *Decoder) decodeHeader(el *etree.Element) (Header, error) {
	headerEl, err := exactlyOne(el, TagHeader)
	if err != nil {
		return Header{}, err
	}

	var h Header
	var haveCreation bool
	for _, child := range headerEl.ChildElements() {
		text := childText(child)
		switch strings.ToUpper(child.Tag) {
		case "COMMENT":
			if h.Comment == "" {
				h.Comment = text
			}
		case "CLASSIFICATION":
			h.Classification = text
		case "CREATION_DATE":
			t, err := parseEpoch("CREATION_DATE", text)
			if err != nil {
				return Header{}, err
			}
			h.CreationDate = t
			haveCreation = true
		case "ORIGINATOR":
			h.Originator = text
		case "MESSAGE_ID":
			h.MessageID = text
		default:
			d.logger.WithField("tag", child.Tag).Debug("Ignoring unrecognized header field")
		}
	}

	if !haveCreation {
		return Header{}, &RequiredFieldError{Field: "creation date", Tag: "CREATION_DATE"}
	}
	if h.Originator == "" {
		return Header{}, &RequiredFieldError{Field: "originator", Tag: "ORIGINATOR"}
	}
	return h, nil
}

// locateSegment walks body > segment and returns the metadata and data
// elements. Exactly one of each level is required.
func (d *Decoder) locateSegment(el *etree.Element) (*etree.Element, *etree.Element, error) {
	body, err := exactlyOne(el, TagBody)
	if err != nil {
		return nil, nil, err
	}
	segment, err := exactlyOne(body, TagSegment)
	if err != nil {
		return nil, nil, err
	}
	metadata, err := exactlyOne(segment, TagMetadata)
	if err != nil {
		return nil, nil, err
	}
	data, err := exactlyOne(segment, TagData)
	if err != nil {
		return nil, nil, err
	}
	return metadata, data, nil
}

func (d *Decoder) decodeMetadata(el *etree.Element) (Metadata, error) {
	var md Metadata
	for _, child := range el.ChildElements() {
		text := childText(child)
		switch strings.ToUpper(child.Tag) {
		case "COMMENT":
			if md.Comment == "" {
				md.Comment = text
			}
		case "OBJECT_NAME":
			md.ObjectName = text
		case "OBJECT_ID":
			md.ObjectID = text
		case "CENTER_NAME":
			md.CenterName = text
		case "REF_FRAME":
			md.RefFrame = text
		case "REF_FRAME_EPOCH":
			t, err := parseEpoch("REF_FRAME_EPOCH", text)
			if err != nil {
				return Metadata{}, err
			}
			md.RefFrameEpoch = &t
		case "TIME_SYSTEM":
			md.TimeSystem = text
		case "MEAN_ELEMENT_THEORY":
			md.MeanElementTheory = text
		default:
			d.logger.WithField("tag", child.Tag).Debug("Ignoring unrecognized metadata field")
		}
	}

	switch {
	case md.ObjectName == "":
		return Metadata{}, &RequiredFieldError{Field: "object name", Tag: "OBJECT_NAME"}
	case md.ObjectID == "":
		return Metadata{}, &RequiredFieldError{Field: "object id", Tag: "OBJECT_ID"}
	case md.CenterName == "":
		return Metadata{}, &RequiredFieldError{Field: "center name", Tag: "CENTER_NAME"}
	case md.RefFrame == "":
		return Metadata{}, &RequiredFieldError{Field: "reference frame", Tag: "REF_FRAME"}
	case md.TimeSystem == "":
		return Metadata{}, &RequiredFieldError{Field: "time system", Tag: "TIME_SYSTEM"}
	case md.MeanElementTheory == "":
		return Metadata{}, &RequiredFieldError{Field: "mean element theory", Tag: "MEAN_ELEMENT_THEORY"}
	}
	return md, nil
}

// decodeData scans the top-level children of the data element. Unrecognized
// tags are ignored so newer schema revisions still decode.
func (d *Decoder) decodeData(el *etree.Element) (Data, error) {
	var data Data
	var haveMeanElements bool
	for _, child := range el.ChildElements() {
		switch {
		case tagIs(child, TagComment):
			if data.Comment == "" {
				data.Comment = childText(child)
			}
		case tagIs(child, TagMeanElems):
			me, err := d.decodeMeanElements(child)
			if err != nil {
				return Data{}, err
			}
			data.MeanElements = me
			haveMeanElements = true
		case tagIs(child, TagSpacecraft):
			sp, err := d.decodeSpacecraft(child)
			if err != nil {
				return Data{}, err
			}
			data.Spacecraft = sp
		case tagIs(child, TagTLEParams):
			tp, err := d.decodeTLEParams(child)
			if err != nil {
				return Data{}, err
			}
			data.TLE = tp
		case tagIs(child, TagUserParams):
			data.UserDefined = decodeUserDefined(child)
		default:
			d.logger.WithField("tag", child.Tag).Debug("Ignoring unrecognized data element")
		}
	}
	if !haveMeanElements {
		return Data{}, structuralf("missing <meanElements> element under <data>")
	}
	return data, nil
}

func (d *Decoder) decodeMeanElements(el *etree.Element) (MeanElements, error) {
	var me MeanElements
	var haveEpoch, haveEcc, haveInc, haveRaan, haveArgP, haveAnomaly bool
	for _, child := range el.ChildElements() {
		text := childText(child)
		switch strings.ToUpper(child.Tag) {
		case "COMMENT":
			if me.Comment == "" {
				me.Comment = text
			}
		case "EPOCH":
			if text == "" {
				// Some producers emit an empty EPOCH element. Fall back to
				// the current time rather than rejecting the message; this is
				// a deliberate leniency, not a default the format defines.
				me.Epoch = time.Now().UTC()
			} else {
				t, err := parseEpoch("EPOCH", text)
				if err != nil {
					return MeanElements{}, err
				}
				me.Epoch = t
			}
			haveEpoch = true
		case "SEMI_MAJOR_AXIS":
			v, err := parseFloat("SEMI_MAJOR_AXIS", text)
			if err != nil {
				return MeanElements{}, err
			}
			me.SemiMajorAxis = &v
		case "MEAN_MOTION":
			v, err := parseFloat("MEAN_MOTION", text)
			if err != nil {
				return MeanElements{}, err
			}
			me.MeanMotion = &v
		case "ECCENTRICITY":
			v, err := parseFloat("ECCENTRICITY", text)
			if err != nil {
				return MeanElements{}, err
			}
			me.Eccentricity = v
			haveEcc = true
		case "INCLINATION":
			v, err := parseFloat("INCLINATION", text)
			if err != nil {
				return MeanElements{}, err
			}
			me.Inclination = v
			haveInc = true
		case "RA_OF_ASC_NODE":
			v, err := parseFloat("RA_OF_ASC_NODE", text)
			if err != nil {
				return MeanElements{}, err
			}
			me.RaOfAscNode = v
			haveRaan = true
		case "ARG_OF_PERICENTER":
			v, err := parseFloat("ARG_OF_PERICENTER", text)
			if err != nil {
				return MeanElements{}, err
			}
			me.ArgOfPericenter = v
			haveArgP = true
		case "MEAN_ANOMALY":
			v, err := parseFloat("MEAN_ANOMALY", text)
			if err != nil {
				return MeanElements{}, err
			}
			me.MeanAnomaly = v
			haveAnomaly = true
		case "GM":
			v, err := parseFloat("GM", text)
			if err != nil {
				return MeanElements{}, err
			}
			me.GM = &v
		default:
			d.logger.WithField("tag", child.Tag).Debug("Ignoring unrecognized mean element")
		}
	}

	switch {
	case !haveEpoch:
		return MeanElements{}, &RequiredFieldError{Field: "epoch", Tag: "EPOCH"}
	case !haveEcc:
		return MeanElements{}, &RequiredFieldError{Field: "eccentricity", Tag: "ECCENTRICITY"}
	case !haveInc:
		return MeanElements{}, &RequiredFieldError{Field: "inclination", Tag: "INCLINATION"}
	case !haveRaan:
		return MeanElements{}, &RequiredFieldError{Field: "right ascension of ascending node", Tag: "RA_OF_ASC_NODE"}
	case !haveArgP:
		return MeanElements{}, &RequiredFieldError{Field: "argument of pericenter", Tag: "ARG_OF_PERICENTER"}
	case !haveAnomaly:
		return MeanElements{}, &RequiredFieldError{Field: "mean anomaly", Tag: "MEAN_ANOMALY"}
	case me.SemiMajorAxis == nil && me.MeanMotion == nil:
		return MeanElements{}, &RequiredFieldError{Field: "semi-major axis or mean motion", Tag: "SEMI_MAJOR_AXIS/MEAN_MOTION"}
	}
	return me, nil
}

func (d *Decoder) decodeSpacecraft(el *etree.Element) (SpacecraftParameters, error) {
	var sp SpacecraftParameters
	for _, child := range el.ChildElements() {
		text := childText(child)
		switch strings.ToUpper(child.Tag) {
		case "COMMENT":
			// First comment wins; repeats are ignored.
			if sp.Comment == "" {
				sp.Comment = text
			}
		case "MASS":
			v, err := parseFloat("MASS", text)
			if err != nil {
				return SpacecraftParameters{}, err
			}
			sp.Mass = &v
		case "SOLAR_RAD_AREA":
			v, err := parseFloat("SOLAR_RAD_AREA", text)
			if err != nil {
				return SpacecraftParameters{}, err
			}
			sp.SolarRadArea = &v
		case "SOLAR_RAD_COEFF":
			v, err := parseFloat("SOLAR_RAD_COEFF", text)
			if err != nil {
				return SpacecraftParameters{}, err
			}
			sp.SolarRadCoeff = &v
		case "DRAG_AREA":
			v, err := parseFloat("DRAG_AREA", text)
			if err != nil {
				return SpacecraftParameters{}, err
			}
			sp.DragArea = &v
		case "DRAG_COEFF":
			v, err := parseFloat("DRAG_COEFF", text)
			if err != nil {
				return SpacecraftParameters{}, err
			}
			sp.DragCoeff = &v
		default:
			d.logger.WithField("tag", child.Tag).Debug("Ignoring unrecognized spacecraft parameter")
		}
	}
	return sp, nil
}

func (d *Decoder) decodeTLEParams(el *etree.Element) (TLEParameters, error) {
	var tp TLEParameters
	for _, child := range el.ChildElements() {
		text := childText(child)
		switch strings.ToUpper(child.Tag) {
		case "COMMENT":
			if tp.Comment == "" {
				tp.Comment = text
			}
		case "EPHEMERIS_TYPE":
			v, err := parseInt("EPHEMERIS_TYPE", text)
			if err != nil {
				return TLEParameters{}, err
			}
			tp.EphemerisType = &v
		case "CLASSIFICATION_TYPE":
			if text != "" {
				tp.ClassificationType = text[:1]
			}
		case "NORAD_CAT_ID":
			v, err := parseInt("NORAD_CAT_ID", text)
			if err != nil {
				return TLEParameters{}, err
			}
			tp.NoradCatID = &v
		case "ELEMENT_SET_NO", "ELEMENT_SET_NUMBER":
			// Both spellings occur in the wild.
			v, err := parseInt("ELEMENT_SET_NO", text)
			if err != nil {
				return TLEParameters{}, err
			}
			tp.ElementSetNo = &v
		case "REV_AT_EPOCH":
			v, err := parseInt("REV_AT_EPOCH", text)
			if err != nil {
				return TLEParameters{}, err
			}
			tp.RevAtEpoch = &v
		case "BSTAR":
			v, err := parseFloat("BSTAR", text)
			if err != nil {
				return TLEParameters{}, err
			}
			tp.BStar = &v
		case "MEAN_MOTION_DOT":
			v, err := parseFloat("MEAN_MOTION_DOT", text)
			if err != nil {
				return TLEParameters{}, err
			}
			tp.MeanMotionDot = &v
		case "MEAN_MOTION_DDOT":
			v, err := parseFloat("MEAN_MOTION_DDOT", text)
			if err != nil {
				return TLEParameters{}, err
			}
			tp.MeanMotionDDot = &v
		default:
			d.logger.WithField("tag", child.Tag).Debug("Ignoring unrecognized TLE parameter")
		}
	}
	return tp, nil
}

// defaultUserDefinedKey is used when a USER_DEFINED element carries no
// parameter attribute.
const defaultUserDefinedKey = "User Defined Parameter"

// decodeUserDefined always returns a non-nil slice so that an empty
// userDefinedParameters section survives a round trip.
func decodeUserDefined(el *etree.Element) []UserDefined {
	params := []UserDefined{}
	for _, child := range el.ChildElements() {
		if !tagIs(child, "USER_DEFINED") {
			continue
		}
		key := child.SelectAttrValue("parameter", defaultUserDefinedKey)
		params = append(params, UserDefined{Parameter: key, Value: childText(child)})
	}
	return params
}

// epochLayouts are tried in order; time.Parse accepts fractional seconds after
// the seconds field even when the layout omits them. The day-of-year forms
// are part of the CCSDS timestamp grammar.
var epochLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-002T15:04:05",
	"2006-002T15:04:05Z",
}

func parseEpoch(tag, text string) (time.Time, error) {
	for _, layout := range epochLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &FormatError{Tag: tag, Value: text, Err: errBadTimestamp}
}

var errBadTimestamp = errors.New("not a CCSDS timestamp")

func parseFloat(tag, text string) (float64, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &FormatError{Tag: tag, Value: text, Err: err}
	}
	return v, nil
}

func parseInt(tag, text string) (int, error) {
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, &FormatError{Tag: tag, Value: text, Err: err}
	}
	return v, nil
}
