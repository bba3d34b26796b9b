// Package display pretty-prints decoded messages. It reads a message and
// writes text; it never modifies anything.
package display

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"gomm/internal/omm"
)

const timeFormat = "2006-01-02T15:04:05.000000"

// Render writes a human-readable dump of one message. Absent optional fields
// are skipped; user-defined parameters appear in source order.
func Render(w io.Writer, m omm.Message) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	row := func(key, value string) {
		if value != "" {
			fmt.Fprintf(tw, "%s\t%s\n", key, value)
		}
	}
	frow := func(key string, p *float64) {
		if p != nil {
			row(key, strconv.FormatFloat(*p, 'g', -1, 64))
		}
	}
	irow := func(key string, p *int) {
		if p != nil {
			row(key, strconv.Itoa(*p))
		}
	}

	fmt.Fprintf(tw, "OMM version %s\n", m.Version)
	row("COMMENT", m.Header.Comment)
	row("CLASSIFICATION", m.Header.Classification)
	row("CREATION_DATE", m.Header.CreationDate.UTC().Format(timeFormat))
	row("ORIGINATOR", m.Header.Originator)
	row("MESSAGE_ID", m.Header.MessageID)

	fmt.Fprintln(tw)
	row("OBJECT_NAME", m.Metadata.ObjectName)
	row("OBJECT_ID", m.Metadata.ObjectID)
	row("CENTER_NAME", m.Metadata.CenterName)
	row("REF_FRAME", m.Metadata.RefFrame)
	if m.Metadata.RefFrameEpoch != nil {
		row("REF_FRAME_EPOCH", m.Metadata.RefFrameEpoch.UTC().Format(timeFormat))
	}
	row("TIME_SYSTEM", m.Metadata.TimeSystem)
	row("MEAN_ELEMENT_THEORY", m.Metadata.MeanElementTheory)

	fmt.Fprintln(tw)
	me := m.Data.MeanElements
	row("EPOCH", me.Epoch.UTC().Format(timeFormat))
	frow("SEMI_MAJOR_AXIS [km]", me.SemiMajorAxis)
	frow("MEAN_MOTION [rev/day]", me.MeanMotion)
	row("ECCENTRICITY", strconv.FormatFloat(me.Eccentricity, 'g', -1, 64))
	row("INCLINATION [deg]", strconv.FormatFloat(me.Inclination, 'g', -1, 64))
	row("RA_OF_ASC_NODE [deg]", strconv.FormatFloat(me.RaOfAscNode, 'g', -1, 64))
	row("ARG_OF_PERICENTER [deg]", strconv.FormatFloat(me.ArgOfPericenter, 'g', -1, 64))
	row("MEAN_ANOMALY [deg]", strconv.FormatFloat(me.MeanAnomaly, 'g', -1, 64))
	frow("GM [km3/s2]", me.GM)

	if !m.Data.Spacecraft.IsZero() {
		fmt.Fprintln(tw)
		sp := m.Data.Spacecraft
		row("COMMENT", sp.Comment)
		frow("MASS [kg]", sp.Mass)
		frow("SOLAR_RAD_AREA [m2]", sp.SolarRadArea)
		frow("SOLAR_RAD_COEFF", sp.SolarRadCoeff)
		frow("DRAG_AREA [m2]", sp.DragArea)
		frow("DRAG_COEFF", sp.DragCoeff)
	}

	if !m.Data.TLE.IsZero() {
		fmt.Fprintln(tw)
		tp := m.Data.TLE
		row("COMMENT", tp.Comment)
		irow("EPHEMERIS_TYPE", tp.EphemerisType)
		row("CLASSIFICATION_TYPE", tp.ClassificationType)
		irow("NORAD_CAT_ID", tp.NoradCatID)
		irow("ELEMENT_SET_NO", tp.ElementSetNo)
		irow("REV_AT_EPOCH", tp.RevAtEpoch)
		frow("BSTAR", tp.BStar)
		frow("MEAN_MOTION_DOT", tp.MeanMotionDot)
		frow("MEAN_MOTION_DDOT", tp.MeanMotionDDot)
	}

	if m.Data.UserDefined != nil {
		fmt.Fprintln(tw)
		for _, p := range m.Data.UserDefined {
			fmt.Fprintf(tw, "%s\t%s\n", p.Parameter, p.Value)
		}
	}

	return tw.Flush()
}

// RenderAll renders a batch of messages separated by blank lines.
func RenderAll(w io.Writer, msgs []omm.Message) error {
	for i, m := range msgs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := Render(w, m); err != nil {
			return err
		}
	}
	return nil
}
