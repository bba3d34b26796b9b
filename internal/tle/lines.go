package tle

import (
	"fmt"
	"math"
)

// Line1 renders the first line of the element set in the classic 69-column
// layout, checksum included.
func (r Record) Line1() string {
	body := fmt.Sprintf("1 %05d%c %-8s %02d%012.8f %s %s %s %d %4d",
		r.SatelliteNumber,
		r.Classification,
		r.IntlDesignator,
		r.EpochYear,
		r.EpochDay,
		fmtPointField(r.MeanMotionDot),
		fmtExpField(r.MeanMotionDDot),
		fmtExpField(r.BStar),
		r.EphemerisType,
		r.ElementSetNo%10000,
	)
	return fmt.Sprintf("%s%d", body, checksum(body))
}

// Line2 renders the second line: the orbital elements, revolution count and
// checksum.
func (r Record) Line2() string {
	body := fmt.Sprintf("2 %05d %8.4f %8.4f %07d %8.4f %8.4f %11.8f%5d",
		r.SatelliteNumber,
		r.Inclination,
		r.RaOfAscNode,
		int(math.Round(r.Eccentricity*1e7)),
		r.ArgOfPericenter,
		r.MeanAnomaly,
		r.MeanMotion,
		r.RevAtEpoch%100000,
	)
	return fmt.Sprintf("%s%d", body, checksum(body))
}

// fmtPointField renders a small signed value in the 10-column leading-decimal
// form used for the first mean-motion derivative, e.g. "-.00002182".
func fmtPointField(v float64) string {
	sign := " "
	if v < 0 {
		sign = "-"
		v = -v
	}
	if v >= 1 {
		// Out of the representable range; clamp rather than corrupt columns.
		v = 0.99999999
	}
	s := fmt.Sprintf("%.8f", v)
	return sign + s[1:]
}

// fmtExpField renders a value in the 8-column TLE exponential form
// "±NNNNN±E", meaning ±0.NNNNN x 10^±E, e.g. "-11606-4".
func fmtExpField(v float64) string {
	sign := " "
	if v < 0 {
		sign = "-"
		v = -v
	}
	if v == 0 {
		return sign + "00000-0"
	}
	exp := int(math.Floor(math.Log10(v))) + 1
	mant := int(math.Round(v / math.Pow(10, float64(exp)) * 100000))
	if mant >= 100000 {
		mant /= 10
		exp++
	}
	expSign := "+"
	if exp < 0 {
		expSign = "-"
		exp = -exp
	}
	return fmt.Sprintf("%s%05d%s%d", sign, mant, expSign, exp)
}

// checksum is the TLE line checksum: the sum of all digits plus one per minus
// sign, modulo 10.
func checksum(line string) int {
	sum := 0
	for _, c := range line {
		switch {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return sum % 10
}
