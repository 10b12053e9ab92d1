// Package solartime resolves a civil birth time against its timezone and,
// optionally, corrects it to local apparent solar time.
package solartime

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateTimeLayout is the accepted civil date/time format.
const DateTimeLayout = "2006-01-02 15:04"

// Supported civil years. Outside this range the lunisolar tables are not
// trusted.
const (
	MinYear = 1900
	MaxYear = 2100
)

// Request is the raw time portion of a chart request.
type Request struct {
	DateTime     string   // civil "YYYY-MM-DD HH:mm", no zone
	Timezone     string   // IANA id ("Asia/Shanghai") or fixed offset ("UTC+8", "+05:30")
	Longitude    *float64 // degrees, east positive
	Latitude     *float64 // degrees, north positive; validated, not used
	UseSolarTime bool
}

// Moment is a resolved birth time. Wall-clock fields (Civil, Solar,
// HourMoment) carry no zone: they are readings of a clock, expressed in UTC
// location so they format and compare without conversion.
type Moment struct {
	Input      string
	Zone       string
	Local      time.Time  // the instant in its zone
	Civil      time.Time  // civil wall clock
	Solar      *time.Time // apparent solar wall clock, nil unless requested
	HourMoment time.Time  // wall clock used to select the hour branch
	IsDST      bool

	Offset           time.Duration // UTC offset in effect
	StandardOffset   time.Duration // offset without daylight saving
	StandardMeridian float64       // degrees east of Greenwich for StandardOffset

	LongitudeMinutes  float64 // (longitude - meridian) * 4
	EquationMinutes   float64 // equation of time
	DSTMinutes        float64 // daylight saving removed from civil time
	CorrectionMinutes float64 // HourMoment - Civil
}

// EquationFunc returns the equation of time in minutes for a day of the year.
type EquationFunc func(dayOfYear int) float64

// Corrector resolves requests. The zero value is not usable; use New.
type Corrector struct {
	Equation EquationFunc
}

// New returns a corrector using EquationOfTime.
func New() *Corrector {
	return &Corrector{Equation: EquationOfTime}
}

// EquationOfTime approximates apparent minus mean solar time, in minutes, with
// the two-harmonic fit 9.87·sin 2B − 7.53·cos B − 1.5·sin B,
// B = 2π(N−81)/364. Error stays within about a minute of the almanac.
func EquationOfTime(dayOfYear int) float64 {
	b := 2 * math.Pi * float64(dayOfYear-81) / 364
	return 9.87*math.Sin(2*b) - 7.53*math.Cos(b) - 1.5*math.Sin(b)
}

// Correct validates req and resolves it to a Moment.
func (c *Corrector) Correct(req Request) (Moment, error) {
	civil, err := ParseDateTime(req.DateTime)
	if err != nil {
		return Moment{}, err
	}

	loc, err := LoadZone(req.Timezone)
	if err != nil {
		return Moment{}, err
	}

	if err := validateCoordinates(req.Longitude, req.Latitude); err != nil {
		return Moment{}, err
	}
	if req.UseSolarTime && req.Longitude == nil {
		return Moment{}, inputErr(FieldLongitude, "", ErrMissingLongitude)
	}

	local, err := resolve(civil, loc, req.DateTime)
	if err != nil {
		return Moment{}, err
	}

	_, off := local.Zone()
	std := standardOffset(local)

	m := Moment{
		Input:            req.DateTime,
		Zone:             loc.String(),
		Local:            local,
		Civil:            civil,
		HourMoment:       civil,
		IsDST:            local.IsDST(),
		Offset:           time.Duration(off) * time.Second,
		StandardOffset:   time.Duration(std) * time.Second,
		StandardMeridian: float64(std) / 240,
	}

	if !req.UseSolarTime {
		return m, nil
	}

	m.LongitudeMinutes = (*req.Longitude - m.StandardMeridian) * 4
	m.EquationMinutes = c.Equation(local.UTC().YearDay())
	m.DSTMinutes = (m.Offset - m.StandardOffset).Minutes()

	total := m.LongitudeMinutes + m.EquationMinutes - m.DSTMinutes
	solar := civil.Add(time.Duration(total * float64(time.Minute))).Truncate(time.Second)
	m.Solar = &solar
	m.HourMoment = solar
	m.CorrectionMinutes = solar.Sub(civil).Minutes()

	return m, nil
}

// ParseDateTime parses a civil "YYYY-MM-DD HH:mm" string as a zone-less wall
// clock reading.
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.Parse(DateTimeLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, inputErr(FieldDateTime, s, fmt.Errorf("%w: expected YYYY-MM-DD HH:mm", ErrInvalidDateTime))
	}
	if t.Year() < MinYear || t.Year() > MaxYear {
		return time.Time{}, inputErr(FieldDateTime, s, fmt.Errorf("%w: year must be %d-%d", ErrDateOutOfRange, MinYear, MaxYear))
	}
	return t, nil
}

var offsetPattern = regexp.MustCompile(`^(?i:UTC|GMT)?\s*([+-])(\d{1,2})(?::?(\d{2}))?$`)

// LoadZone resolves an IANA id or a fixed UTC offset such as "UTC+8",
// "GMT-03:30" or "+0530". "Local" and the empty string are rejected because
// they depend on the host.
func LoadZone(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" || strings.EqualFold(tz, "local") {
		return nil, inputErr(FieldTimezone, tz, ErrUnknownTimezone)
	}

	if m := offsetPattern.FindStringSubmatch(tz); m != nil {
		hours, _ := strconv.Atoi(m[2])
		minutes := 0
		if m[3] != "" {
			minutes, _ = strconv.Atoi(m[3])
		}
		if hours > 14 || minutes >= 60 {
			return nil, inputErr(FieldTimezone, tz, fmt.Errorf("%w: offset out of range", ErrUnknownTimezone))
		}
		secs := hours*3600 + minutes*60
		if m[1] == "-" {
			secs = -secs
		}
		return time.FixedZone(fixedZoneName(secs), secs), nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, inputErr(FieldTimezone, tz, ErrUnknownTimezone)
	}
	return loc, nil
}

func fixedZoneName(secs int) string {
	sign := "+"
	if secs < 0 {
		sign = "-"
		secs = -secs
	}
	return fmt.Sprintf("UTC%s%02d:%02d", sign, secs/3600, secs%3600/60)
}

func validateCoordinates(lon, lat *float64) error {
	if lon != nil {
		if math.IsNaN(*lon) || math.IsInf(*lon, 0) || *lon < -180 || *lon > 180 {
			return inputErr(FieldLongitude, formatFloat(*lon), fmt.Errorf("%w: must be within ±180", ErrCoordinateOutOfRange))
		}
	}
	if lat != nil {
		if math.IsNaN(*lat) || math.IsInf(*lat, 0) || *lat < -90 || *lat > 90 {
			return inputErr(FieldLatitude, formatFloat(*lat), fmt.Errorf("%w: must be within ±90", ErrCoordinateOutOfRange))
		}
	}
	return nil
}

// resolve finds every instant whose wall clock in loc reads civil. Offsets in
// effect a day either side cover any single transition.
func resolve(civil time.Time, loc *time.Location, raw string) (time.Time, error) {
	guess := time.Date(civil.Year(), civil.Month(), civil.Day(), civil.Hour(), civil.Minute(), 0, 0, loc)

	offsets := make(map[int]bool)
	for _, probe := range []time.Time{guess.Add(-24 * time.Hour), guess, guess.Add(24 * time.Hour)} {
		_, off := probe.Zone()
		offsets[off] = true
	}

	var matches []time.Time
	for off := range offsets {
		t := civil.Add(-time.Duration(off) * time.Second).In(loc)
		if sameWall(t, civil) {
			matches = append(matches, t)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Before(matches[j]) })

	switch len(matches) {
	case 0:
		return time.Time{}, &NonexistentTimeError{Local: raw, Zone: loc.String()}
	case 1:
		return matches[0], nil
	default:
		return time.Time{}, &AmbiguousTimeError{
			Local:   raw,
			Zone:    loc.String(),
			Earlier: matches[0],
			Later:   matches[len(matches)-1],
		}
	}
}

func sameWall(t, civil time.Time) bool {
	y1, m1, d1 := t.Date()
	y2, m2, d2 := civil.Date()
	return y1 == y2 && m1 == m2 && d1 == d2 && t.Hour() == civil.Hour() && t.Minute() == civil.Minute()
}

// standardOffset returns the zone's non-daylight offset around t, in seconds.
func standardOffset(t time.Time) int {
	_, off := t.Zone()
	if !t.IsDST() {
		return off
	}
	loc := t.Location()
	for _, month := range []time.Month{time.January, time.July} {
		probe := time.Date(t.Year(), month, 1, 12, 0, 0, 0, loc)
		if !probe.IsDST() {
			_, std := probe.Zone()
			return std
		}
	}
	return off - 3600
}
