// Package pillars maps a resolved birth moment to the four sexagenary pillars.
package pillars

import (
	"errors"
	"fmt"
	"time"

	"github.com/6tail/lunar-go/calendar"

	"github.com/f3rmion/bazi/internal/bazi"
	"github.com/f3rmion/bazi/internal/solartime"
)

// ErrCalendar indicates the calendar backend returned something that is not a
// sexagenary pillar.
var ErrCalendar = errors.New("calendar lookup failed")

// Calendar supplies the year, month and day pillars for a civil wall clock.
type Calendar interface {
	Pillars(civil time.Time) (year, month, day bazi.Pillar, err error)
}

// LunarCalendar reads pillars from the lunar-go solar-term tables. Year and
// month change at the exact jie (节) instant; the day changes at midnight.
type LunarCalendar struct{}

// Pillars implements Calendar.
func (LunarCalendar) Pillars(civil time.Time) (year, month, day bazi.Pillar, err error) {
	solar := calendar.NewSolar(civil.Year(), int(civil.Month()), civil.Day(), civil.Hour(), civil.Minute(), civil.Second())
	lunar := solar.GetLunar()

	if year, err = parse("year", lunar.GetYearInGanZhiExact()); err != nil {
		return
	}
	if month, err = parse("month", lunar.GetMonthInGanZhiExact()); err != nil {
		return
	}
	day, err = parse("day", lunar.GetDayInGanZhi())
	return
}

func parse(role, glyphs string) (bazi.Pillar, error) {
	p, err := bazi.ParsePillar(glyphs)
	if err != nil {
		return bazi.Pillar{}, fmt.Errorf("%w: %s pillar: %v", ErrCalendar, role, err)
	}
	return p, nil
}

// Calculator builds charts from resolved moments.
type Calculator struct {
	cal Calendar
}

// NewCalculator returns a calculator over cal. A nil cal uses LunarCalendar.
func NewCalculator(cal Calendar) *Calculator {
	if cal == nil {
		cal = LunarCalendar{}
	}
	return &Calculator{cal: cal}
}

// Chart computes the four pillars. Year, month and day come from the civil
// wall clock unless the hour moment falls on another date, in which case all
// four pillars come from the hour moment.
func (c *Calculator) Chart(m solartime.Moment) (bazi.Chart, error) {
	at := m.Civil
	if !sameDate(m.Civil, m.HourMoment) {
		at = m.HourMoment
	}
	year, month, day, err := c.cal.Pillars(at)
	if err != nil {
		return bazi.Chart{}, err
	}
	return bazi.NewChart(year, month, day, HourPillar(day.Stem, m.HourMoment)), nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// HourBranch selects the double-hour branch: 23:00-00:59 is 子, 01:00-02:59
// is 丑, and so on. Minutes never move a reading into the next bin, so an exact
// hour belongs to the bin that starts at it.
func HourBranch(t time.Time) bazi.Branch {
	return bazi.Branch((t.Hour() + 1) / 2 % 12)
}

// ratStart is the five-rat-escape (五鼠遁) table: the stem of the 子 hour for
// each pair of day stems 甲己, 乙庚, 丙辛, 丁壬, 戊癸.
var ratStart = [5]bazi.Stem{
	bazi.StemJia,  // 甲己 还加甲
	bazi.StemBing, // 乙庚 丙作初
	bazi.StemWu,   // 丙辛 从戊起
	bazi.StemGeng, // 丁壬 庚子居
	bazi.StemRen,  // 戊癸 何方发，壬子是真途
}

// HourStem derives the hour stem from the day stem and hour branch. A 子 hour
// read at 23:00-23:59 still takes the stem of that date's day (早子时), so it
// matches the 00:00-00:59 hour of the same date.
func HourStem(day bazi.Stem, hour bazi.Branch) bazi.Stem {
	return (ratStart[day%5] + bazi.Stem(hour)) % 10
}

// HourPillar combines HourBranch and HourStem.
func HourPillar(day bazi.Stem, t time.Time) bazi.Pillar {
	b := HourBranch(t)
	return bazi.Pillar{Stem: HourStem(day, b), Branch: b}
}
