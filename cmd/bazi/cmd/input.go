package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/f3rmion/bazi/internal/bazi"
	"github.com/f3rmion/bazi/internal/engine"
)

// addInputFlags registers the birth flags shared by chart, luck and golden add.
func addInputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("date", "d", "", "civil birth date and time, e.g. \"1990-05-15 14:30\"")
	f.String("tz", "", "IANA timezone or UTC offset (default from config)")
	f.StringP("gender", "g", "", "male or female")
	f.Float64("lon", 0, "birth longitude in degrees, east positive")
	f.Float64("lat", 0, "birth latitude in degrees, north positive")
	f.Bool("solar", false, "correct the hour to true solar time (needs --lon)")
}

// inputFromFlags builds the request, filling the zone and the solar default
// from the configuration when the flags are absent.
func inputFromFlags(cmd *cobra.Command) (engine.Input, error) {
	f := cmd.Flags()
	in := engine.Input{}
	in.DateTime, _ = f.GetString("date")
	in.Timezone, _ = f.GetString("tz")
	in.Gender, _ = f.GetString("gender")

	if in.DateTime == "" {
		return in, fmt.Errorf("--date is required")
	}
	if in.Timezone == "" {
		in.Timezone = cfg.Engine.Timezone
	}
	in.UseSolarTime = cfg.Engine.UseSolarTime
	if f.Changed("lon") {
		lon, _ := f.GetFloat64("lon")
		in.Longitude = &lon
	}
	if f.Changed("lat") {
		lat, _ := f.GetFloat64("lat")
		in.Latitude = &lat
	}
	if f.Changed("solar") {
		in.UseSolarTime, _ = f.GetBool("solar")
	}
	return in, nil
}

// analyze runs the request from the flags, or analyzes --pillars directly
// when the command has that flag set.
func analyze(cmd *cobra.Command, e *engine.Engine) (*engine.ChartAnalysis, error) {
	if f := cmd.Flags().Lookup("pillars"); f != nil && f.Changed {
		chart, err := bazi.ParseChart(f.Value.String())
		if err != nil {
			return nil, err
		}
		g, _ := cmd.Flags().GetString("gender")
		gender, err := bazi.ParseGender(g)
		if err != nil {
			return nil, err
		}
		return e.AnalyzeChart(chart, gender), nil
	}

	in, err := inputFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	return e.Analyze(in)
}
