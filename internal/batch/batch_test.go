package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/f3rmion/bazi/internal/engine"
	"github.com/f3rmion/bazi/internal/solartime"
)

func inputs() []engine.Input {
	return []engine.Input{
		{DateTime: "2000-01-01 12:00", Timezone: "Asia/Shanghai", Gender: "male"},
		{DateTime: "2024-06-15 10:30", Timezone: "Asia/Shanghai", Gender: "female"},
		{DateTime: "1987-07-12 06:45", Timezone: "Europe/Berlin", Gender: "female"},
		{DateTime: "1969-07-20 20:17", Timezone: "UTC", Gender: "male"},
	}
}

func TestRunKeepsInputOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := &Runner{Engine: engine.New(), Workers: 3}
	got, err := r.Run(context.Background(), inputs())
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, "己卯 丙子 戊午 戊午", got[0].Chart)
	assert.Equal(t, "甲辰 庚午 庚戌 辛巳", got[1].Chart)
	for i, a := range got {
		assert.Equal(t, inputs()[i].DateTime, a.Input.DateTime)
	}
}

func TestRunReportsFailingIndex(t *testing.T) {
	defer goleak.VerifyNone(t)

	in := inputs()
	in[2].Timezone = "Nowhere/Special"

	_, err := (&Runner{Engine: engine.New(), Workers: 1}).Run(context.Background(), in)
	var ie *ItemError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 2, ie.Index)
	assert.True(t, errors.Is(err, solartime.ErrUnknownTimezone))
	assert.Contains(t, err.Error(), "input 2")
}

func TestCollectKeepsGoing(t *testing.T) {
	defer goleak.VerifyNone(t)

	in := inputs()
	in[0].Gender = "unknown"
	in[3].DateTime = "1800-01-01 00:00"

	items := (&Runner{Engine: engine.New()}).Collect(context.Background(), in)
	require.Len(t, items, 4)
	assert.Equal(t, 2, Failed(items))
	assert.Error(t, items[0].Err)
	assert.Nil(t, items[0].Analysis)
	assert.NotNil(t, items[1].Analysis)
	assert.NotNil(t, items[2].Analysis)
	assert.True(t, errors.Is(items[3].Err, solartime.ErrDateOutOfRange))
}

func TestCollectHonoursCancellation(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := (&Runner{Engine: engine.New(), Workers: 2}).Collect(ctx, inputs())
	assert.Equal(t, len(items), Failed(items))
	assert.ErrorIs(t, items[0].Err, context.Canceled)
}

func TestParse(t *testing.T) {
	list := []byte(`
- dateTime: "2000-01-01 12:00"
  timezone: Asia/Shanghai
  gender: male
- dateTime: "2024-06-15 10:30"
  timezone: Asia/Shanghai
  gender: female
  longitude: 121.47
  useSolarTime: true
`)
	got, err := Parse(list)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[1].Longitude)
	assert.Equal(t, 121.47, *got[1].Longitude)
	assert.True(t, got[1].UseSolarTime)

	wrapped := []byte(`{"inputs": [{"dateTime": "2000-01-01 12:00", "timezone": "UTC", "gender": "male"}]}`)
	got, err = Parse(wrapped)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = Parse([]byte(""))
	assert.ErrorIs(t, err, ErrNoInputs)
	_, err = Parse([]byte("inputs: []"))
	assert.ErrorIs(t, err, ErrNoInputs)
	_, err = Parse([]byte("- [broken"))
	assert.Error(t, err)
}
