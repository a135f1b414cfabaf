package rates

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomesticRateRecord_MonthCap(t *testing.T) {
	rec := DomesticRateRecord{
		City: "Los Angeles",
		Jan:  "182", Feb: "182", Mar: "182", Apr: "182", May: "182", Jun: "185",
		Jul: "191", Aug: "191", Sep: "185", Oct: "182", Nov: "182", Dec: "182",
	}

	jun, err := rec.MonthCap(time.June)
	require.NoError(t, err)
	assert.True(t, jun.Equal(decimal.NewFromInt(185)), "June cap = %s", jun)

	jul, err := rec.MonthCap(time.July)
	require.NoError(t, err)
	assert.True(t, jul.Equal(decimal.NewFromInt(191)), "July cap = %s", jul)
}

func TestDomesticRateRecord_MonthCapRejectsNonNumeric(t *testing.T) {
	rec := DomesticRateRecord{City: "Nowhere", Jan: "n/a"}
	_, err := rec.MonthCap(time.January)
	assert.Error(t, err)
}

func TestParseMonthDay(t *testing.T) {
	cases := []struct {
		input string
		month time.Month
		day   int
	}{
		{"10/01", time.October, 1},
		{"04/30", time.April, 30},
		{"1/5", time.January, 5},
		{"10/01/2025", time.October, 1}, // trailing year tolerated
	}
	for _, tc := range cases {
		md, err := ParseMonthDay(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.month, md.Month, tc.input)
		assert.Equal(t, tc.day, md.Day, tc.input)
	}

	for _, bad := range []string{"", "13/01", "10/32", "October 1", "10-01"} {
		_, err := ParseMonthDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestIntlRateRecord_Accessors(t *testing.T) {
	rec := IntlRateRecord{
		LocationName: "Paris",
		CountryName:  "France",
		LodgingRate:  "325",
		LocalMeals:   "184",
		EffDate:      "01/01/2024",
		ExpDate:      "12/31/2029",
		SeasonStart:  "10/01",
		SeasonEnd:    "04/30",
	}

	lodging, err := rec.Lodging()
	require.NoError(t, err)
	assert.True(t, lodging.Equal(decimal.NewFromInt(325)))

	eff, err := rec.Effective()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", eff.String())

	exp, err := rec.Expiration()
	require.NoError(t, err)
	assert.Equal(t, "2029-12-31", exp.String())

	start, end, err := rec.Season()
	require.NoError(t, err)
	assert.Equal(t, time.October, start.Month)
	assert.Equal(t, time.April, end.Month)
	assert.True(t, end.Before(start), "wrapped season: end month/day precedes start")
}

func TestIntlMealsBreakdown(t *testing.T) {
	bd := IntlMealsBreakdown(decimal.NewFromInt(100))
	assert.True(t, bd.Breakfast.Equal(decimal.NewFromInt(15)))
	assert.True(t, bd.Lunch.Equal(decimal.NewFromInt(25)))
	assert.True(t, bd.Dinner.Equal(decimal.NewFromInt(40)))
	assert.True(t, bd.Incidentals.Equal(decimal.NewFromInt(20)))
	assert.True(t, bd.FirstLastDay.Equal(decimal.NewFromInt(75)))
}
