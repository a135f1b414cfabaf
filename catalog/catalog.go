/*
Package catalog holds the static location reference data.

PURPOSE:
  Maps the region identifiers users pick (a state code like "CA" or a
  country name like "Japan") to display labels and to the category that
  decides which rate source applies: domestic regions resolve against the
  domestic lodging/meals tables, international regions against the
  international dataset.

The tables are embedded, not fetched: the set of states and countries
changes on a geological timescale compared to the rate data itself.
*/
package catalog

import (
	"sort"
	"strings"
)

// Category selects which rate source and record schema applies to a region.
type Category string

const (
	CategoryDomestic      Category = "domestic"
	CategoryInternational Category = "intl"
)

// Location is one selectable region.
type Location struct {
	// Region is the identifier used in rate lookups: the two-letter state
	// code for domestic locations, the country name for international ones.
	Region   string
	Label    string
	Category Category
}

// Lookup resolves a region identifier case-insensitively. The boolean is
// false for unknown regions.
func Lookup(region string) (Location, bool) {
	loc, ok := index[strings.ToUpper(strings.TrimSpace(region))]
	return loc, ok
}

// Domestic returns all domestic locations sorted by label.
func Domestic() []Location {
	return byCategory(CategoryDomestic)
}

// International returns all international locations sorted by label.
func International() []Location {
	return byCategory(CategoryInternational)
}

func byCategory(c Category) []Location {
	var out []Location
	for _, loc := range index {
		if loc.Category == c {
			out = append(out, loc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

var index = map[string]Location{}

func register(region, label string, c Category) {
	index[strings.ToUpper(region)] = Location{Region: region, Label: label, Category: c}
}

func init() {
	for code, name := range states {
		register(code, name, CategoryDomestic)
	}
	for _, country := range countries {
		register(country, country, CategoryInternational)
	}
}

// states covers the locations the domestic rate API publishes tables for:
// the 50 states plus DC.
var states = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"DC": "District of Columbia", "FL": "Florida", "GA": "Georgia",
	"HI": "Hawaii", "ID": "Idaho", "IL": "Illinois", "IN": "Indiana",
	"IA": "Iowa", "KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana",
	"ME": "Maine", "MD": "Maryland", "MA": "Massachusetts", "MI": "Michigan",
	"MN": "Minnesota", "MS": "Mississippi", "MO": "Missouri", "MT": "Montana",
	"NE": "Nebraska", "NV": "Nevada", "NH": "New Hampshire", "NJ": "New Jersey",
	"NM": "New Mexico", "NY": "New York", "NC": "North Carolina",
	"ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma", "OR": "Oregon",
	"PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah",
	"VT": "Vermont", "VA": "Virginia", "WA": "Washington",
	"WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming",
}

// countries lists the destinations covered by the international dataset.
// Names must match the dataset's country_name field exactly.
var countries = []string{
	"Argentina", "Australia", "Austria", "Bahamas", "Belgium", "Brazil",
	"Canada", "Chile", "China", "Colombia", "Costa Rica", "Croatia",
	"Czech Republic", "Denmark", "Dominican Republic", "Ecuador", "Egypt",
	"Finland", "France", "Germany", "Greece", "Hungary", "Iceland", "India",
	"Indonesia", "Ireland", "Israel", "Italy", "Jamaica", "Japan", "Jordan",
	"Kenya", "Korea, South", "Malaysia", "Mexico", "Morocco", "Netherlands",
	"New Zealand", "Norway", "Panama", "Peru", "Philippines", "Poland",
	"Portugal", "Romania", "Saudi Arabia", "Singapore", "South Africa",
	"Spain", "Sweden", "Switzerland", "Taiwan", "Thailand", "Turkey",
	"United Arab Emirates", "United Kingdom", "Vietnam",
}
