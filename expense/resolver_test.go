package expense

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/voyage/perdiem-engine/calendar"
	"github.com/voyage/perdiem-engine/catalog"
	"github.com/voyage/perdiem-engine/rates"
)

// =============================================================================
// TEST INFRASTRUCTURE
// =============================================================================

type stubSource struct {
	lodging map[int][]rates.DomesticRateRecord
	meals   map[int][]rates.MealsRateRecord
	intl    map[int][]rates.IntlRateRecord
	err     error
}

func (s *stubSource) DomesticLodging(_ context.Context, year int) ([]rates.DomesticRateRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.lodging[year], nil
}

func (s *stubSource) DomesticMeals(_ context.Context, year int) ([]rates.MealsRateRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.meals[year], nil
}

func (s *stubSource) International(_ context.Context, year int) ([]rates.IntlRateRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.intl[year], nil
}

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func strPtr(s string) *string { return &s }

// laRecord has a distinct June column so month selection is observable.
func laRecord() rates.DomesticRateRecord {
	return rates.DomesticRateRecord{
		State: strPtr("CA"), City: "Los Angeles", County: strPtr("Los Angeles"),
		Jan: "182", Feb: "182", Mar: "182", Apr: "182", May: "182", Jun: "185",
		Jul: "191", Aug: "191", Sep: "185", Oct: "182", Nov: "182", Dec: "182",
		Meals: dec(79), DID: 28,
	}
}

func caStandardRecord() rates.DomesticRateRecord {
	return rates.DomesticRateRecord{
		State: strPtr("CA"), City: rates.StandardRateCity,
		Jan: "107", Feb: "107", Mar: "107", Apr: "107", May: "107", Jun: "107",
		Jul: "107", Aug: "107", Sep: "107", Oct: "107", Nov: "107", Dec: "107",
		Meals: dec(68), DID: 1,
	}
}

func mealsTable() []rates.MealsRateRecord {
	return []rates.MealsRateRecord{
		{Total: dec(79), Breakfast: dec(17), Lunch: dec(18), Dinner: dec(34), Incidentals: dec(10), FirstLastDay: dec(59.25)},
		{Total: dec(68), Breakfast: dec(14), Lunch: dec(16), Dinner: dec(29), Incidentals: dec(9), FirstLastDay: dec(51)},
	}
}

func fixedToday(year int, month time.Month, day int) ResolverOption {
	return WithToday(func() calendar.Date { return calendar.NewDate(year, month, day) })
}

func newTestResolver(source RateSource, opts ...ResolverOption) *Resolver {
	opts = append([]ResolverOption{WithResolverLogger(log.New(io.Discard, "", 0))}, opts...)
	return NewResolver(source, opts...)
}

func domesticDay(date calendar.Date, region, city string) ExpenseDay {
	return ExpenseDay{Date: date, Category: catalog.CategoryDomestic, Region: region, City: city}
}

func intlDay(date calendar.Date, country, city string) ExpenseDay {
	return ExpenseDay{Date: date, Category: catalog.CategoryInternational, Region: country, City: city}
}

// =============================================================================
// DOMESTIC RESOLUTION
// =============================================================================

func TestResolveDomestic_SelectsTripMonthColumn(t *testing.T) {
	source := &stubSource{
		lodging: map[int][]rates.DomesticRateRecord{2025: {laRecord(), caStandardRecord()}},
		meals:   map[int][]rates.MealsRateRecord{2025: mealsTable()},
	}
	r := newTestResolver(source, fixedToday(2025, time.June, 1))

	// A June date must select the June column even though July is higher.
	rate, err := r.Resolve(context.Background(), domesticDay(calendar.NewDate(2025, time.June, 15), "CA", "Los Angeles"))
	if err != nil {
		t.Fatal(err)
	}
	if !rate.MaxLodging.Equal(dec(185)) {
		t.Errorf("MaxLodging = %s, want 185 (June column)", rate.MaxLodging)
	}
	if rate.EffectiveDate.String() != "2025-06-01" {
		t.Errorf("EffectiveDate = %s, want first of June", rate.EffectiveDate)
	}
	if !rate.MaxMeals.Equal(dec(79)) || !rate.BreakfastDeduction.Equal(dec(17)) {
		t.Errorf("meals join wrong: %+v", rate)
	}
}

func TestResolveDomestic_RegionIsCaseInsensitive(t *testing.T) {
	source := &stubSource{
		lodging: map[int][]rates.DomesticRateRecord{2025: {laRecord()}},
		meals:   map[int][]rates.MealsRateRecord{2025: mealsTable()},
	}
	r := newTestResolver(source, fixedToday(2025, time.June, 1))

	_, err := r.Resolve(context.Background(), domesticDay(calendar.NewDate(2025, time.June, 15), "ca", "Los Angeles"))
	if err != nil {
		t.Fatalf("lowercase region should resolve: %v", err)
	}
}

func TestResolveDomestic_StandardRateFallback(t *testing.T) {
	source := &stubSource{
		lodging: map[int][]rates.DomesticRateRecord{2025: {laRecord(), caStandardRecord()}},
		meals:   map[int][]rates.MealsRateRecord{2025: mealsTable()},
	}
	r := newTestResolver(source, fixedToday(2025, time.June, 1))

	// Bakersfield has no city row; the CA Standard Rate row applies.
	rate, err := r.Resolve(context.Background(), domesticDay(calendar.NewDate(2025, time.June, 15), "CA", "Bakersfield"))
	if err != nil {
		t.Fatal(err)
	}
	if !rate.MaxLodging.Equal(dec(107)) {
		t.Errorf("MaxLodging = %s, want 107 (standard rate)", rate.MaxLodging)
	}
	if !rate.MaxMeals.Equal(dec(68)) {
		t.Errorf("MaxMeals = %s, want 68", rate.MaxMeals)
	}
}

func TestResolveDomestic_NoMatchIsRateNotFound(t *testing.T) {
	source := &stubSource{
		lodging: map[int][]rates.DomesticRateRecord{2025: {laRecord()}},
		meals:   map[int][]rates.MealsRateRecord{2025: mealsTable()},
	}
	r := newTestResolver(source, fixedToday(2025, time.June, 1))

	_, err := r.Resolve(context.Background(), domesticDay(calendar.NewDate(2025, time.June, 15), "NV", "Las Vegas"))
	if !errors.Is(err, rates.ErrRateNotFound) {
		t.Fatalf("got %v, want ErrRateNotFound", err)
	}
	var notFound *rates.RateNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatal("expected structured RateNotFoundError")
	}
	if notFound.Region != "NV" || notFound.City != "Las Vegas" {
		t.Errorf("error context: %+v", notFound)
	}
}

func TestResolveDomestic_FutureYearClampsToToday(t *testing.T) {
	// Only 2025 data exists; a 2027 trip date must query the 2025 table.
	source := &stubSource{
		lodging: map[int][]rates.DomesticRateRecord{2025: {laRecord()}},
		meals:   map[int][]rates.MealsRateRecord{2025: mealsTable()},
	}
	r := newTestResolver(source, fixedToday(2025, time.June, 1))

	rate, err := r.Resolve(context.Background(), domesticDay(calendar.NewDate(2027, time.March, 10), "CA", "Los Angeles"))
	if err != nil {
		t.Fatal(err)
	}
	if !rate.MaxLodging.Equal(dec(182)) {
		t.Errorf("MaxLodging = %s, want 182 (March column of the 2025 table)", rate.MaxLodging)
	}
}

// =============================================================================
// INTERNATIONAL RESOLUTION
// =============================================================================

func intlTable() []rates.IntlRateRecord {
	return []rates.IntlRateRecord{
		{
			LocationName: "Geneva", CountryName: "Switzerland",
			LodgingRate: "310", LocalMeals: "160",
			EffDate: "01/01/2023", ExpDate: "12/31/2029",
			SeasonStart: "05/01", SeasonEnd: "09/30",
		},
		{
			LocationName: "Geneva", CountryName: "Switzerland",
			LodgingRate: "350", LocalMeals: "160",
			EffDate: "01/01/2023", ExpDate: "12/31/2029",
			SeasonStart: "10/01", SeasonEnd: "04/30",
		},
	}
}

func TestResolveInternational_SeasonWithinYear(t *testing.T) {
	source := &stubSource{intl: map[int][]rates.IntlRateRecord{2025: intlTable()}}
	r := newTestResolver(source, fixedToday(2025, time.July, 1))

	rate, err := r.Resolve(context.Background(), intlDay(calendar.NewDate(2025, time.July, 10), "Switzerland", "Geneva"))
	if err != nil {
		t.Fatal(err)
	}
	if !rate.MaxLodging.Equal(dec(310)) {
		t.Errorf("MaxLodging = %s, want summer-season 310", rate.MaxLodging)
	}
	if rate.EffectiveDate.String() != "2025-05-01" {
		t.Errorf("EffectiveDate = %s, want season start 2025-05-01", rate.EffectiveDate)
	}
}

func TestResolveInternational_SeasonWrapAnchorsPriorYear(t *testing.T) {
	// A January date inside an Oct 1 - Apr 30 season anchors the start to
	// the PREVIOUS year.
	source := &stubSource{intl: map[int][]rates.IntlRateRecord{2025: intlTable()}}
	r := newTestResolver(source, fixedToday(2025, time.January, 20))

	rate, err := r.Resolve(context.Background(), intlDay(calendar.NewDate(2025, time.January, 15), "Switzerland", "Geneva"))
	if err != nil {
		t.Fatal(err)
	}
	if !rate.MaxLodging.Equal(dec(350)) {
		t.Errorf("MaxLodging = %s, want winter-season 350", rate.MaxLodging)
	}
	if rate.EffectiveDate.String() != "2024-10-01" {
		t.Errorf("EffectiveDate = %s, want 2024-10-01", rate.EffectiveDate)
	}
}

func TestResolveInternational_SeasonWrapAnchorsNextYear(t *testing.T) {
	// A November date in the same season keeps the start in its own year;
	// the window end lands in the next year.
	source := &stubSource{intl: map[int][]rates.IntlRateRecord{2025: intlTable()}}
	r := newTestResolver(source, fixedToday(2025, time.November, 1))

	rate, err := r.Resolve(context.Background(), intlDay(calendar.NewDate(2025, time.November, 5), "Switzerland", "Geneva"))
	if err != nil {
		t.Fatal(err)
	}
	if rate.EffectiveDate.String() != "2025-10-01" {
		t.Errorf("EffectiveDate = %s, want 2025-10-01", rate.EffectiveDate)
	}
}

func TestResolveInternational_MealsBreakdownFromEmbeddedTable(t *testing.T) {
	source := &stubSource{intl: map[int][]rates.IntlRateRecord{2025: intlTable()}}
	r := newTestResolver(source, fixedToday(2025, time.July, 1))

	rate, err := r.Resolve(context.Background(), intlDay(calendar.NewDate(2025, time.July, 10), "Switzerland", "Geneva"))
	if err != nil {
		t.Fatal(err)
	}
	if !rate.MaxMeals.Equal(dec(160)) {
		t.Errorf("MaxMeals = %s, want 160", rate.MaxMeals)
	}
	if !rate.BreakfastDeduction.Equal(dec(24)) { // 15% of 160
		t.Errorf("BreakfastDeduction = %s, want 24", rate.BreakfastDeduction)
	}
	if !rate.MaxMealsFirstLastDay.Equal(dec(120)) { // 75% of 160
		t.Errorf("MaxMealsFirstLastDay = %s, want 120", rate.MaxMealsFirstLastDay)
	}
}

func TestResolveInternational_ExpiredRecordDoesNotMatch(t *testing.T) {
	expired := []rates.IntlRateRecord{{
		LocationName: "Geneva", CountryName: "Switzerland",
		LodgingRate: "310", LocalMeals: "160",
		EffDate: "01/01/2020", ExpDate: "12/31/2022",
		SeasonStart: "01/01", SeasonEnd: "12/31",
	}}
	source := &stubSource{intl: map[int][]rates.IntlRateRecord{2025: expired}}
	r := newTestResolver(source, fixedToday(2025, time.July, 1))

	_, err := r.Resolve(context.Background(), intlDay(calendar.NewDate(2025, time.July, 10), "Switzerland", "Geneva"))
	if !errors.Is(err, rates.ErrRateNotFound) {
		t.Fatalf("got %v, want ErrRateNotFound", err)
	}
}

func TestResolveInternational_FirstMatchWinsOnOverlap(t *testing.T) {
	// Two records both cover July; the first in source order must win and
	// the overlap is only a warning.
	overlapping := []rates.IntlRateRecord{
		{
			LocationName: "Geneva", CountryName: "Switzerland",
			LodgingRate: "310", LocalMeals: "160",
			EffDate: "01/01/2023", ExpDate: "12/31/2029",
			SeasonStart: "01/01", SeasonEnd: "12/31",
		},
		{
			LocationName: "Geneva", CountryName: "Switzerland",
			LodgingRate: "999", LocalMeals: "200",
			EffDate: "01/01/2023", ExpDate: "12/31/2029",
			SeasonStart: "06/01", SeasonEnd: "08/31",
		},
	}
	source := &stubSource{intl: map[int][]rates.IntlRateRecord{2025: overlapping}}
	r := newTestResolver(source, fixedToday(2025, time.July, 1))

	rate, err := r.Resolve(context.Background(), intlDay(calendar.NewDate(2025, time.July, 10), "Switzerland", "Geneva"))
	if err != nil {
		t.Fatal(err)
	}
	if !rate.MaxLodging.Equal(dec(310)) {
		t.Errorf("MaxLodging = %s, want first record's 310", rate.MaxLodging)
	}
}
