package news

import (
	"slices"
	"testing"
	"time"
)

func scenarioBatch() []Article {
	a1 := article("1", "FDA approves new oncology drug", "FiercePharma", testNow.Add(-1*time.Hour))
	a2 := article("2", "Pipeline update", "STAT", testNow.Add(-2*time.Hour))
	a2.Description = "Company expands its vaccine programme"
	a3 := article("3", "Biotech funding round", "FiercePharma", testNow.Add(-3*time.Hour))
	return []Article{a1, a2, a3}
}

func TestApplySearchScenario(t *testing.T) {
	criteria := DefaultCriteria()
	criteria.SearchText = "vaccine"

	view := Apply(scenarioBatch(), criteria, testNow)

	if got := ids(view); !slices.Equal(got, []string{"2"}) {
		t.Errorf("Expected [2], got %v", got)
	}
}

func TestApplySearchIsCaseInsensitive(t *testing.T) {
	criteria := DefaultCriteria()
	criteria.SearchText = "VACCINE"

	view := Apply(scenarioBatch(), criteria, testNow)

	if len(view) != 1 || view[0].ID != "2" {
		t.Errorf("Expected case-insensitive match on article 2, got %v", ids(view))
	}
}

func TestApplySearchMatchesContent(t *testing.T) {
	batch := scenarioBatch()
	batch[2].Content = "Full text mentions CRISPR"
	criteria := DefaultCriteria()
	criteria.SearchText = "crispr"

	view := Apply(batch, criteria, testNow)

	if got := ids(view); !slices.Equal(got, []string{"3"}) {
		t.Errorf("Expected [3], got %v", got)
	}
}

func TestApplyRelevanceScenario(t *testing.T) {
	batch := scenarioBatch()
	batch[0].Description = "Analysts discuss vaccine demand"
	batch[2].Content = "vaccine platform"

	criteria := DefaultCriteria()
	criteria.SearchText = "vaccine"
	criteria.SortOrder = SortRelevance

	// No title matches: prior order is preserved.
	view := Apply(batch, criteria, testNow)
	if got := ids(view); !slices.Equal(got, []string{"1", "2", "3"}) {
		t.Errorf("Expected original order [1 2 3], got %v", got)
	}

	// Article 2's title matches: it moves to the front, the rest keep order.
	batch[1].Title = "Vaccine pipeline update"
	view = Apply(batch, criteria, testNow)
	if got := ids(view); !slices.Equal(got, []string{"2", "1", "3"}) {
		t.Errorf("Expected [2 1 3], got %v", got)
	}
}

func TestApplyRelevanceWithoutSearchKeepsOrder(t *testing.T) {
	batch := scenarioBatch()
	slices.Reverse(batch)
	criteria := DefaultCriteria()
	criteria.SortOrder = SortRelevance

	view := Apply(batch, criteria, testNow)

	if got := ids(view); !slices.Equal(got, []string{"3", "2", "1"}) {
		t.Errorf("Expected input order [3 2 1], got %v", got)
	}
}

func TestApplyEmptySourcesIsNoOp(t *testing.T) {
	batch := scenarioBatch()
	withNil := DefaultCriteria()
	withNil.SelectedSources = nil
	withEmpty := DefaultCriteria()

	a := Apply(batch, withNil, testNow)
	b := Apply(batch, withEmpty, testNow)

	if len(a) != len(batch) || !slices.Equal(ids(a), ids(b)) {
		t.Errorf("Empty source selection must keep everything, got %v and %v", ids(a), ids(b))
	}
}

func TestApplySourceFilter(t *testing.T) {
	criteria := DefaultCriteria()
	criteria.SelectedSources = []string{"STAT"}

	view := Apply(scenarioBatch(), criteria, testNow)

	if got := ids(view); !slices.Equal(got, []string{"2"}) {
		t.Errorf("Expected [2], got %v", got)
	}
}

func TestApplyDateWindows(t *testing.T) {
	yesterday := testNow.Add(-13 * time.Hour)
	batch := []Article{
		article("today", "Today", "S", testNow.Add(-1*time.Hour)),
		article("yesterday", "Yesterday", "S", yesterday),
		article("six-days", "Six days", "S", testNow.Add(-6*24*time.Hour)),
		article("twenty-days", "Twenty days", "S", testNow.Add(-20*24*time.Hour)),
		article("old", "Old", "S", testNow.Add(-40*24*time.Hour)),
		article("bad", "Unparsable", "S", time.Time{}),
	}

	tests := []struct {
		window DateWindow
		want   []string
	}{
		{DateWindowAll, []string{"today", "yesterday", "six-days", "twenty-days", "old", "bad"}},
		{DateWindowToday, []string{"today"}},
		{DateWindowWeek, []string{"today", "yesterday", "six-days"}},
		{DateWindowMonth, []string{"today", "yesterday", "six-days", "twenty-days"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.window), func(t *testing.T) {
			criteria := DefaultCriteria()
			criteria.DateWindow = tt.window

			view := Apply(batch, criteria, testNow)

			if got := ids(view); !slices.Equal(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestApplyTodayUsesCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2026, time.October, 15, 0, 30, 0, 0, loc)
	batch := []Article{
		// 23:00 on Oct 14 in UTC is 01:00 on Oct 15 in UTC+2.
		article("same-day", "Same day", "S", time.Date(2026, time.October, 14, 23, 0, 0, 0, time.UTC)),
		article("prev-day", "Previous day", "S", time.Date(2026, time.October, 14, 21, 0, 0, 0, time.UTC)),
	}
	criteria := DefaultCriteria()
	criteria.DateWindow = DateWindowToday

	view := Apply(batch, criteria, now)

	if got := ids(view); !slices.Equal(got, []string{"same-day"}) {
		t.Errorf("Expected [same-day], got %v", got)
	}
}

func TestApplySortOrders(t *testing.T) {
	batch := []Article{
		article("mid", "Mid", "S", testNow.Add(-2*time.Hour)),
		article("bad", "Unparsable", "S", time.Time{}),
		article("new", "New", "S", testNow.Add(-1*time.Hour)),
		article("old", "Old", "S", testNow.Add(-3*time.Hour)),
	}

	newest := DefaultCriteria()
	if got := ids(Apply(batch, newest, testNow)); !slices.Equal(got, []string{"new", "mid", "old", "bad"}) {
		t.Errorf("Newest: unexpected order %v", got)
	}

	oldest := DefaultCriteria()
	oldest.SortOrder = SortOldest
	if got := ids(Apply(batch, oldest, testNow)); !slices.Equal(got, []string{"bad", "old", "mid", "new"}) {
		t.Errorf("Oldest: unexpected order %v", got)
	}
}

func TestApplyIsPureAndIdempotent(t *testing.T) {
	batch := scenarioBatch()
	original := slices.Clone(batch)
	criteria := DefaultCriteria()
	criteria.SortOrder = SortOldest
	criteria.SearchText = "a"

	first := Apply(batch, criteria, testNow)
	second := Apply(batch, criteria, testNow)

	if !slices.Equal(ids(first), ids(second)) {
		t.Errorf("Apply is not idempotent: %v vs %v", ids(first), ids(second))
	}
	if !slices.Equal(ids(batch), ids(original)) {
		t.Error("Apply must not reorder its input")
	}
}

func TestApplyPipelineOrder(t *testing.T) {
	batch := []Article{
		article("a", "Vaccine trial results", "STAT", testNow.Add(-2*time.Hour)),
		article("b", "Vaccine rollout", "FiercePharma", testNow.Add(-1*time.Hour)),
		article("c", "Vaccine history", "STAT", testNow.Add(-60*24*time.Hour)),
		article("d", "Manufacturing", "STAT", testNow.Add(-30*time.Minute)),
	}
	criteria := Criteria{
		SearchText:      "vaccine",
		SelectedSources: []string{"STAT"},
		DateWindow:      DateWindowWeek,
		SortOrder:       SortNewest,
	}

	view := Apply(batch, criteria, testNow)

	if got := ids(view); !slices.Equal(got, []string{"a"}) {
		t.Errorf("Expected [a], got %v", got)
	}
}

func TestCriteriaMerge(t *testing.T) {
	base := DefaultCriteria()
	sources := []string{"STAT", "FiercePharma", "STAT", ""}
	window := "week"

	merged, err := base.Merge(CriteriaUpdate{
		SearchText:      strPtr("fda"),
		SelectedSources: &sources,
		DateWindow:      &window,
	})
	if err != nil {
		t.Fatal(err)
	}

	if merged.SearchText != "fda" {
		t.Errorf("Expected search 'fda', got '%s'", merged.SearchText)
	}
	if !slices.Equal(merged.SelectedSources, []string{"FiercePharma", "STAT"}) {
		t.Errorf("Expected normalized source set, got %v", merged.SelectedSources)
	}
	if merged.DateWindow != DateWindowWeek {
		t.Errorf("Expected week window, got %s", merged.DateWindow)
	}
	if merged.SortOrder != SortNewest {
		t.Errorf("Expected untouched sort order, got %s", merged.SortOrder)
	}
}

func TestCriteriaMergeRejectsUnknownValues(t *testing.T) {
	base := DefaultCriteria()
	bad := "fortnight"

	merged, err := base.Merge(CriteriaUpdate{SearchText: strPtr("x"), DateWindow: &bad})
	if err == nil {
		t.Fatal("Expected error for unknown date window")
	}
	if merged.SearchText != "" {
		t.Error("Criteria must be unchanged on error")
	}

	order := "popularity"
	if _, err := base.Merge(CriteriaUpdate{SortOrder: &order}); err == nil {
		t.Error("Expected error for unknown sort order")
	}
}
