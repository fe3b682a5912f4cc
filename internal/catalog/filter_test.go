package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func sampleRows() []Row {
	return []Row{
		{
			ID: 1, Title: "Dune", Summary: "Desert planet", Category: "Sci-Fi",
			Author: strPtr("Herbert, Frank"), Language: strPtr("English"), Owner: strPtr("Alice"), Status: strPtr("Read"),
		},
		{
			ID: 2, Title: "The Hobbit", Summary: "There and back again", Category: "Fantasy",
			Author: strPtr("Tolkien, J.R.R."), Language: strPtr("English"), Owner: strPtr("Bob"), Status: strPtr("Unread"),
		},
		{
			ID: 3, Title: "Le Petit Prince", Summary: "A pilot stranded in the DESERT", Category: "Fantasy",
			Author: strPtr("Saint-Exupéry, Antoine"), Language: strPtr("French"), Owner: strPtr("Alice"), Status: strPtr("Reading"),
		},
		{
			ID: 4, Title: "Orphan", Summary: "", Category: "",
		},
	}
}

func ids(rows []Row) []uint {
	out := make([]uint, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func TestApply_DuneScenario(t *testing.T) {
	rows := []Row{{ID: 7, Title: "Dune", Summary: "Desert planet", Category: "Sci-Fi"}}

	for _, term := range []string{"desert", "DESERT", "DeSeRt"} {
		got := Apply(rows, Filter{Search: term, Category: ShowAll})
		assert.Equal(t, []uint{7}, ids(got), "term %q", term)
	}

	got := Apply(rows, Filter{Search: "DESERT", Category: ShowAllLabel})
	assert.Equal(t, []uint{7}, ids(got))

	got = Apply(rows, Filter{Search: "desert", Category: "Fantasy"})
	assert.Empty(t, got)
}

func TestApply_ShowAllLabelEqualsOmittedPredicate(t *testing.T) {
	rows := sampleRows()
	all := Filter{Category: ShowAllLabel, Language: ShowAllLabel, Owner: ShowAllLabel, Status: ShowAllLabel}

	assert.Equal(t, ids(rows), ids(Apply(rows, all)))
	assert.Equal(t, []uint{1, 3}, ids(Apply(rows, Filter{Owner: "Alice", Category: ShowAllLabel})))
}

func TestApply_SearchMatchesTitleOrSummary(t *testing.T) {
	rows := sampleRows()

	assert.Equal(t, []uint{1, 3}, ids(Apply(rows, Filter{Search: "desert"})))
	assert.Equal(t, []uint{2}, ids(Apply(rows, Filter{Search: "hobbit"})))
	assert.Equal(t, []uint{3}, ids(Apply(rows, Filter{Search: "petit"})))
	assert.Empty(t, Apply(rows, Filter{Search: "zeppelin"}))
}

func TestApply_SearchFoldsUnicodeCase(t *testing.T) {
	rows := []Row{{ID: 1, Title: "Ñandú", Summary: ""}, {ID: 2, Title: "ÉTÉ", Summary: ""}}

	assert.Equal(t, []uint{1}, ids(Apply(rows, Filter{Search: "ñandú"})))
	assert.Equal(t, []uint{2}, ids(Apply(rows, Filter{Search: "été"})))
}

func TestApply_EmptySearchIsNoPredicate(t *testing.T) {
	rows := sampleRows()

	got := Apply(rows, Filter{})
	if diff := cmp.Diff(rows, got); diff != "" {
		t.Fatalf("unfiltered catalog changed (-want +got):\n%s", diff)
	}
}

func TestApply_ShowAllEqualsOmittedPredicate(t *testing.T) {
	rows := sampleRows()

	cases := []struct {
		name    string
		all     Filter
		omitted Filter
	}{
		{"category", Filter{Search: "e", Category: ShowAll, Owner: "Alice"}, Filter{Search: "e", Owner: "Alice"}},
		{"language", Filter{Language: ShowAll, Status: "Read"}, Filter{Status: "Read"}},
		{"owner", Filter{Owner: ShowAll, Category: "Fantasy"}, Filter{Category: "Fantasy"}},
		{"status", Filter{Status: ShowAll, Language: "English"}, Filter{Language: "English"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, ids(Apply(rows, tc.omitted)), ids(Apply(rows, tc.all)))
		})
	}
}

func TestApply_PredicatesCombineWithAnd(t *testing.T) {
	rows := sampleRows()

	assert.Equal(t, []uint{2, 3}, ids(Apply(rows, Filter{Category: "Fantasy"})))
	assert.Equal(t, []uint{3}, ids(Apply(rows, Filter{Category: "Fantasy", Owner: "Alice"})))
	assert.Equal(t, []uint{3}, ids(Apply(rows, Filter{Category: "Fantasy", Language: "French", Status: "Reading"})))
	assert.Empty(t, Apply(rows, Filter{Category: "Fantasy", Owner: "Alice", Status: "Read"}))
}

func TestApply_NullLookupNeverMatchesSelection(t *testing.T) {
	rows := sampleRows()

	for _, f := range []Filter{{Language: "English"}, {Owner: "Alice"}, {Status: "Unread"}} {
		assert.NotContains(t, ids(Apply(rows, f)), uint(4))
	}
}

func TestApply_AlwaysSubsetOfCatalog(t *testing.T) {
	rows := sampleRows()
	all := map[uint]bool{}
	for _, r := range rows {
		all[r.ID] = true
	}

	searches := []string{"", "e", "desert", "XYZ"}
	categories := []string{ShowAll, "Fantasy", "Sci-Fi", "Poetry"}
	languages := []string{ShowAll, "English", "French"}
	owners := []string{ShowAll, "Alice", "Bob"}
	statuses := []string{ShowAll, "Read", "Reading", "Unread"}

	for _, q := range searches {
		for _, c := range categories {
			for _, l := range languages {
				for _, o := range owners {
					for _, st := range statuses {
						f := Filter{Search: q, Category: c, Language: l, Owner: o, Status: st}
						got := Apply(rows, f)
						assert.LessOrEqual(t, len(got), len(rows))
						for _, r := range got {
							assert.True(t, all[r.ID], "filter %+v produced unknown row %d", f, r.ID)
						}
					}
				}
			}
		}
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	rows := sampleRows()
	before := sampleRows()

	Apply(rows, Filter{Category: "Fantasy"})

	if diff := cmp.Diff(before, rows); diff != "" {
		t.Fatalf("input modified (-want +got):\n%s", diff)
	}
}

func TestBuildOptions(t *testing.T) {
	opts := BuildOptions(sampleRows())

	want := Options{
		Categories: []string{"Sci-Fi", "Fantasy"},
		Languages:  []string{"English", "French"},
		Owners:     []string{"Alice", "Bob"},
		Statuses:   []string{"Read", "Unread", "Reading"},
	}
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestFilter_IsEmpty(t *testing.T) {
	assert.True(t, Filter{}.IsEmpty())
	assert.True(t, Filter{Category: ShowAllLabel, Status: ShowAllLabel}.IsEmpty())
	assert.False(t, Filter{Search: "x"}.IsEmpty())
	assert.False(t, Filter{Status: "Read"}.IsEmpty())
}
