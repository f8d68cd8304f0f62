package catalog

import (
	"errors"
	"testing"

	"episplit/internal/services"
)

func TestIngestEquivalentListings(t *testing.T) {
	// The same five episodes expressed in three listing shapes should
	// ingest to identical record sets.
	listings := map[string]string{
		"standard": `
1x01 - Pilot
1x02 - The Letter
1x03 - Long Weekend
2x01 - Return
2x02 - Fallout
`,
		"verbose": `
Season 1, Episode 1: Pilot
Season 1, Episode 2: The Letter
Season 1, Episode 3: Long Weekend
Season 2, Episode 1: Return
Season 2, Episode 2: Fallout
`,
		"wiki_numbered": `
Season 1
1 "Pilot"
2 "The Letter"
3 "Long Weekend"
Season 2
1 "Return"
2 "Fallout"
`,
	}
	want := []EpisodeRecord{
		{Season: 1, Episode: 1, Title: "Pilot", Code: "S01E01"},
		{Season: 1, Episode: 2, Title: "The Letter", Code: "S01E02"},
		{Season: 1, Episode: 3, Title: "Long Weekend", Code: "S01E03"},
		{Season: 2, Episode: 1, Title: "Return", Code: "S02E01"},
		{Season: 2, Episode: 2, Title: "Fallout", Code: "S02E02"},
	}
	for layoutName, text := range listings {
		result, err := Ingest(text)
		if err != nil {
			t.Fatalf("%s: Ingest: %v", layoutName, err)
		}
		if result.Layout != layoutName {
			t.Errorf("%s: detected layout %q", layoutName, result.Layout)
		}
		got := result.Catalog.Records()
		if len(got) != len(want) {
			t.Fatalf("%s: %d records, want %d", layoutName, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s: record %d = %+v, want %+v", layoutName, i, got[i], want[i])
			}
		}
	}
}

func TestIngestLayouts(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		layout string
		want   EpisodeRecord
	}{
		{
			name:   "quoted",
			text:   `"Pilot" (1x01)`,
			layout: "quoted",
			want:   EpisodeRecord{Season: 1, Episode: 1, Title: "Pilot", Code: "S01E01"},
		},
		{
			name:   "imdb",
			text:   "S1.E1 ∙ Pilot",
			layout: "imdb",
			want:   EpisodeRecord{Season: 1, Episode: 1, Title: "Pilot", Code: "S01E01"},
		},
		{
			name:   "title_first",
			text:   "Pilot (1.01)",
			layout: "title_first",
			want:   EpisodeRecord{Season: 1, Episode: 1, Title: "Pilot", Code: "S01E01"},
		},
		{
			name:   "episode_only",
			text:   "Season 3\nEpisode 4: The Dinner",
			layout: "episode_only",
			want:   EpisodeRecord{Season: 3, Episode: 4, Title: "The Dinner", Code: "S03E04"},
		},
		{
			name:   "numbered",
			text:   "Season 2\n7. The Crossing",
			layout: "numbered",
			want:   EpisodeRecord{Season: 2, Episode: 7, Title: "The Crossing", Code: "S02E07"},
		},
		{
			name:   "standard uppercase code",
			text:   "S02E05 - Homecoming",
			layout: "standard",
			want:   EpisodeRecord{Season: 2, Episode: 5, Title: "Homecoming", Code: "S02E05"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Ingest(tt.text)
			if err != nil {
				t.Fatalf("Ingest: %v", err)
			}
			if result.Layout != tt.layout {
				t.Errorf("layout = %q, want %q", result.Layout, tt.layout)
			}
			recs := result.Catalog.Records()
			if len(recs) != 1 {
				t.Fatalf("%d records, want 1", len(recs))
			}
			if recs[0] != tt.want {
				t.Errorf("record = %+v, want %+v", recs[0], tt.want)
			}
		})
	}
}

func TestIngestDuplicatesKeepFirst(t *testing.T) {
	result, err := Ingest("1x01 - Pilot\n1x01 - Pilot Remastered\n1x02 - The Letter")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result.Catalog.Len() != 2 {
		t.Fatalf("%d records, want 2", result.Catalog.Len())
	}
	rec, _ := result.Catalog.Lookup(1, 1)
	if rec.Title != "Pilot" {
		t.Errorf("kept title %q, want first occurrence", rec.Title)
	}
	if len(result.Duplicates) != 1 || result.Duplicates[0] != (Key{Season: 1, Episode: 1}) {
		t.Errorf("duplicates = %v", result.Duplicates)
	}
}

func TestIngestCleansTitles(t *testing.T) {
	result, err := Ingest(`1x01 - "Pilot" (aired Jan 5, 2001)`)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	rec, _ := result.Catalog.Lookup(1, 1)
	if rec.Title != "Pilot" {
		t.Errorf("title = %q, want %q", rec.Title, "Pilot")
	}
}

func TestIngestUnrecognized(t *testing.T) {
	_, err := Ingest("this listing has no structure\nneither does this line")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrUnrecognizedFormat) {
		t.Fatalf("error = %v, want ErrUnrecognizedFormat", err)
	}
}

func TestIngestEmpty(t *testing.T) {
	if _, err := Ingest("   \n\n  "); err == nil {
		t.Fatal("expected error for empty listing")
	}
}
