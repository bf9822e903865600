package omdb

import "testing"

func TestParseTotalResults(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"23", 23, false},
		{"", 0, false},
		{" 7 ", 7, false},
		{"-4", 0, false},
		{"lots", 0, true},
	}
	for _, tt := range tests {
		got, err := parseTotalResults(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseTotalResults(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseTotalResults(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseRuntime(t *testing.T) {
	tests := map[string]int{"142 min": 142, "N/A": 0, "": 0, "90min": 90}
	for in, want := range tests {
		if got := parseRuntime(in); got != want {
			t.Errorf("parseRuntime(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseRating(t *testing.T) {
	if r := parseRating("N/A"); r != nil {
		t.Errorf("N/A should map to nil, got %v", *r)
	}
	if r := parseRating("7.5"); r == nil || *r != 7.5 {
		t.Errorf("parseRating(7.5) = %v", r)
	}
}

func TestMapSearchPageRejectsBadTotal(t *testing.T) {
	_, err := MapSearchPage(&SearchResponse{TotalResults: "abc"}, 1)
	if err == nil {
		t.Fatal("expected error for non-numeric totalResults")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList("Action, , Drama ")
	if len(got) != 2 || got[0] != "Action" || got[1] != "Drama" {
		t.Errorf("splitList = %v", got)
	}
	if splitList("N/A") != nil {
		t.Error("N/A should map to nil")
	}
}
