package similarity

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "lowercases and strips punctuation",
			in:   "SEO Tools: Rank-Tracking, Backlinks!",
			want: []string{"seo", "tools", "rank", "tracking", "backlinks"},
		},
		{
			name: "drops stopwords",
			in:   "the quick brown fox jumps over the lazy dog",
			want: []string{"quick", "brown", "fox", "jumps", "over", "lazy", "dog"},
		},
		{
			name: "keeps numbers",
			in:   "top 10 keywords for 2026",
			want: []string{"top", "10", "keywords", "2026"},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
		{
			name: "only stopwords",
			in:   "the of and to a",
			want: nil,
		},
		{
			name: "only punctuation",
			in:   "?!... --- +++",
			want: nil,
		},
		{
			name: "unicode letters survive",
			in:   "café au lait",
			want: []string{"café", "au", "lait"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Tokenize(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
