package openai

import "testing"

func TestStripJSONFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare json",
			in:   `{"a":1}`,
			want: `{"a":1}`,
		},
		{
			name: "json fence",
			in:   "```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "plain fence",
			in:   "```\n[1,2]\n```",
			want: `[1,2]`,
		},
		{
			name: "surrounding whitespace",
			in:   "  \n```json\n{\"a\":1}\n```\n ",
			want: `{"a":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripJSONFence(tt.in); got != tt.want {
				t.Errorf("StripJSONFence() = %q, want %q", got, tt.want)
			}
		})
	}
}
