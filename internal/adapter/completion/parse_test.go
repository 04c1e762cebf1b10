package completion

import (
	"reflect"
	"testing"
)

func TestParseWordList(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "newline separated",
			content: "fast\nslow\nloud",
			want:    []string{"fast", "slow", "loud"},
		},
		{
			name:    "comma separated",
			content: "fast, slow, loud",
			want:    []string{"fast", "slow", "loud"},
		},
		{
			name:    "numbered list with quotes",
			content: "1. \"fast\"\n2. 'slow'\n3) loud",
			want:    []string{"fast", "slow", "loud"},
		},
		{
			name:    "bullets",
			content: "- fast\n* slow\n• loud",
			want:    []string{"fast", "slow", "loud"},
		},
		{
			name:    "multi-word entries dropped",
			content: "fast\nvery slow\nloud",
			want:    []string{"fast", "loud"},
		},
		{
			name:    "blank and garbage lines",
			content: "\n\nfast\n   \n",
			want:    []string{"fast"},
		},
		{
			name:    "unparseable prose",
			content: "I am sorry but I cannot help with that request today",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseWordList(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseWordList(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}
