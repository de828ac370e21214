package token

import "testing"

func TestEstimate(t *testing.T) {
	tests := map[string]struct {
		text string
		want int
	}{
		"empty input": {
			text: "",
			want: 0,
		},
		"single word": {
			text: "hello",
			want: 1,
		},
		"two words": {
			text: "Hello world",
			want: 2,
		},
		"character-dominated content": {
			// One long unbroken token: chars/4 wins over words*1.3.
			text: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
			want: 10,
		},
		"word-dominated content": {
			// Ten short words: words*1.3 = 13 beats chars/4 = 7.
			text: "a b c d e f g h i j",
			want: 13,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Estimate(tt.text); got != tt.want {
				t.Errorf("Estimate(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestEstimateMonotonicInAggregate(t *testing.T) {
	a := "# Heading\n\nSome paragraph with several words in it.\n"
	b := "Another paragraph, also with words.\n"

	if Estimate(a+b) < Estimate(a) {
		t.Errorf("Estimate(a+b) = %d < Estimate(a) = %d", Estimate(a+b), Estimate(a))
	}
	if Estimate(a+b) < Estimate(b) {
		t.Errorf("Estimate(a+b) = %d < Estimate(b) = %d", Estimate(a+b), Estimate(b))
	}
}

func TestCountLines(t *testing.T) {
	tests := map[string]struct {
		text string
		want int
	}{
		"empty":               {text: "", want: 0},
		"no trailing newline": {text: "one\ntwo", want: 1},
		"trailing newline":    {text: "one\ntwo\n", want: 2},
		"only newlines":       {text: "\n\n\n", want: 3},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := CountLines(tt.text); got != tt.want {
				t.Errorf("CountLines(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}
