package refs

import (
	"reflect"
	"testing"
)

func TestExtractMarkdownLinks(t *testing.T) {
	tests := map[string]struct {
		text string
		want []string
	}{
		"local markdown link": {
			text: "See [Setup Guide](references/setup-guide.md) for details.",
			want: []string{"references/setup-guide.md"},
		},
		"url target ignored": {
			text: "Read [the docs](https://example.com/page.md) online.",
			want: []string{},
		},
		"non-whitelisted extension ignored": {
			text: "An [image](assets/logo.png) here.",
			want: []string{},
		},
		"multiple links": {
			text: "[a](one.md) then [b](two.py) then [c](three.txt)",
			want: []string{"one.md", "three.txt", "two.py"},
		},
		"leading dot-slash normalized": {
			text: "[guide](./references/guide.md)",
			want: []string{"references/guide.md"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := ExtractMarkdownLinks(tt.text).Sorted()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractMarkdownLinks() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractCodeSpans(t *testing.T) {
	tests := map[string]struct {
		text string
		want []string
	}{
		"bare filename": {
			text: "Run the checks in `validate.py` first.",
			want: []string{"validate.py"},
		},
		"yaml and json files": {
			text: "Edit `config.yaml` or `settings.json`.",
			want: []string{"config.yaml", "settings.json"},
		},
		"span without extension ignored": {
			text: "The `main` function does the work.",
			want: []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := ExtractCodeSpans(tt.text).Sorted()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractCodeSpans() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractProsePaths(t *testing.T) {
	tests := map[string]struct {
		text string
		want []string
	}{
		"file keyword": {
			text: "Load the file references/advanced.md before starting.",
			want: []string{"references/advanced.md"},
		},
		"resources keyword": {
			text: "Check resources scripts/helper.py for the implementation.",
			want: []string{"scripts/helper.py"},
		},
		"keyword without path ignored": {
			text: "Several files are created during the run.",
			want: []string{},
		},
		"file with colon": {
			text: "file: references/setup.md holds the details.",
			want: []string{"references/setup.md"},
		},
		"files with colon": {
			text: "files: scripts/run.py and more.",
			want: []string{"scripts/run.py"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := ExtractProsePaths(tt.text).Sorted()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractProsePaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractUnionsAndDeduplicates(t *testing.T) {
	text := "See [guide](references/guide.md) and the file references/guide.md, " +
		"plus `notes.md` and [notes](./notes.md)."

	got := Extract(text).Sorted()
	want := []string{"notes.md", "references/guide.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestSetContains(t *testing.T) {
	set := Extract("[a](references/a.md)")
	if !set.Contains("references/a.md") {
		t.Error("expected set to contain references/a.md")
	}
	if !set.Contains("./references/a.md") {
		t.Error("expected Contains to normalize ./ prefix")
	}
	if set.Contains("references/b.md") {
		t.Error("did not expect references/b.md")
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]struct {
		ref  string
		want string
	}{
		"strips leading dot-slash":  {ref: "./a/b.md", want: "a/b.md"},
		"preserves plain path":      {ref: "a/b.md", want: "a/b.md"},
		"preserves case":            {ref: "References/Guide.MD", want: "References/Guide.MD"},
		"single dot-slash stripped": {ref: "././a.md", want: "./a.md"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Normalize(tt.ref); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}
