package parser

import "testing"

func TestSplitFrontmatter(t *testing.T) {
	tests := map[string]struct {
		content  string
		wantRaw  string
		wantBody string
		wantHas  bool
	}{
		"standard block": {
			content:  "---\nname: x\n---\nbody",
			wantRaw:  "---\nname: x\n---",
			wantBody: "body",
			wantHas:  true,
		},
		"no frontmatter": {
			content:  "# Title\nbody",
			wantRaw:  "",
			wantBody: "# Title\nbody",
			wantHas:  false,
		},
		"unterminated block is body": {
			content:  "---\nname: x\nno closing marker",
			wantRaw:  "",
			wantBody: "---\nname: x\nno closing marker",
			wantHas:  false,
		},
		"empty block": {
			content:  "---\n---\nbody",
			wantRaw:  "---\n---",
			wantBody: "body",
			wantHas:  true,
		},
		"block at end of file": {
			content:  "---\nname: x\n---",
			wantRaw:  "---\nname: x\n---",
			wantBody: "",
			wantHas:  true,
		},
		"dashes mid-document are not a block": {
			content:  "intro\n---\nname: x\n---\nrest",
			wantRaw:  "",
			wantBody: "intro\n---\nname: x\n---\nrest",
			wantHas:  false,
		},
		"four dashes do not delimit": {
			content:  "----\nname: x\n----\nbody",
			wantRaw:  "",
			wantBody: "----\nname: x\n----\nbody",
			wantHas:  false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := SplitFrontmatter(tt.content)
			if got.HasFrontmatter != tt.wantHas {
				t.Errorf("HasFrontmatter = %v, want %v", got.HasFrontmatter, tt.wantHas)
			}
			if got.Raw != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", got.Raw, tt.wantRaw)
			}
			if got.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", got.Body, tt.wantBody)
			}
		})
	}
}

func TestSplitFrontmatterRoundTrip(t *testing.T) {
	contents := map[string]string{
		"with body":    "---\nname: demo\ntags:\n  - a\n---\n# Title\nbody\n",
		"empty body":   "---\nname: demo\n---\n",
		"no trailing":  "---\nname: demo\n---\nbody",
		"body at once": "---\nk: v\n---\n\n\ncontent",
	}

	for name, content := range contents {
		t.Run(name, func(t *testing.T) {
			got := SplitFrontmatter(content)
			if !got.HasFrontmatter {
				t.Fatal("expected frontmatter")
			}
			rebuilt := got.Raw + "\n" + got.Body
			if rebuilt != content {
				t.Errorf("round trip mismatch\n--- got ---\n%q\n--- want ---\n%q", rebuilt, content)
			}
		})
	}
}

func TestParseFrontmatterFields(t *testing.T) {
	raw := "---\nname: my-skill\ndescription: Does things\ncount: 3\n---"
	fields, err := ParseFrontmatterFields(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := FrontmatterString(fields, "name"); got != "my-skill" {
		t.Errorf("name = %q, want %q", got, "my-skill")
	}
	if got := FrontmatterString(fields, "description"); got != "Does things" {
		t.Errorf("description = %q, want %q", got, "Does things")
	}
	// Non-string values are not coerced.
	if got := FrontmatterString(fields, "count"); got != "" {
		t.Errorf("count = %q, want empty", got)
	}
}

func TestParseFrontmatterFieldsInvalid(t *testing.T) {
	if _, err := ParseFrontmatterFields("---\nkey: [unclosed\n---"); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestParseFrontmatterFieldsEmpty(t *testing.T) {
	fields, err := ParseFrontmatterFields("---\n---")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fields) != 0 {
		t.Errorf("expected empty map, got %v", fields)
	}
}
