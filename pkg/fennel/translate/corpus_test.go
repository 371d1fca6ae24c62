package translate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	ferrors "github.com/sambeau/fennel/pkg/fennel/errors"
)

type corpusCase struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Flags   string `yaml:"flags"`
	Want    string `yaml:"want"`
	Prefix  string `yaml:"prefix"`
	Error   string `yaml:"error"`
	Groups  *int   `yaml:"groups"`
	Anchor  bool   `yaml:"anchor"`
}

func TestTranslateCorpus(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "translate_cases.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var cases []corpusCase
	if err := yaml.Unmarshal(raw, &cases); err != nil {
		t.Fatal(err)
	}
	if len(cases) == 0 {
		t.Fatal("empty corpus")
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			res, err := Translate(tc.Pattern, MustParseFlags(tc.Flags))

			if tc.Error != "" {
				re, ok := err.(*ferrors.RegexError)
				if !ok {
					t.Fatalf("want %s, got %v", tc.Error, err)
				}
				if re.Code != tc.Error {
					t.Fatalf("want %s, got %s (%s)", tc.Error, re.Code, re.Message)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}

			if tc.Want != "" && res.Text != tc.Want {
				t.Errorf("text %q, want %q", res.Text, tc.Want)
			}
			if tc.Prefix != "" && !strings.HasPrefix(res.Text, tc.Prefix) {
				t.Errorf("text %q, want prefix %q", res.Text, tc.Prefix)
			}
			if tc.Groups != nil && res.GroupCount != *tc.Groups {
				t.Errorf("GroupCount = %d, want %d", res.GroupCount, *tc.Groups)
			}
			if res.AnchorAtCursor != tc.Anchor {
				t.Errorf("AnchorAtCursor = %v, want %v", res.AnchorAtCursor, tc.Anchor)
			}
		})
	}
}
