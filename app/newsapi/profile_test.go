package newsapi

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultProfileKeywordExpression(t *testing.T) {
	expected := `(pharmaceutical OR pharma OR "FDA approval" OR "drug approval" OR "clinical trial" OR biotech OR biotechnology OR "drug development" OR "medical device" OR "drug discovery" OR vaccine OR "life sciences")`

	if got := DefaultProfile().KeywordExpression(); got != expected {
		t.Errorf("Expected keyword expression %s, got %s", expected, got)
	}
}

func TestDefaultProfileValues(t *testing.T) {
	values := DefaultProfile().Values()

	if values.Get("language") != "en" {
		t.Errorf("Expected language 'en', got '%s'", values.Get("language"))
	}
	if values.Get("sortBy") != "publishedAt" {
		t.Errorf("Expected sortBy 'publishedAt', got '%s'", values.Get("sortBy"))
	}
	if values.Get("pageSize") != "100" {
		t.Errorf("Expected pageSize '100', got '%s'", values.Get("pageSize"))
	}

	domains := strings.Split(values.Get("domains"), ",")
	if len(domains) != 9 {
		t.Errorf("Expected 9 domains, got %d", len(domains))
	}
	if values.Get("apiKey") != "" {
		t.Error("Profile values must not carry the credential")
	}
}

func TestLoadProfileEmptyPath(t *testing.T) {
	profile, err := LoadProfile("")
	if err != nil {
		t.Fatal(err)
	}
	if len(profile.Keywords) != 12 {
		t.Errorf("Expected 12 default keywords, got %d", len(profile.Keywords))
	}
}

func TestLoadProfileOverridesAndDefaults(t *testing.T) {
	tempDir := t.TempDir()

	content := `
keywords:
  - "gene therapy"
  - oncology
domains:
  - statnews.com
`
	path := filepath.Join(tempDir, "profile.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	profile, err := LoadProfile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := profile.KeywordExpression(); got != `("gene therapy" OR oncology)` {
		t.Errorf("Unexpected keyword expression: %s", got)
	}
	if len(profile.Domains) != 1 || profile.Domains[0] != "statnews.com" {
		t.Errorf("Expected domains [statnews.com], got %v", profile.Domains)
	}
	if profile.PageSize != 100 {
		t.Errorf("Expected default page size 100, got %d", profile.PageSize)
	}
	if profile.Language != "en" {
		t.Errorf("Expected default language 'en', got '%s'", profile.Language)
	}
}

func TestLoadProfileInvalid(t *testing.T) {
	tempDir := t.TempDir()

	content := `
page_size: 500
`
	path := filepath.Join(tempDir, "profile.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadProfile(path); err == nil {
		t.Error("Expected error for page size above provider limit")
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("Expected error for missing profile file")
	}
}

func TestProfileValidateEmptyEntry(t *testing.T) {
	profile := DefaultProfile()
	profile.Domains = []string{"statnews.com", "  "}

	if err := profile.Validate(); err == nil {
		t.Error("Expected error for blank domain entry")
	}
}
