package sources

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSourcesFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write sources file: %v", err)
	}
	return path
}

func TestLoadRegistryKeepsFileOrder(t *testing.T) {
	path := writeSourcesFile(t, "sources.yaml", `
sources:
  - id: bbc
    name: BBC
    url: https://www.bbc.com/news
  - id: techcrunch
    name: TechCrunch
    url: https://techcrunch.com/
    max_headlines: 3
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	all := reg.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(all))
	}
	if all[0].ID != "bbc" || all[1].ID != "techcrunch" {
		t.Errorf("file order not preserved: %s, %s", all[0].ID, all[1].ID)
	}
	if all[0].RequestDelayMs != defaultRequestDelayMs {
		t.Errorf("request delay default not applied: %d", all[0].RequestDelayMs)
	}
	if got := all[1].Limit(5); got != 3 {
		t.Errorf("per-source cap should win, got %d", got)
	}
	if got := all[0].Limit(7); got != 7 {
		t.Errorf("fallback cap should apply, got %d", got)
	}

	if _, ok := reg.ByID("techcrunch"); !ok {
		t.Errorf("ByID failed for known source")
	}
	if _, ok := reg.ByID("missing"); ok {
		t.Errorf("ByID matched unknown source")
	}
}

func TestLoadRegistryRejectsDuplicateIDs(t *testing.T) {
	path := writeSourcesFile(t, "sources.yaml", `
sources:
  - id: bbc
    name: BBC
    url: https://www.bbc.com/news
  - id: bbc
    name: BBC again
    url: https://www.bbc.com/
`)

	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestLoadRegistryRejectsMissingURL(t *testing.T) {
	path := writeSourcesFile(t, "sources.yaml", `
sources:
  - id: bbc
    name: BBC
`)

	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected validation error for missing url")
	}
}

func TestLoadRegistryReadsJSON(t *testing.T) {
	path := writeSourcesFile(t, "sources.json", `{
  "sources": [
    {"id": "reuters", "name": "Reuters", "url": "https://www.reuters.com/"}
  ]
}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 1 {
		t.Fatalf("expected 1 source from json file")
	}
}

func TestSourceRequestDelay(t *testing.T) {
	src := Source{RequestDelayMs: 2000}
	if got := src.RequestDelay(); got != 2*time.Second {
		t.Errorf("RequestDelay = %v", got)
	}
	if got := (Source{}).RequestDelay(); got != 500*time.Millisecond {
		t.Errorf("default RequestDelay = %v", got)
	}
}

func TestHeadersSkipsEmptyValues(t *testing.T) {
	headers := Headers(Source{Config: map[string]any{
		ConfigUserAgentKey: "UA",
		ConfigAcceptKey:    "   ",
	}})
	if headers["User-Agent"] != "UA" {
		t.Errorf("User-Agent missing: %v", headers)
	}
	if _, ok := headers["Accept"]; ok {
		t.Errorf("blank Accept should be skipped")
	}
}
