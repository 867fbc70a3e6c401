package kami

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	if got := len(c.Kinds()); got != 12 {
		t.Errorf("kinds = %d, want 12", got)
	}
	if got := c.Rules().Len(); got != 5 {
		t.Errorf("rules = %d, want 5", got)
	}
	want := []string{"he_who", "she_who", "land", "ocean", "heaven"}
	if got := c.Start(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("start = %v, want %v", got, want)
	}
	if len(c.Warnings()) != 0 {
		t.Errorf("default catalog warnings: %v", c.Warnings())
	}
	if len(c.Digest()) != 64 {
		t.Errorf("digest %q should be hex sha256", c.Digest())
	}
	if DefaultCatalog() != c {
		t.Error("DefaultCatalog should return the same catalog each time")
	}

	effects, ok := c.Rules().Lookup("she_who", "he_who")
	if !ok {
		t.Fatal("missing he_who/she_who rule")
	}
	wantEffects := []Effect{Create("she_who_dead"), Create("bad_flame"), Create("leech"), Delete("she_who")}
	if len(effects) != len(wantEffects) {
		t.Fatalf("effects = %v, want %v", effects, wantEffects)
	}
	for i := range effects {
		if effects[i] != wantEffects[i] {
			t.Errorf("effect %d = %v, want %v", i, effects[i], wantEffects[i])
		}
	}
}

func TestCatalogKindInfo(t *testing.T) {
	c := DefaultCatalog()
	info, ok := c.Kind("he_who")
	if !ok || info.Asset != "HeWho.png" || info.Label != "He Who Beckoned" {
		t.Errorf("Kind(he_who) = %+v, %v", info, ok)
	}
	if _, ok := c.Kind("nope"); ok {
		t.Error("unknown kind should not be found")
	}
	if c.Label("nope") != "nope" {
		t.Error("Label should fall back to the id")
	}
}

func TestLoadCatalog(t *testing.T) {
	doc := `
start: [fire]
kinds:
  - {id: fire, label: Fire}
  - {id: water}
  - {id: steam}
rules:
  - pair: [water, fire]
    effects:
      - create: steam
      - delete: water
      - delete: fire
`
	c, err := LoadCatalog([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	effects, ok := c.Rules().Lookup("fire", "water")
	if !ok || len(effects) != 3 {
		t.Fatalf("Lookup = %v, %v", effects, ok)
	}
	if effects[0] != Create("steam") || effects[2] != Delete("fire") {
		t.Errorf("effects = %v", effects)
	}
	if c.Label("water") != "water" || c.Label("fire") != "Fire" {
		t.Error("labels wrong")
	}
}

func TestLoadCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", ``, "empty document"},
		{"not yaml", `kinds: [`, "catalog"},
		{"missing kinds", `start: []`, "kinds"},
		{"unknown field", "kinds: [{id: a}]\ncolour: red", "colour"},
		{"pair of one", "kinds: [{id: a}]\nrules: [{pair: [a], effects: []}]", "pair"},
		{"effect with both ops", "kinds: [{id: a}]\nrules: [{pair: [a, a], effects: [{create: a, delete: a}]}]", "effects"},
		{"empty effect", "kinds: [{id: a}]\nrules: [{pair: [a, a], effects: [{}]}]", "effects"},
		{"unknown start", "start: [b]\nkinds: [{id: a}]", `unknown kind "b"`},
		{"unknown rule kind", "kinds: [{id: a}]\nrules: [{pair: [a, b], effects: []}]", `unknown kind "b"`},
		{"unknown create", "kinds: [{id: a}]\nrules: [{pair: [a, a], effects: [{create: c}]}]", `unknown kind "c"`},
		{"duplicate kind", "kinds: [{id: a}, {id: a}]", "duplicate id"},
		{"duplicate rule", "kinds: [{id: a}, {id: b}]\nrules: [{pair: [a, b], effects: []}, {pair: [b, a], effects: []}]", "duplicate rule"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadCatalogWarnsOnStrayDelete(t *testing.T) {
	doc := "kinds: [{id: a}, {id: b}, {id: c}]\nrules: [{pair: [a, b], effects: [{delete: c}]}]"
	c, err := LoadCatalog([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	w := c.Warnings()
	if len(w) != 1 || !strings.Contains(w[0], `delete "c"`) {
		t.Errorf("warnings = %v", w)
	}
}

func TestLoadCatalogDigest(t *testing.T) {
	a := MustLoadCatalog([]byte("kinds: [{id: a}]"))
	b := MustLoadCatalog([]byte("kinds: [{id: a}]"))
	c := MustLoadCatalog([]byte("kinds: [{id: b}]"))
	if a.Digest() != b.Digest() {
		t.Error("same document should have the same digest")
	}
	if a.Digest() == c.Digest() {
		t.Error("different documents should have different digests")
	}
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("kinds: [{id: only}]\nstart: [only]"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadCatalogFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Start(); len(got) != 1 || got[0] != "only" {
		t.Errorf("start = %v", got)
	}

	if _, err := LoadCatalogFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMustLoadCatalogPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustLoadCatalog([]byte("nope: true"))
}

func TestCatalogAccessorsReturnCopies(t *testing.T) {
	c, err := NewCatalog([]KindInfo{{ID: "a"}}, nil, []string{"a"})
	if err != nil {
		t.Fatal(err)
	}
	s := c.Start()
	s[0] = "mutated"
	if c.Start()[0] != "a" {
		t.Error("Start should return a copy")
	}
	if c.Digest() != "" {
		t.Error("catalogs built in code have no digest")
	}
}
