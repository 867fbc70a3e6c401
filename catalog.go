package kami

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

//go:embed catalog.schema.json
var catalogSchemaJSON string

// KindInfo is the display metadata for one kind. The engine passes it
// through to the scene on spawn and never consults it for logic.
type KindInfo struct {
	ID    string
	Asset string
	Label string
}

// Catalog is the static configuration of a session: the kind table, the
// rule table and the kinds spawned at startup. A Catalog is immutable once
// built and can be shared between engines.
type Catalog struct {
	kinds    map[string]KindInfo
	order    []string
	start    []string
	rules    *RuleTable
	digest   string
	warnings []string
}

// NewCatalog validates and assembles a catalog. Every kind named by start,
// by a rule pair or by a create effect must be declared in kinds.
func NewCatalog(kinds []KindInfo, rules []Rule, start []string) (*Catalog, error) {
	c := &Catalog{kinds: make(map[string]KindInfo, len(kinds))}
	for i, k := range kinds {
		if k.ID == "" {
			return nil, fmt.Errorf("catalog: kind %d: empty id", i)
		}
		if _, dup := c.kinds[k.ID]; dup {
			return nil, fmt.Errorf("catalog: kind %d: duplicate id %q", i, k.ID)
		}
		c.kinds[k.ID] = k
		c.order = append(c.order, k.ID)
	}
	for i, s := range start {
		if _, ok := c.kinds[s]; !ok {
			return nil, fmt.Errorf("catalog: start %d: unknown kind %q", i, s)
		}
	}
	c.start = append([]string(nil), start...)

	for i, r := range rules {
		for _, k := range []string{r.Pair.A, r.Pair.B} {
			if _, ok := c.kinds[k]; !ok {
				return nil, fmt.Errorf("catalog: rule %d: unknown kind %q", i, k)
			}
		}
		for j, e := range r.Effects {
			switch e.Op {
			case EffectCreate:
				if _, ok := c.kinds[e.Kind]; !ok {
					return nil, fmt.Errorf("catalog: rule %d effect %d: unknown kind %q", i, j, e.Kind)
				}
			case EffectDelete:
				if !r.Pair.Has(e.Kind) {
					c.warnings = append(c.warnings, fmt.Sprintf(
						"rule (%s, %s): delete %q names neither kind; it will delete the drop target",
						r.Pair.A, r.Pair.B, e.Kind))
				}
			default:
				return nil, fmt.Errorf("catalog: rule %d effect %d: unknown op %v", i, j, e.Op)
			}
		}
	}
	table, err := NewRuleTable(rules)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	c.rules = table
	return c, nil
}

// Kind returns the metadata for id.
func (c *Catalog) Kind(id string) (KindInfo, bool) {
	k, ok := c.kinds[id]
	return k, ok
}

// Label returns the display label for id, falling back to id itself.
func (c *Catalog) Label(id string) string {
	if k, ok := c.kinds[id]; ok && k.Label != "" {
		return k.Label
	}
	return id
}

// Kinds returns the declared kinds in declaration order.
func (c *Catalog) Kinds() []KindInfo {
	out := make([]KindInfo, len(c.order))
	for i, id := range c.order {
		out[i] = c.kinds[id]
	}
	return out
}

// Start returns the kinds spawned when an engine is created.
func (c *Catalog) Start() []string {
	return append([]string(nil), c.start...)
}

// Rules returns the rule table.
func (c *Catalog) Rules() *RuleTable {
	return c.rules
}

// Digest is the hex SHA-256 of the source document, empty for catalogs
// built directly with NewCatalog.
func (c *Catalog) Digest() string {
	return c.digest
}

// Warnings lists suspicious but accepted entries, such as delete effects
// naming neither kind of their rule.
func (c *Catalog) Warnings() []string {
	return append([]string(nil), c.warnings...)
}

// --- Document loading ---

type catalogDoc struct {
	Start []string  `yaml:"start"`
	Kinds []kindDoc `yaml:"kinds"`
	Rules []ruleDoc `yaml:"rules"`
}

type kindDoc struct {
	ID    string `yaml:"id"`
	Asset string `yaml:"asset"`
	Label string `yaml:"label"`
}

type ruleDoc struct {
	Pair    []string    `yaml:"pair"`
	Effects []effectDoc `yaml:"effects"`
}

type effectDoc struct {
	Create string `yaml:"create"`
	Delete string `yaml:"delete"`
}

var (
	catalogSchemaOnce sync.Once
	catalogSchema     *jsonschema.Schema
	catalogSchemaErr  error
)

func compiledCatalogSchema() (*jsonschema.Schema, error) {
	catalogSchemaOnce.Do(func() {
		catalogSchema, catalogSchemaErr = jsonschema.CompileString("catalog.schema.json", catalogSchemaJSON)
	})
	return catalogSchema, catalogSchemaErr
}

// LoadCatalog parses a YAML (or JSON) catalog document, validates it against
// the catalog schema and builds the Catalog.
func LoadCatalog(data []byte) (*Catalog, error) {
	if err := validateCatalogDoc(data); err != nil {
		return nil, err
	}

	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	kinds := make([]KindInfo, len(doc.Kinds))
	for i, k := range doc.Kinds {
		kinds[i] = KindInfo{ID: k.ID, Asset: k.Asset, Label: k.Label}
	}
	rules := make([]Rule, len(doc.Rules))
	for i, r := range doc.Rules {
		rules[i].Pair = Pair{A: r.Pair[0], B: r.Pair[1]}
		for _, e := range r.Effects {
			if e.Create != "" {
				rules[i].Effects = append(rules[i].Effects, Create(e.Create))
			} else {
				rules[i].Effects = append(rules[i].Effects, Delete(e.Delete))
			}
		}
	}

	c, err := NewCatalog(kinds, rules, doc.Start)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	c.digest = hex.EncodeToString(sum[:])
	return c, nil
}

// validateCatalogDoc checks the document shape before it is decoded into
// typed structs. The schema validator works on JSON values, so the YAML tree
// is round-tripped through encoding/json first.
func validateCatalogDoc(data []byte) error {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if tree == nil {
		return fmt.Errorf("catalog: empty document")
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	schema, err := compiledCatalogSchema()
	if err != nil {
		return fmt.Errorf("catalog schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	return nil
}

// LoadCatalogFile reads and parses a catalog document from path.
func LoadCatalogFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := LoadCatalog(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// MustLoadCatalog is like LoadCatalog but panics on error.
func MustLoadCatalog(data []byte) *Catalog {
	c, err := LoadCatalog(data)
	if err != nil {
		panic(err)
	}
	return c
}

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
)

// DefaultCatalog returns the built-in catalog of kinds and rules.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog = MustLoadCatalog(defaultCatalogYAML)
	})
	return defaultCatalog
}
