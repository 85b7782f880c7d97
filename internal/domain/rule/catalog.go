package rule

import (
	"sort"

	"github.com/turtacn/JurisCompare/internal/domain/jurisdiction"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// Entry binds one Variant to a (jurisdiction, topic) pair.
type Entry struct {
	Jurisdiction string  `json:"jurisdiction"`
	Topic        Topic   `json:"topic"`
	Variant      Variant `json:"variant"`
}

type catalogKey struct {
	jurisdiction string
	topic        Topic
}

// Catalog is an immutable store of rule variants keyed by (jurisdiction,
// topic).  It is safe for concurrent readers; reload builds a new Catalog.
// Every read returns cloned variants.
type Catalog struct {
	entries        map[catalogKey]Variant
	byTopic        map[Topic][]Entry
	byJurisdiction map[string][]Entry
	total          int
	normalize      func(string) string
}

// CatalogOption configures NewCatalog.
type CatalogOption func(*Catalog)

// WithCodeResolver sets how codes are canonicalised on build and on lookup.
// Passing a registry's Normalize lets lookups use aliases.  The default only
// trims and upper-cases, so without a resolver the catalog takes canonical
// codes.
func WithCodeResolver(normalize func(string) string) CatalogOption {
	return func(c *Catalog) {
		if normalize != nil {
			c.normalize = normalize
		}
	}
}

// NewCatalog validates entries and builds a Catalog.  A repeated
// (jurisdiction, topic) pair fails with DuplicateRuleEntry; an unknown topic
// or a variant that does not fit its topic fails before any entry is kept.
func NewCatalog(entries []Entry, opts ...CatalogOption) (*Catalog, error) {
	c := &Catalog{
		entries:        make(map[catalogKey]Variant, len(entries)),
		byTopic:        make(map[Topic][]Entry),
		byJurisdiction: make(map[string][]Entry),
		normalize:      jurisdiction.NormalizeCode,
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, e := range entries {
		code := c.normalize(e.Jurisdiction)
		if code == "" {
			return nil, errors.New(errors.ErrCodeInvalidJurisdiction, "rule entry has no jurisdiction").
				WithDetail("topic=" + string(e.Topic))
		}
		if !e.Topic.IsValid() {
			return nil, errors.New(errors.ErrCodeUnknownTopic, "unknown legal topic").
				WithDetailf("jurisdiction=%s topic=%s", code, e.Topic)
		}
		if err := e.Variant.validFor(e.Topic); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidRuleVariant, "invalid rule entry").
				WithDetailf("jurisdiction=%s topic=%s", code, e.Topic)
		}
		k := catalogKey{jurisdiction: code, topic: e.Topic}
		if _, dup := c.entries[k]; dup {
			return nil, errors.New(errors.ErrCodeDuplicateRuleEntry, "duplicate rule entry").
				WithDetailf("jurisdiction=%s topic=%s", code, e.Topic)
		}
		v := e.Variant.Clone()
		c.entries[k] = v
		stored := Entry{Jurisdiction: code, Topic: e.Topic, Variant: v}
		c.byTopic[e.Topic] = append(c.byTopic[e.Topic], stored)
		c.byJurisdiction[code] = append(c.byJurisdiction[code], stored)
	}
	for _, list := range c.byTopic {
		sort.Slice(list, func(i, j int) bool { return list[i].Jurisdiction < list[j].Jurisdiction })
	}
	for _, list := range c.byJurisdiction {
		sort.Slice(list, func(i, j int) bool { return topicRank(list[i].Topic) < topicRank(list[j].Topic) })
	}
	c.total = len(c.entries)
	return c, nil
}

// EmptyCatalog returns a Catalog with no entries.
func EmptyCatalog() *Catalog {
	c, _ := NewCatalog(nil)
	return c
}

// Get returns a copy of the variant for (code, topic).
func (c *Catalog) Get(code string, topic Topic) (Variant, bool) {
	v, ok := c.entries[catalogKey{jurisdiction: c.normalize(code), topic: topic}]
	if !ok {
		return Variant{}, false
	}
	return v.Clone(), true
}

// AllForTopic returns the entries on topic ordered by jurisdiction code.
func (c *Catalog) AllForTopic(topic Topic) []Entry {
	return cloneEntries(c.byTopic[topic])
}

// AllForJurisdiction returns the entries of one jurisdiction in topic order.
func (c *Catalog) AllForJurisdiction(code string) []Entry {
	return cloneEntries(c.byJurisdiction[c.normalize(code)])
}

// Topics returns the topics that have at least one entry, in declaration order.
func (c *Catalog) Topics() []Topic {
	out := make([]Topic, 0, len(c.byTopic))
	for _, t := range topicOrder {
		if len(c.byTopic[t]) > 0 {
			out = append(out, t)
		}
	}
	return out
}

// Jurisdictions returns every jurisdiction code with at least one entry, sorted.
func (c *Catalog) Jurisdictions() []string {
	out := make([]string, 0, len(c.byJurisdiction))
	for code := range c.byJurisdiction {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return c.total }

func cloneEntries(in []Entry) []Entry {
	if len(in) == 0 {
		return []Entry{}
	}
	out := make([]Entry, len(in))
	for i, e := range in {
		e.Variant = e.Variant.Clone()
		out[i] = e
	}
	return out
}

//Personal.AI order the ending
