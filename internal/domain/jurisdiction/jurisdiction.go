// Package jurisdiction defines jurisdiction identities and the immutable
// registry every other engine component resolves codes against.
package jurisdiction

import (
	"sort"
	"strings"

	"github.com/turtacn/JurisCompare/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Tradition
// ─────────────────────────────────────────────────────────────────────────────

// Tradition tags the legal family a jurisdiction belongs to.
type Tradition string

const (
	TraditionCommonLaw Tradition = "common_law"
	TraditionCivilLaw  Tradition = "civil_law"
	TraditionMixed     Tradition = "mixed"
	TraditionReligious Tradition = "religious"
	TraditionCustomary Tradition = "customary"
)

// IsValid reports whether t is one of the known traditions.
func (t Tradition) IsValid() bool {
	switch t {
	case TraditionCommonLaw, TraditionCivilLaw, TraditionMixed, TraditionReligious, TraditionCustomary:
		return true
	}
	return false
}

func (t Tradition) String() string {
	return string(t)
}

// ParseTradition converts a string to a Tradition (case-insensitive).
func ParseTradition(s string) (Tradition, error) {
	t := Tradition(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", errors.New(errors.ErrCodeInvalidJurisdiction, "unknown legal tradition").WithDetail("tradition=" + s)
	}
	return t, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// ID
// ─────────────────────────────────────────────────────────────────────────────

// ID identifies a jurisdiction.  Values are immutable once registered.
type ID struct {
	Code      string    `json:"code" yaml:"code"`
	Name      string    `json:"name" yaml:"name"`
	Tradition Tradition `json:"tradition" yaml:"tradition"`
}

// NormalizeCode upper-cases and trims a jurisdiction code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// New validates and constructs an ID.
func New(code, name string, tradition Tradition) (ID, error) {
	c := NormalizeCode(code)
	if c == "" {
		return ID{}, errors.New(errors.ErrCodeInvalidJurisdiction, "jurisdiction code is required")
	}
	if strings.ContainsAny(c, " \t\n") {
		return ID{}, errors.New(errors.ErrCodeInvalidJurisdiction, "jurisdiction code must not contain whitespace").WithDetail("code=" + code)
	}
	if strings.TrimSpace(name) == "" {
		name = c
	}
	if !tradition.IsValid() {
		return ID{}, errors.New(errors.ErrCodeInvalidJurisdiction, "unknown legal tradition").
			WithDetailf("code=%s tradition=%s", c, tradition)
	}
	return ID{Code: c, Name: strings.TrimSpace(name), Tradition: tradition}, nil
}

// Unregistered returns a placeholder ID for a code the registry does not know.
func Unregistered(code string) ID {
	c := NormalizeCode(code)
	return ID{Code: c, Name: c}
}

// IsRegistered reports whether the ID carries a tradition, i.e. came from a registry.
func (id ID) IsRegistered() bool {
	return id.Tradition != ""
}

func (id ID) String() string {
	if id.Name == "" || id.Name == id.Code {
		return id.Code
	}
	return id.Code + " (" + id.Name + ")"
}

// UnknownError builds the UnknownJurisdiction error for code.
func UnknownError(code string) *errors.AppError {
	return errors.New(errors.ErrCodeUnknownJurisdiction, "unknown jurisdiction").WithDetail("jurisdiction=" + NormalizeCode(code))
}

// ─────────────────────────────────────────────────────────────────────────────
// Registry
// ─────────────────────────────────────────────────────────────────────────────

// Registry resolves jurisdiction codes and aliases.
type Registry interface {
	Get(code string) (ID, error)
	Lookup(code string) (ID, bool)
	Normalize(code string) string
	List() []ID
	Len() int
}

// InMemoryRegistry is an immutable Registry built once from a feed.
type InMemoryRegistry struct {
	byCode  map[string]ID
	aliases map[string]string
}

// NewRegistry builds a registry.  A repeated code fails with
// DuplicateJurisdiction; an alias pointing at an unregistered code or
// shadowing a real code fails with InvalidJurisdiction.
func NewRegistry(ids []ID, aliases map[string]string) (*InMemoryRegistry, error) {
	r := &InMemoryRegistry{
		byCode:  make(map[string]ID, len(ids)),
		aliases: make(map[string]string, len(aliases)),
	}
	for _, id := range ids {
		valid, err := New(id.Code, id.Name, id.Tradition)
		if err != nil {
			return nil, err
		}
		if _, dup := r.byCode[valid.Code]; dup {
			return nil, errors.New(errors.ErrCodeDuplicateJurisdiction, "duplicate jurisdiction").WithDetail("jurisdiction=" + valid.Code)
		}
		r.byCode[valid.Code] = valid
	}
	for alias, target := range aliases {
		a, t := NormalizeCode(alias), NormalizeCode(target)
		if _, ok := r.byCode[t]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidJurisdiction, "alias targets an unregistered jurisdiction").
				WithDetailf("alias=%s target=%s", a, t)
		}
		if _, clash := r.byCode[a]; clash {
			return nil, errors.New(errors.ErrCodeInvalidJurisdiction, "alias shadows a registered jurisdiction").
				WithDetail("alias=" + a)
		}
		r.aliases[a] = t
	}
	return r, nil
}

// Normalize resolves aliases and returns the canonical code.  Unknown codes
// are returned normalised but otherwise unchanged.
func (r *InMemoryRegistry) Normalize(code string) string {
	c := NormalizeCode(code)
	if target, ok := r.aliases[c]; ok {
		return target
	}
	return c
}

// Lookup returns the ID for code or alias.
func (r *InMemoryRegistry) Lookup(code string) (ID, bool) {
	id, ok := r.byCode[r.Normalize(code)]
	return id, ok
}

// Get is Lookup with an UnknownJurisdiction error.
func (r *InMemoryRegistry) Get(code string) (ID, error) {
	if id, ok := r.Lookup(code); ok {
		return id, nil
	}
	return ID{}, UnknownError(code)
}

// List returns every registered ID ordered by code.
func (r *InMemoryRegistry) List() []ID {
	out := make([]ID, 0, len(r.byCode))
	for _, id := range r.byCode {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Len returns the number of registered jurisdictions.
func (r *InMemoryRegistry) Len() int {
	return len(r.byCode)
}

// Aliases returns a copy of the alias table.
func (r *InMemoryRegistry) Aliases() map[string]string {
	out := make(map[string]string, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = v
	}
	return out
}

var _ Registry = (*InMemoryRegistry)(nil)

//Personal.AI order the ending
