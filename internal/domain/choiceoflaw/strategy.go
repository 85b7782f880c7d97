package choiceoflaw

import (
	"github.com/turtacn/JurisCompare/internal/domain/jurisdiction"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// Strategy is one choice-of-law doctrine.  Implementations are pure: the
// same pattern and forum always produce the same Result.
type Strategy interface {
	Approach() Approach
	Analyze(pattern FactPattern, forum string) (*Result, error)
}

// collectedAnalyzer is implemented by the built-in strategies so the
// Analyzer can collect factors once and record the collection step.
type collectedAnalyzer interface {
	analyzeCollected(c *collected) (*Result, error)
}

// forumRef is the resolved forum of one analysis.
type forumRef struct {
	code  string
	id    jurisdiction.ID
	known bool
}

func resolveForum(reg jurisdiction.Registry, forum string, c *collected) {
	code := reg.Normalize(forum)
	if code == "" {
		return
	}
	c.forum.code = code
	if id, ok := reg.Lookup(code); ok {
		c.forum.id = id
		c.forum.known = true
		return
	}
	c.exclude("forum", code)
}

func insufficientFacts(msg string, c *collected) *errors.AppError {
	return errors.New(errors.ErrCodeInsufficientFacts, msg).WithDetail("category=" + string(c.pattern.Category))
}

func lookupID(reg jurisdiction.Registry, code string) jurisdiction.ID {
	if id, ok := reg.Lookup(code); ok {
		return id
	}
	return jurisdiction.Unregistered(code)
}

//Personal.AI order the ending
