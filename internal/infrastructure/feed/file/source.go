// Package file reads the rule and decision feeds from local YAML or JSON
// files and watches them for changes.
package file

import (
	"context"
	"os"

	"github.com/turtacn/JurisCompare/internal/domain/caselaw"
	"github.com/turtacn/JurisCompare/internal/infrastructure/feed"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// Source loads feeds from a rules file and a decisions file.  The format of
// each file follows its extension.
type Source struct {
	rulesPath     string
	decisionsPath string
	logger        logging.Logger
}

// NewSource creates a Source.  Either path may be empty, in which case the
// corresponding feed is empty.
func NewSource(rulesPath, decisionsPath string, logger logging.Logger) *Source {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Source{rulesPath: rulesPath, decisionsPath: decisionsPath, logger: logger.Named("feed.file")}
}

// Paths returns the configured non-empty paths.
func (s *Source) Paths() []string {
	var out []string
	for _, p := range []string{s.rulesPath, s.decisionsPath} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadRules reads and decodes the rules file.
func (s *Source) LoadRules(ctx context.Context) (*feed.RuleFeed, error) {
	if s.rulesPath == "" {
		return &feed.RuleFeed{}, nil
	}
	data, format, err := s.read(ctx, s.rulesPath)
	if err != nil {
		return nil, err
	}
	f, err := feed.DecodeRules(format, data)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "failed to load rule feed").WithDetail("path=" + s.rulesPath)
	}
	s.logger.Debug("rule feed loaded",
		logging.String("path", s.rulesPath),
		logging.Int("jurisdictions", len(f.Jurisdictions)),
		logging.Int("rules", len(f.Rules)))
	return f, nil
}

// LoadDecisions reads, decodes and converts the decisions file.
func (s *Source) LoadDecisions(ctx context.Context) ([]caselaw.DecisionParams, error) {
	if s.decisionsPath == "" {
		return nil, nil
	}
	data, format, err := s.read(ctx, s.decisionsPath)
	if err != nil {
		return nil, err
	}
	params, err := feed.DecodeDecisionParams(format, data)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "failed to load decision feed").WithDetail("path=" + s.decisionsPath)
	}
	s.logger.Debug("decision feed loaded", logging.String("path", s.decisionsPath), logging.Int("decisions", len(params)))
	return params, nil
}

func (s *Source) read(ctx context.Context, path string) ([]byte, feed.Format, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeTimeout, "feed load cancelled")
	}
	format, err := feed.FormatFromPath(path)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeFeedUnavailable, "failed to read feed file").WithDetail("path=" + path)
	}
	return data, format, nil
}

//Personal.AI order the ending
