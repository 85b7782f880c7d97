package minio

import (
	"context"

	"github.com/turtacn/JurisCompare/internal/domain/caselaw"
	"github.com/turtacn/JurisCompare/internal/infrastructure/feed"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// FeedSource loads the rule and decision feeds from two objects.  The
// format of each follows the object key's extension.
type FeedSource struct {
	client       *Client
	rulesKey     string
	decisionsKey string
	logger       logging.Logger
}

// NewFeedSource creates a FeedSource.
func NewFeedSource(client *Client, rulesKey, decisionsKey string, logger logging.Logger) *FeedSource {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &FeedSource{
		client:       client,
		rulesKey:     rulesKey,
		decisionsKey: decisionsKey,
		logger:       logger.Named("feed.minio"),
	}
}

// LoadRules downloads and decodes the rules object.
func (s *FeedSource) LoadRules(ctx context.Context) (*feed.RuleFeed, error) {
	data, format, err := s.fetch(ctx, s.rulesKey)
	if err != nil {
		return nil, err
	}
	f, err := feed.DecodeRules(format, data)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "failed to load rule feed").WithDetail("key=" + s.rulesKey)
	}
	s.logger.Debug("rule feed loaded",
		logging.String("key", s.rulesKey),
		logging.Int("jurisdictions", len(f.Jurisdictions)),
		logging.Int("rules", len(f.Rules)))
	return f, nil
}

// LoadDecisions downloads, decodes and converts the decisions object.
func (s *FeedSource) LoadDecisions(ctx context.Context) ([]caselaw.DecisionParams, error) {
	data, format, err := s.fetch(ctx, s.decisionsKey)
	if err != nil {
		return nil, err
	}
	params, err := feed.DecodeDecisionParams(format, data)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "failed to load decision feed").WithDetail("key=" + s.decisionsKey)
	}
	s.logger.Debug("decision feed loaded", logging.String("key", s.decisionsKey), logging.Int("decisions", len(params)))
	return params, nil
}

// Publish uploads raw feed files under the configured keys.  A nil slice
// leaves that object untouched.  Both are validated before either is written.
func (s *FeedSource) Publish(ctx context.Context, rules, decisions []byte) error {
	if rules != nil {
		format, err := feed.FormatFromPath(s.rulesKey)
		if err != nil {
			return err
		}
		f, err := feed.DecodeRules(format, rules)
		if err != nil {
			return err
		}
		if _, _, err := f.Catalog(); err != nil {
			return err
		}
	}
	if decisions != nil {
		format, err := feed.FormatFromPath(s.decisionsKey)
		if err != nil {
			return err
		}
		params, err := feed.DecodeDecisionParams(format, decisions)
		if err != nil {
			return err
		}
		if _, err := caselaw.Build(params); err != nil {
			return err
		}
	}

	for _, obj := range []struct {
		key  string
		data []byte
	}{{s.rulesKey, rules}, {s.decisionsKey, decisions}} {
		if obj.data == nil {
			continue
		}
		if err := s.client.PutObject(ctx, obj.key, obj.data, contentType(obj.key)); err != nil {
			return err
		}
	}
	s.logger.Info("feed published", logging.Bool("rules", rules != nil), logging.Bool("decisions", decisions != nil))
	return nil
}

func (s *FeedSource) fetch(ctx context.Context, key string) ([]byte, feed.Format, error) {
	format, err := feed.FormatFromPath(key)
	if err != nil {
		return nil, "", err
	}
	data, err := s.client.GetObject(ctx, key)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeFeedUnavailable, "failed to fetch feed object").WithDetail("key=" + key)
	}
	return data, format, nil
}

func contentType(key string) string {
	if f, _ := feed.FormatFromPath(key); f == feed.FormatJSON {
		return "application/json"
	}
	return "application/yaml"
}

//Personal.AI order the ending
