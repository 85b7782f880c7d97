package feed

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/JurisCompare/internal/domain/caselaw"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// Format is a feed serialisation.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	// FormatAuto picks JSON when the payload starts with '{' and YAML otherwise.
	FormatAuto Format = ""
)

// FormatFromPath returns the format implied by the extension of path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case "":
		return FormatAuto, nil
	}
	return "", errors.New(errors.ErrCodeFeedFormat, "unsupported feed file extension").WithDetail("path=" + path)
}

// Decode unmarshals data in the given format into v.  Unknown fields fail
// with FeedDecode.  An empty document leaves v untouched.
func Decode(format Format, data []byte, v interface{}) error {
	if format == FormatAuto {
		format = FormatYAML
		if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
			format = FormatJSON
		}
	}
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
			return errors.Wrap(err, errors.ErrCodeFeedDecode, "failed to decode yaml feed")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
			return errors.Wrap(err, errors.ErrCodeFeedDecode, "failed to decode json feed")
		}
	default:
		return errors.New(errors.ErrCodeFeedFormat, "unsupported feed format").WithDetail("format=" + string(format))
	}
	return nil
}

// DecodeRules decodes a rule feed.
func DecodeRules(format Format, data []byte) (*RuleFeed, error) {
	var f RuleFeed
	if err := Decode(format, data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// DecodeDecisions decodes a decision feed.
func DecodeDecisions(format Format, data []byte) ([]DecisionRecord, error) {
	var f DecisionFeed
	if err := Decode(format, data, &f); err != nil {
		return nil, err
	}
	return f.Decisions, nil
}

// DecodeDecisionParams decodes a decision feed and converts every record.
func DecodeDecisionParams(format Format, data []byte) ([]caselaw.DecisionParams, error) {
	var f DecisionFeed
	if err := Decode(format, data, &f); err != nil {
		return nil, err
	}
	return f.Params()
}

//Personal.AI order the ending
