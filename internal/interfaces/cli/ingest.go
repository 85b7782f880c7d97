package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/JurisCompare/internal/domain/caselaw"
	"github.com/turtacn/JurisCompare/internal/infrastructure/feed"
	"github.com/turtacn/JurisCompare/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// eventSource identifies jurisctl on published envelopes.
const eventSource = "jurisctl"

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Publish a validated feed file to the ingest topics",
		Long: "ingest validates a rule or decision feed locally and publishes it to the\n" +
			"configured Kafka ingest topic.  The worker persists it and triggers a\n" +
			"snapshot rebuild on every API server.",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "rules FILE",
			Short: "Publish a rule feed",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cc, err := GetCLIContext(cmd)
				if err != nil {
					return err
				}
				rf, err := readRuleFeed(args[0])
				if err != nil {
					return err
				}
				return publishIngest(cmd, kafka.EventRulesIngested, cc.Config.Kafka.RulesTopic, "rules", rf,
					fmt.Sprintf("published %d rules across %d jurisdictions", len(rf.Rules), len(rf.Jurisdictions)))
			},
		},
		&cobra.Command{
			Use:   "decisions FILE",
			Short: "Publish a decision feed",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cc, err := GetCLIContext(cmd)
				if err != nil {
					return err
				}
				df, err := readDecisionFeed(args[0])
				if err != nil {
					return err
				}
				return publishIngest(cmd, kafka.EventDecisionsIngested, cc.Config.Kafka.DecisionsTopic, "decisions", df,
					fmt.Sprintf("published %d decisions", len(df.Decisions)))
			},
		},
	)
	return cmd
}

func publishIngest(cmd *cobra.Command, eventType, topic, key string, payload interface{}, done string) error {
	cc, ctx, cancel, err := commandContext(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	if !cc.Config.Kafka.Enabled {
		return errors.New(errors.ErrCodeConfigInvalid, "kafka is not enabled").WithDetail("set kafka.enabled and kafka.brokers")
	}
	env, err := kafka.NewEventEnvelope(eventType, eventSource, payload)
	if err != nil {
		return err
	}
	pub, err := cc.deps.NewPublisher(cc)
	if err != nil {
		return err
	}
	defer pub.Close()

	if err := pub.PublishEvent(ctx, topic, key, env); err != nil {
		return err
	}
	PrintSuccess(cmd, fmt.Sprintf("%s (event %s on %s)", done, env.EventID, topic))
	return nil
}

// readRuleFeed decodes path and checks that it builds a catalog.
func readRuleFeed(path string) (*feed.RuleFeed, error) {
	data, format, err := readFeedFile(path)
	if err != nil {
		return nil, err
	}
	rf, err := feed.DecodeRules(format, data)
	if err != nil {
		return nil, err
	}
	if _, _, err := rf.Catalog(); err != nil {
		return nil, err
	}
	return rf, nil
}

// readDecisionFeed decodes path and checks that every decision indexes.
func readDecisionFeed(path string) (*feed.DecisionFeed, error) {
	data, format, err := readFeedFile(path)
	if err != nil {
		return nil, err
	}
	records, err := feed.DecodeDecisions(format, data)
	if err != nil {
		return nil, err
	}
	df := &feed.DecisionFeed{Decisions: records}
	params, err := df.Params()
	if err != nil {
		return nil, err
	}
	if _, err := caselaw.Build(params); err != nil {
		return nil, err
	}
	return df, nil
}

func readFeedFile(path string) ([]byte, feed.Format, error) {
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

func newFeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Manage the object-storage feed",
	}

	var rulesFile, decisionsFile string
	push := &cobra.Command{
		Use:   "push",
		Short: "Validate and upload the rule and decision feeds to object storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			if rulesFile == "" {
				rulesFile = cc.Config.Feed.RulesPath
			}
			if decisionsFile == "" {
				decisionsFile = cc.Config.Feed.DecisionsPath
			}
			if rulesFile == "" || decisionsFile == "" {
				return errors.New(errors.ErrCodeBadRequest, "both a rules file and a decisions file are required")
			}
			rules, _, err := readFeedFile(rulesFile)
			if err != nil {
				return err
			}
			decisions, _, err := readFeedFile(decisionsFile)
			if err != nil {
				return err
			}

			pub, err := cc.deps.NewFeedPublisher(ctx, cc)
			if err != nil {
				return err
			}
			if err := pub.Publish(ctx, rules, decisions); err != nil {
				return err
			}
			PrintSuccess(cmd, fmt.Sprintf("uploaded %s and %s to bucket %s", rulesFile, decisionsFile, cc.Config.MinIO.Bucket))
			return nil
		},
	}
	push.Flags().StringVar(&rulesFile, "rules-file", "", "rule feed to upload (default: feed.rules_path)")
	push.Flags().StringVar(&decisionsFile, "decisions-file", "", "decision feed to upload (default: feed.decisions_path)")
	cmd.AddCommand(push)
	return cmd
}

//Personal.AI order the ending
