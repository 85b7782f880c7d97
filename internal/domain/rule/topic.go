// Package rule holds the legal-topic taxonomy, the RuleVariant tagged union
// and the immutable per-jurisdiction rule catalog.
package rule

import (
	"strings"

	"github.com/turtacn/JurisCompare/pkg/errors"
)

// Category is the matter category a topic belongs to.  Choice-of-law weights
// and territorial rules are keyed by category.
type Category string

const (
	CategoryTort     Category = "tort"
	CategoryContract Category = "contract"
)

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	return c == CategoryTort || c == CategoryContract
}

func (c Category) String() string { return string(c) }

// ParseCategory parses a category name (case-insensitive).
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", errors.New(errors.ErrCodeBadRequest, "unknown matter category").WithDetail("category=" + s)
	}
	return c, nil
}

// Topic is a comparison axis.  The set is closed.
type Topic string

const (
	TopicComparativeNegligence  Topic = "comparative_negligence"
	TopicStatuteOfLimitations   Topic = "statute_of_limitations_tort"
	TopicPunitiveDamages        Topic = "punitive_damages"
	TopicNonEconomicDamagesCap  Topic = "non_economic_damages_cap"
	TopicStrictProductLiability Topic = "strict_product_liability"
	TopicContractConsideration  Topic = "contract_consideration"
	TopicGoodFaithDuty          Topic = "good_faith_duty"
	TopicLiquidatedDamagesCap   Topic = "liquidated_damages_cap"
)

type topicInfo struct {
	kind        Kind
	category    Category
	description string
}

var topicOrder = []Topic{
	TopicComparativeNegligence,
	TopicStatuteOfLimitations,
	TopicPunitiveDamages,
	TopicNonEconomicDamagesCap,
	TopicStrictProductLiability,
	TopicContractConsideration,
	TopicGoodFaithDuty,
	TopicLiquidatedDamagesCap,
}

var topicTable = map[Topic]topicInfo{
	TopicComparativeNegligence:  {KindThreshold, CategoryTort, "Plaintiff fault threshold barring recovery"},
	TopicStatuteOfLimitations:   {KindThreshold, CategoryTort, "Limitation period for personal-injury claims"},
	TopicPunitiveDamages:        {KindFlag, CategoryTort, "Availability of punitive or exemplary damages"},
	TopicNonEconomicDamagesCap:  {KindCappedDamages, CategoryTort, "Statutory cap on non-economic damages"},
	TopicStrictProductLiability: {KindFlag, CategoryTort, "Strict liability for defective products"},
	TopicContractConsideration:  {KindFlag, CategoryContract, "Consideration required for contract formation"},
	TopicGoodFaithDuty:          {KindFlag, CategoryContract, "General duty of good faith in performance"},
	TopicLiquidatedDamagesCap:   {KindCappedDamages, CategoryContract, "Limits on enforceable liquidated damages"},
}

// IsValid reports whether t is part of the closed topic set.
func (t Topic) IsValid() bool {
	_, ok := topicTable[t]
	return ok
}

func (t Topic) String() string { return string(t) }

// ExpectedKind returns the variant kind every rule on this topic must have.
func (t Topic) ExpectedKind() Kind { return topicTable[t].kind }

// Category returns the matter category of the topic.
func (t Topic) Category() Category { return topicTable[t].category }

// Description returns a one-line description of the topic.
func (t Topic) Description() string { return topicTable[t].description }

// ParseTopic parses a topic name (case-insensitive, "-" accepted for "_").
func ParseTopic(s string) (Topic, error) {
	t := Topic(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !t.IsValid() {
		return "", errors.New(errors.ErrCodeUnknownTopic, "unknown legal topic").WithDetail("topic=" + s)
	}
	return t, nil
}

// AllTopics returns every topic in declaration order.
func AllTopics() []Topic {
	out := make([]Topic, len(topicOrder))
	copy(out, topicOrder)
	return out
}

func topicRank(t Topic) int {
	for i, x := range topicOrder {
		if x == t {
			return i
		}
	}
	return len(topicOrder)
}

//Personal.AI order the ending
