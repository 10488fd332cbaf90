package scoring

import (
	"strings"

	"go.uber.org/zap"

	"certquiz/monitoring"
)

// CanonicalTopic is one of the fixed taxonomy labels every raw topic string
// is reported under.
type CanonicalTopic string

const (
	TopicProducts        CanonicalTopic = "Products"
	TopicArchitecture    CanonicalTopic = "Architecture"
	TopicLifecycle       CanonicalTopic = "Lifecycle"
	TopicWidgets         CanonicalTopic = "Widgets"
	TopicAssets          CanonicalTopic = "Assets"
	TopicTransformations CanonicalTopic = "Transformations"
	TopicManagement      CanonicalTopic = "Management"
	TopicAccess          CanonicalTopic = "Access"
)

// TopicRule binds a group of keyword fragments to one canonical topic.
type TopicRule struct {
	Topic    CanonicalTopic
	Keywords []string
}

// DefaultTopicRules is the certification taxonomy. Rules are checked in
// order and the first keyword hit wins, so earlier rules take priority over
// later ones when a label contains keywords from both.
var DefaultTopicRules = []TopicRule{
	{Topic: TopicProducts, Keywords: []string{"Products", "Value", "Environment"}},
	{Topic: TopicArchitecture, Keywords: []string{"Architecture"}},
	{Topic: TopicLifecycle, Keywords: []string{"Lifecycle", "Emerging"}},
	{Topic: TopicWidgets, Keywords: []string{"Widget", "Add-on", "Integration"}},
	{Topic: TopicAssets, Keywords: []string{"Upload", "Migrate", "Asset"}},
	{Topic: TopicTransformations, Keywords: []string{"Transform"}},
	{Topic: TopicManagement, Keywords: []string{"Media", "Management"}},
	{Topic: TopicAccess, Keywords: []string{"User", "Role", "Access", "Control"}},
}

// TopicMapper maps free-form topic labels onto the canonical taxonomy.
type TopicMapper struct {
	rules    []TopicRule
	fallback CanonicalTopic
	log      *zap.Logger
}

func NewTopicMapper(rules []TopicRule, fallback CanonicalTopic, log *zap.Logger) *TopicMapper {
	if len(rules) == 0 {
		rules = DefaultTopicRules
	}
	if fallback == "" {
		fallback = TopicManagement
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TopicMapper{
		rules:    rules,
		fallback: fallback,
		log:      log,
	}
}

// MapTopic returns the canonical topic for a raw label using case-insensitive
// keyword containment. Labels matching no rule map to the configured fallback
// and are logged so data quality can be followed up.
func (m *TopicMapper) MapTopic(label string) CanonicalTopic {
	lower := strings.ToLower(label)
	for _, rule := range m.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				return rule.Topic
			}
		}
	}
	monitoring.TopicFallbacks.Inc()
	m.log.Warn("topic label matched no taxonomy rule, using fallback",
		zap.String("label", label),
		zap.String("fallback", string(m.fallback)))
	return m.fallback
}

// CollisionReport lists canonical topics that more than one raw label mapped
// onto within a batch.
type CollisionReport struct {
	HasDuplicates bool             `json:"has_duplicates"`
	Duplicates    []CanonicalTopic `json:"duplicates"`
}

// DetectCollisions reports which canonical values occur more than once in a
// batch of mapped labels. A collision means two distinct raw topics collapsed
// into one reporting bucket; that is expected, not an error, but callers may
// want to know for reporting accuracy.
func (m *TopicMapper) DetectCollisions(mapped []CanonicalTopic) CollisionReport {
	counts := make(map[CanonicalTopic]int, len(mapped))
	order := make([]CanonicalTopic, 0, len(mapped))
	for _, topic := range mapped {
		if counts[topic] == 0 {
			order = append(order, topic)
		}
		counts[topic]++
	}

	duplicates := []CanonicalTopic{}
	for _, topic := range order {
		if counts[topic] > 1 {
			duplicates = append(duplicates, topic)
		}
	}
	return CollisionReport{
		HasDuplicates: len(duplicates) > 0,
		Duplicates:    duplicates,
	}
}
