package scoring

import (
	"reflect"
	"testing"
)

func TestMapTopic(t *testing.T) {
	m := NewTopicMapper(nil, TopicManagement, nil)

	tests := []struct {
		label string
		want  CanonicalTopic
	}{
		{label: "Products and Value Proposition", want: TopicProducts},
		{label: "environment setup", want: TopicProducts},
		{label: "System Architecture", want: TopicArchitecture},
		{label: "Emerging Trends and Lifecycle", want: TopicLifecycle},
		{label: "Widgets, Add-ons and Integrations", want: TopicWidgets},
		{label: "Upload and Migrate Assets", want: TopicAssets},
		{label: "Transformations", want: TopicTransformations},
		{label: "Media Library", want: TopicManagement},
		{label: "Users, Roles and Access Control", want: TopicAccess},
	}

	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			if got := m.MapTopic(tc.label); got != tc.want {
				t.Fatalf("MapTopic(%q) = %s, want %s", tc.label, got, tc.want)
			}
		})
	}
}

func TestMapTopic_FirstRuleWins(t *testing.T) {
	m := NewTopicMapper(nil, TopicManagement, nil)

	// Contains keywords for both Assets and Transformations; the Assets rule
	// is evaluated first.
	if got := m.MapTopic("Asset Transformations"); got != TopicAssets {
		t.Fatalf("MapTopic = %s, want %s", got, TopicAssets)
	}
}

func TestMapTopic_Fallback(t *testing.T) {
	m := NewTopicMapper(nil, TopicProducts, nil)

	if got := m.MapTopic("Quantum Entanglement"); got != TopicProducts {
		t.Fatalf("MapTopic fallback = %s, want %s", got, TopicProducts)
	}
}

func TestDetectCollisions(t *testing.T) {
	m := NewTopicMapper(nil, "", nil)

	tests := []struct {
		name     string
		mapped   []CanonicalTopic
		wantDups []CanonicalTopic
	}{
		{
			name:     "all distinct",
			mapped:   []CanonicalTopic{TopicProducts, TopicAssets, TopicAccess},
			wantDups: []CanonicalTopic{},
		},
		{
			name:     "one collision",
			mapped:   []CanonicalTopic{TopicAssets, TopicProducts, TopicAssets},
			wantDups: []CanonicalTopic{TopicAssets},
		},
		{
			name:     "multiple collisions keep first-seen order",
			mapped:   []CanonicalTopic{TopicAccess, TopicAssets, TopicAccess, TopicAssets, TopicAccess},
			wantDups: []CanonicalTopic{TopicAccess, TopicAssets},
		},
		{
			name:     "empty input",
			mapped:   nil,
			wantDups: []CanonicalTopic{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := m.DetectCollisions(tc.mapped)
			if got.HasDuplicates != (len(tc.wantDups) > 0) {
				t.Fatalf("HasDuplicates = %v, want %v", got.HasDuplicates, len(tc.wantDups) > 0)
			}
			if !reflect.DeepEqual(got.Duplicates, tc.wantDups) {
				t.Fatalf("Duplicates = %v, want %v", got.Duplicates, tc.wantDups)
			}
		})
	}
}

func TestMapRoundTrip_NoCollisionsForDistinctCanonicals(t *testing.T) {
	m := NewTopicMapper(nil, "", nil)

	labels := []string{"Architecture", "Transformations", "Widget Gallery"}
	mapped := make([]CanonicalTopic, 0, len(labels))
	for _, label := range labels {
		mapped = append(mapped, m.MapTopic(label))
	}

	if report := m.DetectCollisions(mapped); report.HasDuplicates {
		t.Fatalf("unexpected collisions: %v", report.Duplicates)
	}
}
