package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostSelector_Kind_Precedence(t *testing.T) {
	tests := []struct {
		name     string
		selector HostSelector
		expected SelectorKind
	}{
		{
			name:     "hosts win over everything",
			selector: HostSelector{Hosts: []string{"esx01"}, Clusters: []string{"c1"}, Datacenters: []string{"dc1"}, All: true},
			expected: SelectorHosts,
		},
		{
			name:     "clusters win over datacenters and all",
			selector: HostSelector{Clusters: []string{"c1"}, Datacenters: []string{"dc1"}, All: true},
			expected: SelectorClusters,
		},
		{
			name:     "datacenters win over all",
			selector: HostSelector{Datacenters: []string{"dc1"}, All: true},
			expected: SelectorDatacenters,
		},
		{
			name:     "explicit all",
			selector: HostSelector{All: true},
			expected: SelectorAll,
		},
		{
			name:     "empty selector means all",
			selector: HostSelector{},
			expected: SelectorAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.selector.Kind())
		})
	}
}

func TestHostSelector_Names(t *testing.T) {
	t.Run("trims whitespace and drops empty names", func(t *testing.T) {
		s := HostSelector{Hosts: []string{" esx01 ", "", "esx02", "   "}}
		assert.Equal(t, []string{"esx01", "esx02"}, s.Names())
	})

	t.Run("returns the active variant only", func(t *testing.T) {
		s := HostSelector{Clusters: []string{"prod"}, Datacenters: []string{"dc1"}}
		assert.Equal(t, []string{"prod"}, s.Names())
	})

	t.Run("nil for the all scope", func(t *testing.T) {
		s := HostSelector{All: true}
		assert.Nil(t, s.Names())
	})
}

func TestHostSelector_IsEmpty(t *testing.T) {
	assert.True(t, (&HostSelector{}).IsEmpty())
	assert.False(t, (&HostSelector{All: true}).IsEmpty())
	assert.False(t, (&HostSelector{Hosts: []string{"esx01"}}).IsEmpty())
}
