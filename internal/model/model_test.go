package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	tests := []struct {
		name     string
		model    interface{ TableName() string }
		expected string
	}{
		{"ExtensionInfo", &ExtensionInfo{}, "extension_infos"},
		{"Session", &Session{}, "sessions"},
		{"StarSighting", &StarSighting{}, "star_sightings"},
		{"StarState", &StarState{}, "star_states"},
		{"StarRemoval", &StarRemoval{}, "star_removals"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.model.TableName())
		})
	}
}

func TestDatabaseModelsHaveTableNames(t *testing.T) {
	assert.Len(t, DatabaseModels, 5)
	for _, m := range DatabaseModels {
		_, ok := m.(interface{ TableName() string })
		assert.True(t, ok, "%T has no TableName", m)
	}
}

func TestQueuedModelsAreComparable(t *testing.T) {
	a := StarState{StarID: 1, Tick: 5}
	b := StarState{StarID: 1, Tick: 5}
	assert.True(t, a == b)
	assert.False(t, StarSighting{StarID: 1} == StarSighting{StarID: 2})
	assert.True(t, StarRemoval{Reason: "despawned"} == StarRemoval{Reason: "despawned"})
}
