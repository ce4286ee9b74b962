package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWorkItemType(t *testing.T) {
	tests := []struct {
		input  string
		want   WorkItemType
		wantOK bool
	}{
		{"PBI", WorkItemTypePBI, true},
		{"pbi", WorkItemTypePBI, true},
		{"", WorkItemTypePBI, true},
		{"  Bug  ", WorkItemTypeBug, true},
		{"task", WorkItemTypeTask, true},
		{"FEATURE", WorkItemTypeFeature, true},
		{"Epic", WorkItemTypeEpic, true},
		{"user story", WorkItemTypeUserStory, true},
		{"Saga", "", false},
		{"Bugs", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseWorkItemType(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
