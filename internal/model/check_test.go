package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/sendtovrc/internal/model"
)

func TestSummarizeChecks(t *testing.T) {
	tests := map[string]struct {
		results   []model.CheckResult
		expSum    model.CheckSummary
		expFailed bool
	}{
		"No results should be an empty summary.": {
			expSum: model.CheckSummary{},
		},
		"Warnings should not fail.": {
			results: []model.CheckResult{
				{ID: "a", Status: model.CheckStatusOK},
				{ID: "b", Status: model.CheckStatusWarning},
				{ID: "c", Status: model.CheckStatusWarning},
			},
			expSum: model.CheckSummary{OK: 1, Warnings: 2},
		},
		"Errors should fail.": {
			results: []model.CheckResult{
				{ID: "a", Status: model.CheckStatusError},
				{ID: "b", Status: model.CheckStatusOK},
			},
			expSum:    model.CheckSummary{OK: 1, Errors: 1},
			expFailed: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			s := model.SummarizeChecks(test.results)
			assert.Equal(t, test.expSum, s)
			assert.Equal(t, test.expFailed, s.Failed())
		})
	}
}
