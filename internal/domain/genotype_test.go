package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleGenotype_Predicates(t *testing.T) {
	tests := []struct {
		name    string
		gt      SampleGenotype
		het     bool
		homAlt  bool
		homRef  bool
		hasAlt  bool
		noCall  bool
		display string
	}{
		{"het", Het(), true, false, false, true, false, "0/1"},
		{"hom alt", HomAlt(), false, true, false, true, false, "1/1"},
		{"hom ref", HomRef(), false, false, true, false, false, "0/0"},
		{"no call", NoCall(), false, false, false, false, true, "./."},
		{"hemizygous alt", HemiAlt(), false, true, false, true, false, "1"},
		{"hemizygous ref", HemiRef(), false, false, true, false, false, "0"},
		{"alt plus other alt", NewSampleGenotype(ALT, OTHER_ALT), true, false, false, true, false, "1/2"},
		{"empty", NewSampleGenotype(), false, false, false, false, true, "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.het, tt.gt.IsHet(), "IsHet")
			assert.Equal(t, tt.homAlt, tt.gt.IsHomAlt(), "IsHomAlt")
			assert.Equal(t, tt.homRef, tt.gt.IsHomRef(), "IsHomRef")
			assert.Equal(t, tt.hasAlt, tt.gt.HasAlt(), "HasAlt")
			assert.Equal(t, tt.noCall, tt.gt.IsNoCall(), "IsNoCall")
			assert.Equal(t, tt.display, tt.gt.String())
		})
	}
}
