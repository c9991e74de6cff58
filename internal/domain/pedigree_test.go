package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trio(t *testing.T) *Pedigree {
	t.Helper()
	pedigree, err := NewPedigree(
		Individual{ID: "father", Sex: MALE, Status: UNAFFECTED},
		Individual{ID: "mother", Sex: FEMALE, Status: UNAFFECTED},
		Individual{ID: "proband", FatherID: "father", MotherID: "mother", Sex: FEMALE, Status: AFFECTED},
	)
	require.NoError(t, err)
	return pedigree
}

func TestNewPedigree_Validation(t *testing.T) {
	tests := []struct {
		name        string
		individuals []Individual
		wantErr     string
	}{
		{"empty", nil, "at least one individual"},
		{"missing id", []Individual{{Sex: MALE}}, "identifier"},
		{"duplicate id", []Individual{{ID: "a"}, {ID: "a"}}, "duplicate"},
		{"unknown parent", []Individual{{ID: "a", FatherID: "ghost"}}, "not in pedigree"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPedigree(tt.individuals...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPedigree_Membership(t *testing.T) {
	pedigree := trio(t)
	assert.Equal(t, 3, pedigree.Size())
	assert.True(t, pedigree.Contains("proband"))
	assert.False(t, pedigree.Contains("stranger"))

	affected := pedigree.Affected()
	require.Len(t, affected, 1)
	assert.Equal(t, "proband", affected[0].ID)

	assert.Len(t, pedigree.Unaffected(), 2)
}

func TestPedigree_UnaffectedParentsOfAffected(t *testing.T) {
	pedigree := trio(t)
	parents := pedigree.UnaffectedParentsOfAffected()
	require.Len(t, parents, 2)
	assert.Equal(t, "father", parents[0].ID)
	assert.Equal(t, "mother", parents[1].ID)
}

func TestSingleSamplePedigree(t *testing.T) {
	pedigree := SingleSamplePedigree("sample1")
	assert.Equal(t, 1, pedigree.Size())
	require.Len(t, pedigree.Affected(), 1)
	assert.Empty(t, pedigree.Unaffected())
}
