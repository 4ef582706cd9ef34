package configpaths_test

import (
	"testing"

	"github.com/Alia5/gohidpp/internal/configpaths"
	"github.com/stretchr/testify/assert"
)

func TestFamilyTableCandidatesPutsExplicitPathFirst(t *testing.T) {
	candidates := configpaths.FamilyTableCandidates("/tmp/explicit/families.yaml")
	assert.Equal(t, "/tmp/explicit/families.yaml", candidates[0])
	assert.Greater(t, len(candidates), 1)
}

func TestFamilyTableCandidatesWithoutExplicitPath(t *testing.T) {
	candidates := configpaths.FamilyTableCandidates("")
	for _, c := range candidates {
		assert.NotEmpty(t, c)
	}
}
