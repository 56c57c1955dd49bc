package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopkg.in/yaml.v3"
)

func TestDefault_Validates(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.Len(t, s.Parameters, 9)
	assert.Equal(t, 0, s.Index(ParamInterestRate))
	assert.Equal(t, -1, s.Index("nope"))
}

func TestDefault_EconomicRelationships(t *testing.T) {
	s := Default()
	i := s.Index(ParamInterestRate)
	c := s.Index(ParamCapRate)
	v := s.Index(ParamVacancyRate)
	r := s.Index(ParamRentGrowthRate)

	// Rates and cap rates move together; vacancy and rent growth oppositely.
	assert.Positive(t, s.Correlation[i][c])
	assert.Negative(t, s.Correlation[v][r])
}

func TestLoad_RoundTrip(t *testing.T) {
	s := Default()
	b, err := yaml.Marshal(s)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, b, 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s.Version, loaded.Version)
	assert.Equal(t, s.Parameters, loaded.Parameters)
	assert.Equal(t, s.Correlation, loaded.Correlation)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate_RejectsAsymmetry(t *testing.T) {
	s := Default()
	s.Correlation[0][1] = 0.5 // breaks symmetry with [1][0]=0.6
	assert.Error(t, s.Validate())
}

func TestValidate_RejectsBadDiagonal(t *testing.T) {
	s := Default()
	s.Correlation[2][2] = 0.9
	assert.Error(t, s.Validate())
}

func TestWithMean_ClampsAndCopies(t *testing.T) {
	s := Default()
	s2 := s.WithMean(ParamVacancyRate, 0.9) // above max 0.5

	assert.InDelta(t, 0.5, s2.Spec(ParamVacancyRate).Mean, 1e-12)
	assert.InDelta(t, 0.05, s.Spec(ParamVacancyRate).Mean, 1e-12, "original untouched")
}
