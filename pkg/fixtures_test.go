package claro

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type programFixture struct {
	Name   string            `yaml:"name"`
	Source string            `yaml:"source"`
	Values map[string]string `yaml:"values"`
	Errors []string          `yaml:"errors"`
}

func loadProgramFixtures(t *testing.T) []programFixture {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", "programs.yaml"))
	require.NoError(t, err)

	var fixtures []programFixture
	require.NoError(t, yaml.Unmarshal(data, &fixtures))
	require.NotEmpty(t, fixtures)

	return fixtures
}

func TestProgramFixtures(t *testing.T) {
	for _, fixture := range loadProgramFixtures(t) {
		t.Run(fixture.Name, func(t *testing.T) {
			res := NewRunner(nil).Run(fixture.Source)

			kinds := make([]string, 0, len(res.Errors))
			for _, rec := range res.Errors {
				kinds = append(kinds, rec.Type)
			}
			assert.Equal(t, fixture.Errors, orNil(kinds))

			assert.Len(t, res.Values, len(fixture.Values))
			for name, want := range fixture.Values {
				val, ok := res.Values[name]
				if !assert.True(t, ok, "missing value for %q", name) {
					continue
				}

				assert.Equal(t, want, val.String(), "value of %q", name)
			}
		})
	}
}

// orNil lets fixtures without an errors key compare equal to a run that
// produced none.
func orNil(kinds []string) []string {
	if len(kinds) == 0 {
		return nil
	}
	return kinds
}
