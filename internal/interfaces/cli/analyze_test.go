package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RingSense/internal/interfaces/cli"
)

const benzeneSDF = `benzene
  RingSense  2D

  6  6  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
  1  2  2  0  0  0  0
  2  3  1  0  0  0  0
  3  4  2  0  0  0  0
  4  5  1  0  0  0  0
  5  6  2  0  0  0  0
  6  1  1  0  0  0  0
M  END
$$$$
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "benzene.sdf")
	require.NoError(t, os.WriteFile(path, []byte(benzeneSDF), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyze_Table(t *testing.T) {
	path := writeFixture(t)

	out, err := runCommand(t, "--log-level", "error", "analyze", path)
	require.NoError(t, err)
	assert.Contains(t, out, "benzene")
	assert.Contains(t, out, "ok")
}

func TestAnalyze_JSON(t *testing.T) {
	path := writeFixture(t)

	out, err := runCommand(t, "--log-level", "error", "-o", "json", "analyze", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"aromatic_rings": 1`)
	assert.Contains(t, out, `"rings": 1`)
}

func TestAnalyze_MissingFile(t *testing.T) {
	_, err := runCommand(t, "--log-level", "error", "analyze",
		filepath.Join(t.TempDir(), "absent.sdf"))
	assert.Error(t, err)
}

func TestAnalyze_RequiresArgument(t *testing.T) {
	_, err := runCommand(t, "analyze")
	assert.Error(t, err)
}
