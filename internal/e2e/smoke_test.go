package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	_, stderr, err := runWardrobe(t, binaryPath, home,
		"entry", "add",
		"--mod", "Sit A",
		"--animation", "sit",
		"--pose", "2",
		"--category", "Seats",
	)
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err := runWardrobe(t, binaryPath, home, "entry", "list")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Sit A")

	stdout, stderr, err = runWardrobe(t, binaryPath, home, "status")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "mod service: unavailable")
	assert.Contains(t, stdout, "Seats")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "wardrobe-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/wardrobe")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build wardrobe binary: %s", string(output))
	return binaryPath
}

func runWardrobe(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"WARDROBE_PENUMBRA_URL=http://127.0.0.1:1",
		"WARDROBE_PENUMBRA_TIMEOUT=200ms",
		"WARDROBE_LOG_LEVEL=error",
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
