package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() { configFile = "" })
	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, dataDir string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "log:\n  level: error\ndata:\n  dir: " + dataDir + "\ndatabase:\n  sqlite_path: \"-\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestTiersCommand(t *testing.T) {
	out, err := runCLI(t, "", "tiers", "--config", writeConfig(t, t.TempDir()))
	require.NoError(t, err)
	assert.Contains(t, out, "VTI, BND, SPY")
	assert.Contains(t, out, "BITO, XBI, ARKK")
}

func TestAdviseCommand_FromCSV(t *testing.T) {
	dir := t.TempDir()
	csv := "Date,Close\n2024-01-02,100\n2024-01-03,101\n2024-01-04,100.5\n2024-01-05,102\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SPY.csv"), []byte(csv), 0o644))

	out, err := runCLI(t, "Low\nno\nno\n", "advise", "--config", writeConfig(t, dir))
	require.NoError(t, err)
	assert.Contains(t, out, "Best ETF for Low investors: SPY")
	assert.Contains(t, out, "Bye!")
}

func TestHistoryCommand_Disabled(t *testing.T) {
	out, err := runCLI(t, "", "history", "--config", writeConfig(t, t.TempDir()))
	require.NoError(t, err)
	assert.Contains(t, out, "No picks recorded yet.")
}
