package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dshills/keybot/internal/history"
	"github.com/dshills/keybot/internal/interpreter"
)

const testScript = `; demo
def main
  tap a 0 1ms
  tap b 1ms 1ms
end

def other
  type "hi" 1ms
end
`

// testCommand returns a bare command with captured output and resets the
// package-level flag variables when the test ends.
func testCommand(t *testing.T) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true

	saved := []any{configPath, logLevel, runMethod, runBackend, runHistory, checkMethod, checkFormat, historyLimit, historyPath}
	t.Cleanup(func() {
		configPath = saved[0].(string)
		logLevel = saved[1].(string)
		runMethod = saved[2].(string)
		runBackend = saved[3].(string)
		runHistory = saved[4].(string)
		checkMethod = saved[5].(string)
		checkFormat = saved[6].(string)
		historyLimit = saved[7].(int)
		historyPath = saved[8].(string)
	})

	configPath = writeFile(t, "config.toml", "[dispatch]\nbackend = \"log\"\n")

	var out, errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetContext(context.Background())
	return cmd, &out, &errOut
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunVersion(t *testing.T) {
	cmd, out, _ := testCommand(t)
	require.NoError(t, runVersion(cmd, nil))
	assert.Contains(t, out.String(), "keybot dev")
	assert.Contains(t, out.String(), "Go version:")
}

func TestRunTokens(t *testing.T) {
	cmd, out, _ := testCommand(t)
	script := writeFile(t, "demo"+interpreter.FileExtension, "def main ; go\n  tap \"x\"\nend")

	require.NoError(t, runTokens(cmd, []string{script}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "Identifier")
	assert.Contains(t, lines[0], `"def"`)
	assert.Contains(t, lines[2], "Comment")
	assert.Contains(t, lines[2], `"go"`)
	assert.Contains(t, lines[4], "String")
	assert.Contains(t, lines[4], ":2:")
}

func TestRunTokensUnclosedString(t *testing.T) {
	cmd, _, _ := testCommand(t)
	script := writeFile(t, "bad"+interpreter.FileExtension, "type \"oops\n")
	assert.Error(t, runTokens(cmd, []string{script}))
}

func TestRunCheckText(t *testing.T) {
	cmd, out, _ := testCommand(t)
	script := writeFile(t, "demo"+interpreter.FileExtension, testScript)

	checkFormat = "text"
	require.NoError(t, runCheck(cmd, []string{script}))
	assert.Contains(t, out.String(), "METHOD")
	assert.Contains(t, out.String(), "main")
	assert.Contains(t, out.String(), "other")

	out.Reset()
	checkMethod = "main"
	require.NoError(t, runCheck(cmd, []string{script}))
	assert.Contains(t, out.String(), "main: 4 events over 3ms")
	assert.Contains(t, out.String(), "B down")
}

func TestRunCheckYAML(t *testing.T) {
	cmd, out, _ := testCommand(t)
	script := writeFile(t, "demo"+interpreter.FileExtension, testScript)

	checkFormat = "yaml"
	checkMethod = ""
	require.NoError(t, runCheck(cmd, []string{script}))

	var doc struct {
		Method string           `yaml:"method"`
		Events []map[string]any `yaml:"events"`
	}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "main", doc.Method)
	assert.Len(t, doc.Events, 4)
}

func TestRunCheckErrors(t *testing.T) {
	cmd, _, _ := testCommand(t)

	checkFormat = "text"
	err := runCheck(cmd, []string{"demo.txt"})
	assert.ErrorIs(t, err, interpreter.ErrInvalidFile)

	script := writeFile(t, "demo"+interpreter.FileExtension, testScript)
	checkFormat = "xml"
	assert.Error(t, runCheck(cmd, []string{script}))

	checkFormat = "text"
	checkMethod = "nope"
	assert.ErrorIs(t, runCheck(cmd, []string{script}), interpreter.ErrMethodNotFound)
}

func TestRunRunAndHistory(t *testing.T) {
	cmd, out, errOut := testCommand(t)
	script := writeFile(t, "demo"+interpreter.FileExtension, testScript)
	db := filepath.Join(t.TempDir(), "history.db")

	runMethod = "main"
	cmd.Flags().StringVar(&runHistory, "history", "", "")
	require.NoError(t, cmd.Flags().Set("history", db))

	require.NoError(t, runRun(cmd, []string{script}))
	assert.Contains(t, out.String(), "ok main: 4 events")
	assert.Contains(t, errOut.String(), "A down")
	assert.Contains(t, errOut.String(), "B up")

	store, err := history.Open(db)
	require.NoError(t, err)
	runs, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.Len(t, runs, 1)
	assert.Equal(t, "log", runs[0].Backend)

	hcmd, hout, _ := testCommand(t)
	historyPath = db
	historyLimit = 5
	require.NoError(t, runHistoryList(hcmd, nil))
	assert.Contains(t, hout.String(), "STATUS")
	assert.Contains(t, hout.String(), script)
}

func TestRunRunMissingMethod(t *testing.T) {
	cmd, _, _ := testCommand(t)
	script := writeFile(t, "demo"+interpreter.FileExtension, testScript)

	runMethod = "absent"
	err := runRun(cmd, []string{script})
	assert.ErrorIs(t, err, interpreter.ErrMethodNotFound)
}

func TestHistoryNotConfigured(t *testing.T) {
	cmd, _, _ := testCommand(t)
	historyPath = ""
	err := runHistoryList(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no history database")
}

func TestRunRequiresScriptArgument(t *testing.T) {
	assert.Error(t, runCmd.Args(runCmd, nil))
	assert.Error(t, checkCmd.Args(checkCmd, []string{"a", "b"}))
	assert.NoError(t, tokensCmd.Args(tokensCmd, []string{"a"}))
}

func TestRunRecordRejectsExtension(t *testing.T) {
	cmd, _, _ := testCommand(t)
	err := runRecord(cmd, []string{"out.txt"})
	assert.ErrorIs(t, err, interpreter.ErrInvalidFile)
}
