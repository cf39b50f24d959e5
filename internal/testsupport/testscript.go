// Package testsupport holds helpers shared by the td testscript suites.
package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/amonks/td/internal/todoenv"
)

var (
	buildOnce sync.Once
	tdPath    string
	buildErr  error
)

// BuildTD builds the td binary once and returns its path.
func BuildTD(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "td-bin-")
		if err != nil {
			buildErr = err
			return
		}

		tdPath = filepath.Join(binDir, "td")
		cmd := exec.Command("go", "build", "-o", tdPath, "./cmd/td")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build td: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return tdPath
}

// SetupScriptEnv points $TD at the built binary and gives each script its
// own home and application directory. Provider variables are cleared so
// scripts start from the default backend.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("TD", BuildTD(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	appDir := filepath.Join(homeDir, ".todo-cli")
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	env.Setenv(todoenv.HomeEnvVar, appDir)
	env.Setenv("NO_COLOR", "1")
	env.Setenv("EDITOR", "false")
	for _, name := range []string{
		todoenv.ProviderTypeEnvVar,
		todoenv.JSONFilePathEnvVar,
		todoenv.MarkdownFilePathEnvVar,
		todoenv.SQLiteFilePathEnvVar,
		todoenv.LogLevelEnvVar,
		todoenv.LogFormatEnvVar,
	} {
		env.Setenv(name, "")
	}
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdTodoID finds a todo by title in `td list --json` output and stores
// its ID in an env var.
func CmdTodoID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("todoid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: todoid FILE TITLE VAR")
	}

	var items []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	data := ts.ReadFile(args[0])
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		ts.Fatalf("parse todo list: %v", err)
	}

	title := args[1]
	for _, item := range items {
		if item.Title == title {
			ts.Setenv(args[2], item.ID)
			return
		}
	}

	ts.Fatalf("todo with title %q not found", title)
}

// Commands returns the custom testscript commands.
func Commands() map[string]func(ts *testscript.TestScript, neg bool, args []string) {
	return map[string]func(ts *testscript.TestScript, neg bool, args []string){
		"envset": CmdEnvSet,
		"todoid": CmdTodoID,
	}
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found")
		}
		dir = parent
	}
}
