// Package config tests configuration loading.
package config

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

var tasklistEnv = []string{
	"TASKLIST_STORE_BACKEND",
	"TASKLIST_STORE",
	"TASKLIST_STORE_KEY",
	"TASKLIST_LOG_LEVEL",
	"TASKLIST_LOG_FORMAT",
	"TASKLIST_LOG_TIMESTAMPS",
	"TASKLIST_LOG_CALLER",
	"TASKLIST_LOG_FILE",
}

// isolate points HOME and the OS config dir at temp dirs, clears TASKLIST_*
// and changes into an empty project dir. It returns home and project.
func isolate(t *testing.T) (string, string) {
	t.Helper()
	home := t.TempDir()
	project := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))
	t.Setenv("APPDATA", filepath.Join(home, "appdata"))
	for _, name := range tasklistEnv {
		t.Setenv(name, "")
	}
	t.Chdir(project)
	return home, project
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("tasklist", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.StoreBackend != DefaultStoreBackend {
		t.Errorf("StoreBackend: got %q, want %q", cfg.StoreBackend, DefaultStoreBackend)
	}
	if cfg.StoreKey != "tasks" {
		t.Errorf("StoreKey: got %q, want tasks", cfg.StoreKey)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.LogFormat != DefaultLogFormat {
		t.Errorf("LogFormat: got %q, want %q", cfg.LogFormat, DefaultLogFormat)
	}
}

func TestLoadDefaults(t *testing.T) {
	home, project := isolate(t)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	wantStore := filepath.Join(home, ".tasklist", "storage.json")
	if cfg.StorePath != wantStore {
		t.Errorf("StorePath: got %q, want %q", cfg.StorePath, wantStore)
	}
	if cfg.LogFile != "" {
		t.Errorf("LogFile: got %q, want empty", cfg.LogFile)
	}
	if len(cfg.Files) != 0 {
		t.Errorf("Files: got %v, want none", cfg.Files)
	}
	if resolved, _ := filepath.EvalSymlinks(cfg.WorkDir); resolved != mustEval(t, project) {
		t.Errorf("WorkDir: got %q, want %q", cfg.WorkDir, project)
	}
}

func mustEval(t *testing.T, p string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		t.Fatal(err)
	}
	return resolved
}

func TestLoadSQLiteDefaultPath(t *testing.T) {
	home, _ := isolate(t)

	cfg, err := Load(newFlagSet(), []string{"--backend", "sqlite"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := filepath.Join(home, ".tasklist", "storage.db")
	if cfg.StorePath != want {
		t.Errorf("StorePath: got %q, want %q", cfg.StorePath, want)
	}
}

func TestLoadMemoryBackendHasNoPath(t *testing.T) {
	isolate(t)

	cfg, err := Load(newFlagSet(), []string{"--backend", "memory"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StorePath != "" {
		t.Errorf("StorePath: got %q, want empty", cfg.StorePath)
	}
}

func TestLoadPrecedence(t *testing.T) {
	home, project := isolate(t)

	writeFile(t, filepath.Join(home, ".tasklist", "tasklist.toml"), `
store_key = "user"
log_level = "info"
log_format = "logfmt"
store_path = "user.json"
`)
	writeFile(t, filepath.Join(project, "tasklist.toml"), `
store_key = "project"
log_level = "error"
`)

	t.Run("project file overrides user file", func(t *testing.T) {
		cfg, err := Load(newFlagSet(), nil)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.StoreKey != "project" {
			t.Errorf("StoreKey: got %q, want project", cfg.StoreKey)
		}
		if cfg.LogLevel != "error" {
			t.Errorf("LogLevel: got %q, want error", cfg.LogLevel)
		}
		if cfg.LogFormat != "logfmt" {
			t.Errorf("LogFormat: got %q, want logfmt from user file", cfg.LogFormat)
		}
		if len(cfg.Files) != 2 {
			t.Errorf("Files: got %v, want user and project", cfg.Files)
		}
	})

	t.Run("env overrides files", func(t *testing.T) {
		t.Setenv("TASKLIST_STORE_KEY", "env")
		t.Setenv("TASKLIST_LOG_TIMESTAMPS", "yes")
		cfg, err := Load(newFlagSet(), nil)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.StoreKey != "env" {
			t.Errorf("StoreKey: got %q, want env", cfg.StoreKey)
		}
		if !cfg.LogTimestamps {
			t.Error("LogTimestamps: got false, want true")
		}
	})

	t.Run("flags override env", func(t *testing.T) {
		t.Setenv("TASKLIST_STORE_KEY", "env")
		fs := newFlagSet()
		cfg, err := Load(fs, []string{"--key", "flag", "list"})
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.StoreKey != "flag" {
			t.Errorf("StoreKey: got %q, want flag", cfg.StoreKey)
		}
		if got := fs.Args(); len(got) != 1 || got[0] != "list" {
			t.Errorf("remaining args: got %v, want [list]", got)
		}
	})

	t.Run("relative store path resolves against working dir", func(t *testing.T) {
		cfg, err := Load(newFlagSet(), nil)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if filepath.Base(cfg.StorePath) != "user.json" || !filepath.IsAbs(cfg.StorePath) {
			t.Errorf("StorePath: got %q, want absolute user.json", cfg.StorePath)
		}
	})
}

func TestLoadDotfileProjectConfig(t *testing.T) {
	_, project := isolate(t)
	writeFile(t, filepath.Join(project, ".tasklist.toml"), `store_key = "dot"`)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StoreKey != "dot" {
		t.Errorf("StoreKey: got %q, want dot", cfg.StoreKey)
	}
}

func TestLoadXDGUserConfig(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup applies to linux")
	}
	home, _ := isolate(t)
	writeFile(t, filepath.Join(home, "xdg", "tasklist", "tasklist.toml"), `store_key = "xdg"`)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StoreKey != "xdg" {
		t.Errorf("StoreKey: got %q, want xdg", cfg.StoreKey)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		args    []string
		wantErr string
	}{
		{name: "invalid toml", file: "store_key = ", wantErr: "loading project config file"},
		{name: "unknown key", file: `colour = "red"`, wantErr: "unknown keys: colour"},
		{name: "unknown backend", args: []string{"--backend", "redis"}, wantErr: "store_backend"},
		{name: "empty key", args: []string{"--key", " "}, wantErr: "store_key"},
		{name: "bad log level", args: []string{"--log-level", "loud"}, wantErr: "log_level"},
		{name: "bad log format", args: []string{"--log-format", "xml"}, wantErr: "log_format"},
		{name: "unknown flag", args: []string{"--nope"}, wantErr: "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, project := isolate(t)
			if tt.file != "" {
				writeFile(t, filepath.Join(project, "tasklist.toml"), tt.file)
			}
			_, err := Load(newFlagSet(), tt.args)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadFlagErrorIsTagged(t *testing.T) {
	isolate(t)
	_, err := Load(newFlagSet(), []string{"--nope"})
	if !errors.Is(err, ErrInvalidFlags) {
		t.Fatalf("expected ErrInvalidFlags, got %v", err)
	}
}

func TestLoadNormalizesCase(t *testing.T) {
	isolate(t)
	cfg, err := Load(newFlagSet(), []string{"--backend", "SQLite", "--log-level", "DEBUG", "--log-format", "JSON"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StoreBackend != "sqlite" || cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("got backend=%q level=%q format=%q", cfg.StoreBackend, cfg.LogLevel, cfg.LogFormat)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := isolate(t)
	t.Setenv("TASKLIST_TEST_DIR", "/srv/tasks")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/x.json", filepath.Join(home, "x.json")},
		{"$TASKLIST_TEST_DIR/x.json", "/srv/tasks/x.json"},
		{"plain.json", "plain.json"},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStoreOptions(t *testing.T) {
	cfg := &Config{StoreBackend: "sqlite", StorePath: "/tmp/s.db", StoreKey: "work"}
	opts := cfg.StoreOptions()
	if string(opts.Backend) != "sqlite" || opts.Path != "/tmp/s.db" || opts.Key != "work" {
		t.Errorf("StoreOptions: got %+v", opts)
	}
}

func TestWriteTOMLRoundTrip(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.StorePath = "/tmp/storage.json"
	cfg.Files = []string{"ignored.toml"}

	var buf bytes.Buffer
	if err := cfg.WriteTOML(&buf); err != nil {
		t.Fatalf("WriteTOML failed: %v", err)
	}
	if strings.Contains(buf.String(), "ignored.toml") {
		t.Errorf("computed fields must not be encoded:\n%s", buf.String())
	}

	var decoded Config
	if _, err := toml.Decode(buf.String(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.StorePath != cfg.StorePath || decoded.StoreKey != cfg.StoreKey {
		t.Errorf("decoded: got %+v", decoded)
	}
}

func TestExampleConfigParses(t *testing.T) {
	var cfg Config
	md, err := toml.Decode(ExampleConfig(), &cfg)
	if err != nil {
		t.Fatalf("example config does not parse: %v", err)
	}
	if len(md.Undecoded()) != 0 {
		t.Errorf("example config has unknown keys: %v", md.Undecoded())
	}
	if cfg.StoreKey != "tasks" {
		t.Errorf("StoreKey: got %q, want tasks", cfg.StoreKey)
	}
}
