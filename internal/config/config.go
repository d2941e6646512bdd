package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	toml "github.com/pelletier/go-toml/v2"

	"todo/internal/render"
	"todo/internal/table"
	"todo/internal/todotxt"
)

const (
	DefaultConfigFileName = ".todo-cfg.txt"
	DefaultSourceName     = "todo.txt"
	ArchiveSuffix         = ".archive"
	EnvConfig             = "TODO_CONFIG"

	column = "Config"
)

type Keymap struct {
	Quit    string `toml:"quit"`
	Add     string `toml:"add"`
	Up      string `toml:"up"`
	Down    string `toml:"down"`
	Toggle  string `toml:"toggle"`
	Detail  string `toml:"detail"`
	Confirm string `toml:"confirm"`
	Cancel  string `toml:"cancel"`
}

type Config struct {
	Source  string         `toml:"source"`
	Archive string         `toml:"archive"`
	AutoID  bool           `toml:"auto_id"`
	Colors  render.Palette `toml:"style"`
	Keys    Keymap         `toml:"keys"`
}

// ResolveConfigPath picks the config file: the flag value, then
// $TODO_CONFIG, then ~/.todo-cfg.txt.
func ResolveConfigPath(flag string) (string, error) {
	if flag != "" {
		return expand(flag), nil
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return expand(env), nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultConfigFileName), nil
}

// Load reads the config at path. A missing file gives the defaults, and
// malformed entries are logged and skipped. Paths ending in .toml are TOML;
// anything else uses todo.txt lines such as "source path:~/todo.txt".
func Load(path string, logger *log.Logger) Config {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return loadTOML(path, logger)
	}

	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("cannot read config, using defaults", "path", path, "err", err)
		}
		return cfg
	}

	tbl := table.New(column)
	_ = tbl.AddColumn(column)
	for i, line := range strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		r, err := todotxt.Parse(line)
		if err != nil {
			logger.Warn("invalid config line, skipping", "path", path, "line", i+1, "err", err)
			continue
		}
		_ = tbl.AddRecord(r, column)
	}

	cfg.Source = lookupPath(tbl, "source", path, logger)
	cfg.Archive = lookupPath(tbl, "archive", path, logger)
	return cfg
}

func lookupPath(tbl *table.Table, name, path string, logger *log.Logger) string {
	r := tbl.FindByTitle(name, column)
	if r == nil {
		return ""
	}
	p, ok := r.Meta(todotxt.KeyPath)
	if !ok {
		logger.Warn("invalid `"+name+"` item in config, skipping", "table", tbl.Name(), "path", path, "line", r.String())
		return ""
	}
	return p
}

// loadTOML keeps the defaults for keys the file leaves out and writes a
// default file when none exists yet.
func loadTOML(path string, logger *log.Logger) Config {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			logger.Warn("cannot write default config", "path", path, "err", err)
		}
		return cfg
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("cannot read config, using defaults", "path", path, "err", err)
		return cfg
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		logger.Warn("invalid config, using defaults", "path", path, "err", err)
		return defaultConfig()
	}
	return cfg
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		Colors: render.DefaultPalette(),
		Keys: Keymap{
			Quit:    "q",
			Add:     "a",
			Up:      "k",
			Down:    "j",
			Toggle:  " ",
			Detail:  "enter",
			Confirm: "enter",
			Cancel:  "esc",
		},
	}
}

// SourcePath resolves the task file: the --file value, then ./todo.txt when
// it exists, then the configured source, then ~/todo.txt.
func (c Config) SourcePath(flagFile string) (string, error) {
	switch {
	case flagFile != "":
		return expand(flagFile), nil
	case exists(DefaultSourceName):
		return DefaultSourceName, nil
	case c.Source != "":
		return expand(c.Source), nil
	}
	return inHome(DefaultSourceName)
}

// ArchivePath resolves the archive file: next to an explicit --file, then
// ./todo.txt.archive when it or ./todo.txt exists, then the configured
// archive, then the configured source plus ".archive", then
// ~/todo.txt.archive.
func (c Config) ArchivePath(flagFile string) (string, error) {
	local := DefaultSourceName + ArchiveSuffix
	switch {
	case flagFile != "":
		return expand(flagFile) + ArchiveSuffix, nil
	case exists(local), exists(DefaultSourceName):
		return local, nil
	case c.Archive != "":
		return expand(c.Archive), nil
	case c.Source != "":
		return expand(c.Source) + ArchiveSuffix, nil
	}
	return inHome(local)
}

func inHome(name string) (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, name), nil
}

// expand resolves a leading ~/. Forms like ~user are left alone.
func expand(p string) string {
	if e, err := homedir.Expand(p); err == nil {
		return e
	}
	return p
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
