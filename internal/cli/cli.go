package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"todo/internal/config"
	"todo/internal/listing"
	"todo/internal/render"
	"todo/internal/session"
	"todo/internal/storage"
	"todo/internal/todotxt"
	"todo/internal/ui"
)

// Exit codes
const (
	ExitOK          = 0
	ExitUsage       = 2
	ExitNotFound    = 3
	ExitParse       = 4
	ExitPersistence = 5
	ExitInternal    = 10
)

type options struct {
	help        bool
	list        bool
	add         string
	complete    string
	project     string
	context     string
	file        string
	archive     bool
	config      string
	minPriority string
	maxPriority string
	output      string
	interactive bool
	noColor     bool
	verbose     bool
}

func newFlagSet(o *options, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("todo", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {}
	fs.SortFlags = false

	fs.BoolVarP(&o.help, "help", "h", false, "print this help message")
	fs.BoolVarP(&o.list, "list", "l", false, "list todos")
	fs.StringVarP(&o.add, "new", "n", "", "create a todo from the given text")
	fs.StringVarP(&o.complete, "complete", "c", "", "complete the todo with this title or id")
	fs.StringVar(&o.project, "project", "", "filter by project tag")
	fs.StringVar(&o.context, "context", "", "filter by context tag")
	fs.StringVarP(&o.file, "file", "f", "", "source file")
	fs.BoolVarP(&o.archive, "archive", "a", false, "archive completed todos")
	fs.StringVar(&o.config, "config", "", "config file")
	fs.StringVarP(&o.minPriority, "min-priority", "p", "", "only list todos at least this urgent")
	fs.StringVarP(&o.maxPriority, "max-priority", "P", "", "only list todos at most this urgent")
	fs.StringVarP(&o.output, "output", "o", "text", "listing format: text, json or yaml")
	fs.BoolVarP(&o.interactive, "interactive", "i", false, "browse the listing interactively")
	fs.BoolVar(&o.noColor, "no-color", false, "disable colors")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log debug output")
	return fs
}

func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	var o options
	fs := newFlagSet(&o, stderr)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(stderr, "todo:", err)
		fmt.Fprintln(stderr, "Run 'todo --help' for usage.")
		return ExitUsage
	}
	if o.help {
		printHelp(stdout, fs)
		return ExitOK
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "todo: unexpected argument %q\n", fs.Arg(0))
		return ExitUsage
	}

	filter, err := buildFilter(o)
	if err != nil {
		fmt.Fprintln(stderr, "todo:", err)
		return ExitUsage
	}
	format, err := render.ParseFormat(o.output)
	if err != nil {
		fmt.Fprintln(stderr, "todo:", err)
		return ExitUsage
	}

	level := log.InfoLevel
	if o.verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(stderr, log.Options{Prefix: "todo", Level: level})

	cfgPath, err := config.ResolveConfigPath(o.config)
	if err != nil {
		logger.Error("failed to get home directory", "err", err)
		return ExitInternal
	}
	cfg := config.Load(cfgPath, logger)
	logger.Debug("config loaded", "path", cfgPath)

	source, err := cfg.SourcePath(o.file)
	if err != nil {
		logger.Error("failed to resolve source file", "err", err)
		return ExitInternal
	}
	archivePath, err := cfg.ArchivePath(o.file)
	if err != nil {
		logger.Error("failed to resolve archive file", "err", err)
		return ExitInternal
	}

	sess, err := session.Open(session.Options{
		SourcePath:  source,
		ArchivePath: archivePath,
		AutoID:      cfg.AutoID,
		Logger:      logger,
	})
	if err != nil {
		return fail(logger, "failed to load todos", err)
	}

	action := false
	if o.add != "" {
		if _, err := sess.Add(o.add); err != nil {
			return fail(logger, "invalid todo", err)
		}
		action = true
	}
	if o.complete != "" {
		if _, err := sess.Complete(o.complete); err != nil {
			return fail(logger, "failed to find todo", err)
		}
		action = true
	}

	style := render.Plain()
	if !o.noColor && format == render.FormatText {
		style = render.NewStyle(cfg.Colors, lipgloss.NewRenderer(stdout))
	}

	if o.interactive {
		if err := ui.Run(sess, cfg.Keys, filter, style); err != nil {
			return fail(logger, "interactive session failed", err)
		}
	}

	if o.archive {
		kept, archived, err := sess.Archive()
		if err != nil {
			return fail(logger, "failed to archive todos", err)
		}
		logger.Info("archived todos", "archived", archived, "kept", kept, "archive", archivePath)
		return ExitOK
	}
	if err := sess.Save(); err != nil {
		return fail(logger, "failed to write todos", err)
	}

	if (o.list || !action) && !o.interactive {
		if err := render.Write(stdout, sess.List(filter), format, style, sess.Now()); err != nil {
			return fail(logger, "failed to print todos", err)
		}
	}
	return ExitOK
}

func buildFilter(o options) (listing.Filter, error) {
	f := listing.Filter{Project: o.project, Context: o.context}
	if o.minPriority != "" {
		p, err := todotxt.ParsePriority(o.minPriority)
		if err != nil {
			return f, fmt.Errorf("--min-priority: %w", err)
		}
		f.MinPriority = &p
	}
	if o.maxPriority != "" {
		p, err := todotxt.ParsePriority(o.maxPriority)
		if err != nil {
			return f, fmt.Errorf("--max-priority: %w", err)
		}
		f.MaxPriority = &p
	}
	return f, nil
}

func fail(logger *log.Logger, msg string, err error) int {
	logger.Error(msg, "err", err)
	return exitCode(err)
}

func exitCode(err error) int {
	var parseErr *todotxt.ParseError
	var persistErr *storage.PersistenceError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, session.ErrNotFound):
		return ExitNotFound
	case errors.As(err, &parseErr):
		return ExitParse
	case errors.As(err, &persistErr):
		return ExitPersistence
	}
	return ExitInternal
}

func printHelp(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w, `todo [options]

Manage a todo.txt task list. With no options, lists the todos.

Options:
%s
--complete matches the todo title (its text without key:value tags) first,
then falls back to a todo with that id: tag.

--file defaults to ./todo.txt when it exists, otherwise to the configured
source, otherwise to ~/todo.txt. The archive defaults to the source plus
.archive; an archive path ending in .db, .sqlite or .sqlite3 is a SQLite
database.

The config (default ~/.todo-cfg.txt, or $TODO_CONFIG) is in the todo.txt
format, using metadata:

  source path:<SOURCE-PATH> example:~/todo.txt
  archive path:<ARCHIVE-PATH> example:~/todo.archive.txt

A config path ending in .toml is read as TOML instead (source, archive,
auto_id, [style] and [keys]).
`, fs.FlagUsages())
}
