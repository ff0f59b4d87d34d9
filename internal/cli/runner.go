package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/okatav/dodo/internal/config"
	"github.com/okatav/dodo/internal/model"
	"github.com/okatav/dodo/internal/remote"
	"github.com/okatav/dodo/internal/store/memstore"
	"github.com/okatav/dodo/internal/tui"
	"github.com/okatav/dodo/internal/ui"
)

// Options tune behavior from root flags.
type Options struct {
	Group bool   // ls grouped by pending/done
	Theme string // overrides the configured theme when set
	Debug bool   // route debug logs to ~/.dodo/debug.log
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	setupLogging(opt.Debug)

	cmd, a := args[0], args[1:]

	// help and config dispatch before the session setup; `config reset`
	// must keep working even when the config file is unparsable, and an
	// unknown name is a usage error no matter what the config holds.
	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "config":
		return doConfig(a, opt)

	case "ui", "ls", "add", "done", "rm", "show":
		return runSession(cmd, a, opt)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(ui.ErrOut())
	PrintHelp()
	return 2
}

// runSession resolves config, installs the theme and hands the data
// subcommands a store over the configured upstream.
func runSession(cmd string, a []string, opt Options) int {
	cfg, err := config.Load()
	if err != nil {
		ui.Fail("config: " + err.Error())
		return 1
	}
	if code := applyTheme(cfg, opt); code != 0 {
		return code
	}

	st := memstore.New(remote.New(cfg.APIURL), memstore.Options{Owner: cfg.Owner})

	switch cmd {
	case "ui":
		return doUI(st)

	case "ls":
		return doList(st, opt)

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: dodo add <title...>")
			return 2
		}
		return doAdd(st, strings.Join(a, " "))

	case "done":
		if len(a) != 1 {
			ui.Fail("usage: dodo done <id>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("done: not a number: " + a[0])
			return 2
		}
		return doToggle(st, n)

	case "rm":
		if len(a) != 1 {
			ui.Fail("usage: dodo rm <id>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("rm: not a number: " + a[0])
			return 2
		}
		return doRemove(st, n)

	case "show":
		if len(a) != 1 {
			ui.Fail("usage: dodo show <id>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("show: not a number: " + a[0])
			return 2
		}
		return doShow(st, n)
	}

	ui.Fail("unknown subcommand: " + cmd)
	return 2
}

func PrintHelp() {
	fmt.Fprintf(ui.Out(), `dodo - a session to-do client

Todos are fetched once from the configured API, then live in memory;
changes last until the process exits.

Usage:
  dodo [flags] <subcommand> [args]

Flags:
  -group    group ls output by pending/done
  -theme    classic | neon | mono
  -debug    write debug logs to ~/.dodo/debug.log

Subcommands:
  ui                 Interactive session (list, edit, create)
  ls                 List the session todos
  add <title...>     Add a todo (title can be multiple words)
  done <id>          Toggle done for the todo with that id
  rm <id>            Remove the todo with that id
  show <id>          Print one todo as JSON
  config show        Print the effective configuration
  config set <k> <v> Persist api_url, owner or theme
  config reset       Remove the config file

Examples:
  dodo ui
  dodo add "Buy milk"
  dodo -group ls
  dodo done 21
`)
}

// applyTheme resolves the effective theme (flag beats config) and
// installs it for the renderers.
func applyTheme(cfg config.Config, opt Options) int {
	theme := cfg.Theme
	if opt.Theme != "" {
		theme = opt.Theme
	}
	if !ui.ValidTheme(theme) {
		ui.Fail("unknown theme: " + theme)
		ui.Hint("Hint: themes are " + strings.Join(ui.ThemeNames(), ", "))
		return 2
	}
	ui.SetTheme(theme)
	return 0
}

// setupLogging discards everything unless debug is requested; the
// terminal belongs to the renderers.
func setupLogging(debug bool) {
	log.SetOutput(io.Discard)
	if !debug && os.Getenv("DODO_DEBUG") == "" {
		return
	}
	log.SetLevel(log.DebugLevel)
	p, err := config.DebugLogPath()
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	log.SetOutput(f)
}

// seed makes sure the session cache is populated before a subcommand
// works on it. The first call per process hits the network; everything
// after answers from the cache.
func seed(st *memstore.Store) ([]model.Item, int) {
	items, err := st.List(context.Background())
	if err != nil {
		ui.Fail("fetch: " + err.Error())
		ui.Hint("Hint: check your network and DODO_API_URL, then try again")
		return nil, 1
	}
	return items, 0
}

// -------------- subcommand impls ----------------

func doUI(st *memstore.Store) int {
	if err := tui.Run(st); err != nil {
		ui.Fail("ui: " + err.Error())
		return 1
	}
	return 0
}

func doList(st *memstore.Store, opt Options) int {
	items, code := seed(st)
	if code != 0 {
		return code
	}
	ui.Panel(listLines(items, opt.Group))
	return 0
}

func doAdd(st *memstore.Store, title string) int {
	title = strings.TrimSpace(title)
	if title == "" {
		ui.Fail("add: empty title")
		return 2
	}
	if len([]rune(title)) < 3 {
		ui.Fail("add: title must be at least 3 characters")
		return 2
	}
	if _, code := seed(st); code != 0 {
		return code
	}
	it := st.Add(model.Item{Title: title})
	ui.OK(fmt.Sprintf("added #%d", it.ID))
	return 0
}

func doToggle(st *memstore.Store, id int) int {
	if _, code := seed(st); code != 0 {
		return code
	}
	rec, err := st.Get(id)
	if err != nil {
		ui.Fail(fmt.Sprintf("no todo with id %d", id))
		ui.Hint("Hint: run `dodo ls` to see valid ids")
		return 2
	}
	rec.Done = !rec.Done
	if _, err := st.Update(rec); err != nil {
		ui.Fail(fmt.Sprintf("no todo with id %d", id))
		return 2
	}
	ui.OK(fmt.Sprintf("toggled #%d", id))
	return 0
}

func doRemove(st *memstore.Store, id int) int {
	if _, code := seed(st); code != 0 {
		return code
	}
	if !st.Remove(id) {
		ui.Fail(fmt.Sprintf("no todo with id %d", id))
		ui.Hint("Hint: run `dodo ls` to see valid ids")
		return 2
	}
	ui.OK(fmt.Sprintf("removed #%d", id))
	return 0
}

func doShow(st *memstore.Store, id int) int {
	if _, code := seed(st); code != 0 {
		return code
	}
	rec, err := st.Get(id)
	if err != nil {
		ui.Fail(fmt.Sprintf("no todo with id %d", id))
		ui.Hint("Hint: run `dodo ls` to see valid ids")
		return 2
	}
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		ui.Fail("show: " + err.Error())
		return 1
	}
	ui.Print(string(b))
	return 0
}

func doConfig(a []string, opt Options) int {
	if len(a) == 0 {
		ui.Fail("usage: dodo config show|set <key> <value>|reset")
		return 2
	}
	switch a[0] {
	case "show":
		cfg, err := config.Load()
		if err != nil {
			ui.Fail("config: " + err.Error())
			return 1
		}
		if code := applyTheme(cfg, opt); code != 0 {
			return code
		}
		p, err := config.FilePath()
		if err != nil {
			ui.Fail("config: " + err.Error())
			return 1
		}
		t := ui.Current()
		ui.Panel([]string{
			ui.C(t.Title, "Config"),
			"",
			fmt.Sprintf("api_url  %s", cfg.APIURL),
			fmt.Sprintf("owner    %d", cfg.Owner),
			fmt.Sprintf("theme    %s", cfg.Theme),
			"",
			ui.C(t.Muted, "file: "+p),
		})
		return 0

	case "set":
		if len(a) != 3 {
			ui.Fail("usage: dodo config set <key> <value>")
			return 2
		}
		cfg, err := config.LoadFile()
		if err != nil {
			ui.Fail("config: " + err.Error())
			return 1
		}
		if err := cfg.Set(a[1], a[2]); err != nil {
			ui.Fail("config: " + err.Error())
			return 2
		}
		if err := config.Save(cfg); err != nil {
			ui.Fail("config: " + err.Error())
			return 1
		}
		ui.OK("saved " + a[1])
		return 0

	case "reset":
		if err := config.Delete(); err != nil {
			ui.Fail("config: " + err.Error())
			return 1
		}
		ui.OK("config reset")
		return 0
	}

	ui.Fail("unknown config action: " + a[0])
	return 2
}
