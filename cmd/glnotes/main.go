// Command glnotes browses and archives Gospel Library notes, highlights, tags
// and notebooks from the terminal.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/and161185/glnotes/internal/api"
	"github.com/and161185/glnotes/internal/archive"
	"github.com/and161185/glnotes/internal/cache"
	"github.com/and161185/glnotes/internal/config"
	"github.com/and161185/glnotes/internal/errs"
	"github.com/and161185/glnotes/internal/logger"
	"github.com/and161185/glnotes/internal/service"
	"github.com/and161185/glnotes/internal/session"
	"github.com/and161185/glnotes/internal/ui"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

const usageText = `glnotes - Gospel Library notes inspector
Usage:
  glnotes [-config file] [-data-dir dir] [-base-url url] [-log-level lvl] [cmd]

Commands:
  menu                     interactive main menu (default)
  version
  download                 save every annotation to a new archive
  online                   browse notes online
  offline [-archive file]  browse a local archive
  folders                  print notebooks as JSON
  tags                     print tags as JSON
  logout                   forget the remembered session
`

var errUsage = errors.New("usage")

type globalFlags struct {
	configPath  string
	showVersion bool
	overrides   func(*config.Config)
}

func parseGlobal(args []string, stderr io.Writer) (*flag.FlagSet, globalFlags, error) {
	fs := flag.NewFlagSet("glnotes", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usageText) }

	var g globalFlags
	fs.StringVar(&g.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	dataDir := fs.String("data-dir", "", "archive directory")
	baseURL := fs.String("base-url", "", "service base URL")
	logLevel := fs.String("log-level", "", "debug|info|warn|error")
	fs.BoolVar(&g.showVersion, "v", false, "print version")
	fs.BoolVar(&g.showVersion, "version", false, "print version")
	if err := fs.Parse(args); err != nil {
		return nil, g, errUsage
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	g.overrides = func(c *config.Config) {
		if set["data-dir"] {
			c.DataDir = *dataDir
		}
		if set["base-url"] {
			c.BaseURL = *baseURL
		}
		if set["log-level"] {
			c.LogLevel = *logLevel
		}
	}
	return fs, g, nil
}

// app holds the wired components of one run.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	out     io.Writer
	session *session.Session
	store   *session.Store
	client  *api.Client
	nav     *ui.Navigator
}

func newApp(cfg config.Config, log *zap.Logger, in io.Reader, out io.Writer, animate bool) (*app, error) {
	loader := ui.NewLoader(out, animate)
	prompt := ui.NewTeaPrompter(in, out)

	var opts []session.Option
	store := session.NewStore(config.Dir(), cfg.SessionTTL)
	if cfg.RememberSession {
		opts = append(opts, session.WithStore(store))
	}
	sess, err := session.New(ui.NewCookieAcquirer(prompt, loader, out), append(opts, session.WithLogger(log))...)
	if err != nil {
		return nil, err
	}

	caches := cache.NewSet()
	apiCfg := api.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout}
	client, err := api.New(apiCfg, sess, caches, log)
	if err != nil {
		return nil, err
	}
	// documents need no session, so offline browsing never prompts for a cookie
	docs, err := api.New(apiCfg, nil, caches, log)
	if err != nil {
		return nil, err
	}

	nav := ui.NewNavigator(ui.Deps{
		Prompt:     prompt,
		Loader:     loader,
		Out:        out,
		Log:        log,
		Online:     service.NewOnline(client),
		Creds:      sess,
		Documents:  docs,
		Downloader: service.NewDownloader(client, sess, cfg.DataDir, cfg.DownloadPageSize, log),
		BaseURL:    client.BaseURL(),
		DataDir:    cfg.DataDir,
		PageSize:   cfg.PageSize,
		Batch:      cfg.BatchSize,
	})
	return &app{cfg: cfg, log: log, out: out, session: sess, store: store, client: client, nav: nav}, nil
}

func run(ctx context.Context, args []string, in io.Reader, out, stderr io.Writer) error {
	fs, g, err := parseGlobal(args, stderr)
	if err != nil {
		return err
	}
	if g.showVersion {
		fmt.Fprintf(out, "glnotes %s (%s)\n", version, buildDate)
		return nil
	}

	cmd := "menu"
	if fs.NArg() > 0 {
		cmd = fs.Arg(0)
	}
	if cmd == "version" {
		fmt.Fprintf(out, "glnotes %s (%s)\n", version, buildDate)
		return nil
	}

	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	g.overrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, closeLog, err := logger.New(filepath.Join(config.Dir(), "logs"), cfg.LogLevel, cfg.LogFiles)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
		_ = closeLog()
	}()
	log.Info("starting", zap.String("version", version), zap.String("buildDate", buildDate), zap.String("cmd", cmd))

	a, err := newApp(cfg, log, in, out, isTerminal(out))
	if err != nil {
		return err
	}
	err = a.dispatch(ctx, cmd, fs.Args())
	if errs.IsUnreachable(err) {
		log.Error("unreachable case", zap.Error(err))
	}
	return err
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}
	switch cmd {
	case "menu":
		return a.nav.Run(ctx)

	case "download":
		return a.nav.Download(ctx)

	case "online":
		return a.nav.BrowseOnline(ctx)

	case "offline":
		fs := flag.NewFlagSet("offline", flag.ContinueOnError)
		p := fs.String("archive", "", "archive file (default: choose from the data dir)")
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		if *p == "" {
			return a.nav.BrowseOffline(ctx)
		}
		arch, err := archive.Read(*p)
		if err != nil {
			return err
		}
		return a.nav.BrowseArchive(ctx, arch)

	case "folders":
		folders, err := a.client.Folders(ctx)
		if err != nil {
			return err
		}
		return printJSON(a.out, folders)

	case "tags":
		tags, err := a.client.Tags(ctx)
		if err != nil {
			return err
		}
		return printJSON(a.out, tags)

	case "logout":
		if err := a.store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Forgot remembered session")
		return nil

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// main wires signals to a context and runs the requested command.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	switch {
	case err == nil, errors.Is(err, ui.ErrAborted), errors.Is(err, context.Canceled):
		return
	case errors.Is(err, errUsage):
		fmt.Fprint(os.Stderr, usageText)
		stop()
		os.Exit(2)
	}
	fail(err)
}

func fail(err error) {
	var se *errs.StatusError
	if errors.As(err, &se) {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
