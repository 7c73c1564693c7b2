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
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/hylla/gridcell/internal/adapters/server"
	"github.com/hylla/gridcell/internal/adapters/server/common"
	"github.com/hylla/gridcell/internal/adapters/snapshot"
	"github.com/hylla/gridcell/internal/adapters/storage/sqlite"
	"github.com/hylla/gridcell/internal/app"
	"github.com/hylla/gridcell/internal/config"
	"github.com/hylla/gridcell/internal/domain"
	"github.com/hylla/gridcell/internal/platform"
	"github.com/hylla/gridcell/internal/tui"
)

// version stores a package-level helper value.
var version = "dev"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// serveFunc starts the HTTP surfaces. Tests replace it to avoid binding a port.
var serveFunc = server.Run

// main handles main.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run runs the requested command flow.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	fs := flag.NewFlagSet("gridcell", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		configPath string
		dbPath     string
		appName    string
		devMode    bool
		showVer    bool
	)
	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("GRIDCELL_DEV_MODE"); ok {
		defaultDevMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("GRIDCELL_APP_NAME")); envApp != "" {
		appName = envApp
	} else {
		appName = "gridcell"
	}
	fs.StringVar(&configPath, "config", "", "path to config TOML")
	fs.StringVar(&dbPath, "db", "", "path to the sqlite gesture journal")
	fs.StringVar(&appName, "app", appName, "application name for config/data path resolution")
	fs.BoolVar(&devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")
	fs.BoolVar(&showVer, "version", false, "show version")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showVer {
		_, _ = fmt.Fprintf(stdout, "gridcell %s\n", version)
		return nil
	}

	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: appName,
		DevMode: devMode,
	})
	if err != nil {
		return err
	}
	// Values already present in the process environment win over the file.
	if err := godotenv.Load(paths.EnvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env file %q: %w", paths.EnvPath, err)
	}

	command := firstArg(fs.Args())
	switch command {
	case "paths":
		_, _ = fmt.Fprintf(stdout, "app: %s\n", appName)
		_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", devMode)
		_, _ = fmt.Fprintf(stdout, "config: %s\n", paths.ConfigPath)
		_, _ = fmt.Fprintf(stdout, "env: %s\n", paths.EnvPath)
		_, _ = fmt.Fprintf(stdout, "data_dir: %s\n", paths.DataDir)
		_, _ = fmt.Fprintf(stdout, "db: %s\n", paths.DBPath)
		_, _ = fmt.Fprintf(stdout, "snapshot: %s\n", paths.SnapshotPath)
		return nil
	case "", "tui", "serve", "journal", "snapshot", "export", "import":
		// Continue.
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
	if command == "tui" {
		command = ""
	}

	dbOverridden := strings.TrimSpace(dbPath) != ""
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("GRIDCELL_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	if !dbOverridden {
		if envPath := strings.TrimSpace(os.Getenv("GRIDCELL_DB_PATH")); envPath != "" {
			dbPath = envPath
			dbOverridden = true
		} else {
			dbPath = paths.DBPath
		}
	}

	cfg, err := config.Load(configPath, config.Default(dbPath))
	if err != nil {
		return fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}

	logger, err := newRuntimeLogger(stderr, appName, devMode, cfg.Logging, time.Now)
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "" {
		// Board rendering owns the terminal; runtime logs go to the dev file only.
		logger.SetConsoleEnabled(false)
	}
	defer func() {
		if closeErr := logger.Close(); closeErr != nil && logger.shouldLogToSink(logger.consoleSink) {
			_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", closeErr)
		}
	}()

	logger.Info("startup configuration resolved", "app", appName, "dev_mode", devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "db_path", dbPath)
	logger.Info("configuration loaded", "config_path", configPath, "db_path", cfg.Database.Path, "log_level", cfg.Logging.Level, "render_mode", cfg.RenderMode())
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	logger.Info("opening sqlite journal", "db_path", cfg.Database.Path)
	repo, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
		return fmt.Errorf("open sqlite journal: %w", err)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			logger.Warn("sqlite close failed", "db_path", cfg.Database.Path, "err", closeErr)
		}
	}()

	items, err := cfg.DomainItems()
	if err != nil {
		return fmt.Errorf("load configured items: %w", err)
	}
	svc, err := app.NewService(repo, uuid.NewString, nil, logger.Sink(), app.ServiceConfig{
		Params:         cfg.GridParams(),
		RenderMode:     cfg.RenderMode(),
		Bounded:        cfg.Render.Bounded,
		TransformScale: cfg.Render.TransformScale,
	}, items)
	if err != nil {
		return fmt.Errorf("initialize grid service: %w", err)
	}
	logger.Debug("grid service initialized", "items", len(items), "cols", cfg.Grid.Cols, "bounded", cfg.Render.Bounded)

	var runCmd func() error
	switch command {
	case "":
		runCmd = func() error {
			logger.Info("starting tui program loop")
			if _, err := programFactory(tui.NewModel(svc)).Run(); err != nil {
				return fmt.Errorf("run tui program: %w", err)
			}
			return nil
		}
	case "serve":
		runCmd = func() error {
			return serveFunc(ctx, server.Config{
				HTTPBind:      cfg.Server.HTTPBind,
				APIEndpoint:   cfg.Server.APIEndpoint,
				MCPEndpoint:   cfg.Server.MCPEndpoint,
				ServerName:    appName,
				ServerVersion: version,
			}, server.Dependencies{
				Grid:   common.NewAppServiceAdapter(svc),
				Logger: logger.Sink(),
			})
		}
	case "journal":
		runCmd = func() error { return runJournal(ctx, svc, fs.Args()[1:], stdout) }
	case "snapshot":
		runCmd = func() error { return runSnapshot(ctx, svc, fs.Args()[1:], paths.SnapshotPath, stdout) }
	case "export":
		runCmd = func() error { return runExport(ctx, svc, fs.Args()[1:], stdout) }
	case "import":
		runCmd = func() error { return runImport(ctx, svc, fs.Args()[1:], stdout) }
	}

	name := command
	if name == "" {
		name = "tui"
	}
	logger.Info("command flow start", "command", name)
	if err := runCmd(); err != nil {
		logger.Error("command flow failed", "command", name, "err", err)
		return fmt.Errorf("run %s command: %w", name, err)
	}
	logger.Info("command flow complete", "command", name)
	return nil
}

// runJournal prints recorded gesture notifications, newest first.
func runJournal(ctx context.Context, svc *app.Service, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("gridcell journal", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		itemID string
		limit  int
	)
	fs.StringVar(&itemID, "item", "", "only show events for this item id")
	fs.IntVar(&limit, "limit", 20, "maximum number of events")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse journal flags: %w", err)
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected journal arguments: %v", fs.Args())
	}
	if limit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}

	var (
		events []domain.GestureEvent
		err    error
	)
	if itemID = strings.TrimSpace(itemID); itemID != "" {
		events, err = svc.ListItemEvents(ctx, itemID, limit)
	} else {
		events, err = svc.ListRecentEvents(ctx, limit)
	}
	if err != nil {
		return fmt.Errorf("list journal events: %w", err)
	}
	if len(events) == 0 {
		_, _ = fmt.Fprintln(stdout, "no events")
		return nil
	}
	for _, event := range events {
		line := fmt.Sprintf("%s  %-12s %-14s x=%d y=%d w=%d h=%d",
			event.OccurredAt.Format(time.RFC3339),
			event.ItemID,
			event.Kind,
			event.Rect.X, event.Rect.Y, event.Rect.W, event.Rect.H,
		)
		if event.Handle != "" {
			line += " handle=" + string(event.Handle)
		}
		if event.GestureID != "" {
			line += " gesture=" + event.GestureID
		}
		if _, err := fmt.Fprintln(stdout, line); err != nil {
			return fmt.Errorf("write journal line: %w", err)
		}
	}
	return nil
}

// runSnapshot renders the current layout to a PNG.
func runSnapshot(ctx context.Context, svc *app.Service, args []string, defaultOut string, stdout io.Writer) error {
	fs := flag.NewFlagSet("gridcell snapshot", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	opts := snapshot.DefaultOptions()
	var (
		outPath string
		scale   string
	)
	fs.StringVar(&outPath, "out", defaultOut, "output PNG path ('-' for stdout)")
	fs.StringVar(&scale, "scale", "", "pixel scale as X or XxY")
	fs.BoolVar(&opts.ShowGuides, "guides", opts.ShowGuides, "draw column guides")
	fs.BoolVar(&opts.ShowLabels, "labels", opts.ShowLabels, "draw item ids")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse snapshot flags: %w", err)
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected snapshot arguments: %v", fs.Args())
	}
	if strings.TrimSpace(scale) != "" {
		parsed, err := parseScale(scale)
		if err != nil {
			return err
		}
		opts.Scale = parsed
	}
	if strings.TrimSpace(outPath) == "" {
		return fmt.Errorf("--out is required")
	}

	renderer := snapshot.NewRenderer(opts)
	params := svc.Params()
	height := svc.ContainerHeight()
	items := svc.ListItems(ctx)
	if outPath == "-" {
		if err := renderer.Encode(stdout, params, height, items); err != nil {
			return fmt.Errorf("encode snapshot png: %w", err)
		}
		return nil
	}
	if err := renderer.Save(outPath, params, height, items); err != nil {
		return fmt.Errorf("save snapshot png: %w", err)
	}
	_, _ = fmt.Fprintf(stdout, "wrote %s\n", outPath)
	return nil
}

// parseScale parses "8" or "8x16" into a pixel scale.
func parseScale(raw string) (domain.Vec, error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(raw)), "x", 2)
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || x <= 0 {
		return domain.Vec{}, fmt.Errorf("invalid --scale %q", raw)
	}
	y := x
	if len(parts) == 2 {
		y, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || y <= 0 {
			return domain.Vec{}, fmt.Errorf("invalid --scale %q", raw)
		}
	}
	return domain.Vec{X: x, Y: y}, nil
}

// runExport runs the requested command flow.
func runExport(ctx context.Context, svc *app.Service, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("gridcell export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var outPath string
	fs.StringVar(&outPath, "out", "-", "output file path ('-' for stdout)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse export flags: %w", err)
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected export arguments: %v", fs.Args())
	}

	snap := svc.ExportSnapshot(ctx)
	encoded, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot json: %w", err)
	}
	encoded = append(encoded, '\n')

	if outPath == "-" {
		if _, err := stdout.Write(encoded); err != nil {
			return fmt.Errorf("write snapshot to stdout: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create export output dir: %w", err)
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

// runImport loads a layout snapshot and prints the merged layout.
func runImport(ctx context.Context, svc *app.Service, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("gridcell import", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var inPath string
	fs.StringVar(&inPath, "in", "", "input snapshot JSON file")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse import flags: %w", err)
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected import arguments: %v", fs.Args())
	}
	if inPath == "" {
		return fmt.Errorf("--in is required")
	}

	content, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	var snap app.Snapshot
	if err := json.Unmarshal(content, &snap); err != nil {
		return fmt.Errorf("decode snapshot json: %w", err)
	}
	if err := svc.ImportSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}
	// Layouts are not persisted, so the merged result is printed for the caller.
	return runExport(ctx, svc, []string{"--out", "-"}, stdout)
}

// firstArg handles first arg.
func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// parseBoolEnv reads a boolean environment variable.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
