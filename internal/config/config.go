package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	charmLog "github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/hylla/gridcell/internal/domain"
	"github.com/hylla/gridcell/internal/geometry"
)

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	Grid     GridConfig     `toml:"grid"`
	Render   RenderConfig   `toml:"render"`
	Server   ServerConfig   `toml:"server"`
	Items    []ItemConfig   `toml:"items"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// GridConfig holds container geometry. Pairs are [x, y].
type GridConfig struct {
	Cols             int        `toml:"cols"`
	RowHeight        float64    `toml:"row_height"`
	ContainerWidth   float64    `toml:"container_width"`
	Margin           [2]float64 `toml:"margin"`
	ContainerPadding [2]float64 `toml:"container_padding"`
	MaxRows          int        `toml:"max_rows"` // 0 = unbounded
}

type RenderConfig struct {
	Mode           string  `toml:"mode"` // transform | top-left | percent
	Bounded        bool    `toml:"bounded"`
	TransformScale float64 `toml:"transform_scale"`
}

type ServerConfig struct {
	HTTPBind    string `toml:"http_bind"`
	APIEndpoint string `toml:"api_endpoint"`
	MCPEndpoint string `toml:"mcp_endpoint"`
}

type ItemConfig struct {
	ID     string `toml:"id"`
	X      int    `toml:"x"`
	Y      int    `toml:"y"`
	W      int    `toml:"w"`
	H      int    `toml:"h"`
	MinW   int    `toml:"min_w"`
	MaxW   int    `toml:"max_w"`
	MinH   int    `toml:"min_h"`
	MaxH   int    `toml:"max_h"`
	Static bool   `toml:"static"`
}

func defaultItems() []ItemConfig {
	return []ItemConfig{
		{ID: "alpha", X: 0, Y: 0, W: 2, H: 2},
		{ID: "beta", X: 2, Y: 0, W: 3, H: 1, MinW: 2},
		{ID: "gamma", X: 5, Y: 0, W: 1, H: 3, MaxH: 4},
		{ID: "pinned", X: 0, Y: 2, W: 1, H: 1, Static: true},
	}
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".gridcell/log",
			},
		},
		Grid: GridConfig{
			Cols:             12,
			RowHeight:        3,
			ContainerWidth:   96,
			Margin:           [2]float64{1, 0},
			ContainerPadding: [2]float64{0, 0},
			MaxRows:          0,
		},
		Render: RenderConfig{
			Mode:           string(geometry.RenderTransform),
			Bounded:        false,
			TransformScale: 1,
		},
		Server: ServerConfig{
			HTTPBind:    "127.0.0.1:5437",
			APIEndpoint: "/api/v1",
			MCPEndpoint: "/mcp",
		},
		Items: defaultItems(),
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	// [[items]] replaces the default layout instead of extending it.
	cfg.Items = nil
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}
	if cfg.Items == nil {
		cfg.Items = defaults.Items
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}

	if _, err := charmLog.ParseLevel(strings.TrimSpace(c.Logging.Level)); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	if err := c.GridParams().Validate(); err != nil {
		return fmt.Errorf("invalid grid: %w", err)
	}
	if c.Grid.MaxRows < 0 {
		return fmt.Errorf("grid.max_rows must be >= 0")
	}

	if _, err := geometry.ParseRenderMode(c.Render.Mode); err != nil {
		return fmt.Errorf("invalid render.mode: %w", err)
	}
	if c.Render.TransformScale < 0 {
		return fmt.Errorf("render.transform_scale must be >= 0")
	}

	for name, endpoint := range map[string]string{
		"server.api_endpoint": c.Server.APIEndpoint,
		"server.mcp_endpoint": c.Server.MCPEndpoint,
	} {
		if !strings.HasPrefix(strings.TrimSpace(endpoint), "/") {
			return fmt.Errorf("%s must start with /: %q", name, endpoint)
		}
	}

	seen := map[string]struct{}{}
	for idx, item := range c.Items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return fmt.Errorf("items[%d].id is required", idx)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("items[%d].id is duplicated: %s", idx, id)
		}
		seen[id] = struct{}{}
		if _, err := item.toDomain(); err != nil {
			return fmt.Errorf("items[%d]: %w", idx, err)
		}
		if item.X+item.W > c.Grid.Cols {
			return fmt.Errorf("items[%d] exceeds grid.cols=%d", idx, c.Grid.Cols)
		}
		if c.Grid.MaxRows > 0 && item.Y+item.H > c.Grid.MaxRows {
			return fmt.Errorf("items[%d] exceeds grid.max_rows=%d", idx, c.Grid.MaxRows)
		}
	}

	return nil
}

// GridParams converts the grid section into transform parameters.
func (c Config) GridParams() domain.GridParams {
	return domain.GridParams{
		Cols:             c.Grid.Cols,
		ContainerWidth:   c.Grid.ContainerWidth,
		Margin:           domain.Vec{X: c.Grid.Margin[0], Y: c.Grid.Margin[1]},
		ContainerPadding: domain.Vec{X: c.Grid.ContainerPadding[0], Y: c.Grid.ContainerPadding[1]},
		RowHeight:        c.Grid.RowHeight,
		MaxRows:          c.Grid.MaxRows,
	}
}

// RenderMode returns the parsed render mode, falling back to transform.
func (c Config) RenderMode() geometry.RenderMode {
	mode, err := geometry.ParseRenderMode(c.Render.Mode)
	if err != nil {
		return geometry.RenderTransform
	}
	return mode
}

// DomainItems converts the configured items.
func (c Config) DomainItems() ([]domain.Item, error) {
	out := make([]domain.Item, 0, len(c.Items))
	for idx, item := range c.Items {
		di, err := item.toDomain()
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", idx, err)
		}
		out = append(out, di)
	}
	return out, nil
}

func (i ItemConfig) toDomain() (domain.Item, error) {
	item, err := domain.NewItem(i.ID, domain.GridRect{X: i.X, Y: i.Y, W: i.W, H: i.H}, domain.Constraints{
		MinW: i.MinW,
		MaxW: i.MaxW,
		MinH: i.MinH,
		MaxH: i.MaxH,
	})
	if err != nil {
		return domain.Item{}, err
	}
	item.Static = i.Static
	return item, nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
