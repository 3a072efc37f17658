package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"anchor-grid/src/grid"
	"anchor-grid/src/transform"
)

const (
	EnvFileEnvVar      = "ANCHOR_GRID_ENV"
	DefaultTriggerKey  = "y"
	DefaultModifierKey = "alt"
	DefaultLogFile     = "anchor_grid_debug.log"
	DefaultLayersFile  = "layers.yaml"
	DefaultAuxZonePx   = 24
	DefaultPort        = 49600

	minGridDim = 1
	maxGridDim = 7
)

type LoadOptions struct {
	EnvFileOverride    string
	IPCDirOverride     string
	LayersFileOverride string
}

type Config struct {
	TriggerKey   string
	ModifierKey  string
	PollInterval time.Duration

	GridCols    int
	GridRows    int
	GridScale   int
	GridSpacing int
	GridMargin  int
	AuxZone     int

	IPCDir     string
	LayersFile string

	CustomAnchors      [3]transform.Vec2
	UseCompMode        bool
	UseMaskRecognition bool

	EnableFileLogging  bool
	LogFile            string
	EnableTray         bool
	SingleInstancePort int
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadWithOptions reads configuration from, in priority order: explicit
// options, the process environment, and the .env file found beside the
// executable (or named by ANCHOR_GRID_ENV).
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	envPath := resolveEnvPath(opts)
	if envPath != "" {
		// Load never overrides variables already set in the environment.
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	cfg := &Config{
		TriggerKey:         getEnvWithDefault("TRIGGER_KEY", DefaultTriggerKey),
		ModifierKey:        getEnvWithDefault("MODIFIER_KEY", DefaultModifierKey),
		PollInterval:       time.Duration(getInt("POLL_INTERVAL_MS", 50, 10, 1000)) * time.Millisecond,
		GridCols:           getInt("GRID_COLS", 3, minGridDim, maxGridDim),
		GridRows:           getInt("GRID_ROWS", 3, minGridDim, maxGridDim),
		GridScale:          getInt("GRID_SCALE", grid.DefaultScale, 0, 9),
		GridSpacing:        getInt("GRID_SPACING", 1, 0, 50),
		GridMargin:         getInt("GRID_MARGIN", 2, 0, 100),
		AuxZone:            getInt("AUX_ZONE_PX", DefaultAuxZonePx, 0, 200),
		IPCDir:             strings.TrimSpace(os.Getenv("IPC_DIR")),
		LayersFile:         getEnvWithDefault("LAYERS_FILE", DefaultLayersFile),
		UseCompMode:        getBool("USE_COMP_MODE"),
		UseMaskRecognition: getBool("USE_MASK_RECOGNITION"),
		EnableFileLogging:  getBool("ENABLE_FILE_LOGGING"),
		LogFile:            getEnvWithDefault("LOG_FILE", DefaultLogFile),
		EnableTray:         getBool("ENABLE_TRAY"),
		SingleInstancePort: getInt("SINGLEINSTANCE_PORT", DefaultPort, 1024, 65535),
	}
	for i := range cfg.CustomAnchors {
		key := fmt.Sprintf("CUSTOM_ANCHOR_%d", i+1)
		v, err := ParseRatio(getEnvWithDefault(key, "0.5,0.5"))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		cfg.CustomAnchors[i] = v
	}

	if o := strings.TrimSpace(opts.IPCDirOverride); o != "" {
		cfg.IPCDir = o
	}
	if o := strings.TrimSpace(opts.LayersFileOverride); o != "" {
		cfg.LayersFile = o
	}
	return cfg, nil
}

// Grid builds the overlay geometry for this configuration.
func (c *Config) Grid() grid.Config {
	return grid.Config{
		Cols:     c.GridCols,
		Rows:     c.GridRows,
		CellSize: grid.CellSizeForScale(c.GridScale),
		Spacing:  c.GridSpacing,
		Margin:   c.GridMargin,
		AuxZone:  c.AuxZone,
		Aux:      grid.DefaultAuxLayout(),
	}
}

// CustomAnchor returns the ratio preset for custom1..custom3.
func (c *Config) CustomAnchor(id grid.OptionID) (transform.Vec2, bool) {
	switch id {
	case grid.OptCustom1:
		return c.CustomAnchors[0], true
	case grid.OptCustom2:
		return c.CustomAnchors[1], true
	case grid.OptCustom3:
		return c.CustomAnchors[2], true
	}
	return transform.Vec2{}, false
}

// ParseRatio reads "rx,ry" with both parts in [0,1].
func ParseRatio(s string) (transform.Vec2, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return transform.Vec2{}, fmt.Errorf("ratio %q is not rx,ry", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return transform.Vec2{}, fmt.Errorf("ratio %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return transform.Vec2{}, fmt.Errorf("ratio %q: %w", s, err)
	}
	if x < 0 || x > 1 || y < 0 || y > 1 {
		return transform.Vec2{}, fmt.Errorf("ratio %q outside 0..1", s)
	}
	return transform.Vec2{X: x, Y: y}, nil
}

// FormatRatio is the inverse of ParseRatio.
func FormatRatio(v transform.Vec2) string {
	return strconv.FormatFloat(v.X, 'f', 4, 64) + "," + strconv.FormatFloat(v.Y, 'f', 4, 64)
}

func resolveEnvPath(opts LoadOptions) string {
	if o := strings.TrimSpace(opts.EnvFileOverride); o != "" {
		return o
	}

	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(EnvFileEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// getInt parses key, falling back to def when unset or invalid and
// clamping to [lo,hi].
func getInt(key string, def, lo, hi int) int {
	n := def
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			n = parsed
		}
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
