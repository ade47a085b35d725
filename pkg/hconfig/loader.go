package hconfig

import (
	"log"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Loader wraps a *viper.Viper to load a Config from a file and,
// optionally, watch it for changes and notify subscribers on reload.
// Uses viper's WatchConfig/OnConfigChange wiring, generalized to
// hconfig.Config.
type Loader struct {
	mu          sync.RWMutex
	v           *viper.Viper
	current     Config
	configFile  string
	subscribers []func(Config)
}

// Load reads and validates the document at configFile, returning a
// ready Loader. configFile's extension determines the format viper
// parses it as (yaml, json, toml, ...).
func Load(configFile string) (*Loader, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	l := &Loader{v: v, configFile: configFile}
	if err := l.reload(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Loader) reload() error {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	l.current = cfg
	l.mu.Unlock()
	return nil
}

// Get returns the most recently loaded Config.
func (l *Loader) Get() Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Subscribe registers fn to be called with the new Config every time a
// watched file successfully reloads. Subscribers are not notified of
// the initial Load, only subsequent changes.
func (l *Loader) Subscribe(fn func(Config)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscribers = append(l.subscribers, fn)
}

// EnableHotReload starts viper's fsnotify-backed file watcher. On each
// change it re-reads and re-validates the file; a failed reload is
// logged and the previous, still-valid Config is retained rather than
// applied partially, a fail-closed rule.
func (l *Loader) EnableHotReload() {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if err := l.reload(); err != nil {
			log.Printf("hconfig: reload of %s failed, keeping previous config: %v", l.configFile, err)
			return
		}
		cfg := l.Get()
		l.mu.RLock()
		subs := append([]func(Config){}, l.subscribers...)
		l.mu.RUnlock()
		for _, fn := range subs {
			fn(cfg)
		}
	})
	l.v.WatchConfig()
}

// Marshal renders cfg as YAML for on-disk persistence.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
