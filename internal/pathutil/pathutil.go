// Package pathutil manages application file paths and locations
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"

	"github.com/ayoisaiah/timesheet/store"
)

const (
	appDir = "timesheet"
	// EnvName suffixes every file name when set, e.g. TIMESHEET_ENV=dev.
	EnvName = "TIMESHEET_ENV"
)

// Paths holds all application path configurations.
type Paths struct {
	configFileName string
	storeBaseName  string
	logFileName    string

	// Computed absolute paths
	configFilePath string
	dataDir        string
	logFilePath    string
}

var (
	paths   *Paths
	once    sync.Once
	initErr error
)

// Initialize must be called once at program startup.
func Initialize() error {
	once.Do(func() {
		paths, initErr = New(os.Getenv(EnvName))
	})

	return initErr
}

// Must panics if paths haven't been initialized.
func Must() *Paths {
	if paths == nil {
		panic("pathutil.Initialize() must be called before accessing paths")
	}

	return paths
}

// New computes the paths for the given environment name. The config and
// data directories are created if needed.
func New(env string) (*Paths, error) {
	p := &Paths{
		configFileName: "config.yml",
		storeBaseName:  "timesheet",
		logFileName:    "timesheet.log",
	}

	p.applyEnvironmentOverrides(strings.TrimSpace(env))

	err := p.computePaths()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Dir is the name of the application's directory under the xdg roots.
func Dir() string {
	return appDir
}

func (p *Paths) ConfigFilePath() string {
	return p.configFilePath
}

func (p *Paths) LogFilePath() string {
	return p.logFilePath
}

// StorePath returns the default location of the store for driver.
func (p *Paths) StorePath(driver string) string {
	return filepath.Join(p.dataDir, p.storeBaseName+store.FileExtension(driver))
}

func (p *Paths) applyEnvironmentOverrides(env string) {
	if env == "" {
		return
	}

	p.configFileName = fmt.Sprintf("config_%s.yml", env)
	p.storeBaseName = fmt.Sprintf("timesheet_%s", env)
	p.logFileName = fmt.Sprintf("timesheet_%s.log", env)
}

func (p *Paths) computePaths() error {
	var err error

	p.configFilePath, err = xdg.ConfigFile(filepath.Join(appDir, p.configFileName))
	if err != nil {
		return fmt.Errorf("locating config file: %w", err)
	}

	p.dataDir, err = xdg.DataFile(appDir)
	if err != nil {
		return fmt.Errorf("locating data directory: %w", err)
	}

	p.logFilePath = filepath.Join(p.dataDir, "log", p.logFileName)

	return nil
}
