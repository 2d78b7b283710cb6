package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// PathResolver finds the config directory and dictionary files relative to the binary.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execDir, err := GetExecutableDir()
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: execDir,
		homeDir:       homeDir,
		configDir:     getConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", execDir, pr.configDir)
	return pr, nil
}

// getConfigDir returns the appropriate config directory for the platform
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, "wordcheck")
		}
		return filepath.Join(homeDir, ".config", "wordcheck")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "wordcheck")
		}
		return filepath.Join(homeDir, "AppData", "Roaming", "wordcheck")
	default:
		return filepath.Join(homeDir, ".config", "wordcheck")
	}
}

// ConfigDir returns the config directory
func (pr *PathResolver) ConfigDir() string {
	return pr.configDir
}

// DictionaryPath resolves a dictionary file. It tries, in order:
// the path itself (absolute or relative to the working dir), the executable dir,
// <exec>/data, <exec>/../data and <config>/data. The first regular file wins;
// when none exists the path is returned unchanged so the loader reports it.
func (pr *PathResolver) DictionaryPath(path string) string {
	if path == "" {
		return path
	}
	candidates := []string{path}
	if !filepath.IsAbs(path) {
		name := filepath.Base(path)
		candidates = append(candidates,
			filepath.Join(pr.executableDir, path),
			filepath.Join(pr.executableDir, "data", name),
			filepath.Join(filepath.Dir(pr.executableDir), "data", name),
			filepath.Join(pr.configDir, "data", name),
		)
	}
	for _, candidate := range candidates {
		if stat, err := os.Stat(candidate); err == nil && stat.Mode().IsRegular() {
			log.Debugf("Found dictionary at: %s", candidate)
			return candidate
		}
		log.Debugf("Dictionary candidate not found: %s", candidate)
	}
	return path
}

// ConfigPath returns the full path for a config file, falling back to
// ~/.wordcheck, the temp dir and finally the executable dir when the
// config directory is not writable.
func (pr *PathResolver) ConfigPath(filename string) string {
	dirs := []string{
		pr.configDir,
		filepath.Join(pr.homeDir, ".wordcheck"),
		filepath.Join(os.TempDir(), "wordcheck"),
		pr.executableDir,
	}
	for i, dir := range dirs {
		if CheckDirStatus(dir).Writable {
			if i > 0 {
				log.Warnf("Using fallback config location: %s", dir)
			}
			return filepath.Join(dir, filename)
		}
	}
	return filepath.Join(os.TempDir(), filename)
}
