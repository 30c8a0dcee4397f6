package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/cli/go-gh/v2/pkg/auth"
	apperrors "github.com/ryo246912/branch-pr-template/internal/errors"
	"github.com/sethvargo/go-githubactions"
	"gopkg.in/yaml.v3"
)

// Source supplies raw input values by name
type Source interface {
	Lookup(name string) (string, bool)
}

// MapSource serves inputs from a map, e.g. values given as command-line flags
type MapSource map[string]string

func (m MapSource) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// EnvSource serves inputs the way the Actions runner passes them, as
// INPUT_<NAME> environment variables. Values are trimmed and an empty value
// counts as absent.
type EnvSource struct {
	// Getenv defaults to os.Getenv
	Getenv func(key string) string
}

func (e EnvSource) Lookup(name string) (string, bool) {
	var opts []githubactions.Option
	if e.Getenv != nil {
		opts = append(opts, githubactions.WithGetenv(e.Getenv))
	}
	v := githubactions.New(opts...).GetInput(name)
	return v, v != ""
}

// FileSource serves inputs read from a YAML file keyed by input name
type FileSource map[string]string

// LoadFile reads a YAML config file. Scalar values of any type are accepted
// and kept in their string form.
func LoadFile(path string) (FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.ErrReadConfigFile.WithError(err).WithContext("path", path)
	}
	return ParseFile(data)
}

// ParseFile decodes YAML config file contents.
func ParseFile(data []byte) (FileSource, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.ErrReadConfigFile.WithError(err)
	}

	fs := make(FileSource, len(raw))
	for name, node := range raw {
		if node.Kind != yaml.ScalarNode {
			return nil, apperrors.ErrReadConfigFile.WithError(fmt.Errorf("%s: expected a scalar value", name))
		}
		if node.Tag == "!!null" {
			continue
		}
		fs[name] = node.Value
	}
	return fs, nil
}

func (f FileSource) Lookup(name string) (string, bool) {
	v, ok := f[name]
	return v, ok
}

// AuthSource serves repo-token from the gh CLI's stored credentials for host.
// Other inputs are never served.
type AuthSource struct {
	Host string
}

func (a AuthSource) Lookup(name string) (string, bool) {
	if name != InputRepoToken {
		return "", false
	}
	host := a.Host
	if host == "" {
		host, _ = auth.DefaultHost()
	}
	token, _ := auth.TokenForHost(host)
	return token, token != ""
}

// Layered consults each source in order; the first non-empty value wins.
type Layered []Source

func (l Layered) Lookup(name string) (string, bool) {
	for _, src := range l {
		if src == nil {
			continue
		}
		if v, ok := src.Lookup(name); ok && strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	return "", false
}
