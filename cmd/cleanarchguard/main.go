// Command cleanarchguard checks that modules keep their layering:
// domain <- services <- presentation/handlers, with infrastructure on the outside.
package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/roblaszczak/go-cleanarch/cleanarch"
	"gopkg.in/yaml.v3"
)

type config struct {
	Version           int      `yaml:"version"`
	Root              string   `yaml:"root"`
	IgnoreTests       bool     `yaml:"ignore_tests"`
	IgnorePackages    []string `yaml:"ignore_packages"`
	SharedModules     []string `yaml:"shared_modules"`
	AllowedViolations []string `yaml:"allow_violations"`
	Aliases           struct {
		Domain         []string `yaml:"domain"`
		Application    []string `yaml:"application"`
		Interfaces     []string `yaml:"interfaces"`
		Infrastructure []string `yaml:"infrastructure"`
	} `yaml:"aliases"`
}

var (
	defaultDomainAliases         = []string{"domain"}
	defaultApplicationAliases    = []string{"services"}
	defaultInterfacesAliases     = []string{"presentation", "handlers"}
	defaultInfrastructureAliases = []string{"infrastructure"}
)

func main() {
	var (
		configPath = flag.String("config", ".gocleanarch.yml", "config file path")
		debug      = flag.Bool("debug", false, "enable go-cleanarch debug logging")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to read config: %v\n", err)
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		log.Fatalf("failed to resolve root: %v\n", err)
	}
	if *debug {
		cleanarch.Log.SetOutput(os.Stderr)
	}

	ok, errs, err := cleanarch.NewValidator(cfg.layers()).Validate(root, cfg.IgnoreTests, cfg.IgnorePackages)
	if err != nil {
		log.Fatalf("go-cleanarch failed: %v\n", err)
	}
	remaining := newViolationFilter(cfg).apply(errs)
	if !ok && len(remaining) > 0 {
		for _, v := range remaining {
			log.Println(v.Error())
		}
		log.Println("layering check failed")
		os.Exit(1)
	}
	log.Println("layering check passed")
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Root) == "" {
		return nil, errors.New("root must not be empty")
	}
	return cfg, nil
}

// layers maps directory names to layers; a custom alias list replaces the default one.
func (c *config) layers() map[string]cleanarch.Layer {
	out := map[string]cleanarch.Layer{}
	add := func(custom, defaults []string, layer cleanarch.Layer) {
		names := defaults
		if len(custom) > 0 {
			names = custom
		}
		for _, name := range names {
			if name != "" {
				out[name] = layer
			}
		}
	}
	add(c.Aliases.Domain, defaultDomainAliases, cleanarch.LayerDomain)
	add(c.Aliases.Application, defaultApplicationAliases, cleanarch.LayerApplication)
	add(c.Aliases.Interfaces, defaultInterfacesAliases, cleanarch.LayerInterfaces)
	add(c.Aliases.Infrastructure, defaultInfrastructureAliases, cleanarch.LayerInfrastructure)
	return out
}

var crossModulePattern = regexp.MustCompile(`between ([\w-]+) and ([\w-]+) modules`)

type violationFilter struct {
	shared  []string
	allowed []string
}

func newViolationFilter(cfg *config) violationFilter {
	var f violationFilter
	for _, m := range cfg.SharedModules {
		if m = strings.TrimSpace(m); m != "" {
			f.shared = append(f.shared, m)
		}
	}
	for _, p := range cfg.AllowedViolations {
		if p != "" {
			f.allowed = append(f.allowed, p)
		}
	}
	return f
}

// tolerated reports whether msg is a cross-module import of a shared module
// or matches an explicitly allowed violation.
func (f violationFilter) tolerated(msg string) bool {
	if m := crossModulePattern.FindStringSubmatch(msg); len(m) == 3 {
		if slices.Contains(f.shared, m[1]) || slices.Contains(f.shared, m[2]) {
			return true
		}
	}
	return slices.ContainsFunc(f.allowed, func(p string) bool {
		return strings.Contains(msg, p)
	})
}

func (f violationFilter) apply(errs []cleanarch.ValidationError) []cleanarch.ValidationError {
	var out []cleanarch.ValidationError
	for _, v := range errs {
		if !f.tolerated(v.Error()) {
			out = append(out, v)
		}
	}
	return out
}
