package diagnose

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Target is one workload the diagnostic suite verifies: the resource that
// deploys it and the label selector that finds its pods.
type Target struct {
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace"`
	Selector  string `yaml:"selector"`
	// Group/Version/Resource of the deploying resource. Defaults to
	// apps/v1 deployments.
	Group    string `yaml:"group"`
	Version  string `yaml:"version"`
	Resource string `yaml:"resource"`
}

// GVR returns the deploying resource of the target, defaulting to
// apps/v1 deployments.
func (t Target) GVR() schema.GroupVersionResource {
	gvr := schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "deployments"}
	if t.Resource != "" {
		gvr.Resource = t.Resource
		gvr.Group = t.Group
		gvr.Version = t.Version
		if gvr.Version == "" {
			gvr.Version = "v1"
		}
	}
	return gvr
}

type Config struct {
	Targets []Target `yaml:"targets"`
}

// LoadConfig reads a suite file listing extra targets to verify.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file %q: %w", path, err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(raw, config); err != nil {
		return nil, fmt.Errorf("failed to parse suite file %q: %w", path, err)
	}

	for i, target := range config.Targets {
		if target.Name == "" {
			return nil, fmt.Errorf("suite file %q: target %d has no name", path, i)
		}
		if target.Selector == "" {
			return nil, fmt.Errorf("suite file %q: target %q has no selector", path, target.Name)
		}
	}

	return config, nil
}

// DefaultTargets covers the workload every functioning cluster runs.
func DefaultTargets() []Target {
	return []Target{
		{
			Name:      "cluster-dns",
			Namespace: "kube-system",
			Selector:  "k8s-app=kube-dns",
		},
	}
}
