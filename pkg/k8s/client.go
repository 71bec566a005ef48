package k8s

import (
	"fmt"

	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"

	"github.com/mrostecki/cluster-diagnosis/pkg/logutil"
)

// Client implements StatusSource against a live cluster using client-go.
// All of its queries are read-only.
type Client struct {
	clientset kubernetes.Interface
	dynamic   dynamic.Interface
	log       *logutil.Logger
}

func NewClient(configFlags *genericclioptions.ConfigFlags) (*Client, error) {
	config, err := configFlags.ToRESTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get REST config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	dyn, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	return &Client{clientset: clientset, dynamic: dyn, log: logutil.Default()}, nil
}

// NewWithClients wires pre-built clients. Tests use it with the fake
// clientset and fake dynamic client.
func NewWithClients(clientset kubernetes.Interface, dyn dynamic.Interface, log *logutil.Logger) *Client {
	if log == nil {
		log = logutil.Default()
	}
	return &Client{clientset: clientset, dynamic: dyn, log: log}
}
