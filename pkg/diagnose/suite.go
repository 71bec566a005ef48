package diagnose

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrostecki/cluster-diagnosis/pkg/artifact"
	"github.com/mrostecki/cluster-diagnosis/pkg/check"
	"github.com/mrostecki/cluster-diagnosis/pkg/data"
	"github.com/mrostecki/cluster-diagnosis/pkg/k8s"
	"github.com/mrostecki/cluster-diagnosis/pkg/logutil"
	"github.com/mrostecki/cluster-diagnosis/pkg/sampler"
)

// Suite builds and runs the diagnostic check groups. Each group
// short-circuits internally; independent groups still all run so one
// broken workload does not hide the state of the others.
type Suite struct {
	Source  k8s.StatusSource
	Sampler *sampler.Sampler
	// Uploader, when set, receives a debug bundle for every pod that a
	// failed check identified.
	Uploader artifact.Uploader
	Log      *logutil.Logger
}

// Run executes the cluster-access group followed by one group per target.
// It returns true only if every group succeeded.
func (s *Suite) Run(ctx context.Context, targets []Target) bool {
	ok := s.clusterAccessGroup(ctx).Run()
	for _, target := range targets {
		if !s.workloadGroup(ctx, target).Run() {
			ok = false
		}
	}
	return ok
}

func (s *Suite) clusterAccessGroup(ctx context.Context) *check.Group {
	log := s.logger()
	group := check.NewGroup("Cluster access")
	group.Log = s.Log

	var nodes []data.NodeInfo
	group.Add(&check.Check{
		Name: "Nodes are listable",
		Log:  s.Log,
		Fn: func() bool {
			var err error
			nodes, err = s.Source.Nodes(ctx)
			if err != nil {
				log.Errorf("failed to list nodes: %v", err)
				return false
			}
			return len(nodes) > 0
		},
	})
	group.Add(&check.Check{
		Name: "At least one node is Ready",
		Log:  s.Log,
		Fn: func() bool {
			for _, node := range nodes {
				if node.Status == "Ready" {
					return true
				}
			}
			log.Errorf("none of the %d nodes is Ready", len(nodes))
			return false
		},
	})
	return group
}

func (s *Suite) workloadGroup(ctx context.Context, target Target) *check.Group {
	log := s.logger()
	group := check.NewGroup(target.Name)
	group.Log = s.Log

	group.Add(&check.Check{
		Name: fmt.Sprintf("%s is deployed", target.Name),
		Log:  s.Log,
		Fn: func() bool {
			resource, err := s.Source.ResourceByLabel(ctx, target.GVR(), "", target.Selector)
			if err != nil {
				if errors.Is(err, k8s.ErrNotFound) {
					log.Errorf("no %s with selector %q found in the cluster", target.GVR().Resource, target.Selector)
				} else {
					log.Errorf("query for %s with selector %q failed: %v", target.GVR().Resource, target.Selector, err)
				}
				return false
			}
			log.Debugf("%s %s/%s status: %s", target.GVR().Resource, resource.Namespace, resource.Name, resource.Status)
			return true
		},
	})

	var failing []data.PodStatus
	group.Add(&check.Check{
		Name: fmt.Sprintf("%s pods are %s", target.Name, data.StatusRunning),
		Log:  s.Log,
		Fn: func() bool {
			failing = failing[:0]
			statuses := s.Sampler.SummarizedPodStatus(ctx, target.Selector)
			if len(statuses) == 0 {
				log.Errorf("no pods with selector %q are running on the cluster", target.Selector)
				return false
			}
			for _, status := range statuses {
				if status.Status != data.StatusRunning {
					log.Errorf("pod %s/%s is %s (ready %s, node %s)",
						status.Namespace, status.Name, status.Status, status.Ready, status.NodeName)
					failing = append(failing, status)
				}
			}
			return len(failing) == 0
		},
		OnFailure: func() {
			s.uploadDebugData(ctx, failing)
		},
	})

	return group
}

// uploadDebugData stores a bundle per failing pod. Upload problems are
// logged and never fail the run.
func (s *Suite) uploadDebugData(ctx context.Context, failing []data.PodStatus) {
	if s.Uploader == nil {
		return
	}
	log := s.logger()

	for _, status := range failing {
		bundle := data.DebugBundle{
			PodName:   status.Name,
			Namespace: status.Namespace,
		}

		describe, err := s.Source.PodDescribe(ctx, status.Namespace, status.Name)
		if err != nil {
			log.Warningf("could not get pod configuration for %s/%s: %v", status.Namespace, status.Name, err)
		}
		bundle.Describe = describe

		events, err := s.Source.WarningEvents(ctx, status.Namespace)
		if err != nil {
			log.Warningf("could not list warning events in %q: %v", status.Namespace, err)
		}
		bundle.Events = events

		if err := s.Uploader.Upload(ctx, bundle); err != nil {
			log.Warningf("%v", err)
		} else {
			log.Infof("uploaded debug data for pod %s/%s", status.Namespace, status.Name)
		}
	}
}

func (s *Suite) logger() *logutil.Logger {
	if s.Log != nil {
		return s.Log
	}
	return logutil.Default()
}
