package sampler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/mrostecki/cluster-diagnosis/pkg/data"
	"github.com/mrostecki/cluster-diagnosis/pkg/k8s"
	"github.com/mrostecki/cluster-diagnosis/pkg/logutil"
)

// A single status query can race a pod restart and observe a transient
// phase, or observe Running moments before a crash. These defaults give
// transient states time to show up; tests shrink them.
const (
	DefaultRounds   = 5
	DefaultInterval = 2 * time.Second
)

// Sampler polls pod statuses over several rounds and merges the
// observations into one verdict per pod. The merge is asymmetric: once a
// pod is seen in a non-Running state in any round, that status sticks for
// the rest of the session. Intermittent failures are caught at the cost of
// not being able to report "flaked once but fine now".
type Sampler struct {
	Source   k8s.StatusSource
	Rounds   int
	Interval time.Duration
	// Progress receives one marker byte per round so an operator can see
	// polling is underway, and a newline when sampling ends.
	Progress io.Writer
	Log      *logutil.Logger
}

func New(source k8s.StatusSource) *Sampler {
	return &Sampler{
		Source:   source,
		Rounds:   DefaultRounds,
		Interval: DefaultInterval,
		Progress: os.Stdout,
	}
}

// SummarizedPodStatus samples the pods matching selector over s.Rounds
// rounds, s.Interval apart, and returns one merged status per pod name,
// sorted by name. A pod whose targeted status lookup reports not-found is
// recorded as "Not Running". A round whose selector query fails outright
// contributes no observations; the session continues with the next round.
func (s *Sampler) SummarizedPodStatus(ctx context.Context, selector string) []data.PodStatus {
	log := s.logger()
	merged := map[string]data.PodStatus{}

	for round := 0; round < s.Rounds; round++ {
		if round > 0 {
			time.Sleep(s.Interval)
		}
		// Log lines would each start a new line; a bare marker keeps the
		// feedback on one line.
		fmt.Fprint(s.Progress, ".")

		pods, err := s.Source.PodsBySelector(ctx, selector, nil, false)
		if err != nil {
			log.Warningf("status query for selector %q failed: %v", selector, err)
			continue
		}

		for _, pod := range pods {
			verdict := data.StatusRunning
			detailed, err := s.Source.PodByName(ctx, pod.Name)
			switch {
			case errors.Is(err, k8s.ErrNotFound):
				verdict = data.StatusNotRunning
			case err != nil:
				log.Warningf("status query for pod %q failed: %v", pod.Name, err)
				continue
			case detailed.Status != data.StatusRunning:
				// Prefer a non-Running status over Running.
				verdict = detailed.Status
			}

			if prev, seen := merged[pod.Name]; seen && prev.Status != data.StatusRunning {
				// Non-Running observations are sticky for the session.
				verdict = prev.Status
			}

			merged[pod.Name] = data.PodStatus{
				Name:      pod.Name,
				Ready:     pod.Ready,
				Status:    verdict,
				NodeName:  pod.NodeName,
				Namespace: pod.Namespace,
			}
		}
	}
	fmt.Fprintln(s.Progress)

	statuses := make([]data.PodStatus, 0, len(merged))
	for _, status := range merged {
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Name < statuses[j].Name
	})
	return statuses
}

func (s *Sampler) logger() *logutil.Logger {
	if s.Log != nil {
		return s.Log
	}
	return logutil.Default()
}
