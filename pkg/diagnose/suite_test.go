package diagnose

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/mrostecki/cluster-diagnosis/pkg/data"
	"github.com/mrostecki/cluster-diagnosis/pkg/k8s"
	"github.com/mrostecki/cluster-diagnosis/pkg/logutil"
	"github.com/mrostecki/cluster-diagnosis/pkg/sampler"
)

type fakeSource struct {
	nodes         []data.NodeInfo
	nodesErr      error
	pods          []data.PodStatus
	phase         map[string]string
	resourceErr   error
	describe      string
	events        []data.EventInfo
	selectorCalls int
}

func (f *fakeSource) PodsBySelector(ctx context.Context, selector string, hostIPs []string, mustExist bool) ([]data.PodStatus, error) {
	f.selectorCalls++
	return f.pods, nil
}

func (f *fakeSource) PodByName(ctx context.Context, name string) (data.PodStatus, error) {
	phase, ok := f.phase[name]
	if !ok {
		return data.PodStatus{}, fmt.Errorf("pod %q is not running on the cluster: %w", name, k8s.ErrNotFound)
	}
	return data.PodStatus{Name: name, Status: phase}, nil
}

func (f *fakeSource) ResourceByLabel(ctx context.Context, gvr schema.GroupVersionResource, name, label string) (data.ResourceStatus, error) {
	if f.resourceErr != nil {
		return data.ResourceStatus{}, f.resourceErr
	}
	return data.ResourceStatus{Namespace: "kube-system", Name: "coredns", Status: "2/2"}, nil
}

func (f *fakeSource) Nodes(ctx context.Context) ([]data.NodeInfo, error) {
	return f.nodes, f.nodesErr
}

func (f *fakeSource) PodDescribe(ctx context.Context, namespace, name string) (string, error) {
	return f.describe, nil
}

func (f *fakeSource) WarningEvents(ctx context.Context, namespace string) ([]data.EventInfo, error) {
	return f.events, nil
}

type fakeUploader struct {
	bundles []data.DebugBundle
	err     error
}

func (f *fakeUploader) Upload(ctx context.Context, bundle data.DebugBundle) error {
	f.bundles = append(f.bundles, bundle)
	return f.err
}

func testSuite(source k8s.StatusSource, uploader *fakeUploader, log *logutil.Logger) *Suite {
	s := &Suite{
		Source: source,
		Sampler: &sampler.Sampler{
			Source:   source,
			Rounds:   1,
			Interval: 0,
			Progress: io.Discard,
			Log:      log,
		},
		Log: log,
	}
	if uploader != nil {
		s.Uploader = uploader
	}
	return s
}

func healthySource() *fakeSource {
	return &fakeSource{
		nodes: []data.NodeInfo{{Name: "node-1", Status: "Ready"}},
		pods: []data.PodStatus{
			{Name: "coredns-abc", Ready: "1/1", Status: data.StatusRunning, Namespace: "kube-system"},
		},
		phase: map[string]string{"coredns-abc": data.StatusRunning},
	}
}

func TestSuiteRunAllHealthy(t *testing.T) {
	var buf bytes.Buffer
	source := healthySource()
	uploader := &fakeUploader{}

	ok := testSuite(source, uploader, logutil.New(&buf)).Run(context.Background(), DefaultTargets())

	assert.True(t, ok)
	assert.Empty(t, uploader.bundles, "nothing to upload when everything passes")
	assert.Contains(t, buf.String(), "== Cluster access ==")
	assert.Contains(t, buf.String(), "== cluster-dns ==")
}

func TestSuiteRunFailingPod(t *testing.T) {
	var buf bytes.Buffer
	source := healthySource()
	source.phase["coredns-abc"] = "CrashLoopBackOff"
	source.describe = "Name:      coredns-abc\n"
	source.events = []data.EventInfo{{Reason: "BackOff"}}
	uploader := &fakeUploader{}

	ok := testSuite(source, uploader, logutil.New(&buf)).Run(context.Background(), DefaultTargets())

	assert.False(t, ok)
	require.Len(t, uploader.bundles, 1)
	bundle := uploader.bundles[0]
	assert.Equal(t, "coredns-abc", bundle.PodName)
	assert.Equal(t, "kube-system", bundle.Namespace)
	assert.Contains(t, bundle.Describe, "coredns-abc")
	require.Len(t, bundle.Events, 1)
	assert.Contains(t, buf.String(), "CrashLoopBackOff")
}

func TestSuiteRunMissingWorkloadShortCircuits(t *testing.T) {
	source := healthySource()
	source.resourceErr = fmt.Errorf("deployments with label %q can't be found: %w", "k8s-app=kube-dns", k8s.ErrNotFound)

	ok := testSuite(source, nil, logutil.New(io.Discard)).Run(context.Background(), DefaultTargets())

	assert.False(t, ok)
	assert.Equal(t, 0, source.selectorCalls,
		"the pod check must not run once the deployment check failed")
}

func TestSuiteRunNoNodesStillChecksWorkloads(t *testing.T) {
	source := healthySource()
	source.nodes = nil

	ok := testSuite(source, nil, logutil.New(io.Discard)).Run(context.Background(), DefaultTargets())

	assert.False(t, ok)
	assert.Equal(t, 1, source.selectorCalls,
		"independent groups still run after an earlier group fails")
}

func TestSuiteRunUploaderErrorDoesNotFailTheRun(t *testing.T) {
	var buf bytes.Buffer
	source := healthySource()
	source.phase = map[string]string{} // every lookup reports not found
	uploader := &fakeUploader{err: fmt.Errorf("access denied")}

	ok := testSuite(source, uploader, logutil.New(&buf)).Run(context.Background(), DefaultTargets())

	assert.False(t, ok, "the run fails because of the pod, not the upload")
	require.Len(t, uploader.bundles, 1)
	assert.Contains(t, buf.String(), "access denied")
}
