package k8s

import (
	"context"
	"errors"
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/mrostecki/cluster-diagnosis/pkg/data"
)

// ErrNotFound signals an identity query that matched nothing in the
// cluster. Callers that expect possible absence check for it with
// errors.Is; any other error means the query itself failed.
var ErrNotFound = errors.New("resource not found")

// StatusSource is the read-only query surface the checks and the sampler
// are written against. Client implements it with client-go; tests swap in
// fakes. No method may mutate cluster state.
type StatusSource interface {
	// PodsBySelector returns a status snapshot for every pod matching the
	// label selector. hostIPs, when non-empty, keeps only pods scheduled on
	// those host addresses. An empty result is not an error; with mustExist
	// it is additionally logged.
	PodsBySelector(ctx context.Context, selector string, hostIPs []string, mustExist bool) ([]data.PodStatus, error)
	// PodByName returns the detailed status of the pod with exactly that
	// name, or an ErrNotFound-wrapped error.
	PodByName(ctx context.Context, name string) (data.PodStatus, error)
	// ResourceByLabel returns the first resource of the given kind whose
	// name contains name (may be empty) and which carries the label
	// selector, or an ErrNotFound-wrapped error.
	ResourceByLabel(ctx context.Context, gvr schema.GroupVersionResource, name, label string) (data.ResourceStatus, error)
	Nodes(ctx context.Context) ([]data.NodeInfo, error)
	// PodDescribe returns a human-readable dump of one pod, for debug
	// bundles.
	PodDescribe(ctx context.Context, namespace, name string) (string, error)
	// WarningEvents returns the non-Normal events of a namespace.
	WarningEvents(ctx context.Context, namespace string) ([]data.EventInfo, error)
}

func (c *Client) PodsBySelector(ctx context.Context, selector string, hostIPs []string, mustExist bool) ([]data.PodStatus, error) {
	pods, err := c.clientset.CoreV1().Pods(metav1.NamespaceAll).List(ctx, metav1.ListOptions{
		LabelSelector: selector,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods with selector %q: %w", selector, err)
	}

	statuses := []data.PodStatus{}
	for _, pod := range pods.Items {
		if len(hostIPs) > 0 && !matchesHost(pod, hostIPs) {
			continue
		}
		statuses = append(statuses, toPodStatus(pod))
	}

	if len(statuses) == 0 && mustExist {
		if len(hostIPs) > 0 && len(pods.Items) > 0 {
			c.log.Errorf("all pods with selector %q were filtered out by the host filter %v", selector, hostIPs)
		} else {
			c.log.Errorf("no pods with selector %q are running on the cluster", selector)
		}
	}

	return statuses, nil
}

func (c *Client) PodByName(ctx context.Context, name string) (data.PodStatus, error) {
	// The fake clientset ignores field selectors, so the exact-name match
	// is repeated client-side.
	pods, err := c.clientset.CoreV1().Pods(metav1.NamespaceAll).List(ctx, metav1.ListOptions{
		FieldSelector: "metadata.name=" + name,
	})
	if err != nil {
		return data.PodStatus{}, fmt.Errorf("failed to get status of pod %q: %w", name, err)
	}

	for _, pod := range pods.Items {
		if pod.Name == name {
			return toPodStatus(pod), nil
		}
	}

	return data.PodStatus{}, fmt.Errorf("pod %q is not running on the cluster: %w", name, ErrNotFound)
}

func (c *Client) ResourceByLabel(ctx context.Context, gvr schema.GroupVersionResource, name, label string) (data.ResourceStatus, error) {
	list, err := c.dynamic.Resource(gvr).Namespace(metav1.NamespaceAll).List(ctx, metav1.ListOptions{
		LabelSelector: label,
	})
	if err != nil {
		return data.ResourceStatus{}, fmt.Errorf("failed to list %s with label %q: %w", gvr.Resource, label, err)
	}

	for _, item := range list.Items {
		if name != "" && !strings.Contains(item.GetName(), name) {
			continue
		}
		return data.ResourceStatus{
			Namespace: item.GetNamespace(),
			Name:      item.GetName(),
			Status:    extractStatus(item.Object, gvr.Resource),
		}, nil
	}

	return data.ResourceStatus{}, fmt.Errorf("%s %q with label %q can't be found in the cluster: %w",
		gvr.Resource, name, label, ErrNotFound)
}

func (c *Client) Nodes(ctx context.Context) ([]data.NodeInfo, error) {
	nodes, err := c.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	var nodeList []data.NodeInfo
	for _, node := range nodes.Items {
		status := "Unknown"
		for _, cond := range node.Status.Conditions {
			if cond.Type == corev1.NodeReady {
				if cond.Status == corev1.ConditionTrue {
					status = "Ready"
				} else {
					status = "NotReady"
				}
				break
			}
		}
		nodeList = append(nodeList, data.NodeInfo{
			Name:    node.Name,
			Status:  status,
			Created: node.CreationTimestamp.Time,
		})
	}

	return nodeList, nil
}

func (c *Client) PodDescribe(ctx context.Context, namespace, name string) (string, error) {
	pod, err := c.clientset.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if k8serrors.IsNotFound(err) {
			return "", fmt.Errorf("pod %s/%s: %w", namespace, name, ErrNotFound)
		}
		return "", fmt.Errorf("failed to get pod %s/%s: %w", namespace, name, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name:      %s\n", pod.Name)
	fmt.Fprintf(&b, "Namespace: %s\n", pod.Namespace)
	fmt.Fprintf(&b, "Node:      %s\n", pod.Spec.NodeName)
	fmt.Fprintf(&b, "Phase:     %s\n", pod.Status.Phase)
	if pod.Status.Reason != "" {
		fmt.Fprintf(&b, "Reason:    %s\n", pod.Status.Reason)
	}
	fmt.Fprintf(&b, "Containers:\n")
	for _, cs := range pod.Status.ContainerStatuses {
		state := "Unknown"
		detail := ""
		switch {
		case cs.State.Running != nil:
			state = "Running"
		case cs.State.Waiting != nil:
			state = "Waiting"
			detail = cs.State.Waiting.Reason
		case cs.State.Terminated != nil:
			state = "Terminated"
			detail = cs.State.Terminated.Reason
		}
		fmt.Fprintf(&b, "  %s: ready=%t restarts=%d state=%s", cs.Name, cs.Ready, cs.RestartCount, state)
		if detail != "" {
			fmt.Fprintf(&b, " (%s)", detail)
		}
		fmt.Fprintln(&b)
	}
	for _, cond := range pod.Status.Conditions {
		if cond.Status != corev1.ConditionTrue && cond.Message != "" {
			fmt.Fprintf(&b, "Condition %s=%s: %s\n", cond.Type, cond.Status, cond.Message)
		}
	}

	return b.String(), nil
}

func (c *Client) WarningEvents(ctx context.Context, namespace string) ([]data.EventInfo, error) {
	events, err := c.clientset.CoreV1().Events(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list events in namespace %q: %w", namespace, err)
	}

	var infos []data.EventInfo
	for _, event := range events.Items {
		if event.Type == corev1.EventTypeNormal {
			continue
		}
		infos = append(infos, data.EventInfo{
			Namespace: event.Namespace,
			LastSeen:  event.LastTimestamp.Time,
			Type:      event.Type,
			Reason:    event.Reason,
			Object:    fmt.Sprintf("%s/%s", strings.ToLower(event.InvolvedObject.Kind), event.InvolvedObject.Name),
			Message:   event.Message,
			Count:     event.Count,
		})
	}

	return infos, nil
}

func matchesHost(pod corev1.Pod, hostIPs []string) bool {
	for _, ip := range hostIPs {
		if pod.Status.HostIP == ip || pod.Spec.NodeName == ip {
			return true
		}
	}
	return false
}

func toPodStatus(pod corev1.Pod) data.PodStatus {
	ready := 0
	for _, cs := range pod.Status.ContainerStatuses {
		if cs.Ready {
			ready++
		}
	}
	return data.PodStatus{
		Name:      pod.Name,
		Ready:     fmt.Sprintf("%d/%d", ready, len(pod.Spec.Containers)),
		Status:    string(pod.Status.Phase),
		NodeName:  pod.Spec.NodeName,
		Namespace: pod.Namespace,
	}
}
