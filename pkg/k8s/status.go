package k8s

import (
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// extractStatus derives a short status string from an unstructured object,
// keyed by the plural resource name of the query that produced it.
func extractStatus(obj map[string]interface{}, resource string) string {
	switch resource {
	case "pods":
		phase, _, _ := unstructured.NestedString(obj, "status", "phase")
		if phase == "" {
			return "Unknown"
		}
		return phase
	case "deployments", "replicasets":
		replicas, _, _ := unstructured.NestedInt64(obj, "status", "replicas")
		readyReplicas, _, _ := unstructured.NestedInt64(obj, "status", "readyReplicas")
		return fmt.Sprintf("%d/%d", readyReplicas, replicas)
	case "statefulsets":
		replicas, _, _ := unstructured.NestedInt64(obj, "status", "replicas")
		readyReplicas, _, _ := unstructured.NestedInt64(obj, "status", "readyReplicas")
		return fmt.Sprintf("%d/%d", readyReplicas, replicas)
	case "daemonsets":
		desired, _, _ := unstructured.NestedInt64(obj, "status", "desiredNumberScheduled")
		ready, _, _ := unstructured.NestedInt64(obj, "status", "numberReady")
		return fmt.Sprintf("%d/%d", ready, desired)
	case "nodes":
		return nodeCondition(obj)
	case "namespaces":
		phase, _, _ := unstructured.NestedString(obj, "status", "phase")
		if phase == "" {
			return "Active"
		}
		return phase
	default:
		return genericStatus(obj)
	}
}

func nodeCondition(obj map[string]interface{}) string {
	conditions, found, _ := unstructured.NestedSlice(obj, "status", "conditions")
	if !found {
		return "Unknown"
	}
	for _, cond := range conditions {
		condMap, ok := cond.(map[string]interface{})
		if !ok {
			continue
		}
		if condType, ok := condMap["type"].(string); ok && condType == "Ready" {
			if status, ok := condMap["status"].(string); ok {
				if status == "True" {
					return "Ready"
				}
				return "NotReady"
			}
		}
	}
	return "Unknown"
}

// genericStatus tries the status patterns CRDs commonly use.
func genericStatus(obj map[string]interface{}) string {
	status, found, _ := unstructured.NestedMap(obj, "status")
	if !found {
		return "-"
	}

	if phase, ok := status["phase"].(string); ok && phase != "" {
		return phase
	}
	if state, ok := status["state"].(string); ok && state != "" {
		return state
	}

	if conditions, ok := status["conditions"].([]interface{}); ok && len(conditions) > 0 {
		if condMap, ok := conditions[len(conditions)-1].(map[string]interface{}); ok {
			if condType, ok := condMap["type"].(string); ok {
				if condStatus, ok := condMap["status"].(string); ok {
					if condStatus == "True" {
						return condType
					}
					return fmt.Sprintf("Not%s", condType)
				}
			}
		}
	}

	if ready, ok := status["ready"].(bool); ok {
		if ready {
			return "Ready"
		}
		return "NotReady"
	}

	return "-"
}
