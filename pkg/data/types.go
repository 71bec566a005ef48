package data

import (
	"time"
)

// Well-known status values. StatusRunning is the nominal pod phase;
// StatusNotRunning is the sentinel recorded when a targeted status query
// finds no such pod anymore.
const (
	StatusRunning    = "Running"
	StatusNotRunning = "Not Running"
)

// ResourceStatus is a generic snapshot of a Kubernetes resource. Unlike
// PodStatus it is deliberately minimal so it can represent any resource
// kind; append more fields here as checks need them.
type ResourceStatus struct {
	Namespace string
	Name      string
	Status    string
}

// PodStatus is a point-in-time snapshot of a single pod.
type PodStatus struct {
	Name      string
	Ready     string
	Status    string
	NodeName  string
	Namespace string
}

type NodeInfo struct {
	Name    string
	Status  string
	Created time.Time
}

type EventInfo struct {
	Namespace string
	LastSeen  time.Time
	Type      string
	Reason    string
	Object    string
	Message   string
	Count     int32
}

// DebugBundle is the failure payload handed to an artifact uploader: the
// describe-style dump of a failing pod plus the recent warning events from
// its namespace.
type DebugBundle struct {
	PodName   string
	Namespace string
	Describe  string
	Events    []EventInfo
}
