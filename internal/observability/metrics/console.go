// Package metrics emits the console's operational metrics through a statsd.Sink.
package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/wiqayah/admin-console/internal/observability/errors"
	"github.com/wiqayah/admin-console/internal/observability/statsd"
)

// Result tags.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// BackendCall describes one request to the platform REST API.
type BackendCall struct {
	Op       string
	Status   int // 0 when the request never got a response
	Duration time.Duration
	Err      error
}

// EmitBackendCall counts and times a backend request. Transport failures are
// tagged with the innermost error type.
func EmitBackendCall(sink statsd.Sink, in BackendCall) {
	if sink == nil {
		return
	}
	tags := map[string]string{"op": in.Op, "status_class": statusClass(in.Status)}
	if in.Err != nil {
		tags["result"] = ResultError
		tags["error_class"] = obserrors.Classify(in.Err)
	} else if in.Status >= 200 && in.Status < 300 {
		tags["result"] = ResultSuccess
	} else {
		tags["result"] = ResultError
	}

	sink.Count("backend.request", 1, tags)
	if in.Duration > 0 {
		sink.Timing("backend.duration", in.Duration, CloneTags(tags))
	}
}

func statusClass(status int) string {
	if status < 100 {
		return "none"
	}
	return strconv.Itoa(status/100) + "xx"
}

// EmitLogin counts one sign-in attempt by outcome ("success" or an error code
// such as "access_denied").
func EmitLogin(sink statsd.Sink, outcome string) {
	if sink == nil {
		return
	}
	if outcome == "" {
		outcome = ResultSuccess
	}
	sink.Count("login.attempt", 1, map[string]string{"outcome": outcome})
}

// CloneTags copies a tag map so sinks may retain it.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
