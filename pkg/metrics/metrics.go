// Copyright 2025 TaskHub Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// CapabilityChecksTotal counts capability check outcomes per operation.
	CapabilityChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_capability_checks_total",
			Help: "Total number of capability checks by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// TransitionRejectionsTotal counts rejected lifecycle transitions.
	TransitionRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifecycle_transition_rejections_total",
			Help: "Total number of rejected lifecycle transitions by entity",
		},
		[]string{"entity"},
	)
)

var registerOnce sync.Once

// Register registers all collectors with the default registry.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			CapabilityChecksTotal,
			TransitionRejectionsTotal,
		)
	})
}

// RecordCheck records a capability check outcome.
func RecordCheck(operation string, allowed bool) {
	outcome := "allowed"
	if !allowed {
		outcome = "denied"
	}
	CapabilityChecksTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordRejectedTransition records a rejected lifecycle transition.
func RecordRejectedTransition(entity string) {
	TransitionRejectionsTotal.WithLabelValues(entity).Inc()
}
