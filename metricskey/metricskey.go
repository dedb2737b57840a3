package metricskey

import "github.com/effective-security/metrics"

// Perf
var (
	// PerfKeyOperation is perf metric for key-object operations
	PerfKeyOperation = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_keymgmt",
		Help:         "perf_keymgmt provides the sample metrics of key management operations",
		RequiredTags: []string{"provider", "action"},
	}

	// PerfKeyMaterialize is perf metric for native key materialization
	PerfKeyMaterialize = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_key_materialize",
		Help:         "perf_key_materialize provides the sample metrics of native key construction",
		RequiredTags: []string{"provider", "keytype"},
	}
)

// Metrics returns slice of metrics from this repo
var Metrics = []*metrics.Describe{
	&PerfKeyOperation,
	&PerfKeyMaterialize,
}
