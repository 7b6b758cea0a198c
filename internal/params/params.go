// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package params translates sampling parameters between the service-native
// vocabulary (the wire format) and the D-Wave vocabulary, and filters them
// against the parameters a specific device declares support for.
package params

import (
	"fmt"
	"sort"
	"strings"
)

// ShotsKey is the service-native name for the read count. It is lifted
// out of the device-parameter map into the top-level task request.
const ShotsKey = "shots"

// serviceToDWave enumerates the recognized keywords, service name to
// D-Wave name. Translation is total only over this table; anything else
// is rejected with an UnsupportedError rather than passed through, so a
// typo never reaches the remote API under a name no device recognizes.
var serviceToDWave = map[string]string{
	"annealingOffsets":                  "anneal_offsets",
	"annealingSchedule":                 "anneal_schedule",
	"annealingDuration":                 "annealing_time",
	"autoScale":                         "auto_scale",
	"beta":                              "beta",
	"chains":                            "chains",
	"compensateFluxDrift":               "flux_drift_compensation",
	"fluxBiases":                        "flux_biases",
	"initialState":                      "initial_state",
	"maxResults":                        "max_answers",
	"postprocessingType":                "postprocess",
	"programmingThermalizationDuration": "programming_thermalization",
	"readoutThermalizationDuration":     "readout_thermalization",
	"reduceIntersampleCorrelation":      "reduce_intersample_correlation",
	"reinitializeState":                 "reinitialize_state",
	"resultFormat":                      "answer_mode",
	"spinReversalTransformCount":        "num_spin_reversal_transforms",
	ShotsKey:                            "num_reads",
}

var dwaveToService = invert(serviceToDWave)

// uppercased lists the service keywords whose string values are
// case-insensitive enumerations on the D-Wave side but uppercase
// constants on the wire ("histogram" becomes "HISTOGRAM").
var uppercased = map[string]struct{}{
	"resultFormat":       {},
	"postprocessingType": {},
}

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// UnsupportedError reports a keyword outside the recognized vocabulary or
// outside the selected device's supported-parameter list. Fatal: raised
// before any remote call is made.
type UnsupportedError struct {
	Name string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("parameter %q not supported", e.Name)
}

// ToService translates D-Wave-format parameters into the service
// vocabulary. Unrecognized keywords are rejected.
func ToService(dwave map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(dwave))
	for name, value := range dwave {
		serviceName, ok := dwaveToService[name]
		if !ok {
			return nil, &UnsupportedError{Name: name}
		}
		out[serviceName] = normalizeValue(serviceName, value)
	}
	return out, nil
}

// ToDWave translates service-format parameters into the D-Wave
// vocabulary. Unrecognized keywords are rejected. Enumeration values go
// back to their lowercase D-Wave spellings ("HISTOGRAM" becomes
// "histogram").
func ToDWave(service map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(service))
	for name, value := range service {
		dwaveName, ok := serviceToDWave[name]
		if !ok {
			return nil, &UnsupportedError{Name: name}
		}
		if _, enum := uppercased[name]; enum {
			if s, ok := value.(string); ok {
				value = strings.ToLower(s)
			}
		}
		out[dwaveName] = value
	}
	return out, nil
}

func normalizeValue(serviceName string, value any) any {
	if _, ok := uppercased[serviceName]; !ok {
		return value
	}
	if s, ok := value.(string); ok {
		return strings.ToUpper(s)
	}
	return value
}

// CheckService verifies that every keyword is in the service vocabulary.
func CheckService(service map[string]any) error {
	for name := range service {
		if _, ok := serviceToDWave[name]; !ok {
			return &UnsupportedError{Name: name}
		}
	}
	return nil
}

// FilterSupported verifies service-format parameters against the
// device's declared supported-parameter list. Parameters the device does
// not support are rejected rather than forwarded. ShotsKey is always
// accepted: it belongs to the task request, not the device parameters.
func FilterSupported(service map[string]any, supported []string) error {
	set := make(map[string]struct{}, len(supported))
	for _, name := range supported {
		set[name] = struct{}{}
	}
	for name := range service {
		if name == ShotsKey {
			continue
		}
		if _, ok := set[name]; !ok {
			return &UnsupportedError{Name: name}
		}
	}
	return nil
}

// ExtractShots removes ShotsKey from the parameter map and returns its
// value as an int. The second return is false when no shot count was
// given. Map values decoded from YAML or JSON may arrive as float64.
func ExtractShots(service map[string]any) (int, bool, error) {
	raw, ok := service[ShotsKey]
	if !ok {
		return 0, false, nil
	}
	delete(service, ShotsKey)
	switch v := raw.(type) {
	case int:
		return v, true, nil
	case int64:
		return int(v), true, nil
	case float64:
		return int(v), true, nil
	default:
		return 0, false, fmt.Errorf("parameter %q: expected integer, got %T", ShotsKey, raw)
	}
}

// ServiceNames returns the recognized service-vocabulary keywords in
// ascending order.
func ServiceNames() []string {
	names := make([]string, 0, len(serviceToDWave))
	for name := range serviceToDWave {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DWaveNames returns the recognized D-Wave-vocabulary keywords in
// ascending order.
func DWaveNames() []string {
	names := make([]string, 0, len(dwaveToService))
	for name := range dwaveToService {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DWaveName returns the D-Wave spelling of a service keyword, or the
// keyword unchanged when it is outside the table. Used when reporting
// device capabilities in D-Wave form; reporting never drops data.
func DWaveName(serviceName string) string {
	if dwave, ok := serviceToDWave[serviceName]; ok {
		return dwave
	}
	return serviceName
}

// propertyToDWave renames device property fields for D-Wave-format
// introspection. Properties outside the table keep their service names.
var propertyToDWave = map[string]string{
	"qubitCount":             "num_qubits",
	"shotsRange":             "num_reads_range",
	"annealingDurationRange": "annealing_time_range",
	"postprocessingTypes":    "postprocessing_types",
	"resultFormats":          "answer_modes",
}

// PropertiesToDWave returns a copy of the device properties with field
// names translated to their D-Wave spellings where one exists.
func PropertiesToDWave(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for name, value := range props {
		if dwave, ok := propertyToDWave[name]; ok {
			name = dwave
		}
		out[name] = value
	}
	return out
}
