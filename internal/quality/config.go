package quality

// VolumePolicy controls how zero-session days participate in the
// volume-anomaly population statistics.
type VolumePolicy string

const (
	// VolumePolicyInclude keeps zero-session days in the mean/std
	// population, so a dead day is judged against everything else and
	// is very likely flagged anomalous.
	VolumePolicyInclude VolumePolicy = "include"

	// VolumePolicyExclude computes the population over days with at
	// least one session; zero-session days are still z-scored against
	// that baseline.
	VolumePolicyExclude VolumePolicy = "exclude"
)

// Config holds quality engine thresholds
type Config struct {
	BaselineWindow        int     // trailing days for rolling median baselines
	CompletenessThreshold float64 // below this, a day is tagged possible_purchase_outage
	VolumeZThreshold      float64 // |z| above this flags a volume anomaly
	DriftScore            float64 // schema score on drifted days
	AnomalyScore          float64 // volume score on anomalous days
	VolumePolicy          VolumePolicy
}

// DefaultConfig returns the standard thresholds
func DefaultConfig() Config {
	return Config{
		BaselineWindow:        7,
		CompletenessThreshold: 0.70,
		VolumeZThreshold:      2.8,
		DriftScore:            0.60,
		AnomalyScore:          0.55,
		VolumePolicy:          VolumePolicyInclude,
	}
}
