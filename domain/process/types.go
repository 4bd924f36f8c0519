package process

// ProcessType tags the model that produced a step result. Separation steps
// report Mixture, the same tag as a dilution.
type ProcessType string

const (
	Generic          ProcessType = "Generic Process"
	Mixture          ProcessType = "Mixture Process"
	SeparationSludge ProcessType = "Separation Sludge"
)

// DominantDistribution names the data source that dominates a removal-factor
// posterior.
type DominantDistribution string

const (
	Prior       DominantDistribution = "Prior"
	Literature  DominantDistribution = "Literature"
	CaseStudy   DominantDistribution = "Case Study"
	Combination DominantDistribution = "Combination"
)

// Result is the outcome of one treatment step. Removal factors are percent
// reductions relative to the step input and may be negative when the step
// raises the concentration. AverageOut is true when the removal draws were
// left unsorted, i.e. not correlated with the concentration ordering.
type Result struct {
	Type           ProcessType          `json:"process_type"`
	Output         []float64            `json:"output_concentration"`
	RemovalFactors []float64            `json:"removal_factors"`
	Dominant       DominantDistribution `json:"dominant_distribution"`
	AverageOut     bool                 `json:"average_out"`
}

// Len returns the ensemble size.
func (r Result) Len() int { return len(r.Output) }
