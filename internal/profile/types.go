package profile

// Profile is the complete, read-only set of parameters for one dataset
// generation run.
type Profile struct {
	// Name identifies the profile in logs and output.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	// CaseIDBase is the identifier assigned to the first generated record.
	CaseIDBase int `yaml:"case_id_base" json:"case_id_base"`
	// Regions lists the region outcomes and their relative weights.
	Regions []Weighted `yaml:"regions" json:"regions" jsonschema:"minItems=1"`
	// Years maps each generated year to its number of records, in generation order.
	Years []YearCount `yaml:"years" json:"years" jsonschema:"minItems=1"`
	// Sex holds the era-dependent sex weighting.
	Sex SexWeights `yaml:"sex" json:"sex"`
	// Age is the distribution the hidden numeric age is drawn from.
	Age AgeDistribution `yaml:"age" json:"age"`
	// Transmission holds the mode override probabilities.
	Transmission TransmissionRates `yaml:"transmission" json:"transmission"`
	// MaleRisk lists the risk categories drawn for male records.
	MaleRisk []Weighted `yaml:"male_risk" json:"male_risk" jsonschema:"minItems=1"`
}

// Weighted is a categorical outcome with its relative weight.
type Weighted struct {
	// Value is the emitted outcome.
	Value string `yaml:"value" json:"value" jsonschema:"minLength=1"`
	// Weight is the outcome's relative weight; it must be positive.
	Weight float64 `yaml:"weight" json:"weight" jsonschema:"exclusiveMinimum=0"`
}

// YearCount is the number of records generated for one calendar year.
type YearCount struct {
	// Year is the calendar year every record of this entry falls in.
	Year int `yaml:"year" json:"year" jsonschema:"minimum=1"`
	// Count is the number of records generated for the year.
	Count int `yaml:"count" json:"count" jsonschema:"minimum=0"`
}

// SexWeights splits the sex distribution into two eras around a cutoff year.
type SexWeights struct {
	// CutoffYear is the last year of the early era.
	CutoffYear int `yaml:"cutoff_year" json:"cutoff_year"`
	// Total is the combined weight of both sexes; male weight is Total minus female weight.
	Total float64 `yaml:"total" json:"total" jsonschema:"exclusiveMinimum=0"`
	// FemaleEarly is the female weight for years on or before the cutoff.
	FemaleEarly float64 `yaml:"female_early" json:"female_early" jsonschema:"exclusiveMinimum=0"`
	// FemaleLate is the female weight for years after the cutoff.
	FemaleLate float64 `yaml:"female_late" json:"female_late" jsonschema:"exclusiveMinimum=0"`
}

// FemaleWeight returns the female weight in effect for year.
func (s SexWeights) FemaleWeight(year int) float64 {
	if year <= s.CutoffYear {
		return s.FemaleEarly
	}
	return s.FemaleLate
}

// MaleWeight returns the male weight in effect for year.
func (s SexWeights) MaleWeight(year int) float64 {
	return s.Total - s.FemaleWeight(year)
}

// AgeDistribution describes the normal distribution of the hidden age and
// the inclusive bounds draws must fall in.
type AgeDistribution struct {
	Mean   float64 `yaml:"mean" json:"mean"`
	StdDev float64 `yaml:"stddev" json:"stddev" jsonschema:"exclusiveMinimum=0"`
	Min    int     `yaml:"min" json:"min"`
	Max    int     `yaml:"max" json:"max"`
	// MaxAttempts bounds the re-sampling loop; zero selects the default bound.
	MaxAttempts int `yaml:"max_attempts,omitempty" json:"max_attempts,omitempty" jsonschema:"minimum=0"`
}

// TransmissionRates are the probabilities of overriding the default
// "Sexual Contact" mode.
type TransmissionRates struct {
	// FemaleMotherToChild is the probability a female record is Mother-to-Child.
	FemaleMotherToChild float64 `yaml:"female_mother_to_child" json:"female_mother_to_child" jsonschema:"minimum=0,maximum=1"`
	// MaleNeedleSharing is the probability a male record is Sharing of Infected Needles.
	MaleNeedleSharing float64 `yaml:"male_needle_sharing" json:"male_needle_sharing" jsonschema:"minimum=0,maximum=1"`
}

// TotalCount returns the number of records the profile generates.
func (p *Profile) TotalCount() int {
	total := 0
	for _, y := range p.Years {
		total += y.Count
	}
	return total
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Regions = append([]Weighted(nil), p.Regions...)
	c.Years = append([]YearCount(nil), p.Years...)
	c.MaleRisk = append([]Weighted(nil), p.MaleRisk...)
	return &c
}

// Values splits a weighted table into its outcomes and weights.
func Values(table []Weighted) ([]string, []float64) {
	values := make([]string, len(table))
	weights := make([]float64, len(table))
	for i, w := range table {
		values[i] = w.Value
		weights[i] = w.Weight
	}
	return values, weights
}
