package profile

import (
	"fmt"
	"math"

	"github.com/lacquerai/casegen/internal/sampler"
)

// Validate checks the profile for configuration errors and reports all of
// them at once as a *MultiError.
func (p *Profile) Validate() error {
	errs := &MultiError{}

	if p.CaseIDBase < 0 {
		errs.Add("case_id_base", "must not be negative, got %d", p.CaseIDBase)
	}

	validateTable(errs, "regions", p.Regions)
	validateTable(errs, "male_risk", p.MaleRisk)

	if len(p.Years) == 0 {
		errs.Add("years", "at least one year is required")
	}
	seen := make(map[int]bool, len(p.Years))
	total := 0
	for i, y := range p.Years {
		field := fmt.Sprintf("years[%d]", i)
		if y.Year < 1 || y.Year > 9999 {
			errs.Add(field, "year %d is outside 1..9999", y.Year)
		}
		if seen[y.Year] {
			errs.Add(field, "year %d is listed more than once", y.Year)
		}
		seen[y.Year] = true
		if y.Count < 0 {
			errs.Add(field, "count must not be negative, got %d", y.Count)
			continue
		}
		total += y.Count
	}
	if p.CaseIDBase >= 0 && total > 0 && p.CaseIDBase > math.MaxInt-total {
		errs.Add("case_id_base", "%d leaves no room for %d identifiers", p.CaseIDBase, total)
	}

	validateSex(errs, p.Sex)

	dist := sampler.BoundedNormal{
		Mean:        p.Age.Mean,
		StdDev:      p.Age.StdDev,
		Min:         p.Age.Min,
		Max:         p.Age.Max,
		MaxAttempts: p.Age.MaxAttempts,
	}
	if err := dist.Validate(); err != nil {
		errs.Add("age", "%v", err)
	}

	validateProbability(errs, "transmission.female_mother_to_child", p.Transmission.FemaleMotherToChild)
	validateProbability(errs, "transmission.male_needle_sharing", p.Transmission.MaleNeedleSharing)

	return errs.ErrorOrNil()
}

func validateTable(errs *MultiError, field string, table []Weighted) {
	values, weights := Values(table)
	if _, err := sampler.NewCategorical(values, weights); err != nil {
		errs.Add(field, "%v", err)
	}
	seen := make(map[string]bool, len(values))
	for i, v := range values {
		if v == "" {
			errs.Add(fmt.Sprintf("%s[%d]", field, i), "value must not be empty")
		}
		if seen[v] {
			errs.Add(fmt.Sprintf("%s[%d]", field, i), "duplicate value %q", v)
		}
		seen[v] = true
	}
}

func validateSex(errs *MultiError, s SexWeights) {
	for _, era := range []struct {
		name   string
		female float64
	}{
		{"sex.female_early", s.FemaleEarly},
		{"sex.female_late", s.FemaleLate},
	} {
		if !(era.female > 0) {
			errs.Add(era.name, "must be positive, got %v", era.female)
			continue
		}
		if !(s.Total-era.female > 0) {
			errs.Add(era.name, "leaves no male weight out of total %v", s.Total)
		}
	}
}

func validateProbability(errs *MultiError, field string, p float64) {
	if !(p >= 0 && p <= 1) {
		errs.Add(field, "must be within [0, 1], got %v", p)
	}
}
