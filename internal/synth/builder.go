package synth

import (
	"fmt"
	"math/rand/v2"

	"github.com/lacquerai/casegen/internal/profile"
	"github.com/lacquerai/casegen/internal/sampler"
)

// Builder produces single case records from a compiled profile. It holds no
// mutable state, so one Builder can serve any number of records.
type Builder struct {
	regions  *sampler.Categorical[string]
	maleRisk *sampler.Categorical[string]
	sexEarly *sampler.Categorical[string]
	sexLate  *sampler.Categorical[string]
	cutoff   int
	age      sampler.BoundedNormal
	motherP  float64
	needlesP float64
}

// NewBuilder validates p and compiles its tables into samplers.
func NewBuilder(p *profile.Profile) (*Builder, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	regions, regionWeights := profile.Values(p.Regions)
	risks, riskWeights := profile.Values(p.MaleRisk)
	sexes := []string{SexMale, SexFemale}
	early := p.Sex.CutoffYear
	late := p.Sex.CutoffYear + 1

	b := &Builder{cutoff: p.Sex.CutoffYear}
	var err error
	if b.regions, err = sampler.NewCategorical(regions, regionWeights); err != nil {
		return nil, fmt.Errorf("regions: %w", err)
	}
	if b.maleRisk, err = sampler.NewCategorical(risks, riskWeights); err != nil {
		return nil, fmt.Errorf("male_risk: %w", err)
	}
	if b.sexEarly, err = sampler.NewCategorical(sexes, []float64{p.Sex.MaleWeight(early), p.Sex.FemaleWeight(early)}); err != nil {
		return nil, fmt.Errorf("sex: %w", err)
	}
	if b.sexLate, err = sampler.NewCategorical(sexes, []float64{p.Sex.MaleWeight(late), p.Sex.FemaleWeight(late)}); err != nil {
		return nil, fmt.Errorf("sex: %w", err)
	}

	b.age = sampler.BoundedNormal{
		Mean:        p.Age.Mean,
		StdDev:      p.Age.StdDev,
		Min:         p.Age.Min,
		Max:         p.Age.Max,
		MaxAttempts: p.Age.MaxAttempts,
	}
	b.motherP = p.Transmission.FemaleMotherToChild
	b.needlesP = p.Transmission.MaleNeedleSharing
	return b, nil
}

// Build returns one record for year carrying the identifier id.
func (b *Builder) Build(rng *rand.Rand, year, id int) (CaseRecord, error) {
	rec, _, err := b.build(rng, year, id)
	return rec, err
}

// build also returns the hidden numeric age.
func (b *Builder) build(rng *rand.Rand, year, id int) (CaseRecord, int, error) {
	rec := CaseRecord{CaseID: id}

	rec.Region = b.regions.Pick(rng)
	rec.Sex = b.sexFor(year).Pick(rng)

	age, err := b.age.Draw(rng)
	if err != nil {
		return CaseRecord{}, 0, fmt.Errorf("case %d: age: %w", id, err)
	}
	rec.AgeGroup = AgeGroup(age)

	rec.ModeOfTransmission = ModeSexualContact
	if rec.Sex == SexFemale {
		rec.RiskCategory = RiskHeterosexual
		if sampler.Bernoulli(rng, b.motherP) {
			rec.ModeOfTransmission = ModeMotherToChild
		}
	} else {
		if sampler.Bernoulli(rng, b.needlesP) {
			rec.ModeOfTransmission = ModeNeedles
		}
		rec.RiskCategory = b.maleRisk.Pick(rng)
	}

	rec.DiagnosisDate = sampler.UniformDate(rng, year)
	return rec, age, nil
}

func (b *Builder) sexFor(year int) *sampler.Categorical[string] {
	if year <= b.cutoff {
		return b.sexEarly
	}
	return b.sexLate
}
