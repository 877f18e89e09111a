package profile

// DefaultName is the name of the built-in profile.
const DefaultName = "default"

// Default returns the built-in profile: NCR-dominant regional weights, a
// rising yearly case count from 2010 to 2024 and a male-dominant sex split
// after 2012.
func Default() *Profile {
	return &Profile{
		Name:       DefaultName,
		CaseIDBase: 10000,
		Regions: []Weighted{
			{Value: "NCR", Weight: 45},
			{Value: "Region 4A", Weight: 20},
			{Value: "Region 3", Weight: 15},
			{Value: "Region 7", Weight: 8},
			{Value: "Region 11", Weight: 5},
			{Value: "Region 6", Weight: 4},
			{Value: "Region 12", Weight: 2},
			{Value: "Region 1", Weight: 1},
		},
		Years: []YearCount{
			{Year: 2010, Count: 50},
			{Year: 2011, Count: 60},
			{Year: 2012, Count: 70},
			{Year: 2013, Count: 100},
			{Year: 2014, Count: 120},
			{Year: 2015, Count: 150},
			{Year: 2016, Count: 180},
			{Year: 2017, Count: 200},
			{Year: 2018, Count: 220},
			{Year: 2019, Count: 250},
			{Year: 2020, Count: 190},
			{Year: 2021, Count: 280},
			{Year: 2022, Count: 320},
			{Year: 2023, Count: 380},
			{Year: 2024, Count: 430},
		},
		Sex: SexWeights{
			CutoffYear:  2012,
			Total:       100,
			FemaleEarly: 15,
			FemaleLate:  4,
		},
		Age: AgeDistribution{
			Mean:   27,
			StdDev: 7,
			Min:    15,
			Max:    70,
		},
		Transmission: TransmissionRates{
			FemaleMotherToChild: 0.05,
			MaleNeedleSharing:   0.02,
		},
		MaleRisk: []Weighted{
			{Value: "MSM", Weight: 81},
			{Value: "Bisexual", Weight: 10},
			{Value: "Heterosexual", Weight: 5},
			{Value: "Unknown", Weight: 4},
		},
	}
}
