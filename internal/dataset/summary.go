package dataset

import (
	"cmp"
	"slices"
	"strings"
)

// Count is the number of rows sharing one value.
type Count struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// Summary aggregates a dataset the way the dashboard cards present it.
type Summary struct {
	Total      int     `json:"total" yaml:"total"`
	Male       int     `json:"male" yaml:"male"`
	Female     int     `json:"female" yaml:"female"`
	TopRegion  *Count  `json:"top_region,omitempty" yaml:"top_region,omitempty"`
	BySex      []Count `json:"by_sex" yaml:"by_sex"`
	ByRegion   []Count `json:"by_region" yaml:"by_region"`
	ByYear     []Count `json:"by_year" yaml:"by_year"`
	ByAgeGroup []Count `json:"by_age_group" yaml:"by_age_group"`
	ByMode     []Count `json:"by_mode" yaml:"by_mode"`
	ByRisk     []Count `json:"by_risk" yaml:"by_risk"`
}

// Summarize counts the rows of t. Missing values are counted as "Unknown".
func Summarize(t *Table) Summary {
	tally := func(column string, key func(string) string) map[string]int {
		m := make(map[string]int)
		for _, row := range t.Rows {
			v := row[column]
			if key != nil {
				v = key(v)
			}
			if v == "" {
				v = "Unknown"
			}
			m[v]++
		}
		return m
	}

	bySex := tally("Sex", nil)
	byRegion := tally("Region", nil)

	s := Summary{
		Total:      len(t.Rows),
		Male:       bySex["Male"],
		Female:     bySex["Female"],
		BySex:      byCount(bySex),
		ByRegion:   byCount(byRegion),
		ByYear:     byValue(tally("Diagnosis_Date", yearOf)),
		ByAgeGroup: byCount(tally("Age_Group", nil)),
		ByMode:     byCount(tally("Mode_of_Transmission", nil)),
		ByRisk:     byCount(tally("Risk_Category", nil)),
	}
	if len(s.ByRegion) > 0 {
		top := s.ByRegion[0]
		s.TopRegion = &top
	}
	return s
}

func yearOf(date string) string {
	year, _, _ := strings.Cut(date, "-")
	return year
}

// byCount orders counts descending, breaking ties by value.
func byCount(m map[string]int) []Count {
	out := toCounts(m)
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
	return out
}

func byValue(m map[string]int) []Count {
	out := toCounts(m)
	slices.SortFunc(out, func(a, b Count) int {
		return cmp.Compare(a.Value, b.Value)
	})
	return out
}

func toCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for v, n := range m {
		out = append(out, Count{Value: v, Count: n})
	}
	return out
}
