package synth

import "strconv"

// Sex values.
const (
	SexMale   = "Male"
	SexFemale = "Female"
)

// Mode of transmission values.
const (
	ModeSexualContact = "Sexual Contact"
	ModeNeedles       = "Sharing of Infected Needles"
	ModeMotherToChild = "Mother-to-Child"
)

// RiskHeterosexual is the fixed risk category of female records.
const RiskHeterosexual = "Heterosexual"

// Age groups.
const (
	AgeUnder15 = "<15"
	Age15To24  = "15-24"
	Age25To34  = "25-34"
	Age35To49  = "35-49"
	Age50Plus  = "50+"
)

// AgeGroups lists every age group in ascending order.
var AgeGroups = []string{AgeUnder15, Age15To24, Age25To34, Age35To49, Age50Plus}

// Header is the fixed column header of a dataset file.
var Header = []string{
	"Case_ID",
	"Diagnosis_Date",
	"Region",
	"Sex",
	"Age_Group",
	"Mode_of_Transmission",
	"Risk_Category",
}

// CaseRecord is one synthesized case.
type CaseRecord struct {
	CaseID             int    `json:"Case_ID" yaml:"case_id"`
	DiagnosisDate      string `json:"Diagnosis_Date" yaml:"diagnosis_date"`
	Region             string `json:"Region" yaml:"region"`
	Sex                string `json:"Sex" yaml:"sex"`
	AgeGroup           string `json:"Age_Group" yaml:"age_group"`
	ModeOfTransmission string `json:"Mode_of_Transmission" yaml:"mode_of_transmission"`
	RiskCategory       string `json:"Risk_Category" yaml:"risk_category"`
}

// Fields returns the record's values in Header order.
func (r CaseRecord) Fields() []string {
	return []string{
		strconv.Itoa(r.CaseID),
		r.DiagnosisDate,
		r.Region,
		r.Sex,
		r.AgeGroup,
		r.ModeOfTransmission,
		r.RiskCategory,
	}
}

// AgeGroup maps a numeric age to its bucket.
func AgeGroup(age int) string {
	switch {
	case age < 15:
		return AgeUnder15
	case age <= 24:
		return Age15To24
	case age <= 34:
		return Age25To34
	case age <= 49:
		return Age35To49
	default:
		return Age50Plus
	}
}
