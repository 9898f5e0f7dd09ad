package model

// Option is a value/label pair offered by a select input.
type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

var StudentPrefixes = []Option{
	{Value: 1, Label: "เด็กชาย"},
	{Value: 2, Label: "เด็กหญิง"},
	{Value: 3, Label: "นาย"},
	{Value: 4, Label: "นางสาว"},
}

var GradeLevels = []Option{
	{Value: 1, Label: "ป.1"},
	{Value: 2, Label: "ป.2"},
	{Value: 3, Label: "ป.3"},
	{Value: 4, Label: "ป.4"},
	{Value: 5, Label: "ป.5"},
	{Value: 6, Label: "ป.6"},
	{Value: 7, Label: "ม.1"},
	{Value: 8, Label: "ม.2"},
	{Value: 9, Label: "ม.3"},
}

const (
	GenderMale   = 1
	GenderFemale = 2
)

var Genders = []Option{
	{Value: GenderMale, Label: "ชาย"},
	{Value: GenderFemale, Label: "หญิง"},
}

func LabelOf(options []Option, value int) (string, bool) {
	for _, o := range options {
		if o.Value == value {
			return o.Label, true
		}
	}
	return "", false
}
