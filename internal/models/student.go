package models

// Plan is the schedule a student is enrolled in.
type Plan string

const (
	PlanDaily     Plan = "diario"
	PlanWeekend   Plan = "fin_de_semana"
	PlanExecutive Plan = "ejecutivo"

	// PlanAll selects every student when listing.
	PlanAll Plan = "todos"
)

// AdultAge is the age from which guardians are not recorded.
const AdultAge = 18

// Valid reports whether p names an enrollable plan.
func (p Plan) Valid() bool {
	switch p {
	case PlanDaily, PlanWeekend, PlanExecutive:
		return true
	}
	return false
}

// Student is a registered student as returned by the school API. Carnet is
// assigned by the API and is the identifier used for payments.
type Student struct {
	ID               int64   `json:"id"`
	Carnet           string  `json:"carnet"`
	Names            string  `json:"names"`
	Lastnames        string  `json:"lastnames"`
	Age              int     `json:"age"`
	CUI              string  `json:"cui"`
	Phone            string  `json:"phone"`
	IsAdult          bool    `json:"is_adult"`
	Plan             Plan    `json:"plan"`
	Guardian1Name    *string `json:"guardian1_name,omitempty"`
	Guardian1Phone   *string `json:"guardian1_phone,omitempty"`
	Guardian2Name    *string `json:"guardian2_name,omitempty"`
	Guardian2Phone   *string `json:"guardian2_phone,omitempty"`
	PhotoURL         *string `json:"photo_url,omitempty"`
	RegistrationDate *string `json:"registration_date,omitempty"`
}

// FullName joins names and last names.
func (s Student) FullName() string {
	switch {
	case s.Lastnames == "":
		return s.Names
	case s.Names == "":
		return s.Lastnames
	}
	return s.Names + " " + s.Lastnames
}

// StudentInput is the body submitted to create a student.
type StudentInput struct {
	Names          string  `json:"names"`
	Lastnames      string  `json:"lastnames"`
	Age            int     `json:"age"`
	CUI            string  `json:"cui"`
	Phone          string  `json:"phone"`
	IsAdult        bool    `json:"is_adult"`
	Plan           Plan    `json:"plan"`
	Guardian1Name  *string `json:"guardian1_name,omitempty"`
	Guardian1Phone *string `json:"guardian1_phone,omitempty"`
	Guardian2Name  *string `json:"guardian2_name,omitempty"`
	Guardian2Phone *string `json:"guardian2_phone,omitempty"`
	PhotoURL       *string `json:"photo_url,omitempty"`
}
