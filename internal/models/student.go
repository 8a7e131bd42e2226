package models

// StudentRecord is one registered learner of the literacy programme.
// Age is a snapshot taken at registration and never recomputed.
type StudentRecord struct {
	ID               int64  `db:"id" json:"id"`
	Coordinator      string `db:"coordinator" json:"coordinator"`
	TeacherName      string `db:"teacher_name" json:"teacher_name"`
	TeacherFirstName string `db:"teacher_first_name" json:"teacher_first_name"`
	District         string `db:"district" json:"district"`
	Municipality     string `db:"municipality" json:"municipality"`
	School           string `db:"school" json:"school"`
	Chapter          string `db:"chapter" json:"chapter"`
	GroupNumber      string `db:"group_number" json:"group_number"`
	Level            string `db:"level" json:"level"`
	LastName         string `db:"last_name" json:"last_name"`
	FirstName        string `db:"first_name" json:"first_name"`
	BirthDate        string `db:"birth_date" json:"birth_date"`
	BirthPlace       string `db:"birth_place" json:"birth_place"`
	ContractNumber   string `db:"contract_number" json:"contract_number"`
	FatherName       string `db:"father_name" json:"father_name"`
	MotherLastName   string `db:"mother_last_name" json:"mother_last_name"`
	MotherFirstName  string `db:"mother_first_name" json:"mother_first_name"`
	Gender           string `db:"gender" json:"gender"`
	Age              int    `db:"age" json:"age"`
}

// StudentColumns lists the store columns in their fixed export order.
var StudentColumns = []string{
	"id",
	"coordinator",
	"teacher_name",
	"teacher_first_name",
	"district",
	"municipality",
	"school",
	"chapter",
	"group_number",
	"level",
	"last_name",
	"first_name",
	"birth_date",
	"birth_place",
	"contract_number",
	"father_name",
	"mother_last_name",
	"mother_first_name",
	"gender",
	"age",
}

// Values returns the record keyed by column name.
func (s StudentRecord) Values() map[string]interface{} {
	return map[string]interface{}{
		"id":                 s.ID,
		"coordinator":        s.Coordinator,
		"teacher_name":       s.TeacherName,
		"teacher_first_name": s.TeacherFirstName,
		"district":           s.District,
		"municipality":       s.Municipality,
		"school":             s.School,
		"chapter":            s.Chapter,
		"group_number":       s.GroupNumber,
		"level":              s.Level,
		"last_name":          s.LastName,
		"first_name":         s.FirstName,
		"birth_date":         s.BirthDate,
		"birth_place":        s.BirthPlace,
		"contract_number":    s.ContractNumber,
		"father_name":        s.FatherName,
		"mother_last_name":   s.MotherLastName,
		"mother_first_name":  s.MotherFirstName,
		"gender":             s.Gender,
		"age":                s.Age,
	}
}

// ArabicColumnLabels maps store columns to the headers of the exported sheet.
// The id column is intentionally absent and keeps its raw name.
var ArabicColumnLabels = map[string]string{
	"coordinator":        "المنسق",
	"teacher_name":       "لقب المعلم",
	"teacher_first_name": "اسم المعلم",
	"district":           "الدائرة",
	"municipality":       "البلدية",
	"school":             "مؤسسة التدريس",
	"chapter":            "الفصل",
	"group_number":       "الفوج",
	"level":              "المستوى",
	"last_name":          "اللقب",
	"first_name":         "الاسم",
	"birth_date":         "تاريخ الميلاد",
	"birth_place":        "مكان الميلاد",
	"contract_number":    "رقم العقد",
	"father_name":        "اسم الأب",
	"mother_last_name":   "لقب الأم",
	"mother_first_name":  "اسم الأم",
	"gender":             "الجنس",
	"age":                "العمر",
}
