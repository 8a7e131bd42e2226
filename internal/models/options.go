package models

// Option lists offered by the registration form. Values are stored verbatim,
// including the decorative tatweel used in the district names.
var (
	Districts = []string{
		"عين جاســر", "عين التوتـة", "آريــس", "بريكـة", "باتنـة", "بوزينـة", "الشمــرة",
		"الجـزار", "المعــذر", "إشمـول", "منعـــة", "مروانـة", "نقـاوس", "أولاد سي سليمان",
		"رأس العيـون", "سقـانــة", "سريانــة", "تازولــت", "ثنيـة العـابـد", "تيمقــاد", "تكـوت",
	}

	// Chapters are urban, semi-urban and rural.
	Chapters = []string{"حضري", "شبه حضري", "ريفي"}

	Groups = []string{"1", "2"}

	// Levels are first, second and third.
	Levels = []string{"الأول", "الثاني", "الثالث"}

	// Genders are male and female.
	Genders = []string{"ذكر", "أنثى"}
)

// FormOptions bundles every closed list for clients building the entry form.
type FormOptions struct {
	Districts []string `json:"districts"`
	Chapters  []string `json:"chapters"`
	Groups    []string `json:"groups"`
	Levels    []string `json:"levels"`
	Genders   []string `json:"genders"`
}

// DefaultFormOptions returns copies of the option lists.
func DefaultFormOptions() FormOptions {
	return FormOptions{
		Districts: append([]string(nil), Districts...),
		Chapters:  append([]string(nil), Chapters...),
		Groups:    append([]string(nil), Groups...),
		Levels:    append([]string(nil), Levels...),
		Genders:   append([]string(nil), Genders...),
	}
}

// Institution is the banner shown on the intro screen.
type Institution struct {
	Republic string `json:"republic"`
	Ministry string `json:"ministry"`
	Office   string `json:"office"`
	Annex    string `json:"annex"`
}

// DefaultInstitution is the Batna annex of the national literacy office.
var DefaultInstitution = Institution{
	Republic: "الجمهورية الجزائرية الديمقراطية الشعبية",
	Ministry: "وزارة التربية الوطنية",
	Office:   "الديوان الوطني لمحو الأمية و تعليم الكبار",
	Annex:    "ملحقة باتنة",
}
