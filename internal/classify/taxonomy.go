package classify

// TaxonomyRow is one rendered row of the standard aerodrome-warning
// element table.
type TaxonomyRow struct {
	SrNo          string `json:"sr_no"`
	Element       string `json:"element"`
	WarningTimes  string `json:"warning_times"`
	Accuracy      string `json:"accuracy"`
	ActualWeather string `json:"actual_weather"`
}

// Placeholder renders for every taxonomy cell that carries no observed data.
const Placeholder = "-"

// Row indices of the two taxonomy entries that ever receive observed data.
const (
	thunderstormRowIndex = 1
	windRowIndex         = 9
)

type taxonomyElement struct {
	srNo    string
	element string
}

// The standard warning-element table is fixed reference data. The strong
// surface wind entry spans two physical rows (speed and direction change),
// which is why fifteen rows carry fourteen serial numbers.
var taxonomyElements = [15]taxonomyElement{
	{"1.", "Tropical cyclone"},
	{"2.", "Thunderstorms"},
	{"3.", "Hail"},
	{"4.", "Snow"},
	{"5.", "Freezing precipitation"},
	{"6.", "Hoar frost or rime"},
	{"7.", "Dust storm"},
	{"8.", "Sandstorm"},
	{"9.", "Rising sand or dust"},
	{"10.", "Strong surface wind and gusts / Speed"},
	{"", "Direction change"},
	{"11.", "Squall"},
	{"12.", "Frost"},
	{"13.", "Volcanic ash"},
	{"14.", "Tsunami"},
}
