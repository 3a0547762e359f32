package geo

var codeNames = map[string]string{
	"at": "austria",
	"au": "australia",
	"be": "belgium",
	"br": "brazil",
	"ca": "canada",
	"ch": "switzerland",
	"de": "germany",
	"es": "spain",
	"fr": "france",
	"gb": "united kingdom",
	"ie": "ireland",
	"in": "india",
	"it": "italy",
	"lu": "luxembourg",
	"ma": "morocco",
	"mx": "mexico",
	"nl": "netherlands",
	"nz": "new zealand",
	"pl": "poland",
	"pt": "portugal",
	"sg": "singapore",
	"tn": "tunisia",
	"us": "united states",
	"za": "south africa",
}

// nameCodes holds English and French spellings, already folded
var nameCodes = map[string]string{
	"austria":                  "at",
	"autriche":                 "at",
	"australia":                "au",
	"australie":                "au",
	"belgium":                  "be",
	"belgique":                 "be",
	"brazil":                   "br",
	"bresil":                   "br",
	"canada":                   "ca",
	"switzerland":              "ch",
	"suisse":                   "ch",
	"germany":                  "de",
	"allemagne":                "de",
	"spain":                    "es",
	"espagne":                  "es",
	"france":                   "fr",
	"united kingdom":           "gb",
	"uk":                       "gb",
	"great britain":            "gb",
	"england":                  "gb",
	"royaume-uni":              "gb",
	"ireland":                  "ie",
	"irlande":                  "ie",
	"india":                    "in",
	"inde":                     "in",
	"italy":                    "it",
	"italie":                   "it",
	"luxembourg":               "lu",
	"morocco":                  "ma",
	"maroc":                    "ma",
	"mexico":                   "mx",
	"mexique":                  "mx",
	"netherlands":              "nl",
	"the netherlands":          "nl",
	"pays-bas":                 "nl",
	"new zealand":              "nz",
	"nouvelle-zelande":         "nz",
	"poland":                   "pl",
	"pologne":                  "pl",
	"portugal":                 "pt",
	"singapore":                "sg",
	"singapour":                "sg",
	"tunisia":                  "tn",
	"tunisie":                  "tn",
	"united states":            "us",
	"united states of america": "us",
	"usa":                      "us",
	"etats-unis":               "us",
	"south africa":             "za",
	"afrique du sud":           "za",
}
