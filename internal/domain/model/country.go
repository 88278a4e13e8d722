package model

// Country is a static reference-data entry for the address forms.
type Country struct {
	Code string `json:"code"` // ISO 3166-1 alpha-3
	Name string `json:"name"`
}

// Countries is the selectable country list, German-speaking area first.
var Countries = []Country{
	{"DEU", "Deutschland"},
	{"AUT", "Österreich"},
	{"CHE", "Schweiz"},
	{"BEL", "Belgien"},
	{"BGR", "Bulgarien"},
	{"CZE", "Tschechien"},
	{"DNK", "Dänemark"},
	{"ESP", "Spanien"},
	{"EST", "Estland"},
	{"FIN", "Finnland"},
	{"FRA", "Frankreich"},
	{"GBR", "Vereinigtes Königreich"},
	{"GRC", "Griechenland"},
	{"HUN", "Ungarn"},
	{"IRL", "Irland"},
	{"ITA", "Italien"},
	{"LTU", "Litauen"},
	{"LUX", "Luxemburg"},
	{"LVA", "Lettland"},
	{"NLD", "Niederlande"},
	{"NOR", "Norwegen"},
	{"POL", "Polen"},
	{"PRT", "Portugal"},
	{"ROU", "Rumänien"},
	{"RUS", "Russland"},
	{"SVK", "Slowakei"},
	{"SVN", "Slowenien"},
	{"SWE", "Schweden"},
	{"TUR", "Türkei"},
	{"UKR", "Ukraine"},
	{"USA", "Vereinigte Staaten"},
}

// ValidCountry reports whether code is part of the reference data.
func ValidCountry(code string) bool {
	for _, c := range Countries {
		if c.Code == code {
			return true
		}
	}
	return false
}
