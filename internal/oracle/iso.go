package oracle

import (
	"fmt"
	"strings"
)

const flagCDN = "https://flagcdn.com/w%d/%s.png"

var isoCodes = map[string]string{
	"Algeria": "dz", "Argentina": "ar", "Australia": "au", "Austria": "at",
	"Belgium": "be", "Bolivia": "bo", "Bosnia and Herzegovina": "ba", "Brazil": "br",
	"Cameroon": "cm", "Canada": "ca", "Cape Verde": "cv", "Chile": "cl", "China": "cn",
	"Colombia": "co", "Costa Rica": "cr", "Croatia": "hr", "Czech Republic": "cz",
	"Denmark": "dk", "DR Congo": "cd", "Ecuador": "ec", "Egypt": "eg",
	"England": "gb-eng", "Finland": "fi", "France": "fr", "Germany": "de",
	"Ghana": "gh", "Greece": "gr", "Haiti": "ht", "Honduras": "hn", "Hungary": "hu",
	"Iceland": "is", "Iran": "ir", "Iraq": "iq", "Italy": "it", "Ivory Coast": "ci",
	"Jamaica": "jm", "Japan": "jp", "Jordan": "jo", "Mali": "ml", "Mexico": "mx",
	"Morocco": "ma", "Netherlands": "nl", "New Zealand": "nz", "Nigeria": "ng",
	"Northern Ireland": "gb-nir", "Norway": "no", "Panama": "pa", "Paraguay": "py",
	"Peru": "pe", "Poland": "pl", "Portugal": "pt", "Qatar": "qa",
	"Republic of Ireland": "ie", "Romania": "ro", "Russia": "ru",
	"Saudi Arabia": "sa", "Scotland": "gb-sct", "Senegal": "sn", "Serbia": "rs",
	"Slovakia": "sk", "Slovenia": "si", "South Africa": "za", "South Korea": "kr",
	"Spain": "es", "Sweden": "se", "Switzerland": "ch", "Tunisia": "tn",
	"Turkey": "tr", "Ukraine": "ua", "United States": "us", "Uruguay": "uy",
	"Uzbekistan": "uz", "Venezuela": "ve", "Wales": "gb-wls",

	// variações de nome
	"USA": "us", "Korea Republic": "kr", "Cote d'Ivoire": "ci", "Czechia": "cz",
	"Türkiye": "tr", "Cape Verde Islands": "cv", "Curacao": "cw", "Curaçao": "cw",
}

// ISOCode devolve o código usado pela CDN de bandeiras.
// Sem mapeamento, cai nas duas primeiras letras do nome.
func ISOCode(name string) string {
	if c, ok := isoCodes[name]; ok {
		return c
	}
	lower := strings.ToLower(name)
	if len(lower) > 2 {
		return lower[:2]
	}
	return lower
}

// FlagURL monta a URL da bandeira (largura 80px)
func FlagURL(iso string) string {
	return fmt.Sprintf(flagCDN, 80, iso)
}
