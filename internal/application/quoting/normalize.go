package quoting

import (
	"strings"
	"unicode"

	"github.com/epublink/oferta-api/internal/domain/catalog"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics descompone a NFD y elimina las marcas combinantes
// (Budżet → Budzet). Los nombres de producto en el CRM vienen cargados a mano
// y mezclan variantes con y sin diacríticos.
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeModuleName mapea un nombre de producto del CRM a su clave de
// módulo (WPF/BUDZET/UMOWY/SWB). Devuelve false si no es un módulo principal.
func NormalizeModuleName(input string) (catalog.ModuleKey, bool) {
	if input == "" {
		return "", false
	}
	s, _, err := transform.String(stripDiacritics, input)
	if err != nil {
		s = input
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "EPUBLINK ")
	s = strings.Join(strings.Fields(s), " ")

	aliases := map[string]catalog.ModuleKey{
		"WPF":    catalog.ModuleWPF,
		"UMOWY":  catalog.ModuleUmowy,
		"UMOWA":  catalog.ModuleUmowy,
		"SWB":    catalog.ModuleSWB,
		"BUDZET": catalog.ModuleBudzet,
	}
	for _, f := range strings.Fields(s) {
		if key, ok := aliases[strings.TrimSuffix(f, ".")]; ok {
			return key, true
		}
	}
	return "", false
}

// splitCSV separa una property CSV del CRM en valores limpios.
func splitCSV(val string) []string {
	var out []string
	for _, s := range strings.Split(val, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
