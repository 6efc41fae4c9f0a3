package catalog

import "github.com/shopspring/decimal"

// Tier nivel de precios de la suscripción. Selecciona la columna
// de la matriz de precios por módulo.
type Tier string

const (
	TierSolo Tier = "Solo"
	TierPlus Tier = "Plus"
	TierPro  Tier = "Pro"
	TierMax  Tier = "Max"
)

// Tiers lista ordenada de tiers válidos.
var Tiers = []Tier{TierSolo, TierPlus, TierPro, TierMax}

// ParseTier valida el nombre del tier. Devuelve false si no existe.
func ParseTier(s string) (Tier, bool) {
	for _, t := range Tiers {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// ModuleKey clave corta de un producto principal (WPF, BUDZET, UMOWY, SWB).
type ModuleKey string

// ServiceKey clave corta de un servicio adicional.
type ServiceKey string

const (
	ModuleWPF    ModuleKey = "WPF"
	ModuleBudzet ModuleKey = "BUDZET"
	ModuleUmowy  ModuleKey = "UMOWY"
	ModuleSWB    ModuleKey = "SWB"
)

// Module un producto principal del catálogo. El productID del CRM depende del
// tier (cada combinación módulo×tier es un producto distinto en HubSpot).
type Module struct {
	Key        ModuleKey
	Label      string
	ProductIDs map[Tier]string
	Prices     map[Tier]decimal.Decimal
}

// Service un servicio adicional con precio único (sin matriz por tier).
type Service struct {
	Key       ServiceKey
	Label     string
	ProductID string
	Price     decimal.Decimal
}

// ExtraSeats precio por usuario adicional; la cantidad la elige el operador
// y el precio unitario depende del tier.
type ExtraSeats struct {
	Label     string
	ProductID string
	Prices    map[Tier]decimal.Decimal
}

// Catalog catálogo inmutable de módulos, servicios y usuarios adicionales.
// Se construye una sola vez en el arranque y se pasa explícitamente; nunca
// se muta ni se lee de estado global.
type Catalog struct {
	Modules    []Module
	Services   []Service
	ExtraSeats ExtraSeats
}

// Module busca un módulo por clave.
func (c *Catalog) Module(key ModuleKey) (Module, bool) {
	for _, m := range c.Modules {
		if m.Key == key {
			return m, true
		}
	}
	return Module{}, false
}

// Service busca un servicio por clave.
func (c *Catalog) Service(key ServiceKey) (Service, bool) {
	for _, s := range c.Services {
		if s.Key == key {
			return s, true
		}
	}
	return Service{}, false
}

func pln(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// Default devuelve el catálogo ePublink vigente. Los productIDs corresponden
// a los productos dados de alta en el portal HubSpot de producción.
func Default() *Catalog {
	return &Catalog{
		Modules: []Module{
			{
				Key: ModuleWPF, Label: "ePublink WPF",
				ProductIDs: map[Tier]string{
					TierSolo: "156989205705", TierPlus: "163991043301",
					TierPro: "163991043302", TierMax: "163991043303",
				},
				Prices: map[Tier]decimal.Decimal{
					TierSolo: pln(3490), TierPlus: pln(4690),
					TierPro: pln(6290), TierMax: pln(8490),
				},
			},
			{
				Key: ModuleBudzet, Label: "ePublink Budżet",
				ProductIDs: map[Tier]string{
					TierSolo: "157907854571", TierPlus: "163991043304",
					TierPro: "163991043305", TierMax: "163991043306",
				},
				Prices: map[Tier]decimal.Decimal{
					TierSolo: pln(2990), TierPlus: pln(3990),
					TierPro: pln(5390), TierMax: pln(7290),
				},
			},
			{
				Key: ModuleUmowy, Label: "ePublink Umowy",
				ProductIDs: map[Tier]string{
					TierSolo: "156989205704", TierPlus: "163991043307",
					TierPro: "163991043308", TierMax: "163991043309",
				},
				Prices: map[Tier]decimal.Decimal{
					TierSolo: pln(1990), TierPlus: pln(2690),
					TierPro: pln(3590), TierMax: pln(4890),
				},
			},
			{
				Key: ModuleSWB, Label: "ePublink SWB",
				ProductIDs: map[Tier]string{
					TierSolo: "156989205706", TierPlus: "163991043310",
					TierPro: "163991043311", TierMax: "163991043312",
				},
				Prices: map[Tier]decimal.Decimal{
					TierSolo: pln(2490), TierPlus: pln(3390),
					TierPro: pln(4590), TierMax: pln(6190),
				},
			},
		},
		Services: []Service{
			{Key: "OBS_WPF", Label: "Kompleksowa obsługa WPF", ProductID: "157907854575", Price: pln(2900)},
			{Key: "DLUG", Label: "Wsparcie w zakresie obsługi długu", ProductID: "156989205708", Price: pln(1900)},
			{Key: "OBS_WPF_FIN", Label: "Kompleksowa obsługa WPF wraz z rocznym wsparciem pozyskania finansowania", ProductID: "163991043317", Price: pln(9900)},
		},
		ExtraSeats: ExtraSeats{
			Label:     "Dodatkowi użytkownicy",
			ProductID: "157907854580",
			Prices: map[Tier]decimal.Decimal{
				TierSolo: pln(490), TierPlus: pln(690),
				TierPro: pln(890), TierMax: pln(1090),
			},
		},
	}
}
