package quoting_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epublink/oferta-api/internal/application/quoting"
	"github.com/epublink/oferta-api/internal/domain"
	"github.com/epublink/oferta-api/internal/domain/catalog"
	"github.com/epublink/oferta-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Normalización de nombres de producto
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizeModuleName(t *testing.T) {
	cases := []struct {
		input    string
		expected catalog.ModuleKey
		ok       bool
	}{
		{"ePublink WPF", catalog.ModuleWPF, true},
		{"WPF", catalog.ModuleWPF, true},
		{"ePublink Budżet", catalog.ModuleBudzet, true},
		{"ePublink Budzet", catalog.ModuleBudzet, true}, // variante sin diacrítico
		{"EPUBLINK   UMOWY", catalog.ModuleUmowy, true},
		{"Umowa.", catalog.ModuleUmowy, true}, // singular con punto final
		{"ePublink SWB", catalog.ModuleSWB, true},
		{"Dodatkowi użytkownicy", "", false},
		{"Kompleksowa obsługa WPF", catalog.ModuleWPF, true}, // contiene WPF como palabra
		{"", "", false},
	}
	for _, tc := range cases {
		key, ok := quoting.NormalizeModuleName(tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
		assert.Equal(t, tc.expected, key, "input %q", tc.input)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación del plan
// ──────────────────────────────────────────────────────────────────────────────

func TestValidatePlan(t *testing.T) {
	company := &entity.CompanyContext{
		CompanyID:    "c-1",
		OwnedModules: []catalog.ModuleKey{catalog.ModuleUmowy},
	}

	base := func() *entity.QuoteBuildPlan {
		return &entity.QuoteBuildPlan{
			CompanyID: "c-1",
			Tier:      catalog.TierPlus,
			Modules:   []catalog.ModuleKey{catalog.ModuleWPF},
		}
	}

	t.Run("plan válido", func(t *testing.T) {
		require.NoError(t, quoting.ValidatePlan(base(), company))
	})

	t.Run("sin empresa", func(t *testing.T) {
		p := base()
		p.CompanyID = ""
		assert.ErrorIs(t, quoting.ValidatePlan(p, company), domain.ErrInvalidInput)
	})

	t.Run("tier desconocido", func(t *testing.T) {
		p := base()
		p.Tier = "Gold"
		assert.ErrorIs(t, quoting.ValidatePlan(p, company), domain.ErrUnknownTier)
	})

	t.Run("usuarios negativos", func(t *testing.T) {
		p := base()
		p.ExtraSeats = -1
		assert.ErrorIs(t, quoting.ValidatePlan(p, company), domain.ErrInvalidInput)
	})

	t.Run("módulo ya contratado", func(t *testing.T) {
		p := base()
		p.Modules = append(p.Modules, catalog.ModuleUmowy)
		assert.ErrorIs(t, quoting.ValidatePlan(p, company), domain.ErrModuleOwned)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Posiciones y nota
// ──────────────────────────────────────────────────────────────────────────────

// El rabat y la kompensata se materializan como pseudo-posiciones de descuento.
func TestBuildItems_DescuentosComoPseudoPosiciones(t *testing.T) {
	res := &entity.PricingResult{
		Lines: []entity.LineAmount{
			{ProductID: "p-1", Name: "ePublink WPF", Qty: 1, UnitPrice: pln(4690), LineTotal: pln(4690)},
		},
		BundleDiscount:  pln(300),
		ProrationCredit: pln(1820),
		NetPayable:      pln(2570),
	}

	items := quoting.BuildItems(res)
	require.Len(t, items, 3)

	assert.Equal(t, "p-1", items[0].ProductID)
	require.NotNil(t, items[0].UnitPrice)
	assert.True(t, pln(4690).Equal(*items[0].UnitPrice))

	assert.Equal(t, "Rabat pakietowy", items[1].Name)
	assert.True(t, pln(300).Equal(items[1].Discount))

	assert.Equal(t, "Kompensata za niewykorzystany okres", items[2].Name)
	assert.True(t, pln(1820).Equal(items[2].Discount))
}

// Sin rabat ni kompensata no se agregan pseudo-posiciones.
func TestBuildItems_SinDescuentos(t *testing.T) {
	res := &entity.PricingResult{
		Lines: []entity.LineAmount{
			{ProductID: "p-1", Name: "ePublink WPF", Qty: 1, UnitPrice: pln(3490), LineTotal: pln(3490)},
		},
		NetPayable: pln(3490),
	}
	items := quoting.BuildItems(res)
	assert.Len(t, items, 1)
}

func TestBuildNote_ResumenCompleto(t *testing.T) {
	company := &entity.CompanyContext{Name: "Gmina Testowa"}
	plan := &entity.QuoteBuildPlan{
		Tier:        catalog.TierPlus,
		PackageMode: true,
		Modules:     []catalog.ModuleKey{catalog.ModuleWPF},
		ExtraSeats:  2,
	}
	res := &entity.PricingResult{
		BundleDiscount:  pln(300),
		ProrationCredit: pln(1820),
		NetPayable:      pln(5770),
	}

	note := quoting.BuildNote(plan, company, res)
	assert.Contains(t, note, "Oferta dla: Gmina Testowa")
	assert.Contains(t, note, "Tier: Plus")
	assert.Contains(t, note, "Nowe moduły: WPF")
	assert.Contains(t, note, "Tryb: pakiet")
	assert.Contains(t, note, "Dodatkowi użytkownicy: 2")
	assert.Contains(t, note, "Rabat pakietowy: 300.00 PLN")
	assert.Contains(t, note, "Kompensata: 1820.00 PLN")
	assert.Contains(t, note, "Do zapłaty netto: 5770.00 PLN")
}

// ──────────────────────────────────────────────────────────────────────────────
// Fingerprint
// ──────────────────────────────────────────────────────────────────────────────

// El fingerprint ignora el orden de los módulos y distingue el día de inicio.
func TestFingerprint_DeterministaYSensibleAlDia(t *testing.T) {
	day1 := time.Date(2026, time.March, 1, 10, 30, 0, 0, time.UTC)
	day1bis := time.Date(2026, time.March, 1, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	base := func(start time.Time, mods ...catalog.ModuleKey) *entity.QuoteBuildPlan {
		return &entity.QuoteBuildPlan{
			CompanyID: "c-1",
			DealID:    "d-1",
			Tier:      catalog.TierPlus,
			Modules:   mods,
			StartDate: &start,
		}
	}

	a := quoting.Fingerprint(base(day1, catalog.ModuleWPF, catalog.ModuleSWB))
	b := quoting.Fingerprint(base(day1, catalog.ModuleSWB, catalog.ModuleWPF))
	assert.Equal(t, a, b, "el orden de los módulos no altera la huella")

	sameDay := quoting.Fingerprint(base(day1bis, catalog.ModuleWPF, catalog.ModuleSWB))
	assert.Equal(t, a, sameDay, "la hora dentro del mismo día no cuenta")

	nextDay := quoting.Fingerprint(base(day2, catalog.ModuleWPF, catalog.ModuleSWB))
	assert.NotEqual(t, a, nextDay, "otro día es otra huella")

	otherTier := base(day1, catalog.ModuleWPF, catalog.ModuleSWB)
	otherTier.Tier = catalog.TierPro
	assert.NotEqual(t, a, quoting.Fingerprint(otherTier))

	assert.Len(t, a, 16, "8 bytes de SHA-256 en hex")
}
