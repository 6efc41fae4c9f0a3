package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	CORS    CORSConfig
	HubSpot HubSpotConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CORSConfig orígenes permitidos para el frontend embebido en el CRM.
// AllowedOrigins es CSV; admite comodines de subdominio (ej: *.hs-sites.com).
// Vacío = modo abierto "*" (solo para pruebas).
type CORSConfig struct {
	AllowedOrigins string
}

// Origins devuelve la lista limpia de orígenes configurados.
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// HubSpotConfig credenciales y parámetros del CRM.
// Los IDs de tipo de asociación y la plantilla de quote varían por portal,
// por eso se inyectan aquí y no se escriben en el orquestador.
type HubSpotConfig struct {
	BaseURL     string // ej: https://api.hubapi.com
	Token       string // token de private app (Bearer estático)
	MaxAttempts int    // intentos totales del cliente ante 429/5xx
	BackoffUnit time.Duration

	QuoteTemplateID string // vacío = no asociar plantilla

	Associations AssociationSchema
}

// AssociationSchema IDs de tipo de asociación HUBSPOT_DEFINED por par de objetos.
type AssociationSchema struct {
	QuoteToDeal     int
	QuoteToLineItem int
	QuoteToTemplate int
	QuoteToCompany  int
	QuoteToContact  int
	NoteToQuote     int
	NoteToDeal      int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, HUBSPOT_PRIVATE_APP_TOKEN, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "oferta-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		CORS: CORSConfig{
			AllowedOrigins: getString(v, "ALLOWED_ORIGINS", getString(v, "ALLOWED_ORIGIN", "")),
		},
		HubSpot: HubSpotConfig{
			BaseURL:         getString(v, "HUBSPOT_BASE_URL", "https://api.hubapi.com"),
			Token:           getString(v, "HUBSPOT_PRIVATE_APP_TOKEN", ""),
			MaxAttempts:     getInt(v, "HUBSPOT_MAX_ATTEMPTS", 5),
			BackoffUnit:     time.Second,
			QuoteTemplateID: getString(v, "HUBSPOT_QUOTE_TEMPLATE_ID", ""),
			Associations: AssociationSchema{
				QuoteToDeal:     getInt(v, "HS_ASSOC_QUOTE_DEAL", 64),
				QuoteToLineItem: getInt(v, "HS_ASSOC_QUOTE_LINE_ITEM", 67),
				QuoteToTemplate: getInt(v, "HS_ASSOC_QUOTE_TEMPLATE", 286),
				QuoteToCompany:  getInt(v, "HS_ASSOC_QUOTE_COMPANY", 71),
				QuoteToContact:  getInt(v, "HS_ASSOC_QUOTE_CONTACT", 69),
				NoteToQuote:     getInt(v, "HS_ASSOC_NOTE_QUOTE", 228),
				NoteToDeal:      getInt(v, "HS_ASSOC_NOTE_DEAL", 214),
			},
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
