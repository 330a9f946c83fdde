package api

import (
	"context"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
)

// Usuario is a directory entry from the admin views.
type Usuario struct {
	ID    string   `json:"id"`
	Names string   `json:"nombres"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	Area  string   `json:"area,omitempty"`
}

// Area is an organizational unit.
type Area struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}

// TipoDocumento is a document type from the routing catalog.
type TipoDocumento struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}

// Estadisticas is the admin summary consumed by the stats view.
type Estadisticas struct {
	TotalTramites int            `json:"total_tramites"`
	PorEstado     map[string]int `json:"por_estado"`
	PorArea       map[string]int `json:"por_area"`
	GeneradoEn    time.Time      `json:"generado_en"`
}

// Usuarios lists the registered users. Admin only.
func (c *Client) Usuarios(ctx context.Context) ([]Usuario, error) {
	var items []Usuario
	if err := c.do(ctx, http.MethodGet, "/usuarios", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Areas lists the organizational units. The catalog changes rarely, so the
// result is cached with a TTL.
func (c *Client) Areas(ctx context.Context) ([]Area, error) {
	if x, found := c.catalogs.Get("areas"); found {
		return x.([]Area), nil
	}
	var items []Area
	if err := c.do(ctx, http.MethodGet, "/areas", nil, nil, &items); err != nil {
		return nil, err
	}
	c.catalogs.Set("areas", items, cache.DefaultExpiration)
	return items, nil
}

// TiposDocumento lists the document types. Cached like Areas.
func (c *Client) TiposDocumento(ctx context.Context) ([]TipoDocumento, error) {
	if x, found := c.catalogs.Get("tipos-documento"); found {
		return x.([]TipoDocumento), nil
	}
	var items []TipoDocumento
	if err := c.do(ctx, http.MethodGet, "/tipos-documento", nil, nil, &items); err != nil {
		return nil, err
	}
	c.catalogs.Set("tipos-documento", items, cache.DefaultExpiration)
	return items, nil
}

// EstadisticasResumen fetches the admin dashboard summary.
func (c *Client) EstadisticasResumen(ctx context.Context) (Estadisticas, error) {
	var stats Estadisticas
	if err := c.do(ctx, http.MethodGet, "/estadisticas/resumen", nil, nil, &stats); err != nil {
		return Estadisticas{}, err
	}
	return stats, nil
}
