// Package supabase adaptador del backend hospedado: RPC de PostgREST y la tabla tb_products.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/controle-validade/internal/application/ports"
	"github.com/jhoicas/controle-validade/internal/domain"
	"github.com/jhoicas/controle-validade/internal/domain/entity"
	"github.com/jhoicas/controle-validade/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa ProductBackend.
var _ ports.ProductBackend = (*Client)(nil)

const (
	restPath      = "/rest/v1"
	productsTable = "tb_products"
	maxBody       = 4 << 20
)

// APIError error devuelto por PostgREST (cuerpo {code, message, details, hint}).
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase HTTP %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap traduce 401/403 a los errores de dominio.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	}
	return nil
}

// Client cliente HTTP de Supabase. El token del usuario viaja en el contexto
// (ports.WithAccessToken); sin token se usa la anon key.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el adaptador. timeout es el límite de red por petición.
func NewClient(baseURL, anonKey string, timeout time.Duration, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Component("supabase"),
	}
}

// ── RPC ──────────────────────────────────────────────────────────────────────

func (c *Client) ProductStats(ctx context.Context) ([]entity.ProductStats, error) {
	var out []entity.ProductStats
	if err := c.rpc(ctx, "get_product_stats", struct{}{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ProductsByStatus(ctx context.Context, status entity.Status, limit int) ([]entity.Product, error) {
	args := map[string]any{"filter_status": status.String(), "p_limit": limit}
	var out []entity.Product
	if err := c.rpc(ctx, "get_products_by_status", args, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AllProducts(ctx context.Context, limit int) ([]entity.Product, error) {
	var out []entity.Product
	if err := c.rpc(ctx, "get_all_products", map[string]any{"p_limit": limit}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ── Tabla tb_products ────────────────────────────────────────────────────────

func (c *Client) InsertProduct(ctx context.Context, in entity.ProductInput) error {
	return c.do(ctx, http.MethodPost, c.tableURL(nil), []entity.ProductInput{in}, "return=minimal", nil)
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in entity.ProductInput) (*entity.Product, error) {
	q := url.Values{"id": {"eq." + id}}
	var rows []entity.Product
	if err := c.do(ctx, http.MethodPatch, c.tableURL(q), in, "return=representation", &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return &rows[0], nil
}

func (c *Client) DeleteProducts(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = `"` + strings.ReplaceAll(id, `"`, `\"`) + `"`
	}
	q := url.Values{"id": {"in.(" + strings.Join(quoted, ",") + ")"}}
	return c.do(ctx, http.MethodDelete, c.tableURL(q), nil, "return=minimal", nil)
}

// ── Transporte ───────────────────────────────────────────────────────────────

func (c *Client) rpc(ctx context.Context, fn string, args, out any) error {
	return c.do(ctx, http.MethodPost, c.baseURL+restPath+"/rpc/"+fn, args, "", out)
}

func (c *Client) tableURL(q url.Values) string {
	u := c.baseURL + restPath + "/" + productsTable
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method, target string, payload any, prefer string, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("supabase: serializar request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("supabase: crear HTTP request: %w", err)
	}
	token := ports.AccessToken(ctx)
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("supabase: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("supabase: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("supabase: leer respuesta: %w", err)
	}
	c.log.Debug().
		Str("method", method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("petición a supabase")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(raw, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("supabase: deserializar respuesta: %w", err)
	}
	return nil
}
