package iiko

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

var (
	ErrConfigInvalid   = errors.New("iiko config invalid")
	ErrRequestFailed   = errors.New("iiko request failed")
	ErrResponseInvalid = errors.New("iiko response invalid")
	ErrUnauthorized    = errors.New("iiko unauthorized")
	ErrOrderNotFound   = errors.New("iiko order not found")
)

// Access tokens live around five minutes; refresh after four so a token is
// never presented close to expiry.
const tokenLifetime = 4 * time.Minute

const defaultTimeout = 15 * time.Second

// Config holds iiko Cloud API connection settings.
type Config struct {
	BaseURL         string
	APILogin        string
	OrganizationID  string
	TerminalGroupID string
	Timeout         time.Duration
}

// Client is an iiko Cloud API client with a cached access token.
type Client struct {
	cfg        Config
	httpClient *http.Client

	mu             sync.Mutex
	token          string
	tokenFetchedAt time.Time
}

// NewClient creates an iiko client.
func NewClient(cfg Config) (*Client, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.APILogin = strings.TrimSpace(cfg.APILogin)
	cfg.OrganizationID = strings.TrimSpace(cfg.OrganizationID)
	cfg.TerminalGroupID = strings.TrimSpace(cfg.TerminalGroupID)
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base_url is required", ErrConfigInvalid)
	}
	if cfg.APILogin == "" {
		return nil, fmt.Errorf("%w: api_login is required", ErrConfigInvalid)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// OrganizationID returns the configured organization id.
func (c *Client) OrganizationID() string {
	return c.cfg.OrganizationID
}

// TerminalGroupID returns the configured terminal group id.
func (c *Client) TerminalGroupID() string {
	return c.cfg.TerminalGroupID
}

// Nomenclature fetches the full menu snapshot.
func (c *Client) Nomenclature(ctx context.Context) (*Nomenclature, error) {
	var out Nomenclature
	params := map[string]interface{}{
		"organizationId": c.cfg.OrganizationID,
	}
	if err := c.postJSON(ctx, "/api/1/nomenclature", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StopLists fetches stop list balances for all terminal groups.
func (c *Client) StopLists(ctx context.Context) ([]StopListItem, error) {
	var out struct {
		TerminalGroupStopLists []struct {
			OrganizationID string `json:"organizationId"`
			Items          []struct {
				TerminalGroupID string         `json:"terminalGroupId"`
				Items           []StopListItem `json:"items"`
			} `json:"items"`
		} `json:"terminalGroupStopLists"`
	}
	params := map[string]interface{}{
		"organizationIds": []string{c.cfg.OrganizationID},
	}
	if err := c.postJSON(ctx, "/api/1/stop_lists", params, &out); err != nil {
		return nil, err
	}
	var items []StopListItem
	for _, org := range out.TerminalGroupStopLists {
		for _, group := range org.Items {
			items = append(items, group.Items...)
		}
	}
	return items, nil
}

// CreateDelivery submits a delivery order and returns the external order id.
func (c *Client) CreateDelivery(ctx context.Context, req CreateDeliveryRequest) (string, error) {
	order := map[string]interface{}{
		"phone": req.Phone,
		"items": req.Items,
	}
	if req.CustomerName != "" {
		order["customer"] = map[string]interface{}{"name": req.CustomerName}
	}
	if req.Comment != "" {
		order["comment"] = req.Comment
	}
	if req.OrderTypeID != "" {
		order["orderTypeId"] = req.OrderTypeID
	}
	if req.Address != "" {
		order["deliveryPoint"] = map[string]interface{}{
			"comment": req.Address,
		}
	}
	if req.CompleteAfter != nil {
		order["completeBefore"] = req.CompleteAfter.Format(timeLayout)
	}

	params := map[string]interface{}{
		"organizationId":  c.cfg.OrganizationID,
		"terminalGroupId": c.cfg.TerminalGroupID,
		"order":           order,
	}

	var out struct {
		OrderInfo struct {
			ID string `json:"id"`
		} `json:"orderInfo"`
	}
	if err := c.postJSON(ctx, "/api/1/deliveries/create", params, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.OrderInfo.ID) == "" {
		return "", fmt.Errorf("%w: empty order id", ErrResponseInvalid)
	}
	return out.OrderInfo.ID, nil
}

// DeliveryByID fetches the current state of an external delivery.
func (c *Client) DeliveryByID(ctx context.Context, orderID string) (*DeliveryStatus, error) {
	params := map[string]interface{}{
		"organizationIds": []string{c.cfg.OrganizationID},
		"orderIds":        []string{orderID},
	}
	var out struct {
		Orders []struct {
			ID    string `json:"id"`
			Order struct {
				Status         string  `json:"status"`
				WhenCreated    string  `json:"whenCreated"`
				CompleteBefore string  `json:"completeBefore"`
				WhenDelivered  string  `json:"whenDelivered"`
				Sum            float64 `json:"sum"`
			} `json:"order"`
		} `json:"orders"`
	}
	if err := c.postJSON(ctx, "/api/1/deliveries/by_id", params, &out); err != nil {
		return nil, err
	}
	if len(out.Orders) == 0 {
		return nil, ErrOrderNotFound
	}
	row := out.Orders[0]
	return &DeliveryStatus{
		ID:             row.ID,
		Status:         row.Order.Status,
		WhenCreated:    ParseTime(row.Order.WhenCreated),
		CompleteBefore: ParseTime(row.Order.CompleteBefore),
		WhenDelivered:  ParseTime(row.Order.WhenDelivered),
		Sum:            row.Order.Sum,
	}, nil
}

// CancelDelivery cancels an external delivery.
func (c *Client) CancelDelivery(ctx context.Context, orderID string) error {
	params := map[string]interface{}{
		"organizationId": c.cfg.OrganizationID,
		"orderId":        orderID,
	}
	var out map[string]interface{}
	return c.postJSON(ctx, "/api/1/deliveries/cancel", params, &out)
}

// CustomerInfo fetches a loyalty profile by phone.
func (c *Client) CustomerInfo(ctx context.Context, phone string) (*CustomerInfo, error) {
	params := map[string]interface{}{
		"phone":          phone,
		"type":           "phone",
		"organizationId": c.cfg.OrganizationID,
	}
	var out CustomerInfo
	if err := c.postJSON(ctx, "/api/1/loyalty/iiko/customer/info", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

const timeLayout = "2006-01-02 15:04:05.000"

// ParseTime parses the timestamp formats iiko uses, nil when empty or
// unrecognized.
func ParseTime(value string) *time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	layouts := []string{
		timeLayout,
		"2006-01-02 15:04:05",
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return &t
		}
	}
	return nil
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Since(c.tokenFetchedAt) < tokenLifetime {
		return c.token, nil
	}

	body, err := json.Marshal(map[string]string{"apiLogin": c.cfg.APILogin})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/1/access_token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token request status %d", ErrRequestFailed, resp.StatusCode)
	}

	var tokenResp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if strings.TrimSpace(tokenResp.Token) == "" {
		return "", fmt.Errorf("%w: empty token", ErrResponseInvalid)
	}

	c.token = tokenResp.Token
	c.tokenFetchedAt = time.Now()
	return c.token, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

func (c *Client) postJSON(ctx context.Context, path string, params map[string]interface{}, out interface{}) error {
	respBody, status, err := c.doPost(ctx, path, params)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		// Token expired server-side, refresh once and retry.
		c.invalidateToken()
		respBody, status, err = c.doPost(ctx, path, params)
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized {
			return ErrUnauthorized
		}
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("%w: %s status %d: %s", ErrRequestFailed, path, status, truncate(respBody, 256))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	return nil
}

func (c *Client) doPost(ctx context.Context, path string, params map[string]interface{}) ([]byte, int, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, 0, err
	}

	body, err := json.Marshal(params)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	return respBody, resp.StatusCode, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
