package penumbra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/bnema/animation-wardrobe/internal/ports"
	"github.com/google/uuid"
)

const (
	methodPrefix          = "Penumbra."
	methodApiVersion      = "Penumbra.ApiVersion"
	methodEnabledState    = "Penumbra.GetEnabledState"
	methodModList         = "Penumbra.GetModList"
	methodCollections     = "Penumbra.GetCollections.V5"
	methodCollection      = "Penumbra.GetCollection"
	methodSetCollection   = "Penumbra.SetCollection"
	methodModSettings     = "Penumbra.GetCurrentModSettings.V5"
	methodTrySetMod       = "Penumbra.TrySetMod.V5"
	methodTryInheritMod   = "Penumbra.TryInheritMod.V5"
	methodChangedItems    = "Penumbra.GetChangedItems"
	rpcPath               = "/rpc"
	maxRPCResponseBytes   = 4 << 20
	defaultRequestTimeout = 5 * time.Second
)

var ErrRemote = errors.New("mod service returned an error")

// Client calls the mod service through its JSON IPC bridge.
type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.ModService = Client{}

type rpcRequest struct {
	Method string `json:"method"`
	Params []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error,omitempty"`
}

type versionResult struct {
	Breaking int `json:"breaking"`
	Features int `json:"features"`
}

type collectionResult struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type setCollectionResult struct {
	Code     domain.ApiErrorCode `json:"code"`
	Previous *collectionResult   `json:"previous"`
}

type modSettingsResult struct {
	Code     domain.ApiErrorCode `json:"code"`
	Settings *struct {
		Enabled   bool                `json:"enabled"`
		Priority  int                 `json:"priority"`
		Options   map[string][]string `json:"options"`
		Inherited bool                `json:"inherited"`
	} `json:"settings"`
}

func (c Client) ApiVersion(ctx context.Context) (int, error) {
	var result versionResult
	if err := c.call(ctx, methodApiVersion, nil, &result); err != nil {
		return 0, err
	}

	return result.Breaking, nil
}

func (c Client) EnabledState(ctx context.Context) (bool, error) {
	var enabled bool
	if err := c.call(ctx, methodEnabledState, nil, &enabled); err != nil {
		return false, err
	}

	return enabled, nil
}

func (c Client) ModList(ctx context.Context) (map[string]string, error) {
	mods := map[string]string{}
	if err := c.call(ctx, methodModList, nil, &mods); err != nil {
		return nil, err
	}

	return mods, nil
}

func (c Client) Collections(ctx context.Context) (map[uuid.UUID]string, error) {
	var raw map[string]string
	if err := c.call(ctx, methodCollections, nil, &raw); err != nil {
		return nil, err
	}

	collections := make(map[uuid.UUID]string, len(raw))
	for key, name := range raw {
		id, err := uuid.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("decode collection id %q: %w", key, err)
		}
		collections[id] = name
	}

	return collections, nil
}

func (c Client) CurrentCollection(ctx context.Context, kind domain.CollectionType) (*domain.CollectionSnapshot, error) {
	var result *collectionResult
	if err := c.call(ctx, methodCollection, []any{kind}, &result); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	return &domain.CollectionSnapshot{ID: result.ID, Name: result.Name}, nil
}

func (c Client) SetCollection(ctx context.Context, kind domain.CollectionType, id uuid.UUID, allowCreate, allowDelete bool) (domain.ApiErrorCode, *domain.CollectionSnapshot, error) {
	var result setCollectionResult
	if err := c.call(ctx, methodSetCollection, []any{kind, id, allowCreate, allowDelete}, &result); err != nil {
		return domain.ApiUnknownError, nil, err
	}
	if result.Previous == nil {
		return result.Code, nil, nil
	}

	return result.Code, &domain.CollectionSnapshot{ID: result.Previous.ID, Name: result.Previous.Name}, nil
}

func (c Client) CurrentModSettings(ctx context.Context, collection uuid.UUID, modPath, modName string, ignoreInheritance bool) (domain.ApiErrorCode, *domain.ModSettings, error) {
	var result modSettingsResult
	if err := c.call(ctx, methodModSettings, []any{collection, modPath, modName, ignoreInheritance}, &result); err != nil {
		return domain.ApiUnknownError, nil, err
	}
	if result.Settings == nil {
		return result.Code, nil, nil
	}

	return result.Code, &domain.ModSettings{
		Enabled:   result.Settings.Enabled,
		Priority:  result.Settings.Priority,
		Options:   result.Settings.Options,
		Inherited: result.Settings.Inherited,
	}, nil
}

func (c Client) TrySetMod(ctx context.Context, collection uuid.UUID, modPath, modName string, enabled bool) (domain.ApiErrorCode, error) {
	var code domain.ApiErrorCode
	if err := c.call(ctx, methodTrySetMod, []any{collection, modPath, modName, enabled}, &code); err != nil {
		return domain.ApiUnknownError, err
	}

	return code, nil
}

func (c Client) TryInheritMod(ctx context.Context, collection uuid.UUID, modPath, modName string, inherit bool) (domain.ApiErrorCode, error) {
	var code domain.ApiErrorCode
	if err := c.call(ctx, methodTryInheritMod, []any{collection, modPath, modName, inherit}, &code); err != nil {
		return domain.ApiUnknownError, err
	}

	return code, nil
}

func (c Client) ChangedItems(ctx context.Context, modPath, modName string) (map[string]any, error) {
	items := map[string]any{}
	if err := c.call(ctx, methodChangedItems, []any{modPath, modName}, &items); err != nil {
		return nil, err
	}

	return items, nil
}

func (c Client) call(ctx context.Context, method string, params []any, result any) error {
	op := strings.TrimPrefix(method, methodPrefix)

	endpoint, err := buildURL(c.BaseURL, rpcPath, false)
	if err != nil {
		return err
	}
	if params == nil {
		params = []any{}
	}

	body, err := json.Marshal(rpcRequest{Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("encode %s request: %w", op, err)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var payload rpcResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxRPCResponseBytes)).Decode(&payload)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if decodeErr == nil && payload.Error != "" {
			return fmt.Errorf("call %s: status %d: %w: %s", op, resp.StatusCode, ErrRemote, payload.Error)
		}
		return fmt.Errorf("call %s: status %d", op, resp.StatusCode)
	}
	if decodeErr != nil {
		return fmt.Errorf("decode %s response: %w", op, decodeErr)
	}
	if payload.Error != "" {
		return fmt.Errorf("call %s: %w: %s", op, ErrRemote, payload.Error)
	}
	if result == nil || len(payload.Result) == 0 {
		return nil
	}

	if err := json.Unmarshal(payload.Result, result); err != nil {
		return fmt.Errorf("decode %s result: %w", op, err)
	}

	return nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func buildURL(baseURL string, path string, websocket bool) (string, error) {
	if baseURL == "" {
		return "", errors.New("mod service url is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse mod service url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("mod service url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("mod service url host is required")
	}

	endpoint := parsed.JoinPath(path)
	if websocket {
		endpoint.Scheme = strings.Replace(endpoint.Scheme, "http", "ws", 1)
	}

	return endpoint.String(), nil
}
