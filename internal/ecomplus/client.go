package ecomplus

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "strconv"

    "go.uber.org/zap"

    "shippingbridge/internal/calculate"
)

const DefaultBaseURL = "https://api.e-com.plus/v1"

// Client reads store data from the order-platform API.
type Client struct {
    baseURL string
    appID   string
    http    *http.Client
    log     *zap.Logger
}

func NewClient(baseURL, appID string, log *zap.Logger) *Client {
    if baseURL == "" {
        baseURL = DefaultBaseURL
    }
    if log == nil {
        log = zap.NewNop()
    }
    return &Client{baseURL: baseURL, appID: appID, http: &http.Client{}, log: log}
}

// Order fetches the full order body for a trigger's resource id.
func (c *Client) Order(ctx context.Context, storeID int, orderID string) (*Order, error) {
    var order Order
    if err := c.getJSON(ctx, storeID, "/orders/"+orderID+".json", &order); err != nil {
        return nil, err
    }
    return &order, nil
}

// AppData reads this app's configuration for a store, merging data with
// hidden_data.
func (c *Client) AppData(ctx context.Context, storeID int) (*calculate.AppConfig, error) {
    var out struct {
        Result []struct {
            Data       json.RawMessage `json:"data"`
            HiddenData json.RawMessage `json:"hidden_data"`
        } `json:"result"`
    }
    path := "/applications.json?app_id=" + c.appID + "&fields=data,hidden_data"
    if err := c.getJSON(ctx, storeID, path, &out); err != nil {
        return nil, err
    }
    if len(out.Result) == 0 {
        return nil, errors.New("app not installed for store")
    }
    app := calculate.Application{
        Data:       out.Result[0].Data,
        HiddenData: out.Result[0].HiddenData,
    }
    cfg, err := app.Merged()
    if err != nil {
        return nil, err
    }
    return &cfg, nil
}

func (c *Client) getJSON(ctx context.Context, storeID int, path string, v any) error {
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
    if err != nil {
        return err
    }
    req.Header.Set("X-Store-ID", strconv.Itoa(storeID))
    resp, err := c.http.Do(req)
    if err != nil {
        return err
    }
    defer resp.Body.Close()
    body, err := io.ReadAll(resp.Body)
    if err != nil {
        return err
    }
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        return fmt.Errorf("store api responded %d for %s", resp.StatusCode, path)
    }
    return json.Unmarshal(body, v)
}
