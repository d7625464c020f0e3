package mandabem

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strconv"
    "strings"

    "go.uber.org/zap"

    "shippingbridge/internal/calculate"
)

const DefaultBaseURL = "https://mandabem.com.br"

// Default package dimensions sent to the WS, in cm.
const (
    packageHeightCm = 2
    packageWidthCm  = 11
    packageLengthCm = 16
)

// Credentials identify the merchant on the Manda Bem WS.
type Credentials struct {
    ID  string
    Key string
}

// Client talks to the Manda Bem web service (Correios reseller). All calls
// are form-encoded POSTs; the WS answers JSON, occasionally double-encoded
// as a string.
type Client struct {
    baseURL string
    http    *http.Client
    log     *zap.Logger
}

func NewClient(baseURL string, log *zap.Logger) *Client {
    if baseURL == "" {
        baseURL = DefaultBaseURL
    }
    if log == nil {
        log = zap.NewNop()
    }
    return &Client{baseURL: baseURL, http: &http.Client{}, log: log}
}

// wsResult is the WS response envelope: rates keyed by service name, or an
// "error" entry carrying a message.
type wsResult struct {
    Resultado map[string]json.RawMessage `json:"resultado"`
}

func (r wsResult) errMsg() string {
    raw, ok := r.Resultado["error"]
    if !ok {
        return ""
    }
    var s string
    if err := json.Unmarshal(raw, &s); err == nil {
        return s
    }
    return strings.TrimSpace(string(raw))
}

type serviceRate struct {
    Valor json.RawMessage `json:"valor"`
    Prazo json.RawMessage `json:"prazo"`
}

// Quote requests the price for one service. A successful body without the
// service key yields calculate.ErrNoRate.
func (c *Client) Quote(ctx context.Context, p calculate.QuoteParams, service string) (*calculate.ServiceQuote, error) {
    form := url.Values{}
    form.Set("plataforma_id", p.PlatformID)
    form.Set("plataforma_chave", p.PlatformKey)
    form.Set("cep_origem", p.OriginZip)
    form.Set("cep_destino", p.DestinationZip)
    form.Set("valor_seguro", strconv.FormatFloat(p.DeclaredValue, 'f', 2, 64))
    form.Set("peso", strconv.FormatFloat(p.WeightKg, 'f', -1, 64))
    form.Set("altura", strconv.Itoa(packageHeightCm))
    form.Set("largura", strconv.Itoa(packageWidthCm))
    form.Set("comprimento", strconv.Itoa(packageLengthCm))
    form.Set("servico", service)

    status, body, err := c.postForm(ctx, "/ws/valor_envio", form)
    if err != nil {
        return nil, err
    }

    ws, perr := decodeResult(body)
    if status < 200 || status >= 300 {
        if perr == nil {
            if msg := ws.errMsg(); msg != "" {
                return nil, errors.New(msg)
            }
        }
        return nil, fmt.Errorf("mandabem ws responded %d", status)
    }
    if perr != nil {
        // 2xx with a body we cannot parse: surface the raw payload
        return nil, errors.New(strings.TrimSpace(string(body)))
    }
    if msg := ws.errMsg(); msg != "" {
        return nil, errors.New(msg)
    }

    raw, ok := ws.Resultado[service]
    if !ok {
        return nil, calculate.ErrNoRate
    }
    var rate serviceRate
    if err := json.Unmarshal(raw, &rate); err != nil {
        return nil, fmt.Errorf("decode %s rate: %w", service, err)
    }
    price, ok := asFloat(rate.Valor)
    if !ok {
        return nil, fmt.Errorf("unreadable valor for %s", service)
    }
    days, ok := asFloat(rate.Prazo)
    if !ok {
        return nil, fmt.Errorf("unreadable prazo for %s", service)
    }
    return &calculate.ServiceQuote{Price: price, DeliveryDays: int(days)}, nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) (int, []byte, error) {
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
    if err != nil {
        return 0, nil, err
    }
    req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
    resp, err := c.http.Do(req)
    if err != nil {
        return 0, nil, err
    }
    defer resp.Body.Close()
    body, err := io.ReadAll(resp.Body)
    if err != nil {
        return 0, nil, err
    }
    return resp.StatusCode, body, nil
}

// decodeResult parses a WS body, unwrapping one level of string encoding
// when the WS double-encodes its JSON.
func decodeResult(body []byte) (wsResult, error) {
    raw := body
    var s string
    if err := json.Unmarshal(body, &s); err == nil {
        raw = []byte(s)
    }
    var ws wsResult
    if err := json.Unmarshal(raw, &ws); err != nil {
        return wsResult{}, err
    }
    return ws, nil
}

// asFloat reads a WS number that may arrive as a JSON number or as a string,
// with comma decimals.
func asFloat(raw json.RawMessage) (float64, bool) {
    if len(raw) == 0 {
        return 0, false
    }
    var n json.Number
    if err := json.Unmarshal(raw, &n); err == nil {
        if f, ferr := n.Float64(); ferr == nil {
            return f, true
        }
    }
    var s string
    if err := json.Unmarshal(raw, &s); err == nil {
        s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
        if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
            return f, true
        }
    }
    return 0, false
}
