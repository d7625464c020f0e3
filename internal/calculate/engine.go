package calculate

import (
    "context"
    "errors"
    "net/http"
    "sync"

    "go.uber.org/zap"
)

// QuoteParams carries the merchant identity and aggregated cart metrics for
// one carrier pricing request.
type QuoteParams struct {
    PlatformID     string
    PlatformKey    string
    OriginZip      string
    DestinationZip string
    DeclaredValue  float64
    WeightKg       float64
}

// ServiceQuote is one carrier price for a single service.
type ServiceQuote struct {
    Price        float64
    DeliveryDays int
}

// ErrNoRate marks a carrier response that succeeded but carried no rate for
// the requested service. It produces neither an offer nor a recorded error.
var ErrNoRate = errors.New("carrier returned no rate for service")

// Quoter issues one carrier pricing request for one service.
type Quoter interface {
    Quote(ctx context.Context, p QuoteParams, service string) (*ServiceQuote, error)
}

var defaultServices = []ServiceDescriptor{
    {ServiceName: "PAC"},
    {ServiceName: "SEDEX"},
}

// Engine turns a cart plus merchant configuration into priced shipping
// offers, fanning out one quote request per configured service.
type Engine struct {
    quoter Quoter
    log    *zap.Logger
}

func NewEngine(q Quoter, log *zap.Logger) *Engine {
    if log == nil {
        log = zap.NewNop()
    }
    return &Engine{quoter: q, log: log}
}

// Calculate runs one full calculation and terminates with exactly one
// outcome: a response or a CalcError.
func (e *Engine) Calculate(ctx context.Context, req Request) (*Response, *CalcError) {
    app, err := req.Application.Merged()
    if err != nil {
        return nil, &CalcError{http.StatusBadRequest, CodeErr, "cannot parse application data: " + err.Error()}
    }

    if app.MandaBemID == "" || app.MandaBemKey == "" {
        return nil, &CalcError{http.StatusConflict, CodeAuthErr,
            "ID or key unset on app hidden data (merchant must configure the app)"}
    }

    resp := &Response{ShippingServices: []ShippingService{}}
    if app.FreeShippingFromValue != nil && *app.FreeShippingFromValue >= 0 {
        resp.FreeShippingFromValue = app.FreeShippingFromValue
    }

    var destZip string
    if req.Params.To != nil {
        destZip = Digits(req.Params.To.Zip)
    }
    if hint := FreeShippingHint(app.ShippingRules, destZip); hint != nil {
        if resp.FreeShippingFromValue == nil || *resp.FreeShippingFromValue > *hint {
            resp.FreeShippingFromValue = hint
        }
    }

    if req.Params.To == nil {
        // free shipping preview only, no destination to quote against
        return resp, nil
    }

    var originZip string
    if req.Params.From != nil {
        originZip = Digits(req.Params.From.Zip)
    }
    if originZip == "" {
        originZip = Digits(app.Zip)
    }
    if originZip == "" {
        return nil, &CalcError{http.StatusConflict, CodeErr,
            "Zip code is unset on app hidden data (merchant must configure the app)"}
    }

    if len(req.Params.Items) == 0 {
        return nil, &CalcError{http.StatusBadRequest, CodeEmptyCart,
            "Cannot calculate shipping without cart items"}
    }

    metrics, merr := Aggregate(req.Params.Items, req.Params.Subtotal)
    if merr != nil {
        return nil, &CalcError{http.StatusBadRequest, CodeInvalidItems, merr.Error()}
    }

    services := app.Services
    if len(services) == 0 || services[0].ServiceName == "" {
        services = defaultServices
    }

    params := QuoteParams{
        PlatformID:     app.MandaBemID,
        PlatformKey:    app.MandaBemKey,
        OriginZip:      originZip,
        DestinationZip: destZip,
        DeclaredValue:  metrics.DeclaredValue,
        WeightKg:       metrics.WeightKg,
    }

    // One request per service; each settles into its own slot so the final
    // response is assembled in configured-service order regardless of which
    // request finishes first.
    type settled struct {
        quote *ServiceQuote
        err   error
    }
    results := make([]settled, len(services))
    var wg sync.WaitGroup
    for i, svc := range services {
        wg.Add(1)
        go func(i int, name string) {
            defer wg.Done()
            q, qerr := e.quoter.Quote(ctx, params, name)
            results[i] = settled{quote: q, err: qerr}
        }(i, svc.ServiceName)
    }
    wg.Wait()

    var firstErr error
    for i, svc := range services {
        r := results[i]
        if r.err != nil {
            if errors.Is(r.err, ErrNoRate) {
                e.log.Debug("no rate for service", zap.String("service", svc.ServiceName))
                continue
            }
            e.log.Warn("carrier quote failed",
                zap.String("service", svc.ServiceName), zap.Error(r.err))
            if firstErr == nil {
                firstErr = r.err
            }
            continue
        }
        if r.quote == nil {
            continue
        }
        resp.ShippingServices = append(resp.ShippingServices,
            buildOffer(req.Params, app, svc, metrics, originZip, destZip, r.quote))
    }

    if len(resp.ShippingServices) == 0 && firstErr != nil {
        return nil, &CalcError{http.StatusConflict, CodeFailed, firstErr.Error()}
    }
    return resp, nil
}

func buildOffer(p Params, app AppConfig, svc ServiceDescriptor, m CartMetrics, originZip, destZip string, q *ServiceQuote) ShippingService {
    from := &Address{Zip: originZip}
    if p.From != nil {
        f := *p.From
        f.Zip = originZip
        from = &f
    }

    posting := Deadline{Days: 3}
    if app.PostingDeadline != nil {
        posting = *app.PostingDeadline
        if posting.Days == 0 {
            posting.Days = 3
        }
    }

    line := ShippingLine{
        From:            from,
        To:              p.To,
        Price:           q.Price,
        DeclaredValue:   m.DeclaredValue,
        TotalPrice:      q.Price,
        DeliveryTime:    Deadline{Days: q.DeliveryDays, WorkingDays: true},
        PostingDeadline: posting,
        Package:         Package{Weight: Measure{Value: m.WeightKg, Unit: "kg"}},
        Flags:           []string{"mandabem-ws"},
    }

    ApplyRuleDiscount(app.ShippingRules, svc.ServiceName, destZip, m.DeclaredValue, &line)

    if app.AdditionalPrice != 0 {
        if app.AdditionalPrice > 0 {
            line.OtherAdditionals = append(line.OtherAdditionals, Additional{
                Tag:   "additional_price",
                Label: "Adicional padrão",
                Price: app.AdditionalPrice,
            })
        } else {
            line.Discount -= app.AdditionalPrice
        }
        line.TotalPrice += app.AdditionalPrice
        if line.TotalPrice < 0 {
            line.TotalPrice = 0
        }
    }

    label := svc.ServiceName
    if svc.Label != "" {
        label = svc.Label
    }
    return ShippingService{
        Label:        label,
        Carrier:      Carrier,
        ServiceName:  svc.ServiceName,
        ShippingLine: line,
    }
}
