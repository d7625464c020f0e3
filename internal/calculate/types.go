package calculate

import (
    "encoding/json"
    "strings"
)

// Carrier is the display name attached to every assembled offer.
const Carrier = "Correios (Manda Bem)"

// Measure is a value with its declared unit.
// Weight units: kg, g, mg. Length units: cm, m, mm.
type Measure struct {
    Value float64 `json:"value"`
    Unit  string  `json:"unit,omitempty"`
}

type Dimensions struct {
    Height *Measure `json:"height,omitempty"`
    Width  *Measure `json:"width,omitempty"`
    Length *Measure `json:"length,omitempty"`
}

// CartItem is one line of the cart being quoted. Immutable input.
type CartItem struct {
    Name       string      `json:"name,omitempty"`
    Price      float64     `json:"price"`
    Quantity   int         `json:"quantity"`
    Weight     *Measure    `json:"weight,omitempty"`
    Dimensions *Dimensions `json:"dimensions,omitempty"`
}

type Address struct {
    Zip          string `json:"zip"`
    Name         string `json:"name,omitempty"`
    Street       string `json:"street,omitempty"`
    Number       int    `json:"number,omitempty"`
    Complement   string `json:"complement,omitempty"`
    Borough      string `json:"borough,omitempty"`
    City         string `json:"city,omitempty"`
    Province     string `json:"province,omitempty"`
    ProvinceCode string `json:"province_code,omitempty"`
}

// ZipRange is an inclusive postal-code interval; either bound may be absent.
type ZipRange struct {
    Min *int `json:"min,omitempty"`
    Max *int `json:"max,omitempty"`
}

type RuleDiscount struct {
    Value      float64 `json:"value"`
    Percentage bool    `json:"percentage,omitempty"`
}

// ShippingRule is one merchant-configured pricing rule. Rules are evaluated
// in declaration order and the first match wins.
type ShippingRule struct {
    Service      string        `json:"service,omitempty"`
    ZipRange     *ZipRange     `json:"zip_range,omitempty"`
    FreeShipping bool          `json:"free_shipping,omitempty"`
    MinAmount    float64       `json:"min_amount,omitempty"`
    Discount     *RuleDiscount `json:"discount,omitempty"`
}

// ServiceDescriptor names one carrier service the merchant wants quoted.
type ServiceDescriptor struct {
    ServiceName string `json:"service_name"`
    Label       string `json:"label,omitempty"`
}

// Deadline is a day count used for both delivery time and posting deadline.
type Deadline struct {
    Days          int  `json:"days"`
    WorkingDays   bool `json:"working_days,omitempty"`
    AfterApproval bool `json:"after_approval,omitempty"`
}

// AppConfig is the merchant configuration for this app, already merged from
// the platform's data and hidden_data objects.
type AppConfig struct {
    MandaBemID            string              `json:"mandabem_id"`
    MandaBemKey           string              `json:"mandabem_key"`
    Zip                   string              `json:"zip,omitempty"`
    ShippingRules         []ShippingRule      `json:"shipping_rules,omitempty"`
    Services              []ServiceDescriptor `json:"services,omitempty"`
    AdditionalPrice       float64             `json:"additional_price,omitempty"`
    PostingDeadline       *Deadline           `json:"posting_deadline,omitempty"`
    FreeShippingFromValue *float64            `json:"free_shipping_from_value,omitempty"`
    DisableAutoTag        bool                `json:"disable_auto_tag,omitempty"`
}

type Params struct {
    From     *Address   `json:"from,omitempty"`
    To       *Address   `json:"to,omitempty"`
    Items    []CartItem `json:"items,omitempty"`
    Subtotal float64    `json:"subtotal,omitempty"`
}

// Application carries the merchant configuration as the platform sends it:
// public data plus hidden_data, the latter taking precedence.
type Application struct {
    Data       json.RawMessage `json:"data,omitempty"`
    HiddenData json.RawMessage `json:"hidden_data,omitempty"`
}

// Merged unmarshals data then hidden_data over the same struct, so hidden
// fields override public ones key by key.
func (a Application) Merged() (AppConfig, error) {
    var cfg AppConfig
    if len(a.Data) > 0 {
        if err := json.Unmarshal(a.Data, &cfg); err != nil {
            return AppConfig{}, err
        }
    }
    if len(a.HiddenData) > 0 {
        if err := json.Unmarshal(a.HiddenData, &cfg); err != nil {
            return AppConfig{}, err
        }
    }
    return cfg, nil
}

// Request is the inbound calculate-shipping payload.
type Request struct {
    Params      Params      `json:"params"`
    Application Application `json:"application"`
}

type Package struct {
    Weight Measure `json:"weight"`
}

type Additional struct {
    Tag   string  `json:"tag"`
    Label string  `json:"label"`
    Price float64 `json:"price"`
}

// ShippingLine is the priced line attached to one offer.
type ShippingLine struct {
    From             *Address     `json:"from,omitempty"`
    To               *Address     `json:"to,omitempty"`
    Price            float64      `json:"price"`
    DeclaredValue    float64      `json:"declared_value,omitempty"`
    Discount         float64      `json:"discount"`
    TotalPrice       float64      `json:"total_price"`
    DeliveryTime     Deadline     `json:"delivery_time"`
    PostingDeadline  Deadline     `json:"posting_deadline"`
    Package          Package      `json:"package"`
    OtherAdditionals []Additional `json:"other_additionals,omitempty"`
    Flags            []string     `json:"flags,omitempty"`
}

// ShippingService is one assembled offer.
type ShippingService struct {
    Label        string       `json:"label"`
    Carrier      string       `json:"carrier"`
    ServiceName  string       `json:"service_name"`
    ShippingLine ShippingLine `json:"shipping_line"`
}

// Response is the outbound calculate-shipping payload.
type Response struct {
    ShippingServices      []ShippingService `json:"shipping_services"`
    FreeShippingFromValue *float64          `json:"free_shipping_from_value,omitempty"`
}

// Error codes surfaced to the platform.
const (
    CodeAuthErr      = "CALCULATE_AUTH_ERR"
    CodeErr          = "CALCULATE_ERR"
    CodeEmptyCart    = "CALCULATE_EMPTY_CART"
    CodeFailed       = "CALCULATE_FAILED"
    CodeInvalidItems = "CALCULATE_INVALID_ITEMS"
)

// CalcError is a terminal calculation outcome with its HTTP status.
type CalcError struct {
    Status  int
    Code    string
    Message string
}

func (e *CalcError) Error() string {
    return e.Code + ": " + e.Message
}

// Digits strips every non-digit rune, normalizing zip codes and documents.
func Digits(s string) string {
    return strings.Map(func(r rune) rune {
        if r >= '0' && r <= '9' {
            return r
        }
        return -1
    }, s)
}
