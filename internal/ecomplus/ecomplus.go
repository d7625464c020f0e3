package ecomplus

import (
    "encoding/json"

    "shippingbridge/internal/calculate"
)

// Trigger is the platform notification delivered to the webhook endpoint.
type Trigger struct {
    Resource   string          `json:"resource"`
    ResourceID string          `json:"resource_id"`
    Body       json.RawMessage `json:"body,omitempty"`
}

type FulfillmentStatus struct {
    Current string `json:"current"`
}

type OrderItem struct {
    Name       string   `json:"name,omitempty"`
    Quantity   int      `json:"quantity"`
    Price      float64  `json:"price"`
    FinalPrice *float64 `json:"final_price,omitempty"`
}

type Buyer struct {
    RegistryType string `json:"registry_type,omitempty"`
    DocNumber    string `json:"doc_number,omitempty"`
}

// LineApp identifies which app produced a shipping line and for which
// carrier service.
type LineApp struct {
    ServiceName string `json:"service_name,omitempty"`
}

type OrderShippingLine struct {
    App           *LineApp           `json:"app,omitempty"`
    From          *calculate.Address `json:"from,omitempty"`
    To            *calculate.Address `json:"to,omitempty"`
    Package       *calculate.Package `json:"package,omitempty"`
    DeclaredValue float64            `json:"declared_value,omitempty"`
}

// Order is the subset of the platform order body the bridge reads.
type Order struct {
    ID                string              `json:"_id"`
    Number            int                 `json:"number,omitempty"`
    Items             []OrderItem         `json:"items,omitempty"`
    Buyers            []Buyer             `json:"buyers,omitempty"`
    ShippingLines     []OrderShippingLine `json:"shipping_lines,omitempty"`
    FulfillmentStatus *FulfillmentStatus  `json:"fulfillment_status,omitempty"`
}
