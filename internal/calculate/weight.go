package calculate

import "fmt"

const (
    // Correios volumetric divisor: (C x L x A) / 6000.
    cubicDivisor = 6000
    // Carrier ceiling for the declared (insured) value.
    maxDeclaredValue = 10000
)

// CartMetrics is the whole-cart summary submitted to the carrier: one capped
// declared value and one weight in kg.
type CartMetrics struct {
    DeclaredValue float64
    WeightKg      float64
}

// Aggregate computes the cart metrics. When subtotal is zero the declared
// value is summed from item prices. Each item contributes
// quantity x max(physical weight, cubic weight); an item with no usable
// dimensions keeps a cubic weight of 1 kg, so nothing is ever quoted as
// weightless.
func Aggregate(items []CartItem, subtotal float64) (CartMetrics, error) {
    m := CartMetrics{DeclaredValue: subtotal}
    for i, item := range items {
        if subtotal == 0 {
            m.DeclaredValue += item.Price * float64(item.Quantity)
        }

        var physical float64
        if item.Weight != nil && item.Weight.Value != 0 {
            kg, err := WeightKg(*item.Weight)
            if err != nil {
                return CartMetrics{}, fmt.Errorf("item %d: %w", i, err)
            }
            physical = kg
        }

        cubic := 1.0
        if item.Dimensions != nil {
            for _, side := range []*Measure{item.Dimensions.Height, item.Dimensions.Width, item.Dimensions.Length} {
                if side == nil || side.Value == 0 {
                    continue
                }
                cm, err := LengthCm(*side)
                if err != nil {
                    return CartMetrics{}, fmt.Errorf("item %d: %w", i, err)
                }
                cubic *= cm
            }
            // a degenerate product must not divide a nonzero weight down
            if cubic > 1 {
                cubic /= cubicDivisor
            }
        }

        if physical > cubic {
            m.WeightKg += float64(item.Quantity) * physical
        } else {
            m.WeightKg += float64(item.Quantity) * cubic
        }
    }
    if m.DeclaredValue > maxDeclaredValue {
        m.DeclaredValue = maxDeclaredValue
    }
    return m, nil
}
