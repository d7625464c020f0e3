package calculate

import "strconv"

// MatchesZip reports whether the rule applies to the destination zip
// (digits only). An absent destination or an absent range always matches;
// an absent bound imposes no constraint on its side.
func (r ShippingRule) MatchesZip(destZip string) bool {
    if destZip == "" || r.ZipRange == nil {
        return true
    }
    n, err := strconv.Atoi(destZip)
    if err != nil {
        return true
    }
    if r.ZipRange.Min != nil && n < *r.ZipRange.Min {
        return false
    }
    if r.ZipRange.Max != nil && n > *r.ZipRange.Max {
        return false
    }
    return true
}

// FreeShippingHint returns the lowest free-shipping threshold among rules
// matching the destination, or nil when none match. A matching rule without
// min_amount means free shipping from zero and stops the scan.
func FreeShippingHint(rules []ShippingRule, destZip string) *float64 {
    var hint *float64
    for _, rule := range rules {
        if !rule.FreeShipping || !rule.MatchesZip(destZip) {
            continue
        }
        if rule.MinAmount == 0 {
            zero := 0.0
            return &zero
        }
        if hint == nil || *hint > rule.MinAmount {
            v := rule.MinAmount
            hint = &v
        }
    }
    return hint
}

// ApplyRuleDiscount applies the first rule matching the service, destination
// and declared value to the shipping line and reports whether one matched.
// Later rules are never consulted, even when the matching rule carries no
// discount action.
func ApplyRuleDiscount(rules []ShippingRule, service, destZip string, declaredValue float64, line *ShippingLine) bool {
    for _, rule := range rules {
        if rule.Service != "" && rule.Service != service {
            continue
        }
        if !rule.MatchesZip(destZip) {
            continue
        }
        if rule.MinAmount > declaredValue {
            continue
        }
        if rule.FreeShipping {
            line.Discount += line.TotalPrice
            line.TotalPrice = 0
        } else if rule.Discount != nil {
            value := rule.Discount.Value
            if rule.Discount.Percentage {
                value = line.TotalPrice * value / 100
            }
            line.Discount += value
            line.TotalPrice -= value
            if line.TotalPrice < 0 {
                line.TotalPrice = 0
            }
        }
        return true
    }
    return false
}
