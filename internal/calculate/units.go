package calculate

import "fmt"

// WeightKg converts a weight measure to kilograms. A missing unit is read as
// kilograms; an unknown unit is a validation error.
func WeightKg(m Measure) (float64, error) {
    switch m.Unit {
    case "", "kg":
        return m.Value, nil
    case "g":
        return m.Value / 1000, nil
    case "mg":
        return m.Value / 1000000, nil
    }
    return 0, fmt.Errorf("unknown weight unit %q", m.Unit)
}

// LengthCm converts a length measure to centimeters. A missing unit is read
// as centimeters; an unknown unit is a validation error.
func LengthCm(m Measure) (float64, error) {
    switch m.Unit {
    case "", "cm":
        return m.Value, nil
    case "m":
        return m.Value * 100, nil
    case "mm":
        return m.Value / 10, nil
    }
    return 0, fmt.Errorf("unknown length unit %q", m.Unit)
}
