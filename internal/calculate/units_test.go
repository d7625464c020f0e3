package calculate

import "testing"

func TestWeightKg(t *testing.T) {
    cases := []struct {
        m    Measure
        want float64
    }{
        {Measure{Value: 2, Unit: "kg"}, 2},
        {Measure{Value: 500, Unit: "g"}, 0.5},
        {Measure{Value: 250000, Unit: "mg"}, 0.25},
        // missing unit reads as kg
        {Measure{Value: 1.5}, 1.5},
    }
    for _, c := range cases {
        got, err := WeightKg(c.m)
        if err != nil {
            t.Fatalf("WeightKg(%+v): %v", c.m, err)
        }
        if got != c.want {
            t.Fatalf("WeightKg(%+v) = %v, want %v", c.m, got, c.want)
        }
    }
}

func TestWeightKg_UnknownUnit(t *testing.T) {
    if _, err := WeightKg(Measure{Value: 1, Unit: "lb"}); err == nil {
        t.Fatalf("expected error for unknown weight unit")
    }
}

func TestLengthCm(t *testing.T) {
    cases := []struct {
        m    Measure
        want float64
    }{
        {Measure{Value: 20, Unit: "cm"}, 20},
        {Measure{Value: 0.5, Unit: "m"}, 50},
        {Measure{Value: 120, Unit: "mm"}, 12},
        {Measure{Value: 7}, 7},
    }
    for _, c := range cases {
        got, err := LengthCm(c.m)
        if err != nil {
            t.Fatalf("LengthCm(%+v): %v", c.m, err)
        }
        if got != c.want {
            t.Fatalf("LengthCm(%+v) = %v, want %v", c.m, got, c.want)
        }
    }
}

func TestLengthCm_UnknownUnit(t *testing.T) {
    if _, err := LengthCm(Measure{Value: 1, Unit: "in"}); err == nil {
        t.Fatalf("expected error for unknown length unit")
    }
}

func TestDigits(t *testing.T) {
    if got := Digits("01310-100"); got != "01310100" {
        t.Fatalf("unexpected digits: %q", got)
    }
    if got := Digits("abc"); got != "" {
        t.Fatalf("expected empty, got %q", got)
    }
}
