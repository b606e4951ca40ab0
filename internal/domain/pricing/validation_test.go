package pricing

import (
	"testing"

	"github.com/google/uuid"
)

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestValidateAcceptsWellFormedRequest(t *testing.T) {
	res := Validate(ValidationRequest{
		Accommodation: sampleAccommodation(),
		Dates:         DateRange{From: day(2026, 11, 1), To: day(2026, 11, 3)},
		Guests:        GuestCount{Adults: 2},
		UserID:        uuid.New(),
	})
	if !res.Valid {
		t.Fatalf("expected valid, got errors %v", res.Errors)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", res.Warnings)
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	v := NewValidator(Policy{MinimumNights: 2, OverflowAllowance: 2, RequireLogin: true})
	res := v.Validate(ValidationRequest{
		Accommodation: sampleAccommodation(),
		Dates:         DateRange{From: day(2026, 11, 5), To: day(2026, 11, 1)},
		Guests:        GuestCount{Adults: 1},
		UserID:        uuid.New(),
	})
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if !contains(res.Errors, MsgInvalidDateRange) {
		t.Errorf("missing date range error in %v", res.Errors)
	}
	if !contains(res.Errors, "minimum stay is 2 night(s)") {
		t.Errorf("missing minimum stay error in %v", res.Errors)
	}
}

func TestValidateZeroNightsHitsBothDateRules(t *testing.T) {
	res := Validate(ValidationRequest{
		Accommodation: sampleAccommodation(),
		Dates:         DateRange{From: day(2026, 11, 1), To: day(2026, 11, 1)},
		Guests:        GuestCount{Adults: 1},
		UserID:        uuid.New(),
	})
	if len(res.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", res.Errors)
	}
}

func TestValidateCapacity(t *testing.T) {
	dates := DateRange{From: day(2026, 11, 1), To: day(2026, 11, 2)}

	cases := []struct {
		name      string
		policy    OverCapacityPolicy
		guests    GuestCount
		wantValid bool
		wantWarn  bool
	}{
		{"fits", OverCapacitySurcharge, GuestCount{Adults: 2}, true, false},
		{"overflow surcharged", OverCapacitySurcharge, GuestCount{Adults: 3, Children: 1}, true, true},
		{"overflow blocked", OverCapacityBlock, GuestCount{Adults: 3}, false, false},
		{"beyond allowance", OverCapacitySurcharge, GuestCount{Adults: 4, Children: 1}, false, false},
		{"infants and pets ignored", OverCapacitySurcharge, GuestCount{Adults: 2, Infants: 2, Pets: 1}, true, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := DefaultPolicy()
			p.OverCapacity = c.policy
			res := NewValidator(p).Validate(ValidationRequest{
				Accommodation: sampleAccommodation(),
				Dates:         dates,
				Guests:        c.guests,
				UserID:        uuid.New(),
			})
			if res.Valid != c.wantValid {
				t.Fatalf("valid: expected %v, got %v (errors %v)", c.wantValid, res.Valid, res.Errors)
			}
			if (len(res.Warnings) > 0) != c.wantWarn {
				t.Fatalf("warnings: expected %v, got %v", c.wantWarn, res.Warnings)
			}
		})
	}
}

func TestValidateLoginPolicy(t *testing.T) {
	req := ValidationRequest{
		Accommodation: sampleAccommodation(),
		Dates:         DateRange{From: day(2026, 11, 1), To: day(2026, 11, 2)},
		Guests:        GuestCount{Adults: 1},
	}

	strict := Validate(req)
	if strict.Valid || !contains(strict.Errors, MsgLoginRequired) {
		t.Fatalf("expected login error, got %+v", strict)
	}

	p := DefaultPolicy()
	p.RequireLogin = false
	lenient := NewValidator(p).Validate(req)
	if !lenient.Valid || !contains(lenient.Warnings, MsgLoginRecommended) {
		t.Fatalf("expected login warning only, got %+v", lenient)
	}
}

func TestValidateAvailability(t *testing.T) {
	acc := sampleAccommodation()
	req := ValidationRequest{
		Accommodation: acc,
		Dates:         DateRange{From: day(2026, 11, 3), To: day(2026, 11, 6)},
		Guests:        GuestCount{Adults: 2},
		UserID:        uuid.New(),
		Existing: []DateRange{
			{From: day(2026, 10, 28), To: day(2026, 11, 3)}, // checks out on our check-in day
			{From: day(2026, 11, 5), To: day(2026, 11, 8)},
		},
	}
	res := Validate(req)
	if res.Valid || !contains(res.Errors, MsgNotAvailable) {
		t.Fatalf("expected overlap error, got %+v", res)
	}

	req.Existing = req.Existing[:1]
	if res := Validate(req); !res.Valid {
		t.Fatalf("back-to-back stays should be allowed, got %v", res.Errors)
	}

	acc.Available = false
	if res := Validate(req); !contains(res.Errors, MsgUnavailable) {
		t.Fatalf("expected unavailable error, got %v", res.Errors)
	}
}

func TestValidateGuestCounts(t *testing.T) {
	res := Validate(ValidationRequest{
		Accommodation: sampleAccommodation(),
		Dates:         DateRange{From: day(2026, 11, 1), To: day(2026, 11, 2)},
		Guests:        GuestCount{Adults: 0, Pets: -1},
		UserID:        uuid.New(),
	})
	if !contains(res.Errors, MsgAdultsRequired) || !contains(res.Errors, MsgNegativeGuests) {
		t.Fatalf("expected guest errors, got %v", res.Errors)
	}
}

func TestValidateMissingAccommodation(t *testing.T) {
	res := Validate(ValidationRequest{
		Dates:  DateRange{From: day(2026, 11, 1), To: day(2026, 11, 2)},
		Guests: GuestCount{Adults: 1},
		UserID: uuid.New(),
	})
	if !contains(res.Errors, MsgAccommodationNeeded) {
		t.Fatalf("expected accommodation error, got %v", res.Errors)
	}
}

func TestPolicyTolerance(t *testing.T) {
	p := DefaultPolicy()
	if !p.WithinTolerance(4654.5, 4655.5) {
		t.Fatal("1 THB difference should be accepted")
	}
	if p.WithinTolerance(4654.5, 4656) {
		t.Fatal("1.5 THB difference should be rejected")
	}
	if ParseOverCapacityPolicy(" BLOCK ") != OverCapacityBlock {
		t.Fatal("expected block policy")
	}
	if ParseOverCapacityPolicy("whatever") != OverCapacitySurcharge {
		t.Fatal("expected surcharge fallback")
	}
}
