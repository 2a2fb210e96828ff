package id

import (
	"strings"
	"testing"
)

func TestNewGeneratesValidIDs(t *testing.T) {
	tests := []struct {
		name   string
		create func() ID
		prefix Prefix
	}{
		{"user", NewUserID, PrefixUser},
		{"product", NewProductID, PrefixProduct},
		{"category", NewCategoryID, PrefixCategory},
		{"brand", NewBrandID, PrefixBrand},
		{"color", NewColorID, PrefixColor},
		{"coupon", NewCouponID, PrefixCoupon},
		{"order", NewOrderID, PrefixOrder},
		{"line item", NewLineItemID, PrefixLineItem},
		{"review", NewReviewID, PrefixReview},
		{"image", NewImageID, PrefixImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generated := tt.create()
			if generated.IsNil() {
				t.Fatal("New returned the nil ID")
			}
			if generated.Prefix() != tt.prefix {
				t.Errorf("Prefix: got %q, want %q", generated.Prefix(), tt.prefix)
			}
			if !strings.HasPrefix(generated.String(), string(tt.prefix)+"_") {
				t.Errorf("String %q does not start with %q", generated.String(), tt.prefix)
			}
		})
	}
}

func TestNewGeneratesUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s := NewOrderID().String()
		if seen[s] {
			t.Fatalf("Duplicate ID generated: %s", s)
		}
		seen[s] = true
	}
}

func TestParseRoundTrip(t *testing.T) {
	original := NewProductID()

	parsed, err := Parse(original.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed != original {
		t.Errorf("Round trip: got %v, want %v", parsed, original)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"garbage", "not-a-typeid"},
		{"bad suffix", "ord_zzzzzzzzzzzzzzzzzzzzzzzzzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.input); err == nil {
				t.Errorf("Parse(%q) expected error, got nil", tt.input)
			}
		})
	}
}

func TestParseWithPrefix(t *testing.T) {
	orderID := NewOrderID()

	if _, err := ParseOrderID(orderID.String()); err != nil {
		t.Errorf("ParseOrderID rejected a valid order ID: %v", err)
	}

	if _, err := ParseUserID(orderID.String()); err == nil {
		t.Error("ParseUserID accepted an order ID")
	}
}

func TestNilID(t *testing.T) {
	if !Nil.IsNil() {
		t.Error("Nil.IsNil() should be true")
	}
	if Nil.String() != "" {
		t.Errorf("Nil.String(): got %q, want empty", Nil.String())
	}
	if Nil.Prefix() != "" {
		t.Errorf("Nil.Prefix(): got %q, want empty", Nil.Prefix())
	}
}

func TestTextMarshaling(t *testing.T) {
	original := NewUserID()

	data, err := original.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}

	var decoded ID
	if err := decoded.UnmarshalText(data); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if decoded != original {
		t.Errorf("Round trip: got %v, want %v", decoded, original)
	}

	var nilDecoded ID
	if err := nilDecoded.UnmarshalText(nil); err != nil {
		t.Fatalf("UnmarshalText(nil): %v", err)
	}
	if !nilDecoded.IsNil() {
		t.Error("UnmarshalText of empty data should yield the nil ID")
	}
}
