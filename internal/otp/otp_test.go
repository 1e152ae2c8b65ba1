package otp_test

import (
	"bytes"
	"testing"

	"github.com/ErlanBelekov/travel-buddy/internal/otp"
)

func TestGenerate_SixDigits(t *testing.T) {
	g := otp.NewGenerator()
	for i := 0; i < 200; i++ {
		code, err := g.Generate()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !otp.IsValidFormat(code) {
			t.Fatalf("generated code %q is not six digits", code)
		}
	}
}

func TestGenerate_ZeroPadded(t *testing.T) {
	// All-zero input yields 0, which must still render as six digits.
	g := otp.NewGeneratorFromReader(bytes.NewReader(make([]byte, 64)))
	code, err := g.Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "000000" {
		t.Errorf("code = %q, want 000000", code)
	}
}

func TestGenerate_ReaderExhausted(t *testing.T) {
	g := otp.NewGeneratorFromReader(bytes.NewReader(nil))
	if _, err := g.Generate(); err == nil {
		t.Fatal("expected error from empty reader")
	}
}

func TestIsValidFormat(t *testing.T) {
	cases := map[string]bool{
		"000000":  true,
		"123456":  true,
		"12345":   false,
		"1234567": false,
		"12a456":  false,
		" 23456":  false,
		"":        false,
		"١٢٣٤٥٦":  false,
	}
	for code, want := range cases {
		if got := otp.IsValidFormat(code); got != want {
			t.Errorf("IsValidFormat(%q) = %v, want %v", code, got, want)
		}
	}
}

func TestEqual(t *testing.T) {
	if !otp.Equal("123456", "123456") {
		t.Error("equal codes reported different")
	}
	if otp.Equal("123456", "123457") {
		t.Error("different codes reported equal")
	}
	if otp.Equal("123456", "12345") {
		t.Error("codes of different length reported equal")
	}
}
