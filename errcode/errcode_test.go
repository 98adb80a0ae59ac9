package errcode

import (
	"errors"
	"testing"
)

func TestCodesAreStableStrings(t *testing.T) {
	cases := map[string]error{
		"no_instance":      NoInstance,
		"no_program_space": NoProgramSpace,
		"no_unit":          NoUnit,
		"no_dma":           NoDMA,
		"no_header":        NoHeader,
		"timeout":          Timeout,
		"unsupported":      Unsupported,
		"invalid_params":   InvalidParams,
	}
	for want, e := range cases {
		if e == nil || e.Error() != want {
			t.Fatalf("error %q mismatch: got %#v", want, e)
		}
	}
}

func TestWrappedCodeMatches(t *testing.T) {
	cause := errors.New("stall flag never set")
	err := error(Wrap(Timeout, "write", cause))

	if !errors.Is(err, Timeout) {
		t.Fatal("errors.Is(Timeout) = false")
	}
	if errors.Is(err, NoDMA) {
		t.Fatal("matched an unrelated code")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause lost")
	}
	if got := Of(err); got != Timeout {
		t.Fatalf("Of = %q", got)
	}
	if got := err.Error(); got != "write: timeout" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestOf(t *testing.T) {
	if Of(nil) != OK {
		t.Fatal("nil should map to ok")
	}
	if Of(NoUnit) != NoUnit {
		t.Fatal("bare code should map to itself")
	}
	if Of(errors.New("x")) != Error {
		t.Fatal("foreign error should map to generic")
	}
}
