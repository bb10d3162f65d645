package flow

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

// approx compares with a small absolute margin, enough for accumulated
// float error in curve math.
func approx() cmp.Option {
	return cmpopts.EquateApprox(0, 1e-9)
}

// cmpApproxLoose tolerates 8-bit color quantization.
func cmpApproxLoose() cmp.Option {
	return cmpopts.EquateApprox(0, 1.0/254)
}

func assertNear(t *testing.T, want, got Vec3, epsilon float64) {
	t.Helper()
	if !want.NearEq(got, epsilon) {
		t.Errorf("got %v, want %v (epsilon %g)", got, want, epsilon)
	}
}
