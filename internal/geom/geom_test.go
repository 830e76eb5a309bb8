package geom

import (
	"math"
	"testing"
)

const eps = 1e-12

func near(p, q Point) bool {
	return math.Abs(p.X-q.X) < eps && math.Abs(p.Y-q.Y) < eps
}

func TestAffineMulAppliesRightOperandFirst(t *testing.T) {
	scale := Scaling(2, 3)
	shift := Translation(1, -1)

	got := scale.Mul(shift).MulPoint(MakePoint(1, 1))
	if want := MakePoint(4, 0); !near(got, want) {
		t.Errorf("scale∘shift (1,1) = %v, want %v", got, want)
	}
	got = shift.Mul(scale).MulPoint(MakePoint(1, 1))
	if want := MakePoint(3, 2); !near(got, want) {
		t.Errorf("shift∘scale (1,1) = %v, want %v", got, want)
	}
}

func TestAffineInv(t *testing.T) {
	for _, tc := range []struct {
		name string
		t    Affine
	}{
		{"identity", Identity()},
		{"flip", Scaling(100, -100).Mul(Translation(0, -1))},
		{"tiny", Scaling(1e-7, -1e-7).Mul(Translation(5e8, 5e8))},
		{"shear", MakeAffine(1, 0.5, 2, 0.25, 1, -3)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			inv, err := tc.t.Inv()
			if err != nil {
				t.Fatalf("Inv: %v", err)
			}
			for _, p := range []Point{{0, 0}, {1, 2}, {-3.5, 7}} {
				got := inv.MulPoint(tc.t.MulPoint(p))
				if math.Abs(got.X-p.X) > 1e-6*math.Max(1, math.Abs(p.X)) ||
					math.Abs(got.Y-p.Y) > 1e-6*math.Max(1, math.Abs(p.Y)) {
					t.Errorf("inv(t(%v)) = %v", p, got)
				}
			}
		})
	}
}

func TestAffineInvSingular(t *testing.T) {
	if _, err := Scaling(0, 1).Inv(); err == nil {
		t.Fatal("expected error for singular transform")
	}
}

func TestBoxes(t *testing.T) {
	b := BoxFromCorners(MakePoint(2, 5), MakePoint(-1, 1))
	if b != MakeBox(-1, 1, 3, 4) {
		t.Fatalf("BoxFromCorners = %+v", b)
	}
	if !b.Contains(MakePoint(0, 3)) || b.Contains(MakePoint(3, 3)) {
		t.Errorf("Contains wrong for %+v", b)
	}
	if got := Bounds([]Point{{1, 1}, {-2, 4}, {0, -3}}); got != MakeBox(-2, -3, 3, 7) {
		t.Errorf("Bounds = %+v", got)
	}
	if got := Bounds(nil); got != (Box{}) {
		t.Errorf("Bounds(nil) = %+v", got)
	}
}

func TestPointIsFinite(t *testing.T) {
	if !MakePoint(1, -1).IsFinite() {
		t.Error("finite point reported non-finite")
	}
	if MakePoint(math.NaN(), 0).IsFinite() || MakePoint(0, math.Inf(-1)).IsFinite() {
		t.Error("non-finite point reported finite")
	}
}
