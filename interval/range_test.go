package interval

import (
	"math"
	"testing"
)

func rangeEqual(a, b Range, eps float64) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return a.IsEmpty() == b.IsEmpty()
	}
	return (a.Min() == b.Min() || math.Abs(a.Min()-b.Min()) <= eps) &&
		(a.Max() == b.Max() || math.Abs(a.Max()-b.Max()) <= eps)
}

func TestConstructors(t *testing.T) {
	if !Empty().IsEmpty() {
		t.Error("Empty() should be empty")
	}
	if Single(3).Min() != 3 || Single(3).Max() != 3 {
		t.Error("Single(3) should be [3, 3]")
	}
	if r := Span(5, 2); r.Min() != 2 || r.Max() != 5 {
		t.Errorf("Span(5, 2) = [%v, %v], want [2, 5]", r.Min(), r.Max())
	}
	if r := Everything(); !math.IsInf(r.Min(), -1) || !math.IsInf(r.Max(), 1) {
		t.Error("Everything() should span both infinities")
	}
	if got := Span(1, 4).Size(); got != 3 {
		t.Errorf("Span(1, 4).Size() = %v, want 3", got)
	}
	if got := Empty().Size(); got != 0 {
		t.Errorf("Empty().Size() = %v, want 0", got)
	}
}

func TestIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Range
		want Range
	}{
		{"overlapping", Span(0, 2), Span(1, 3), Span(1, 2)},
		{"disjoint", Span(0, 1), Span(2, 3), Empty()},
		{"touching at a point", Span(0, 1), Span(1, 2), Single(1)},
		{"contained", Span(0, 10), Span(2, 3), Span(2, 3)},
		{"with everything", Span(4, 5), Everything(), Span(4, 5)},
		{"with empty", Span(4, 5), Empty(), Empty()},
	}
	for _, tt := range tests {
		got := tt.a.Intersect(tt.b)
		if !rangeEqual(got, tt.want, 0) {
			t.Errorf("%s: Intersect = %v..%v, want %v..%v", tt.name, got.Min(), got.Max(), tt.want.Min(), tt.want.Max())
		}
		sym := tt.b.Intersect(tt.a)
		if !rangeEqual(got, sym, 0) {
			t.Errorf("%s: Intersect is not symmetric", tt.name)
		}
	}
}

func TestContain(t *testing.T) {
	tests := []struct {
		name string
		a, b Range
		want Range
	}{
		{"disjoint hull", Span(0, 1), Span(3, 4), Span(0, 4)},
		{"overlapping hull", Span(0, 2), Span(1, 3), Span(0, 3)},
		{"empty is identity", Span(1, 2), Empty(), Span(1, 2)},
		{"identity from empty", Empty(), Span(1, 2), Span(1, 2)},
	}
	for _, tt := range tests {
		got := tt.a.Contain(tt.b)
		if !rangeEqual(got, tt.want, 0) {
			t.Errorf("%s: Contain = %v..%v, want %v..%v", tt.name, got.Min(), got.Max(), tt.want.Min(), tt.want.Max())
		}
	}
}

func TestQuadraticZeros(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c float64
		want    Range
	}{
		{"two roots", 1, 0, -4, Span(-2, 2)},
		{"double root", 1, -2, 1, Single(1)},
		{"no real roots", 1, 0, 1, Empty()},
		{"shifted two roots", 2, -12, 16, Span(2, 4)},
	}
	for _, tt := range tests {
		got := QuadraticZeros(tt.a, tt.b, tt.c)
		if !rangeEqual(got, tt.want, 1e-9) {
			t.Errorf("%s: QuadraticZeros(%v, %v, %v) = %v..%v, want %v..%v",
				tt.name, tt.a, tt.b, tt.c, got.Min(), got.Max(), tt.want.Min(), tt.want.Max())
		}
	}
}

func TestQuadraticZerosDegenerate(t *testing.T) {
	// |a| below epsilon: linear equation b*t + c = 0.
	if got := QuadraticZeros(0, 2, -6); !rangeEqual(got, Single(3), 1e-9) {
		t.Errorf("linear case = %v..%v, want single 3", got.Min(), got.Max())
	}
	// |a| and |b| below epsilon with c effectively zero: always true.
	if got := QuadraticZeros(0, 0, 0); !rangeEqual(got, Everything(), 0) {
		t.Errorf("constant-zero case = %v..%v, want everything", got.Min(), got.Max())
	}
	// |a| and |b| below epsilon with positive c: never true.
	if got := QuadraticZeros(0, 0, 5); !got.IsEmpty() {
		t.Errorf("constant-nonzero case = %v..%v, want empty", got.Min(), got.Max())
	}
}

func TestLinearOverlap(t *testing.T) {
	// other starts at [10, 11] and moves down at rate -10 per unit time:
	// it reaches self = [0, 1] over t in [0.9, 1.1].
	got := Span(0, 1).LinearOverlap(Span(10, 11), -10)
	if !rangeEqual(got, Span(0.9, 1.1), 1e-9) {
		t.Errorf("LinearOverlap = %v..%v, want [0.9, 1.1]", got.Min(), got.Max())
	}
}

func TestLinearOverlapStationary(t *testing.T) {
	if got := Span(0, 2).LinearOverlap(Span(1, 3), 0); !rangeEqual(got, Everything(), 0) {
		t.Errorf("stationary overlapping = %v..%v, want everything", got.Min(), got.Max())
	}
	if got := Span(0, 1).LinearOverlap(Span(5, 6), 0); !got.IsEmpty() {
		t.Errorf("stationary disjoint = %v..%v, want empty", got.Min(), got.Max())
	}
}

func TestLinearOverlapHalfSpace(t *testing.T) {
	// A half-space (-inf, 0] moving up at rate 2 first touches [3, 5] at
	// t = 1.5 and never lets go of it afterwards.
	got := Span(3, 5).LinearOverlap(Span(math.Inf(-1), 0), 2)
	if got.IsEmpty() || math.Abs(got.Min()-1.5) > 1e-9 || !math.IsInf(got.Max(), 1) {
		t.Errorf("half-space overlap = %v..%v, want [1.5, +inf]", got.Min(), got.Max())
	}
}
