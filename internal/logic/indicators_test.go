package logic

import (
	"testing"

	"github.com/sweeney/buzzer-sweep/internal/sweep"
)

func TestRefreshOneHot(t *testing.T) {
	for p := 0; p < sweep.PatternCount; p++ {
		ind := Refresh(State{Pattern: sweep.Pattern(p)})

		lit := 0
		for _, on := range ind.Pattern {
			if on {
				lit++
			}
		}
		if lit != 1 {
			t.Errorf("pattern %d: expected exactly one lit indicator, got %d", p, lit)
		}
		if ind.Lit() != p {
			t.Errorf("pattern %d: Lit() got %d", p, ind.Lit())
		}
	}
}

func TestRefreshRange(t *testing.T) {
	if Refresh(State{Range: sweep.Low}).RangeHigh {
		t.Error("range indicator should be off for LOW")
	}
	if !Refresh(State{Range: sweep.High}).RangeHigh {
		t.Error("range indicator should be on for HIGH")
	}
}

func TestRefreshIgnoresActiveAndSpeed(t *testing.T) {
	a := Refresh(State{Active: true, Speed: 3, Pattern: sweep.Siren})
	b := Refresh(State{Active: false, Speed: 0, Pattern: sweep.Siren})
	if a != b {
		t.Errorf("refresh should depend only on pattern and range: %+v vs %+v", a, b)
	}
}

func TestRefreshIdempotent(t *testing.T) {
	s := State{Active: true, Range: sweep.High, Pattern: sweep.Chirps, Speed: 2}

	first := Refresh(s).Levels()
	second := Refresh(s).Levels()
	if first != second {
		t.Errorf("identical state produced different levels: %+v vs %+v", first, second)
	}
}

func TestLevelsActiveLow(t *testing.T) {
	l := Refresh(State{Range: sweep.High, Pattern: sweep.Triangle}).Levels()

	for i, level := range l.Pattern {
		want := i != int(sweep.Triangle)
		if level != want {
			t.Errorf("pattern line %d: got %v, want %v", i, level, want)
		}
	}
	if l.Range {
		t.Error("lit range indicator should be driven low")
	}
}

func TestLitNone(t *testing.T) {
	var ind Indicators
	if ind.Lit() != -1 {
		t.Errorf("expected -1 for no lit indicator, got %d", ind.Lit())
	}
	if Refresh(State{Pattern: sweep.Pattern(20)}).Lit() != -1 {
		t.Error("invalid pattern should light nothing")
	}
}
