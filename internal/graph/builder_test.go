package graph

import (
	"errors"
	"fmt"
	"testing"

	"github.com/starford/gebo/internal/apperr"
	"github.com/starford/gebo/internal/models"
)

func titles(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Topic %02d", i+1)
	}
	return out
}

func build(t *testing.T, opts Options, n int) *models.LinkGraph {
	t.Helper()
	g, err := NewBuilder(opts).Build(titles(n))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestBuildInvariants(t *testing.T) {
	g := build(t, Options{Density: 0.4, Seed: 1}, 20)

	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	for _, title := range g.Titles() {
		if g.Degree(title) < 1 {
			t.Errorf("%q is an orphan", title)
		}
		for _, linked := range g.Linked(title) {
			if linked == title {
				t.Errorf("%q links to itself", title)
			}
			if !g.Has(linked, title) {
				t.Errorf("link %q -> %q is not reciprocal", title, linked)
			}
		}
	}
}

func TestBuildHubCount(t *testing.T) {
	cases := []struct {
		n, hubs, want int
	}{
		{n: 5, want: 1},  // max(1, 5/10)
		{n: 20, want: 2}, // 20/10
		{n: 35, want: 3}, // 35/10
		{n: 20, hubs: 5, want: 5},
	}
	for _, tc := range cases {
		g := build(t, Options{Density: 0.3, Hubs: tc.hubs}, tc.n)
		got := 0
		for _, title := range g.Titles() {
			if g.IsHub(title) {
				got++
			}
		}
		if got != tc.want {
			t.Errorf("n=%d hubs=%d: got %d hub notes, want %d", tc.n, tc.hubs, got, tc.want)
		}
		if g.Len() != tc.n+tc.want {
			t.Errorf("n=%d: Len = %d, want %d", tc.n, g.Len(), tc.n+tc.want)
		}
	}
}

func TestBuildHubTitleClash(t *testing.T) {
	in := append(titles(10), "Knowledge Hub 1")
	g, err := NewBuilder(Options{Density: 0.2}).Build(in)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// The expanded title keeps its name; the hub gets a disambiguated one.
	if g.IsHub("Knowledge Hub 1") {
		t.Error("expanded title was turned into a hub")
	}
	if !g.IsHub("Knowledge Hub 1 (2)") {
		t.Error("disambiguated hub title not found")
	}
}

func TestBuildDeterminism(t *testing.T) {
	a := build(t, Options{Density: 0.5, Seed: 42}, 30)
	b := build(t, Options{Density: 0.5, Seed: 42}, 30)

	if a.EdgeCount() != b.EdgeCount() {
		t.Fatalf("edge counts differ: %d vs %d", a.EdgeCount(), b.EdgeCount())
	}
	for _, title := range a.Titles() {
		la, lb := a.Linked(title), b.Linked(title)
		if len(la) != len(lb) {
			t.Fatalf("%q: degree differs: %d vs %d", title, len(la), len(lb))
		}
		for i := range la {
			if la[i] != lb[i] {
				t.Errorf("%q: linked[%d] = %q vs %q", title, i, la[i], lb[i])
			}
		}
	}
}

func TestBuildSeedChangesEdges(t *testing.T) {
	a := build(t, Options{Density: 0.5, Seed: 1}, 30)
	b := build(t, Options{Density: 0.5, Seed: 2}, 30)

	same := true
	for _, title := range a.Titles() {
		la, lb := a.Linked(title), b.Linked(title)
		if len(la) != len(lb) {
			same = false
			break
		}
		for i := range la {
			if la[i] != lb[i] {
				same = false
				break
			}
		}
	}
	if same {
		t.Error("different seeds produced identical graphs")
	}
}

func TestBuildDensityMonotonic(t *testing.T) {
	sparse := build(t, Options{Density: 0.1, Seed: 7}, 40)
	medium := build(t, Options{Density: 0.5, Seed: 7}, 40)
	dense := build(t, Options{Density: 0.9, Seed: 7}, 40)

	if !(sparse.EdgeCount() < medium.EdgeCount()) {
		t.Errorf("edges at 0.1 (%d) not below 0.5 (%d)", sparse.EdgeCount(), medium.EdgeCount())
	}
	if !(medium.EdgeCount() < dense.EdgeCount()) {
		t.Errorf("edges at 0.5 (%d) not below 0.9 (%d)", medium.EdgeCount(), dense.EdgeCount())
	}
}

func TestBuildDensityZero(t *testing.T) {
	n := 20
	g := build(t, Options{Density: 0, Seed: 3}, n)

	// Only the floor chain and the minimal hub fan-out remain: the chain has
	// n-1 edges, each hub links exactly one note.
	hubs := 0
	for _, title := range g.Titles() {
		if g.IsHub(title) {
			hubs++
			if g.Degree(title) != 1 {
				t.Errorf("hub %q degree = %d, want 1", title, g.Degree(title))
			}
		}
	}
	want := (n - 1) + hubs
	if g.EdgeCount() != want {
		t.Errorf("EdgeCount = %d, want %d", g.EdgeCount(), want)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestBuildHubFanout(t *testing.T) {
	cases := []struct {
		n       int
		density float64
		hubs    int
		want    int // clamp(round(density*n), 1, n-1)
	}{
		{n: 30, density: 0.4, want: 12}, // 3 hubs, stride collides every 10 steps
		{n: 20, density: 0.5, hubs: 4, want: 10},
		{n: 10, density: 1, hubs: 2, want: 9},
		{n: 15, density: 0.05, want: 1},
	}
	for _, tc := range cases {
		g := build(t, Options{Density: tc.density, Hubs: tc.hubs, Seed: 4}, tc.n)
		for _, title := range g.Titles() {
			if !g.IsHub(title) {
				continue
			}
			if got := g.Degree(title); got != tc.want {
				t.Errorf("n=%d density=%v: hub %q degree = %d, want %d",
					tc.n, tc.density, title, got, tc.want)
			}
		}
	}
}

func TestBuildDensityOneRespectsCap(t *testing.T) {
	n := 12
	g := build(t, Options{Density: 1, Seed: 5}, n)

	// At density 1 the cap is the only thing holding the pairwise pass back.
	// Floor and hub edges are exempt, so allow a small margin over the cap.
	degCap := n / 2 // round(1*12/2) > 5
	for _, title := range g.Titles() {
		if g.IsHub(title) {
			continue
		}
		if g.Degree(title) > degCap+3 {
			t.Errorf("%q degree = %d, cap %d plus exempt edges exceeded", title, g.Degree(title), degCap)
		}
	}
}

func TestBuildDegreeCapOverride(t *testing.T) {
	g := build(t, Options{Density: 1, DegreeCap: 2, Seed: 9}, 15)

	// With cap 2 the probabilistic pass adds an edge only while both ends are
	// below 2; floor and hub edges may still push beyond it.
	for _, title := range g.Titles() {
		if g.IsHub(title) {
			continue
		}
		// Worst case: two chain edges, one hub edge, plus one probabilistic
		// edge accepted while the degree was still below the cap.
		if g.Degree(title) > 2+3 {
			t.Errorf("%q degree = %d with cap 2", title, g.Degree(title))
		}
	}
}

func TestBuildInvalidDensity(t *testing.T) {
	for _, d := range []float64{-0.1, 1.5} {
		_, err := NewBuilder(Options{Density: d}).Build(titles(5))
		if !errors.Is(err, apperr.ErrInvalidDensity) {
			t.Errorf("density %v: err = %v, want ErrInvalidDensity", d, err)
		}
	}
}

func TestBuildTooFewTitles(t *testing.T) {
	for _, in := range [][]string{nil, {"Solo"}} {
		_, err := NewBuilder(Options{Density: 0.5}).Build(in)
		if !errors.Is(err, apperr.ErrEmptyTopicSet) {
			t.Errorf("%d titles: err = %v, want ErrEmptyTopicSet", len(in), err)
		}
	}
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	in := titles(10)
	snapshot := make([]string, len(in))
	copy(snapshot, in)

	if _, err := NewBuilder(Options{Density: 0.6, Seed: 11}).Build(in); err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i := range in {
		if in[i] != snapshot[i] {
			t.Errorf("input[%d] changed: %q -> %q", i, snapshot[i], in[i])
		}
	}
}

func TestBuildCustomHubTitle(t *testing.T) {
	g, err := NewBuilder(Options{
		Density:  0.3,
		Hubs:     2,
		HubTitle: func(i int) string { return fmt.Sprintf("Index %c", 'A'+i) },
	}).Build(titles(10))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !g.IsHub("Index A") || !g.IsHub("Index B") {
		t.Errorf("custom hub titles missing: %v", g.Titles())
	}
}
