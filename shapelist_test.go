package lisa

import (
	"encoding/json"
	"math/rand/v2"
	"strings"
	"testing"
)

func randomShapeList(r *rand.Rand, n int) ShapeList {
	var l ShapeList
	for range n {
		l.AddRandom(r)
	}
	return l
}

// TestRenderIsPrefixAssociative checks that drawing a prefix and then the
// remaining shapes onto the same canvas equals rendering the whole list.
func TestRenderIsPrefixAssociative(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 1))
	for i := range 50 {
		l := randomShapeList(r, 1+r.IntN(15))
		k := r.IntN(l.Len() + 1)

		c := l.Slice(k).Render(30, 20, 3)
		for j := k; j < l.Len(); j++ {
			l.DrawItemOnto(j, c)
		}
		if !c.Equal(l.Render(30, 20, 3)) {
			t.Fatalf("case %d: split at %d differs from a full render", i, k)
		}
	}
}

func TestEmptyListRender(t *testing.T) {
	var l ShapeList
	if !l.Render(5, 5, 4).Equal(NewCanvas(5, 5, 4)) {
		t.Error("empty list should render blank")
	}
}

func TestSliceIsIndependent(t *testing.T) {
	r := rand.New(rand.NewPCG(2, 2))
	l := randomShapeList(r, 5)
	s := l.Slice(3)
	s[0] = RandomCircle(r)
	s = append(s, RandomRect(r))

	if s.Equal(l.Slice(4)) {
		t.Error("Slice shares storage with its source")
	}
	if l.Len() != 5 {
		t.Errorf("source length changed to %d", l.Len())
	}
}

func TestShapeListEqual(t *testing.T) {
	a := ShapeList{Circle{X: 0.1, Y: 0.2, Rad: 0.3, Color: White}}
	b := ShapeList{Circle{X: 0.1, Y: 0.2, Rad: 0.3, Color: White}}
	if !a.Equal(b) {
		t.Error("identical lists compare unequal")
	}
	b[0] = Circle{X: 0.1, Y: 0.2, Rad: 0.3000001, Color: White}
	if a.Equal(b) {
		t.Error("lists differing below the quantization step compare equal")
	}
	if a.Equal(nil) {
		t.Error("non-empty list equals nil")
	}
}

func TestRemoveShape(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 3))
	l := randomShapeList(r, 6)
	orig := l.Clone()

	l.RemoveShape(r)
	if l.Len() != 5 {
		t.Fatalf("Len() = %d after RemoveShape, want 5", l.Len())
	}
	// The survivors keep their relative order.
	j := 0
	for _, s := range orig {
		if j < l.Len() && l[j] == s {
			j++
		}
	}
	if j != l.Len() {
		t.Error("RemoveShape reordered the remaining shapes")
	}
	if orig.Len() != 6 {
		t.Error("RemoveShape modified a clone")
	}

	single := randomShapeList(r, 1)
	single.RemoveShape(r)
	if single.Len() != 1 {
		t.Error("RemoveShape must keep the last shape")
	}
}

func TestSwap(t *testing.T) {
	r := rand.New(rand.NewPCG(4, 4))
	for range 100 {
		l := randomShapeList(r, 2+r.IntN(6))
		orig := l.Clone()
		l.Swap(r)

		var moved []int
		for i := range l {
			if l[i] != orig[i] {
				moved = append(moved, i)
			}
		}
		if len(moved) != 2 {
			t.Fatalf("Swap moved %d positions, want 2", len(moved))
		}
		i, j := moved[0], moved[1]
		if l[i] != orig[j] || l[j] != orig[i] {
			t.Fatal("Swap did not exchange the two shapes")
		}
	}

	one := randomShapeList(r, 1)
	before := one.Clone()
	one.Swap(r)
	if !one.Equal(before) {
		t.Error("Swap changed a single-shape list")
	}
}

func TestMutateBiased(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 5))
	l := randomShapeList(r, 8)

	for range 200 {
		before := l.Clone()
		l.MutateBiased(r, 1)
		for i := 0; i < l.Len()-1; i++ {
			if l[i] != before[i] {
				t.Fatalf("tail bias 1 mutated shape %d", i)
			}
		}
	}

	hitHead := false
	for range 500 {
		before := l.Clone()
		l.MutateBiased(r, 0)
		if l[0] != before[0] {
			hitHead = true
			break
		}
	}
	if !hitHead {
		t.Error("tail bias 0 never mutated the first shape")
	}

	var empty ShapeList
	empty.Mutate(r)
}

func TestAddRandomKinds(t *testing.T) {
	r := rand.New(rand.NewPCG(6, 6))
	var l ShapeList
	for range 20 {
		l.AddRandom(r, KindRect)
	}
	for i, s := range l {
		if s.Kind() != KindRect {
			t.Errorf("shape %d is %v, want rect", i, s.Kind())
		}
	}
}

func TestShapeListJSON(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 7))
	l := randomShapeList(r, 12)

	data, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var got ShapeList
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !got.Equal(l) {
		t.Errorf("round trip changed the list:\n got %v\nwant %v", got, l)
	}
}

func TestShapeListJSONRecord(t *testing.T) {
	l := ShapeList{Circle{X: 0.5, Y: 0.25, Rad: 0.125, Color: RGBA(1, 2, 3, 0.5)}}
	data, err := json.Marshal(l)
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"type":"circle","x":0.5,"y":0.25,"rad":0.125,"color":{"r":1,"g":2,"b":3,"opacity":0.5}}]`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestShapeListJSONUnknownType(t *testing.T) {
	var l ShapeList
	err := json.Unmarshal([]byte(`[{"type":"hexagon","color":{}}]`), &l)
	if err == nil || !strings.Contains(err.Error(), "shape 0") {
		t.Errorf("Unmarshal() error = %v, want an error naming shape 0", err)
	}
}

func TestShapeListSVG(t *testing.T) {
	l := ShapeList{
		Rect{X: 0, Y: 0, Width: 0.5, Height: 0.5, Color: White},
		Circle{X: 0.5, Y: 0.5, Rad: 0.25, Color: RGB(255, 0, 0)},
	}
	got := l.SVG(40, 20)
	prefix := "<svg xmlns='http://www.w3.org/2000/svg' style='background-color: #000;' width='40' height='20' >"
	if !strings.HasPrefix(got, prefix) {
		t.Errorf("SVG() prelude = %q", got)
	}
	if !strings.HasSuffix(got, "</svg>") {
		t.Error("SVG() is not closed")
	}
	if strings.Index(got, "<rect") > strings.Index(got, "<circle") {
		t.Error("SVG() does not preserve draw order")
	}
}

func TestShapeListString(t *testing.T) {
	l := ShapeList{
		Circle{X: 0.5, Y: 0.5, Rad: 0.3, Color: RGB(255, 0, 0)},
		Circle{X: 0.5, Y: 0.5, Rad: 0.3, Color: RGB(0, 0, 255)},
	}
	want := "<C0.500000,0.500000,0.300,rgba(255,0,0,1.0000)><C0.500000,0.500000,0.300,rgba(0,0,255,1.0000)>"
	if got := l.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
