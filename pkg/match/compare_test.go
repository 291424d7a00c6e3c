package match

import (
	"math"
	"testing"
	"time"
)

type label string

type tagged struct {
	Tags any
}

func TestEqual(t *testing.T) {
	now := time.Now()
	n := 5
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"nil nil", nil, nil, true},
		{"nil value", nil, 0, false},
		{"value nil", "", nil, false},
		{"int float", 5, 5.0, true},
		{"int uint", int64(7), uint8(7), true},
		{"int differs", 5, 6, false},
		{"strings", "a", "a", true},
		{"named string", label("a"), "a", true},
		{"bools", true, true, true},
		{"bool number", true, 1, false},
		{"string number", "5", 5, false},
		{"times", now, now.In(time.UTC), true},
		{"pointer deref", &n, 5, true},
		{"slices never equal", []int{1}, []int{1}, false},
		{"struct with slice field", tagged{Tags: []string{"a"}}, tagged{Tags: []string{"a"}}, false},
		{"struct with scalar field", tagged{Tags: "a"}, tagged{Tags: "a"}, true},
		{"array with map element", [1]any{map[string]any{}}, [1]any{map[string]any{}}, false},
		{"large ints keep precision", int64(math.MaxInt64), int64(math.MaxInt64 - 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		a, b   any
		want   int
		wantOK bool
	}{
		{"numbers less", 1, 2.5, -1, true},
		{"numbers greater", uint(9), -1, 1, true},
		{"numbers equal", float32(2), 2, 0, true},
		{"strings", "Batman", "Superman", -1, true},
		{"bools", false, true, -1, true},
		{"times", base.Add(time.Second), base, 1, true},
		{"time vs string", base, "2024", 0, false},
		{"string vs number", "1", 1, 0, false},
		{"nil", nil, 1, 0, false},
		{"maps", map[string]any{}, map[string]any{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Compare(tt.a, tt.b)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Compare(%v, %v) = %d, %v; want %d, %v", tt.a, tt.b, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestText(t *testing.T) {
	if s, ok := Text(label("x")); !ok || s != "x" {
		t.Errorf("Text(label) = %q, %v", s, ok)
	}
	if _, ok := Text(3); ok {
		t.Error("numbers are not text")
	}
	if _, ok := Text(nil); ok {
		t.Error("nil is not text")
	}
}
