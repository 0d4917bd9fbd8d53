package strings

import (
	"reflect"
	std "strings"
	"testing"

	kit "github.com/TanvirAuntu75/snapverse/internal/platform/testkit"
)

func TestMustPrefix(t *testing.T) {
	cases := map[string]string{"feed": "/feed", " /content/ ": "/content", "//meta//": "/meta"}
	for in, want := range cases {
		if got := MustPrefix(in); got != want {
			t.Fatalf("MustPrefix(%q) = %q, want %q", in, got, want)
		}
	}
	kit.MustPanic(t, func() { MustPrefix(" / ") })
}

func TestUnique(t *testing.T) {
	got := Unique([]string{" Go", "go", "", "rust", "Go "}, nil)
	if want := []string{"Go", "go", "rust"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Unique = %#v, want %#v", got, want)
	}
	got = Unique([]string{"Go", "go", "GO", "rust"}, std.ToLower)
	if want := []string{"Go", "rust"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Unique fold = %#v, want %#v", got, want)
	}
}

func TestLimit(t *testing.T) {
	in := []int{1, 2, 3}
	if got := Limit(in, 2); len(got) != 2 {
		t.Fatalf("Limit = %v", got)
	}
	if got := Limit(in, 5); len(got) != 3 {
		t.Fatalf("Limit over = %v", got)
	}
	if got := Limit(in, -1); len(got) != 0 {
		t.Fatalf("Limit negative = %v", got)
	}
}

func TestContainsFold(t *testing.T) {
	if !ContainsFold("Street Photography", "photo") {
		t.Fatal("expected match")
	}
	if ContainsFold("travel", "food") {
		t.Fatal("unexpected match")
	}
}
