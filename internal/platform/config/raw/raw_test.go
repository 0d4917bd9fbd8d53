package raw

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("SNAP_NAME", " snapverse ")
	t.Setenv("LOG_FORMAT", " json ")

	root := New()
	logc := root.Prefix("LOG_")

	tests := []struct {
		name string
		conf Conf
		key  string
		def  string
		want string
	}{
		{name: "root hit is trimmed", conf: root, key: "SNAP_NAME", def: "x", want: "snapverse"},
		{name: "prefixed hit", conf: logc, key: "FORMAT", def: "console", want: "json"},
		{name: "missing uses default", conf: logc, key: "NOPE", def: "console", want: "console"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.conf.Get(tt.key, tt.def); got != tt.want {
				t.Fatalf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestGetBool(t *testing.T) {
	c := New().Prefix("RB_")
	cases := map[string]bool{"1": true, "TRUE": true, "yes": true, "On": true, "0": false, "nah": false}
	for in, want := range cases {
		t.Setenv("RB_V", in)
		if got := c.GetBool("V", !want); got != want {
			t.Fatalf("GetBool(%q) = %v, want %v", in, got, want)
		}
	}
	if got := c.GetBool("MISSING", true); !got {
		t.Fatalf("GetBool missing should return default")
	}
}

func TestGetInt(t *testing.T) {
	c := New().Prefix("RI_")
	t.Setenv("RI_OK", " 42 ")
	t.Setenv("RI_NEG", "-3")
	t.Setenv("RI_JUNK", "4x")

	if got := c.GetInt("OK", 0); got != 42 {
		t.Fatalf("GetInt ok = %d", got)
	}
	if got := c.GetInt("NEG", 7); got != 7 {
		t.Fatalf("GetInt negative should fall back, got %d", got)
	}
	if got := c.GetInt("JUNK", 7); got != 7 {
		t.Fatalf("GetInt junk should fall back, got %d", got)
	}
	if got := c.GetInt("MISSING", 9); got != 9 {
		t.Fatalf("GetInt missing should fall back, got %d", got)
	}
}
