package team

import "testing"

func TestNormalizer_DefaultAliases(t *testing.T) {
	n := DefaultNormalizer()

	tests := []struct {
		in   string
		want string
	}{
		{in: "AP.Bren", want: "Falcons AP.Bren"},
		{in: "  ECHO  ", want: "Team Liquid PH"},
		{in: "Team Liquid PH", want: "Team Liquid PH"},
		{in: "RRQ Hoshi", want: "RRQ Hoshi"},
		{in: "echo", want: "echo"},
		{in: "", want: ""},
		{in: " \t\n ", want: ""},
	}

	for _, tt := range tests {
		if got := n.Normalize(tt.in); got != tt.want {
			t.Fatalf("Normalize(%q)=%q want=%q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizer_Idempotent(t *testing.T) {
	n, err := NewNormalizer(map[string]string{
		"EVOS Legends": "EVOS Glory",
		"EVOS Glory":   "EVOS",
		"ECHO":         "Team Liquid PH",
	})
	if err != nil {
		t.Fatalf("new normalizer: %v", err)
	}

	inputs := []string{"", "   ", "EVOS Legends", "EVOS Glory", "EVOS", " ECHO", "Onic", "Team Liquid PH ", "ÖNIC Ésports"}
	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)
		if once != twice {
			t.Fatalf("normalize not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
	if got := n.Normalize("EVOS Legends"); got != "EVOS" {
		t.Fatalf("expected alias chain to resolve to EVOS, got %q", got)
	}
}

func TestNewNormalizer_RejectsCycle(t *testing.T) {
	_, err := NewNormalizer(map[string]string{"A": "B", "B": "A"})
	if err == nil {
		t.Fatalf("expected cycle error")
	}
}

func TestNewNormalizer_RejectsEmptySide(t *testing.T) {
	if _, err := NewNormalizer(map[string]string{"A": " "}); err == nil {
		t.Fatalf("expected error for empty alias target")
	}
}

func TestNormalizer_NilPassesThroughTrimmed(t *testing.T) {
	var n *Normalizer
	if got := n.Normalize("  Onic  "); got != "Onic" {
		t.Fatalf("unexpected nil normalizer output %q", got)
	}
}
