package platform

import "testing"

func TestStrategyForVersion(t *testing.T) {
	cases := []struct {
		version string
		want    promptStrategy
	}{
		{"10.14.6", strategyBiometricWithFallback},
		{"10.15", strategyCombined},
		{"10.15.7", strategyCombined},
		{"11.0", strategyCombined},
		{"14.5", strategyCombined},
		{"", strategyBiometricWithFallback},
		{"garbage", strategyBiometricWithFallback},
		{"10.x", strategyBiometricWithFallback},
	}

	for _, tc := range cases {
		if got := strategyFor(tc.version); got != tc.want {
			t.Fatalf("strategyFor(%q) = %v, want %v", tc.version, got, tc.want)
		}
	}
}

func TestParseProductVersion(t *testing.T) {
	major, minor, ok := parseProductVersion("10.15.7")
	if !ok || major != 10 || minor != 15 {
		t.Fatalf("parseProductVersion(10.15.7) = %d.%d ok=%v", major, minor, ok)
	}
	if _, _, ok := parseProductVersion(""); ok {
		t.Fatalf("empty version must not parse")
	}
	major, minor, ok = parseProductVersion("12")
	if !ok || major != 12 || minor != 0 {
		t.Fatalf("parseProductVersion(12) = %d.%d ok=%v", major, minor, ok)
	}
}
