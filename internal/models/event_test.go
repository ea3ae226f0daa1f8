package models

import "testing"

func TestSeverityRankOrdersTheScale(t *testing.T) {
	for i := 1; i < len(Severities); i++ {
		if Severities[i].Rank() <= Severities[i-1].Rank() {
			t.Fatalf("%s should rank above %s", Severities[i], Severities[i-1])
		}
	}
	if Severity("UNKNOWN").Rank() != -1 {
		t.Fatalf("unknown severity should rank -1, got %d", Severity("UNKNOWN").Rank())
	}
}

func TestSeverityHigh(t *testing.T) {
	cases := []struct {
		severity Severity
		want     bool
	}{
		{SeverityMild, false},
		{SeverityModerate, false},
		{SeveritySevere, true},
		{SeverityCritical, true},
		{Severity("UNKNOWN"), false},
	}
	for _, c := range cases {
		if got := c.severity.High(); got != c.want {
			t.Errorf("High(%s) = %v, want %v", c.severity, got, c.want)
		}
	}
}
