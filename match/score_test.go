package match

import (
	"context"
	"testing"
)

func TestPairKeyOrderIndependent(t *testing.T) {
	if PairKey("att_a", "att_b") != PairKey("att_b", "att_a") {
		t.Fatal("pair key depends on order")
	}
}

func TestStaticScoresMissingDefaultsZero(t *testing.T) {
	scores := StaticScores{PairKey("att_a", "att_b"): 0.7}
	if got, _ := scores.Score(context.Background(), "att_b", "att_a"); got != 0.7 {
		t.Fatalf("got %v", got)
	}
	if got, _ := scores.Score(context.Background(), "att_a", "att_z"); got != 0 {
		t.Fatalf("missing score must read 0, got %v", got)
	}
}
