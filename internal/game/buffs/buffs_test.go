package buffs

import "testing"

func TestChronologicalReplay(t *testing.T) {
	e := NewEngine(nil)

	// +2 attack, then "set attack to 1", then +3 attack.
	e.Add("minion-1", Buff{SourceID: "src-1", Attr: AttrAttack, Delta: 2})
	e.Add("minion-1", Buff{SourceID: "src-2", Attr: AttrAttack, IsSet: true, Value: 1})
	e.Add("minion-1", Buff{SourceID: "src-3", Attr: AttrAttack, Delta: 3})

	// Set overrides the earlier +2 but not the later +3.
	if got := e.Effective("minion-1", AttrAttack, 4); got != 4 {
		t.Fatalf("expected 1+3=4, got %d", got)
	}
}

func TestEffectiveIsStableUntilInvalidated(t *testing.T) {
	e := NewEngine(nil)
	e.Add("minion-1", Buff{Attr: AttrHealth, Delta: 2})

	first := e.Effective("minion-1", AttrHealth, 3)
	second := e.Effective("minion-1", AttrHealth, 3)
	if first != 5 || second != 5 {
		t.Fatalf("expected stable 5, got %d then %d", first, second)
	}

	e.Add("minion-1", Buff{Attr: AttrHealth, Delta: 1})
	if got := e.Effective("minion-1", AttrHealth, 3); got != 6 {
		t.Fatalf("expected recompute after buff add, got %d", got)
	}
}

func TestInactiveSourceContributesNothing(t *testing.T) {
	active := map[string]bool{"aura": true}
	e := NewEngine(func(sourceID string) bool { return active[sourceID] })

	e.Add("minion-1", Buff{SourceID: "aura", Attr: AttrAttack, Delta: 2})
	if got := e.Effective("minion-1", AttrAttack, 1); got != 3 {
		t.Fatalf("expected 3 with active aura, got %d", got)
	}

	// Source leaves play: game invalidates, value falls back to base.
	active["aura"] = false
	e.Invalidate("minion-1")
	if got := e.Effective("minion-1", AttrAttack, 1); got != 1 {
		t.Fatalf("expected 1 with inactive aura, got %d", got)
	}
}

func TestInvalidateBySourceDropsDependentCaches(t *testing.T) {
	active := map[string]bool{"aura": true, "other": true}
	e := NewEngine(func(sourceID string) bool { return active[sourceID] })

	e.Add("minion-1", Buff{SourceID: "aura", Attr: AttrAttack, Delta: 2})
	e.Add("minion-2", Buff{SourceID: "other", Attr: AttrHealth, Delta: 4})
	if got := e.Effective("minion-1", AttrAttack, 1); got != 3 {
		t.Fatalf("expected 3 with active aura, got %d", got)
	}
	if got := e.Effective("minion-2", AttrHealth, 2); got != 6 {
		t.Fatalf("expected 6 with active source, got %d", got)
	}

	active["aura"] = false
	e.InvalidateBySource("aura")
	if got := e.Effective("minion-1", AttrAttack, 1); got != 1 {
		t.Fatalf("expected recompute for aura holder, got %d", got)
	}
	// Holders of other sources keep their cached value.
	if got := e.Effective("minion-2", AttrHealth, 2); got != 6 {
		t.Fatalf("expected unrelated holder untouched, got %d", got)
	}
}

func TestRemoveBySourceAndOneTurn(t *testing.T) {
	e := NewEngine(nil)
	e.Add("minion-1", Buff{SourceID: "aura", Attr: AttrAttack, Delta: 2})
	e.Add("minion-1", Buff{SourceID: "spell", Attr: AttrAttack, Delta: 1, OneTurn: true})
	e.Add("minion-2", Buff{SourceID: "aura", Attr: AttrHealth, Delta: 4})

	e.RemoveBySource("aura")
	if got := e.Effective("minion-1", AttrAttack, 0); got != 1 {
		t.Fatalf("expected only one-turn buff to remain, got %d", got)
	}
	if got := e.Effective("minion-2", AttrHealth, 2); got != 2 {
		t.Fatalf("expected aura buff stripped from minion-2, got %d", got)
	}

	e.RemoveOneTurn()
	if got := e.Effective("minion-1", AttrAttack, 0); got != 0 {
		t.Fatalf("expected turn boundary to clear temp buff, got %d", got)
	}
}

func TestSilenceRemovesAll(t *testing.T) {
	e := NewEngine(nil)
	e.Add("minion-1", Buff{Attr: AttrAttack, Delta: 5})
	e.Add("minion-1", Buff{Attr: AttrHealth, IsSet: true, Value: 1})

	e.RemoveAll("minion-1")
	if got := e.Effective("minion-1", AttrAttack, 2); got != 2 {
		t.Fatalf("expected base attack after silence, got %d", got)
	}
	if got := e.Effective("minion-1", AttrHealth, 6); got != 6 {
		t.Fatalf("expected base health after silence, got %d", got)
	}
}
