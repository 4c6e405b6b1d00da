package qlang

import "testing"

func TestEqual_IdenticalQueries(t *testing.T) {
	a := New()
	b := New()
	name := mustSimple(t, "name")
	name2 := mustSimple(t, "name")
	a.Selection = append(a.Selection, name)
	b.Selection = append(b.Selection, name2)
	if !a.Equal(b) {
		t.Errorf("expected structurally identical queries to be equal")
	}
}

func TestEqual_DifferentSelection(t *testing.T) {
	a := New()
	b := New()
	a.Selection = append(a.Selection, mustSimple(t, "name"))
	b.Selection = append(b.Selection, mustSimple(t, "amount"))
	if a.Equal(b) {
		t.Errorf("expected different selections to be unequal")
	}
}

func TestHasAggregation(t *testing.T) {
	q := New()
	amount := mustSimple(t, "amount")
	q.Selection = append(q.Selection, amount)
	if q.HasAggregation() {
		t.Errorf("expected no aggregation")
	}
}
