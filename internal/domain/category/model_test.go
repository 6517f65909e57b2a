package category

import (
	"reflect"
	"testing"
)

func TestBuildIndex_GroupsBySportKeepingOrder(t *testing.T) {
	t.Parallel()

	idx := BuildIndex([]Category{
		{SportID: "2", CategoryName: "Tennis - ATP"},
		{SportID: "5", CategoryName: "Moneyline"},
		{SportID: "2", CategoryName: "Tennis - WTA"},
	})

	if got := idx.Names("2"); !reflect.DeepEqual(got, []string{"Tennis - ATP", "Tennis - WTA"}) {
		t.Fatalf("unexpected names for sport 2: %v", got)
	}
	if got := idx.Names("5"); !reflect.DeepEqual(got, []string{"Moneyline"}) {
		t.Fatalf("unexpected names for sport 5: %v", got)
	}
}

func TestIndexNames_UnknownSportIsEmptyList(t *testing.T) {
	t.Parallel()

	got := BuildIndex(nil).Names("missing")
	if got == nil {
		t.Fatalf("expected non-nil empty list")
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

func TestIndexNames_ReturnsCopy(t *testing.T) {
	t.Parallel()

	idx := BuildIndex([]Category{{SportID: "1", CategoryName: "Points"}})
	names := idx.Names("1")
	names[0] = "mutated"

	if got := idx.Names("1")[0]; got != "Points" {
		t.Fatalf("index was mutated through returned slice: %q", got)
	}
}
