package viewer

import "testing"

func TestNavigator(t *testing.T) {
	var n Navigator
	n.Reset(5)

	if n.Current() != 1 {
		t.Fatalf("expected page 1 after reset, got %d", n.Current())
	}

	if n.Retreat() {
		t.Errorf("retreat from page 1 should be a no-op")
	}
	if n.Current() != 1 {
		t.Errorf("expected page 1, got %d", n.Current())
	}

	for i := 0; i < 4; i++ {
		if !n.Advance() {
			t.Fatalf("advance %d rejected at page %d", i+1, n.Current())
		}
	}
	if n.Current() != 5 {
		t.Fatalf("expected page 5, got %d", n.Current())
	}

	if n.Advance() {
		t.Errorf("advance past the last page should be a no-op")
	}
	if n.Current() != 5 {
		t.Errorf("expected page 5, got %d", n.Current())
	}

	if !n.Retreat() || n.Current() != 4 {
		t.Errorf("expected retreat to page 4, got %d", n.Current())
	}
}

func TestNavigatorEmpty(t *testing.T) {
	var n Navigator
	n.Reset(0)

	if n.Current() != 0 || n.Count() != 0 {
		t.Fatalf("expected no current page, got %d/%d", n.Current(), n.Count())
	}
	if n.Advance() || n.Retreat() || n.GoTo(1) || n.GoTo(0) {
		t.Errorf("transitions on an empty document should be no-ops")
	}
	if n.Current() != 0 {
		t.Errorf("state changed to %d", n.Current())
	}
}

func TestNavigatorGoTo(t *testing.T) {
	var n Navigator
	n.Reset(3)

	tests := []struct {
		page    int
		changed bool
		want    int
	}{
		{3, true, 3},
		{3, false, 3},
		{0, false, 3},
		{4, false, 3},
		{-1, false, 3},
		{1, true, 1},
	}
	for _, tt := range tests {
		if got := n.GoTo(tt.page); got != tt.changed {
			t.Errorf("GoTo(%d) = %v, want %v", tt.page, got, tt.changed)
		}
		if n.Current() != tt.want {
			t.Errorf("after GoTo(%d): page %d, want %d", tt.page, n.Current(), tt.want)
		}
	}
}

func TestNavigatorResetOnNewDocument(t *testing.T) {
	var n Navigator
	n.Reset(10)
	n.GoTo(7)

	n.Reset(2)
	if n.Current() != 1 || n.Count() != 2 {
		t.Fatalf("expected 1/2 after reset, got %d/%d", n.Current(), n.Count())
	}
}
