package wipeengine

import "testing"

func TestLedger(t *testing.T) {
	t.Run("AddBelowMax", func(t *testing.T) {
		l := NewLedger(5, 3)
		if err := l.Add(0, ReadError); err != nil {
			t.Fatalf("unexpected abort: %v", err)
		}
		if len(l.Entries) != 1 {
			t.Fatalf("want 1 entry, got %d", len(l.Entries))
		}
	})

	t.Run("AbortAtMax", func(t *testing.T) {
		l := NewLedger(2, 3)
		if err := l.Add(0, ReadError); err != nil {
			t.Fatalf("unexpected abort on first entry: %v", err)
		}
		err := l.Add(4096, WriteError)
		if err != ErrTooManyBadBlocks {
			t.Fatalf("want ErrTooManyBadBlocks, got %v", err)
		}
		if len(l.Entries) != 2 {
			t.Fatalf("want exactly 2 entries, got %d", len(l.Entries))
		}
	})

	t.Run("ResetClearsBetweenPasses", func(t *testing.T) {
		l := NewLedger(200, 200)
		l.Add(0, ReadError)
		l.Add(4096, Unwiped)
		l.Reset()
		if len(l.Entries) != 0 {
			t.Fatalf("want empty ledger after reset, got %d entries", len(l.Entries))
		}
		if l.Max != 200 || l.Retry != 200 {
			t.Fatalf("reset must not touch Max/Retry")
		}
	})
}

func TestEntryKindChar(t *testing.T) {
	cases := map[EntryKind]byte{
		ReadError:  'r',
		WriteError: 'w',
		Unwiped:    'u',
	}
	for kind, want := range cases {
		if got := kind.Char(); got != want {
			t.Errorf("%v.Char() = %c, want %c", kind, got, want)
		}
	}
}
