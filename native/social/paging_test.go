package social

import (
	"reflect"
	"testing"
)

func TestReverseWindow(t *testing.T) {
	cases := []struct {
		length, fromIndex, limit uint64
		from, to                 uint64
	}{
		{length: 10, fromIndex: 0, limit: 3, from: 7, to: 10},
		{length: 10, fromIndex: 3, limit: 3, from: 4, to: 7},
		{length: 10, fromIndex: 9, limit: 3, from: 0, to: 1},
		{length: 10, fromIndex: 10, limit: 3, from: 0, to: 0},
		{length: 10, fromIndex: 12, limit: 3, from: 0, to: 0},
		{length: 2, fromIndex: 0, limit: 5, from: 0, to: 2},
		{length: 0, fromIndex: 0, limit: 5, from: 0, to: 0},
		// Near-ceiling query values must clamp, not wrap.
		{length: 10, fromIndex: ^uint64(0), limit: 1, from: 0, to: 0},
		{length: 10, fromIndex: 0, limit: ^uint64(0), from: 0, to: 10},
		{length: 10, fromIndex: 3, limit: ^uint64(0), from: 0, to: 7},
		{length: 10, fromIndex: ^uint64(0), limit: ^uint64(0), from: 0, to: 0},
	}
	for _, tc := range cases {
		from, to := reverseWindow(tc.length, tc.fromIndex, tc.limit)
		if from != tc.from || to != tc.to {
			t.Errorf("reverseWindow(%d, %d, %d) = [%d, %d), want [%d, %d)",
				tc.length, tc.fromIndex, tc.limit, from, to, tc.from, tc.to)
		}
	}
}

func TestPageReverse(t *testing.T) {
	list := []string{"a", "b", "c", "d", "e"}

	if got := pageReverse(list, 0, 2); !reflect.DeepEqual(got, []string{"e", "d"}) {
		t.Errorf("pageReverse first page = %v", got)
	}
	if got := pageReverse(list, 2, 2); !reflect.DeepEqual(got, []string{"c", "b"}) {
		t.Errorf("pageReverse second page = %v", got)
	}
	if got := pageReverse(list, 4, 2); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("pageReverse tail page = %v", got)
	}
	if got := pageReverse(list, 5, 2); len(got) != 0 {
		t.Errorf("pageReverse past end = %v", got)
	}
	if got := pageReverse(list, ^uint64(0), 1); len(got) != 0 {
		t.Errorf("pageReverse max fromIndex = %v", got)
	}
	if got := pageReverse(list, 0, ^uint64(0)); !reflect.DeepEqual(got, []string{"e", "d", "c", "b", "a"}) {
		t.Errorf("pageReverse max limit = %v", got)
	}
}

func TestPageForward(t *testing.T) {
	list := []string{"a", "b", "c", "d", "e"}

	if got := pageForward(list, 0, 2); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("pageForward first page = %v", got)
	}
	if got := pageForward(list, 4, 2); !reflect.DeepEqual(got, []string{"e"}) {
		t.Errorf("pageForward tail page = %v", got)
	}
	if got := pageForward(list, 9, 2); len(got) != 0 {
		t.Errorf("pageForward past end = %v", got)
	}
	if got := pageForward(list, 1, ^uint64(0)); !reflect.DeepEqual(got, []string{"b", "c", "d", "e"}) {
		t.Errorf("pageForward max limit = %v", got)
	}
	if got := pageForward(list, ^uint64(0), 1); len(got) != 0 {
		t.Errorf("pageForward max fromIndex = %v", got)
	}
}
