// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scenegraph

import (
	"slices"
	"testing"
)

func TestResourceTracker(t *testing.T) {
	var tr ResourceTracker[string]
	if tr.AddRef("") {
		t.Fatal("ResourceTracker.AddRef(\"\"):\nhave true\nwant false")
	}
	if !tr.AddRef("a") {
		t.Fatal("ResourceTracker.AddRef(a):\nhave false\nwant true")
	}
	if tr.AddRef("a") {
		t.Fatal("ResourceTracker.AddRef(a) again:\nhave true\nwant false")
	}
	tr.AddRef("b")
	tr.AddRef("c")
	if n := tr.Len(); n != 3 {
		t.Fatalf("ResourceTracker.Len:\nhave %d\nwant 3", n)
	}
	if n := tr.Count("a"); n != 2 {
		t.Fatalf("ResourceTracker.Count(a):\nhave %d\nwant 2", n)
	}
	if tr.Release("a") {
		t.Fatal("ResourceTracker.Release(a):\nhave true\nwant false")
	}
	if !tr.Release("b") {
		t.Fatal("ResourceTracker.Release(b):\nhave false\nwant true")
	}
	if tr.Contains("b") {
		t.Fatal("ResourceTracker.Contains(b):\nhave true\nwant false")
	}
	if have, want := slices.Collect(tr.All()), []string{"a", "c"}; !slices.Equal(have, want) {
		t.Fatalf("ResourceTracker.All:\nhave %v\nwant %v", have, want)
	}
	if !tr.Release("a") || tr.Contains("a") {
		t.Fatal("ResourceTracker.Release(a): resource should no longer be tracked")
	}
	if tr.Release("") {
		t.Fatal("ResourceTracker.Release(\"\"):\nhave true\nwant false")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("ResourceTracker.Release(untracked): should have panicked")
		}
	}()
	tr.Release("x")
}
