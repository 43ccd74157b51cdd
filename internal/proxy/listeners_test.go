package proxy

import (
	"context"
	"testing"
)

func TestListenersFireInOrderExactlyOnce(t *testing.T) {
	_, p := newFakeServer(t)
	var order []int
	p.Subscribe(func() { order = append(order, 1) })
	p.Subscribe(func() { order = append(order, 2) })
	p.Subscribe(func() { order = append(order, 3) })
	if _, err := p.RunCommand(context.Background(), "x=1"); err != nil {
		t.Fatalf("command: %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("invocations=%d, want 3", len(order))
	}
	for i, v := range order {
		if v != i+1 {
			t.Fatalf("order=%v", order)
		}
	}
}

func TestNilListenerSkippedNotFatal(t *testing.T) {
	_, p := newFakeServer(t)
	fired := 0
	p.Subscribe(func() { fired++ })
	p.Subscribe(nil)
	p.Subscribe(func() { fired++ })
	if err := p.WriteFile(context.Background(), "a.py", "pass"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if fired != 2 {
		t.Fatalf("fired=%d, want 2", fired)
	}
}

func TestReadsDoNotNotify(t *testing.T) {
	_, p := newFakeServer(t)
	fired := 0
	p.Subscribe(func() { fired++ })
	ctx := context.Background()
	if _, err := p.Snapshot(ctx); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, err := p.Types(ctx); err != nil {
		t.Fatalf("types: %v", err)
	}
	if _, err := p.Output(ctx); err != nil {
		t.Fatalf("output: %v", err)
	}
	if _, err := p.WorkingFolder(ctx); err != nil {
		t.Fatalf("folder: %v", err)
	}
	if fired != 0 {
		t.Fatalf("fired=%d, want 0", fired)
	}
}

func TestNoNotifyOnFailedMutation(t *testing.T) {
	fs, p := newFakeServer(t)
	fired := 0
	p.Subscribe(func() { fired++ })
	fs.failCode = 500
	if _, err := p.RunCommand(context.Background(), "x=1"); err == nil {
		t.Fatal("expected error")
	}
	if fired != 0 {
		t.Fatalf("fired=%d, want 0 after failed mutation", fired)
	}
}
