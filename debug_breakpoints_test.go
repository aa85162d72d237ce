package main

import (
	"testing"
)

func TestBreakpointToggleTwiceRestores(t *testing.T) {
	s := NewBreakpointSet()
	if !s.Toggle(0x1234) {
		t.Fatalf("first toggle should arm")
	}
	if s.Toggle(0x1234) {
		t.Fatalf("second toggle should disarm")
	}
	if s.Contains(0x1234) || s.Len() != 0 {
		t.Fatalf("set not empty after double toggle")
	}
}

func TestBreakpointSetKeepsCondition(t *testing.T) {
	s := NewBreakpointSet()
	cond := &BreakpointCondition{Source: CondSourceHitCount, Op: CondOpGreaterEqual, Value: 2}
	s.SetCondition(0x10, cond)
	s.Set(0x10)
	list := s.List()
	if len(list) != 1 || list[0].Condition != cond {
		t.Fatalf("Set replaced an existing condition: %+v", list)
	}
}

func TestBreakpointListSorted(t *testing.T) {
	s := NewBreakpointSet()
	for _, a := range []uint16{0x300, 0x001, 0x200} {
		s.Set(a)
	}
	list := s.List()
	want := []uint16{0x001, 0x200, 0x300}
	for i, bp := range list {
		if bp.Address != want[i] {
			t.Fatalf("List()[%d] = %04X, want %04X", i, bp.Address, want[i])
		}
	}
	list[0].Hits = 99
	if s.List()[0].Hits != 0 {
		t.Fatalf("List should return copies")
	}
	if !s.Remove(0x200) || s.Remove(0x200) {
		t.Fatalf("Remove should report membership")
	}
	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("Clear left %d breakpoints", s.Len())
	}
}

func TestShouldBreakCountsHits(t *testing.T) {
	r := newCPU8080TestRig(t, 0, nil)
	cpu := NewDebug8080(r.cpu)
	s := NewBreakpointSet()
	s.SetCondition(0x0000, &BreakpointCondition{Source: CondSourceHitCount, Op: CondOpEqual, Value: 3})

	for i := 1; i <= 2; i++ {
		if _, hit := s.ShouldBreak(0x0000, cpu, r.mem); hit {
			t.Fatalf("broke on hit %d", i)
		}
	}
	ev, hit := s.ShouldBreak(0x0000, cpu, r.mem)
	if !hit || ev.Hits != 3 || ev.Address != 0 {
		t.Fatalf("third hit = %+v, %v", ev, hit)
	}
	if _, hit := s.ShouldBreak(0x0001, cpu, r.mem); hit {
		t.Fatalf("broke on an address without a breakpoint")
	}

	s.SetCondition(0x0000, nil)
	if s.List()[0].Hits != 0 {
		t.Fatalf("SetCondition should reset hits")
	}
	if _, hit := s.ShouldBreak(0x0000, cpu, r.mem); !hit {
		t.Fatalf("unconditional breakpoint did not break")
	}
}

func TestParseCondition(t *testing.T) {
	tests := []struct {
		in     string
		source ConditionSource
		reg    string
		addr   uint16
		op     ConditionOp
		value  uint64
		format string
	}{
		{"A==$FF", CondSourceRegister, "A", 0, CondOpEqual, 0xFF, "A==$FF"},
		{"hl != 0x1000", CondSourceRegister, "HL", 0, CondOpNotEqual, 0x1000, "HL!=$1000"},
		{"[$4000]<=#16", CondSourceMemory, "", 0x4000, CondOpLessEqual, 16, "[$4000]<=$10"},
		{"hitcount>=3", CondSourceHitCount, "", 0, CondOpGreaterEqual, 3, "hitcount>=$3"},
		{"B<10", CondSourceRegister, "B", 0, CondOpLess, 0x10, "B<$10"},
		{"C>1", CondSourceRegister, "C", 0, CondOpGreater, 1, "C>$1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseCondition(tt.in)
			if err != nil {
				t.Fatalf("ParseCondition: %v", err)
			}
			if c.Source != tt.source || c.RegName != tt.reg || c.MemAddr != tt.addr || c.Op != tt.op || c.Value != tt.value {
				t.Fatalf("parsed %+v", c)
			}
			if got := FormatCondition(c); got != tt.format {
				t.Fatalf("FormatCondition = %q, want %q", got, tt.format)
			}
		})
	}
}

func TestParseConditionErrors(t *testing.T) {
	for _, in := range []string{"", "A", "==1", "A==zz", "[$10000]==1", "[foo]==1"} {
		if _, err := ParseCondition(in); err == nil {
			t.Errorf("ParseCondition(%q) accepted", in)
		}
	}
	if FormatCondition(nil) != "" {
		t.Fatalf("FormatCondition(nil) should be empty")
	}
}

func TestEvaluateCondition(t *testing.T) {
	r := newCPU8080TestRig(t, 0, nil)
	r.cpu.A = 0x42
	_ = r.mem.Write8(0x2000, 0x07)
	cpu := NewDebug8080(r.cpu)

	tests := []struct {
		cond string
		hits uint64
		want bool
	}{
		{"A==$42", 0, true},
		{"A!=$42", 0, false},
		{"[$2000]>6", 0, true},
		{"[$2000]<7", 0, false},
		{"hitcount>=2", 2, true},
		{"hitcount>=2", 1, false},
		{"IX==0", 0, false}, // no IX on the 8080
	}
	for _, tt := range tests {
		c, err := ParseCondition(tt.cond)
		if err != nil {
			t.Fatalf("ParseCondition(%q): %v", tt.cond, err)
		}
		if got := evaluateCondition(c, cpu, r.mem, tt.hits); got != tt.want {
			t.Errorf("%s with %d hits = %v, want %v", tt.cond, tt.hits, got, tt.want)
		}
	}
	if !evaluateCondition(nil, cpu, r.mem, 0) {
		t.Fatalf("nil condition should hold")
	}
}
