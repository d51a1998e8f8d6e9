package core

import "testing"

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		name        string
		sample      string
		candidates  []rune
		wantDelim   rune
		wantOutcome SniffOutcome
	}{
		{
			name:        "semicolon detected",
			sample:      "Name;Age\nAlice;30\nBob;25\n",
			wantDelim:   ';',
			wantOutcome: SniffDetected,
		},
		{
			name:        "comma detected",
			sample:      "a,b,c\n1,2,3\n",
			wantDelim:   ',',
			wantOutcome: SniffDetected,
		},
		{
			name:        "header only",
			sample:      "Name;Age",
			wantDelim:   ';',
			wantOutcome: SniffDetected,
		},
		{
			name:        "decimal commas inside semicolon data",
			sample:      "name;price\nx;1,5\ny;2,5\n",
			wantDelim:   ';',
			wantOutcome: SniffDetected,
		},
		{
			name:        "no candidate present falls back to comma",
			sample:      "hello world\nfoo bar\n",
			wantDelim:   ',',
			wantOutcome: SniffFallback,
		},
		{
			name:        "inconsistent counts fall back to comma",
			sample:      "a,b\n1,2,3,4\nx\n",
			wantDelim:   ',',
			wantOutcome: SniffFallback,
		},
		{
			name:        "empty sample falls back to comma",
			sample:      "",
			wantDelim:   ',',
			wantOutcome: SniffFallback,
		},
		{
			name:        "tie goes to comma",
			sample:      "a,b;c\n1,2;3\n",
			wantDelim:   ',',
			wantOutcome: SniffDetected,
		},
		{
			name:        "tie follows candidate order",
			sample:      "a,b;c\n1,2;3\n",
			candidates:  []rune{';', ','},
			wantDelim:   ';',
			wantOutcome: SniffDetected,
		},
		{
			name:        "tab candidate",
			sample:      "a\tb\n1\t2\n",
			candidates:  []rune{',', ';', '\t'},
			wantDelim:   '\t',
			wantOutcome: SniffDetected,
		},
		{
			name:        "first deciding chunk wins over later lines",
			sample:      "h;h\n1;1\n2;2\n3;3\n4;4\n5;5\n6;6\n7;7\n8;8\n9;9\n10;10\n11;11\n12;12\n13;13\n14;14\n15;15\n16;16\n17;17\n18;18\n19;19\n20;20\n21\n",
			wantDelim:   ';',
			wantOutcome: SniffDetected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SniffDelimiter([]byte(tt.sample), tt.candidates)
			if got.Delimiter != tt.wantDelim {
				t.Errorf("Delimiter = %q, want %q", got.Delimiter, tt.wantDelim)
			}
			if got.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %q, want %q", got.Outcome, tt.wantOutcome)
			}
		})
	}
}

func TestFrequencyTableMode(t *testing.T) {
	tests := []struct {
		name       string
		counts     []int
		wantOK     bool
		wantCount  int
		wantWeight int
	}{
		{name: "never seen", counts: nil, wantOK: false},
		{name: "always zero", counts: []int{0, 0, 0}, wantOK: false},
		{name: "uniform", counts: []int{2, 2, 2}, wantOK: true, wantCount: 2, wantWeight: 3},
		{name: "majority", counts: []int{1, 1, 1, 0}, wantOK: true, wantCount: 1, wantWeight: 2},
		{name: "tie keeps first seen", counts: []int{3, 1}, wantOK: true, wantCount: 3, wantWeight: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := frequencyTable{counts: make(map[int]int)}
			for _, n := range tt.counts {
				f.add(n)
			}
			m, ok := f.mode()
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if m.count != tt.wantCount || m.weight != tt.wantWeight {
				t.Errorf("mode = %+v, want count=%d weight=%d", m, tt.wantCount, tt.wantWeight)
			}
		})
	}
}
