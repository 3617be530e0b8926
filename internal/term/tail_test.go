package term

import (
	"reflect"
	"testing"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "plain text untouched",
			input:  "hello world",
			expect: "hello world",
		},
		{
			name:   "sgr color codes",
			input:  "\x1b[1;32mok\x1b[0m done",
			expect: "ok done",
		},
		{
			name:   "cursor movement",
			input:  "\x1b[2Ktyping\x1b[1A",
			expect: "typing",
		},
		{
			name:   "osc title sequence",
			input:  "\x1b]0;my title\x07prompt$",
			expect: "prompt$",
		},
		{
			name:   "carriage returns dropped",
			input:  "progress 10%\rprogress 99%",
			expect: "progress 10%progress 99%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripANSI(tt.input); got != tt.expect {
				t.Errorf("stripANSI(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestTailBufferKeepsLastLines(t *testing.T) {
	tb := newTailBuffer(3)
	tb.append([]byte("one\ntwo\nthree\nfour\n"))

	got := tb.lines(0)
	want := []string{"two", "three", "four"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %v, want %v", got, want)
	}
}

func TestTailBufferPartialLine(t *testing.T) {
	tb := newTailBuffer(10)
	tb.append([]byte("done\n$ ech"))

	got := tb.lines(0)
	want := []string{"done", "$ ech"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %v, want %v", got, want)
	}

	// Completing the partial line moves it into the ring.
	tb.append([]byte("o hi\n"))
	got = tb.lines(0)
	want = []string{"done", "$ echo hi"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lines after completion = %v, want %v", got, want)
	}
}

func TestTailBufferMaxWindow(t *testing.T) {
	tb := newTailBuffer(50)
	tb.append([]byte("a\nb\nc\nd\n"))

	got := tb.lines(2)
	want := []string{"c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lines(2) = %v, want %v", got, want)
	}
}

func TestMergeEnvOverridePrecedence(t *testing.T) {
	base := []string{"PATH=/usr/bin", "HOME=/home/u", "TERM=dumb"}
	merged := mergeEnv(base, []string{"PATH=/shim:/usr/bin", "EXTRA=1"})

	want := []string{"PATH=/shim:/usr/bin", "HOME=/home/u", "TERM=dumb", "EXTRA=1"}
	if !reflect.DeepEqual(merged, want) {
		t.Errorf("mergeEnv = %v, want %v", merged, want)
	}
}
