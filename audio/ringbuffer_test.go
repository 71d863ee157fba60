package audio

import (
	"bytes"
	"io"
	"sync"
	"testing"
)

func TestRingBufferWriteRead(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		writes   [][]byte
		readBuf  int
		want     []byte
		left     int
	}{
		{"basic", 16, [][]byte{{1, 2, 3, 4, 5}}, 5, []byte{1, 2, 3, 4, 5}, 0},
		{"partial read", 16, [][]byte{{1, 2, 3, 4, 5, 6, 7, 8}}, 3, []byte{1, 2, 3}, 5},
		{"overflow drops oldest", 8, [][]byte{{1, 2, 3, 4, 5, 6}, {7, 8, 9, 10, 11}}, 8, []byte{4, 5, 6, 7, 8, 9, 10, 11}, 0},
		{"larger than capacity", 4, [][]byte{{1, 2, 3, 4, 5, 6, 7, 8}}, 4, []byte{5, 6, 7, 8}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rb := NewRingBuffer(tc.capacity)
			for _, w := range tc.writes {
				rb.Write(w)
			}
			out := make([]byte, tc.readBuf)
			n, err := rb.Read(out)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if !bytes.Equal(out[:n], tc.want) {
				t.Errorf("read %v, want %v", out[:n], tc.want)
			}
			if rb.Buffered() != tc.left {
				t.Errorf("Buffered() = %d, want %d", rb.Buffered(), tc.left)
			}
		})
	}
}

func TestRingBufferWrapAround(t *testing.T) {
	rb := NewRingBuffer(8)
	rb.Write([]byte{1, 2, 3, 4, 5, 6})
	rb.Read(make([]byte, 4))
	rb.Write([]byte{7, 8, 9, 10, 11})

	if rb.Buffered() != 7 {
		t.Fatalf("Buffered() = %d, want 7", rb.Buffered())
	}
	out := make([]byte, 7)
	n, _ := rb.Read(out)
	if want := []byte{5, 6, 7, 8, 9, 10, 11}; !bytes.Equal(out[:n], want) {
		t.Errorf("read %v, want %v", out[:n], want)
	}
}

func TestRingBufferClear(t *testing.T) {
	rb := NewRingBuffer(16)
	rb.Write([]byte{1, 2, 3, 4})
	rb.Clear()
	if rb.Buffered() != 0 {
		t.Fatalf("Buffered() after Clear = %d", rb.Buffered())
	}
}

func TestRingBufferCloseDrainsThenEOF(t *testing.T) {
	rb := NewRingBuffer(16)
	rb.Write([]byte{1, 2})
	rb.Close()

	out := make([]byte, 2)
	if n, err := rb.Read(out); err != nil || n != 2 {
		t.Fatalf("Read after Close = %d, %v; want 2, nil", n, err)
	}
	if _, err := rb.Read(out); err != io.EOF {
		t.Fatalf("Read after drain = %v, want io.EOF", err)
	}

	rb.Write([]byte{3})
	if rb.Buffered() != 0 {
		t.Error("writes after Close should be ignored")
	}
}

func TestRingBufferCloseUnblocksReader(t *testing.T) {
	rb := NewRingBuffer(16)
	done := make(chan error, 1)
	go func() {
		_, err := rb.Read(make([]byte, 4))
		done <- err
	}()
	rb.Close()
	if err := <-done; err != io.EOF {
		t.Fatalf("blocked reader got %v, want io.EOF", err)
	}
}

func TestRingBufferStarved(t *testing.T) {
	rb := NewRingBuffer(16)
	if rb.Starved() {
		t.Fatal("fresh buffer should not report starvation")
	}

	done := make(chan struct{})
	go func() {
		rb.Read(make([]byte, 2))
		close(done)
	}()
	for {
		rb.mu.Lock()
		s := rb.starved
		rb.mu.Unlock()
		if s {
			break
		}
	}
	rb.Write([]byte{1, 2})
	<-done

	if !rb.Starved() {
		t.Error("reader waited on an empty buffer; Starved should be true")
	}
	if rb.Starved() {
		t.Error("Starved should clear after being reported")
	}
}

func TestRingBufferConcurrent(t *testing.T) {
	rb := NewRingBuffer(1024)
	const total = 100 * 100

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		chunk := make([]byte, 100)
		for i := 0; i < 100; i++ {
			for j := range chunk {
				chunk[j] = byte(i)
			}
			rb.Write(chunk)
		}
		rb.Close()
	}()

	received := 0
	go func() {
		defer wg.Done()
		buf := make([]byte, 64)
		for {
			n, err := rb.Read(buf)
			received += n
			if err == io.EOF {
				return
			}
		}
	}()
	wg.Wait()

	if received == 0 || received > total {
		t.Fatalf("received %d bytes, want 1..%d", received, total)
	}
}
