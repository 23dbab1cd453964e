package pool

import (
	"sync"
	"testing"
)

func TestPathBuilder_AppendWithDot(t *testing.T) {
	pb := AcquirePathBuilder()
	defer pb.Release()

	pb.AppendWithDot("Claim")
	pb.AppendWithDot("item")
	pb.AppendIndex(0)
	pb.AppendWithDot("servicedDate")

	if got := pb.String(); got != "Claim.item[0].servicedDate" {
		t.Errorf("String() = %q; want %q", got, "Claim.item[0].servicedDate")
	}
}

func TestPathBuilder_Truncate(t *testing.T) {
	pb := AcquirePathBuilder()
	defer pb.Release()

	pb.AppendWithDot("Claim")
	mark := pb.Len()
	pb.AppendWithDot("insurance")
	pb.AppendIndex(1)
	if got := pb.String(); got != "Claim.insurance[1]" {
		t.Fatalf("String() = %q", got)
	}

	pb.Truncate(mark)
	pb.AppendWithDot("item")
	if got := pb.String(); got != "Claim.item" {
		t.Errorf("String() after Truncate = %q; want %q", got, "Claim.item")
	}

	// Out of range marks are ignored.
	pb.Truncate(100)
	pb.Truncate(-1)
	if got := pb.String(); got != "Claim.item" {
		t.Errorf("String() after bad Truncate = %q", got)
	}
}

func TestPathBuilder_Reset(t *testing.T) {
	pb := AcquirePathBuilder()
	defer pb.Release()

	pb.AppendWithDot("Patient")
	pb.Reset()
	if pb.Len() != 0 {
		t.Errorf("Len() after Reset = %d; want 0", pb.Len())
	}
}

func TestPathBuilder_NilRelease(t *testing.T) {
	var pb *PathBuilder
	pb.Release() // Should not panic
}

func TestBuffer(t *testing.T) {
	buf := AcquireBuffer()
	buf.WriteString("{}")
	ReleaseBuffer(buf)

	again := AcquireBuffer()
	defer ReleaseBuffer(again)
	if again.Len() != 0 {
		t.Errorf("acquired buffer holds %d bytes", again.Len())
	}
	ReleaseBuffer(nil)
}

func TestPathBuilder_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pb := AcquirePathBuilder()
			pb.AppendWithDot("Claim")
			pb.AppendIndex(i)
			_ = pb.String()
			pb.Release()
		}(i)
	}
	wg.Wait()
}

func BenchmarkPathBuilder_Nested(b *testing.B) {
	for i := 0; i < b.N; i++ {
		pb := AcquirePathBuilder()
		pb.AppendWithDot("Claim")
		pb.AppendWithDot("item")
		pb.AppendIndex(0)
		pb.AppendWithDot("net")
		_ = pb.String()
		pb.Release()
	}
}
