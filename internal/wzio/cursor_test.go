package wzio

import "testing"

func TestCursorScalars(t *testing.T) {
	data := []byte{
		0x2A,                   // U8
		0x34, 0x12,             // U16 -> 0x1234
		0x78, 0x56, 0x34, 0x12, // I32 -> 0x12345678
	}
	r := FromBytes(data)
	c := r.NewCursor(0)

	if got, err := c.U8(); err != nil || got != 0x2A {
		t.Fatalf("U8() = %#x, %v, want 0x2a, nil", got, err)
	}
	if got, err := c.U16(); err != nil || got != 0x1234 {
		t.Fatalf("U16() = %#x, %v, want 0x1234, nil", got, err)
	}
	if got, err := c.I32(); err != nil || got != 0x12345678 {
		t.Fatalf("I32() = %#x, %v, want 0x12345678, nil", got, err)
	}
	if got := c.Pos(); got != int64(len(data)) {
		t.Errorf("Pos() = %d, want %d", got, len(data))
	}
}

func TestCursorWzIntInline(t *testing.T) {
	r := FromBytes([]byte{42})
	v, err := r.NewCursor(0).WzInt()
	if err != nil {
		t.Fatal(err)
	}
	if v != 42 {
		t.Errorf("WzInt() = %d, want 42", v)
	}
}

func TestCursorWzIntEscaped(t *testing.T) {
	// -128 flag byte, followed by a literal little-endian int32.
	data := []byte{0x80, 0x78, 0x56, 0x34, 0x12}
	v, err := FromBytes(data).NewCursor(0).WzInt()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x12345678 {
		t.Errorf("WzInt() = %#x, want 0x12345678", v)
	}
}

func TestCursorBytesAdvancesPosition(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	c := FromBytes(data).NewCursor(1)
	got, err := c.Bytes(3)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Bytes(3) = %v, want %v", got, want)
		}
	}
	if c.Pos() != 4 {
		t.Errorf("Pos() after Bytes(3) from offset 1 = %d, want 4", c.Pos())
	}
}
