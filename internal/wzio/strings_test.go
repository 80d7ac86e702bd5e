package wzio

import "testing"

func TestWzStringMetaASCIIRoundTrip(t *testing.T) {
	plain := "AB"
	encoded := make([]byte, len(plain))
	for i := 0; i < len(plain); i++ {
		encoded[i] = plain[i] ^ byte(0xAA+i)
	}
	data := append([]byte{byte(int8(-len(plain)))}, encoded...)

	got, err := FromBytes(data).NewCursor(0).WzString()
	if err != nil {
		t.Fatal(err)
	}
	if got != plain {
		t.Errorf("WzString() = %q, want %q", got, plain)
	}
}

func TestWzStringMetaUnicodeRoundTrip(t *testing.T) {
	plain := []uint16{'h', 'i'}
	var encoded []byte
	for i, u := range plain {
		c := u ^ uint16(0xAAAA+i)
		encoded = append(encoded, byte(c), byte(c>>8))
	}
	data := append([]byte{byte(len(plain))}, encoded...)

	got, err := FromBytes(data).NewCursor(0).WzString()
	if err != nil {
		t.Fatal(err)
	}
	if got != "hi" {
		t.Errorf("WzString() = %q, want %q", got, "hi")
	}
}

func TestWzStringMetaEmpty(t *testing.T) {
	got, err := FromBytes([]byte{0}).NewCursor(0).WzString()
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("WzString() = %q, want empty", got)
	}
}
