package wzms

import (
	"golang.org/x/crypto/chacha20"
	"golang.org/x/xerrors"
)

// chaChaVersion and chaChaKeyBase are the forward-compatibility constants
// a newer MS container revision (never seen in the wild, but reserved in
// the header's version byte) would use in place of SNOW2. ParseHeader
// rejects any version other than 2 today, so this path is currently
// unreachable; it is kept so a future version==4 container only needs a
// dispatch added to ParseHeader rather than a whole new cipher.
const chaChaVersion = 4

var chaChaKeyBase = [32]byte{
	0x7B, 0x2F, 0x35, 0x48, 0x43, 0x95, 0x02, 0xB9,
	0xAE, 0x91, 0xA6, 0xE1, 0xD8, 0xD6, 0x24, 0xB4,
	0x33, 0x10, 0x1D, 0x3D, 0xC1, 0xBB, 0xC6, 0xF4,
	0xA5, 0xFE, 0xB3, 0x69, 0x6B, 0x56, 0xE4, 0x75,
}

// decryptChaCha20 decrypts data in place with key/nonce using IETF
// ChaCha20, for the reserved version-4 container variant.
func decryptChaCha20(data []byte, key [32]byte, nonce [12]byte) error {
	cipher, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		return xerrors.Errorf("wzms: chacha20 init: %w", err)
	}
	cipher.XORKeyStream(data, data)
	return nil
}
