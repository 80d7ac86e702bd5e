package wzio

import "github.com/ossyrian/wzkit/internal/wzcrypto"

func wzDecryptOffset(r *Reader, pos, encoded uint32) uint32 {
	return wzcrypto.DecryptOffset(pos, r.fstart, r.versionHash, encoded)
}
