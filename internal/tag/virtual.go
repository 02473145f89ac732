package tag

import (
	"context"
	"sync"
)

const (
	sectorCount     = 16
	blocksPerSector = 4
	blockSize       = 16
)

// defaultAccessBits is the transport configuration of a factory tag
// (FF0780, user byte 69).
var defaultAccessBits = [4]byte{0xFF, 0x07, 0x80, 0x69}

// Virtual is an in-memory MIFARE Classic 1K tag.
//
// Block 0 holds the UID in its first UIDLen bytes. Writes authenticate
// against the sector trailer. Only magic (gen2) tags accept writes to
// block 0, so only they can change their UID.
type Virtual struct {
	mu     sync.Mutex
	name   string
	magic  bool
	uidLen int
	mem    [sectorCount][blocksPerSector][blockSize]byte
}

// NewVirtual creates a tag whose sector trailers all carry keyA and keyB.
func NewVirtual(name string, block0 [blockSize]byte, uidLen int, magic bool, keyA, keyB Key) *Virtual {
	v := &Virtual{name: name, magic: magic, uidLen: uidLen}
	v.mem[0][0] = block0
	for s := 0; s < sectorCount; s++ {
		var trailer [blockSize]byte
		copy(trailer[0:6], keyA[:])
		copy(trailer[6:10], defaultAccessBits[:])
		copy(trailer[10:16], keyB[:])
		v.mem[s][blocksPerSector-1] = trailer
	}
	return v
}

func (v *Virtual) Name() string { return v.name }

func (v *Virtual) Magic() bool { return v.magic }

func (v *Virtual) UID() UID {
	v.mu.Lock()
	defer v.mu.Unlock()
	return NewUID(v.mem[0][0][:v.uidLen])
}

// Block0 returns the current manufacturer block.
func (v *Virtual) Block0() [blockSize]byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mem[0][0]
}

// Keys returns key A and key B of the given sector trailer.
func (v *Virtual) Keys(sector int) (Key, Key) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.trailerKeys(sector)
}

func (v *Virtual) WriteBlock(ctx context.Context, sector, block int, data []byte, key Key, useKeyB bool) Status {
	if ctx.Err() != nil {
		return StatusError
	}
	if sector < 0 || sector >= sectorCount || block < 0 || block >= blocksPerSector {
		return StatusError
	}
	if len(data) != blockSize {
		return StatusError
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	a, b := v.trailerKeys(sector)
	want := a
	if useKeyB {
		want = b
	}
	if key != want {
		return StatusAuthFailed
	}
	if sector == 0 && block == 0 && !v.magic {
		return StatusError
	}
	copy(v.mem[sector][block][:], data)
	return StatusOK
}

// Close releases the simulated reader connection. Virtual tags stay in the
// field and can be presented again.
func (v *Virtual) Close() error { return nil }

func (v *Virtual) trailerKeys(sector int) (Key, Key) {
	var a, b Key
	t := v.mem[sector][blocksPerSector-1]
	copy(a[:], t[0:6])
	copy(b[:], t[10:16])
	return a, b
}
