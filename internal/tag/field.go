package tag

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jask/uidclone/internal/block0"
)

// defaultFieldTOML seeds tags.toml on first run: two originals to copy from,
// two blank magic tags to copy to, and one magic tag with non-default keys.
const defaultFieldTOML = `# Virtual tags available to present to the reader.
# block0 is the manufacturer block; its first uid_len bytes are the UID.
# Only magic (gen2) tags accept writes to block 0.

[[tag]]
name = "office badge"
block0 = "A1B2C3D404880400475955D141103607"
uid_len = 4
magic = false
key_a = "FFFFFFFFFFFF"
key_b = "FFFFFFFFFFFF"

[[tag]]
name = "transit card"
block0 = "043A5B7C8D9EAF084400120111003A5F"
uid_len = 7
magic = false
key_a = "FFFFFFFFFFFF"
key_b = "FFFFFFFFFFFF"

[[tag]]
name = "magic gen2 4b"
block0 = "01020304040804006263646566676869"
uid_len = 4
magic = true
key_a = "FFFFFFFFFFFF"
key_b = "FFFFFFFFFFFF"

[[tag]]
name = "magic gen2 7b"
block0 = "04010203040506084400000000000000"
uid_len = 7
magic = true
key_a = "FFFFFFFFFFFF"
key_b = "FFFFFFFFFFFF"

[[tag]]
name = "magic gen2 locked"
block0 = "DEADBEEF220804006263646566676869"
uid_len = 4
magic = true
key_a = "A0A1A2A3A4A5"
key_b = "B0B1B2B3B4B5"
`

type fieldFile struct {
	Tag []tagEntry `toml:"tag"`
}

type tagEntry struct {
	Name   string `toml:"name"`
	Block0 string `toml:"block0"`
	UIDLen int    `toml:"uid_len"`
	Magic  bool   `toml:"magic"`
	KeyA   string `toml:"key_a"`
	KeyB   string `toml:"key_b"`
}

// Field is the set of virtual tags that can be held to the reader.
type Field struct {
	mu   sync.Mutex
	path string
	tags []*Virtual
}

// LoadField reads tags.toml at path, writing the default field first if the
// file does not exist yet.
func LoadField(path string) (*Field, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			return nil, fmt.Errorf("create tags dir: %w", mkErr)
		}
		if wErr := os.WriteFile(path, []byte(defaultFieldTOML), 0o644); wErr != nil {
			return nil, fmt.Errorf("write default tags: %w", wErr)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}
	f, err := ParseField(data)
	if err != nil {
		return nil, err
	}
	f.path = path
	return f, nil
}

// DefaultField returns the built-in field without touching the disk.
func DefaultField() *Field {
	f, err := ParseField([]byte(defaultFieldTOML))
	if err != nil {
		panic(err)
	}
	return f
}

// ParseField parses TOML bytes into a field. Names must be unique.
func ParseField(data []byte) (*Field, error) {
	var ff fieldFile
	if err := toml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("parse tags.toml: %w", err)
	}
	f := &Field{}
	seen := map[string]struct{}{}
	for i, e := range ff.Tag {
		v, err := e.virtual()
		if err != nil {
			return nil, fmt.Errorf("tag[%d] %q: %w", i, e.Name, err)
		}
		key := strings.ToLower(v.Name())
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("tag[%d] %q: %w: duplicate name", i, e.Name, ErrBadTagEntry)
		}
		seen[key] = struct{}{}
		f.tags = append(f.tags, v)
	}
	return f, nil
}

// Tags returns the tags in file order.
func (f *Field) Tags() []*Virtual {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*Virtual, len(f.tags))
	copy(out, f.tags)
	return out
}

// Path is the file the field persists to, empty when it has none.
func (f *Field) Path() string { return f.path }

// Get looks up a tag by name (case-insensitive).
func (f *Field) Get(name string) (*Virtual, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.tags {
		if strings.EqualFold(v.Name(), name) {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTag, name)
}

// Save writes the current tag memory back to the file the field was loaded
// from. Fields built with ParseField or DefaultField have no file and Save
// is a no-op for them.
func (f *Field) Save() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.path == "" {
		return nil
	}

	ff := fieldFile{Tag: make([]tagEntry, 0, len(f.tags))}
	for _, v := range f.tags {
		ff.Tag = append(ff.Tag, entryFor(v))
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(ff); err != nil {
		return fmt.Errorf("encode tags.toml: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write tags.toml: %w", err)
	}
	return os.Rename(tmp, f.path)
}

func (e tagEntry) virtual() (*Virtual, error) {
	if strings.TrimSpace(e.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrBadTagEntry)
	}
	if !block0.ValidUIDLen(e.UIDLen) {
		return nil, fmt.Errorf("%w: uid_len %d", ErrBadTagEntry, e.UIDLen)
	}
	raw, err := block0.ParseHex(e.Block0)
	if err != nil {
		return nil, fmt.Errorf("%w: block0: %v", ErrBadTagEntry, err)
	}
	if len(raw) != blockSize {
		return nil, fmt.Errorf("%w: block0 must be %d bytes", ErrBadTagEntry, blockSize)
	}
	keyA, err := ParseKey(e.KeyA)
	if err != nil {
		return nil, fmt.Errorf("key_a: %w", err)
	}
	keyB, err := ParseKey(e.KeyB)
	if err != nil {
		return nil, fmt.Errorf("key_b: %w", err)
	}
	var b0 [blockSize]byte
	copy(b0[:], raw)
	return NewVirtual(strings.TrimSpace(e.Name), b0, e.UIDLen, e.Magic, keyA, keyB), nil
}

func entryFor(v *Virtual) tagEntry {
	b0 := v.Block0()
	a, b := v.Keys(0)
	return tagEntry{
		Name:   v.Name(),
		Block0: block0.FormatHex(b0[:]),
		UIDLen: v.uidLen,
		Magic:  v.Magic(),
		KeyA:   a.String(),
		KeyB:   b.String(),
	}
}
