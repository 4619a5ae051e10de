package types

import (
	"encoding/binary"
	"encoding/hex"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// Digest is a value fingerprint.
type Digest [blake2b.Size256]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Fingerprint hashes a value's kind, shape and payload. Two values with the
// same fingerprint have the same representation and contents; equal data
// held in different kinds hashes differently.
func Fingerprint(v Value) Digest {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	writeRep(h, v.Rep())
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

func writeRep(h hash.Hash, r Representation) {
	writeInt(h, int64(r.Kind()))
	dims := r.Dims()
	writeInt(h, int64(len(dims)))
	for _, n := range dims {
		writeInt(h, int64(n))
	}
	switch x := r.(type) {
	case *Range:
		writeFloat(h, x.base)
		writeFloat(h, x.inc)
		return
	case *ScalarStruct:
		writeStrings(h, x.keys)
	case *StructArray:
		writeStrings(h, x.keys)
	case *Object:
		writeStrings(h, []string{x.class})
		if x.handle {
			h.Write(x.st.id[:])
			return
		}
		writeStrings(h, x.st.keys)
	case *FunctionHandle:
		if !x.IsAnonymous() {
			writeStrings(h, []string{x.name})
			return
		}
		writeStrings(h, x.params)
		writeStrings(h, []string{x.body})
		writeStrings(h, x.CapturedNames())
	}
	if c, ok := r.(Collection); ok {
		for _, v := range c.Values() {
			writeRep(h, v.Rep())
		}
		return
	}
	if n, ok := r.(Numeric); ok {
		if raw, ok := n.Elements().(interface{ Raw() any }); ok {
			// Every element type stored by a numeric kind has a fixed size.
			_ = binary.Write(h, binary.LittleEndian, raw.Raw())
		}
	}
}

func writeInt(h hash.Hash, n int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	h.Write(buf[:])
}

func writeFloat(h hash.Hash, f float64) {
	_ = binary.Write(h, binary.LittleEndian, f)
}

func writeStrings(h hash.Hash, ss []string) {
	writeInt(h, int64(len(ss)))
	for _, s := range ss {
		writeInt(h, int64(len(s)))
		h.Write([]byte(s))
	}
}
