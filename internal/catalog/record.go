package catalog

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/octohelm/queryfield/pkg/id"
	"github.com/octohelm/queryfield/pkg/schema"
	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// TableRecord is what the catalog knows about the indexes built for one table.
type TableRecord struct {
	ID          id.SFID       `msgpack:"id" json:"id,omitempty"`
	Name        string        `msgpack:"name" json:"name"`
	Fingerprint uint64        `msgpack:"fingerprint" json:"fingerprint"`
	Indexes     []IndexRecord `msgpack:"indexes" json:"indexes"`
}

func (r *TableRecord) Index(kind schema.IndexKind, name string) (*IndexRecord, bool) {
	for i := range r.Indexes {
		if r.Indexes[i].Kind == kind && r.Indexes[i].Name == name {
			return &r.Indexes[i], true
		}
	}
	return nil, false
}

// IndexRecord describes one built index. ID changes whenever the index has to be rebuilt.
type IndexRecord struct {
	ID          id.SFID            `msgpack:"id" json:"id,omitempty"`
	Kind        schema.IndexKind   `msgpack:"kind" json:"kind"`
	Name        string             `msgpack:"name" json:"name"`
	Fingerprint uint64             `msgpack:"fingerprint" json:"fingerprint"`
	Fields      []IndexFieldRecord `msgpack:"fields" json:"fields"`
}

type IndexFieldRecord struct {
	Property   string `msgpack:"property" json:"property"`
	Descending bool   `msgpack:"desc,omitempty" json:"descending,omitempty"`
}

// Describe is the record of set before anything is built, so without ids.
func Describe(set *schema.DescriptorSet) TableRecord {
	r := TableRecord{
		Name:        set.Type(),
		Fingerprint: set.Fingerprint(),
	}
	for _, d := range set.All() {
		r.Indexes = append(r.Indexes, indexRecordOf(d))
	}
	return r
}

func indexRecordOf(d schema.IndexDescriptor) IndexRecord {
	r := IndexRecord{
		Kind:        d.Kind(),
		Name:        d.Name(),
		Fingerprint: d.Fingerprint(),
	}
	for _, col := range d.Columns() {
		r.Fields = append(r.Fields, IndexFieldRecord{
			Property:   col.PropertyName(),
			Descending: col.Descending,
		})
	}
	return r
}

const (
	encodingRaw byte = iota
	encodingLZ4
)

// records smaller than this are not worth compressing
const compressThreshold = 256

// encodeRecord writes msgpack, lz4 compressed when it pays off.
//
//	raw: 0x00 | msgpack
//	lz4: 0x01 | uint32 raw length | lz4 block
func encodeRecord(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode record")
	}

	if len(data) >= compressThreshold {
		buf := make([]byte, 5+lz4.CompressBlockBound(len(data)))
		var hashTable [1 << 16]int
		n, err := lz4.CompressBlock(data, buf[5:], hashTable[:])
		if err != nil {
			return nil, errors.Wrap(err, "compress record")
		}
		// n == 0 means incompressible
		if n > 0 && n+5 < len(data)+1 {
			buf[0] = encodingLZ4
			binary.BigEndian.PutUint32(buf[1:5], uint32(len(data)))
			return buf[:5+n], nil
		}
	}

	return append([]byte{encodingRaw}, data...), nil
}

func decodeRecord(b []byte, v any) error {
	if len(b) == 0 {
		return errors.New("decode record: empty value")
	}

	data := b[1:]

	switch b[0] {
	case encodingRaw:
	case encodingLZ4:
		if len(data) < 4 {
			return errors.New("decode record: truncated header")
		}
		size := int(binary.BigEndian.Uint32(data[:4]))
		// lz4 expands a block at most 255 times
		if size > len(data[4:])*255 {
			return errors.Newf("decode record: raw length %d exceeds compressed length %d", size, len(data[4:]))
		}
		raw := make([]byte, size)
		n, err := lz4.UncompressBlock(data[4:], raw)
		if err != nil {
			return errors.Wrap(err, "decompress record")
		}
		data = raw[:n]
	default:
		return errors.Newf("decode record: unknown encoding %d", b[0])
	}

	if err := msgpack.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, "decode record")
	}
	return nil
}
