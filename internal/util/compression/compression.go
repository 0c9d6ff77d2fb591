// Package compression provides interchangeable compressors for stored document content.
package compression

// Compressor compresses and decompresses document payloads before they hit
// the database.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// NoopCompressor stores payloads as-is.
type NoopCompressor struct{}

func (NoopCompressor) Compress(data []byte) ([]byte, error)   { return data, nil }
func (NoopCompressor) Decompress(data []byte) ([]byte, error) { return data, nil }

// ForName maps a configured compression name to an implementation,
// defaulting to zstd.
func ForName(name string) Compressor {
	switch name {
	case "gzip":
		return GzipCompressor{}
	case "none":
		return NoopCompressor{}
	default:
		return ZstdCompressor{}
	}
}
