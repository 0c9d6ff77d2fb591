package compression

import "github.com/klauspost/compress/zstd"

// ZstdCompressor is the default codec for stored document content.
type ZstdCompressor struct{}

func (z ZstdCompressor) Compress(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer encoder.Close()

	// Authored content compresses well; half the input is a generous estimate.
	dst := make([]byte, 0, len(data)/2+64)
	return encoder.EncodeAll(data, dst), nil
}

func (z ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer decoder.Close()

	dst := make([]byte, 0, len(data)*4)
	return decoder.DecodeAll(data, dst)
}
