package postgres

// CompressionAlgo specifies the compression algorithm used for large
// payload columns.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)
