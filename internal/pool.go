package internal

import (
	"bytes"
	"sync"
)

// BufferPool holds scratch buffers for frame and packet encoding.
var BufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 1024))
	},
}
