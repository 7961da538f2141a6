package qabalah

// Buffer is an immutable, reference-counted byte string. A Buffer is created
// with one reference held by its creator. It is never modified after
// creation; operators replace buffers, they do not edit them.
type Buffer struct {
	id    int
	data  []byte
	refs  int
	store *bufferStore
}

// NewBuffer adopts data as a new untracked buffer with one reference.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data, refs: 1}
}

// Bytes returns the buffer content. It must not be modified.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

// Len returns the content length in bytes.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// String returns the content as a string.
func (b *Buffer) String() string {
	if b == nil {
		return ""
	}
	return string(b.data)
}

// Refs returns the current reference count.
func (b *Buffer) Refs() int {
	if b == nil {
		return 0
	}
	return b.refs
}

// Retain adds a reference and returns b.
func (b *Buffer) Retain() *Buffer {
	if b == nil {
		return nil
	}
	if b.refs <= 0 {
		if b.store != nil {
			b.store.logger.WarnCat(CatMemory, "Attempted to retain released string %d", b.id)
		}
		return b
	}
	b.refs++
	if b.store != nil {
		b.store.logger.DebugCat(CatMemory, "String %d refcount incremented to %d", b.id, b.refs)
	}
	return b
}

// Release drops a reference. The content is discarded when the last
// reference goes.
func (b *Buffer) Release() {
	if b == nil {
		return
	}
	if b.refs <= 0 {
		if b.store != nil {
			b.store.logger.WarnCat(CatMemory, "Attempted to release freed string %d", b.id)
		}
		return
	}
	b.refs--
	if b.store != nil {
		b.store.logger.DebugCat(CatMemory, "String %d refcount decremented to %d", b.id, b.refs)
	}
	if b.refs == 0 {
		b.data = nil
		if b.store != nil {
			b.store.forget(b)
		}
	}
}

// bufferStore tracks the live buffers created by one interpreter.
type bufferStore struct {
	logger *Logger
	nextID int
	live   map[int]*Buffer
}

func newBufferStore(logger *Logger) *bufferStore {
	return &bufferStore{
		logger: logger,
		nextID: 1,
		live:   make(map[int]*Buffer),
	}
}

// adopt wraps data, which the caller gives up, in a tracked buffer.
func (s *bufferStore) adopt(data []byte) *Buffer {
	b := &Buffer{id: s.nextID, data: data, refs: 1, store: s}
	s.nextID++
	s.live[b.id] = b
	s.logger.DebugCat(CatMemory, "Stored string %d (len: %d, refcount: 1)", b.id, len(data))
	return b
}

// dup copies src into a new tracked buffer.
func (s *bufferStore) dup(src []byte) *Buffer {
	data := make([]byte, len(src))
	copy(data, src)
	return s.adopt(data)
}

func (s *bufferStore) forget(b *Buffer) {
	delete(s.live, b.id)
	s.logger.DebugCat(CatMemory, "String %d freed (refcount reached 0)", b.id)
}

// count returns the number of buffers still referenced.
func (s *bufferStore) count() int {
	return len(s.live)
}
