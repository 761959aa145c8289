package cache

import (
	"bytes"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Snapshot is an immutable copy of a successful response
type Snapshot struct {
	StatusCode int
	Status     string
	Proto      string
	Header     http.Header
	Body       []byte
}

// NewSnapshot drains resp body into a snapshot and replaces the body so resp stays readable
func NewSnapshot(resp *http.Response) (*Snapshot, error) {
	var body []byte
	if resp.Body != nil {
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		body = data
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return &Snapshot{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Proto:      resp.Proto,
		Header:     resp.Header.Clone(),
		Body:       body,
	}, nil
}

// Response builds a fresh response for req
func (s *Snapshot) Response(req *http.Request) *http.Response {
	header := s.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set("X-Cache", "HIT")
	return &http.Response{
		StatusCode:    s.StatusCode,
		Status:        s.Status,
		Proto:         s.Proto,
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(s.Body)),
		ContentLength: int64(len(s.Body)),
		Request:       req,
	}
}

// Entry represents cached response
type Entry struct {
	Key      string
	Response *Snapshot
	StoredAt time.Time
}

// Cache maps request identity to the last successful response. Entries never expire,
// they are removed by Evict or EvictAll only.
type Cache struct {
	items *gocache.Cache
}

// Get returns an entry for key
func (c *Cache) Get(key string) (*Entry, bool) {
	value, ok := c.items.Get(key)
	if !ok {
		return nil, false
	}
	entry, ok := value.(*Entry)
	return entry, ok
}

// Put replaces the entry for key
func (c *Cache) Put(key string, snapshot *Snapshot) *Entry {
	entry := &Entry{Key: key, Response: snapshot, StoredAt: time.Now()}
	c.items.Set(key, entry, gocache.NoExpiration)
	return entry
}

// Evict removes one entry
func (c *Cache) Evict(key string) {
	c.items.Delete(key)
}

// EvictAll removes all entries
func (c *Cache) EvictAll() {
	c.items.Flush()
}

// Len returns entry count
func (c *Cache) Len() int {
	return c.items.ItemCount()
}

// Keys returns sorted cached keys
func (c *Cache) Keys() []string {
	items := c.items.Items()
	ret := make([]string, 0, len(items))
	for k := range items {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// String returns a short description used in logs
func (c *Cache) String() string {
	return "cache[" + strconv.Itoa(c.Len()) + "]"
}

// New creates a cache
func New() *Cache {
	return &Cache{items: gocache.New(gocache.NoExpiration, 0)}
}
