package session

// CachedSearch is one filter-signature cache entry: the rendered reply plus
// the job ids behind it, in rendering order. Values are idempotent
// re-derivations of the same query, so last-writer-wins races are benign.
type CachedSearch struct {
	Response string
	JobIDs   []uint
}

// SearchCache is the shared filter-signature response cache. It is keyed by
// the canonical filter signature, not by identifier.
type SearchCache struct {
	m *expiringMap
}

func NewSearchCache() *SearchCache {
	return &SearchCache{m: newExpiringMap()}
}

func (c *SearchCache) Close() {
	c.m.close()
}

func (c *SearchCache) Get(signature string) (CachedSearch, bool) {
	v, ok := c.m.get(signature)
	if !ok {
		return CachedSearch{}, false
	}
	entry, ok := v.(CachedSearch)
	return entry, ok
}

func (c *SearchCache) Set(signature string, entry CachedSearch) {
	c.m.set(signature, entry, ResultsTTL)
}
