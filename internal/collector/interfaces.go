package collector

// Deduper filters out headlines that already went out in a previous digest.
// The storage package provides the persistent implementation; the default
// no-op store makes every headline look fresh.
type Deduper interface {
	SeenHeadline(id string) (bool, error)
	MarkHeadline(id string) error
}
