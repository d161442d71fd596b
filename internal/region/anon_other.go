//go:build !unix

package region

// NewAnon falls back to a Memory region where anonymous mappings are not
// available. Contents may move on growth.
func NewAnon(limit int) (Region, error) {
	m, err := NewMemory(limit)
	if err != nil {
		return nil, err
	}
	return m, nil
}
