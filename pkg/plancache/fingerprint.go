package plancache

import (
	"fmt"

	"github.com/aretw0/strips/pkg/document"
	"github.com/aretw0/strips/pkg/domain"
	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns a stable key for the pair. It hashes the canonical
// YAML rendering, so formatting and comments of the source files do not
// change the key but any change to the model does.
func Fingerprint(d *domain.Domain, p *domain.Problem) (string, error) {
	data, err := document.Marshal(document.FromModel(d, p))
	if err != nil {
		return "", fmt.Errorf("failed to render model: %w", err)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}
