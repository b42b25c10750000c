package cache

import (
	"crypto/md5"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go-market-cache/internal/interfaces"
	"go-market-cache/internal/utils"
)

const keyPrefix = "market"

// Ensure KeyBuilderImpl implements interfaces.KeyBuilder
var _ interfaces.KeyBuilder = (*KeyBuilderImpl)(nil)

// KeyBuilderImpl implements the KeyBuilder interface
type KeyBuilderImpl struct{}

// NewKeyBuilder creates a new KeyBuilder instance
func NewKeyBuilder() interfaces.KeyBuilder {
	return &KeyBuilderImpl{}
}

// Build creates a cache key for an upstream GET: market:<path>:<md5 of canonical params>.
// Parameter order and empty values do not change the key.
func (kb *KeyBuilderImpl) Build(path string, params url.Values) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("path cannot be empty")
	}
	path = utils.NormalizePath(path)
	if path == "/" {
		return "", errors.New("path cannot be the API root")
	}

	// url.Values.Encode sorts by key
	var paramsHashStr string
	if canonical := utils.FilterParams(params).Encode(); canonical != "" {
		hasher := md5.New()
		hasher.Write([]byte(canonical))
		paramsHashStr = fmt.Sprintf("%x", hasher.Sum(nil))
	}

	return fmt.Sprintf("%s:%s:%s", keyPrefix, path, paramsHashStr), nil
}
