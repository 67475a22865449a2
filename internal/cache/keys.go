package cache

import (
	"fmt"
	"sort"
	"strings"

	"github.com/geocoder89/admindash/internal/store"
)

// Prefix covers every cached entry of a collection.
func Prefix(collection string) string {
	return collection + ":"
}

// ListKey is independent of the order the filters were given in. gen is the
// collection's generation, see Cache.
func ListKey(collection string, gen uint64, filter []store.Cond) string {
	parts := make([]string, 0, len(filter))
	for _, c := range filter {
		parts = append(parts, fmt.Sprintf("%s=%v", c.Field, c.Value))
	}
	sort.Strings(parts)

	return fmt.Sprintf("%slist:v1:g%d:%s", Prefix(collection), gen, strings.Join(parts, ":"))
}
