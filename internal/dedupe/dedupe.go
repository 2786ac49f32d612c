package dedupe

// Package dedupe provides shared singleflight groups used to collapse
// concurrent duplicate work inside one process. Cross-process duplicates
// are still rejected by the match store's revision check.

import "golang.org/x/sync/singleflight"

// ResolveGroup deduplicates round resolution attempts keyed by room id, so
// two submissions landing together run the simulator once.
var ResolveGroup singleflight.Group
